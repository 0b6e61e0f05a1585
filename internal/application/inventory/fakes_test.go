package inventory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.opentelemetry.io/otel/trace/noop"

	"github.com/jhoicas/Piecework-api/internal/domain"
	"github.com/jhoicas/Piecework-api/internal/domain/entity"
	"github.com/jhoicas/Piecework-api/internal/domain/repository"
	"github.com/jhoicas/Piecework-api/pkg/logger"
)

// memStore base en memoria con semántica transaccional: Run serializa, toma una copia del estado
// y la restaura si el callback falla.
type memStore struct {
	mu         sync.Mutex
	batches    map[int64]entity.PieceworkBatch
	movements  []entity.StockMovement
	assemblies map[string]entity.KitAssemblyLog
	nextBatch  int64
	nextMov    int64
	clock      time.Time

	// lockLog IDs de lote bloqueados (GetForUpdate), en orden.
	lockLog []int64
	// keyLog claves de stock bloqueadas (LockKey), en orden.
	keyLog []string
	// opLog secuencia de operaciones dentro de transacciones.
	opLog []string
	// failKitCreate error inyectado en KitAssemblyRepository.Create.
	failKitCreate error
}

func newMemStore() *memStore {
	return &memStore{
		batches:    map[int64]entity.PieceworkBatch{},
		assemblies: map[string]entity.KitAssemblyLog{},
		clock:      time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC),
	}
}

type memSnapshot struct {
	batches    map[int64]entity.PieceworkBatch
	movements  []entity.StockMovement
	assemblies map[string]entity.KitAssemblyLog
	nextBatch  int64
	nextMov    int64
}

func (s *memStore) snapshot() memSnapshot {
	snap := memSnapshot{
		batches:    make(map[int64]entity.PieceworkBatch, len(s.batches)),
		movements:  append([]entity.StockMovement(nil), s.movements...),
		assemblies: make(map[string]entity.KitAssemblyLog, len(s.assemblies)),
		nextBatch:  s.nextBatch,
		nextMov:    s.nextMov,
	}
	for k, v := range s.batches {
		snap.batches[k] = v
	}
	for k, v := range s.assemblies {
		snap.assemblies[k] = v
	}
	return snap
}

func (s *memStore) restore(snap memSnapshot) {
	s.batches = snap.batches
	s.movements = snap.movements
	s.assemblies = snap.assemblies
	s.nextBatch = snap.nextBatch
	s.nextMov = snap.nextMov
}

func (s *memStore) tick() time.Time {
	s.clock = s.clock.Add(time.Second)
	return s.clock
}

// Run implementa TxRunner.
func (s *memStore) Run(ctx context.Context, fn func(
	batchRepo repository.PieceworkBatchRepository,
	movRepo repository.StockMovementRepository,
	kitRepo repository.KitAssemblyRepository,
) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := s.snapshot()
	err := fn(&memBatchRepo{s: s, inTx: true}, &memMovementRepo{s: s, inTx: true}, &memKitRepo{s: s, inTx: true})
	if err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

func (s *memStore) lock(inTx bool) func() {
	if inTx {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

// seedBatch inserta un lote con consumo inicial (atajo de tests).
func (s *memStore) seedBatch(product string, variant *string, completed, consumed int64) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextBatch++
	s.batches[s.nextBatch] = entity.PieceworkBatch{
		ID:                s.nextBatch,
		OrderRef:          fmt.Sprintf("OP-%d", s.nextBatch),
		Product:           product,
		Variant:           variant,
		QuantityCompleted: completed,
		QuantityConsumed:  consumed,
		WorkerID:          "w-1",
		CreatedAt:         s.tick(),
	}
	return s.nextBatch
}

func (s *memStore) batch(id int64) entity.PieceworkBatch {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.batches[id]
}

func (s *memStore) movementCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.movements)
}

func (s *memStore) assemblyCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.assemblies)
}

func (s *memStore) batchRepo() *memBatchRepo       { return &memBatchRepo{s: s} }
func (s *memStore) movementRepo() *memMovementRepo { return &memMovementRepo{s: s} }
func (s *memStore) kitRepo() *memKitRepo           { return &memKitRepo{s: s} }

// ── lotes ────────────────────────────────────────────────────────────────────

type memBatchRepo struct {
	s    *memStore
	inTx bool
}

func (r *memBatchRepo) Create(_ context.Context, b *entity.PieceworkBatch) error {
	defer r.s.lock(r.inTx)()
	for _, existing := range r.s.batches {
		if existing.OrderRef == b.OrderRef {
			return domain.ErrDuplicate
		}
	}
	r.s.nextBatch++
	b.ID = r.s.nextBatch
	b.QuantityConsumed = 0
	b.CreatedAt = r.s.tick()
	r.s.batches[b.ID] = *b
	return nil
}

func (r *memBatchRepo) GetByID(_ context.Context, id int64) (*entity.PieceworkBatch, error) {
	defer r.s.lock(r.inTx)()
	b, ok := r.s.batches[id]
	if !ok {
		return nil, nil
	}
	return &b, nil
}

func (r *memBatchRepo) GetByOrderRef(_ context.Context, orderRef string) (*entity.PieceworkBatch, error) {
	defer r.s.lock(r.inTx)()
	for _, b := range r.s.batches {
		if b.OrderRef == orderRef {
			b := b
			return &b, nil
		}
	}
	return nil, nil
}

func (r *memBatchRepo) GetForUpdate(ctx context.Context, id int64) (*entity.PieceworkBatch, error) {
	if r.inTx {
		r.s.lockLog = append(r.s.lockLog, id)
		r.s.opLog = append(r.s.opLog, fmt.Sprintf("lock:%d", id))
	}
	return r.GetByID(ctx, id)
}

func (r *memBatchRepo) IncrementConsumed(_ context.Context, id int64, qty int64) error {
	defer r.s.lock(r.inTx)()
	if qty <= 0 {
		return fmt.Errorf("increment consumed %d: %w", qty, domain.ErrInvalidInput)
	}
	b, ok := r.s.batches[id]
	if !ok || b.QuantityConsumed+qty > b.QuantityCompleted {
		return fmt.Errorf("lote %d: %w", id, domain.ErrInsufficientBalance)
	}
	b.QuantityConsumed += qty
	r.s.batches[id] = b
	r.s.opLog = append(r.s.opLog, fmt.Sprintf("consume:%d", id))
	return nil
}

func (r *memBatchRepo) List(_ context.Context, f repository.BatchFilter) ([]*entity.PieceworkBatch, int, error) {
	defer r.s.lock(r.inTx)()
	var all []*entity.PieceworkBatch
	for _, b := range r.s.batches {
		if f.Product != "" && b.Product != f.Product {
			continue
		}
		if f.ByVariant && !entity.SameVariant(b.Variant, f.Variant) {
			continue
		}
		if f.WorkerID != "" && b.WorkerID != f.WorkerID {
			continue
		}
		if f.OnlyAvailable && b.AvailableBalance() <= 0 {
			continue
		}
		b := b
		all = append(all, &b)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })
	return paginate(all, f.Limit, f.Offset), len(all), nil
}

// ── movimientos ──────────────────────────────────────────────────────────────

type memMovementRepo struct {
	s    *memStore
	inTx bool
}

func (r *memMovementRepo) Create(_ context.Context, m *entity.StockMovement) error {
	defer r.s.lock(r.inTx)()
	if m.Quantity == 0 || !entity.ValidMovementKind(m.Kind) {
		return fmt.Errorf("movimiento inválido")
	}
	r.s.nextMov++
	m.ID = r.s.nextMov
	m.CreatedAt = r.s.tick()
	r.s.movements = append(r.s.movements, *m)
	r.s.opLog = append(r.s.opLog, "movement:"+m.Kind)
	return nil
}

func (r *memMovementRepo) Balance(_ context.Context, product string, variant *string) (int64, error) {
	defer r.s.lock(r.inTx)()
	var sum int64
	for _, m := range r.s.movements {
		if m.Product == product && entity.SameVariant(m.Variant, variant) {
			sum += m.Quantity
		}
	}
	if r.inTx {
		r.s.opLog = append(r.s.opLog, "balance")
	}
	return sum, nil
}

func (r *memMovementRepo) LockKey(_ context.Context, product string, variant *string) error {
	key := product + "|" + entity.VariantLabel(variant)
	r.s.keyLog = append(r.s.keyLog, key)
	r.s.opLog = append(r.s.opLog, "lockkey:"+key)
	return nil
}

func (r *memMovementRepo) List(_ context.Context, f repository.MovementFilter) ([]*entity.StockMovement, int, error) {
	defer r.s.lock(r.inTx)()
	var all []*entity.StockMovement
	for _, m := range r.s.movements {
		if f.Product != "" && m.Product != f.Product {
			continue
		}
		if f.ByVariant && !entity.SameVariant(m.Variant, f.Variant) {
			continue
		}
		if f.Kind != "" && m.Kind != f.Kind {
			continue
		}
		if f.From != nil && m.CreatedAt.Before(*f.From) {
			continue
		}
		if f.To != nil && m.CreatedAt.After(*f.To) {
			continue
		}
		m := m
		all = append(all, &m)
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].ID > all[j].ID
	})
	return paginate(all, f.Limit, f.Offset), len(all), nil
}

func (r *memMovementRepo) Balances(_ context.Context, f repository.BalanceFilter) ([]entity.StockBalance, error) {
	defer r.s.lock(r.inTx)()
	type key struct {
		product string
		hasVar  bool
		variant string
	}
	sums := map[key]int64{}
	for _, m := range r.s.movements {
		if f.Product != "" && m.Product != f.Product {
			continue
		}
		if f.ByVariant && !entity.SameVariant(m.Variant, f.Variant) {
			continue
		}
		k := key{product: m.Product, hasVar: m.Variant != nil, variant: entity.VariantLabel(m.Variant)}
		sums[k] += m.Quantity
	}
	var out []entity.StockBalance
	for k, sum := range sums {
		b := entity.StockBalance{Product: k.product, Balance: sum}
		if k.hasVar {
			v := k.variant
			b.Variant = &v
		}
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Product != out[j].Product {
			return out[i].Product < out[j].Product
		}
		if (out[i].Variant == nil) != (out[j].Variant == nil) {
			return out[i].Variant == nil
		}
		return entity.VariantLabel(out[i].Variant) < entity.VariantLabel(out[j].Variant)
	})
	return out, nil
}

// ── montajes ─────────────────────────────────────────────────────────────────

type memKitRepo struct {
	s    *memStore
	inTx bool
}

func (r *memKitRepo) Create(_ context.Context, log *entity.KitAssemblyLog) error {
	defer r.s.lock(r.inTx)()
	if r.s.failKitCreate != nil {
		return r.s.failKitCreate
	}
	log.CreatedAt = r.s.tick()
	stored := *log
	stored.Components = append([]entity.KitAssemblyComponent(nil), log.Components...)
	r.s.assemblies[log.ID] = stored
	r.s.opLog = append(r.s.opLog, "assembly")
	return nil
}

func (r *memKitRepo) GetByID(_ context.Context, id string) (*entity.KitAssemblyLog, error) {
	defer r.s.lock(r.inTx)()
	a, ok := r.s.assemblies[id]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func paginate[T any](all []T, limit, offset int) []T {
	if offset >= len(all) {
		return []T{}
	}
	end := offset + limit
	if limit <= 0 || end > len(all) {
		end = len(all)
	}
	return all[offset:end]
}

// ── constructores para tests ────────────────────────────────────────────────

var testTP = noop.NewTracerProvider()

func newTestPiecework(s *memStore) *PieceworkUseCase {
	return NewPieceworkUseCase(s.batchRepo(), DefaultPagination, testTP, logger.Nop())
}

func newTestConsumption(s *memStore) *ConsumptionUseCase {
	return NewConsumptionUseCase(s, s.kitRepo(), testTP, logger.Nop())
}

func newTestManual(s *memStore) *ManualMovementUseCase {
	return NewManualMovementUseCase(s, testTP, logger.Nop())
}

func newTestReporting(s *memStore) *ReportingUseCase {
	return NewReportingUseCase(s.movementRepo(), DefaultPagination, testTP)
}

func strPtr(s string) *string { return &s }
