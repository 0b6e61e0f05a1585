package inventory

import (
	"context"
	"math"
	"sort"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/jhoicas/Piecework-api/internal/domain"
	"github.com/jhoicas/Piecework-api/internal/domain/entity"
	"github.com/jhoicas/Piecework-api/internal/domain/repository"
	"github.com/jhoicas/Piecework-api/pkg/logger"
)

// ConsumptionUseCase convierte saldo de lotes de producción en stock de producto terminado,
// directamente (ReceiveProduction) o mediante montaje de kits (AssembleKit).
// Toda la operación ocurre en una transacción con bloqueo de fila (SELECT FOR UPDATE) por lote.
type ConsumptionUseCase struct {
	txRunner TxRunner
	kitRepo  repository.KitAssemblyRepository
	tracer   trace.Tracer
	log      *logger.Logger
}

// NewConsumptionUseCase construye el caso de uso. kitRepo (atado al pool) se usa solo para lecturas.
func NewConsumptionUseCase(
	txRunner TxRunner,
	kitRepo repository.KitAssemblyRepository,
	tp trace.TracerProvider,
	log *logger.Logger,
) *ConsumptionUseCase {
	return &ConsumptionUseCase{
		txRunner: txRunner,
		kitRepo:  kitRepo,
		tracer:   tp.Tracer(tracerName),
		log:      log,
	}
}

// ComponentInput cantidad a consumir de un lote.
type ComponentInput struct {
	BatchID  int64
	Quantity int64
}

// AssembleKitInput entrada para montar un kit.
type AssembleKitInput struct {
	KitName    string
	KitVariant *string
	Quantity   int64 // unidades de kit producidas
	Components []ComponentInput
	UserID     string
	Note       *string
}

// AssembleKitResult registro de auditoría y movimiento de entrada generados.
type AssembleKitResult struct {
	Assembly *entity.KitAssemblyLog
	Movement *entity.StockMovement
}

// AssembleKit consume saldo de N lotes y registra exactamente un movimiento KIT_ASSEMBLY_ENTRY y un
// KitAssemblyLog, todo o nada:
//  1. bloquea cada lote en orden ascendente de ID (evita deadlocks entre montajes con lotes en común);
//  2. relee el saldo disponible con el lock tomado;
//  3. si algún lote no alcanza, aborta con InsufficientBalanceError (lote y faltante) sin escribir nada;
//  4. incrementa quantity_consumed de cada lote;
//  5. inserta el log de montaje y el movimiento de stock del kit.
func (uc *ConsumptionUseCase) AssembleKit(ctx context.Context, in AssembleKitInput) (result *AssembleKitResult, err error) {
	ctx, span := uc.tracer.Start(ctx, "ConsumptionUseCase.AssembleKit",
		trace.WithAttributes(
			attribute.String("kit_name", in.KitName),
			attribute.Int("components", len(in.Components)),
		))
	defer func() { endSpan(span, err) }()

	kitName := strings.TrimSpace(in.KitName)
	userID := strings.TrimSpace(in.UserID)
	if kitName == "" || userID == "" || in.Quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}
	components, err := mergeComponents(in.Components)
	if err != nil {
		return nil, err
	}
	kitVariant := entity.NormalizeVariantPtr(in.KitVariant)

	err = uc.txRunner.Run(ctx, func(
		batchRepo repository.PieceworkBatchRepository,
		movRepo repository.StockMovementRepository,
		kitRepo repository.KitAssemblyRepository,
	) error {
		// Todos los locks antes de cualquier escritura.
		for _, c := range components {
			batch, err := batchRepo.GetForUpdate(ctx, c.BatchID)
			if err != nil {
				return err
			}
			if batch == nil {
				return &domain.BatchNotFoundError{BatchID: c.BatchID}
			}
			if available := batch.AvailableBalance(); available < c.Quantity {
				return &domain.InsufficientBalanceError{
					BatchID:   batch.ID,
					Product:   batch.Product,
					Variant:   batch.Variant,
					Requested: c.Quantity,
					Available: available,
				}
			}
		}
		for _, c := range components {
			if err := batchRepo.IncrementConsumed(ctx, c.BatchID, c.Quantity); err != nil {
				return err
			}
		}

		if err := movRepo.LockKey(ctx, kitName, kitVariant); err != nil {
			return err
		}
		assembly := &entity.KitAssemblyLog{
			ID:          uuid.NewString(),
			KitName:     kitName,
			Variant:     kitVariant,
			Quantity:    in.Quantity,
			AssembledBy: userID,
			Components:  components,
		}
		if err := kitRepo.Create(ctx, assembly); err != nil {
			return err
		}
		movement := &entity.StockMovement{
			Product:    kitName,
			Variant:    kitVariant,
			Quantity:   in.Quantity,
			Kind:       entity.MovementKindKitAssemblyEntry,
			AssemblyID: &assembly.ID,
			UserID:     userID,
			Note:       trimNote(in.Note),
		}
		if len(components) == 1 {
			movement.SourceBatchID = &components[0].BatchID
		}
		if err := movRepo.Create(ctx, movement); err != nil {
			return err
		}
		result = &AssembleKitResult{Assembly: assembly, Movement: movement}
		return nil
	})
	if err != nil {
		uc.log.Warn().Err(err).Str("kit_name", kitName).Msg("montaje de kit rechazado")
		return nil, err
	}

	uc.log.Info().
		Str("assembly_id", result.Assembly.ID).
		Str("kit_name", kitName).
		Str("variant", entity.VariantLabel(kitVariant)).
		Int64("quantity", in.Quantity).
		Int("components", len(components)).
		Str("user_id", userID).
		Msg("kit montado")
	return result, nil
}

// ReceiveProductionInput entrada para pasar saldo de un lote directamente a stock.
type ReceiveProductionInput struct {
	BatchID  int64
	Quantity int64
	UserID   string
	Note     *string
}

// ReceiveProduction consume qty del lote y registra un PRODUCTION_ENTRY (+qty) para el producto y
// variante del propio lote, en una transacción con la fila del lote bloqueada.
func (uc *ConsumptionUseCase) ReceiveProduction(ctx context.Context, in ReceiveProductionInput) (movement *entity.StockMovement, err error) {
	ctx, span := uc.tracer.Start(ctx, "ConsumptionUseCase.ReceiveProduction",
		trace.WithAttributes(attribute.Int64("batch_id", in.BatchID)))
	defer func() { endSpan(span, err) }()

	userID := strings.TrimSpace(in.UserID)
	if in.BatchID <= 0 || in.Quantity <= 0 || userID == "" {
		return nil, domain.ErrInvalidInput
	}

	err = uc.txRunner.Run(ctx, func(
		batchRepo repository.PieceworkBatchRepository,
		movRepo repository.StockMovementRepository,
		_ repository.KitAssemblyRepository,
	) error {
		batch, err := batchRepo.GetForUpdate(ctx, in.BatchID)
		if err != nil {
			return err
		}
		if batch == nil {
			return &domain.BatchNotFoundError{BatchID: in.BatchID}
		}
		if available := batch.AvailableBalance(); available < in.Quantity {
			return &domain.InsufficientBalanceError{
				BatchID:   batch.ID,
				Product:   batch.Product,
				Variant:   batch.Variant,
				Requested: in.Quantity,
				Available: available,
			}
		}
		if err := batchRepo.IncrementConsumed(ctx, batch.ID, in.Quantity); err != nil {
			return err
		}
		if err := movRepo.LockKey(ctx, batch.Product, batch.Variant); err != nil {
			return err
		}
		batchID := batch.ID
		movement = &entity.StockMovement{
			Product:       batch.Product,
			Variant:       batch.Variant,
			Quantity:      in.Quantity,
			Kind:          entity.MovementKindProductionEntry,
			SourceBatchID: &batchID,
			UserID:        userID,
			Note:          trimNote(in.Note),
		}
		return movRepo.Create(ctx, movement)
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Int64("batch_id", in.BatchID).
		Int64("movement_id", movement.ID).
		Int64("quantity", in.Quantity).
		Str("user_id", userID).
		Msg("producción ingresada a stock")
	return movement, nil
}

// GetAssembly obtiene un montaje con sus componentes.
func (uc *ConsumptionUseCase) GetAssembly(ctx context.Context, id string) (*entity.KitAssemblyLog, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrInvalidInput
	}
	assembly, err := uc.kitRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if assembly == nil {
		return nil, domain.ErrNotFound
	}
	return assembly, nil
}

// mergeComponents valida, suma componentes repetidos del mismo lote y ordena por ID ascendente
// (orden estable de adquisición de locks para todos los llamadores).
func mergeComponents(in []ComponentInput) ([]entity.KitAssemblyComponent, error) {
	if len(in) == 0 {
		return nil, domain.ErrInvalidInput
	}
	byBatch := make(map[int64]int64, len(in))
	for _, c := range in {
		if c.BatchID <= 0 || c.Quantity <= 0 {
			return nil, domain.ErrInvalidInput
		}
		// La suma de líneas repetidas no puede desbordar int64.
		if byBatch[c.BatchID] > math.MaxInt64-c.Quantity {
			return nil, domain.ErrInvalidInput
		}
		byBatch[c.BatchID] += c.Quantity
	}
	out := make([]entity.KitAssemblyComponent, 0, len(byBatch))
	for id, qty := range byBatch {
		out = append(out, entity.KitAssemblyComponent{BatchID: id, Quantity: qty})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BatchID < out[j].BatchID })
	return out, nil
}

func trimNote(note *string) *string {
	if note == nil {
		return nil
	}
	t := strings.TrimSpace(*note)
	if t == "" {
		return nil
	}
	return &t
}
