package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/jhoicas/Piecework-api/internal/domain"
	"github.com/jhoicas/Piecework-api/internal/domain/entity"
	"github.com/jhoicas/Piecework-api/internal/domain/repository"
	"github.com/jhoicas/Piecework-api/pkg/logger"
)

// PieceworkUseCase registra y consulta lotes de producción por pieza.
// El consumo de saldo de un lote nunca ocurre aquí (ver ConsumptionUseCase).
type PieceworkUseCase struct {
	batchRepo  repository.PieceworkBatchRepository
	pagination Pagination
	tracer     trace.Tracer
	log        *logger.Logger
}

// NewPieceworkUseCase construye el caso de uso. batchRepo debe estar atado al pool.
func NewPieceworkUseCase(
	batchRepo repository.PieceworkBatchRepository,
	pagination Pagination,
	tp trace.TracerProvider,
	log *logger.Logger,
) *PieceworkUseCase {
	return &PieceworkUseCase{
		batchRepo:  batchRepo,
		pagination: pagination,
		tracer:     tp.Tracer(tracerName),
		log:        log,
	}
}

// RecordBatchInput entrada para registrar un lote terminado.
type RecordBatchInput struct {
	OrderRef string
	Product  string
	Variant  *string
	Quantity int64
	WorkerID string
}

// RecordBatch crea el lote de la orden. ErrDuplicate si la orden ya tiene lote; reenviar la misma
// orden es la forma de reintentar sin duplicar.
func (uc *PieceworkUseCase) RecordBatch(ctx context.Context, in RecordBatchInput) (batch *entity.PieceworkBatch, err error) {
	ctx, span := uc.tracer.Start(ctx, "PieceworkUseCase.RecordBatch",
		trace.WithAttributes(attribute.String("order_ref", in.OrderRef)))
	defer func() { endSpan(span, err) }()

	orderRef := strings.TrimSpace(in.OrderRef)
	product := strings.TrimSpace(in.Product)
	workerID := strings.TrimSpace(in.WorkerID)
	if orderRef == "" || product == "" || workerID == "" || in.Quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}

	batch = &entity.PieceworkBatch{
		OrderRef:          orderRef,
		Product:           product,
		Variant:           entity.NormalizeVariantPtr(in.Variant),
		QuantityCompleted: in.Quantity,
		WorkerID:          workerID,
	}
	if err := uc.batchRepo.Create(ctx, batch); err != nil {
		return nil, err
	}

	uc.log.Info().
		Int64("batch_id", batch.ID).
		Str("order_ref", batch.OrderRef).
		Str("product", batch.Product).
		Str("variant", entity.VariantLabel(batch.Variant)).
		Int64("quantity", batch.QuantityCompleted).
		Str("worker_id", batch.WorkerID).
		Msg("lote de producción registrado")
	return batch, nil
}

// GetBatch obtiene un lote por ID.
func (uc *PieceworkUseCase) GetBatch(ctx context.Context, id int64) (*entity.PieceworkBatch, error) {
	if id <= 0 {
		return nil, domain.ErrInvalidInput
	}
	batch, err := uc.batchRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if batch == nil {
		return nil, &domain.BatchNotFoundError{BatchID: id}
	}
	return batch, nil
}

// BatchQuery filtros y página para listar lotes.
type BatchQuery struct {
	Product       string
	ByVariant     bool
	Variant       *string
	WorkerID      string
	OnlyAvailable bool
	Page          int
	PageSize      int
}

// ListBatches lista lotes, más recientes primero.
func (uc *PieceworkUseCase) ListBatches(ctx context.Context, q BatchQuery) (result *Page[*entity.PieceworkBatch], err error) {
	ctx, span := uc.tracer.Start(ctx, "PieceworkUseCase.ListBatches")
	defer func() { endSpan(span, err) }()

	page, size, offset := uc.pagination.normalize(q.Page, q.PageSize)
	filter := repository.BatchFilter{
		Product:       strings.TrimSpace(q.Product),
		ByVariant:     q.ByVariant,
		WorkerID:      strings.TrimSpace(q.WorkerID),
		OnlyAvailable: q.OnlyAvailable,
		Limit:         size,
		Offset:        offset,
	}
	if q.ByVariant {
		filter.Variant = entity.NormalizeVariantPtr(q.Variant)
	}
	rows, total, err := uc.batchRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &Page[*entity.PieceworkBatch]{
		Rows:      rows,
		Total:     total,
		Page:      page,
		PageSize:  size,
		PageCount: pageCount(total, size),
	}, nil
}

// ImportSummary resultado de una importación de lotes.
type ImportSummary struct {
	Created int
	Skipped int // órdenes que ya tenían lote
}

// ImportBatches registra los lotes en orden. Una orden ya registrada se cuenta como omitida, así
// reimportar el mismo archivo no duplica lotes. Se detiene en el primer error de otro tipo.
func (uc *PieceworkUseCase) ImportBatches(ctx context.Context, rows []RecordBatchInput) (ImportSummary, error) {
	var summary ImportSummary
	for i, in := range rows {
		_, err := uc.RecordBatch(ctx, in)
		switch {
		case err == nil:
			summary.Created++
		case errors.Is(err, domain.ErrDuplicate):
			existing, lookupErr := uc.batchRepo.GetByOrderRef(ctx, strings.TrimSpace(in.OrderRef))
			if lookupErr != nil {
				return summary, fmt.Errorf("fila %d (orden %q): %w", i+1, in.OrderRef, lookupErr)
			}
			if existing == nil || !sameBatchData(existing, in) {
				return summary, fmt.Errorf("fila %d (orden %q): ya existe otro lote con datos distintos: %w",
					i+1, in.OrderRef, domain.ErrDuplicate)
			}
			uc.log.Debug().
				Int64("batch_id", existing.ID).
				Str("order_ref", existing.OrderRef).
				Msg("orden ya registrada, fila omitida")
			summary.Skipped++
		default:
			return summary, fmt.Errorf("fila %d (orden %q): %w", i+1, in.OrderRef, err)
		}
	}
	uc.log.Info().
		Int("created", summary.Created).
		Int("skipped", summary.Skipped).
		Msg("importación de lotes finalizada")
	return summary, nil
}

// sameBatchData indica si la fila describe el mismo lote ya registrado.
func sameBatchData(b *entity.PieceworkBatch, in RecordBatchInput) bool {
	return b.Product == strings.TrimSpace(in.Product) &&
		entity.SameVariant(b.Variant, entity.NormalizeVariantPtr(in.Variant)) &&
		b.QuantityCompleted == in.Quantity &&
		b.WorkerID == strings.TrimSpace(in.WorkerID)
}
