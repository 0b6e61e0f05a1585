package inventory

import (
	"context"
	"strings"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/jhoicas/Piecework-api/internal/domain"
	"github.com/jhoicas/Piecework-api/internal/domain/entity"
	"github.com/jhoicas/Piecework-api/internal/domain/repository"
)

// ReportingUseCase consultas de saldos agrupados e historial de movimientos (solo lectura).
type ReportingUseCase struct {
	movRepo    repository.StockMovementRepository
	pagination Pagination
	tracer     trace.Tracer
}

// NewReportingUseCase construye el caso de uso. movRepo debe estar atado al pool.
func NewReportingUseCase(movRepo repository.StockMovementRepository, pagination Pagination, tp trace.TracerProvider) *ReportingUseCase {
	return &ReportingUseCase{movRepo: movRepo, pagination: pagination, tracer: tp.Tracer(tracerName)}
}

// GetBalance saldo derivado de una clave (producto, variante).
func (uc *ReportingUseCase) GetBalance(ctx context.Context, product string, variant *string) (balance int64, err error) {
	ctx, span := uc.tracer.Start(ctx, "ReportingUseCase.GetBalance")
	defer func() { endSpan(span, err) }()

	product = strings.TrimSpace(product)
	if product == "" {
		return 0, domain.ErrInvalidInput
	}
	return uc.movRepo.Balance(ctx, product, entity.NormalizeVariantPtr(variant))
}

// BalanceQuery filtros de saldos. ByVariant activa el filtro por Variant (nil = "sin variante").
type BalanceQuery struct {
	Product   string
	ByVariant bool
	Variant   *string
}

// GetBalances una fila por (producto, variante) con historial; un saldo cero con movimientos se devuelve.
func (uc *ReportingUseCase) GetBalances(ctx context.Context, q BalanceQuery) (rows []entity.StockBalance, err error) {
	ctx, span := uc.tracer.Start(ctx, "ReportingUseCase.GetBalances")
	defer func() { endSpan(span, err) }()

	filter := repository.BalanceFilter{Product: strings.TrimSpace(q.Product), ByVariant: q.ByVariant}
	if q.ByVariant {
		filter.Variant = entity.NormalizeVariantPtr(q.Variant)
	}
	rows, err = uc.movRepo.Balances(ctx, filter)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []entity.StockBalance{}
	}
	return rows, nil
}

// HistoryQuery filtros y página del historial de movimientos. From y To son inclusivos.
type HistoryQuery struct {
	Product   string
	ByVariant bool
	Variant   *string
	Kind      string
	From      *time.Time
	To        *time.Time
	Page      int
	PageSize  int
}

// GetMovementHistory historial más reciente primero (desempate por ID). El total usa el mismo filtro
// que la página, así PageCount es coherente con el conjunto filtrado.
func (uc *ReportingUseCase) GetMovementHistory(ctx context.Context, q HistoryQuery) (result *Page[*entity.StockMovement], err error) {
	ctx, span := uc.tracer.Start(ctx, "ReportingUseCase.GetMovementHistory")
	defer func() { endSpan(span, err) }()

	kind := strings.ToUpper(strings.TrimSpace(q.Kind))
	if kind != "" && !entity.ValidMovementKind(kind) {
		return nil, domain.ErrInvalidInput
	}
	if q.From != nil && q.To != nil && q.From.After(*q.To) {
		return nil, domain.ErrInvalidInput
	}

	page, size, offset := uc.pagination.normalize(q.Page, q.PageSize)
	filter := repository.MovementFilter{
		Product:   strings.TrimSpace(q.Product),
		ByVariant: q.ByVariant,
		Kind:      kind,
		From:      q.From,
		To:        q.To,
		Limit:     size,
		Offset:    offset,
	}
	if q.ByVariant {
		filter.Variant = entity.NormalizeVariantPtr(q.Variant)
	}
	rows, total, err := uc.movRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []*entity.StockMovement{}
	}
	return &Page[*entity.StockMovement]{
		Rows:      rows,
		Total:     total,
		Page:      page,
		PageSize:  size,
		PageCount: pageCount(total, size),
	}, nil
}
