package inventory

import (
	"context"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/jhoicas/Piecework-api/internal/domain"
	"github.com/jhoicas/Piecework-api/internal/domain/entity"
	"github.com/jhoicas/Piecework-api/pkg/logger"
)

// CountSheetRenderer genera el documento imprimible de una planilla de conteo.
type CountSheetRenderer interface {
	RenderCountSheet(ctx context.Context, sheet *CountSheet) ([]byte, error)
}

// CountSheet planilla para el conteo físico: saldos del sistema al momento de generarla.
// Lo contado se registra después como BALANCE por cada fila.
type CountSheet struct {
	GeneratedAt time.Time
	GeneratedBy string
	Product     string // filtro aplicado; "" = todos los productos
	Rows        []entity.StockBalance
}

// CountSheetUseCase arma planillas de conteo a partir de los saldos agrupados.
type CountSheetUseCase struct {
	reporting *ReportingUseCase
	renderer  CountSheetRenderer
	tracer    trace.Tracer
	log       *logger.Logger
	now       func() time.Time
}

// NewCountSheetUseCase construye el caso de uso.
func NewCountSheetUseCase(reporting *ReportingUseCase, renderer CountSheetRenderer, tp trace.TracerProvider, log *logger.Logger) *CountSheetUseCase {
	return &CountSheetUseCase{
		reporting: reporting,
		renderer:  renderer,
		tracer:    tp.Tracer(tracerName),
		log:       log,
		now:       time.Now,
	}
}

// GenerateCountSheet devuelve el documento con una fila por clave con historial, incluidas las de saldo cero.
func (uc *CountSheetUseCase) GenerateCountSheet(ctx context.Context, q BalanceQuery, userID string) (doc []byte, err error) {
	ctx, span := uc.tracer.Start(ctx, "CountSheetUseCase.GenerateCountSheet",
		trace.WithAttributes(attribute.String("product", q.Product)))
	defer func() { endSpan(span, err) }()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, domain.ErrInvalidInput
	}
	rows, err := uc.reporting.GetBalances(ctx, q)
	if err != nil {
		return nil, err
	}
	sheet := &CountSheet{
		GeneratedAt: uc.now().UTC(),
		GeneratedBy: userID,
		Product:     strings.TrimSpace(q.Product),
		Rows:        rows,
	}
	doc, err = uc.renderer.RenderCountSheet(ctx, sheet)
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("product", sheet.Product).
		Int("rows", len(rows)).
		Int("bytes", len(doc)).
		Str("user_id", userID).
		Msg("planilla de conteo generada")
	return doc, nil
}
