package inventory

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/jhoicas/Piecework-api/internal/domain"
	"github.com/jhoicas/Piecework-api/internal/domain/entity"
	"github.com/jhoicas/Piecework-api/internal/domain/repository"
	"github.com/jhoicas/Piecework-api/pkg/logger"
)

// Tipos de ajuste manual.
const (
	ManualKindEntry   = "ENTRY"   // entrada: +qty
	ManualKindExit    = "EXIT"    // salida: -qty, exige saldo
	ManualKindBalance = "BALANCE" // balanço: qty es el saldo absoluto contado
)

// ManualMovementUseCase registra entradas, salidas y balanços sobre el libro de stock.
type ManualMovementUseCase struct {
	txRunner TxRunner
	tracer   trace.Tracer
	log      *logger.Logger
}

// NewManualMovementUseCase construye el caso de uso.
func NewManualMovementUseCase(txRunner TxRunner, tp trace.TracerProvider, log *logger.Logger) *ManualMovementUseCase {
	return &ManualMovementUseCase{txRunner: txRunner, tracer: tp.Tracer(tracerName), log: log}
}

// ManualMovementInput entrada del ajuste manual. Para BALANCE, Quantity es el saldo objetivo (>= 0).
type ManualMovementInput struct {
	Product  string
	Variant  *string
	Quantity int64
	Kind     string
	Note     *string
	UserID   string
}

// ManualMovementResult resultado del ajuste. Movement es nil cuando NoAdjustmentNeeded.
type ManualMovementResult struct {
	Movement           *entity.StockMovement
	NoAdjustmentNeeded bool
	PreviousBalance    int64
	Balance            int64
}

// RecordManualMovement aplica el ajuste en una transacción. El saldo se lee con el lock de la clave
// (producto, variante) tomado, de modo que dos ajustes concurrentes no calculan sobre el mismo saldo viejo.
func (uc *ManualMovementUseCase) RecordManualMovement(ctx context.Context, in ManualMovementInput) (result *ManualMovementResult, err error) {
	ctx, span := uc.tracer.Start(ctx, "ManualMovementUseCase.RecordManualMovement",
		trace.WithAttributes(
			attribute.String("kind", in.Kind),
			attribute.String("product", in.Product),
		))
	defer func() { endSpan(span, err) }()

	product := strings.TrimSpace(in.Product)
	userID := strings.TrimSpace(in.UserID)
	kind := strings.ToUpper(strings.TrimSpace(in.Kind))
	if product == "" || userID == "" {
		return nil, domain.ErrInvalidInput
	}
	switch kind {
	case ManualKindEntry, ManualKindExit:
		if in.Quantity <= 0 {
			return nil, domain.ErrInvalidInput
		}
	case ManualKindBalance:
		if in.Quantity < 0 {
			return nil, domain.ErrInvalidInput
		}
	default:
		return nil, domain.ErrInvalidInput
	}
	variant := entity.NormalizeVariantPtr(in.Variant)
	note := trimNote(in.Note)

	err = uc.txRunner.Run(ctx, func(
		_ repository.PieceworkBatchRepository,
		movRepo repository.StockMovementRepository,
		_ repository.KitAssemblyRepository,
	) error {
		if err := movRepo.LockKey(ctx, product, variant); err != nil {
			return err
		}
		balance, err := movRepo.Balance(ctx, product, variant)
		if err != nil {
			return err
		}

		res := &ManualMovementResult{PreviousBalance: balance, Balance: balance}
		var qty int64
		var movKind string
		switch kind {
		case ManualKindEntry:
			qty, movKind = in.Quantity, entity.MovementKindManualEntry
		case ManualKindExit:
			if balance < in.Quantity {
				return &domain.InsufficientBalanceError{
					Product:   product,
					Variant:   variant,
					Requested: in.Quantity,
					Available: balance,
				}
			}
			qty, movKind = -in.Quantity, entity.MovementKindManualExit
		case ManualKindBalance:
			delta := in.Quantity - balance
			switch {
			case delta == 0:
				res.NoAdjustmentNeeded = true
				result = res
				return nil
			case delta > 0:
				movKind = entity.MovementKindBalanceAdjustmentPos
			default:
				movKind = entity.MovementKindBalanceAdjustmentNeg
			}
			qty = delta
		}

		movement := &entity.StockMovement{
			Product:  product,
			Variant:  variant,
			Quantity: qty,
			Kind:     movKind,
			UserID:   userID,
			Note:     note,
		}
		if err := movRepo.Create(ctx, movement); err != nil {
			return err
		}
		res.Movement = movement
		res.Balance = balance + qty
		result = res
		return nil
	})
	if err != nil {
		return nil, err
	}

	ev := uc.log.Info().
		Str("kind", kind).
		Str("product", product).
		Str("variant", entity.VariantLabel(variant)).
		Int64("previous_balance", result.PreviousBalance).
		Int64("balance", result.Balance).
		Str("user_id", userID)
	if result.NoAdjustmentNeeded {
		ev.Msg("balanço sin diferencias, no se registra ajuste")
	} else {
		ev.Int64("movement_id", result.Movement.ID).Msg("ajuste manual registrado")
	}
	return result, nil
}
