package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Piecework-api/internal/domain/entity"
)

// MovementFilter filtros del historial de movimientos. El mismo predicado se usa para la página y el total.
type MovementFilter struct {
	Product string
	// ByVariant activa el filtro por Variant (Variant nil = "sin variante").
	ByVariant bool
	Variant   *string
	Kind      string
	From      *time.Time
	To        *time.Time
	Limit     int
	Offset    int
}

// BalanceFilter filtros de saldos agrupados.
type BalanceFilter struct {
	Product   string
	ByVariant bool
	Variant   *string
}

// StockMovementRepository define el puerto del libro de stock (solo inserción; el saldo es siempre derivado).
type StockMovementRepository interface {
	Create(ctx context.Context, movement *entity.StockMovement) error
	Balance(ctx context.Context, product string, variant *string) (int64, error)
	// LockKey toma un lock exclusivo de transacción sobre la clave (producto, variante).
	LockKey(ctx context.Context, product string, variant *string) error
	List(ctx context.Context, filter MovementFilter) ([]*entity.StockMovement, int, error)
	Balances(ctx context.Context, filter BalanceFilter) ([]entity.StockBalance, error)
}
