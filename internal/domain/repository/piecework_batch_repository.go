package repository

import (
	"context"

	"github.com/jhoicas/Piecework-api/internal/domain/entity"
)

// BatchFilter filtros para listar lotes de producción.
type BatchFilter struct {
	Product       string
	ByVariant     bool
	Variant       *string
	WorkerID      string
	OnlyAvailable bool // solo lotes con saldo disponible > 0
	Limit         int
	Offset        int
}

// PieceworkBatchRepository define el puerto de persistencia para lotes de producción por pieza.
type PieceworkBatchRepository interface {
	// Create persiste el lote; ErrDuplicate si ya existe uno para la misma orden.
	Create(ctx context.Context, batch *entity.PieceworkBatch) error
	GetByID(ctx context.Context, id int64) (*entity.PieceworkBatch, error)
	GetByOrderRef(ctx context.Context, orderRef string) (*entity.PieceworkBatch, error)
	// GetForUpdate obtiene el lote y bloquea la fila (SELECT FOR UPDATE). nil si no existe.
	GetForUpdate(ctx context.Context, id int64) (*entity.PieceworkBatch, error)
	// IncrementConsumed suma qty a quantity_consumed sin superar quantity_completed.
	IncrementConsumed(ctx context.Context, id int64, qty int64) error
	List(ctx context.Context, filter BatchFilter) ([]*entity.PieceworkBatch, int, error)
}
