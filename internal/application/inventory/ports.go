package inventory

import (
	"context"

	"github.com/jhoicas/Piecework-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn devuelve error se hace Rollback de todo lo escrito; si no, Commit.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		batchRepo repository.PieceworkBatchRepository,
		movRepo repository.StockMovementRepository,
		kitRepo repository.KitAssemblyRepository,
	) error) error
}
