package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Piecework-api/internal/application/inventory"
	"github.com/jhoicas/Piecework-api/internal/domain/repository"
)

// Ensure TxRunner implements inventory.TxRunner.
var _ inventory.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
// El Rollback diferido libera todos los locks en cualquier salida, incluidos errores y panics.
func (r *TxRunner) Run(ctx context.Context, fn func(
	batchRepo repository.PieceworkBatchRepository,
	movRepo repository.StockMovementRepository,
	kitRepo repository.KitAssemblyRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return classifyTxError(fmt.Errorf("begin transaction: %w", err))
	}
	defer func() { _ = tx.Rollback(context.WithoutCancel(ctx)) }()

	batchRepo := NewPieceworkBatchRepository(tx)
	movRepo := NewStockMovementRepository(tx)
	kitRepo := NewKitAssemblyRepository(tx)

	if err := fn(batchRepo, movRepo, kitRepo); err != nil {
		return classifyTxError(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return classifyTxError(fmt.Errorf("commit transaction: %w", err))
	}
	return nil
}
