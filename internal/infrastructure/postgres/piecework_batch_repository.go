package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Piecework-api/internal/domain"
	"github.com/jhoicas/Piecework-api/internal/domain/entity"
	"github.com/jhoicas/Piecework-api/internal/domain/repository"
)

var _ repository.PieceworkBatchRepository = (*PieceworkBatchRepo)(nil)

const batchColumns = `id, order_ref, product, variant, quantity_completed, quantity_consumed, worker_id, created_at`

// PieceworkBatchRepo implementación sobre PostgreSQL (usable con pool o tx).
type PieceworkBatchRepo struct {
	q Querier
}

// NewPieceworkBatchRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPieceworkBatchRepository(q Querier) *PieceworkBatchRepo {
	return &PieceworkBatchRepo{q: q}
}

// Create persiste el lote. La restricción única sobre order_ref es la deduplicación por orden.
func (r *PieceworkBatchRepo) Create(ctx context.Context, b *entity.PieceworkBatch) error {
	query := `
		INSERT INTO piecework_batches (order_ref, product, variant, quantity_completed, worker_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, quantity_consumed, created_at`
	err := r.q.QueryRow(ctx, query, b.OrderRef, b.Product, b.Variant, b.QuantityCompleted, b.WorkerID).
		Scan(&b.ID, &b.QuantityConsumed, &b.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert piecework batch: %w", err)
	}
	return nil
}

// GetByID obtiene un lote por ID; nil si no existe.
func (r *PieceworkBatchRepo) GetByID(ctx context.Context, id int64) (*entity.PieceworkBatch, error) {
	return r.getOne(ctx, `SELECT `+batchColumns+` FROM piecework_batches WHERE id = $1`, id)
}

// GetByOrderRef obtiene el lote de una orden; nil si no existe.
func (r *PieceworkBatchRepo) GetByOrderRef(ctx context.Context, orderRef string) (*entity.PieceworkBatch, error) {
	return r.getOne(ctx, `SELECT `+batchColumns+` FROM piecework_batches WHERE order_ref = $1`, orderRef)
}

// GetForUpdate obtiene el lote y bloquea la fila (SELECT FOR UPDATE) hasta Commit o Rollback.
// Solo bloquea este lote: otros consumidores de lotes distintos no esperan.
func (r *PieceworkBatchRepo) GetForUpdate(ctx context.Context, id int64) (*entity.PieceworkBatch, error) {
	return r.getOne(ctx, `SELECT `+batchColumns+` FROM piecework_batches WHERE id = $1 FOR UPDATE`, id)
}

func (r *PieceworkBatchRepo) getOne(ctx context.Context, query string, arg any) (*entity.PieceworkBatch, error) {
	b, err := scanBatch(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get piecework batch: %w", err)
	}
	return b, nil
}

// IncrementConsumed suma qty al consumo. La condición del WHERE (y el CHECK de la tabla) impiden
// superar quantity_completed aunque el llamador no haya tomado el lock.
func (r *PieceworkBatchRepo) IncrementConsumed(ctx context.Context, id int64, qty int64) error {
	if qty <= 0 {
		return fmt.Errorf("increment consumed %d: %w", qty, domain.ErrInvalidInput)
	}
	cmd, err := r.q.Exec(ctx, `
		UPDATE piecework_batches
		SET quantity_consumed = quantity_consumed + $2
		WHERE id = $1 AND quantity_consumed + $2 <= quantity_completed`,
		id, qty,
	)
	if err != nil {
		if isCheckViolation(err) {
			return fmt.Errorf("lote %d: %w", id, domain.ErrInsufficientBalance)
		}
		return fmt.Errorf("increment consumed: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("lote %d: %w", id, domain.ErrInsufficientBalance)
	}
	return nil
}

// List lista lotes filtrados, más recientes primero, con el total del mismo filtro.
func (r *PieceworkBatchRepo) List(ctx context.Context, f repository.BatchFilter) ([]*entity.PieceworkBatch, int, error) {
	ds := dialect.From("piecework_batches")
	if f.Product != "" {
		ds = ds.Where(goqu.C("product").Eq(f.Product))
	}
	if f.ByVariant {
		ds = ds.Where(variantCond(f.Variant))
	}
	if f.WorkerID != "" {
		ds = ds.Where(goqu.C("worker_id").Eq(f.WorkerID))
	}
	if f.OnlyAvailable {
		ds = ds.Where(goqu.L("quantity_consumed < quantity_completed"))
	}

	countSQL, countArgs, err := ds.Select(goqu.COUNT(goqu.Star())).Prepared(true).ToSQL()
	if err != nil {
		return nil, 0, fmt.Errorf("build count batches: %w", err)
	}
	var total int
	if err := r.q.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count batches: %w", err)
	}

	pageSQL, pageArgs, err := ds.
		Select("id", "order_ref", "product", "variant", "quantity_completed", "quantity_consumed", "worker_id", "created_at").
		Order(goqu.C("id").Desc()).
		Limit(uint(f.Limit)).
		Offset(uint(f.Offset)).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, 0, fmt.Errorf("build list batches: %w", err)
	}
	rows, err := r.q.Query(ctx, pageSQL, pageArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("list batches: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.PieceworkBatch, 0, f.Limit)
	for rows.Next() {
		b, err := scanBatch(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan batch: %w", err)
		}
		list = append(list, b)
	}
	return list, total, rows.Err()
}

func scanBatch(row pgx.Row) (*entity.PieceworkBatch, error) {
	var b entity.PieceworkBatch
	err := row.Scan(&b.ID, &b.OrderRef, &b.Product, &b.Variant,
		&b.QuantityCompleted, &b.QuantityConsumed, &b.WorkerID, &b.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}
