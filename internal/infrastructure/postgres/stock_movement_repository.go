package postgres

import (
	"context"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Piecework-api/internal/domain/entity"
	"github.com/jhoicas/Piecework-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo implementación sobre PostgreSQL (usable con pool o tx).
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create inserta un movimiento. No existe Update ni Delete: el libro es solo inserción.
func (r *StockMovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	query := `
		INSERT INTO stock_movements (product, variant, quantity, kind, source_batch_id, assembly_id, user_id, note)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at`
	err := r.q.QueryRow(ctx, query,
		m.Product, m.Variant, m.Quantity, m.Kind, m.SourceBatchID, m.AssemblyID, m.UserID, m.Note,
	).Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		return fmt.Errorf("create stock movement: %w", err)
	}
	return nil
}

// Balance suma de cantidades de la clave. IS NOT DISTINCT FROM hace que NULL = NULL (sin variante).
func (r *StockMovementRepo) Balance(ctx context.Context, product string, variant *string) (int64, error) {
	var balance int64
	err := r.q.QueryRow(ctx, `
		SELECT COALESCE(SUM(quantity), 0)::BIGINT
		FROM stock_movements
		WHERE product = $1 AND variant IS NOT DISTINCT FROM $2`,
		product, variant,
	).Scan(&balance)
	if err != nil {
		return 0, fmt.Errorf("stock balance: %w", err)
	}
	return balance, nil
}

// LockKey lock advisory de transacción sobre (producto, variante); se libera en Commit o Rollback.
// Espera como máximo lock_timeout de la sesión.
func (r *StockMovementRepo) LockKey(ctx context.Context, product string, variant *string) error {
	if _, err := r.q.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, stockKey(product, variant)); err != nil {
		return fmt.Errorf("lock stock key: %w", err)
	}
	return nil
}

// stockKey clave textual de la variante; \x1f no aparece en nombres de producto.
func stockKey(product string, variant *string) string {
	if variant == nil {
		return product
	}
	return product + "\x1f" + *variant
}

// List historial filtrado, más reciente primero (desempate por id), con el total del mismo filtro.
func (r *StockMovementRepo) List(ctx context.Context, f repository.MovementFilter) ([]*entity.StockMovement, int, error) {
	ds := dialect.From("stock_movements")
	if f.Product != "" {
		ds = ds.Where(goqu.C("product").Eq(f.Product))
	}
	if f.ByVariant {
		ds = ds.Where(variantCond(f.Variant))
	}
	if f.Kind != "" {
		ds = ds.Where(goqu.C("kind").Eq(f.Kind))
	}
	if f.From != nil {
		ds = ds.Where(goqu.C("created_at").Gte(*f.From))
	}
	if f.To != nil {
		ds = ds.Where(goqu.C("created_at").Lte(*f.To))
	}

	countSQL, countArgs, err := ds.Select(goqu.COUNT(goqu.Star())).Prepared(true).ToSQL()
	if err != nil {
		return nil, 0, fmt.Errorf("build count movements: %w", err)
	}
	var total int
	if err := r.q.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count movements: %w", err)
	}

	pageSQL, pageArgs, err := ds.
		Select(
			"id", "product", "variant", "quantity", "kind", "source_batch_id",
			goqu.L("assembly_id::text").As("assembly_id"), "user_id", "note", "created_at",
		).
		Order(goqu.C("created_at").Desc(), goqu.C("id").Desc()).
		Limit(uint(f.Limit)).
		Offset(uint(f.Offset)).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, 0, fmt.Errorf("build list movements: %w", err)
	}
	rows, err := r.q.Query(ctx, pageSQL, pageArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.StockMovement, 0, f.Limit)
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, m)
	}
	return list, total, rows.Err()
}

// Balances una fila por clave con movimientos, incluidas las de saldo cero.
func (r *StockMovementRepo) Balances(ctx context.Context, f repository.BalanceFilter) ([]entity.StockBalance, error) {
	ds := dialect.From("stock_movements").
		Select(
			goqu.C("product"),
			goqu.C("variant"),
			goqu.L("SUM(quantity)::BIGINT").As("balance"),
		).
		GroupBy(goqu.C("product"), goqu.C("variant")).
		Order(goqu.C("product").Asc(), goqu.C("variant").Asc().NullsFirst())
	if f.Product != "" {
		ds = ds.Where(goqu.C("product").Eq(f.Product))
	}
	if f.ByVariant {
		ds = ds.Where(variantCond(f.Variant))
	}
	query, args, err := ds.Prepared(true).ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build balances: %w", err)
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list balances: %w", err)
	}
	defer rows.Close()
	var out []entity.StockBalance
	for rows.Next() {
		var b entity.StockBalance
		if err := rows.Scan(&b.Product, &b.Variant, &b.Balance); err != nil {
			return nil, fmt.Errorf("scan balance: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func scanMovement(row pgx.Row) (*entity.StockMovement, error) {
	var m entity.StockMovement
	err := row.Scan(&m.ID, &m.Product, &m.Variant, &m.Quantity, &m.Kind,
		&m.SourceBatchID, &m.AssemblyID, &m.UserID, &m.Note, &m.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}
