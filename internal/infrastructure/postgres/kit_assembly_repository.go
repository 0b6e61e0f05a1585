package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Piecework-api/internal/domain/entity"
	"github.com/jhoicas/Piecework-api/internal/domain/repository"
)

var _ repository.KitAssemblyRepository = (*KitAssemblyRepo)(nil)

// KitAssemblyRepo implementación sobre PostgreSQL (usable con pool o tx).
type KitAssemblyRepo struct {
	q Querier
}

// NewKitAssemblyRepository construye el adaptador. Pasar pool o tx (Querier).
func NewKitAssemblyRepository(q Querier) *KitAssemblyRepo {
	return &KitAssemblyRepo{q: q}
}

// Create inserta el registro de montaje y todos sus componentes. Debe llamarse dentro de la tx del montaje.
func (r *KitAssemblyRepo) Create(ctx context.Context, log *entity.KitAssemblyLog) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO kit_assembly_logs (id, kit_name, variant, quantity, assembled_by)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`,
		log.ID, log.KitName, log.Variant, log.Quantity, log.AssembledBy,
	).Scan(&log.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert kit assembly: %w", err)
	}
	if len(log.Components) == 0 {
		return nil
	}

	records := make([]goqu.Record, 0, len(log.Components))
	for _, c := range log.Components {
		records = append(records, goqu.Record{
			"assembly_id": log.ID,
			"batch_id":    c.BatchID,
			"quantity":    c.Quantity,
		})
	}
	query, args, err := dialect.Insert("kit_assembly_components").Rows(records).Prepared(true).ToSQL()
	if err != nil {
		return fmt.Errorf("build insert components: %w", err)
	}
	if _, err := r.q.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("insert kit assembly components: %w", err)
	}
	return nil
}

// GetByID obtiene el montaje con sus componentes ordenados por lote; nil si no existe.
func (r *KitAssemblyRepo) GetByID(ctx context.Context, id string) (*entity.KitAssemblyLog, error) {
	var log entity.KitAssemblyLog
	err := r.q.QueryRow(ctx, `
		SELECT id::text, kit_name, variant, quantity, assembled_by, created_at
		FROM kit_assembly_logs WHERE id = $1`, id,
	).Scan(&log.ID, &log.KitName, &log.Variant, &log.Quantity, &log.AssembledBy, &log.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get kit assembly: %w", err)
	}

	rows, err := r.q.Query(ctx, `
		SELECT batch_id, quantity FROM kit_assembly_components
		WHERE assembly_id = $1 ORDER BY batch_id`, id)
	if err != nil {
		return nil, fmt.Errorf("get kit assembly components: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var c entity.KitAssemblyComponent
		if err := rows.Scan(&c.BatchID, &c.Quantity); err != nil {
			return nil, fmt.Errorf("scan component: %w", err)
		}
		log.Components = append(log.Components, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &log, nil
}
