package repository

import (
	"context"

	"github.com/jhoicas/Piecework-api/internal/domain/entity"
)

// KitAssemblyRepository persiste los registros de auditoría de montaje de kits.
type KitAssemblyRepository interface {
	// Create inserta el registro y sus componentes.
	Create(ctx context.Context, log *entity.KitAssemblyLog) error
	GetByID(ctx context.Context, id string) (*entity.KitAssemblyLog, error)
}
