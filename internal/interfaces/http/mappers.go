package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Piecework-api/internal/application/dto"
	"github.com/jhoicas/Piecework-api/internal/domain/entity"
)

// variantQuery lee ?variant=. Ausente = sin filtro; presente (aunque vacío) filtra por la variante
// normalizada, donde vacío o placeholder significa "sin variante".
func variantQuery(c *fiber.Ctx) (byVariant bool, variant *string) {
	if !c.Context().QueryArgs().Has("variant") {
		return false, nil
	}
	return true, entity.NormalizeVariant(c.Query("variant"))
}

func toBatchResponse(b *entity.PieceworkBatch) dto.BatchResponse {
	return dto.BatchResponse{
		ID:                b.ID,
		OrderRef:          b.OrderRef,
		Product:           b.Product,
		Variant:           b.Variant,
		QuantityCompleted: b.QuantityCompleted,
		QuantityConsumed:  b.QuantityConsumed,
		AvailableBalance:  b.AvailableBalance(),
		WorkerID:          b.WorkerID,
		CreatedAt:         b.CreatedAt,
	}
}

func toMovementResponse(m *entity.StockMovement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:            m.ID,
		Product:       m.Product,
		Variant:       m.Variant,
		Quantity:      m.Quantity,
		Kind:          m.Kind,
		SourceBatchID: m.SourceBatchID,
		AssemblyID:    m.AssemblyID,
		UserID:        m.UserID,
		Note:          m.Note,
		CreatedAt:     m.CreatedAt,
	}
}

func toAssemblyResponse(a *entity.KitAssemblyLog) dto.AssemblyResponse {
	components := make([]dto.ComponentResponse, 0, len(a.Components))
	for _, c := range a.Components {
		components = append(components, dto.ComponentResponse{BatchID: c.BatchID, Quantity: c.Quantity})
	}
	return dto.AssemblyResponse{
		ID:          a.ID,
		KitName:     a.KitName,
		Variant:     a.Variant,
		Quantity:    a.Quantity,
		AssembledBy: a.AssembledBy,
		Components:  components,
		CreatedAt:   a.CreatedAt,
	}
}
