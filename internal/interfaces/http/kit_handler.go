package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Piecework-api/internal/application/dto"
	"github.com/jhoicas/Piecework-api/internal/application/inventory"
	"github.com/jhoicas/Piecework-api/internal/domain/entity"
)

// KitAssembler contrato que el handler necesita de *inventory.ConsumptionUseCase.
type KitAssembler interface {
	AssembleKit(ctx context.Context, in inventory.AssembleKitInput) (*inventory.AssembleKitResult, error)
	GetAssembly(ctx context.Context, id string) (*entity.KitAssemblyLog, error)
}

// ConsumptionService reúne ambos consumos de saldo de lotes (*inventory.ConsumptionUseCase).
type ConsumptionService interface {
	ProductionReceiver
	KitAssembler
}

// KitHandler maneja el montaje de kits (protegido).
type KitHandler struct {
	uc KitAssembler
}

// NewKitHandler construye el handler.
func NewKitHandler(uc KitAssembler) *KitHandler {
	return &KitHandler{uc: uc}
}

// AssembleKit godoc
// @Summary      Montar kit
// @Description  Consume saldo de uno o más lotes y registra un KIT_ASSEMBLY_ENTRY. Todo o nada.
// @Tags         kits
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AssembleKitRequest  true  "kit_name, kit_variant, quantity, components"
// @Success      201   {object}  dto.AssembleKitResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.InsufficientBalanceResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/kits/assemblies [post]
func (h *KitHandler) AssembleKit(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	var in dto.AssembleKitRequest
	if ok, err := bindAndValidate(c, &in); !ok {
		return err
	}
	components := make([]inventory.ComponentInput, 0, len(in.Components))
	for _, comp := range in.Components {
		components = append(components, inventory.ComponentInput{BatchID: comp.BatchID, Quantity: comp.Quantity})
	}
	res, err := h.uc.AssembleKit(c.UserContext(), inventory.AssembleKitInput{
		KitName:    in.KitName,
		KitVariant: in.KitVariant,
		Quantity:   in.Quantity,
		Components: components,
		UserID:     userID,
		Note:       in.Note,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.AssembleKitResponse{
		Assembly: toAssemblyResponse(res.Assembly),
		Movement: toMovementResponse(res.Movement),
	})
}

// GetAssembly godoc
// @Summary      Obtener montaje de kit
// @Tags         kits
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del montaje (UUID)"
// @Success      200  {object}  dto.AssemblyResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/kits/assemblies/{id} [get]
func (h *KitHandler) GetAssembly(c *fiber.Ctx) error {
	assembly, err := h.uc.GetAssembly(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toAssemblyResponse(assembly))
}
