package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Piecework-api/internal/application/dto"
	"github.com/jhoicas/Piecework-api/internal/application/inventory"
	"github.com/jhoicas/Piecework-api/internal/domain"
	"github.com/jhoicas/Piecework-api/internal/domain/entity"
)

// PieceworkService contrato que el handler necesita de *inventory.PieceworkUseCase.
type PieceworkService interface {
	RecordBatch(ctx context.Context, in inventory.RecordBatchInput) (*entity.PieceworkBatch, error)
	GetBatch(ctx context.Context, id int64) (*entity.PieceworkBatch, error)
	ListBatches(ctx context.Context, q inventory.BatchQuery) (*inventory.Page[*entity.PieceworkBatch], error)
}

// ProductionReceiver contrato para pasar saldo de un lote directamente a stock.
type ProductionReceiver interface {
	ReceiveProduction(ctx context.Context, in inventory.ReceiveProductionInput) (*entity.StockMovement, error)
}

// PieceworkHandler maneja las peticiones HTTP de lotes de producción por pieza (protegido).
type PieceworkHandler struct {
	uc       PieceworkService
	receiver ProductionReceiver
}

// NewPieceworkHandler construye el handler.
func NewPieceworkHandler(uc PieceworkService, receiver ProductionReceiver) *PieceworkHandler {
	return &PieceworkHandler{uc: uc, receiver: receiver}
}

// RecordBatch godoc
// @Summary      Registrar lote de producción
// @Tags         piecework
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RecordBatchRequest  true  "order_ref, product, variant, quantity, worker_id"
// @Success      201   {object}  dto.BatchResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/piecework/batches [post]
func (h *PieceworkHandler) RecordBatch(c *fiber.Ctx) error {
	var in dto.RecordBatchRequest
	if ok, err := bindAndValidate(c, &in); !ok {
		return err
	}
	batch, err := h.uc.RecordBatch(c.UserContext(), inventory.RecordBatchInput{
		OrderRef: in.OrderRef,
		Product:  in.Product,
		Variant:  in.Variant,
		Quantity: in.Quantity,
		WorkerID: in.WorkerID,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toBatchResponse(batch))
}

// GetBatch godoc
// @Summary      Obtener lote
// @Tags         piecework
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID del lote"
// @Success      200  {object}  dto.BatchResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/piecework/batches/{id} [get]
func (h *PieceworkHandler) GetBatch(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return writeError(c, domain.ErrInvalidInput)
	}
	batch, err := h.uc.GetBatch(c.UserContext(), int64(id))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toBatchResponse(batch))
}

// ListBatches godoc
// @Summary      Listar lotes
// @Tags         piecework
// @Security     Bearer
// @Produce      json
// @Param        product         query  string  false  "Producto"
// @Param        variant         query  string  false  "Variante (presente y vacío = sin variante)"
// @Param        worker_id       query  string  false  "Operario"
// @Param        only_available  query  bool    false  "Solo lotes con saldo"
// @Param        page            query  int     false  "Página (desde 1)"
// @Param        page_size       query  int     false  "Tamaño de página"
// @Success      200  {object}  dto.BatchListResponse
// @Router       /api/piecework/batches [get]
func (h *PieceworkHandler) ListBatches(c *fiber.Ctx) error {
	var q dto.BatchListQuery
	if ok, err := bindQuery(c, &q); !ok {
		return err
	}
	byVariant, variant := variantQuery(c)
	page, err := h.uc.ListBatches(c.UserContext(), inventory.BatchQuery{
		Product:       q.Product,
		ByVariant:     byVariant,
		Variant:       variant,
		WorkerID:      q.WorkerID,
		OnlyAvailable: q.OnlyAvailable,
		Page:          q.Page,
		PageSize:      q.PageSize,
	})
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.BatchResponse, 0, len(page.Rows))
	for _, b := range page.Rows {
		out = append(out, toBatchResponse(b))
	}
	return c.JSON(dto.BatchListResponse{
		PageResponse: dto.PageResponse{
			Page:      page.Page,
			PageSize:  page.PageSize,
			Total:     page.Total,
			PageCount: page.PageCount,
		},
		Batches: out,
	})
}

// ReceiveProduction godoc
// @Summary      Ingresar producción del lote a stock
// @Description  Consume saldo del lote y registra un PRODUCTION_ENTRY para su producto y variante.
// @Tags         piecework
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int                           true  "ID del lote"
// @Param        body  body  dto.ReceiveProductionRequest  true  "quantity, note"
// @Success      201   {object}  dto.MovementResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.InsufficientBalanceResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/piecework/batches/{id}/receive [post]
func (h *PieceworkHandler) ReceiveProduction(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return writeError(c, domain.ErrInvalidInput)
	}
	var in dto.ReceiveProductionRequest
	if ok, err := bindAndValidate(c, &in); !ok {
		return err
	}
	movement, err := h.receiver.ReceiveProduction(c.UserContext(), inventory.ReceiveProductionInput{
		BatchID:  int64(id),
		Quantity: in.Quantity,
		UserID:   userID,
		Note:     in.Note,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toMovementResponse(movement))
}
