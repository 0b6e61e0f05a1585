package http

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Piecework-api/internal/application/dto"
	"github.com/jhoicas/Piecework-api/internal/application/inventory"
	"github.com/jhoicas/Piecework-api/internal/domain"
	"github.com/jhoicas/Piecework-api/internal/domain/entity"
)

// ManualMovementService contrato de *inventory.ManualMovementUseCase.
type ManualMovementService interface {
	RecordManualMovement(ctx context.Context, in inventory.ManualMovementInput) (*inventory.ManualMovementResult, error)
}

// ReportingService contrato de *inventory.ReportingUseCase.
type ReportingService interface {
	GetBalance(ctx context.Context, product string, variant *string) (int64, error)
	GetBalances(ctx context.Context, q inventory.BalanceQuery) ([]entity.StockBalance, error)
	GetMovementHistory(ctx context.Context, q inventory.HistoryQuery) (*inventory.Page[*entity.StockMovement], error)
}

// CountSheetService contrato de *inventory.CountSheetUseCase.
type CountSheetService interface {
	GenerateCountSheet(ctx context.Context, q inventory.BalanceQuery, userID string) ([]byte, error)
}

// StockHandler maneja ajustes manuales y consultas del libro de stock (protegido).
type StockHandler struct {
	manual     ManualMovementService
	reporting  ReportingService
	countSheet CountSheetService
}

// NewStockHandler construye el handler.
func NewStockHandler(manual ManualMovementService, reporting ReportingService, countSheet CountSheetService) *StockHandler {
	return &StockHandler{manual: manual, reporting: reporting, countSheet: countSheet}
}

// RecordManualMovement godoc
// @Summary      Registrar entrada, salida o balanço
// @Description  ENTRY suma quantity, EXIT resta quantity (exige saldo), BALANCE fija el saldo contado.
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ManualMovementRequest  true  "product, variant, kind, quantity, note"
// @Success      201   {object}  dto.ManualMovementResponse
// @Success      200   {object}  dto.ManualMovementResponse  "BALANCE sin diferencia"
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.InsufficientBalanceResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/stock/movements [post]
func (h *StockHandler) RecordManualMovement(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	var in dto.ManualMovementRequest
	if ok, err := bindAndValidate(c, &in); !ok {
		return err
	}
	res, err := h.manual.RecordManualMovement(c.UserContext(), inventory.ManualMovementInput{
		Product:  in.Product,
		Variant:  in.Variant,
		Quantity: in.Quantity,
		Kind:     strings.ToUpper(in.Kind),
		Note:     in.Note,
		UserID:   userID,
	})
	if err != nil {
		return writeError(c, err)
	}
	out := dto.ManualMovementResponse{
		NoAdjustmentNeeded: res.NoAdjustmentNeeded,
		PreviousBalance:    res.PreviousBalance,
		Balance:            res.Balance,
	}
	if res.Movement == nil {
		return c.Status(fiber.StatusOK).JSON(out)
	}
	m := toMovementResponse(res.Movement)
	out.Movement = &m
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetBalance godoc
// @Summary      Saldo de un producto y variante
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        product  query  string  true   "Producto"
// @Param        variant  query  string  false  "Variante (ausente o vacío = sin variante)"
// @Success      200  {object}  dto.BalanceResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/stock/balance [get]
func (h *StockHandler) GetBalance(c *fiber.Ctx) error {
	product := strings.TrimSpace(c.Query("product"))
	_, variant := variantQuery(c)
	balance, err := h.reporting.GetBalance(c.UserContext(), product, variant)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.BalanceResponse{Product: product, Variant: variant, Balance: balance})
}

// GetBalances godoc
// @Summary      Saldos agrupados por producto y variante
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        product  query  string  false  "Producto"
// @Param        variant  query  string  false  "Variante (presente y vacío = sin variante)"
// @Success      200  {object}  dto.BalancesResponse
// @Router       /api/stock/balances [get]
func (h *StockHandler) GetBalances(c *fiber.Ctx) error {
	byVariant, variant := variantQuery(c)
	rows, err := h.reporting.GetBalances(c.UserContext(), inventory.BalanceQuery{
		Product:   c.Query("product"),
		ByVariant: byVariant,
		Variant:   variant,
	})
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.BalanceResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.BalanceResponse{Product: r.Product, Variant: r.Variant, Balance: r.Balance})
	}
	return c.JSON(dto.BalancesResponse{Total: len(out), Balances: out})
}

// GetMovementHistory godoc
// @Summary      Historial de movimientos
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        product    query  string  false  "Producto"
// @Param        variant    query  string  false  "Variante (presente y vacío = sin variante)"
// @Param        kind       query  string  false  "Tipo de movimiento"
// @Param        from       query  string  false  "Desde (RFC3339, inclusivo)"
// @Param        to         query  string  false  "Hasta (RFC3339, inclusivo)"
// @Param        page       query  int     false  "Página (desde 1)"
// @Param        page_size  query  int     false  "Tamaño de página"
// @Success      200  {object}  dto.MovementHistoryResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/stock/movements [get]
func (h *StockHandler) GetMovementHistory(c *fiber.Ctx) error {
	var q dto.MovementHistoryQuery
	if ok, err := bindQuery(c, &q); !ok {
		return err
	}
	from, err := parseTimeParam(q.From)
	if err != nil {
		return writeError(c, err)
	}
	to, err := parseTimeParam(q.To)
	if err != nil {
		return writeError(c, err)
	}
	byVariant, variant := variantQuery(c)
	page, err := h.reporting.GetMovementHistory(c.UserContext(), inventory.HistoryQuery{
		Product:   q.Product,
		ByVariant: byVariant,
		Variant:   variant,
		Kind:      q.Kind,
		From:      from,
		To:        to,
		Page:      q.Page,
		PageSize:  q.PageSize,
	})
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.MovementResponse, 0, len(page.Rows))
	for _, m := range page.Rows {
		out = append(out, toMovementResponse(m))
	}
	return c.JSON(dto.MovementHistoryResponse{
		PageResponse: dto.PageResponse{
			Page:      page.Page,
			PageSize:  page.PageSize,
			Total:     page.Total,
			PageCount: page.PageCount,
		},
		Movements: out,
	})
}

// GetCountSheet godoc
// @Summary      Planilla de conteo en PDF
// @Description  Saldos actuales por producto y variante con columnas para anotar el conteo físico.
// @Tags         stock
// @Security     Bearer
// @Produce      application/pdf
// @Param        product  query  string  false  "Producto"
// @Param        variant  query  string  false  "Variante (presente y vacío = sin variante)"
// @Success      200  {file}    binary
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/stock/count-sheet [get]
func (h *StockHandler) GetCountSheet(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	byVariant, variant := variantQuery(c)
	doc, err := h.countSheet.GenerateCountSheet(c.UserContext(), inventory.BalanceQuery{
		Product:   c.Query("product"),
		ByVariant: byVariant,
		Variant:   variant,
	}, userID)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="conteo-%s.pdf"`, time.Now().UTC().Format("20060102-1504")))
	return c.Send(doc)
}

func parseTimeParam(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, domain.ErrInvalidInput
	}
	return &t, nil
}
