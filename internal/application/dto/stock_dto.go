package dto

import "time"

// ManualMovementRequest body para POST /api/stock/movements.
// kind: ENTRY | EXIT | BALANCE. Para BALANCE quantity es el saldo contado (>= 0).
type ManualMovementRequest struct {
	Product  string  `json:"product" validate:"required,max=200"`
	Variant  *string `json:"variant,omitempty" validate:"omitempty,max=120"`
	Kind     string  `json:"kind" validate:"required,oneof=ENTRY EXIT BALANCE entry exit balance"`
	Quantity int64   `json:"quantity" validate:"min=0"`
	Note     *string `json:"note,omitempty" validate:"omitempty,max=500"`
}

// ManualMovementResponse resultado del ajuste manual. Movement es nil si no hubo diferencia.
type ManualMovementResponse struct {
	Movement           *MovementResponse `json:"movement"`
	NoAdjustmentNeeded bool              `json:"no_adjustment_needed"`
	PreviousBalance    int64             `json:"previous_balance"`
	Balance            int64             `json:"balance"`
}

// MovementResponse movimiento del libro de stock.
type MovementResponse struct {
	ID            int64     `json:"id"`
	Product       string    `json:"product"`
	Variant       *string   `json:"variant"`
	Quantity      int64     `json:"quantity"`
	Kind          string    `json:"kind"`
	SourceBatchID *int64    `json:"source_batch_id,omitempty"`
	AssemblyID    *string   `json:"assembly_id,omitempty"`
	UserID        string    `json:"user_id"`
	Note          *string   `json:"note,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// MovementHistoryQuery query de GET /api/stock/movements. from/to en RFC3339, inclusivos; variant se lee aparte.
type MovementHistoryQuery struct {
	Page     int    `query:"page" validate:"omitempty,min=1"`
	PageSize int    `query:"page_size" validate:"omitempty,min=1"`
	Product  string `query:"product"`
	Kind     string `query:"kind"`
	From     string `query:"from"`
	To       string `query:"to"`
}

// MovementHistoryResponse página del historial.
type MovementHistoryResponse struct {
	PageResponse
	Movements []MovementResponse `json:"movements"`
}

// BalanceResponse saldo derivado de una clave (producto, variante).
type BalanceResponse struct {
	Product string  `json:"product"`
	Variant *string `json:"variant"`
	Balance int64   `json:"balance"`
}

// BalancesResponse saldos agrupados.
type BalancesResponse struct {
	Total    int               `json:"total"`
	Balances []BalanceResponse `json:"balances"`
}
