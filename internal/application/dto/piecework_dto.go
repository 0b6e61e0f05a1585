package dto

import "time"

// RecordBatchRequest body para POST /api/piecework/batches.
type RecordBatchRequest struct {
	OrderRef string  `json:"order_ref" validate:"required,max=120"`
	Product  string  `json:"product" validate:"required,max=200"`
	Variant  *string `json:"variant,omitempty" validate:"omitempty,max=120"`
	Quantity int64   `json:"quantity" validate:"required,gt=0"`
	WorkerID string  `json:"worker_id" validate:"required,max=120"`
}

// BatchListQuery query de GET /api/piecework/batches. variant se lee aparte: presente y vacío = sin variante.
type BatchListQuery struct {
	Page          int    `query:"page" validate:"omitempty,min=1"`
	PageSize      int    `query:"page_size" validate:"omitempty,min=1"`
	Product       string `query:"product"`
	WorkerID      string `query:"worker_id"`
	OnlyAvailable bool   `query:"only_available"`
}

// BatchResponse lote de producción con su saldo disponible.
type BatchResponse struct {
	ID                int64     `json:"id"`
	OrderRef          string    `json:"order_ref"`
	Product           string    `json:"product"`
	Variant           *string   `json:"variant"`
	QuantityCompleted int64     `json:"quantity_completed"`
	QuantityConsumed  int64     `json:"quantity_consumed"`
	AvailableBalance  int64     `json:"available_balance"`
	WorkerID          string    `json:"worker_id"`
	CreatedAt         time.Time `json:"created_at"`
}

// BatchListResponse página de lotes.
type BatchListResponse struct {
	PageResponse
	Batches []BatchResponse `json:"batches"`
}

// ReceiveProductionRequest body para POST /api/piecework/batches/:id/receive.
type ReceiveProductionRequest struct {
	Quantity int64   `json:"quantity" validate:"required,gt=0"`
	Note     *string `json:"note,omitempty" validate:"omitempty,max=500"`
}

// ComponentRequest consumo de un lote dentro de un montaje.
type ComponentRequest struct {
	BatchID  int64 `json:"batch_id" validate:"required,gt=0"`
	Quantity int64 `json:"quantity" validate:"required,gt=0"`
}

// AssembleKitRequest body para POST /api/kits/assemblies.
type AssembleKitRequest struct {
	KitName    string             `json:"kit_name" validate:"required,max=200"`
	KitVariant *string            `json:"kit_variant,omitempty" validate:"omitempty,max=120"`
	Quantity   int64              `json:"quantity" validate:"required,gt=0"`
	Components []ComponentRequest `json:"components" validate:"required,min=1,dive"`
	Note       *string            `json:"note,omitempty" validate:"omitempty,max=500"`
}

// ComponentResponse componente persistido de un montaje.
type ComponentResponse struct {
	BatchID  int64 `json:"batch_id"`
	Quantity int64 `json:"quantity"`
}

// AssemblyResponse registro de montaje de kit.
type AssemblyResponse struct {
	ID          string              `json:"id"`
	KitName     string              `json:"kit_name"`
	Variant     *string             `json:"variant"`
	Quantity    int64               `json:"quantity"`
	AssembledBy string              `json:"assembled_by"`
	Components  []ComponentResponse `json:"components"`
	CreatedAt   time.Time           `json:"created_at"`
}

// AssembleKitResponse montaje y movimiento de entrada generados.
type AssembleKitResponse struct {
	Assembly AssemblyResponse `json:"assembly"`
	Movement MovementResponse `json:"movement"`
}
