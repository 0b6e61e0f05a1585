package dto

// PageResponse metadatos de página en respuestas.
type PageResponse struct {
	Page      int `json:"page"`
	PageSize  int `json:"page_size"`
	Total     int `json:"total"`
	PageCount int `json:"page_count"`
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	// Fields detalle por campo cuando falla la validación.
	Fields map[string]string `json:"fields,omitempty"`
}

// InsufficientBalanceResponse cuerpo 409 cuando un lote o una clave de stock no tiene saldo suficiente.
type InsufficientBalanceResponse struct {
	Code      string  `json:"code"`
	Message   string  `json:"message"`
	BatchID   *int64  `json:"batch_id,omitempty"`
	Product   string  `json:"product"`
	Variant   *string `json:"variant"`
	Requested int64   `json:"requested"`
	Available int64   `json:"available"`
	Shortfall int64   `json:"shortfall"`
}
