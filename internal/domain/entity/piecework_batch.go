package entity

import "time"

// PieceworkBatch lote de producción por pieza reportado por un trabajador para una orden.
// QuantityConsumed solo crece (bloqueo de fila en el motor de consumo) y nunca supera QuantityCompleted.
type PieceworkBatch struct {
	ID                int64
	OrderRef          string // clave de deduplicación: un lote por orden
	Product           string
	Variant           *string
	QuantityCompleted int64
	QuantityConsumed  int64
	WorkerID          string
	CreatedAt         time.Time
}

// AvailableBalance unidades aún no asignadas a inventario.
func (b *PieceworkBatch) AvailableBalance() int64 {
	return b.QuantityCompleted - b.QuantityConsumed
}
