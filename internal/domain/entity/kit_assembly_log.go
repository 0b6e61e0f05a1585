package entity

import "time"

// KitAssemblyLog registro de auditoría (write-once) de un montaje de kit.
type KitAssemblyLog struct {
	ID          string
	KitName     string
	Variant     *string
	Quantity    int64
	AssembledBy string
	Components  []KitAssemblyComponent
	CreatedAt   time.Time
}

// KitAssemblyComponent cantidad consumida de un lote en un montaje.
type KitAssemblyComponent struct {
	BatchID  int64
	Quantity int64
}
