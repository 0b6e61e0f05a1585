package entity

import "time"

// Tipos de movimiento del libro de stock.
const (
	MovementKindProductionEntry      = "PRODUCTION_ENTRY"       // entrada directa desde un lote
	MovementKindKitAssemblyEntry     = "KIT_ASSEMBLY_ENTRY"     // entrada por montaje de kit
	MovementKindManualEntry          = "MANUAL_ENTRY"           // entrada manual
	MovementKindManualExit           = "MANUAL_EXIT"            // salida manual
	MovementKindBalanceAdjustmentPos = "BALANCE_ADJUSTMENT_POS" // balanço a favor
	MovementKindBalanceAdjustmentNeg = "BALANCE_ADJUSTMENT_NEG" // balanço en contra
)

// ValidMovementKind indica si kind es uno de los tipos conocidos.
func ValidMovementKind(kind string) bool {
	switch kind {
	case MovementKindProductionEntry, MovementKindKitAssemblyEntry, MovementKindManualEntry,
		MovementKindManualExit, MovementKindBalanceAdjustmentPos, MovementKindBalanceAdjustmentNeg:
		return true
	}
	return false
}

// StockMovement entrada inmutable del libro de stock. Quantity es positiva para entradas y negativa para salidas.
// Las correcciones se registran como nuevos movimientos compensatorios.
type StockMovement struct {
	ID            int64
	Product       string
	Variant       *string
	Quantity      int64
	Kind          string
	SourceBatchID *int64
	AssemblyID    *string
	UserID        string
	Note          *string
	CreatedAt     time.Time
}

// StockBalance saldo derivado de una clave (producto, variante).
type StockBalance struct {
	Product string
	Variant *string
	Balance int64
}
