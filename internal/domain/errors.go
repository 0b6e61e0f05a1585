package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound            = errors.New("recurso no encontrado")
	ErrInvalidInput        = errors.New("entrada inválida")
	ErrDuplicate           = errors.New("recurso duplicado")
	ErrUnauthorized        = errors.New("no autorizado")
	ErrForbidden           = errors.New("acceso denegado")
	ErrInsufficientBalance = errors.New("saldo insuficiente")
	// ErrRetryable: timeout de lock o deadlock; el llamador puede reintentar la operación completa.
	ErrRetryable = errors.New("operación no completada, reintentar")
)

// InsufficientBalanceError detalla el faltante de una baja.
// BatchID es 0 cuando el faltante es del saldo de stock (salida manual) y no de un lote.
type InsufficientBalanceError struct {
	BatchID   int64
	Product   string
	Variant   *string
	Requested int64
	Available int64
}

// Shortfall cantidad que falta para cubrir lo solicitado.
func (e *InsufficientBalanceError) Shortfall() int64 {
	return e.Requested - e.Available
}

func (e *InsufficientBalanceError) Error() string {
	if e.BatchID != 0 {
		return fmt.Sprintf("saldo insuficiente en lote %d: solicitado %d, disponible %d, faltan %d",
			e.BatchID, e.Requested, e.Available, e.Shortfall())
	}
	return fmt.Sprintf("saldo insuficiente de %s: solicitado %d, disponible %d, faltan %d",
		e.Product, e.Requested, e.Available, e.Shortfall())
}

// Is permite errors.Is(err, ErrInsufficientBalance).
func (e *InsufficientBalanceError) Is(target error) bool {
	return target == ErrInsufficientBalance
}

// BatchNotFoundError lote de producción referenciado que no existe.
type BatchNotFoundError struct {
	BatchID int64
}

func (e *BatchNotFoundError) Error() string {
	return fmt.Sprintf("lote %d no encontrado", e.BatchID)
}

// Is permite errors.Is(err, ErrNotFound).
func (e *BatchNotFoundError) Is(target error) bool {
	return target == ErrNotFound
}
