package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sin dependencias de infraestructura).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrProductNotFound    = errors.New("producto no encontrado o retirado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrInvalidAmount      = errors.New("la cantidad debe ser mayor que cero")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrInsufficientStock  = errors.New("stock insuficiente")

	// ErrVersionConflict: otro escritor confirmó primero. Interno al motor,
	// se reintenta automáticamente y solo escapa vía ErrConcurrencyExhausted.
	ErrVersionConflict = errors.New("conflicto de versión en el balance")

	// ErrConcurrencyExhausted: se agotaron los reintentos del commit
	// condicional. Transitorio: el caller puede repetir la operación completa.
	ErrConcurrencyExhausted = errors.New("reintentos de concurrencia agotados")

	// ErrStoreUnavailable: el almacenamiento no respondió (conexión caída,
	// timeout al abrir o confirmar la transacción).
	ErrStoreUnavailable = errors.New("almacenamiento no disponible")
)

// InsufficientStockError detalla un rechazo por stock insuficiente con las
// cantidades disponible y solicitada, para que el caller pueda informar sin
// parsear strings. errors.Is(err, ErrInsufficientStock) también lo detecta.
type InsufficientStockError struct {
	Available decimal.Decimal
	Requested decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente: disponible %s, solicitado %s",
		e.Available.String(), e.Requested.String())
}

// Is permite detectar el rechazo con el sentinel ErrInsufficientStock.
func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}
