package repository

import (
	"time"

	"github.com/minimanager/products-api/internal/domain/entity"
)

// BalanceRepository define el puerto para el balance de stock por producto.
// ConditionalUpdate es el primitivo de concurrencia optimista: escribe el
// nuevo balance solo si la versión almacenada sigue siendo expectedVersion,
// y devuelve domain.ErrVersionConflict si otro escritor confirmó primero.
// La atomicidad respecto a otros escritores la garantiza la implementación,
// sin locks externos del caller.
type BalanceRepository interface {
	// Get devuelve el balance del producto, o nil si no existe.
	Get(productID string) (*entity.StockBalance, error)
	Create(balance *entity.StockBalance) error
	ConditionalUpdate(productID string, expectedVersion int64, balance *entity.StockBalance) error
	// Freeze congela el balance de un producto retirado: el motor deja de
	// aceptar movimientos pero el historial sigue consultable.
	Freeze(productID string, at time.Time) error
}
