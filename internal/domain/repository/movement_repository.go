package repository

import (
	"time"

	"github.com/minimanager/products-api/internal/domain/entity"
)

// MovementRepository define el puerto del libro mayor de movimientos:
// append-only, nunca update ni delete. Append debe participar en la misma
// unidad atómica que el ConditionalUpdate del balance (vía TxRunner).
type MovementRepository interface {
	// Append persiste un movimiento; asigna ID y CreatedAt si vienen vacíos.
	Append(movement *entity.StockMovement) error
	GetByID(id string) (*entity.StockMovement, error)
	// ListByProduct lista movimientos de un producto, más recientes primero.
	ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error)
	// ListByMerchant lista movimientos de un comercio, más recientes primero.
	ListByMerchant(merchantID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error)
}
