package ledger

import (
	"time"

	"github.com/minimanager/products-api/internal/domain"
	"github.com/minimanager/products-api/internal/domain/entity"
	"github.com/minimanager/products-api/internal/domain/repository"
)

// Límites de paginación del historial.
const (
	defaultPageSize = 50
	maxPageSize     = 500
)

// Queries lado de lectura del libro de stock: historial de movimientos y
// reporte de stock bajo. Solo consultas, sin mutación ni concurrencia.
type Queries struct {
	movements repository.MovementRepository
	products  repository.ProductRepository
}

// NewQueries construye el caso de uso de consultas.
func NewQueries(movements repository.MovementRepository, products repository.ProductRepository) *Queries {
	return &Queries{movements: movements, products: products}
}

// MovementsForProduct devuelve el historial de un producto, más recientes
// primero, con rango de fechas opcional. Verifica pertenencia al comercio.
func (q *Queries) MovementsForProduct(merchantID, productID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	product, err := q.products.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrProductNotFound
	}
	if product.MerchantID != merchantID {
		return nil, domain.ErrForbidden
	}
	limit, offset = clampPage(limit, offset)
	return q.movements.ListByProduct(productID, from, to, limit, offset)
}

// MovementByID devuelve un asiento del libro por su ID, para auditoría.
// Verifica que el asiento pertenezca al comercio.
func (q *Queries) MovementByID(merchantID, id string) (*entity.StockMovement, error) {
	movement, err := q.movements.GetByID(id)
	if err != nil {
		return nil, err
	}
	if movement == nil {
		return nil, domain.ErrNotFound
	}
	if movement.MerchantID != merchantID {
		return nil, domain.ErrForbidden
	}
	return movement, nil
}

// MovementsForMerchant devuelve el historial de todos los productos del
// comercio, más recientes primero, con rango de fechas opcional.
func (q *Queries) MovementsForMerchant(merchantID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	limit, offset = clampPage(limit, offset)
	return q.movements.ListByMerchant(merchantID, from, to, limit, offset)
}

// LowStock devuelve los productos activos del comercio con stock en o por
// debajo de su umbral mínimo. Sin umbral definido = nunca bajo.
func (q *Queries) LowStock(merchantID string) ([]*repository.LowStockProduct, error) {
	return q.products.ListLowStock(merchantID)
}

func clampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
