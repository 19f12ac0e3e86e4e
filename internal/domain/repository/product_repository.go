package repository

import (
	"github.com/minimanager/products-api/internal/domain/entity"
)

// LowStockProduct combina el producto con su balance para el reporte de
// stock bajo (currentStock <= minimumStock, umbral nil excluido).
type LowStockProduct struct {
	Product *entity.Product
	Balance *entity.StockBalance
}

// ProductRepository define el puerto de persistencia de productos.
// El stock actual NO se lee ni escribe aquí: es del BalanceRepository.
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	GetByMerchantAndCode(merchantID, code string) (*entity.Product, error)
	Update(product *entity.Product) error
	// SoftDelete marca el producto como DELETED sin borrar la fila.
	SoftDelete(id string, status string) error
	ListByMerchant(merchantID string, limit, offset int) ([]*entity.Product, error)
	ListByCategory(merchantID, category string) ([]*entity.Product, error)
	ListCategories(merchantID string) ([]string, error)
	Search(merchantID, query string) ([]*entity.Product, error)
	// ListLowStock devuelve productos activos con balance en o bajo su umbral
	// mínimo. Productos sin umbral definido nunca aparecen.
	ListLowStock(merchantID string) ([]*LowStockProduct, error)
}
