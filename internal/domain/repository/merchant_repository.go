package repository

import "github.com/minimanager/products-api/internal/domain/entity"

// MerchantRepository define el puerto de persistencia de comercios.
type MerchantRepository interface {
	Create(merchant *entity.Merchant) error
	GetByID(id string) (*entity.Merchant, error)
	List(limit, offset int) ([]*entity.Merchant, error)
}
