package repository

import "github.com/minimanager/products-api/internal/domain/entity"

// UserRepository define el puerto de persistencia de usuarios.
type UserRepository interface {
	Create(user *entity.User) error
	FindByEmail(email string) (*entity.User, error)
	GetByEmailAndMerchant(email, merchantID string) (*entity.User, error)
}
