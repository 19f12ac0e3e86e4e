package dto

import "time"

// CreateMerchantRequest entrada para crear un comercio.
type CreateMerchantRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=200"`
	Document string `json:"document" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
}

// MerchantResponse salida de un comercio.
type MerchantResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Document  string    `json:"document"`
	Email     string    `json:"email"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
