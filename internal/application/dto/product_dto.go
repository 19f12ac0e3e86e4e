package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto. InitialStock mayor
// que cero genera el movimiento de apertura junto con el balance.
type CreateProductRequest struct {
	Code         string           `json:"code" validate:"required,min=1,max=100"`
	Name         string           `json:"name" validate:"required,min=1,max=200"`
	Description  string           `json:"description"`
	Category     string           `json:"category"`
	Unit         string           `json:"unit" validate:"required"`
	CostPrice    decimal.Decimal  `json:"cost_price"`
	SalePrice    decimal.Decimal  `json:"sale_price"`
	MinimumStock *decimal.Decimal `json:"minimum_stock"`
	MaximumStock *decimal.Decimal `json:"maximum_stock"`
	ReorderPoint *decimal.Decimal `json:"reorder_point"`
	InitialStock decimal.Decimal  `json:"initial_stock"`
}

// UpdateProductRequest entrada para actualizar metadatos (el stock nunca se
// toca por aquí; usar las operaciones de stock).
type UpdateProductRequest struct {
	Code         *string          `json:"code" validate:"omitempty,min=1,max=100"`
	Name         *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Description  *string          `json:"description"`
	Category     *string          `json:"category"`
	Unit         *string          `json:"unit"`
	CostPrice    *decimal.Decimal `json:"cost_price"`
	SalePrice    *decimal.Decimal `json:"sale_price"`
	MinimumStock *decimal.Decimal `json:"minimum_stock"`
	MaximumStock *decimal.Decimal `json:"maximum_stock"`
	ReorderPoint *decimal.Decimal `json:"reorder_point"`
	Status       *string          `json:"status"`
}

// ProductResponse salida de un producto; Quantity viene del balance.
type ProductResponse struct {
	ID           string           `json:"id"`
	MerchantID   string           `json:"merchant_id"`
	Code         string           `json:"code"`
	Name         string           `json:"name"`
	Description  string           `json:"description"`
	Category     string           `json:"category"`
	Unit         string           `json:"unit"`
	CostPrice    decimal.Decimal  `json:"cost_price"`
	SalePrice    decimal.Decimal  `json:"sale_price"`
	MinimumStock *decimal.Decimal `json:"minimum_stock,omitempty"`
	MaximumStock *decimal.Decimal `json:"maximum_stock,omitempty"`
	ReorderPoint *decimal.Decimal `json:"reorder_point,omitempty"`
	Status       string           `json:"status"`
	Quantity     *decimal.Decimal `json:"quantity,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// LowStockItem producto con balance en o por debajo del umbral.
type LowStockItem struct {
	Product  ProductResponse `json:"product"`
	Quantity decimal.Decimal `json:"quantity"`
	Minimum  decimal.Decimal `json:"minimum"`
}
