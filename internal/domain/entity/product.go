package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de producto.
const (
	ProductStatusActive   = "ACTIVE"
	ProductStatusInactive = "INACTIVE"
	ProductStatusDeleted  = "DELETED"
)

// Product representa un producto del catálogo de un comercio.
// El stock actual NO vive aquí: lo mantiene el motor de stock en
// StockBalance; el producto solo aporta metadatos (costo, umbrales).
type Product struct {
	ID           string
	MerchantID   string
	Code         string // código único por comercio
	Name         string
	Description  string
	Category     string
	Unit         string          // UN, KG, LT...
	CostPrice    decimal.Decimal // costo de reposición
	SalePrice    decimal.Decimal
	MinimumStock *decimal.Decimal // nil = sin umbral, nunca se reporta bajo
	MaximumStock *decimal.Decimal
	ReorderPoint *decimal.Decimal
	Status       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    *time.Time // soft delete; el balance queda congelado
}
