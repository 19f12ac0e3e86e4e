package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// AdjustStockRequest fija la cantidad exacta (corrección autoritativa).
type AdjustStockRequest struct {
	Quantity decimal.Decimal  `json:"quantity" validate:"required"`
	Notes    string           `json:"notes"`
	UnitCost *decimal.Decimal `json:"unit_cost"`
}

// ChangeStockRequest entrada/salida relativa de stock. Type vacío usa el
// tipo por defecto de la operación (PURCHASE al sumar, SALE al restar).
type ChangeStockRequest struct {
	Amount        decimal.Decimal  `json:"amount" validate:"required"`
	Type          string           `json:"type"`
	UnitCost      *decimal.Decimal `json:"unit_cost"`
	Notes         string           `json:"notes"`
	ReferenceID   string           `json:"reference_id"`
	ReferenceType string           `json:"reference_type"`
}

// BalanceResponse estado del balance de stock de un producto.
type BalanceResponse struct {
	ProductID  string          `json:"product_id"`
	MerchantID string          `json:"merchant_id"`
	Quantity   decimal.Decimal `json:"quantity"`
	Version    int64           `json:"version"`
	FrozenAt   *time.Time      `json:"frozen_at,omitempty"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// MovementResponse un asiento inmutable del libro de movimientos.
type MovementResponse struct {
	ID               string           `json:"id"`
	ProductID        string           `json:"product_id"`
	MerchantID       string           `json:"merchant_id"`
	Type             string           `json:"type"`
	Delta            decimal.Decimal  `json:"delta"`
	UnitCost         *decimal.Decimal `json:"unit_cost,omitempty"`
	PreviousQuantity decimal.Decimal  `json:"previous_quantity"`
	NewQuantity      decimal.Decimal  `json:"new_quantity"`
	ReferenceID      string           `json:"reference_id,omitempty"`
	ReferenceType    string           `json:"reference_type,omitempty"`
	Notes            string           `json:"notes,omitempty"`
	CreatedBy        string           `json:"created_by,omitempty"`
	CreatedAt        time.Time        `json:"created_at"`
}

// StockOperationResponse balance actualizado + movimiento registrado.
type StockOperationResponse struct {
	Balance  BalanceResponse   `json:"balance"`
	Movement *MovementResponse `json:"movement,omitempty"`
}

// MovementListResponse historial paginado.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
