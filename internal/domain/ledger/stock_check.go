package ledger

import "github.com/shopspring/decimal"

// IsLowStock indica si la cantidad está en o por debajo del umbral mínimo.
// Un producto sin umbral (nil) nunca se reporta bajo.
func IsLowStock(quantity decimal.Decimal, minimum *decimal.Decimal) bool {
	if minimum == nil {
		return false
	}
	return quantity.LessThanOrEqual(*minimum)
}

// IsAvailable indica si hay stock disponible (cantidad > 0).
func IsAvailable(quantity decimal.Decimal) bool {
	return quantity.GreaterThan(decimal.Zero)
}
