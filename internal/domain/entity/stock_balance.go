package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockBalance es la cantidad vigente de un producto, una fila por producto.
// Version crece en uno con cada commit y es el token del update condicional:
// un escritor solo materializa su cambio si la versión que leyó sigue vigente.
// FrozenAt distinto de nil marca el balance de un producto retirado; un
// balance congelado no acepta más movimientos pero conserva su historial.
type StockBalance struct {
	ProductID  string
	MerchantID string
	Quantity   decimal.Decimal
	Version    int64
	FrozenAt   *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Frozen indica si el balance está congelado.
func (b *StockBalance) Frozen() bool { return b.FrozenAt != nil }
