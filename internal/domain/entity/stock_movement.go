package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de stock.
const (
	MovementTypePurchase   = "PURCHASE"   // compra / entrada
	MovementTypeSale       = "SALE"       // venta / salida
	MovementTypeAdjustment = "ADJUSTMENT" // ajuste manual
	MovementTypeProduction = "PRODUCTION" // producción
	MovementTypeLoss       = "LOSS"       // pérdida / merma
	MovementTypeReturn     = "RETURN"     // devolución
	MovementTypeTransfer   = "TRANSFER"   // transferencia
	MovementTypeInventory  = "INVENTORY"  // conteo de inventario
)

// ValidMovementType verifica que el tipo pertenezca al catálogo.
func ValidMovementType(t string) bool {
	switch t {
	case MovementTypePurchase, MovementTypeSale, MovementTypeAdjustment,
		MovementTypeProduction, MovementTypeLoss, MovementTypeReturn,
		MovementTypeTransfer, MovementTypeInventory:
		return true
	}
	return false
}

// StockMovement es el registro inmutable de un cambio de cantidad.
// Se crea una sola vez, en el commit del motor, y nunca se actualiza ni
// borra: es el libro mayor de auditoría del stock.
// Invariante: NewQuantity = PreviousQuantity + Delta, exacto.
type StockMovement struct {
	ID               string
	ProductID        string
	MerchantID       string
	Type             string
	Delta            decimal.Decimal  // positivo = entrada, negativo = salida
	UnitCost         *decimal.Decimal // informativo, no participa en el balance
	PreviousQuantity decimal.Decimal
	NewQuantity      decimal.Decimal
	ReferenceID      string // opcional: id de la operación que lo originó
	ReferenceType    string // opcional: "order", "invoice", etc.
	Notes            string
	CreatedBy        string
	CreatedAt        time.Time
}
