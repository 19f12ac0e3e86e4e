package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/minimanager/products-api/internal/domain"
	"github.com/minimanager/products-api/internal/domain/entity"
)

// Operation es la operación lógica solicitada sobre el stock.
type Operation string

const (
	OpAdjustTo Operation = "adjust_to" // fija la cantidad exacta
	OpAdd      Operation = "add"       // suma una cantidad positiva
	OpRemove   Operation = "remove"    // resta una cantidad positiva
)

// Decide traduce una operación solicitada más el balance actual en un delta
// con signo, o en un rechazo tipado (servicio de dominio puro, sin efectos).
//
//   - OpAdjustTo: delta = objetivo - actual. Nunca rechaza; validar que el
//     objetivo no sea negativo es responsabilidad del caller antes de llegar aquí.
//   - OpAdd: exige amount > 0; delta = +amount.
//   - OpRemove: exige amount > 0 y amount <= actual; delta = -amount.
func Decide(op Operation, amount, current decimal.Decimal) (decimal.Decimal, error) {
	switch op {
	case OpAdjustTo:
		return amount.Sub(current), nil
	case OpAdd:
		if !amount.GreaterThan(decimal.Zero) {
			return decimal.Zero, domain.ErrInvalidAmount
		}
		return amount, nil
	case OpRemove:
		if !amount.GreaterThan(decimal.Zero) {
			return decimal.Zero, domain.ErrInvalidAmount
		}
		if amount.GreaterThan(current) {
			return decimal.Zero, &domain.InsufficientStockError{
				Available: current,
				Requested: amount,
			}
		}
		return amount.Neg(), nil
	}
	return decimal.Zero, domain.ErrInvalidInput
}

// DefaultMovementType devuelve el tipo de movimiento que registra cada
// operación cuando el caller no indica uno: ajuste manual, compra o venta.
func DefaultMovementType(op Operation) string {
	switch op {
	case OpAdjustTo:
		return entity.MovementTypeAdjustment
	case OpAdd:
		return entity.MovementTypePurchase
	case OpRemove:
		return entity.MovementTypeSale
	}
	return entity.MovementTypeAdjustment
}
