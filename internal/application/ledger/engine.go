package ledger

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/minimanager/products-api/internal/domain"
	"github.com/minimanager/products-api/internal/domain/entity"
	"github.com/minimanager/products-api/internal/domain/ledger"
	"github.com/minimanager/products-api/internal/domain/repository"
)

// DefaultMaxRetries reintentos del commit condicional ante conflicto de versión.
const DefaultMaxRetries = 5

// Engine es el motor del libro de stock: muta la cantidad actual de un
// producto y registra en la misma unidad atómica el movimiento que describe
// esa mutación. Invariante: el balance visible siempre es la suma de los
// deltas de todos los movimientos confirmados.
//
// Concurrencia optimista, sin locks: lee (balance, versión), calcula el
// delta con la política de movimientos, e intenta un commit condicionado a
// que la versión no haya cambiado. Si otro escritor confirmó primero,
// relee y reintenta hasta maxRetries. El motor no guarda estado entre
// llamadas; todo el estado compartido vive en los stores.
type Engine struct {
	txRunner   TxRunner
	balances   repository.BalanceRepository
	clock      Clock
	ids        IDGenerator
	maxRetries int
}

// NewEngine construye el motor. maxRetries <= 0 usa DefaultMaxRetries.
func NewEngine(txRunner TxRunner, balances repository.BalanceRepository, clock Clock, ids IDGenerator, maxRetries int) *Engine {
	if maxRetries <= 0 {
		maxRetries = DefaultMaxRetries
	}
	return &Engine{
		txRunner:   txRunner,
		balances:   balances,
		clock:      clock,
		ids:        ids,
		maxRetries: maxRetries,
	}
}

// MovementInput metadatos de la operación; Type vacío usa el tipo por
// defecto de la operación (ADJUSTMENT, PURCHASE o SALE).
type MovementInput struct {
	MerchantID    string
	ProductID     string
	Type          string
	UnitCost      *decimal.Decimal
	Notes         string
	ReferenceID   string
	ReferenceType string
	CreatedBy     string
}

// MovementResult balance actualizado + movimiento confirmado.
type MovementResult struct {
	Balance  *entity.StockBalance
	Movement *entity.StockMovement
}

// AdjustTo fija la cantidad exacta del producto (corrección autoritativa).
// El objetivo debe ser >= 0; eso se valida aquí, antes de la política.
func (e *Engine) AdjustTo(ctx context.Context, in MovementInput, target decimal.Decimal) (*MovementResult, error) {
	if target.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	return e.Apply(ctx, ledger.OpAdjustTo, target, in)
}

// Add suma una cantidad positiva al stock (entrada).
func (e *Engine) Add(ctx context.Context, in MovementInput, amount decimal.Decimal) (*MovementResult, error) {
	return e.Apply(ctx, ledger.OpAdd, amount, in)
}

// Remove resta una cantidad positiva del stock (salida). Nunca deja el
// balance negativo: rechaza con InsufficientStockError sin escribir nada.
func (e *Engine) Remove(ctx context.Context, in MovementInput, amount decimal.Decimal) (*MovementResult, error) {
	return e.Apply(ctx, ledger.OpRemove, amount, in)
}

// Apply ejecuta una operación de stock con el ciclo leer → decidir →
// commit condicional → reintentar:
//
//  1. Lee (cantidad, versión) del balance. Sin balance o congelado:
//     ErrProductNotFound, nada escrito.
//  2. La política traduce la operación en un delta o un rechazo tipado.
//  3. Construye el movimiento candidato (previous/new capturados ahora) y
//     el balance candidato (versión + 1).
//  4. Confirma ambos en una transacción, condicionada a que la versión
//     almacenada siga siendo la leída en (1).
//  5. Con ErrVersionConflict descarta el candidato y repite desde (1),
//     hasta maxRetries; agotados: ErrConcurrencyExhausted.
func (e *Engine) Apply(ctx context.Context, op ledger.Operation, amount decimal.Decimal, in MovementInput) (*MovementResult, error) {
	movType := in.Type
	if movType == "" {
		movType = ledger.DefaultMovementType(op)
	}
	if !entity.ValidMovementType(movType) {
		return nil, domain.ErrInvalidInput
	}

	for attempt := 0; attempt < e.maxRetries; attempt++ {
		bal, err := e.balances.Get(in.ProductID)
		if err != nil {
			return nil, err
		}
		if bal == nil || bal.Frozen() {
			return nil, domain.ErrProductNotFound
		}
		if in.MerchantID != "" && bal.MerchantID != in.MerchantID {
			return nil, domain.ErrForbidden
		}

		delta, err := ledger.Decide(op, amount, bal.Quantity)
		if err != nil {
			return nil, err
		}

		now := e.clock.Now()
		newBal := &entity.StockBalance{
			ProductID:  bal.ProductID,
			MerchantID: bal.MerchantID,
			Quantity:   bal.Quantity.Add(delta),
			Version:    bal.Version + 1,
			CreatedAt:  bal.CreatedAt,
			UpdatedAt:  now,
		}
		mov := &entity.StockMovement{
			ID:               e.ids.NewID(),
			ProductID:        bal.ProductID,
			MerchantID:       bal.MerchantID,
			Type:             movType,
			Delta:            delta,
			UnitCost:         in.UnitCost,
			PreviousQuantity: bal.Quantity,
			NewQuantity:      newBal.Quantity,
			ReferenceID:      in.ReferenceID,
			ReferenceType:    in.ReferenceType,
			Notes:            in.Notes,
			CreatedBy:        in.CreatedBy,
			CreatedAt:        now,
		}

		err = e.txRunner.Run(ctx, func(
			balanceRepo repository.BalanceRepository,
			movementRepo repository.MovementRepository,
			_ repository.ProductRepository,
		) error {
			if err := balanceRepo.ConditionalUpdate(bal.ProductID, bal.Version, newBal); err != nil {
				return err
			}
			return movementRepo.Append(mov)
		})
		if errors.Is(err, domain.ErrVersionConflict) {
			// Otro escritor ganó la ronda: releer el balance actualizado.
			continue
		}
		if err != nil {
			return nil, err
		}
		return &MovementResult{Balance: newBal, Movement: mov}, nil
	}
	return nil, domain.ErrConcurrencyExhausted
}

// OpenBalance crea el balance al crear el producto. Una cantidad inicial
// mayor que cero queda registrada como un ADJUSTMENT de apertura, en la
// misma transacción que el balance.
func (e *Engine) OpenBalance(ctx context.Context, productID, merchantID string, initial decimal.Decimal, unitCost *decimal.Decimal, createdBy string) (*MovementResult, error) {
	var result *MovementResult
	err := e.txRunner.Run(ctx, func(
		balanceRepo repository.BalanceRepository,
		movementRepo repository.MovementRepository,
		_ repository.ProductRepository,
	) error {
		var err error
		result, err = e.OpenBalanceWith(balanceRepo, movementRepo, productID, merchantID, initial, unitCost, createdBy)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// OpenBalanceWith es la variante sobre repos ya atados a una transacción:
// permite crear producto, balance y movimiento de apertura en la misma
// unidad atómica desde el caso de uso de productos.
func (e *Engine) OpenBalanceWith(balanceRepo repository.BalanceRepository, movementRepo repository.MovementRepository, productID, merchantID string, initial decimal.Decimal, unitCost *decimal.Decimal, createdBy string) (*MovementResult, error) {
	if initial.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	now := e.clock.Now()
	bal := &entity.StockBalance{
		ProductID:  productID,
		MerchantID: merchantID,
		Quantity:   initial,
		Version:    1,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := balanceRepo.Create(bal); err != nil {
		return nil, err
	}
	var mov *entity.StockMovement
	if initial.GreaterThan(decimal.Zero) {
		mov = &entity.StockMovement{
			ID:               e.ids.NewID(),
			ProductID:        productID,
			MerchantID:       merchantID,
			Type:             entity.MovementTypeAdjustment,
			Delta:            initial,
			UnitCost:         unitCost,
			PreviousQuantity: decimal.Zero,
			NewQuantity:      initial,
			Notes:            "Saldo inicial",
			CreatedBy:        createdBy,
			CreatedAt:        now,
		}
		if err := movementRepo.Append(mov); err != nil {
			return nil, err
		}
	}
	return &MovementResult{Balance: bal, Movement: mov}, nil
}
