package ledger_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appledger "github.com/minimanager/products-api/internal/application/ledger"
	"github.com/minimanager/products-api/internal/domain"
	"github.com/minimanager/products-api/internal/domain/entity"
	"github.com/minimanager/products-api/internal/domain/repository"
	"github.com/minimanager/products-api/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

const (
	testMerchantID = "00000000-0000-0000-0000-00000000000a"
	testProductID  = "00000000-0000-0000-0000-00000000000b"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// fixedClock reloj determinista para los tests.
type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

// seqIDs genera IDs secuenciales predecibles, seguro para goroutines.
type seqIDs struct {
	mu sync.Mutex
	n  int
}

func (g *seqIDs) NewID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("mov-%04d", g.n)
}

// newTestEngine construye motor + store en memoria con un balance sembrado.
func newTestEngine(t *testing.T, initial string) (*appledger.Engine, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	clock := fixedClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	engine := appledger.NewEngine(store, store.Balances(), clock, &seqIDs{}, 0)

	require.NoError(t, store.Balances().Create(&entity.StockBalance{
		ProductID:  testProductID,
		MerchantID: testMerchantID,
		Quantity:   dec(initial),
		Version:    1,
		CreatedAt:  clock.Now(),
		UpdatedAt:  clock.Now(),
	}))
	return engine, store
}

func input() appledger.MovementInput {
	return appledger.MovementInput{
		MerchantID: testMerchantID,
		ProductID:  testProductID,
		CreatedBy:  "tester",
	}
}

func currentBalance(t *testing.T, store *memory.Store) *entity.StockBalance {
	t.Helper()
	bal, err := store.Balances().Get(testProductID)
	require.NoError(t, err)
	require.NotNil(t, bal)
	return bal
}

func productMovements(t *testing.T, store *memory.Store) []*entity.StockMovement {
	t.Helper()
	movements, err := store.Movements().ListByProduct(testProductID, nil, nil, 0, 0)
	require.NoError(t, err)
	return movements
}

// ──────────────────────────────────────────────────────────────────────────────
// AdjustTo
// ──────────────────────────────────────────────────────────────────────────────

func TestAdjustTo_FijaCantidadExacta(t *testing.T) {
	engine, store := newTestEngine(t, "10")

	res, err := engine.AdjustTo(context.Background(), input(), dec("7"))
	require.NoError(t, err)

	assert.True(t, dec("7").Equal(res.Balance.Quantity))
	assert.Equal(t, int64(2), res.Balance.Version)
	assert.Equal(t, entity.MovementTypeAdjustment, res.Movement.Type)
	assert.True(t, dec("-3").Equal(res.Movement.Delta))
	assert.True(t, dec("10").Equal(res.Movement.PreviousQuantity))
	assert.True(t, dec("7").Equal(res.Movement.NewQuantity))

	// Persistido, no solo devuelto.
	bal := currentBalance(t, store)
	assert.True(t, dec("7").Equal(bal.Quantity))
	assert.Len(t, productMovements(t, store), 1)
}

func TestAdjustTo_MismaCantidadRegistraDeltaCero(t *testing.T) {
	engine, store := newTestEngine(t, "10")

	res, err := engine.AdjustTo(context.Background(), input(), dec("10"))
	require.NoError(t, err)

	assert.True(t, res.Movement.Delta.IsZero())
	assert.Equal(t, int64(2), currentBalance(t, store).Version)
}

func TestAdjustTo_ObjetivoNegativoRechazado(t *testing.T) {
	engine, store := newTestEngine(t, "10")

	_, err := engine.AdjustTo(context.Background(), input(), dec("-1"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// Nada escrito.
	assert.True(t, dec("10").Equal(currentBalance(t, store).Quantity))
	assert.Empty(t, productMovements(t, store))
}

// ──────────────────────────────────────────────────────────────────────────────
// Add / Remove
// ──────────────────────────────────────────────────────────────────────────────

func TestAdd_RegistraEntrada(t *testing.T) {
	engine, store := newTestEngine(t, "10")

	cost := dec("2.50")
	in := input()
	in.UnitCost = &cost
	res, err := engine.Add(context.Background(), in, dec("5"))
	require.NoError(t, err)

	assert.True(t, dec("15").Equal(res.Balance.Quantity))
	assert.Equal(t, entity.MovementTypePurchase, res.Movement.Type)
	assert.True(t, dec("5").Equal(res.Movement.Delta))
	require.NotNil(t, res.Movement.UnitCost)
	assert.True(t, cost.Equal(*res.Movement.UnitCost))
	assert.True(t, dec("15").Equal(currentBalance(t, store).Quantity))
}

func TestAdd_TipoExplicitoSobreescribeElDefault(t *testing.T) {
	engine, _ := newTestEngine(t, "10")

	in := input()
	in.Type = entity.MovementTypeReturn
	res, err := engine.Add(context.Background(), in, dec("2"))
	require.NoError(t, err)
	assert.Equal(t, entity.MovementTypeReturn, res.Movement.Type)
}

func TestAdd_CantidadNoPositivaRechazada(t *testing.T) {
	engine, store := newTestEngine(t, "10")

	for _, amount := range []string{"0", "-3"} {
		_, err := engine.Add(context.Background(), input(), dec(amount))
		assert.ErrorIs(t, err, domain.ErrInvalidAmount, "cantidad %s", amount)
	}
	assert.Empty(t, productMovements(t, store))
}

func TestRemove_DescuentaHastaCero(t *testing.T) {
	engine, store := newTestEngine(t, "3")

	res, err := engine.Remove(context.Background(), input(), dec("3"))
	require.NoError(t, err)

	assert.True(t, res.Balance.Quantity.IsZero())
	assert.Equal(t, entity.MovementTypeSale, res.Movement.Type)
	assert.True(t, dec("-3").Equal(res.Movement.Delta))
	assert.True(t, currentBalance(t, store).Quantity.IsZero())
}

func TestRemove_StockInsuficienteNoEscribeNada(t *testing.T) {
	engine, store := newTestEngine(t, "3")

	_, err := engine.Remove(context.Background(), input(), dec("5"))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	var insufficient *domain.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.True(t, dec("3").Equal(insufficient.Available))
	assert.True(t, dec("5").Equal(insufficient.Requested))

	bal := currentBalance(t, store)
	assert.True(t, dec("3").Equal(bal.Quantity))
	assert.Equal(t, int64(1), bal.Version, "la versión no debe avanzar en un rechazo")
	assert.Empty(t, productMovements(t, store))
}

// ──────────────────────────────────────────────────────────────────────────────
// Guardas de Apply
// ──────────────────────────────────────────────────────────────────────────────

func TestApply_ProductoInexistente(t *testing.T) {
	engine, _ := newTestEngine(t, "10")

	in := input()
	in.ProductID = "no-existe"
	_, err := engine.Add(context.Background(), in, dec("1"))
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestApply_BalanceCongeladoRespondeComoInexistente(t *testing.T) {
	engine, store := newTestEngine(t, "10")
	require.NoError(t, store.Balances().Freeze(testProductID, time.Now().UTC()))

	_, err := engine.Add(context.Background(), input(), dec("1"))
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
	assert.Empty(t, productMovements(t, store))
}

func TestApply_ComercioAjenoDenegado(t *testing.T) {
	engine, _ := newTestEngine(t, "10")

	in := input()
	in.MerchantID = "otro-comercio"
	_, err := engine.Add(context.Background(), in, dec("1"))
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestApply_TipoDeMovimientoInvalido(t *testing.T) {
	engine, _ := newTestEngine(t, "10")

	in := input()
	in.Type = "DONATION"
	_, err := engine.Add(context.Background(), in, dec("1"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// OpenBalance
// ──────────────────────────────────────────────────────────────────────────────

func TestOpenBalance_SinStockInicialNoRegistraMovimiento(t *testing.T) {
	store := memory.NewStore()
	engine := appledger.NewEngine(store, store.Balances(), appledger.SystemClock{}, &seqIDs{}, 0)

	res, err := engine.OpenBalance(context.Background(), "p1", testMerchantID, decimal.Zero, nil, "tester")
	require.NoError(t, err)

	assert.True(t, res.Balance.Quantity.IsZero())
	assert.Equal(t, int64(1), res.Balance.Version)
	assert.Nil(t, res.Movement)
}

func TestOpenBalance_ConStockInicialRegistraApertura(t *testing.T) {
	store := memory.NewStore()
	engine := appledger.NewEngine(store, store.Balances(), appledger.SystemClock{}, &seqIDs{}, 0)

	res, err := engine.OpenBalance(context.Background(), "p1", testMerchantID, dec("4"), nil, "tester")
	require.NoError(t, err)

	require.NotNil(t, res.Movement)
	assert.Equal(t, entity.MovementTypeAdjustment, res.Movement.Type)
	assert.True(t, dec("4").Equal(res.Movement.Delta))
	assert.True(t, res.Movement.PreviousQuantity.IsZero())
	assert.Equal(t, "Saldo inicial", res.Movement.Notes)

	movements, err := store.Movements().ListByProduct("p1", nil, nil, 0, 0)
	require.NoError(t, err)
	assert.Len(t, movements, 1)
}

func TestOpenBalance_CantidadNegativaRechazada(t *testing.T) {
	store := memory.NewStore()
	engine := appledger.NewEngine(store, store.Balances(), appledger.SystemClock{}, &seqIDs{}, 0)

	_, err := engine.OpenBalance(context.Background(), "p1", testMerchantID, dec("-1"), nil, "tester")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestOpenBalance_DuplicadoRechazado(t *testing.T) {
	engine, _ := newTestEngine(t, "10")

	_, err := engine.OpenBalance(context.Background(), testProductID, testMerchantID, decimal.Zero, nil, "tester")
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

// ──────────────────────────────────────────────────────────────────────────────
// Concurrencia — la propiedad central del motor
// ──────────────────────────────────────────────────────────────────────────────

// Escritores concurrentes sobre el mismo producto: ninguna actualización se
// pierde, cada movimiento encadena previous → new sin huecos y el balance
// final es la suma exacta de los deltas confirmados.
func TestConcurrencia_SinActualizacionesPerdidas(t *testing.T) {
	engine, store := newTestEngine(t, "100")

	const writers = 20
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := engine.Add(context.Background(), input(), dec("3"))
			assert.NoError(t, err)
		}()
		go func() {
			defer wg.Done()
			_, err := engine.Remove(context.Background(), input(), dec("1"))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	bal := currentBalance(t, store)
	// 100 + 20*3 - 20*1 = 140
	assert.True(t, dec("140").Equal(bal.Quantity), "balance final %s", bal.Quantity)
	assert.Equal(t, int64(1+2*writers), bal.Version)

	movements := productMovements(t, store)
	require.Len(t, movements, 2*writers)

	// Conservación: suma de deltas == balance final - inicial.
	sum := decimal.Zero
	for _, m := range movements {
		sum = sum.Add(m.Delta)
		assert.True(t, m.PreviousQuantity.Add(m.Delta).Equal(m.NewQuantity),
			"movimiento %s inconsistente: %s + %s != %s", m.ID, m.PreviousQuantity, m.Delta, m.NewQuantity)
	}
	assert.True(t, dec("40").Equal(sum))
}

// conflictRunner simula contención infinita: todo commit devuelve conflicto.
type conflictRunner struct {
	mu       sync.Mutex
	attempts int
}

func (r *conflictRunner) Run(_ context.Context, _ func(
	repository.BalanceRepository,
	repository.MovementRepository,
	repository.ProductRepository,
) error) error {
	r.mu.Lock()
	r.attempts++
	r.mu.Unlock()
	return domain.ErrVersionConflict
}

func TestConcurrencia_ReintentosAgotados(t *testing.T) {
	store := memory.NewStore()
	require.NoError(t, store.Balances().Create(&entity.StockBalance{
		ProductID:  testProductID,
		MerchantID: testMerchantID,
		Quantity:   dec("10"),
		Version:    1,
	}))

	runner := &conflictRunner{}
	engine := appledger.NewEngine(runner, store.Balances(), appledger.SystemClock{}, &seqIDs{}, 3)

	_, err := engine.Add(context.Background(), input(), dec("1"))
	assert.ErrorIs(t, err, domain.ErrConcurrencyExhausted)
	assert.Equal(t, 3, runner.attempts, "debe intentar exactamente maxRetries veces")
}
