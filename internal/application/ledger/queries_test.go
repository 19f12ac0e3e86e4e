package ledger_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appledger "github.com/minimanager/products-api/internal/application/ledger"
	"github.com/minimanager/products-api/internal/domain"
	"github.com/minimanager/products-api/internal/domain/entity"
	"github.com/minimanager/products-api/internal/infrastructure/memory"
)

func seedProduct(t *testing.T, store *memory.Store, minimum *decimal.Decimal) {
	t.Helper()
	require.NoError(t, store.Products().Create(&entity.Product{
		ID:           testProductID,
		MerchantID:   testMerchantID,
		Code:         "SKU-001",
		Name:         "Café molido 500g",
		Unit:         "UN",
		MinimumStock: minimum,
		Status:       entity.ProductStatusActive,
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}))
}

func TestMovementsForProduct_MasRecientesPrimero(t *testing.T) {
	engine, store := newTestEngine(t, "10")
	seedProduct(t, store, nil)

	_, err := engine.Add(context.Background(), input(), dec("5"))
	require.NoError(t, err)
	_, err = engine.Remove(context.Background(), input(), dec("2"))
	require.NoError(t, err)

	queries := appledger.NewQueries(store.Movements(), store.Products())
	movements, err := queries.MovementsForProduct(testMerchantID, testProductID, nil, nil, 0, 0)
	require.NoError(t, err)
	require.Len(t, movements, 2)

	// Último commit primero.
	assert.Equal(t, entity.MovementTypeSale, movements[0].Type)
	assert.Equal(t, entity.MovementTypePurchase, movements[1].Type)

	// Las consultas no mutan: repetir devuelve lo mismo.
	again, err := queries.MovementsForProduct(testMerchantID, testProductID, nil, nil, 0, 0)
	require.NoError(t, err)
	assert.Len(t, again, 2)
}

func TestMovementsForProduct_ProductoAjenoDenegado(t *testing.T) {
	_, store := newTestEngine(t, "10")
	seedProduct(t, store, nil)

	queries := appledger.NewQueries(store.Movements(), store.Products())

	_, err := queries.MovementsForProduct("otro-comercio", testProductID, nil, nil, 0, 0)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = queries.MovementsForProduct(testMerchantID, "no-existe", nil, nil, 0, 0)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestMovementByID_RecuperaAsientoDelComercio(t *testing.T) {
	engine, store := newTestEngine(t, "10")
	seedProduct(t, store, nil)

	res, err := engine.Add(context.Background(), input(), dec("5"))
	require.NoError(t, err)

	queries := appledger.NewQueries(store.Movements(), store.Products())
	movement, err := queries.MovementByID(testMerchantID, res.Movement.ID)
	require.NoError(t, err)
	assert.Equal(t, res.Movement.ID, movement.ID)
	assert.True(t, dec("5").Equal(movement.Delta))
}

func TestMovementByID_AjenoOInexistente(t *testing.T) {
	engine, store := newTestEngine(t, "10")
	seedProduct(t, store, nil)

	res, err := engine.Add(context.Background(), input(), dec("2"))
	require.NoError(t, err)

	queries := appledger.NewQueries(store.Movements(), store.Products())

	_, err = queries.MovementByID("otro-comercio", res.Movement.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = queries.MovementByID(testMerchantID, "mov-9999")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLowStock_RespetaUmbral(t *testing.T) {
	_, store := newTestEngine(t, "5")
	min := dec("10")
	seedProduct(t, store, &min)

	queries := appledger.NewQueries(store.Movements(), store.Products())
	list, err := queries.LowStock(testMerchantID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "SKU-001", list[0].Product.Code)
	assert.True(t, dec("5").Equal(list[0].Balance.Quantity))
}

func TestLowStock_SinUmbralNoAparece(t *testing.T) {
	_, store := newTestEngine(t, "0")
	seedProduct(t, store, nil)

	queries := appledger.NewQueries(store.Movements(), store.Products())
	list, err := queries.LowStock(testMerchantID)
	require.NoError(t, err)
	assert.Empty(t, list, "sin umbral definido el producto nunca es bajo, ni en cero")
}
