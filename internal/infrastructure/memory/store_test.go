package memory_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minimanager/products-api/internal/domain"
	"github.com/minimanager/products-api/internal/domain/entity"
	"github.com/minimanager/products-api/internal/infrastructure/memory"
)

func newBalance(version int64) *entity.StockBalance {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return &entity.StockBalance{
		ProductID:  "prod-1",
		MerchantID: "merch-1",
		Quantity:   decimal.NewFromInt(10),
		Version:    version,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// El update condicional responde igual que el predicado WHERE de PostgreSQL:
// fila inexistente, versión distinta o balance congelado son todos conflicto.

func TestConditionalUpdate_FilaInexistente(t *testing.T) {
	store := memory.NewStore()

	err := store.Balances().ConditionalUpdate("no-existe", 1, newBalance(2))
	assert.ErrorIs(t, err, domain.ErrVersionConflict)
}

func TestConditionalUpdate_VersionDistinta(t *testing.T) {
	store := memory.NewStore()
	require.NoError(t, store.Balances().Create(newBalance(1)))

	err := store.Balances().ConditionalUpdate("prod-1", 7, newBalance(8))
	assert.ErrorIs(t, err, domain.ErrVersionConflict)
}

func TestConditionalUpdate_BalanceCongelado(t *testing.T) {
	store := memory.NewStore()
	require.NoError(t, store.Balances().Create(newBalance(1)))
	require.NoError(t, store.Balances().Freeze("prod-1", time.Now().UTC()))

	err := store.Balances().ConditionalUpdate("prod-1", 1, newBalance(2))
	assert.ErrorIs(t, err, domain.ErrVersionConflict)
}

func TestConditionalUpdate_VersionVigenteEscribe(t *testing.T) {
	store := memory.NewStore()
	require.NoError(t, store.Balances().Create(newBalance(1)))

	updated := newBalance(2)
	updated.Quantity = decimal.NewFromInt(4)
	require.NoError(t, store.Balances().ConditionalUpdate("prod-1", 1, updated))

	got, err := store.Balances().Get("prod-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, int64(2), got.Version)
	assert.True(t, decimal.NewFromInt(4).Equal(got.Quantity))
}
