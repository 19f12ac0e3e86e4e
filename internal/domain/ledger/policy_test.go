package ledger_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minimanager/products-api/internal/domain"
	"github.com/minimanager/products-api/internal/domain/entity"
	"github.com/minimanager/products-api/internal/domain/ledger"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// ──────────────────────────────────────────────────────────────────────────────
// Decide — función pura: (operación, cantidad, actual) → delta o rechazo
// ──────────────────────────────────────────────────────────────────────────────

func TestDecide_AjusteCalculaDelta(t *testing.T) {
	cases := []struct {
		name    string
		target  string
		current string
		delta   string
	}{
		{"baja el stock", "7", "10", "-3"},
		{"sube el stock", "15", "10", "5"},
		{"sin cambio", "10", "10", "0"},
		{"ajuste a cero", "0", "10", "-10"},
		{"decimales exactos", "2.5", "0.1", "2.4"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			delta, err := ledger.Decide(ledger.OpAdjustTo, dec(tc.target), dec(tc.current))
			require.NoError(t, err)
			assert.True(t, dec(tc.delta).Equal(delta), "delta esperado %s, obtenido %s", tc.delta, delta)
		})
	}
}

func TestDecide_EntradaExigeCantidadPositiva(t *testing.T) {
	delta, err := ledger.Decide(ledger.OpAdd, dec("5"), dec("10"))
	require.NoError(t, err)
	assert.True(t, dec("5").Equal(delta))

	for _, amount := range []string{"0", "-2"} {
		_, err := ledger.Decide(ledger.OpAdd, dec(amount), dec("10"))
		assert.ErrorIs(t, err, domain.ErrInvalidAmount, "cantidad %s debe rechazarse", amount)
	}
}

func TestDecide_SalidaExigeCantidadPositiva(t *testing.T) {
	for _, amount := range []string{"0", "-1"} {
		_, err := ledger.Decide(ledger.OpRemove, dec(amount), dec("10"))
		assert.ErrorIs(t, err, domain.ErrInvalidAmount, "cantidad %s debe rechazarse", amount)
	}
}

func TestDecide_SalidaNuncaDejaNegativo(t *testing.T) {
	// Salida exacta: deja el balance en cero.
	delta, err := ledger.Decide(ledger.OpRemove, dec("3"), dec("3"))
	require.NoError(t, err)
	assert.True(t, dec("-3").Equal(delta))

	// Salida mayor que lo disponible: rechazo tipado con cantidades.
	_, err = ledger.Decide(ledger.OpRemove, dec("5"), dec("3"))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	var insufficient *domain.InsufficientStockError
	require.True(t, errors.As(err, &insufficient), "debe exponer las cantidades del rechazo")
	assert.True(t, dec("3").Equal(insufficient.Available))
	assert.True(t, dec("5").Equal(insufficient.Requested))
}

func TestDecide_OperacionDesconocida(t *testing.T) {
	_, err := ledger.Decide(ledger.Operation("purge"), dec("1"), dec("1"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// DefaultMovementType — tipo por defecto de cada operación
// ──────────────────────────────────────────────────────────────────────────────

func TestDefaultMovementType(t *testing.T) {
	assert.Equal(t, entity.MovementTypeAdjustment, ledger.DefaultMovementType(ledger.OpAdjustTo))
	assert.Equal(t, entity.MovementTypePurchase, ledger.DefaultMovementType(ledger.OpAdd))
	assert.Equal(t, entity.MovementTypeSale, ledger.DefaultMovementType(ledger.OpRemove))
}
