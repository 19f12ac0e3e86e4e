package ledger_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/minimanager/products-api/internal/domain/ledger"
)

func TestIsLowStock_SinUmbralNuncaBajo(t *testing.T) {
	assert.False(t, ledger.IsLowStock(decimal.Zero, nil),
		"producto sin umbral no debe reportarse bajo, ni siquiera en cero")
}

func TestIsLowStock_ComparaContraUmbral(t *testing.T) {
	min := dec("10")
	assert.True(t, ledger.IsLowStock(dec("5"), &min))
	assert.True(t, ledger.IsLowStock(dec("10"), &min), "igual al umbral cuenta como bajo")
	assert.False(t, ledger.IsLowStock(dec("10.01"), &min))
}

func TestIsAvailable(t *testing.T) {
	assert.True(t, ledger.IsAvailable(dec("0.01")))
	assert.False(t, ledger.IsAvailable(decimal.Zero))
	assert.False(t, ledger.IsAvailable(dec("-1")))
}
