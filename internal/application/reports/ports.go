package reports

import (
	"context"
	"time"

	"github.com/minimanager/products-api/internal/domain/entity"
)

// KardexData todo lo que necesita el generador para render: comercio,
// producto, balance actual y movimientos en orden cronológico ascendente.
type KardexData struct {
	Merchant  *entity.Merchant
	Product   *entity.Product
	Balance   *entity.StockBalance
	Movements []*entity.StockMovement
	From      *time.Time
	To        *time.Time
}

// KardexPDFGenerator puerto de generación del PDF del kardex.
type KardexPDFGenerator interface {
	GenerateKardexPDF(ctx context.Context, data *KardexData) ([]byte, error)
}
