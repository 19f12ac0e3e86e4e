package reports

import (
	"context"
	"fmt"
	"time"

	"github.com/minimanager/products-api/internal/domain"
	"github.com/minimanager/products-api/internal/domain/entity"
	"github.com/minimanager/products-api/internal/domain/repository"
)

// Tope de asientos por kardex. Un rango de fechas acota reportes largos.
const maxKardexEntries = 500

// KardexUseCase genera el kardex (tarjeta de existencias) de un producto:
// sus movimientos en orden cronológico con el balance resultante de cada
// asiento, como PDF descargable.
type KardexUseCase struct {
	merchantRepo repository.MerchantRepository
	productRepo  repository.ProductRepository
	balanceRepo  repository.BalanceRepository
	movementRepo repository.MovementRepository
	generator    KardexPDFGenerator
}

// NewKardexUseCase construye el caso de uso inyectando todas sus dependencias.
func NewKardexUseCase(
	merchantRepo repository.MerchantRepository,
	productRepo repository.ProductRepository,
	balanceRepo repository.BalanceRepository,
	movementRepo repository.MovementRepository,
	generator KardexPDFGenerator,
) *KardexUseCase {
	return &KardexUseCase{
		merchantRepo: merchantRepo,
		productRepo:  productRepo,
		balanceRepo:  balanceRepo,
		movementRepo: movementRepo,
		generator:    generator,
	}
}

// DownloadKardexPDF recupera producto, balance e historial y genera el PDF.
//
// Retorna:
//   - (pdfBytes, filename, nil)   si todo sale bien.
//   - domain.ErrProductNotFound   si el producto no existe.
//   - domain.ErrForbidden         si el producto no pertenece al comercio del token.
func (uc *KardexUseCase) DownloadKardexPDF(
	ctx context.Context,
	merchantID, productID string,
	from, to *time.Time,
) (pdfBytes []byte, filename string, err error) {
	product, err := uc.productRepo.GetByID(productID)
	if err != nil {
		return nil, "", fmt.Errorf("kardex: obtener producto: %w", err)
	}
	if product == nil {
		return nil, "", domain.ErrProductNotFound
	}
	if product.MerchantID != merchantID {
		return nil, "", domain.ErrForbidden
	}

	merchant, err := uc.merchantRepo.GetByID(merchantID)
	if err != nil || merchant == nil {
		return nil, "", fmt.Errorf("kardex: obtener comercio: %w", err)
	}

	balance, err := uc.balanceRepo.Get(productID)
	if err != nil {
		return nil, "", fmt.Errorf("kardex: obtener balance: %w", err)
	}

	movements, err := uc.movementRepo.ListByProduct(productID, from, to, maxKardexEntries, 0)
	if err != nil {
		return nil, "", fmt.Errorf("kardex: obtener movimientos: %w", err)
	}
	// El repo devuelve más recientes primero; el kardex se lee ascendente.
	reverse(movements)

	pdfBytes, err = uc.generator.GenerateKardexPDF(ctx, &KardexData{
		Merchant:  merchant,
		Product:   product,
		Balance:   balance,
		Movements: movements,
		From:      from,
		To:        to,
	})
	if err != nil {
		return nil, "", fmt.Errorf("kardex: generación fallida: %w", err)
	}

	filename = fmt.Sprintf("kardex_%s.pdf", product.Code)
	return pdfBytes, filename, nil
}

func reverse(movements []*entity.StockMovement) {
	for i, j := 0, len(movements)-1; i < j; i, j = i+1, j-1 {
		movements[i], movements[j] = movements[j], movements[i]
	}
}
