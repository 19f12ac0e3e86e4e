package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/minimanager/products-api/internal/application/dto"
	appledger "github.com/minimanager/products-api/internal/application/ledger"
	"github.com/minimanager/products-api/internal/domain"
	"github.com/minimanager/products-api/internal/domain/entity"
	"github.com/minimanager/products-api/internal/domain/repository"
)

// ProductUseCase casos de uso del catálogo. El stock solo se toca vía el
// motor: aquí se crean productos (con su balance de apertura), se editan
// metadatos y se retiran, congelando el balance.
type ProductUseCase struct {
	products repository.ProductRepository
	balances repository.BalanceRepository
	engine   *appledger.Engine
	txRunner appledger.TxRunner
}

// NewProductUseCase construye el caso de uso de productos.
func NewProductUseCase(
	products repository.ProductRepository,
	balances repository.BalanceRepository,
	engine *appledger.Engine,
	txRunner appledger.TxRunner,
) *ProductUseCase {
	return &ProductUseCase{products: products, balances: balances, engine: engine, txRunner: txRunner}
}

// Create registra un producto y abre su balance en la misma transacción.
// InitialStock > 0 genera además el movimiento de apertura.
func (uc *ProductUseCase) Create(ctx context.Context, merchantID, createdBy string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if in.Code == "" || in.Name == "" || in.Unit == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.InitialStock.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.products.GetByMerchantAndCode(merchantID, in.Code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}

	now := time.Now().UTC()
	product := &entity.Product{
		ID:           uuid.New().String(),
		MerchantID:   merchantID,
		Code:         in.Code,
		Name:         in.Name,
		Description:  in.Description,
		Category:     in.Category,
		Unit:         in.Unit,
		CostPrice:    in.CostPrice,
		SalePrice:    in.SalePrice,
		MinimumStock: in.MinimumStock,
		MaximumStock: in.MaximumStock,
		ReorderPoint: in.ReorderPoint,
		Status:       entity.ProductStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	var unitCost *decimal.Decimal
	if in.InitialStock.GreaterThan(decimal.Zero) && !in.CostPrice.IsZero() {
		c := in.CostPrice
		unitCost = &c
	}

	var quantity decimal.Decimal
	err = uc.txRunner.Run(ctx, func(
		balanceRepo repository.BalanceRepository,
		movementRepo repository.MovementRepository,
		productRepo repository.ProductRepository,
	) error {
		if err := productRepo.Create(product); err != nil {
			return err
		}
		res, err := uc.engine.OpenBalanceWith(balanceRepo, movementRepo, product.ID, merchantID, in.InitialStock, unitCost, createdBy)
		if err != nil {
			return err
		}
		quantity = res.Balance.Quantity
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toProductResponse(product, &quantity), nil
}

// GetByID obtiene un producto del comercio con su cantidad actual.
func (uc *ProductUseCase) GetByID(merchantID, id string) (*dto.ProductResponse, error) {
	product, err := uc.ownedProduct(merchantID, id)
	if err != nil {
		return nil, err
	}
	bal, err := uc.balances.Get(id)
	if err != nil {
		return nil, err
	}
	var quantity *decimal.Decimal
	if bal != nil {
		quantity = &bal.Quantity
	}
	return toProductResponse(product, quantity), nil
}

// Update modifica metadatos del producto. La cantidad no se toca aquí.
func (uc *ProductUseCase) Update(merchantID, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.ownedProduct(merchantID, id)
	if err != nil {
		return nil, err
	}
	if in.Code != nil && *in.Code != product.Code {
		other, err := uc.products.GetByMerchantAndCode(merchantID, *in.Code)
		if err != nil {
			return nil, err
		}
		if other != nil {
			return nil, domain.ErrDuplicate
		}
		product.Code = *in.Code
	}
	if in.Name != nil {
		product.Name = *in.Name
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.Category != nil {
		product.Category = *in.Category
	}
	if in.Unit != nil {
		product.Unit = *in.Unit
	}
	if in.CostPrice != nil {
		product.CostPrice = *in.CostPrice
	}
	if in.SalePrice != nil {
		product.SalePrice = *in.SalePrice
	}
	if in.MinimumStock != nil {
		product.MinimumStock = in.MinimumStock
	}
	if in.MaximumStock != nil {
		product.MaximumStock = in.MaximumStock
	}
	if in.ReorderPoint != nil {
		product.ReorderPoint = in.ReorderPoint
	}
	if in.Status != nil {
		if *in.Status != entity.ProductStatusActive && *in.Status != entity.ProductStatusInactive {
			return nil, domain.ErrInvalidInput
		}
		product.Status = *in.Status
	}
	product.UpdatedAt = time.Now().UTC()
	if err := uc.products.Update(product); err != nil {
		return nil, err
	}
	return toProductResponse(product, nil), nil
}

// Retire marca el producto como DELETED y congela su balance en la misma
// transacción. El historial sigue consultable; toda mutación posterior del
// stock responde como producto inexistente.
func (uc *ProductUseCase) Retire(ctx context.Context, merchantID, id string) error {
	if _, err := uc.ownedProduct(merchantID, id); err != nil {
		return err
	}
	now := time.Now().UTC()
	return uc.txRunner.Run(ctx, func(
		balanceRepo repository.BalanceRepository,
		_ repository.MovementRepository,
		productRepo repository.ProductRepository,
	) error {
		if err := productRepo.SoftDelete(id, entity.ProductStatusDeleted); err != nil {
			return err
		}
		return balanceRepo.Freeze(id, now)
	})
}

// List lista productos del comercio con paginación.
func (uc *ProductUseCase) List(merchantID string, page dto.PageRequest) (*dto.ProductListResponse, error) {
	page.DefaultPage()
	products, err := uc.products.ListByMerchant(merchantID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	return uc.toListResponse(products, page), nil
}

// ListByCategory lista productos del comercio en una categoría.
func (uc *ProductUseCase) ListByCategory(merchantID, category string) ([]dto.ProductResponse, error) {
	products, err := uc.products.ListByCategory(merchantID, category)
	if err != nil {
		return nil, err
	}
	return uc.toResponses(products), nil
}

// Categories devuelve las categorías distintas del comercio.
func (uc *ProductUseCase) Categories(merchantID string) ([]string, error) {
	return uc.products.ListCategories(merchantID)
}

// Search busca por nombre, código o categoría.
func (uc *ProductUseCase) Search(merchantID, query string) ([]dto.ProductResponse, error) {
	if query == "" {
		return nil, domain.ErrInvalidInput
	}
	products, err := uc.products.Search(merchantID, query)
	if err != nil {
		return nil, err
	}
	return uc.toResponses(products), nil
}

func (uc *ProductUseCase) ownedProduct(merchantID, id string) (*entity.Product, error) {
	product, err := uc.products.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrProductNotFound
	}
	if product.MerchantID != merchantID {
		return nil, domain.ErrForbidden
	}
	return product, nil
}

func (uc *ProductUseCase) toListResponse(products []*entity.Product, page dto.PageRequest) *dto.ProductListResponse {
	return &dto.ProductListResponse{
		Items: uc.toResponses(products),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}
}

func (uc *ProductUseCase) toResponses(products []*entity.Product) []dto.ProductResponse {
	out := make([]dto.ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, *toProductResponse(p, nil))
	}
	return out
}

func toProductResponse(p *entity.Product, quantity *decimal.Decimal) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:           p.ID,
		MerchantID:   p.MerchantID,
		Code:         p.Code,
		Name:         p.Name,
		Description:  p.Description,
		Category:     p.Category,
		Unit:         p.Unit,
		CostPrice:    p.CostPrice,
		SalePrice:    p.SalePrice,
		MinimumStock: p.MinimumStock,
		MaximumStock: p.MaximumStock,
		ReorderPoint: p.ReorderPoint,
		Status:       p.Status,
		Quantity:     quantity,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}
