package usecase

import (
	"time"

	"github.com/google/uuid"

	"github.com/minimanager/products-api/internal/application/dto"
	"github.com/minimanager/products-api/internal/domain"
	"github.com/minimanager/products-api/internal/domain/entity"
	"github.com/minimanager/products-api/internal/domain/repository"
)

// MerchantUseCase casos de uso de comercios (tenants).
type MerchantUseCase struct {
	merchants repository.MerchantRepository
}

// NewMerchantUseCase construye el caso de uso de comercios.
func NewMerchantUseCase(merchants repository.MerchantRepository) *MerchantUseCase {
	return &MerchantUseCase{merchants: merchants}
}

// Create registra un comercio nuevo.
func (uc *MerchantUseCase) Create(in dto.CreateMerchantRequest) (*dto.MerchantResponse, error) {
	if in.Name == "" || in.Document == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	merchant := &entity.Merchant{
		ID:        uuid.New().String(),
		Name:      in.Name,
		Document:  in.Document,
		Email:     in.Email,
		Status:    "active",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.merchants.Create(merchant); err != nil {
		return nil, err
	}
	return toMerchantResponse(merchant), nil
}

// GetByID obtiene un comercio.
func (uc *MerchantUseCase) GetByID(id string) (*dto.MerchantResponse, error) {
	merchant, err := uc.merchants.GetByID(id)
	if err != nil {
		return nil, err
	}
	if merchant == nil {
		return nil, domain.ErrNotFound
	}
	return toMerchantResponse(merchant), nil
}

// List lista comercios con paginación.
func (uc *MerchantUseCase) List(page dto.PageRequest) ([]dto.MerchantResponse, error) {
	page.DefaultPage()
	merchants, err := uc.merchants.List(page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MerchantResponse, 0, len(merchants))
	for _, m := range merchants {
		out = append(out, *toMerchantResponse(m))
	}
	return out, nil
}

func toMerchantResponse(m *entity.Merchant) *dto.MerchantResponse {
	return &dto.MerchantResponse{
		ID:        m.ID,
		Name:      m.Name,
		Document:  m.Document,
		Email:     m.Email,
		Status:    m.Status,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
