package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/minimanager/products-api/internal/application/dto"
	"github.com/minimanager/products-api/internal/application/usecase"
	"github.com/minimanager/products-api/internal/domain"
)

// MerchantHandler maneja las peticiones HTTP para Merchant.
type MerchantHandler struct {
	uc *usecase.MerchantUseCase
}

// NewMerchantHandler construye el handler.
func NewMerchantHandler(uc *usecase.MerchantUseCase) *MerchantHandler {
	return &MerchantHandler{uc: uc}
}

// Create godoc
// @Summary      Crear comercio
// @Tags         merchants
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateMerchantRequest  true  "Datos del comercio"
// @Success      201   {object}  dto.MerchantResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/merchants [post]
func (h *MerchantHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateMerchantRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Create(in)
	if err != nil {
		if err == domain.ErrInvalidInput {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "name y document son requeridos"})
		}
		if err == domain.ErrDuplicate {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: "el comercio ya existe"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener comercio por ID
// @Tags         merchants
// @Produce      json
// @Param        id   path  string  true  "ID del comercio"
// @Success      200  {object}  dto.MerchantResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/merchants/{id} [get]
func (h *MerchantHandler) GetByID(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	out, err := h.uc.GetByID(id)
	if err != nil {
		if err == domain.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "comercio no encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar comercios
// @Tags         merchants
// @Produce      json
// @Param        limit   query  int  false  "Límite"   default(50)
// @Param        offset  query  int  false  "Offset"   default(0)
// @Success      200     {array}  dto.MerchantResponse
// @Router       /api/merchants [get]
func (h *MerchantHandler) List(c *fiber.Ctx) error {
	page := dto.PageRequest{
		Limit:  c.QueryInt("limit", 50),
		Offset: c.QueryInt("offset", 0),
	}
	out, err := h.uc.List(page)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}
