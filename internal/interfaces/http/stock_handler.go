package http

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/minimanager/products-api/internal/application/dto"
	appledger "github.com/minimanager/products-api/internal/application/ledger"
	"github.com/minimanager/products-api/internal/application/reports"
	"github.com/minimanager/products-api/internal/domain"
	"github.com/minimanager/products-api/internal/domain/entity"
	"github.com/minimanager/products-api/internal/domain/repository"
)

// StockHandler maneja las operaciones de stock: ajustes, entradas, salidas,
// historial de movimientos, stock bajo y kardex (protegido).
type StockHandler struct {
	engine   *appledger.Engine
	queries  *appledger.Queries
	balances repository.BalanceRepository
	kardex   *reports.KardexUseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(engine *appledger.Engine, queries *appledger.Queries, balances repository.BalanceRepository, kardex *reports.KardexUseCase) *StockHandler {
	return &StockHandler{engine: engine, queries: queries, balances: balances, kardex: kardex}
}

// Adjust godoc
// @Summary      Fijar cantidad exacta de stock
// @Description  Corrección autoritativa: deja la cantidad exactamente en el valor indicado y registra un ADJUSTMENT con el delta resultante.
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del producto"
// @Param        body  body  dto.AdjustStockRequest  true  "quantity >= 0"
// @Success      200   {object}  dto.StockOperationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/products/{id}/stock/adjust [patch]
func (h *StockHandler) Adjust(c *fiber.Ctx) error {
	productID := c.Params("id")
	var in dto.AdjustStockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	res, err := h.engine.AdjustTo(c.Context(), appledger.MovementInput{
		MerchantID: GetMerchantID(c),
		ProductID:  productID,
		UnitCost:   in.UnitCost,
		Notes:      in.Notes,
		CreatedBy:  GetUserID(c),
	}, in.Quantity)
	if err != nil {
		return stockError(c, err)
	}
	return c.JSON(toStockOperationResponse(res))
}

// Add godoc
// @Summary      Sumar stock (entrada)
// @Description  Entrada relativa de mercancía. type vacío registra PURCHASE; se acepta cualquier tipo de movimiento válido.
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del producto"
// @Param        body  body  dto.ChangeStockRequest  true  "amount > 0"
// @Success      200   {object}  dto.StockOperationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/products/{id}/stock/add [patch]
func (h *StockHandler) Add(c *fiber.Ctx) error {
	return h.change(c, h.engine.Add)
}

// Remove godoc
// @Summary      Restar stock (salida)
// @Description  Salida relativa de mercancía. Nunca deja el balance negativo; type vacío registra SALE.
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del producto"
// @Param        body  body  dto.ChangeStockRequest  true  "amount > 0"
// @Success      200   {object}  dto.StockOperationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/products/{id}/stock/remove [patch]
func (h *StockHandler) Remove(c *fiber.Ctx) error {
	return h.change(c, h.engine.Remove)
}

// change factoriza Add y Remove: mismo parseo, distinta operación del motor.
func (h *StockHandler) change(c *fiber.Ctx, op func(ctx context.Context, in appledger.MovementInput, amount decimal.Decimal) (*appledger.MovementResult, error)) error {
	productID := c.Params("id")
	var in dto.ChangeStockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	res, err := op(c.Context(), appledger.MovementInput{
		MerchantID:    GetMerchantID(c),
		ProductID:     productID,
		Type:          in.Type,
		UnitCost:      in.UnitCost,
		Notes:         in.Notes,
		ReferenceID:   in.ReferenceID,
		ReferenceType: in.ReferenceType,
		CreatedBy:     GetUserID(c),
	}, in.Amount)
	if err != nil {
		return stockError(c, err)
	}
	return c.JSON(toStockOperationResponse(res))
}

// GetBalance godoc
// @Summary      Consultar balance de stock
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.BalanceResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/stock [get]
func (h *StockHandler) GetBalance(c *fiber.Ctx) error {
	productID := c.Params("id")
	bal, err := h.balances.Get(productID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	if bal == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "producto no encontrado"})
	}
	if merchantID := GetMerchantID(c); merchantID != "" && bal.MerchantID != merchantID {
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado al recurso"})
	}
	return c.JSON(toBalanceResponse(bal))
}

// ProductMovements godoc
// @Summary      Historial de movimientos de un producto
// @Description  Más recientes primero. from/to en RFC3339 o YYYY-MM-DD.
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id      path   string  true   "ID del producto"
// @Param        from    query  string  false  "Fecha inicial"
// @Param        to      query  string  false  "Fecha final"
// @Param        limit   query  int     false  "Límite"  default(50)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.MovementListResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/movements [get]
func (h *StockHandler) ProductMovements(c *fiber.Ctx) error {
	productID := c.Params("id")
	from, to, err := parseRange(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "fecha inválida, usar RFC3339 o YYYY-MM-DD"})
	}
	limit := c.QueryInt("limit", 50)
	offset := c.QueryInt("offset", 0)
	movements, err := h.queries.MovementsForProduct(GetMerchantID(c), productID, from, to, limit, offset)
	if err != nil {
		return stockError(c, err)
	}
	return c.JSON(toMovementListResponse(movements, limit, offset))
}

// MerchantMovements godoc
// @Summary      Historial de movimientos del comercio
// @Description  Todos los productos, más recientes primero. from/to en RFC3339 o YYYY-MM-DD.
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        from    query  string  false  "Fecha inicial"
// @Param        to      query  string  false  "Fecha final"
// @Param        limit   query  int     false  "Límite"  default(50)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.MovementListResponse
// @Router       /api/movements [get]
func (h *StockHandler) MerchantMovements(c *fiber.Ctx) error {
	merchantID := GetMerchantID(c)
	if merchantID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "merchant_id requerido"})
	}
	from, to, err := parseRange(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "fecha inválida, usar RFC3339 o YYYY-MM-DD"})
	}
	limit := c.QueryInt("limit", 50)
	offset := c.QueryInt("offset", 0)
	movements, err := h.queries.MovementsForMerchant(merchantID, from, to, limit, offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(toMovementListResponse(movements, limit, offset))
}

// MovementByID godoc
// @Summary      Consultar un movimiento por ID
// @Description  Lookup de auditoría de un asiento del libro de movimientos.
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del movimiento"
// @Success      200  {object}  dto.MovementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/movements/{id} [get]
func (h *StockHandler) MovementByID(c *fiber.Ctx) error {
	movement, err := h.queries.MovementByID(GetMerchantID(c), c.Params("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "movimiento no encontrado"})
		}
		return stockError(c, err)
	}
	return c.JSON(toMovementResponse(movement))
}

// LowStock godoc
// @Summary      Productos con stock en o bajo su umbral mínimo
// @Description  Productos sin umbral definido nunca aparecen.
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.LowStockItem
// @Router       /api/products/low-stock [get]
func (h *StockHandler) LowStock(c *fiber.Ctx) error {
	merchantID := GetMerchantID(c)
	if merchantID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "merchant_id requerido"})
	}
	list, err := h.queries.LowStock(merchantID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := make([]dto.LowStockItem, 0, len(list))
	for _, item := range list {
		entry := dto.LowStockItem{Quantity: item.Balance.Quantity}
		if item.Product.MinimumStock != nil {
			entry.Minimum = *item.Product.MinimumStock
		}
		entry.Product = *toProductSummary(item.Product)
		out = append(out, entry)
	}
	return c.JSON(out)
}

// Kardex godoc
// @Summary      Descargar kardex del producto en PDF
// @Tags         stock
// @Security     Bearer
// @Produce      application/pdf
// @Param        id    path   string  true   "ID del producto"
// @Param        from  query  string  false  "Fecha inicial"
// @Param        to    query  string  false  "Fecha final"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/kardex [get]
func (h *StockHandler) Kardex(c *fiber.Ctx) error {
	productID := c.Params("id")
	from, to, err := parseRange(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "fecha inválida, usar RFC3339 o YYYY-MM-DD"})
	}
	pdfBytes, filename, err := h.kardex.DownloadKardexPDF(c.Context(), GetMerchantID(c), productID, from, to)
	if err != nil {
		return stockError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(pdfBytes)
}

// ── helpers ───────────────────────────────────────────────────────────────────

// stockError mapea los errores del motor a códigos HTTP.
func stockError(c *fiber.Ctx, err error) error {
	var insufficient *domain.InsufficientStockError
	if errors.As(err, &insufficient) {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: insufficient.Error()})
	}
	switch {
	case errors.Is(err, domain.ErrInsufficientStock):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: "stock insuficiente"})
	case errors.Is(err, domain.ErrProductNotFound), errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "producto no encontrado o retirado"})
	case errors.Is(err, domain.ErrInvalidAmount):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_AMOUNT", Message: "la cantidad debe ser mayor que cero"})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado al recurso"})
	case errors.Is(err, domain.ErrConcurrencyExhausted):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONCURRENCY_EXHAUSTED", Message: "demasiada contención, reintente la operación"})
	case errors.Is(err, domain.ErrStoreUnavailable):
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "STORE_UNAVAILABLE", Message: "almacenamiento no disponible"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}

// parseRange lee from/to de la query. Acepta RFC3339 o fecha simple.
func parseRange(c *fiber.Ctx) (from, to *time.Time, err error) {
	if raw := c.Query("from"); raw != "" {
		t, perr := parseTime(raw)
		if perr != nil {
			return nil, nil, perr
		}
		from = &t
	}
	if raw := c.Query("to"); raw != "" {
		t, perr := parseTime(raw)
		if perr != nil {
			return nil, nil, perr
		}
		to = &t
	}
	return from, to, nil
}

func parseTime(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", raw)
}

func toBalanceResponse(b *entity.StockBalance) dto.BalanceResponse {
	return dto.BalanceResponse{
		ProductID:  b.ProductID,
		MerchantID: b.MerchantID,
		Quantity:   b.Quantity,
		Version:    b.Version,
		FrozenAt:   b.FrozenAt,
		UpdatedAt:  b.UpdatedAt,
	}
}

func toMovementResponse(m *entity.StockMovement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:               m.ID,
		ProductID:        m.ProductID,
		MerchantID:       m.MerchantID,
		Type:             m.Type,
		Delta:            m.Delta,
		UnitCost:         m.UnitCost,
		PreviousQuantity: m.PreviousQuantity,
		NewQuantity:      m.NewQuantity,
		ReferenceID:      m.ReferenceID,
		ReferenceType:    m.ReferenceType,
		Notes:            m.Notes,
		CreatedBy:        m.CreatedBy,
		CreatedAt:        m.CreatedAt,
	}
}

func toMovementListResponse(movements []*entity.StockMovement, limit, offset int) dto.MovementListResponse {
	items := make([]dto.MovementResponse, 0, len(movements))
	for _, m := range movements {
		items = append(items, toMovementResponse(m))
	}
	return dto.MovementListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}
}

func toStockOperationResponse(res *appledger.MovementResult) dto.StockOperationResponse {
	out := dto.StockOperationResponse{Balance: toBalanceResponse(res.Balance)}
	if res.Movement != nil {
		m := toMovementResponse(res.Movement)
		out.Movement = &m
	}
	return out
}

func toProductSummary(p *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:           p.ID,
		MerchantID:   p.MerchantID,
		Code:         p.Code,
		Name:         p.Name,
		Category:     p.Category,
		Unit:         p.Unit,
		CostPrice:    p.CostPrice,
		SalePrice:    p.SalePrice,
		MinimumStock: p.MinimumStock,
		Status:       p.Status,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}
