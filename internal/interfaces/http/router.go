package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/minimanager/products-api/internal/application/auth"
	appledger "github.com/minimanager/products-api/internal/application/ledger"
	"github.com/minimanager/products-api/internal/application/reports"
	"github.com/minimanager/products-api/internal/application/usecase"
	"github.com/minimanager/products-api/internal/domain/entity"
	"github.com/minimanager/products-api/internal/domain/repository"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	MerchantUC  *usecase.MerchantUseCase
	ProductUC   *usecase.ProductUseCase
	Engine      *appledger.Engine
	Queries     *appledger.Queries
	KardexUC    *reports.KardexUseCase
	BalanceRepo repository.BalanceRepository
	AuthUC      *auth.AuthUseCase
	JWTSecret   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Merchants (público por ahora; se puede proteger con AuthMiddleware(deps.JWTSecret))
	merchants := api.Group("/merchants")
	merchantHandler := NewMerchantHandler(deps.MerchantUC)
	merchants.Get("/", merchantHandler.List)
	merchants.Post("/", merchantHandler.Create)
	merchants.Get("/:id", merchantHandler.GetByID)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Products (protegido). Las rutas fijas van antes de /:id.
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	stockHandler := NewStockHandler(deps.Engine, deps.Queries, deps.BalanceRepo, deps.KardexUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/search", productHandler.Search)
	products.Get("/categories", productHandler.Categories)
	products.Get("/categories/:category", productHandler.ListByCategory)
	products.Get("/low-stock", stockHandler.LowStock)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", RequireRole(entity.RoleAdmin), productHandler.Retire)

	// Stock del producto (protegido). El ajuste autoritativo es solo admin.
	products.Get("/:id/stock", stockHandler.GetBalance)
	products.Patch("/:id/stock/adjust", RequireRole(entity.RoleAdmin), stockHandler.Adjust)
	products.Patch("/:id/stock/add", stockHandler.Add)
	products.Patch("/:id/stock/remove", stockHandler.Remove)
	products.Get("/:id/movements", stockHandler.ProductMovements)
	products.Get("/:id/kardex", stockHandler.Kardex)

	// Historial del comercio y lookup de auditoría (protegido)
	protected.Get("/movements", stockHandler.MerchantMovements)
	protected.Get("/movements/:id", stockHandler.MovementByID)
}
