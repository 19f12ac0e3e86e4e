// seed puebla la base de datos con un comercio de demostración, un usuario
// admin y un catálogo pequeño de productos con stock de apertura.
//
// Uso: go run ./cmd/seed
// Idempotencia: si el comercio demo ya existe (mismo documento) el comando
// aborta sin escribir nada.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/shopspring/decimal"

	"github.com/minimanager/products-api/internal/application/auth"
	"github.com/minimanager/products-api/internal/application/dto"
	appledger "github.com/minimanager/products-api/internal/application/ledger"
	"github.com/minimanager/products-api/internal/application/usecase"
	"github.com/minimanager/products-api/internal/domain/entity"
	"github.com/minimanager/products-api/internal/infrastructure/postgres"
	"github.com/minimanager/products-api/pkg/config"
)

type seedProduct struct {
	code     string
	name     string
	category string
	unit     string
	cost     string
	sale     string
	minimum  string
	initial  string
}

var catalog = []seedProduct{
	{"CAF-001", "Café molido 500g", "Alimentos", "UN", "8500", "12000", "10", "40"},
	{"CAF-002", "Café en grano 1kg", "Alimentos", "UN", "15000", "21000", "5", "12"},
	{"AZU-001", "Azúcar morena 1kg", "Alimentos", "KG", "3200", "4500", "20", "75.5"},
	{"VAS-001", "Vaso desechable 12oz x50", "Desechables", "PAQ", "4800", "7000", "", "30"},
	{"FIL-001", "Filtro de papel #4 x100", "Accesorios", "CAJ", "6200", "9500", "3", "8"},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fail("cargar configuración: %v", err)
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		fail("conexión a PostgreSQL: %v", err)
	}
	defer pool.Close()

	merchantRepo := postgres.NewMerchantRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	balanceRepo := postgres.NewBalanceRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	engine := appledger.NewEngine(txRunner, balanceRepo, appledger.SystemClock{}, appledger.UUIDGenerator{}, cfg.Ledger.MaxRetries)

	merchantUC := usecase.NewMerchantUseCase(merchantRepo)
	productUC := usecase.NewProductUseCase(productRepo, balanceRepo, engine, txRunner)
	authUC := auth.NewAuthUseCase(userRepo, merchantRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	merchant, err := merchantUC.Create(dto.CreateMerchantRequest{
		Name:     "Tienda Demo",
		Document: "900123456-7",
		Email:    "demo@tienda.local",
	})
	if err != nil {
		fail("crear comercio demo (¿ya está sembrado?): %v", err)
	}
	fmt.Printf("Comercio: %s (%s)\n", merchant.Name, merchant.ID)

	admin, err := authUC.RegisterUser(dto.RegisterRequest{
		MerchantID: merchant.ID,
		Email:      "admin@tienda.local",
		Password:   "demo-admin-123",
		Name:       "Administrador Demo",
		Role:       entity.RoleAdmin,
	})
	if err != nil {
		fail("crear usuario admin: %v", err)
	}
	fmt.Printf("Usuario admin: %s\n", admin.Email)

	for _, sp := range catalog {
		req := dto.CreateProductRequest{
			Code:         sp.code,
			Name:         sp.name,
			Category:     sp.category,
			Unit:         sp.unit,
			CostPrice:    mustDec(sp.cost),
			SalePrice:    mustDec(sp.sale),
			InitialStock: mustDec(sp.initial),
		}
		if sp.minimum != "" {
			min := mustDec(sp.minimum)
			req.MinimumStock = &min
		}
		product, err := productUC.Create(ctx, merchant.ID, admin.ID, req)
		if err != nil {
			fail("crear producto %s: %v", sp.code, err)
		}
		fmt.Printf("  %s  %-28s stock inicial %s\n", product.Code, product.Name, sp.initial)
	}

	fmt.Printf("Sembrados %d productos para %s\n", len(catalog), merchant.Name)
}

func mustDec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		fail("decimal inválido %q: %v", s, err)
	}
	return d
}

func fail(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
