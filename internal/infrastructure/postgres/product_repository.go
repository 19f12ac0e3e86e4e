package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/minimanager/products-api/internal/domain"
	"github.com/minimanager/products-api/internal/domain/entity"
	"github.com/minimanager/products-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, merchant_id, code, name, description, category, unit,
	cost_price, sale_price, minimum_stock, maximum_stock, reorder_point, status,
	created_at, updated_at, deleted_at`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL
// (usable con pool o tx). El stock actual no vive aquí: lo mantiene el
// motor en stock_balances.
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un producto nuevo.
func (r *ProductRepo) Create(product *entity.Product) error {
	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err := r.q.Exec(context.Background(), query,
		product.ID, product.MerchantID, product.Code, product.Name, product.Description,
		product.Category, product.Unit, product.CostPrice, product.SalePrice,
		product.MinimumStock, product.MaximumStock, product.ReorderPoint, product.Status,
		product.CreatedAt, product.UpdatedAt, product.DeletedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID (excluye eliminados), o nil si no existe.
func (r *ProductRepo) GetByID(id string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1 AND deleted_at IS NULL`
	p, err := scanProduct(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// GetByMerchantAndCode obtiene un producto por comercio y código.
func (r *ProductRepo) GetByMerchantAndCode(merchantID, code string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE merchant_id = $1 AND code = $2 AND deleted_at IS NULL`
	p, err := scanProduct(r.q.QueryRow(context.Background(), query, merchantID, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product by code: %w", err)
	}
	return p, nil
}

// Update actualiza los metadatos del producto. El stock no se toca aquí.
func (r *ProductRepo) Update(product *entity.Product) error {
	query := `
		UPDATE products
		SET code = $2, name = $3, description = $4, category = $5, unit = $6,
			cost_price = $7, sale_price = $8, minimum_stock = $9, maximum_stock = $10,
			reorder_point = $11, status = $12, updated_at = $13
		WHERE id = $1 AND deleted_at IS NULL`
	cmd, err := r.q.Exec(context.Background(), query,
		product.ID, product.Code, product.Name, product.Description, product.Category,
		product.Unit, product.CostPrice, product.SalePrice, product.MinimumStock,
		product.MaximumStock, product.ReorderPoint, product.Status, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SoftDelete marca el producto como eliminado sin borrar la fila.
func (r *ProductRepo) SoftDelete(id string, status string) error {
	cmd, err := r.q.Exec(context.Background(),
		`UPDATE products SET deleted_at = now(), status = $2, updated_at = now() WHERE id = $1 AND deleted_at IS NULL`,
		id, status,
	)
	if err != nil {
		return fmt.Errorf("soft delete product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByMerchant lista productos del comercio con paginación.
func (r *ProductRepo) ListByMerchant(merchantID string, limit, offset int) ([]*entity.Product, error) {
	query := `
		SELECT ` + productColumns + ` FROM products
		WHERE merchant_id = $1 AND deleted_at IS NULL
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	return r.queryProducts(query, merchantID, limit, offset)
}

// ListByCategory lista productos del comercio en una categoría.
func (r *ProductRepo) ListByCategory(merchantID, category string) ([]*entity.Product, error) {
	query := `
		SELECT ` + productColumns + ` FROM products
		WHERE merchant_id = $1 AND category = $2 AND deleted_at IS NULL
		ORDER BY name`
	return r.queryProducts(query, merchantID, category)
}

// ListCategories devuelve las categorías distintas del comercio.
func (r *ProductRepo) ListCategories(merchantID string) ([]string, error) {
	rows, err := r.q.Query(context.Background(),
		`SELECT DISTINCT category FROM products
		 WHERE merchant_id = $1 AND deleted_at IS NULL AND category <> ''
		 ORDER BY category`, merchantID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()
	var list []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// Search busca por nombre, código o categoría (ILIKE).
func (r *ProductRepo) Search(merchantID, query string) ([]*entity.Product, error) {
	sql := `
		SELECT ` + productColumns + ` FROM products
		WHERE merchant_id = $1 AND deleted_at IS NULL
		  AND (name ILIKE $2 OR code ILIKE $2 OR category ILIKE $2)
		ORDER BY name`
	return r.queryProducts(sql, merchantID, "%"+query+"%")
}

// ListLowStock cruza productos activos con su balance: cantidad en o por
// debajo del umbral mínimo. Sin umbral (NULL) el producto nunca aparece.
func (r *ProductRepo) ListLowStock(merchantID string) ([]*repository.LowStockProduct, error) {
	query := `
		SELECT p.id, p.merchant_id, p.code, p.name, p.description, p.category, p.unit,
			p.cost_price, p.sale_price, p.minimum_stock, p.maximum_stock, p.reorder_point,
			p.status, p.created_at, p.updated_at, p.deleted_at,
			b.product_id, b.merchant_id, b.quantity, b.version, b.frozen_at, b.created_at, b.updated_at
		FROM products p
		JOIN stock_balances b ON b.product_id = p.id
		WHERE p.merchant_id = $1 AND p.deleted_at IS NULL AND p.status = $2
		  AND p.minimum_stock IS NOT NULL AND b.quantity <= p.minimum_stock
		ORDER BY p.code`
	rows, err := r.q.Query(context.Background(), query, merchantID, entity.ProductStatusActive)
	if err != nil {
		return nil, fmt.Errorf("list low stock: %w", err)
	}
	defer rows.Close()
	var list []*repository.LowStockProduct
	for rows.Next() {
		var p entity.Product
		var b entity.StockBalance
		if err := rows.Scan(
			&p.ID, &p.MerchantID, &p.Code, &p.Name, &p.Description, &p.Category, &p.Unit,
			&p.CostPrice, &p.SalePrice, &p.MinimumStock, &p.MaximumStock, &p.ReorderPoint,
			&p.Status, &p.CreatedAt, &p.UpdatedAt, &p.DeletedAt,
			&b.ProductID, &b.MerchantID, &b.Quantity, &b.Version, &b.FrozenAt, &b.CreatedAt, &b.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan low stock: %w", err)
		}
		list = append(list, &repository.LowStockProduct{Product: &p, Balance: &b})
	}
	return list, rows.Err()
}

func (r *ProductRepo) queryProducts(query string, args ...any) ([]*entity.Product, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(
		&p.ID, &p.MerchantID, &p.Code, &p.Name, &p.Description, &p.Category, &p.Unit,
		&p.CostPrice, &p.SalePrice, &p.MinimumStock, &p.MaximumStock, &p.ReorderPoint,
		&p.Status, &p.CreatedAt, &p.UpdatedAt, &p.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
