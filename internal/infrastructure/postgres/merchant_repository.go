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

var _ repository.MerchantRepository = (*MerchantRepo)(nil)

// MerchantRepo implementación de MerchantRepository sobre PostgreSQL.
type MerchantRepo struct {
	q Querier
}

// NewMerchantRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMerchantRepository(q Querier) *MerchantRepo {
	return &MerchantRepo{q: q}
}

// Create persiste un comercio nuevo.
func (r *MerchantRepo) Create(merchant *entity.Merchant) error {
	query := `
		INSERT INTO merchants (id, name, document, email, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		merchant.ID, merchant.Name, merchant.Document, merchant.Email,
		merchant.Status, merchant.CreatedAt, merchant.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert merchant: %w", err)
	}
	return nil
}

// GetByID obtiene un comercio por ID, o nil si no existe.
func (r *MerchantRepo) GetByID(id string) (*entity.Merchant, error) {
	query := `SELECT id, name, document, email, status, created_at, updated_at FROM merchants WHERE id = $1`
	var m entity.Merchant
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&m.ID, &m.Name, &m.Document, &m.Email, &m.Status, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get merchant: %w", err)
	}
	return &m, nil
}

// List lista comercios con paginación.
func (r *MerchantRepo) List(limit, offset int) ([]*entity.Merchant, error) {
	query := `
		SELECT id, name, document, email, status, created_at, updated_at
		FROM merchants ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list merchants: %w", err)
	}
	defer rows.Close()
	var list []*entity.Merchant
	for rows.Next() {
		var m entity.Merchant
		if err := rows.Scan(&m.ID, &m.Name, &m.Document, &m.Email, &m.Status, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan merchant: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}
