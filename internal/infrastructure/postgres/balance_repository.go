package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/minimanager/products-api/internal/domain"
	"github.com/minimanager/products-api/internal/domain/entity"
	"github.com/minimanager/products-api/internal/domain/repository"
)

var _ repository.BalanceRepository = (*BalanceRepo)(nil)

// BalanceRepo implementación de BalanceRepository sobre PostgreSQL
// (usable con pool o tx). El commit condicional se apoya en el predicado
// `WHERE version = $n`: cero filas afectadas significa que otro escritor
// confirmó primero.
type BalanceRepo struct {
	q Querier
}

// NewBalanceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewBalanceRepository(q Querier) *BalanceRepo {
	return &BalanceRepo{q: q}
}

// Get obtiene el balance de un producto, o nil si no existe.
func (r *BalanceRepo) Get(productID string) (*entity.StockBalance, error) {
	query := `
		SELECT product_id, merchant_id, quantity, version, frozen_at, created_at, updated_at
		FROM stock_balances WHERE product_id = $1`
	var b entity.StockBalance
	err := r.q.QueryRow(context.Background(), query, productID).Scan(
		&b.ProductID, &b.MerchantID, &b.Quantity, &b.Version, &b.FrozenAt, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get balance: %w", err)
	}
	return &b, nil
}

// Create inserta el balance de un producto recién creado.
func (r *BalanceRepo) Create(balance *entity.StockBalance) error {
	query := `
		INSERT INTO stock_balances (product_id, merchant_id, quantity, version, frozen_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		balance.ProductID, balance.MerchantID, balance.Quantity, balance.Version,
		balance.FrozenAt, balance.CreatedAt, balance.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert balance: %w", err)
	}
	return nil
}

// ConditionalUpdate escribe el nuevo balance solo si la versión almacenada
// sigue siendo expectedVersion. Cero filas afectadas: otro escritor ganó y
// se devuelve domain.ErrVersionConflict para que el motor reintente.
func (r *BalanceRepo) ConditionalUpdate(productID string, expectedVersion int64, balance *entity.StockBalance) error {
	query := `
		UPDATE stock_balances
		SET quantity = $2, version = $3, updated_at = $4
		WHERE product_id = $1 AND version = $5 AND frozen_at IS NULL`
	cmd, err := r.q.Exec(context.Background(), query,
		productID, balance.Quantity, balance.Version, balance.UpdatedAt, expectedVersion,
	)
	if err != nil {
		return fmt.Errorf("conditional update balance: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrVersionConflict
	}
	return nil
}

// Freeze congela el balance de un producto retirado.
func (r *BalanceRepo) Freeze(productID string, at time.Time) error {
	cmd, err := r.q.Exec(context.Background(),
		`UPDATE stock_balances SET frozen_at = $2, updated_at = $2 WHERE product_id = $1 AND frozen_at IS NULL`,
		productID, at,
	)
	if err != nil {
		return fmt.Errorf("freeze balance: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}
