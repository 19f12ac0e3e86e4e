package memory

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/minimanager/products-api/internal/domain"
	"github.com/minimanager/products-api/internal/domain/entity"
	ledgerdomain "github.com/minimanager/products-api/internal/domain/ledger"
	"github.com/minimanager/products-api/internal/domain/repository"
)

var (
	_ repository.BalanceRepository  = (*balanceRepo)(nil)
	_ repository.MovementRepository = (*movementRepo)(nil)
	_ repository.ProductRepository  = (*productRepo)(nil)
	_ repository.MerchantRepository = (*merchantRepo)(nil)
	_ repository.UserRepository     = (*userRepo)(nil)
)

// ── BalanceRepository ─────────────────────────────────────────────────────────

type balanceRepo struct{ s *Store }

func (r *balanceRepo) Get(productID string) (*entity.StockBalance, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	b, ok := r.s.balances[productID]
	if !ok {
		return nil, nil
	}
	return &b, nil
}

func (r *balanceRepo) Create(balance *entity.StockBalance) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.balances[balance.ProductID]; ok {
		return domain.ErrDuplicate
	}
	r.s.balances[balance.ProductID] = *balance
	return nil
}

// ConditionalUpdate replica el predicado del UPDATE condicional de
// PostgreSQL: fila inexistente, balance congelado o versión distinta
// responden todos ErrVersionConflict.
func (r *balanceRepo) ConditionalUpdate(productID string, expectedVersion int64, balance *entity.StockBalance) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	current, ok := r.s.balances[productID]
	if !ok || current.Version != expectedVersion || current.FrozenAt != nil {
		return domain.ErrVersionConflict
	}
	r.s.balances[productID] = *balance
	return nil
}

func (r *balanceRepo) Freeze(productID string, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.balances[productID]
	if !ok {
		return domain.ErrProductNotFound
	}
	b.FrozenAt = &at
	b.UpdatedAt = at
	r.s.balances[productID] = b
	return nil
}

// ── MovementRepository ────────────────────────────────────────────────────────

type movementRepo struct{ s *Store }

func (r *movementRepo) Append(movement *entity.StockMovement) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if movement.ID == "" {
		movement.ID = uuid.New().String()
	}
	if movement.CreatedAt.IsZero() {
		movement.CreatedAt = time.Now().UTC()
	}
	r.s.movements = append(r.s.movements, *movement)
	return nil
}

func (r *movementRepo) GetByID(id string) (*entity.StockMovement, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.getByIDLocked(id)
}

func (r *movementRepo) getByIDLocked(id string) (*entity.StockMovement, error) {
	for i := range r.s.movements {
		if r.s.movements[i].ID == id {
			m := r.s.movements[i]
			return &m, nil
		}
	}
	return nil, nil
}

func (r *movementRepo) ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.listLocked(func(m *entity.StockMovement) bool { return m.ProductID == productID }, from, to, limit, offset)
}

func (r *movementRepo) ListByMerchant(merchantID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.listLocked(func(m *entity.StockMovement) bool { return m.MerchantID == merchantID }, from, to, limit, offset)
}

// listLocked recorre el log en orden de commit inverso (más recientes
// primero). El caller ya debe tener el lock.
func (r *movementRepo) listLocked(match func(*entity.StockMovement) bool, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	var result []*entity.StockMovement
	skipped := 0
	for i := len(r.s.movements) - 1; i >= 0; i-- {
		m := r.s.movements[i]
		if !match(&m) || !matchRange(m.CreatedAt, from, to) {
			continue
		}
		if skipped < offset {
			skipped++
			continue
		}
		mm := m
		result = append(result, &mm)
		if limit > 0 && len(result) >= limit {
			break
		}
	}
	return result, nil
}

// ── ProductRepository ─────────────────────────────────────────────────────────

type productRepo struct{ s *Store }

func (r *productRepo) Create(product *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.products {
		if p.MerchantID == product.MerchantID && p.Code == product.Code && p.DeletedAt == nil {
			return domain.ErrDuplicate
		}
	}
	r.s.products[product.ID] = *product
	return nil
}

func (r *productRepo) GetByID(id string) (*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.products[id]
	if !ok || p.DeletedAt != nil {
		return nil, nil
	}
	return &p, nil
}

func (r *productRepo) GetByMerchantAndCode(merchantID, code string) (*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.getByMerchantAndCodeLocked(merchantID, code)
}

func (r *productRepo) getByMerchantAndCodeLocked(merchantID, code string) (*entity.Product, error) {
	for _, p := range r.s.products {
		if p.MerchantID == merchantID && p.Code == code && p.DeletedAt == nil {
			pp := p
			return &pp, nil
		}
	}
	return nil, nil
}

func (r *productRepo) Update(product *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.products[product.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.products[product.ID] = *product
	return nil
}

func (r *productRepo) SoftDelete(id string, status string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok {
		return domain.ErrNotFound
	}
	now := time.Now().UTC()
	p.DeletedAt = &now
	p.Status = status
	p.UpdatedAt = now
	r.s.products[id] = p
	return nil
}

func (r *productRepo) ListByMerchant(merchantID string, limit, offset int) ([]*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.listByMerchantLocked(merchantID, limit, offset)
}

func (r *productRepo) listByMerchantLocked(merchantID string, limit, offset int) ([]*entity.Product, error) {
	var all []*entity.Product
	for _, p := range r.s.products {
		if p.MerchantID == merchantID && p.DeletedAt == nil {
			pp := p
			all = append(all, &pp)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	if offset >= len(all) {
		return nil, nil
	}
	all = all[offset:]
	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (r *productRepo) ListByCategory(merchantID, category string) ([]*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.listByCategoryLocked(merchantID, category)
}

func (r *productRepo) listByCategoryLocked(merchantID, category string) ([]*entity.Product, error) {
	var result []*entity.Product
	for _, p := range r.s.products {
		if p.MerchantID == merchantID && p.Category == category && p.DeletedAt == nil {
			pp := p
			result = append(result, &pp)
		}
	}
	return result, nil
}

func (r *productRepo) ListCategories(merchantID string) ([]string, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.listCategoriesLocked(merchantID)
}

func (r *productRepo) listCategoriesLocked(merchantID string) ([]string, error) {
	seen := map[string]bool{}
	var result []string
	for _, p := range r.s.products {
		if p.MerchantID == merchantID && p.DeletedAt == nil && p.Category != "" && !seen[p.Category] {
			seen[p.Category] = true
			result = append(result, p.Category)
		}
	}
	sort.Strings(result)
	return result, nil
}

func (r *productRepo) Search(merchantID, query string) ([]*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.searchLocked(merchantID, query)
}

func (r *productRepo) searchLocked(merchantID, query string) ([]*entity.Product, error) {
	q := strings.ToLower(query)
	var result []*entity.Product
	for _, p := range r.s.products {
		if p.MerchantID != merchantID || p.DeletedAt != nil {
			continue
		}
		if strings.Contains(strings.ToLower(p.Name), q) ||
			strings.Contains(strings.ToLower(p.Code), q) ||
			strings.Contains(strings.ToLower(p.Category), q) {
			pp := p
			result = append(result, &pp)
		}
	}
	return result, nil
}

func (r *productRepo) ListLowStock(merchantID string) ([]*repository.LowStockProduct, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.listLowStockLocked(merchantID)
}

// listLowStockLocked cruza productos activos con su balance y aplica el
// umbral mínimo (nil = nunca bajo).
func (r *productRepo) listLowStockLocked(merchantID string) ([]*repository.LowStockProduct, error) {
	var result []*repository.LowStockProduct
	for _, p := range r.s.products {
		if p.MerchantID != merchantID || p.DeletedAt != nil || p.Status != entity.ProductStatusActive {
			continue
		}
		b, ok := r.s.balances[p.ID]
		qty := decimal.Zero
		if ok {
			qty = b.Quantity
		}
		if ledgerdomain.IsLowStock(qty, p.MinimumStock) {
			pp, bb := p, b
			result = append(result, &repository.LowStockProduct{Product: &pp, Balance: &bb})
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Product.Code < result[j].Product.Code })
	return result, nil
}

// ── MerchantRepository ────────────────────────────────────────────────────────

type merchantRepo struct{ s *Store }

func (r *merchantRepo) Create(merchant *entity.Merchant) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.merchants[merchant.ID]; ok {
		return domain.ErrDuplicate
	}
	r.s.merchants[merchant.ID] = *merchant
	return nil
}

func (r *merchantRepo) GetByID(id string) (*entity.Merchant, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	m, ok := r.s.merchants[id]
	if !ok {
		return nil, nil
	}
	return &m, nil
}

func (r *merchantRepo) List(limit, offset int) ([]*entity.Merchant, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var all []*entity.Merchant
	for _, m := range r.s.merchants {
		mm := m
		all = append(all, &mm)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	if offset >= len(all) {
		return nil, nil
	}
	all = all[offset:]
	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

// ── UserRepository ────────────────────────────────────────────────────────────

type userRepo struct{ s *Store }

func (r *userRepo) Create(user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[user.Email]; ok {
		return domain.ErrDuplicate
	}
	r.s.users[user.Email] = *user
	return nil
}

func (r *userRepo) FindByEmail(email string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[email]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *userRepo) GetByEmailAndMerchant(email, merchantID string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[email]
	if !ok || u.MerchantID != merchantID {
		return nil, nil
	}
	return &u, nil
}
