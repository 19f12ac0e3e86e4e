package memory

import (
	"time"

	"github.com/google/uuid"

	"github.com/minimanager/products-api/internal/domain"
	"github.com/minimanager/products-api/internal/domain/entity"
	"github.com/minimanager/products-api/internal/domain/repository"
)

// txn acumula escrituras en staging mientras el lock de escritura del Store
// está tomado. commit() las materializa; descartar el txn equivale a rollback.
type txn struct {
	s         *Store
	balances  map[string]entity.StockBalance
	movements []entity.StockMovement
	products  map[string]entity.Product
}

func newTxn(s *Store) *txn {
	return &txn{
		s:        s,
		balances: make(map[string]entity.StockBalance),
		products: make(map[string]entity.Product),
	}
}

func (t *txn) commit() {
	for k, v := range t.balances {
		t.s.balances[k] = v
	}
	for k, v := range t.products {
		t.s.products[k] = v
	}
	t.s.movements = append(t.s.movements, t.movements...)
}

// balance visible dentro del txn: staging primero, luego confirmado.
func (t *txn) balance(productID string) (entity.StockBalance, bool) {
	if b, ok := t.balances[productID]; ok {
		return b, true
	}
	b, ok := t.s.balances[productID]
	return b, ok
}

func (t *txn) product(id string) (entity.Product, bool) {
	if p, ok := t.products[id]; ok {
		return p, true
	}
	p, ok := t.s.products[id]
	return p, ok
}

// ── repos atados al txn ───────────────────────────────────────────────────────

type txnBalanceRepo struct{ tx *txn }

func (r *txnBalanceRepo) Get(productID string) (*entity.StockBalance, error) {
	b, ok := r.tx.balance(productID)
	if !ok {
		return nil, nil
	}
	return &b, nil
}

func (r *txnBalanceRepo) Create(balance *entity.StockBalance) error {
	if _, ok := r.tx.balance(balance.ProductID); ok {
		return domain.ErrDuplicate
	}
	r.tx.balances[balance.ProductID] = *balance
	return nil
}

// ConditionalUpdate escribe el nuevo balance solo si la versión almacenada
// coincide con la esperada y el balance no está congelado; de lo contrario
// domain.ErrVersionConflict, igual que el predicado WHERE de PostgreSQL.
func (r *txnBalanceRepo) ConditionalUpdate(productID string, expectedVersion int64, balance *entity.StockBalance) error {
	current, ok := r.tx.balance(productID)
	if !ok {
		return domain.ErrVersionConflict
	}
	if current.Version != expectedVersion || current.FrozenAt != nil {
		return domain.ErrVersionConflict
	}
	r.tx.balances[productID] = *balance
	return nil
}

func (r *txnBalanceRepo) Freeze(productID string, at time.Time) error {
	b, ok := r.tx.balance(productID)
	if !ok {
		return domain.ErrProductNotFound
	}
	b.FrozenAt = &at
	b.UpdatedAt = at
	r.tx.balances[productID] = b
	return nil
}

type txnMovementRepo struct{ tx *txn }

func (r *txnMovementRepo) Append(movement *entity.StockMovement) error {
	if movement.ID == "" {
		movement.ID = uuid.New().String()
	}
	if movement.CreatedAt.IsZero() {
		movement.CreatedAt = time.Now().UTC()
	}
	r.tx.movements = append(r.tx.movements, *movement)
	return nil
}

func (r *txnMovementRepo) GetByID(id string) (*entity.StockMovement, error) {
	for i := range r.tx.movements {
		if r.tx.movements[i].ID == id {
			m := r.tx.movements[i]
			return &m, nil
		}
	}
	return (&movementRepo{s: r.tx.s}).getByIDLocked(id)
}

func (r *txnMovementRepo) ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	return (&movementRepo{s: r.tx.s}).listLocked(func(m *entity.StockMovement) bool {
		return m.ProductID == productID
	}, from, to, limit, offset)
}

func (r *txnMovementRepo) ListByMerchant(merchantID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	return (&movementRepo{s: r.tx.s}).listLocked(func(m *entity.StockMovement) bool {
		return m.MerchantID == merchantID
	}, from, to, limit, offset)
}

type txnProductRepo struct{ tx *txn }

func (r *txnProductRepo) Create(product *entity.Product) error {
	for _, p := range r.tx.s.products {
		if p.MerchantID == product.MerchantID && p.Code == product.Code && p.DeletedAt == nil {
			return domain.ErrDuplicate
		}
	}
	r.tx.products[product.ID] = *product
	return nil
}

func (r *txnProductRepo) GetByID(id string) (*entity.Product, error) {
	p, ok := r.tx.product(id)
	if !ok || p.DeletedAt != nil {
		return nil, nil
	}
	return &p, nil
}

func (r *txnProductRepo) GetByMerchantAndCode(merchantID, code string) (*entity.Product, error) {
	return (&productRepo{s: r.tx.s}).getByMerchantAndCodeLocked(merchantID, code)
}

func (r *txnProductRepo) Update(product *entity.Product) error {
	if _, ok := r.tx.product(product.ID); !ok {
		return domain.ErrNotFound
	}
	r.tx.products[product.ID] = *product
	return nil
}

func (r *txnProductRepo) SoftDelete(id string, status string) error {
	p, ok := r.tx.product(id)
	if !ok {
		return domain.ErrNotFound
	}
	now := time.Now().UTC()
	p.DeletedAt = &now
	p.Status = status
	p.UpdatedAt = now
	r.tx.products[id] = p
	return nil
}

func (r *txnProductRepo) ListByMerchant(merchantID string, limit, offset int) ([]*entity.Product, error) {
	return (&productRepo{s: r.tx.s}).listByMerchantLocked(merchantID, limit, offset)
}

func (r *txnProductRepo) ListByCategory(merchantID, category string) ([]*entity.Product, error) {
	return (&productRepo{s: r.tx.s}).listByCategoryLocked(merchantID, category)
}

func (r *txnProductRepo) ListCategories(merchantID string) ([]string, error) {
	return (&productRepo{s: r.tx.s}).listCategoriesLocked(merchantID)
}

func (r *txnProductRepo) Search(merchantID, query string) ([]*entity.Product, error) {
	return (&productRepo{s: r.tx.s}).searchLocked(merchantID, query)
}

func (r *txnProductRepo) ListLowStock(merchantID string) ([]*repository.LowStockProduct, error) {
	return (&productRepo{s: r.tx.s}).listLowStockLocked(merchantID)
}
