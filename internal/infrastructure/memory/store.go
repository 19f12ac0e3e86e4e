// Package memory implementa los puertos de persistencia sobre mapas en
// memoria protegidos por mutex. Se usa en los tests del motor (incluida la
// contención real entre goroutines) y en modo demo sin PostgreSQL.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/minimanager/products-api/internal/domain/entity"
	"github.com/minimanager/products-api/internal/domain/repository"
)

// Store almacén en memoria compartido por los adaptadores de repositorio.
// Las lecturas fuera de transacción usan RLock; Run serializa los commits
// bajo el lock de escritura, de modo que el update condicional del balance
// y el append del movimiento forman una sola unidad atómica, igual que la
// transacción PostgreSQL a la que sustituye.
type Store struct {
	mu        sync.RWMutex
	balances  map[string]entity.StockBalance
	movements []entity.StockMovement
	products  map[string]entity.Product
	merchants map[string]entity.Merchant
	users     map[string]entity.User // por email
}

// NewStore construye el almacén vacío.
func NewStore() *Store {
	return &Store{
		balances:  make(map[string]entity.StockBalance),
		products:  make(map[string]entity.Product),
		merchants: make(map[string]entity.Merchant),
		users:     make(map[string]entity.User),
	}
}

// Balances devuelve el adaptador BalanceRepository fuera de transacción.
func (s *Store) Balances() repository.BalanceRepository { return &balanceRepo{s: s} }

// Movements devuelve el adaptador MovementRepository fuera de transacción.
func (s *Store) Movements() repository.MovementRepository { return &movementRepo{s: s} }

// Products devuelve el adaptador ProductRepository fuera de transacción.
func (s *Store) Products() repository.ProductRepository { return &productRepo{s: s} }

// Merchants devuelve el adaptador MerchantRepository.
func (s *Store) Merchants() repository.MerchantRepository { return &merchantRepo{s: s} }

// Users devuelve el adaptador UserRepository.
func (s *Store) Users() repository.UserRepository { return &userRepo{s: s} }

// Run implementa ledger.TxRunner: ejecuta fn con repos transaccionales
// cuyas escrituras quedan en staging y solo se materializan si fn retorna
// nil (commit); un error las descarta (rollback).
func (s *Store) Run(_ context.Context, fn func(
	balanceRepo repository.BalanceRepository,
	movementRepo repository.MovementRepository,
	productRepo repository.ProductRepository,
) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := newTxn(s)
	if err := fn(&txnBalanceRepo{tx: tx}, &txnMovementRepo{tx: tx}, &txnProductRepo{tx: tx}); err != nil {
		return err
	}
	tx.commit()
	return nil
}

// matchRange aplica el rango de fechas opcional de las consultas de historial.
func matchRange(at time.Time, from, to *time.Time) bool {
	if from != nil && at.Before(*from) {
		return false
	}
	if to != nil && at.After(*to) {
		return false
	}
	return true
}
