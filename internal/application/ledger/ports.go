package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/minimanager/products-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Es la unidad atómica del motor de stock:
// el update condicional del balance y el append del movimiento confirman
// juntos o ninguno.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		balanceRepo repository.BalanceRepository,
		movementRepo repository.MovementRepository,
		productRepo repository.ProductRepository,
	) error) error
}

// Clock abstrae el reloj para que los tests sean deterministas.
type Clock interface {
	Now() time.Time
}

// IDGenerator abstrae la generación de IDs de movimiento.
type IDGenerator interface {
	NewID() string
}

// SystemClock implementación por defecto: hora del sistema en UTC.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

// UUIDGenerator implementación por defecto: UUID v4.
type UUIDGenerator struct{}

func (UUIDGenerator) NewID() string { return uuid.New().String() }
