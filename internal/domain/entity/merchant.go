package entity

import "time"

// Merchant representa un comercio (tenant). Todo balance y movimiento
// pertenece exactamente a un comercio.
type Merchant struct {
	ID        string
	Name      string
	Document  string // NIT / CNPJ / identificación fiscal
	Email     string
	Status    string // active, suspended
	CreatedAt time.Time
	UpdatedAt time.Time
}
