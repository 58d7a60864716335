package entity

import "time"

// Tipos de ubicación.
const (
	LocationTypeWarehouse = "bodega"
	LocationTypeStore     = "local"
)

// Location representa una bodega o local donde se almacena inventario.
type Location struct {
	ID        string
	CompanyID string
	Name      string
	Type      string // bodega, local
	Address   string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
