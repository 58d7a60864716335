package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin     = "admin"
	RoleBodeguero = "bodeguero"
	RoleVendedor  = "vendedor"
	RoleCorredor  = "corredor"
)

// User usuario del directorio (pertenece a una Company y, salvo corredores, a una ubicación).
type User struct {
	ID         string
	CompanyID  string
	Email      string
	Name       string
	Role       string // admin, bodeguero, vendedor, corredor
	LocationID string
	IsActive   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Actor identidad del llamador tal como la entrega el directorio (token).
type Actor struct {
	UserID     string
	CompanyID  string
	Role       string
	LocationID string
}

// IsAdmin indica si el actor es administrador de su empresa.
func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }
