package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/tenis-ops/internal/domain/entity"
)

// CreateLocationRequest body para POST /api/locations.
type CreateLocationRequest struct {
	Name    string `json:"name" validate:"required,max=120"`
	Type    string `json:"type" validate:"required,oneof=bodega local"`
	Address string `json:"address,omitempty" validate:"max=255"`
}

// LocationResponse ubicación del directorio.
type LocationResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	Address   string    `json:"address,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateProductRequest body para POST /api/products.
type CreateProductRequest struct {
	Reference   string          `json:"reference" validate:"required,max=60"`
	Brand       string          `json:"brand" validate:"required,max=80"`
	Model       string          `json:"model" validate:"required,max=120"`
	Description string          `json:"description,omitempty" validate:"max=500"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// ProductResponse referencia del catálogo.
type ProductResponse struct {
	ID          string          `json:"id"`
	Reference   string          `json:"reference"`
	Brand       string          `json:"brand"`
	Model       string          `json:"model"`
	Description string          `json:"description,omitempty"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	CreatedAt   time.Time       `json:"created_at"`
}

// CreateUserRequest body para POST /api/users. LocationID es obligatorio salvo para corredor y admin.
type CreateUserRequest struct {
	Email      string `json:"email" validate:"required,email"`
	Name       string `json:"name" validate:"required,max=120"`
	Role       string `json:"role" validate:"required,oneof=admin bodeguero vendedor corredor"`
	LocationID string `json:"location_id,omitempty"`
}

// AssignLocationRequest body para POST /api/users/:id/locations.
type AssignLocationRequest struct {
	LocationID string `json:"location_id" validate:"required"`
}

// UserResponse usuario del directorio con sus ubicaciones administradas.
type UserResponse struct {
	ID               string    `json:"id"`
	Email            string    `json:"email"`
	Name             string    `json:"name"`
	Role             string    `json:"role"`
	LocationID       string    `json:"location_id,omitempty"`
	ManagedLocations []string  `json:"managed_locations,omitempty"`
	IsActive         bool      `json:"is_active"`
	CreatedAt        time.Time `json:"created_at"`
}

// ToLocationResponse convierte la entidad.
func ToLocationResponse(l *entity.Location) LocationResponse {
	return LocationResponse{
		ID:        l.ID,
		Name:      l.Name,
		Type:      l.Type,
		Address:   l.Address,
		IsActive:  l.IsActive,
		CreatedAt: l.CreatedAt,
	}
}

// ToProductResponse convierte la entidad.
func ToProductResponse(p *entity.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		Reference:   p.Reference,
		Brand:       p.Brand,
		Model:       p.Model,
		Description: p.Description,
		UnitPrice:   p.UnitPrice,
		CreatedAt:   p.CreatedAt,
	}
}

// ToUserResponse convierte la entidad.
func ToUserResponse(u *entity.User, managed []string) UserResponse {
	return UserResponse{
		ID:               u.ID,
		Email:            u.Email,
		Name:             u.Name,
		Role:             u.Role,
		LocationID:       u.LocationID,
		ManagedLocations: managed,
		IsActive:         u.IsActive,
		CreatedAt:        u.CreatedAt,
	}
}
