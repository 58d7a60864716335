// Package directory administra la copia local del directorio: ubicaciones, usuarios y referencias.
package directory

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/tenis-ops/internal/application/access"
	"github.com/jhoicas/tenis-ops/internal/application/dto"
	"github.com/jhoicas/tenis-ops/internal/domain"
	"github.com/jhoicas/tenis-ops/internal/domain/entity"
	"github.com/jhoicas/tenis-ops/internal/domain/repository"
	"github.com/jhoicas/tenis-ops/pkg/logger"
)

// UseCase casos de uso del directorio. Todo queda acotado a la empresa del actor.
type UseCase struct {
	locations repository.LocationRepository
	users     repository.UserRepository
	products  repository.ProductRepository
	log       *logger.Logger
	now       func() time.Time
}

// NewUseCase construye el caso de uso.
func NewUseCase(repos repository.Repos, log *logger.Logger) *UseCase {
	return &UseCase{
		locations: repos.Locations,
		users:     repos.Users,
		products:  repos.Products,
		log:       log.Component("directory"),
		now:       time.Now,
	}
}

// CreateLocation crea una bodega o local. Solo admin.
func (uc *UseCase) CreateLocation(ctx context.Context, actor entity.Actor, in dto.CreateLocationRequest) (*dto.LocationResponse, error) {
	if err := access.RequireRole(actor, entity.RoleAdmin); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.Type != entity.LocationTypeWarehouse && in.Type != entity.LocationTypeStore {
		return nil, domain.ErrInvalidInput
	}
	now := uc.now()
	loc := &entity.Location{
		ID:        uuid.New().String(),
		CompanyID: actor.CompanyID,
		Name:      name,
		Type:      in.Type,
		Address:   in.Address,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.locations.Create(ctx, loc); err != nil {
		return nil, err
	}
	uc.log.Info().Str("company_id", actor.CompanyID).Str("location_id", loc.ID).Str("type", loc.Type).Msg("ubicación creada")
	out := dto.ToLocationResponse(loc)
	return &out, nil
}

// ListLocations ubicaciones de la empresa del actor.
func (uc *UseCase) ListLocations(ctx context.Context, actor entity.Actor) ([]dto.LocationResponse, error) {
	list, err := uc.locations.ListByCompany(ctx, actor.CompanyID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.LocationResponse, 0, len(list))
	for _, l := range list {
		out = append(out, dto.ToLocationResponse(l))
	}
	return out, nil
}

// CreateProduct registra una referencia del catálogo. Admin o bodeguero.
func (uc *UseCase) CreateProduct(ctx context.Context, actor entity.Actor, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if err := access.RequireRole(actor, entity.RoleAdmin, entity.RoleBodeguero); err != nil {
		return nil, err
	}
	ref := strings.TrimSpace(in.Reference)
	if ref == "" || in.UnitPrice.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.products.GetByReference(ctx, actor.CompanyID, ref)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := uc.now()
	product := &entity.Product{
		ID:          uuid.New().String(),
		CompanyID:   actor.CompanyID,
		Reference:   ref,
		Brand:       in.Brand,
		Model:       in.Model,
		Description: in.Description,
		UnitPrice:   in.UnitPrice,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.products.Create(ctx, product); err != nil {
		return nil, err
	}
	out := dto.ToProductResponse(product)
	return &out, nil
}

// GetProduct busca una referencia en la empresa del actor.
func (uc *UseCase) GetProduct(ctx context.Context, actor entity.Actor, reference string) (*dto.ProductResponse, error) {
	p, err := uc.products.GetByReference(ctx, actor.CompanyID, reference)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	out := dto.ToProductResponse(p)
	return &out, nil
}

// CreateUser registra un usuario del directorio. Vendedores y bodegueros necesitan ubicación.
func (uc *UseCase) CreateUser(ctx context.Context, actor entity.Actor, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	if err := access.RequireRole(actor, entity.RoleAdmin); err != nil {
		return nil, err
	}
	switch in.Role {
	case entity.RoleVendedor, entity.RoleBodeguero:
		if in.LocationID == "" {
			return nil, domain.ErrInvalidInput
		}
	case entity.RoleAdmin, entity.RoleCorredor:
	default:
		return nil, domain.ErrInvalidInput
	}
	if in.LocationID != "" {
		loc, err := uc.locations.GetByID(ctx, actor.CompanyID, in.LocationID)
		if err != nil {
			return nil, err
		}
		if loc == nil {
			return nil, domain.ErrNotFound
		}
	}
	now := uc.now()
	user := &entity.User{
		ID:         uuid.New().String(),
		CompanyID:  actor.CompanyID,
		Email:      strings.ToLower(strings.TrimSpace(in.Email)),
		Name:       in.Name,
		Role:       in.Role,
		LocationID: in.LocationID,
		IsActive:   true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := uc.users.Create(ctx, user); err != nil {
		return nil, err
	}
	uc.log.Info().Str("company_id", actor.CompanyID).Str("user_id", user.ID).Str("role", user.Role).Msg("usuario creado")
	out := dto.ToUserResponse(user, nil)
	return &out, nil
}

// ListUsers usuarios de la empresa con sus ubicaciones administradas. Solo admin.
func (uc *UseCase) ListUsers(ctx context.Context, actor entity.Actor, page dto.PageRequest) ([]dto.UserResponse, error) {
	if err := access.RequireRole(actor, entity.RoleAdmin); err != nil {
		return nil, err
	}
	page.DefaultPage()
	list, err := uc.users.ListByCompany(ctx, actor.CompanyID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UserResponse, 0, len(list))
	for _, u := range list {
		managed, err := uc.users.ManagedLocationIDs(ctx, actor.CompanyID, u.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, dto.ToUserResponse(u, managed))
	}
	return out, nil
}

// AssignLocation agrega una ubicación administrada a un usuario. Idempotente.
func (uc *UseCase) AssignLocation(ctx context.Context, actor entity.Actor, userID string, in dto.AssignLocationRequest) (*dto.UserResponse, error) {
	if err := access.RequireRole(actor, entity.RoleAdmin); err != nil {
		return nil, err
	}
	user, err := uc.users.GetByID(ctx, actor.CompanyID, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrNotFound
	}
	if err := uc.users.AssignLocation(ctx, actor.CompanyID, userID, in.LocationID); err != nil {
		return nil, err
	}
	managed, err := uc.users.ManagedLocationIDs(ctx, actor.CompanyID, userID)
	if err != nil {
		return nil, err
	}
	out := dto.ToUserResponse(user, managed)
	return &out, nil
}
