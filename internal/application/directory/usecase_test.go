package directory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/tenis-ops/internal/application/directory"
	"github.com/jhoicas/tenis-ops/internal/application/dto"
	"github.com/jhoicas/tenis-ops/internal/domain"
	"github.com/jhoicas/tenis-ops/internal/domain/entity"
	"github.com/jhoicas/tenis-ops/internal/infrastructure/memory"
	"github.com/jhoicas/tenis-ops/pkg/logger"
)

var (
	admin  = entity.Actor{UserID: "admin-1", CompanyID: "company-1", Role: entity.RoleAdmin}
	keeper = entity.Actor{UserID: "keeper-1", CompanyID: "company-1", Role: entity.RoleBodeguero, LocationID: "bodega-1"}
	vendor = entity.Actor{UserID: "vendor-1", CompanyID: "company-1", Role: entity.RoleVendedor, LocationID: "local-1"}
	other  = entity.Actor{UserID: "admin-2", CompanyID: "company-2", Role: entity.RoleAdmin}
)

func newUseCase() *directory.UseCase {
	return directory.NewUseCase(memory.NewStore().Repos(), logger.Nop())
}

func TestCreateLocation_SoloAdmin(t *testing.T) {
	uc := newUseCase()
	ctx := context.Background()

	_, err := uc.CreateLocation(ctx, vendor, dto.CreateLocationRequest{Name: "Local Norte", Type: entity.LocationTypeStore})
	assert.True(t, errors.Is(err, domain.ErrForbidden))

	loc, err := uc.CreateLocation(ctx, admin, dto.CreateLocationRequest{Name: "Local Norte", Type: entity.LocationTypeStore})
	require.NoError(t, err)
	assert.True(t, loc.IsActive)

	list, err := uc.ListLocations(ctx, admin)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	// otra empresa no ve la ubicación
	list, err = uc.ListLocations(ctx, other)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestCreateProduct_ReferenciaDuplicada(t *testing.T) {
	uc := newUseCase()
	ctx := context.Background()
	in := dto.CreateProductRequest{Reference: "NK-AM90", Brand: "Nike", Model: "Air Max 90", UnitPrice: decimal.NewFromInt(450000)}

	_, err := uc.CreateProduct(ctx, keeper, in)
	require.NoError(t, err)

	_, err = uc.CreateProduct(ctx, admin, in)
	assert.True(t, errors.Is(err, domain.ErrDuplicate))

	_, err = uc.CreateProduct(ctx, vendor, in)
	assert.True(t, errors.Is(err, domain.ErrForbidden))

	got, err := uc.GetProduct(ctx, vendor, "NK-AM90")
	require.NoError(t, err)
	assert.Equal(t, "Nike", got.Brand)

	_, err = uc.GetProduct(ctx, other, "NK-AM90")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestCreateUser_VendedorRequiereUbicacion(t *testing.T) {
	uc := newUseCase()
	ctx := context.Background()

	_, err := uc.CreateUser(ctx, admin, dto.CreateUserRequest{Email: "v@x.co", Name: "Vendedor", Role: entity.RoleVendedor})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	_, err = uc.CreateUser(ctx, admin, dto.CreateUserRequest{Email: "v@x.co", Name: "Vendedor", Role: entity.RoleVendedor, LocationID: "no-existe"})
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	courier, err := uc.CreateUser(ctx, admin, dto.CreateUserRequest{Email: "C@X.co ", Name: "Corredor", Role: entity.RoleCorredor})
	require.NoError(t, err)
	assert.Equal(t, "c@x.co", courier.Email)
}

func TestAssignLocation_AgregaUbicacionAdministrada(t *testing.T) {
	uc := newUseCase()
	ctx := context.Background()

	b1, err := uc.CreateLocation(ctx, admin, dto.CreateLocationRequest{Name: "Bodega 1", Type: entity.LocationTypeWarehouse})
	require.NoError(t, err)
	b2, err := uc.CreateLocation(ctx, admin, dto.CreateLocationRequest{Name: "Bodega 2", Type: entity.LocationTypeWarehouse})
	require.NoError(t, err)
	user, err := uc.CreateUser(ctx, admin, dto.CreateUserRequest{Email: "b@x.co", Name: "Bodeguero", Role: entity.RoleBodeguero, LocationID: b1.ID})
	require.NoError(t, err)

	got, err := uc.AssignLocation(ctx, admin, user.ID, dto.AssignLocationRequest{LocationID: b2.ID})
	require.NoError(t, err)
	assert.Equal(t, []string{b2.ID}, got.ManagedLocations)

	// idempotente
	got, err = uc.AssignLocation(ctx, admin, user.ID, dto.AssignLocationRequest{LocationID: b2.ID})
	require.NoError(t, err)
	assert.Len(t, got.ManagedLocations, 1)

	_, err = uc.AssignLocation(ctx, other, user.ID, dto.AssignLocationRequest{LocationID: b2.ID})
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	users, err := uc.ListUsers(ctx, admin, dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, []string{b2.ID}, users[0].ManagedLocations)
}
