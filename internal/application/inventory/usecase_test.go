package inventory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/tenis-ops/internal/application/dto"
	"github.com/jhoicas/tenis-ops/internal/application/inventory"
	"github.com/jhoicas/tenis-ops/internal/domain"
	"github.com/jhoicas/tenis-ops/internal/domain/entity"
	"github.com/jhoicas/tenis-ops/pkg/logger"
)

func newMovementUseCase(t *testing.T, h *harness) *inventory.RegisterMovementUseCase {
	t.Helper()
	ctx := context.Background()
	repos := h.store.Repos()
	require.NoError(t, repos.Locations.Create(ctx, &entity.Location{ID: locID, CompanyID: companyID, Name: "Local centro", Type: entity.LocationTypeStore}))
	require.NoError(t, repos.Products.Create(ctx, &entity.Product{ID: "p-1", CompanyID: companyID, Reference: "A", Brand: "Nike", Model: "Air Max 90"}))
	return inventory.NewRegisterMovementUseCase(h.store, h.engine, repos.Products, repos.Locations, repos.Users, logger.Nop())
}

func TestRegisterMovement_IngresoDePieSueltoFormaPares(t *testing.T) {
	h := newHarness()
	uc := newMovementUseCase(t, h)
	keeper := entity.Actor{UserID: "k-1", CompanyID: companyID, Role: entity.RoleBodeguero, LocationID: locID}

	_, err := uc.RegisterMovementFromRequest(context.Background(), keeper, dto.RegisterMovementRequest{
		LocationID: locID, Reference: "A", Size: "42", InventoryType: entity.InventoryTypeRightOnly, Type: inventory.MovementTypeEntry, Quantity: 2,
	})
	require.NoError(t, err)

	out, err := uc.RegisterMovementFromRequest(context.Background(), keeper, dto.RegisterMovementRequest{
		LocationID: locID, Reference: "A", Size: "42", InventoryType: entity.InventoryTypeLeftOnly, Type: inventory.MovementTypeEntry, Quantity: 1,
	})
	require.NoError(t, err)
	require.NotNil(t, out.Pairing)
	assert.Equal(t, 1, out.Pairing.QuantityFormed)
	assert.Equal(t, 1, h.qty(t, skey("A", entity.InventoryTypePair)))
	assert.Equal(t, 1, h.qty(t, skey("A", entity.InventoryTypeRightOnly)))

	rec, err := h.store.Repos().Stock.Get(context.Background(), skey("A", entity.InventoryTypePair))
	require.NoError(t, err)
	assert.Equal(t, "Nike", rec.Brand)
	assert.Equal(t, "Air Max 90", rec.Model)
}

func TestRegisterMovement_Validaciones(t *testing.T) {
	h := newHarness()
	uc := newMovementUseCase(t, h)
	keeper := entity.Actor{UserID: "k-1", CompanyID: companyID, Role: entity.RoleBodeguero, LocationID: locID}
	vendor := entity.Actor{UserID: "v-1", CompanyID: companyID, Role: entity.RoleVendedor, LocationID: locID}
	stranger := entity.Actor{UserID: "k-2", CompanyID: companyID, Role: entity.RoleBodeguero, LocationID: "otra"}

	base := inventory.MovementInput{Actor: keeper, LocationID: locID, Reference: "A", Size: "42", InventoryType: entity.InventoryTypePair, Type: inventory.MovementTypeEntry, Quantity: 3}

	in := base
	in.Actor = vendor
	_, err := uc.RegisterMovement(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	in = base
	in.Actor = stranger
	_, err = uc.RegisterMovement(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	in = base
	in.Reference = "NO-EXISTE"
	_, err = uc.RegisterMovement(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	in = base
	in.Quantity = -1
	_, err = uc.RegisterMovement(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	in = base
	in.Type = inventory.MovementTypeAdjustment
	in.Quantity = -1
	_, err = uc.RegisterMovement(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	res, err := uc.RegisterMovement(context.Background(), base)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Before)
	assert.Equal(t, 3, res.After)
}

func TestQueryUseCase_DistribucionYLog(t *testing.T) {
	h := newHarness()
	repos := h.store.Repos()
	require.NoError(t, repos.Locations.Create(context.Background(), &entity.Location{ID: locID, CompanyID: companyID, Name: "Local centro"}))
	h.adjust(t, skey("A", entity.InventoryTypePair), 6)
	h.adjust(t, skey("A", entity.InventoryTypeLeftOnly), 2)
	h.adjust(t, skey("A", entity.InventoryTypeRightOnly), 3)
	q := inventory.NewQueryUseCase(h.ledger, repos.Stock, repos.Changes, repos.Locations)

	dist, err := q.GetDistribution(context.Background(), companyID, "A", "42")
	require.NoError(t, err)
	assert.Equal(t, 6, dist.TotalPairs)
	assert.Equal(t, 2, dist.FormablePairs)
	assert.Equal(t, 75.0, dist.EfficiencyPct)
	require.Len(t, dist.Records, 3)
	assert.Equal(t, "Local centro", dist.Records[0].LocationName)

	qty, err := q.GetQuantity(context.Background(), companyID, "A", "42", locID, "")
	require.NoError(t, err)
	assert.Equal(t, 6, qty.Quantity)

	changes, err := q.ListChanges(context.Background(), companyID, "", locID, dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, changes, 3)

	_, err = q.ListChanges(context.Background(), companyID, "", "", dto.PageRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
