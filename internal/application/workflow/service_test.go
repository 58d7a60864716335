package workflow_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/tenis-ops/internal/application/dto"
	"github.com/jhoicas/tenis-ops/internal/application/inventory"
	"github.com/jhoicas/tenis-ops/internal/application/transfer"
	"github.com/jhoicas/tenis-ops/internal/application/workflow"
	"github.com/jhoicas/tenis-ops/internal/domain"
	"github.com/jhoicas/tenis-ops/internal/domain/entity"
	"github.com/jhoicas/tenis-ops/internal/domain/repository"
	"github.com/jhoicas/tenis-ops/internal/infrastructure/memory"
	"github.com/jhoicas/tenis-ops/pkg/logger"
)

const (
	companyID  = "company-1"
	warehouse  = "bodega-1"
	warehouse2 = "bodega-2"
	store      = "local-1"
)

var (
	keeper      = entity.Actor{UserID: "keeper-1", CompanyID: companyID, Role: entity.RoleBodeguero, LocationID: warehouse}
	otherKeeper = entity.Actor{UserID: "keeper-2", CompanyID: companyID, Role: entity.RoleBodeguero, LocationID: warehouse2}
	vendor      = entity.Actor{UserID: "vendor-1", CompanyID: companyID, Role: entity.RoleVendedor, LocationID: store}
	courier     = entity.Actor{UserID: "courier-1", CompanyID: companyID, Role: entity.RoleCorredor}
	admin       = entity.Actor{UserID: "admin-1", CompanyID: companyID, Role: entity.RoleAdmin}
)

func newService(t *testing.T) *workflow.Service {
	t.Helper()
	ctx := context.Background()
	log := logger.Nop()
	st := memory.NewStore()
	ledger := inventory.NewLedger(log, nil)
	engine := inventory.NewEngine(ledger, log, nil)
	repos := st.Repos()
	for _, l := range []entity.Location{
		{ID: warehouse, CompanyID: companyID, Name: "Bodega norte", Type: entity.LocationTypeWarehouse},
		{ID: warehouse2, CompanyID: companyID, Name: "Bodega sur", Type: entity.LocationTypeWarehouse},
		{ID: store, CompanyID: companyID, Name: "Local centro", Type: entity.LocationTypeStore},
	} {
		l := l
		require.NoError(t, repos.Locations.Create(ctx, &l))
	}
	require.NoError(t, st.Run(ctx, func(r repository.Repos) error {
		_, err := ledger.Adjust(ctx, r, inventory.AdjustInput{
			Key:        entity.StockKey{CompanyID: companyID, ProductReference: "NK-AM90", Size: "42", LocationID: warehouse, InventoryType: entity.InventoryTypePair},
			Delta:      5,
			ActorID:    "seed",
			ChangeType: entity.ChangeTypeEntry,
		})
		return err
	}))
	machine := transfer.NewMachine(st, engine, log, nil, transfer.Config{})
	return workflow.NewService(machine, repos.Users, repos.Locations)
}

func createRequest() dto.CreateTransferRequest {
	return dto.CreateTransferRequest{
		SourceLocationID:      warehouse,
		DestinationLocationID: store,
		Reference:             "NK-AM90",
		Size:                  "42",
		Quantity:              2,
		Purpose:               entity.PurposeRestock,
		PickupType:            entity.PickupTypeCorredor,
	}
}

func TestWorkflow_FlujoPorRoles(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	created, err := svc.CreateTransfer(ctx, vendor, createRequest())
	require.NoError(t, err)

	queue, err := svc.PendingForWarehouse(ctx, keeper)
	require.NoError(t, err)
	require.Len(t, queue.Transfers, 1)

	empty, err := svc.PendingForWarehouse(ctx, otherKeeper)
	require.NoError(t, err)
	assert.Empty(t, empty.Transfers)

	_, err = svc.AcceptRequest(ctx, keeper, created.ID, dto.NotesRequest{})
	require.NoError(t, err)

	available, err := svc.AvailableForCourier(ctx, courier)
	require.NoError(t, err)
	require.Len(t, available.Transfers, 1)

	_, err = svc.AcceptAsCourier(ctx, courier, created.ID, dto.AssignCourierRequest{EtaMinutes: 15})
	require.NoError(t, err)
	_, err = svc.DeliverToCourier(ctx, keeper, created.ID, dto.NotesRequest{})
	require.NoError(t, err)
	_, err = svc.ConfirmPickup(ctx, courier, created.ID, dto.NotesRequest{})
	require.NoError(t, err)
	_, err = svc.ConfirmDelivery(ctx, courier, created.ID, dto.ConfirmDeliveryRequest{Success: true})
	require.NoError(t, err)

	received, err := svc.ConfirmReception(ctx, vendor, created.ID, dto.ConfirmReceptionRequest{ReceivedQuantity: 2, ConditionOK: true})
	require.NoError(t, err)
	assert.Equal(t, entity.TransferStatusCompleted, received.Transfer.Status)

	mine, err := svc.MyTransfers(ctx, vendor, dto.PageRequest{Limit: 20})
	require.NoError(t, err)
	require.NotNil(t, mine.Summary)
	assert.Equal(t, 1, mine.Summary.Completed)

	history, err := svc.CourierHistory(ctx, courier, dto.PageRequest{Limit: 20})
	require.NoError(t, err)
	assert.Len(t, history.Transfers, 1)
}

func TestWorkflow_BodegueroDeOtraUbicacionNoAcepta(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()
	created, err := svc.CreateTransfer(ctx, vendor, createRequest())
	require.NoError(t, err)

	_, err = svc.AcceptRequest(ctx, otherKeeper, created.ID, dto.NotesRequest{})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = svc.AcceptRequest(ctx, courier, created.ID, dto.NotesRequest{})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	got, err := svc.AcceptRequest(ctx, admin, created.ID, dto.NotesRequest{})
	require.NoError(t, err)
	assert.Equal(t, entity.TransferStatusAccepted, got.Status)
}

func TestWorkflow_VendedorSoloPideParaSuUbicacion(t *testing.T) {
	svc := newService(t)
	req := createRequest()
	req.SourceLocationID = warehouse2
	req.DestinationLocationID = warehouse

	_, err := svc.CreateTransfer(context.Background(), vendor, req)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestWorkflow_RolesPorOperacion(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	_, err := svc.AvailableForCourier(ctx, vendor)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = svc.CreateTransfer(ctx, courier, createRequest())
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = svc.PendingForWarehouse(ctx, vendor)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestWorkflow_DetalleOcultoAAjenos(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()
	created, err := svc.CreateTransfer(ctx, vendor, createRequest())
	require.NoError(t, err)

	_, err = svc.Get(ctx, keeper, created.ID)
	assert.NoError(t, err)

	_, err = svc.Get(ctx, otherKeeper, created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	foreign := vendor
	foreign.CompanyID = "company-2"
	_, err = svc.Get(ctx, foreign, created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func deliverToStore(t *testing.T, svc *workflow.Service, id string) {
	t.Helper()
	ctx := context.Background()
	_, err := svc.AcceptRequest(ctx, keeper, id, dto.NotesRequest{})
	require.NoError(t, err)
	_, err = svc.AcceptAsCourier(ctx, courier, id, dto.AssignCourierRequest{EtaMinutes: 15})
	require.NoError(t, err)
	_, err = svc.DeliverToCourier(ctx, keeper, id, dto.NotesRequest{})
	require.NoError(t, err)
	_, err = svc.ConfirmPickup(ctx, courier, id, dto.NotesRequest{})
	require.NoError(t, err)
	_, err = svc.ConfirmDelivery(ctx, courier, id, dto.ConfirmDeliveryRequest{Success: true})
	require.NoError(t, err)
}

func TestWorkflow_RecepcionExigeUbicacionDestino(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()
	created, err := svc.CreateTransfer(ctx, vendor, createRequest())
	require.NoError(t, err)
	deliverToStore(t, svc, created.ID)

	moved := vendor
	moved.LocationID = warehouse2
	_, err = svc.ConfirmReception(ctx, moved, created.ID, dto.ConfirmReceptionRequest{ReceivedQuantity: 2, ConditionOK: true})
	var ownership *domain.OwnershipError
	require.ErrorAs(t, err, &ownership)

	got, err := svc.Get(ctx, vendor, created.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TransferStatusDelivered, got.Status)

	received, err := svc.ConfirmReception(ctx, vendor, created.ID, dto.ConfirmReceptionRequest{ReceivedQuantity: 2, ConditionOK: true})
	require.NoError(t, err)
	assert.Equal(t, entity.TransferStatusCompleted, received.Transfer.Status)
}

func TestWorkflow_ResumenNoDependeDeLaPagina(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()
	var ids []string
	for i := 0; i < 3; i++ {
		created, err := svc.CreateTransfer(ctx, vendor, createRequest())
		require.NoError(t, err)
		ids = append(ids, created.ID)
	}
	_, err := svc.CancelTransfer(ctx, vendor, ids[0], dto.ReasonRequest{Reason: "ya no se necesita"})
	require.NoError(t, err)

	first, err := svc.MyTransfers(ctx, vendor, dto.PageRequest{Limit: 1})
	require.NoError(t, err)
	second, err := svc.MyTransfers(ctx, vendor, dto.PageRequest{Limit: 1, Offset: 2})
	require.NoError(t, err)

	assert.Len(t, first.Transfers, 1)
	assert.Len(t, second.Transfers, 1)
	for _, page := range []*dto.TransferListResponse{first, second} {
		require.NotNil(t, page.Summary)
		assert.Equal(t, 3, page.Summary.Total)
		assert.Equal(t, 2, page.Summary.Pending)
		assert.Equal(t, 1, page.Summary.Closed)
	}
}
