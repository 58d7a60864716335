package transfer_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/tenis-ops/internal/application/inventory"
	"github.com/jhoicas/tenis-ops/internal/application/transfer"
	"github.com/jhoicas/tenis-ops/internal/domain"
	"github.com/jhoicas/tenis-ops/internal/domain/entity"
	"github.com/jhoicas/tenis-ops/internal/domain/repository"
	"github.com/jhoicas/tenis-ops/internal/infrastructure/memory"
	"github.com/jhoicas/tenis-ops/pkg/logger"
)

const (
	companyID = "company-1"
	warehouse = "bodega-1"
	store     = "local-1"
	reference = "NK-AM90"
	size      = "42"
)

var (
	keeper  = entity.Actor{UserID: "keeper-1", CompanyID: companyID, Role: entity.RoleBodeguero, LocationID: warehouse}
	vendor  = entity.Actor{UserID: "vendor-1", CompanyID: companyID, Role: entity.RoleVendedor, LocationID: store}
	courier = entity.Actor{UserID: "courier-1", CompanyID: companyID, Role: entity.RoleCorredor}
	rival   = entity.Actor{UserID: "courier-2", CompanyID: companyID, Role: entity.RoleCorredor}
)

type fixture struct {
	store   *memory.Store
	ledger  *inventory.Ledger
	machine *transfer.Machine
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	log := logger.Nop()
	st := memory.NewStore()
	ledger := inventory.NewLedger(log, nil)
	engine := inventory.NewEngine(ledger, log, nil)
	f := &fixture{
		store:   st,
		ledger:  ledger,
		machine: transfer.NewMachine(st, engine, log, nil, transfer.Config{ClientReservationMinutes: 45}),
	}
	ctx := context.Background()
	repos := st.Repos()
	require.NoError(t, repos.Locations.Create(ctx, &entity.Location{ID: warehouse, CompanyID: companyID, Name: "Bodega central", Type: entity.LocationTypeWarehouse, IsActive: true}))
	require.NoError(t, repos.Locations.Create(ctx, &entity.Location{ID: store, CompanyID: companyID, Name: "Local centro", Type: entity.LocationTypeStore, IsActive: true}))
	require.NoError(t, repos.Products.Create(ctx, &entity.Product{ID: "p-1", CompanyID: companyID, Reference: reference, Brand: "Nike", Model: "Air Max 90"}))
	return f
}

func key(location, invType string) entity.StockKey {
	return entity.StockKey{CompanyID: companyID, ProductReference: reference, Size: size, LocationID: location, InventoryType: invType}
}

func (f *fixture) seed(t *testing.T, k entity.StockKey, qty int) {
	t.Helper()
	err := f.store.Run(context.Background(), func(repos repository.Repos) error {
		_, err := f.ledger.Adjust(context.Background(), repos, inventory.AdjustInput{
			Key: k, Delta: qty, ActorID: "seed", ChangeType: entity.ChangeTypeEntry,
		})
		return err
	})
	require.NoError(t, err)
}

func (f *fixture) qty(t *testing.T, k entity.StockKey) int {
	t.Helper()
	rec, err := f.store.Repos().Stock.Get(context.Background(), k)
	require.NoError(t, err)
	return rec.Quantity
}

func (f *fixture) create(t *testing.T, qty int, invType, pickup string) *entity.TransferRequest {
	t.Helper()
	tr, err := f.machine.Create(context.Background(), vendor, transfer.CreateInput{
		SourceLocationID:      warehouse,
		DestinationLocationID: store,
		Reference:             reference,
		Size:                  size,
		Quantity:              qty,
		InventoryType:         invType,
		Purpose:               entity.PurposeRestock,
		PickupType:            pickup,
	})
	require.NoError(t, err)
	return tr
}

// deliverByCourier lleva una transferencia pendiente hasta delivered.
func (f *fixture) deliverByCourier(t *testing.T, id string) {
	t.Helper()
	ctx := context.Background()
	_, err := f.machine.Accept(ctx, keeper, id, "", nil)
	require.NoError(t, err)
	_, err = f.machine.AssignCourier(ctx, courier, id, 20, "")
	require.NoError(t, err)
	_, err = f.machine.DeliverToCourier(ctx, keeper, id, "", nil)
	require.NoError(t, err)
	_, err = f.machine.ConfirmPickup(ctx, courier, id, "")
	require.NoError(t, err)
	_, err = f.machine.ConfirmDelivery(ctx, courier, id, true, "")
	require.NoError(t, err)
}

func TestMachine_FlujoCompletoPorCorredor(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seed(t, key(warehouse, entity.InventoryTypePair), 5)

	tr := f.create(t, 3, "", entity.PickupTypeCorredor)
	assert.Equal(t, entity.TransferStatusPending, tr.Status)
	assert.Equal(t, "Nike", tr.Brand)
	assert.Equal(t, 5, f.qty(t, key(warehouse, entity.InventoryTypePair)), "crear no descuenta stock")

	_, err := f.machine.Accept(ctx, keeper, tr.ID, "listo", nil)
	require.NoError(t, err)
	_, err = f.machine.AssignCourier(ctx, courier, tr.ID, 20, "")
	require.NoError(t, err)
	assert.Equal(t, 5, f.qty(t, key(warehouse, entity.InventoryTypePair)), "aceptar y asignar no tocan el stock")

	got, err := f.machine.DeliverToCourier(ctx, keeper, tr.ID, "", nil)
	require.NoError(t, err)
	assert.Equal(t, entity.TransferStatusInTransit, got.Status)
	assert.Equal(t, 2, f.qty(t, key(warehouse, entity.InventoryTypePair)))

	_, err = f.machine.ConfirmPickup(ctx, courier, tr.ID, "")
	require.NoError(t, err)
	_, err = f.machine.ConfirmDelivery(ctx, courier, tr.ID, true, "")
	require.NoError(t, err)
	assert.Equal(t, 0, f.qty(t, key(store, entity.InventoryTypePair)), "la entrega del corredor no incrementa el destino")

	done, pairing, err := f.machine.ConfirmReception(ctx, vendor, tr.ID, transfer.ReceptionInput{ReceivedQuantity: 3, ConditionOK: true}, nil)
	require.NoError(t, err)
	assert.Nil(t, pairing)
	assert.Equal(t, entity.TransferStatusCompleted, done.Status)
	assert.Equal(t, 3, done.ReceivedQuantity)
	assert.Equal(t, 3, f.qty(t, key(store, entity.InventoryTypePair)))
	assert.Equal(t, 2, f.qty(t, key(warehouse, entity.InventoryTypePair)))

	entries, err := f.store.Repos().Changes.ListByReference(ctx, companyID, tr.ID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, entity.ChangeTypeTransferPickup, entries[0].ChangeType)
	assert.Equal(t, -3, entries[0].Delta())
	assert.Equal(t, entity.ChangeTypeTransferReception, entries[1].ChangeType)
	assert.Equal(t, 3, entries[1].Delta())
}

func TestMachine_AsignacionConcurrenteSoloUnCorredorGana(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seed(t, key(warehouse, entity.InventoryTypePair), 5)
	tr := f.create(t, 1, "", entity.PickupTypeCorredor)
	_, err := f.machine.Accept(ctx, keeper, tr.ID, "", nil)
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, c := range []entity.Actor{courier, rival} {
		wg.Add(1)
		go func(i int, c entity.Actor) {
			defer wg.Done()
			_, errs[i] = f.machine.AssignCourier(ctx, c, tr.ID, 10, "")
		}(i, c)
	}
	wg.Wait()

	ok, conflicts := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case assert.ErrorIs(t, err, domain.ErrConflict):
			conflicts++
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, conflicts)

	got, err := f.machine.Get(ctx, keeper, tr.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TransferStatusCourierAssigned, got.Status)
	assert.Contains(t, []string{courier.UserID, rival.UserID}, got.CourierID)
}

func TestMachine_EntregaSinStockNoCambiaNada(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	k := key(warehouse, entity.InventoryTypePair)
	f.seed(t, k, 5)
	tr := f.create(t, 3, "", entity.PickupTypeCorredor)
	_, err := f.machine.Accept(ctx, keeper, tr.ID, "", nil)
	require.NoError(t, err)
	_, err = f.machine.AssignCourier(ctx, courier, tr.ID, 10, "")
	require.NoError(t, err)

	// se venden 4 pares mientras tanto
	f.seed(t, k, -4)

	_, err = f.machine.DeliverToCourier(ctx, keeper, tr.ID, "", nil)
	require.Error(t, err)
	var stockErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	require.Len(t, stockErr.Shortages, 1)
	assert.Equal(t, 3, stockErr.Shortages[0].Requested)
	assert.Equal(t, 1, stockErr.Shortages[0].Available)

	got, err := f.machine.Get(ctx, keeper, tr.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TransferStatusCourierAssigned, got.Status)
	assert.Nil(t, got.PickedUpAt)
	assert.Equal(t, 1, f.qty(t, k))

	entries, err := f.store.Repos().Changes.ListByReference(ctx, companyID, tr.ID)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestMachine_CrearSinStockSuficiente(t *testing.T) {
	f := newFixture(t)
	f.seed(t, key(warehouse, entity.InventoryTypePair), 2)

	_, err := f.machine.Create(context.Background(), vendor, transfer.CreateInput{
		SourceLocationID:      warehouse,
		DestinationLocationID: store,
		Reference:             reference,
		Size:                  size,
		Quantity:              3,
		Purpose:               entity.PurposeRestock,
		PickupType:            entity.PickupTypeCorredor,
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

func TestMachine_ValidacionesAlCrear(t *testing.T) {
	f := newFixture(t)
	f.seed(t, key(warehouse, entity.InventoryTypePair), 5)
	base := transfer.CreateInput{
		SourceLocationID:      warehouse,
		DestinationLocationID: store,
		Reference:             reference,
		Size:                  size,
		Quantity:              1,
		Purpose:               entity.PurposeRestock,
		PickupType:            entity.PickupTypeCorredor,
	}

	same := base
	same.DestinationLocationID = warehouse
	_, err := f.machine.Create(context.Background(), vendor, same)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	zero := base
	zero.Quantity = 0
	_, err = f.machine.Create(context.Background(), vendor, zero)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	foreign := base
	foreign.DestinationLocationID = "local-de-otra-empresa"
	_, err = f.machine.Create(context.Background(), vendor, foreign)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMachine_PropositoClienteTienePrioridadAlta(t *testing.T) {
	f := newFixture(t)
	f.seed(t, key(warehouse, entity.InventoryTypePair), 5)

	tr, err := f.machine.Create(context.Background(), vendor, transfer.CreateInput{
		SourceLocationID:      warehouse,
		DestinationLocationID: store,
		Reference:             reference,
		Size:                  size,
		Quantity:              1,
		Purpose:               entity.PurposeCliente,
		PickupType:            entity.PickupTypeCorredor,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.PriorityHigh, tr.Priority)
	require.NotNil(t, tr.ReservationExpiresAt)
	assert.Equal(t, 45.0, tr.ReservationExpiresAt.Sub(tr.RequestedAt).Minutes())
}

func TestMachine_TransicionInvalida(t *testing.T) {
	f := newFixture(t)
	f.seed(t, key(warehouse, entity.InventoryTypePair), 5)
	tr := f.create(t, 1, "", entity.PickupTypeCorredor)

	_, _, err := f.machine.ConfirmReception(context.Background(), vendor, tr.ID, transfer.ReceptionInput{ReceivedQuantity: 1, ConditionOK: true}, nil)
	var te *domain.InvalidTransitionError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, entity.TransferStatusPending, te.Current)
	assert.Equal(t, entity.EventConfirmReception, te.Attempted)

	_, err = f.machine.DeliverToCourier(context.Background(), keeper, tr.ID, "", nil)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestMachine_RecogidaPorVendedor(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seed(t, key(warehouse, entity.InventoryTypePair), 2)
	tr := f.create(t, 2, "", entity.PickupTypeVendedor)
	_, err := f.machine.Accept(ctx, keeper, tr.ID, "", nil)
	require.NoError(t, err)

	_, err = f.machine.AssignCourier(ctx, courier, tr.ID, 10, "")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition, "una recogida por vendedor no admite corredor")

	_, err = f.machine.DeliverToVendor(ctx, keeper, tr.ID, "", nil)
	require.NoError(t, err)
	assert.Equal(t, 0, f.qty(t, key(warehouse, entity.InventoryTypePair)))

	done, _, err := f.machine.ConfirmReception(ctx, vendor, tr.ID, transfer.ReceptionInput{ReceivedQuantity: 2, ConditionOK: true}, nil)
	require.NoError(t, err)
	assert.Equal(t, entity.TransferStatusCompleted, done.Status)
	assert.NotNil(t, done.DeliveredAt)
	assert.Equal(t, 2, f.qty(t, key(store, entity.InventoryTypePair)))
}

func TestMachine_RecepcionFormaPares(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seed(t, key(warehouse, entity.InventoryTypeLeftOnly), 3)
	f.seed(t, key(store, entity.InventoryTypeRightOnly), 2)
	tr := f.create(t, 3, entity.InventoryTypeLeftOnly, entity.PickupTypeCorredor)
	f.deliverByCourier(t, tr.ID)

	_, pairing, err := f.machine.ConfirmReception(ctx, vendor, tr.ID, transfer.ReceptionInput{ReceivedQuantity: 3, ConditionOK: true}, nil)
	require.NoError(t, err)
	require.NotNil(t, pairing)
	assert.True(t, pairing.Formed)
	assert.Equal(t, 2, pairing.QuantityFormed)
	assert.Equal(t, 2, f.qty(t, key(store, entity.InventoryTypePair)))
	assert.Equal(t, 1, f.qty(t, key(store, entity.InventoryTypeLeftOnly)))
	assert.Equal(t, 0, f.qty(t, key(store, entity.InventoryTypeRightOnly)))

	// pie suelto: salida del origen, ingreso al destino y la formación de pares, todas con el id del traslado
	entries, err := f.store.Repos().Changes.ListByReference(ctx, companyID, tr.ID)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	types := make([]string, 0, len(entries))
	for _, e := range entries {
		types = append(types, e.ChangeType)
	}
	assert.ElementsMatch(t, []string{entity.ChangeTypeTransferPickup, entity.ChangeTypeTransferReception, entity.ChangeTypePairFormation}, types)
}

func TestMachine_TrasladoDeParesDejaDosEntradas(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seed(t, key(warehouse, entity.InventoryTypePair), 2)
	tr := f.create(t, 2, entity.InventoryTypePair, entity.PickupTypeCorredor)
	f.deliverByCourier(t, tr.ID)

	_, pairing, err := f.machine.ConfirmReception(ctx, vendor, tr.ID, transfer.ReceptionInput{ReceivedQuantity: 2, ConditionOK: true}, nil)
	require.NoError(t, err)
	assert.Nil(t, pairing)

	entries, err := f.store.Repos().Changes.ListByReference(ctx, companyID, tr.ID)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestMachine_RecepcionEnMalEstadoNoIngresaStock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seed(t, key(warehouse, entity.InventoryTypePair), 2)
	tr := f.create(t, 2, "", entity.PickupTypeCorredor)
	f.deliverByCourier(t, tr.ID)

	done, _, err := f.machine.ConfirmReception(ctx, vendor, tr.ID, transfer.ReceptionInput{ReceivedQuantity: 2, ConditionOK: false, Notes: "caja mojada"}, nil)
	require.NoError(t, err)
	assert.Equal(t, entity.TransferStatusCompleted, done.Status)
	assert.Equal(t, 0, f.qty(t, key(store, entity.InventoryTypePair)))

	entries, err := f.store.Repos().Changes.ListByReference(ctx, companyID, tr.ID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, entity.ChangeTypeTransferReceptionRejected, entries[1].ChangeType)
	assert.Equal(t, 0, entries[1].Delta())
}

func TestMachine_SoloElSolicitanteRecibeYCancela(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seed(t, key(warehouse, entity.InventoryTypePair), 5)
	tr := f.create(t, 1, "", entity.PickupTypeCorredor)

	_, err := f.machine.Cancel(ctx, keeper, tr.ID, "no")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	got, err := f.machine.Cancel(ctx, vendor, tr.ID, "ya no se necesita")
	require.NoError(t, err)
	assert.Equal(t, entity.TransferStatusCancelled, got.Status)

	_, err = f.machine.Accept(ctx, keeper, tr.ID, "", nil)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestMachine_NoSePuedeCancelarConCorredor(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seed(t, key(warehouse, entity.InventoryTypePair), 5)
	tr := f.create(t, 1, "", entity.PickupTypeCorredor)
	_, err := f.machine.Accept(ctx, keeper, tr.ID, "", nil)
	require.NoError(t, err)
	_, err = f.machine.AssignCourier(ctx, courier, tr.ID, 10, "")
	require.NoError(t, err)

	_, err = f.machine.Cancel(ctx, vendor, tr.ID, "tarde")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestMachine_CorredorAjenoNoConfirma(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seed(t, key(warehouse, entity.InventoryTypePair), 5)
	tr := f.create(t, 1, "", entity.PickupTypeCorredor)
	_, err := f.machine.Accept(ctx, keeper, tr.ID, "", nil)
	require.NoError(t, err)
	_, err = f.machine.AssignCourier(ctx, courier, tr.ID, 10, "")
	require.NoError(t, err)
	_, err = f.machine.DeliverToCourier(ctx, keeper, tr.ID, "", nil)
	require.NoError(t, err)

	_, err = f.machine.ConfirmDelivery(ctx, rival, tr.ID, true, "")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = f.machine.ConfirmPickup(ctx, courier, tr.ID, "")
	require.NoError(t, err)
	_, err = f.machine.ConfirmPickup(ctx, courier, tr.ID, "")
	assert.ErrorIs(t, err, domain.ErrConflict, "la recogida se confirma una sola vez")

	incident, err := f.machine.ReportIncident(ctx, courier, tr.ID, entity.IncidentDelay, "trancón")
	require.NoError(t, err)
	assert.Equal(t, tr.ID, incident.TransferID)
	_, err = f.machine.ReportIncident(ctx, rival, tr.ID, entity.IncidentDelay, "x")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	list, err := f.machine.Incidents(ctx, keeper, tr.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestMachine_EntregaFallidaEsTerminal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seed(t, key(warehouse, entity.InventoryTypePair), 5)
	tr := f.create(t, 2, "", entity.PickupTypeCorredor)
	_, err := f.machine.Accept(ctx, keeper, tr.ID, "", nil)
	require.NoError(t, err)
	_, err = f.machine.AssignCourier(ctx, courier, tr.ID, 10, "")
	require.NoError(t, err)
	_, err = f.machine.DeliverToCourier(ctx, keeper, tr.ID, "", nil)
	require.NoError(t, err)

	got, err := f.machine.ConfirmDelivery(ctx, courier, tr.ID, false, "local cerrado")
	require.NoError(t, err)
	assert.Equal(t, entity.TransferStatusDeliveryFailed, got.Status)
	assert.True(t, got.IsTerminal())
	assert.Equal(t, 3, f.qty(t, key(warehouse, entity.InventoryTypePair)))

	_, _, err = f.machine.ConfirmReception(ctx, vendor, tr.ID, transfer.ReceptionInput{ReceivedQuantity: 2, ConditionOK: true}, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestMachine_ConsultasPorParte(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seed(t, key(warehouse, entity.InventoryTypePair), 5)
	a := f.create(t, 1, "", entity.PickupTypeCorredor)
	f.create(t, 1, "", entity.PickupTypeCorredor)
	_, err := f.machine.Accept(ctx, keeper, a.ID, "", nil)
	require.NoError(t, err)

	pending, err := f.machine.ForLocations(ctx, companyID, []string{warehouse})
	require.NoError(t, err)
	assert.Len(t, pending, 2)

	available, err := f.machine.AvailableForCourier(ctx, courier)
	require.NoError(t, err)
	require.Len(t, available, 1)
	assert.Equal(t, a.ID, available[0].ID)

	mine, summary, err := f.machine.ByRequester(ctx, vendor, 20, 0)
	require.NoError(t, err)
	assert.Len(t, mine, 2)
	assert.Equal(t, 2, summary.Total)
	assert.Equal(t, 1, summary.Pending)
	assert.Equal(t, 1, summary.Active)
}
