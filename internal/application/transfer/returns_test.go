package transfer_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/tenis-ops/internal/application/transfer"
	"github.com/jhoicas/tenis-ops/internal/domain"
	"github.com/jhoicas/tenis-ops/internal/domain/entity"
)

// completed crea y completa una transferencia de qty pares bodega -> local.
func (f *fixture) completed(t *testing.T, qty int) *entity.TransferRequest {
	t.Helper()
	tr := f.create(t, qty, "", entity.PickupTypeCorredor)
	f.deliverByCourier(t, tr.ID)
	done, _, err := f.machine.ConfirmReception(context.Background(), vendor, tr.ID, transfer.ReceptionInput{ReceivedQuantity: qty, ConditionOK: true}, nil)
	require.NoError(t, err)
	return done
}

func TestReturns_IdaYVueltaRestauraElOrigen(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seed(t, key(warehouse, entity.InventoryTypePair), 5)
	orig := f.completed(t, 3)

	ret, err := f.machine.CreateReturn(ctx, vendor, orig.ID, transfer.ReturnInput{Reason: "no se vendió", Quantity: 3, PickupType: entity.PickupTypeCorredor})
	require.NoError(t, err)
	assert.True(t, ret.IsReturn())
	assert.Equal(t, store, ret.SourceLocationID)
	assert.Equal(t, warehouse, ret.DestinationLocationID)
	assert.Equal(t, entity.PurposeReturn, ret.Purpose)
	assert.Equal(t, warehouse, ret.AcceptingLocationID())

	// el bodeguero de la bodega acepta; el vendedor entrega al corredor
	_, err = f.machine.Accept(ctx, keeper, ret.ID, "", nil)
	require.NoError(t, err)
	_, err = f.machine.AssignCourier(ctx, courier, ret.ID, 15, "")
	require.NoError(t, err)
	_, err = f.machine.DeliverToCourier(ctx, vendor, ret.ID, "", nil)
	require.NoError(t, err)
	assert.Equal(t, 0, f.qty(t, key(store, entity.InventoryTypePair)))
	_, err = f.machine.ConfirmDelivery(ctx, courier, ret.ID, true, "")
	require.NoError(t, err)

	done, _, err := f.machine.ConfirmReturnReception(ctx, keeper, ret.ID, transfer.ReturnReceptionInput{Condition: entity.ReturnConditionGood, Quantity: 3}, nil)
	require.NoError(t, err)
	assert.Equal(t, entity.TransferStatusCompleted, done.Status)
	assert.Equal(t, 5, f.qty(t, key(warehouse, entity.InventoryTypePair)))
	assert.Equal(t, 0, f.qty(t, key(store, entity.InventoryTypePair)))

	entries, err := f.store.Repos().Changes.ListByReference(ctx, companyID, ret.ID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, entity.ChangeTypeReturnPickup, entries[0].ChangeType)
	assert.Equal(t, entity.ChangeTypeReturnReception, entries[1].ChangeType)

	notes, err := f.machine.Notifications(ctx, vendor, true)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.True(t, notes[0].Restocked)
	assert.Equal(t, orig.ID, notes[0].OriginalTransferID)

	require.NoError(t, f.machine.MarkNotificationRead(ctx, vendor, notes[0].ID))
	unread, err := f.machine.Notifications(ctx, vendor, true)
	require.NoError(t, err)
	assert.Empty(t, unread)
}

func TestReturns_NoExcedeLoRecibido(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seed(t, key(warehouse, entity.InventoryTypePair), 5)
	orig := f.completed(t, 3)

	_, err := f.machine.CreateReturn(ctx, vendor, orig.ID, transfer.ReturnInput{Reason: "talla", Quantity: 2, PickupType: entity.PickupTypeVendedor})
	require.NoError(t, err)

	_, err = f.machine.CreateReturn(ctx, vendor, orig.ID, transfer.ReturnInput{Reason: "talla", Quantity: 2, PickupType: entity.PickupTypeVendedor})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.machine.CreateReturn(ctx, vendor, orig.ID, transfer.ReturnInput{Reason: "talla", Quantity: 1, PickupType: entity.PickupTypeVendedor})
	assert.NoError(t, err)
}

func TestReturns_SoloDeTransferenciasCompletadasPropias(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seed(t, key(warehouse, entity.InventoryTypePair), 5)
	open := f.create(t, 1, "", entity.PickupTypeCorredor)

	_, err := f.machine.CreateReturn(ctx, vendor, open.ID, transfer.ReturnInput{Reason: "x", Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	orig := f.completed(t, 1)
	_, err = f.machine.CreateReturn(ctx, keeper, orig.ID, transfer.ReturnInput{Reason: "x", Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestReturns_ProductoInservibleNoReingresa(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seed(t, key(warehouse, entity.InventoryTypePair), 2)
	orig := f.completed(t, 2)

	ret, err := f.machine.CreateReturn(ctx, vendor, orig.ID, transfer.ReturnInput{Reason: "suela despegada", Quantity: 1, PickupType: entity.PickupTypeVendedor})
	require.NoError(t, err)
	_, err = f.machine.Accept(ctx, keeper, ret.ID, "", nil)
	require.NoError(t, err)
	_, err = f.machine.DeliverToVendor(ctx, vendor, ret.ID, "", nil)
	require.NoError(t, err)

	_, _, err = f.machine.ConfirmReturnReception(ctx, keeper, ret.ID, transfer.ReturnReceptionInput{Condition: "regular", Quantity: 1}, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	done, pairing, err := f.machine.ConfirmReturnReception(ctx, keeper, ret.ID, transfer.ReturnReceptionInput{Condition: entity.ReturnConditionUnusable, Quantity: 1}, nil)
	require.NoError(t, err)
	assert.Nil(t, pairing)
	assert.Equal(t, entity.ReturnConditionUnusable, done.ReturnCondition)
	assert.Equal(t, 0, f.qty(t, key(warehouse, entity.InventoryTypePair)))
	assert.Equal(t, 1, f.qty(t, key(store, entity.InventoryTypePair)))

	notes, err := f.machine.Notifications(ctx, vendor, false)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.False(t, notes[0].Restocked)
}

func TestReturns_RecepcionNormalNoAplicaADevoluciones(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seed(t, key(warehouse, entity.InventoryTypePair), 2)
	orig := f.completed(t, 2)
	ret, err := f.machine.CreateReturn(ctx, vendor, orig.ID, transfer.ReturnInput{Reason: "x", Quantity: 1, PickupType: entity.PickupTypeVendedor})
	require.NoError(t, err)
	_, err = f.machine.Accept(ctx, keeper, ret.ID, "", nil)
	require.NoError(t, err)
	_, err = f.machine.DeliverToVendor(ctx, vendor, ret.ID, "", nil)
	require.NoError(t, err)

	_, _, err = f.machine.ConfirmReception(ctx, vendor, ret.ID, transfer.ReceptionInput{ReceivedQuantity: 1, ConditionOK: true}, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	_, _, err = f.machine.ConfirmReturnReception(ctx, keeper, orig.ID, transfer.ReturnReceptionInput{Condition: entity.ReturnConditionGood}, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}
