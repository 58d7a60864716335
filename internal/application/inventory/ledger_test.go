package inventory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/tenis-ops/internal/application/inventory"
	"github.com/jhoicas/tenis-ops/internal/domain"
	"github.com/jhoicas/tenis-ops/internal/domain/entity"
	"github.com/jhoicas/tenis-ops/internal/domain/repository"
)

func TestLedger_NuncaQuedaNegativo(t *testing.T) {
	h := newHarness()
	k := skey("A", entity.InventoryTypePair)
	h.adjust(t, k, 2)

	err := h.store.Run(context.Background(), func(repos repository.Repos) error {
		_, err := h.ledger.Adjust(context.Background(), repos, inventory.AdjustInput{Key: k, Delta: -3, ActorID: "u", ChangeType: entity.ChangeTypeAdjustment})
		return err
	})
	var stockErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 3, stockErr.Shortages[0].Requested)
	assert.Equal(t, 2, stockErr.Shortages[0].Available)
	assert.Equal(t, 2, h.qty(t, k))
}

func TestLedger_CadaAjusteDejaEntrada(t *testing.T) {
	h := newHarness()
	k := skey("A", entity.InventoryTypePair)
	h.adjust(t, k, 5)
	h.adjust(t, k, -2)

	entries, err := h.store.Repos().Changes.ListByLocation(context.Background(), companyID, locID, 0, 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, 0, entries[0].QuantityBefore)
	assert.Equal(t, 5, entries[0].QuantityAfter)
	assert.Equal(t, 5, entries[1].QuantityBefore)
	assert.Equal(t, 3, entries[1].QuantityAfter)
}

func TestLedger_ConsultaSinRegistroDevuelveCero(t *testing.T) {
	h := newHarness()
	assert.Equal(t, 0, h.qty(t, skey("Z", entity.InventoryTypeLeftOnly)))
}

func TestLedger_ExhibicionNoSuperaCantidad(t *testing.T) {
	h := newHarness()
	k := skey("A", entity.InventoryTypePair)
	require.NoError(t, h.store.Run(context.Background(), func(repos repository.Repos) error {
		_, err := h.ledger.Adjust(context.Background(), repos, inventory.AdjustInput{Key: k, Delta: 2, ExhibitionDelta: 2, ActorID: "u", ChangeType: entity.ChangeTypeEntry})
		if err != nil {
			return err
		}
		_, err = h.ledger.Adjust(context.Background(), repos, inventory.AdjustInput{Key: k, Delta: -1, ActorID: "u", ChangeType: entity.ChangeTypeSale})
		return err
	}))
	rec, err := h.store.Repos().Stock.Get(context.Background(), k)
	require.NoError(t, err)
	assert.Equal(t, 1, rec.Quantity)
	assert.Equal(t, 1, rec.QuantityExhibition)
}

func TestLedger_RollbackRestauraTodo(t *testing.T) {
	h := newHarness()
	a := skey("A", entity.InventoryTypePair)
	b := skey("B", entity.InventoryTypePair)
	h.adjust(t, a, 1)

	err := h.store.Run(context.Background(), func(repos repository.Repos) error {
		if _, err := h.ledger.Adjust(context.Background(), repos, inventory.AdjustInput{Key: a, Delta: -1, ActorID: "u", ChangeType: entity.ChangeTypeSale}); err != nil {
			return err
		}
		_, err := h.ledger.Adjust(context.Background(), repos, inventory.AdjustInput{Key: b, Delta: -1, ActorID: "u", ChangeType: entity.ChangeTypeSale})
		return err
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 1, h.qty(t, a))

	entries, err := h.store.Repos().Changes.ListByLocation(context.Background(), companyID, locID, 0, 0)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestLedger_ValidaLlaveYTipo(t *testing.T) {
	h := newHarness()
	err := h.store.Run(context.Background(), func(repos repository.Repos) error {
		k := entity.StockKey{CompanyID: companyID, ProductReference: "A", Size: "42", LocationID: locID, InventoryType: "medio"}
		_, err := h.ledger.Adjust(context.Background(), repos, inventory.AdjustInput{Key: k, Delta: 1, ChangeType: entity.ChangeTypeEntry})
		return err
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
