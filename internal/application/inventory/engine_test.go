package inventory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/tenis-ops/internal/application/inventory"
	"github.com/jhoicas/tenis-ops/internal/domain"
	"github.com/jhoicas/tenis-ops/internal/domain/entity"
	domaininv "github.com/jhoicas/tenis-ops/internal/domain/inventory"
	"github.com/jhoicas/tenis-ops/internal/domain/repository"
	"github.com/jhoicas/tenis-ops/internal/infrastructure/memory"
	"github.com/jhoicas/tenis-ops/pkg/logger"
)

const (
	companyID = "company-1"
	locID     = "local-1"
)

type harness struct {
	store  *memory.Store
	ledger *inventory.Ledger
	engine *inventory.Engine
}

func newHarness() *harness {
	log := logger.Nop()
	st := memory.NewStore()
	ledger := inventory.NewLedger(log, nil)
	return &harness{store: st, ledger: ledger, engine: inventory.NewEngine(ledger, log, nil)}
}

func skey(ref, invType string) entity.StockKey {
	return entity.StockKey{CompanyID: companyID, ProductReference: ref, Size: "42", LocationID: locID, InventoryType: invType}
}

func (h *harness) adjust(t *testing.T, k entity.StockKey, delta int) {
	t.Helper()
	require.NoError(t, h.store.Run(context.Background(), func(repos repository.Repos) error {
		_, err := h.ledger.Adjust(context.Background(), repos, inventory.AdjustInput{Key: k, Delta: delta, ActorID: "u", ChangeType: entity.ChangeTypeEntry})
		return err
	}))
}

func (h *harness) qty(t *testing.T, k entity.StockKey) int {
	t.Helper()
	n, err := h.ledger.GetQuantity(context.Background(), h.store.Repos().Stock, k)
	require.NoError(t, err)
	return n
}

func (h *harness) receive(t *testing.T, k entity.StockKey, delta int) *domaininv.PairFormationResult {
	t.Helper()
	var out *domaininv.PairFormationResult
	require.NoError(t, h.store.Run(context.Background(), func(repos repository.Repos) error {
		_, p, err := h.engine.Receive(context.Background(), repos, inventory.AdjustInput{
			Key: k, Delta: delta, ActorID: "u", ReferenceID: "ref-1", ChangeType: entity.ChangeTypeEntry,
		})
		out = p
		return err
	}))
	return out
}

func TestValidateAndReserve_ReportaTodosLosFaltantes(t *testing.T) {
	h := newHarness()
	h.adjust(t, skey("A", entity.InventoryTypePair), 1)
	h.adjust(t, skey("B", entity.InventoryTypePair), 4)

	err := h.store.Run(context.Background(), func(repos repository.Repos) error {
		_, err := h.engine.ValidateAndReserve(context.Background(), repos, companyID, locID, []inventory.ReserveItem{
			{Reference: "A", Size: "42", Quantity: 2},
			{Reference: "B", Size: "42", Quantity: 3},
			{Reference: "C", Size: "42", Quantity: 1},
		})
		return err
	})
	var stockErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	require.Len(t, stockErr.Shortages, 2)
	refs := []string{stockErr.Shortages[0].ProductReference, stockErr.Shortages[1].ProductReference}
	assert.ElementsMatch(t, []string{"A", "C"}, refs)
}

func TestValidateAndReserve_AgregaItemsRepetidos(t *testing.T) {
	h := newHarness()
	h.adjust(t, skey("A", entity.InventoryTypePair), 3)

	err := h.store.Run(context.Background(), func(repos repository.Repos) error {
		_, err := h.engine.ValidateAndReserve(context.Background(), repos, companyID, locID, []inventory.ReserveItem{
			{Reference: "A", Size: "42", Quantity: 2},
			{Reference: "A", Size: "42", InventoryType: entity.InventoryTypePair, Quantity: 2},
		})
		return err
	})
	var stockErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 4, stockErr.Shortages[0].Requested)
	assert.Equal(t, 3, stockErr.Shortages[0].Available)
	assert.Equal(t, 3, h.qty(t, skey("A", entity.InventoryTypePair)), "reservar no descuenta")
}

func TestReceive_FormaParesConElPieOpuesto(t *testing.T) {
	cases := []struct {
		name        string
		left, right int
		receiveSide string
		receive     int
		wantFormed  int
		wantPairs   int
		wantLeft    int
		wantRight   int
	}{
		{"izquierdo con derechos suficientes", 0, 5, entity.InventoryTypeLeftOnly, 3, 3, 3, 0, 2},
		{"izquierdo con menos derechos", 0, 2, entity.InventoryTypeLeftOnly, 3, 2, 2, 1, 0},
		{"derecho con izquierdos previos", 4, 0, entity.InventoryTypeRightOnly, 1, 1, 1, 3, 0},
		{"sin pie opuesto", 0, 0, entity.InventoryTypeRightOnly, 2, 0, 0, 0, 2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := newHarness()
			if tc.left > 0 {
				h.adjust(t, skey("A", entity.InventoryTypeLeftOnly), tc.left)
			}
			if tc.right > 0 {
				h.adjust(t, skey("A", entity.InventoryTypeRightOnly), tc.right)
			}

			res := h.receive(t, skey("A", tc.receiveSide), tc.receive)
			require.NotNil(t, res)
			assert.Equal(t, tc.wantFormed > 0, res.Formed)
			assert.Equal(t, tc.wantFormed, res.QuantityFormed)
			if !res.Formed {
				assert.NotEmpty(t, res.Reason)
			}
			assert.Equal(t, tc.wantPairs, h.qty(t, skey("A", entity.InventoryTypePair)))
			assert.Equal(t, tc.wantLeft, h.qty(t, skey("A", entity.InventoryTypeLeftOnly)))
			assert.Equal(t, tc.wantRight, h.qty(t, skey("A", entity.InventoryTypeRightOnly)))
			assert.Equal(t, tc.wantLeft, res.RemainingLeft)
			assert.Equal(t, tc.wantRight, res.RemainingRight)
		})
	}
}

func TestReceive_ParesNoDisparanEmparejamiento(t *testing.T) {
	h := newHarness()
	h.adjust(t, skey("A", entity.InventoryTypeLeftOnly), 2)
	h.adjust(t, skey("A", entity.InventoryTypeRightOnly), 2)

	res := h.receive(t, skey("A", entity.InventoryTypePair), 1)
	assert.Nil(t, res)
	assert.Equal(t, 1, h.qty(t, skey("A", entity.InventoryTypePair)))
}

func TestAttemptPairFormation_UnaEntradaDeLog(t *testing.T) {
	h := newHarness()
	h.adjust(t, skey("A", entity.InventoryTypeRightOnly), 2)
	h.receive(t, skey("A", entity.InventoryTypeLeftOnly), 2)

	entries, err := h.store.Repos().Changes.ListByReference(context.Background(), companyID, "ref-1")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, entity.ChangeTypeEntry, entries[0].ChangeType)
	assert.Equal(t, entity.InventoryTypeLeftOnly, entries[0].InventoryType)
	assert.Equal(t, entity.ChangeTypePairFormation, entries[1].ChangeType)
	assert.Equal(t, entity.InventoryTypePair, entries[1].InventoryType)
	assert.Equal(t, 2, entries[1].Delta())
}

func TestReceive_ParNuevoHeredaMarcaYModelo(t *testing.T) {
	h := newHarness()
	h.adjust(t, skey("A", entity.InventoryTypeRightOnly), 1)
	require.NoError(t, h.store.Run(context.Background(), func(repos repository.Repos) error {
		_, _, err := h.engine.Receive(context.Background(), repos, inventory.AdjustInput{
			Key: skey("A", entity.InventoryTypeLeftOnly), Brand: "Adidas", Model: "Superstar",
			Delta: 1, ActorID: "u", ReferenceID: "ref-1", ChangeType: entity.ChangeTypeEntry,
		})
		return err
	}))

	rec, err := h.store.Repos().Stock.Get(context.Background(), skey("A", entity.InventoryTypePair))
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, 1, rec.Quantity)
	assert.Equal(t, "Adidas", rec.Brand)
	assert.Equal(t, "Superstar", rec.Model)
}

func TestAttemptPairFormation_RechazaPares(t *testing.T) {
	h := newHarness()
	err := h.store.Run(context.Background(), func(repos repository.Repos) error {
		_, err := h.engine.AttemptPairFormation(context.Background(), repos, inventory.PairingInput{
			Key: skey("A", entity.InventoryTypePair), ReceivedQuantity: 1,
		})
		return err
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
