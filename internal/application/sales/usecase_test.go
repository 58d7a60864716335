package sales_test

import (
	"context"
	"encoding/base64"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/tenis-ops/internal/application/dto"
	"github.com/jhoicas/tenis-ops/internal/application/inventory"
	"github.com/jhoicas/tenis-ops/internal/application/sales"
	"github.com/jhoicas/tenis-ops/internal/domain"
	"github.com/jhoicas/tenis-ops/internal/domain/entity"
	"github.com/jhoicas/tenis-ops/internal/domain/repository"
	"github.com/jhoicas/tenis-ops/internal/infrastructure/memory"
	"github.com/jhoicas/tenis-ops/pkg/logger"
)

const (
	companyID = "company-1"
	storeID   = "local-1"
)

var (
	seller   = entity.Actor{UserID: "vendor-1", CompanyID: companyID, Role: entity.RoleVendedor, LocationID: storeID}
	manager  = entity.Actor{UserID: "admin-1", CompanyID: companyID, Role: entity.RoleAdmin}
	outsider = entity.Actor{UserID: "vendor-2", CompanyID: companyID, Role: entity.RoleVendedor, LocationID: "local-2"}
)

type fakeReceipts struct {
	mu      sync.Mutex
	objects map[string]string
	failPut bool
}

func (f *fakeReceipts) RenderSaleReceipt(_ context.Context, sale *entity.Sale, _ *entity.Location) ([]byte, error) {
	return []byte("%PDF-1.4 " + sale.ID), nil
}

func (f *fakeReceipts) Put(_ context.Context, name, contentType string, _ []byte) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failPut {
		return "", errors.New("bucket no disponible")
	}
	if f.objects == nil {
		f.objects = map[string]string{}
	}
	f.objects[name] = contentType
	return "https://storage.example.com/" + name, nil
}

type fixture struct {
	store    *memory.Store
	ledger   *inventory.Ledger
	receipts *fakeReceipts
	uc       *sales.SaleUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	log := logger.Nop()
	st := memory.NewStore()
	ledger := inventory.NewLedger(log, nil)
	receipts := &fakeReceipts{}
	f := &fixture{
		store:    st,
		ledger:   ledger,
		receipts: receipts,
		uc:       sales.NewSaleUseCase(st, inventory.NewEngine(ledger, log, nil), receipts, receipts, log, nil),
	}
	require.NoError(t, st.Repos().Locations.Create(context.Background(), &entity.Location{ID: storeID, CompanyID: companyID, Name: "Local centro", Type: entity.LocationTypeStore, IsActive: true}))
	return f
}

func stockKey(ref, invType string) entity.StockKey {
	return entity.StockKey{CompanyID: companyID, ProductReference: ref, Size: "42", LocationID: storeID, InventoryType: invType}
}

func (f *fixture) seed(t *testing.T, k entity.StockKey, qty int) {
	t.Helper()
	require.NoError(t, f.store.Run(context.Background(), func(repos repository.Repos) error {
		_, err := f.ledger.Adjust(context.Background(), repos, inventory.AdjustInput{Key: k, Delta: qty, ActorID: "seed", ChangeType: entity.ChangeTypeEntry})
		return err
	}))
}

func (f *fixture) qty(t *testing.T, k entity.StockKey) int {
	t.Helper()
	rec, err := f.store.Repos().Stock.Get(context.Background(), k)
	require.NoError(t, err)
	return rec.Quantity
}

func (f *fixture) changes(t *testing.T) int {
	t.Helper()
	list, err := f.store.Repos().Changes.ListByLocation(context.Background(), companyID, storeID, 0, 0)
	require.NoError(t, err)
	return len(list)
}

func money(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func saleRequest(total string, payments ...string) dto.CreateSaleRequest {
	req := dto.CreateSaleRequest{
		LocationID:  storeID,
		TotalAmount: money(total),
		Items: []dto.SaleItemRequest{
			{Reference: "NK-AM90", Size: "42", Quantity: 1, UnitPrice: money(total)},
		},
	}
	for _, p := range payments {
		req.Payments = append(req.Payments, dto.SalePaymentRequest{PaymentMethod: "efectivo", Amount: money(p)})
	}
	return req
}

func TestCreateSale_DescuentaStockYRegistraLog(t *testing.T) {
	f := newFixture(t)
	f.seed(t, stockKey("NK-AM90", entity.InventoryTypePair), 3)

	out, err := f.uc.CreateSale(context.Background(), seller, saleRequest("350000.00", "200000.00", "150000.00"))
	require.NoError(t, err)
	assert.Equal(t, entity.SaleStatusCompleted, out.Status)
	assert.Len(t, out.Payments, 2)
	assert.Equal(t, 2, f.qty(t, stockKey("NK-AM90", entity.InventoryTypePair)))

	entries, err := f.store.Repos().Changes.ListByReference(context.Background(), companyID, out.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, entity.ChangeTypeSale, entries[0].ChangeType)
	assert.Equal(t, -1, entries[0].Delta())
}

func TestCreateSale_PagosQueNoCuadranNoCreanNada(t *testing.T) {
	f := newFixture(t)
	f.seed(t, stockKey("NK-AM90", entity.InventoryTypePair), 3)
	before := f.changes(t)

	_, err := f.uc.CreateSale(context.Background(), seller, saleRequest("100.00", "99.98"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, 3, f.qty(t, stockKey("NK-AM90", entity.InventoryTypePair)))
	assert.Equal(t, before, f.changes(t))

	// un centavo de diferencia está dentro de la tolerancia
	_, err = f.uc.CreateSale(context.Background(), seller, saleRequest("100.00", "99.99"))
	assert.NoError(t, err)
}

func TestCreateSale_TodoONada(t *testing.T) {
	f := newFixture(t)
	f.seed(t, stockKey("NK-AM90", entity.InventoryTypePair), 5)
	f.seed(t, stockKey("AD-SAMBA", entity.InventoryTypePair), 1)
	before := f.changes(t)

	req := dto.CreateSaleRequest{
		LocationID:  storeID,
		TotalAmount: money("300"),
		Items: []dto.SaleItemRequest{
			{Reference: "NK-AM90", Size: "42", Quantity: 1, UnitPrice: money("100")},
			{Reference: "AD-SAMBA", Size: "42", Quantity: 2, UnitPrice: money("100")},
		},
		Payments: []dto.SalePaymentRequest{{PaymentMethod: "tarjeta", Amount: money("300")}},
	}
	_, err := f.uc.CreateSale(context.Background(), seller, req)
	var stockErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	require.Len(t, stockErr.Shortages, 1)
	assert.Equal(t, "AD-SAMBA", stockErr.Shortages[0].ProductReference)

	assert.Equal(t, 5, f.qty(t, stockKey("NK-AM90", entity.InventoryTypePair)))
	assert.Equal(t, 1, f.qty(t, stockKey("AD-SAMBA", entity.InventoryTypePair)))
	assert.Equal(t, before, f.changes(t))
}

func TestCreateSale_ConcurrentesSobreUltimoPar(t *testing.T) {
	f := newFixture(t)
	f.seed(t, stockKey("NK-AM90", entity.InventoryTypePair), 1)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.uc.CreateSale(context.Background(), seller, saleRequest("100", "100"))
		}(i)
	}
	wg.Wait()

	ok := 0
	for _, err := range errs {
		if err == nil {
			ok++
			continue
		}
		assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 0, f.qty(t, stockKey("NK-AM90", entity.InventoryTypePair)))
}

func TestCreateSale_UbicacionAjena(t *testing.T) {
	f := newFixture(t)
	f.seed(t, stockKey("NK-AM90", entity.InventoryTypePair), 1)

	_, err := f.uc.CreateSale(context.Background(), outsider, saleRequest("100", "100"))
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.Equal(t, 1, f.qty(t, stockKey("NK-AM90", entity.InventoryTypePair)))
}

func TestCreateSale_GuardaComprobantes(t *testing.T) {
	f := newFixture(t)
	f.seed(t, stockKey("NK-AM90", entity.InventoryTypePair), 1)
	req := saleRequest("100", "100")
	png := []byte("\x89PNG\r\n\x1a\n0000000000")
	req.ReceiptImage = base64.StdEncoding.EncodeToString(png)

	out, err := f.uc.CreateSale(context.Background(), seller, req)
	require.NoError(t, err)
	assert.Contains(t, out.ReceiptURL, "venta.pdf")
	assert.Equal(t, "application/pdf", f.receipts.objects["receipts/company-1/"+out.ID+"/venta.pdf"])
	assert.Equal(t, "image/png", f.receipts.objects["receipts/company-1/"+out.ID+"/comprobante.png"])

	stored, err := f.uc.GetSale(context.Background(), seller, out.ID)
	require.NoError(t, err)
	assert.Equal(t, out.ReceiptURL, stored.ReceiptURL)
}

func TestCreateSale_FalloDeAlmacenamientoNoFallaLaVenta(t *testing.T) {
	f := newFixture(t)
	f.receipts.failPut = true
	f.seed(t, stockKey("NK-AM90", entity.InventoryTypePair), 1)

	out, err := f.uc.CreateSale(context.Background(), seller, saleRequest("100", "100"))
	require.NoError(t, err)
	assert.Empty(t, out.ReceiptURL)
	assert.Equal(t, 0, f.qty(t, stockKey("NK-AM90", entity.InventoryTypePair)))
}

func TestConfirmSale_RechazoReingresaStock(t *testing.T) {
	f := newFixture(t)
	k := stockKey("NK-AM90", entity.InventoryTypePair)
	f.seed(t, k, 2)
	req := saleRequest("100", "100")
	req.RequiresConfirmation = true

	out, err := f.uc.CreateSale(context.Background(), seller, req)
	require.NoError(t, err)
	assert.Equal(t, entity.SaleStatusPendingConfirmation, out.Status)
	assert.Equal(t, 1, f.qty(t, k))

	_, err = f.uc.ConfirmSale(context.Background(), seller, out.ID, dto.ConfirmSaleRequest{Confirmed: true})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	cancelled, err := f.uc.ConfirmSale(context.Background(), manager, out.ID, dto.ConfirmSaleRequest{Confirmed: false, Notes: "pago no llegó"})
	require.NoError(t, err)
	assert.Equal(t, entity.SaleStatusCancelled, cancelled.Status)
	assert.Equal(t, 2, f.qty(t, k))

	_, err = f.uc.ConfirmSale(context.Background(), manager, out.ID, dto.ConfirmSaleRequest{Confirmed: true})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestConfirmSale_ConfirmacionNoTocaStock(t *testing.T) {
	f := newFixture(t)
	k := stockKey("NK-AM90", entity.InventoryTypePair)
	f.seed(t, k, 1)
	req := saleRequest("100", "100")
	req.RequiresConfirmation = true
	out, err := f.uc.CreateSale(context.Background(), seller, req)
	require.NoError(t, err)

	done, err := f.uc.ConfirmSale(context.Background(), manager, out.ID, dto.ConfirmSaleRequest{Confirmed: true})
	require.NoError(t, err)
	assert.Equal(t, entity.SaleStatusCompleted, done.Status)
	assert.NotNil(t, done.ConfirmedAt)
	assert.Equal(t, 0, f.qty(t, k))
}
