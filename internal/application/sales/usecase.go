// Package sales registra ventas con descuento atómico de inventario y su confirmación posterior.
package sales

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/tenis-ops/internal/application/access"
	"github.com/jhoicas/tenis-ops/internal/application/dto"
	"github.com/jhoicas/tenis-ops/internal/application/inventory"
	"github.com/jhoicas/tenis-ops/internal/application/ports"
	"github.com/jhoicas/tenis-ops/internal/domain"
	"github.com/jhoicas/tenis-ops/internal/domain/entity"
	"github.com/jhoicas/tenis-ops/internal/domain/repository"
	"github.com/jhoicas/tenis-ops/pkg/logger"
)

// maxReceiptImageBytes tamaño máximo del comprobante adjunto ya decodificado.
const maxReceiptImageBytes = 5 << 20

// SaleUseCase casos de uso de ventas.
type SaleUseCase struct {
	txRunner inventory.TxRunner
	engine   *inventory.Engine
	renderer ports.ReceiptRenderer
	store    ports.ReceiptStore
	log      *logger.Logger
	metrics  ports.MetricsRecorder
	now      func() time.Time
}

// NewSaleUseCase construye el caso de uso. renderer y store pueden ser nil (sin comprobantes).
func NewSaleUseCase(
	txRunner inventory.TxRunner,
	engine *inventory.Engine,
	renderer ports.ReceiptRenderer,
	store ports.ReceiptStore,
	log *logger.Logger,
	metrics ports.MetricsRecorder,
) *SaleUseCase {
	return &SaleUseCase{
		txRunner: txRunner,
		engine:   engine,
		renderer: renderer,
		store:    store,
		log:      log.Component("sales"),
		metrics:  ports.OrNoop(metrics),
		now:      time.Now,
	}
}

// CreateSale valida pagos contra el total, reserva todo el stock de la venta y lo descuenta en la
// misma transacción. Si cualquier ítem no alcanza no se crea nada.
func (uc *SaleUseCase) CreateSale(ctx context.Context, actor entity.Actor, in dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	if err := access.RequireRole(actor, entity.RoleVendedor, entity.RoleAdmin); err != nil {
		return nil, err
	}
	sale, err := uc.buildSale(actor, in)
	if err != nil {
		return nil, err
	}
	image, err := decodeImage(in.ReceiptImage)
	if err != nil {
		return nil, err
	}

	var location *entity.Location
	err = uc.txRunner.Run(ctx, func(repos repository.Repos) error {
		loc, err := repos.Locations.GetByID(ctx, actor.CompanyID, sale.LocationID)
		if err != nil {
			return err
		}
		if loc == nil {
			return domain.ErrNotFound
		}
		location = loc
		if err := access.RequireLocation(ctx, repos.Users, actor, sale.LocationID); err != nil {
			return err
		}
		items := make([]inventory.ReserveItem, 0, len(sale.Items))
		for _, it := range sale.Items {
			items = append(items, inventory.ReserveItem{
				Reference:     it.ProductReference,
				Size:          it.Size,
				InventoryType: it.InventoryType,
				Quantity:      it.Quantity,
			})
		}
		if _, err := uc.engine.ValidateAndReserve(ctx, repos, actor.CompanyID, sale.LocationID, items); err != nil {
			return err
		}
		if err := repos.Sales.Create(ctx, sale); err != nil {
			return err
		}
		for _, it := range sale.Items {
			if _, err := uc.engine.Ledger().Adjust(ctx, repos, inventory.AdjustInput{
				Key:         itemKey(sale, it),
				Brand:       it.Brand,
				Model:       it.Model,
				Delta:       -it.Quantity,
				ActorID:     actor.UserID,
				ReferenceID: sale.ID,
				ChangeType:  entity.ChangeTypeSale,
				Notes:       fmt.Sprintf("venta %s", sale.ID),
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		uc.log.Warn().Err(err).
			Str("company_id", actor.CompanyID).
			Str("location_id", in.LocationID).
			Str("seller_id", actor.UserID).
			Msg("venta rechazada")
		return nil, err
	}
	uc.metrics.SaleCreated(sale.Status)
	uc.log.Info().
		Str("sale_id", sale.ID).
		Str("company_id", sale.CompanyID).
		Str("location_id", sale.LocationID).
		Str("total", sale.TotalAmount.StringFixed(2)).
		Str("status", sale.Status).
		Msg("venta registrada")

	if url := uc.attachReceipts(ctx, sale, location, image); url != "" {
		sale.ReceiptURL = url
	}
	out := dto.ToSaleResponse(sale)
	return &out, nil
}

// buildSale arma la entidad y verifica montos: suma de pagos y de subtotales contra el total,
// ambos con tolerancia de un centavo.
func (uc *SaleUseCase) buildSale(actor entity.Actor, in dto.CreateSaleRequest) (*entity.Sale, error) {
	if in.LocationID == "" || len(in.Items) == 0 || len(in.Payments) == 0 {
		return nil, domain.ErrInvalidInput
	}
	if !in.TotalAmount.IsPositive() {
		return nil, fmt.Errorf("%w: el total debe ser mayor que cero", domain.ErrInvalidInput)
	}
	now := uc.now()
	sale := &entity.Sale{
		ID:                   uuid.New().String(),
		CompanyID:            actor.CompanyID,
		SellerID:             actor.UserID,
		LocationID:           in.LocationID,
		TotalAmount:          in.TotalAmount,
		Status:               entity.SaleStatusCompleted,
		RequiresConfirmation: in.RequiresConfirmation,
		Notes:                in.Notes,
		SaleDate:             now,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	if in.RequiresConfirmation {
		sale.Status = entity.SaleStatusPendingConfirmation
	}
	subtotal := decimal.Zero
	for _, it := range in.Items {
		if it.Quantity <= 0 || it.Reference == "" || it.Size == "" || it.UnitPrice.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		invType := it.InventoryType
		if invType == "" {
			invType = entity.InventoryTypePair
		}
		if !entity.IsValidInventoryType(invType) {
			return nil, domain.ErrInvalidInput
		}
		line := it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity)))
		subtotal = subtotal.Add(line)
		sale.Items = append(sale.Items, entity.SaleItem{
			ID:               uuid.New().String(),
			SaleID:           sale.ID,
			ProductReference: it.Reference,
			Brand:            it.Brand,
			Model:            it.Model,
			Size:             it.Size,
			InventoryType:    invType,
			Quantity:         it.Quantity,
			UnitPrice:        it.UnitPrice,
			Subtotal:         line,
		})
	}
	for _, p := range in.Payments {
		if !p.Amount.IsPositive() {
			return nil, domain.ErrInvalidInput
		}
		sale.Payments = append(sale.Payments, entity.SalePayment{
			ID:            uuid.New().String(),
			SaleID:        sale.ID,
			PaymentMethod: p.PaymentMethod,
			Amount:        p.Amount,
			Reference:     p.Reference,
		})
	}
	if !entity.PaymentsMatchTotal(sale.Payments, sale.TotalAmount) {
		return nil, fmt.Errorf("%w: los pagos suman %s y el total es %s", domain.ErrInvalidInput,
			entity.SumPayments(sale.Payments).StringFixed(2), sale.TotalAmount.StringFixed(2))
	}
	if subtotal.Sub(sale.TotalAmount).Abs().GreaterThan(entity.PaymentTolerance) {
		return nil, fmt.Errorf("%w: los ítems suman %s y el total es %s", domain.ErrInvalidInput,
			subtotal.StringFixed(2), sale.TotalAmount.StringFixed(2))
	}
	return sale, nil
}

// ConfirmSale confirma o rechaza una venta en pending_confirmation. El rechazo la cancela y
// reingresa cada ítem en la ubicación de la venta.
func (uc *SaleUseCase) ConfirmSale(ctx context.Context, actor entity.Actor, id string, in dto.ConfirmSaleRequest) (*dto.SaleResponse, error) {
	if err := access.RequireRole(actor, entity.RoleAdmin, entity.RoleBodeguero); err != nil {
		return nil, err
	}
	var sale *entity.Sale
	err := uc.txRunner.Run(ctx, func(repos repository.Repos) error {
		var err error
		sale, err = repos.Sales.GetForUpdate(ctx, actor.CompanyID, id)
		if err != nil {
			return err
		}
		if sale == nil {
			return domain.ErrNotFound
		}
		if err := access.RequireLocation(ctx, repos.Users, actor, sale.LocationID); err != nil {
			return err
		}
		if sale.Status != entity.SaleStatusPendingConfirmation {
			return domain.NewConflictError("sale", "la venta no está pendiente de confirmación")
		}
		now := uc.now()
		sale.ConfirmedAt = &now
		sale.ConfirmedBy = actor.UserID
		sale.ConfirmationNotes = in.Notes
		sale.UpdatedAt = now
		sale.Status = entity.SaleStatusCompleted
		if !in.Confirmed {
			sale.Status = entity.SaleStatusCancelled
			for _, it := range sale.Items {
				if _, _, err := uc.engine.Receive(ctx, repos, inventory.AdjustInput{
					Key:         itemKey(sale, it),
					Brand:       it.Brand,
					Model:       it.Model,
					Delta:       it.Quantity,
					ActorID:     actor.UserID,
					ReferenceID: sale.ID,
					ChangeType:  entity.ChangeTypeSaleCancellation,
					Notes:       strings.TrimSpace("venta rechazada " + in.Notes),
				}); err != nil {
					return err
				}
			}
		}
		return repos.Sales.UpdateStatus(ctx, sale, entity.SaleStatusPendingConfirmation)
	})
	if err != nil {
		return nil, err
	}
	uc.metrics.SaleCreated(sale.Status)
	uc.log.Info().
		Str("sale_id", sale.ID).
		Str("company_id", sale.CompanyID).
		Str("status", sale.Status).
		Str("confirmed_by", actor.UserID).
		Msg("venta confirmada")
	out := dto.ToSaleResponse(sale)
	return &out, nil
}

// GetSale devuelve la venta de la empresa del actor.
func (uc *SaleUseCase) GetSale(ctx context.Context, actor entity.Actor, id string) (*dto.SaleResponse, error) {
	var sale *entity.Sale
	err := uc.txRunner.Run(ctx, func(repos repository.Repos) error {
		var err error
		sale, err = repos.Sales.GetByID(ctx, actor.CompanyID, id)
		if err != nil {
			return err
		}
		if sale == nil {
			return domain.ErrNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	out := dto.ToSaleResponse(sale)
	return &out, nil
}

func itemKey(sale *entity.Sale, it entity.SaleItem) entity.StockKey {
	return entity.StockKey{
		CompanyID:        sale.CompanyID,
		ProductReference: it.ProductReference,
		Size:             it.Size,
		LocationID:       sale.LocationID,
		InventoryType:    it.InventoryType,
	}
}

// decodeImage acepta base64 estándar, con o sin prefijo data URI.
func decodeImage(raw string) ([]byte, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	if i := strings.Index(raw, ","); strings.HasPrefix(raw, "data:") && i > 0 {
		raw = raw[i+1:]
	}
	data, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: comprobante en base64 inválido", domain.ErrInvalidInput)
	}
	if len(data) > maxReceiptImageBytes {
		return nil, fmt.Errorf("%w: el comprobante supera 5 MB", domain.ErrInvalidInput)
	}
	return data, nil
}
