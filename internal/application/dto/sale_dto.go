package dto

import (
	"time"

	"github.com/jhoicas/tenis-ops/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// SaleItemRequest ítem de una venta.
type SaleItemRequest struct {
	Reference     string          `json:"reference" validate:"required"`
	Brand         string          `json:"brand,omitempty"`
	Model         string          `json:"model,omitempty"`
	Size          string          `json:"size" validate:"required"`
	InventoryType string          `json:"inventory_type,omitempty" validate:"omitempty,oneof=pair left_only right_only"`
	Quantity      int             `json:"quantity" validate:"required,gt=0"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
}

// SalePaymentRequest pago de una venta.
type SalePaymentRequest struct {
	PaymentMethod string          `json:"payment_method" validate:"required,oneof=efectivo tarjeta transferencia nequi daviplata otro"`
	Amount        decimal.Decimal `json:"amount"`
	Reference     string          `json:"reference,omitempty"`
}

// CreateSaleRequest body para POST /api/sales. ReceiptImage es base64 opcional.
type CreateSaleRequest struct {
	LocationID           string               `json:"location_id" validate:"required"`
	TotalAmount          decimal.Decimal      `json:"total_amount"`
	Items                []SaleItemRequest    `json:"items" validate:"required,min=1,dive"`
	Payments             []SalePaymentRequest `json:"payments" validate:"required,min=1,dive"`
	RequiresConfirmation bool                 `json:"requires_confirmation"`
	Notes                string               `json:"notes,omitempty" validate:"max=500"`
	ReceiptImage         string               `json:"receipt_image,omitempty"`
}

// ConfirmSaleRequest body para confirmar o rechazar una venta pendiente.
type ConfirmSaleRequest struct {
	Confirmed bool   `json:"confirmed"`
	Notes     string `json:"notes,omitempty" validate:"max=500"`
}

// SaleItemResponse ítem de venta.
type SaleItemResponse struct {
	ID            string          `json:"id"`
	Reference     string          `json:"reference"`
	Brand         string          `json:"brand,omitempty"`
	Model         string          `json:"model,omitempty"`
	Size          string          `json:"size"`
	InventoryType string          `json:"inventory_type"`
	Quantity      int             `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	Subtotal      decimal.Decimal `json:"subtotal"`
}

// SalePaymentResponse pago de venta.
type SalePaymentResponse struct {
	ID            string          `json:"id"`
	PaymentMethod string          `json:"payment_method"`
	Amount        decimal.Decimal `json:"amount"`
	Reference     string          `json:"reference,omitempty"`
}

// SaleResponse venta con ítems y pagos.
type SaleResponse struct {
	ID                   string                `json:"id"`
	SellerID             string                `json:"seller_id"`
	LocationID           string                `json:"location_id"`
	TotalAmount          decimal.Decimal       `json:"total_amount"`
	Status               string                `json:"status"`
	RequiresConfirmation bool                  `json:"requires_confirmation"`
	Notes                string                `json:"notes,omitempty"`
	ReceiptURL           string                `json:"receipt_url,omitempty"`
	SaleDate             time.Time             `json:"sale_date"`
	ConfirmedAt          *time.Time            `json:"confirmed_at,omitempty"`
	Items                []SaleItemResponse    `json:"items"`
	Payments             []SalePaymentResponse `json:"payments"`
}

// ToSaleResponse convierte la entidad.
func ToSaleResponse(s *entity.Sale) SaleResponse {
	out := SaleResponse{
		ID:                   s.ID,
		SellerID:             s.SellerID,
		LocationID:           s.LocationID,
		TotalAmount:          s.TotalAmount,
		Status:               s.Status,
		RequiresConfirmation: s.RequiresConfirmation,
		Notes:                s.Notes,
		ReceiptURL:           s.ReceiptURL,
		SaleDate:             s.SaleDate,
		ConfirmedAt:          s.ConfirmedAt,
		Items:                make([]SaleItemResponse, 0, len(s.Items)),
		Payments:             make([]SalePaymentResponse, 0, len(s.Payments)),
	}
	for _, it := range s.Items {
		out.Items = append(out.Items, SaleItemResponse{
			ID:            it.ID,
			Reference:     it.ProductReference,
			Brand:         it.Brand,
			Model:         it.Model,
			Size:          it.Size,
			InventoryType: it.InventoryType,
			Quantity:      it.Quantity,
			UnitPrice:     it.UnitPrice,
			Subtotal:      it.Subtotal,
		})
	}
	for _, p := range s.Payments {
		out.Payments = append(out.Payments, SalePaymentResponse{
			ID:            p.ID,
			PaymentMethod: p.PaymentMethod,
			Amount:        p.Amount,
			Reference:     p.Reference,
		})
	}
	return out
}
