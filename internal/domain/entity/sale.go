package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una venta.
const (
	SaleStatusCompleted           = "completed"
	SaleStatusPendingConfirmation = "pending_confirmation"
	SaleStatusCancelled           = "cancelled"
)

// PaymentTolerance diferencia máxima admitida entre pagos y total (1 centavo).
var PaymentTolerance = decimal.NewFromFloat(0.01)

// Sale venta en una ubicación; se crea junto con el descuento de inventario.
type Sale struct {
	ID                   string
	CompanyID            string
	SellerID             string
	LocationID           string
	TotalAmount          decimal.Decimal
	Status               string
	RequiresConfirmation bool
	Notes                string
	ConfirmationNotes    string
	ReceiptURL           string
	SaleDate             time.Time
	ConfirmedAt          *time.Time
	ConfirmedBy          string
	CreatedAt            time.Time
	UpdatedAt            time.Time
	Items                []SaleItem
	Payments             []SalePayment
}

// SaleItem línea de venta por referencia/talla.
type SaleItem struct {
	ID               string
	SaleID           string
	ProductReference string
	Brand            string
	Model            string
	Size             string
	InventoryType    string
	Quantity         int
	UnitPrice        decimal.Decimal
	Subtotal         decimal.Decimal
}

// SalePayment pago asociado a la venta (método + monto).
type SalePayment struct {
	ID            string
	SaleID        string
	PaymentMethod string
	Amount        decimal.Decimal
	Reference     string
}

// SumPayments suma los montos de los pagos.
func SumPayments(payments []SalePayment) decimal.Decimal {
	total := decimal.Zero
	for _, p := range payments {
		total = total.Add(p.Amount)
	}
	return total
}

// PaymentsMatchTotal verifica |sum(pagos) - total| <= 0.01.
func PaymentsMatchTotal(payments []SalePayment, total decimal.Decimal) bool {
	return SumPayments(payments).Sub(total).Abs().LessThanOrEqual(PaymentTolerance)
}
