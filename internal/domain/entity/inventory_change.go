package entity

import "time"

// Tipos de cambio registrados en el log de inventario.
const (
	ChangeTypeEntry                     = "entry"
	ChangeTypeAdjustment                = "adjustment"
	ChangeTypeSale                      = "sale"
	ChangeTypeSaleCancellation          = "sale_cancellation"
	ChangeTypeTransferPickup            = "transfer_pickup"
	ChangeTypeTransferReception         = "transfer_reception"
	ChangeTypeTransferReceptionRejected = "transfer_reception_rejected"
	ChangeTypeReturnPickup              = "return_pickup"
	ChangeTypeReturnReception           = "return_reception"
	ChangeTypeReturnLoss                = "return_loss"
	ChangeTypePairFormation             = "pair_formation"
)

// InventoryChangeEntry fila inmutable del log de auditoría; una por mutación de StockRecord.
// ProductID es la referencia del producto. ReferenceID apunta a la transferencia o venta que la originó.
type InventoryChangeEntry struct {
	ID             string
	CompanyID      string
	ProductID      string
	Size           string
	LocationID     string
	InventoryType  string
	ChangeType     string
	QuantityBefore int
	QuantityAfter  int
	UserID         string
	ReferenceID    string
	Notes          string
	CreatedAt      time.Time
}

// Delta diferencia aplicada por la entrada.
func (e *InventoryChangeEntry) Delta() int {
	return e.QuantityAfter - e.QuantityBefore
}
