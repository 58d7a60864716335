package entity

import "time"

// Estados de una TransferRequest.
const (
	TransferStatusPending         = "pending"
	TransferStatusAccepted        = "accepted"
	TransferStatusCourierAssigned = "courier_assigned"
	TransferStatusInTransit       = "in_transit"
	TransferStatusDelivered       = "delivered"
	TransferStatusCompleted       = "completed"
	TransferStatusRejected        = "rejected"
	TransferStatusDeliveryFailed  = "delivery_failed"
	TransferStatusCancelled       = "cancelled"
)

// Propósitos de una transferencia.
const (
	PurposeCliente    = "cliente"
	PurposeRestock    = "restock"
	PurposeExhibition = "exhibition"
	PurposeReturn     = "return"
)

// Tipos de recogida.
const (
	PickupTypeCorredor = "corredor"
	PickupTypeVendedor = "vendedor"
)

// Prioridades.
const (
	PriorityHigh   = "high"
	PriorityNormal = "normal"
)

// Condiciones de un producto devuelto.
const (
	ReturnConditionGood     = "good"
	ReturnConditionDamaged  = "damaged"
	ReturnConditionUnusable = "unusable"
)

// Eventos del ciclo de vida (nombres usados en errores y métricas).
const (
	EventAccept                 = "accept"
	EventReject                 = "reject"
	EventCancel                 = "cancel"
	EventAssignCourier          = "assign_courier"
	EventDeliverToCourier       = "deliver_to_courier"
	EventDeliverToVendor        = "deliver_to_vendor"
	EventConfirmPickup          = "confirm_pickup"
	EventConfirmDelivery        = "confirm_delivery"
	EventConfirmReception       = "confirm_reception"
	EventConfirmReturnReception = "confirm_return_reception"
	EventCreateReturn           = "create_return"
	EventReportIncident         = "report_incident"
)

// IsValidPurpose indica si p es un propósito aceptado al crear una solicitud.
func IsValidPurpose(p string) bool {
	switch p {
	case PurposeCliente, PurposeRestock, PurposeExhibition:
		return true
	}
	return false
}

// IsValidPickupType indica si p es corredor o vendedor.
func IsValidPickupType(p string) bool {
	return p == PickupTypeCorredor || p == PickupTypeVendedor
}

// IsValidReturnCondition indica si c es good, damaged o unusable.
func IsValidReturnCondition(c string) bool {
	switch c {
	case ReturnConditionGood, ReturnConditionDamaged, ReturnConditionUnusable:
		return true
	}
	return false
}

// RestocksOnReturn good y damaged vuelven al inventario vendible; unusable no.
func RestocksOnReturn(condition string) bool {
	return condition == ReturnConditionGood || condition == ReturnConditionDamaged
}

// TransferRequest entidad central del flujo de traslados y devoluciones.
// Una devolución es otra TransferRequest con OriginalTransferID y origen/destino invertidos.
type TransferRequest struct {
	ID                    string
	CompanyID             string
	SourceLocationID      string
	DestinationLocationID string
	ProductReference      string
	Brand                 string
	Model                 string
	Size                  string
	Quantity              int
	InventoryType         string
	Purpose               string
	PickupType            string
	Priority              string
	Status                string

	RequesterID       string
	WarehouseKeeperID string
	CourierID         string

	OriginalTransferID   string // no vacío => devolución
	ReturnReason         string
	ReturnCondition      string
	ReceivedQuantity     int
	ReceptionConditionOK *bool

	EstimatedMinutes     int
	ReservationExpiresAt *time.Time

	RequestNotes    string
	KeeperNotes     string
	RejectionReason string
	CourierNotes    string
	DeliveryNotes   string
	ReceptionNotes  string
	CancelReason    string

	RequestedAt              time.Time
	AcceptedAt               *time.Time
	RejectedAt               *time.Time
	CancelledAt              *time.Time
	CourierAcceptedAt        *time.Time
	EstimatedPickupAt        *time.Time
	PickedUpAt               *time.Time
	CourierPickupConfirmedAt *time.Time
	DeliveredAt              *time.Time
	ReceivedAt               *time.Time
	UpdatedAt                time.Time
}

// IsReturn indica si la solicitud es una devolución.
func (t *TransferRequest) IsReturn() bool {
	return t.OriginalTransferID != ""
}

// IsTerminal estados finales.
func (t *TransferRequest) IsTerminal() bool {
	switch t.Status {
	case TransferStatusCompleted, TransferStatusRejected, TransferStatusDeliveryFailed, TransferStatusCancelled:
		return true
	}
	return false
}

// AcceptingLocationID ubicación cuyo bodeguero acepta o rechaza la solicitud.
// Traslados: el origen (de donde sale el producto). Devoluciones: el destino (la bodega original).
func (t *TransferRequest) AcceptingLocationID() string {
	if t.IsReturn() {
		return t.DestinationLocationID
	}
	return t.SourceLocationID
}

// transitions tabla de estados permitidos por evento.
var transitions = map[string][]string{
	EventAccept:                 {TransferStatusPending},
	EventReject:                 {TransferStatusPending},
	EventCancel:                 {TransferStatusPending, TransferStatusAccepted},
	EventAssignCourier:          {TransferStatusAccepted},
	EventDeliverToCourier:       {TransferStatusCourierAssigned},
	EventDeliverToVendor:        {TransferStatusAccepted},
	EventConfirmPickup:          {TransferStatusInTransit},
	EventConfirmDelivery:        {TransferStatusInTransit},
	EventConfirmReception:       {TransferStatusDelivered, TransferStatusInTransit},
	EventConfirmReturnReception: {TransferStatusDelivered, TransferStatusInTransit},
	EventCreateReturn:           {TransferStatusCompleted},
	EventReportIncident:         {TransferStatusCourierAssigned, TransferStatusInTransit},
}

// Allows indica si el evento puede aplicarse desde el estado actual.
// Las reglas finas (tipo de recogida, corredor asignado) se validan en la máquina de estados.
func (t *TransferRequest) Allows(event string) bool {
	for _, s := range transitions[event] {
		if s == t.Status {
			return true
		}
	}
	return false
}

// TransferSummary conteos por estado para la vista del solicitante.
type TransferSummary struct {
	Total     int
	Pending   int
	Active    int
	Completed int
	Closed    int
}
