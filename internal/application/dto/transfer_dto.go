package dto

import (
	"time"

	"github.com/jhoicas/tenis-ops/internal/domain/entity"
	domaininv "github.com/jhoicas/tenis-ops/internal/domain/inventory"
)

// CreateTransferRequest body para POST /api/transfers.
type CreateTransferRequest struct {
	SourceLocationID      string `json:"source_location_id" validate:"required"`
	DestinationLocationID string `json:"destination_location_id" validate:"required"`
	Reference             string `json:"reference" validate:"required"`
	Brand                 string `json:"brand,omitempty"`
	Model                 string `json:"model,omitempty"`
	Size                  string `json:"size" validate:"required"`
	Quantity              int    `json:"quantity" validate:"required,gt=0"`
	InventoryType         string `json:"inventory_type" validate:"omitempty,oneof=pair left_only right_only"`
	Purpose               string `json:"purpose" validate:"required,oneof=cliente restock exhibition"`
	PickupType            string `json:"pickup_type" validate:"required,oneof=corredor vendedor"`
	Notes                 string `json:"notes,omitempty" validate:"max=500"`
}

// NotesRequest body genérico con notas opcionales (aceptar, entregar, recoger).
type NotesRequest struct {
	Notes string `json:"notes,omitempty" validate:"max=500"`
}

// ReasonRequest body para rechazar o cancelar.
type ReasonRequest struct {
	Reason string `json:"reason" validate:"required,max=500"`
}

// AssignCourierRequest body para que un corredor tome una transferencia.
type AssignCourierRequest struct {
	EtaMinutes int    `json:"eta_minutes" validate:"min=0,max=1440"`
	Notes      string `json:"notes,omitempty" validate:"max=500"`
}

// ConfirmDeliveryRequest body del corredor al entregar (o reportar entrega fallida).
type ConfirmDeliveryRequest struct {
	Success bool   `json:"success"`
	Notes   string `json:"notes,omitempty" validate:"max=500"`
}

// ConfirmReceptionRequest body del solicitante al recibir.
type ConfirmReceptionRequest struct {
	ReceivedQuantity int    `json:"received_quantity" validate:"required,gt=0"`
	ConditionOK      bool   `json:"condition_ok"`
	Notes            string `json:"notes,omitempty" validate:"max=500"`
}

// CreateReturnRequest body para devolver una transferencia completada.
type CreateReturnRequest struct {
	Reason     string `json:"reason" validate:"required,max=500"`
	Quantity   int    `json:"quantity" validate:"required,gt=0"`
	PickupType string `json:"pickup_type" validate:"required,oneof=corredor vendedor"`
	Notes      string `json:"notes,omitempty" validate:"max=500"`
}

// ConfirmReturnReceptionRequest body del bodeguero al recibir una devolución.
type ConfirmReturnReceptionRequest struct {
	Condition string `json:"condition" validate:"required,oneof=good damaged unusable"`
	Quantity  int    `json:"quantity,omitempty" validate:"min=0"` // 0 = toda la devolución
	Notes     string `json:"notes,omitempty" validate:"max=500"`
}

// ReportIncidentRequest body para reportar una novedad de transporte.
type ReportIncidentRequest struct {
	IncidentType string `json:"incident_type" validate:"required,oneof=delay damage lost address other"`
	Description  string `json:"description" validate:"required,max=1000"`
}

// TransferResponse representación pública de una TransferRequest.
type TransferResponse struct {
	ID                    string     `json:"id"`
	SourceLocationID      string     `json:"source_location_id"`
	DestinationLocationID string     `json:"destination_location_id"`
	Reference             string     `json:"reference"`
	Brand                 string     `json:"brand,omitempty"`
	Model                 string     `json:"model,omitempty"`
	Size                  string     `json:"size"`
	Quantity              int        `json:"quantity"`
	InventoryType         string     `json:"inventory_type"`
	Purpose               string     `json:"purpose"`
	PickupType            string     `json:"pickup_type"`
	Priority              string     `json:"priority"`
	Status                string     `json:"status"`
	IsReturn              bool       `json:"is_return"`
	OriginalTransferID    string     `json:"original_transfer_id,omitempty"`
	RequesterID           string     `json:"requester_id"`
	WarehouseKeeperID     string     `json:"warehouse_keeper_id,omitempty"`
	CourierID             string     `json:"courier_id,omitempty"`
	ReceivedQuantity      int        `json:"received_quantity"`
	ReturnReason          string     `json:"return_reason,omitempty"`
	ReturnCondition       string     `json:"return_condition,omitempty"`
	EstimatedMinutes      int        `json:"estimated_minutes"`
	ReservationExpiresAt  *time.Time `json:"reservation_expires_at,omitempty"`
	RequestNotes          string     `json:"request_notes,omitempty"`
	RejectionReason       string     `json:"rejection_reason,omitempty"`
	CancelReason          string     `json:"cancel_reason,omitempty"`
	RequestedAt           time.Time  `json:"requested_at"`
	AcceptedAt            *time.Time `json:"accepted_at,omitempty"`
	CourierAcceptedAt     *time.Time `json:"courier_accepted_at,omitempty"`
	EstimatedPickupAt     *time.Time `json:"estimated_pickup_at,omitempty"`
	PickedUpAt            *time.Time `json:"picked_up_at,omitempty"`
	DeliveredAt           *time.Time `json:"delivered_at,omitempty"`
	ReceivedAt            *time.Time `json:"received_at,omitempty"`
}

// ReceptionResponse transferencia recibida más el resultado del emparejamiento (si aplica).
type ReceptionResponse struct {
	Transfer TransferResponse               `json:"transfer"`
	Pairing  *domaininv.PairFormationResult `json:"pairing,omitempty"`
}

// TransferSummaryResponse conteos de la vista del solicitante.
type TransferSummaryResponse struct {
	Total     int `json:"total"`
	Pending   int `json:"pending"`
	Active    int `json:"active"`
	Completed int `json:"completed"`
	Closed    int `json:"closed"`
}

// TransferListResponse listado con resumen opcional.
type TransferListResponse struct {
	Summary   *TransferSummaryResponse `json:"summary,omitempty"`
	Transfers []TransferResponse       `json:"transfers"`
}

// IncidentResponse novedad de transporte registrada.
type IncidentResponse struct {
	ID           string    `json:"id"`
	TransferID   string    `json:"transfer_id"`
	CourierID    string    `json:"courier_id"`
	IncidentType string    `json:"incident_type"`
	Description  string    `json:"description"`
	ReportedAt   time.Time `json:"reported_at"`
}

// ReturnNotificationResponse aviso de devolución recibida.
type ReturnNotificationResponse struct {
	ID                 string     `json:"id"`
	ReturnID           string     `json:"return_id"`
	OriginalTransferID string     `json:"original_transfer_id"`
	Reference          string     `json:"reference"`
	Size               string     `json:"size"`
	Quantity           int        `json:"quantity"`
	Condition          string     `json:"condition"`
	Restocked          bool       `json:"restocked"`
	Message            string     `json:"message"`
	Read               bool       `json:"read"`
	CreatedAt          time.Time  `json:"created_at"`
	ReadAt             *time.Time `json:"read_at,omitempty"`
}

// ToTransferResponse convierte la entidad.
func ToTransferResponse(t *entity.TransferRequest) TransferResponse {
	return TransferResponse{
		ID:                    t.ID,
		SourceLocationID:      t.SourceLocationID,
		DestinationLocationID: t.DestinationLocationID,
		Reference:             t.ProductReference,
		Brand:                 t.Brand,
		Model:                 t.Model,
		Size:                  t.Size,
		Quantity:              t.Quantity,
		InventoryType:         t.InventoryType,
		Purpose:               t.Purpose,
		PickupType:            t.PickupType,
		Priority:              t.Priority,
		Status:                t.Status,
		IsReturn:              t.IsReturn(),
		OriginalTransferID:    t.OriginalTransferID,
		RequesterID:           t.RequesterID,
		WarehouseKeeperID:     t.WarehouseKeeperID,
		CourierID:             t.CourierID,
		ReceivedQuantity:      t.ReceivedQuantity,
		ReturnReason:          t.ReturnReason,
		ReturnCondition:       t.ReturnCondition,
		EstimatedMinutes:      t.EstimatedMinutes,
		ReservationExpiresAt:  t.ReservationExpiresAt,
		RequestNotes:          t.RequestNotes,
		RejectionReason:       t.RejectionReason,
		CancelReason:          t.CancelReason,
		RequestedAt:           t.RequestedAt,
		AcceptedAt:            t.AcceptedAt,
		CourierAcceptedAt:     t.CourierAcceptedAt,
		EstimatedPickupAt:     t.EstimatedPickupAt,
		PickedUpAt:            t.PickedUpAt,
		DeliveredAt:           t.DeliveredAt,
		ReceivedAt:            t.ReceivedAt,
	}
}

// ToTransferResponses convierte una lista.
func ToTransferResponses(list []*entity.TransferRequest) []TransferResponse {
	out := make([]TransferResponse, 0, len(list))
	for _, t := range list {
		out = append(out, ToTransferResponse(t))
	}
	return out
}

// ToIncidentResponse convierte una novedad.
func ToIncidentResponse(i *entity.TransportIncident) IncidentResponse {
	return IncidentResponse{
		ID:           i.ID,
		TransferID:   i.TransferID,
		CourierID:    i.CourierID,
		IncidentType: i.IncidentType,
		Description:  i.Description,
		ReportedAt:   i.ReportedAt,
	}
}

// ToReturnNotificationResponse convierte un aviso.
func ToReturnNotificationResponse(n *entity.ReturnNotification) ReturnNotificationResponse {
	return ReturnNotificationResponse{
		ID:                 n.ID,
		ReturnID:           n.ReturnID,
		OriginalTransferID: n.OriginalTransferID,
		Reference:          n.ProductReference,
		Size:               n.Size,
		Quantity:           n.Quantity,
		Condition:          n.Condition,
		Restocked:          n.Restocked,
		Message:            n.Message,
		Read:               n.ReadByRequester,
		CreatedAt:          n.CreatedAt,
		ReadAt:             n.ReadAt,
	}
}
