package transfer

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/tenis-ops/internal/application/inventory"
	"github.com/jhoicas/tenis-ops/internal/domain"
	"github.com/jhoicas/tenis-ops/internal/domain/entity"
	domaininv "github.com/jhoicas/tenis-ops/internal/domain/inventory"
	"github.com/jhoicas/tenis-ops/internal/domain/repository"
)

// AssignCourier el corredor reclama una transferencia aceptada con recogida por corredor.
// Si otro corredor ya la tomó devuelve ConflictError; el reclamo es condicional en la persistencia.
func (m *Machine) AssignCourier(ctx context.Context, actor entity.Actor, id string, etaMinutes int, notes string) (*entity.TransferRequest, error) {
	if etaMinutes < 0 {
		return nil, domain.ErrInvalidInput
	}
	return m.transition(ctx, actor, id, step{
		event: entity.EventAssignCourier,
		claim: true,
		before: func(t *entity.TransferRequest) error {
			if t.CourierID != "" {
				return domain.NewConflictError("transfer_request", "ya tiene corredor asignado")
			}
			return nil
		},
		apply: func(_ context.Context, _ repository.Repos, t *entity.TransferRequest) error {
			if t.PickupType != entity.PickupTypeCorredor {
				return invalid(t, entity.EventAssignCourier)
			}
			if etaMinutes == 0 {
				etaMinutes = t.EstimatedMinutes
			}
			now := m.now()
			eta := now.Add(time.Duration(etaMinutes) * time.Minute)
			t.CourierID = actor.UserID
			t.CourierAcceptedAt = &now
			t.EstimatedPickupAt = &eta
			t.CourierNotes = notes
			t.Status = entity.TransferStatusCourierAssigned
			return nil
		},
	})
}

// DeliverToCourier entrega física al corredor: descuenta el stock del origen. Es el único punto
// donde sale el producto de la ubicación de origen en traslados por corredor.
func (m *Machine) DeliverToCourier(ctx context.Context, actor entity.Actor, id, notes string, guard Guard) (*entity.TransferRequest, error) {
	return m.transition(ctx, actor, id, step{
		event: entity.EventDeliverToCourier,
		guard: guard,
		apply: func(ctx context.Context, repos repository.Repos, t *entity.TransferRequest) error {
			return m.pickUp(ctx, repos, actor, t, notes)
		},
	})
}

// DeliverToVendor el vendedor recoge en persona una transferencia aceptada con recogida por vendedor.
func (m *Machine) DeliverToVendor(ctx context.Context, actor entity.Actor, id, notes string, guard Guard) (*entity.TransferRequest, error) {
	return m.transition(ctx, actor, id, step{
		event: entity.EventDeliverToVendor,
		guard: guard,
		apply: func(ctx context.Context, repos repository.Repos, t *entity.TransferRequest) error {
			if t.PickupType != entity.PickupTypeVendedor {
				return invalid(t, entity.EventDeliverToVendor)
			}
			return m.pickUp(ctx, repos, actor, t, notes)
		},
	})
}

// pickUp descuenta la cantidad en el origen y deja la solicitud in_transit.
func (m *Machine) pickUp(ctx context.Context, repos repository.Repos, actor entity.Actor, t *entity.TransferRequest, notes string) error {
	changeType := entity.ChangeTypeTransferPickup
	if t.IsReturn() {
		changeType = entity.ChangeTypeReturnPickup
	}
	if _, err := m.engine.Ledger().Adjust(ctx, repos, inventory.AdjustInput{
		Key:         sourceKey(t),
		Brand:       t.Brand,
		Model:       t.Model,
		Delta:       -t.Quantity,
		ActorID:     actor.UserID,
		ReferenceID: t.ID,
		ChangeType:  changeType,
		Notes:       notes,
	}); err != nil {
		return err
	}
	t.PickedUpAt = m.timestamp()
	if notes != "" {
		t.DeliveryNotes = notes
	}
	t.Status = entity.TransferStatusInTransit
	return nil
}

// ConfirmPickup el corredor confirma que tiene el producto. Solo una vez, sin cambio de estado.
func (m *Machine) ConfirmPickup(ctx context.Context, actor entity.Actor, id, notes string) (*entity.TransferRequest, error) {
	return m.transition(ctx, actor, id, step{
		event: entity.EventConfirmPickup,
		apply: func(_ context.Context, _ repository.Repos, t *entity.TransferRequest) error {
			if t.PickupType != entity.PickupTypeCorredor {
				return invalid(t, entity.EventConfirmPickup)
			}
			if err := requireCourier(t, actor); err != nil {
				return err
			}
			if t.CourierPickupConfirmedAt != nil {
				return domain.NewConflictError("transfer_request", "recogida ya confirmada")
			}
			t.CourierPickupConfirmedAt = m.timestamp()
			if notes != "" {
				t.CourierNotes = notes
			}
			return nil
		},
	})
}

// ConfirmDelivery el corredor confirma la entrega en destino (delivered) o el fallo (delivery_failed).
// Ninguno de los dos toca el inventario.
func (m *Machine) ConfirmDelivery(ctx context.Context, actor entity.Actor, id string, success bool, notes string) (*entity.TransferRequest, error) {
	return m.transition(ctx, actor, id, step{
		event: entity.EventConfirmDelivery,
		apply: func(_ context.Context, _ repository.Repos, t *entity.TransferRequest) error {
			if t.PickupType != entity.PickupTypeCorredor {
				return invalid(t, entity.EventConfirmDelivery)
			}
			if err := requireCourier(t, actor); err != nil {
				return err
			}
			t.DeliveryNotes = notes
			if !success {
				t.Status = entity.TransferStatusDeliveryFailed
				return nil
			}
			t.DeliveredAt = m.timestamp()
			t.Status = entity.TransferStatusDelivered
			return nil
		},
	})
}

// ReceptionInput datos de la confirmación de recepción del solicitante.
type ReceptionInput struct {
	ReceivedQuantity int
	ConditionOK      bool
	Notes            string
}

// ConfirmReception el solicitante confirma la recepción: incrementa el destino por la cantidad
// recibida y, si es un pie suelto, intenta formar pares. Si el producto llega en mal estado solo
// queda la entrada de auditoría con delta cero.
func (m *Machine) ConfirmReception(ctx context.Context, actor entity.Actor, id string, in ReceptionInput, guard Guard) (*entity.TransferRequest, *domaininv.PairFormationResult, error) {
	var pairing *domaininv.PairFormationResult
	t, err := m.transition(ctx, actor, id, step{
		event: entity.EventConfirmReception,
		guard: guard,
		apply: func(ctx context.Context, repos repository.Repos, t *entity.TransferRequest) error {
			if t.IsReturn() {
				return invalid(t, entity.EventConfirmReception)
			}
			if err := requireArrived(t, entity.EventConfirmReception); err != nil {
				return err
			}
			if err := requireRequester(t, actor); err != nil {
				return err
			}
			if in.ReceivedQuantity <= 0 || in.ReceivedQuantity > t.Quantity {
				return domain.ErrInvalidInput
			}
			ok := in.ConditionOK
			t.ReceptionConditionOK = &ok
			t.ReceptionNotes = in.Notes
			if ok {
				adj := inventory.AdjustInput{
					Key:         destinationKey(t),
					Brand:       t.Brand,
					Model:       t.Model,
					Delta:       in.ReceivedQuantity,
					ActorID:     actor.UserID,
					ReferenceID: t.ID,
					ChangeType:  entity.ChangeTypeTransferReception,
					Notes:       in.Notes,
				}
				if t.Purpose == entity.PurposeExhibition {
					adj.ExhibitionDelta = in.ReceivedQuantity
				}
				_, p, err := m.engine.Receive(ctx, repos, adj)
				if err != nil {
					return err
				}
				pairing = p
				t.ReceivedQuantity = in.ReceivedQuantity
			} else {
				if _, err := m.engine.Ledger().Adjust(ctx, repos, inventory.AdjustInput{
					Key:         destinationKey(t),
					Brand:       t.Brand,
					Model:       t.Model,
					ActorID:     actor.UserID,
					ReferenceID: t.ID,
					ChangeType:  entity.ChangeTypeTransferReceptionRejected,
					Notes:       fmt.Sprintf("recepción rechazada por estado del producto (%d unidades): %s", in.ReceivedQuantity, in.Notes),
				}); err != nil {
					return err
				}
			}
			m.markReceived(t)
			return nil
		},
	})
	if err != nil {
		return nil, nil, err
	}
	return t, pairing, nil
}

// requireArrived la recepción procede desde delivered, o desde in_transit cuando lo trajo el vendedor.
func requireArrived(t *entity.TransferRequest, event string) error {
	if t.Status == entity.TransferStatusDelivered {
		return nil
	}
	if t.Status == entity.TransferStatusInTransit && t.PickupType == entity.PickupTypeVendedor {
		return nil
	}
	return invalid(t, event)
}

func (m *Machine) markReceived(t *entity.TransferRequest) {
	now := m.now()
	if t.DeliveredAt == nil {
		t.DeliveredAt = &now
	}
	t.ReceivedAt = &now
	t.Status = entity.TransferStatusCompleted
}

// ReportIncident el corredor asignado registra una novedad de transporte. No cambia el estado.
func (m *Machine) ReportIncident(ctx context.Context, actor entity.Actor, id, incidentType, description string) (*entity.TransportIncident, error) {
	if !entity.IsValidIncidentType(incidentType) || description == "" {
		return nil, domain.ErrInvalidInput
	}
	var incident *entity.TransportIncident
	_, err := m.transition(ctx, actor, id, step{
		event: entity.EventReportIncident,
		apply: func(ctx context.Context, repos repository.Repos, t *entity.TransferRequest) error {
			if err := requireCourier(t, actor); err != nil {
				return err
			}
			incident = &entity.TransportIncident{
				ID:           uuid.New().String(),
				CompanyID:    t.CompanyID,
				TransferID:   t.ID,
				CourierID:    actor.UserID,
				IncidentType: incidentType,
				Description:  description,
				ReportedAt:   m.now(),
			}
			return repos.Incidents.Create(ctx, incident)
		},
	})
	if err != nil {
		return nil, err
	}
	return incident, nil
}
