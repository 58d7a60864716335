package transfer

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/tenis-ops/internal/application/inventory"
	"github.com/jhoicas/tenis-ops/internal/domain"
	"github.com/jhoicas/tenis-ops/internal/domain/entity"
	"github.com/jhoicas/tenis-ops/internal/domain/repository"
)

// CreateInput datos de una nueva solicitud de traslado.
type CreateInput struct {
	SourceLocationID      string
	DestinationLocationID string
	Reference             string
	Brand                 string
	Model                 string
	Size                  string
	Quantity              int
	InventoryType         string
	Purpose               string
	PickupType            string
	Notes                 string
}

// Create registra una solicitud en pending. Valida origen distinto de destino, cantidad positiva,
// que ambas ubicaciones sean de la empresa y que el origen tenga stock (bloqueo sin descontar).
func (m *Machine) Create(ctx context.Context, actor entity.Actor, in CreateInput) (*entity.TransferRequest, error) {
	if in.InventoryType == "" {
		in.InventoryType = entity.InventoryTypePair
	}
	if in.SourceLocationID == "" || in.DestinationLocationID == "" || in.SourceLocationID == in.DestinationLocationID {
		return nil, domain.ErrInvalidInput
	}
	if in.Quantity <= 0 || in.Reference == "" || in.Size == "" {
		return nil, domain.ErrInvalidInput
	}
	if !entity.IsValidPurpose(in.Purpose) || !entity.IsValidPickupType(in.PickupType) || !entity.IsValidInventoryType(in.InventoryType) {
		return nil, domain.ErrInvalidInput
	}

	now := m.now()
	t := &entity.TransferRequest{
		ID:                    uuid.New().String(),
		CompanyID:             actor.CompanyID,
		SourceLocationID:      in.SourceLocationID,
		DestinationLocationID: in.DestinationLocationID,
		ProductReference:      in.Reference,
		Brand:                 in.Brand,
		Model:                 in.Model,
		Size:                  in.Size,
		Quantity:              in.Quantity,
		InventoryType:         in.InventoryType,
		Purpose:               in.Purpose,
		PickupType:            in.PickupType,
		Priority:              entity.PriorityNormal,
		Status:                entity.TransferStatusPending,
		RequesterID:           actor.UserID,
		EstimatedMinutes:      etaNormalPriority,
		RequestNotes:          in.Notes,
		RequestedAt:           now,
		UpdatedAt:             now,
	}
	if in.Purpose == entity.PurposeCliente {
		t.Priority = entity.PriorityHigh
		t.EstimatedMinutes = etaHighPriority
		expires := now.Add(time.Duration(m.cfg.ClientReservationMinutes) * time.Minute)
		t.ReservationExpiresAt = &expires
	}

	err := m.txRunner.Run(ctx, func(repos repository.Repos) error {
		if err := requireLocations(ctx, repos, actor.CompanyID, t.SourceLocationID, t.DestinationLocationID); err != nil {
			return err
		}
		if t.Brand == "" || t.Model == "" {
			if p, err := repos.Products.GetByReference(ctx, actor.CompanyID, t.ProductReference); err == nil && p != nil {
				t.Brand, t.Model = p.Brand, p.Model
			}
		}
		if _, err := m.engine.ValidateAndReserve(ctx, repos, actor.CompanyID, t.SourceLocationID, []inventory.ReserveItem{{
			Reference:     t.ProductReference,
			Size:          t.Size,
			InventoryType: t.InventoryType,
			Quantity:      t.Quantity,
		}}); err != nil {
			return err
		}
		return repos.Transfers.Create(ctx, t)
	})
	if err != nil {
		m.recordFailure("create_transfer", "", actor, err)
		return nil, err
	}
	m.metrics.TransferTransition("create_transfer", t.Status)
	m.log.Info().
		Str("transfer_id", t.ID).
		Str("company_id", t.CompanyID).
		Str("reference", t.ProductReference).
		Int("quantity", t.Quantity).
		Str("priority", t.Priority).
		Msg("solicitud de transferencia creada")
	return t, nil
}

// Get devuelve la solicitud si pertenece a la empresa del actor.
func (m *Machine) Get(ctx context.Context, actor entity.Actor, id string) (*entity.TransferRequest, error) {
	var out *entity.TransferRequest
	err := m.txRunner.Run(ctx, func(repos repository.Repos) error {
		t, err := repos.Transfers.GetByID(ctx, actor.CompanyID, id)
		if err != nil {
			return err
		}
		if t == nil {
			return domain.ErrNotFound
		}
		out = t
		return nil
	})
	return out, err
}

// Accept el bodeguero acepta la solicitud; se asigna como warehouse_keeper. Sin cambio de stock.
func (m *Machine) Accept(ctx context.Context, actor entity.Actor, id, notes string, guard Guard) (*entity.TransferRequest, error) {
	return m.transition(ctx, actor, id, step{
		event: entity.EventAccept,
		guard: guard,
		apply: func(_ context.Context, _ repository.Repos, t *entity.TransferRequest) error {
			if t.WarehouseKeeperID != "" && t.WarehouseKeeperID != actor.UserID {
				return domain.NewConflictError("transfer_request", "ya tiene bodeguero asignado")
			}
			t.WarehouseKeeperID = actor.UserID
			t.KeeperNotes = notes
			t.AcceptedAt = m.timestamp()
			t.Status = entity.TransferStatusAccepted
			return nil
		},
	})
}

// Reject el bodeguero rechaza la solicitud pendiente.
func (m *Machine) Reject(ctx context.Context, actor entity.Actor, id, reason string, guard Guard) (*entity.TransferRequest, error) {
	if reason == "" {
		return nil, domain.ErrInvalidInput
	}
	return m.transition(ctx, actor, id, step{
		event: entity.EventReject,
		guard: guard,
		apply: func(_ context.Context, _ repository.Repos, t *entity.TransferRequest) error {
			t.WarehouseKeeperID = actor.UserID
			t.RejectionReason = reason
			t.RejectedAt = m.timestamp()
			t.Status = entity.TransferStatusRejected
			return nil
		},
	})
}

// Cancel el solicitante cancela mientras esté pendiente o aceptada sin corredor.
func (m *Machine) Cancel(ctx context.Context, actor entity.Actor, id, reason string) (*entity.TransferRequest, error) {
	return m.transition(ctx, actor, id, step{
		event: entity.EventCancel,
		apply: func(_ context.Context, _ repository.Repos, t *entity.TransferRequest) error {
			if err := requireRequester(t, actor); err != nil {
				return err
			}
			if t.CourierID != "" {
				return invalid(t, entity.EventCancel)
			}
			t.CancelReason = reason
			t.CancelledAt = m.timestamp()
			t.Status = entity.TransferStatusCancelled
			return nil
		},
	})
}

func requireLocations(ctx context.Context, repos repository.Repos, companyID string, ids ...string) error {
	for _, id := range ids {
		l, err := repos.Locations.GetByID(ctx, companyID, id)
		if err != nil {
			return err
		}
		if l == nil {
			return domain.ErrNotFound
		}
	}
	return nil
}
