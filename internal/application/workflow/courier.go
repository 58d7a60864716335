package workflow

import (
	"context"

	"github.com/jhoicas/tenis-ops/internal/application/access"
	"github.com/jhoicas/tenis-ops/internal/application/dto"
	"github.com/jhoicas/tenis-ops/internal/domain/entity"
)

func requireCourierRole(actor entity.Actor) error {
	return access.RequireRole(actor, entity.RoleCorredor)
}

// AvailableForCourier transferencias que el corredor puede tomar y las que ya tiene en curso.
func (s *Service) AvailableForCourier(ctx context.Context, actor entity.Actor) (*dto.TransferListResponse, error) {
	if err := requireCourierRole(actor); err != nil {
		return nil, err
	}
	list, err := s.machine.AvailableForCourier(ctx, actor)
	if err != nil {
		return nil, err
	}
	return &dto.TransferListResponse{Transfers: dto.ToTransferResponses(list)}, nil
}

// AcceptAsCourier el corredor toma la transferencia. Solo uno puede ganar.
func (s *Service) AcceptAsCourier(ctx context.Context, actor entity.Actor, id string, in dto.AssignCourierRequest) (*dto.TransferResponse, error) {
	if err := requireCourierRole(actor); err != nil {
		return nil, err
	}
	return transferResponse(s.machine.AssignCourier(ctx, actor, id, in.EtaMinutes, in.Notes))
}

// ConfirmPickup el corredor confirma que recogió el producto.
func (s *Service) ConfirmPickup(ctx context.Context, actor entity.Actor, id string, in dto.NotesRequest) (*dto.TransferResponse, error) {
	if err := requireCourierRole(actor); err != nil {
		return nil, err
	}
	return transferResponse(s.machine.ConfirmPickup(ctx, actor, id, in.Notes))
}

// ConfirmDelivery el corredor confirma la entrega o reporta que no fue posible.
func (s *Service) ConfirmDelivery(ctx context.Context, actor entity.Actor, id string, in dto.ConfirmDeliveryRequest) (*dto.TransferResponse, error) {
	if err := requireCourierRole(actor); err != nil {
		return nil, err
	}
	return transferResponse(s.machine.ConfirmDelivery(ctx, actor, id, in.Success, in.Notes))
}

// ReportIncident el corredor asignado reporta una novedad.
func (s *Service) ReportIncident(ctx context.Context, actor entity.Actor, id string, in dto.ReportIncidentRequest) (*dto.IncidentResponse, error) {
	if err := requireCourierRole(actor); err != nil {
		return nil, err
	}
	incident, err := s.machine.ReportIncident(ctx, actor, id, in.IncidentType, in.Description)
	if err != nil {
		return nil, err
	}
	out := dto.ToIncidentResponse(incident)
	return &out, nil
}

// CourierHistory transferencias del corredor, las más recientes primero.
func (s *Service) CourierHistory(ctx context.Context, actor entity.Actor, page dto.PageRequest) (*dto.TransferListResponse, error) {
	if err := requireCourierRole(actor); err != nil {
		return nil, err
	}
	list, err := s.machine.CourierHistory(ctx, actor, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	return &dto.TransferListResponse{Transfers: dto.ToTransferResponses(list)}, nil
}
