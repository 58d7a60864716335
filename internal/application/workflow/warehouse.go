package workflow

import (
	"context"

	"github.com/jhoicas/tenis-ops/internal/application/access"
	"github.com/jhoicas/tenis-ops/internal/application/dto"
	"github.com/jhoicas/tenis-ops/internal/application/transfer"
	"github.com/jhoicas/tenis-ops/internal/domain/entity"
)

func requireKeeperRole(actor entity.Actor) error {
	return access.RequireRole(actor, entity.RoleBodeguero, entity.RoleAdmin)
}

// PendingForWarehouse cola del bodeguero: solicitudes activas de las ubicaciones que administra.
// Un admin ve todas las ubicaciones de la empresa.
func (s *Service) PendingForWarehouse(ctx context.Context, actor entity.Actor) (*dto.TransferListResponse, error) {
	if err := requireKeeperRole(actor); err != nil {
		return nil, err
	}
	var ids []string
	if actor.IsAdmin() {
		locs, err := s.locations.ListByCompany(ctx, actor.CompanyID)
		if err != nil {
			return nil, err
		}
		for _, l := range locs {
			ids = append(ids, l.ID)
		}
	} else {
		var err error
		ids, err = access.LocationsOf(ctx, s.users, actor)
		if err != nil {
			return nil, err
		}
	}
	list, err := s.machine.ForLocations(ctx, actor.CompanyID, ids)
	if err != nil {
		return nil, err
	}
	return &dto.TransferListResponse{Transfers: dto.ToTransferResponses(list)}, nil
}

// AcceptRequest el bodeguero de la ubicación que despacha acepta.
func (s *Service) AcceptRequest(ctx context.Context, actor entity.Actor, id string, in dto.NotesRequest) (*dto.TransferResponse, error) {
	if err := requireKeeperRole(actor); err != nil {
		return nil, err
	}
	return transferResponse(s.machine.Accept(ctx, actor, id, in.Notes, managesGuard(actor, acceptingLocation)))
}

// RejectRequest el bodeguero rechaza con motivo.
func (s *Service) RejectRequest(ctx context.Context, actor entity.Actor, id string, in dto.ReasonRequest) (*dto.TransferResponse, error) {
	if err := requireKeeperRole(actor); err != nil {
		return nil, err
	}
	return transferResponse(s.machine.Reject(ctx, actor, id, in.Reason, managesGuard(actor, acceptingLocation)))
}

// DeliverToCourier entrega al corredor asignado; descuenta el origen.
func (s *Service) DeliverToCourier(ctx context.Context, actor entity.Actor, id string, in dto.NotesRequest) (*dto.TransferResponse, error) {
	if err := access.RequireRole(actor, entity.RoleBodeguero, entity.RoleVendedor, entity.RoleAdmin); err != nil {
		return nil, err
	}
	return transferResponse(s.machine.DeliverToCourier(ctx, actor, id, in.Notes, senderGuard(actor)))
}

// DeliverToVendor entrega en mano al vendedor que recoge; descuenta el origen.
func (s *Service) DeliverToVendor(ctx context.Context, actor entity.Actor, id string, in dto.NotesRequest) (*dto.TransferResponse, error) {
	if err := access.RequireRole(actor, entity.RoleBodeguero, entity.RoleVendedor, entity.RoleAdmin); err != nil {
		return nil, err
	}
	return transferResponse(s.machine.DeliverToVendor(ctx, actor, id, in.Notes, senderGuard(actor)))
}

// ConfirmReturnReception la bodega de destino recibe una devolución.
func (s *Service) ConfirmReturnReception(ctx context.Context, actor entity.Actor, id string, in dto.ConfirmReturnReceptionRequest) (*dto.ReceptionResponse, error) {
	if err := requireKeeperRole(actor); err != nil {
		return nil, err
	}
	t, pairing, err := s.machine.ConfirmReturnReception(ctx, actor, id, transfer.ReturnReceptionInput{
		Condition: in.Condition,
		Quantity:  in.Quantity,
		Notes:     in.Notes,
	}, managesGuard(actor, destinationLocation))
	if err != nil {
		return nil, err
	}
	return &dto.ReceptionResponse{Transfer: dto.ToTransferResponse(t), Pairing: pairing}, nil
}
