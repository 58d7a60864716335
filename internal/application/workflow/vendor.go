package workflow

import (
	"context"

	"github.com/jhoicas/tenis-ops/internal/application/access"
	"github.com/jhoicas/tenis-ops/internal/application/dto"
	"github.com/jhoicas/tenis-ops/internal/application/transfer"
	"github.com/jhoicas/tenis-ops/internal/domain/entity"
)

func requireVendorRole(actor entity.Actor) error {
	return access.RequireRole(actor, entity.RoleVendedor, entity.RoleAdmin)
}

// CreateTransfer el vendedor pide producto para una ubicación que administra.
func (s *Service) CreateTransfer(ctx context.Context, actor entity.Actor, in dto.CreateTransferRequest) (*dto.TransferResponse, error) {
	if err := requireVendorRole(actor); err != nil {
		return nil, err
	}
	if err := access.RequireLocation(ctx, s.users, actor, in.DestinationLocationID); err != nil {
		return nil, err
	}
	return transferResponse(s.machine.Create(ctx, actor, transfer.CreateInput{
		SourceLocationID:      in.SourceLocationID,
		DestinationLocationID: in.DestinationLocationID,
		Reference:             in.Reference,
		Brand:                 in.Brand,
		Model:                 in.Model,
		Size:                  in.Size,
		Quantity:              in.Quantity,
		InventoryType:         in.InventoryType,
		Purpose:               in.Purpose,
		PickupType:            in.PickupType,
		Notes:                 in.Notes,
	}))
}

// MyTransfers solicitudes creadas por el actor con resumen por estado.
func (s *Service) MyTransfers(ctx context.Context, actor entity.Actor, page dto.PageRequest) (*dto.TransferListResponse, error) {
	if err := requireVendorRole(actor); err != nil {
		return nil, err
	}
	list, summary, err := s.machine.ByRequester(ctx, actor, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	return &dto.TransferListResponse{Summary: summaryResponse(summary), Transfers: dto.ToTransferResponses(list)}, nil
}

// ConfirmReception el solicitante recibe el producto en destino; debe seguir administrando esa ubicación.
func (s *Service) ConfirmReception(ctx context.Context, actor entity.Actor, id string, in dto.ConfirmReceptionRequest) (*dto.ReceptionResponse, error) {
	if err := requireVendorRole(actor); err != nil {
		return nil, err
	}
	t, pairing, err := s.machine.ConfirmReception(ctx, actor, id, transfer.ReceptionInput{
		ReceivedQuantity: in.ReceivedQuantity,
		ConditionOK:      in.ConditionOK,
		Notes:            in.Notes,
	}, managesGuard(actor, destinationLocation))
	if err != nil {
		return nil, err
	}
	return &dto.ReceptionResponse{Transfer: dto.ToTransferResponse(t), Pairing: pairing}, nil
}

// CancelTransfer el solicitante cancela antes de que intervenga un corredor.
func (s *Service) CancelTransfer(ctx context.Context, actor entity.Actor, id string, in dto.ReasonRequest) (*dto.TransferResponse, error) {
	if err := requireVendorRole(actor); err != nil {
		return nil, err
	}
	return transferResponse(s.machine.Cancel(ctx, actor, id, in.Reason))
}

// CreateReturn el solicitante devuelve (total o parcialmente) una transferencia completada.
func (s *Service) CreateReturn(ctx context.Context, actor entity.Actor, originalID string, in dto.CreateReturnRequest) (*dto.TransferResponse, error) {
	if err := requireVendorRole(actor); err != nil {
		return nil, err
	}
	return transferResponse(s.machine.CreateReturn(ctx, actor, originalID, transfer.ReturnInput{
		Reason:     in.Reason,
		Quantity:   in.Quantity,
		PickupType: in.PickupType,
		Notes:      in.Notes,
	}))
}

// Notifications avisos de devoluciones recibidas.
func (s *Service) Notifications(ctx context.Context, actor entity.Actor, unreadOnly bool) ([]dto.ReturnNotificationResponse, error) {
	list, err := s.machine.Notifications(ctx, actor, unreadOnly)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ReturnNotificationResponse, 0, len(list))
	for _, n := range list {
		out = append(out, dto.ToReturnNotificationResponse(n))
	}
	return out, nil
}

// MarkNotificationRead marca un aviso como leído.
func (s *Service) MarkNotificationRead(ctx context.Context, actor entity.Actor, id string) error {
	return s.machine.MarkNotificationRead(ctx, actor, id)
}
