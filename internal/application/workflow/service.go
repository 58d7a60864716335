// Package workflow expone las vistas por rol (corredor, bodega, vendedor) sobre la máquina de
// estados de transferencias. Aquí solo se verifican rol y ubicación y se arman las respuestas;
// las reglas de transición viven en el paquete transfer.
package workflow

import (
	"context"

	"github.com/jhoicas/tenis-ops/internal/application/access"
	"github.com/jhoicas/tenis-ops/internal/application/dto"
	"github.com/jhoicas/tenis-ops/internal/application/transfer"
	"github.com/jhoicas/tenis-ops/internal/domain"
	"github.com/jhoicas/tenis-ops/internal/domain/entity"
	"github.com/jhoicas/tenis-ops/internal/domain/repository"
)

// Service orquestador de los flujos por rol.
type Service struct {
	machine   *transfer.Machine
	users     repository.UserRepository
	locations repository.LocationRepository
}

// NewService construye el orquestador. users y locations son repositorios fuera de transacción
// usados para verificaciones previas y listados.
func NewService(machine *transfer.Machine, users repository.UserRepository, locations repository.LocationRepository) *Service {
	return &Service{machine: machine, users: users, locations: locations}
}

// managesGuard exige que el actor administre la ubicación que devuelve pick.
func managesGuard(actor entity.Actor, pick func(t *entity.TransferRequest) string) transfer.Guard {
	return func(ctx context.Context, repos repository.Repos, t *entity.TransferRequest) error {
		return access.RequireLocation(ctx, repos.Users, actor, pick(t))
	}
}

// senderGuard quien entrega el producto en el origen: el bodeguero del origen o, en devoluciones,
// el vendedor que la solicitó.
func senderGuard(actor entity.Actor) transfer.Guard {
	return func(ctx context.Context, repos repository.Repos, t *entity.TransferRequest) error {
		if t.IsReturn() && t.RequesterID == actor.UserID {
			return nil
		}
		return access.RequireLocation(ctx, repos.Users, actor, t.SourceLocationID)
	}
}

func acceptingLocation(t *entity.TransferRequest) string { return t.AcceptingLocationID() }

func destinationLocation(t *entity.TransferRequest) string { return t.DestinationLocationID }

func transferResponse(t *entity.TransferRequest, err error) (*dto.TransferResponse, error) {
	if err != nil {
		return nil, err
	}
	out := dto.ToTransferResponse(t)
	return &out, nil
}

// Get detalle de una transferencia visible para el actor: admin, partes involucradas o
// bodegueros/vendedores de alguna de las dos ubicaciones.
func (s *Service) Get(ctx context.Context, actor entity.Actor, id string) (*dto.TransferResponse, error) {
	t, err := s.machine.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && actor.UserID != t.RequesterID && actor.UserID != t.CourierID && actor.UserID != t.WarehouseKeeperID {
		src, err := access.ManagesLocation(ctx, s.users, actor, t.SourceLocationID)
		if err != nil {
			return nil, err
		}
		dst, err := access.ManagesLocation(ctx, s.users, actor, t.DestinationLocationID)
		if err != nil {
			return nil, err
		}
		if !src && !dst {
			return nil, domain.ErrNotFound
		}
	}
	out := dto.ToTransferResponse(t)
	return &out, nil
}

// Incidents novedades de una transferencia visible para el actor.
func (s *Service) Incidents(ctx context.Context, actor entity.Actor, id string) ([]dto.IncidentResponse, error) {
	if _, err := s.Get(ctx, actor, id); err != nil {
		return nil, err
	}
	list, err := s.machine.Incidents(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	out := make([]dto.IncidentResponse, 0, len(list))
	for _, i := range list {
		out = append(out, dto.ToIncidentResponse(i))
	}
	return out, nil
}

func summaryResponse(s entity.TransferSummary) *dto.TransferSummaryResponse {
	return &dto.TransferSummaryResponse{
		Total:     s.Total,
		Pending:   s.Pending,
		Active:    s.Active,
		Completed: s.Completed,
		Closed:    s.Closed,
	}
}
