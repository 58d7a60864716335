package transfer

import (
	"context"

	"github.com/jhoicas/tenis-ops/internal/domain"
	"github.com/jhoicas/tenis-ops/internal/domain/entity"
	"github.com/jhoicas/tenis-ops/internal/domain/repository"
)

// activeStatuses estados que aún requieren acción de alguna parte.
var activeStatuses = []string{
	entity.TransferStatusPending,
	entity.TransferStatusAccepted,
	entity.TransferStatusCourierAssigned,
	entity.TransferStatusInTransit,
	entity.TransferStatusDelivered,
}

// read corre fn en una transacción de solo lectura.
func (m *Machine) read(ctx context.Context, fn func(repos repository.Repos) error) error {
	return m.txRunner.Run(ctx, fn)
}

// AvailableForCourier transferencias aceptadas sin corredor más las que el corredor ya tiene en curso.
// Prioridad alta primero.
func (m *Machine) AvailableForCourier(ctx context.Context, actor entity.Actor) ([]*entity.TransferRequest, error) {
	var out []*entity.TransferRequest
	err := m.read(ctx, func(repos repository.Repos) error {
		var err error
		out, err = repos.Transfers.ListAvailableForCourier(ctx, actor.CompanyID, actor.UserID)
		return err
	})
	return out, err
}

// CourierHistory transferencias tomadas por el corredor, las más recientes primero.
func (m *Machine) CourierHistory(ctx context.Context, actor entity.Actor, limit, offset int) ([]*entity.TransferRequest, error) {
	var out []*entity.TransferRequest
	err := m.read(ctx, func(repos repository.Repos) error {
		var err error
		out, err = repos.Transfers.ListByCourier(ctx, actor.CompanyID, actor.UserID, limit, offset)
		return err
	})
	return out, err
}

// ForLocations solicitudes activas que debe atender el bodeguero de las ubicaciones dadas.
func (m *Machine) ForLocations(ctx context.Context, companyID string, locationIDs []string) ([]*entity.TransferRequest, error) {
	if len(locationIDs) == 0 {
		return []*entity.TransferRequest{}, nil
	}
	var out []*entity.TransferRequest
	err := m.read(ctx, func(repos repository.Repos) error {
		var err error
		out, err = repos.Transfers.ListForLocations(ctx, companyID, locationIDs, activeStatuses)
		return err
	})
	return out, err
}

// ByRequester una página de las solicitudes del actor. El resumen cubre todas sus solicitudes,
// no solo la página.
func (m *Machine) ByRequester(ctx context.Context, actor entity.Actor, limit, offset int) ([]*entity.TransferRequest, entity.TransferSummary, error) {
	var (
		out    []*entity.TransferRequest
		counts map[string]int
	)
	err := m.read(ctx, func(repos repository.Repos) error {
		var err error
		out, err = repos.Transfers.ListByRequester(ctx, actor.CompanyID, actor.UserID, limit, offset)
		if err != nil {
			return err
		}
		counts, err = repos.Transfers.CountByRequester(ctx, actor.CompanyID, actor.UserID)
		return err
	})
	if err != nil {
		return nil, entity.TransferSummary{}, err
	}
	return out, SummarizeCounts(counts), nil
}

// SummarizeCounts agrupa conteos por estado en pendientes, activas, completadas y cerradas.
func SummarizeCounts(counts map[string]int) entity.TransferSummary {
	var s entity.TransferSummary
	for status, n := range counts {
		s.Total += n
		switch status {
		case entity.TransferStatusPending:
			s.Pending += n
		case entity.TransferStatusCompleted:
			s.Completed += n
		case entity.TransferStatusRejected, entity.TransferStatusCancelled, entity.TransferStatusDeliveryFailed:
			s.Closed += n
		default:
			s.Active += n
		}
	}
	return s
}

// Incidents novedades reportadas sobre una transferencia de la empresa.
func (m *Machine) Incidents(ctx context.Context, actor entity.Actor, transferID string) ([]*entity.TransportIncident, error) {
	var out []*entity.TransportIncident
	err := m.read(ctx, func(repos repository.Repos) error {
		t, err := repos.Transfers.GetByID(ctx, actor.CompanyID, transferID)
		if err != nil {
			return err
		}
		if t == nil {
			return domain.ErrNotFound
		}
		out, err = repos.Incidents.ListByTransfer(ctx, actor.CompanyID, transferID)
		return err
	})
	return out, err
}
