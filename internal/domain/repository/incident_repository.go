package repository

import (
	"context"

	"github.com/jhoicas/tenis-ops/internal/domain/entity"
)

// IncidentRepository novedades de transporte.
type IncidentRepository interface {
	Create(ctx context.Context, incident *entity.TransportIncident) error
	ListByTransfer(ctx context.Context, companyID, transferID string) ([]*entity.TransportIncident, error)
}
