package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/tenis-ops/internal/domain/entity"
	"github.com/jhoicas/tenis-ops/internal/domain/repository"
)

var _ repository.IncidentRepository = (*IncidentRepo)(nil)

// IncidentRepo novedades de transporte sobre PostgreSQL.
type IncidentRepo struct {
	q Querier
}

// NewIncidentRepository construye el adaptador.
func NewIncidentRepository(q Querier) *IncidentRepo {
	return &IncidentRepo{q: q}
}

func (r *IncidentRepo) Create(ctx context.Context, i *entity.TransportIncident) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO transport_incidents (id, company_id, transfer_id, courier_id, incident_type, description, reported_at, resolved)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		i.ID, i.CompanyID, i.TransferID, i.CourierID, i.IncidentType, i.Description, i.ReportedAt, i.Resolved,
	)
	if err != nil {
		return fmt.Errorf("insert incident: %w", err)
	}
	return nil
}

func (r *IncidentRepo) ListByTransfer(ctx context.Context, companyID, transferID string) ([]*entity.TransportIncident, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, company_id, transfer_id, courier_id, incident_type, description, reported_at, resolved
		FROM transport_incidents WHERE company_id = $1 AND transfer_id = $2 ORDER BY reported_at`, companyID, transferID)
	if err != nil {
		return nil, fmt.Errorf("list incidents: %w", err)
	}
	defer rows.Close()
	var list []*entity.TransportIncident
	for rows.Next() {
		var i entity.TransportIncident
		if err := rows.Scan(&i.ID, &i.CompanyID, &i.TransferID, &i.CourierID, &i.IncidentType, &i.Description, &i.ReportedAt, &i.Resolved); err != nil {
			return nil, fmt.Errorf("scan incident: %w", err)
		}
		list = append(list, &i)
	}
	return list, rows.Err()
}
