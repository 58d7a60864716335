package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jhoicas/tenis-ops/internal/domain/entity"
	"github.com/jhoicas/tenis-ops/internal/domain/repository"
)

var _ repository.InventoryChangeRepository = (*InventoryChangeRepo)(nil)

// InventoryChangeRepo log append-only de cambios. Solo INSERT y SELECT.
type InventoryChangeRepo struct {
	q Querier
}

// NewInventoryChangeRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryChangeRepository(q Querier) *InventoryChangeRepo {
	return &InventoryChangeRepo{q: q}
}

const changeColumns = `id, company_id, product_id, size, location_id, inventory_type, change_type,
	quantity_before, quantity_after, user_id, reference_id, notes, created_at`

// Create agrega una entrada al log.
func (r *InventoryChangeRepo) Create(ctx context.Context, e *entity.InventoryChangeEntry) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	query := `INSERT INTO inventory_changes (` + changeColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query,
		e.ID, e.CompanyID, e.ProductID, e.Size, e.LocationID, e.InventoryType, e.ChangeType,
		e.QuantityBefore, e.QuantityAfter, e.UserID, e.ReferenceID, e.Notes, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert inventory change: %w", err)
	}
	return nil
}

// ListByReference entradas originadas por una transferencia o venta, en orden cronológico.
func (r *InventoryChangeRepo) ListByReference(ctx context.Context, companyID, referenceID string) ([]*entity.InventoryChangeEntry, error) {
	return r.list(ctx, `SELECT `+changeColumns+` FROM inventory_changes
		WHERE company_id = $1 AND reference_id = $2 ORDER BY created_at, id`, companyID, referenceID)
}

// ListByLocation entradas de una ubicación con paginación (limit 0 = sin límite).
func (r *InventoryChangeRepo) ListByLocation(ctx context.Context, companyID, locationID string, limit, offset int) ([]*entity.InventoryChangeEntry, error) {
	return r.list(ctx, `SELECT `+changeColumns+` FROM inventory_changes
		WHERE company_id = $1 AND location_id = $2 ORDER BY created_at, id LIMIT $3 OFFSET $4`,
		companyID, locationID, limitArg(limit), offset)
}

func (r *InventoryChangeRepo) list(ctx context.Context, query string, args ...any) ([]*entity.InventoryChangeEntry, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list inventory changes: %w", err)
	}
	defer rows.Close()
	var list []*entity.InventoryChangeEntry
	for rows.Next() {
		var e entity.InventoryChangeEntry
		if err := rows.Scan(&e.ID, &e.CompanyID, &e.ProductID, &e.Size, &e.LocationID, &e.InventoryType, &e.ChangeType,
			&e.QuantityBefore, &e.QuantityAfter, &e.UserID, &e.ReferenceID, &e.Notes, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan inventory change: %w", err)
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}
