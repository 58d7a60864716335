package repository

import (
	"context"

	"github.com/jhoicas/tenis-ops/internal/domain/entity"
)

// InventoryChangeRepository log append-only de cambios de inventario. No hay Update ni Delete.
type InventoryChangeRepository interface {
	Create(ctx context.Context, entry *entity.InventoryChangeEntry) error
	ListByReference(ctx context.Context, companyID, referenceID string) ([]*entity.InventoryChangeEntry, error)
	ListByLocation(ctx context.Context, companyID, locationID string, limit, offset int) ([]*entity.InventoryChangeEntry, error)
}
