package repository

import (
	"context"

	"github.com/jhoicas/tenis-ops/internal/domain/entity"
)

// LocationRepository define el puerto de persistencia para Location (DIP).
type LocationRepository interface {
	Create(ctx context.Context, location *entity.Location) error
	GetByID(ctx context.Context, companyID, id string) (*entity.Location, error)
	ListByCompany(ctx context.Context, companyID string) ([]*entity.Location, error)
}
