package repository

import (
	"context"

	"github.com/jhoicas/tenis-ops/internal/domain/entity"
)

// UserRepository directorio de usuarios y de ubicaciones que cada bodeguero administra.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, companyID, id string) (*entity.User, error)
	ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.User, error)
	AssignLocation(ctx context.Context, companyID, userID, locationID string) error
	ManagedLocationIDs(ctx context.Context, companyID, userID string) ([]string, error)
}
