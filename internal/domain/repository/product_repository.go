package repository

import (
	"context"

	"github.com/jhoicas/tenis-ops/internal/domain/entity"
)

// ProductRepository catálogo de referencias (marca/modelo/precio).
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByReference(ctx context.Context, companyID, reference string) (*entity.Product, error)
}
