package repository

import (
	"context"

	"github.com/jhoicas/tenis-ops/internal/domain/entity"
)

// SaleRepository puerto de persistencia para Sale con sus ítems y pagos.
type SaleRepository interface {
	// Create inserta la venta y, en bloque, sus SaleItems y SalePayments.
	Create(ctx context.Context, sale *entity.Sale) error
	GetByID(ctx context.Context, companyID, id string) (*entity.Sale, error)
	GetForUpdate(ctx context.Context, companyID, id string) (*entity.Sale, error)
	UpdateStatus(ctx context.Context, sale *entity.Sale, expectedStatus string) error
	SetReceiptURL(ctx context.Context, companyID, id, url string) error
}
