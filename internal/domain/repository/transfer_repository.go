package repository

import (
	"context"

	"github.com/jhoicas/tenis-ops/internal/domain/entity"
)

// TransferRepository puerto de persistencia para TransferRequest.
// Todas las consultas filtran por company_id; un registro de otra empresa se reporta como inexistente (nil, nil).
type TransferRepository interface {
	Create(ctx context.Context, t *entity.TransferRequest) error
	GetByID(ctx context.Context, companyID, id string) (*entity.TransferRequest, error)
	// GetForUpdate bloquea la fila de la transferencia hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, companyID, id string) (*entity.TransferRequest, error)
	// Update persiste t solo si el estado almacenado sigue siendo expectedStatus; si no, ConflictError.
	Update(ctx context.Context, t *entity.TransferRequest, expectedStatus string) error
	// ClaimCourier asigna t.CourierID solo si la fila está en accepted y sin corredor; si no, ConflictError.
	ClaimCourier(ctx context.Context, t *entity.TransferRequest) error
	ListAvailableForCourier(ctx context.Context, companyID, courierID string) ([]*entity.TransferRequest, error)
	ListForLocations(ctx context.Context, companyID string, locationIDs, statuses []string) ([]*entity.TransferRequest, error)
	ListByRequester(ctx context.Context, companyID, requesterID string, limit, offset int) ([]*entity.TransferRequest, error)
	// CountByRequester cantidad de solicitudes del usuario por estado, sin paginar.
	CountByRequester(ctx context.Context, companyID, requesterID string) (map[string]int, error)
	ListByCourier(ctx context.Context, companyID, courierID string, limit, offset int) ([]*entity.TransferRequest, error)
	// SumReturnedQuantity cantidad ya devuelta (devoluciones no rechazadas ni canceladas) de una transferencia.
	SumReturnedQuantity(ctx context.Context, companyID, originalTransferID string) (int, error)
}
