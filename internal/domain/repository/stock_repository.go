package repository

import (
	"context"

	"github.com/jhoicas/tenis-ops/internal/domain/entity"
)

// StockRepository define el puerto para consultar/actualizar StockRecords.
// Las mutaciones solo se hacen dentro de transacciones, a través del Ledger.
type StockRepository interface {
	// Get devuelve el registro o uno en cero (sin ID) si aún no existe.
	Get(ctx context.Context, key entity.StockKey) (*entity.StockRecord, error)
	// GetForUpdate crea el registro en cero si no existe y bloquea la fila (SELECT FOR UPDATE)
	// hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, key entity.StockKey) (*entity.StockRecord, error)
	Upsert(ctx context.Context, stock *entity.StockRecord) error
	ListByReference(ctx context.Context, companyID, reference, size string) ([]*entity.StockRecord, error)
	ListByLocation(ctx context.Context, companyID, locationID string) ([]*entity.StockRecord, error)
}
