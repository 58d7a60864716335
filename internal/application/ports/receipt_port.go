package ports

import (
	"context"

	"github.com/jhoicas/tenis-ops/internal/domain/entity"
)

// ReceiptRenderer genera la representación PDF de una venta.
type ReceiptRenderer interface {
	RenderSaleReceipt(ctx context.Context, sale *entity.Sale, location *entity.Location) ([]byte, error)
}

// ReceiptStore almacén de objetos para comprobantes (imagen adjunta y PDF).
// Devuelve la URL pública u objeto almacenado.
type ReceiptStore interface {
	Put(ctx context.Context, objectName, contentType string, data []byte) (string, error)
}
