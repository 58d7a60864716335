package repository

import (
	"context"

	"github.com/jhoicas/tenis-ops/internal/domain/entity"
)

// NotificationRepository avisos de devoluciones recibidas.
type NotificationRepository interface {
	Create(ctx context.Context, n *entity.ReturnNotification) error
	ListByRequester(ctx context.Context, companyID, requesterID string, unreadOnly bool) ([]*entity.ReturnNotification, error)
	// MarkRead marca como leído; ErrNotFound si no pertenece al solicitante.
	MarkRead(ctx context.Context, companyID, id, requesterID string) error
}
