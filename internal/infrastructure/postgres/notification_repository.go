package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/tenis-ops/internal/domain"
	"github.com/jhoicas/tenis-ops/internal/domain/entity"
	"github.com/jhoicas/tenis-ops/internal/domain/repository"
)

var _ repository.NotificationRepository = (*NotificationRepo)(nil)

// NotificationRepo avisos de devolución sobre PostgreSQL.
type NotificationRepo struct {
	q Querier
}

// NewNotificationRepository construye el adaptador.
func NewNotificationRepository(q Querier) *NotificationRepo {
	return &NotificationRepo{q: q}
}

const notificationColumns = `id, company_id, return_id, original_transfer_id, requester_id, product_reference, size,
	quantity, condition, restocked, message, read_by_requester, created_at, read_at`

func (r *NotificationRepo) Create(ctx context.Context, n *entity.ReturnNotification) error {
	_, err := r.q.Exec(ctx, `INSERT INTO return_notifications (`+notificationColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		n.ID, n.CompanyID, n.ReturnID, n.OriginalTransferID, n.RequesterID, n.ProductReference, n.Size,
		n.Quantity, n.Condition, n.Restocked, n.Message, n.ReadByRequester, n.CreatedAt, n.ReadAt,
	)
	if err != nil {
		return fmt.Errorf("insert return notification: %w", err)
	}
	return nil
}

func (r *NotificationRepo) ListByRequester(ctx context.Context, companyID, requesterID string, unreadOnly bool) ([]*entity.ReturnNotification, error) {
	rows, err := r.q.Query(ctx, `SELECT `+notificationColumns+` FROM return_notifications
		WHERE company_id = $1 AND requester_id = $2 AND (NOT $3 OR NOT read_by_requester)
		ORDER BY created_at DESC`, companyID, requesterID, unreadOnly)
	if err != nil {
		return nil, fmt.Errorf("list return notifications: %w", err)
	}
	defer rows.Close()
	var list []*entity.ReturnNotification
	for rows.Next() {
		var n entity.ReturnNotification
		if err := rows.Scan(&n.ID, &n.CompanyID, &n.ReturnID, &n.OriginalTransferID, &n.RequesterID, &n.ProductReference, &n.Size,
			&n.Quantity, &n.Condition, &n.Restocked, &n.Message, &n.ReadByRequester, &n.CreatedAt, &n.ReadAt); err != nil {
			return nil, fmt.Errorf("scan return notification: %w", err)
		}
		list = append(list, &n)
	}
	return list, rows.Err()
}

// MarkRead ErrNotFound si el aviso no es del solicitante.
func (r *NotificationRepo) MarkRead(ctx context.Context, companyID, id, requesterID string) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE return_notifications SET read_by_requester = TRUE, read_at = COALESCE(read_at, now())
		WHERE company_id = $1 AND id = $2 AND requester_id = $3`, companyID, id, requesterID)
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
