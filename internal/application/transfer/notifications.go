package transfer

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/tenis-ops/internal/domain/entity"
	"github.com/jhoicas/tenis-ops/internal/domain/repository"
)

func returnNotice(t *entity.TransferRequest, restocked bool, now time.Time) *entity.ReturnNotification {
	msg := fmt.Sprintf("La bodega recibió tu devolución de %d unidad(es) de %s talla %s en estado %s.",
		t.ReceivedQuantity, t.ProductReference, t.Size, t.ReturnCondition)
	if restocked {
		msg += " El producto volvió al inventario."
	} else {
		msg += " El producto no se reingresó al inventario."
	}
	return &entity.ReturnNotification{
		ID:                 uuid.New().String(),
		CompanyID:          t.CompanyID,
		ReturnID:           t.ID,
		OriginalTransferID: t.OriginalTransferID,
		RequesterID:        t.RequesterID,
		ProductReference:   t.ProductReference,
		Size:               t.Size,
		Quantity:           t.ReceivedQuantity,
		Condition:          t.ReturnCondition,
		Restocked:          restocked,
		Message:            msg,
		CreatedAt:          now,
	}
}

// Notifications avisos de devolución del solicitante.
func (m *Machine) Notifications(ctx context.Context, actor entity.Actor, unreadOnly bool) ([]*entity.ReturnNotification, error) {
	var out []*entity.ReturnNotification
	err := m.txRunner.Run(ctx, func(repos repository.Repos) error {
		var err error
		out, err = repos.Notifications.ListByRequester(ctx, actor.CompanyID, actor.UserID, unreadOnly)
		return err
	})
	return out, err
}

// MarkNotificationRead marca un aviso propio como leído.
func (m *Machine) MarkNotificationRead(ctx context.Context, actor entity.Actor, id string) error {
	return m.txRunner.Run(ctx, func(repos repository.Repos) error {
		return repos.Notifications.MarkRead(ctx, actor.CompanyID, id, actor.UserID)
	})
}
