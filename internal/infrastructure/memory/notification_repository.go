package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/tenis-ops/internal/domain"
	"github.com/jhoicas/tenis-ops/internal/domain/entity"
	"github.com/jhoicas/tenis-ops/internal/domain/repository"
)

var (
	_ repository.IncidentRepository     = (*IncidentRepo)(nil)
	_ repository.NotificationRepository = (*NotificationRepo)(nil)
)

// IncidentRepo novedades de transporte en memoria.
type IncidentRepo struct {
	s    *Store
	inTx bool
}

func (r *IncidentRepo) Create(_ context.Context, i *entity.TransportIncident) error {
	return r.s.view(r.inTx, func(st *state) error {
		st.incidents = append(st.incidents, *i)
		return nil
	})
}

func (r *IncidentRepo) ListByTransfer(_ context.Context, companyID, transferID string) ([]*entity.TransportIncident, error) {
	var out []*entity.TransportIncident
	err := r.s.view(r.inTx, func(st *state) error {
		for _, i := range st.incidents {
			if i.CompanyID == companyID && i.TransferID == transferID {
				c := i
				out = append(out, &c)
			}
		}
		return nil
	})
	return out, err
}

// NotificationRepo avisos de devolución en memoria.
type NotificationRepo struct {
	s    *Store
	inTx bool
}

func (r *NotificationRepo) Create(_ context.Context, n *entity.ReturnNotification) error {
	return r.s.view(r.inTx, func(st *state) error {
		st.notifications[n.ID] = *n
		return nil
	})
}

func (r *NotificationRepo) ListByRequester(_ context.Context, companyID, requesterID string, unreadOnly bool) ([]*entity.ReturnNotification, error) {
	var out []*entity.ReturnNotification
	err := r.s.view(r.inTx, func(st *state) error {
		for _, n := range st.notifications {
			if n.CompanyID != companyID || n.RequesterID != requesterID {
				continue
			}
			if unreadOnly && n.ReadByRequester {
				continue
			}
			c := n
			out = append(out, &c)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, err
}

func (r *NotificationRepo) MarkRead(_ context.Context, companyID, id, requesterID string) error {
	return r.s.view(r.inTx, func(st *state) error {
		n, ok := st.notifications[id]
		if !ok || n.CompanyID != companyID || n.RequesterID != requesterID {
			return domain.ErrNotFound
		}
		now := time.Now()
		n.ReadByRequester = true
		n.ReadAt = &now
		st.notifications[id] = n
		return nil
	})
}
