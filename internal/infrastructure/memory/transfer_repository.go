package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/tenis-ops/internal/domain"
	"github.com/jhoicas/tenis-ops/internal/domain/entity"
	"github.com/jhoicas/tenis-ops/internal/domain/repository"
)

var _ repository.TransferRepository = (*TransferRepo)(nil)

// TransferRepo TransferRepository en memoria.
type TransferRepo struct {
	s    *Store
	inTx bool
}

func (r *TransferRepo) Create(_ context.Context, t *entity.TransferRequest) error {
	return r.s.view(r.inTx, func(st *state) error {
		if _, ok := st.transfers[t.ID]; ok {
			return domain.ErrDuplicate
		}
		st.transfers[t.ID] = *t
		return nil
	})
}

func (r *TransferRepo) GetByID(_ context.Context, companyID, id string) (*entity.TransferRequest, error) {
	var out *entity.TransferRequest
	err := r.s.view(r.inTx, func(st *state) error {
		if t, ok := st.transfers[id]; ok && t.CompanyID == companyID {
			out = &t
		}
		return nil
	})
	return out, err
}

func (r *TransferRepo) GetForUpdate(ctx context.Context, companyID, id string) (*entity.TransferRequest, error) {
	return r.GetByID(ctx, companyID, id)
}

func (r *TransferRepo) Update(_ context.Context, t *entity.TransferRequest, expectedStatus string) error {
	return r.s.view(r.inTx, func(st *state) error {
		cur, ok := st.transfers[t.ID]
		if !ok || cur.CompanyID != t.CompanyID {
			return domain.ErrNotFound
		}
		if cur.Status != expectedStatus {
			return domain.NewConflictError("transfer_request", "el estado cambió a "+cur.Status)
		}
		st.transfers[t.ID] = *t
		return nil
	})
}

func (r *TransferRepo) ClaimCourier(_ context.Context, t *entity.TransferRequest) error {
	return r.s.view(r.inTx, func(st *state) error {
		cur, ok := st.transfers[t.ID]
		if !ok || cur.CompanyID != t.CompanyID {
			return domain.ErrNotFound
		}
		if cur.Status != entity.TransferStatusAccepted || cur.CourierID != "" {
			return domain.NewConflictError("transfer_request", "ya tiene corredor asignado")
		}
		st.transfers[t.ID] = *t
		return nil
	})
}

func (r *TransferRepo) ListAvailableForCourier(_ context.Context, companyID, courierID string) ([]*entity.TransferRequest, error) {
	list, err := r.list(func(t entity.TransferRequest) bool {
		if t.CompanyID != companyID {
			return false
		}
		open := t.Status == entity.TransferStatusAccepted && t.CourierID == "" && t.PickupType == entity.PickupTypeCorredor
		mine := t.CourierID == courierID && (t.Status == entity.TransferStatusCourierAssigned || t.Status == entity.TransferStatusInTransit)
		return open || mine
	})
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].Priority != list[j].Priority {
			return list[i].Priority == entity.PriorityHigh
		}
		return list[i].RequestedAt.Before(list[j].RequestedAt)
	})
	return list, err
}

func (r *TransferRepo) ListForLocations(_ context.Context, companyID string, locationIDs, statuses []string) ([]*entity.TransferRequest, error) {
	locs := toSet(locationIDs)
	sts := toSet(statuses)
	list, err := r.list(func(t entity.TransferRequest) bool {
		return t.CompanyID == companyID && sts[t.Status] && locs[t.AcceptingLocationID()]
	})
	sort.SliceStable(list, func(i, j int) bool { return list[i].RequestedAt.Before(list[j].RequestedAt) })
	return list, err
}

func (r *TransferRepo) ListByRequester(_ context.Context, companyID, requesterID string, limit, offset int) ([]*entity.TransferRequest, error) {
	list, err := r.list(func(t entity.TransferRequest) bool {
		return t.CompanyID == companyID && t.RequesterID == requesterID
	})
	sortNewestFirst(list)
	return paginate(list, limit, offset), err
}

func (r *TransferRepo) CountByRequester(_ context.Context, companyID, requesterID string) (map[string]int, error) {
	counts := map[string]int{}
	err := r.s.view(r.inTx, func(st *state) error {
		for _, t := range st.transfers {
			if t.CompanyID == companyID && t.RequesterID == requesterID {
				counts[t.Status]++
			}
		}
		return nil
	})
	return counts, err
}

func (r *TransferRepo) ListByCourier(_ context.Context, companyID, courierID string, limit, offset int) ([]*entity.TransferRequest, error) {
	list, err := r.list(func(t entity.TransferRequest) bool {
		return t.CompanyID == companyID && t.CourierID == courierID
	})
	sortNewestFirst(list)
	return paginate(list, limit, offset), err
}

func (r *TransferRepo) SumReturnedQuantity(_ context.Context, companyID, originalTransferID string) (int, error) {
	total := 0
	err := r.s.view(r.inTx, func(st *state) error {
		for _, t := range st.transfers {
			if t.CompanyID != companyID || t.OriginalTransferID != originalTransferID {
				continue
			}
			if t.Status == entity.TransferStatusRejected || t.Status == entity.TransferStatusCancelled {
				continue
			}
			total += t.Quantity
		}
		return nil
	})
	return total, err
}

func (r *TransferRepo) list(match func(entity.TransferRequest) bool) ([]*entity.TransferRequest, error) {
	var out []*entity.TransferRequest
	err := r.s.view(r.inTx, func(st *state) error {
		for _, t := range st.transfers {
			if match(t) {
				c := t
				out = append(out, &c)
			}
		}
		return nil
	})
	return out, err
}

func sortNewestFirst(list []*entity.TransferRequest) {
	sort.SliceStable(list, func(i, j int) bool { return list[i].RequestedAt.After(list[j].RequestedAt) })
}

func toSet(values []string) map[string]bool {
	m := make(map[string]bool, len(values))
	for _, v := range values {
		m[v] = true
	}
	return m
}
