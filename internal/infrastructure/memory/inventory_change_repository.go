package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/tenis-ops/internal/domain/entity"
	"github.com/jhoicas/tenis-ops/internal/domain/repository"
)

var _ repository.InventoryChangeRepository = (*InventoryChangeRepo)(nil)

// InventoryChangeRepo log append-only en memoria.
type InventoryChangeRepo struct {
	s    *Store
	inTx bool
}

func (r *InventoryChangeRepo) Create(_ context.Context, entry *entity.InventoryChangeEntry) error {
	return r.s.view(r.inTx, func(st *state) error {
		st.changes = append(st.changes, *entry)
		return nil
	})
}

func (r *InventoryChangeRepo) ListByReference(_ context.Context, companyID, referenceID string) ([]*entity.InventoryChangeEntry, error) {
	return r.list(func(e entity.InventoryChangeEntry) bool {
		return e.CompanyID == companyID && e.ReferenceID == referenceID
	}, 0, 0)
}

func (r *InventoryChangeRepo) ListByLocation(_ context.Context, companyID, locationID string, limit, offset int) ([]*entity.InventoryChangeEntry, error) {
	return r.list(func(e entity.InventoryChangeEntry) bool {
		return e.CompanyID == companyID && e.LocationID == locationID
	}, limit, offset)
}

func (r *InventoryChangeRepo) list(match func(entity.InventoryChangeEntry) bool, limit, offset int) ([]*entity.InventoryChangeEntry, error) {
	var out []*entity.InventoryChangeEntry
	err := r.s.view(r.inTx, func(st *state) error {
		for _, e := range st.changes {
			if match(e) {
				c := e
				out = append(out, &c)
			}
		}
		return nil
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return paginate(out, limit, offset), err
}
