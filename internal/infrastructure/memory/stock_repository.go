package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/tenis-ops/internal/domain/entity"
	"github.com/jhoicas/tenis-ops/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo StockRepository en memoria. Devuelve copias: los cambios solo se ven tras Upsert.
type StockRepo struct {
	s    *Store
	inTx bool
}

func zeroRecord(key entity.StockKey) *entity.StockRecord {
	return &entity.StockRecord{
		CompanyID:        key.CompanyID,
		ProductReference: key.ProductReference,
		Size:             key.Size,
		LocationID:       key.LocationID,
		InventoryType:    key.InventoryType,
	}
}

func (r *StockRepo) Get(_ context.Context, key entity.StockKey) (*entity.StockRecord, error) {
	var out *entity.StockRecord
	err := r.s.view(r.inTx, func(st *state) error {
		if rec, ok := st.stock[key]; ok {
			out = &rec
			return nil
		}
		out = zeroRecord(key)
		return nil
	})
	return out, err
}

// GetForUpdate crea el registro en cero si falta. El bloqueo lo da el mutex de la transacción.
func (r *StockRepo) GetForUpdate(_ context.Context, key entity.StockKey) (*entity.StockRecord, error) {
	var out *entity.StockRecord
	err := r.s.view(r.inTx, func(st *state) error {
		rec, ok := st.stock[key]
		if !ok {
			now := time.Now()
			rec = *zeroRecord(key)
			rec.ID = uuid.New().String()
			rec.CreatedAt = now
			rec.UpdatedAt = now
			st.stock[key] = rec
		}
		out = &rec
		return nil
	})
	return out, err
}

func (r *StockRepo) Upsert(_ context.Context, stock *entity.StockRecord) error {
	return r.s.view(r.inTx, func(st *state) error {
		rec := *stock
		if rec.ID == "" {
			rec.ID = uuid.New().String()
		}
		if rec.CreatedAt.IsZero() {
			rec.CreatedAt = time.Now()
		}
		st.stock[stock.Key()] = rec
		return nil
	})
}

func (r *StockRepo) ListByReference(_ context.Context, companyID, reference, size string) ([]*entity.StockRecord, error) {
	return r.list(func(rec entity.StockRecord) bool {
		return rec.CompanyID == companyID && rec.ProductReference == reference && rec.Size == size
	})
}

func (r *StockRepo) ListByLocation(_ context.Context, companyID, locationID string) ([]*entity.StockRecord, error) {
	return r.list(func(rec entity.StockRecord) bool {
		return rec.CompanyID == companyID && rec.LocationID == locationID
	})
}

func (r *StockRepo) list(match func(entity.StockRecord) bool) ([]*entity.StockRecord, error) {
	var out []*entity.StockRecord
	err := r.s.view(r.inTx, func(st *state) error {
		for _, rec := range st.stock {
			if match(rec) {
				c := rec
				out = append(out, &c)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Key().Less(out[j].Key()) })
	return out, err
}
