package memory

import (
	"context"

	"github.com/jhoicas/tenis-ops/internal/domain"
	"github.com/jhoicas/tenis-ops/internal/domain/entity"
	"github.com/jhoicas/tenis-ops/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo SaleRepository en memoria.
type SaleRepo struct {
	s    *Store
	inTx bool
}

func copySale(s entity.Sale) entity.Sale {
	s.Items = append([]entity.SaleItem(nil), s.Items...)
	s.Payments = append([]entity.SalePayment(nil), s.Payments...)
	return s
}

func (r *SaleRepo) Create(_ context.Context, sale *entity.Sale) error {
	return r.s.view(r.inTx, func(st *state) error {
		if _, ok := st.sales[sale.ID]; ok {
			return domain.ErrDuplicate
		}
		st.sales[sale.ID] = copySale(*sale)
		return nil
	})
}

func (r *SaleRepo) GetByID(_ context.Context, companyID, id string) (*entity.Sale, error) {
	var out *entity.Sale
	err := r.s.view(r.inTx, func(st *state) error {
		if s, ok := st.sales[id]; ok && s.CompanyID == companyID {
			c := copySale(s)
			out = &c
		}
		return nil
	})
	return out, err
}

func (r *SaleRepo) GetForUpdate(ctx context.Context, companyID, id string) (*entity.Sale, error) {
	return r.GetByID(ctx, companyID, id)
}

func (r *SaleRepo) UpdateStatus(_ context.Context, sale *entity.Sale, expectedStatus string) error {
	return r.s.view(r.inTx, func(st *state) error {
		cur, ok := st.sales[sale.ID]
		if !ok || cur.CompanyID != sale.CompanyID {
			return domain.ErrNotFound
		}
		if cur.Status != expectedStatus {
			return domain.NewConflictError("sale", "el estado cambió a "+cur.Status)
		}
		cur.Status = sale.Status
		cur.ConfirmedAt = sale.ConfirmedAt
		cur.ConfirmedBy = sale.ConfirmedBy
		cur.ConfirmationNotes = sale.ConfirmationNotes
		cur.UpdatedAt = sale.UpdatedAt
		st.sales[sale.ID] = cur
		return nil
	})
}

func (r *SaleRepo) SetReceiptURL(_ context.Context, companyID, id, url string) error {
	return r.s.view(r.inTx, func(st *state) error {
		cur, ok := st.sales[id]
		if !ok || cur.CompanyID != companyID {
			return domain.ErrNotFound
		}
		cur.ReceiptURL = url
		st.sales[id] = cur
		return nil
	})
}
