package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/tenis-ops/internal/domain"
	"github.com/jhoicas/tenis-ops/internal/domain/entity"
	"github.com/jhoicas/tenis-ops/internal/domain/repository"
)

var (
	_ repository.LocationRepository = (*LocationRepo)(nil)
	_ repository.UserRepository     = (*UserRepo)(nil)
	_ repository.ProductRepository  = (*ProductRepo)(nil)
)

// LocationRepo ubicaciones en memoria.
type LocationRepo struct {
	s    *Store
	inTx bool
}

func (r *LocationRepo) Create(_ context.Context, l *entity.Location) error {
	return r.s.view(r.inTx, func(st *state) error {
		if _, ok := st.locations[l.ID]; ok {
			return domain.ErrDuplicate
		}
		st.locations[l.ID] = *l
		return nil
	})
}

func (r *LocationRepo) GetByID(_ context.Context, companyID, id string) (*entity.Location, error) {
	var out *entity.Location
	err := r.s.view(r.inTx, func(st *state) error {
		if l, ok := st.locations[id]; ok && l.CompanyID == companyID {
			out = &l
		}
		return nil
	})
	return out, err
}

func (r *LocationRepo) ListByCompany(_ context.Context, companyID string) ([]*entity.Location, error) {
	var out []*entity.Location
	err := r.s.view(r.inTx, func(st *state) error {
		for _, l := range st.locations {
			if l.CompanyID == companyID {
				c := l
				out = append(out, &c)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, err
}

// UserRepo directorio de usuarios en memoria.
type UserRepo struct {
	s    *Store
	inTx bool
}

func (r *UserRepo) Create(_ context.Context, u *entity.User) error {
	return r.s.view(r.inTx, func(st *state) error {
		if _, ok := st.users[u.ID]; ok {
			return domain.ErrDuplicate
		}
		st.users[u.ID] = *u
		return nil
	})
}

func (r *UserRepo) GetByID(_ context.Context, companyID, id string) (*entity.User, error) {
	var out *entity.User
	err := r.s.view(r.inTx, func(st *state) error {
		if u, ok := st.users[id]; ok && u.CompanyID == companyID {
			out = &u
		}
		return nil
	})
	return out, err
}

func (r *UserRepo) ListByCompany(_ context.Context, companyID string, limit, offset int) ([]*entity.User, error) {
	var out []*entity.User
	err := r.s.view(r.inTx, func(st *state) error {
		for _, u := range st.users {
			if u.CompanyID == companyID {
				c := u
				out = append(out, &c)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return paginate(out, limit, offset), err
}

func (r *UserRepo) AssignLocation(_ context.Context, companyID, userID, locationID string) error {
	return r.s.view(r.inTx, func(st *state) error {
		u, ok := st.users[userID]
		l, okLoc := st.locations[locationID]
		if !ok || !okLoc || u.CompanyID != companyID || l.CompanyID != companyID {
			return domain.ErrNotFound
		}
		for _, id := range st.userLocations[userID] {
			if id == locationID {
				return nil
			}
		}
		st.userLocations[userID] = append(st.userLocations[userID], locationID)
		return nil
	})
}

func (r *UserRepo) ManagedLocationIDs(_ context.Context, companyID, userID string) ([]string, error) {
	var out []string
	err := r.s.view(r.inTx, func(st *state) error {
		if u, ok := st.users[userID]; !ok || u.CompanyID != companyID {
			return nil
		}
		out = append(out, st.userLocations[userID]...)
		return nil
	})
	return out, err
}

// ProductRepo catálogo en memoria, indexado por empresa y referencia.
type ProductRepo struct {
	s    *Store
	inTx bool
}

func productKey(companyID, reference string) string { return companyID + "|" + reference }

func (r *ProductRepo) Create(_ context.Context, p *entity.Product) error {
	return r.s.view(r.inTx, func(st *state) error {
		k := productKey(p.CompanyID, p.Reference)
		if _, ok := st.products[k]; ok {
			return domain.ErrDuplicate
		}
		st.products[k] = *p
		return nil
	})
}

func (r *ProductRepo) GetByReference(_ context.Context, companyID, reference string) (*entity.Product, error) {
	var out *entity.Product
	err := r.s.view(r.inTx, func(st *state) error {
		if p, ok := st.products[productKey(companyID, reference)]; ok {
			out = &p
		}
		return nil
	})
	return out, err
}
