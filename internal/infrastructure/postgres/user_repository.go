package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/tenis-ops/internal/domain"
	"github.com/jhoicas/tenis-ops/internal/domain/entity"
	"github.com/jhoicas/tenis-ops/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo implementación del puerto UserRepository sobre PostgreSQL.
type UserRepo struct {
	q Querier
}

// NewUserRepository construye el adaptador de persistencia para usuarios.
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

const userColumns = `id, company_id, email, name, role, location_id, is_active, created_at, updated_at`

// Create persiste un nuevo usuario.
func (r *UserRepo) Create(ctx context.Context, user *entity.User) error {
	query := `INSERT INTO users (` + userColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		user.ID, user.CompanyID, user.Email, user.Name, user.Role, nullable(user.LocationID), user.IsActive,
		user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetByID obtiene un usuario de la empresa.
func (r *UserRepo) GetByID(ctx context.Context, companyID, id string) (*entity.User, error) {
	u, err := scanUser(r.q.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE company_id = $1 AND id = $2`, companyID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// ListByCompany lista usuarios de la empresa con paginación.
func (r *UserRepo) ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.User, error) {
	rows, err := r.q.Query(ctx, `SELECT `+userColumns+` FROM users WHERE company_id = $1 ORDER BY name LIMIT $2 OFFSET $3`,
		companyID, limitArg(limit), offset)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()
	var list []*entity.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		list = append(list, u)
	}
	return list, rows.Err()
}

// AssignLocation registra que el usuario administra la ubicación. Idempotente.
func (r *UserRepo) AssignLocation(ctx context.Context, companyID, userID, locationID string) error {
	cmd, err := r.q.Exec(ctx, `
		INSERT INTO user_locations (company_id, user_id, location_id)
		SELECT $1, u.id, l.id FROM users u, locations l
		WHERE u.id = $2 AND u.company_id = $1 AND l.id = $3 AND l.company_id = $1
		ON CONFLICT (user_id, location_id) DO NOTHING`, companyID, userID, locationID)
	if err != nil {
		return fmt.Errorf("assign location: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		// sin fila insertada: ya estaba asignada o usuario/ubicación no existen en la empresa
		var exists bool
		if err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM user_locations WHERE company_id = $1 AND user_id = $2 AND location_id = $3)`,
			companyID, userID, locationID).Scan(&exists); err != nil {
			return fmt.Errorf("check user location: %w", err)
		}
		if !exists {
			return domain.ErrNotFound
		}
	}
	return nil
}

// ManagedLocationIDs ubicaciones que administra el usuario.
func (r *UserRepo) ManagedLocationIDs(ctx context.Context, companyID, userID string) ([]string, error) {
	rows, err := r.q.Query(ctx, `SELECT location_id FROM user_locations WHERE company_id = $1 AND user_id = $2 ORDER BY location_id`,
		companyID, userID)
	if err != nil {
		return nil, fmt.Errorf("list user locations: %w", err)
	}
	defer rows.Close()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan user location: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func scanUser(row pgx.Row) (*entity.User, error) {
	var u entity.User
	var locationID *string
	if err := row.Scan(&u.ID, &u.CompanyID, &u.Email, &u.Name, &u.Role, &locationID, &u.IsActive, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	u.LocationID = deref(locationID)
	return &u, nil
}
