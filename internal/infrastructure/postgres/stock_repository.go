package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/tenis-ops/internal/domain/entity"
	"github.com/jhoicas/tenis-ops/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación del puerto StockRepository sobre PostgreSQL (usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

const stockColumns = `id, company_id, product_reference, brand, model, size, location_id, inventory_type,
	quantity, quantity_exhibition, created_at, updated_at`

const stockKeyFilter = `company_id = $1 AND product_reference = $2 AND size = $3 AND location_id = $4 AND inventory_type = $5`

func keyArgs(k entity.StockKey) []any {
	return []any{k.CompanyID, k.ProductReference, k.Size, k.LocationID, k.InventoryType}
}

func scanStock(row pgx.Row) (*entity.StockRecord, error) {
	var s entity.StockRecord
	err := row.Scan(&s.ID, &s.CompanyID, &s.ProductReference, &s.Brand, &s.Model, &s.Size, &s.LocationID,
		&s.InventoryType, &s.Quantity, &s.QuantityExhibition, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Get devuelve el registro o uno en cero si aún no existe.
func (r *StockRepo) Get(ctx context.Context, key entity.StockKey) (*entity.StockRecord, error) {
	s, err := scanStock(r.q.QueryRow(ctx, `SELECT `+stockColumns+` FROM stock_records WHERE `+stockKeyFilter, keyArgs(key)...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.StockRecord{
				CompanyID:        key.CompanyID,
				ProductReference: key.ProductReference,
				Size:             key.Size,
				LocationID:       key.LocationID,
				InventoryType:    key.InventoryType,
			}, nil
		}
		return nil, fmt.Errorf("get stock: %w", err)
	}
	return s, nil
}

// GetForUpdate inserta la fila en cero si falta (ON CONFLICT DO NOTHING) y la bloquea con FOR UPDATE.
func (r *StockRepo) GetForUpdate(ctx context.Context, key entity.StockKey) (*entity.StockRecord, error) {
	now := time.Now()
	_, err := r.q.Exec(ctx, `
		INSERT INTO stock_records (id, company_id, product_reference, size, location_id, inventory_type, quantity, quantity_exhibition, created_at, updated_at)
		VALUES ($6, $1, $2, $3, $4, $5, 0, 0, $7, $7)
		ON CONFLICT (company_id, product_reference, size, location_id, inventory_type) DO NOTHING`,
		append(keyArgs(key), uuid.New().String(), now)...,
	)
	if err != nil {
		return nil, fmt.Errorf("ensure stock row: %w", err)
	}
	s, err := scanStock(r.q.QueryRow(ctx, `SELECT `+stockColumns+` FROM stock_records WHERE `+stockKeyFilter+` FOR UPDATE`, keyArgs(key)...))
	if err != nil {
		return nil, fmt.Errorf("lock stock: %w", err)
	}
	return s, nil
}

// Upsert inserta o actualiza cantidades, marca y modelo del registro.
func (r *StockRepo) Upsert(ctx context.Context, stock *entity.StockRecord) error {
	if stock.ID == "" {
		stock.ID = uuid.New().String()
	}
	now := time.Now()
	if stock.CreatedAt.IsZero() {
		stock.CreatedAt = now
	}
	stock.UpdatedAt = now
	query := `
		INSERT INTO stock_records (id, company_id, product_reference, brand, model, size, location_id, inventory_type,
			quantity, quantity_exhibition, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (company_id, product_reference, size, location_id, inventory_type)
		DO UPDATE SET brand = EXCLUDED.brand, model = EXCLUDED.model, quantity = EXCLUDED.quantity,
			quantity_exhibition = EXCLUDED.quantity_exhibition, updated_at = EXCLUDED.updated_at`
	_, err := r.q.Exec(ctx, query,
		stock.ID, stock.CompanyID, stock.ProductReference, stock.Brand, stock.Model, stock.Size, stock.LocationID,
		stock.InventoryType, stock.Quantity, stock.QuantityExhibition, stock.CreatedAt, stock.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert stock: %w", err)
	}
	return nil
}

// ListByReference registros de una referencia y talla en todas las ubicaciones.
func (r *StockRepo) ListByReference(ctx context.Context, companyID, reference, size string) ([]*entity.StockRecord, error) {
	return r.list(ctx, `SELECT `+stockColumns+` FROM stock_records
		WHERE company_id = $1 AND product_reference = $2 AND size = $3
		ORDER BY location_id, inventory_type`, companyID, reference, size)
}

// ListByLocation registros de una ubicación.
func (r *StockRepo) ListByLocation(ctx context.Context, companyID, locationID string) ([]*entity.StockRecord, error) {
	return r.list(ctx, `SELECT `+stockColumns+` FROM stock_records
		WHERE company_id = $1 AND location_id = $2
		ORDER BY product_reference, size, inventory_type`, companyID, locationID)
}

func (r *StockRepo) list(ctx context.Context, query string, args ...any) ([]*entity.StockRecord, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockRecord
	for rows.Next() {
		s, err := scanStock(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}
