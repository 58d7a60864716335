package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/tenis-ops/internal/domain"
	"github.com/jhoicas/tenis-ops/internal/domain/entity"
	"github.com/jhoicas/tenis-ops/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo implementación del puerto SaleRepository sobre PostgreSQL (cabecera, ítems y pagos).
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

const saleColumns = `id, company_id, seller_id, location_id, total_amount, status, requires_confirmation, notes,
	confirmation_notes, receipt_url, sale_date, confirmed_at, confirmed_by, created_at, updated_at`

// Create inserta la venta y en bloque sus ítems y pagos. Debe llamarse dentro de una tx.
func (r *SaleRepo) Create(ctx context.Context, sale *entity.Sale) error {
	query := `INSERT INTO sales (` + saleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(ctx, query,
		sale.ID, sale.CompanyID, sale.SellerID, sale.LocationID, sale.TotalAmount, sale.Status, sale.RequiresConfirmation,
		sale.Notes, sale.ConfirmationNotes, sale.ReceiptURL, sale.SaleDate, sale.ConfirmedAt, nullable(sale.ConfirmedBy),
		sale.CreatedAt, sale.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert sale: %w", err)
	}

	for i := range sale.Items {
		it := &sale.Items[i]
		if it.ID == "" {
			it.ID = uuid.New().String()
		}
		it.SaleID = sale.ID
		_, err := r.q.Exec(ctx, `
			INSERT INTO sale_items (id, sale_id, product_reference, brand, model, size, inventory_type, quantity, unit_price, subtotal)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			it.ID, it.SaleID, it.ProductReference, it.Brand, it.Model, it.Size, it.InventoryType, it.Quantity, it.UnitPrice, it.Subtotal,
		)
		if err != nil {
			return fmt.Errorf("insert sale item: %w", err)
		}
	}
	for i := range sale.Payments {
		p := &sale.Payments[i]
		if p.ID == "" {
			p.ID = uuid.New().String()
		}
		p.SaleID = sale.ID
		_, err := r.q.Exec(ctx, `
			INSERT INTO sale_payments (id, sale_id, payment_method, amount, reference)
			VALUES ($1, $2, $3, $4, $5)`,
			p.ID, p.SaleID, p.PaymentMethod, p.Amount, p.Reference,
		)
		if err != nil {
			return fmt.Errorf("insert sale payment: %w", err)
		}
	}
	return nil
}

// GetByID obtiene la venta con ítems y pagos; nil si no existe o es de otra empresa.
func (r *SaleRepo) GetByID(ctx context.Context, companyID, id string) (*entity.Sale, error) {
	return r.get(ctx, `SELECT `+saleColumns+` FROM sales WHERE company_id = $1 AND id = $2`, companyID, id)
}

// GetForUpdate igual que GetByID con bloqueo de la cabecera.
func (r *SaleRepo) GetForUpdate(ctx context.Context, companyID, id string) (*entity.Sale, error) {
	return r.get(ctx, `SELECT `+saleColumns+` FROM sales WHERE company_id = $1 AND id = $2 FOR UPDATE`, companyID, id)
}

func (r *SaleRepo) get(ctx context.Context, query string, args ...any) (*entity.Sale, error) {
	var s entity.Sale
	var confirmedBy *string
	err := r.q.QueryRow(ctx, query, args...).Scan(
		&s.ID, &s.CompanyID, &s.SellerID, &s.LocationID, &s.TotalAmount, &s.Status, &s.RequiresConfirmation, &s.Notes,
		&s.ConfirmationNotes, &s.ReceiptURL, &s.SaleDate, &s.ConfirmedAt, &confirmedBy, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	s.ConfirmedBy = deref(confirmedBy)
	if s.Items, err = r.items(ctx, s.ID); err != nil {
		return nil, err
	}
	if s.Payments, err = r.payments(ctx, s.ID); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SaleRepo) items(ctx context.Context, saleID string) ([]entity.SaleItem, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, sale_id, product_reference, brand, model, size, inventory_type, quantity, unit_price, subtotal
		FROM sale_items WHERE sale_id = $1 ORDER BY product_reference, size`, saleID)
	if err != nil {
		return nil, fmt.Errorf("list sale items: %w", err)
	}
	defer rows.Close()
	var list []entity.SaleItem
	for rows.Next() {
		var it entity.SaleItem
		if err := rows.Scan(&it.ID, &it.SaleID, &it.ProductReference, &it.Brand, &it.Model, &it.Size,
			&it.InventoryType, &it.Quantity, &it.UnitPrice, &it.Subtotal); err != nil {
			return nil, fmt.Errorf("scan sale item: %w", err)
		}
		list = append(list, it)
	}
	return list, rows.Err()
}

func (r *SaleRepo) payments(ctx context.Context, saleID string) ([]entity.SalePayment, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, sale_id, payment_method, amount, reference FROM sale_payments WHERE sale_id = $1`, saleID)
	if err != nil {
		return nil, fmt.Errorf("list sale payments: %w", err)
	}
	defer rows.Close()
	var list []entity.SalePayment
	for rows.Next() {
		var p entity.SalePayment
		if err := rows.Scan(&p.ID, &p.SaleID, &p.PaymentMethod, &p.Amount, &p.Reference); err != nil {
			return nil, fmt.Errorf("scan sale payment: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// UpdateStatus cambia estado y datos de confirmación si el estado sigue siendo expectedStatus.
func (r *SaleRepo) UpdateStatus(ctx context.Context, sale *entity.Sale, expectedStatus string) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE sales SET status = $3, confirmed_at = $4, confirmed_by = $5, confirmation_notes = $6, updated_at = $7
		WHERE company_id = $1 AND id = $2 AND status = $8`,
		sale.CompanyID, sale.ID, sale.Status, sale.ConfirmedAt, nullable(sale.ConfirmedBy), sale.ConfirmationNotes,
		sale.UpdatedAt, expectedStatus,
	)
	if err != nil {
		return fmt.Errorf("update sale status: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.NewConflictError("sale", "el estado cambió")
	}
	return nil
}

// SetReceiptURL guarda la URL del comprobante.
func (r *SaleRepo) SetReceiptURL(ctx context.Context, companyID, id, url string) error {
	cmd, err := r.q.Exec(ctx, `UPDATE sales SET receipt_url = $3, updated_at = now() WHERE company_id = $1 AND id = $2`,
		companyID, id, url)
	if err != nil {
		return fmt.Errorf("set receipt url: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
