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

var _ repository.TransferRepository = (*TransferRepo)(nil)

// TransferRepo implementación del puerto TransferRepository sobre PostgreSQL.
// Los cambios de estado son UPDATE condicionales (WHERE status = esperado): si otra transacción
// avanzó la fila primero, no se afecta ninguna y se reporta ConflictError.
type TransferRepo struct {
	q Querier
}

// NewTransferRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTransferRepository(q Querier) *TransferRepo {
	return &TransferRepo{q: q}
}

const transferColumns = `id, company_id, source_location_id, destination_location_id, product_reference, brand, model,
	size, quantity, inventory_type, purpose, pickup_type, priority, status,
	requester_id, warehouse_keeper_id, courier_id,
	original_transfer_id, return_reason, return_condition, received_quantity, reception_condition_ok,
	estimated_minutes, reservation_expires_at,
	request_notes, keeper_notes, rejection_reason, courier_notes, delivery_notes, reception_notes, cancel_reason,
	requested_at, accepted_at, rejected_at, cancelled_at, courier_accepted_at, estimated_pickup_at,
	picked_up_at, courier_pickup_confirmed_at, delivered_at, received_at, updated_at`

func transferValues(t *entity.TransferRequest) []any {
	return []any{
		t.ID, t.CompanyID, t.SourceLocationID, t.DestinationLocationID, t.ProductReference, t.Brand, t.Model,
		t.Size, t.Quantity, t.InventoryType, t.Purpose, t.PickupType, t.Priority, t.Status,
		t.RequesterID, nullable(t.WarehouseKeeperID), nullable(t.CourierID),
		nullable(t.OriginalTransferID), t.ReturnReason, t.ReturnCondition, t.ReceivedQuantity, t.ReceptionConditionOK,
		t.EstimatedMinutes, t.ReservationExpiresAt,
		t.RequestNotes, t.KeeperNotes, t.RejectionReason, t.CourierNotes, t.DeliveryNotes, t.ReceptionNotes, t.CancelReason,
		t.RequestedAt, t.AcceptedAt, t.RejectedAt, t.CancelledAt, t.CourierAcceptedAt, t.EstimatedPickupAt,
		t.PickedUpAt, t.CourierPickupConfirmedAt, t.DeliveredAt, t.ReceivedAt, t.UpdatedAt,
	}
}

func scanTransfer(row pgx.Row) (*entity.TransferRequest, error) {
	var t entity.TransferRequest
	var keeper, courier, original *string
	err := row.Scan(
		&t.ID, &t.CompanyID, &t.SourceLocationID, &t.DestinationLocationID, &t.ProductReference, &t.Brand, &t.Model,
		&t.Size, &t.Quantity, &t.InventoryType, &t.Purpose, &t.PickupType, &t.Priority, &t.Status,
		&t.RequesterID, &keeper, &courier,
		&original, &t.ReturnReason, &t.ReturnCondition, &t.ReceivedQuantity, &t.ReceptionConditionOK,
		&t.EstimatedMinutes, &t.ReservationExpiresAt,
		&t.RequestNotes, &t.KeeperNotes, &t.RejectionReason, &t.CourierNotes, &t.DeliveryNotes, &t.ReceptionNotes, &t.CancelReason,
		&t.RequestedAt, &t.AcceptedAt, &t.RejectedAt, &t.CancelledAt, &t.CourierAcceptedAt, &t.EstimatedPickupAt,
		&t.PickedUpAt, &t.CourierPickupConfirmedAt, &t.DeliveredAt, &t.ReceivedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	t.WarehouseKeeperID = deref(keeper)
	t.CourierID = deref(courier)
	t.OriginalTransferID = deref(original)
	return &t, nil
}

// Create persiste una nueva solicitud.
func (r *TransferRepo) Create(ctx context.Context, t *entity.TransferRequest) error {
	query := `INSERT INTO transfer_requests (` + transferColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21,
			$22, $23, $24, $25, $26, $27, $28, $29, $30, $31, $32, $33, $34, $35, $36, $37, $38, $39, $40, $41, $42)`
	if _, err := r.q.Exec(ctx, query, transferValues(t)...); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert transfer: %w", err)
	}
	return nil
}

// GetByID obtiene una solicitud de la empresa; nil si no existe o es de otra empresa.
func (r *TransferRepo) GetByID(ctx context.Context, companyID, id string) (*entity.TransferRequest, error) {
	return r.get(ctx, `SELECT `+transferColumns+` FROM transfer_requests WHERE company_id = $1 AND id = $2`, companyID, id)
}

// GetForUpdate igual que GetByID pero bloquea la fila hasta el fin de la transacción.
func (r *TransferRepo) GetForUpdate(ctx context.Context, companyID, id string) (*entity.TransferRequest, error) {
	return r.get(ctx, `SELECT `+transferColumns+` FROM transfer_requests WHERE company_id = $1 AND id = $2 FOR UPDATE`, companyID, id)
}

func (r *TransferRepo) get(ctx context.Context, query string, args ...any) (*entity.TransferRequest, error) {
	t, err := scanTransfer(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get transfer: %w", err)
	}
	return t, nil
}

const transferUpdateSet = `
		status = $3, warehouse_keeper_id = $4, courier_id = $5, return_condition = $6, received_quantity = $7,
		reception_condition_ok = $8, estimated_minutes = $9, keeper_notes = $10, rejection_reason = $11,
		courier_notes = $12, delivery_notes = $13, reception_notes = $14, cancel_reason = $15,
		accepted_at = $16, rejected_at = $17, cancelled_at = $18, courier_accepted_at = $19, estimated_pickup_at = $20,
		picked_up_at = $21, courier_pickup_confirmed_at = $22, delivered_at = $23, received_at = $24, updated_at = $25`

func updateArgs(t *entity.TransferRequest) []any {
	return []any{
		t.CompanyID, t.ID,
		t.Status, nullable(t.WarehouseKeeperID), nullable(t.CourierID), t.ReturnCondition, t.ReceivedQuantity,
		t.ReceptionConditionOK, t.EstimatedMinutes, t.KeeperNotes, t.RejectionReason,
		t.CourierNotes, t.DeliveryNotes, t.ReceptionNotes, t.CancelReason,
		t.AcceptedAt, t.RejectedAt, t.CancelledAt, t.CourierAcceptedAt, t.EstimatedPickupAt,
		t.PickedUpAt, t.CourierPickupConfirmedAt, t.DeliveredAt, t.ReceivedAt, t.UpdatedAt,
	}
}

// Update persiste t solo si el estado almacenado sigue siendo expectedStatus.
func (r *TransferRepo) Update(ctx context.Context, t *entity.TransferRequest, expectedStatus string) error {
	query := `UPDATE transfer_requests SET` + transferUpdateSet + `
		WHERE company_id = $1 AND id = $2 AND status = $26`
	cmd, err := r.q.Exec(ctx, query, append(updateArgs(t), expectedStatus)...)
	if err != nil {
		return fmt.Errorf("update transfer: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return r.missOrConflict(ctx, t, "el estado cambió")
	}
	return nil
}

// ClaimCourier asigna el corredor solo si la fila sigue en accepted y sin corredor.
func (r *TransferRepo) ClaimCourier(ctx context.Context, t *entity.TransferRequest) error {
	query := `UPDATE transfer_requests SET` + transferUpdateSet + `
		WHERE company_id = $1 AND id = $2 AND status = 'accepted' AND courier_id IS NULL`
	cmd, err := r.q.Exec(ctx, query, updateArgs(t)...)
	if err != nil {
		return fmt.Errorf("claim courier: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return r.missOrConflict(ctx, t, "ya tiene corredor asignado")
	}
	return nil
}

func (r *TransferRepo) missOrConflict(ctx context.Context, t *entity.TransferRequest, reason string) error {
	var exists bool
	err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM transfer_requests WHERE company_id = $1 AND id = $2)`,
		t.CompanyID, t.ID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check transfer: %w", err)
	}
	if !exists {
		return domain.ErrNotFound
	}
	return domain.NewConflictError("transfer_request", reason)
}

// ListAvailableForCourier solicitudes abiertas para corredores más las que ya lleva courierID.
// Alta prioridad primero, luego por antigüedad.
func (r *TransferRepo) ListAvailableForCourier(ctx context.Context, companyID, courierID string) ([]*entity.TransferRequest, error) {
	return r.list(ctx, `SELECT `+transferColumns+` FROM transfer_requests
		WHERE company_id = $1 AND (
			(status = 'accepted' AND courier_id IS NULL AND pickup_type = 'corredor')
			OR (courier_id = $2 AND status IN ('courier_assigned', 'in_transit'))
		)
		ORDER BY CASE priority WHEN 'high' THEN 0 ELSE 1 END, requested_at`, companyID, courierID)
}

// ListForLocations solicitudes cuya ubicación de aceptación está en locationIDs, filtradas por estado.
func (r *TransferRepo) ListForLocations(ctx context.Context, companyID string, locationIDs, statuses []string) ([]*entity.TransferRequest, error) {
	return r.list(ctx, `SELECT `+transferColumns+` FROM transfer_requests
		WHERE company_id = $1 AND status = ANY($3)
		  AND (CASE WHEN original_transfer_id IS NULL THEN source_location_id ELSE destination_location_id END) = ANY($2)
		ORDER BY requested_at`, companyID, locationIDs, statuses)
}

// ListByRequester solicitudes creadas por requesterID, más recientes primero.
func (r *TransferRepo) ListByRequester(ctx context.Context, companyID, requesterID string, limit, offset int) ([]*entity.TransferRequest, error) {
	return r.list(ctx, `SELECT `+transferColumns+` FROM transfer_requests
		WHERE company_id = $1 AND requester_id = $2
		ORDER BY requested_at DESC LIMIT $3 OFFSET $4`, companyID, requesterID, limitArg(limit), offset)
}

// CountByRequester agrupa por estado todas las solicitudes del usuario.
func (r *TransferRepo) CountByRequester(ctx context.Context, companyID, requesterID string) (map[string]int, error) {
	rows, err := r.q.Query(ctx, `SELECT status, COUNT(*) FROM transfer_requests
		WHERE company_id = $1 AND requester_id = $2
		GROUP BY status`, companyID, requesterID)
	if err != nil {
		return nil, fmt.Errorf("count transfers by requester: %w", err)
	}
	defer rows.Close()
	counts := map[string]int{}
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scan transfer count: %w", err)
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

// ListByCourier historial del corredor, más recientes primero.
func (r *TransferRepo) ListByCourier(ctx context.Context, companyID, courierID string, limit, offset int) ([]*entity.TransferRequest, error) {
	return r.list(ctx, `SELECT `+transferColumns+` FROM transfer_requests
		WHERE company_id = $1 AND courier_id = $2
		ORDER BY requested_at DESC LIMIT $3 OFFSET $4`, companyID, courierID, limitArg(limit), offset)
}

// SumReturnedQuantity cantidad comprometida en devoluciones vivas o completadas de una transferencia.
func (r *TransferRepo) SumReturnedQuantity(ctx context.Context, companyID, originalTransferID string) (int, error) {
	var total int
	err := r.q.QueryRow(ctx, `SELECT COALESCE(SUM(quantity), 0) FROM transfer_requests
		WHERE company_id = $1 AND original_transfer_id = $2 AND status NOT IN ('rejected', 'cancelled')`,
		companyID, originalTransferID).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum returned quantity: %w", err)
	}
	return total, nil
}

func (r *TransferRepo) list(ctx context.Context, query string, args ...any) ([]*entity.TransferRequest, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transfers: %w", err)
	}
	defer rows.Close()
	var list []*entity.TransferRequest
	for rows.Next() {
		t, err := scanTransfer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transfer: %w", err)
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

// limitArg 0 o negativo = sin límite (LIMIT NULL).
func limitArg(limit int) *int {
	if limit <= 0 {
		return nil
	}
	return &limit
}
