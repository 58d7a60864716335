package transfer

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jhoicas/tenis-ops/internal/application/inventory"
	"github.com/jhoicas/tenis-ops/internal/domain"
	"github.com/jhoicas/tenis-ops/internal/domain/entity"
	domaininv "github.com/jhoicas/tenis-ops/internal/domain/inventory"
	"github.com/jhoicas/tenis-ops/internal/domain/repository"
)

// ReturnInput datos para devolver (total o parcialmente) una transferencia completada.
type ReturnInput struct {
	Reason     string
	Quantity   int
	PickupType string
	Notes      string
}

// CreateReturn crea una devolución en pending con origen y destino invertidos respecto a la original.
// La cantidad no puede superar lo recibido menos lo ya devuelto.
func (m *Machine) CreateReturn(ctx context.Context, actor entity.Actor, originalID string, in ReturnInput) (*entity.TransferRequest, error) {
	if in.PickupType == "" {
		in.PickupType = entity.PickupTypeCorredor
	}
	if in.Quantity <= 0 || in.Reason == "" || !entity.IsValidPickupType(in.PickupType) {
		return nil, domain.ErrInvalidInput
	}
	var ret *entity.TransferRequest
	err := m.txRunner.Run(ctx, func(repos repository.Repos) error {
		orig, err := repos.Transfers.GetForUpdate(ctx, actor.CompanyID, originalID)
		if err != nil {
			return err
		}
		if orig == nil {
			return domain.ErrNotFound
		}
		if orig.IsReturn() || !orig.Allows(entity.EventCreateReturn) {
			return invalid(orig, entity.EventCreateReturn)
		}
		if err := requireRequester(orig, actor); err != nil {
			return err
		}
		returned, err := repos.Transfers.SumReturnedQuantity(ctx, actor.CompanyID, orig.ID)
		if err != nil {
			return err
		}
		if in.Quantity > orig.ReceivedQuantity-returned {
			return fmt.Errorf("%w: se pueden devolver hasta %d unidades", domain.ErrInvalidInput, orig.ReceivedQuantity-returned)
		}
		if _, err := m.engine.ValidateAndReserve(ctx, repos, actor.CompanyID, orig.DestinationLocationID, []inventory.ReserveItem{{
			Reference:     orig.ProductReference,
			Size:          orig.Size,
			InventoryType: orig.InventoryType,
			Quantity:      in.Quantity,
		}}); err != nil {
			return err
		}
		now := m.now()
		ret = &entity.TransferRequest{
			ID:                    uuid.New().String(),
			CompanyID:             orig.CompanyID,
			SourceLocationID:      orig.DestinationLocationID,
			DestinationLocationID: orig.SourceLocationID,
			ProductReference:      orig.ProductReference,
			Brand:                 orig.Brand,
			Model:                 orig.Model,
			Size:                  orig.Size,
			Quantity:              in.Quantity,
			InventoryType:         orig.InventoryType,
			Purpose:               entity.PurposeReturn,
			PickupType:            in.PickupType,
			Priority:              entity.PriorityNormal,
			Status:                entity.TransferStatusPending,
			RequesterID:           actor.UserID,
			OriginalTransferID:    orig.ID,
			ReturnReason:          in.Reason,
			EstimatedMinutes:      etaNormalPriority,
			RequestNotes:          in.Notes,
			RequestedAt:           now,
			UpdatedAt:             now,
		}
		return repos.Transfers.Create(ctx, ret)
	})
	if err != nil {
		m.recordFailure(entity.EventCreateReturn, originalID, actor, err)
		return nil, err
	}
	m.metrics.TransferTransition(entity.EventCreateReturn, ret.Status)
	m.log.Info().
		Str("return_id", ret.ID).
		Str("original_transfer_id", originalID).
		Str("company_id", ret.CompanyID).
		Int("quantity", ret.Quantity).
		Msg("devolución creada")
	return ret, nil
}

// ReturnReceptionInput datos de la recepción de una devolución en bodega.
type ReturnReceptionInput struct {
	Condition string
	Quantity  int
	Notes     string
}

// ConfirmReturnReception la bodega recibe la devolución. good y damaged reingresan al stock del
// destino; unusable solo deja la entrada return_loss. Siempre notifica al solicitante original.
func (m *Machine) ConfirmReturnReception(ctx context.Context, actor entity.Actor, id string, in ReturnReceptionInput, guard Guard) (*entity.TransferRequest, *domaininv.PairFormationResult, error) {
	if !entity.IsValidReturnCondition(in.Condition) {
		return nil, nil, domain.ErrInvalidInput
	}
	var pairing *domaininv.PairFormationResult
	t, err := m.transition(ctx, actor, id, step{
		event: entity.EventConfirmReturnReception,
		guard: guard,
		apply: func(ctx context.Context, repos repository.Repos, t *entity.TransferRequest) error {
			if !t.IsReturn() {
				return invalid(t, entity.EventConfirmReturnReception)
			}
			if err := requireArrived(t, entity.EventConfirmReturnReception); err != nil {
				return err
			}
			qty := in.Quantity
			if qty == 0 {
				qty = t.Quantity
			}
			if qty < 0 || qty > t.Quantity {
				return domain.ErrInvalidInput
			}
			restock := entity.RestocksOnReturn(in.Condition)
			if restock {
				_, p, err := m.engine.Receive(ctx, repos, inventory.AdjustInput{
					Key:         destinationKey(t),
					Brand:       t.Brand,
					Model:       t.Model,
					Delta:       qty,
					ActorID:     actor.UserID,
					ReferenceID: t.ID,
					ChangeType:  entity.ChangeTypeReturnReception,
					Notes:       fmt.Sprintf("devolución en estado %s. %s", in.Condition, in.Notes),
				})
				if err != nil {
					return err
				}
				pairing = p
			} else {
				if _, err := m.engine.Ledger().Adjust(ctx, repos, inventory.AdjustInput{
					Key:         destinationKey(t),
					Brand:       t.Brand,
					Model:       t.Model,
					ActorID:     actor.UserID,
					ReferenceID: t.ID,
					ChangeType:  entity.ChangeTypeReturnLoss,
					Notes:       fmt.Sprintf("%d unidades no aptas para la venta. %s", qty, in.Notes),
				}); err != nil {
					return err
				}
			}
			if t.WarehouseKeeperID == "" {
				t.WarehouseKeeperID = actor.UserID
			}
			t.ReturnCondition = in.Condition
			t.ReceivedQuantity = qty
			t.ReceptionNotes = in.Notes
			m.markReceived(t)
			return repos.Notifications.Create(ctx, returnNotice(t, restock, m.now()))
		},
	})
	if err != nil {
		return nil, nil, err
	}
	return t, pairing, nil
}
