package inventory

import (
	"context"

	"github.com/jhoicas/tenis-ops/internal/application/dto"
	"github.com/jhoicas/tenis-ops/internal/domain/entity"
)

// RegisterMovementFromRequest adapta el request HTTP al caso de uso RegisterMovement(ctx, MovementInput).
func (uc *RegisterMovementUseCase) RegisterMovementFromRequest(ctx context.Context, actor entity.Actor, in dto.RegisterMovementRequest) (*dto.MovementResponse, error) {
	res, err := uc.RegisterMovement(ctx, MovementInput{
		Actor:         actor,
		LocationID:    in.LocationID,
		Reference:     in.Reference,
		Size:          in.Size,
		InventoryType: in.InventoryType,
		Type:          in.Type,
		Quantity:      in.Quantity,
		Exhibition:    in.Exhibition,
		Notes:         in.Notes,
	})
	if err != nil {
		return nil, err
	}
	return &dto.MovementResponse{
		QuantityBefore: res.Before,
		QuantityAfter:  res.After,
		Pairing:        res.Pairing,
	}, nil
}
