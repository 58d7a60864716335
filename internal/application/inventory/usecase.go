package inventory

import (
	"context"

	"github.com/jhoicas/tenis-ops/internal/application/access"
	"github.com/jhoicas/tenis-ops/internal/domain"
	"github.com/jhoicas/tenis-ops/internal/domain/entity"
	domaininv "github.com/jhoicas/tenis-ops/internal/domain/inventory"
	"github.com/jhoicas/tenis-ops/internal/domain/repository"
	"github.com/jhoicas/tenis-ops/pkg/logger"
)

// Tipos de movimiento manual de stock.
const (
	MovementTypeEntry      = "ENTRY"      // ingreso de mercancía
	MovementTypeAdjustment = "ADJUSTMENT" // ajuste con signo (conteo, pérdida, conciliación)
)

// RegisterMovementUseCase registra ingresos y ajustes de stock de forma transaccional con bloqueo
// de fila y Commit/Rollback. Los ingresos de pies sueltos disparan el emparejamiento automático.
type RegisterMovementUseCase struct {
	txRunner     TxRunner
	engine       *Engine
	productRepo  repository.ProductRepository
	locationRepo repository.LocationRepository
	userRepo     repository.UserRepository
	log          *logger.Logger
}

// NewRegisterMovementUseCase construye el caso de uso.
func NewRegisterMovementUseCase(
	txRunner TxRunner,
	engine *Engine,
	productRepo repository.ProductRepository,
	locationRepo repository.LocationRepository,
	userRepo repository.UserRepository,
	log *logger.Logger,
) *RegisterMovementUseCase {
	return &RegisterMovementUseCase{
		txRunner:     txRunner,
		engine:       engine,
		productRepo:  productRepo,
		locationRepo: locationRepo,
		userRepo:     userRepo,
		log:          log.Component("inventory"),
	}
}

// MovementInput entrada para registrar un movimiento.
// ENTRY: Quantity > 0. ADJUSTMENT: Quantity con signo, distinta de cero.
type MovementInput struct {
	Actor         entity.Actor
	LocationID    string
	Reference     string
	Size          string
	InventoryType string
	Type          string
	Quantity      int
	Exhibition    int
	Notes         string
}

// MovementResult cantidades resultantes y emparejamiento (solo ingresos de pies sueltos).
type MovementResult struct {
	Before  int
	After   int
	Pairing *domaininv.PairFormationResult
}

// RegisterMovement valida, abre la transacción y aplica el movimiento a través del Ledger.
func (uc *RegisterMovementUseCase) RegisterMovement(ctx context.Context, in MovementInput) (*MovementResult, error) {
	if err := access.RequireRole(in.Actor, entity.RoleAdmin, entity.RoleBodeguero); err != nil {
		return nil, err
	}
	switch in.Type {
	case MovementTypeEntry:
		if in.Quantity <= 0 {
			return nil, domain.ErrInvalidInput
		}
	case MovementTypeAdjustment:
		if in.Quantity == 0 {
			return nil, domain.ErrInvalidInput
		}
	default:
		return nil, domain.ErrInvalidInput
	}
	if in.Exhibition < 0 || (in.Type == MovementTypeEntry && in.Exhibition > in.Quantity) {
		return nil, domain.ErrInvalidInput
	}
	if !entity.IsValidInventoryType(in.InventoryType) || in.Reference == "" || in.Size == "" {
		return nil, domain.ErrInvalidInput
	}

	companyID := in.Actor.CompanyID
	product, err := uc.productRepo.GetByReference(ctx, companyID, in.Reference)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	loc, err := uc.locationRepo.GetByID(ctx, companyID, in.LocationID)
	if err != nil {
		return nil, err
	}
	if loc == nil {
		return nil, domain.ErrNotFound
	}
	if err := access.RequireLocation(ctx, uc.userRepo, in.Actor, loc.ID); err != nil {
		return nil, err
	}

	changeType := entity.ChangeTypeEntry
	if in.Type == MovementTypeAdjustment {
		changeType = entity.ChangeTypeAdjustment
	}
	adjust := AdjustInput{
		Key: entity.StockKey{
			CompanyID:        companyID,
			ProductReference: in.Reference,
			Size:             in.Size,
			LocationID:       loc.ID,
			InventoryType:    in.InventoryType,
		},
		Brand:           product.Brand,
		Model:           product.Model,
		Delta:           in.Quantity,
		ExhibitionDelta: in.Exhibition,
		ActorID:         in.Actor.UserID,
		ChangeType:      changeType,
		Notes:           in.Notes,
	}

	var out MovementResult
	err = uc.txRunner.Run(ctx, func(repos repository.Repos) error {
		if in.Type == MovementTypeEntry {
			res, pairing, err := uc.engine.Receive(ctx, repos, adjust)
			if err != nil {
				return err
			}
			out = MovementResult{Before: res.Before, After: res.After, Pairing: pairing}
			return nil
		}
		res, err := uc.engine.Ledger().Adjust(ctx, repos, adjust)
		if err != nil {
			return err
		}
		out = MovementResult{Before: res.Before, After: res.After}
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("company_id", companyID).
		Str("location_id", loc.ID).
		Str("reference", in.Reference).
		Str("type", in.Type).
		Int("quantity", in.Quantity).
		Msg("movimiento de inventario registrado")
	return &out, nil
}
