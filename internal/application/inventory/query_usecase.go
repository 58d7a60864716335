package inventory

import (
	"context"

	"github.com/jhoicas/tenis-ops/internal/application/dto"
	"github.com/jhoicas/tenis-ops/internal/domain"
	"github.com/jhoicas/tenis-ops/internal/domain/entity"
	domaininv "github.com/jhoicas/tenis-ops/internal/domain/inventory"
	"github.com/jhoicas/tenis-ops/internal/domain/repository"
)

// QueryUseCase consultas de solo lectura sobre el stock y el log de cambios.
type QueryUseCase struct {
	ledger       *Ledger
	stockRepo    repository.StockRepository
	changeRepo   repository.InventoryChangeRepository
	locationRepo repository.LocationRepository
}

// NewQueryUseCase construye el caso de uso con repositorios atados al pool.
func NewQueryUseCase(ledger *Ledger, stockRepo repository.StockRepository, changeRepo repository.InventoryChangeRepository, locationRepo repository.LocationRepository) *QueryUseCase {
	return &QueryUseCase{ledger: ledger, stockRepo: stockRepo, changeRepo: changeRepo, locationRepo: locationRepo}
}

// GetQuantity cantidad de una llave; 0 si nunca hubo stock.
func (uc *QueryUseCase) GetQuantity(ctx context.Context, companyID, reference, size, locationID, inventoryType string) (*dto.QuantityResponse, error) {
	if inventoryType == "" {
		inventoryType = entity.InventoryTypePair
	}
	key := entity.StockKey{
		CompanyID:        companyID,
		ProductReference: reference,
		Size:             size,
		LocationID:       locationID,
		InventoryType:    inventoryType,
	}
	qty, err := uc.ledger.GetQuantity(ctx, uc.stockRepo, key)
	if err != nil {
		return nil, err
	}
	return &dto.QuantityResponse{
		Reference:     reference,
		Size:          size,
		LocationID:    locationID,
		InventoryType: inventoryType,
		Quantity:      qty,
	}, nil
}

// GetDistribution registros de una referencia/talla en todas las ubicaciones con totales de pares,
// pies sueltos y pares formables.
func (uc *QueryUseCase) GetDistribution(ctx context.Context, companyID, reference, size string) (*dto.DistributionResponse, error) {
	if reference == "" || size == "" {
		return nil, domain.ErrInvalidInput
	}
	records, err := uc.stockRepo.ListByReference(ctx, companyID, reference, size)
	if err != nil {
		return nil, err
	}
	names := map[string]string{}
	if locs, err := uc.locationRepo.ListByCompany(ctx, companyID); err == nil {
		for _, l := range locs {
			names[l.ID] = l.Name
		}
	}
	var pairs, left, right int
	out := &dto.DistributionResponse{Reference: reference, Size: size, Records: make([]dto.StockResponse, 0, len(records))}
	for _, r := range records {
		switch r.InventoryType {
		case entity.InventoryTypePair:
			pairs += r.Quantity
		case entity.InventoryTypeLeftOnly:
			left += r.Quantity
		case entity.InventoryTypeRightOnly:
			right += r.Quantity
		}
		out.Records = append(out.Records, dto.ToStockResponse(r, names[r.LocationID]))
	}
	sum := domaininv.Summarize(pairs, left, right)
	out.TotalPairs = sum.Pairs
	out.TotalLeft = sum.LeftOnly
	out.TotalRight = sum.RightOnly
	out.FormablePairs = sum.FormablePairs
	out.EfficiencyPct = sum.EfficiencyPct
	return out, nil
}

// ListChanges entradas del log por id de referencia (transferencia/venta) o por ubicación.
func (uc *QueryUseCase) ListChanges(ctx context.Context, companyID, referenceID, locationID string, page dto.PageRequest) ([]dto.InventoryChangeResponse, error) {
	var (
		entries []*entity.InventoryChangeEntry
		err     error
	)
	switch {
	case referenceID != "":
		entries, err = uc.changeRepo.ListByReference(ctx, companyID, referenceID)
	case locationID != "":
		page.DefaultPage()
		entries, err = uc.changeRepo.ListByLocation(ctx, companyID, locationID, page.Limit, page.Offset)
	default:
		return nil, domain.ErrInvalidInput
	}
	if err != nil {
		return nil, err
	}
	out := make([]dto.InventoryChangeResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, dto.ToInventoryChangeResponse(e))
	}
	return out, nil
}
