package dto

import (
	"time"

	"github.com/jhoicas/tenis-ops/internal/domain/entity"
	domaininv "github.com/jhoicas/tenis-ops/internal/domain/inventory"
)

// RegisterMovementRequest body para POST /api/inventory/movements.
// type: ENTRY (quantity > 0) o ADJUSTMENT (quantity con signo, distinto de cero).
type RegisterMovementRequest struct {
	LocationID    string `json:"location_id" validate:"required"`
	Reference     string `json:"reference" validate:"required"`
	Size          string `json:"size" validate:"required"`
	InventoryType string `json:"inventory_type" validate:"required,oneof=pair left_only right_only"`
	Type          string `json:"type" validate:"required,oneof=ENTRY ADJUSTMENT"`
	Quantity      int    `json:"quantity" validate:"required"`
	Exhibition    int    `json:"exhibition,omitempty" validate:"min=0"`
	Notes         string `json:"notes,omitempty" validate:"max=500"`
}

// MovementResponse resultado de un movimiento de stock.
type MovementResponse struct {
	QuantityBefore int                            `json:"quantity_before"`
	QuantityAfter  int                            `json:"quantity_after"`
	Pairing        *domaininv.PairFormationResult `json:"pairing,omitempty"`
}

// StockResponse un StockRecord.
type StockResponse struct {
	Reference          string    `json:"reference"`
	Brand              string    `json:"brand,omitempty"`
	Model              string    `json:"model,omitempty"`
	Size               string    `json:"size"`
	LocationID         string    `json:"location_id"`
	LocationName       string    `json:"location_name,omitempty"`
	InventoryType      string    `json:"inventory_type"`
	Quantity           int       `json:"quantity"`
	QuantityExhibition int       `json:"quantity_exhibition"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// QuantityResponse respuesta de get_quantity.
type QuantityResponse struct {
	Reference     string `json:"reference"`
	Size          string `json:"size"`
	LocationID    string `json:"location_id"`
	InventoryType string `json:"inventory_type"`
	Quantity      int    `json:"quantity"`
}

// DistributionResponse distribución de una referencia/talla entre ubicaciones.
type DistributionResponse struct {
	Reference     string          `json:"reference"`
	Size          string          `json:"size"`
	TotalPairs    int             `json:"total_pairs"`
	TotalLeft     int             `json:"total_left_only"`
	TotalRight    int             `json:"total_right_only"`
	FormablePairs int             `json:"formable_pairs"`
	EfficiencyPct float64         `json:"efficiency_pct"`
	Records       []StockResponse `json:"records"`
}

// InventoryChangeResponse entrada del log de cambios.
type InventoryChangeResponse struct {
	ID             string    `json:"id"`
	Reference      string    `json:"reference"`
	Size           string    `json:"size"`
	LocationID     string    `json:"location_id"`
	InventoryType  string    `json:"inventory_type"`
	ChangeType     string    `json:"change_type"`
	QuantityBefore int       `json:"quantity_before"`
	QuantityAfter  int       `json:"quantity_after"`
	UserID         string    `json:"user_id"`
	ReferenceID    string    `json:"reference_id,omitempty"`
	Notes          string    `json:"notes,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// ToStockResponse convierte un StockRecord.
func ToStockResponse(s *entity.StockRecord, locationName string) StockResponse {
	return StockResponse{
		Reference:          s.ProductReference,
		Brand:              s.Brand,
		Model:              s.Model,
		Size:               s.Size,
		LocationID:         s.LocationID,
		LocationName:       locationName,
		InventoryType:      s.InventoryType,
		Quantity:           s.Quantity,
		QuantityExhibition: s.QuantityExhibition,
		UpdatedAt:          s.UpdatedAt,
	}
}

// ToInventoryChangeResponse convierte una entrada del log.
func ToInventoryChangeResponse(e *entity.InventoryChangeEntry) InventoryChangeResponse {
	return InventoryChangeResponse{
		ID:             e.ID,
		Reference:      e.ProductID,
		Size:           e.Size,
		LocationID:     e.LocationID,
		InventoryType:  e.InventoryType,
		ChangeType:     e.ChangeType,
		QuantityBefore: e.QuantityBefore,
		QuantityAfter:  e.QuantityAfter,
		UserID:         e.UserID,
		ReferenceID:    e.ReferenceID,
		Notes:          e.Notes,
		CreatedAt:      e.CreatedAt,
	}
}

// StockQuery parámetros de GET /api/inventory/stock.
type StockQuery struct {
	Reference     string `query:"reference" validate:"required"`
	Size          string `query:"size" validate:"required"`
	LocationID    string `query:"location_id" validate:"required"`
	InventoryType string `query:"inventory_type" validate:"omitempty,oneof=pair left_only right_only"`
}

// DistributionQuery parámetros de GET /api/inventory/distribution.
type DistributionQuery struct {
	Reference string `query:"reference" validate:"required"`
	Size      string `query:"size" validate:"required"`
}
