package inventory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/tenis-ops/internal/application/ports"
	"github.com/jhoicas/tenis-ops/internal/domain"
	"github.com/jhoicas/tenis-ops/internal/domain/entity"
	"github.com/jhoicas/tenis-ops/internal/domain/repository"
	"github.com/jhoicas/tenis-ops/pkg/logger"
)

// Ledger fuente única de verdad de cantidades por ubicación, talla y configuración de pie.
// Ningún otro componente modifica StockRecord.Quantity: todo pasa por Adjust o Reconfigure,
// siempre con la fila bloqueada (SELECT FOR UPDATE) dentro de la transacción del llamador.
type Ledger struct {
	log     *logger.Logger
	metrics ports.MetricsRecorder
	now     func() time.Time
}

// NewLedger construye el ledger. metrics puede ser nil.
func NewLedger(log *logger.Logger, metrics ports.MetricsRecorder) *Ledger {
	return &Ledger{log: log.Component("ledger"), metrics: ports.OrNoop(metrics), now: time.Now}
}

// AdjustInput parámetros de un ajuste sobre un único StockRecord.
type AdjustInput struct {
	Key             entity.StockKey
	Brand           string
	Model           string
	Delta           int
	ExhibitionDelta int
	ActorID         string
	ReferenceID     string
	ChangeType      string
	Notes           string
}

// AdjustResult cantidades antes y después del ajuste.
type AdjustResult struct {
	Before int
	After  int
}

// GetQuantity lectura sin efectos secundarios; 0 si el registro no existe.
func (l *Ledger) GetQuantity(ctx context.Context, stock repository.StockRepository, key entity.StockKey) (int, error) {
	if err := validateKey(key); err != nil {
		return 0, err
	}
	rec, err := stock.Get(ctx, key)
	if err != nil {
		return 0, err
	}
	return rec.Quantity, nil
}

// Adjust bloquea el registro (creándolo en cero si no existe), aplica Delta y agrega una entrada
// al log. Falla con InsufficientStockError si el resultado sería negativo.
func (l *Ledger) Adjust(ctx context.Context, repos repository.Repos, in AdjustInput) (AdjustResult, error) {
	if err := validateKey(in.Key); err != nil {
		return AdjustResult{}, err
	}
	if in.ChangeType == "" {
		return AdjustResult{}, domain.ErrInvalidInput
	}
	rec, err := repos.Stock.GetForUpdate(ctx, in.Key)
	if err != nil {
		return AdjustResult{}, err
	}
	before := rec.Quantity
	after := before + in.Delta
	if after < 0 {
		return AdjustResult{}, &domain.InsufficientStockError{Shortages: []domain.Shortage{
			shortageFor(in.Key, -in.Delta, before),
		}}
	}
	now := l.now()
	rec.Quantity = after
	rec.QuantityExhibition = clampExhibition(rec.QuantityExhibition+in.ExhibitionDelta, after)
	if rec.Brand == "" {
		rec.Brand = in.Brand
	}
	if rec.Model == "" {
		rec.Model = in.Model
	}
	rec.UpdatedAt = now
	if err := repos.Stock.Upsert(ctx, rec); err != nil {
		return AdjustResult{}, err
	}
	entry := &entity.InventoryChangeEntry{
		ID:             uuid.New().String(),
		CompanyID:      in.Key.CompanyID,
		ProductID:      in.Key.ProductReference,
		Size:           in.Key.Size,
		LocationID:     in.Key.LocationID,
		InventoryType:  in.Key.InventoryType,
		ChangeType:     in.ChangeType,
		QuantityBefore: before,
		QuantityAfter:  after,
		UserID:         in.ActorID,
		ReferenceID:    in.ReferenceID,
		Notes:          in.Notes,
		CreatedAt:      now,
	}
	if err := repos.Changes.Create(ctx, entry); err != nil {
		return AdjustResult{}, err
	}
	l.metrics.StockAdjusted(in.ChangeType, in.Delta)
	l.log.Debug().
		Str("company_id", in.Key.CompanyID).
		Str("reference", in.Key.ProductReference).
		Str("size", in.Key.Size).
		Str("location_id", in.Key.LocationID).
		Str("inventory_type", in.Key.InventoryType).
		Str("change_type", in.ChangeType).
		Int("before", before).
		Int("after", after).
		Msg("ajuste de inventario")
	return AdjustResult{Before: before, After: after}, nil
}

// Lock bloquea varios registros en orden canónico (StockKey.Less) y los devuelve indexados por llave.
// Llaves repetidas se bloquean una sola vez.
func (l *Ledger) Lock(ctx context.Context, repos repository.Repos, keys ...entity.StockKey) (map[entity.StockKey]*entity.StockRecord, error) {
	ordered := make([]entity.StockKey, 0, len(keys))
	seen := make(map[entity.StockKey]bool, len(keys))
	for _, k := range keys {
		if err := validateKey(k); err != nil {
			return nil, err
		}
		if !seen[k] {
			seen[k] = true
			ordered = append(ordered, k)
		}
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Less(ordered[j]) })

	locked := make(map[entity.StockKey]*entity.StockRecord, len(ordered))
	for _, k := range ordered {
		rec, err := repos.Stock.GetForUpdate(ctx, k)
		if err != nil {
			return nil, err
		}
		locked[k] = rec
	}
	return locked, nil
}

// KeyDelta cambio a aplicar sobre un registro ya bloqueado.
type KeyDelta struct {
	Key   entity.StockKey
	Delta int
}

// ReconfigureInput cambio multi-registro que se audita como una sola entrada (ej. formación de pares).
type ReconfigureInput struct {
	Deltas      []KeyDelta
	LogKey      entity.StockKey // registro cuyo antes/después se guarda en la entrada
	ActorID     string
	ReferenceID string
	ChangeType  string
	Notes       string
}

// Reconfigure aplica todos los deltas sobre registros previamente bloqueados con Lock y agrega
// una única entrada al log. Si algún registro quedaría negativo no se aplica nada.
func (l *Ledger) Reconfigure(ctx context.Context, repos repository.Repos, locked map[entity.StockKey]*entity.StockRecord, in ReconfigureInput) (map[entity.StockKey]AdjustResult, error) {
	if in.ChangeType == "" || len(in.Deltas) == 0 {
		return nil, domain.ErrInvalidInput
	}
	var shortages []domain.Shortage
	for _, d := range in.Deltas {
		rec, ok := locked[d.Key]
		if !ok {
			return nil, fmt.Errorf("reconfigure: registro %v no bloqueado", d.Key)
		}
		if rec.Quantity+d.Delta < 0 {
			shortages = append(shortages, shortageFor(d.Key, -d.Delta, rec.Quantity))
		}
	}
	if len(shortages) > 0 {
		return nil, &domain.InsufficientStockError{Shortages: shortages}
	}

	brand, model := describedBy(locked)
	now := l.now()
	results := make(map[entity.StockKey]AdjustResult, len(in.Deltas))
	for _, d := range in.Deltas {
		rec := locked[d.Key]
		before := rec.Quantity
		rec.Quantity = before + d.Delta
		rec.QuantityExhibition = clampExhibition(rec.QuantityExhibition, rec.Quantity)
		// un registro recién creado por Lock hereda marca y modelo de sus hermanos
		if rec.Brand == "" {
			rec.Brand = brand
		}
		if rec.Model == "" {
			rec.Model = model
		}
		rec.UpdatedAt = now
		if err := repos.Stock.Upsert(ctx, rec); err != nil {
			return nil, err
		}
		results[d.Key] = AdjustResult{Before: before, After: rec.Quantity}
	}

	logged := results[in.LogKey]
	entry := &entity.InventoryChangeEntry{
		ID:             uuid.New().String(),
		CompanyID:      in.LogKey.CompanyID,
		ProductID:      in.LogKey.ProductReference,
		Size:           in.LogKey.Size,
		LocationID:     in.LogKey.LocationID,
		InventoryType:  in.LogKey.InventoryType,
		ChangeType:     in.ChangeType,
		QuantityBefore: logged.Before,
		QuantityAfter:  logged.After,
		UserID:         in.ActorID,
		ReferenceID:    in.ReferenceID,
		Notes:          in.Notes,
		CreatedAt:      now,
	}
	if err := repos.Changes.Create(ctx, entry); err != nil {
		return nil, err
	}
	for _, d := range in.Deltas {
		l.metrics.StockAdjusted(in.ChangeType, d.Delta)
	}
	return results, nil
}

func validateKey(k entity.StockKey) error {
	if k.CompanyID == "" || k.ProductReference == "" || k.Size == "" || k.LocationID == "" {
		return domain.ErrInvalidInput
	}
	if !entity.IsValidInventoryType(k.InventoryType) {
		return domain.ErrInvalidInput
	}
	return nil
}

func shortageFor(k entity.StockKey, requested, available int) domain.Shortage {
	return domain.Shortage{
		ProductReference: k.ProductReference,
		Size:             k.Size,
		InventoryType:    k.InventoryType,
		LocationID:       k.LocationID,
		Requested:        requested,
		Available:        available,
	}
}

func clampExhibition(exhibition, quantity int) int {
	if exhibition < 0 {
		return 0
	}
	if exhibition > quantity {
		return quantity
	}
	return exhibition
}

// describedBy primera marca y modelo no vacíos entre los registros bloqueados, en orden canónico.
func describedBy(locked map[entity.StockKey]*entity.StockRecord) (brand, model string) {
	keys := make([]entity.StockKey, 0, len(locked))
	for k := range locked {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })
	for _, k := range keys {
		rec := locked[k]
		if brand == "" {
			brand = rec.Brand
		}
		if model == "" {
			model = rec.Model
		}
	}
	return brand, model
}
