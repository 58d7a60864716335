package inventory

import (
	"context"
	"fmt"

	"github.com/jhoicas/tenis-ops/internal/application/ports"
	"github.com/jhoicas/tenis-ops/internal/domain"
	"github.com/jhoicas/tenis-ops/internal/domain/entity"
	domaininv "github.com/jhoicas/tenis-ops/internal/domain/inventory"
	"github.com/jhoicas/tenis-ops/internal/domain/repository"
	"github.com/jhoicas/tenis-ops/pkg/logger"
)

// Engine reserva stock (verificar y bloquear en un solo paso) y aplica la regla de emparejamiento
// de pies sueltos. Opera siempre dentro de la transacción del llamador.
type Engine struct {
	ledger  *Ledger
	log     *logger.Logger
	metrics ports.MetricsRecorder
}

// NewEngine construye el motor sobre el ledger.
func NewEngine(ledger *Ledger, log *logger.Logger, metrics ports.MetricsRecorder) *Engine {
	return &Engine{ledger: ledger, log: log.Component("pairing"), metrics: ports.OrNoop(metrics)}
}

// Ledger expone el ledger usado por el motor.
func (e *Engine) Ledger() *Ledger { return e.ledger }

// ReserveItem ítem a reservar. InventoryType vacío equivale a pair.
type ReserveItem struct {
	Reference     string
	Size          string
	InventoryType string
	Quantity      int
}

// ReservedSet registros bloqueados y cantidades agregadas por llave. Los bloqueos se mantienen
// hasta que termina la transacción; la reserva no descuenta stock.
type ReservedSet struct {
	LocationID string
	Records    map[entity.StockKey]*entity.StockRecord
	Requested  map[entity.StockKey]int
}

// ValidateAndReserve bloquea los registros de todos los ítems en orden canónico y verifica que
// alcance el stock. Todo o nada: si algún ítem no alcanza, devuelve InsufficientStockError con
// todos los faltantes.
func (e *Engine) ValidateAndReserve(ctx context.Context, repos repository.Repos, companyID, locationID string, items []ReserveItem) (*ReservedSet, error) {
	if companyID == "" || locationID == "" || len(items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	requested := make(map[entity.StockKey]int, len(items))
	keys := make([]entity.StockKey, 0, len(items))
	for _, it := range items {
		if it.Quantity <= 0 || it.Reference == "" || it.Size == "" {
			return nil, domain.ErrInvalidInput
		}
		invType := it.InventoryType
		if invType == "" {
			invType = entity.InventoryTypePair
		}
		k := entity.StockKey{
			CompanyID:        companyID,
			ProductReference: it.Reference,
			Size:             it.Size,
			LocationID:       locationID,
			InventoryType:    invType,
		}
		if _, ok := requested[k]; !ok {
			keys = append(keys, k)
		}
		requested[k] += it.Quantity
	}

	locked, err := e.ledger.Lock(ctx, repos, keys...)
	if err != nil {
		return nil, err
	}
	var shortages []domain.Shortage
	for _, k := range keys {
		if avail := locked[k].Quantity; avail < requested[k] {
			shortages = append(shortages, shortageFor(k, requested[k], avail))
		}
	}
	if len(shortages) > 0 {
		return nil, &domain.InsufficientStockError{Shortages: shortages}
	}
	return &ReservedSet{LocationID: locationID, Records: locked, Requested: requested}, nil
}

// PairingInput pie recibido en una ubicación. Key.InventoryType es el lado recibido.
type PairingInput struct {
	Key              entity.StockKey
	ReceivedQuantity int
	ActorID          string
	ReferenceID      string
}

// pairingKeys llaves izquierda, par y derecha de la misma referencia/talla/ubicación.
func pairingKeys(k entity.StockKey) (left, pair, right entity.StockKey) {
	return k.WithType(entity.InventoryTypeLeftOnly), k.WithType(entity.InventoryTypePair), k.WithType(entity.InventoryTypeRightOnly)
}

// AttemptPairFormation tras ingresar un pie suelto, forma min(recibido, opuesto) pares si el pie
// opuesto existe en la ubicación: +n par, -n izquierdo, -n derecho, una sola entrada pair_formation.
// Si no hay pie opuesto devuelve Formed=false y el pie queda esperando su contraparte.
func (e *Engine) AttemptPairFormation(ctx context.Context, repos repository.Repos, in PairingInput) (*domaininv.PairFormationResult, error) {
	if !entity.IsSingleFoot(in.Key.InventoryType) || in.ReceivedQuantity <= 0 {
		return nil, domain.ErrInvalidInput
	}
	left, pair, right := pairingKeys(in.Key)
	locked, err := e.ledger.Lock(ctx, repos, left, pair, right)
	if err != nil {
		return nil, err
	}
	received := locked[in.Key].Quantity
	opposite := locked[in.Key.WithType(entity.OppositeFoot(in.Key.InventoryType))].Quantity

	result := &domaininv.PairFormationResult{
		LocationID:     in.Key.LocationID,
		RemainingLeft:  locked[left].Quantity,
		RemainingRight: locked[right].Quantity,
	}
	if opposite <= 0 {
		result.Reason = fmt.Sprintf("no hay %s disponible en la ubicación; el pie queda en espera", entity.OppositeFoot(in.Key.InventoryType))
		return result, nil
	}

	plan := domaininv.PlanPairing(locked[left].Quantity, locked[right].Quantity)
	n := plan.Formed
	if in.ReceivedQuantity < n {
		n = in.ReceivedQuantity
	}
	if received < n {
		n = received
	}
	if n <= 0 {
		result.Reason = "no hay unidades del pie recibido para emparejar"
		return result, nil
	}

	after, err := e.ledger.Reconfigure(ctx, repos, locked, ReconfigureInput{
		Deltas: []KeyDelta{
			{Key: left, Delta: -n},
			{Key: pair, Delta: n},
			{Key: right, Delta: -n},
		},
		LogKey:      pair,
		ActorID:     in.ActorID,
		ReferenceID: in.ReferenceID,
		ChangeType:  entity.ChangeTypePairFormation,
		Notes:       fmt.Sprintf("formación automática de %d par(es): -%d izquierdo, -%d derecho", n, n, n),
	})
	if err != nil {
		return nil, err
	}
	result.Formed = true
	result.QuantityFormed = n
	result.RemainingLeft = after[left].After
	result.RemainingRight = after[right].After
	e.metrics.PairsFormed(n)
	e.log.Info().
		Str("company_id", in.Key.CompanyID).
		Str("reference", in.Key.ProductReference).
		Str("size", in.Key.Size).
		Str("location_id", in.Key.LocationID).
		Int("formed", n).
		Msg("pares formados")
	return result, nil
}

// Receive ingresa stock en una ubicación y, si es un pie suelto, intenta formar pares.
// Para pies sueltos bloquea primero izquierdo, par y derecho en orden canónico y luego ajusta,
// de modo que dos ingresos concurrentes de pies opuestos nunca se bloquean en orden inverso.
func (e *Engine) Receive(ctx context.Context, repos repository.Repos, in AdjustInput) (AdjustResult, *domaininv.PairFormationResult, error) {
	single := entity.IsSingleFoot(in.Key.InventoryType)
	if single {
		left, pair, right := pairingKeys(in.Key)
		if _, err := e.ledger.Lock(ctx, repos, left, pair, right); err != nil {
			return AdjustResult{}, nil, err
		}
	}
	res, err := e.ledger.Adjust(ctx, repos, in)
	if err != nil {
		return AdjustResult{}, nil, err
	}
	if !single || in.Delta <= 0 {
		return res, nil, nil
	}
	pairing, err := e.AttemptPairFormation(ctx, repos, PairingInput{
		Key:              in.Key,
		ReceivedQuantity: in.Delta,
		ActorID:          in.ActorID,
		ReferenceID:      in.ReferenceID,
	})
	if err != nil {
		return AdjustResult{}, nil, err
	}
	return res, pairing, nil
}
