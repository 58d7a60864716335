package inventory

import "math"

// FormablePairs pares que se pueden armar con los pies sueltos disponibles: min(izq, der).
// Cantidades negativas cuentan como cero.
func FormablePairs(left, right int) int {
	if left <= 0 || right <= 0 {
		return 0
	}
	if left < right {
		return left
	}
	return right
}

// PairingPlan resultado de aplicar la regla de emparejamiento sobre los saldos actuales.
type PairingPlan struct {
	Formed         int
	RemainingLeft  int
	RemainingRight int
}

// PlanPairing calcula cuántos pares formar y qué queda de cada pie.
// Nunca forma más de lo que cualquiera de los dos lados tiene.
func PlanPairing(left, right int) PairingPlan {
	n := FormablePairs(left, right)
	return PairingPlan{Formed: n, RemainingLeft: left - n, RemainingRight: right - n}
}

// PairFormationResult resultado de intentar formar pares en una ubicación.
type PairFormationResult struct {
	Formed         bool   `json:"formed"`
	Reason         string `json:"reason,omitempty"`
	LocationID     string `json:"location_id"`
	QuantityFormed int    `json:"quantity_formed"`
	RemainingLeft  int    `json:"remaining_left"`
	RemainingRight int    `json:"remaining_right"`
}

// Distribution resumen de una referencia/talla en todas las ubicaciones.
type Distribution struct {
	Pairs         int
	LeftOnly      int
	RightOnly     int
	FormablePairs int
	EfficiencyPct float64 // pares / (pares + formables) * 100
}

// Summarize totaliza pares y pies sueltos y calcula la eficiencia de emparejamiento.
func Summarize(pairs, left, right int) Distribution {
	d := Distribution{
		Pairs:         pairs,
		LeftOnly:      left,
		RightOnly:     right,
		FormablePairs: FormablePairs(left, right),
	}
	potential := d.Pairs + d.FormablePairs
	if potential > 0 {
		d.EfficiencyPct = math.Round(float64(d.Pairs)/float64(potential)*10000) / 100
	}
	return d
}
