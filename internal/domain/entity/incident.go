package entity

import "time"

// Tipos de incidencia en transporte.
const (
	IncidentDelay   = "delay"
	IncidentDamage  = "damage"
	IncidentLost    = "lost"
	IncidentAddress = "address"
	IncidentOther   = "other"
)

// TransportIncident novedad reportada por el corredor durante el traslado.
type TransportIncident struct {
	ID           string
	CompanyID    string
	TransferID   string
	CourierID    string
	IncidentType string
	Description  string
	ReportedAt   time.Time
	Resolved     bool
}

// IsValidIncidentType indica si t es un tipo de incidencia conocido.
func IsValidIncidentType(t string) bool {
	switch t {
	case IncidentDelay, IncidentDamage, IncidentLost, IncidentAddress, IncidentOther:
		return true
	}
	return false
}
