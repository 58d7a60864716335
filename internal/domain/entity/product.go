package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product referencia del catálogo (marca, modelo, precio sugerido).
type Product struct {
	ID          string
	CompanyID   string
	Reference   string // código único por empresa (ej. NK-AM90-42)
	Brand       string
	Model       string
	Description string
	UnitPrice   decimal.Decimal
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
