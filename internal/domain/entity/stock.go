package entity

import "time"

// Tipos de inventario por configuración de pie.
const (
	InventoryTypePair      = "pair"
	InventoryTypeLeftOnly  = "left_only"
	InventoryTypeRightOnly = "right_only"
)

// IsValidInventoryType indica si t es pair, left_only o right_only.
func IsValidInventoryType(t string) bool {
	switch t {
	case InventoryTypePair, InventoryTypeLeftOnly, InventoryTypeRightOnly:
		return true
	}
	return false
}

// IsSingleFoot indica si el tipo corresponde a un pie suelto.
func IsSingleFoot(t string) bool {
	return t == InventoryTypeLeftOnly || t == InventoryTypeRightOnly
}

// OppositeFoot devuelve el pie contrario (left_only <-> right_only). Vacío si t no es un pie suelto.
func OppositeFoot(t string) string {
	switch t {
	case InventoryTypeLeftOnly:
		return InventoryTypeRightOnly
	case InventoryTypeRightOnly:
		return InventoryTypeLeftOnly
	}
	return ""
}

// StockKey identifica una unidad contable de inventario dentro de una empresa.
type StockKey struct {
	CompanyID        string
	ProductReference string
	Size             string
	LocationID       string
	InventoryType    string
}

// Less orden canónico de bloqueo: ubicación, referencia, talla y tipo (lexicográfico).
// left_only < pair < right_only, por lo que izquierdo siempre se bloquea antes que derecho.
func (k StockKey) Less(o StockKey) bool {
	if k.CompanyID != o.CompanyID {
		return k.CompanyID < o.CompanyID
	}
	if k.LocationID != o.LocationID {
		return k.LocationID < o.LocationID
	}
	if k.ProductReference != o.ProductReference {
		return k.ProductReference < o.ProductReference
	}
	if k.Size != o.Size {
		return k.Size < o.Size
	}
	return k.InventoryType < o.InventoryType
}

// WithType devuelve la misma llave con otro tipo de inventario.
func (k StockKey) WithType(inventoryType string) StockKey {
	k.InventoryType = inventoryType
	return k
}

// StockRecord cantidad física por (referencia, talla, ubicación, tipo) de una empresa.
// Se crea al primer ingreso en la ubicación y nunca se borra; Quantity nunca es negativa.
type StockRecord struct {
	ID                 string
	CompanyID          string
	ProductReference   string
	Brand              string
	Model              string
	Size               string
	LocationID         string
	InventoryType      string
	Quantity           int
	QuantityExhibition int // unidades en exhibición, siempre <= Quantity
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Key devuelve la llave del registro.
func (s *StockRecord) Key() StockKey {
	return StockKey{
		CompanyID:        s.CompanyID,
		ProductReference: s.ProductReference,
		Size:             s.Size,
		LocationID:       s.LocationID,
		InventoryType:    s.InventoryType,
	}
}
