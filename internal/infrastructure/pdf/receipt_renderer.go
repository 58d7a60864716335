// Package pdf genera el comprobante de venta en PDF con Maroto v2.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Ubicación + dirección │  N° Venta + Fecha + Estado  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Cant | Referencia / Marca / Modelo | Talla | P.Unit | Subtotal │
//	│  ─────────────────────────────────────────────────────────  │
//	│  PAGOS: método y monto          │  TOTAL                     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: QR con el id de la venta + notas                    │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/tenis-ops/internal/application/ports"
	"github.com/jhoicas/tenis-ops/internal/domain/entity"
)

var _ ports.ReceiptRenderer = (*ReceiptRenderer)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

var inventoryTypeLabels = map[string]string{
	entity.InventoryTypePair:      "par",
	entity.InventoryTypeLeftOnly:  "pie izq.",
	entity.InventoryTypeRightOnly: "pie der.",
}

var saleStatusLabels = map[string]string{
	entity.SaleStatusCompleted:           "COMPLETADA",
	entity.SaleStatusPendingConfirmation: "PENDIENTE DE CONFIRMACIÓN",
	entity.SaleStatusCancelled:           "ANULADA",
}

// ReceiptRenderer implementa ports.ReceiptRenderer usando Maroto v2.
type ReceiptRenderer struct{}

// NewReceiptRenderer construye el generador.
func NewReceiptRenderer() *ReceiptRenderer { return &ReceiptRenderer{} }

// RenderSaleReceipt genera el PDF de la venta y devuelve sus bytes.
func (g *ReceiptRenderer) RenderSaleReceipt(_ context.Context, sale *entity.Sale, location *entity.Location) ([]byte, error) {
	if sale == nil {
		return nil, fmt.Errorf("pdf: venta nula")
	}
	locName := sale.LocationID
	if location != nil {
		locName = location.Name
	}

	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Comprobante de venta", true).
		WithAuthor(locName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(sale, locName, location))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(tableHeaderRow())
	m.AddRows(tableItemRows(sale.Items)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(paymentRows(sale)...)

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow(sale))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(sale *entity.Sale, locName string, location *entity.Location) core.Row {
	address := "-"
	if location != nil {
		address = nonEmpty(location.Address, "-")
	}
	return row.New(18).Add(
		col.New(7).Add(
			text.New(locName, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Dirección: "+address, props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("COMPROBANTE DE VENTA", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(shortID(sale.ID), props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 6,
			}),
			text.New("Fecha: "+sale.SaleDate.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 12, Color: colorGray,
			}),
			text.New(nonEmpty(saleStatusLabels[sale.Status], sale.Status), props.Text{
				Style: fontstyle.Bold, Size: 7, Align: align.Right, Top: 16, Color: colorGray,
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Cant.", 1, align.Center),
		h("Referencia", 5, align.Left),
		h("Talla", 1, align.Center),
		h("Precio Unit.", 2, align.Right),
		h("Subtotal", 3, align.Right),
	)
}

func tableItemRows(items []entity.SaleItem) []core.Row {
	result := make([]core.Row, 0, len(items))
	for _, it := range items {
		desc := fmt.Sprintf("%s  %s %s (%s)", it.ProductReference, it.Brand, it.Model,
			nonEmpty(inventoryTypeLabels[it.InventoryType], it.InventoryType))
		result = append(result, row.New(7).Add(
			col.New(1).Add(text.New(fmt.Sprintf("%d", it.Quantity), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(5).Add(text.New(desc, props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1})),
			col.New(1).Add(text.New(it.Size, props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(2).Add(text.New(money(it.UnitPrice), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(3).Add(text.New(money(it.Subtotal), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return result
}

// paymentRows una fila por pago y el total al final.
func paymentRows(sale *entity.Sale) []core.Row {
	rows := make([]core.Row, 0, len(sale.Payments)+1)
	for _, p := range sale.Payments {
		label := p.PaymentMethod
		if p.Reference != "" {
			label += " (" + p.Reference + ")"
		}
		rows = append(rows, row.New(5).Add(
			col.New(6),
			col.New(3).Add(text.New(label, props.Text{Size: 8, Align: align.Right, Right: 2})),
			col.New(3).Add(text.New(money(p.Amount), props.Text{Size: 8, Align: align.Right, Right: 1})),
		))
	}
	rows = append(rows, row.New(8).Add(
		col.New(6),
		col.New(3).Add(text.New("TOTAL:", props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 2, Top: 2,
		})),
		col.New(3).Add(text.New(money(sale.TotalAmount), props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 1, Top: 2,
		})),
	))
	return rows
}

func footerRow(sale *entity.Sale) core.Row {
	notes := nonEmpty(sale.Notes, "Sin observaciones.")
	return row.New(35).Add(
		col.New(3).Add(code.NewQr(sale.ID, props.Rect{Percent: 95, Center: true})),
		col.New(9).Add(
			text.New("Observaciones:", props.Text{Style: fontstyle.Bold, Size: 8, Top: 4, Left: 3}),
			text.New(notes, props.Text{Size: 8, Top: 9, Left: 3, Color: colorGray}),
			text.New("Conserve este comprobante para cambios y devoluciones.", props.Text{
				Size: 6.5, Top: 28, Left: 3, Color: colorGray,
			}),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

func shortID(id string) string {
	if len(id) > 8 {
		return "N° " + id[:8]
	}
	return "N° " + id
}

func money(d decimal.Decimal) string {
	return "$" + formatMoney(d.StringFixed(0))
}

// formatMoney inserta puntos de miles en un string numérico sin decimales.
// Ej: "25000" → "25.000", "1000000" → "1.000.000"
func formatMoney(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return string(buf)
}
