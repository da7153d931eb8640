// Package pdf genera el reporte de inventario en PDF.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título              │  Fecha de generación          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: líneas / unidades / alertas / umbral               │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Ubicación | Producto | Cant | Unidad | Estado        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  ALERTAS: líneas en stock bajo o agotadas                    │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
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

	"github.com/jhoicas/stocksync/internal/application/dto"
	"github.com/jhoicas/stocksync/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorAlert   = &props.Color{Red: 180, Green: 30, Blue: 30}
)

// InventoryReport datos del reporte.
type InventoryReport struct {
	Title       string
	GeneratedAt time.Time
	Threshold   int
	Rows        []dto.InventoryRow
	Alerts      []dto.LowStockAlert
}

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoReportGenerator genera reportes usando Maroto v2.
type MarotoReportGenerator struct{}

// NewMarotoReportGenerator construye el generador.
func NewMarotoReportGenerator() *MarotoReportGenerator { return &MarotoReportGenerator{} }

// GenerateInventoryPDF genera el PDF y devuelve sus bytes.
func (g *MarotoReportGenerator) GenerateInventoryPDF(r InventoryReport) ([]byte, error) {
	title := nonEmpty(r.Title, "Reporte de inventario")
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(title, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(title, r.GeneratedAt))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(summaryRow(r))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(tableRows(r.Rows)...)

	if len(r.Alerts) > 0 {
		m.AddRows(line.NewRow(3))
		m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
		m.AddRows(alertRows(r.Alerts)...)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(title string, at time.Time) core.Row {
	return row.New(14).Add(
		col.New(8).Add(
			text.New(title, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
		),
		col.New(4).Add(
			text.New("Generado: "+at.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 3, Color: colorGray,
			}),
		),
	)
}

func summaryRow(r InventoryReport) core.Row {
	units := 0
	for _, l := range r.Rows {
		units += l.Quantity
	}
	return row.New(10).Add(
		col.New(12).Add(
			text.New(fmt.Sprintf("Líneas: %d   |   Unidades: %d   |   Alertas: %d   |   Umbral de stock bajo: %d",
				len(r.Rows), units, len(r.Alerts), r.Threshold,
			), props.Text{Size: 8, Top: 3, Color: colorGray}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Ubicación", 3, align.Left),
		h("Producto", 4, align.Left),
		h("Cant.", 1, align.Right),
		h("Unidad", 2, align.Center),
		h("Estado", 2, align.Center),
	)
}

// tableRows una fila por línea de inventario.
func tableRows(lines []dto.InventoryRow) []core.Row {
	result := make([]core.Row, 0, len(lines))
	for _, l := range lines {
		statusProps := props.Text{Size: 8, Align: align.Center, Top: 1}
		if l.Status != string(entity.StockNormal) {
			statusProps.Color = colorAlert
		}
		result = append(result, row.New(7).Add(
			col.New(3).Add(text.New(l.LocationName, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(4).Add(text.New(l.ProductName, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(1).Add(text.New(fmt.Sprint(l.Quantity), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New(nonEmpty(l.Unit, "-"), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(2).Add(text.New(l.StatusLabel, statusProps)),
		))
	}
	return result
}

func alertRows(alerts []dto.LowStockAlert) []core.Row {
	rows := []core.Row{
		row.New(6).Add(col.New(12).Add(
			text.New("ALERTAS DE STOCK", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorAlert, Top: 1,
			}),
		)),
	}
	for _, a := range alerts {
		rows = append(rows, row.New(5).Add(col.New(12).Add(
			text.New(fmt.Sprintf("%s en %s: %d %s", a.ProductName, a.LocationName, a.Quantity, a.Unit),
				props.Text{Size: 7.5, Top: 0.5, Left: 2}),
		)))
	}
	return rows
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
