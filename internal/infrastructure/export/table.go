// Package export serializa las vistas de inventario y movimientos a CSV y XLSX.
package export

import (
	"time"

	"github.com/jhoicas/stocksync/internal/application/dto"
)

// TimeLayout formato de fechas en las exportaciones.
const TimeLayout = "2006-01-02 15:04:05"

// Table encabezados y filas listos para escribir.
type Table struct {
	Sheet   string
	Headers []string
	Rows    [][]any
}

// InventoryTable una fila por línea de inventario.
func InventoryTable(rows []dto.InventoryRow, loc *time.Location) Table {
	t := Table{
		Sheet:   "Inventario",
		Headers: []string{"Ubicación", "Producto", "ID producto", "Cantidad", "Unidad", "Estado", "Última actualización"},
		Rows:    make([][]any, 0, len(rows)),
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, []any{
			r.LocationName, r.ProductName, r.ProductID, r.Quantity, r.Unit, r.StatusLabel, formatTime(r.LastUpdated, loc),
		})
	}
	return t
}

// RecordTable una fila por movimiento.
func RecordTable(rows []dto.RecordRow, loc *time.Location) Table {
	t := Table{
		Sheet:   "Movimientos",
		Headers: []string{"Fecha", "Tipo", "Ubicación", "Producto", "Cantidad", "Unidad", "Operador", "Nota"},
		Rows:    make([][]any, 0, len(rows)),
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, []any{
			formatTime(r.Timestamp, loc), r.TypeLabel, r.LocationName, r.ProductName, r.Quantity, r.Unit, r.Operator, r.Note,
		})
	}
	return t
}

func formatTime(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return ""
	}
	if loc != nil {
		t = t.In(loc)
	}
	return t.Format(TimeLayout)
}
