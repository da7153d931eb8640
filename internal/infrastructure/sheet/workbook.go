// Package sheet es un backend remoto de referencia: guarda cada colección en una hoja
// de un libro .xlsx (excelize), con la fila 1 como encabezado, y atiende el protocolo de acciones.
package sheet

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"sync"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/stocksync/internal/domain/entity"
)

// Layout de cada colección: nombre de hoja y columnas (en orden).
type layout struct {
	sheet   string
	headers []string
	numeric map[string]bool
}

var layouts = map[string]layout{
	entity.CollectionProducts: {
		sheet:   "Productos",
		headers: []string{"id", "name", "description", "unit"},
	},
	entity.CollectionLocations: {
		sheet:   "Ubicaciones",
		headers: []string{"id", "name", "address", "description"},
	},
	entity.CollectionInventory: {
		sheet:   "Inventario",
		headers: []string{"locationId", "productId", "quantity", "lastUpdated"},
		numeric: map[string]bool{"quantity": true},
	},
	entity.CollectionRecords: {
		sheet:   "Movimientos",
		headers: []string{"id", "type", "locationId", "productId", "quantity", "operator", "timestamp", "note"},
		numeric: map[string]bool{"quantity": true},
	},
}

// Row fila de una hoja; las celdas vacías se leen como nil.
type Row map[string]any

// Workbook libro en memoria respaldado por un archivo .xlsx (path vacío = solo memoria).
type Workbook struct {
	mu   sync.RWMutex
	path string
	data map[string][]Row
}

// Open carga el libro de path si existe; si no, empieza vacío.
func Open(path string) (*Workbook, error) {
	wb := &Workbook{path: path, data: map[string][]Row{}}
	if path == "" {
		return wb, nil
	}
	f, err := excelize.OpenFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return wb, nil
	}
	if err != nil {
		return nil, fmt.Errorf("sheet: abrir %s: %w", path, err)
	}
	defer f.Close()
	for name, lay := range layouts {
		rows, err := readSheet(f, lay)
		if err != nil {
			return nil, err
		}
		wb.data[name] = rows
	}
	return wb, nil
}

// Replace reemplaza el contenido de una colección y reescribe el archivo.
// Los valores se guardan como texto, igual que en una hoja de cálculo.
func (wb *Workbook) Replace(collection string, items []map[string]any) error {
	lay, ok := layouts[collection]
	if !ok {
		return fmt.Errorf("sheet: colección desconocida %q", collection)
	}
	rows := make([]Row, 0, len(items))
	for _, it := range items {
		row := Row{}
		blank := true
		for _, h := range lay.headers {
			row[h] = normalize(lay, h, cellText(it[h]))
			if row[h] != nil {
				blank = false
			}
		}
		if !blank {
			rows = append(rows, row)
		}
	}

	wb.mu.Lock()
	defer wb.mu.Unlock()
	prev, had := wb.data[collection]
	wb.data[collection] = rows
	if err := wb.save(); err != nil {
		if had {
			wb.data[collection] = prev
		} else {
			delete(wb.data, collection)
		}
		return err
	}
	return nil
}

// Rows devuelve las filas de una colección (vacío si nunca se sincronizó).
func (wb *Workbook) Rows(collection string) []Row {
	wb.mu.RLock()
	defer wb.mu.RUnlock()
	rows := wb.data[collection]
	out := make([]Row, len(rows))
	copy(out, rows)
	return out
}

// save escribe un libro nuevo con las cuatro hojas. Debe llamarse con mu tomado.
func (wb *Workbook) save() error {
	if wb.path == "" {
		return nil
	}
	f := excelize.NewFile()
	defer f.Close()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("sheet: estilo: %w", err)
	}
	first := true
	for _, name := range entity.Collections {
		lay := layouts[name]
		if first {
			if err := f.SetSheetName("Sheet1", lay.sheet); err != nil {
				return fmt.Errorf("sheet: renombrar hoja: %w", err)
			}
			first = false
		} else if _, err := f.NewSheet(lay.sheet); err != nil {
			return fmt.Errorf("sheet: crear hoja %s: %w", lay.sheet, err)
		}

		header := make([]any, len(lay.headers))
		for i, h := range lay.headers {
			header[i] = h
		}
		if err := f.SetSheetRow(lay.sheet, "A1", &header); err != nil {
			return fmt.Errorf("sheet: encabezado %s: %w", lay.sheet, err)
		}
		last, _ := excelize.CoordinatesToCellName(len(lay.headers), 1)
		if err := f.SetCellStyle(lay.sheet, "A1", last, bold); err != nil {
			return fmt.Errorf("sheet: estilo %s: %w", lay.sheet, err)
		}

		for i, row := range wb.data[name] {
			values := make([]any, len(lay.headers))
			for j, h := range lay.headers {
				values[j] = cellText(row[h])
			}
			cell, _ := excelize.CoordinatesToCellName(1, i+2)
			if err := f.SetSheetRow(lay.sheet, cell, &values); err != nil {
				return fmt.Errorf("sheet: fila %d de %s: %w", i+2, lay.sheet, err)
			}
		}
	}
	if err := f.SaveAs(wb.path); err != nil {
		return fmt.Errorf("sheet: guardar %s: %w", wb.path, err)
	}
	return nil
}

func readSheet(f *excelize.File, lay layout) ([]Row, error) {
	if idx, _ := f.GetSheetIndex(lay.sheet); idx < 0 {
		return []Row{}, nil
	}
	all, err := f.GetRows(lay.sheet)
	if err != nil {
		return nil, fmt.Errorf("sheet: leer %s: %w", lay.sheet, err)
	}
	rows := make([]Row, 0, len(all))
	for i, cells := range all {
		if i == 0 {
			continue
		}
		row := Row{}
		blank := true
		for j, h := range lay.headers {
			text := ""
			if j < len(cells) {
				text = cells[j]
			}
			if text != "" {
				blank = false
			}
			row[h] = normalize(lay, h, text)
		}
		if !blank {
			rows = append(rows, row)
		}
	}
	return rows, nil
}

// normalize convierte el texto de una celda al valor devuelto por pull:
// vacío => nil; columnas numéricas => int cuando es posible.
func normalize(lay layout, header, text string) any {
	if text == "" {
		return nil
	}
	if lay.numeric[header] {
		if n, err := strconv.Atoi(text); err == nil {
			return n
		}
		if f, err := strconv.ParseFloat(text, 64); err == nil {
			return int(f)
		}
	}
	return text
}

func cellText(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}
