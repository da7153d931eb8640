package inventory

import (
	"fmt"
	"sort"
	"time"

	"github.com/jhoicas/stocksync/internal/application/dto"
	"github.com/jhoicas/stocksync/internal/domain"
	"github.com/jhoicas/stocksync/internal/domain/entity"
	"github.com/jhoicas/stocksync/internal/domain/inventory"
)

// recentRecordsLimit registros mostrados en el dashboard.
const recentRecordsLimit = 5

const (
	unknownProduct  = "Producto desconocido"
	unknownLocation = "Ubicación desconocida"
)

// Classify clasifica una cantidad con el umbral configurado.
func (e *Engine) Classify(quantity int) entity.StockStatus {
	return inventory.ClassifyStock(quantity, e.store.Settings().LowStockThreshold)
}

// names índices id → producto/ubicación para desnormalizar reportes.
type names struct {
	products  map[string]entity.Product
	locations map[string]entity.Location
}

func (e *Engine) names() names {
	n := names{products: map[string]entity.Product{}, locations: map[string]entity.Location{}}
	for _, p := range e.store.Products() {
		n.products[p.ID] = p
	}
	for _, l := range e.store.Locations() {
		n.locations[l.ID] = l
	}
	return n
}

func (n names) product(id string) (name, unit string) {
	if p, ok := n.products[id]; ok {
		return p.Name, p.Unit
	}
	return unknownProduct, ""
}

func (n names) location(id string) string {
	if l, ok := n.locations[id]; ok {
		return l.Name
	}
	return unknownLocation
}

// LowStockAlerts devuelve las líneas con cantidad <= umbral (incluye agotadas), en orden del inventario.
func (e *Engine) LowStockAlerts() []dto.LowStockAlert {
	threshold := e.store.Settings().LowStockThreshold
	n := e.names()
	out := make([]dto.LowStockAlert, 0)
	for _, l := range e.store.Lines() {
		if l.Quantity > threshold {
			continue
		}
		name, unit := n.product(l.ProductID)
		out = append(out, dto.LowStockAlert{
			ProductID:    l.ProductID,
			ProductName:  name,
			LocationID:   l.LocationID,
			LocationName: n.location(l.LocationID),
			Quantity:     l.Quantity,
			Unit:         unit,
			Status:       string(inventory.ClassifyStock(l.Quantity, threshold)),
		})
	}
	return out
}

// Dashboard totales del día, últimos movimientos y alertas de stock bajo.
func (e *Engine) Dashboard(now time.Time) dto.DashboardResponse {
	lines := e.store.Lines()
	records := e.store.Records()
	n := e.names()

	total := 0
	for _, l := range lines {
		total += l.Quantity
	}
	y, m, d := now.Date()
	today := 0
	for _, r := range records {
		ry, rm, rd := r.Timestamp.In(now.Location()).Date()
		if ry == y && rm == m && rd == d {
			today++
		}
	}

	recent := make([]dto.RecordRow, 0, recentRecordsLimit)
	for i := len(records) - 1; i >= 0 && len(recent) < recentRecordsLimit; i-- {
		recent = append(recent, n.recordRow(records[i]))
	}

	alerts := e.LowStockAlerts()
	return dto.DashboardResponse{
		TotalProducts:  len(e.store.Products()),
		TotalLocations: len(e.store.Locations()),
		TotalQuantity:  total,
		TodayRecords:   today,
		LowStockCount:  len(alerts),
		RecentRecords:  recent,
		LowStock:       alerts,
	}
}

// InventoryView líneas desnormalizadas con estado, filtradas por ubicación y/o producto.
func (e *Engine) InventoryView(f dto.InventoryFilter) []dto.InventoryRow {
	threshold := e.store.Settings().LowStockThreshold
	n := e.names()
	out := make([]dto.InventoryRow, 0)
	for _, l := range e.store.Lines() {
		if f.LocationID != "" && l.LocationID != f.LocationID {
			continue
		}
		if f.ProductID != "" && l.ProductID != f.ProductID {
			continue
		}
		name, unit := n.product(l.ProductID)
		status := inventory.ClassifyStock(l.Quantity, threshold)
		out = append(out, dto.InventoryRow{
			LocationID:   l.LocationID,
			LocationName: n.location(l.LocationID),
			ProductID:    l.ProductID,
			ProductName:  name,
			Unit:         unit,
			Quantity:     l.Quantity,
			Status:       string(status),
			StatusLabel:  status.Label(),
			LastUpdated:  l.LastUpdated,
		})
	}
	return out
}

// RecordView registros filtrados por tipo y rango de fechas, más recientes primero.
// To incluye el día completo. Las fechas se interpretan en la zona horaria de loc.
func (e *Engine) RecordView(f dto.RecordFilter, loc *time.Location) ([]dto.RecordRow, error) {
	if loc == nil {
		loc = time.Local
	}
	if f.Type != "" && !entity.TransactionType(f.Type).Valid() {
		return nil, fmt.Errorf("%w: tipo %q", domain.ErrInvalidInput, f.Type)
	}
	var from, to time.Time
	if f.From != "" {
		t, err := time.ParseInLocation(time.DateOnly, f.From, loc)
		if err != nil {
			return nil, fmt.Errorf("%w: fecha desde %q", domain.ErrInvalidInput, f.From)
		}
		from = t
	}
	if f.To != "" {
		t, err := time.ParseInLocation(time.DateOnly, f.To, loc)
		if err != nil {
			return nil, fmt.Errorf("%w: fecha hasta %q", domain.ErrInvalidInput, f.To)
		}
		to = t.AddDate(0, 0, 1)
	}

	n := e.names()
	records := e.store.Records()
	out := make([]dto.RecordRow, 0, len(records))
	for _, r := range records {
		if f.Type != "" && string(r.Type) != f.Type {
			continue
		}
		if !from.IsZero() && r.Timestamp.Before(from) {
			continue
		}
		if !to.IsZero() && !r.Timestamp.Before(to) {
			continue
		}
		out = append(out, n.recordRow(r))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	return out, nil
}

func (n names) recordRow(r entity.TransactionRecord) dto.RecordRow {
	name, unit := n.product(r.ProductID)
	return dto.RecordRow{
		ID:           r.ID,
		Type:         string(r.Type),
		TypeLabel:    typeLabel(r.Type),
		LocationID:   r.LocationID,
		LocationName: n.location(r.LocationID),
		ProductID:    r.ProductID,
		ProductName:  name,
		Unit:         unit,
		Quantity:     r.Quantity,
		Operator:     r.Operator,
		Timestamp:    r.Timestamp,
		Note:         r.Note,
	}
}

func typeLabel(t entity.TransactionType) string {
	if t == entity.TransactionIn {
		return "Entrada"
	}
	return "Salida"
}
