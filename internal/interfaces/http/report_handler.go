package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stocksync/internal/application/dto"
	"github.com/jhoicas/stocksync/internal/application/inventory"
)

// ReportHandler vistas de solo lectura: inventario, movimientos, alertas y dashboard.
type ReportHandler struct {
	engine *inventory.Engine
	loc    *time.Location
	now    func() time.Time
}

// NewReportHandler construye el handler. loc es la zona para filtros por fecha y el "hoy" del dashboard.
func NewReportHandler(engine *inventory.Engine, loc *time.Location, now func() time.Time) *ReportHandler {
	if loc == nil {
		loc = time.Local
	}
	if now == nil {
		now = time.Now
	}
	return &ReportHandler{engine: engine, loc: loc, now: now}
}

// Inventory godoc
// @Summary      Inventario por ubicación/producto con estado de stock
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        location  query  string  false  "ID de ubicación"
// @Param        product   query  string  false  "ID de producto"
// @Success      200  {array}  dto.InventoryRow
// @Router       /api/inventory [get]
func (h *ReportHandler) Inventory(c *fiber.Ctx) error {
	var f dto.InventoryFilter
	if err := parseQuery(c, &f); err != nil {
		return writeError(c, err)
	}
	return c.JSON(h.engine.InventoryView(f))
}

// Records godoc
// @Summary      Movimientos (más recientes primero) con filtros y paginación
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        type    query  string  false  "in | out"
// @Param        from    query  string  false  "YYYY-MM-DD"
// @Param        to      query  string  false  "YYYY-MM-DD (incluye todo el día)"
// @Param        limit   query  int     false  "Límite"  default(100)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.RecordListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/records [get]
func (h *ReportHandler) Records(c *fiber.Ctx) error {
	var f dto.RecordFilter
	if err := parseQuery(c, &f); err != nil {
		return writeError(c, err)
	}
	var page dto.PageRequest
	if err := parseQuery(c, &page); err != nil {
		return writeError(c, err)
	}
	page.DefaultPage()

	rows, err := h.engine.RecordView(f, h.loc)
	if err != nil {
		return writeError(c, err)
	}
	total := len(rows)
	start := min(page.Offset, total)
	end := min(start+page.Limit, total)
	return c.JSON(dto.RecordListResponse{
		Items: rows[start:end],
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	})
}

// Alerts godoc
// @Summary      Líneas en stock bajo o agotadas
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.LowStockAlert
// @Router       /api/alerts [get]
func (h *ReportHandler) Alerts(c *fiber.Ctx) error {
	return c.JSON(h.engine.LowStockAlerts())
}

// Dashboard godoc
// @Summary      Resumen: totales, movimientos de hoy, alertas y últimos movimientos
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.DashboardResponse
// @Router       /api/dashboard [get]
func (h *ReportHandler) Dashboard(c *fiber.Ctx) error {
	return c.JSON(h.engine.Dashboard(h.now().In(h.loc)))
}
