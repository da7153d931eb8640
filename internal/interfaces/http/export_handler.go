package http

import (
	"bytes"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stocksync/internal/application/dto"
	"github.com/jhoicas/stocksync/internal/application/inventory"
	"github.com/jhoicas/stocksync/internal/infrastructure/export"
	"github.com/jhoicas/stocksync/internal/infrastructure/pdf"
)

const (
	contentTypeCSV  = "text/csv; charset=utf-8"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypePDF  = "application/pdf"
)

// ReportPDFGenerator genera el PDF imprimible del inventario.
type ReportPDFGenerator interface {
	GenerateInventoryPDF(r pdf.InventoryReport) ([]byte, error)
}

// ExportHandler descargas de inventario y movimientos.
type ExportHandler struct {
	engine *inventory.Engine
	pdf    ReportPDFGenerator
	loc    *time.Location
	now    func() time.Time
}

// NewExportHandler construye el handler.
func NewExportHandler(engine *inventory.Engine, gen ReportPDFGenerator, loc *time.Location, now func() time.Time) *ExportHandler {
	if loc == nil {
		loc = time.Local
	}
	if now == nil {
		now = time.Now
	}
	return &ExportHandler{engine: engine, pdf: gen, loc: loc, now: now}
}

// InventoryCSV godoc
// @Summary      Inventario en CSV (UTF-8 con BOM)
// @Tags         export
// @Security     Bearer
// @Produce      text/csv
// @Param        location  query  string  false  "ID de ubicación"
// @Param        product   query  string  false  "ID de producto"
// @Success      200
// @Router       /api/export/inventory.csv [get]
func (h *ExportHandler) InventoryCSV(c *fiber.Ctx) error {
	return h.inventory(c, "csv")
}

// InventoryXLSX godoc
// @Summary      Inventario en Excel
// @Tags         export
// @Security     Bearer
// @Success      200
// @Router       /api/export/inventory.xlsx [get]
func (h *ExportHandler) InventoryXLSX(c *fiber.Ctx) error {
	return h.inventory(c, "xlsx")
}

// RecordsCSV godoc
// @Summary      Movimientos en CSV (UTF-8 con BOM), mismos filtros que /api/records
// @Tags         export
// @Security     Bearer
// @Produce      text/csv
// @Success      200
// @Router       /api/export/records.csv [get]
func (h *ExportHandler) RecordsCSV(c *fiber.Ctx) error {
	return h.records(c, "csv")
}

// RecordsXLSX godoc
// @Summary      Movimientos en Excel
// @Tags         export
// @Security     Bearer
// @Success      200
// @Router       /api/export/records.xlsx [get]
func (h *ExportHandler) RecordsXLSX(c *fiber.Ctx) error {
	return h.records(c, "xlsx")
}

// InventoryPDF godoc
// @Summary      Reporte de inventario imprimible
// @Tags         export
// @Security     Bearer
// @Produce      application/pdf
// @Success      200
// @Router       /api/export/inventory.pdf [get]
func (h *ExportHandler) InventoryPDF(c *fiber.Ctx) error {
	var f dto.InventoryFilter
	if err := parseQuery(c, &f); err != nil {
		return writeError(c, err)
	}
	now := h.now().In(h.loc)
	out, err := h.pdf.GenerateInventoryPDF(pdf.InventoryReport{
		GeneratedAt: now,
		Threshold:   h.engine.Settings().LowStockThreshold,
		Rows:        h.engine.InventoryView(f),
		Alerts:      h.engine.LowStockAlerts(),
	})
	if err != nil {
		return writeError(c, err)
	}
	return h.send(c, "inventario", "pdf", contentTypePDF, out)
}

func (h *ExportHandler) inventory(c *fiber.Ctx, format string) error {
	var f dto.InventoryFilter
	if err := parseQuery(c, &f); err != nil {
		return writeError(c, err)
	}
	return h.write(c, "inventario", format, export.InventoryTable(h.engine.InventoryView(f), h.loc))
}

func (h *ExportHandler) records(c *fiber.Ctx, format string) error {
	var f dto.RecordFilter
	if err := parseQuery(c, &f); err != nil {
		return writeError(c, err)
	}
	rows, err := h.engine.RecordView(f, h.loc)
	if err != nil {
		return writeError(c, err)
	}
	return h.write(c, "movimientos", format, export.RecordTable(rows, h.loc))
}

func (h *ExportHandler) write(c *fiber.Ctx, name, format string, t export.Table) error {
	var buf bytes.Buffer
	var err error
	contentType := contentTypeCSV
	if format == "xlsx" {
		contentType = contentTypeXLSX
		err = export.WriteXLSX(&buf, t)
	} else {
		err = export.WriteCSV(&buf, t)
	}
	if err != nil {
		return writeError(c, err)
	}
	return h.send(c, name, format, contentType, buf.Bytes())
}

func (h *ExportHandler) send(c *fiber.Ctx, name, ext, contentType string, body []byte) error {
	filename := fmt.Sprintf("%s_%s.%s", name, h.now().In(h.loc).Format("2006-01-02"), ext)
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(body)
}
