package http

import (
	"encoding/json"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stocksync/internal/application/dto"
	"github.com/jhoicas/stocksync/internal/application/inventory"
	"github.com/jhoicas/stocksync/internal/domain"
)

// BackupHandler respaldo, restauración y borrado total.
type BackupHandler struct {
	engine *inventory.Engine
	sink   inventory.BackupSink
}

// NewBackupHandler construye el handler. sink puede ser nil (sin respaldo externo).
func NewBackupHandler(engine *inventory.Engine, sink inventory.BackupSink) *BackupHandler {
	return &BackupHandler{engine: engine, sink: sink}
}

// Download godoc
// @Summary      Descargar respaldo JSON (colecciones + configuración)
// @Tags         backup
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.BackupDocument
// @Router       /api/backup [get]
func (h *BackupHandler) Download(c *fiber.Ctx) error {
	doc := h.engine.Backup()
	body, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return writeError(c, err)
	}
	filename := "inventory-backup-" + doc.Timestamp.Format("2006-01-02") + ".json"
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSONCharsetUTF8)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(body)
}

// Restore godoc
// @Summary      Restaurar desde un respaldo (reemplaza todo; solo admin)
// @Tags         backup
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.BackupDocument  true  "Respaldo"
// @Success      200   {object}  dto.MessageResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/backup/restore [post]
func (h *BackupHandler) Restore(c *fiber.Ctx) error {
	var doc dto.BackupDocument
	if err := c.BodyParser(&doc); err != nil {
		return writeError(c, fmt.Errorf("%w: respaldo inválido", domain.ErrInvalidInput))
	}
	if err := h.engine.Restore(c.UserContext(), doc); err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "datos restaurados"})
}

// Upload godoc
// @Summary      Subir un respaldo al almacenamiento externo (S3)
// @Tags         backup
// @Security     Bearer
// @Produce      json
// @Success      201  {object}  dto.BackupUploadResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/backup/upload [post]
func (h *BackupHandler) Upload(c *fiber.Ctx) error {
	if h.sink == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "BACKUP_NOT_CONFIGURED", Message: "almacenamiento de respaldos no configurado"})
	}
	key, err := h.engine.UploadBackup(c.UserContext(), h.sink)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.BackupUploadResponse{Key: key})
}

// Clear godoc
// @Summary      Borrar todos los datos (solo admin)
// @Tags         backup
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.MessageResponse
// @Router       /api/data [delete]
func (h *BackupHandler) Clear(c *fiber.Ctx) error {
	if err := h.engine.ClearAll(c.UserContext()); err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "datos eliminados"})
}
