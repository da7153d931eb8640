package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stocksync/internal/application/cloudsync"
	"github.com/jhoicas/stocksync/internal/application/dto"
	"github.com/jhoicas/stocksync/internal/application/inventory"
)

// SyncHandler operaciones manuales contra el backend remoto.
type SyncHandler struct {
	reconciler *cloudsync.Reconciler
	engine     *inventory.Engine
}

// NewSyncHandler construye el handler.
func NewSyncHandler(reconciler *cloudsync.Reconciler, engine *inventory.Engine) *SyncHandler {
	return &SyncHandler{reconciler: reconciler, engine: engine}
}

// Test godoc
// @Summary      Probar conexión con el backend remoto
// @Tags         sync
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.MessageResponse
// @Failure      412  {object}  dto.ErrorResponse  "REMOTE_NOT_CONFIGURED"
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/sync/test [post]
func (h *SyncHandler) Test(c *fiber.Ctx) error {
	if err := h.reconciler.Test(c.UserContext()); err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "conexión exitosa"})
}

// Push godoc
// @Summary      Enviar el snapshot completo (con reintentos ante fallas de red)
// @Tags         sync
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.SyncStatusResponse
// @Failure      409  {object}  dto.ErrorResponse  "SYNC_IN_PROGRESS"
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/sync/push [post]
func (h *SyncHandler) Push(c *fiber.Ctx) error {
	if err := h.reconciler.Push(c.UserContext()); err != nil {
		return writeError(c, err)
	}
	return c.JSON(h.status())
}

// PushCollection godoc
// @Summary      Enviar una sola colección
// @Tags         sync
// @Security     Bearer
// @Produce      json
// @Param        collection  path  string  true  "products | locations | inventory | records"
// @Success      200  {object}  dto.SyncStatusResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/sync/push/{collection} [post]
func (h *SyncHandler) PushCollection(c *fiber.Ctx) error {
	if err := h.reconciler.PushCollection(c.UserContext(), c.Params("collection")); err != nil {
		return writeError(c, err)
	}
	return c.JSON(h.status())
}

// Pull godoc
// @Summary      Traer el snapshot remoto y reemplazar las colecciones recibidas
// @Tags         sync
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.PullResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/sync/pull [post]
func (h *SyncHandler) Pull(c *fiber.Ctx) error {
	res, err := h.reconciler.Pull(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	replaced := res.Replaced
	if replaced == nil {
		replaced = []string{}
	}
	return c.JSON(dto.PullResponse{Replaced: replaced})
}

// Status godoc
// @Summary      Estado de push/pull y última sincronización
// @Tags         sync
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.SyncStatusResponse
// @Router       /api/sync/status [get]
func (h *SyncHandler) Status(c *fiber.Ctx) error {
	return c.JSON(h.status())
}

func (h *SyncHandler) status() dto.SyncStatusResponse {
	s := h.reconciler.Status()
	st := h.engine.Settings()
	return dto.SyncStatusResponse{
		Push:         toDirectionStatus(s.Push),
		Pull:         toDirectionStatus(s.Pull),
		LastSyncTime: s.LastSyncTime,
		RemoteURL:    st.RemoteURL,
		AutoSync:     st.AutoSyncEnabled,
	}
}

func toDirectionStatus(d cloudsync.DirectionStatus) dto.SyncDirectionStatus {
	out := dto.SyncDirectionStatus{State: string(d.State), LastResult: d.LastResult, LastRunAt: d.LastRunAt}
	if d.LastError != nil {
		out.LastError = d.LastError.Error()
	}
	return out
}
