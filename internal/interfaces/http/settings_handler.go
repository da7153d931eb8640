package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stocksync/internal/application/dto"
	"github.com/jhoicas/stocksync/internal/application/inventory"
	"github.com/jhoicas/stocksync/internal/domain/entity"
)

// SettingsHandler configuración de umbral y sincronización.
type SettingsHandler struct {
	engine *inventory.Engine
}

// NewSettingsHandler construye el handler.
func NewSettingsHandler(engine *inventory.Engine) *SettingsHandler {
	return &SettingsHandler{engine: engine}
}

func toSettingsResponse(st entity.Settings) dto.SettingsResponse {
	return dto.SettingsResponse{
		LowStockThreshold:   st.LowStockThreshold,
		RemoteURL:           st.RemoteURL,
		AutoSyncEnabled:     st.AutoSyncEnabled,
		SyncIntervalMinutes: st.SyncIntervalMinutes,
		LastSyncTime:        st.LastSyncTime,
	}
}

// Get godoc
// @Summary      Configuración actual
// @Tags         settings
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.SettingsResponse
// @Router       /api/settings [get]
func (h *SettingsHandler) Get(c *fiber.Ctx) error {
	return c.JSON(toSettingsResponse(h.engine.Settings()))
}

// Update godoc
// @Summary      Cambios parciales de configuración (reprograma la sincronización automática)
// @Tags         settings
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.UpdateSettingsRequest  true  "Campos a cambiar"
// @Success      200   {object}  dto.SettingsResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/settings [put]
func (h *SettingsHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateSettingsRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	st, err := h.engine.UpdateSettings(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toSettingsResponse(st))
}

// SetThreshold godoc
// @Summary      Cambiar el umbral de stock bajo
// @Tags         settings
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ThresholdRequest  true  "Umbral"
// @Success      200   {object}  dto.SettingsResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/settings/threshold [put]
func (h *SettingsHandler) SetThreshold(c *fiber.Ctx) error {
	var in dto.ThresholdRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	if err := h.engine.SetLowStockThreshold(c.UserContext(), *in.Threshold); err != nil {
		return writeError(c, err)
	}
	return c.JSON(toSettingsResponse(h.engine.Settings()))
}
