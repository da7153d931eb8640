package sheet

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/stocksync/internal/domain/entity"
	"github.com/jhoicas/stocksync/internal/infrastructure/remote"
)

// Handler atiende el protocolo de acciones (test/sync/pull) sobre el Workbook.
type Handler struct {
	wb  *Workbook
	log zerolog.Logger
	now func() time.Time
}

// NewHandler construye el handler.
func NewHandler(wb *Workbook, log zerolog.Logger) *Handler {
	return &Handler{wb: wb, log: log, now: time.Now}
}

// Register monta el endpoint en path (p. ej. "/exec").
func (h *Handler) Register(app fiber.Router, path string) {
	app.Post(path, h.Handle)
}

// Handle responde siempre 200 con un Envelope; los errores van en success=false.
func (h *Handler) Handle(c *fiber.Ctx) error {
	action := c.FormValue(remote.FieldAction)
	switch action {
	case remote.ActionTest:
		return c.JSON(h.ok(nil, "conexión exitosa"))
	case remote.ActionSync:
		if err := h.sync(c.FormValue(remote.FieldDataType), c.FormValue(remote.FieldData)); err != nil {
			h.log.Warn().Err(err).Msg("sync rechazado")
			return c.JSON(remote.Envelope{Success: false, Error: "sincronización fallida: " + err.Error()})
		}
		return c.JSON(h.ok(nil, "sincronización completada"))
	case remote.ActionPull:
		data, err := h.pull()
		if err != nil {
			return c.JSON(remote.Envelope{Success: false, Error: "pull fallido: " + err.Error()})
		}
		return c.JSON(h.ok(data, ""))
	default:
		return c.JSON(remote.Envelope{Success: false, Error: "acción desconocida: " + action})
	}
}

func (h *Handler) ok(data json.RawMessage, msg string) remote.Envelope {
	return remote.Envelope{Success: true, Data: data, Message: msg, Timestamp: h.now().UTC().Format(time.RFC3339)}
}

// sync guarda una colección (dataType) o todas las presentes (dataType=all).
func (h *Handler) sync(dataType, data string) error {
	if dataType == "all" {
		var all map[string]json.RawMessage
		if err := json.Unmarshal([]byte(data), &all); err != nil {
			return fmt.Errorf("data inválido: %w", err)
		}
		for _, name := range entity.Collections {
			raw, ok := all[name]
			if !ok || string(raw) == "null" {
				continue
			}
			if err := h.replace(name, raw); err != nil {
				return err
			}
		}
		h.log.Info().Msg("snapshot completo guardado")
		return nil
	}
	if !entity.IsCollection(dataType) {
		return fmt.Errorf("dataType desconocido %q", dataType)
	}
	return h.replace(dataType, json.RawMessage(data))
}

func (h *Handler) replace(name string, raw json.RawMessage) error {
	var items []map[string]any
	if err := json.Unmarshal(raw, &items); err != nil {
		return fmt.Errorf("%s inválido: %w", name, err)
	}
	if err := h.wb.Replace(name, items); err != nil {
		return err
	}
	h.log.Debug().Str("collection", name).Int("rows", len(items)).Msg("hoja actualizada")
	return nil
}

func (h *Handler) pull() (json.RawMessage, error) {
	data := map[string]any{"lastPull": h.now().UTC().Format(time.RFC3339)}
	for _, name := range entity.Collections {
		data[name] = h.wb.Rows(name)
	}
	return json.Marshal(data)
}
