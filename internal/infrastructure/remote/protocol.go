// Package remote implementa el cliente HTTP del protocolo de acciones del backend remoto
// (test/sync/pull enviados como formulario; respuesta JSON con success/data/error).
package remote

import "encoding/json"

// Acciones del protocolo.
const (
	ActionTest = "test"
	ActionSync = "sync"
	ActionPull = "pull"
)

// Campos del formulario.
const (
	FieldAction   = "action"
	FieldDataType = "dataType"
	FieldData     = "data"
)

// Envelope respuesta JSON del backend.
type Envelope struct {
	Success   bool            `json:"success"`
	Data      json.RawMessage `json:"data,omitempty"`
	Error     string          `json:"error,omitempty"`
	Message   string          `json:"message,omitempty"`
	Timestamp string          `json:"timestamp,omitempty"`
}
