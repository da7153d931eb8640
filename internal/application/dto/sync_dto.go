package dto

import "time"

// SyncDirectionStatus estado de una dirección de sincronización.
type SyncDirectionStatus struct {
	State      string     `json:"state"`
	LastResult string     `json:"lastResult,omitempty"`
	LastError  string     `json:"lastError,omitempty"`
	LastRunAt  *time.Time `json:"lastRunAt,omitempty"`
}

// SyncStatusResponse salida de GET /api/sync/status.
type SyncStatusResponse struct {
	Push         SyncDirectionStatus `json:"push"`
	Pull         SyncDirectionStatus `json:"pull"`
	LastSyncTime *time.Time          `json:"lastSyncTime,omitempty"`
	RemoteURL    string              `json:"remoteUrl"`
	AutoSync     bool                `json:"autoSyncEnabled"`
}

// PullResponse resumen de un pull.
type PullResponse struct {
	Replaced []string `json:"replaced"`
}
