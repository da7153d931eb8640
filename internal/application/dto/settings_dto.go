package dto

import "time"

// SettingsResponse configuración actual.
type SettingsResponse struct {
	LowStockThreshold   int        `json:"lowStockThreshold"`
	RemoteURL           string     `json:"remoteUrl"`
	AutoSyncEnabled     bool       `json:"autoSyncEnabled"`
	SyncIntervalMinutes int        `json:"syncInterval"`
	LastSyncTime        *time.Time `json:"lastSyncTime,omitempty"`
}

// UpdateSettingsRequest cambios parciales de configuración de sincronización.
type UpdateSettingsRequest struct {
	RemoteURL           *string `json:"remoteUrl" validate:"omitempty,url"`
	AutoSyncEnabled     *bool   `json:"autoSyncEnabled"`
	SyncIntervalMinutes *int    `json:"syncInterval" validate:"omitempty,min=1,max=1440"`
	LowStockThreshold   *int    `json:"lowStockThreshold" validate:"omitempty,min=0"`
}

// ThresholdRequest body para PUT /api/settings/threshold.
type ThresholdRequest struct {
	Threshold *int `json:"threshold" validate:"required"`
}
