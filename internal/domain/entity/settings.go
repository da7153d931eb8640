package entity

import "time"

// Valores por defecto de configuración de la sesión.
const (
	DefaultLowStockThreshold   = 5
	DefaultSyncIntervalMinutes = 5
)

// Settings configuración persistida junto con las colecciones.
type Settings struct {
	LowStockThreshold   int        `json:"lowStockThreshold"`
	RemoteURL           string     `json:"remoteUrl"`
	AutoSyncEnabled     bool       `json:"autoSyncEnabled"`
	SyncIntervalMinutes int        `json:"syncInterval"`
	LastSyncTime        *time.Time `json:"lastSyncTime,omitempty"`
}

// DefaultSettings devuelve la configuración inicial.
func DefaultSettings() Settings {
	return Settings{
		LowStockThreshold:   DefaultLowStockThreshold,
		SyncIntervalMinutes: DefaultSyncIntervalMinutes,
	}
}
