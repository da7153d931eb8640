package repository

import "context"

// Claves de persistencia de la configuración. Las colecciones usan entity.Collection*.
const (
	KeyLowStockThreshold = "lowStockThreshold"
	KeyRemoteURL         = "remoteUrl"
	KeyAutoSyncEnabled   = "autoSyncEnabled"
	KeySyncInterval      = "syncInterval"
	KeyLastSyncTime      = "lastSyncTime"
)

// SettingsKeys lista las claves de configuración en orden estable.
var SettingsKeys = []string{KeyLowStockThreshold, KeyRemoteURL, KeyAutoSyncEnabled, KeySyncInterval, KeyLastSyncTime}

// KeyValueStore define el puerto de persistencia durable (DIP).
// Guarda documentos JSON por clave y debe devolverlos byte a byte.
type KeyValueStore interface {
	// Load devuelve (nil, false, nil) si la clave no existe.
	Load(ctx context.Context, key string) ([]byte, bool, error)
	Save(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// BatchKeyValueStore implementación opcional que guarda varias claves en una sola transacción.
type BatchKeyValueStore interface {
	KeyValueStore
	SaveBatch(ctx context.Context, entries []KeyValue) error
}

// KeyValue par clave/documento JSON.
type KeyValue struct {
	Key   string
	Value []byte
}
