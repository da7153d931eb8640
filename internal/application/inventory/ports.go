package inventory

import "context"

// ChangeListener recibe los nombres modificados (colecciones y/o store.SettingsKey)
// después de cada mutación confirmada y persistida. La sincronización automática lo usa.
type ChangeListener interface {
	OnChange(ctx context.Context, touched []string)
}

// BackupSink almacenamiento externo para respaldos JSON (p. ej. S3).
type BackupSink interface {
	Put(ctx context.Context, key string, body []byte) error
}
