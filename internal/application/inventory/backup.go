package inventory

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jhoicas/stocksync/internal/application/dto"
	"github.com/jhoicas/stocksync/internal/domain"
	"github.com/jhoicas/stocksync/internal/domain/entity"
	"github.com/jhoicas/stocksync/internal/domain/store"
)

// Backup arma el documento de respaldo con las colecciones y la configuración.
func (e *Engine) Backup() dto.BackupDocument {
	snap := e.store.Snapshot()
	st := e.store.Settings()
	auto := st.AutoSyncEnabled
	return dto.BackupDocument{
		Products:          snap.Products,
		Locations:         snap.Locations,
		Inventory:         snap.Inventory,
		Records:           snap.Records,
		LowStockThreshold: st.LowStockThreshold,
		RemoteURL:         st.RemoteURL,
		AutoSyncEnabled:   &auto,
		SyncInterval:      st.SyncIntervalMinutes,
		Timestamp:         e.now().UTC(),
	}
}

// Restore reemplaza todo con el contenido del respaldo. Las cuatro colecciones son obligatorias;
// un umbral 0 vuelve al valor por defecto y la configuración remota solo se aplica si viene informada.
func (e *Engine) Restore(ctx context.Context, doc dto.BackupDocument) error {
	if doc.Products == nil || doc.Locations == nil || doc.Inventory == nil || doc.Records == nil {
		return fmt.Errorf("%w: formato de respaldo inválido", domain.ErrInvalidInput)
	}
	if err := validateBackup(doc); err != nil {
		e.log.Warn().Err(err).Msg("respaldo rechazado")
		return err
	}
	return e.apply(ctx, "restore", func(tx *store.Tx) error {
		tx.Replace(entity.Snapshot{
			Products:  doc.Products,
			Locations: doc.Locations,
			Inventory: doc.Inventory,
			Records:   doc.Records,
		})
		st := tx.Settings()
		st.LowStockThreshold = doc.LowStockThreshold
		if st.LowStockThreshold <= 0 {
			st.LowStockThreshold = entity.DefaultLowStockThreshold
		}
		if doc.RemoteURL != "" {
			st.RemoteURL = doc.RemoteURL
		}
		if doc.AutoSyncEnabled != nil {
			st.AutoSyncEnabled = *doc.AutoSyncEnabled
		}
		if doc.SyncInterval > 0 {
			st.SyncIntervalMinutes = doc.SyncInterval
		}
		tx.SetSettings(st)
		return nil
	})
}

// validateBackup exige ids únicos y no vacíos, cantidades válidas y referencias existentes,
// las mismas reglas que el motor mantiene en cada operación.
func validateBackup(doc dto.BackupDocument) error {
	invalid := func(format string, args ...any) error {
		return fmt.Errorf("%w: respaldo: "+format, append([]any{domain.ErrInvalidInput}, args...)...)
	}
	products := make(map[string]struct{}, len(doc.Products))
	for i, p := range doc.Products {
		if p.ID == "" {
			return invalid("producto %d sin id", i)
		}
		if _, dup := products[p.ID]; dup {
			return invalid("producto %q duplicado", p.ID)
		}
		products[p.ID] = struct{}{}
	}
	locations := make(map[string]struct{}, len(doc.Locations))
	for i, l := range doc.Locations {
		if l.ID == "" {
			return invalid("ubicación %d sin id", i)
		}
		if _, dup := locations[l.ID]; dup {
			return invalid("ubicación %q duplicada", l.ID)
		}
		locations[l.ID] = struct{}{}
	}
	known := func(productID, locationID string) bool {
		_, okP := products[productID]
		_, okL := locations[locationID]
		return okP && okL
	}
	lines := make(map[string]struct{}, len(doc.Inventory))
	for _, l := range doc.Inventory {
		if l.Quantity < 0 {
			return invalid("cantidad negativa en %s/%s", l.ProductID, l.LocationID)
		}
		if !known(l.ProductID, l.LocationID) {
			return invalid("línea %s/%s sin producto o ubicación", l.ProductID, l.LocationID)
		}
		if _, dup := lines[l.Key()]; dup {
			return invalid("línea %s/%s duplicada", l.ProductID, l.LocationID)
		}
		lines[l.Key()] = struct{}{}
	}
	for _, r := range doc.Records {
		if !r.Type.Valid() {
			return invalid("registro %q con tipo %q", r.ID, r.Type)
		}
		if r.Quantity <= 0 {
			return invalid("registro %q con cantidad %d", r.ID, r.Quantity)
		}
		if !known(r.ProductID, r.LocationID) {
			return invalid("registro %q sin producto o ubicación", r.ID)
		}
	}
	return nil
}

// ClearAll vacía las colecciones y restablece la configuración por defecto. Irreversible.
func (e *Engine) ClearAll(ctx context.Context) error {
	return e.apply(ctx, "clear_all", func(tx *store.Tx) error {
		tx.Reset()
		return nil
	})
}

// UploadBackup serializa el respaldo y lo sube al sink con una clave fechada.
func (e *Engine) UploadBackup(ctx context.Context, sink BackupSink) (string, error) {
	doc := e.Backup()
	body, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("respaldo: codificar: %w", err)
	}
	key := "inventory-backup-" + doc.Timestamp.Format("2006-01-02T150405Z") + ".json"
	if err := sink.Put(ctx, key, body); err != nil {
		e.log.Error().Err(err).Str("key", key).Msg("error subiendo respaldo")
		return "", fmt.Errorf("respaldo: subir: %w", err)
	}
	e.log.Info().Str("key", key).Int("bytes", len(body)).Msg("respaldo subido")
	return key, nil
}
