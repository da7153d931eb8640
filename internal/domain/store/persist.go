package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jhoicas/stocksync/internal/domain/entity"
	"github.com/jhoicas/stocksync/internal/domain/repository"
)

// Load carga colecciones y configuración desde kv. Las claves ausentes dejan el valor actual.
func (s *Store) Load(ctx context.Context, kv repository.KeyValueStore) error {
	var snap entity.Snapshot
	if err := loadJSON(ctx, kv, entity.CollectionProducts, &snap.Products); err != nil {
		return err
	}
	if err := loadJSON(ctx, kv, entity.CollectionLocations, &snap.Locations); err != nil {
		return err
	}
	if err := loadJSON(ctx, kv, entity.CollectionInventory, &snap.Inventory); err != nil {
		return err
	}
	if err := loadJSON(ctx, kv, entity.CollectionRecords, &snap.Records); err != nil {
		return err
	}

	st := s.Settings()
	if err := loadJSON(ctx, kv, repository.KeyLowStockThreshold, &st.LowStockThreshold); err != nil {
		return err
	}
	if err := loadJSON(ctx, kv, repository.KeyRemoteURL, &st.RemoteURL); err != nil {
		return err
	}
	if err := loadJSON(ctx, kv, repository.KeyAutoSyncEnabled, &st.AutoSyncEnabled); err != nil {
		return err
	}
	if err := loadJSON(ctx, kv, repository.KeySyncInterval, &st.SyncIntervalMinutes); err != nil {
		return err
	}
	var last *time.Time
	if err := loadJSON(ctx, kv, repository.KeyLastSyncTime, &last); err != nil {
		return err
	}
	if last != nil {
		st.LastSyncTime = last
	}
	if st.SyncIntervalMinutes <= 0 {
		st.SyncIntervalMinutes = entity.DefaultSyncIntervalMinutes
	}

	_, err := s.Update(func(tx *Tx) error {
		tx.Replace(snap)
		tx.SetSettings(st)
		return nil
	})
	return err
}

// Persist escribe en kv las colecciones indicadas (o todas si names está vacío).
// SettingsKey escribe cada clave de configuración por separado. Si kv implementa
// BatchKeyValueStore todas las claves se guardan en una sola transacción.
func (s *Store) Persist(ctx context.Context, kv repository.KeyValueStore, names ...string) error {
	if len(names) == 0 {
		names = append(append([]string{}, entity.Collections...), SettingsKey)
	}
	snap := s.Snapshot()
	st := s.Settings()

	var entries []repository.KeyValue
	clearLastSync := false
	add := func(key string, v any) error {
		raw, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("store: codificar %s: %w", key, err)
		}
		entries = append(entries, repository.KeyValue{Key: key, Value: raw})
		return nil
	}
	for _, name := range names {
		if name == SettingsKey {
			if err := add(repository.KeyLowStockThreshold, st.LowStockThreshold); err != nil {
				return err
			}
			if err := add(repository.KeyRemoteURL, st.RemoteURL); err != nil {
				return err
			}
			if err := add(repository.KeyAutoSyncEnabled, st.AutoSyncEnabled); err != nil {
				return err
			}
			if err := add(repository.KeySyncInterval, st.SyncIntervalMinutes); err != nil {
				return err
			}
			if st.LastSyncTime == nil {
				clearLastSync = true
			} else if err := add(repository.KeyLastSyncTime, st.LastSyncTime); err != nil {
				return err
			}
			continue
		}
		v := snap.Collection(name)
		if v == nil {
			return fmt.Errorf("store: colección desconocida %q", name)
		}
		if err := add(name, v); err != nil {
			return err
		}
	}

	if batch, ok := kv.(repository.BatchKeyValueStore); ok {
		if err := batch.SaveBatch(ctx, entries); err != nil {
			return fmt.Errorf("store: guardar lote: %w", err)
		}
	} else {
		for _, e := range entries {
			if err := kv.Save(ctx, e.Key, e.Value); err != nil {
				return fmt.Errorf("store: guardar %s: %w", e.Key, err)
			}
		}
	}
	if clearLastSync {
		if err := kv.Delete(ctx, repository.KeyLastSyncTime); err != nil {
			return fmt.Errorf("store: borrar %s: %w", repository.KeyLastSyncTime, err)
		}
	}
	return nil
}

func loadJSON(ctx context.Context, kv repository.KeyValueStore, key string, dst any) error {
	raw, ok, err := kv.Load(ctx, key)
	if err != nil {
		return fmt.Errorf("store: cargar %s: %w", key, err)
	}
	if !ok {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("store: decodificar %s: %w", key, err)
	}
	return nil
}
