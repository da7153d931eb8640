package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/stocksync/internal/domain/repository"
)

var _ repository.BatchKeyValueStore = (*KVStore)(nil)

// Schema tabla clave/valor. value guarda el JSON como bytea y se devuelve byte a byte.
const Schema = `CREATE TABLE IF NOT EXISTS kv_store (
	key        TEXT PRIMARY KEY,
	value      BYTEA NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// KVStore implementa repository.KeyValueStore sobre PostgreSQL.
type KVStore struct {
	q    Querier
	pool *pgxpool.Pool
	tx   *TxRunner
}

// NewKVStore crea la tabla si no existe y devuelve el store sobre el pool.
func NewKVStore(ctx context.Context, pool *pgxpool.Pool) (*KVStore, error) {
	if _, err := pool.Exec(ctx, Schema); err != nil {
		return nil, fmt.Errorf("crear kv_store: %w", err)
	}
	return newKVStore(pool, pool), nil
}

func newKVStore(q Querier, pool *pgxpool.Pool) *KVStore {
	s := &KVStore{q: q, pool: pool}
	if pool != nil {
		s.tx = NewTxRunner(pool)
	}
	return s
}

// Load devuelve el documento guardado bajo key.
func (s *KVStore) Load(ctx context.Context, key string) ([]byte, bool, error) {
	var value []byte
	err := s.q.QueryRow(ctx, `SELECT value FROM kv_store WHERE key = $1`, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("select %s: %w", key, err)
	}
	return value, true, nil
}

// Save inserta o reemplaza el documento.
func (s *KVStore) Save(ctx context.Context, key string, value []byte) error {
	_, err := s.q.Exec(ctx, `
		INSERT INTO kv_store (key, value, updated_at) VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`, key, value)
	if err != nil {
		return fmt.Errorf("upsert %s: %w", key, err)
	}
	return nil
}

// Delete elimina la clave (sin error si no existe).
func (s *KVStore) Delete(ctx context.Context, key string) error {
	if _, err := s.q.Exec(ctx, `DELETE FROM kv_store WHERE key = $1`, key); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// SaveBatch guarda todas las entradas en una transacción.
func (s *KVStore) SaveBatch(ctx context.Context, entries []repository.KeyValue) error {
	if s.tx == nil {
		for _, e := range entries {
			if err := s.Save(ctx, e.Key, e.Value); err != nil {
				return err
			}
		}
		return nil
	}
	return s.tx.Run(ctx, func(kv *KVStore) error {
		for _, e := range entries {
			if err := kv.Save(ctx, e.Key, e.Value); err != nil {
				return err
			}
		}
		return nil
	})
}

// Close cierra el pool (no-op dentro de una transacción).
func (s *KVStore) Close() error {
	if s.pool != nil {
		s.pool.Close()
	}
	return nil
}
