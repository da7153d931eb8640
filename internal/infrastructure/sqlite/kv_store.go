// Package sqlite implementa el KeyValueStore sobre SQLite (modernc, sin cgo).
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // driver sqlite en Go puro

	"github.com/jhoicas/stocksync/internal/domain/repository"
)

var _ repository.BatchKeyValueStore = (*KVStore)(nil)

// MemoryPath abre una base en memoria (tests).
const MemoryPath = ":memory:"

// KVStore guarda cada clave como un blob JSON en la tabla kv_store.
type KVStore struct {
	db *sql.DB
}

// NewKVStore abre (o crea) la base en path y asegura la tabla.
func NewKVStore(path string) (*KVStore, error) {
	if path == "" {
		path = "stocksync.db"
	}
	if path != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("crear directorios: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("abrir sqlite: %w", err)
	}
	// Cada conexión a :memory: es una base distinta; una sola conexión serializa también las escrituras.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS kv_store (
		key     TEXT PRIMARY KEY,
		payload BLOB NOT NULL
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("crear tabla kv_store: %w", err)
	}
	return &KVStore{db: db}, nil
}

// Load devuelve el documento guardado bajo key.
func (s *KVStore) Load(ctx context.Context, key string) ([]byte, bool, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM kv_store WHERE key = ?`, key).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("select %s: %w", key, err)
	}
	return payload, true, nil
}

// Save inserta o reemplaza el documento.
func (s *KVStore) Save(ctx context.Context, key string, value []byte) error {
	return save(ctx, s.db, key, value)
}

// Delete elimina la clave (sin error si no existe).
func (s *KVStore) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv_store WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// SaveBatch guarda todas las entradas en una transacción.
func (s *KVStore) SaveBatch(ctx context.Context, entries []repository.KeyValue) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()
	for _, e := range entries {
		if err := save(ctx, tx, e.Key, e.Value); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Close cierra la base.
func (s *KVStore) Close() error { return s.db.Close() }

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func save(ctx context.Context, db execer, key string, value []byte) error {
	_, err := db.ExecContext(ctx, `INSERT INTO kv_store (key, payload) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET payload = excluded.payload`, key, value)
	if err != nil {
		return fmt.Errorf("upsert %s: %w", key, err)
	}
	return nil
}
