package redisstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/stocksync/internal/domain/repository"
)

var _ repository.BatchKeyValueStore = (*KVStore)(nil)

// DefaultPrefix prefijo de claves cuando no se configura uno.
const DefaultPrefix = "stocksync:"

// KVStore guarda cada documento JSON como un string bajo prefix+key.
type KVStore struct {
	client *redis.Client
	prefix string
}

// NewKVStore construye el store sobre un cliente existente.
func NewKVStore(client *redis.Client, prefix string) *KVStore {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &KVStore{client: client, prefix: prefix}
}

func (s *KVStore) key(k string) string { return s.prefix + k }

// Load devuelve el documento guardado bajo key.
func (s *KVStore) Load(ctx context.Context, key string) ([]byte, bool, error) {
	raw, err := s.client.Get(ctx, s.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis: get %s: %w", key, err)
	}
	return raw, true, nil
}

// Save reemplaza el documento (sin expiración).
func (s *KVStore) Save(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, s.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("redis: set %s: %w", key, err)
	}
	return nil
}

// Delete elimina la clave.
func (s *KVStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("redis: del %s: %w", key, err)
	}
	return nil
}

// SaveBatch guarda todas las entradas en un MULTI/EXEC.
func (s *KVStore) SaveBatch(ctx context.Context, entries []repository.KeyValue) error {
	_, err := s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		for _, e := range entries {
			p.Set(ctx, s.key(e.Key), e.Value, 0)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis: multi: %w", err)
	}
	return nil
}

// Close cierra el cliente.
func (s *KVStore) Close() error { return s.client.Close() }
