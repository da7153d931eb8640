package redisstore_test

import (
	"context"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stocksync/internal/domain/entity"
	"github.com/jhoicas/stocksync/internal/domain/repository"
	"github.com/jhoicas/stocksync/internal/domain/store"
	"github.com/jhoicas/stocksync/internal/infrastructure/redisstore"
)

func newStore(t *testing.T) (*redisstore.KVStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	kv := redisstore.NewKVStore(client, "test:")
	t.Cleanup(func() { _ = kv.Close() })
	return kv, mr
}

func TestKVStore_SaveLoadDelete(t *testing.T) {
	ctx := context.Background()
	kv, mr := newStore(t)

	_, ok, err := kv.Load(ctx, "records")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, kv.Save(ctx, "records", []byte(`[]`)))
	assert.True(t, mr.Exists("test:records"))
	got, ok, err := kv.Load(ctx, "records")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `[]`, string(got))

	require.NoError(t, kv.Delete(ctx, "records"))
	assert.False(t, mr.Exists("test:records"))
}

func TestKVStore_SaveBatchAndStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	kv, mr := newStore(t)

	require.NoError(t, kv.SaveBatch(ctx, []repository.KeyValue{{Key: "x", Value: []byte(`1`)}}))
	v, err := mr.Get("test:x")
	require.NoError(t, err)
	assert.Equal(t, "1", v)

	s := store.New()
	_, err = s.Update(func(tx *store.Tx) error {
		tx.PutLocation(entity.Location{ID: "L1", Name: "Bodega", Address: "Calle 1"})
		return nil
	})
	require.NoError(t, err)
	require.NoError(t, s.Persist(ctx, kv))

	loaded := store.New()
	require.NoError(t, loaded.Load(ctx, kv))
	assert.Equal(t, s.Locations(), loaded.Locations())
}

func TestNewClient_PingFails(t *testing.T) {
	_, err := redisstore.NewClient(context.Background(), "127.0.0.1:1", "", 0)
	assert.Error(t, err)
}

func TestNewClient_Ok(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := redisstore.NewClient(context.Background(), mr.Addr(), "", 0)
	require.NoError(t, err)
	_ = client.Close()
}
