// Package storage elige el adaptador de persistencia según STORE_DRIVER.
package storage

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/stocksync/internal/domain/repository"
	"github.com/jhoicas/stocksync/internal/infrastructure/postgres"
	"github.com/jhoicas/stocksync/internal/infrastructure/redisstore"
	"github.com/jhoicas/stocksync/internal/infrastructure/sqlite"
	"github.com/jhoicas/stocksync/pkg/config"
)

// Backends resultado de Open. Redis es nil si REDIS_ADDR no está configurado.
type Backends struct {
	KV    repository.KeyValueStore
	Redis *redis.Client
}

// Close cierra el store y el cliente Redis (si no lo cerró ya el store).
func (b *Backends) Close() error {
	err := b.KV.Close()
	if _, owned := b.KV.(*redisstore.KVStore); !owned && b.Redis != nil {
		if rerr := b.Redis.Close(); err == nil {
			err = rerr
		}
	}
	return err
}

// Open abre el KeyValueStore configurado. Si hay REDIS_ADDR también devuelve el cliente
// para el candado de sincronización, aunque el driver no sea redis.
func Open(ctx context.Context, cfg *config.Config) (*Backends, error) {
	var client *redis.Client
	if cfg.Redis.Addr != "" {
		c, err := redisstore.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return nil, err
		}
		client = c
	}
	fail := func(err error) (*Backends, error) {
		if client != nil {
			_ = client.Close()
		}
		return nil, err
	}

	switch cfg.Store.Driver {
	case config.DriverRedis:
		if client == nil {
			return fail(fmt.Errorf("storage: REDIS_ADDR requerido"))
		}
		return &Backends{KV: redisstore.NewKVStore(client, cfg.Redis.Prefix), Redis: client}, nil
	case config.DriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return fail(err)
		}
		kv, err := postgres.NewKVStore(ctx, pool)
		if err != nil {
			pool.Close()
			return fail(err)
		}
		return &Backends{KV: kv, Redis: client}, nil
	case config.DriverSQLite, "":
		kv, err := sqlite.NewKVStore(cfg.Store.SQLitePath)
		if err != nil {
			return fail(err)
		}
		return &Backends{KV: kv, Redis: client}, nil
	default:
		return fail(fmt.Errorf("storage: driver %q no soportado", cfg.Store.Driver))
	}
}
