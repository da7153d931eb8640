// Package lock implementa repository.SyncLock con bsm/redislock para que dos procesos
// no sincronicen la misma dirección a la vez.
package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/jhoicas/stocksync/internal/domain"
	"github.com/jhoicas/stocksync/internal/domain/repository"
)

var _ repository.SyncLock = (*RedisSyncLock)(nil)

// DefaultTTL duración del candado si no se configura; cubre los 3 intentos de push con sus esperas.
const DefaultTTL = 2 * time.Minute

// RedisSyncLock candado por dirección con clave "lock:sync:<dirección>".
type RedisSyncLock struct {
	locker *redislock.Client
	ttl    time.Duration
	log    zerolog.Logger
}

// NewRedisSyncLock construye el candado sobre un cliente Redis.
func NewRedisSyncLock(client *redis.Client, ttl time.Duration, log zerolog.Logger) *RedisSyncLock {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisSyncLock{locker: redislock.New(client), ttl: ttl, log: log}
}

// Acquire obtiene el candado sin esperar; si lo tiene otro proceso devuelve ErrSyncInProgress.
func (l *RedisSyncLock) Acquire(ctx context.Context, name string) (func(), error) {
	key := "lock:sync:" + name
	lk, err := l.locker.Obtain(ctx, key, l.ttl, nil)
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, fmt.Errorf("%w: candado %s tomado por otro proceso", domain.ErrSyncInProgress, key)
	}
	if err != nil {
		return nil, fmt.Errorf("obtener candado %s: %w", key, err)
	}
	return func() {
		if err := lk.Release(context.Background()); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			l.log.Warn().Err(err).Str("key", key).Msg("error liberando candado")
		}
	}, nil
}
