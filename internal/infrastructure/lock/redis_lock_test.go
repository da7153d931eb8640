package lock_test

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stocksync/internal/domain"
	"github.com/jhoicas/stocksync/internal/infrastructure/lock"
)

func TestRedisSyncLock_ExclusiveUntilReleased(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	ctx := context.Background()

	a := lock.NewRedisSyncLock(client, time.Minute, zerolog.Nop())
	b := lock.NewRedisSyncLock(client, time.Minute, zerolog.Nop())

	release, err := a.Acquire(ctx, "push")
	require.NoError(t, err)
	assert.True(t, mr.Exists("lock:sync:push"))

	_, err = b.Acquire(ctx, "push")
	assert.ErrorIs(t, err, domain.ErrSyncInProgress)

	releasePull, err := b.Acquire(ctx, "pull")
	require.NoError(t, err, "otra dirección no se bloquea")
	releasePull()

	release()
	assert.False(t, mr.Exists("lock:sync:push"))
	release2, err := b.Acquire(ctx, "push")
	require.NoError(t, err)
	release2()
}

func TestRedisSyncLock_ExpiresAfterTTL(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	ctx := context.Background()

	l := lock.NewRedisSyncLock(client, time.Second, zerolog.Nop())
	_, err := l.Acquire(ctx, "push")
	require.NoError(t, err)

	mr.FastForward(2 * time.Second)
	release, err := l.Acquire(ctx, "push")
	require.NoError(t, err)
	release()
}
