package repository

import "context"

// SyncLock candado entre procesos para una dirección de sincronización (push/pull).
// Acquire devuelve domain.ErrSyncInProgress si otro proceso ya lo tiene.
type SyncLock interface {
	Acquire(ctx context.Context, name string) (release func(), err error)
}
