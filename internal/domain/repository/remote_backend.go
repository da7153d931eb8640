package repository

import (
	"context"

	"github.com/jhoicas/stocksync/internal/domain/entity"
)

// RemoteBackend define el puerto hacia el backend remoto de snapshots (protocolo de acciones test/sync/pull).
// Las fallas de red o respuestas ilegibles se devuelven envueltas en domain.ErrTransport;
// un rechazo explícito del backend (success=false) como *domain.RemoteError.
type RemoteBackend interface {
	Test(ctx context.Context, endpoint string) error
	// Sync envía una colección (dataType) o el snapshot completo (dataType "all").
	Sync(ctx context.Context, endpoint, dataType string, payload any) error
	Pull(ctx context.Context, endpoint string) (*entity.Snapshot, error)
}
