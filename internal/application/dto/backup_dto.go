package dto

import (
	"time"

	"github.com/jhoicas/stocksync/internal/domain/entity"
)

// BackupDocument respaldo completo en JSON (colecciones + configuración).
type BackupDocument struct {
	Products          []entity.Product           `json:"products"`
	Locations         []entity.Location          `json:"locations"`
	Inventory         []entity.InventoryLine     `json:"inventory"`
	Records           []entity.TransactionRecord `json:"records"`
	LowStockThreshold int                        `json:"lowStockThreshold"`
	RemoteURL         string                     `json:"remoteUrl"`
	AutoSyncEnabled   *bool                      `json:"autoSyncEnabled,omitempty"`
	SyncInterval      int                        `json:"syncInterval"`
	Timestamp         time.Time                  `json:"timestamp"`
}

// BackupUploadResponse resultado de subir un respaldo al almacenamiento externo.
type BackupUploadResponse struct {
	Key string `json:"key"`
}
