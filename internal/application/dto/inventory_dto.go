package dto

import "time"

// StockMovementRequest body para POST /api/stock/in y /api/stock/out.
type StockMovementRequest struct {
	ProductID  string `json:"productId" validate:"required"`
	LocationID string `json:"locationId" validate:"required"`
	Quantity   int    `json:"quantity" validate:"gt=0"`
	Operator   string `json:"operator"`
	Note       string `json:"note"`
}

// TransactionRecordResponse registro de movimiento.
type TransactionRecordResponse struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	ProductID  string    `json:"productId"`
	LocationID string    `json:"locationId"`
	Quantity   int       `json:"quantity"`
	Operator   string    `json:"operator"`
	Timestamp  time.Time `json:"timestamp"`
	Note       string    `json:"note"`
}

// InventoryFilter filtros de GET /api/inventory.
type InventoryFilter struct {
	LocationID string `query:"location"`
	ProductID  string `query:"product"`
}

// InventoryRow línea de inventario desnormalizada con nombres y estado.
type InventoryRow struct {
	LocationID   string    `json:"locationId"`
	LocationName string    `json:"locationName"`
	ProductID    string    `json:"productId"`
	ProductName  string    `json:"productName"`
	Unit         string    `json:"unit"`
	Quantity     int       `json:"quantity"`
	Status       string    `json:"status"`
	StatusLabel  string    `json:"statusLabel"`
	LastUpdated  time.Time `json:"lastUpdated"`
}

// RecordFilter filtros de GET /api/records. From/To en formato YYYY-MM-DD; To incluye todo el día.
type RecordFilter struct {
	Type string `query:"type" validate:"omitempty,oneof=in out"`
	From string `query:"from" validate:"omitempty,datetime=2006-01-02"`
	To   string `query:"to" validate:"omitempty,datetime=2006-01-02"`
}

// RecordRow registro desnormalizado para listados y exportación.
type RecordRow struct {
	ID           string    `json:"id"`
	Type         string    `json:"type"`
	TypeLabel    string    `json:"typeLabel"`
	LocationID   string    `json:"locationId"`
	LocationName string    `json:"locationName"`
	ProductID    string    `json:"productId"`
	ProductName  string    `json:"productName"`
	Unit         string    `json:"unit"`
	Quantity     int       `json:"quantity"`
	Operator     string    `json:"operator"`
	Timestamp    time.Time `json:"timestamp"`
	Note         string    `json:"note"`
}

// RecordListResponse lista paginada de registros (más recientes primero).
type RecordListResponse struct {
	Items []RecordRow  `json:"items"`
	Page  PageResponse `json:"page"`
}

// LowStockAlert línea con cantidad menor o igual al umbral.
type LowStockAlert struct {
	ProductID    string `json:"productId"`
	ProductName  string `json:"productName"`
	LocationID   string `json:"locationId"`
	LocationName string `json:"locationName"`
	Quantity     int    `json:"quantity"`
	Unit         string `json:"unit"`
	Status       string `json:"status"`
}
