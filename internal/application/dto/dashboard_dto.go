package dto

// DashboardResponse resumen de la pantalla principal.
type DashboardResponse struct {
	TotalProducts  int             `json:"totalProducts"`
	TotalLocations int             `json:"totalLocations"`
	TotalQuantity  int             `json:"totalQuantity"`
	TodayRecords   int             `json:"todayRecords"`
	LowStockCount  int             `json:"lowStockCount"`
	RecentRecords  []RecordRow     `json:"recentRecords"`
	LowStock       []LowStockAlert `json:"lowStock"`
}
