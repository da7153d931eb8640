package entity

// StockStatus clasificación de una línea de inventario según el umbral de stock bajo.
type StockStatus string

const (
	StockNormal StockStatus = "normal"
	StockLow    StockStatus = "low"
	StockOut    StockStatus = "out"
)

// Label devuelve la etiqueta legible usada en reportes y exportaciones.
func (s StockStatus) Label() string {
	switch s {
	case StockOut:
		return "Agotado"
	case StockLow:
		return "Stock bajo"
	default:
		return "Normal"
	}
}
