package entity

// Product representa un producto del inventario (multi-ubicación).
// El ID lo elige el usuario al crearlo y es inmutable; el stock vive en InventoryLine.
type Product struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Unit        string `json:"unit"`
	Category    string `json:"category,omitempty"`
}
