package entity

// Location representa una bodega, tienda o punto donde se almacena inventario.
type Location struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Address     string `json:"address"`
	Description string `json:"description"`
}
