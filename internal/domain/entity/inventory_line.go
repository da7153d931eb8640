package entity

import "time"

// InventoryLine representa el stock actual de un producto en una ubicación.
// La clave compuesta (ProductID, LocationID) es única y Quantity nunca es negativa.
// Una línea en cero se conserva; solo desaparece por borrado en cascada.
type InventoryLine struct {
	ProductID   string    `json:"productId"`
	LocationID  string    `json:"locationId"`
	Quantity    int       `json:"quantity"`
	LastUpdated time.Time `json:"lastUpdated"`
}

// Key devuelve la clave compuesta de la línea.
func (l InventoryLine) Key() string { return LineKey(l.ProductID, l.LocationID) }

// LineKey arma la clave compuesta producto+ubicación usada en los índices.
func LineKey(productID, locationID string) string {
	return productID + "\x1f" + locationID
}
