package entity

import "time"

// Nombres de las colecciones; se usan como claves de persistencia y como dataType del protocolo remoto.
const (
	CollectionProducts  = "products"
	CollectionLocations = "locations"
	CollectionInventory = "inventory"
	CollectionRecords   = "records"
)

// Collections lista las cuatro colecciones en orden estable.
var Collections = []string{CollectionProducts, CollectionLocations, CollectionInventory, CollectionRecords}

// IsCollection indica si name es una colección conocida.
func IsCollection(name string) bool {
	for _, c := range Collections {
		if c == name {
			return true
		}
	}
	return false
}

// Snapshot copia completa de las cuatro colecciones.
// Una colección nil significa "ausente" (un pull solo reemplaza las presentes).
type Snapshot struct {
	Products  []Product           `json:"products"`
	Locations []Location          `json:"locations"`
	Inventory []InventoryLine     `json:"inventory"`
	Records   []TransactionRecord `json:"records"`
}

// Present devuelve los nombres de las colecciones no nulas.
func (s Snapshot) Present() []string {
	var names []string
	if s.Products != nil {
		names = append(names, CollectionProducts)
	}
	if s.Locations != nil {
		names = append(names, CollectionLocations)
	}
	if s.Inventory != nil {
		names = append(names, CollectionInventory)
	}
	if s.Records != nil {
		names = append(names, CollectionRecords)
	}
	return names
}

// Collection devuelve la colección por nombre (nil si no existe o está ausente).
func (s Snapshot) Collection(name string) any {
	switch name {
	case CollectionProducts:
		return s.Products
	case CollectionLocations:
		return s.Locations
	case CollectionInventory:
		return s.Inventory
	case CollectionRecords:
		return s.Records
	}
	return nil
}

// SyncPayload es lo que se envía al backend remoto en un push completo (dataType=all).
type SyncPayload struct {
	Snapshot
	LastSync time.Time `json:"lastSync"`
}
