package store

import "github.com/jhoicas/stocksync/internal/domain/entity"

// Tx vista de escritura dentro de Store.Update. Cada colección se copia la
// primera vez que se modifica; las lecturas ven los cambios ya preparados.
type Tx struct {
	base      *Store
	products  *collection[entity.Product]
	locations *collection[entity.Location]
	lines     *collection[entity.InventoryLine]
	records   *collection[entity.TransactionRecord]
	settings  *entity.Settings
}

func (tx *Tx) readProducts() *collection[entity.Product] {
	if tx.products != nil {
		return tx.products
	}
	return tx.base.products
}

func (tx *Tx) readLocations() *collection[entity.Location] {
	if tx.locations != nil {
		return tx.locations
	}
	return tx.base.locations
}

func (tx *Tx) readLines() *collection[entity.InventoryLine] {
	if tx.lines != nil {
		return tx.lines
	}
	return tx.base.lines
}

func (tx *Tx) readRecords() *collection[entity.TransactionRecord] {
	if tx.records != nil {
		return tx.records
	}
	return tx.base.records
}

func (tx *Tx) writeProducts() *collection[entity.Product] {
	if tx.products == nil {
		tx.products = tx.base.products.clone()
	}
	return tx.products
}

func (tx *Tx) writeLocations() *collection[entity.Location] {
	if tx.locations == nil {
		tx.locations = tx.base.locations.clone()
	}
	return tx.locations
}

func (tx *Tx) writeLines() *collection[entity.InventoryLine] {
	if tx.lines == nil {
		tx.lines = tx.base.lines.clone()
	}
	return tx.lines
}

func (tx *Tx) writeRecords() *collection[entity.TransactionRecord] {
	if tx.records == nil {
		tx.records = tx.base.records.clone()
	}
	return tx.records
}

// ── Lecturas ─────────────────────────────────────────────────────────────────

func (tx *Tx) Product(id string) (entity.Product, bool)   { return tx.readProducts().get(id) }
func (tx *Tx) Location(id string) (entity.Location, bool) { return tx.readLocations().get(id) }

func (tx *Tx) Line(productID, locationID string) (entity.InventoryLine, bool) {
	return tx.readLines().get(entity.LineKey(productID, locationID))
}

func (tx *Tx) Products() []entity.Product   { return tx.readProducts().list() }
func (tx *Tx) Locations() []entity.Location { return tx.readLocations().list() }

func (tx *Tx) Settings() entity.Settings {
	if tx.settings != nil {
		return *tx.settings
	}
	return cloneSettings(tx.base.settings)
}

// ── Escrituras ───────────────────────────────────────────────────────────────

// PutProduct inserta o reemplaza un producto (los nuevos van al final del orden).
func (tx *Tx) PutProduct(p entity.Product)    { tx.writeProducts().put(p.ID, p) }
func (tx *Tx) PutLocation(l entity.Location)  { tx.writeLocations().put(l.ID, l) }
func (tx *Tx) PutLine(l entity.InventoryLine) { tx.writeLines().put(l.Key(), l) }

// AppendRecord agrega un registro al historial.
func (tx *Tx) AppendRecord(r entity.TransactionRecord) { tx.writeRecords().put(r.ID, r) }

// RemoveProduct elimina todos los productos con ese id, incluidos los repetidos
// que llegaron con clave posicional.
func (tx *Tx) RemoveProduct(id string) bool {
	return tx.writeProducts().removeWhere(func(p entity.Product) bool { return p.ID == id }) > 0
}

// RemoveLocation elimina todas las ubicaciones con ese id.
func (tx *Tx) RemoveLocation(id string) bool {
	return tx.writeLocations().removeWhere(func(l entity.Location) bool { return l.ID == id }) > 0
}

// RemoveLinesWhere elimina las líneas que cumplen pred.
func (tx *Tx) RemoveLinesWhere(pred func(entity.InventoryLine) bool) int {
	return tx.writeLines().removeWhere(pred)
}

// RemoveRecordsWhere elimina los registros que cumplen pred.
func (tx *Tx) RemoveRecordsWhere(pred func(entity.TransactionRecord) bool) int {
	return tx.writeRecords().removeWhere(pred)
}

func (tx *Tx) SetSettings(st entity.Settings) {
	st = cloneSettings(st)
	tx.settings = &st
}

// Replace reemplaza cada colección presente en snap.
func (tx *Tx) Replace(snap entity.Snapshot) {
	if snap.Products != nil {
		tx.products = fromSlice(snap.Products, productKey)
	}
	if snap.Locations != nil {
		tx.locations = fromSlice(snap.Locations, locationKey)
	}
	if snap.Inventory != nil {
		tx.lines = fromSlice(snap.Inventory, lineKey)
	}
	if snap.Records != nil {
		tx.records = fromSlice(snap.Records, recordKey)
	}
}

// Reset vacía las cuatro colecciones y restablece la configuración por defecto.
func (tx *Tx) Reset() {
	tx.products = newCollection[entity.Product]()
	tx.locations = newCollection[entity.Location]()
	tx.lines = newCollection[entity.InventoryLine]()
	tx.records = newCollection[entity.TransactionRecord]()
	tx.SetSettings(entity.DefaultSettings())
}

func (tx *Tx) commit() []string {
	var touched []string
	s := tx.base
	if tx.products != nil {
		s.products = tx.products
		touched = append(touched, entity.CollectionProducts)
	}
	if tx.locations != nil {
		s.locations = tx.locations
		touched = append(touched, entity.CollectionLocations)
	}
	if tx.lines != nil {
		s.lines = tx.lines
		touched = append(touched, entity.CollectionInventory)
	}
	if tx.records != nil {
		s.records = tx.records
		touched = append(touched, entity.CollectionRecords)
	}
	if tx.settings != nil {
		s.settings = *tx.settings
		touched = append(touched, SettingsKey)
	}
	return touched
}
