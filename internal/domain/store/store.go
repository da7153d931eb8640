// Package store contiene el Entity Store: las cuatro colecciones de la sesión y su configuración.
// Es la única fuente de verdad en memoria; solo el motor de consistencia y el reconciliador lo mutan.
package store

import (
	"sync"

	"github.com/jhoicas/stocksync/internal/domain/entity"
)

// SettingsKey marca en Update que la configuración cambió.
const SettingsKey = "settings"

func productKey(p entity.Product) string          { return p.ID }
func locationKey(l entity.Location) string        { return l.ID }
func lineKey(l entity.InventoryLine) string       { return l.Key() }
func recordKey(r entity.TransactionRecord) string { return r.ID }

// Store colecciones indexadas por id (y por producto+ubicación para las líneas).
// Las lecturas devuelven copias; los escritores se serializan con mu.
type Store struct {
	mu        sync.RWMutex
	products  *collection[entity.Product]
	locations *collection[entity.Location]
	lines     *collection[entity.InventoryLine]
	records   *collection[entity.TransactionRecord]
	settings  entity.Settings
}

// New crea un Store vacío con la configuración por defecto.
func New() *Store {
	return &Store{
		products:  newCollection[entity.Product](),
		locations: newCollection[entity.Location](),
		lines:     newCollection[entity.InventoryLine](),
		records:   newCollection[entity.TransactionRecord](),
		settings:  entity.DefaultSettings(),
	}
}

// ── Lecturas ─────────────────────────────────────────────────────────────────

func (s *Store) Product(id string) (entity.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.products.get(id)
}

func (s *Store) Location(id string) (entity.Location, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.locations.get(id)
}

func (s *Store) Line(productID, locationID string) (entity.InventoryLine, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lines.get(entity.LineKey(productID, locationID))
}

func (s *Store) Products() []entity.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.products.list()
}

func (s *Store) Locations() []entity.Location {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.locations.list()
}

func (s *Store) Lines() []entity.InventoryLine {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lines.list()
}

func (s *Store) Records() []entity.TransactionRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.records.list()
}

func (s *Store) Settings() entity.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneSettings(s.settings)
}

// Snapshot devuelve una copia de las cuatro colecciones (todas presentes, nunca nil).
func (s *Store) Snapshot() entity.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return entity.Snapshot{
		Products:  s.products.list(),
		Locations: s.locations.list(),
		Inventory: s.lines.list(),
		Records:   s.records.list(),
	}
}

// ── Escrituras ───────────────────────────────────────────────────────────────

// Update ejecuta fn con acceso exclusivo sobre una copia preparada del Store.
// Los cambios se confirman solo si fn devuelve nil; ante error el Store queda intacto.
// Devuelve las colecciones modificadas (y SettingsKey si cambió la configuración).
func (s *Store) Update(fn func(tx *Tx) error) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tx := &Tx{base: s}
	if err := fn(tx); err != nil {
		return nil, err
	}
	return tx.commit(), nil
}

// Replace reemplaza por completo cada colección presente (no nil) del snapshot;
// las ausentes quedan como estaban. Devuelve los nombres reemplazados.
func (s *Store) Replace(snap entity.Snapshot) []string {
	touched, _ := s.Update(func(tx *Tx) error {
		tx.Replace(snap)
		return nil
	})
	return touched
}

func cloneSettings(st entity.Settings) entity.Settings {
	if st.LastSyncTime != nil {
		t := *st.LastSyncTime
		st.LastSyncTime = &t
	}
	return st
}
