package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/stocksync/internal/application/dto"
	"github.com/jhoicas/stocksync/internal/application/ports"
	"github.com/jhoicas/stocksync/internal/domain"
	"github.com/jhoicas/stocksync/internal/domain/entity"
	"github.com/jhoicas/stocksync/internal/domain/inventory"
	"github.com/jhoicas/stocksync/internal/domain/repository"
	"github.com/jhoicas/stocksync/internal/domain/store"
)

// DefaultOperator operador registrado cuando el movimiento no indica uno.
const DefaultOperator = "sistema"

// Engine motor de consistencia: único escritor de productos, ubicaciones, líneas y registros.
// Cada operación se ejecuta completa sobre el Store (todo o nada), luego se persiste
// lo modificado y se notifica al ChangeListener.
type Engine struct {
	store    *store.Store
	kv       repository.KeyValueStore
	log      zerolog.Logger
	metrics  ports.Metrics
	listener ChangeListener
	now      func() time.Time
	newID    func() string
}

// Option configura dependencias opcionales del Engine.
type Option func(*Engine)

// WithClock reemplaza el reloj (tests).
func WithClock(now func() time.Time) Option { return func(e *Engine) { e.now = now } }

// WithIDGenerator reemplaza el generador de IDs de registros (tests).
func WithIDGenerator(fn func() string) Option { return func(e *Engine) { e.newID = fn } }

// WithMetrics conecta el puerto de métricas.
func WithMetrics(m ports.Metrics) Option { return func(e *Engine) { e.metrics = m } }

// NewEngine construye el motor. kv puede ser nil (sin persistencia, p. ej. en tests).
func NewEngine(st *store.Store, kv repository.KeyValueStore, log zerolog.Logger, opts ...Option) *Engine {
	e := &Engine{
		store:   st,
		kv:      kv,
		log:     log,
		metrics: ports.NopMetrics{},
		now:     time.Now,
		newID:   func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SetChangeListener registra quién recibe las notificaciones de cambio (nil para desactivar).
func (e *Engine) SetChangeListener(l ChangeListener) { e.listener = l }

// Store devuelve el Entity Store de la sesión (solo lectura fuera del motor).
func (e *Engine) Store() *store.Store { return e.store }

// ── Productos ────────────────────────────────────────────────────────────────

// CreateProduct crea un producto y una línea en cero por cada ubicación existente.
func (e *Engine) CreateProduct(ctx context.Context, in dto.CreateProductRequest) (*entity.Product, error) {
	p := entity.Product{
		ID:          strings.TrimSpace(in.ID),
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		Unit:        strings.TrimSpace(in.Unit),
		Category:    strings.TrimSpace(in.Category),
	}
	if p.ID == "" || p.Name == "" || p.Unit == "" {
		return nil, fmt.Errorf("%w: id, nombre y unidad son obligatorios", domain.ErrInvalidInput)
	}
	now := e.now()
	err := e.apply(ctx, "create_product", func(tx *store.Tx) error {
		if _, exists := tx.Product(p.ID); exists {
			return fmt.Errorf("%w: el producto %q ya existe", domain.ErrDuplicate, p.ID)
		}
		tx.PutProduct(p)
		for _, loc := range tx.Locations() {
			ensureLine(tx, p.ID, loc.ID, now)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdateProduct edita nombre, descripción, unidad o categoría. El ID es inmutable.
func (e *Engine) UpdateProduct(ctx context.Context, id string, in dto.UpdateProductRequest) (*entity.Product, error) {
	if in.ID != nil && strings.TrimSpace(*in.ID) != id {
		return nil, fmt.Errorf("%w: el id del producto no se puede modificar", domain.ErrInvalidInput)
	}
	var out entity.Product
	err := e.apply(ctx, "update_product", func(tx *store.Tx) error {
		p, ok := tx.Product(id)
		if !ok {
			return fmt.Errorf("%w: producto %q", domain.ErrNotFound, id)
		}
		if in.Name != nil {
			p.Name = strings.TrimSpace(*in.Name)
		}
		if in.Description != nil {
			p.Description = strings.TrimSpace(*in.Description)
		}
		if in.Unit != nil {
			p.Unit = strings.TrimSpace(*in.Unit)
		}
		if in.Category != nil {
			p.Category = strings.TrimSpace(*in.Category)
		}
		if p.Name == "" || p.Unit == "" {
			return fmt.Errorf("%w: nombre y unidad son obligatorios", domain.ErrInvalidInput)
		}
		tx.PutProduct(p)
		out = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteProduct elimina el producto y en cascada sus líneas y registros. Irreversible.
func (e *Engine) DeleteProduct(ctx context.Context, id string) error {
	return e.apply(ctx, "delete_product", func(tx *store.Tx) error {
		if !tx.RemoveProduct(id) {
			return fmt.Errorf("%w: producto %q", domain.ErrNotFound, id)
		}
		lines := tx.RemoveLinesWhere(func(l entity.InventoryLine) bool { return l.ProductID == id })
		recs := tx.RemoveRecordsWhere(func(r entity.TransactionRecord) bool { return r.ProductID == id })
		e.log.Info().Str("product_id", id).Int("lines", lines).Int("records", recs).Msg("producto eliminado en cascada")
		return nil
	})
}

// GetProduct devuelve un producto por ID.
func (e *Engine) GetProduct(id string) (*entity.Product, error) {
	p, ok := e.store.Product(id)
	if !ok {
		return nil, fmt.Errorf("%w: producto %q", domain.ErrNotFound, id)
	}
	return &p, nil
}

// ListProducts devuelve los productos en orden de creación.
func (e *Engine) ListProducts() []entity.Product { return e.store.Products() }

// ── Ubicaciones ──────────────────────────────────────────────────────────────

// CreateLocation crea una ubicación y una línea en cero por cada producto existente.
func (e *Engine) CreateLocation(ctx context.Context, in dto.CreateLocationRequest) (*entity.Location, error) {
	l := entity.Location{
		ID:          strings.TrimSpace(in.ID),
		Name:        strings.TrimSpace(in.Name),
		Address:     strings.TrimSpace(in.Address),
		Description: strings.TrimSpace(in.Description),
	}
	if l.ID == "" || l.Name == "" || l.Address == "" {
		return nil, fmt.Errorf("%w: id, nombre y dirección son obligatorios", domain.ErrInvalidInput)
	}
	now := e.now()
	err := e.apply(ctx, "create_location", func(tx *store.Tx) error {
		if _, exists := tx.Location(l.ID); exists {
			return fmt.Errorf("%w: la ubicación %q ya existe", domain.ErrDuplicate, l.ID)
		}
		tx.PutLocation(l)
		for _, p := range tx.Products() {
			ensureLine(tx, p.ID, l.ID, now)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// UpdateLocation edita nombre, dirección o descripción. El ID es inmutable.
func (e *Engine) UpdateLocation(ctx context.Context, id string, in dto.UpdateLocationRequest) (*entity.Location, error) {
	if in.ID != nil && strings.TrimSpace(*in.ID) != id {
		return nil, fmt.Errorf("%w: el id de la ubicación no se puede modificar", domain.ErrInvalidInput)
	}
	var out entity.Location
	err := e.apply(ctx, "update_location", func(tx *store.Tx) error {
		l, ok := tx.Location(id)
		if !ok {
			return fmt.Errorf("%w: ubicación %q", domain.ErrNotFound, id)
		}
		if in.Name != nil {
			l.Name = strings.TrimSpace(*in.Name)
		}
		if in.Address != nil {
			l.Address = strings.TrimSpace(*in.Address)
		}
		if in.Description != nil {
			l.Description = strings.TrimSpace(*in.Description)
		}
		if l.Name == "" || l.Address == "" {
			return fmt.Errorf("%w: nombre y dirección son obligatorios", domain.ErrInvalidInput)
		}
		tx.PutLocation(l)
		out = l
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteLocation elimina la ubicación y en cascada sus líneas y registros. Irreversible.
func (e *Engine) DeleteLocation(ctx context.Context, id string) error {
	return e.apply(ctx, "delete_location", func(tx *store.Tx) error {
		if !tx.RemoveLocation(id) {
			return fmt.Errorf("%w: ubicación %q", domain.ErrNotFound, id)
		}
		lines := tx.RemoveLinesWhere(func(l entity.InventoryLine) bool { return l.LocationID == id })
		recs := tx.RemoveRecordsWhere(func(r entity.TransactionRecord) bool { return r.LocationID == id })
		e.log.Info().Str("location_id", id).Int("lines", lines).Int("records", recs).Msg("ubicación eliminada en cascada")
		return nil
	})
}

// GetLocation devuelve una ubicación por ID.
func (e *Engine) GetLocation(id string) (*entity.Location, error) {
	l, ok := e.store.Location(id)
	if !ok {
		return nil, fmt.Errorf("%w: ubicación %q", domain.ErrNotFound, id)
	}
	return &l, nil
}

// ListLocations devuelve las ubicaciones en orden de creación.
func (e *Engine) ListLocations() []entity.Location { return e.store.Locations() }

// ── Movimientos de stock ─────────────────────────────────────────────────────

// PostStockIn registra una entrada: busca o crea la línea, suma la cantidad y agrega un registro "in".
// Producto y ubicación deben existir.
func (e *Engine) PostStockIn(ctx context.Context, in dto.StockMovementRequest) (*entity.TransactionRecord, error) {
	return e.post(ctx, entity.TransactionIn, in)
}

// PostStockOut registra una salida. Falla con ErrInsufficientStock si la cantidad actual
// (0 si la línea no existe) es menor a la solicitada; la cantidad nunca queda negativa.
func (e *Engine) PostStockOut(ctx context.Context, in dto.StockMovementRequest) (*entity.TransactionRecord, error) {
	return e.post(ctx, entity.TransactionOut, in)
}

func (e *Engine) post(ctx context.Context, typ entity.TransactionType, in dto.StockMovementRequest) (*entity.TransactionRecord, error) {
	productID := strings.TrimSpace(in.ProductID)
	locationID := strings.TrimSpace(in.LocationID)
	if productID == "" || locationID == "" {
		e.metrics.StockRejected("validation")
		return nil, fmt.Errorf("%w: producto y ubicación son obligatorios", domain.ErrInvalidInput)
	}
	if in.Quantity <= 0 {
		e.metrics.StockRejected("validation")
		return nil, fmt.Errorf("%w: la cantidad debe ser mayor a cero", domain.ErrInvalidInput)
	}
	operator := strings.TrimSpace(in.Operator)
	if operator == "" {
		operator = DefaultOperator
	}

	now := e.now()
	rec := entity.TransactionRecord{
		ID:         e.newID(),
		Type:       typ,
		ProductID:  productID,
		LocationID: locationID,
		Quantity:   in.Quantity,
		Operator:   operator,
		Timestamp:  now,
		Note:       strings.TrimSpace(in.Note),
	}

	err := e.apply(ctx, "post_stock_"+string(typ), func(tx *store.Tx) error {
		if typ == entity.TransactionIn {
			if _, ok := tx.Product(productID); !ok {
				return fmt.Errorf("%w: el producto %q no existe", domain.ErrInvalidInput, productID)
			}
			if _, ok := tx.Location(locationID); !ok {
				return fmt.Errorf("%w: la ubicación %q no existe", domain.ErrInvalidInput, locationID)
			}
		}
		line, ok := tx.Line(productID, locationID)
		if !ok {
			line = entity.InventoryLine{ProductID: productID, LocationID: locationID}
		}
		qty, err := inventory.NextQuantity(line.Quantity, typ, in.Quantity)
		if err != nil {
			return err
		}
		line.Quantity = qty
		line.LastUpdated = now
		tx.PutLine(line)
		tx.AppendRecord(rec)
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInsufficientStock):
			e.metrics.StockRejected("insufficient_stock")
		default:
			e.metrics.StockRejected("validation")
		}
		e.log.Warn().Err(err).Str("type", string(typ)).Str("product_id", productID).Str("location_id", locationID).Int("quantity", in.Quantity).Msg("movimiento rechazado")
		return nil, err
	}
	e.metrics.StockPosted(string(typ), in.Quantity)
	return &rec, nil
}

// ── Configuración ────────────────────────────────────────────────────────────

// SetLowStockThreshold cambia el umbral de stock bajo (solo afecta reportes).
func (e *Engine) SetLowStockThreshold(ctx context.Context, n int) error {
	if n < 0 {
		return fmt.Errorf("%w: el umbral no puede ser negativo", domain.ErrInvalidInput)
	}
	return e.apply(ctx, "set_threshold", func(tx *store.Tx) error {
		st := tx.Settings()
		st.LowStockThreshold = n
		tx.SetSettings(st)
		return nil
	})
}

// UpdateSettings aplica cambios parciales a la configuración (URL remota, auto-sync, intervalo, umbral).
func (e *Engine) UpdateSettings(ctx context.Context, in dto.UpdateSettingsRequest) (entity.Settings, error) {
	if in.SyncIntervalMinutes != nil && *in.SyncIntervalMinutes < 1 {
		return entity.Settings{}, fmt.Errorf("%w: el intervalo debe ser de al menos 1 minuto", domain.ErrInvalidInput)
	}
	if in.LowStockThreshold != nil && *in.LowStockThreshold < 0 {
		return entity.Settings{}, fmt.Errorf("%w: el umbral no puede ser negativo", domain.ErrInvalidInput)
	}
	var out entity.Settings
	err := e.apply(ctx, "update_settings", func(tx *store.Tx) error {
		st := tx.Settings()
		if in.RemoteURL != nil {
			st.RemoteURL = strings.TrimSpace(*in.RemoteURL)
		}
		if in.AutoSyncEnabled != nil {
			st.AutoSyncEnabled = *in.AutoSyncEnabled
		}
		if in.SyncIntervalMinutes != nil {
			st.SyncIntervalMinutes = *in.SyncIntervalMinutes
		}
		if in.LowStockThreshold != nil {
			st.LowStockThreshold = *in.LowStockThreshold
		}
		tx.SetSettings(st)
		out = st
		return nil
	})
	return out, err
}

// Settings devuelve la configuración actual.
func (e *Engine) Settings() entity.Settings { return e.store.Settings() }

// ── Internos ─────────────────────────────────────────────────────────────────

// apply ejecuta fn de forma atómica sobre el Store, persiste lo modificado y notifica.
// Un error de persistencia no revierte la memoria (el Store es la fuente de verdad de la sesión).
func (e *Engine) apply(ctx context.Context, op string, fn func(tx *store.Tx) error) error {
	touched, err := e.store.Update(fn)
	if err != nil {
		return err
	}
	e.log.Debug().Str("op", op).Strs("touched", touched).Msg("mutación confirmada")
	if err := e.persist(ctx, touched); err != nil {
		return err
	}
	if e.listener != nil && len(touched) > 0 {
		e.listener.OnChange(ctx, touched)
	}
	return nil
}

func (e *Engine) persist(ctx context.Context, touched []string) error {
	if e.kv == nil || len(touched) == 0 {
		return nil
	}
	if err := e.store.Persist(ctx, e.kv, touched...); err != nil {
		e.log.Error().Err(err).Strs("touched", touched).Msg("error persistiendo cambios")
		return fmt.Errorf("persistir %s: %w", strings.Join(touched, ","), err)
	}
	return nil
}

// ensureLine crea la línea en cero si el par aún no existe.
func ensureLine(tx *store.Tx, productID, locationID string, now time.Time) {
	if _, ok := tx.Line(productID, locationID); ok {
		return
	}
	tx.PutLine(entity.InventoryLine{ProductID: productID, LocationID: locationID, LastUpdated: now})
}
