// Package cloudsync reconcilia el Entity Store con el backend remoto de snapshots (push/pull/test).
package cloudsync

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/stocksync/internal/application/ports"
	"github.com/jhoicas/stocksync/internal/domain"
	"github.com/jhoicas/stocksync/internal/domain/entity"
	"github.com/jhoicas/stocksync/internal/domain/repository"
	"github.com/jhoicas/stocksync/internal/domain/store"
)

// DataTypeAll dataType del push completo.
const DataTypeAll = "all"

// Direction dirección de sincronización; cada una tiene su propia máquina de estados.
type Direction string

const (
	DirectionPush Direction = "push"
	DirectionPull Direction = "pull"
)

// State estado de una dirección: Idle -> Syncing -> Idle(success|failed).
type State string

const (
	StateIdle    State = "idle"
	StateSyncing State = "syncing"
)

// Resultados de la última ejecución.
const (
	ResultSuccess = "success"
	ResultFailed  = "failed"
)

// Config parámetros de reintento del push.
type Config struct {
	Attempts  int
	BaseDelay time.Duration
}

// DefaultConfig 3 intentos; espera 1s y 2s entre ellos.
func DefaultConfig() Config {
	return Config{Attempts: 3, BaseDelay: time.Second}
}

// DirectionStatus foto del estado de una dirección.
type DirectionStatus struct {
	State      State
	LastResult string
	LastError  error
	LastRunAt  *time.Time
}

// Status estado del reconciliador.
type Status struct {
	Push         DirectionStatus
	Pull         DirectionStatus
	LastSyncTime *time.Time
}

// PullResult snapshot recibido y colecciones reemplazadas localmente.
type PullResult struct {
	Snapshot entity.Snapshot
	Replaced []string
}

type directionState struct {
	syncing    bool
	lastResult string
	lastErr    error
	lastRun    *time.Time
}

// Reconciler sincroniza el Store con el RemoteBackend. Un segundo pedido en la misma
// dirección mientras otro está en curso se rechaza con ErrSyncInProgress (no se encola).
type Reconciler struct {
	store   *store.Store
	kv      repository.KeyValueStore
	remote  repository.RemoteBackend
	lock    repository.SyncLock
	log     zerolog.Logger
	metrics ports.Metrics
	cfg     Config
	now     func() time.Time
	sleep   func(ctx context.Context, d time.Duration) error

	mu    sync.Mutex
	state map[Direction]*directionState
}

// Option configura dependencias opcionales del Reconciler.
type Option func(*Reconciler)

// WithLock agrega un candado entre procesos (p. ej. Redis).
func WithLock(l repository.SyncLock) Option { return func(r *Reconciler) { r.lock = l } }

// WithMetrics conecta el puerto de métricas.
func WithMetrics(m ports.Metrics) Option { return func(r *Reconciler) { r.metrics = m } }

// WithClock reemplaza el reloj (tests).
func WithClock(now func() time.Time) Option { return func(r *Reconciler) { r.now = now } }

// WithSleep reemplaza la espera entre reintentos (tests).
func WithSleep(fn func(ctx context.Context, d time.Duration) error) Option {
	return func(r *Reconciler) { r.sleep = fn }
}

// NewReconciler construye el reconciliador. kv puede ser nil (sin persistencia).
func NewReconciler(st *store.Store, kv repository.KeyValueStore, remote repository.RemoteBackend, log zerolog.Logger, cfg Config, opts ...Option) *Reconciler {
	if cfg.Attempts <= 0 {
		cfg.Attempts = DefaultConfig().Attempts
	}
	if cfg.BaseDelay < 0 {
		cfg.BaseDelay = 0
	}
	r := &Reconciler{
		store:   st,
		kv:      kv,
		remote:  remote,
		log:     log,
		metrics: ports.NopMetrics{},
		cfg:     cfg,
		now:     time.Now,
		sleep:   sleepCtx,
		state: map[Direction]*directionState{
			DirectionPush: {},
			DirectionPull: {},
		},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Test verifica la conexión con el backend remoto (action=test).
func (r *Reconciler) Test(ctx context.Context) error {
	endpoint, err := r.endpoint()
	if err != nil {
		return err
	}
	if err := r.remote.Test(ctx, endpoint); err != nil {
		r.log.Warn().Err(err).Msg("prueba de conexión fallida")
		return err
	}
	return nil
}

// Push envía las cuatro colecciones y la marca de tiempo (dataType=all) con reintentos
// ante fallas de transporte. Un rechazo del backend se devuelve de inmediato.
// Si tiene éxito registra LastSyncTime en la configuración.
func (r *Reconciler) Push(ctx context.Context) (err error) {
	endpoint, err := r.endpoint()
	if err != nil {
		return err
	}
	done, err := r.begin(ctx, DirectionPush)
	if err != nil {
		return err
	}
	defer func() { done(err) }()

	at := r.now().UTC()
	payload := entity.SyncPayload{Snapshot: r.store.Snapshot(), LastSync: at}
	if err = r.withRetry(ctx, DirectionPush, func() error {
		return r.remote.Sync(ctx, endpoint, DataTypeAll, payload)
	}); err != nil {
		return err
	}

	touched, _ := r.store.Update(func(tx *store.Tx) error {
		st := tx.Settings()
		st.LastSyncTime = &at
		tx.SetSettings(st)
		return nil
	})
	if err = r.persist(ctx, touched); err != nil {
		return err
	}
	r.log.Info().
		Int("products", len(payload.Products)).
		Int("locations", len(payload.Locations)).
		Int("inventory", len(payload.Inventory)).
		Int("records", len(payload.Records)).
		Msg("push completado")
	return nil
}

// PushCollection envía una sola colección (dataType=products|locations|inventory|records).
func (r *Reconciler) PushCollection(ctx context.Context, name string) (err error) {
	if !entity.IsCollection(name) {
		return fmt.Errorf("%w: colección %q", domain.ErrInvalidInput, name)
	}
	endpoint, err := r.endpoint()
	if err != nil {
		return err
	}
	done, err := r.begin(ctx, DirectionPush)
	if err != nil {
		return err
	}
	defer func() { done(err) }()

	data := r.store.Snapshot().Collection(name)
	err = r.withRetry(ctx, DirectionPush, func() error {
		return r.remote.Sync(ctx, endpoint, name, data)
	})
	if err == nil {
		r.log.Info().Str("collection", name).Msg("colección sincronizada")
	}
	return err
}

// Pull trae el snapshot remoto y reemplaza por completo cada colección presente;
// las ausentes quedan intactas. Si falla, el estado local no cambia. Sin reintentos.
func (r *Reconciler) Pull(ctx context.Context) (res *PullResult, err error) {
	endpoint, err := r.endpoint()
	if err != nil {
		return nil, err
	}
	done, err := r.begin(ctx, DirectionPull)
	if err != nil {
		return nil, err
	}
	defer func() { done(err) }()

	start := r.now()
	snap, err := r.remote.Pull(ctx, endpoint)
	r.metrics.SyncDuration(string(DirectionPull), r.now().Sub(start))
	if err != nil {
		r.metrics.SyncAttempt(string(DirectionPull), attemptResult(err))
		r.log.Warn().Err(err).Msg("pull fallido")
		return nil, err
	}
	r.metrics.SyncAttempt(string(DirectionPull), ResultSuccess)

	replaced := r.store.Replace(*snap)
	res = &PullResult{Snapshot: *snap, Replaced: replaced}
	if len(replaced) < len(entity.Collections) {
		r.log.Info().Strs("replaced", replaced).Msg("pull parcial: colecciones ausentes sin cambios")
	}
	if err = r.persist(ctx, replaced); err != nil {
		return res, err
	}
	r.log.Info().Strs("replaced", replaced).Msg("pull completado")
	return res, nil
}

// Status devuelve el estado de ambas direcciones y la última sincronización.
func (r *Reconciler) Status() Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	return Status{
		Push:         r.state[DirectionPush].snapshot(),
		Pull:         r.state[DirectionPull].snapshot(),
		LastSyncTime: r.store.Settings().LastSyncTime,
	}
}

func (s *directionState) snapshot() DirectionStatus {
	st := DirectionStatus{State: StateIdle, LastResult: s.lastResult, LastError: s.lastErr, LastRunAt: s.lastRun}
	if s.syncing {
		st.State = StateSyncing
	}
	return st
}

// ── Internos ─────────────────────────────────────────────────────────────────

func (r *Reconciler) endpoint() (string, error) {
	url := r.store.Settings().RemoteURL
	if url == "" {
		return "", domain.ErrRemoteNotConfigured
	}
	return url, nil
}

// begin pasa la dirección a Syncing o devuelve ErrSyncInProgress. done la devuelve a Idle.
func (r *Reconciler) begin(ctx context.Context, dir Direction) (func(error), error) {
	r.mu.Lock()
	st := r.state[dir]
	if st.syncing {
		r.mu.Unlock()
		r.log.Debug().Str("direction", string(dir)).Msg("sincronización rechazada: ya en curso")
		return nil, fmt.Errorf("%w: %s", domain.ErrSyncInProgress, dir)
	}
	st.syncing = true
	r.mu.Unlock()

	release := func() {}
	if r.lock != nil {
		rel, err := r.lock.Acquire(ctx, string(dir))
		if err != nil {
			r.mu.Lock()
			st.syncing = false
			r.mu.Unlock()
			return nil, err
		}
		release = rel
	}

	return func(err error) {
		release()
		at := r.now()
		r.mu.Lock()
		defer r.mu.Unlock()
		st.syncing = false
		st.lastRun = &at
		st.lastErr = err
		if err != nil {
			st.lastResult = ResultFailed
		} else {
			st.lastResult = ResultSuccess
		}
	}, nil
}

// withRetry reintenta fn solo ante ErrTransport, esperando attempt*BaseDelay entre intentos.
func (r *Reconciler) withRetry(ctx context.Context, dir Direction, fn func() error) error {
	var lastErr error
	for attempt := 1; attempt <= r.cfg.Attempts; attempt++ {
		start := r.now()
		err := fn()
		r.metrics.SyncDuration(string(dir), r.now().Sub(start))
		if err == nil {
			r.metrics.SyncAttempt(string(dir), ResultSuccess)
			return nil
		}
		r.metrics.SyncAttempt(string(dir), attemptResult(err))
		if !errors.Is(err, domain.ErrTransport) {
			r.log.Warn().Err(err).Str("direction", string(dir)).Int("attempt", attempt).Msg("sincronización rechazada por el backend")
			return err
		}
		lastErr = err
		r.log.Warn().Err(err).Str("direction", string(dir)).Int("attempt", attempt).Int("max", r.cfg.Attempts).Msg("intento de sincronización fallido")
		if attempt == r.cfg.Attempts {
			break
		}
		if err := r.sleep(ctx, time.Duration(attempt)*r.cfg.BaseDelay); err != nil {
			return fmt.Errorf("%w: %v", lastErr, err)
		}
	}
	return fmt.Errorf("tras %d intentos: %w", r.cfg.Attempts, lastErr)
}

func (r *Reconciler) persist(ctx context.Context, touched []string) error {
	if r.kv == nil || len(touched) == 0 {
		return nil
	}
	if err := r.store.Persist(ctx, r.kv, touched...); err != nil {
		r.log.Error().Err(err).Strs("touched", touched).Msg("error persistiendo resultado de sincronización")
		return fmt.Errorf("persistir %v: %w", touched, err)
	}
	return nil
}

func attemptResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrTransport):
		return "transport_error"
	case errors.Is(err, domain.ErrRemoteRejected):
		return "rejected"
	default:
		return "error"
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
