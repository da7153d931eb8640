package cloudsync

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/jhoicas/stocksync/internal/domain"
	"github.com/jhoicas/stocksync/internal/domain/entity"
	"github.com/jhoicas/stocksync/internal/domain/store"
)

// Pusher lo que AutoSync necesita del reconciliador.
type Pusher interface {
	Push(ctx context.Context) error
}

// AutoSync hace push periódico (@every N minutos) y después de cada cambio local
// cuando la sincronización automática está activa y hay URL remota configurada.
// Solo hay un push automático a la vez; los cambios que llegan durante uno en curso
// se acumulan en un único push posterior.
type AutoSync struct {
	pusher   Pusher
	settings func() entity.Settings
	log      zerolog.Logger
	timeout  time.Duration

	mu       sync.Mutex
	cron     *cron.Cron
	entryID  cron.EntryID
	schedule string

	pushMu  sync.Mutex
	running bool
	dirty   bool
	stopped bool
	wg      sync.WaitGroup
}

// NewAutoSync construye el programador. settings se consulta en cada reconfiguración.
func NewAutoSync(p Pusher, st *store.Store, log zerolog.Logger, timeout time.Duration) *AutoSync {
	if timeout <= 0 {
		timeout = time.Minute
	}
	return &AutoSync{
		pusher:   p,
		settings: st.Settings,
		log:      log,
		timeout:  timeout,
		cron:     cron.New(),
	}
}

// Start arranca el programador con la configuración actual.
func (a *AutoSync) Start() error {
	if err := a.Reconfigure(); err != nil {
		return err
	}
	a.cron.Start()
	return nil
}

// Stop detiene el programador y espera los push en curso. Después de Stop se ignoran
// los cambios notificados.
func (a *AutoSync) Stop() {
	a.pushMu.Lock()
	a.stopped = true
	a.pushMu.Unlock()
	<-a.cron.Stop().Done()
	a.wg.Wait()
}

// Reconfigure vuelve a programar el push según la configuración vigente.
func (a *AutoSync) Reconfigure() error {
	st := a.settings()
	a.mu.Lock()
	defer a.mu.Unlock()

	schedule := ""
	if enabled(st) {
		interval := st.SyncIntervalMinutes
		if interval <= 0 {
			interval = entity.DefaultSyncIntervalMinutes
		}
		schedule = fmt.Sprintf("@every %dm", interval)
	}
	if schedule == a.schedule {
		return nil
	}
	if a.entryID != 0 {
		a.cron.Remove(a.entryID)
		a.entryID = 0
	}
	a.schedule = schedule
	if schedule == "" {
		a.log.Info().Msg("sincronización automática desactivada")
		return nil
	}
	id, err := a.cron.AddFunc(schedule, a.trigger)
	if err != nil {
		a.schedule = ""
		return fmt.Errorf("autosync: programar %q: %w", schedule, err)
	}
	a.entryID = id
	a.log.Info().Str("schedule", schedule).Msg("sincronización automática programada")
	return nil
}

// Schedule devuelve la expresión programada ("" si está desactivada).
func (a *AutoSync) Schedule() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.schedule
}

// OnChange implementa inventory.ChangeListener: reprograma si cambió la configuración
// y dispara un push en segundo plano si cambiaron colecciones.
func (a *AutoSync) OnChange(_ context.Context, touched []string) {
	collections := false
	for _, name := range touched {
		if name == store.SettingsKey {
			if err := a.Reconfigure(); err != nil {
				a.log.Error().Err(err).Msg("error reprogramando sincronización automática")
			}
			continue
		}
		collections = true
	}
	if collections && enabled(a.settings()) {
		a.trigger()
	}
}

// trigger lanza un push en segundo plano o, si ya hay uno en curso, lo marca pendiente.
func (a *AutoSync) trigger() {
	a.pushMu.Lock()
	defer a.pushMu.Unlock()
	if a.stopped {
		return
	}
	if a.running {
		a.dirty = true
		return
	}
	a.running = true
	a.wg.Add(1)
	go a.loop()
}

func (a *AutoSync) loop() {
	defer a.wg.Done()
	for {
		a.run()
		a.pushMu.Lock()
		if !a.dirty || a.stopped {
			a.running = false
			a.dirty = false
			a.pushMu.Unlock()
			return
		}
		a.dirty = false
		a.pushMu.Unlock()
	}
}

func (a *AutoSync) run() {
	ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
	defer cancel()
	err := a.pusher.Push(ctx)
	switch {
	case err == nil:
		a.log.Debug().Msg("push automático completado")
	case errors.Is(err, domain.ErrSyncInProgress):
		a.log.Debug().Msg("push automático omitido: hay un push manual en curso")
	default:
		a.log.Error().Err(err).Msg("push automático fallido")
	}
}

func enabled(st entity.Settings) bool {
	return st.AutoSyncEnabled && st.RemoteURL != ""
}
