package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/stocksync/internal/application/auth"
	"github.com/jhoicas/stocksync/internal/application/cloudsync"
	"github.com/jhoicas/stocksync/internal/application/dto"
	"github.com/jhoicas/stocksync/internal/application/inventory"
	"github.com/jhoicas/stocksync/internal/domain/store"
	"github.com/jhoicas/stocksync/internal/infrastructure/accounts"
	infrabackup "github.com/jhoicas/stocksync/internal/infrastructure/backup"
	"github.com/jhoicas/stocksync/internal/infrastructure/lock"
	"github.com/jhoicas/stocksync/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/stocksync/internal/infrastructure/pdf"
	"github.com/jhoicas/stocksync/internal/infrastructure/remote"
	"github.com/jhoicas/stocksync/internal/infrastructure/storage"
	httpRouter "github.com/jhoicas/stocksync/internal/interfaces/http"
	"github.com/jhoicas/stocksync/pkg/config"
	"github.com/jhoicas/stocksync/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.Store.Driver).
		Msg("iniciando aplicación")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	backends, err := storage.Open(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("abrir persistencia")
	}
	defer backends.Close()

	st := store.New()
	if err := st.Load(ctx, backends.KV); err != nil {
		log.Fatal().Err(err).Msg("cargar datos persistidos")
	}
	log.Info().
		Int("products", len(st.Products())).
		Int("locations", len(st.Locations())).
		Int("records", len(st.Records())).
		Msg("datos cargados")

	prom := metrics.NewPrometheus()
	engine := inventory.NewEngine(st, backends.KV, log.Component("engine"), inventory.WithMetrics(prom))

	// URL remota inicial desde el entorno si la configuración persistida no tiene una.
	if cfg.Sync.RemoteURL != "" && st.Settings().RemoteURL == "" {
		if _, err := engine.UpdateSettings(ctx, dto.UpdateSettingsRequest{RemoteURL: &cfg.Sync.RemoteURL}); err != nil {
			log.Warn().Err(err).Msg("no se pudo aplicar REMOTE_URL")
		}
	}

	syncOpts := []cloudsync.Option{cloudsync.WithMetrics(prom)}
	if backends.Redis != nil {
		syncOpts = append(syncOpts, cloudsync.WithLock(lock.NewRedisSyncLock(backends.Redis, cfg.Sync.LockTTL, log.Component("lock"))))
	}
	reconciler := cloudsync.NewReconciler(
		st, backends.KV,
		remote.NewClient(cfg.Sync.Timeout, log.Component("remote")),
		log.Component("sync"),
		cloudsync.Config{Attempts: cfg.Sync.RetryAttempts, BaseDelay: cfg.Sync.RetryBase},
		syncOpts...,
	)

	autoSync := cloudsync.NewAutoSync(reconciler, st, log.Component("autosync"), cfg.Sync.Timeout*time.Duration(cfg.Sync.RetryAttempts+1))
	engine.SetChangeListener(autoSync)
	if err := autoSync.Start(); err != nil {
		log.Fatal().Err(err).Msg("programar sincronización automática")
	}
	defer autoSync.Stop()

	var backupSink inventory.BackupSink
	if cfg.Backup.Bucket != "" {
		sink, err := infrabackup.NewS3Sink(ctx, infrabackup.Config{
			Region:    cfg.Backup.Region,
			Bucket:    cfg.Backup.Bucket,
			Prefix:    cfg.Backup.Prefix,
			Endpoint:  cfg.Backup.Endpoint,
			PathStyle: cfg.Backup.PathStyle,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("configurar respaldos S3")
		}
		backupSink = sink
	}

	var authUC *auth.AuthUseCase
	users, err := accounts.Parse(cfg.JWT.Users)
	if err != nil {
		log.Fatal().Err(err).Msg("leer AUTH_USERS")
	}
	if users.Len() > 0 {
		authUC = auth.NewAuthUseCase(users, auth.JWTConfig{
			Secret:     cfg.JWT.Secret,
			ExpMinutes: cfg.JWT.Expiration,
			Issuer:     cfg.JWT.Issuer,
		})
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: cfg.Sync.Timeout * time.Duration(cfg.Sync.RetryAttempts+1),
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "StockSync API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "store": cfg.Store.Driver})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Engine:     engine,
		Reconciler: reconciler,
		Auth:       authUC,
		PDF:        infrapdf.NewMarotoReportGenerator(),
		Backup:     backupSink,
		Metrics:    prom.Handler(),
		Location:   cfg.App.Location(),
		JWTSecret:  cfg.JWT.Secret,
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return app.Listen(cfg.HTTP.Addr())
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("señal de apagado recibida, cerrando servidor...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return app.ShutdownWithContext(shutdownCtx)
	})
	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("servidor HTTP finalizado")
		os.Exit(1)
	}

	log.Info().Msg("aplicación detenida")
}
