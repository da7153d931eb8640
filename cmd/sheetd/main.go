// sheetd sirve el backend remoto de referencia: el protocolo de acciones (test/sync/pull)
// sobre un libro .xlsx con una hoja por colección.
//
// Uso: SHEET_PATH=inventario.xlsx SHEET_PORT=8090 go run ./cmd/sheetd
// La URL remota a configurar en la API es http://<host>:<port>/exec
package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/stocksync/internal/infrastructure/sheet"
	"github.com/jhoicas/stocksync/pkg/config"
	"github.com/jhoicas/stocksync/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	wb, err := sheet.Open(cfg.Sheet.Path)
	if err != nil {
		log.Fatal().Err(err).Msg("abrir libro")
	}
	log.Info().Str("path", cfg.Sheet.Path).Str("addr", cfg.Sheet.Addr()).Msg("backend de planilla iniciado")

	app := fiber.New(fiber.Config{
		AppName:   "stocksync-sheetd",
		BodyLimit: 32 * 1024 * 1024,
	})
	app.Use(recover.New())
	sheet.NewHandler(wb, log.Component("sheet")).Register(app, "/exec")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return app.Listen(cfg.Sheet.Addr()) })
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return app.ShutdownWithContext(shutdownCtx)
	})
	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("servidor finalizado con error")
		return
	}
	log.Info().Msg("backend de planilla detenido")
}
