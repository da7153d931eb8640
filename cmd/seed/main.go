// seed carga un conjunto de datos de ejemplo en la persistencia configurada
// e imprime un token de administrador para pruebas locales.
//
// Uso: go run ./cmd/seed [-force] [-hash clave]
// Sin -force no toca una base que ya tenga productos.
// -hash solo imprime el hash bcrypt de la clave para AUTH_USERS y termina.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/jhoicas/stocksync/internal/application/auth"
	"github.com/jhoicas/stocksync/internal/application/dto"
	"github.com/jhoicas/stocksync/internal/application/inventory"
	"github.com/jhoicas/stocksync/internal/domain/store"
	"github.com/jhoicas/stocksync/internal/infrastructure/storage"
	"github.com/jhoicas/stocksync/pkg/config"
	"github.com/jhoicas/stocksync/pkg/jwt"
	"github.com/jhoicas/stocksync/pkg/logger"
)

var (
	sampleLocations = []dto.CreateLocationRequest{
		{ID: "L001", Name: "Bodega principal", Address: "Calle 10 # 20-30", Description: "Almacén central"},
		{ID: "L002", Name: "Tienda centro", Address: "Carrera 7 # 12-45", Description: "Punto de venta"},
	}
	sampleProducts = []dto.CreateProductRequest{
		{ID: "P001", Name: "Tornillo hexagonal 3/8", Description: "Acero galvanizado", Unit: "caja", Category: "ferretería"},
		{ID: "P002", Name: "Pintura blanca 1 gal", Description: "Vinilo tipo 1", Unit: "galón", Category: "pinturas"},
	}
	// cantidades iniciales por (producto, ubicación)
	sampleStock = []dto.StockMovementRequest{
		{ProductID: "P001", LocationID: "L001", Quantity: 100},
		{ProductID: "P002", LocationID: "L001", Quantity: 200},
		{ProductID: "P001", LocationID: "L002", Quantity: 50},
	}
)

func main() {
	force := flag.Bool("force", false, "borrar los datos existentes antes de sembrar")
	hashPassword := flag.String("hash", "", "imprimir el hash bcrypt de esta clave y salir")
	flag.Parse()

	if *hashPassword != "" {
		hash, err := auth.HashPassword(*hashPassword)
		if err != nil {
			fmt.Fprintln(os.Stderr, "hash:", err)
			os.Exit(1)
		}
		fmt.Println(hash)
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "cargar configuración:", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})
	if err := run(context.Background(), cfg, log.Component("seed"), *force); err != nil {
		log.Fatal().Err(err).Msg("seed")
	}

	if cfg.JWT.Secret != "" {
		tok, err := jwt.Generate(cfg.JWT.Secret, "admin", jwt.RoleAdmin, cfg.JWT.Issuer, cfg.JWT.Expiration)
		if err != nil {
			log.Fatal().Err(err).Msg("generar token")
		}
		fmt.Println("Token admin de desarrollo:")
		fmt.Println(tok)
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger, force bool) error {
	backends, err := storage.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer backends.Close()

	st := store.New()
	if err := st.Load(ctx, backends.KV); err != nil {
		return err
	}
	engine := inventory.NewEngine(st, backends.KV, log)

	if len(st.Products()) > 0 {
		if !force {
			log.Info().Int("products", len(st.Products())).Msg("la base ya tiene datos; use -force para reemplazarlos")
			return nil
		}
		if err := engine.ClearAll(ctx); err != nil {
			return err
		}
	}

	for _, l := range sampleLocations {
		if _, err := engine.CreateLocation(ctx, l); err != nil {
			return fmt.Errorf("ubicación %s: %w", l.ID, err)
		}
	}
	for _, p := range sampleProducts {
		if _, err := engine.CreateProduct(ctx, p); err != nil {
			return fmt.Errorf("producto %s: %w", p.ID, err)
		}
	}
	for _, m := range sampleStock {
		m.Operator = "seed"
		m.Note = "Carga inicial"
		if _, err := engine.PostStockIn(ctx, m); err != nil {
			return fmt.Errorf("stock %s/%s: %w", m.ProductID, m.LocationID, err)
		}
	}
	log.Info().
		Int("locations", len(sampleLocations)).
		Int("products", len(sampleProducts)).
		Int("lines", len(st.Lines())).
		Msg("datos de ejemplo cargados")
	return nil
}
