package http

import (
	stdhttp "net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/jhoicas/stocksync/internal/application/auth"
	"github.com/jhoicas/stocksync/internal/application/cloudsync"
	"github.com/jhoicas/stocksync/internal/application/inventory"
	"github.com/jhoicas/stocksync/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Engine     *inventory.Engine
	Reconciler *cloudsync.Reconciler
	Auth       *auth.AuthUseCase // opcional; sin cuentas no hay /api/auth/login
	PDF        ReportPDFGenerator
	Backup     inventory.BackupSink // opcional
	Metrics    stdhttp.Handler      // opcional; se monta en /metrics
	Location   *time.Location
	Now        func() time.Time
	JWTSecret  string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	if deps.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(deps.Metrics))
	}

	// Login público, registrado antes del grupo protegido.
	if deps.Auth != nil {
		app.Post("/api/auth/login", NewAuthHandler(deps.Auth).Login)
	}

	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	// Roles: lectura para todos; escritura admin/bodeguero; destructivas solo admin.
	anyRole := RequireRole(jwt.RoleAdmin, jwt.RoleBodeguero, jwt.RoleConsulta)
	writer := RequireRole(jwt.RoleAdmin, jwt.RoleBodeguero)
	admin := RequireRole(jwt.RoleAdmin)

	products := api.Group("/products")
	productHandler := NewProductHandler(deps.Engine)
	products.Get("/", anyRole, productHandler.List)
	products.Get("/:id", anyRole, productHandler.GetByID)
	products.Post("/", writer, productHandler.Create)
	products.Put("/:id", writer, productHandler.Update)
	products.Delete("/:id", admin, productHandler.Delete)

	locations := api.Group("/locations")
	locationHandler := NewLocationHandler(deps.Engine)
	locations.Get("/", anyRole, locationHandler.List)
	locations.Get("/:id", anyRole, locationHandler.GetByID)
	locations.Post("/", writer, locationHandler.Create)
	locations.Put("/:id", writer, locationHandler.Update)
	locations.Delete("/:id", admin, locationHandler.Delete)

	stock := api.Group("/stock", writer)
	stockHandler := NewStockHandler(deps.Engine)
	stock.Post("/in", stockHandler.In)
	stock.Post("/out", stockHandler.Out)

	reportHandler := NewReportHandler(deps.Engine, deps.Location, deps.Now)
	api.Get("/inventory", anyRole, reportHandler.Inventory)
	api.Get("/records", anyRole, reportHandler.Records)
	api.Get("/alerts", anyRole, reportHandler.Alerts)
	api.Get("/dashboard", anyRole, reportHandler.Dashboard)

	settings := api.Group("/settings")
	settingsHandler := NewSettingsHandler(deps.Engine)
	settings.Get("/", anyRole, settingsHandler.Get)
	settings.Put("/", writer, settingsHandler.Update)
	settings.Put("/threshold", writer, settingsHandler.SetThreshold)

	syncGroup := api.Group("/sync")
	syncHandler := NewSyncHandler(deps.Reconciler, deps.Engine)
	syncGroup.Get("/status", anyRole, syncHandler.Status)
	syncGroup.Post("/test", writer, syncHandler.Test)
	syncGroup.Post("/push", writer, syncHandler.Push)
	syncGroup.Post("/push/:collection", writer, syncHandler.PushCollection)
	syncGroup.Post("/pull", writer, syncHandler.Pull)

	exports := api.Group("/export", anyRole)
	exportHandler := NewExportHandler(deps.Engine, deps.PDF, deps.Location, deps.Now)
	exports.Get("/inventory.csv", exportHandler.InventoryCSV)
	exports.Get("/inventory.xlsx", exportHandler.InventoryXLSX)
	exports.Get("/inventory.pdf", exportHandler.InventoryPDF)
	exports.Get("/records.csv", exportHandler.RecordsCSV)
	exports.Get("/records.xlsx", exportHandler.RecordsXLSX)

	backupHandler := NewBackupHandler(deps.Engine, deps.Backup)
	api.Get("/backup", anyRole, backupHandler.Download)
	api.Post("/backup/upload", writer, backupHandler.Upload)
	api.Post("/backup/restore", admin, backupHandler.Restore)
	api.Delete("/data", admin, backupHandler.Clear)
}
