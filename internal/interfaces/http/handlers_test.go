package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stocksync/internal/application/auth"
	"github.com/jhoicas/stocksync/internal/application/cloudsync"
	"github.com/jhoicas/stocksync/internal/application/dto"
	"github.com/jhoicas/stocksync/internal/application/inventory"
	"github.com/jhoicas/stocksync/internal/domain"
	"github.com/jhoicas/stocksync/internal/domain/entity"
	"github.com/jhoicas/stocksync/internal/domain/store"
	"github.com/jhoicas/stocksync/internal/infrastructure/accounts"
	"github.com/jhoicas/stocksync/internal/infrastructure/metrics"
	"github.com/jhoicas/stocksync/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/stocksync/internal/interfaces/http"
)

var fixedNow = time.Date(2024, 5, 10, 14, 0, 0, 0, time.UTC)

// stubRemote backend remoto en memoria.
type stubRemote struct {
	mu      sync.Mutex
	pushed  map[string]any
	pullErr error
	pull    *entity.Snapshot
}

func (s *stubRemote) Test(context.Context, string) error { return nil }

func (s *stubRemote) Sync(_ context.Context, _ string, dataType string, payload any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pushed[dataType] = payload
	return nil
}

func (s *stubRemote) Pull(context.Context, string) (*entity.Snapshot, error) {
	if s.pullErr != nil {
		return nil, s.pullErr
	}
	return s.pull, nil
}

type stubSink struct{ keys []string }

func (s *stubSink) Put(_ context.Context, key string, _ []byte) error {
	s.keys = append(s.keys, key)
	return nil
}

type env struct {
	app    *fiber.App
	engine *inventory.Engine
	remote *stubRemote
	sink   *stubSink
}

func newEnv(t *testing.T) *env {
	t.Helper()
	st := store.New()
	engine := inventory.NewEngine(st, nil, zerolog.Nop(), inventory.WithClock(func() time.Time { return fixedNow }))
	remote := &stubRemote{pushed: map[string]any{}}
	rec := cloudsync.NewReconciler(st, nil, remote, zerolog.Nop(), cloudsync.Config{Attempts: 1},
		cloudsync.WithClock(func() time.Time { return fixedNow }))
	sink := &stubSink{}

	hash, err := auth.HashPassword("clave")
	require.NoError(t, err)
	users, err := accounts.Parse("ana:bodeguero:" + hash)
	require.NoError(t, err)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		Engine:     engine,
		Reconciler: rec,
		Auth:       auth.NewAuthUseCase(users, auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: 60, Issuer: "test"}),
		PDF:        pdf.NewMarotoReportGenerator(),
		Backup:     sink,
		Metrics:    metrics.NewPrometheus().Handler(),
		Location:   time.UTC,
		Now:        func() time.Time { return fixedNow },
		JWTSecret:  testJWTSecret,
	})
	return &env{app: app, engine: engine, remote: remote, sink: sink}
}

func (e *env) do(t *testing.T, method, path, role string, body any) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if role != "" {
		req.Header.Set("Authorization", tokenForRole(t, role))
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

// seed crea L1/L2 y P1 vía API.
func (e *env) seed(t *testing.T) {
	t.Helper()
	for _, l := range []dto.CreateLocationRequest{
		{ID: "L1", Name: "Bodega", Address: "Calle 1"},
		{ID: "L2", Name: "Tienda", Address: "Calle 2"},
	} {
		resp := e.do(t, http.MethodPost, "/api/locations", "bodeguero", l)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}
	resp := e.do(t, http.MethodPost, "/api/products", "bodeguero",
		dto.CreateProductRequest{ID: "P1", Name: "Tornillo", Unit: "caja"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestProducts_CreateListGet(t *testing.T) {
	e := newEnv(t)
	e.seed(t)

	list := decode[[]dto.ProductResponse](t, e.do(t, http.MethodGet, "/api/products", "consulta", nil))
	require.Len(t, list, 1)
	assert.Equal(t, "Tornillo", list[0].Name)

	resp := e.do(t, http.MethodGet, "/api/products/NOPE", "consulta", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// una línea en cero por ubicación
	rows := decode[[]dto.InventoryRow](t, e.do(t, http.MethodGet, "/api/inventory?product=P1", "consulta", nil))
	assert.Len(t, rows, 2)
}

func TestProducts_DuplicateAndValidation(t *testing.T) {
	e := newEnv(t)
	e.seed(t)

	resp := e.do(t, http.MethodPost, "/api/products", "admin", dto.CreateProductRequest{ID: "P1", Name: "Otro", Unit: "u"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "DUPLICATE", decode[dto.ErrorResponse](t, resp).Code)

	resp = e.do(t, http.MethodPost, "/api/products", "admin", dto.CreateProductRequest{ID: "P9"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", decode[dto.ErrorResponse](t, resp).Code)
}

func TestProducts_DeleteRequiresAdmin(t *testing.T) {
	e := newEnv(t)
	e.seed(t)

	resp := e.do(t, http.MethodDelete, "/api/products/P1", "bodeguero", nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = e.do(t, http.MethodDelete, "/api/products/P1", "admin", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Empty(t, e.engine.Store().Lines())
}

func TestStock_InOutAndInsufficient(t *testing.T) {
	e := newEnv(t)
	e.seed(t)

	resp := e.do(t, http.MethodPost, "/api/stock/in", "bodeguero",
		dto.StockMovementRequest{ProductID: "P1", LocationID: "L1", Quantity: 10})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	rec := decode[dto.TransactionRecordResponse](t, resp)
	assert.Equal(t, "in", rec.Type)
	assert.Equal(t, testUserID, rec.Operator, "sin operator se usa el usuario del token")

	resp = e.do(t, http.MethodPost, "/api/stock/out", "bodeguero",
		dto.StockMovementRequest{ProductID: "P1", LocationID: "L1", Quantity: 11, Operator: "luis"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "INSUFFICIENT_STOCK", decode[dto.ErrorResponse](t, resp).Code)

	resp = e.do(t, http.MethodPost, "/api/stock/out", "bodeguero",
		dto.StockMovementRequest{ProductID: "P1", LocationID: "L1", Quantity: 4, Operator: "luis"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "luis", decode[dto.TransactionRecordResponse](t, resp).Operator)

	line, ok := e.engine.Store().Line("P1", "L1")
	require.True(t, ok)
	assert.Equal(t, 6, line.Quantity)

	resp = e.do(t, http.MethodPost, "/api/stock/in", "bodeguero",
		dto.StockMovementRequest{ProductID: "P1", LocationID: "L1", Quantity: 0})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = e.do(t, http.MethodPost, "/api/stock/in", "consulta",
		dto.StockMovementRequest{ProductID: "P1", LocationID: "L1", Quantity: 1})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestRecords_FilterAndPaging(t *testing.T) {
	e := newEnv(t)
	e.seed(t)
	for i := 0; i < 3; i++ {
		resp := e.do(t, http.MethodPost, "/api/stock/in", "admin",
			dto.StockMovementRequest{ProductID: "P1", LocationID: "L2", Quantity: 1})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	out := decode[dto.RecordListResponse](t, e.do(t, http.MethodGet, "/api/records?type=in&limit=2", "consulta", nil))
	assert.Equal(t, 3, out.Page.Total)
	assert.Len(t, out.Items, 2)
	assert.Equal(t, "Tienda", out.Items[0].LocationName)

	out = decode[dto.RecordListResponse](t, e.do(t, http.MethodGet, "/api/records?from=2024-05-10&to=2024-05-10", "consulta", nil))
	assert.Equal(t, 3, out.Page.Total)

	out = decode[dto.RecordListResponse](t, e.do(t, http.MethodGet, "/api/records?from=2024-05-11", "consulta", nil))
	assert.Equal(t, 0, out.Page.Total)
	assert.NotNil(t, out.Items)

	resp := e.do(t, http.MethodGet, "/api/records?type=otro", "consulta", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDashboardAndAlerts(t *testing.T) {
	e := newEnv(t)
	e.seed(t)
	resp := e.do(t, http.MethodPost, "/api/stock/in", "admin",
		dto.StockMovementRequest{ProductID: "P1", LocationID: "L1", Quantity: 20})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	d := decode[dto.DashboardResponse](t, e.do(t, http.MethodGet, "/api/dashboard", "consulta", nil))
	assert.Equal(t, 1, d.TotalProducts)
	assert.Equal(t, 2, d.TotalLocations)
	assert.Equal(t, 20, d.TotalQuantity)
	assert.Equal(t, 1, d.TodayRecords)
	assert.Equal(t, 1, d.LowStockCount, "L2 quedó en cero")

	alerts := decode[[]dto.LowStockAlert](t, e.do(t, http.MethodGet, "/api/alerts", "consulta", nil))
	require.Len(t, alerts, 1)
	assert.Equal(t, "L2", alerts[0].LocationID)
	assert.Equal(t, string(entity.StockOut), alerts[0].Status)
}

func TestSettings_ThresholdAndUpdate(t *testing.T) {
	e := newEnv(t)

	st := decode[dto.SettingsResponse](t, e.do(t, http.MethodGet, "/api/settings", "consulta", nil))
	assert.Equal(t, 5, st.LowStockThreshold)

	n := 12
	st = decode[dto.SettingsResponse](t, e.do(t, http.MethodPut, "/api/settings/threshold", "admin", dto.ThresholdRequest{Threshold: &n}))
	assert.Equal(t, 12, st.LowStockThreshold)

	resp := e.do(t, http.MethodPut, "/api/settings/threshold", "admin", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	bad := "no-es-url"
	resp = e.do(t, http.MethodPut, "/api/settings", "admin", dto.UpdateSettingsRequest{RemoteURL: &bad})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	url := "https://script.example.com/exec"
	on := true
	st = decode[dto.SettingsResponse](t, e.do(t, http.MethodPut, "/api/settings", "admin", dto.UpdateSettingsRequest{RemoteURL: &url, AutoSyncEnabled: &on}))
	assert.Equal(t, url, st.RemoteURL)
	assert.True(t, st.AutoSyncEnabled)
}

func TestSync_RequiresRemoteURL(t *testing.T) {
	e := newEnv(t)
	resp := e.do(t, http.MethodPost, "/api/sync/push", "admin", nil)
	assert.Equal(t, http.StatusPreconditionFailed, resp.StatusCode)
	assert.Equal(t, "REMOTE_NOT_CONFIGURED", decode[dto.ErrorResponse](t, resp).Code)
}

func TestSync_PushPullStatus(t *testing.T) {
	e := newEnv(t)
	e.seed(t)
	url := "https://script.example.com/exec"
	resp := e.do(t, http.MethodPut, "/api/settings", "admin", dto.UpdateSettingsRequest{RemoteURL: &url})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	status := decode[dto.SyncStatusResponse](t, e.do(t, http.MethodPost, "/api/sync/push", "admin", nil))
	assert.Equal(t, cloudsync.ResultSuccess, status.Push.LastResult)
	require.NotNil(t, status.LastSyncTime)
	assert.True(t, status.LastSyncTime.Equal(fixedNow))
	assert.Contains(t, e.remote.pushed, cloudsync.DataTypeAll)

	resp = e.do(t, http.MethodPost, "/api/sync/push/records", "admin", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp = e.do(t, http.MethodPost, "/api/sync/push/otra", "admin", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	e.remote.pull = &entity.Snapshot{Products: []entity.Product{{ID: "PX", Name: "Remoto", Unit: "u"}}}
	pulled := decode[dto.PullResponse](t, e.do(t, http.MethodPost, "/api/sync/pull", "admin", nil))
	assert.Equal(t, []string{entity.CollectionProducts}, pulled.Replaced)
	assert.Len(t, e.engine.ListLocations(), 2, "las colecciones ausentes no cambian")

	e.remote.pullErr = &domain.RemoteError{Reason: "hoja bloqueada"}
	resp = e.do(t, http.MethodPost, "/api/sync/pull", "admin", nil)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Equal(t, "REMOTE_REJECTED", decode[dto.ErrorResponse](t, resp).Code)

	status = decode[dto.SyncStatusResponse](t, e.do(t, http.MethodGet, "/api/sync/status", "consulta", nil))
	assert.Equal(t, cloudsync.ResultFailed, status.Pull.LastResult)
	assert.Contains(t, status.Pull.LastError, "hoja bloqueada")
}

func TestExport_Formats(t *testing.T) {
	e := newEnv(t)
	e.seed(t)

	resp := e.do(t, http.MethodGet, "/api/export/inventory.csv", "consulta", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.True(t, bytes.HasPrefix(body, []byte{0xEF, 0xBB, 0xBF}))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "inventario_2024-05-10.csv")

	resp = e.do(t, http.MethodGet, "/api/export/records.xlsx", "consulta", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, _ = io.ReadAll(resp.Body)
	assert.True(t, bytes.HasPrefix(body, []byte("PK")), "xlsx es un zip")

	resp = e.do(t, http.MethodGet, "/api/export/inventory.pdf", "consulta", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, _ = io.ReadAll(resp.Body)
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF")))
}

func TestBackup_DownloadRestoreClear(t *testing.T) {
	e := newEnv(t)
	e.seed(t)

	doc := decode[dto.BackupDocument](t, e.do(t, http.MethodGet, "/api/backup", "consulta", nil))
	assert.Len(t, doc.Locations, 2)

	resp := e.do(t, http.MethodDelete, "/api/data", "bodeguero", nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = e.do(t, http.MethodDelete, "/api/data", "admin", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, e.engine.ListProducts())

	resp = e.do(t, http.MethodPost, "/api/backup/restore", "admin", doc)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, e.engine.ListProducts(), 1)
	assert.Len(t, e.engine.Store().Lines(), 2)

	resp = e.do(t, http.MethodPost, "/api/backup/restore", "admin", map[string]any{"products": []any{}})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	up := decode[dto.BackupUploadResponse](t, e.do(t, http.MethodPost, "/api/backup/upload", "bodeguero", nil))
	assert.Equal(t, []string{up.Key}, e.sink.keys)
}

func TestMetricsEndpoint(t *testing.T) {
	e := newEnv(t)
	resp, err := e.app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAPI_RequiresToken(t *testing.T) {
	e := newEnv(t)
	resp := e.do(t, http.MethodGet, "/api/inventory", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestLogin_TokenOpensProtectedRoutes(t *testing.T) {
	e := newEnv(t)

	resp := e.do(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Username: "ana", Password: "clave"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	login := decode[dto.LoginResponse](t, resp)
	assert.Equal(t, "bodeguero", login.User.Role)

	req := httptest.NewRequest(http.MethodPost, "/api/locations",
		bytes.NewReader([]byte(`{"id":"L9","name":"Bodega","address":"Calle 9"}`)))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+login.Token)
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestLogin_BadCredentials(t *testing.T) {
	e := newEnv(t)

	resp := e.do(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Username: "ana", Password: "mala"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = e.do(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Username: "ana"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
