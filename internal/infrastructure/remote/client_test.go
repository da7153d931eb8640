package remote_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stocksync/internal/domain"
	"github.com/jhoicas/stocksync/internal/domain/entity"
	"github.com/jhoicas/stocksync/internal/infrastructure/remote"
)

func newClient() *remote.Client { return remote.NewClient(5*time.Second, zerolog.Nop()) }

func TestClient_SyncSendsForm(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseMultipartForm(1<<20))
		got = map[string]string{
			"action":   r.FormValue("action"),
			"dataType": r.FormValue("dataType"),
			"data":     r.FormValue("data"),
		}
		_, _ = w.Write([]byte(`{"success":true,"message":"ok"}`))
	}))
	defer srv.Close()

	payload := []entity.Location{{ID: "L1", Name: "Bodega", Address: "Calle 1"}}
	require.NoError(t, newClient().Sync(context.Background(), srv.URL, "locations", payload))
	assert.Equal(t, "sync", got["action"])
	assert.Equal(t, "locations", got["dataType"])
	assert.JSONEq(t, `[{"id":"L1","name":"Bodega","address":"Calle 1","description":""}]`, got["data"])
}

func TestClient_ErrorsAreClassified(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{"http 500", http.StatusInternalServerError, `{"success":true}`, domain.ErrTransport},
		{"html", http.StatusOK, `<html>login</html>`, domain.ErrTransport},
		{"rechazo", http.StatusOK, `{"success":false,"error":"sin permiso"}`, domain.ErrRemoteRejected},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()
			err := newClient().Test(context.Background(), srv.URL)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestClient_RejectionCarriesReason(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"success":false,"error":"未知操作：x"}`))
	}))
	defer srv.Close()

	err := newClient().Test(context.Background(), srv.URL)
	var re *domain.RemoteError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, "未知操作：x", re.Reason)
}

func TestClient_UnreachableIsTransport(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()
	err := newClient().Test(context.Background(), url)
	assert.ErrorIs(t, err, domain.ErrTransport)
}

func TestClient_PullPartialSnapshot(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "pull", r.FormValue("action"))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data": map[string]any{
				"products": []map[string]any{{"id": "P1", "name": "Tornillo", "description": nil, "unit": "caja"}},
				"records":  nil,
				"lastPull": "2024-01-01T00:00:00Z",
			},
		})
	}))
	defer srv.Close()

	snap, err := newClient().Pull(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, []entity.Product{{ID: "P1", Name: "Tornillo", Unit: "caja"}}, snap.Products)
	assert.Nil(t, snap.Locations)
	assert.Nil(t, snap.Records)
	assert.Equal(t, []string{entity.CollectionProducts}, snap.Present())
}

func TestClient_PullWithoutData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"success":true}`))
	}))
	defer srv.Close()
	_, err := newClient().Pull(context.Background(), srv.URL)
	assert.ErrorIs(t, err, domain.ErrRemoteRejected)
}
