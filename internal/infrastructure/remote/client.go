package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/stocksync/internal/domain"
	"github.com/jhoicas/stocksync/internal/domain/entity"
	"github.com/jhoicas/stocksync/internal/domain/repository"
)

// Verificar en tiempo de compilación que Client implementa RemoteBackend.
var _ repository.RemoteBackend = (*Client)(nil)

// maxResponseBytes tope de lectura de la respuesta (un pull trae las cuatro colecciones).
const maxResponseBytes = 32 << 20

// Client adaptador HTTP del backend remoto.
type Client struct {
	httpClient *http.Client
	log        zerolog.Logger
}

// NewClient construye el cliente. timeout <= 0 usa 30s.
func NewClient(timeout time.Duration, log zerolog.Logger) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{httpClient: &http.Client{Timeout: timeout}, log: log}
}

// Test action=test.
func (c *Client) Test(ctx context.Context, endpoint string) error {
	_, err := c.post(ctx, endpoint, map[string]string{FieldAction: ActionTest})
	return err
}

// Sync action=sync con dataType y data serializado como JSON.
func (c *Client) Sync(ctx context.Context, endpoint, dataType string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("remote: serializar %s: %w", dataType, err)
	}
	_, err = c.post(ctx, endpoint, map[string]string{
		FieldAction:   ActionSync,
		FieldDataType: dataType,
		FieldData:     string(data),
	})
	return err
}

// Pull action=pull. Las colecciones que el backend no envía (o envía null) quedan nil.
func (c *Client) Pull(ctx context.Context, endpoint string) (*entity.Snapshot, error) {
	env, err := c.post(ctx, endpoint, map[string]string{FieldAction: ActionPull})
	if err != nil {
		return nil, err
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return nil, &domain.RemoteError{Reason: "respuesta sin datos"}
	}
	var snap entity.Snapshot
	if err := json.Unmarshal(env.Data, &snap); err != nil {
		return nil, fmt.Errorf("%w: datos de pull ilegibles: %v", domain.ErrTransport, err)
	}
	return &snap, nil
}

// post envía el formulario multipart y decodifica el Envelope.
// Red, HTTP no 2xx o cuerpo no JSON => ErrTransport; success=false => *domain.RemoteError.
func (c *Client) post(ctx context.Context, endpoint string, fields map[string]string) (*Envelope, error) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for _, k := range []string{FieldAction, FieldDataType, FieldData} {
		v, ok := fields[k]
		if !ok {
			continue
		}
		if err := w.WriteField(k, v); err != nil {
			return nil, fmt.Errorf("remote: armar formulario: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("remote: armar formulario: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &body)
	if err != nil {
		return nil, fmt.Errorf("%w: crear request: %v", domain.ErrTransport, err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrTransport, ctx.Err())
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrTransport, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: leer respuesta: %v", domain.ErrTransport, err)
	}
	c.log.Debug().Str("action", fields[FieldAction]).Int("status", resp.StatusCode).Dur("elapsed", time.Since(start)).Msg("respuesta del backend remoto")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: HTTP %d", domain.ErrTransport, resp.StatusCode)
	}
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("%w: respuesta no es JSON", domain.ErrTransport)
	}
	if !env.Success {
		reason := env.Error
		if reason == "" {
			reason = "error desconocido"
		}
		return nil, &domain.RemoteError{Reason: reason}
	}
	return &env, nil
}
