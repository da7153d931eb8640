package backup_test

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stocksync/internal/infrastructure/backup"
)

// fakeS3 registra los PUT recibidos sin acceso a red.
type fakeS3 struct {
	mu     sync.Mutex
	puts   map[string][]byte
	status int
}

func (f *fakeS3) RoundTrip(req *http.Request) (*http.Response, error) {
	body, _ := io.ReadAll(req.Body)
	f.mu.Lock()
	defer f.mu.Unlock()
	status := f.status
	if status == 0 {
		status = http.StatusOK
	}
	if req.Method == http.MethodPut && status == http.StatusOK {
		f.puts[req.URL.Path] = body
	}
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewReader(nil)),
		Header:     http.Header{"ETag": {"\"etag\""}},
		Request:    req,
	}, nil
}

func newSink(t *testing.T, rt http.RoundTripper) *backup.S3Sink {
	t.Helper()
	sink, err := backup.NewS3Sink(context.Background(), backup.Config{
		Bucket:          "respaldos",
		Prefix:          "/stocksync/",
		Endpoint:        "https://mock.s3.local",
		AccessKeyID:     "AKIA",
		SecretAccessKey: "SECRET",
		PathStyle:       true,
	}, func(o *s3.Options) {
		o.HTTPClient = &http.Client{Transport: rt}
		o.RetryMaxAttempts = 1
	})
	require.NoError(t, err)
	return sink
}

func TestS3Sink_Put(t *testing.T) {
	rt := &fakeS3{puts: map[string][]byte{}}
	sink := newSink(t, rt)

	doc := []byte(`{"products":[]}`)
	require.NoError(t, sink.Put(context.Background(), "inventory-backup-x.json", doc))

	body, ok := rt.puts["/respaldos/stocksync/inventory-backup-x.json"]
	require.True(t, ok, "puts: %v", rt.puts)
	assert.True(t, bytes.Contains(body, doc))
}

func TestS3Sink_PutError(t *testing.T) {
	sink := newSink(t, &fakeS3{puts: map[string][]byte{}, status: http.StatusForbidden})
	err := sink.Put(context.Background(), "k.json", []byte("{}"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stocksync/k.json")
}

func TestNewS3Sink_RequiresBucket(t *testing.T) {
	_, err := backup.NewS3Sink(context.Background(), backup.Config{})
	assert.Error(t, err)
}
