package source

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/couchcryptid/temperature-heatmap/internal/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testPayload       = `{"baseTemperature":8.66,"monthlyVariance":[{"year":1753,"month":1,"variance":-1.366}]}`
	contentTypeJSON   = "application/json"
	headerContentType = "Content-Type"
)

func testClient(url string, timeout time.Duration) *Client {
	return &Client{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
		metrics:    observability.NewMetricsForTesting(),
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestClient_FetchDataset_Success(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/global-temperature.json", r.URL.Path)
		w.Header().Set(headerContentType, contentTypeJSON)
		_, _ = w.Write([]byte(testPayload))
	}))
	defer srv.Close()

	c := testClient(srv.URL+"/global-temperature.json", 5*time.Second)
	body, err := c.FetchDataset(context.Background())
	require.NoError(t, err)

	assert.JSONEq(t, testPayload, string(body))
	assert.Equal(t, 1, calls)
}

func TestClient_FetchDataset_StatusError(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("404: Not Found"))
	}))
	defer srv.Close()

	c := testClient(srv.URL, 5*time.Second)
	_, err := c.FetchDataset(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
	assert.Equal(t, 1, calls, "no retries")
}

func TestClient_FetchDataset_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := testClient(srv.URL, 50*time.Millisecond)
	_, err := c.FetchDataset(context.Background())
	require.Error(t, err)
}

func TestFileSource_FetchDataset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "global-temperature.json")
	require.NoError(t, os.WriteFile(path, []byte(testPayload), 0o600))

	f := NewFileSource(path)
	body, err := f.FetchDataset(context.Background())
	require.NoError(t, err)
	assert.JSONEq(t, testPayload, string(body))
	assert.Equal(t, path, f.Name())

	_, err = NewFileSource(filepath.Join(t.TempDir(), "missing.json")).FetchDataset(context.Background())
	require.Error(t, err)
}
