package source

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/couchcryptid/temperature-heatmap/internal/observability"
)

// maxPayloadBytes caps the dataset body; the real document is well under 1 MiB.
const maxPayloadBytes = 16 << 20

// Client fetches the dataset document over HTTP.
type Client struct {
	url        string
	httpClient *http.Client
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a dataset client for url with a per-request timeout.
func NewClient(url string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		url: url,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		metrics: metrics,
		logger:  logger,
	}
}

// FetchDataset performs a single GET and returns the raw body. It does not retry.
func (c *Client) FetchDataset(ctx context.Context) ([]byte, error) {
	start := time.Now()
	defer func() {
		c.metrics.FetchDuration.Observe(time.Since(start).Seconds())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch dataset: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("dataset source error: status %d: %s", resp.StatusCode, body)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPayloadBytes))
	if err != nil {
		return nil, fmt.Errorf("read dataset body: %w", err)
	}

	c.logger.Debug("dataset fetched", "url", c.url, "bytes", len(body), "duration", time.Since(start))
	return body, nil
}

// Name identifies the source in logs.
func (c *Client) Name() string {
	return c.url
}

// FileSource reads the dataset document from a local file.
type FileSource struct {
	path string
}

// NewFileSource creates a source backed by path.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// FetchDataset reads the whole file.
func (f *FileSource) FetchDataset(_ context.Context) ([]byte, error) {
	body, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("read dataset file: %w", err)
	}
	return body, nil
}

// Name identifies the source in logs.
func (f *FileSource) Name() string {
	return f.path
}
