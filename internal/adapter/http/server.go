package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/temperature-heatmap/internal/observability"
	"github.com/couchcryptid/temperature-heatmap/internal/pipeline"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ReadinessChecker reports whether the service is ready to serve traffic.
type ReadinessChecker interface {
	CheckReadiness(ctx context.Context) error
}

// ArtifactProvider exposes the rendered chart, or nil before it exists.
type ArtifactProvider interface {
	ReadinessChecker
	Artifacts() *pipeline.Artifacts
}

// Server exposes the chart plus health, readiness, and metrics endpoints.
type Server struct {
	httpServer *http.Server
	charts     ArtifactProvider
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewServer creates an HTTP server with /, /chart.svg, /cells, /healthz, /readyz, and /metrics routes.
func NewServer(addr string, charts ArtifactProvider, metrics *observability.Metrics, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		charts:  charts,
		metrics: metrics,
		logger:  logger,
	}

	mux.HandleFunc("GET /{$}", s.handlePage)
	mux.HandleFunc("GET /chart.svg", s.handleSVG)
	mux.HandleFunc("GET /cells", s.handleCells)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", handleReady(charts))
	mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handlePage(w http.ResponseWriter, _ *http.Request) {
	s.metrics.ChartRequests.WithLabelValues("page").Inc()
	art := s.charts.Artifacts()
	if art == nil {
		writeNotRendered(w)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(art.Page)
}

func (s *Server) handleSVG(w http.ResponseWriter, _ *http.Request) {
	s.metrics.ChartRequests.WithLabelValues("svg").Inc()
	art := s.charts.Artifacts()
	if art == nil {
		writeNotRendered(w)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	_, _ = w.Write(art.SVG)
}

func (s *Server) handleCells(w http.ResponseWriter, _ *http.Request) {
	s.metrics.ChartRequests.WithLabelValues("cells").Inc()
	art := s.charts.Artifacts()
	if art == nil {
		writeNotRendered(w)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"baseTemperature": art.Chart.Dataset.BaseTemperature,
		"renderedAt":      art.RenderedAt.UTC(),
		"cells":           art.Cells,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func handleReady(checker ReadinessChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := checker.CheckReadiness(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not ready",
				"error":  err.Error(),
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

func writeNotRendered(w http.ResponseWriter) {
	writeJSON(w, http.StatusServiceUnavailable, map[string]string{
		"status": "not ready",
		"error":  "chart has not been rendered",
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
