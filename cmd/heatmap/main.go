package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/couchcryptid/temperature-heatmap/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/temperature-heatmap/internal/adapter/kafka"
	"github.com/couchcryptid/temperature-heatmap/internal/adapter/source"
	"github.com/couchcryptid/temperature-heatmap/internal/adapter/sqlite"
	"github.com/couchcryptid/temperature-heatmap/internal/config"
	"github.com/couchcryptid/temperature-heatmap/internal/observability"
	"github.com/couchcryptid/temperature-heatmap/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	// A local file takes precedence over the remote URL.
	var src pipeline.DatasetSource
	if cfg.DatasetFile != "" {
		src = source.NewFileSource(cfg.DatasetFile)
	} else {
		src = source.NewClient(cfg.DatasetURL, cfg.FetchTimeout, metrics, logger)
	}

	var opts []pipeline.Option

	var store *sqlite.Store
	if cfg.SnapshotPath != "" {
		store, err = sqlite.Open(cfg.SnapshotPath)
		if err != nil {
			logger.Error("failed to open snapshot store", "error", err)
			os.Exit(1)
		}
		opts = append(opts, pipeline.WithSnapshots(store))
		logger.Info("dataset snapshots enabled", "path", cfg.SnapshotPath)
	}

	var writer *kafkaadapter.Writer
	if cfg.KafkaEnabled {
		writer = kafkaadapter.NewWriter(cfg, logger)
		opts = append(opts, pipeline.WithPublisher(writer))
		logger.Info("cell publishing enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	}

	p := pipeline.New(src, logger, metrics, opts...)
	srv := httpadapter.NewServer(cfg.HTTPAddr, p, metrics, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// The chart is rendered once; a failure leaves /readyz failing.
	renderDone := startRender(ctx, p, logger)

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	// Snapshot saves and cell publishing finish before their sinks close.
	select {
	case <-renderDone:
	case <-shutdownCtx.Done():
		logger.Warn("render still running at shutdown deadline")
	}

	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}
	if store != nil {
		if err := store.Close(); err != nil {
			logger.Error("snapshot store close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}

type runner interface {
	Run(ctx context.Context) error
}

// startRender runs r once in the background. The returned channel closes
// when Run has returned.
func startRender(ctx context.Context, r runner, logger *slog.Logger) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := r.Run(ctx); err != nil {
			logger.Error("chart render failed", "error", err)
		}
	}()
	return done
}
