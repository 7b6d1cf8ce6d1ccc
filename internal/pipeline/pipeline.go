package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/temperature-heatmap/internal/chart"
	"github.com/couchcryptid/temperature-heatmap/internal/domain"
	"github.com/couchcryptid/temperature-heatmap/internal/observability"
	"github.com/jonboulle/clockwork"
)

// DatasetSource returns the raw dataset document.
type DatasetSource interface {
	FetchDataset(ctx context.Context) ([]byte, error)
	Name() string
}

// SnapshotStore keeps the last good payload for use when the source is down.
type SnapshotStore interface {
	SaveSnapshot(ctx context.Context, source string, payload []byte) error
	LatestSnapshot(ctx context.Context) (domain.Snapshot, error)
}

// CellPublisher forwards rendered cells downstream.
type CellPublisher interface {
	PublishCells(ctx context.Context, cells []chart.Cell, renderedAt time.Time) error
}

// Artifacts is the output of one successful run.
type Artifacts struct {
	Chart      *chart.Chart
	Cells      []chart.Cell
	SVG        []byte
	Page       []byte
	RenderedAt time.Time
}

// Pipeline loads the dataset once and renders the chart.
type Pipeline struct {
	source    DatasetSource
	renderer  *Renderer
	snapshots SnapshotStore
	publisher CellPublisher
	logger    *slog.Logger
	metrics   *observability.Metrics
	clock     clockwork.Clock
	artifacts atomic.Pointer[Artifacts]
}

// Option configures optional pipeline stages.
type Option func(*Pipeline)

// WithSnapshots enables persisting each fetched payload and falling back to it.
func WithSnapshots(s SnapshotStore) Option {
	return func(p *Pipeline) { p.snapshots = s }
}

// WithPublisher enables publishing rendered cells.
func WithPublisher(pub CellPublisher) Option {
	return func(p *Pipeline) { p.publisher = pub }
}

// WithClock replaces the render timestamp source.
func WithClock(c clockwork.Clock) Option {
	return func(p *Pipeline) { p.clock = c }
}

// New creates a Pipeline reading from source.
func New(source DatasetSource, logger *slog.Logger, metrics *observability.Metrics, opts ...Option) *Pipeline {
	p := &Pipeline{
		source:   source,
		renderer: NewRenderer(logger, metrics),
		logger:   logger,
		metrics:  metrics,
		clock:    clockwork.NewRealClock(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// CheckReadiness returns nil once the chart has been rendered.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if p.artifacts.Load() == nil {
		return errors.New("chart has not been rendered yet")
	}
	return nil
}

// Artifacts returns the rendered output, or nil before a successful run.
func (p *Pipeline) Artifacts() *Artifacts {
	return p.artifacts.Load()
}

// Run fetches the dataset and renders the chart exactly once.
func (p *Pipeline) Run(ctx context.Context) error {
	p.logger.Info("loading dataset", "source", p.source.Name())

	payload, origin, err := p.extract(ctx)
	if err != nil {
		return err
	}

	renderedAt := p.clock.Now()
	art, err := p.renderer.Render(payload, renderedAt)
	if err != nil {
		return fmt.Errorf("render %s dataset: %w", origin, err)
	}
	p.artifacts.Store(art)
	p.metrics.ChartReady.Set(1)
	p.logger.Info("chart rendered", "origin", origin, "cells", len(art.Cells), "svg_bytes", len(art.SVG))

	if origin == originUpstream {
		p.saveSnapshot(ctx, payload)
	}
	p.publish(ctx, art)
	return nil
}

const (
	originUpstream = "upstream"
	originSnapshot = "snapshot"
)

// extract fetches from the source, falling back to the latest snapshot when one is configured.
func (p *Pipeline) extract(ctx context.Context) ([]byte, string, error) {
	payload, err := p.source.FetchDataset(ctx)
	if err == nil {
		p.metrics.DatasetFetches.WithLabelValues(originUpstream, "success").Inc()
		return payload, originUpstream, nil
	}
	p.metrics.DatasetFetches.WithLabelValues(originUpstream, "error").Inc()

	if p.snapshots == nil || ctx.Err() != nil {
		return nil, "", fmt.Errorf("extract dataset: %w", err)
	}

	p.logger.Warn("dataset fetch failed, trying snapshot", "error", err)
	snap, snapErr := p.snapshots.LatestSnapshot(ctx)
	if snapErr != nil {
		p.metrics.DatasetFetches.WithLabelValues(originSnapshot, "error").Inc()
		return nil, "", fmt.Errorf("extract dataset: %w", errors.Join(err, snapErr))
	}
	p.metrics.DatasetFetches.WithLabelValues(originSnapshot, "success").Inc()
	p.logger.Info("using dataset snapshot", "source", snap.Source, "fetched_at", snap.FetchedAt)
	return snap.Payload, originSnapshot, nil
}

func (p *Pipeline) saveSnapshot(ctx context.Context, payload []byte) {
	if p.snapshots == nil {
		return
	}
	if err := p.snapshots.SaveSnapshot(ctx, p.source.Name(), payload); err != nil {
		p.metrics.SnapshotWrites.WithLabelValues("error").Inc()
		p.logger.Warn("save snapshot failed", "error", err)
		return
	}
	p.metrics.SnapshotWrites.WithLabelValues("success").Inc()
}

// publish is best effort: the chart is already served when it runs.
func (p *Pipeline) publish(ctx context.Context, art *Artifacts) {
	if p.publisher == nil {
		return
	}
	if err := p.publisher.PublishCells(ctx, art.Cells, art.RenderedAt); err != nil {
		p.metrics.PublishErrors.Inc()
		p.logger.Error("publish cells failed", "error", err, "cells", len(art.Cells))
		return
	}
	p.metrics.CellsPublished.Add(float64(len(art.Cells)))
}
