package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the heatmap service.
type Metrics struct {
	DatasetFetches  *prometheus.CounterVec // labels: source={upstream,snapshot}, outcome={success,error}
	FetchDuration   prometheus.Histogram
	RecordsLoaded   prometheus.Gauge
	RecordsRejected prometheus.Counter

	RenderDuration prometheus.Histogram
	CellsRendered  prometheus.Gauge
	ChartReady     prometheus.Gauge

	// Downstream side effects.
	CellsPublished prometheus.Counter
	PublishErrors  prometheus.Counter
	SnapshotWrites *prometheus.CounterVec // labels: outcome={success,error}

	ChartRequests *prometheus.CounterVec // labels: route
}

// NewMetrics creates and registers all service metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.DatasetFetches,
		m.FetchDuration,
		m.RecordsLoaded,
		m.RecordsRejected,
		m.RenderDuration,
		m.CellsRendered,
		m.ChartReady,
		m.CellsPublished,
		m.PublishErrors,
		m.SnapshotWrites,
		m.ChartRequests,
	)
	return m
}

// NewUnregisteredMetrics creates Metrics that are never exported, for
// one-shot tools that have no /metrics endpoint.
func NewUnregisteredMetrics() *Metrics {
	return newMetrics()
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		DatasetFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "heatmap",
			Name:      "dataset_fetches_total",
			Help:      "Dataset loads by source and outcome.",
		}, []string{"source", "outcome"}),
		FetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "heatmap",
			Name:      "dataset_fetch_duration_seconds",
			Help:      "Duration of the upstream dataset request.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		RecordsLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "heatmap",
			Name:      "records_loaded",
			Help:      "Variance records accepted from the current dataset.",
		}),
		RecordsRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "heatmap",
			Name:      "records_rejected_total",
			Help:      "Variance records dropped during validation.",
		}),
		RenderDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "heatmap",
			Name:      "render_duration_seconds",
			Help:      "Duration of chart construction and SVG rendering.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}),
		CellsRendered: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "heatmap",
			Name:      "cells_rendered",
			Help:      "Cells in the rendered chart.",
		}),
		ChartReady: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "heatmap",
			Name:      "chart_ready",
			Help:      "1 once the chart has been rendered, 0 before.",
		}),
		CellsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "heatmap",
			Name:      "cells_published_total",
			Help:      "Cells written to the Kafka topic.",
		}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "heatmap",
			Name:      "publish_errors_total",
			Help:      "Failed Kafka publish attempts.",
		}),
		SnapshotWrites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "heatmap",
			Name:      "snapshot_writes_total",
			Help:      "Dataset snapshot writes by outcome.",
		}, []string{"outcome"}),
		ChartRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "heatmap",
			Name:      "chart_requests_total",
			Help:      "Chart HTTP requests by route.",
		}, []string{"route"}),
	}
}
