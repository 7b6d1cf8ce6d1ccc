package pipeline

import (
	"bytes"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/temperature-heatmap/internal/chart"
	"github.com/couchcryptid/temperature-heatmap/internal/domain"
	"github.com/couchcryptid/temperature-heatmap/internal/observability"
)

// Renderer turns a raw payload into rendered artifacts.
type Renderer struct {
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewRenderer creates a Renderer.
func NewRenderer(logger *slog.Logger, metrics *observability.Metrics) *Renderer {
	return &Renderer{logger: logger, metrics: metrics}
}

// Render parses payload, builds the chart context and renders both the SVG and the page.
func (r *Renderer) Render(payload []byte, renderedAt time.Time) (*Artifacts, error) {
	start := time.Now()

	ds, rejected, err := domain.ParseDataset(payload)
	if err != nil {
		return nil, err
	}
	for _, rej := range rejected {
		r.logger.Warn("variance record rejected", "index", rej.Index, "reason", rej.Reason)
	}
	r.metrics.RecordsRejected.Add(float64(len(rejected)))
	r.metrics.RecordsLoaded.Set(float64(len(ds.MonthlyVariance)))
	if len(ds.MonthlyVariance) == 0 {
		return nil, fmt.Errorf("dataset has no valid records (%d rejected)", len(rejected))
	}

	c := chart.New(ds)

	var svgBuf bytes.Buffer
	if err := c.RenderSVG(&svgBuf, chart.SVGOptions{}); err != nil {
		return nil, err
	}
	var pageBuf bytes.Buffer
	if err := c.RenderPage(&pageBuf, renderedAt); err != nil {
		return nil, err
	}

	cells := c.Cells()
	r.metrics.CellsRendered.Set(float64(len(cells)))
	r.metrics.RenderDuration.Observe(time.Since(start).Seconds())

	return &Artifacts{
		Chart:      c,
		Cells:      cells,
		SVG:        svgBuf.Bytes(),
		Page:       pageBuf.Bytes(),
		RenderedAt: renderedAt,
	}, nil
}
