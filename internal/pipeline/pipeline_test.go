package pipeline_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/couchcryptid/temperature-heatmap/internal/adapter/sqlite"
	"github.com/couchcryptid/temperature-heatmap/internal/chart"
	"github.com/couchcryptid/temperature-heatmap/internal/domain"
	"github.com/couchcryptid/temperature-heatmap/internal/observability"
	"github.com/couchcryptid/temperature-heatmap/internal/pipeline"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPayload = `{"baseTemperature":8.0,"monthlyVariance":[
	{"year":2000,"month":1,"variance":1.0},
	{"year":2000,"month":2,"variance":-1.0},
	{"year":2001,"variance":0.5}
]}`

// --- mocks ---

type mockSource struct {
	payload []byte
	err     error
	calls   int
}

func (m *mockSource) FetchDataset(_ context.Context) ([]byte, error) {
	m.calls++
	return m.payload, m.err
}

func (m *mockSource) Name() string { return "mock://dataset" }

type mockSnapshots struct {
	saved   [][]byte
	latest  domain.Snapshot
	err     error
	saveErr error
}

func (m *mockSnapshots) SaveSnapshot(_ context.Context, _ string, payload []byte) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = append(m.saved, payload)
	return nil
}

func (m *mockSnapshots) LatestSnapshot(_ context.Context) (domain.Snapshot, error) {
	return m.latest, m.err
}

type mockPublisher struct {
	cells []chart.Cell
	at    time.Time
	err   error
}

func (m *mockPublisher) PublishCells(_ context.Context, cells []chart.Cell, renderedAt time.Time) error {
	if m.err != nil {
		return m.err
	}
	m.cells = append(m.cells, cells...)
	m.at = renderedAt
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// --- tests ---

func TestPipeline_Run_HappyPath(t *testing.T) {
	renderedAt := time.Date(2024, time.April, 27, 6, 0, 0, 0, time.UTC)
	src := &mockSource{payload: []byte(testPayload)}
	snaps := &mockSnapshots{}
	pub := &mockPublisher{}

	p := pipeline.New(src, discardLogger(), observability.NewMetricsForTesting(),
		pipeline.WithSnapshots(snaps),
		pipeline.WithPublisher(pub),
		pipeline.WithClock(clockwork.NewFakeClockAt(renderedAt)),
	)

	require.Error(t, p.CheckReadiness(context.Background()))
	require.NoError(t, p.Run(context.Background()))
	require.NoError(t, p.CheckReadiness(context.Background()))

	art := p.Artifacts()
	require.NotNil(t, art)
	assert.Len(t, art.Cells, 2, "record without month is rejected")
	assert.Contains(t, string(art.SVG), `data-temp="9"`)
	assert.Contains(t, string(art.Page), `<div id="tooltip">`)
	assert.Equal(t, renderedAt, art.RenderedAt)

	assert.Equal(t, 1, src.calls)
	require.Len(t, snaps.saved, 1)
	assert.Len(t, pub.cells, 2)
	assert.Equal(t, renderedAt, pub.at)
}

func TestPipeline_Run_FetchErrorWithoutSnapshots(t *testing.T) {
	src := &mockSource{err: errors.New("connection refused")}

	p := pipeline.New(src, discardLogger(), observability.NewMetricsForTesting())

	err := p.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
	assert.Nil(t, p.Artifacts())
	assert.Error(t, p.CheckReadiness(context.Background()))
}

func TestPipeline_Run_FallsBackToSnapshot(t *testing.T) {
	src := &mockSource{err: errors.New("connection refused")}
	snaps := &mockSnapshots{latest: domain.Snapshot{Source: "mock://dataset", Payload: []byte(testPayload)}}

	p := pipeline.New(src, discardLogger(), observability.NewMetricsForTesting(), pipeline.WithSnapshots(snaps))

	require.NoError(t, p.Run(context.Background()))
	require.NotNil(t, p.Artifacts())
	assert.Len(t, p.Artifacts().Cells, 2)
	assert.Empty(t, snaps.saved, "snapshot payload is not re-saved")
}

func TestPipeline_Run_SnapshotMissing(t *testing.T) {
	src := &mockSource{err: errors.New("connection refused")}
	snaps := &mockSnapshots{err: sqlite.ErrNoSnapshot}

	p := pipeline.New(src, discardLogger(), observability.NewMetricsForTesting(), pipeline.WithSnapshots(snaps))

	err := p.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, sqlite.ErrNoSnapshot)
}

func TestPipeline_Run_InvalidPayload(t *testing.T) {
	src := &mockSource{payload: []byte("not-json{{{")}

	p := pipeline.New(src, discardLogger(), observability.NewMetricsForTesting())

	err := p.Run(context.Background())
	require.Error(t, err)
	assert.Nil(t, p.Artifacts())
}

func TestPipeline_Run_NoValidRecords(t *testing.T) {
	src := &mockSource{payload: []byte(`{"baseTemperature":8,"monthlyVariance":[{"year":2000}]}`)}

	p := pipeline.New(src, discardLogger(), observability.NewMetricsForTesting())

	err := p.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no valid records")
}

func TestPipeline_Run_PublishFailureStillReady(t *testing.T) {
	src := &mockSource{payload: []byte(testPayload)}
	pub := &mockPublisher{err: errors.New("broker unavailable")}
	snaps := &mockSnapshots{saveErr: errors.New("disk full")}

	p := pipeline.New(src, discardLogger(), observability.NewMetricsForTesting(),
		pipeline.WithPublisher(pub), pipeline.WithSnapshots(snaps))

	require.NoError(t, p.Run(context.Background()))
	assert.NoError(t, p.CheckReadiness(context.Background()))
}

func TestRenderer_Render(t *testing.T) {
	r := pipeline.NewRenderer(discardLogger(), observability.NewMetricsForTesting())

	first, err := r.Render([]byte(testPayload), time.Unix(0, 0))
	require.NoError(t, err)
	second, err := r.Render([]byte(testPayload), time.Unix(0, 0))
	require.NoError(t, err)

	assert.Equal(t, first.SVG, second.SVG)
	assert.Equal(t, first.Cells, second.Cells)
	assert.Equal(t, 8.0, first.Chart.Dataset.BaseTemperature)
}
