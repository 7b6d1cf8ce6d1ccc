package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUnregisteredMetrics_RepeatableAndUnexported(t *testing.T) {
	first := NewUnregisteredMetrics()
	second := NewUnregisteredMetrics()
	require.NotNil(t, first)
	require.NotNil(t, second)
	first.DatasetFetches.WithLabelValues("upstream", "success").Inc()

	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		assert.NotEqual(t, "heatmap_dataset_fetches_total", mf.GetName())
	}

	// Each instance can still be registered on its own registry.
	reg := prometheus.NewRegistry()
	require.NoError(t, reg.Register(first.DatasetFetches))
	families, err = reg.Gather()
	require.NoError(t, err)
	require.Len(t, families, 1)
	assert.Equal(t, "heatmap_dataset_fetches_total", families[0].GetName())
	assert.InDelta(t, 1, families[0].GetMetric()[0].GetCounter().GetValue(), 0)
}
