package observability_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/Sumatoshi-tech/containers/pkg/observability"
)

func TestNewHarnessMetrics_RegistersEveryInstrument(t *testing.T) {
	t.Parallel()

	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	t.Cleanup(func() { require.NoError(t, provider.Shutdown(context.Background())) })

	hm, err := observability.NewHarnessMetrics(provider.Meter("harness"))
	require.NoError(t, err)

	ctx := context.Background()
	hm.RecordOp(ctx, "set", "insert", 2*time.Microsecond)
	hm.RecordOp(ctx, "set", "erase_key", time.Microsecond)
	hm.RecordDivergence(ctx, "set")
	hm.RecordRun(ctx, "set", false)
	hm.AddLive(ctx, "set", 3)
	hm.AddLive(ctx, "set", 0)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))

	units := map[string]string{}
	sums := map[string]int64{}
	histogramCount := uint64(0)

	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			units[m.Name] = m.Unit

			switch data := m.Data.(type) {
			case metricdata.Sum[int64]:
				for _, dp := range data.DataPoints {
					sums[m.Name] += dp.Value
				}
			case metricdata.Histogram[float64]:
				for _, dp := range data.DataPoints {
					histogramCount += dp.Count
				}
			}
		}
	}

	assert.Equal(t, map[string]string{
		"containers.monkey.ops.total":           "{op}",
		"containers.monkey.op.duration.seconds": "s",
		"containers.monkey.divergences.total":   "{divergence}",
		"containers.monkey.runs.total":          "{run}",
		"containers.monkey.live.elements":       "{element}",
	}, units)

	assert.Equal(t, int64(2), sums["containers.monkey.ops.total"])
	assert.Equal(t, int64(1), sums["containers.monkey.divergences.total"])
	assert.Equal(t, int64(1), sums["containers.monkey.runs.total"])
	assert.Equal(t, int64(3), sums["containers.monkey.live.elements"])
	assert.Equal(t, uint64(2), histogramCount)
}
