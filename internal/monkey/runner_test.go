package monkey_test

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/Sumatoshi-tech/containers/internal/monkey"
	"github.com/Sumatoshi-tech/containers/pkg/observability"
)

// liar wraps a real subject and lies once it has applied failAt ops.
type liar struct {
	monkey.Subject

	failAt  int
	applied int
	inDump  bool
}

func (l *liar) Apply(op monkey.Op) (string, error) {
	got, err := l.Subject.Apply(op)
	l.applied++

	if l.applied == l.failAt && !l.inDump {
		return "bogus", err
	}

	return got, err
}

func (l *liar) Dump() []string {
	dump := l.Subject.Dump()
	if l.inDump && l.applied >= l.failAt {
		dump = append(dump, "phantom")
	}

	return dump
}

func brokenKind(t *testing.T, name string, failAt int, inDump bool) monkey.Kind {
	t.Helper()

	kind, err := monkey.Lookup(name)
	require.NoError(t, err)

	inner := kind.Real
	kind.Real = func(s monkey.Settings) monkey.Subject {
		return &liar{Subject: inner(s), failAt: failAt, inDump: inDump}
	}

	return kind
}

func shortSettings(seed int64) monkey.Settings {
	s := monkey.DefaultSettings()
	s.Seed = seed
	s.Ops = 1500
	s.KeySpace = 16

	return s
}

func TestRun_EveryKindMatchesModel(t *testing.T) {
	t.Parallel()

	for _, kind := range monkey.Kinds() {
		t.Run(kind.Name, func(t *testing.T) {
			t.Parallel()

			for _, seed := range []int64{1, 2, 3} {
				runner := monkey.NewRunner(shortSettings(seed))

				report, err := runner.Run(context.Background(), kind)
				require.NoError(t, err)

				if !assert.True(t, report.Passed(), "seed %d", seed) {
					t.Log(report.Divergence.Error())
					t.Log(report.Divergence.Diff)
				}

				assert.Equal(t, 1500, report.Ops)
				assert.Equal(t, kind.Family, report.Family)
				assert.Positive(t, report.MaxLen)
			}
		})
	}
}

func TestRun_SmallKeySpaceAndSparseChecks(t *testing.T) {
	t.Parallel()

	settings := shortSettings(7)
	settings.KeySpace = 2
	settings.CheckEvery = 50
	settings.MaxLoadFactor = 0.5

	for _, name := range []string{"multimap", "unordered_multimap", "list", "deque"} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			kind, err := monkey.Lookup(name)
			require.NoError(t, err)

			report, err := monkey.NewRunner(settings).Run(context.Background(), kind)
			require.NoError(t, err)
			assert.True(t, report.Passed())
		})
	}
}

func TestRun_DetectsWrongResult(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	runner := monkey.NewRunner(shortSettings(1), monkey.WithTraceDir(dir))

	report, err := runner.Run(context.Background(), brokenKind(t, "deque", 10, false))
	require.NoError(t, err)

	require.False(t, report.Passed())
	assert.Equal(t, 9, report.Divergence.Step)
	assert.Equal(t, monkey.ReasonResult, report.Divergence.Reason)
	assert.Equal(t, "bogus", report.Divergence.Got)
	assert.Equal(t, 10, report.Ops)

	require.NotNil(t, report.Trace)
	assert.Len(t, report.Trace.Ops, 10)
	assert.Equal(t, filepath.Join(dir, "deque-seed1.yaml.lz4"), report.TracePath)

	loaded, err := monkey.LoadTrace(report.TracePath)
	require.NoError(t, err)
	assert.Equal(t, report.Trace.Ops, loaded.Ops)
	assert.Equal(t, report.Divergence.Step, loaded.Divergence.Step)

	replayed, err := runner.Replay(context.Background(), loaded)
	require.NoError(t, err)
	assert.True(t, replayed.Passed(), "the unbroken deque no longer diverges")
	assert.Equal(t, 10, replayed.Ops)
}

func TestRun_DetectsWrongDump(t *testing.T) {
	t.Parallel()

	runner := monkey.NewRunner(shortSettings(3))

	report, err := runner.Run(context.Background(), brokenKind(t, "set", 5, true))
	require.NoError(t, err)

	require.False(t, report.Passed())
	assert.Equal(t, monkey.ReasonDump, report.Divergence.Reason)
	assert.Equal(t, 4, report.Divergence.Step)
	assert.Contains(t, report.Divergence.Diff, "+ phantom")
	assert.Empty(t, report.TracePath)
}

func TestRun_CancelledContextTruncates(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	kind, err := monkey.Lookup("vector")
	require.NoError(t, err)

	report, err := monkey.NewRunner(shortSettings(1)).Run(ctx, kind)
	require.NoError(t, err)

	assert.True(t, report.Truncated)
	assert.True(t, report.Passed())
	assert.Zero(t, report.Ops)
}

func TestRun_RecordsMetrics(t *testing.T) {
	t.Parallel()

	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	t.Cleanup(func() { require.NoError(t, provider.Shutdown(context.Background())) })

	hm, err := observability.NewHarnessMetrics(provider.Meter("test"))
	require.NoError(t, err)

	runner := monkey.NewRunner(shortSettings(1),
		monkey.WithMetrics(hm),
		monkey.WithLogger(slog.New(slog.DiscardHandler)),
	)

	kind, err := monkey.Lookup("stack")
	require.NoError(t, err)

	_, err = runner.Run(context.Background(), kind)
	require.NoError(t, err)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	sums := map[string]int64{}

	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				continue
			}

			for _, dp := range sum.DataPoints {
				sums[m.Name] += dp.Value
			}
		}
	}

	assert.Equal(t, int64(1500), sums["containers.monkey.ops.total"])
	assert.Equal(t, int64(1), sums["containers.monkey.runs.total"])
	assert.Zero(t, sums["containers.monkey.live.elements"], "a closed container holds nothing")
}

func TestRegistry(t *testing.T) {
	t.Parallel()

	names := monkey.Names()
	assert.Len(t, names, 15)
	assert.Contains(t, names, "priority_queue")
	assert.Contains(t, names, "unordered_multiset")

	for _, kind := range monkey.Kinds() {
		assert.NotEmpty(t, kind.OpNames(), kind.Name)
		assert.NotEqual(t, kind.Seed(1), kind.Seed(2), kind.Name)
	}

	_, err := monkey.Lookup("btree")
	require.ErrorIs(t, err, monkey.ErrUnknownContainer)

	all, err := monkey.Select(nil)
	require.NoError(t, err)
	assert.Len(t, all, len(names))

	picked, err := monkey.Select([]string{"queue", "map"})
	require.NoError(t, err)
	require.Len(t, picked, 2)
	assert.Equal(t, "queue", picked[0].Name)

	_, err = monkey.Select([]string{"map", "nope"})
	require.ErrorIs(t, err, monkey.ErrUnknownContainer)
}
