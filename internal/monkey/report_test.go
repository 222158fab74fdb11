package monkey_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/containers/internal/monkey"
)

func sampleReports() []monkey.Report {
	return []monkey.Report{
		{Container: "set", Family: monkey.FamilyOrdered, Seed: 9, Ops: 12000, MaxLen: 40, Elapsed: 2 * time.Second},
		{
			Container: "deque", Family: monkey.FamilySequence, Seed: 9, Ops: 10, MaxLen: 3, Elapsed: time.Millisecond,
			Divergence: &monkey.Divergence{
				Step: 9, Op: monkey.Op{Name: "pop_front"}, Reason: monkey.ReasonDump,
				Diff: "  1\n- 2\n",
			},
			Trace:     &monkey.Trace{Ops: make([]monkey.Op, 10)},
			TracePath: "deque-seed9.yaml.lz4",
		},
	}
}

func TestRenderSummary(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	monkey.RenderSummary(&buf, sampleReports(), false)

	out := buf.String()
	assert.Contains(t, out, "CONTAINER")
	assert.Contains(t, out, "12,000")
	assert.Contains(t, out, "12,010")
	assert.Contains(t, out, "6,000")
	assert.Contains(t, out, "PASS")
	assert.Contains(t, out, "FAIL")
	assert.Contains(t, out, "1/2 PASSED")
	assert.NotContains(t, out, "\x1b[", "no escape codes without color")
}

func TestRenderDivergence(t *testing.T) {
	t.Parallel()

	reports := sampleReports()

	var buf bytes.Buffer
	monkey.RenderDivergence(&buf, reports[0])
	assert.Empty(t, buf.String())

	monkey.RenderDivergence(&buf, reports[1])

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "deque diverged at step 9 (dump)"))
	assert.Contains(t, out, "- 2\n")
	assert.Contains(t, out, "reproducer: deque-seed9.yaml.lz4 (10 ops)")
}

func TestWriteChart(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, monkey.WriteChart(&buf, sampleReports()))

	out := buf.String()
	assert.Contains(t, out, "<html")
	assert.Contains(t, out, "Container monkey")
	assert.Contains(t, out, "deque")
	assert.Contains(t, out, "#f85149")
}
