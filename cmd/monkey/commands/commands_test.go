package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/containers/internal/monkey"
	"github.com/Sumatoshi-tech/containers/pkg/config"
)

// execute runs the command tree with args against an empty config file.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	cfgPath := filepath.Join(t.TempDir(), "monkey.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("monkey:\n  ops: 300\n  key_space: 16\n"), 0o600))

	var stdout, stderr bytes.Buffer

	root := NewRootCommand()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(append([]string{"--config", cfgPath}, args...))

	err := root.Execute()

	return stdout.String(), stderr.String(), err
}

func TestList(t *testing.T) {
	t.Parallel()

	out, _, err := execute(t, "list")
	require.NoError(t, err)

	for _, name := range monkey.Names() {
		assert.Contains(t, out, name)
	}

	assert.Contains(t, out, "splice_range")
}

func TestVersion(t *testing.T) {
	t.Parallel()

	out, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "monkey dev")
}

func TestRun_WritesArtifacts(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	metrics := filepath.Join(dir, "monkey.prom")
	chart := filepath.Join(dir, "throughput.html")

	out, logs, err := execute(t, "run",
		"--container", "deque,map,unordered_set,priority_queue",
		"--seed", "11",
		"--trace-dir", dir,
		"--metrics-out", metrics,
		"--chart", chart,
		"--no-color",
		"--log-json",
	)
	require.NoError(t, err)

	assert.Contains(t, out, "unordered_set")
	assert.Contains(t, out, "4/4 PASSED")
	assert.Contains(t, logs, `"msg":"run passed"`)

	assert.FileExists(t, metrics)
	assert.FileExists(t, chart)

	traces, err := filepath.Glob(filepath.Join(dir, "*"+monkey.TraceExt))
	require.NoError(t, err)
	assert.Empty(t, traces)
}

func TestRun_QuietSuppressesInfoLogs(t *testing.T) {
	t.Parallel()

	_, logs, err := execute(t, "--quiet", "run", "--container", "stack", "--no-color")
	require.NoError(t, err)
	assert.Empty(t, logs)
}

func TestRun_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
		want error
	}{
		{name: "unknown container", args: []string{"run", "--container", "btree"}, want: monkey.ErrUnknownContainer},
		{name: "zero ops", args: []string{"run", "--ops", "0"}, want: config.ErrInvalidOps},
		{name: "zero key space", args: []string{"run", "--key-space", "0"}, want: config.ErrInvalidKeySpace},
		{name: "bad load factor", args: []string{"run", "--max-load-factor=-1"}, want: config.ErrInvalidLoadFactor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, _, err := execute(t, tt.args...)
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestReplay(t *testing.T) {
	t.Parallel()

	path, err := monkey.SaveTrace(t.TempDir(), &monkey.Trace{
		Version:   monkey.TraceVersion,
		Container: "xorlist",
		Settings:  monkey.DefaultSettings(),
		Ops: []monkey.Op{
			{Name: "push_back", Value: 3},
			{Name: "push_front", Value: 1},
			{Name: "push_back", Value: 2},
			{Name: "sort"},
			{Name: "reverse"},
		},
		Divergence: &monkey.Divergence{Step: 4, Op: monkey.Op{Name: "reverse"}, Reason: monkey.ReasonDump},
	})
	require.NoError(t, err)

	out, _, err := execute(t, "replay", path)
	require.NoError(t, err)
	assert.Contains(t, out, "xorlist: no longer diverges after 5 ops")
}

func TestReplay_MissingTrace(t *testing.T) {
	t.Parallel()

	_, _, err := execute(t, "replay", filepath.Join(t.TempDir(), "nope.yaml.lz4"))
	require.ErrorIs(t, err, os.ErrNotExist)
}
