package config_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/containers/pkg/config"
	"github.com/Sumatoshi-tech/containers/pkg/observability"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), ".containers.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := config.LoadConfig(writeConfig(t, ""))
	require.NoError(t, err)

	assert.Equal(t, int64(1), cfg.Monkey.Seed)
	assert.Equal(t, 10000, cfg.Monkey.Ops)
	assert.Equal(t, 64, cfg.Monkey.KeySpace)
	assert.Equal(t, 1, cfg.Monkey.CheckEvery)
	assert.InDelta(t, 1.0, cfg.Monkey.MaxLoadFactor, 0)
	assert.Equal(t, ".", cfg.Monkey.TraceDir)
	assert.Empty(t, cfg.Monkey.Containers)
	assert.Equal(t, "containers-monkey", cfg.Observability.ServiceName)
	assert.Equal(t, 5*time.Second, cfg.Observability.ShutdownTimeout)
}

func TestLoadConfigFromFile(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
monkey:
  seed: 42
  ops: 500
  key_space: 8
  max_load_factor: 0.75
  timeout: "30s"
  containers: [deque, set]

observability:
  log_level: debug
  log_json: true
  otlp_headers: "api-key=secret"
`)

	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, int64(42), cfg.Monkey.Seed)
	assert.Equal(t, 500, cfg.Monkey.Ops)
	assert.Equal(t, 8, cfg.Monkey.KeySpace)
	assert.InDelta(t, 0.75, cfg.Monkey.MaxLoadFactor, 0)
	assert.Equal(t, 30*time.Second, cfg.Monkey.Timeout)
	assert.Equal(t, []string{"deque", "set"}, cfg.Monkey.Containers)
	assert.True(t, cfg.Observability.LogJSON)

	obs, err := cfg.Observability.Observability(observability.ModeReplay, "v1.2.3")
	require.NoError(t, err)

	assert.Equal(t, slog.LevelDebug, obs.LogLevel)
	assert.Equal(t, observability.ModeReplay, obs.Mode)
	assert.Equal(t, "v1.2.3", obs.ServiceVersion)
	assert.Equal(t, map[string]string{"api-key": "secret"}, obs.OTLPHeaders)
	assert.Equal(t, 5, obs.ShutdownTimeoutSec)
}

func TestLoadConfigMissingExplicitFile(t *testing.T) {
	t.Parallel()

	_, err := config.LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	t.Setenv("CONTAINERS_MONKEY_OPS", "77")
	t.Setenv("CONTAINERS_MONKEY_KEY_SPACE", "5")
	t.Setenv("CONTAINERS_OBSERVABILITY_ENVIRONMENT", "ci")

	cfg, err := config.LoadConfig(writeConfig(t, "monkey:\n  ops: 10\n"))
	require.NoError(t, err)

	assert.Equal(t, 77, cfg.Monkey.Ops)
	assert.Equal(t, 5, cfg.Monkey.KeySpace)
	assert.Equal(t, "ci", cfg.Observability.Environment)
}

func TestValidateConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    error
	}{
		{name: "ops", content: "monkey:\n  ops: 0\n", want: config.ErrInvalidOps},
		{name: "key_space", content: "monkey:\n  key_space: -1\n", want: config.ErrInvalidKeySpace},
		{name: "check_every", content: "monkey:\n  check_every: 0\n", want: config.ErrInvalidCheckEvery},
		{name: "load_factor", content: "monkey:\n  max_load_factor: 0\n", want: config.ErrInvalidLoadFactor},
		{name: "timeout", content: "monkey:\n  timeout: \"-1s\"\n", want: config.ErrInvalidTimeout},
		{name: "container", content: "monkey:\n  containers: [deque, \" \"]\n", want: config.ErrEmptyContainer},
		{name: "ratio", content: "observability:\n  sample_ratio: 1.5\n", want: config.ErrInvalidRatio},
		{name: "log_level", content: "observability:\n  log_level: loud\n", want: config.ErrInvalidLogLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := config.LoadConfig(writeConfig(t, tt.content))
			require.ErrorIs(t, err, tt.want)
		})
	}
}
