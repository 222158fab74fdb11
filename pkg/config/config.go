// Package config provides configuration loading and validation for the
// containers monkey tester.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/Sumatoshi-tech/containers/pkg/observability"
)

// Sentinel validation errors.
var (
	ErrInvalidOps        = errors.New("monkey ops must be positive")
	ErrInvalidKeySpace   = errors.New("monkey key space must be positive")
	ErrInvalidCheckEvery = errors.New("monkey check interval must be positive")
	ErrInvalidLoadFactor = errors.New("max load factor must be positive")
	ErrInvalidTimeout    = errors.New("monkey timeout must not be negative")
	ErrInvalidRatio      = errors.New("sample ratio must be within [0, 1]")
	ErrInvalidLogLevel   = errors.New("invalid log level")
	ErrEmptyContainer    = errors.New("empty container name")
)

// Default configuration values.
const (
	defaultSeed            = 1
	defaultOps             = 10000
	defaultKeySpace        = 64
	defaultCheckEvery      = 1
	defaultMaxLoadFactor   = 1.0
	defaultTraceDir        = "."
	defaultServiceName     = "containers-monkey"
	defaultLogLevel        = "info"
	defaultShutdownTimeout = 5 * time.Second

	configName = ".containers"
	envPrefix  = "CONTAINERS"
)

// Config holds all configuration for the monkey tester.
type Config struct {
	Monkey        MonkeyConfig        `mapstructure:"monkey"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

// MonkeyConfig holds the randomized run settings.
type MonkeyConfig struct {
	// Containers limits a run to the named kinds. Empty runs every kind.
	Containers []string `mapstructure:"containers"`

	// TraceDir receives reproducer traces of diverging runs.
	TraceDir string `mapstructure:"trace_dir"`

	// MetricsOut, when set, receives the Prometheus textfile after a run.
	MetricsOut string `mapstructure:"metrics_out"`

	// ChartOut, when set, receives the throughput chart after a run.
	ChartOut string `mapstructure:"chart_out"`

	Seed          int64         `mapstructure:"seed"`
	Ops           int           `mapstructure:"ops"`
	KeySpace      int           `mapstructure:"key_space"`
	CheckEvery    int           `mapstructure:"check_every"`
	MaxLoadFactor float64       `mapstructure:"max_load_factor"`
	Timeout       time.Duration `mapstructure:"timeout"`
}

// ObservabilityConfig holds logging, tracing and metrics export settings.
type ObservabilityConfig struct {
	ServiceName     string        `mapstructure:"service_name"`
	Environment     string        `mapstructure:"environment"`
	LogLevel        string        `mapstructure:"log_level"`
	OTLPEndpoint    string        `mapstructure:"otlp_endpoint"`
	OTLPHeaders     string        `mapstructure:"otlp_headers"`
	SampleRatio     float64       `mapstructure:"sample_ratio"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	LogJSON         bool          `mapstructure:"log_json"`
	OTLPInsecure    bool          `mapstructure:"otlp_insecure"`
}

// LoadConfig loads configuration from file and environment variables.
// An empty configPath searches for .containers.yaml in the working and
// home directories; a missing file is not an error.
func LoadConfig(configPath string) (*Config, error) {
	viperCfg := viper.New()

	setDefaults(viperCfg)

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName(configName)
		viperCfg.SetConfigType("yaml")
		viperCfg.AddConfigPath(".")

		if home, err := os.UserHomeDir(); err == nil {
			viperCfg.AddConfigPath(home)
		}
	}

	viperCfg.SetEnvPrefix(envPrefix)
	viperCfg.AutomaticEnv()
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFoundErr viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFoundErr) {
			return nil, fmt.Errorf("failed to read config file: %w", readErr)
		}
	}

	var config Config

	unmarshalErr := viperCfg.Unmarshal(&config)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", unmarshalErr)
	}

	validateErr := config.Validate()
	if validateErr != nil {
		return nil, fmt.Errorf("invalid configuration: %w", validateErr)
	}

	return &config, nil
}

// setDefaults sets default configuration values.
func setDefaults(viperCfg *viper.Viper) {
	// Monkey defaults.
	viperCfg.SetDefault("monkey.containers", []string{})
	viperCfg.SetDefault("monkey.trace_dir", defaultTraceDir)
	viperCfg.SetDefault("monkey.metrics_out", "")
	viperCfg.SetDefault("monkey.chart_out", "")
	viperCfg.SetDefault("monkey.seed", defaultSeed)
	viperCfg.SetDefault("monkey.ops", defaultOps)
	viperCfg.SetDefault("monkey.key_space", defaultKeySpace)
	viperCfg.SetDefault("monkey.check_every", defaultCheckEvery)
	viperCfg.SetDefault("monkey.max_load_factor", defaultMaxLoadFactor)
	viperCfg.SetDefault("monkey.timeout", "0s")

	// Observability defaults.
	viperCfg.SetDefault("observability.service_name", defaultServiceName)
	viperCfg.SetDefault("observability.environment", "")
	viperCfg.SetDefault("observability.log_level", defaultLogLevel)
	viperCfg.SetDefault("observability.log_json", false)
	viperCfg.SetDefault("observability.otlp_endpoint", "")
	viperCfg.SetDefault("observability.otlp_headers", "")
	viperCfg.SetDefault("observability.otlp_insecure", false)
	viperCfg.SetDefault("observability.sample_ratio", 0.0)
	viperCfg.SetDefault("observability.shutdown_timeout", defaultShutdownTimeout.String())
}

// Validate checks the configuration, also after flags overrode values.
func (c *Config) Validate() error {
	m := c.Monkey

	if m.Ops <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidOps, m.Ops)
	}

	if m.KeySpace <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidKeySpace, m.KeySpace)
	}

	if m.CheckEvery <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidCheckEvery, m.CheckEvery)
	}

	if m.MaxLoadFactor <= 0 {
		return fmt.Errorf("%w: %g", ErrInvalidLoadFactor, m.MaxLoadFactor)
	}

	if m.Timeout < 0 {
		return fmt.Errorf("%w: %s", ErrInvalidTimeout, m.Timeout)
	}

	for i, name := range m.Containers {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("%w at position %d", ErrEmptyContainer, i)
		}
	}

	o := c.Observability

	if o.SampleRatio < 0 || o.SampleRatio > 1 {
		return fmt.Errorf("%w: %g", ErrInvalidRatio, o.SampleRatio)
	}

	if _, err := parseLevel(o.LogLevel); err != nil {
		return err
	}

	return nil
}

// Observability converts the section into the observability package
// configuration for the given mode and binary version.
func (o ObservabilityConfig) Observability(mode observability.AppMode, version string) (observability.Config, error) {
	level, err := parseLevel(o.LogLevel)
	if err != nil {
		return observability.Config{}, err
	}

	cfg := observability.DefaultConfig()
	cfg.ServiceName = o.ServiceName
	cfg.ServiceVersion = version
	cfg.Environment = o.Environment
	cfg.Mode = mode
	cfg.OTLPEndpoint = o.OTLPEndpoint
	cfg.OTLPHeaders = observability.ParseOTLPHeaders(o.OTLPHeaders)
	cfg.OTLPInsecure = o.OTLPInsecure
	cfg.SampleRatio = o.SampleRatio
	cfg.LogLevel = level
	cfg.LogJSON = o.LogJSON

	if o.ShutdownTimeout > 0 {
		cfg.ShutdownTimeoutSec = int(o.ShutdownTimeout / time.Second)
	}

	return cfg, nil
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level

	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidLogLevel, s)
	}

	return level, nil
}
