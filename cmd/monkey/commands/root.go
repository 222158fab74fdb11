// Package commands implements the monkey CLI subcommands.
package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/containers/internal/monkey"
	"github.com/Sumatoshi-tech/containers/pkg/config"
	"github.com/Sumatoshi-tech/containers/pkg/observability"
	"github.com/Sumatoshi-tech/containers/pkg/version"
)

// ErrDiverged is returned when at least one container disagreed with its model.
var ErrDiverged = errors.New("containers diverged from their models")

type globalFlags struct {
	configPath string
	verbose    bool
	quiet      bool
	logJSON    bool
}

// NewRootCommand builds the monkey command tree.
func NewRootCommand() *cobra.Command {
	gf := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "monkey",
		Short: "Randomized differential tester for the generic containers",
		Long: `Monkey drives every container with weighted random operations next to a
simple model and reports the first step where the two disagree.

Commands:
  run       Run containers against their models
  replay    Re-execute a recorded reproducer trace
  list      List the container kinds and their ops`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&gf.configPath, "config", "", "config file (default: .containers.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&gf.verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().BoolVarP(&gf.quiet, "quiet", "q", false, "log errors only")
	rootCmd.PersistentFlags().BoolVar(&gf.logJSON, "log-json", false, "JSON log output")

	rootCmd.AddCommand(newRunCommand(gf))
	rootCmd.AddCommand(newReplayCommand(gf))
	rootCmd.AddCommand(newListCommand())
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "monkey %s\n", version.String())
		},
	}
}

// session is the loaded configuration and telemetry of one command.
type session struct {
	cfg       *config.Config
	providers observability.Providers
	metrics   *observability.HarnessMetrics
	logger    *slog.Logger
}

// openSession loads the configuration, applies the command's flag
// overrides, validates the result and starts telemetry.
func openSession(
	cmd *cobra.Command,
	gf *globalFlags,
	mode observability.AppMode,
	override func(*config.Config),
) (*session, error) {
	cfg, err := config.LoadConfig(gf.configPath)
	if err != nil {
		return nil, err
	}

	if override != nil {
		override(cfg)

		if err = cfg.Validate(); err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
	}

	obsCfg, err := cfg.Observability.Observability(mode, version.Resolved())
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	switch {
	case gf.verbose:
		obsCfg.LogLevel = slog.LevelDebug
	case gf.quiet:
		obsCfg.LogLevel = slog.LevelError
	}

	if gf.logJSON {
		obsCfg.LogJSON = true
	}

	providers, err := observability.InitWithWriter(obsCfg, cmd.ErrOrStderr())
	if err != nil {
		return nil, fmt.Errorf("init observability: %w", err)
	}

	metrics, err := observability.NewHarnessMetrics(providers.Meter)
	if err != nil {
		return nil, errors.Join(err, providers.Shutdown(context.Background()))
	}

	return &session{cfg: cfg, providers: providers, metrics: metrics, logger: providers.Logger}, nil
}

func (s *session) runner(settings monkey.Settings) *monkey.Runner {
	return monkey.NewRunner(settings,
		monkey.WithLogger(s.logger),
		monkey.WithTracer(s.providers.Tracer),
		monkey.WithMetrics(s.metrics),
		monkey.WithTraceDir(s.cfg.Monkey.TraceDir),
	)
}

func (s *session) close() error {
	return s.providers.Shutdown(context.Background())
}

func settingsFrom(mc config.MonkeyConfig) monkey.Settings {
	return monkey.Settings{
		Seed:          mc.Seed,
		Ops:           mc.Ops,
		KeySpace:      mc.KeySpace,
		CheckEvery:    mc.CheckEvery,
		MaxLoadFactor: mc.MaxLoadFactor,
	}
}
