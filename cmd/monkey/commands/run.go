package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/containers/internal/monkey"
	"github.com/Sumatoshi-tech/containers/pkg/config"
	"github.com/Sumatoshi-tech/containers/pkg/observability"
)

type runCommand struct {
	gf *globalFlags

	containers    []string
	seed          int64
	ops           int
	keySpace      int
	checkEvery    int
	maxLoadFactor float64
	timeout       time.Duration
	traceDir      string
	metricsOut    string
	chartOut      string
	noColor       bool
}

func newRunCommand(gf *globalFlags) *cobra.Command {
	rc := &runCommand{gf: gf}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run containers against their models",
		Long: `Run drives the selected containers (all by default) with random operations
and compares each against its model. A diverging container leaves a
reproducer trace in the trace directory and makes the command fail.`,
		Args: cobra.NoArgs,
		RunE: rc.run,
	}

	cmd.Flags().StringSliceVarP(&rc.containers, "container", "c", nil, "container kinds to run (default: all)")
	cmd.Flags().Int64Var(&rc.seed, "seed", 0, "run seed")
	cmd.Flags().IntVarP(&rc.ops, "ops", "n", 0, "operations per container")
	cmd.Flags().IntVar(&rc.keySpace, "key-space", 0, "keys are drawn from [0, key-space)")
	cmd.Flags().IntVar(&rc.checkEvery, "check-every", 0, "compare full state every N operations")
	cmd.Flags().Float64Var(&rc.maxLoadFactor, "max-load-factor", 0, "initial max load factor of hash containers")
	cmd.Flags().DurationVar(&rc.timeout, "timeout", 0, "stop running after this long (0 = no limit)")
	cmd.Flags().StringVar(&rc.traceDir, "trace-dir", "", "directory for reproducer traces")
	cmd.Flags().StringVar(&rc.metricsOut, "metrics-out", "", "write Prometheus metrics to this file")
	cmd.Flags().StringVar(&rc.chartOut, "chart", "", "write an HTML throughput chart to this file")
	cmd.Flags().BoolVar(&rc.noColor, "no-color", false, "disable colored output")

	return cmd
}

// override copies the flags the user set over the loaded configuration.
func (rc *runCommand) override(cmd *cobra.Command) func(*config.Config) {
	return func(cfg *config.Config) {
		flags := cmd.Flags()
		mc := &cfg.Monkey

		if flags.Changed("container") {
			mc.Containers = rc.containers
		}

		if flags.Changed("seed") {
			mc.Seed = rc.seed
		}

		if flags.Changed("ops") {
			mc.Ops = rc.ops
		}

		if flags.Changed("key-space") {
			mc.KeySpace = rc.keySpace
		}

		if flags.Changed("check-every") {
			mc.CheckEvery = rc.checkEvery
		}

		if flags.Changed("max-load-factor") {
			mc.MaxLoadFactor = rc.maxLoadFactor
		}

		if flags.Changed("timeout") {
			mc.Timeout = rc.timeout
		}

		if flags.Changed("trace-dir") {
			mc.TraceDir = rc.traceDir
		}

		if flags.Changed("metrics-out") {
			mc.MetricsOut = rc.metricsOut
		}

		if flags.Changed("chart") {
			mc.ChartOut = rc.chartOut
		}
	}
}

func (rc *runCommand) run(cmd *cobra.Command, _ []string) (err error) {
	sess, err := openSession(cmd, rc.gf, observability.ModeRun, rc.override(cmd))
	if err != nil {
		return err
	}

	defer func() { err = errors.Join(err, sess.close()) }()

	mc := sess.cfg.Monkey

	kinds, err := monkey.Select(mc.Containers)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if mc.Timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, mc.Timeout)
		defer cancel()
	}

	runner := sess.runner(settingsFrom(mc))
	reports := make([]monkey.Report, 0, len(kinds))

	for _, kind := range kinds {
		report, runErr := runner.Run(ctx, kind)
		if runErr != nil {
			return fmt.Errorf("run %s: %w", kind.Name, runErr)
		}

		reports = append(reports, report)
	}

	out := cmd.OutOrStdout()
	monkey.RenderSummary(out, reports, !rc.noColor && !color.NoColor)

	failed := 0

	for _, r := range reports {
		if !r.Passed() {
			failed++

			fmt.Fprintln(out)
			monkey.RenderDivergence(out, r)
		}
	}

	if err = writeOutputs(sess, mc, reports); err != nil {
		return err
	}

	if failed > 0 {
		return fmt.Errorf("%w: %d of %d", ErrDiverged, failed, len(reports))
	}

	return nil
}

func writeOutputs(sess *session, mc config.MonkeyConfig, reports []monkey.Report) error {
	if mc.MetricsOut != "" {
		if err := observability.WriteMetrics(sess.providers.Registry, mc.MetricsOut); err != nil {
			return err
		}
	}

	if mc.ChartOut == "" {
		return nil
	}

	return writeFile(mc.ChartOut, func(w io.Writer) error { return monkey.WriteChart(w, reports) })
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	if err = write(f); err != nil {
		return errors.Join(err, f.Close())
	}

	if err = f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}

	return nil
}
