package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/containers/internal/monkey"
	"github.com/Sumatoshi-tech/containers/pkg/observability"
)

func newReplayCommand(gf *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "replay <trace>",
		Short: "Re-execute a recorded reproducer trace",
		Long: `Replay loads a trace written by a diverging run and executes its operations
again, comparing full state after every step. It fails while the container
still diverges.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			trace, err := monkey.LoadTrace(args[0])
			if err != nil {
				return err
			}

			sess, err := openSession(cmd, gf, observability.ModeReplay, nil)
			if err != nil {
				return err
			}

			defer func() { err = errors.Join(err, sess.close()) }()

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			report, err := sess.runner(trace.Settings).Replay(ctx, trace)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()

			if report.Passed() {
				fmt.Fprintf(out, "%s: no longer diverges after %d ops\n", report.Container, report.Ops)

				return nil
			}

			monkey.RenderDivergence(out, report)

			return fmt.Errorf("%w: %s", ErrDiverged, report.Container)
		},
	}
}
