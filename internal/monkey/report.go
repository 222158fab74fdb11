package monkey

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
)

const (
	resultPass      = "PASS"
	resultFail      = "FAIL"
	resultTruncated = "PASS (truncated)"
)

// RenderSummary writes one table row per report plus a totals footer.
func RenderSummary(w io.Writer, reports []Report, colored bool) {
	pass := color.New(color.FgGreen, color.Bold)
	fail := color.New(color.FgRed, color.Bold)

	if !colored {
		pass.DisableColor()
		fail.DisableColor()
	}

	tbl := table.NewWriter()
	tbl.SetOutputMirror(w)
	tbl.SetStyle(table.StyleLight)
	tbl.AppendHeader(table.Row{"Container", "Family", "Seed", "Ops", "Max len", "Elapsed", "Ops/s", "Result"})

	var (
		totalOps int
		passed   int
		elapsed  time.Duration
	)

	for _, r := range reports {
		result := fail.Sprint(resultFail)

		if r.Passed() {
			passed++

			result = pass.Sprint(resultPass)
			if r.Truncated {
				result = pass.Sprint(resultTruncated)
			}
		}

		totalOps += r.Ops
		elapsed += r.Elapsed

		tbl.AppendRow(table.Row{
			r.Container,
			r.Family,
			r.Seed,
			humanize.Comma(int64(r.Ops)),
			humanize.Comma(int64(r.MaxLen)),
			r.Elapsed.Round(time.Microsecond),
			humanize.Comma(int64(r.OpsPerSecond())),
			result,
		})
	}

	tbl.AppendFooter(table.Row{
		fmt.Sprintf("%d containers", len(reports)), "", "",
		humanize.Comma(int64(totalOps)), "", elapsed.Round(time.Microsecond), "",
		fmt.Sprintf("%d/%d passed", passed, len(reports)),
	})

	tbl.Render()
}

// RenderDivergence describes the divergence of r, if any.
func RenderDivergence(w io.Writer, r Report) {
	d := r.Divergence
	if d == nil {
		return
	}

	fmt.Fprintf(w, "%s diverged at step %d (%s) on %s\n", r.Container, d.Step, d.Reason, d.Op)

	if d.Diff != "" {
		fmt.Fprint(w, d.Diff)
	} else {
		fmt.Fprintf(w, "  want: %s\n  got:  %s\n", d.Want, d.Got)
	}

	if r.TracePath != "" {
		fmt.Fprintf(w, "reproducer: %s (%d ops)\n", r.TracePath, len(r.Trace.Ops))
	}
}
