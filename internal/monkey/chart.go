package monkey

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

const (
	chartWidth  = "100%"
	chartHeight = "500px"

	colorPass = "#3fb950"
	colorFail = "#f85149"
)

// WriteChart renders an HTML bar chart of throughput per container, with
// diverged runs in red.
func WriteChart(w io.Writer, reports []Report) error {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: "Container monkey",
			Width:     chartWidth,
			Height:    chartHeight,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Throughput",
			Subtitle: "operations per second, model included",
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithXAxisOpts(opts.XAxis{AxisLabel: &opts.AxisLabel{Rotate: 30}}),
		charts.WithYAxisOpts(opts.YAxis{Name: "ops/s"}),
	)

	names := make([]string, len(reports))
	data := make([]opts.BarData, len(reports))

	for i, r := range reports {
		names[i] = r.Container

		fill := colorPass
		if !r.Passed() {
			fill = colorFail
		}

		data[i] = opts.BarData{
			Name:      r.Container,
			Value:     int64(r.OpsPerSecond()),
			ItemStyle: &opts.ItemStyle{Color: fill},
		}
	}

	bar.SetXAxis(names).AddSeries("ops/s", data)

	if err := bar.Render(w); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}

	return nil
}
