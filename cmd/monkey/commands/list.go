package commands

import (
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/containers/internal/monkey"
)

func newListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the container kinds and their ops",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			tbl := table.NewWriter()
			tbl.SetOutputMirror(cmd.OutOrStdout())
			tbl.SetStyle(table.StyleLight)
			tbl.Style().Options.SeparateRows = false
			tbl.AppendHeader(table.Row{"Container", "Family", "Ops"})

			for _, kind := range monkey.Kinds() {
				tbl.AppendRow(table.Row{kind.Name, kind.Family, strings.Join(kind.OpNames(), " ")})
			}

			tbl.Render()
		},
	}
}
