package cmd

import (
	"os"

	"geoflow/geoanalytics"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List the geoanalytics tools in the catalog",
	Run: func(cmd *cobra.Command, args []string) {
		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Tool"})
		for _, name := range geoanalytics.Tools() {
			t.AppendRow(table.Row{name})
		}
		t.Render()
	},
}

func init() {
	rootCmd.AddCommand(toolsCmd)
}
