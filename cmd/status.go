package cmd

import (
	"os"

	"geoflow/geoprocessing"
	"geoflow/workspace"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status <status-url>",
	Short: "Poll a job's status URL once",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		conn := workspace.NewConnection(args[0], flagToken)
		runner := &geoprocessing.Runner{Conn: conn}

		status, _, err := runner.Poll(cmd.Context(), geoprocessing.JobTicket{StatusURL: args[0]})
		if err != nil {
			return err
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Status URL", "Status", "Terminal"})
		t.AppendRow(table.Row{args[0], string(status), status.Terminal()})
		t.Render()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
