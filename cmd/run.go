package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"geoflow/geoanalytics"
	"geoflow/geoprocessing"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var (
	flagParams     []string
	flagOutputName string
	flagNoWait     bool
)

var runCmd = &cobra.Command{
	Use:   "run <tool>",
	Short: "Submit a geoanalytics tool and wait for its result",
	Long: `Submit a catalog tool with --param key=value arguments. Values that parse
as numbers or booleans are sent typed; everything else is sent as a string.
Layer parameters take the layer URL.

By default the command blocks until the job reaches a terminal state and
prints the destination service. With --no-wait it prints the job ticket and
returns immediately; the job keeps running server-side.`,
	Args: cobra.ExactArgs(1),
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringArrayVar(&flagParams, "param", nil, "tool parameter as key=value (repeatable)")
	runCmd.Flags().StringVar(&flagOutputName, "output-name", "", "name for the destination service")
	runCmd.Flags().BoolVar(&flagNoWait, "no-wait", false, "submit and return without waiting")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	raw, err := parseParams(flagParams)
	if err != nil {
		return err
	}

	ws, err := connectWorkspace(cmd.Context())
	if err != nil {
		return err
	}

	opts := []geoanalytics.Option{geoanalytics.WithWorkspace(ws)}
	if flagOutputName != "" {
		opts = append(opts, geoanalytics.WithOutputName(flagOutputName))
	}
	if flagNoWait {
		opts = append(opts, geoanalytics.NonBlocking())
	}

	out, err := geoanalytics.Run(cmd.Context(), args[0], raw, opts...)
	if err != nil {
		return err
	}

	if out.Job != nil {
		printTicket(out.Job.Ticket)
		return nil
	}
	printHandle(out.Service)
	return nil
}

// parseParams turns repeated key=value flags into typed raw arguments.
func parseParams(pairs []string) (map[string]interface{}, error) {
	raw := make(map[string]interface{}, len(pairs))
	for _, pair := range pairs {
		key, value, found := strings.Cut(pair, "=")
		if !found || key == "" {
			return nil, fmt.Errorf("invalid --param %q, expected key=value", pair)
		}
		raw[key] = parseValue(value)
	}
	return raw, nil
}

func parseValue(s string) interface{} {
	if b, err := strconv.ParseBool(s); err == nil {
		return b
	}
	if i, err := strconv.Atoi(s); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}

func printHandle(handle *geoprocessing.OutputServiceHandle) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Name", "URL", "Item ID"})
	t.AppendRow(table.Row{handle.Name, handle.URL, handle.ItemID})
	t.Render()
}

func printTicket(ticket geoprocessing.JobTicket) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Job ID", "Status URL", "Submitted"})
	t.AppendRow(table.Row{ticket.JobID, ticket.StatusURL, ticket.SubmittedAt.Format("2006-01-02 15:04:05")})
	t.Render()
}
