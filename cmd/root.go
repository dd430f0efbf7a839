package cmd

import (
	"context"
	"os"

	"geoflow/geoprocessing"
	"geoflow/pkg/logging"
	"geoflow/workspace"

	"github.com/spf13/cobra"
)

// Exit codes for CLI commands.
const (
	// ExitCodeSuccess indicates successful execution.
	ExitCodeSuccess = 0
	// ExitCodeError indicates a general error (command failed, invalid arguments).
	ExitCodeError = 1
	// ExitCodeRemoteFailure indicates the remote job reached a failed state.
	ExitCodeRemoteFailure = 2
)

var (
	flagProfile string
	flagURL     string
	flagToken   string
	flagDebug   bool
)

// rootCmd represents the base command for the geoflow application.
var rootCmd = &cobra.Command{
	Use:   "geoflow",
	Short: "Run geoanalytics tools against a remote workspace",
	Long: `geoflow submits geoanalytics jobs to a remote workspace, tracks them to
completion, and reports the destination service each job writes to.`,
	// SilenceUsage prevents Cobra from printing the usage message on errors
	// that are handled by the application.
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := logging.LevelInfo
		if flagDebug {
			level = logging.LevelDebug
		}
		logging.Init(level, os.Stderr)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagProfile, "profile", "", "path to a profile file (default: ~/.config/geoflow/profile.yaml)")
	rootCmd.PersistentFlags().StringVar(&flagURL, "url", "", "workspace URL (overrides the profile)")
	rootCmd.PersistentFlags().StringVar(&flagToken, "token", "", "access token (overrides the profile)")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "enable debug logging")
}

// SetVersion sets the version for the root command.
func SetVersion(v string) {
	rootCmd.Version = v
}

// GetVersion returns the current version of the application.
func GetVersion() string {
	return rootCmd.Version
}

// Execute is the main entry point for the CLI application.
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "geoflow version %s\n" .Version}}`)

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(getExitCode(err))
	}
}

// getExitCode determines the appropriate exit code based on the error type.
func getExitCode(err error) int {
	if geoprocessing.IsRemoteFailure(err) {
		return ExitCodeRemoteFailure
	}
	return ExitCodeError
}

// connectWorkspace resolves the profile and flags into a connected
// workspace.
func connectWorkspace(ctx context.Context) (*workspace.Workspace, error) {
	path := flagProfile
	if path == "" {
		if p, err := workspace.DefaultProfilePath(); err == nil {
			path = p
		}
	}
	profile, err := workspace.LoadProfile(path)
	if err != nil {
		return nil, err
	}
	url := profile.URL
	if flagURL != "" {
		url = flagURL
	}
	token := profile.Token
	if flagToken != "" {
		token = flagToken
	}

	ws, err := workspace.Connect(ctx, url, token)
	if err != nil {
		return nil, err
	}
	ws.Defaults = profile.Defaults
	return ws, nil
}
