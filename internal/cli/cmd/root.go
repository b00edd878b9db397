// Package cmd provides Cobra CLI commands for arkium.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/bnema/arkium/internal/bootstrap"
	"github.com/bnema/arkium/internal/cli"
	"github.com/bnema/arkium/internal/domain/build"
)

var (
	app       *cli.App
	buildInfo build.Info
)

// standalone commands run without the shared App. browse assembles its own
// session and logs to a file instead of the terminal it draws on.
var standalone = map[string]bool{
	"help":       true,
	"completion": true,
	"version":    true,
	"browse":     true,
}

var rootCmd = &cobra.Command{
	Use:   "arkium",
	Short: "A keyboard-driven Chromium shell for the terminal",
	Long: `Arkium drives a Chrome/Chromium window from a terminal tab strip.

Tabs are browser page targets with one visible at a time. The chrome is
recolored from the page's own theme, and history, credential autofill,
a page-aware assistant and a websocket control channel are built in.

Run 'arkium browse' to start browsing. The other commands work offline
on history, keys, the vault and the configuration.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if standalone[cmd.Name()] {
			return nil
		}
		var err error
		if app, err = cli.NewApp(); err != nil {
			return fmt.Errorf("initialize app: %w", err)
		}
		app.BuildInfo = buildInfo
		return nil
	},
	PersistentPostRun: func(*cobra.Command, []string) {
		if app != nil {
			_ = app.Close()
		}
	},
}

var browseCmd = &cobra.Command{
	Use:   "browse [url]",
	Short: "Launch the browser",
	Long: `Launch Chrome/Chromium with the terminal shell and control channel.

The first tab opens the given URL, or the start page when none is given.

Examples:
  arkium browse                  # Open the start page
  arkium browse example.com      # Open https://example.com`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := bootstrap.BrowseOptions{BuildInfo: buildInfo}
		if len(args) == 1 {
			opts.InitialURL = args[0]
		}
		return bootstrap.Browse(cmd.Context(), opts)
	},
}

func init() {
	rootCmd.AddCommand(browseCmd)
}

// Execute runs the root command. SIGINT and SIGTERM cancel the command
// context, which shuts a running browser down cleanly.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "arkium: %v\n", err)
		os.Exit(1)
	}
}

// GetApp returns the initialized app (for use by subcommands).
func GetApp() *cli.App {
	return app
}

// SetBuildInfo records version metadata before Execute.
func SetBuildInfo(info build.Info) {
	buildInfo = info
}
