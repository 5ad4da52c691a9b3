// Package cli provides the Cobra commands for browsershell.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/calder/browsershell/internal/config"
)

// BuildInfo carries the ldflags-injected build identity.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

var (
	manager   *config.Manager
	buildInfo = BuildInfo{Version: "dev", Commit: "none", Date: "unknown"}

	rootCmd = &cobra.Command{
		Use:   "browsershell",
		Short: "Compositing and input-routing shell for a mobile browser",
		Long: `Browsershell - the on-screen compositing layer of a mobile browser.

It owns what shows where: the persistent chrome strip's visibility state
machine, the single active layout and its transitions, touch-gesture
routing, and the viewport projections handed to the web content below.

Use 'browsershell sim' to drive the shell interactively in a terminal,
or explore the subcommands for configuration tooling.`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip initialization for commands that don't need config
			switch cmd.Name() {
			case "help", "completion", "version":
				return nil
			}

			var err error
			manager, err = config.NewManager()
			if err != nil {
				return fmt.Errorf("initialize config manager: %w", err)
			}
			if err := manager.Load(); err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			return nil
		},
	}
)

// SetBuildInfo sets the build information (called from main before Execute).
func SetBuildInfo(info BuildInfo) {
	buildInfo = info
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
