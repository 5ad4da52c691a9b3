package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version and build information",
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Printf("browsershell %s (commit %s, built %s)\n", buildInfo.Version, buildInfo.Commit, buildInfo.Date)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
