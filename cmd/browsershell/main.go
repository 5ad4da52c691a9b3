package main

import "github.com/calder/browsershell/internal/cli"

// Build information set via ldflags
var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

func main() {
	cli.SetBuildInfo(cli.BuildInfo{Version: version, Commit: commit, Date: buildDate})
	cli.Execute()
}
