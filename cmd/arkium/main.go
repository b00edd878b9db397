// Command arkium is a tabbed browser driven from the terminal.
package main

import (
	"runtime"

	"github.com/bnema/arkium/internal/cli/cmd"
	"github.com/bnema/arkium/internal/domain/build"
)

// Build-time variables (set via ldflags).
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func main() {
	cmd.SetBuildInfo(build.Info{
		Version:   version,
		Commit:    commit,
		BuildDate: buildDate,
		GoVersion: runtime.Version(),
	})
	cmd.Execute()
}
