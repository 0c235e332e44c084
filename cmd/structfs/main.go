// Command structfs runs the StructFS process: loads configuration, installs
// the bootstrap mount composition, and serves the control/health endpoint.
package main

import (
	"fmt"
	"os"

	"github.com/structfs/structfs/cmd/structfs/commands"
)

// Build-time variables injected via ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.Version = version
	commands.Commit = commit
	commands.Date = date

	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
