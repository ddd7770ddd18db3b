package main

import (
	"github.com/anstrom/sortbench/cmd/cli"
)

// Set by ldflags during release builds.
var (
	version   = "dev"
	commit    = "none"
	buildTime = "unknown"
)

func main() {
	cli.SetVersion(version, commit, buildTime)
	cli.Execute()
}
