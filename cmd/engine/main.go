// Package main is the entry point for the engine CLI.
//
// engine creates, pauses and deletes Kubernetes clusters on Hetzner Cloud
// and deploys the databases, containers and routers of an environment onto
// them with Helm.
//
// For detailed usage information, run:
//
//	engine --help
package main

import (
	"fmt"
	"os"

	"github.com/shadracnicholas/engine/cmd/engine/commands"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersionInfo(version, commit, date)
	if err := commands.Root().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
