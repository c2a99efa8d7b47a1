// Package commands defines the CLI command structure and flag bindings.
//
// Commands only parse arguments and flags. Execution is delegated to the
// handlers package.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/shadracnicholas/engine/cmd/engine/handlers"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	debug       bool
	verbose     bool
	metricsAddr string
}

func (g *globalFlags) options(requestPath string, yes bool) handlers.Options {
	return handlers.Options{
		RequestPath: requestPath,
		Debug:       g.debug,
		Verbose:     g.verbose,
		Yes:         yes,
		MetricsAddr: g.metricsAddr,
	}
}

// Root returns the root command for the engine CLI.
func Root() *cobra.Command {
	flags := &globalFlags{}

	cmd := &cobra.Command{
		Use:           "engine",
		Short:         "Deploy environments onto Kubernetes clusters on Hetzner Cloud",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolVar(&flags.debug, "debug", false, "Enable debug logging")
	cmd.PersistentFlags().BoolVar(&flags.verbose, "verbose", false, "Show raw error details")
	cmd.PersistentFlags().StringVar(&flags.metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address while running (e.g. :9090)")

	cmd.AddCommand(Infra(flags))
	cmd.AddCommand(Env(flags))
	cmd.AddCommand(Version())

	return cmd
}
