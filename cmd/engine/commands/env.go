package commands

import (
	"github.com/spf13/cobra"

	"github.com/shadracnicholas/engine/cmd/engine/handlers"
	"github.com/shadracnicholas/engine/internal/action"
)

// Env returns the env command and its subcommands.
func Env(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "env",
		Short: "Deploy, pause or delete the services of an environment",
	}

	cmd.AddCommand(envAction(flags, "deploy", action.Create,
		"Build images and deploy every service of the environment",
		`Deploy builds the images of the services that declare a build, then
deploys databases, containers and routers in that order. Services of the
same kind are deployed in parallel.

Example:
  engine env deploy -f request.yaml`))
	cmd.AddCommand(envAction(flags, "pause", action.Pause,
		"Scale every service of the environment to zero",
		`Pause scales routers, containers and databases to zero and waits for
their pods to terminate.

Example:
  engine env pause -f request.yaml`))
	cmd.AddCommand(envAction(flags, "delete", action.Delete,
		"Uninstall every service of the environment",
		`Delete uninstalls the Helm releases of routers, containers and databases
and waits for their pods to be gone.

Example:
  engine env delete -f request.yaml

WARNING: Database data is lost.`))

	return cmd
}

func envAction(flags *globalFlags, use string, a action.Action, short, long string) *cobra.Command {
	var (
		requestPath string
		yes         bool
	)

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Long:  long,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Env(cmd.Context(), a, flags.options(requestPath, yes))
		},
	}

	cmd.Flags().StringVarP(&requestPath, "file", "f", "", "Path to the request file (required)")
	_ = cmd.MarkFlagRequired("file")
	if a == action.Delete {
		cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	}

	return cmd
}
