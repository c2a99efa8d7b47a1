package commands

import (
	"github.com/spf13/cobra"

	"github.com/shadracnicholas/engine/cmd/engine/handlers"
	"github.com/shadracnicholas/engine/internal/task"
)

// Infra returns the infra command and its lifecycle subcommands.
func Infra(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "infra",
		Short: "Manage the lifecycle of a Kubernetes cluster",
	}

	cmd.AddCommand(infraAction(flags, task.InfraCreate,
		"Create the cluster network, firewall and placement group",
		`Create ensures the Hetzner Cloud resources of the cluster exist.

If a step fails, the steps already run are rolled back and every resource
labeled with the cluster id is removed.

Example:
  engine infra create -f request.yaml`))
	cmd.AddCommand(infraAction(flags, task.InfraPause,
		"Power off the cluster servers",
		`Pause powers off every running server of the cluster.

Example:
  engine infra pause -f request.yaml`))
	cmd.AddCommand(infraAction(flags, task.InfraDelete,
		"Delete the cluster and all associated resources",
		`Delete removes every Hetzner Cloud resource labeled with the cluster id:
servers, firewalls, networks and placement groups.

Example:
  engine infra delete -f request.yaml

WARNING: This operation is irreversible.`))

	return cmd
}

func infraAction(flags *globalFlags, a task.InfraAction, short, long string) *cobra.Command {
	var (
		requestPath string
		yes         bool
	)

	cmd := &cobra.Command{
		Use:   a.String(),
		Short: short,
		Long:  long,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Infra(cmd.Context(), a, flags.options(requestPath, yes))
		},
	}

	cmd.Flags().StringVarP(&requestPath, "file", "f", "", "Path to the request file (required)")
	_ = cmd.MarkFlagRequired("file")
	if a == task.InfraDelete {
		cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	}

	return cmd
}
