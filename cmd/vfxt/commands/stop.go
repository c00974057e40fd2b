package commands

import (
	"github.com/spf13/cobra"

	"github.com/SanatPandey22/AvereSDK/cmd/vfxt/handlers"
)

// Stop returns the stop command.
func Stop() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "stop",
		Short: "Stop a running cluster",
		Long: `Stop powers the cluster down cleanly: cached data is flushed to the
core filers, the nodes shut themselves off, and the instances are
stopped on the provider.

Some instance types cannot be stopped without losing local state; the
command refuses them unless --force is given.

Example:
  vfxt stop -c vfxt.yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Stop(cmd.Context(), globalOptions(), force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Stop even when a node reports stopping is unsafe")

	return cmd
}
