package commands

import (
	"github.com/spf13/cobra"

	"github.com/SanatPandey22/AvereSDK/cmd/vfxt/handlers"
)

// Create returns the create command.
//
// The create command provisions a complete cluster from the
// configuration file: instances, data disks, the management address,
// the cluster address range, and the node join sequence.
func Create() *cobra.Command {
	var skipCleanup bool

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a vFXT cluster",
		Long: `Create provisions a new vFXT cluster on Hetzner Cloud.

The sequence is: plan addressing on the private network, provision the
node instances with their cache disks, configure the first node over the
management channel, join the remaining nodes, then hold until the
cluster sustains the configured health state.

On success a cluster file is written next to the configuration. It
records the management address and node identities so later commands
can address the cluster even while it is powered off.

Example:
  vfxt create -c vfxt.yaml

Interrupting the command rolls the partial cluster back unless
--skip-cleanup is given.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Create(cmd.Context(), globalOptions(), skipCleanup)
		},
	}

	cmd.Flags().BoolVar(&skipCleanup, "skip-cleanup", false, "Leave partial state in place when create fails, for debugging")

	return cmd
}
