package commands

import (
	"github.com/spf13/cobra"

	"github.com/SanatPandey22/AvereSDK/cmd/vfxt/handlers"
)

// Shelve returns the shelve command.
func Shelve() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "shelve",
		Short: "Shelve a cluster to stop paying for compute",
		Long: `Shelve powers the cluster down and releases its compute capacity
while keeping the disks, so the cluster can be brought back later with
unshelve. Nodes flush cached data before going offline.

Example:
  vfxt shelve -f demo-cluster.yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Shelve(cmd.Context(), globalOptions(), force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Shelve even when a node reports shelving is unsafe")

	return cmd
}
