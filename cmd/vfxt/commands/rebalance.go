package commands

import (
	"github.com/spf13/cobra"

	"github.com/SanatPandey22/AvereSDK/cmd/vfxt/handlers"
)

// Rebalance returns the rebalance command.
func Rebalance() *cobra.Command {
	return &cobra.Command{
		Use:   "rebalance",
		Short: "Rebalance directory managers across the cluster",
		Long: `Rebalance schedules a redistribution of directory managers across
the nodes, typically after the cluster has grown. The operation runs in
the background on the cluster; scheduling it again while one is pending
is reported as already in progress.

Example:
  vfxt rebalance -c vfxt.yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Rebalance(cmd.Context(), globalOptions())
		},
	}
}
