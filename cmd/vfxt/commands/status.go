package commands

import (
	"github.com/spf13/cobra"

	"github.com/SanatPandey22/AvereSDK/cmd/vfxt/handlers"
)

// Status returns the status command.
func Status() *cobra.Command {
	var (
		jsonOutput bool
		watch      bool
	)

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show cluster and per-node state",
		Long: `Status reports the cluster lifecycle state, the management address,
and the power state of every node.

Example:
  vfxt status -c vfxt.yaml
  vfxt status -f demo-cluster.yaml --json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Status(cmd.Context(), globalOptions(), jsonOutput, watch)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output status as JSON")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Continuously refresh the status display")

	return cmd
}
