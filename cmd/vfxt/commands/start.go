package commands

import (
	"github.com/spf13/cobra"

	"github.com/SanatPandey22/AvereSDK/cmd/vfxt/handlers"
)

// Start returns the start command.
func Start() *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start a stopped cluster",
		Long: `Start powers on every node of a stopped cluster.

Node identities come from the cluster file when one is given, otherwise
from the instances labelled with the configured cluster name.

Example:
  vfxt start -f demo-cluster.yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Start(cmd.Context(), globalOptions())
		},
	}
}
