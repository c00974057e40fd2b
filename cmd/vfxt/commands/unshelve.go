package commands

import (
	"github.com/spf13/cobra"

	"github.com/SanatPandey22/AvereSDK/cmd/vfxt/handlers"
)

// Unshelve returns the unshelve command.
func Unshelve() *cobra.Command {
	return &cobra.Command{
		Use:   "unshelve",
		Short: "Bring a shelved cluster back online",
		Long: `Unshelve reprovisions compute for a shelved cluster and waits for
the management channel to come back before reporting success.

Example:
  vfxt unshelve -f demo-cluster.yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Unshelve(cmd.Context(), globalOptions())
		},
	}
}
