package commands

import (
	"github.com/spf13/cobra"

	"github.com/SanatPandey22/AvereSDK/cmd/vfxt/handlers"
)

// Upgrade returns the upgrade command.
func Upgrade() *cobra.Command {
	return &cobra.Command{
		Use:   "upgrade URL",
		Short: "Upgrade the cluster software",
		Long: `Upgrade downloads the appliance image at URL onto the cluster,
activates it, and waits for every node to come back on the new
version. Clusters with high availability enabled keep serving during
the upgrade.

Example:
  vfxt upgrade https://downloads.example.com/AvereOS_V5.3.2.1.tgz -c vfxt.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return handlers.Upgrade(cmd.Context(), globalOptions(), args[0])
		},
	}
}
