package commands

import (
	"github.com/spf13/cobra"

	"github.com/SanatPandey22/AvereSDK/cmd/vfxt/handlers"
)

// Export returns the export command.
func Export() *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a cluster file for the configured cluster",
		Long: `Export resolves the configured cluster and writes its identity to a
cluster file: the cluster name, management address, admin password and
node instance IDs. Power commands read this file to address the
cluster even while it is offline.

The file contains the admin password, so it is written owner-readable
only.

Example:
  vfxt export -c vfxt.yaml
  vfxt export -o clusters/demo-cluster.yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Export(cmd.Context(), globalOptions(), outputPath)
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output path (default: <cluster>-cluster.yaml)")

	return cmd
}
