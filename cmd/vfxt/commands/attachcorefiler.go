package commands

import (
	"github.com/spf13/cobra"

	"github.com/SanatPandey22/AvereSDK/cmd/vfxt/handlers"
)

// AttachCoreFiler returns the attach-corefiler command.
func AttachCoreFiler() *cobra.Command {
	var waitForExport string

	cmd := &cobra.Command{
		Use:   "attach-corefiler NAME HOST",
		Short: "Attach an NFS filer as a core filer",
		Long: `Attach-corefiler registers the NFS server at HOST with the cluster
as a core filer named NAME. The command waits until the filer's exports
are visible to the cluster before reporting success.

Example:
  vfxt attach-corefiler nas1 nas1.example.com
  vfxt attach-corefiler nas1 nas1.example.com --wait-for-export /data`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return handlers.AttachCoreFiler(cmd.Context(), globalOptions(), args[0], args[1], waitForExport)
		},
	}

	cmd.Flags().StringVar(&waitForExport, "wait-for-export", "", "Specific export path that must appear (default: any export)")

	return cmd
}
