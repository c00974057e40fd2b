package commands

import (
	"github.com/spf13/cobra"

	"github.com/SanatPandey22/AvereSDK/cmd/vfxt/handlers"
)

// AddVServer returns the add-vserver command.
func AddVServer() *cobra.Command {
	var opts handlers.VServerOptions

	cmd := &cobra.Command{
		Use:   "add-vserver NAME",
		Short: "Create a vserver with a client-facing address range",
		Long: `Add-vserver creates a vserver, the namespace clients mount. Without
an explicit range the client-facing addresses are drawn from the
private network, one per node by default.

Example:
  vfxt add-vserver vs1
  vfxt add-vserver vs1 --first 10.0.0.30 --last 10.0.0.32 --netmask 255.255.255.0`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return handlers.AddVServer(cmd.Context(), globalOptions(), args[0], opts)
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&opts.First, "first", "", "First client-facing address")
	fl.StringVar(&opts.Last, "last", "", "Last client-facing address")
	fl.StringVar(&opts.Netmask, "netmask", "", "Netmask of the client-facing range")
	fl.IntVar(&opts.Size, "size", 0, "Client-facing address count when the range is drawn automatically (0: one per node)")

	return cmd
}
