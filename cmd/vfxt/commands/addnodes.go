package commands

import (
	"github.com/spf13/cobra"

	"github.com/SanatPandey22/AvereSDK/cmd/vfxt/handlers"
)

// AddNodes returns the add-nodes command.
//
// The command grows a running cluster by provisioning new instances and
// joining them, extending the cluster and client-facing address ranges
// as needed.
func AddNodes() *cobra.Command {
	var (
		count       int
		first       string
		last        string
		netmask     string
		skipCleanup bool
	)

	cmd := &cobra.Command{
		Use:   "add-nodes",
		Short: "Add nodes to a running cluster",
		Long: `Add nodes provisions additional instances and joins them into the
cluster. New nodes clone the size, image and disk shape of an existing
node, so the original creation parameters are not needed.

Address ranges grow automatically when the existing ones cannot cover
the new nodes; --first/--last/--netmask pin the extension range instead
of drawing it from the subnet.

Example:
  vfxt add-nodes -c vfxt.yaml --count 2

Failed additions are rolled back unless --skip-cleanup is given.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.AddNodes(cmd.Context(), globalOptions(), handlers.AddNodesOptions{
				Count:       count,
				First:       first,
				Last:        last,
				Netmask:     netmask,
				SkipCleanup: skipCleanup,
			})
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", 1, "Number of nodes to add")
	cmd.Flags().StringVar(&first, "first", "", "First address of the extension range")
	cmd.Flags().StringVar(&last, "last", "", "Last address of the extension range")
	cmd.Flags().StringVar(&netmask, "netmask", "", "Netmask of the extension range")
	cmd.Flags().BoolVar(&skipCleanup, "skip-cleanup", false, "Leave partial state in place when the addition fails")

	return cmd
}
