package commands

import (
	"github.com/spf13/cobra"

	"github.com/SanatPandey22/AvereSDK/cmd/vfxt/handlers"
)

// Destroy returns the destroy command.
//
// The destroy command stops the cluster if it is running and removes
// every node instance, including data disks and detached addresses.
func Destroy() *cobra.Command {
	var removeBuckets bool

	cmd := &cobra.Command{
		Use:   "destroy",
		Short: "Destroy a cluster and all associated resources",
		Long: `Destroy removes all cluster resources from Hetzner Cloud.

The cluster is powered down first if it is still running, then every
node instance is deleted together with its cache disks and any
addresses left behind. With --remove-buckets, object-store buckets
attached as cloud core filers are deleted as well.

Example:
  vfxt destroy -c vfxt.yaml
  vfxt destroy -f demo-cluster.yaml --remove-buckets

WARNING: This operation is irreversible. Cached data that has not been
flushed to core filers will be lost, and removed buckets take their
contents with them.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Destroy(cmd.Context(), globalOptions(), removeBuckets)
		},
	}

	cmd.Flags().BoolVar(&removeBuckets, "remove-buckets", false, "Also delete object-store buckets attached as cloud core filers")

	return cmd
}
