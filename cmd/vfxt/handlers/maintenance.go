package handlers

import (
	"context"
	"fmt"

	"github.com/SanatPandey22/AvereSDK/internal/cluster"
)

// Rebalance handles the rebalance command. The redistribution itself
// runs in the background on the cluster; scheduling it is quick.
func Rebalance(ctx context.Context, opts Options) error {
	c, err := withCluster(ctx, opts, "rebalance", func(ctx context.Context, c *cluster.Cluster) error {
		return c.RebalanceDirManagers(ctx)
	})
	if err != nil {
		return err
	}
	fmt.Printf("Directory manager rebalance scheduled on cluster %s\n", c.Name)
	return nil
}
