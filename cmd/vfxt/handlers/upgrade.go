package handlers

import (
	"context"
	"fmt"

	"github.com/SanatPandey22/AvereSDK/internal/cluster"
)

// Upgrade handles the upgrade command: download the image at url,
// activate it, and wait for the cluster to settle on it.
func Upgrade(ctx context.Context, opts Options, url string) error {
	c, err := withCluster(ctx, opts, "upgrade", func(ctx context.Context, c *cluster.Cluster) error {
		return c.Upgrade(ctx, url, cluster.UpgradeOptions{})
	})
	if err != nil {
		return err
	}
	fmt.Printf("Cluster %s upgraded\n", c.Name)
	return nil
}
