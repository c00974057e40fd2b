package handlers

import (
	"context"
	"fmt"

	"github.com/SanatPandey22/AvereSDK/internal/cluster"
)

// Start powers on a stopped cluster and waits for the management
// channel to come back.
func Start(ctx context.Context, opts Options) error {
	c, err := withCluster(ctx, opts, "start", func(ctx context.Context, c *cluster.Cluster) error {
		return c.Start(ctx)
	})
	if err != nil {
		return err
	}
	fmt.Printf("Cluster %s is %s\n", c.Name, c.State())
	return nil
}

// Stop powers the cluster down cleanly, or forcefully when asked.
func Stop(ctx context.Context, opts Options, force bool) error {
	c, err := withCluster(ctx, opts, "stop", func(ctx context.Context, c *cluster.Cluster) error {
		return c.Stop(ctx, cluster.StopOptions{Force: force})
	})
	if err != nil {
		return err
	}
	fmt.Printf("Cluster %s is %s\n", c.Name, c.State())
	return nil
}

// Shelve powers the cluster down and releases its compute capacity.
func Shelve(ctx context.Context, opts Options, force bool) error {
	c, err := withCluster(ctx, opts, "shelve", func(ctx context.Context, c *cluster.Cluster) error {
		return c.Shelve(ctx, cluster.ShelveOptions{Force: force})
	})
	if err != nil {
		return err
	}
	fmt.Printf("Cluster %s is %s\n", c.Name, c.State())
	return nil
}

// Unshelve reprovisions compute for a shelved cluster.
func Unshelve(ctx context.Context, opts Options) error {
	c, err := withCluster(ctx, opts, "unshelve", func(ctx context.Context, c *cluster.Cluster) error {
		return c.Unshelve(ctx)
	})
	if err != nil {
		return err
	}
	fmt.Printf("Cluster %s is %s\n", c.Name, c.State())
	return nil
}
