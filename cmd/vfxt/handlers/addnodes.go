package handlers

import (
	"context"
	"fmt"

	"github.com/SanatPandey22/AvereSDK/internal/cluster"
)

// AddNodesOptions carries the add-nodes command flags.
type AddNodesOptions struct {
	Count       int
	First       string
	Last        string
	Netmask     string
	SkipCleanup bool
}

// AddNodes grows the cluster and refreshes the cluster file with the
// new membership.
func AddNodes(ctx context.Context, opts Options, nodeOpts AddNodesOptions) error {
	if nodeOpts.Count < 1 {
		return fmt.Errorf("node count must be at least 1, got %d", nodeOpts.Count)
	}
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	backend, err := newBackend(cfg)
	if err != nil {
		return err
	}
	dialer := newDialer(cfg)
	startMetrics(ctx, cfg, opts)

	var c *cluster.Cluster
	err = observeOperation(opts, "add-nodes", func(obs cluster.Observer) error {
		var err error
		c, err = resolveCluster(ctx, opts, cfg, backend, dialer, obs)
		if err != nil {
			return err
		}
		return c.AddNodes(ctx, cluster.AddNodesOptions{
			Count:               nodeOpts.Count,
			AddressRangeStart:   nodeOpts.First,
			AddressRangeEnd:     nodeOpts.Last,
			AddressRangeNetmask: nodeOpts.Netmask,
			SkipCleanup:         nodeOpts.SkipCleanup || cfg.Cluster.SkipCleanup,
		})
	})
	if err != nil {
		return err
	}

	// Membership changed; the recorded identity must follow.
	exportPath := clusterFilePath(opts, c.Name)
	if err := writeClusterFile(c.Export(), exportPath); err != nil {
		return err
	}

	fmt.Printf("Cluster %s now has %d nodes\n", c.Name, len(c.Nodes))
	return nil
}
