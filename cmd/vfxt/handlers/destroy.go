package handlers

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/SanatPandey22/AvereSDK/internal/cluster"
)

// removeFile deletes a file (for testing injection).
var removeFile = os.Remove

// Destroy handles the destroy command.
//
// It resolves the cluster, powers it down if it is running, and deletes
// every node instance. The cluster file, now pointing at nothing, is
// removed afterwards.
func Destroy(ctx context.Context, opts Options, removeBuckets bool) error {
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

	var name string
	err = runLifecycleOperation(ctx, opts, cfg.Cluster.Name, backend.Name(), "destroy", func(obs cluster.Observer) error {
		c, err := resolveCluster(ctx, opts, cfg, backend, dialer, obs)
		if err != nil {
			return err
		}
		name = c.Name
		return c.Destroy(ctx, cluster.DestroyOptions{RemoveBuckets: removeBuckets})
	})
	if err != nil {
		return fmt.Errorf("destroy failed: %w", err)
	}

	if opts.ClusterFile != "" {
		if err := removeFile(opts.ClusterFile); err != nil && !os.IsNotExist(err) {
			log.Printf("Warning: could not remove cluster file %s: %v", opts.ClusterFile, err)
		}
	}

	fmt.Printf("Cluster %s destroyed\n", name)
	return nil
}
