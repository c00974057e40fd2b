package handlers

import (
	"context"
	"fmt"

	"github.com/SanatPandey22/AvereSDK/internal/cluster"
)

// Export resolves the configured cluster and writes its identity to a
// cluster file.
func Export(ctx context.Context, opts Options, outputPath string) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	backend, err := newBackend(cfg)
	if err != nil {
		return err
	}
	dialer := newDialer(cfg)

	c, err := resolveCluster(ctx, opts, cfg, backend, dialer, cluster.NoopObserver{})
	if err != nil {
		return err
	}

	if outputPath == "" {
		outputPath = c.Name + "-cluster.yaml"
	}
	if err := writeClusterFile(c.Export(), outputPath); err != nil {
		return err
	}
	fmt.Printf("Cluster file written to %s\n", outputPath)
	return nil
}
