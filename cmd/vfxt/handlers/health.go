package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/SanatPandey22/AvereSDK/internal/cluster"
)

// Health handles the health command.
//
// It polls the cluster's alert conditions until the requested severity
// holds for the hold duration.
func Health(ctx context.Context, opts Options, severity string, holdFor time.Duration) error {
	c, err := withCluster(ctx, opts, "health", func(ctx context.Context, c *cluster.Cluster) error {
		return c.WaitForHealthCheck(ctx, cluster.HealthCheckOptions{
			Severity: severity,
			HoldFor:  holdFor,
		})
	})
	if err != nil {
		return err
	}
	fmt.Printf("Cluster %s held %s for %s\n", c.Name, severity, holdFor)
	return nil
}
