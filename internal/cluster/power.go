package cluster

import (
	"context"
	"errors"

	"github.com/SanatPandey22/AvereSDK/internal/errs"
	"github.com/SanatPandey22/AvereSDK/internal/mgmt"
	"github.com/SanatPandey22/AvereSDK/internal/platform"
	"github.com/SanatPandey22/AvereSDK/internal/util/retry"
)

// Start powers every node on and refreshes the handle.
func (c *Cluster) Start(ctx context.Context) error {
	err := c.parallelNodes(ctx, "start", func(ctx context.Context, n *platform.Node) error {
		return n.Start(ctx)
	})
	if err != nil {
		return err
	}
	if err := c.Refresh(ctx); err != nil {
		return err
	}
	c.setState(StateReady)
	return nil
}

// Stop brings the whole cluster down. When a graceful shutdown is
// possible (credentials present, nodes on, nothing pinning them) the
// cluster is powered down over the management channel and polled
// offline before the instances are stopped.
func (c *Cluster) Stop(ctx context.Context, opts StopOptions) error {
	opts = opts.withDefaults()

	if !opts.Force && c.AdminPassword != "" && len(c.Nodes) > 0 && c.IsOn() {
		if c.MgmtIP == "" {
			c.MgmtIP = c.Nodes[0].Address()
		}
		if !c.CanStop() {
			return errs.Configurationf("node configuration prevents them from being stopped")
		}

		c.observer.Printf("Powering down the cluster")
		err := retry.Do(ctx, func() error {
			return c.withManagement(ctx, func(m *mgmt.Client) error {
				return m.Cluster().Powerdown(ctx)
			})
		}, retry.WithAttempts(rpcRetries), retry.WithInterval(pollInterval))
		if err != nil {
			return errs.Statusf("failed to power down the cluster: %v", err)
		}

		c.observer.Printf("Waiting for cluster to go offline")
		err = retry.Do(ctx, func() error {
			if err := c.Refresh(ctx); err != nil {
				return err
			}
			if c.IsOn() {
				return errors.New("cluster is still on")
			}
			return nil
		}, retry.WithAttempts(opts.Attempts), retry.WithInterval(pollInterval))
		if err != nil {
			return errs.Statusf("timed out waiting for the cluster to go offline")
		}
	}

	err := c.parallelNodes(ctx, "stop", func(ctx context.Context, n *platform.Node) error {
		return n.Stop(ctx)
	})
	if err != nil {
		return err
	}
	if err := c.Refresh(ctx); err != nil {
		return err
	}
	c.setState(StateStopped)
	return nil
}

// Restart stops and then starts the cluster.
func (c *Cluster) Restart(ctx context.Context) error {
	if err := c.Stop(ctx, StopOptions{}); err != nil {
		return err
	}
	return c.Start(ctx)
}

// Destroy tears the cluster down. With RemoveBuckets the cloud core
// filer buckets are collected first and deleted afterwards, both best
// effort. Per-instance post-destroy cleanup rides along in the node
// fan-out.
func (c *Cluster) Destroy(ctx context.Context, opts DestroyOptions) error {
	var buckets []string
	if opts.RemoveBuckets {
		buckets = c.corefilerBuckets(ctx)
	}

	err := c.parallelNodes(ctx, "destroy", func(ctx context.Context, n *platform.Node) error {
		return n.Destroy(ctx)
	})
	if err != nil {
		return err
	}

	for _, bucket := range buckets {
		c.observer.Printf("Deleting bucket %s", bucket)
		if err := c.backend.DeleteBucket(ctx, bucket); err != nil {
			c.observer.Printf("Ignoring remove bucket failure: %v", err)
		}
	}

	c.setState(StateDestroyed)
	return nil
}

// corefilerBuckets names the buckets behind cloud core filers of this
// backend's own object-store dialect, best effort.
func (c *Cluster) corefilerBuckets(ctx context.Context) []string {
	var buckets []string
	err := c.withManagement(ctx, func(m *mgmt.Client) error {
		names, err := m.CoreFiler().List(ctx)
		if err != nil {
			return err
		}
		for _, name := range names {
			info, err := m.CoreFiler().Get(ctx, name)
			if err != nil {
				return err
			}
			if info.Bucket != "" && info.S3Type == c.backend.S3Type() {
				buckets = append(buckets, info.Bucket)
			}
		}
		return nil
	})
	if err != nil {
		c.observer.Printf("Failed to lookup buckets: %v", err)
	}
	return buckets
}

// Shelve suspends the cluster's compute while keeping its data. The
// cluster is told to quiesce first, cleanly stopped, then each instance
// is shelved. Releases without shelve support in the maintenance API
// are tolerated.
func (c *Cluster) Shelve(ctx context.Context, opts ShelveOptions) error {
	if c.AdminPassword == "" || len(c.Nodes) == 0 || !c.IsOn() {
		return errs.Configurationf("unable to shelve cluster without management connectivity")
	}
	if c.MgmtIP == "" {
		c.MgmtIP = c.Nodes[0].Address()
	}
	if !c.CanShelve() {
		return errs.Configurationf("node configuration prevents them from being shelved")
	}

	err := c.withManagement(ctx, func(m *mgmt.Client) error {
		if err := m.EnableAPI(ctx, "maintenance"); err != nil {
			return err
		}
		return m.Maint().SetShelve(ctx)
	})
	if err != nil {
		if !mgmt.IsShelveUnsupported(err) {
			return err
		}
		c.observer.Printf("Shelve notification not supported in this release")
	}

	if err := c.Stop(ctx, StopOptions{Force: opts.Force}); err != nil {
		return err
	}
	err = c.parallelNodes(ctx, "shelve", func(ctx context.Context, n *platform.Node) error {
		return n.Shelve(ctx)
	})
	if err != nil {
		return err
	}
	if err := c.Refresh(ctx); err != nil {
		return err
	}
	c.setState(StateShelved)
	return nil
}

// Unshelve resumes a shelved cluster and, when the handle has enough to
// reach the management channel, waits for it to come back to at least a
// red health floor.
func (c *Cluster) Unshelve(ctx context.Context) error {
	err := c.parallelNodes(ctx, "unshelve", func(ctx context.Context, n *platform.Node) error {
		return n.Unshelve(ctx)
	})
	if err != nil {
		return err
	}
	if err := c.Refresh(ctx); err != nil {
		return err
	}

	if c.MgmtIP != "" && c.AdminPassword != "" && len(c.Nodes) > 0 && c.IsOn() {
		err := c.WaitForHealthCheck(ctx, HealthCheckOptions{
			Severity:    mgmt.SeverityRed,
			ConnRetries: unshelveConnRetries,
		})
		if err != nil {
			return err
		}
	}
	c.setState(StateReady)
	return nil
}
