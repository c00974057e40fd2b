package cluster

import (
	"context"

	"github.com/samber/lo"

	"github.com/SanatPandey22/AvereSDK/internal/errs"
	"github.com/SanatPandey22/AvereSDK/internal/mgmt"
	"github.com/SanatPandey22/AvereSDK/internal/util/retry"
)

// supportModify applies support settings with the usual RPC retry
// envelope.
func (c *Cluster) supportModify(ctx context.Context, attrs map[string]any) error {
	return retry.Do(ctx, func() error {
		return c.withManagement(ctx, func(m *mgmt.Client) error {
			return m.Support().Modify(ctx, attrs)
		})
	}, retry.WithAttempts(rpcRetries), retry.WithInterval(pollInterval))
}

// setDefaultProxy registers the cluster proxy configuration and selects
// it. No-op when the cluster has no proxy.
func (c *Cluster) setDefaultProxy(ctx context.Context, name string) error {
	if c.Proxy == nil {
		return nil
	}
	if name == "" {
		name = c.Proxy.Hostname()
	}
	if name == "" || c.Proxy.String() == "" {
		return errs.Configurationf("unable to create proxy configuration: bad proxy host")
	}

	cfg := mgmt.ProxyConfig{Name: name, URL: c.Proxy.String()}
	if user := c.Proxy.User; user != nil {
		cfg.User = user.Username()
		cfg.Password, _ = user.Password()
	}

	var existing []mgmt.ProxyConfig
	if err := c.withManagement(ctx, func(m *mgmt.Client) error {
		var err error
		existing, err = m.Cluster().ListProxyConfigs(ctx)
		return err
	}); err != nil {
		return err
	}

	if !lo.SomeBy(existing, func(p mgmt.ProxyConfig) bool { return p.Name == name }) {
		c.observer.Printf("Setting proxy configuration")
		err := retry.Do(ctx, func() error {
			return c.withManagement(ctx, func(m *mgmt.Client) error {
				return m.Cluster().CreateProxyConfig(ctx, cfg)
			})
		}, retry.WithAttempts(rpcRetries), retry.WithInterval(pollInterval))
		if err != nil {
			return errs.Configurationf("unable to create proxy configuration: %v", err)
		}
	}

	err := retry.Do(ctx, func() error {
		return c.withManagement(ctx, func(m *mgmt.Client) error {
			_, err := m.Cluster().Modify(ctx, map[string]any{"proxy": name})
			return err
		})
	}, retry.WithAttempts(rpcRetries), retry.WithInterval(pollInterval))
	if err != nil {
		return errs.Configurationf("unable to configure cluster proxy configuration: %v", err)
	}
	return nil
}

// allowNodeJoin opens or closes the window during which unconfigured
// nodes may join.
func (c *Cluster) allowNodeJoin(ctx context.Context, enable bool) error {
	c.observer.Printf("Setting node join policy")
	setting := "no"
	if enable {
		setting = "yes"
	}
	return retry.Do(ctx, func() error {
		return c.withManagement(ctx, func(m *mgmt.Client) error {
			_, err := m.Cluster().Modify(ctx, map[string]any{"allowAllNodesToJoin": setting})
			return err
		})
	}, retry.WithAttempts(rpcRetries), retry.WithInterval(pollInterval))
}

// EnableHA turns on high availability. Safe to call when already
// enabled; the status pre-check is best effort.
func (c *Cluster) EnableHA(ctx context.Context) error {
	var enabled bool
	err := c.withManagement(ctx, func(m *mgmt.Client) error {
		info, err := m.Cluster().Get(ctx)
		if err != nil {
			return err
		}
		enabled = info.HAEnabled()
		return nil
	})
	if err != nil {
		c.observer.Printf("Failed to check HA status: %v", err)
	} else if enabled {
		return nil
	}

	c.observer.Printf("Enabling HA mode")
	err = retry.Do(ctx, func() error {
		return c.withManagement(ctx, func(m *mgmt.Client) error {
			_, err := m.Cluster().EnableHA(ctx)
			return err
		})
	}, retry.WithAttempts(rpcRetries), retry.WithInterval(pollInterval))
	if err != nil {
		return errs.Configurationf("failed to enable HA: %v", err)
	}
	// settle time before anything leans on the HA pair
	return sleep(ctx, haSettleDelay)
}

// RebalanceDirManagers redistributes directory managers across the
// cluster. An already-scheduled rebalance counts as done.
func (c *Cluster) RebalanceDirManagers(ctx context.Context) error {
	err := c.withManagement(ctx, func(m *mgmt.Client) error {
		if err := m.EnableAPI(ctx, "maintenance"); err != nil {
			return err
		}
		c.observer.Printf("Rebalancing directory managers")
		return retry.Do(ctx, func() error {
			err := m.Maint().RebalanceDirManagers(ctx)
			if mgmt.IsRebalanceAlreadyScheduled(err) {
				return nil
			}
			return err
		}, retry.WithAttempts(rpcRetries), retry.WithInterval(pollInterval))
	})
	if err != nil {
		return errs.Statusf("waiting for cluster rebalance failed")
	}
	return nil
}

// Telemetry kicks off a minimal diagnostic upload, optionally waiting
// for the upload task to finish.
func (c *Cluster) Telemetry(ctx context.Context, wait bool) error {
	c.observer.Printf("Kicking off minimal telemetry reporting.")
	var token string
	err := c.withManagement(ctx, func(m *mgmt.Client) error {
		var err error
		token, err = m.Support().ExecuteNormalMode(ctx, "cluster", "gsimin")
		return err
	})
	if err != nil {
		return errs.Statusf("telemetry failed: %v", err)
	}
	if !wait || token == mgmt.ActivitySuccessToken {
		return nil
	}

	err = retry.Do(ctx, func() error {
		return c.withManagement(ctx, func(m *mgmt.Client) error {
			done, err := m.Support().TaskIsDone(ctx, token)
			if err != nil {
				return err
			}
			if !done {
				return errs.Statusf("telemetry task %s still running", token)
			}
			return nil
		})
	}, retry.WithAttempts(successAttempts), retry.WithInterval(pollInterval))
	if err != nil {
		return errs.Statusf("telemetry failed: %v", err)
	}
	return nil
}

// setNodeNamingPolicy lines cluster node names up with their backing
// instance names. Mismatched nodes are first renamed to their node id to
// free up the wanted names, then every node takes its instance name.
// Rename failures are reported, not fatal.
func (c *Cluster) setNodeNamingPolicy(ctx context.Context) {
	if len(c.Nodes) == 0 {
		return
	}
	byAddress := make(map[string]string, len(c.Nodes))
	for _, n := range c.Nodes {
		byAddress[n.Address()] = n.Name()
	}

	c.observer.Printf("Setting node naming policy")
	for _, toID := range []bool{true, false} {
		err := retry.Do(ctx, func() error {
			return c.withManagement(ctx, func(m *mgmt.Client) error {
				return renameNodes(ctx, m, byAddress, toID)
			})
		}, retry.WithAttempts(rpcRetries), retry.WithInterval(pollInterval))
		if err != nil {
			c.observer.Printf("Failed to rename nodes: %v", err)
		}
	}
}

func renameNodes(ctx context.Context, m *mgmt.Client, byAddress map[string]string, toID bool) error {
	names, err := m.Node().List(ctx)
	if err != nil {
		return err
	}
	for _, name := range names {
		info, err := m.Node().Get(ctx, name)
		if err != nil {
			return err
		}
		want, ok := byAddress[info.PrimaryClusterIP.IP]
		if !ok || want == info.Name {
			continue
		}
		taken := lo.Contains(names, want)
		if toID && taken {
			if err := m.Node().Rename(ctx, info.Name, info.ID); err != nil {
				return err
			}
		}
		if !toID && !taken {
			if err := m.Node().Rename(ctx, info.Name, want); err != nil {
				return err
			}
		}
	}
	return nil
}
