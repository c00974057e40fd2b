package cluster

import (
	"context"
	"strings"

	"github.com/SanatPandey22/AvereSDK/internal/errs"
	"github.com/SanatPandey22/AvereSDK/internal/mgmt"
	"github.com/SanatPandey22/AvereSDK/internal/util/netutil"
	"github.com/SanatPandey22/AvereSDK/internal/util/retry"
)

// AddVServer creates a vserver presenting a client-facing address
// range. Without an explicit range one is drawn from the backend's free
// addresses, sized by Size or the node count.
func (c *Cluster) AddVServer(ctx context.Context, name string, opts VServerOptions) error {
	opts = opts.withDefaults()

	r := netutil.Range{First: opts.StartAddress, Last: opts.EndAddress, Netmask: opts.Netmask}
	if opts.StartAddress == "" || opts.EndAddress == "" || opts.Netmask == "" {
		count := opts.Size
		if count == 0 {
			count = len(c.Nodes)
		}
		inUse, err := c.InUseAddresses(ctx)
		if err != nil {
			return err
		}
		addrs, netmask, err := c.backend.GetAvailableAddresses(ctx, count, "", inUse)
		if err != nil {
			return err
		}
		r = netutil.Range{First: addrs[0], Last: addrs[len(addrs)-1], Netmask: netmask}
	} else {
		addrs, err := r.Expand()
		if err != nil {
			return errs.Configurationf("invalid vserver address range: %v", err)
		}
		if len(addrs) < len(c.Nodes) {
			c.observer.Printf("Adding vserver address range without enough addresses for all nodes")
		}
	}

	c.observer.Printf("Creating vserver %s (%s-%s/%s)", name, r.First, r.Last, r.Netmask)
	return c.withManagement(ctx, func(m *mgmt.Client) error {
		token, err := m.VServer().Create(ctx, name, r)
		if err != nil {
			return err
		}
		if err := mgmt.WaitActivity(ctx, m, token, retry.WithAttempts(opts.Attempts)); err != nil {
			return errs.Configurationf("failed to create vserver %s: %v", name, err)
		}
		return nil
	})
}

// AddVServerJunction maps a path in the vserver namespace to an export
// on a core filer. Path defaults to /<corefiler>.
func (c *Cluster) AddVServerJunction(ctx context.Context, vserver, corefiler string, opts JunctionOptions) error {
	opts = opts.withDefaults()

	path := opts.Path
	if path == "" {
		path = "/" + corefiler
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	advanced := map[string]any{}
	if opts.Subdir != "" {
		advanced["subdir"] = opts.Subdir
	}

	c.observer.Printf("Creating junction to %s for vserver %s", corefiler, vserver)
	err := retry.Do(ctx, func() error {
		return c.withManagement(ctx, func(m *mgmt.Client) error {
			_, err := m.VServer().AddJunction(ctx, vserver, path, corefiler, opts.Export, advanced)
			return err
		})
	}, retry.WithAttempts(opts.Attempts), retry.WithInterval(pollInterval))
	if err != nil {
		return errs.Configurationf("failed to add junction to %s: %v", vserver, err)
	}
	return nil
}
