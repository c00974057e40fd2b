package cluster

import (
	"context"

	"github.com/SanatPandey22/AvereSDK/internal/errs"
	"github.com/SanatPandey22/AvereSDK/internal/mgmt"
	"github.com/SanatPandey22/AvereSDK/internal/util/netutil"
)

// needAddresses is the shortfall in an address pool once the cluster
// grows to total nodes wanting perNode addresses each.
func needAddresses(total, perNode, inUse int) int {
	need := total*perNode - inUse
	if need < 0 {
		return 0
	}
	return need
}

// rangeExtension records one applied address-pool extension so a failed
// grow operation can be unwound. Reversal matches the range by its
// bounds, since the server assigns range names on application.
type rangeExtension struct {
	Category string
	Range    netutil.Range
}

// extendAddressPools grows the cluster, vserver and private address
// pools to cover count additional nodes. It returns the addresses
// reserved for the new instances' primaries (empty when the provider
// assigns them itself) and a journal of every pool extension applied,
// in application order.
func (c *Cluster) extendAddressPools(ctx context.Context, m *mgmt.Client, count int, opts AddNodesOptions) ([]string, []rangeExtension, error) {
	info, err := m.Cluster().Get(ctx)
	if err != nil {
		return nil, nil, err
	}
	vservers, err := m.VServer().List(ctx)
	if err != nil {
		return nil, nil, err
	}
	existingVServer, err := inUseAddresses(ctx, m, CategoryVServer)
	if err != nil {
		return nil, nil, err
	}
	existingCluster, err := inUseAddresses(ctx, m, CategoryCluster)
	if err != nil {
		return nil, nil, err
	}

	total := len(c.Nodes) + count
	needVServer := needAddresses(total, len(vservers), len(existingVServer))
	needCluster := needAddresses(total, info.ClusterIPsPerNode, len(existingCluster))
	needPrivate := 0
	if c.backend.AllocatesPrivateAddresses() {
		needPrivate = count
	}

	need := needVServer + needCluster + needPrivate
	if need == 0 {
		return nil, nil, nil
	}

	inUse, err := inUseAddresses(ctx, m)
	if err != nil {
		return nil, nil, err
	}
	avail, netmask, err := c.availableAddresses(ctx, need, opts.AddressRangeStart, opts.AddressRangeEnd, opts.AddressRangeNetmask, inUse)
	if err != nil {
		return nil, nil, err
	}
	take := func(n int) ([]string, error) {
		if n > len(avail) {
			return nil, errs.Configurationf("not enough addresses provided, require %d", need)
		}
		batch := avail[:n]
		avail = avail[n:]
		return batch, nil
	}

	var private []string
	var journal []rangeExtension

	if needPrivate > 0 {
		if private, err = take(needPrivate); err != nil {
			return nil, journal, err
		}
	}

	if needCluster > 0 {
		batch, err := take(needCluster)
		if err != nil {
			return nil, journal, err
		}
		r := netutil.Range{First: batch[0], Last: batch[len(batch)-1], Netmask: netmask}
		c.observer.Printf("Extending cluster address range by %d", needCluster)
		token, err := m.Cluster().AddClusterIPs(ctx, r)
		if err == nil {
			err = mgmt.WaitActivity(ctx, m, token)
		}
		if err != nil {
			return nil, journal, errs.Configurationf("failed to extend cluster addresses: %v", err)
		}
		journal = append(journal, rangeExtension{Category: CategoryCluster, Range: r})
	}

	if needVServer > 0 {
		for _, vs := range vservers {
			vsInfo, err := m.VServer().Get(ctx, vs)
			if err != nil {
				return nil, journal, err
			}
			have := 0
			for _, r := range vsInfo.ClientFacingIPs {
				size, err := r.Range().Size()
				if err != nil {
					return nil, journal, err
				}
				have += size
			}
			toAdd := total - have
			if toAdd < 1 {
				continue
			}
			batch, err := take(toAdd)
			if err != nil {
				return nil, journal, err
			}
			r := netutil.Range{First: batch[0], Last: batch[len(batch)-1], Netmask: netmask}
			c.observer.Printf("Extending vserver %s address range by %d", vs, toAdd)
			token, err := m.VServer().AddClientIPs(ctx, vs, r)
			if err == nil {
				err = mgmt.WaitActivity(ctx, m, token)
			}
			if err != nil {
				return nil, journal, errs.Configurationf("failed to extend vserver %s addresses: %v", vs, err)
			}
			journal = append(journal, rangeExtension{Category: CategoryVServer, Range: r})
		}
	}

	return private, journal, nil
}

// availableAddresses resolves the free addresses to draw from: the
// caller-provided explicit range when all three parts are given, the
// backend's allocator otherwise.
func (c *Cluster) availableAddresses(ctx context.Context, need int, start, end, netmask string, inUse []string) ([]string, string, error) {
	if start != "" && end != "" && netmask != "" {
		avail, err := (netutil.Range{First: start, Last: end}).Expand()
		if err != nil {
			return nil, "", errs.Configurationf("invalid address range: %v", err)
		}
		if len(avail) < need {
			return nil, "", errs.Configurationf("not enough addresses provided, require %d", need)
		}
		return avail, netmask, nil
	}
	return c.backend.GetAvailableAddresses(ctx, need, "", inUse)
}

// rollbackAddressPools reverses applied pool extensions, most recent
// first. Failures are logged, never escalated: the caller is already
// unwinding a larger failure.
func (c *Cluster) rollbackAddressPools(ctx context.Context, m *mgmt.Client, journal []rangeExtension) {
	for i := len(journal) - 1; i >= 0; i-- {
		ext := journal[i]
		switch ext.Category {
		case CategoryVServer:
			c.removeVServerExtension(ctx, m, ext.Range)
		case CategoryCluster:
			c.removeClusterExtension(ctx, m, ext.Range)
		}
	}
}

func (c *Cluster) removeClusterExtension(ctx context.Context, m *mgmt.Client, r netutil.Range) {
	info, err := m.Cluster().Get(ctx)
	if err != nil {
		c.observer.Printf("Failed to undo cluster extension: %v", err)
		return
	}
	for _, have := range info.ClusterIPs {
		if have.First != r.First || have.Last != r.Last {
			continue
		}
		c.observer.Event(Event{Type: EventRollback, Message: "removing cluster range " + have.First + "-" + have.Last})
		token, err := m.Cluster().RemoveClusterIPs(ctx, have.Name)
		if err == nil {
			err = mgmt.WaitActivity(ctx, m, token)
		}
		if err != nil {
			c.observer.Printf("Failed to undo cluster extension: %v", err)
		}
	}
}

func (c *Cluster) removeVServerExtension(ctx context.Context, m *mgmt.Client, r netutil.Range) {
	vservers, err := m.VServer().List(ctx)
	if err != nil {
		c.observer.Printf("Failed to undo vserver extension: %v", err)
		return
	}
	for _, vs := range vservers {
		info, err := m.VServer().Get(ctx, vs)
		if err != nil {
			c.observer.Printf("Failed to undo vserver extension: %v", err)
			continue
		}
		for _, have := range info.ClientFacingIPs {
			if have.First != r.First || have.Last != r.Last {
				continue
			}
			c.observer.Event(Event{Type: EventRollback, Message: "removing vserver " + vs + " range " + have.First + "-" + have.Last})
			token, err := m.VServer().RemoveClientIPs(ctx, vs, have.Name)
			if err == nil {
				err = mgmt.WaitActivity(ctx, m, token)
			}
			if err != nil {
				c.observer.Printf("Failed to undo vserver extension: %v", err)
			}
		}
	}
}
