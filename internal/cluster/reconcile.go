package cluster

import (
	"context"
	"strings"

	"github.com/samber/lo"

	"github.com/SanatPandey22/AvereSDK/internal/mgmt"
	"github.com/SanatPandey22/AvereSDK/internal/platform"
)

// reconcileMembership destroys instances that never joined after a
// failed grow operation. expected is the instance IDs the handle carried
// before reloading; count is how many nodes the operation tried to add.
// Returns true when not a single requested node made it in, which tells
// the caller to also reverse its address-pool extensions. Everything in
// here is best effort: the caller is already unwinding a failure and its
// original error must not be masked.
func (c *Cluster) reconcileMembership(ctx context.Context, expected []string, count int) bool {
	if err := c.reloadJoinedMembership(ctx); err != nil {
		c.observer.Printf("Failed to reload cluster membership: %v", err)
		return false
	}
	joined := lo.Map(c.Nodes, func(n *platform.Node, _ int) string { return n.ID() })

	left, right := lo.Difference(expected, joined)
	unjoined := append(left, right...)
	if len(unjoined) == 0 {
		return false
	}

	candidates := make([]*platform.Node, 0, len(unjoined))
	for _, id := range unjoined {
		inst, err := c.backend.GetInstance(ctx, id)
		if err != nil {
			c.observer.Printf("Failed to resolve instance %s: %v", id, err)
			continue
		}
		candidates = append(candidates, platform.NewNode(c.backend, inst))
	}

	// leave alone anything the cluster reports as mid-join
	joining := c.joiningAddresses(ctx)
	destroyList := lo.Filter(candidates, func(n *platform.Node, _ int) bool {
		return !lo.Contains(joining, n.Address())
	})

	if len(destroyList) > 0 {
		c.observer.Event(Event{Type: EventRollback, Message: "destroying instances that never joined", Resource: c.Name})
		err := parallelNodeCall(ctx, destroyList, "destroy", func(ctx context.Context, n *platform.Node) error {
			return n.Destroy(ctx)
		})
		if err != nil {
			c.observer.Printf("Failed to undo configuration: %v", err)
		}
	}

	return len(unjoined) == count
}

// reloadJoinedMembership narrows the handle to the instances the cluster
// itself reports as members, matching nodes to instances by primary
// address. Unlike loadClusterInformation it carries no membership count
// check, since it runs in exactly the half-joined states that check
// rejects.
func (c *Cluster) reloadJoinedMembership(ctx context.Context) error {
	memberAddrs := make(map[string]struct{})
	err := c.withManagement(ctx, func(m *mgmt.Client) error {
		names, err := m.Node().List(ctx)
		if err != nil {
			return err
		}
		for _, name := range names {
			info, err := m.Node().Get(ctx, name)
			if err != nil {
				return err
			}
			memberAddrs[info.PrimaryClusterIP.IP] = struct{}{}
		}
		return nil
	})
	if err != nil {
		return err
	}

	instances, err := c.backend.FindClusterInstances(ctx, c.Name)
	if err != nil {
		return err
	}
	nodes := make([]*platform.Node, 0, len(instances))
	for _, inst := range instances {
		n := platform.NewNode(c.backend, inst)
		if _, ok := memberAddrs[n.Address()]; ok {
			nodes = append(nodes, n)
		}
	}
	c.Nodes = nodes
	return nil
}

func (c *Cluster) joiningAddresses(ctx context.Context) []string {
	var addrs []string
	err := c.withManagement(ctx, func(m *mgmt.Client) error {
		unconfigured, err := m.Node().ListUnconfiguredNodes(ctx)
		if err != nil {
			return err
		}
		for _, u := range unconfigured {
			if strings.Contains(u.Status, "joining") {
				addrs = append(addrs, u.Address)
			}
		}
		return nil
	})
	if err != nil {
		c.observer.Printf("Failed to check unconfigured node status: %v", err)
	}
	return addrs
}
