package cluster

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/SanatPandey22/AvereSDK/internal/errs"
	"github.com/SanatPandey22/AvereSDK/internal/mgmt"
	"github.com/SanatPandey22/AvereSDK/internal/platform"
)

// AddNodes grows the cluster by opts.Count nodes: verify licensing
// headroom, extend the address pools, open the join window, boot the
// new instances against the existing cluster and wait for them to land.
// On failure instances that never joined are destroyed and, when not a
// single one made it, the address-pool extensions are reversed; the
// original cause comes back wrapped after cleanup.
func (c *Cluster) AddNodes(ctx context.Context, opts AddNodesOptions) error {
	opts = opts.withDefaults()
	if err := c.Reload(ctx); err != nil {
		return err
	}
	c.observer.Printf("Extending cluster %s by %d", c.Name, opts.Count)

	if len(c.Nodes) == 0 {
		return errs.Configurationf("cannot add a node to an empty cluster")
	}

	var private []string
	var journal []rangeExtension
	err := c.withManagement(ctx, func(m *mgmt.Client) error {
		licenses, err := m.Cluster().ListLicenses(ctx)
		if err != nil {
			return err
		}
		if want := len(c.Nodes) + opts.Count; want > licenses.MaxNodes {
			return errs.Configurationf("cannot expand cluster to %d nodes as the current licensed maximum is %d", want, licenses.MaxNodes)
		}
		private, journal, err = c.extendAddressPools(ctx, m, opts.Count, opts)
		return err
	})
	if err != nil {
		return err
	}

	err = c.growCluster(ctx, private, opts)
	if err == nil {
		return nil
	}
	c.observer.Printf("%v", err)

	cleanup := context.WithoutCancel(ctx)
	if opts.SkipCleanup {
		if tErr := c.Telemetry(cleanup, false); tErr != nil {
			c.observer.Printf("%v", tErr)
		}
	} else {
		c.observer.Printf("Undoing configuration changes for node addition")
		expected := lo.Map(c.Nodes, func(n *platform.Node, _ int) string { return n.ID() })
		if totalFailure := c.reconcileMembership(cleanup, expected, opts.Count); totalFailure {
			mErr := c.withManagement(cleanup, func(m *mgmt.Client) error {
				c.rollbackAddressPools(cleanup, m, journal)
				return nil
			})
			if mErr != nil {
				c.observer.Printf("Failed to undo address extensions: %v", mErr)
			}
		}
	}
	if jErr := c.allowNodeJoin(cleanup, false); jErr != nil {
		c.observer.Printf("Failed to disable node join: %v", jErr)
	}
	return &errs.CreateError{Op: "add nodes", Err: err}
}

func (c *Cluster) growCluster(ctx context.Context, private []string, opts AddNodesOptions) error {
	if err := c.allowNodeJoin(ctx, true); err != nil {
		return err
	}
	if err := c.createJoinNodes(ctx, private, opts.Count); err != nil {
		return err
	}
	if err := c.waitForServiceChecks(ctx); err != nil {
		return err
	}
	if err := c.WaitForNodesToJoin(ctx, opts.JoinWait); err != nil {
		return err
	}
	if err := c.Refresh(ctx); err != nil {
		return err
	}
	if err := c.EnableHA(ctx); err != nil {
		return err
	}
	if err := c.allowNodeJoin(ctx, false); err != nil {
		return err
	}
	c.setNodeNamingPolicy(ctx)
	c.setState(StateReady)
	return nil
}

// createJoinNodes boots count instances carrying join configs pointed at
// the running cluster, cloning machine shape from the first node.
func (c *Cluster) createJoinNodes(ctx context.Context, private []string, count int) error {
	start := c.nextNodeIndex()
	join := joinConfig(c.joinAddress(), c.configExpiration())

	names := make([]string, count)
	configs := make([]string, count)
	for i := range names {
		names[i] = fmt.Sprintf("%s-%d", c.Name, start+i)
		configs[i] = join
	}

	c.observer.Printf("Creating %d new node(s)", count)
	created, err := c.backend.CreateNodes(ctx, platform.CreateNodesRequest{
		ClusterName: c.Name,
		Names:       names,
		Addresses:   private,
		UserData:    configs,
		Labels:      map[string]string{"cluster": c.Name},
		CloneFrom:   c.Nodes[0].ID(),
	})
	for _, inst := range created {
		c.Nodes = append(c.Nodes, platform.NewNode(c.backend, inst))
	}
	return err
}

// nextNodeIndex continues the node numbering past the highest suffix in
// use, so grown clusters never reuse a name.
func (c *Cluster) nextNodeIndex() int {
	next := 1
	for _, n := range c.Nodes {
		name := n.Name()
		idx := strings.LastIndex(name, "-")
		if idx < 0 {
			continue
		}
		if v, err := strconv.Atoi(name[idx+1:]); err == nil && v >= next {
			next = v + 1
		}
	}
	return next
}
