package cluster

import (
	"context"
	"fmt"
	"net/url"

	"github.com/samber/lo"

	"github.com/SanatPandey22/AvereSDK/internal/errs"
	"github.com/SanatPandey22/AvereSDK/internal/mgmt"
	"github.com/SanatPandey22/AvereSDK/internal/platform"
	"github.com/SanatPandey22/AvereSDK/internal/util/netutil"
)

// Create provisions a new caching-filer cluster and brings it to
// service: plan addressing, boot the first node with a full bootstrap
// config, configure it, boot the rest with join configs, then wait for
// membership and health before naming the nodes and enabling HA. Any
// phase failure tears down everything provisioned so far (unless
// suppressed) before the wrapped cause is returned.
func Create(ctx context.Context, backend platform.Backend, dialer mgmt.Dialer, opts CreateOptions) (*Cluster, error) {
	opts = opts.withDefaults()

	c := newCluster(backend, dialer, opts.Observer)
	c.Name = opts.Name
	c.AdminPassword = opts.AdminPassword
	c.TraceLevel = opts.TraceLevel
	c.JoinMgmt = !opts.JoinInstanceAddress
	c.expiration = opts.Expiration

	if opts.Name == "" {
		return nil, errs.Configurationf("a cluster name is required")
	}
	if !ValidName(opts.Name) {
		return nil, errs.Configurationf("%s is not a valid cluster name", opts.Name)
	}
	if opts.ProxyURI != "" {
		proxy, err := parseProxyURI(opts.ProxyURI)
		if err != nil {
			return nil, err
		}
		c.Proxy = proxy
	}
	if opts.ManagementAddress != "" {
		inUse, err := backend.InUseAddresses(ctx)
		if err != nil {
			return nil, err
		}
		if lo.Contains(inUse, opts.ManagementAddress) {
			return nil, errs.Configurationf("the requested management address %s is already in use", opts.ManagementAddress)
		}
	}

	started := timeNow()
	if err := c.provision(ctx, opts); err != nil {
		return nil, c.failCreate(ctx, opts.SkipCleanup, "provisioning", err)
	}
	if opts.SkipConfiguration {
		return c, nil
	}

	if err := c.waitForServiceChecks(ctx); err != nil {
		c.observer.Printf("Failed to wait for service checks: %v", err)
		return nil, c.failCreate(ctx, opts.SkipCleanup, "service-checks", err)
	}

	if err := c.WaitForNodesToJoin(ctx, opts.JoinWait); err != nil {
		c.observer.Printf("Failed to wait for nodes to join: %v", err)
		return nil, c.failCreate(ctx, opts.SkipCleanup, "joining", err)
	}

	c.setState(StateHealthcheck)
	c.observer.Printf("Waiting for cluster healthcheck")
	err := c.WaitForHealthCheck(ctx, HealthCheckOptions{
		Severity: opts.WaitForState,
		HoldFor:  opts.WaitForStateDuration,
	})
	if err != nil {
		return nil, c.failCreate(ctx, opts.SkipCleanup, "healthcheck", err)
	}

	c.setState(StateFinalizing)
	if err := c.finalize(ctx); err != nil {
		return nil, c.failCreate(ctx, opts.SkipCleanup, "finalizing", err)
	}

	c.setState(StateReady)
	logPhaseComplete(c.observer, "create", timeNow().Sub(started))
	return c, nil
}

// provision plans the network and boots the instances. The first node
// carries the full bootstrap config and is configured before the rest
// are booted pointing at it.
func (c *Cluster) provision(ctx context.Context, opts CreateOptions) error {
	c.setState(StateProvisioning)
	logPhaseStart(c.observer, "provisioning")

	inUse, err := c.backend.InUseAddresses(ctx)
	if err != nil {
		return err
	}
	layout, err := c.backend.PlanClusterNetwork(ctx, platform.NetworkRequest{
		ClusterName:       c.Name,
		NodeCount:         opts.Size,
		AddressesPerNode:  1,
		Subnet:            opts.Subnet,
		ManagementAddress: opts.ManagementAddress,
		AddressRange: netutil.Range{
			First:   opts.AddressRangeStart,
			Last:    opts.AddressRangeEnd,
			Netmask: opts.AddressRangeNetmask,
		},
		InUse: inUse,
	})
	if err != nil {
		return err
	}
	c.MgmtIP = layout.MgmtIP
	c.MgmtNetmask = layout.Netmask
	c.ClusterRange = layout.ClusterRange

	env, err := c.backend.Environment(ctx)
	if err != nil {
		return err
	}

	names := make([]string, opts.Size)
	for i := range names {
		names[i] = fmt.Sprintf("%s-%d", c.Name, i+1)
	}
	labels := map[string]string{"cluster": c.Name}
	for k, v := range opts.Labels {
		labels[k] = v
	}

	expiration := c.configExpiration()
	firstCfg := bootConfig{
		Name:       c.Name,
		Password:   c.AdminPassword,
		Expiration: expiration,
		MgmtIP:     layout.MgmtIP,
		Netmask:    layout.Netmask,
		Router:     layout.Router,
		Cluster:    layout.ClusterRange,
		Env:        env,
	}.render()

	c.observer.Event(Event{Type: EventResourceCreating, Phase: "provisioning", Resource: names[0]})
	var firstAddr []string
	if len(layout.InstanceIPs) > 0 {
		firstAddr = layout.InstanceIPs[:1]
	}
	created, err := c.backend.CreateNodes(ctx, platform.CreateNodesRequest{
		ClusterName:   c.Name,
		Names:         names[:1],
		Size:          opts.InstanceType,
		RootImage:     opts.RootImage,
		Addresses:     firstAddr,
		UserData:      []string{firstCfg},
		DataDiskCount: opts.DataDiskCount,
		DataDiskSize:  opts.DataDiskSize,
		SSHPublicKey:  opts.SSHPublicKey,
		Labels:        labels,
	})
	for _, inst := range created {
		c.Nodes = append(c.Nodes, platform.NewNode(c.backend, inst))
	}
	if err != nil {
		return err
	}
	c.observer.Event(Event{Type: EventResourceCreated, Phase: "provisioning", Resource: names[0]})

	if !opts.SkipConfiguration {
		if err := c.firstNodeConfiguration(ctx, opts); err != nil {
			return err
		}
	}

	if opts.Size > 1 {
		join := joinConfig(c.joinAddress(), expiration)
		configs := make([]string, opts.Size-1)
		for i := range configs {
			configs[i] = join
		}
		var addrs []string
		if len(layout.InstanceIPs) > 1 {
			addrs = layout.InstanceIPs[1:]
		}
		created, err := c.backend.CreateNodes(ctx, platform.CreateNodesRequest{
			ClusterName:   c.Name,
			Names:         names[1:],
			Size:          opts.InstanceType,
			RootImage:     opts.RootImage,
			Addresses:     addrs,
			UserData:      configs,
			DataDiskCount: opts.DataDiskCount,
			DataDiskSize:  opts.DataDiskSize,
			SSHPublicKey:  opts.SSHPublicKey,
			Labels:        labels,
		})
		for _, inst := range created {
			c.Nodes = append(c.Nodes, platform.NewNode(c.backend, inst))
		}
		if err != nil {
			return err
		}
		for _, name := range names[1:] {
			c.observer.Event(Event{Type: EventResourceCreated, Phase: "provisioning", Resource: name})
		}
	}

	return nil
}

// firstNodeConfiguration brings the just-booted first node to a state
// the rest of the cluster can join: proxy, support identity, licensing
// and the join policy. Support settings are best effort since a cluster
// that cannot report upstream still serves.
func (c *Cluster) firstNodeConfiguration(ctx context.Context, opts CreateOptions) error {
	if c.MgmtIP == "" {
		return errs.Configurationf("cannot configure a cluster without a management address")
	}
	c.observer.Printf("Waiting for remote API connectivity to %s", c.MgmtIP)
	saved := c.connRetries
	c.connRetries = opts.ConnRetries
	client, err := c.management(ctx)
	c.connRetries = saved
	if err != nil {
		return err
	}
	client.Close()

	if err := c.setDefaultProxy(ctx, ""); err != nil {
		return err
	}

	c.observer.Printf("Setting support customerId to %s", c.Name)
	if err := c.supportModify(ctx, map[string]any{"customerId": c.Name}); err != nil {
		c.observer.Printf("Failed setting customerId: %v", err)
	}

	c.observer.Printf("Enabling SPS")
	supportOpts := map[string]any{"SPSLinkEnabled": "yes", "statsMonitor": "yes", "generalInfo": "yes"}
	if c.TraceLevel != "" {
		supportOpts["traceLevel"] = c.TraceLevel
		supportOpts["rollingTrace"] = "yes"
	}
	if err := c.supportModify(ctx, supportOpts); err != nil {
		c.observer.Printf("Failed enabling SPS: %v", err)
	}

	// single-node HA, where the release supports it
	if err := c.EnableHA(ctx); err != nil {
		c.observer.Printf("Failed to enable early HA, will retry later: %v", err)
	}

	if err := c.VerifyLicense(ctx); err != nil {
		return err
	}
	if err := c.allowNodeJoin(ctx, true); err != nil {
		return err
	}
	return c.WaitForHealthCheck(ctx, HealthCheckOptions{Severity: opts.WaitForState})
}

// finalize closes the join window, reconciles node names with their
// instances and turns HA on for multi-node clusters.
func (c *Cluster) finalize(ctx context.Context) error {
	if err := c.allowNodeJoin(ctx, false); err != nil {
		return err
	}
	c.setNodeNamingPolicy(ctx)
	if len(c.Nodes) > 1 {
		if err := c.EnableHA(ctx); err != nil {
			return err
		}
	}
	return nil
}

// failCreate tears down everything provisioned so far (or leaves it in
// place and sends a diagnostic report when cleanup is suppressed), then
// wraps the original cause. Rollback runs on a detached context so that
// cancellation, which lands here like any other failure, cannot stop
// its own cleanup.
func (c *Cluster) failCreate(ctx context.Context, skipCleanup bool, phase string, cause error) error {
	c.setState(StateFailed)
	logPhaseFailed(c.observer, phase, cause)

	cleanup := context.WithoutCancel(ctx)
	if skipCleanup {
		if err := c.Telemetry(cleanup, false); err != nil {
			c.observer.Printf("%v", err)
		}
	} else if len(c.Nodes) > 0 {
		c.observer.Event(Event{Type: EventRollback, Phase: phase, Resource: c.Name, Message: "destroying partially created cluster"})
		if err := c.Destroy(cleanup, DestroyOptions{}); err != nil {
			c.observer.Printf("Cleanup failed: %v", err)
		}
	}
	return &errs.CreateError{Op: "create", Err: cause}
}

func parseProxyURI(raw string) (*url.URL, error) {
	proxy, err := url.Parse(raw)
	if err != nil || proxy.Scheme == "" || proxy.Hostname() == "" {
		return nil, errs.Configurationf("invalid proxy URI %q", raw)
	}
	return proxy, nil
}
