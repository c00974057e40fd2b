package cluster

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/SanatPandey22/AvereSDK/internal/errs"
	"github.com/SanatPandey22/AvereSDK/internal/mgmt"
	"github.com/SanatPandey22/AvereSDK/internal/platform"
	"github.com/SanatPandey22/AvereSDK/internal/util/async"
	"github.com/SanatPandey22/AvereSDK/internal/util/netutil"
)

// Poll budgets and settle delays, in attempts at pollInterval unless
// noted.
const (
	pollInterval      = time.Second
	defaultExpiration = 7200 * time.Second

	rpcRetries        = 5
	healthAttempts    = 600
	powerdownAttempts = 600
	licenseAttempts   = 120
	operationAttempts = 120
	statusAttempts    = 30
	successAttempts   = 600
	exportAttempts    = 600

	createConnRetries   = 60
	unshelveConnRetries = 20

	haSettleDelay    = 10 * time.Second
	imageSettleDelay = 15 * time.Second
)

// timeNow and sleep are swapped in tests.
var (
	timeNow = time.Now
	sleep   = func(ctx context.Context, d time.Duration) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(d):
			return nil
		}
	}
)

var namePattern = regexp.MustCompile(`^[a-z]([-a-z0-9]*[a-z0-9])?$`)

// ValidName reports whether name is usable as a cluster name: 1 to 128
// characters, lowercase alphanumeric and hyphens, starting with a letter
// and not ending with a hyphen.
func ValidName(name string) bool {
	if len(name) < 1 || len(name) > 128 {
		return false
	}
	return namePattern.MatchString(name)
}

// Cluster is the orchestrator's working set for one caching-filer
// cluster. It composes the provisioning backend and performs every
// remote operation through it or the management channel.
type Cluster struct {
	Name          string
	AdminPassword string
	MgmtIP        string
	MgmtNetmask   string
	// ClusterRange is the inter-node address range the cluster was
	// created with.
	ClusterRange netutil.Range
	// Nodes are the backing instances, in stable name order.
	Nodes []*platform.Node
	// Proxy is the cluster-wide proxy, nil when none is configured.
	Proxy *url.URL
	// TraceLevel enables support trace collection when set.
	TraceLevel string
	// JoinMgmt selects the join address for new nodes: the management
	// address when true, the first node's instance address otherwise.
	JoinMgmt bool

	backend     platform.Backend
	dialer      mgmt.Dialer
	observer    Observer
	state       State
	connRetries int
	expiration  time.Duration
}

func newCluster(backend platform.Backend, dialer mgmt.Dialer, observer Observer) *Cluster {
	if observer == nil {
		observer = NoopObserver{}
	}
	return &Cluster{
		JoinMgmt:    true,
		backend:     backend,
		dialer:      dialer,
		observer:    observer,
		connRetries: 1,
		expiration:  defaultExpiration,
	}
}

// Load connects to a running cluster and fills in the handle from the
// management channel and the backend's instance inventory.
func Load(ctx context.Context, backend platform.Backend, dialer mgmt.Dialer, opts LoadOptions) (*Cluster, error) {
	opts = opts.withDefaults()
	c := newCluster(backend, dialer, opts.Observer)
	c.MgmtIP = opts.MgmtIP
	c.AdminPassword = opts.AdminPassword
	c.connRetries = opts.ConnRetries

	if err := c.loadClusterInformation(ctx); err != nil {
		return nil, err
	}
	c.state = StateReady
	return c, nil
}

// Offline builds a handle from bare instance IDs without touching the
// management channel, for power operations on a cluster that is down.
func Offline(ctx context.Context, backend platform.Backend, dialer mgmt.Dialer, opts OfflineOptions) (*Cluster, error) {
	c := newCluster(backend, dialer, opts.Observer)
	c.Name = opts.Name
	c.MgmtIP = opts.MgmtIP
	c.AdminPassword = opts.AdminPassword

	for _, id := range opts.InstanceIDs {
		inst, err := backend.GetInstance(ctx, id)
		if err != nil {
			return nil, errs.Configurationf("unable to find instance %s: %v", id, err)
		}
		c.Nodes = append(c.Nodes, platform.NewNode(backend, inst))
	}
	switch {
	case c.IsOn():
		c.state = StateReady
	case c.IsShelved():
		c.state = StateShelved
	case c.IsOff():
		c.state = StateStopped
	}
	return c, nil
}

// FromExport rebuilds a handle from its serialized form, refreshing it
// over the management channel when the cluster is reachable.
func FromExport(ctx context.Context, backend platform.Backend, dialer mgmt.Dialer, data Export, observer Observer) (*Cluster, error) {
	c, err := Offline(ctx, backend, dialer, OfflineOptions{
		Name:          data.Name,
		MgmtIP:        data.MgmtIP,
		AdminPassword: data.AdminPassword,
		InstanceIDs:   data.Nodes,
		Observer:      observer,
	})
	if err != nil {
		return nil, err
	}
	if c.MgmtIP != "" && c.AdminPassword != "" && len(c.Nodes) > 0 && c.IsOn() {
		if err := c.loadClusterInformation(ctx); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// loadClusterInformation re-derives the handle from the management
// channel and the backend. The remote node count must match the backend
// instance inventory or the handle is stale.
func (c *Cluster) loadClusterInformation(ctx context.Context) error {
	return c.withManagement(ctx, func(m *mgmt.Client) error {
		info, err := m.Cluster().Get(ctx)
		if err != nil {
			return err
		}
		c.Name = info.Name
		c.MgmtNetmask = info.MgmtIP.Netmask
		if len(info.ClusterIPs) > 0 {
			c.ClusterRange = clusterRangeSpan(info.ClusterIPs)
		}

		names, err := m.Node().List(ctx)
		if err != nil {
			return err
		}

		instances, err := c.backend.FindClusterInstances(ctx, c.Name)
		if err != nil {
			return err
		}
		if len(instances) == 0 {
			return errs.Configurationf("no nodes found for cluster %s", c.Name)
		}
		nodes := make([]*platform.Node, 0, len(instances))
		for _, inst := range instances {
			nodes = append(nodes, platform.NewNode(c.backend, inst))
		}
		c.Nodes = nodes

		if len(names) != len(nodes) {
			return errs.Statusf("failed to load all %d nodes (found %d)", len(names), len(nodes))
		}
		return nil
	})
}

// clusterRangeSpan covers all reported ranges, lowest first address to
// highest last.
func clusterRangeSpan(ranges []mgmt.NamedRange) netutil.Range {
	span := ranges[0].Range()
	for _, r := range ranges[1:] {
		if cmp, err := netutil.Compare(r.First, span.First); err == nil && cmp < 0 {
			span.First = r.First
		}
		if cmp, err := netutil.Compare(r.Last, span.Last); err == nil && cmp > 0 {
			span.Last = r.Last
		}
	}
	return span
}

// management dials the management channel and logs in. The management
// address is tried first, then the first node's instance address; a
// fallback connection is reported along with the current alert
// conditions. ConnectionError after the configured retries.
func (c *Cluster) management(ctx context.Context) (*mgmt.Client, error) {
	if c.MgmtIP == "" {
		return nil, &errs.ConnectionError{Err: errors.New("a management address is required")}
	}
	if c.AdminPassword == "" {
		return nil, &errs.ConnectionError{Address: c.MgmtIP, Err: errors.New("a password is required")}
	}

	addrs := []string{c.MgmtIP}
	if len(c.Nodes) > 0 {
		if addr := c.Nodes[0].Address(); addr != "" && addr != c.MgmtIP {
			addrs = append(addrs, addr)
		}
	}

	retries := c.connRetries
	if retries < 1 {
		retries = 1
	}
	var lastErr error
	for attempt := 0; attempt < retries; attempt++ {
		for _, addr := range addrs {
			client, err := c.dial(ctx, addr)
			if err != nil {
				lastErr = err
				continue
			}
			if addr != c.MgmtIP {
				c.observer.Printf("Connected via instance address %s instead of management address %s", addr, c.MgmtIP)
				c.logConditions(ctx, client)
			}
			return client, nil
		}
		if attempt < retries-1 {
			if err := sleep(ctx, pollInterval); err != nil {
				return nil, err
			}
		}
	}
	return nil, &errs.ConnectionError{Address: c.MgmtIP, Err: lastErr}
}

func (c *Cluster) dial(ctx context.Context, addr string) (*mgmt.Client, error) {
	transport, err := c.dialer(ctx, addr)
	if err != nil {
		return nil, err
	}
	client := mgmt.NewClient(transport)
	if err := client.Login(ctx, "admin", c.AdminPassword); err != nil {
		client.Close()
		return nil, err
	}
	return client, nil
}

// withManagement runs fn with a fresh management session.
func (c *Cluster) withManagement(ctx context.Context, fn func(*mgmt.Client) error) error {
	client, err := c.management(ctx)
	if err != nil {
		return err
	}
	defer client.Close()
	return fn(client)
}

// logConditions surfaces the current alert condition names, useful while
// polling to show what the cluster is working through.
func (c *Cluster) logConditions(ctx context.Context, m *mgmt.Client) {
	conditions, err := m.Alert().Conditions(ctx)
	if err != nil || len(conditions) == 0 {
		return
	}
	names := make([]string, len(conditions))
	for i, cond := range conditions {
		names[i] = cond.Name
	}
	c.observer.Printf("Current conditions: %s", strings.Join(names, ", "))
}

// IsOn reports whether every node is running.
func (c *Cluster) IsOn() bool {
	if len(c.Nodes) == 0 {
		return false
	}
	return lo.EveryBy(c.Nodes, func(n *platform.Node) bool { return n.IsOn() })
}

// IsOff reports whether every node is stopped or shelved.
func (c *Cluster) IsOff() bool {
	if len(c.Nodes) == 0 {
		return false
	}
	return lo.EveryBy(c.Nodes, func(n *platform.Node) bool { return n.IsOff() })
}

// IsShelved reports whether every node is shelved.
func (c *Cluster) IsShelved() bool {
	if !c.IsOff() {
		return false
	}
	return lo.EveryBy(c.Nodes, func(n *platform.Node) bool { return n.IsShelved() })
}

// CanStop reports whether every node permits stopping.
func (c *Cluster) CanStop() bool {
	return lo.EveryBy(c.Nodes, func(n *platform.Node) bool { return n.CanStop() })
}

// CanShelve reports whether every node permits shelving.
func (c *Cluster) CanShelve() bool {
	return lo.EveryBy(c.Nodes, func(n *platform.Node) bool { return n.CanShelve() })
}

// NodeStatus is one node's power state.
type NodeStatus struct {
	ID     string
	Name   string
	Status string
}

// Status returns the per-node power states.
func (c *Cluster) Status() []NodeStatus {
	statuses := make([]NodeStatus, len(c.Nodes))
	for i, n := range c.Nodes {
		statuses[i] = NodeStatus{ID: n.ID(), Name: n.Name(), Status: n.Instance().Status}
	}
	return statuses
}

// Refresh re-reads every node's instance data from the backend.
func (c *Cluster) Refresh(ctx context.Context) error {
	for _, n := range c.Nodes {
		if err := n.Refresh(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Reload re-derives the handle: from the management channel when the
// cluster is on, from the backend alone otherwise.
func (c *Cluster) Reload(ctx context.Context) error {
	if c.IsOn() {
		return c.loadClusterInformation(ctx)
	}
	return c.Refresh(ctx)
}

// Address categories accepted by InUseAddresses.
const (
	CategoryMgmt    = "mgmt"
	CategoryCluster = "cluster"
	CategoryVServer = "vserver"
)

// InUseAddresses returns the cluster's current address occupancy, the
// union of the requested categories (all when none given), sorted and
// deduplicated. Queried fresh from the management channel.
func (c *Cluster) InUseAddresses(ctx context.Context, categories ...string) ([]string, error) {
	var addrs []string
	err := c.withManagement(ctx, func(m *mgmt.Client) error {
		var err error
		addrs, err = inUseAddresses(ctx, m, categories...)
		return err
	})
	return addrs, err
}

func inUseAddresses(ctx context.Context, m *mgmt.Client, categories ...string) ([]string, error) {
	want := func(cat string) bool {
		return len(categories) == 0 || lo.Contains(categories, cat)
	}
	seen := make(map[string]struct{})

	if want(CategoryMgmt) || want(CategoryCluster) {
		info, err := m.Cluster().Get(ctx)
		if err != nil {
			return nil, err
		}
		if want(CategoryMgmt) {
			seen[info.MgmtIP.IP] = struct{}{}
		}
		if want(CategoryCluster) {
			for _, r := range info.ClusterIPs {
				if err := expandInto(seen, r); err != nil {
					return nil, err
				}
			}
		}
	}

	if want(CategoryVServer) {
		vservers, err := m.VServer().List(ctx)
		if err != nil {
			return nil, err
		}
		for _, vs := range vservers {
			info, err := m.VServer().Get(ctx, vs)
			if err != nil {
				return nil, err
			}
			for _, r := range info.ClientFacingIPs {
				if err := expandInto(seen, r); err != nil {
					return nil, err
				}
			}
		}
	}

	addrs := lo.Keys(seen)
	sort.Strings(addrs)
	return addrs, nil
}

func expandInto(seen map[string]struct{}, r mgmt.NamedRange) error {
	addrs, err := r.Range().Expand()
	if err != nil {
		return err
	}
	for _, a := range addrs {
		seen[a] = struct{}{}
	}
	return nil
}

// parallelNodes fans verb out across all nodes, one goroutine per node,
// and aggregates failures without failing fast.
func (c *Cluster) parallelNodes(ctx context.Context, verb string, fn func(context.Context, *platform.Node) error) error {
	return parallelNodeCall(ctx, c.Nodes, verb, fn)
}

func parallelNodeCall(ctx context.Context, nodes []*platform.Node, verb string, fn func(context.Context, *platform.Node) error) error {
	if len(nodes) == 0 {
		return nil
	}
	tasks := make([]async.Task, len(nodes))
	for i, n := range nodes {
		tasks[i] = async.Task{
			Name: fmt.Sprintf("%s %s", verb, n.Name()),
			Func: func(ctx context.Context) error { return fn(ctx, n) },
		}
	}
	return async.RunAll(ctx, tasks)
}
