// Package platformtest provides an in-memory Backend for exercising
// orchestration flows without a cloud provider.
package platformtest

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/SanatPandey22/AvereSDK/internal/platform"
	"github.com/SanatPandey22/AvereSDK/internal/util/netutil"
)

// Operation names accepted by FailOp.
const (
	OpGet           = "get"
	OpStart         = "start"
	OpStop          = "stop"
	OpRestart       = "restart"
	OpDestroy       = "destroy"
	OpShelve        = "shelve"
	OpUnshelve      = "unshelve"
	OpPostDestroy   = "postDestroy"
	OpCreateBucket  = "createBucket"
	OpDeleteBucket  = "deleteBucket"
	OpAuthorize     = "authorizeBucket"
	OpServiceChecks = "serviceChecks"
)

// Fake is an in-memory Backend. Instances are held in a map keyed by ID;
// lifecycle calls flip their status and record the operation. Failures
// are injected per operation and instance with FailOp.
type Fake struct {
	mu sync.Mutex

	name      string
	s3Type    string
	allocates bool

	env     platform.Environment
	layout  *platform.NetworkLayout
	planErr error

	instances map[string]platform.Instance
	buckets   map[string]bool
	cred      string
	inUse     []string

	unstoppable map[string]bool
	unshelvable map[string]bool

	failures        map[string]error
	createFailAfter int
	createErr       error

	ops []string
}

// New returns a fake named "fake" that allocates private addresses.
func New() *Fake {
	return &Fake{
		name:            "fake",
		s3Type:          "s3",
		allocates:       true,
		cred:            "cloud-cred",
		instances:       make(map[string]platform.Instance),
		buckets:         make(map[string]bool),
		unstoppable:     make(map[string]bool),
		unshelvable:     make(map[string]bool),
		failures:        make(map[string]error),
		createFailAfter: -1,
	}
}

// WithName sets the provider name.
func (f *Fake) WithName(name string) *Fake {
	f.name = name
	return f
}

// WithS3Type sets the object-store dialect.
func (f *Fake) WithS3Type(t string) *Fake {
	f.s3Type = t
	return f
}

// WithProviderAddressing makes the fake report that the provider assigns
// instance primaries, like clouds without subnet-level control.
func (f *Fake) WithProviderAddressing() *Fake {
	f.allocates = false
	return f
}

// WithEnvironment sets the discovered boot environment.
func (f *Fake) WithEnvironment(env platform.Environment) *Fake {
	f.env = env
	return f
}

// WithLayout pins the layout PlanClusterNetwork returns.
func (f *Fake) WithLayout(l platform.NetworkLayout) *Fake {
	f.layout = &l
	return f
}

// WithPlanError makes PlanClusterNetwork fail.
func (f *Fake) WithPlanError(err error) *Fake {
	f.planErr = err
	return f
}

// WithInstance seeds an existing instance.
func (f *Fake) WithInstance(inst platform.Instance) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.instances[inst.ID] = inst
	return f
}

// WithInUse adds addresses reported as taken beyond those instances hold.
func (f *Fake) WithInUse(addrs ...string) *Fake {
	f.inUse = append(f.inUse, addrs...)
	return f
}

// WithUnstoppable marks an instance as not stoppable.
func (f *Fake) WithUnstoppable(id string) *Fake {
	f.unstoppable[id] = true
	return f
}

// WithUnshelvable marks an instance as not shelvable.
func (f *Fake) WithUnshelvable(id string) *Fake {
	f.unshelvable[id] = true
	return f
}

// FailOp injects an error for one operation on one instance or bucket.
func (f *Fake) FailOp(op, id string, err error) *Fake {
	f.failures[op+":"+id] = err
	return f
}

// FailCreateAfter makes CreateNodes fail once n instances exist, returning
// the partial slice alongside err.
func (f *Fake) FailCreateAfter(n int, err error) *Fake {
	f.createFailAfter = n
	f.createErr = err
	return f
}

// Ops returns the recorded operations in order, e.g. "start node-1".
func (f *Fake) Ops() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.ops...)
}

// Buckets returns the names of buckets that currently exist.
func (f *Fake) Buckets() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var names []string
	for b := range f.buckets {
		names = append(names, b)
	}
	return names
}

func (f *Fake) record(op, id string) error {
	f.ops = append(f.ops, op+" "+id)
	return f.failures[op+":"+id]
}

// offset is netutil.Offset for the fake's known-good constants.
func offset(addr string, n int) string {
	s, err := netutil.Offset(addr, n)
	if err != nil {
		panic(fmt.Sprintf("platformtest: %v", err))
	}
	return s
}

func (f *Fake) setStatus(op, id, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record(op, id); err != nil {
		return err
	}
	inst, ok := f.instances[id]
	if !ok {
		return fmt.Errorf("platformtest: no instance %s", id)
	}
	inst.Status = status
	f.instances[id] = inst
	return nil
}

// Name implements platform.Backend.
func (f *Fake) Name() string { return f.name }

// S3Type implements platform.Backend.
func (f *Fake) S3Type() string { return f.s3Type }

// AllocatesPrivateAddresses implements platform.Backend.
func (f *Fake) AllocatesPrivateAddresses() bool { return f.allocates }

// GetInstance implements platform.InstanceManager.
func (f *Fake) GetInstance(_ context.Context, id string) (platform.Instance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record(OpGet, id); err != nil {
		return platform.Instance{}, err
	}
	inst, ok := f.instances[id]
	if !ok {
		return platform.Instance{}, fmt.Errorf("platformtest: no instance %s", id)
	}
	return inst, nil
}

// StartInstance implements platform.InstanceManager.
func (f *Fake) StartInstance(_ context.Context, id string) error {
	return f.setStatus(OpStart, id, platform.StatusRunning)
}

// StopInstance implements platform.InstanceManager.
func (f *Fake) StopInstance(_ context.Context, id string) error {
	return f.setStatus(OpStop, id, platform.StatusStopped)
}

// RestartInstance implements platform.InstanceManager.
func (f *Fake) RestartInstance(_ context.Context, id string) error {
	return f.setStatus(OpRestart, id, platform.StatusRunning)
}

// ShelveInstance implements platform.InstanceManager.
func (f *Fake) ShelveInstance(_ context.Context, id string) error {
	return f.setStatus(OpShelve, id, platform.StatusShelved)
}

// UnshelveInstance implements platform.InstanceManager.
func (f *Fake) UnshelveInstance(_ context.Context, id string) error {
	return f.setStatus(OpUnshelve, id, platform.StatusRunning)
}

// DestroyInstance implements platform.InstanceManager.
func (f *Fake) DestroyInstance(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record(OpDestroy, id); err != nil {
		return err
	}
	if _, ok := f.instances[id]; !ok {
		return fmt.Errorf("platformtest: no instance %s", id)
	}
	delete(f.instances, id)
	return nil
}

// CanStop implements platform.InstanceManager.
func (f *Fake) CanStop(inst platform.Instance) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return !f.unstoppable[inst.ID]
}

// CanShelve implements platform.InstanceManager.
func (f *Fake) CanShelve(inst platform.Instance) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return !f.unshelvable[inst.ID]
}

// PostDestroy implements platform.Backend.
func (f *Fake) PostDestroy(_ context.Context, inst platform.Instance) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.record(OpPostDestroy, inst.ID)
}

// PlanClusterNetwork implements platform.Provisioner.
func (f *Fake) PlanClusterNetwork(_ context.Context, req platform.NetworkRequest) (platform.NetworkLayout, error) {
	if f.planErr != nil {
		return platform.NetworkLayout{}, f.planErr
	}
	if f.layout != nil {
		return *f.layout, nil
	}
	layout := platform.NetworkLayout{
		MgmtIP:  "10.0.0.5",
		Netmask: "255.255.255.0",
		Router:  "10.0.0.1",
		ClusterRange: netutil.Range{
			First:   "10.0.0.10",
			Last:    offset("10.0.0.10", req.NodeCount*req.AddressesPerNode-1),
			Netmask: "255.255.255.0",
		},
	}
	if req.ManagementAddress != "" {
		layout.MgmtIP = req.ManagementAddress
	}
	if req.AddressRange.First != "" {
		layout.ClusterRange = req.AddressRange
		if req.AddressRange.Netmask != "" {
			layout.Netmask = req.AddressRange.Netmask
		}
	}
	if f.allocates {
		for i := 0; i < req.NodeCount; i++ {
			layout.InstanceIPs = append(layout.InstanceIPs, offset("10.0.0.50", i))
		}
	}
	return layout, nil
}

// CreateNodes implements platform.Provisioner.
func (f *Fake) CreateNodes(_ context.Context, req platform.CreateNodesRequest) ([]platform.Instance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var created []platform.Instance
	for i, name := range req.Names {
		if f.createFailAfter >= 0 && i == f.createFailAfter {
			return created, f.createErr
		}
		addr := offset("10.0.0.50", i)
		if i < len(req.Addresses) && req.Addresses[i] != "" {
			addr = req.Addresses[i]
		}
		inst := platform.Instance{
			ID:         name,
			Name:       name,
			Address:    addr,
			PrivateIPs: []string{addr},
			Status:     platform.StatusRunning,
			Labels:     req.Labels,
		}
		f.instances[inst.ID] = inst
		f.ops = append(f.ops, "create "+name)
		created = append(created, inst)
	}
	return created, nil
}

// InUseAddresses implements platform.Provisioner.
func (f *Fake) InUseAddresses(_ context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.occupiedLocked(), nil
}

func (f *Fake) occupiedLocked() []string {
	var addrs []string
	for _, inst := range f.instances {
		addrs = append(addrs, inst.PrivateIPs...)
	}
	return append(addrs, f.inUse...)
}

// FindClusterInstances implements platform.Provisioner. Instances belong
// to a cluster when their "cluster" label matches.
func (f *Fake) FindClusterInstances(_ context.Context, cluster string) ([]platform.Instance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var found []platform.Instance
	for _, inst := range f.instances {
		if inst.Labels["cluster"] == cluster {
			found = append(found, inst)
		}
	}
	sort.Slice(found, func(i, j int) bool { return found[i].Name < found[j].Name })
	return found, nil
}

// GetAvailableAddresses implements platform.Provisioner using the fake's
// /24 subnet.
func (f *Fake) GetAvailableAddresses(_ context.Context, count int, cidr string, inUse []string) ([]string, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if cidr == "" {
		cidr = "10.0.0.0/24"
	}
	occupied := append(f.occupiedLocked(), inUse...)
	block, err := netutil.ContiguousBlock(cidr, count, occupied)
	if err != nil {
		return nil, "", err
	}
	prefix, err := strconv.Atoi(cidr[strings.LastIndexByte(cidr, '/')+1:])
	if err != nil {
		return nil, "", fmt.Errorf("platformtest: bad cidr %s", cidr)
	}
	mask, err := netutil.PrefixToMask(prefix)
	if err != nil {
		return nil, "", err
	}
	return block, mask, nil
}

// CreateBucket implements platform.BucketManager.
func (f *Fake) CreateBucket(_ context.Context, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record(OpCreateBucket, name); err != nil {
		return err
	}
	if f.buckets[name] {
		return fmt.Errorf("platformtest: bucket %s exists", name)
	}
	f.buckets[name] = true
	return nil
}

// DeleteBucket implements platform.BucketManager.
func (f *Fake) DeleteBucket(_ context.Context, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record(OpDeleteBucket, name); err != nil {
		return err
	}
	delete(f.buckets, name)
	return nil
}

// AuthorizeBucket implements platform.BucketManager.
func (f *Fake) AuthorizeBucket(_ context.Context, name string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record(OpAuthorize, name); err != nil {
		return "", err
	}
	return f.cred, nil
}

// WaitForServiceChecks implements platform.ServiceChecker.
func (f *Fake) WaitForServiceChecks(_ context.Context, inst platform.Instance) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.record(OpServiceChecks, inst.ID)
}

// Environment implements platform.EnvironmentSource.
func (f *Fake) Environment(_ context.Context) (platform.Environment, error) {
	return f.env, nil
}
