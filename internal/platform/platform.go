// Package platform defines the provider-neutral backend surface the
// cluster orchestrator drives: instance lifecycle, network planning,
// object storage and environment discovery. Concrete providers live in
// subpackages and are selected by name at configuration time.
package platform

import (
	"context"

	"github.com/SanatPandey22/AvereSDK/internal/util/netutil"
)

// Instance statuses as normalized by backends. Providers map their own
// state vocabulary onto these.
const (
	StatusRunning = "running"
	StatusStopped = "stopped"
	StatusShelved = "shelved"
)

// Instance is the provider-neutral view of one virtual machine.
type Instance struct {
	ID      string
	Name    string
	Address string
	// PrivateIPs lists every address the instance holds on the cluster
	// subnet, including Address.
	PrivateIPs []string
	Status     string
	Labels     map[string]string
}

// NetworkRequest asks a backend to plan addressing for a new cluster.
type NetworkRequest struct {
	ClusterName string
	NodeCount   int
	// AddressesPerNode sizes the inter-node block: the cluster carries
	// NodeCount*AddressesPerNode addresses in its management vlan pool.
	AddressesPerNode int
	// Subnet optionally pins the CIDR to draw from; backends that manage
	// their own networks may ignore it and report what they chose.
	Subnet string
	// ManagementAddress pins the management address instead of drawing
	// one from the pool.
	ManagementAddress string
	// AddressRange pins the inter-node block instead of drawing it from
	// the pool; its netmask overrides the subnet's.
	AddressRange netutil.Range
	// InUse lists addresses the caller already knows are taken.
	InUse []string
}

// NetworkLayout is the planned addressing for a new cluster.
type NetworkLayout struct {
	MgmtIP       string
	Netmask      string
	Router       string
	ClusterRange netutil.Range
	// InstanceIPs holds one primary address per requested node, in node
	// order. Empty when the backend lets the provider assign them.
	InstanceIPs []string
}

// CreateNodesRequest asks a backend to provision instances. Names,
// Addresses and UserData are parallel, one entry per node; Addresses may
// be empty when the provider assigns primaries itself.
type CreateNodesRequest struct {
	ClusterName string
	Names       []string
	Size        string
	RootImage   string
	Addresses   []string
	// UserData carries each node's bootstrap configuration text.
	UserData      []string
	DataDiskCount int
	DataDiskSize  int
	SSHPublicKey  string
	Labels        map[string]string
	// CloneFrom names an existing instance whose size, image and disk
	// shape fill in any of the above left empty, used when growing a
	// cluster whose original creation parameters are gone.
	CloneFrom string
}

// InstanceManager covers per-instance lifecycle operations. Mutating
// calls block until the provider reports the instance settled in its
// target state.
type InstanceManager interface {
	GetInstance(ctx context.Context, id string) (Instance, error)
	StartInstance(ctx context.Context, id string) error
	StopInstance(ctx context.Context, id string) error
	RestartInstance(ctx context.Context, id string) error
	DestroyInstance(ctx context.Context, id string) error
	ShelveInstance(ctx context.Context, id string) error
	UnshelveInstance(ctx context.Context, id string) error
	// CanStop and CanShelve report whether the operation is possible for
	// the instance in its current state, e.g. local scratch disks may
	// pin an instance.
	CanStop(inst Instance) bool
	CanShelve(inst Instance) bool
}

// Provisioner plans addressing and creates the backing instances.
type Provisioner interface {
	// PlanClusterNetwork reserves nothing; it only computes a layout the
	// caller commits to by creating nodes with it.
	PlanClusterNetwork(ctx context.Context, req NetworkRequest) (NetworkLayout, error)
	// CreateNodes provisions instances. On error the returned slice
	// still names every instance that was created before the failure so
	// the caller can roll back.
	CreateNodes(ctx context.Context, req CreateNodesRequest) ([]Instance, error)
	// FindClusterInstances resolves the instances backing a named
	// cluster, in stable name order.
	FindClusterInstances(ctx context.Context, cluster string) ([]Instance, error)
	// InUseAddresses reports subnet addresses currently held by any
	// instance, for allocation planning.
	InUseAddresses(ctx context.Context) ([]string, error)
	// GetAvailableAddresses returns a contiguous block of count free
	// addresses drawn from the managed subnet (or cidr when given),
	// excluding inUse on top of the backend's own occupancy view.
	GetAvailableAddresses(ctx context.Context, count int, cidr string, inUse []string) ([]string, string, error)
}

// BucketManager covers the object-storage side of cloud core filers.
type BucketManager interface {
	CreateBucket(ctx context.Context, name string) error
	DeleteBucket(ctx context.Context, name string) error
	// AuthorizeBucket grants the cluster access to the bucket and
	// returns the management credential name to attach the filer with.
	AuthorizeBucket(ctx context.Context, name string) (string, error)
}

// Environment is the network environment nodes boot into.
type Environment struct {
	DNSServers []string
	NTPServers []string
	Domain     string
}

// EnvironmentSource discovers the boot environment.
type EnvironmentSource interface {
	Environment(ctx context.Context) (Environment, error)
}

// ServiceChecker is implemented by backends whose provider runs its own
// post-provision instance checks worth waiting on. Optional; assert at
// the call site.
type ServiceChecker interface {
	WaitForServiceChecks(ctx context.Context, inst Instance) error
}

// Backend combines every capability a provider implements.
type Backend interface {
	InstanceManager
	Provisioner
	BucketManager
	EnvironmentSource

	// Name identifies the provider, e.g. "hetzner".
	Name() string
	// S3Type names the object-store dialect cloud core filers attach
	// with.
	S3Type() string
	// AllocatesPrivateAddresses reports whether instance primaries are
	// allocated explicitly from the subnet. When true, network plans
	// carry InstanceIPs and node additions must budget one private
	// address per node; when false the provider assigns primaries
	// itself and CreateNodesRequest.Addresses stays empty.
	AllocatesPrivateAddresses() bool
	// PostDestroy releases provider resources that outlive an instance,
	// e.g. detached addresses or orphaned volumes.
	PostDestroy(ctx context.Context, inst Instance) error
}
