package hetzner

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"

	"github.com/SanatPandey22/AvereSDK/internal/platform"
)

// Label keys stamped on every resource the backend creates.
const (
	labelCluster  = "cluster"
	labelInstance = "instance"
	labelShelved  = "avere.io/shelved"
)

// Hetzner's recursor and time services, baked into node boot
// configuration unless overridden.
var (
	defaultDNSServers = []string{"185.12.64.1", "185.12.64.2"}
	defaultNTPServers = []string{"ntp1.hetzner.de", "ntp2.hetzner.com", "ntp3.hetzner.net"}
)

// ObjectStorageConfig locates the S3-compatible object storage that
// backs cloud core filer buckets.
type ObjectStorageConfig struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	// Credential names the cloud credential registered on the cluster
	// that holds these keys; AuthorizeBucket hands it to the filer.
	Credential string
}

// Config carries everything the backend needs to talk to Hetzner Cloud.
type Config struct {
	Token    string
	Location string
	// Network names the private network clusters live in.
	Network string
	// NetworkRange is the CIDR a freshly created network spans.
	NetworkRange string
	// Subnet is the CIDR addresses are drawn from.
	Subnet      string
	NetworkZone string
	// SSHKeyName names the uploaded key injected into new servers when
	// the create request does not carry its own public key.
	SSHKeyName string

	DNSServers []string
	NTPServers []string
	Domain     string

	ObjectStorage ObjectStorageConfig
}

// setDefaults fills the blanks a minimal configuration leaves.
func (c *Config) setDefaults() {
	if c.Network == "" {
		c.Network = "avere"
	}
	if c.NetworkRange == "" {
		c.NetworkRange = "10.0.0.0/16"
	}
	if c.Subnet == "" {
		c.Subnet = "10.0.0.0/24"
	}
	if c.NetworkZone == "" {
		c.NetworkZone = "eu-central"
	}
	if c.Location == "" {
		c.Location = "fsn1"
	}
	if c.ObjectStorage.Credential == "" {
		c.ObjectStorage.Credential = "hetzner-objectstorage"
	}
}

// Backend implements platform.Backend on Hetzner Cloud.
type Backend struct {
	api   API
	store ObjectStore
	cfg   Config

	pollAttempts int
	pollInterval time.Duration

	mu      sync.Mutex
	network *hcloud.Network
}

// Option configures a Backend.
type Option func(*Backend)

// WithAPI swaps the provider client, used by tests.
func WithAPI(api API) Option {
	return func(b *Backend) {
		b.api = api
	}
}

// WithObjectStore swaps the bucket store, used by tests.
func WithObjectStore(store ObjectStore) Option {
	return func(b *Backend) {
		b.store = store
	}
}

// WithStatusPoll tunes how long instance operations wait for the
// provider to report the target status.
func WithStatusPoll(attempts int, interval time.Duration) Option {
	return func(b *Backend) {
		b.pollAttempts = attempts
		b.pollInterval = interval
	}
}

// New creates a Hetzner backend from the given configuration.
func New(cfg Config, opts ...Option) (*Backend, error) {
	cfg.setDefaults()

	b := &Backend{
		cfg:          cfg,
		pollAttempts: defaultPollAttempts,
		pollInterval: defaultPollInterval,
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.api == nil {
		if cfg.Token == "" {
			return nil, fmt.Errorf("hetzner: api token is required")
		}
		b.api = NewRealClient(cfg.Token)
	}
	if b.store == nil && cfg.ObjectStorage.Endpoint != "" {
		store, err := NewS3Store(cfg.ObjectStorage)
		if err != nil {
			return nil, err
		}
		b.store = store
	}
	return b, nil
}

// managedNetwork returns the configured private network, fetching it
// once and caching it. Returns nil when the network does not exist yet.
func (b *Backend) managedNetwork(ctx context.Context) (*hcloud.Network, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.network != nil {
		return b.network, nil
	}
	network, err := b.api.GetNetwork(ctx, b.cfg.Network)
	if err != nil {
		return nil, err
	}
	b.network = network
	return network, nil
}

// managedNetworkID is managedNetwork reduced to the ID, zero when the
// network does not exist.
func (b *Backend) managedNetworkID(ctx context.Context) (int64, error) {
	network, err := b.managedNetwork(ctx)
	if err != nil {
		return 0, err
	}
	if network == nil {
		return 0, nil
	}
	return network.ID, nil
}

// Name identifies the provider.
func (b *Backend) Name() string { return "hetzner" }

// S3Type names the object-store dialect cloud core filers attach with.
func (b *Backend) S3Type() string { return "s3" }

// AllocatesPrivateAddresses reports that instance primaries are drawn
// explicitly from the managed subnet.
func (b *Backend) AllocatesPrivateAddresses() bool { return true }

// toInstance maps a server onto the provider-neutral instance view.
// Address is the private address on the managed network when attached,
// the public IPv4 otherwise.
func (b *Backend) toInstance(server *hcloud.Server, networkID int64) platform.Instance {
	inst := platform.Instance{
		ID:     strconv.FormatInt(server.ID, 10),
		Name:   server.Name,
		Labels: server.Labels,
		Status: statusOf(server),
	}
	for _, pn := range server.PrivateNet {
		if pn.Network == nil || pn.Network.ID != networkID {
			continue
		}
		inst.Address = pn.IP.String()
		inst.PrivateIPs = append(inst.PrivateIPs, pn.IP.String())
		for _, alias := range pn.Aliases {
			inst.PrivateIPs = append(inst.PrivateIPs, alias.String())
		}
	}
	if inst.Address == "" && server.PublicNet.IPv4.IP != nil {
		inst.Address = server.PublicNet.IPv4.IP.String()
	}
	return inst
}

// statusOf normalizes the provider status vocabulary. A powered-off
// server carrying the shelved label reports as shelved.
func statusOf(server *hcloud.Server) string {
	switch server.Status {
	case hcloud.ServerStatusRunning:
		return platform.StatusRunning
	case hcloud.ServerStatusOff:
		if server.Labels[labelShelved] == "true" {
			return platform.StatusShelved
		}
		return platform.StatusStopped
	default:
		return string(server.Status)
	}
}

// sortInstances orders instances by name for stable node indexing.
func sortInstances(instances []platform.Instance) {
	sort.Slice(instances, func(i, j int) bool {
		return instances[i].Name < instances[j].Name
	})
}

// selector builds an hcloud label selector from key=value pairs.
func selector(pairs ...string) string {
	return strings.Join(pairs, ",")
}
