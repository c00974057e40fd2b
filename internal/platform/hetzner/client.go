package hetzner

import (
	"context"
	"net"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"
)

// ServerAPI covers the server operations the backend drives. Mutating
// calls wait for the provider action to finish before returning.
type ServerAPI interface {
	// GetServer resolves a server by ID or name, nil when absent.
	GetServer(ctx context.Context, idOrName string) (*hcloud.Server, error)
	// ListServers returns all servers matching the label selector, every
	// server when the selector is empty.
	ListServers(ctx context.Context, labelSelector string) ([]*hcloud.Server, error)
	CreateServer(ctx context.Context, opts hcloud.ServerCreateOpts) (*hcloud.Server, error)
	DeleteServer(ctx context.Context, server *hcloud.Server) error
	PowerOnServer(ctx context.Context, server *hcloud.Server) error
	// ShutdownServer sends an ACPI shutdown signal. The guest decides
	// when to actually power down; callers poll the status afterwards.
	ShutdownServer(ctx context.Context, server *hcloud.Server) error
	PowerOffServer(ctx context.Context, server *hcloud.Server) error
	RebootServer(ctx context.Context, server *hcloud.Server) error
	AttachServerToNetwork(ctx context.Context, server *hcloud.Server, network *hcloud.Network, ip net.IP) error
	UpdateServerLabels(ctx context.Context, server *hcloud.Server, labels map[string]string) (*hcloud.Server, error)
}

// NetworkAPI covers private network management.
type NetworkAPI interface {
	GetNetwork(ctx context.Context, name string) (*hcloud.Network, error)
	CreateNetwork(ctx context.Context, opts hcloud.NetworkCreateOpts) (*hcloud.Network, error)
	AddSubnet(ctx context.Context, network *hcloud.Network, subnet hcloud.NetworkSubnet) error
}

// SSHKeyAPI covers uploaded SSH public keys.
type SSHKeyAPI interface {
	GetSSHKey(ctx context.Context, name string) (*hcloud.SSHKey, error)
	CreateSSHKey(ctx context.Context, opts hcloud.SSHKeyCreateOpts) (*hcloud.SSHKey, error)
}

// VolumeAPI covers data disk volumes.
type VolumeAPI interface {
	CreateVolume(ctx context.Context, opts hcloud.VolumeCreateOpts) (*hcloud.Volume, error)
	ListVolumes(ctx context.Context, labelSelector string) ([]*hcloud.Volume, error)
	DeleteVolume(ctx context.Context, volume *hcloud.Volume) error
}

// ResolverAPI resolves the named catalog objects server creation needs.
type ResolverAPI interface {
	GetServerType(ctx context.Context, name string) (*hcloud.ServerType, error)
	// GetImage resolves an image by name or ID for the given architecture.
	GetImage(ctx context.Context, idOrName string, arch hcloud.Architecture) (*hcloud.Image, error)
	GetLocation(ctx context.Context, name string) (*hcloud.Location, error)
}

// API combines every provider capability the backend uses.
type API interface {
	ServerAPI
	NetworkAPI
	SSHKeyAPI
	VolumeAPI
	ResolverAPI
}
