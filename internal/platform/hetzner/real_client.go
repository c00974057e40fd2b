package hetzner

import (
	"context"
	"fmt"
	"net"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"

	"github.com/SanatPandey22/AvereSDK/internal/util/retry"
)

// RealClient implements API against the Hetzner Cloud API.
type RealClient struct {
	client       *hcloud.Client
	maxRetries   int
	initialDelay int
}

// ClientOption configures a RealClient.
type ClientOption func(*RealClient)

// WithHCloudClient swaps in a pre-built hcloud client, used by tests
// that point it at a stub server.
func WithHCloudClient(hc *hcloud.Client) ClientOption {
	return func(c *RealClient) {
		c.client = hc
	}
}

// NewRealClient creates a client authenticated with the given API token.
func NewRealClient(token string, opts ...ClientOption) *RealClient {
	c := &RealClient{
		client:     hcloud.NewClient(hcloud.WithToken(token), hcloud.WithApplication("vfxt", "")),
		maxRetries: 5,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetServer resolves a server by ID or name, nil when absent.
func (c *RealClient) GetServer(ctx context.Context, idOrName string) (*hcloud.Server, error) {
	server, _, err := c.client.Server.Get(ctx, idOrName)
	if err != nil {
		return nil, fmt.Errorf("failed to get server: %w", err)
	}
	return server, nil
}

// ListServers returns all servers matching the label selector.
func (c *RealClient) ListServers(ctx context.Context, labelSelector string) ([]*hcloud.Server, error) {
	servers, err := c.client.Server.AllWithOpts(ctx, hcloud.ServerListOpts{
		ListOpts: hcloud.ListOpts{LabelSelector: labelSelector},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list servers: %w", err)
	}
	return servers, nil
}

// CreateServer creates a server and waits for the creation to complete.
// Transient API errors are retried; invalid parameters abort immediately.
func (c *RealClient) CreateServer(ctx context.Context, opts hcloud.ServerCreateOpts) (*hcloud.Server, error) {
	var result hcloud.ServerCreateResult

	err := retry.WithExponentialBackoff(ctx, func() error {
		res, _, err := c.client.Server.Create(ctx, opts)
		if err != nil {
			if isInvalidParameter(err) {
				return retry.Fatal(err)
			}
			return err
		}
		result = res
		return nil
	}, retry.WithMaxRetries(c.maxRetries))
	if err != nil {
		return nil, fmt.Errorf("failed to create server: %w", err)
	}

	actions := append([]*hcloud.Action{result.Action}, result.NextActions...)
	if err := c.client.Action.WaitFor(ctx, actions...); err != nil {
		return result.Server, fmt.Errorf("failed to wait for server creation: %w", err)
	}
	return result.Server, nil
}

// DeleteServer deletes a server and waits for the deletion to finish.
// Locked servers are retried.
func (c *RealClient) DeleteServer(ctx context.Context, server *hcloud.Server) error {
	return retry.WithExponentialBackoff(ctx, func() error {
		result, _, err := c.client.Server.DeleteWithResult(ctx, server)
		if err != nil {
			if isResourceLocked(err) {
				return err
			}
			if IsNotFound(err) {
				return nil
			}
			return retry.Fatal(err)
		}
		return c.client.Action.WaitFor(ctx, result.Action)
	}, retry.WithMaxRetries(c.maxRetries))
}

// PowerOnServer powers on a server.
func (c *RealClient) PowerOnServer(ctx context.Context, server *hcloud.Server) error {
	action, _, err := c.client.Server.Poweron(ctx, server)
	if err != nil {
		return fmt.Errorf("failed to power on server: %w", err)
	}
	return c.client.Action.WaitFor(ctx, action)
}

// ShutdownServer sends an ACPI shutdown signal to a server.
func (c *RealClient) ShutdownServer(ctx context.Context, server *hcloud.Server) error {
	action, _, err := c.client.Server.Shutdown(ctx, server)
	if err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return c.client.Action.WaitFor(ctx, action)
}

// PowerOffServer cuts power to a server without signalling the guest.
func (c *RealClient) PowerOffServer(ctx context.Context, server *hcloud.Server) error {
	action, _, err := c.client.Server.Poweroff(ctx, server)
	if err != nil {
		return fmt.Errorf("failed to power off server: %w", err)
	}
	return c.client.Action.WaitFor(ctx, action)
}

// RebootServer reboots a server gracefully.
func (c *RealClient) RebootServer(ctx context.Context, server *hcloud.Server) error {
	action, _, err := c.client.Server.Reboot(ctx, server)
	if err != nil {
		return fmt.Errorf("failed to reboot server: %w", err)
	}
	return c.client.Action.WaitFor(ctx, action)
}

// AttachServerToNetwork attaches a server to a network with the given
// private address. Freshly created networks can briefly reject
// attachments, so locked and conflict errors are retried.
func (c *RealClient) AttachServerToNetwork(ctx context.Context, server *hcloud.Server, network *hcloud.Network, ip net.IP) error {
	opts := hcloud.ServerAttachToNetworkOpts{Network: network, IP: ip}

	err := retry.WithExponentialBackoff(ctx, func() error {
		action, _, err := c.client.Server.AttachToNetwork(ctx, server, opts)
		if err != nil {
			if isResourceLocked(err) {
				return err
			}
			return retry.Fatal(err)
		}
		return c.client.Action.WaitFor(ctx, action)
	}, retry.WithMaxRetries(c.maxRetries))
	if err != nil {
		return fmt.Errorf("failed to attach server to network: %w", err)
	}
	return nil
}

// UpdateServerLabels replaces a server's labels.
func (c *RealClient) UpdateServerLabels(ctx context.Context, server *hcloud.Server, labels map[string]string) (*hcloud.Server, error) {
	updated, _, err := c.client.Server.Update(ctx, server, hcloud.ServerUpdateOpts{Labels: labels})
	if err != nil {
		return nil, fmt.Errorf("failed to update server labels: %w", err)
	}
	return updated, nil
}

// GetNetwork resolves a network by name, nil when absent.
func (c *RealClient) GetNetwork(ctx context.Context, name string) (*hcloud.Network, error) {
	network, _, err := c.client.Network.Get(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to get network: %w", err)
	}
	return network, nil
}

// CreateNetwork creates a private network.
func (c *RealClient) CreateNetwork(ctx context.Context, opts hcloud.NetworkCreateOpts) (*hcloud.Network, error) {
	network, _, err := c.client.Network.Create(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create network: %w", err)
	}
	return network, nil
}

// AddSubnet adds a subnet to a network and waits for it to be usable.
func (c *RealClient) AddSubnet(ctx context.Context, network *hcloud.Network, subnet hcloud.NetworkSubnet) error {
	action, _, err := c.client.Network.AddSubnet(ctx, network, hcloud.NetworkAddSubnetOpts{Subnet: subnet})
	if err != nil {
		return fmt.Errorf("failed to add subnet: %w", err)
	}
	return c.client.Action.WaitFor(ctx, action)
}

// GetSSHKey resolves an uploaded SSH key by name, nil when absent.
func (c *RealClient) GetSSHKey(ctx context.Context, name string) (*hcloud.SSHKey, error) {
	key, _, err := c.client.SSHKey.Get(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to get ssh key: %w", err)
	}
	return key, nil
}

// CreateSSHKey uploads an SSH public key.
func (c *RealClient) CreateSSHKey(ctx context.Context, opts hcloud.SSHKeyCreateOpts) (*hcloud.SSHKey, error) {
	key, _, err := c.client.SSHKey.Create(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create ssh key: %w", err)
	}
	return key, nil
}

// CreateVolume creates a volume and waits for it to be attached.
func (c *RealClient) CreateVolume(ctx context.Context, opts hcloud.VolumeCreateOpts) (*hcloud.Volume, error) {
	result, _, err := c.client.Volume.Create(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create volume: %w", err)
	}
	actions := append([]*hcloud.Action{result.Action}, result.NextActions...)
	if err := c.client.Action.WaitFor(ctx, actions...); err != nil {
		return result.Volume, fmt.Errorf("failed to wait for volume creation: %w", err)
	}
	return result.Volume, nil
}

// ListVolumes returns all volumes matching the label selector.
func (c *RealClient) ListVolumes(ctx context.Context, labelSelector string) ([]*hcloud.Volume, error) {
	volumes, err := c.client.Volume.AllWithOpts(ctx, hcloud.VolumeListOpts{
		ListOpts: hcloud.ListOpts{LabelSelector: labelSelector},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list volumes: %w", err)
	}
	return volumes, nil
}

// DeleteVolume deletes a volume. Volumes still detaching are retried.
func (c *RealClient) DeleteVolume(ctx context.Context, volume *hcloud.Volume) error {
	return retry.WithExponentialBackoff(ctx, func() error {
		_, err := c.client.Volume.Delete(ctx, volume)
		if err != nil {
			if isResourceLocked(err) {
				return err
			}
			if IsNotFound(err) {
				return nil
			}
			return retry.Fatal(err)
		}
		return nil
	}, retry.WithMaxRetries(c.maxRetries))
}

// GetServerType resolves a server type by name.
func (c *RealClient) GetServerType(ctx context.Context, name string) (*hcloud.ServerType, error) {
	serverType, _, err := c.client.ServerType.Get(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to get server type: %w", err)
	}
	if serverType == nil {
		return nil, fmt.Errorf("server type not found: %s", name)
	}
	return serverType, nil
}

// GetImage resolves an image by name or ID for the given architecture.
func (c *RealClient) GetImage(ctx context.Context, idOrName string, arch hcloud.Architecture) (*hcloud.Image, error) {
	image, _, err := c.client.Image.GetForArchitecture(ctx, idOrName, arch)
	if err != nil {
		return nil, fmt.Errorf("failed to get image: %w", err)
	}
	if image == nil {
		return nil, fmt.Errorf("image not found: %s", idOrName)
	}
	return image, nil
}

// GetLocation resolves a location by name.
func (c *RealClient) GetLocation(ctx context.Context, name string) (*hcloud.Location, error) {
	location, _, err := c.client.Location.Get(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to get location: %w", err)
	}
	if location == nil {
		return nil, fmt.Errorf("location not found: %s", name)
	}
	return location, nil
}
