package hetzner

import (
	"context"
	"fmt"
	"net"
	"strconv"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"
	"golang.org/x/sync/errgroup"

	"github.com/SanatPandey22/AvereSDK/internal/platform"
	"github.com/SanatPandey22/AvereSDK/internal/util/netutil"
)

// createConcurrency bounds parallel server provisioning to stay under
// the provider's action rate limits.
const createConcurrency = 4

// PlanClusterNetwork computes the addressing for a new cluster: one
// management address, one primary per node, and the inter-node block,
// all drawn as a single contiguous run from the managed subnet unless
// pinned by the request.
func (b *Backend) PlanClusterNetwork(ctx context.Context, req platform.NetworkRequest) (platform.NetworkLayout, error) {
	network, err := b.ensureManagedNetwork(ctx)
	if err != nil {
		return platform.NetworkLayout{}, err
	}

	cidr := req.Subnet
	if cidr == "" {
		cidr = b.cfg.Subnet
	}
	prefix, err := prefixOf(cidr)
	if err != nil {
		return platform.NetworkLayout{}, err
	}
	netmask, err := netutil.PrefixToMask(prefix)
	if err != nil {
		return platform.NetworkLayout{}, err
	}
	gateway, err := subnetGateway(network, cidr)
	if err != nil {
		return platform.NetworkLayout{}, err
	}

	layout := platform.NetworkLayout{Netmask: netmask, Router: gateway}

	inUse, err := b.InUseAddresses(ctx)
	if err != nil {
		return platform.NetworkLayout{}, err
	}
	occupied := append(inUse, req.InUse...)
	occupied = append(occupied, gateway)

	need := req.NodeCount
	if req.ManagementAddress != "" {
		layout.MgmtIP = req.ManagementAddress
		occupied = append(occupied, req.ManagementAddress)
	} else {
		need++
	}

	rangeSize := req.NodeCount * req.AddressesPerNode
	pinnedRange := req.AddressRange.First != "" && req.AddressRange.Last != ""
	if pinnedRange {
		layout.ClusterRange = req.AddressRange
		if layout.ClusterRange.Netmask == "" {
			layout.ClusterRange.Netmask = netmask
		}
		pinned, err := req.AddressRange.Expand()
		if err != nil {
			return platform.NetworkLayout{}, fmt.Errorf("invalid address range: %v", err)
		}
		occupied = append(occupied, pinned...)
	} else {
		need += rangeSize
	}

	block, err := netutil.ContiguousBlock(cidr, need, occupied)
	if err != nil {
		return platform.NetworkLayout{}, err
	}

	idx := 0
	if layout.MgmtIP == "" {
		layout.MgmtIP = block[idx]
		idx++
	}
	layout.InstanceIPs = block[idx : idx+req.NodeCount]
	idx += req.NodeCount
	if !pinnedRange && rangeSize > 0 {
		layout.ClusterRange = netutil.Range{
			First:   block[idx],
			Last:    block[len(block)-1],
			Netmask: netmask,
		}
	}
	return layout, nil
}

// CreateNodes provisions one server per name: created powered off,
// attached to the managed network, data volumes attached, then powered
// on. On error the returned slice still names every server that was
// created before the failure so the caller can roll back.
func (b *Backend) CreateNodes(ctx context.Context, req platform.CreateNodesRequest) ([]platform.Instance, error) {
	if err := b.applyCloneDefaults(ctx, &req); err != nil {
		return nil, err
	}

	network, err := b.ensureManagedNetwork(ctx)
	if err != nil {
		return nil, err
	}
	serverType, err := b.api.GetServerType(ctx, req.Size)
	if err != nil {
		return nil, err
	}
	image, err := b.api.GetImage(ctx, req.RootImage, serverType.Architecture)
	if err != nil {
		return nil, err
	}
	location, err := b.api.GetLocation(ctx, b.cfg.Location)
	if err != nil {
		return nil, err
	}
	sshKeys, err := b.sshKeys(ctx, req)
	if err != nil {
		return nil, err
	}

	labels := map[string]string{labelCluster: req.ClusterName}
	for k, v := range req.Labels {
		labels[k] = v
	}

	servers := make([]*hcloud.Server, len(req.Names))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(createConcurrency)
	for i, name := range req.Names {
		g.Go(func() error {
			opts := hcloud.ServerCreateOpts{
				Name:             name,
				ServerType:       serverType,
				Image:            image,
				Location:         location,
				SSHKeys:          sshKeys,
				Labels:           labels,
				StartAfterCreate: hcloud.Ptr(false),
			}
			if i < len(req.UserData) {
				opts.UserData = req.UserData[i]
			}
			server, err := b.api.CreateServer(gctx, opts)
			if server != nil {
				servers[i] = server
			}
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", name, err)
			}

			if i < len(req.Addresses) && req.Addresses[i] != "" {
				ip := net.ParseIP(req.Addresses[i])
				if ip == nil {
					return fmt.Errorf("invalid private address %q for %s", req.Addresses[i], name)
				}
				if err := b.api.AttachServerToNetwork(gctx, server, network, ip); err != nil {
					return fmt.Errorf("failed to attach %s: %w", name, err)
				}
			}

			for d := 1; d <= req.DataDiskCount; d++ {
				_, err := b.api.CreateVolume(gctx, hcloud.VolumeCreateOpts{
					Name:   fmt.Sprintf("%s-data-%d", name, d),
					Size:   req.DataDiskSize,
					Server: server,
					Labels: map[string]string{
						labelCluster:  req.ClusterName,
						labelInstance: name,
					},
				})
				if err != nil {
					return fmt.Errorf("failed to create volume for %s: %w", name, err)
				}
			}

			if err := b.api.PowerOnServer(gctx, server); err != nil {
				return fmt.Errorf("failed to power on %s: %w", name, err)
			}
			return b.waitForStatus(gctx, strconv.FormatInt(server.ID, 10), hcloud.ServerStatusRunning)
		})
	}
	groupErr := g.Wait()

	// Refetch so instances carry the addresses assigned during attach.
	created := make([]platform.Instance, 0, len(servers))
	for _, server := range servers {
		if server == nil {
			continue
		}
		fresh, err := b.api.GetServer(ctx, strconv.FormatInt(server.ID, 10))
		if err == nil && fresh != nil {
			server = fresh
		}
		created = append(created, b.toInstance(server, network.ID))
	}
	return created, groupErr
}

// FindClusterInstances resolves the instances backing a named cluster,
// in stable name order.
func (b *Backend) FindClusterInstances(ctx context.Context, cluster string) ([]platform.Instance, error) {
	networkID, err := b.managedNetworkID(ctx)
	if err != nil {
		return nil, err
	}
	servers, err := b.api.ListServers(ctx, selector(labelCluster+"="+cluster))
	if err != nil {
		return nil, err
	}
	instances := make([]platform.Instance, 0, len(servers))
	for _, server := range servers {
		instances = append(instances, b.toInstance(server, networkID))
	}
	sortInstances(instances)
	return instances, nil
}

// InUseAddresses reports every address held on the managed network by
// any server, cluster member or not.
func (b *Backend) InUseAddresses(ctx context.Context) ([]string, error) {
	networkID, err := b.managedNetworkID(ctx)
	if err != nil {
		return nil, err
	}
	if networkID == 0 {
		return nil, nil
	}
	servers, err := b.api.ListServers(ctx, "")
	if err != nil {
		return nil, err
	}
	var addrs []string
	for _, server := range servers {
		for _, pn := range server.PrivateNet {
			if pn.Network == nil || pn.Network.ID != networkID {
				continue
			}
			addrs = append(addrs, pn.IP.String())
			for _, alias := range pn.Aliases {
				addrs = append(addrs, alias.String())
			}
		}
	}
	return addrs, nil
}

// GetAvailableAddresses returns a contiguous block of count free
// addresses from the managed subnet, or from cidr when given.
func (b *Backend) GetAvailableAddresses(ctx context.Context, count int, cidr string, inUse []string) ([]string, string, error) {
	if cidr == "" {
		cidr = b.cfg.Subnet
	}
	prefix, err := prefixOf(cidr)
	if err != nil {
		return nil, "", err
	}
	netmask, err := netutil.PrefixToMask(prefix)
	if err != nil {
		return nil, "", err
	}

	occupied, err := b.InUseAddresses(ctx)
	if err != nil {
		return nil, "", err
	}
	occupied = append(occupied, inUse...)
	network, err := b.managedNetwork(ctx)
	if err != nil {
		return nil, "", err
	}
	if gateway, err := subnetGateway(network, cidr); err == nil {
		occupied = append(occupied, gateway)
	}

	block, err := netutil.ContiguousBlock(cidr, count, occupied)
	if err != nil {
		return nil, "", err
	}
	return block, netmask, nil
}

// ensureManagedNetwork returns the configured private network, creating
// it and its subnet on first use.
func (b *Backend) ensureManagedNetwork(ctx context.Context) (*hcloud.Network, error) {
	network, err := b.managedNetwork(ctx)
	if err != nil {
		return nil, err
	}
	if network == nil {
		_, ipRange, err := net.ParseCIDR(b.cfg.NetworkRange)
		if err != nil {
			return nil, fmt.Errorf("invalid network range %q: %w", b.cfg.NetworkRange, err)
		}
		network, err = b.api.CreateNetwork(ctx, hcloud.NetworkCreateOpts{
			Name:    b.cfg.Network,
			IPRange: ipRange,
			Labels:  map[string]string{"managed-by": "vfxt"},
		})
		if err != nil {
			return nil, err
		}
	}

	if !hasSubnet(network, b.cfg.Subnet) {
		_, ipRange, err := net.ParseCIDR(b.cfg.Subnet)
		if err != nil {
			return nil, fmt.Errorf("invalid subnet %q: %w", b.cfg.Subnet, err)
		}
		subnet := hcloud.NetworkSubnet{
			Type:        hcloud.NetworkSubnetTypeCloud,
			IPRange:     ipRange,
			NetworkZone: hcloud.NetworkZone(b.cfg.NetworkZone),
		}
		if err := b.api.AddSubnet(ctx, network, subnet); err != nil {
			return nil, err
		}
		// Refetch so the cached network carries the subnet's gateway.
		network, err = b.api.GetNetwork(ctx, b.cfg.Network)
		if err != nil {
			return nil, err
		}
	}

	b.mu.Lock()
	b.network = network
	b.mu.Unlock()
	return network, nil
}

// sshKeys resolves the keys injected into new servers: the request's
// public key uploaded under a per-cluster name, or the configured
// pre-existing key, or none.
func (b *Backend) sshKeys(ctx context.Context, req platform.CreateNodesRequest) ([]*hcloud.SSHKey, error) {
	if req.SSHPublicKey != "" {
		name := "avere-" + req.ClusterName
		key, err := b.api.GetSSHKey(ctx, name)
		if err != nil {
			return nil, err
		}
		if key == nil {
			key, err = b.api.CreateSSHKey(ctx, hcloud.SSHKeyCreateOpts{
				Name:      name,
				PublicKey: req.SSHPublicKey,
				Labels:    map[string]string{labelCluster: req.ClusterName},
			})
			if err != nil {
				return nil, err
			}
		}
		return []*hcloud.SSHKey{key}, nil
	}
	if b.cfg.SSHKeyName != "" {
		key, err := b.api.GetSSHKey(ctx, b.cfg.SSHKeyName)
		if err != nil {
			return nil, err
		}
		if key == nil {
			return nil, fmt.Errorf("ssh key not found: %s", b.cfg.SSHKeyName)
		}
		return []*hcloud.SSHKey{key}, nil
	}
	return nil, nil
}

// applyCloneDefaults fills size, image and disk shape from an existing
// instance when the request names one. Growing a cluster clones the
// first node so additions match servers whose creation parameters are
// long gone.
func (b *Backend) applyCloneDefaults(ctx context.Context, req *platform.CreateNodesRequest) error {
	if req.CloneFrom == "" {
		return nil
	}
	source, err := b.api.GetServer(ctx, req.CloneFrom)
	if err != nil {
		return err
	}
	if source == nil {
		return fmt.Errorf("clone source not found: %s", req.CloneFrom)
	}
	if req.Size == "" && source.ServerType != nil {
		req.Size = source.ServerType.Name
	}
	if req.RootImage == "" {
		if source.Image == nil {
			return fmt.Errorf("clone source %s has no image reference", source.Name)
		}
		req.RootImage = strconv.FormatInt(source.Image.ID, 10)
	}
	if req.DataDiskCount == 0 || req.DataDiskSize == 0 {
		volumes, err := b.api.ListVolumes(ctx, selector(labelInstance+"="+source.Name))
		if err != nil {
			return err
		}
		if req.DataDiskCount == 0 {
			req.DataDiskCount = len(volumes)
		}
		if req.DataDiskSize == 0 && len(volumes) > 0 {
			req.DataDiskSize = volumes[0].Size
		}
	}
	return nil
}

// hasSubnet reports whether the network already carries the subnet.
func hasSubnet(network *hcloud.Network, cidr string) bool {
	for _, subnet := range network.Subnets {
		if subnet.IPRange != nil && subnet.IPRange.String() == cidr {
			return true
		}
	}
	return false
}

// subnetGateway resolves the router address for the subnet: the
// provider-reported gateway when known, the subnet's first host
// otherwise. Hetzner reserves the first host of each subnet for the
// router.
func subnetGateway(network *hcloud.Network, cidr string) (string, error) {
	if network != nil {
		for _, subnet := range network.Subnets {
			if subnet.IPRange != nil && subnet.IPRange.String() == cidr && subnet.Gateway != nil {
				return subnet.Gateway.String(), nil
			}
		}
	}
	ip, _, err := net.ParseCIDR(cidr)
	if err != nil {
		return "", fmt.Errorf("invalid CIDR %q: %w", cidr, err)
	}
	return netutil.Offset(ip.String(), 1)
}

// prefixOf extracts the prefix length of a CIDR.
func prefixOf(cidr string) (int, error) {
	_, subnet, err := net.ParseCIDR(cidr)
	if err != nil {
		return 0, fmt.Errorf("invalid CIDR %q: %w", cidr, err)
	}
	ones, _ := subnet.Mask.Size()
	return ones, nil
}
