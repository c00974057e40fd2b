package hetzner

import (
	"context"
	"fmt"
	"time"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"
	"github.com/samber/lo"

	"github.com/SanatPandey22/AvereSDK/internal/platform"
	"github.com/SanatPandey22/AvereSDK/internal/util/retry"
)

// GetInstance resolves an instance by provider ID.
func (b *Backend) GetInstance(ctx context.Context, id string) (platform.Instance, error) {
	server, err := b.api.GetServer(ctx, id)
	if err != nil {
		return platform.Instance{}, err
	}
	if server == nil {
		return platform.Instance{}, fmt.Errorf("instance not found: %s", id)
	}
	networkID, err := b.managedNetworkID(ctx)
	if err != nil {
		return platform.Instance{}, err
	}
	return b.toInstance(server, networkID), nil
}

// StartInstance powers on an instance and waits for it to run.
func (b *Backend) StartInstance(ctx context.Context, id string) error {
	server, err := b.api.GetServer(ctx, id)
	if err != nil {
		return err
	}
	if server == nil {
		return fmt.Errorf("instance not found: %s", id)
	}
	if server.Status == hcloud.ServerStatusRunning {
		return nil
	}
	if err := b.api.PowerOnServer(ctx, server); err != nil {
		return err
	}
	return b.waitForStatus(ctx, id, hcloud.ServerStatusRunning)
}

// StopInstance shuts an instance down gracefully, cutting power if the
// guest does not power down within the wait budget.
func (b *Backend) StopInstance(ctx context.Context, id string) error {
	server, err := b.api.GetServer(ctx, id)
	if err != nil {
		return err
	}
	if server == nil {
		return fmt.Errorf("instance not found: %s", id)
	}
	if server.Status == hcloud.ServerStatusOff {
		return nil
	}
	if err := b.api.ShutdownServer(ctx, server); err != nil {
		return err
	}
	if err := b.waitForStatus(ctx, id, hcloud.ServerStatusOff); err != nil {
		if err := b.api.PowerOffServer(ctx, server); err != nil {
			return err
		}
		return b.waitForStatus(ctx, id, hcloud.ServerStatusOff)
	}
	return nil
}

// RestartInstance reboots an instance and waits for it to run again.
func (b *Backend) RestartInstance(ctx context.Context, id string) error {
	server, err := b.api.GetServer(ctx, id)
	if err != nil {
		return err
	}
	if server == nil {
		return fmt.Errorf("instance not found: %s", id)
	}
	if err := b.api.RebootServer(ctx, server); err != nil {
		return err
	}
	return b.waitForStatus(ctx, id, hcloud.ServerStatusRunning)
}

// ShelveInstance powers an instance down and marks it shelved. Hetzner
// keeps local disks across poweroff, so shelving is a labelled stop.
func (b *Backend) ShelveInstance(ctx context.Context, id string) error {
	server, err := b.api.GetServer(ctx, id)
	if err != nil {
		return err
	}
	if server == nil {
		return fmt.Errorf("instance not found: %s", id)
	}
	if server.Status != hcloud.ServerStatusOff {
		if err := b.api.ShutdownServer(ctx, server); err != nil {
			return err
		}
		if err := b.waitForStatus(ctx, id, hcloud.ServerStatusOff); err != nil {
			return err
		}
	}
	labels := lo.Assign(server.Labels, map[string]string{labelShelved: "true"})
	_, err = b.api.UpdateServerLabels(ctx, server, labels)
	return err
}

// UnshelveInstance clears the shelved marker and powers the instance on.
func (b *Backend) UnshelveInstance(ctx context.Context, id string) error {
	server, err := b.api.GetServer(ctx, id)
	if err != nil {
		return err
	}
	if server == nil {
		return fmt.Errorf("instance not found: %s", id)
	}
	labels := lo.OmitByKeys(server.Labels, []string{labelShelved})
	server, err = b.api.UpdateServerLabels(ctx, server, labels)
	if err != nil {
		return err
	}
	if err := b.api.PowerOnServer(ctx, server); err != nil {
		return err
	}
	return b.waitForStatus(ctx, id, hcloud.ServerStatusRunning)
}

// DestroyInstance deletes an instance. Destroying an absent instance is
// not an error.
func (b *Backend) DestroyInstance(ctx context.Context, id string) error {
	server, err := b.api.GetServer(ctx, id)
	if err != nil {
		return err
	}
	if server == nil {
		return nil
	}
	return b.api.DeleteServer(ctx, server)
}

// PostDestroy deletes the data volumes that survive server deletion.
func (b *Backend) PostDestroy(ctx context.Context, inst platform.Instance) error {
	volumes, err := b.api.ListVolumes(ctx, selector(labelInstance+"="+inst.Name))
	if err != nil {
		return err
	}
	for _, volume := range volumes {
		if err := b.api.DeleteVolume(ctx, volume); err != nil {
			return fmt.Errorf("failed to delete volume %s: %w", volume.Name, err)
		}
	}
	return nil
}

// CanStop reports true: local disks persist across poweroff.
func (b *Backend) CanStop(platform.Instance) bool { return true }

// CanShelve reports true: shelving is a labelled stop on this provider.
func (b *Backend) CanShelve(platform.Instance) bool { return true }

// Environment reports the network environment nodes boot into.
func (b *Backend) Environment(context.Context) (platform.Environment, error) {
	env := platform.Environment{
		DNSServers: b.cfg.DNSServers,
		NTPServers: b.cfg.NTPServers,
		Domain:     b.cfg.Domain,
	}
	if len(env.DNSServers) == 0 {
		env.DNSServers = defaultDNSServers
	}
	if len(env.NTPServers) == 0 {
		env.NTPServers = defaultNTPServers
	}
	return env, nil
}

// waitForStatus polls until the server reports the wanted status.
func (b *Backend) waitForStatus(ctx context.Context, id string, want hcloud.ServerStatus) error {
	return retry.Do(ctx, func() error {
		server, err := b.api.GetServer(ctx, id)
		if err != nil {
			return err
		}
		if server == nil {
			return retry.Fatal(fmt.Errorf("instance not found: %s", id))
		}
		if server.Status != want {
			return fmt.Errorf("instance %s is %s, want %s", id, server.Status, want)
		}
		return nil
	}, retry.WithAttempts(b.pollAttempts), retry.WithInterval(b.pollInterval))
}

// Poll defaults for instance status settling.
const (
	defaultPollAttempts = 120
	defaultPollInterval = 2 * time.Second
)
