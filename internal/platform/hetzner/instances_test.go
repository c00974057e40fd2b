package hetzner

import (
	"context"
	"net"
	"strconv"
	"testing"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SanatPandey22/AvereSDK/internal/platform"
)

func TestGetInstanceAddresses(t *testing.T) {
	f := newFakeAPI()
	f.seedNetwork("avere", "10.0.0.0/16", "10.0.0.0/24")
	server := f.seedServer("demo-1", hcloud.ServerStatusRunning, map[string]string{labelCluster: "demo"}, "10.0.0.5")
	f.mu.Lock()
	server.PrivateNet[0].Aliases = []net.IP{net.ParseIP("10.0.0.6")}
	f.mu.Unlock()
	b := testBackend(t, f)

	inst, err := b.GetInstance(context.Background(), strconv.FormatInt(server.ID, 10))
	require.NoError(t, err)

	assert.Equal(t, "demo-1", inst.Name)
	assert.Equal(t, "10.0.0.5", inst.Address)
	assert.Equal(t, []string{"10.0.0.5", "10.0.0.6"}, inst.PrivateIPs)
	assert.Equal(t, platform.StatusRunning, inst.Status)
}

func TestGetInstancePublicFallback(t *testing.T) {
	f := newFakeAPI()
	server := f.seedServer("lone", hcloud.ServerStatusRunning, nil)
	b := testBackend(t, f)

	inst, err := b.GetInstance(context.Background(), strconv.FormatInt(server.ID, 10))
	require.NoError(t, err)

	assert.Equal(t, "192.0.2.1", inst.Address)
	assert.Empty(t, inst.PrivateIPs)
}

func TestGetInstanceNotFound(t *testing.T) {
	b := testBackend(t, newFakeAPI())

	_, err := b.GetInstance(context.Background(), "999")
	assert.ErrorContains(t, err, "instance not found: 999")
}

func TestStartInstance(t *testing.T) {
	f := newFakeAPI()
	server := f.seedServer("demo-1", hcloud.ServerStatusOff, nil)
	b := testBackend(t, f)
	id := strconv.FormatInt(server.ID, 10)

	require.NoError(t, b.StartInstance(context.Background(), id))

	assert.True(t, f.recorded("poweron demo-1"))
	inst, err := b.GetInstance(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, platform.StatusRunning, inst.Status)
}

func TestStartInstanceAlreadyRunning(t *testing.T) {
	f := newFakeAPI()
	server := f.seedServer("demo-1", hcloud.ServerStatusRunning, nil)
	b := testBackend(t, f)

	require.NoError(t, b.StartInstance(context.Background(), strconv.FormatInt(server.ID, 10)))

	assert.False(t, f.recorded("poweron demo-1"))
}

func TestStopInstanceGraceful(t *testing.T) {
	f := newFakeAPI()
	server := f.seedServer("demo-1", hcloud.ServerStatusRunning, nil)
	b := testBackend(t, f)
	id := strconv.FormatInt(server.ID, 10)

	require.NoError(t, b.StopInstance(context.Background(), id))

	assert.True(t, f.recorded("shutdown demo-1"))
	assert.False(t, f.recorded("poweroff demo-1"))
	inst, err := b.GetInstance(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, platform.StatusStopped, inst.Status)
}

func TestStopInstanceForcesPowerOff(t *testing.T) {
	f := newFakeAPI()
	f.ignoreShutdown = true
	server := f.seedServer("demo-1", hcloud.ServerStatusRunning, nil)
	b := testBackend(t, f)
	id := strconv.FormatInt(server.ID, 10)

	require.NoError(t, b.StopInstance(context.Background(), id))

	assert.True(t, f.recorded("shutdown demo-1"))
	assert.True(t, f.recorded("poweroff demo-1"))
}

func TestRestartInstance(t *testing.T) {
	f := newFakeAPI()
	server := f.seedServer("demo-1", hcloud.ServerStatusRunning, nil)
	b := testBackend(t, f)

	require.NoError(t, b.RestartInstance(context.Background(), strconv.FormatInt(server.ID, 10)))

	assert.True(t, f.recorded("reboot demo-1"))
}

func TestShelveInstance(t *testing.T) {
	f := newFakeAPI()
	server := f.seedServer("demo-1", hcloud.ServerStatusRunning, map[string]string{labelCluster: "demo"})
	b := testBackend(t, f)
	id := strconv.FormatInt(server.ID, 10)

	require.NoError(t, b.ShelveInstance(context.Background(), id))

	inst, err := b.GetInstance(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, platform.StatusShelved, inst.Status)
	assert.Equal(t, "demo", inst.Labels[labelCluster])
}

func TestUnshelveInstance(t *testing.T) {
	f := newFakeAPI()
	server := f.seedServer("demo-1", hcloud.ServerStatusOff, map[string]string{labelShelved: "true"})
	b := testBackend(t, f)
	id := strconv.FormatInt(server.ID, 10)

	require.NoError(t, b.UnshelveInstance(context.Background(), id))

	inst, err := b.GetInstance(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, platform.StatusRunning, inst.Status)
	assert.NotContains(t, inst.Labels, labelShelved)
}

func TestDestroyInstance(t *testing.T) {
	f := newFakeAPI()
	server := f.seedServer("demo-1", hcloud.ServerStatusRunning, nil)
	b := testBackend(t, f)

	require.NoError(t, b.DestroyInstance(context.Background(), strconv.FormatInt(server.ID, 10)))

	assert.True(t, f.recorded("delete demo-1"))
	assert.Empty(t, f.servers)
}

func TestDestroyInstanceAbsent(t *testing.T) {
	b := testBackend(t, newFakeAPI())

	assert.NoError(t, b.DestroyInstance(context.Background(), "999"))
}

func TestPostDestroyDeletesVolumes(t *testing.T) {
	f := newFakeAPI()
	f.seedVolume("demo-1", "demo", 200)
	f.seedVolume("demo-1", "demo", 200)
	survivor := f.seedVolume("demo-2", "demo", 200)
	b := testBackend(t, f)

	err := b.PostDestroy(context.Background(), platform.Instance{Name: "demo-1"})
	require.NoError(t, err)

	assert.Len(t, f.volumes, 1)
	assert.Contains(t, f.volumes, survivor.ID)
}

func TestCanStopAndShelve(t *testing.T) {
	b := testBackend(t, newFakeAPI())

	assert.True(t, b.CanStop(platform.Instance{}))
	assert.True(t, b.CanShelve(platform.Instance{}))
}

func TestEnvironmentDefaults(t *testing.T) {
	b := testBackend(t, newFakeAPI())

	env, err := b.Environment(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"185.12.64.1", "185.12.64.2"}, env.DNSServers)
	assert.Equal(t, []string{"ntp1.hetzner.de", "ntp2.hetzner.com", "ntp3.hetzner.net"}, env.NTPServers)
	assert.Empty(t, env.Domain)
}

func TestEnvironmentOverrides(t *testing.T) {
	f := newFakeAPI()
	b, err := New(Config{
		DNSServers: []string{"10.1.1.1"},
		NTPServers: []string{"time.example.com"},
		Domain:     "corp.example.com",
	}, WithAPI(f), WithStatusPoll(3, 0))
	require.NoError(t, err)

	env, err := b.Environment(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"10.1.1.1"}, env.DNSServers)
	assert.Equal(t, []string{"time.example.com"}, env.NTPServers)
	assert.Equal(t, "corp.example.com", env.Domain)
}
