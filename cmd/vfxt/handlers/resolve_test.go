package handlers

import (
	"context"
	"errors"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/SanatPandey22/AvereSDK/internal/cluster"
	"github.com/SanatPandey22/AvereSDK/internal/mgmt/mgmttest"
	"github.com/SanatPandey22/AvereSDK/internal/platform"
	"github.com/SanatPandey22/AvereSDK/internal/platform/platformtest"
	testutil "github.com/SanatPandey22/AvereSDK/internal/testing"
)

func TestResolveClusterFromFile(t *testing.T) {
	cfg := testutil.NewConfigBuilder().Build()
	backend := platformtest.New().
		WithInstance(nodeInstance("demo", "demo-1", "10.0.0.50", platform.StatusStopped)).
		WithInstance(nodeInstance("demo", "demo-2", "10.0.0.51", platform.StatusStopped))
	dialer := mgmttest.New().Dialer()
	stubStack(t, cfg, backend, dialer)

	readFile = func(path string) ([]byte, error) {
		assert.Equal(t, "demo-cluster.yaml", path)
		return []byte("name: demo\nmgmt_ip: 10.0.0.5\nnodes:\n  - demo-1\n  - demo-2\n"), nil
	}
	var got cluster.Export
	offlineImport(t, &got)

	opts := Options{ClusterFile: "demo-cluster.yaml"}
	c, err := resolveCluster(context.Background(), opts, cfg, backend, dialer, cluster.NoopObserver{})
	require.NoError(t, err)

	assert.Equal(t, "demo", got.Name)
	assert.Equal(t, "10.0.0.5", got.MgmtIP)
	assert.Equal(t, []string{"demo-1", "demo-2"}, got.Nodes)
	// The file omitted the password, so the configured one applies.
	assert.Equal(t, "test-password", got.AdminPassword)

	assert.Equal(t, "demo", c.Name)
	require.Len(t, c.Nodes, 2)
	assert.Equal(t, cluster.StateStopped, c.State())
}

func TestResolveClusterByLabel(t *testing.T) {
	insts := []platform.Instance{
		nodeInstance("test-cluster", "test-cluster-1", "10.0.0.2", platform.StatusRunning),
		nodeInstance("test-cluster", "test-cluster-2", "10.0.0.3", platform.StatusRunning),
	}
	backend := testutil.NewMockBackend().WithInstances(insts...)
	cfg := testutil.NewConfigBuilder().WithManagementAddress("10.0.0.5").Build()
	dialer := mgmttest.New().Dialer()
	stubStack(t, cfg, backend, dialer)

	var got cluster.Export
	offlineImport(t, &got)

	c, err := resolveCluster(context.Background(), Options{}, cfg, backend, dialer, cluster.NoopObserver{})
	require.NoError(t, err)

	assert.Equal(t, "test-cluster", got.Name)
	assert.Equal(t, "10.0.0.5", got.MgmtIP)
	assert.Equal(t, "test-password", got.AdminPassword)
	assert.Equal(t, []string{"test-cluster-1", "test-cluster-2"}, got.Nodes)
	assert.Len(t, c.Nodes, 2)

	backend.AssertCalled(t, "FindClusterInstances", mock.Anything, "test-cluster")
}

func TestResolveClusterNoName(t *testing.T) {
	cfg := testutil.NewConfigBuilder().WithClusterName("").Build()
	backend := platformtest.New()
	dialer := mgmttest.New().Dialer()
	stubStack(t, cfg, backend, dialer)

	_, err := resolveCluster(context.Background(), Options{}, cfg, backend, dialer, cluster.NoopObserver{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no cluster name configured")
}

func TestResolveClusterNoInstances(t *testing.T) {
	cfg := testutil.NewConfigBuilder().Build()
	backend := platformtest.New()
	dialer := mgmttest.New().Dialer()
	stubStack(t, cfg, backend, dialer)

	_, err := resolveCluster(context.Background(), Options{}, cfg, backend, dialer, cluster.NoopObserver{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no instances found for cluster test-cluster")
}

func TestReadClusterFileErrors(t *testing.T) {
	saveFactories(t)

	readFile = func(string) ([]byte, error) { return nil, fs.ErrNotExist }
	_, err := readClusterFile("gone.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read cluster file")

	readFile = func(string) ([]byte, error) { return []byte("[unterminated"), nil }
	_, err = readClusterFile("bad.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse cluster file bad.yaml")
}

func TestWriteClusterFileOwnerOnly(t *testing.T) {
	saveFactories(t)

	var gotPath string
	var gotData []byte
	var gotPerm fs.FileMode
	writeFile = func(path string, data []byte, perm fs.FileMode) error {
		gotPath, gotData, gotPerm = path, data, perm
		return nil
	}

	export := cluster.Export{Name: "demo", MgmtIP: "10.0.0.5", AdminPassword: "pw", Nodes: []string{"demo-1"}}
	require.NoError(t, writeClusterFile(export, "demo-cluster.yaml"))

	assert.Equal(t, "demo-cluster.yaml", gotPath)
	assert.Equal(t, fs.FileMode(0600), gotPerm)

	var parsed cluster.Export
	require.NoError(t, yaml.Unmarshal(gotData, &parsed))
	assert.Equal(t, export, parsed)
}

func TestWriteClusterFileWriteError(t *testing.T) {
	saveFactories(t)
	writeFile = func(string, []byte, fs.FileMode) error { return errors.New("disk full") }

	err := writeClusterFile(cluster.Export{Name: "demo"}, "demo-cluster.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "write cluster file")
}

func TestClusterFilePath(t *testing.T) {
	assert.Equal(t, "pinned.yaml", clusterFilePath(Options{ClusterFile: "pinned.yaml"}, "demo"))
	assert.Equal(t, "demo-cluster.yaml", clusterFilePath(Options{}, "demo"))
}
