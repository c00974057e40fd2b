package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearSecretEnv neutralizes ambient secrets so file values are what
// the assertions see.
func clearSecretEnv(t *testing.T) {
	t.Helper()
	t.Setenv(EnvToken, "")
	t.Setenv(EnvAdminPassword, "")
	t.Setenv(EnvS3AccessKey, "")
	t.Setenv(EnvS3SecretKey, "")
}

const sampleYAML = `
cluster:
  name: demo
  admin_password: hunter2
  node_count: 4
  node_size: ccx43
  root_image: avere-os
  management_address: 10.0.0.5
  address_range:
    first: 10.0.0.50
    last: 10.0.0.59
    netmask: 255.255.255.0
  data_disk_count: 2
  data_disk_size: 500
  labels:
    env: staging
hetzner:
  token: secret-token
  location: nbg1
  subnet: 10.0.1.0/24
  object_storage:
    endpoint: https://fsn1.your-objectstorage.com
    access_key: ak
    secret_key: sk
`

func TestParse(t *testing.T) {
	clearSecretEnv(t)

	cfg, err := Parse([]byte(sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, "demo", cfg.Cluster.Name)
	assert.Equal(t, "hunter2", cfg.Cluster.AdminPassword)
	assert.Equal(t, 4, cfg.Cluster.NodeCount)
	assert.Equal(t, "ccx43", cfg.Cluster.NodeSize)
	assert.Equal(t, "10.0.0.5", cfg.Cluster.ManagementAddress)
	assert.Equal(t, "10.0.0.50", cfg.Cluster.AddressRange.First)
	assert.Equal(t, "10.0.0.59", cfg.Cluster.AddressRange.Last)
	assert.Equal(t, 2, cfg.Cluster.DataDiskCount)
	assert.Equal(t, 500, cfg.Cluster.DataDiskSize)
	assert.Equal(t, map[string]string{"env": "staging"}, cfg.Cluster.Labels)
	assert.Equal(t, "secret-token", cfg.Hetzner.Token)
	assert.Equal(t, "nbg1", cfg.Hetzner.Location)
	assert.Equal(t, "10.0.1.0/24", cfg.Hetzner.Subnet)
	assert.Equal(t, "ak", cfg.Hetzner.ObjectStorage.AccessKey)

	// Defaults fill what the file leaves out.
	assert.Equal(t, "avere", cfg.Hetzner.Network)
	assert.Equal(t, "yellow", cfg.Cluster.WaitForState)
	assert.Equal(t, "hetzner-objectstorage", cfg.Hetzner.ObjectStorage.Credential)
}

func TestParseEnvWins(t *testing.T) {
	clearSecretEnv(t)
	t.Setenv(EnvToken, "env-token")

	cfg, err := Parse([]byte(sampleYAML))
	require.NoError(t, err)
	assert.Equal(t, "env-token", cfg.Hetzner.Token)
}

func TestParseInvalidYAML(t *testing.T) {
	_, err := Parse([]byte("cluster: [unclosed"))
	assert.ErrorContains(t, err, "failed to unmarshal yaml")
}

func TestLoad(t *testing.T) {
	clearSecretEnv(t)
	path := filepath.Join(t.TempDir(), "vfxt.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleYAML), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "demo", cfg.Cluster.Name)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.ErrorContains(t, err, "failed to read config file")
}

func TestLoadValidationFailure(t *testing.T) {
	clearSecretEnv(t)
	path := filepath.Join(t.TempDir(), "vfxt.yaml")
	require.NoError(t, os.WriteFile(path, []byte("cluster:\n  name: demo\n"), 0600))

	_, err := Load(path)
	assert.ErrorContains(t, err, "configuration validation failed")
}

func TestSaveRoundTrip(t *testing.T) {
	clearSecretEnv(t)
	path := filepath.Join(t.TempDir(), "vfxt.yaml")

	cfg := &Config{}
	cfg.Cluster.Name = "demo"
	cfg.Cluster.AdminPassword = "hunter2"
	cfg.Hetzner.Token = "tok"
	cfg.SetDefaults()
	require.NoError(t, Save(cfg, path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.Cluster.Name, loaded.Cluster.Name)
	assert.Equal(t, cfg.Hetzner.Token, loaded.Hetzner.Token)
	assert.Equal(t, cfg.Cluster.NodeCount, loaded.Cluster.NodeCount)
}

func TestFindFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultFilename), []byte("cluster: {}\n"), 0600))
	sub := filepath.Join(dir, "a", "b")
	require.NoError(t, os.MkdirAll(sub, 0755))
	t.Chdir(sub)

	path, err := FindFile()
	require.NoError(t, err)
	want, _ := filepath.EvalSymlinks(filepath.Join(dir, DefaultFilename))
	got, _ := filepath.EvalSymlinks(path)
	assert.Equal(t, want, got)
}

func TestFindFileMissing(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := FindFile()
	assert.ErrorContains(t, err, "not found")
}
