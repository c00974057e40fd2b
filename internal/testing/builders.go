package testing

import (
	"maps"

	"github.com/SanatPandey22/AvereSDK/internal/config"
)

// ConfigBuilder provides a fluent interface for constructing test configs.
// Each method returns a new builder (immutable) for chaining.
type ConfigBuilder struct {
	cfg config.Config
}

// NewConfigBuilder creates a ConfigBuilder holding a minimal valid
// cluster with defaults applied.
func NewConfigBuilder() *ConfigBuilder {
	var cfg config.Config
	cfg.Cluster.Name = "test-cluster"
	cfg.Cluster.AdminPassword = "test-password"
	cfg.Hetzner.Token = "test-token"
	cfg.SetDefaults()
	return &ConfigBuilder{cfg: cfg}
}

// WithClusterName sets the cluster name.
func (b *ConfigBuilder) WithClusterName(name string) *ConfigBuilder {
	newBuilder := b.clone()
	newBuilder.cfg.Cluster.Name = name
	return newBuilder
}

// WithNodeCount sets the node count.
func (b *ConfigBuilder) WithNodeCount(count int) *ConfigBuilder {
	newBuilder := b.clone()
	newBuilder.cfg.Cluster.NodeCount = count
	return newBuilder
}

// WithNodeSize sets the instance size.
func (b *ConfigBuilder) WithNodeSize(size string) *ConfigBuilder {
	newBuilder := b.clone()
	newBuilder.cfg.Cluster.NodeSize = size
	return newBuilder
}

// WithManagementAddress pins the management address.
func (b *ConfigBuilder) WithManagementAddress(addr string) *ConfigBuilder {
	newBuilder := b.clone()
	newBuilder.cfg.Cluster.ManagementAddress = addr
	return newBuilder
}

// WithAddressRange pins the cluster address range.
func (b *ConfigBuilder) WithAddressRange(first, last, netmask string) *ConfigBuilder {
	newBuilder := b.clone()
	newBuilder.cfg.Cluster.AddressRange = config.RangeConfig{First: first, Last: last, Netmask: netmask}
	return newBuilder
}

// WithLocation sets the datacenter location.
func (b *ConfigBuilder) WithLocation(location string) *ConfigBuilder {
	newBuilder := b.clone()
	newBuilder.cfg.Hetzner.Location = location
	return newBuilder
}

// WithObjectStorage enables object storage with the given endpoint and
// credentials.
func (b *ConfigBuilder) WithObjectStorage(endpoint, accessKey, secretKey string) *ConfigBuilder {
	newBuilder := b.clone()
	newBuilder.cfg.Hetzner.ObjectStorage.Endpoint = endpoint
	newBuilder.cfg.Hetzner.ObjectStorage.AccessKey = accessKey
	newBuilder.cfg.Hetzner.ObjectStorage.SecretKey = secretKey
	return newBuilder
}

// WithLabels sets the instance labels.
func (b *ConfigBuilder) WithLabels(labels map[string]string) *ConfigBuilder {
	newBuilder := b.clone()
	newBuilder.cfg.Cluster.Labels = cloneStringMap(labels)
	return newBuilder
}

// WithMetricsListen enables the metrics endpoint.
func (b *ConfigBuilder) WithMetricsListen(addr string) *ConfigBuilder {
	newBuilder := b.clone()
	newBuilder.cfg.Metrics.Listen = addr
	return newBuilder
}

// Build returns the constructed config.
func (b *ConfigBuilder) Build() *config.Config {
	cfg := b.clone().cfg
	return &cfg
}

// clone creates a deep copy of the builder for immutability.
func (b *ConfigBuilder) clone() *ConfigBuilder {
	newCfg := b.cfg
	newCfg.Cluster.Labels = cloneStringMap(b.cfg.Cluster.Labels)
	newCfg.Hetzner.DNSServers = cloneStringSlice(b.cfg.Hetzner.DNSServers)
	newCfg.Hetzner.NTPServers = cloneStringSlice(b.cfg.Hetzner.NTPServers)
	return &ConfigBuilder{cfg: newCfg}
}

// cloneStringMap creates a deep copy of a string map.
func cloneStringMap(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	cloned := make(map[string]string, len(m))
	maps.Copy(cloned, m)
	return cloned
}

// cloneStringSlice creates a copy of a string slice.
func cloneStringSlice(s []string) []string {
	if s == nil {
		return nil
	}
	cloned := make([]string, len(s))
	copy(cloned, s)
	return cloned
}

// MinimalConfig returns a minimal valid config for simple tests.
func MinimalConfig() *config.Config {
	return NewConfigBuilder().Build()
}

// FullConfig returns a complete config exercising every optional field.
func FullConfig() *config.Config {
	return NewConfigBuilder().
		WithNodeCount(6).
		WithManagementAddress("10.0.0.40").
		WithAddressRange("10.0.0.50", "10.0.0.61", "255.255.255.0").
		WithObjectStorage("https://fsn1.your-objectstorage.com", "test-access-key", "test-secret-key").
		WithLabels(map[string]string{"env": "test"}).
		WithMetricsListen("127.0.0.1:9090").
		Build()
}
