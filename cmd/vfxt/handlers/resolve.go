package handlers

import (
	"context"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/SanatPandey22/AvereSDK/internal/cluster"
	"github.com/SanatPandey22/AvereSDK/internal/config"
	"github.com/SanatPandey22/AvereSDK/internal/mgmt"
	"github.com/SanatPandey22/AvereSDK/internal/platform"
)

// resolveCluster produces a handle on an existing cluster. A cluster
// file pins the exact membership; without one the instances are found
// by the cluster label on the backend. Either way the handle is
// refreshed over the management channel when the cluster is running.
func resolveCluster(ctx context.Context, opts Options, cfg *config.Config, backend platform.Backend, dialer mgmt.Dialer, obs cluster.Observer) (*cluster.Cluster, error) {
	if opts.ClusterFile != "" {
		export, err := readClusterFile(opts.ClusterFile)
		if err != nil {
			return nil, err
		}
		if export.AdminPassword == "" {
			export.AdminPassword = cfg.Cluster.AdminPassword
		}
		return importCluster(ctx, backend, dialer, export, obs)
	}

	if cfg.Cluster.Name == "" {
		return nil, fmt.Errorf("no cluster name configured and no --cluster-file given")
	}
	instances, err := backend.FindClusterInstances(ctx, cfg.Cluster.Name)
	if err != nil {
		return nil, fmt.Errorf("find instances for cluster %s: %w", cfg.Cluster.Name, err)
	}
	if len(instances) == 0 {
		return nil, fmt.Errorf("no instances found for cluster %s", cfg.Cluster.Name)
	}
	ids := make([]string, len(instances))
	for i, inst := range instances {
		ids[i] = inst.ID
	}
	return importCluster(ctx, backend, dialer, cluster.Export{
		Name:          cfg.Cluster.Name,
		MgmtIP:        cfg.Cluster.ManagementAddress,
		AdminPassword: cfg.Cluster.AdminPassword,
		Nodes:         ids,
	}, obs)
}

// withCluster is the common single-operation shape: build the stack,
// resolve the cluster, run fn against it under the console observer,
// and record the outcome metric. The resolved handle is returned for
// rendering even when fn fails.
func withCluster(ctx context.Context, opts Options, operation string, fn func(context.Context, *cluster.Cluster) error) (*cluster.Cluster, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}
	backend, err := newBackend(cfg)
	if err != nil {
		return nil, err
	}
	dialer := newDialer(cfg)
	startMetrics(ctx, cfg, opts)

	var c *cluster.Cluster
	err = observeOperation(opts, operation, func(obs cluster.Observer) error {
		var err error
		c, err = resolveCluster(ctx, opts, cfg, backend, dialer, obs)
		if err != nil {
			return err
		}
		return fn(ctx, c)
	})
	return c, err
}

// readClusterFile loads a cluster export written by Export or Create.
func readClusterFile(path string) (cluster.Export, error) {
	data, err := readFile(path)
	if err != nil {
		return cluster.Export{}, fmt.Errorf("read cluster file: %w", err)
	}
	var export cluster.Export
	if err := yaml.Unmarshal(data, &export); err != nil {
		return cluster.Export{}, fmt.Errorf("parse cluster file %s: %w", path, err)
	}
	return export, nil
}

// writeClusterFile persists a cluster export. The file carries the
// admin password, so it is not group- or world-readable.
func writeClusterFile(export cluster.Export, path string) error {
	data, err := yaml.Marshal(export)
	if err != nil {
		return fmt.Errorf("marshal cluster file: %w", err)
	}
	if err := writeFile(path, data, 0600); err != nil {
		return fmt.Errorf("write cluster file: %w", err)
	}
	return nil
}

// clusterFilePath is where lifecycle commands record the cluster
// identity: the explicit --cluster-file when given, otherwise
// <cluster>-cluster.yaml in the working directory.
func clusterFilePath(opts Options, name string) string {
	if opts.ClusterFile != "" {
		return opts.ClusterFile
	}
	return name + "-cluster.yaml"
}
