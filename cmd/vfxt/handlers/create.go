package handlers

import (
	"context"
	"fmt"
	"log"

	"github.com/SanatPandey22/AvereSDK/internal/cluster"
	"github.com/SanatPandey22/AvereSDK/internal/config"
	"github.com/SanatPandey22/AvereSDK/internal/util/keygen"
)

// defaultTraceLevel is the support trace mask --trace enables.
const defaultTraceLevel = "0x1"

// Create provisions the configured cluster and writes a cluster file
// recording its identity.
func Create(ctx context.Context, opts Options, skipCleanup bool) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	backend, err := newBackend(cfg)
	if err != nil {
		return err
	}
	dialer := newDialer(cfg)
	startMetrics(ctx, cfg, opts)

	createOpts, keyPath, err := buildCreateOptions(cfg, opts, skipCleanup)
	if err != nil {
		return err
	}

	var created *cluster.Cluster
	err = runLifecycleOperation(ctx, opts, cfg.Cluster.Name, backend.Name(), "create", func(obs cluster.Observer) error {
		createOpts.Observer = obs
		var err error
		created, err = createCluster(ctx, backend, dialer, createOpts)
		return err
	})
	if err != nil {
		return err
	}

	if keyPath != "" {
		log.Printf("Wrote SSH private key for node access to %s", keyPath)
	}

	exportPath := clusterFilePath(opts, created.Name)
	if err := writeClusterFile(created.Export(), exportPath); err != nil {
		return err
	}

	printCreateSuccess(created, exportPath)
	return nil
}

// buildCreateOptions maps the configuration onto creation options and
// sorts out the SSH key: an explicit public key file wins, a named
// provider key suppresses generation, otherwise a fresh key pair is
// generated and its private half written next to the configuration.
func buildCreateOptions(cfg *config.Config, opts Options, skipCleanup bool) (cluster.CreateOptions, string, error) {
	createOpts := cluster.CreateOptions{
		Name:                cfg.Cluster.Name,
		AdminPassword:       cfg.Cluster.AdminPassword,
		Size:                cfg.Cluster.NodeCount,
		InstanceType:        cfg.Cluster.NodeSize,
		RootImage:           cfg.Cluster.RootImage,
		ManagementAddress:   cfg.Cluster.ManagementAddress,
		AddressRangeStart:   cfg.Cluster.AddressRange.First,
		AddressRangeEnd:     cfg.Cluster.AddressRange.Last,
		AddressRangeNetmask: cfg.Cluster.AddressRange.Netmask,
		Subnet:              cfg.Cluster.Subnet,
		DataDiskCount:       cfg.Cluster.DataDiskCount,
		DataDiskSize:        cfg.Cluster.DataDiskSize,
		Labels:              cfg.Cluster.Labels,
		ProxyURI:            cfg.Cluster.ProxyURI,
		JoinInstanceAddress: cfg.Cluster.JoinInstanceAddress,
		WaitForState:        cfg.Cluster.WaitForState,
		SkipCleanup:         skipCleanup || cfg.Cluster.SkipCleanup,
	}
	if opts.Trace {
		createOpts.TraceLevel = defaultTraceLevel
	}

	var keyPath string
	switch {
	case cfg.Cluster.SSHPublicKeyFile != "":
		data, err := readFile(cfg.Cluster.SSHPublicKeyFile)
		if err != nil {
			return cluster.CreateOptions{}, "", fmt.Errorf("read SSH public key: %w", err)
		}
		createOpts.SSHPublicKey = string(data)
	case cfg.Hetzner.SSHKey != "":
		// The backend injects the named provider key.
	default:
		kp, err := generateKeyPair(keygen.DefaultBits)
		if err != nil {
			return cluster.CreateOptions{}, "", err
		}
		keyPath = cfg.Cluster.Name + "-ssh-key.pem"
		if err := writeFile(keyPath, kp.Private, 0600); err != nil {
			return cluster.CreateOptions{}, "", fmt.Errorf("write private key: %w", err)
		}
		createOpts.SSHPublicKey = string(kp.Public)
	}

	return createOpts, keyPath, nil
}

// printCreateSuccess prints the summary and next steps.
func printCreateSuccess(c *cluster.Cluster, exportPath string) {
	fmt.Println()
	fmt.Printf("Cluster %s is ready\n", c.Name)
	fmt.Println()
	fmt.Printf("  Management:   https://%s\n", c.MgmtIP)
	fmt.Printf("  Nodes:        %d\n", len(c.Nodes))
	fmt.Printf("  Cluster file: %s\n", exportPath)
	fmt.Println()
	fmt.Println("Next Steps")
	fmt.Println("----------")
	fmt.Println("  1. Attach storage:")
	fmt.Printf("     vfxt attach-bucket wan-storage <bucket> -f %s\n", exportPath)
	fmt.Println()
	fmt.Println("  2. Create the client namespace:")
	fmt.Printf("     vfxt add-vserver vs1 -f %s\n", exportPath)
	fmt.Printf("     vfxt add-junction vs1 wan-storage -f %s\n", exportPath)
	fmt.Println()
	fmt.Println("  3. Watch cluster state:")
	fmt.Printf("     vfxt status -f %s --watch\n", exportPath)
	fmt.Println()
}
