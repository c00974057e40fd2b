package handlers

import (
	"context"
	"fmt"
	"os"

	"github.com/SanatPandey22/AvereSDK/internal/config"
)

// fileExists checks if a file exists. Replaced in tests.
var fileExists = func(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Init runs the configuration wizard and writes the result to a file.
func Init(ctx context.Context, outputPath string) error {
	if fileExists(outputPath) {
		fmt.Printf("Warning: %s already exists and will be overwritten.\n\n", outputPath)
	}

	printWelcome()

	result, err := runWizard(ctx)
	if err != nil {
		return fmt.Errorf("wizard canceled: %w", err)
	}

	cfg := result.ToConfig()

	if err := saveConfig(cfg, outputPath); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	printInitSuccess(outputPath, cfg)

	return nil
}

// printWelcome prints the welcome message.
func printWelcome() {
	fmt.Println()
	fmt.Println("vfxt - Avere vFXT clusters on Hetzner Cloud")
	fmt.Println("===========================================")
	fmt.Println()
	fmt.Println("This wizard creates a cluster configuration with sensible defaults.")
	fmt.Println("Secrets can be left empty and supplied through environment variables")
	fmt.Println("instead (HCLOUD_TOKEN, VFXT_ADMIN_PASSWORD).")
	fmt.Println()
}

// printInitSuccess prints the success message with summary and next steps.
func printInitSuccess(outputPath string, cfg *config.Config) {
	fmt.Println()
	fmt.Println("Configuration saved!")
	fmt.Println()
	fmt.Printf("  File: %s\n", outputPath)
	fmt.Println()

	fmt.Println("Cluster Summary")
	fmt.Println("---------------")
	fmt.Printf("  Name:        %s\n", cfg.Cluster.Name)
	fmt.Printf("  Nodes:       %d x %s\n", cfg.Cluster.NodeCount, cfg.Cluster.NodeSize)
	fmt.Printf("  Cache disks: %d x %d GB per node\n", cfg.Cluster.DataDiskCount, cfg.Cluster.DataDiskSize)
	fmt.Printf("  Location:    %s\n", cfg.Hetzner.Location)
	fmt.Printf("  Network:     %s (%s)\n", cfg.Hetzner.Network, cfg.Hetzner.Subnet)
	fmt.Println()

	fmt.Println("Next Steps")
	fmt.Println("----------")
	fmt.Println("  1. Set your Hetzner Cloud API token:")
	fmt.Println("     export HCLOUD_TOKEN=<your-token>")
	fmt.Println()
	fmt.Printf("  2. Review %s if needed\n", outputPath)
	fmt.Println()
	fmt.Println("  3. Create your cluster:")
	fmt.Printf("     vfxt create -c %s\n", outputPath)
	fmt.Println()
}
