package commands

import (
	"github.com/spf13/cobra"

	"github.com/SanatPandey22/AvereSDK/cmd/vfxt/handlers"
	"github.com/SanatPandey22/AvereSDK/internal/config"
)

// Init returns the command for interactively creating a configuration.
//
// This command guides users through creating a cluster configuration
// YAML file using an interactive wizard with text inputs and select
// prompts.
func Init() *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Interactively create a cluster configuration",
		Long: `Interactively create a cluster configuration file.

This command guides you through configuring a vFXT cluster step by
step. It will ask about:

  - Cluster identity (name and admin password)
  - Node count and machine size
  - Cache disk layout
  - Hetzner Cloud location and private network
  - Object storage for cloud core filers

Secrets entered here can instead be supplied at run time through the
HCLOUD_TOKEN and VFXT_ADMIN_PASSWORD environment variables.

Example:
  vfxt init
  vfxt init -o clusters/prod.yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Init(cmd.Context(), outputPath)
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", config.DefaultFilename, "Output file path")

	return cmd
}
