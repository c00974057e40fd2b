// Package commands defines the CLI command structure and flag bindings.
//
// This package contains cobra command definitions that handle argument
// parsing, flag binding, and validation. Command execution is delegated
// to handler functions in the handlers package.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/SanatPandey22/AvereSDK/cmd/vfxt/handlers"
)

// Global flags, bound as persistent flags on the root command.
var (
	configPath  string
	clusterFile string
	logJSON     bool
	trace       bool
	metricsAddr string
)

// globalOptions collects the persistent flag values for a handler call.
func globalOptions() handlers.Options {
	return handlers.Options{
		ConfigPath:  configPath,
		ClusterFile: clusterFile,
		LogJSON:     logJSON,
		Trace:       trace,
		MetricsAddr: metricsAddr,
	}
}

// Root returns the root command for the vfxt CLI.
//
// The root command serves as the entry point and parent for all
// subcommands. It provides basic CLI metadata, the global flags, and
// organizes the command hierarchy.
func Root() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vfxt",
		Short: "Create and manage Avere vFXT clusters on Hetzner Cloud",
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: vfxt.yaml, searched upward)")
	pf.StringVarP(&clusterFile, "cluster-file", "f", "", "Path to a cluster file written by vfxt export or create")
	pf.BoolVar(&logJSON, "log-json", false, "Emit progress as JSON log lines instead of styled output")
	pf.BoolVar(&trace, "trace", false, "Enable support trace collection on the cluster")
	pf.StringVar(&metricsAddr, "metrics-listen", "", "Serve Prometheus metrics on this address while the command runs")

	// Lifecycle commands
	cmd.AddCommand(Init())
	cmd.AddCommand(Create())
	cmd.AddCommand(AddNodes())
	cmd.AddCommand(Destroy())

	// Power commands
	cmd.AddCommand(Start())
	cmd.AddCommand(Stop())
	cmd.AddCommand(Shelve())
	cmd.AddCommand(Unshelve())

	// Inspection commands
	cmd.AddCommand(Status())
	cmd.AddCommand(Health())

	// Storage commands
	cmd.AddCommand(AttachBucket())
	cmd.AddCommand(AttachCoreFiler())
	cmd.AddCommand(AddVServer())
	cmd.AddCommand(AddJunction())

	// Utility commands
	cmd.AddCommand(Upgrade())
	cmd.AddCommand(Rebalance())
	cmd.AddCommand(Export())
	cmd.AddCommand(Version())
	cmd.AddCommand(Completion())

	return cmd
}
