// Package handlers implements the business logic for CLI commands.
//
// This package contains handler functions that are called by command
// definitions in the commands package. Handlers are framework-agnostic
// and follow one shape: load configuration, construct the cloud backend
// and the management dialer, resolve the target cluster, invoke the
// orchestration layer, render results.
package handlers

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/go-logr/logr/funcr"
	"github.com/mattn/go-isatty"

	"github.com/SanatPandey22/AvereSDK/internal/cluster"
	"github.com/SanatPandey22/AvereSDK/internal/config"
	"github.com/SanatPandey22/AvereSDK/internal/metrics"
	"github.com/SanatPandey22/AvereSDK/internal/mgmt"
	"github.com/SanatPandey22/AvereSDK/internal/mgmt/xmlrpc"
	"github.com/SanatPandey22/AvereSDK/internal/platform"
	"github.com/SanatPandey22/AvereSDK/internal/platform/hetzner"
	"github.com/SanatPandey22/AvereSDK/internal/ui"
	"github.com/SanatPandey22/AvereSDK/internal/ui/tui"
	"github.com/SanatPandey22/AvereSDK/internal/util/keygen"
)

// Options carries the global flag values shared by every command.
type Options struct {
	// ConfigPath overrides the configuration file search.
	ConfigPath string
	// ClusterFile pins the target cluster to a file written by export.
	ClusterFile string
	// LogJSON switches progress output to JSON log lines.
	LogJSON bool
	// Trace enables support trace collection on the cluster.
	Trace bool
	// MetricsAddr serves Prometheus metrics while the command runs.
	MetricsAddr string
}

// Factory function variables - can be replaced in tests for dependency injection.
var (
	// newBackend constructs the provisioning backend from configuration.
	newBackend = func(cfg *config.Config) (platform.Backend, error) {
		return hetzner.New(cfg.BackendConfig())
	}

	// newDialer opens instrumented management transports.
	newDialer = func(_ *config.Config) mgmt.Dialer {
		return metrics.InstrumentDialer(xmlrpc.NewDialer(xmlrpc.Options{}))
	}

	// createCluster provisions a new cluster.
	createCluster = cluster.Create

	// importCluster reconstructs a cluster handle from its export.
	importCluster = cluster.FromExport

	// runWizard drives the interactive configuration wizard.
	runWizard = config.RunWizard

	// saveConfig writes a configuration file.
	saveConfig = config.Save

	// loadConfigFile loads config from file (for testing injection).
	loadConfigFile = config.Load

	// findConfigFile locates the default configuration file.
	findConfigFile = config.FindFile

	// generateKeyPair creates the SSH key pair injected into nodes.
	generateKeyPair = keygen.Generate

	// runTUI drives an operation behind the live progress display.
	runTUI = tui.Run

	// serveMetrics exposes the Prometheus endpoint.
	serveMetrics = metrics.Serve

	// isTerminal reports whether stdout is an interactive terminal.
	isTerminal = func() bool { return isatty.IsTerminal(os.Stdout.Fd()) }

	// writeFile writes data to a file (for testing injection).
	writeFile = os.WriteFile

	// readFile reads a file (for testing injection).
	readFile = os.ReadFile
)

// loadConfig resolves and loads the configuration file: the explicit
// path when given, otherwise vfxt.yaml searched from the working
// directory upward.
func loadConfig(opts Options) (*config.Config, error) {
	path := opts.ConfigPath
	if path == "" {
		var err error
		path, err = findConfigFile()
		if err != nil {
			return nil, fmt.Errorf("%w; run vfxt init or pass --config", err)
		}
	}
	return loadConfigFile(path)
}

// newObserver picks the progress sink for console operation: JSON log
// lines, styled terminal output, or plain log lines.
func newObserver(opts Options) cluster.Observer {
	if opts.LogJSON {
		return cluster.NewLogrObserver(funcr.NewJSON(func(line string) {
			fmt.Fprintln(os.Stderr, line)
		}, funcr.Options{}))
	}
	if isTerminal() {
		return ui.NewPrinter(os.Stderr)
	}
	return cluster.NewConsoleObserver()
}

// observeOperation runs op against the console observer and records the
// outcome metric.
func observeOperation(opts Options, operation string, op func(cluster.Observer) error) error {
	start := time.Now()
	err := op(metrics.NewObserver(newObserver(opts)))
	metrics.RecordOperation(operation, outcome(err), time.Since(start).Seconds())
	return err
}

// runLifecycleOperation is observeOperation behind the live progress
// display when stdout is an interactive terminal. Create and destroy
// run through it; shorter operations stay on the console.
func runLifecycleOperation(ctx context.Context, opts Options, clusterName, provider, operation string, op func(cluster.Observer) error) error {
	if opts.LogJSON || !isTerminal() {
		return observeOperation(opts, operation, op)
	}
	start := time.Now()
	err := runTUI(ctx, clusterName, provider, operation, func(obs cluster.Observer) error {
		return op(metrics.NewObserver(obs))
	})
	metrics.RecordOperation(operation, outcome(err), time.Since(start).Seconds())
	return err
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// startMetrics exposes the Prometheus endpoint for the duration of the
// command when a listen address is configured by flag or file.
func startMetrics(ctx context.Context, cfg *config.Config, opts Options) {
	addr := opts.MetricsAddr
	if addr == "" && cfg != nil {
		addr = cfg.Metrics.Listen
	}
	if addr == "" {
		return
	}
	go func() {
		if err := serveMetrics(ctx, addr); err != nil {
			log.Printf("Metrics endpoint on %s failed: %v", addr, err)
		}
	}()
}
