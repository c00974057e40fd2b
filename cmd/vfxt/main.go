// Package main is the entry point for the vfxt CLI.
//
// vfxt creates and manages Avere vFXT caching-filer clusters on Hetzner
// Cloud: provisioning nodes, joining them into a cluster, attaching
// object-store buckets and NFS core filers, and driving the power
// lifecycle, all without state files beyond an optional cluster file.
//
// Commands: init, create, add-nodes, destroy, start, stop, shelve,
// unshelve, status, health, attach-bucket, attach-corefiler,
// add-vserver, add-junction, upgrade, rebalance, export.
//
// For detailed usage information, run:
//
//	vfxt --help
package main

import (
	"fmt"
	"os"

	"github.com/SanatPandey22/AvereSDK/cmd/vfxt/commands"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersionInfo(version, commit, date)
	if err := commands.Root().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
