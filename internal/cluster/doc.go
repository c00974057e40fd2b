// Package cluster orchestrates the lifecycle of a caching-filer cluster:
// create, scale-out, start/stop, shelve/unshelve, upgrade, core-filer and
// vserver management, and teardown. It drives two collaborators, the
// provisioning backend (platform.Backend) and the cluster's own management
// channel (mgmt.Client), and advances multi-step, eventually-consistent
// operations by bounded polling.
//
// The package is organized into focused modules:
//
//   - cluster.go: the Cluster handle, constructors, management dialing
//   - create.go: cluster creation and first-node configuration
//   - addnodes.go: scale-out with address-pool extension
//   - addresses.go: address accounting and pool extension journal
//   - reconcile.go: membership diffing and rollback after failed joins
//   - health.go: join waiting, durable health checks, license verification
//   - power.go: start/stop/restart/shelve/unshelve/destroy
//   - upgrade.go: software image download and activation
//   - vserver.go, corefiler.go: data-path configuration
//   - maintenance.go: HA, naming policy, rebalance, telemetry, join policy
//   - bootconfig.go, export.go: node bootstrap text and the serialized form
//
// Operations are synchronous and block the calling goroutine; the only
// concurrency is the per-node fan-out used by power and destroy paths. A
// failed create or scale-out rolls back what it provisioned before the
// error is surfaced.
package cluster
