package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/SanatPandey22/AvereSDK/internal/cluster"
)

// ClusterStatus represents the cluster state for JSON output.
type ClusterStatus struct {
	Name   string       `json:"name"`
	State  string       `json:"state"`
	MgmtIP string       `json:"mgmtIP,omitempty"`
	Nodes  []NodeStatus `json:"nodes"`
}

// NodeStatus is one node's power state for JSON output.
type NodeStatus struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"`
}

// Status handles the status command.
//
// It reports the cluster lifecycle state and per-node power states,
// once or continuously with watch.
func Status(ctx context.Context, opts Options, jsonOutput, watch bool) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	backend, err := newBackend(cfg)
	if err != nil {
		return err
	}
	dialer := newDialer(cfg)

	// A read should not emit progress lines into the table.
	c, err := resolveCluster(ctx, opts, cfg, backend, dialer, cluster.NoopObserver{})
	if err != nil {
		return err
	}

	if watch {
		return watchStatus(ctx, c, jsonOutput)
	}
	return showStatus(c, jsonOutput)
}

// showStatus renders the current state once.
func showStatus(c *cluster.Cluster, jsonOutput bool) error {
	status := buildStatus(c)
	if jsonOutput {
		return printStatusJSON(status)
	}
	printStatusFormatted(status)
	return nil
}

// watchStatus refreshes and re-renders the state until canceled.
func watchStatus(ctx context.Context, c *cluster.Cluster, jsonOutput bool) error {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	// Show immediately first
	if err := showStatus(c, jsonOutput); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			// Clear screen for non-JSON output
			if !jsonOutput {
				fmt.Print("\033[H\033[2J")
			}
			if err := c.Refresh(ctx); err != nil {
				fmt.Printf("Error: %v\n", err)
				continue
			}
			if err := showStatus(c, jsonOutput); err != nil {
				fmt.Printf("Error: %v\n", err)
			}
		}
	}
}

// buildStatus collects the cluster state for rendering.
func buildStatus(c *cluster.Cluster) *ClusterStatus {
	nodes := make([]NodeStatus, 0, len(c.Nodes))
	for _, n := range c.Status() {
		nodes = append(nodes, NodeStatus{ID: n.ID, Name: n.Name, Status: n.Status})
	}
	return &ClusterStatus{
		Name:   c.Name,
		State:  c.State().String(),
		MgmtIP: c.MgmtIP,
		Nodes:  nodes,
	}
}

// printStatusJSON outputs the status as JSON.
func printStatusJSON(status *ClusterStatus) error {
	data, err := json.MarshalIndent(status, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal status: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

// printStatusFormatted outputs the status as a table.
func printStatusFormatted(status *ClusterStatus) {
	fmt.Printf("Cluster: %s (%s)\n", status.Name, status.State)
	if status.MgmtIP != "" {
		fmt.Printf("Management: https://%s\n", status.MgmtIP)
	}
	fmt.Println()
	fmt.Printf("  %-12s %-24s %s\n", "ID", "NAME", "STATUS")
	for _, n := range status.Nodes {
		fmt.Printf("  %-12s %-24s %s\n", n.ID, n.Name, n.Status)
	}
}
