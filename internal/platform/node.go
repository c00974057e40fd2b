package platform

import (
	"context"
	"fmt"
)

// Node pairs one backing instance with the backend that owns it. All
// mutations re-read the instance afterwards, so a Node's view is current
// as of its last operation.
type Node struct {
	backend Backend
	inst    Instance
}

// NewNode wraps an instance.
func NewNode(b Backend, inst Instance) *Node {
	return &Node{backend: b, inst: inst}
}

// ID returns the provider instance ID.
func (n *Node) ID() string { return n.inst.ID }

// Name returns the instance name.
func (n *Node) Name() string { return n.inst.Name }

// Address returns the instance's primary address.
func (n *Node) Address() string { return n.inst.Address }

// Instance returns the current instance view.
func (n *Node) Instance() Instance { return n.inst }

// InUseAddresses returns every subnet address the instance holds.
func (n *Node) InUseAddresses() []string {
	if len(n.inst.PrivateIPs) > 0 {
		return n.inst.PrivateIPs
	}
	if n.inst.Address == "" {
		return nil
	}
	return []string{n.inst.Address}
}

// IsOn reports whether the instance is running.
func (n *Node) IsOn() bool { return n.inst.Status == StatusRunning }

// IsOff reports whether the instance is stopped (shelved counts as off).
func (n *Node) IsOff() bool { return !n.IsOn() }

// IsShelved reports whether the instance is shelved.
func (n *Node) IsShelved() bool { return n.inst.Status == StatusShelved }

// CanStop reports whether the instance may be stopped.
func (n *Node) CanStop() bool { return n.backend.CanStop(n.inst) }

// CanShelve reports whether the instance may be shelved.
func (n *Node) CanShelve() bool { return n.backend.CanShelve(n.inst) }

// Refresh re-reads the instance from the provider.
func (n *Node) Refresh(ctx context.Context) error {
	inst, err := n.backend.GetInstance(ctx, n.inst.ID)
	if err != nil {
		return fmt.Errorf("refresh %s: %w", n.inst.Name, err)
	}
	n.inst = inst
	return nil
}

// Start powers the instance on.
func (n *Node) Start(ctx context.Context) error {
	if err := n.backend.StartInstance(ctx, n.inst.ID); err != nil {
		return fmt.Errorf("start %s: %w", n.inst.Name, err)
	}
	return n.Refresh(ctx)
}

// Stop powers the instance off.
func (n *Node) Stop(ctx context.Context) error {
	if err := n.backend.StopInstance(ctx, n.inst.ID); err != nil {
		return fmt.Errorf("stop %s: %w", n.inst.Name, err)
	}
	return n.Refresh(ctx)
}

// Restart reboots the instance.
func (n *Node) Restart(ctx context.Context) error {
	if err := n.backend.RestartInstance(ctx, n.inst.ID); err != nil {
		return fmt.Errorf("restart %s: %w", n.inst.Name, err)
	}
	return n.Refresh(ctx)
}

// Shelve parks the instance so it stops accruing compute cost.
func (n *Node) Shelve(ctx context.Context) error {
	if err := n.backend.ShelveInstance(ctx, n.inst.ID); err != nil {
		return fmt.Errorf("shelve %s: %w", n.inst.Name, err)
	}
	return n.Refresh(ctx)
}

// Unshelve restores a shelved instance to running.
func (n *Node) Unshelve(ctx context.Context) error {
	if err := n.backend.UnshelveInstance(ctx, n.inst.ID); err != nil {
		return fmt.Errorf("unshelve %s: %w", n.inst.Name, err)
	}
	return n.Refresh(ctx)
}

// Destroy deletes the instance and releases anything that outlives it.
func (n *Node) Destroy(ctx context.Context) error {
	if err := n.backend.DestroyInstance(ctx, n.inst.ID); err != nil {
		return fmt.Errorf("destroy %s: %w", n.inst.Name, err)
	}
	return n.backend.PostDestroy(ctx, n.inst)
}
