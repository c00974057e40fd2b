package mgmt

import (
	"context"
	"fmt"
)

// NodeAPI wraps the node.* namespace.
type NodeAPI struct {
	t Transport
}

// List returns the names of all joined nodes.
func (a NodeAPI) List(ctx context.Context) ([]string, error) {
	var names []string
	if err := a.t.Call(ctx, "node.list", nil, &names); err != nil {
		return nil, err
	}
	return names, nil
}

// Get returns one joined node by name. The channel keys the reply by
// node name; the single entry is unwrapped here.
func (a NodeAPI) Get(ctx context.Context, name string) (NodeInfo, error) {
	var reply map[string]NodeInfo
	if err := a.t.Call(ctx, "node.get", []any{name}, &reply); err != nil {
		return NodeInfo{}, err
	}
	for _, info := range reply {
		return info, nil
	}
	return NodeInfo{}, fmt.Errorf("empty node.get reply for %s", name)
}

// Rename changes a node's name.
func (a NodeAPI) Rename(ctx context.Context, name, newName string) error {
	return a.t.Call(ctx, "node.rename", []any{name, newName}, nil)
}

// ListUnconfiguredNodes returns nodes visible to the cluster but not yet
// joined, including those mid-join.
func (a NodeAPI) ListUnconfiguredNodes(ctx context.Context) ([]UnconfiguredNode, error) {
	var nodes []UnconfiguredNode
	if err := a.t.Call(ctx, "node.listUnconfiguredNodes", nil, &nodes); err != nil {
		return nil, err
	}
	return nodes, nil
}
