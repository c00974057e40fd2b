// Package mgmt is the typed surface of the cluster management channel.
//
// The wire protocol lives behind the Transport interface; this package
// models the namespaces, payloads and fault semantics the orchestrator
// consumes. All calls are synchronous request/response; asynchronous
// server-side work is represented by activity tokens polled with
// WaitActivity.
package mgmt

import (
	"context"
	"encoding/base64"
)

// Client groups the management namespaces over one transport session.
type Client struct {
	t Transport
}

// NewClient wraps an open transport. The session is not authenticated
// until Login succeeds.
func NewClient(t Transport) *Client {
	return &Client{t: t}
}

// Login authenticates the session. Credentials travel base64-encoded per
// the channel's convention.
func (c *Client) Login(ctx context.Context, username, password string) error {
	enc := base64.StdEncoding
	args := []any{enc.EncodeToString([]byte(username)), enc.EncodeToString([]byte(password))}
	return c.t.Call(ctx, "system.login", args, nil)
}

// EnableAPI unlocks a restricted namespace for this session, e.g.
// "maintenance" before maint.* calls.
func (c *Client) EnableAPI(ctx context.Context, name string) error {
	return c.t.Call(ctx, "system.enableAPI", []any{name}, nil)
}

// Close releases the underlying transport.
func (c *Client) Close() error {
	return c.t.Close()
}

// Cluster accesses the cluster.* namespace.
func (c *Client) Cluster() ClusterAPI { return ClusterAPI{t: c.t} }

// Node accesses the node.* namespace.
func (c *Client) Node() NodeAPI { return NodeAPI{t: c.t} }

// VServer accesses the vserver.* namespace.
func (c *Client) VServer() VServerAPI { return VServerAPI{t: c.t} }

// CoreFiler accesses the corefiler.* namespace.
func (c *Client) CoreFiler() CoreFilerAPI { return CoreFilerAPI{t: c.t} }

// Alert accesses the alert.* namespace.
func (c *Client) Alert() AlertAPI { return AlertAPI{t: c.t} }

// Support accesses the support.* namespace.
func (c *Client) Support() SupportAPI { return SupportAPI{t: c.t} }

// Maint accesses the maint.* namespace.
func (c *Client) Maint() MaintAPI { return MaintAPI{t: c.t} }
