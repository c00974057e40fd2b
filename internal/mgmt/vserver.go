package mgmt

import (
	"context"
	"fmt"

	"github.com/SanatPandey22/AvereSDK/internal/util/netutil"
)

// VServerAPI wraps the vserver.* namespace.
type VServerAPI struct {
	t Transport
}

// List returns the names of all vservers.
func (a VServerAPI) List(ctx context.Context) ([]string, error) {
	var names []string
	if err := a.t.Call(ctx, "vserver.list", nil, &names); err != nil {
		return nil, err
	}
	return names, nil
}

// Get returns one vserver by name. The channel keys the reply by
// vserver name; the single entry is unwrapped here.
func (a VServerAPI) Get(ctx context.Context, name string) (VServerInfo, error) {
	var reply map[string]VServerInfo
	if err := a.t.Call(ctx, "vserver.get", []any{name}, &reply); err != nil {
		return VServerInfo{}, err
	}
	for _, info := range reply {
		info.Name = name
		return info, nil
	}
	return VServerInfo{}, fmt.Errorf("empty vserver.get reply for %s", name)
}

// Create builds a vserver presenting the client-facing range.
func (a VServerAPI) Create(ctx context.Context, name string, clientRange netutil.Range) (string, error) {
	var token string
	if err := a.t.Call(ctx, "vserver.create", []any{name, rangeBody(clientRange)}, &token); err != nil {
		return "", err
	}
	return token, nil
}

// AddJunction maps path in the vserver namespace to an export on a core
// filer. Options may carry subdirectory and access-policy settings.
func (a VServerAPI) AddJunction(ctx context.Context, vserver, path, corefiler, export string, options map[string]any) (string, error) {
	var token string
	if err := a.t.Call(ctx, "vserver.addJunction", []any{vserver, path, corefiler, export, options}, &token); err != nil {
		return "", err
	}
	return token, nil
}

// AddClientIPs extends a vserver's client-facing address pool by one
// range.
func (a VServerAPI) AddClientIPs(ctx context.Context, vserver string, r netutil.Range) (string, error) {
	var token string
	if err := a.t.Call(ctx, "vserver.addClientIPs", []any{vserver, rangeBody(r)}, &token); err != nil {
		return "", err
	}
	return token, nil
}

// RemoveClientIPs removes a client-facing range by its server-assigned
// name.
func (a VServerAPI) RemoveClientIPs(ctx context.Context, vserver, rangeName string) (string, error) {
	var token string
	if err := a.t.Call(ctx, "vserver.removeClientIPs", []any{vserver, rangeName}, &token); err != nil {
		return "", err
	}
	return token, nil
}
