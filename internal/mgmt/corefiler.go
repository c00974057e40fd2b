package mgmt

import (
	"context"
	"fmt"
)

// CoreFilerAPI wraps the corefiler.* namespace.
type CoreFilerAPI struct {
	t Transport
}

// List returns the names of all attached core filers.
func (a CoreFilerAPI) List(ctx context.Context) ([]string, error) {
	var names []string
	if err := a.t.Call(ctx, "corefiler.list", nil, &names); err != nil {
		return nil, err
	}
	return names, nil
}

// Get returns one core filer by name. The channel keys the reply by
// filer name; the single entry is unwrapped here.
func (a CoreFilerAPI) Get(ctx context.Context, name string) (CoreFilerInfo, error) {
	var reply map[string]CoreFilerInfo
	if err := a.t.Call(ctx, "corefiler.get", []any{name}, &reply); err != nil {
		return CoreFilerInfo{}, err
	}
	for _, info := range reply {
		info.Name = name
		return info, nil
	}
	return CoreFilerInfo{}, fmt.Errorf("empty corefiler.get reply for %s", name)
}

// Create attaches an NFS filer by hostname.
func (a CoreFilerAPI) Create(ctx context.Context, name, host string) (string, error) {
	var token string
	if err := a.t.Call(ctx, "corefiler.create", []any{name, host}, &token); err != nil {
		return "", err
	}
	return token, nil
}

// CreateCloudFiler attaches a cloud bucket as a core filer.
func (a CoreFilerAPI) CreateCloudFiler(ctx context.Context, name string, spec CloudFilerSpec) (string, error) {
	var token string
	if err := a.t.Call(ctx, "corefiler.createCloudFiler", []any{name, spec.body()}, &token); err != nil {
		return "", err
	}
	return token, nil
}

// Remove detaches a core filer.
func (a CoreFilerAPI) Remove(ctx context.Context, name string) (string, error) {
	var token string
	if err := a.t.Call(ctx, "corefiler.remove", []any{name}, &token); err != nil {
		return "", err
	}
	return token, nil
}

// ListExports returns the exported paths of a core filer. The channel
// keys the reply by filer name.
func (a CoreFilerAPI) ListExports(ctx context.Context, corefiler string) ([]Export, error) {
	var reply map[string][]Export
	if err := a.t.Call(ctx, "corefiler.listExports", []any{corefiler}, &reply); err != nil {
		return nil, err
	}
	return reply[corefiler], nil
}

// GenerateMasterKey creates a new encryption master key for a cloud core
// filer, protected by the master password. The key is inert until
// activated.
func (a CoreFilerAPI) GenerateMasterKey(ctx context.Context, name, masterPassword string) (MasterKey, error) {
	var key MasterKey
	if err := a.t.Call(ctx, "corefiler.generateMasterKey", []any{name, masterPassword}, &key); err != nil {
		return MasterKey{}, err
	}
	return key, nil
}

// ActivateMasterKey makes a generated master key the filer's active key.
func (a CoreFilerAPI) ActivateMasterKey(ctx context.Context, name, keyID, recovery string) error {
	return a.t.Call(ctx, "corefiler.activateMasterKey", []any{name, keyID, recovery}, nil)
}
