package mgmt

import (
	"context"

	"github.com/SanatPandey22/AvereSDK/internal/util/netutil"
)

// ClusterAPI wraps the cluster.* namespace.
type ClusterAPI struct {
	t Transport
}

// Get returns the cluster's identity and addressing.
func (a ClusterAPI) Get(ctx context.Context) (ClusterInfo, error) {
	var info ClusterInfo
	if err := a.t.Call(ctx, "cluster.get", nil, &info); err != nil {
		return ClusterInfo{}, err
	}
	return info, nil
}

// MaxActiveAlertSeverity returns the worst severity among active alerts,
// "green" when none are active.
func (a ClusterAPI) MaxActiveAlertSeverity(ctx context.Context) (string, error) {
	var severity string
	if err := a.t.Call(ctx, "cluster.maxActiveAlertSeverity", nil, &severity); err != nil {
		return "", err
	}
	return severity, nil
}

// ListLicenses returns the cluster's license envelope.
func (a ClusterAPI) ListLicenses(ctx context.Context) (Licenses, error) {
	var lic Licenses
	if err := a.t.Call(ctx, "cluster.listLicenses", nil, &lic); err != nil {
		return Licenses{}, err
	}
	return lic, nil
}

// Upgrade starts downloading the software image at url.
func (a ClusterAPI) Upgrade(ctx context.Context, url string) error {
	return a.t.Call(ctx, "cluster.upgrade", []any{url}, nil)
}

// UpgradeStatus reports whether downloads and activations are currently
// permitted.
func (a ClusterAPI) UpgradeStatus(ctx context.Context) (UpgradeStatus, error) {
	var st UpgradeStatus
	if err := a.t.Call(ctx, "cluster.upgradeStatus", nil, &st); err != nil {
		return UpgradeStatus{}, err
	}
	return st, nil
}

// ActivateAltImage makes the alternate software image active. Nodes
// re-arm and rejoin as part of activation.
func (a ClusterAPI) ActivateAltImage(ctx context.Context) (string, error) {
	var token string
	if err := a.t.Call(ctx, "cluster.activateAltImage", nil, &token); err != nil {
		return "", err
	}
	return token, nil
}

// ListActivities returns all current and recent activities.
func (a ClusterAPI) ListActivities(ctx context.Context) ([]Activity, error) {
	var acts []Activity
	if err := a.t.Call(ctx, "cluster.listActivities", nil, &acts); err != nil {
		return nil, err
	}
	return acts, nil
}

// GetActivity returns one activity by token.
func (a ClusterAPI) GetActivity(ctx context.Context, token string) (Activity, error) {
	var act Activity
	if err := a.t.Call(ctx, "cluster.getActivity", []any{token}, &act); err != nil {
		return Activity{}, err
	}
	return act, nil
}

// EnableHA turns on high availability across the cluster.
func (a ClusterAPI) EnableHA(ctx context.Context) (string, error) {
	var token string
	if err := a.t.Call(ctx, "cluster.enableHA", nil, &token); err != nil {
		return "", err
	}
	return token, nil
}

// AddClusterIPs extends the inter-node address pool by one range.
func (a ClusterAPI) AddClusterIPs(ctx context.Context, r netutil.Range) (string, error) {
	var token string
	if err := a.t.Call(ctx, "cluster.addClusterIPs", []any{rangeBody(r)}, &token); err != nil {
		return "", err
	}
	return token, nil
}

// RemoveClusterIPs removes a range by its server-assigned name.
func (a ClusterAPI) RemoveClusterIPs(ctx context.Context, rangeName string) (string, error) {
	var token string
	if err := a.t.Call(ctx, "cluster.removeClusterIPs", []any{rangeName}, &token); err != nil {
		return "", err
	}
	return token, nil
}

// Powerdown shuts the whole cluster down gracefully.
func (a ClusterAPI) Powerdown(ctx context.Context) error {
	return a.t.Call(ctx, "cluster.powerdown", nil, nil)
}

// Modify updates cluster-wide attributes, e.g. allowAllNodesToJoin or the
// active proxy configuration name.
func (a ClusterAPI) Modify(ctx context.Context, attrs map[string]any) (string, error) {
	var token string
	if err := a.t.Call(ctx, "cluster.modify", []any{attrs}, &token); err != nil {
		return "", err
	}
	return token, nil
}

// ListProxyConfigs returns the configured proxy entries.
func (a ClusterAPI) ListProxyConfigs(ctx context.Context) ([]ProxyConfig, error) {
	var cfgs []ProxyConfig
	if err := a.t.Call(ctx, "cluster.listProxyConfigs", nil, &cfgs); err != nil {
		return nil, err
	}
	return cfgs, nil
}

// CreateProxyConfig registers a proxy entry for later selection via
// Modify. The name travels as its own argument ahead of the body.
func (a ClusterAPI) CreateProxyConfig(ctx context.Context, cfg ProxyConfig) error {
	body := map[string]string{
		"url":      cfg.URL,
		"user":     cfg.User,
		"password": cfg.Password,
	}
	return a.t.Call(ctx, "cluster.createProxyConfig", []any{cfg.Name, body}, nil)
}
