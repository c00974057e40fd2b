package mgmt

import (
	"context"
)

// AlertAPI wraps the alert.* namespace.
type AlertAPI struct {
	t Transport
}

// Conditions returns the currently active alert conditions.
func (a AlertAPI) Conditions(ctx context.Context) ([]Condition, error) {
	var conds []Condition
	if err := a.t.Call(ctx, "alert.conditions", nil, &conds); err != nil {
		return nil, err
	}
	return conds, nil
}

// SupportAPI wraps the support.* namespace.
type SupportAPI struct {
	t Transport
}

// Modify updates support settings: customer id, remote-log acceptance,
// trace levels.
func (a SupportAPI) Modify(ctx context.Context, attrs map[string]any) error {
	return a.t.Call(ctx, "support.modify", []any{attrs}, nil)
}

// ExecuteNormalMode triggers a support upload of the given scope and
// payload name, returning a task token.
func (a SupportAPI) ExecuteNormalMode(ctx context.Context, scope, name string) (string, error) {
	var token string
	if err := a.t.Call(ctx, "support.executeNormalMode", []any{scope, name}, &token); err != nil {
		return "", err
	}
	return token, nil
}

// TaskIsDone reports whether a support task has completed.
func (a SupportAPI) TaskIsDone(ctx context.Context, token string) (bool, error) {
	var done bool
	if err := a.t.Call(ctx, "support.taskIsDone", []any{token}, &done); err != nil {
		return false, err
	}
	return done, nil
}

// MaintAPI wraps the maint.* namespace. Maintenance calls require the
// maintenance API to be enabled via support settings first.
type MaintAPI struct {
	t Transport
}

// SetShelve records the intent to shelve so the cluster can quiesce
// accordingly. Not supported by every release; see IsShelveUnsupported.
func (a MaintAPI) SetShelve(ctx context.Context) error {
	return a.t.Call(ctx, "maint.setShelve", nil, nil)
}

// RebalanceDirManagers redistributes directory managers across nodes.
// See IsRebalanceAlreadyScheduled for the benign collision case.
func (a MaintAPI) RebalanceDirManagers(ctx context.Context) error {
	return a.t.Call(ctx, "maint.rebalanceDirManagers", nil, nil)
}
