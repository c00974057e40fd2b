package cluster

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SanatPandey22/AvereSDK/internal/errs"
	"github.com/SanatPandey22/AvereSDK/internal/mgmt"
	"github.com/SanatPandey22/AvereSDK/internal/mgmt/mgmttest"
	"github.com/SanatPandey22/AvereSDK/internal/platform/platformtest"
)

func TestWaitForHealthCheckHoldsThroughDip(t *testing.T) {
	backend := platformtest.New()
	mock := mgmttest.New().
		WithOK("system.login").
		WithReply("cluster.maxActiveAlertSeverity", "green").
		WithReply("cluster.maxActiveAlertSeverity", "red").
		WithReply("cluster.maxActiveAlertSeverity", "green")
	c := testCluster(backend, mock, nil, runningInstance("demo-1", "10.0.0.50"))

	err := c.WaitForHealthCheck(context.Background(), HealthCheckOptions{
		HoldFor: 600 * time.Millisecond,
	})
	require.NoError(t, err)

	// the red dip restarted the observation window, forcing a third poll
	assert.Equal(t, 3, mock.CallCount("cluster.maxActiveAlertSeverity"))
}

func TestWaitForHealthCheckReportsConditions(t *testing.T) {
	backend := platformtest.New()
	mock := mgmttest.New().
		WithOK("system.login").
		WithReply("cluster.maxActiveAlertSeverity", "red").
		WithReply("alert.conditions", []mgmt.Condition{
			{Name: "HA down", Severity: "red"},
			{Name: "ok", Severity: "green"},
		})
	c := testCluster(backend, mock, nil, runningInstance("demo-1", "10.0.0.50"))

	err := c.WaitForHealthCheck(context.Background(), HealthCheckOptions{
		HoldFor:  time.Nanosecond,
		Attempts: 2,
	})
	require.Error(t, err)

	var se *errs.StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "healthcheck for state green failed", se.Reason)
	assert.Equal(t, []string{"HA down"}, se.Conditions)
	assert.Contains(t, err.Error(), "healthcheck for state green failed (conditions: HA down)")
	assert.Equal(t, 2, mock.CallCount("cluster.maxActiveAlertSeverity"))
}

func TestWaitForHealthCheckConnectionFailure(t *testing.T) {
	backend := platformtest.New()
	mock := mgmttest.New().
		WithDialErrors(errors.New("refused"), errors.New("refused"))
	c := testCluster(backend, mock, nil, runningInstance("demo-1", "10.0.0.50"))

	err := c.WaitForHealthCheck(context.Background(), HealthCheckOptions{})
	require.Error(t, err)
	assert.True(t, errs.IsConnection(err))
	assert.Len(t, mock.Dialed(), 2)
}

func TestWaitForNodesToJoinAlreadyJoined(t *testing.T) {
	backend := platformtest.New()
	mock := mgmttest.New().
		WithOK("system.login").
		WithReply("node.list", []string{"demo-1", "demo-2"})
	obs := &recordingObserver{}
	c := testCluster(backend, mock, obs,
		runningInstance("demo-1", "10.0.0.50"),
		runningInstance("demo-2", "10.0.0.51"))

	require.NoError(t, c.WaitForNodesToJoin(context.Background(), 5))
	assert.Equal(t, 1, mock.CallCount("node.list"))
	assert.True(t, obs.logged("All nodes have joined the cluster."))
}

func TestWaitForNodesToJoinWallClock(t *testing.T) {
	// every clock read advances two seconds, so the 900s wall-clock cap
	// trips long before the 600-attempt budget does
	base := time.Now()
	calls := 0
	timeNow = func() time.Time {
		calls++
		return base.Add(time.Duration(calls) * 2 * time.Second)
	}
	defer func() { timeNow = time.Now }()

	backend := platformtest.New()
	mock := mgmttest.New().
		WithOK("system.login").
		WithReply("node.list", []string{"demo-1"}).
		WithReply("node.listUnconfiguredNodes", []mgmt.UnconfiguredNode{}).
		WithReply("alert.conditions", []mgmt.Condition{})
	c := testCluster(backend, mock, nil,
		runningInstance("demo-1", "10.0.0.50"),
		runningInstance("demo-2", "10.0.0.51"))

	err := c.WaitForNodesToJoin(context.Background(), 600)
	require.Error(t, err)
	assert.True(t, errs.IsConfiguration(err))
	assert.Contains(t, err.Error(), "timed out waiting for 1 node(s) to join")

	// one initial membership check plus one per loop iteration until the
	// simulated clock passes the cap
	assert.Equal(t, 452, mock.CallCount("node.list"))
	assert.Equal(t, StateJoining, c.State())
}

func TestWaitForNodesToJoinImageUpgradeWindow(t *testing.T) {
	backend := platformtest.New()
	mock := mgmttest.New().
		WithOK("system.login").
		WithReply("node.list", []string{"demo-1"}).
		WithReply("node.list", []string{"demo-1"}).
		WithReply("node.list", []string{"demo-1"}).
		WithReply("node.list", []string{"demo-1", "demo-2"}).
		WithReply("node.listUnconfiguredNodes", []mgmt.UnconfiguredNode{
			{Name: "unknown", Address: "10.0.0.51", Status: "installing image"},
		}).
		WithReply("node.listUnconfiguredNodes", []mgmt.UnconfiguredNode{}).
		WithReply("alert.conditions", []mgmt.Condition{})
	obs := &recordingObserver{}
	c := testCluster(backend, mock, obs,
		runningInstance("demo-1", "10.0.0.50"),
		runningInstance("demo-2", "10.0.0.51"))

	// a single-attempt budget still succeeds because the image-upgrade
	// iteration does not consume it
	require.NoError(t, c.WaitForNodesToJoin(context.Background(), 1))

	assert.Equal(t, 4, mock.CallCount("node.list"))
	assert.True(t, obs.logged("Waiting for image upgrade to finish: installing image"))
	assert.Contains(t, obs.progress, "joining 1/2")
}

func TestVerifyLicense(t *testing.T) {
	backend := platformtest.New()
	mock := mgmttest.New().
		WithOK("system.login").
		WithReply("cluster.listLicenses", mgmt.Licenses{Features: []string{}}).
		WithReply("cluster.listLicenses", mgmt.Licenses{Features: []string{"FlashCloud"}})
	obs := &recordingObserver{}
	c := testCluster(backend, mock, obs, runningInstance("demo-1", "10.0.0.50"))

	require.NoError(t, c.VerifyLicense(context.Background()))
	assert.Equal(t, 2, mock.CallCount("cluster.listLicenses"))
	assert.True(t, obs.logged("Feature FlashCloud enabled."))
}
