package mgmt_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SanatPandey22/AvereSDK/internal/errs"
	"github.com/SanatPandey22/AvereSDK/internal/mgmt"
	"github.com/SanatPandey22/AvereSDK/internal/mgmt/mgmttest"
	"github.com/SanatPandey22/AvereSDK/internal/util/netutil"
	"github.com/SanatPandey22/AvereSDK/internal/util/retry"
)

func TestClientLoginEncodesCredentials(t *testing.T) {
	t.Parallel()

	fake := mgmttest.New().WithOK("system.login")
	c := mgmt.NewClient(fake)

	err := c.Login(context.Background(), "admin", "s3cret!")
	require.NoError(t, err)

	args := fake.LastArgs("system.login")
	require.Len(t, args, 2)
	assert.Equal(t, "YWRtaW4=", args[0])
	assert.Equal(t, "czNjcmV0IQ==", args[1])
}

func TestClusterGetDecodesReply(t *testing.T) {
	t.Parallel()

	want := mgmt.ClusterInfo{
		Name:        "prod",
		MgmtIP:      mgmt.AddressAndMask{IP: "10.0.0.5", Netmask: "255.255.255.0"},
		ActiveImage: "V5.3.6.1",
	}
	fake := mgmttest.New().WithReply("cluster.get", want)
	c := mgmt.NewClient(fake)

	got, err := c.Cluster().Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestNodeRenamePassesBothNames(t *testing.T) {
	t.Parallel()

	fake := mgmttest.New().WithOK("node.rename")
	c := mgmt.NewClient(fake)

	require.NoError(t, c.Node().Rename(context.Background(), "node-1", "prod-1"))
	assert.Equal(t, []any{"node-1", "prod-1"}, fake.LastArgs("node.rename"))
}

func TestNodeGetUnwrapsNameKeyedReply(t *testing.T) {
	t.Parallel()

	fake := mgmttest.New().
		WithReply("node.get", map[string]mgmt.NodeInfo{
			"prod-1": {ID: "id-1", Name: "prod-1", State: "up"},
		}).
		WithReply("node.get", map[string]mgmt.NodeInfo{})
	c := mgmt.NewClient(fake)

	got, err := c.Node().Get(context.Background(), "prod-1")
	require.NoError(t, err)
	assert.Equal(t, mgmt.NodeInfo{ID: "id-1", Name: "prod-1", State: "up"}, got)

	_, err = c.Node().Get(context.Background(), "prod-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty node.get reply")
}

func TestVServerGetTakesNameFromReplyKey(t *testing.T) {
	t.Parallel()

	fake := mgmttest.New().
		WithReply("vserver.get", map[string]mgmt.VServerInfo{
			"vs1": {ClientFacingIPs: []mgmt.NamedRange{{Name: "client1", First: "10.0.0.30", Last: "10.0.0.31", Netmask: "255.255.255.0"}}},
		})
	c := mgmt.NewClient(fake)

	got, err := c.VServer().Get(context.Background(), "vs1")
	require.NoError(t, err)
	assert.Equal(t, "vs1", got.Name)
	require.Len(t, got.ClientFacingIPs, 1)
	assert.Equal(t, "client1", got.ClientFacingIPs[0].Name)
}

func TestAddClusterIPsSendsRangeBody(t *testing.T) {
	t.Parallel()

	fake := mgmttest.New().WithOK("cluster.addClusterIPs")
	c := mgmt.NewClient(fake)

	err := c.Cluster().AddClusterIPs(context.Background(), netutil.Range{
		First: "10.0.0.8", Last: "10.0.0.9", Netmask: "255.255.255.0",
	})
	require.NoError(t, err)
	assert.Equal(t, []any{map[string]string{
		"firstIP": "10.0.0.8", "lastIP": "10.0.0.9", "netmask": "255.255.255.0",
	}}, fake.LastArgs("cluster.addClusterIPs"))
}

func TestListExportsUnwrapsFilerKey(t *testing.T) {
	t.Parallel()

	fake := mgmttest.New().
		WithReply("corefiler.listExports", map[string][]mgmt.Export{
			"wan1": {{Path: "/"}, {Path: "/data"}},
		})
	c := mgmt.NewClient(fake)

	exports, err := c.CoreFiler().ListExports(context.Background(), "wan1")
	require.NoError(t, err)
	require.Len(t, exports, 2)
	assert.Equal(t, "/data", exports[1].Path)
}

func TestFaultClassification(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		err     error
		shelve  bool
		rebal   bool
		license bool
	}{
		{
			name:   "shelve unsupported",
			err:    &mgmt.Fault{Code: 108, Message: "Unsupported operation"},
			shelve: true,
		},
		{
			name:  "rebalance already scheduled",
			err:   &mgmt.Fault{Code: 103, Message: "scheduled"},
			rebal: true,
		},
		{
			name:  "legacy rebalance alias",
			err:   &mgmt.Fault{Code: 100, Message: "A directory manager rebalance operation is already scheduled"},
			rebal: true,
		},
		{
			name:    "license not ready",
			err:     &mgmt.Fault{Code: 100, Message: "This cluster is not licensed for cloud core filers. A FlashCloud license is required."},
			license: true,
		},
		{
			name:    "wrapped fault still matches",
			err:     fmt.Errorf("attach failed: %w", &mgmt.Fault{Code: 100, Message: "A FlashCloud license is required"}),
			license: true,
		},
		{
			name: "general fault without discriminator is not benign",
			err:  &mgmt.Fault{Code: 100, Message: "internal error"},
		},
		{
			name: "plain error is never benign",
			err:  errors.New("connection reset"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.shelve, mgmt.IsShelveUnsupported(tt.err))
			assert.Equal(t, tt.rebal, mgmt.IsRebalanceAlreadyScheduled(tt.err))
			assert.Equal(t, tt.license, mgmt.IsLicenseNotReady(tt.err))
		})
	}
}

func TestWaitActivityShortCircuitsSyncTokens(t *testing.T) {
	t.Parallel()

	fake := mgmttest.New()
	c := mgmt.NewClient(fake)

	require.NoError(t, mgmt.WaitActivity(context.Background(), c, ""))
	require.NoError(t, mgmt.WaitActivity(context.Background(), c, mgmt.ActivitySuccessToken))
	assert.Zero(t, fake.CallCount("cluster.getActivity"))
}

func TestWaitActivityPollsUntilSuccess(t *testing.T) {
	t.Parallel()

	fake := mgmttest.New().
		WithReply("cluster.getActivity", mgmt.Activity{ID: "a-1", Process: "HA enable", Status: "running", Percent: 40}).
		WithReply("cluster.getActivity", mgmt.Activity{ID: "a-1", Process: "HA enable", Status: "running", Percent: 90}).
		WithReply("cluster.getActivity", mgmt.Activity{ID: "a-1", Process: "HA enable", State: mgmt.ActivityStateSuccess})
	c := mgmt.NewClient(fake)

	err := mgmt.WaitActivity(context.Background(), c, "a-1", retry.WithInterval(0))
	require.NoError(t, err)
	assert.Equal(t, 3, fake.CallCount("cluster.getActivity"))
}

func TestWaitActivitySwallowsTransientQueryErrors(t *testing.T) {
	t.Parallel()

	fake := mgmttest.New().
		WithError("cluster.getActivity", errors.New("connection reset")).
		WithReply("cluster.getActivity", mgmt.Activity{ID: "a-2", State: mgmt.ActivityStateSuccess})
	c := mgmt.NewClient(fake)

	err := mgmt.WaitActivity(context.Background(), c, "a-2", retry.WithInterval(0))
	require.NoError(t, err)
	assert.Equal(t, 2, fake.CallCount("cluster.getActivity"))
}

func TestWaitActivityFailureAbortsImmediately(t *testing.T) {
	t.Parallel()

	fake := mgmttest.New().
		WithReply("cluster.getActivity", mgmt.Activity{ID: "a-3", Process: "add nodes", Status: "node join failed", State: mgmt.ActivityStateFailure})
	c := mgmt.NewClient(fake)

	err := mgmt.WaitActivity(context.Background(), c, "a-3", retry.WithInterval(0))
	require.Error(t, err)
	assert.Equal(t, 1, fake.CallCount("cluster.getActivity"), "failed activities must not consume further budget")

	var task errs.TaskError
	require.ErrorAs(t, err, &task)
	assert.Contains(t, task.Description, "node join failed")
}

func TestWaitActivityExhaustsBudget(t *testing.T) {
	t.Parallel()

	fake := mgmttest.New().
		WithReply("cluster.getActivity", mgmt.Activity{ID: "a-4", Process: "upgrade", Status: "downloading"})
	c := mgmt.NewClient(fake)

	err := mgmt.WaitActivity(context.Background(), c, "a-4", retry.WithAttempts(5), retry.WithInterval(0))
	require.Error(t, err)
	assert.Equal(t, 5, fake.CallCount("cluster.getActivity"))
	assert.Contains(t, err.Error(), "still running")
}

func TestFakeRejectsUnscriptedCalls(t *testing.T) {
	t.Parallel()

	c := mgmt.NewClient(mgmttest.New())
	_, err := c.Node().List(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unscripted")
}
