package cluster

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SanatPandey22/AvereSDK/internal/errs"
	"github.com/SanatPandey22/AvereSDK/internal/mgmt"
	"github.com/SanatPandey22/AvereSDK/internal/mgmt/mgmttest"
	"github.com/SanatPandey22/AvereSDK/internal/platform/platformtest"
)

func TestAddVServerAllocatedRange(t *testing.T) {
	backend := platformtest.New()
	mock := mgmttest.New()
	obs := &recordingObserver{}
	c := testCluster(backend, mock, obs,
		runningInstance("demo-1", "10.0.0.50"),
		runningInstance("demo-2", "10.0.0.51"))

	mock.WithOK("system.login").
		WithReply("cluster.get", mgmt.ClusterInfo{
			MgmtIP:     mgmt.AddressAndMask{IP: "10.0.0.5", Netmask: "255.255.255.0"},
			ClusterIPs: []mgmt.NamedRange{{Name: "initial", First: "10.0.0.10", Last: "10.0.0.11", Netmask: "255.255.255.0"}},
		}).
		WithReply("vserver.list", []string{}).
		WithOK("vserver.create")

	err := c.AddVServer(context.Background(), "vs1", VServerOptions{})
	require.NoError(t, err)

	// two nodes want two client addresses, drawn below the occupied block
	assert.Equal(t, []any{"vs1", map[string]string{"firstIP": "10.0.0.1", "lastIP": "10.0.0.2", "netmask": "255.255.255.0"}},
		mock.LastArgs("vserver.create"))
	assert.True(t, obs.logged("Creating vserver vs1 (10.0.0.1-10.0.0.2/255.255.255.0)"))
}

func TestAddVServerExplicitUnderprovisionWarns(t *testing.T) {
	backend := platformtest.New()
	mock := mgmttest.New()
	obs := &recordingObserver{}
	c := testCluster(backend, mock, obs,
		runningInstance("demo-1", "10.0.0.50"),
		runningInstance("demo-2", "10.0.0.51"))

	mock.WithOK("system.login").WithOK("vserver.create")

	err := c.AddVServer(context.Background(), "vs1", VServerOptions{
		StartAddress: "10.0.0.30",
		EndAddress:   "10.0.0.30",
		Netmask:      "255.255.255.0",
	})
	require.NoError(t, err)

	assert.True(t, obs.logged("Adding vserver address range without enough addresses for all nodes"))
	assert.Equal(t, []any{"vs1", map[string]string{"firstIP": "10.0.0.30", "lastIP": "10.0.0.30", "netmask": "255.255.255.0"}},
		mock.LastArgs("vserver.create"))
}

func TestAddVServerInvalidRange(t *testing.T) {
	backend := platformtest.New()
	mock := mgmttest.New()
	c := testCluster(backend, mock, nil, runningInstance("demo-1", "10.0.0.50"))

	err := c.AddVServer(context.Background(), "vs1", VServerOptions{
		StartAddress: "10.0.0.9",
		EndAddress:   "10.0.0.1",
		Netmask:      "255.255.255.0",
	})
	require.Error(t, err)
	assert.True(t, errs.IsConfiguration(err))
	assert.EqualError(t, err, "invalid vserver address range: range 10.0.0.9-10.0.0.1 is inverted")
	assert.Empty(t, mock.Dialed())
}

func TestAddVServerActivityFailure(t *testing.T) {
	backend := platformtest.New()
	mock := mgmttest.New()
	c := testCluster(backend, mock, nil, runningInstance("demo-1", "10.0.0.50"))

	mock.WithOK("system.login").
		WithReply("vserver.create", "act1").
		WithReply("cluster.getActivity", mgmt.Activity{
			ID: "act1", Process: "vserver create",
			State: mgmt.ActivityStateFailure, Status: "address conflict",
		})

	err := c.AddVServer(context.Background(), "vs1", VServerOptions{
		StartAddress: "10.0.0.30",
		EndAddress:   "10.0.0.31",
		Netmask:      "255.255.255.0",
	})
	require.Error(t, err)
	assert.True(t, errs.IsConfiguration(err))
	assert.EqualError(t, err, "failed to create vserver vs1: activity act1 (vserver create) failed: address conflict")
}

func TestAddVServerJunction(t *testing.T) {
	backend := platformtest.New()
	mock := mgmttest.New()
	obs := &recordingObserver{}
	c := testCluster(backend, mock, obs, runningInstance("demo-1", "10.0.0.50"))

	mock.WithOK("system.login").WithOK("vserver.addJunction")

	err := c.AddVServerJunction(context.Background(), "vs1", "wan1", JunctionOptions{})
	require.NoError(t, err)
	assert.Equal(t, []any{"vs1", "/wan1", "wan1", "/", map[string]any{}},
		mock.LastArgs("vserver.addJunction"))
	assert.True(t, obs.logged("Creating junction to wan1 for vserver vs1"))

	err = c.AddVServerJunction(context.Background(), "vs1", "wan1", JunctionOptions{
		Path:   "data",
		Export: "/exports",
		Subdir: "sub1",
	})
	require.NoError(t, err)
	assert.Equal(t, []any{"vs1", "/data", "wan1", "/exports", map[string]any{"subdir": "sub1"}},
		mock.LastArgs("vserver.addJunction"))
}

func TestAddVServerJunctionFailure(t *testing.T) {
	backend := platformtest.New()
	mock := mgmttest.New()
	c := testCluster(backend, mock, nil, runningInstance("demo-1", "10.0.0.50"))

	mock.WithOK("system.login").
		WithError("vserver.addJunction", errors.New("no such export"))

	err := c.AddVServerJunction(context.Background(), "vs1", "wan1", JunctionOptions{Attempts: 1})
	require.Error(t, err)
	assert.True(t, errs.IsConfiguration(err))
	assert.ErrorContains(t, err, "failed to add junction to vs1")
	assert.ErrorContains(t, err, "no such export")
}

// attachScript scripts a clean cloud filer attachment for wan1.
func attachScript(mock *mgmttest.Fake) {
	mock.WithOK("system.login").
		WithReply("corefiler.list", []string{}).
		WithReply("corefiler.list", []string{"wan1"}).
		WithOK("corefiler.createCloudFiler").
		WithReply("corefiler.generateMasterKey", mgmt.MasterKey{ID: "key1", Recovery: "recov"}).
		WithOK("corefiler.activateMasterKey").
		WithReply("corefiler.listExports", map[string][]mgmt.Export{"wan1": {{Path: "/"}}})
}

func TestAttachBucket(t *testing.T) {
	backend := platformtest.New()
	mock := mgmttest.New()
	obs := &recordingObserver{}
	c := testCluster(backend, mock, obs, runningInstance("demo-1", "10.0.0.50"))

	attachScript(mock)

	key, err := c.AttachBucket(context.Background(), "wan1", "demo-bucket", AttachBucketOptions{})
	require.NoError(t, err)
	assert.Equal(t, "key1", key.ID)
	assert.Equal(t, "recov", key.Recovery)

	assert.Contains(t, backend.Ops(), "authorizeBucket demo-bucket")
	assert.Equal(t, []any{"wan1", map[string]string{
		"type":            "cloud",
		"cloudType":       "s3",
		"s3Type":          "s3",
		"bucket":          "demo-bucket",
		"cloudCredential": "cloud-cred",
		"https":           "yes",
		"compressMode":    "LZ4",
		"cryptoMode":      "CBC-AES-256-HMAC-SHA-512",
		"proxy":           "",
		"bucketContents":  "empty",
	}}, mock.LastArgs("corefiler.createCloudFiler"))
	assert.Equal(t, []any{"wan1", "pw"}, mock.LastArgs("corefiler.generateMasterKey"))
	assert.Equal(t, []any{"wan1", "key1", "recov"}, mock.LastArgs("corefiler.activateMasterKey"))
	assert.True(t, obs.logged("Creating corefiler wan1"))
	assert.True(t, obs.logged("https://10.0.0.5/avere/fxt/cloudFilerKeySettings.php"))
}

func TestAttachBucketWaitsForLicense(t *testing.T) {
	backend := platformtest.New()
	mock := mgmttest.New()
	c := testCluster(backend, mock, nil, runningInstance("demo-1", "10.0.0.50"))

	mock.WithOK("system.login").
		WithReply("corefiler.list", []string{}).
		WithReply("corefiler.list", []string{"wan1"}).
		WithFault("corefiler.createCloudFiler", 100, "A FlashCloud license is required before a cloud core filer can be created").
		WithOK("corefiler.createCloudFiler").
		WithReply("corefiler.generateMasterKey", mgmt.MasterKey{ID: "key1", Recovery: "recov"}).
		WithOK("corefiler.activateMasterKey").
		WithReply("corefiler.listExports", map[string][]mgmt.Export{"wan1": {{Path: "/"}}})

	_, err := c.AttachBucket(context.Background(), "wan1", "demo-bucket", AttachBucketOptions{})
	require.NoError(t, err)
	assert.Equal(t, 2, mock.CallCount("corefiler.createCloudFiler"))
}

func TestAttachBucketFatalFault(t *testing.T) {
	backend := platformtest.New()
	mock := mgmttest.New()
	c := testCluster(backend, mock, nil, runningInstance("demo-1", "10.0.0.50"))

	mock.WithOK("system.login").
		WithReply("corefiler.list", []string{}).
		WithFault("corefiler.createCloudFiler", 100, "invalid credential")

	_, err := c.AttachBucket(context.Background(), "wan1", "demo-bucket", AttachBucketOptions{})
	require.Error(t, err)
	assert.ErrorContains(t, err, "management fault 100: invalid credential")
	assert.Equal(t, 1, mock.CallCount("corefiler.createCloudFiler"))
}

func TestAttachBucketExists(t *testing.T) {
	backend := platformtest.New()
	mock := mgmttest.New()
	c := testCluster(backend, mock, nil, runningInstance("demo-1", "10.0.0.50"))

	mock.WithOK("system.login").
		WithReply("corefiler.list", []string{"wan1"})

	_, err := c.AttachBucket(context.Background(), "wan1", "demo-bucket", AttachBucketOptions{})
	require.Error(t, err)
	assert.True(t, errs.IsConfiguration(err))
	assert.EqualError(t, err, "corefiler wan1 exists")
	assert.Zero(t, mock.CallCount("corefiler.createCloudFiler"))
	assert.NotContains(t, backend.Ops(), "authorizeBucket demo-bucket")
}

func TestAttachBucketCryptoDisabled(t *testing.T) {
	backend := platformtest.New()
	mock := mgmttest.New()
	c := testCluster(backend, mock, nil, runningInstance("demo-1", "10.0.0.50"))

	attachScript(mock)

	key, err := c.AttachBucket(context.Background(), "wan1", "demo-bucket", AttachBucketOptions{
		CryptoMode: CryptoModeDisabled,
	})
	require.NoError(t, err)
	assert.Equal(t, mgmt.MasterKey{}, key)
	assert.Zero(t, mock.CallCount("corefiler.generateMasterKey"))
	assert.Zero(t, mock.CallCount("corefiler.activateMasterKey"))
}

func TestAttachBucketRemoveOnFail(t *testing.T) {
	backend := platformtest.New()
	mock := mgmttest.New()
	c := testCluster(backend, mock, nil, runningInstance("demo-1", "10.0.0.50"))

	mock.WithOK("system.login").
		WithOK("system.enableAPI").
		WithReply("corefiler.list", []string{}).
		WithReply("corefiler.list", []string{"wan1"}).
		WithOK("corefiler.createCloudFiler").
		WithReply("corefiler.generateMasterKey", mgmt.MasterKey{ID: "key1", Recovery: "recov"}).
		WithOK("corefiler.activateMasterKey").
		WithReply("corefiler.listExports", map[string][]mgmt.Export{"wan1": {}}).
		WithOK("corefiler.remove").
		WithReply("alert.conditions", []mgmt.Condition{})

	_, err := c.AttachBucket(context.Background(), "wan1", "demo-bucket", AttachBucketOptions{
		RemoveOnFail: true,
	})
	require.Error(t, err)
	assert.EqualError(t, err, "timed out waiting for wan1 exports")
	assert.Equal(t, 600, mock.CallCount("corefiler.listExports"))
	assert.Equal(t, 1, mock.CallCount("corefiler.remove"))
	assert.Equal(t, []any{"maintenance"}, mock.LastArgs("system.enableAPI"))
}

func TestAttachCoreFiler(t *testing.T) {
	backend := platformtest.New()
	mock := mgmttest.New()
	c := testCluster(backend, mock, nil, runningInstance("demo-1", "10.0.0.50"))

	mock.WithOK("system.login").
		WithReply("corefiler.list", []string{}).
		WithReply("corefiler.list", []string{"nas1"}).
		WithOK("corefiler.create").
		WithReply("corefiler.listExports", map[string][]mgmt.Export{"nas1": {{Path: "/data"}}})

	err := c.AttachCoreFiler(context.Background(), "nas1", "localhost", AttachCoreFilerOptions{})
	require.NoError(t, err)
	assert.Equal(t, []any{"nas1", "localhost"}, mock.LastArgs("corefiler.create"))
}

func TestAttachCoreFilerUnknownHost(t *testing.T) {
	backend := platformtest.New()
	mock := mgmttest.New()
	c := testCluster(backend, mock, nil, runningInstance("demo-1", "10.0.0.50"))

	mock.WithOK("system.login").
		WithReply("corefiler.list", []string{})

	err := c.AttachCoreFiler(context.Background(), "nas1", "no-such-host.invalid", AttachCoreFilerOptions{})
	require.Error(t, err)
	assert.True(t, errs.IsConfiguration(err))
	assert.ErrorContains(t, err, "unknown host no-such-host.invalid")
	assert.Zero(t, mock.CallCount("corefiler.create"))
}

func TestRemoveCoreFiler(t *testing.T) {
	backend := platformtest.New()
	mock := mgmttest.New()
	c := testCluster(backend, mock, nil, runningInstance("demo-1", "10.0.0.50"))

	mock.WithOK("system.login").
		WithOK("system.enableAPI").
		WithReply("corefiler.remove", "act1").
		WithReply("cluster.getActivity", mgmt.Activity{
			ID: "act1", Process: "remove corefiler",
			State: mgmt.ActivityStateSuccess, Percent: 100,
		})

	err := c.RemoveCoreFiler(context.Background(), "nas1")
	require.NoError(t, err)
	assert.Equal(t, []any{"maintenance"}, mock.LastArgs("system.enableAPI"))
	assert.Equal(t, []any{"nas1"}, mock.LastArgs("corefiler.remove"))
	assert.Equal(t, 1, mock.CallCount("cluster.getActivity"))
}

func TestMakeTestBucket(t *testing.T) {
	backend := platformtest.New()
	mock := mgmttest.New()
	obs := &recordingObserver{}
	c := testCluster(backend, mock, obs, runningInstance("demo-1", "10.0.0.50"))

	attachScript(mock)

	key, err := c.MakeTestBucket(context.Background(), "", "wan1", AttachBucketOptions{})
	require.NoError(t, err)
	assert.Equal(t, "key1", key.ID)

	buckets := backend.Buckets()
	require.Len(t, buckets, 1)
	assert.True(t, strings.HasPrefix(buckets[0], "demo-"))
	assert.Len(t, buckets[0], 37)

	args := mock.LastArgs("corefiler.createCloudFiler")
	require.Len(t, args, 2)
	body, ok := args[1].(map[string]string)
	require.True(t, ok)
	assert.Equal(t, buckets[0], body["bucket"])
	assert.True(t, obs.logged("Created bucket demo-"))
}
