package metrics

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SanatPandey22/AvereSDK/internal/cluster"
	"github.com/SanatPandey22/AvereSDK/internal/mgmt"
)

func TestRecordOperation(t *testing.T) {
	operationsTotal.Reset()
	operationDuration.Reset()

	RecordOperation("create", "success", 920.5)

	counter, err := operationsTotal.GetMetricWithLabelValues("create", "success")
	assert.NoError(t, err)
	assert.Equal(t, float64(1), testutil.ToFloat64(counter))

	RecordOperation("create", "error", 12.0)

	errorCounter, err := operationsTotal.GetMetricWithLabelValues("create", "error")
	assert.NoError(t, err)
	assert.Equal(t, float64(1), testutil.ToFloat64(errorCounter))
}

func TestRecordRPC(t *testing.T) {
	rpcCallsTotal.Reset()
	rpcLatency.Reset()

	RecordRPC("cluster.get", "success", 0.05)
	RecordRPC("cluster.get", "success", 0.07)

	counter, err := rpcCallsTotal.GetMetricWithLabelValues("cluster.get", "success")
	assert.NoError(t, err)
	assert.Equal(t, float64(2), testutil.ToFloat64(counter))

	// Verify the latency metric exists with the label
	_, err = rpcLatency.GetMetricWithLabelValues("cluster.get")
	assert.NoError(t, err)
}

type recordingObserver struct {
	events []cluster.Event
	polls  int
	lines  []string
}

func (r *recordingObserver) Printf(format string, v ...interface{}) {
	r.lines = append(r.lines, fmt.Sprintf(format, v...))
}

func (r *recordingObserver) Event(event cluster.Event) {
	r.events = append(r.events, event)
}

func (r *recordingObserver) Progress(phase string, current, total int) {
	r.polls++
}

func TestObserverCountsAndForwards(t *testing.T) {
	eventsTotal.Reset()
	pollsTotal.Reset()

	inner := &recordingObserver{}
	o := NewObserver(inner)

	o.Event(cluster.Event{Type: cluster.EventPhaseStarted, Phase: "provisioning"})
	o.Progress("joining", 1, 3)
	o.Progress("joining", 2, 3)
	o.Printf("management address is %s", "10.0.0.5")

	counter, err := eventsTotal.GetMetricWithLabelValues(string(cluster.EventPhaseStarted))
	assert.NoError(t, err)
	assert.Equal(t, float64(1), testutil.ToFloat64(counter))

	polls, err := pollsTotal.GetMetricWithLabelValues("joining")
	assert.NoError(t, err)
	assert.Equal(t, float64(2), testutil.ToFloat64(polls))

	assert.Len(t, inner.events, 1)
	assert.Equal(t, 2, inner.polls)
	assert.Equal(t, []string{"management address is 10.0.0.5"}, inner.lines)
}

type fakeTransport struct {
	err    error
	calls  []string
	closed bool
}

func (f *fakeTransport) Call(ctx context.Context, method string, args []any, reply any) error {
	f.calls = append(f.calls, method)
	return f.err
}

func (f *fakeTransport) Close() error {
	f.closed = true
	return nil
}

func TestTransportRecordsCalls(t *testing.T) {
	rpcCallsTotal.Reset()
	rpcLatency.Reset()

	inner := &fakeTransport{}
	dial := InstrumentDialer(func(ctx context.Context, address string) (mgmt.Transport, error) {
		return inner, nil
	})

	tr, err := dial(context.Background(), "10.0.0.5")
	require.NoError(t, err)

	require.NoError(t, tr.Call(context.Background(), "node.list", nil, nil))

	counter, err := rpcCallsTotal.GetMetricWithLabelValues("node.list", "success")
	assert.NoError(t, err)
	assert.Equal(t, float64(1), testutil.ToFloat64(counter))
	assert.Equal(t, []string{"node.list"}, inner.calls)

	inner.err = fmt.Errorf("gateway timeout")
	require.Error(t, tr.Call(context.Background(), "node.list", nil, nil))

	errorCounter, err := rpcCallsTotal.GetMetricWithLabelValues("node.list", "error")
	assert.NoError(t, err)
	assert.Equal(t, float64(1), testutil.ToFloat64(errorCounter))

	require.NoError(t, tr.Close())
	assert.True(t, inner.closed)
}

func TestTransportDialErrorPassesThrough(t *testing.T) {
	dial := InstrumentDialer(func(ctx context.Context, address string) (mgmt.Transport, error) {
		return nil, fmt.Errorf("connection refused")
	})

	_, err := dial(context.Background(), "10.0.0.5")
	assert.Error(t, err)
}

func TestHandlerServesRegistry(t *testing.T) {
	RecordOperation("status", "success", 0.1)

	srv := httptest.NewServer(Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "vfxt_cluster_operations_total")
}

func TestServeStopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- Serve(ctx, "127.0.0.1:0") }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("serve did not stop after cancel")
	}
}
