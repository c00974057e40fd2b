package handlers

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthHolds(t *testing.T) {
	_, mock := runningStack(t)
	mock.WithOK("system.login").
		WithReply("cluster.maxActiveAlertSeverity", "green")

	output := captureOutput(func() {
		require.NoError(t, Health(context.Background(), Options{}, "yellow", time.Nanosecond))
	})

	assert.Contains(t, output, "Cluster test-cluster held yellow for 1ns")
}

func TestRebalance(t *testing.T) {
	_, mock := runningStack(t)
	mock.WithOK("system.login").
		WithOK("system.enableAPI").
		WithOK("maint.rebalanceDirManagers")

	output := captureOutput(func() {
		require.NoError(t, Rebalance(context.Background(), Options{}))
	})

	assert.Equal(t, []any{"maintenance"}, mock.LastArgs("system.enableAPI"))
	assert.Contains(t, output, "Directory manager rebalance scheduled on cluster test-cluster")
}
