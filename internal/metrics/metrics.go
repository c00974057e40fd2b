// Package metrics exposes Prometheus instrumentation for cluster
// operations, the management RPC channel, and poll loops. Collection is
// always on; the HTTP endpoint only runs when a listen address is
// configured.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Registry holds every collector this package registers. Served by
// Serve; usable directly by embedders.
var Registry = prometheus.NewRegistry()

var (
	// Operation metrics
	operationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "vfxt",
			Subsystem: "cluster",
			Name:      "operations_total",
			Help:      "Total number of cluster operations by result",
		},
		[]string{"operation", "result"},
	)

	operationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "vfxt",
			Subsystem: "cluster",
			Name:      "operation_duration_seconds",
			Help:      "Duration of cluster operations in seconds",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 12), // 1s to ~34min
		},
		[]string{"operation"},
	)

	eventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "vfxt",
			Subsystem: "cluster",
			Name:      "events_total",
			Help:      "Total number of orchestration events by type",
		},
		[]string{"type"},
	)

	pollsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "vfxt",
			Subsystem: "cluster",
			Name:      "polls_total",
			Help:      "Total number of progress polls by phase",
		},
		[]string{"phase"},
	)

	// Management channel metrics
	rpcCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "vfxt",
			Subsystem: "mgmt",
			Name:      "rpc_calls_total",
			Help:      "Total number of management RPC calls by method and result",
		},
		[]string{"method", "result"},
	)

	rpcLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "vfxt",
			Subsystem: "mgmt",
			Name:      "rpc_latency_seconds",
			Help:      "Latency of management RPC calls in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 10), // 10ms to ~5s
		},
		[]string{"method"},
	)
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		operationsTotal,
		operationDuration,
		eventsTotal,
		pollsTotal,
		rpcCallsTotal,
		rpcLatency,
	)
}

// RecordOperation records one finished cluster operation.
func RecordOperation(operation, result string, seconds float64) {
	operationsTotal.WithLabelValues(operation, result).Inc()
	operationDuration.WithLabelValues(operation).Observe(seconds)
}

// RecordEvent records an orchestration event.
func RecordEvent(eventType string) {
	eventsTotal.WithLabelValues(eventType).Inc()
}

// RecordPoll records one progress poll for a phase.
func RecordPoll(phase string) {
	pollsTotal.WithLabelValues(phase).Inc()
}

// RecordRPC records one management RPC call.
func RecordRPC(method, result string, seconds float64) {
	rpcCallsTotal.WithLabelValues(method, result).Inc()
	rpcLatency.WithLabelValues(method).Observe(seconds)
}
