// Package observability provides metrics capabilities for catalog-mcp.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics namespace for all catalog-mcp metrics.
const metricsNamespace = "catalog_mcp"

// Tool call metrics.
var (
	// ToolCallsTotal counts the total number of tool calls by tool name and status.
	ToolCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "tool_calls_total",
			Help:      "Total number of tool calls",
		},
		[]string{"tool", "status"},
	)

	// ToolCallDuration measures the duration of tool calls in seconds.
	ToolCallDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "tool_call_duration_seconds",
			Help:      "Duration of tool calls in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
		},
		[]string{"tool"},
	)
)

// Resource and prompt metrics.
var (
	// ResourceReadsTotal counts resource reads by URI scheme and status.
	ResourceReadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "resource_reads_total",
			Help:      "Total resource reads",
		},
		[]string{"scheme", "status"},
	)

	// PromptGetsTotal counts prompt renderings by prompt name and status.
	PromptGetsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "prompt_gets_total",
			Help:      "Total prompt renderings",
		},
		[]string{"prompt", "status"},
	)
)

// Upstream catalog metrics.
var (
	// UpstreamRequestsTotal counts catalog API requests by operation and status.
	UpstreamRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "upstream_requests_total",
			Help:      "Total requests to the product catalog API",
		},
		[]string{"operation", "status"},
	)

	// UpstreamRequestDuration measures catalog API request duration in seconds.
	UpstreamRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "upstream_request_duration_seconds",
			Help:      "Duration of product catalog API requests in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
		},
		[]string{"operation"},
	)
)

// Connection metrics.
var (
	// ActiveConnections tracks the number of active MCP connections.
	ActiveConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "active_connections",
			Help:      "Number of active MCP connections",
		},
	)
)

// Error metrics.
var (
	// ErrorsTotal counts total errors by component and error kind.
	ErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "errors_total",
			Help:      "Total errors encountered",
		},
		[]string{"component", "error_kind"},
	)
)

func init() {
	// Register all metrics with the default registry.
	prometheus.MustRegister(
		ToolCallsTotal,
		ToolCallDuration,
		ResourceReadsTotal,
		PromptGetsTotal,
		UpstreamRequestsTotal,
		UpstreamRequestDuration,
		ActiveConnections,
		ErrorsTotal,
	)
}
