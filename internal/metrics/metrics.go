// Package metrics defines Prometheus metrics for the dashboard.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "orgnet_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orgnet_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	ErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orgnet_errors_total",
			Help: "Total errors by code",
		},
		[]string{"code"},
	)

	RendersTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orgnet_renders_total",
			Help: "Total rendered views",
		},
		[]string{"org", "view"},
	)

	RenderDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "orgnet_render_duration_seconds",
			Help:    "Time to truncate, encode and generate a view",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"org", "view"},
	)

	RenderedNodes = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "orgnet_rendered_nodes",
			Help:    "Nodes drawn per rendered view",
			Buckets: prometheus.ExponentialBuckets(10, 2, 8),
		},
		[]string{"org", "view"},
	)

	GraphNodes = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "orgnet_graph_nodes",
			Help: "Nodes in the loaded follow graph",
		},
		[]string{"org"},
	)

	GraphEdges = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "orgnet_graph_edges",
			Help: "Edges in the loaded follow graph",
		},
		[]string{"org"},
	)
)

func init() {
	prometheus.MustRegister(
		RequestDuration, RequestsTotal, ErrorsTotal,
		RendersTotal, RenderDuration, RenderedNodes,
		GraphNodes, GraphEdges,
	)
}
