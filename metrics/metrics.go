// Package metrics exposes Prometheus metrics for fetches, resolution,
// load cycles, the snapshot cache and the HTTP API.
//
// All Record* methods are safe on a nil *Registry, so components can be
// built without metrics in tests.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds all metrics for the application
type Registry struct {
	registry *prometheus.Registry

	// Fetch metrics
	PagesFetchedTotal   *prometheus.CounterVec
	FetchRetriesTotal   *prometheus.CounterVec
	FetchFailuresTotal  *prometheus.CounterVec
	RecordsDroppedTotal *prometheus.CounterVec

	// Resolution metrics
	ConnectionsResolvedTotal   *prometheus.CounterVec
	ConnectionsUnresolvedTotal prometheus.Counter

	// Load cycle metrics
	CycleDuration        *prometheus.HistogramVec
	CyclesTotal          *prometheus.CounterVec
	LastSuccessTimestamp prometheus.Gauge
	SnapshotStations     prometheus.Gauge
	SnapshotPairs        prometheus.Gauge
	CacheOperationsTotal *prometheus.CounterVec

	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

// NewRegistry creates a new metrics registry with all metrics initialized
func NewRegistry() *Registry {
	r := &Registry{registry: prometheus.NewRegistry()}
	r.initFetchMetrics()
	r.initCycleMetrics()
	r.initHTTPMetrics()
	return r
}

func (r *Registry) initFetchMetrics() {
	f := promauto.With(r.registry)
	r.PagesFetchedTotal = f.NewCounterVec(prometheus.CounterOpts{
		Name: "tgvmax_pages_fetched_total",
		Help: "Open-data pages fetched successfully",
	}, []string{"dataset"})
	r.FetchRetriesTotal = f.NewCounterVec(prometheus.CounterOpts{
		Name: "tgvmax_fetch_retries_total",
		Help: "Page requests retried after a transient failure",
	}, []string{"dataset"})
	r.FetchFailuresTotal = f.NewCounterVec(prometheus.CounterOpts{
		Name: "tgvmax_fetch_failures_total",
		Help: "Page requests that failed after all attempts",
	}, []string{"dataset", "page"})
	r.RecordsDroppedTotal = f.NewCounterVec(prometheus.CounterOpts{
		Name: "tgvmax_records_dropped_total",
		Help: "Malformed records dropped at ingestion",
	}, []string{"dataset"})
	r.ConnectionsResolvedTotal = f.NewCounterVec(prometheus.CounterOpts{
		Name: "tgvmax_connections_resolved_total",
		Help: "Connections resolved, by weakest endpoint match",
	}, []string{"match"})
	r.ConnectionsUnresolvedTotal = f.NewCounter(prometheus.CounterOpts{
		Name: "tgvmax_connections_unresolved_total",
		Help: "Connections with at least one unresolved endpoint",
	})
}

func (r *Registry) initCycleMetrics() {
	f := promauto.With(r.registry)
	r.CycleDuration = f.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "tgvmax_load_cycle_duration_seconds",
		Help:    "Duration of a full load cycle",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120},
	}, []string{"source"})
	r.CyclesTotal = f.NewCounterVec(prometheus.CounterOpts{
		Name: "tgvmax_load_cycles_total",
		Help: "Load cycles by outcome",
	}, []string{"status"})
	r.LastSuccessTimestamp = f.NewGauge(prometheus.GaugeOpts{
		Name: "tgvmax_last_success_timestamp_seconds",
		Help: "Unix time of the last published snapshot",
	})
	r.SnapshotStations = f.NewGauge(prometheus.GaugeOpts{
		Name: "tgvmax_snapshot_stations",
		Help: "Stations in the published snapshot",
	})
	r.SnapshotPairs = f.NewGauge(prometheus.GaugeOpts{
		Name: "tgvmax_snapshot_pairs",
		Help: "Connection pairs in the published snapshot",
	})
	r.CacheOperationsTotal = f.NewCounterVec(prometheus.CounterOpts{
		Name: "tgvmax_cache_operations_total",
		Help: "Snapshot cache operations by result",
	}, []string{"op", "result"})
}

func (r *Registry) initHTTPMetrics() {
	f := promauto.With(r.registry)
	r.HTTPRequestsTotal = f.NewCounterVec(prometheus.CounterOpts{
		Name: "tgvmax_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
	r.HTTPRequestDuration = f.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "tgvmax_http_request_duration_seconds",
		Help:    "HTTP request latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

