package metrics

import (
	"strconv"
	"time"
)

// RecordPage records a successfully fetched page
func (r *Registry) RecordPage(dataset string) {
	if r == nil {
		return
	}
	r.PagesFetchedTotal.WithLabelValues(dataset).Inc()
}

// RecordRetry records a retried page request
func (r *Registry) RecordRetry(dataset string) {
	if r == nil {
		return
	}
	r.FetchRetriesTotal.WithLabelValues(dataset).Inc()
}

// RecordFetchFailure records a page that failed after all attempts.
// Page numbers above one are grouped to keep label cardinality low.
func (r *Registry) RecordFetchFailure(dataset string, page int) {
	if r == nil {
		return
	}
	label := "first"
	if page > 1 {
		label = "later"
	}
	r.FetchFailuresTotal.WithLabelValues(dataset, label).Inc()
}

// RecordDropped records malformed records dropped at ingestion
func (r *Registry) RecordDropped(dataset string, n int) {
	if r == nil || n <= 0 {
		return
	}
	r.RecordsDroppedTotal.WithLabelValues(dataset).Add(float64(n))
}

// RecordResolution records resolution counts by match kind
func (r *Registry) RecordResolution(byMatch map[string]int, unresolved int) {
	if r == nil {
		return
	}
	for m, n := range byMatch {
		r.ConnectionsResolvedTotal.WithLabelValues(m).Add(float64(n))
	}
	r.ConnectionsUnresolvedTotal.Add(float64(unresolved))
}

// RecordCycle records the outcome of a load cycle
func (r *Registry) RecordCycle(source string, err error, duration time.Duration) {
	if r == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	r.CyclesTotal.WithLabelValues(status).Inc()
	r.CycleDuration.WithLabelValues(source).Observe(duration.Seconds())
}

// RecordPublished records the size of a newly published snapshot
func (r *Registry) RecordPublished(at time.Time, stations, pairs int) {
	if r == nil {
		return
	}
	r.LastSuccessTimestamp.Set(float64(at.Unix()))
	r.SnapshotStations.Set(float64(stations))
	r.SnapshotPairs.Set(float64(pairs))
}

// RecordCache records a cache get or put with its result (hit, miss, ok, error)
func (r *Registry) RecordCache(op, result string) {
	if r == nil {
		return
	}
	r.CacheOperationsTotal.WithLabelValues(op, result).Inc()
}

// RecordHTTPRequest records an HTTP request with its duration
func (r *Registry) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	if r == nil {
		return
	}
	r.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	r.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}
