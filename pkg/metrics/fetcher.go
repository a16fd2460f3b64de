package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// FetcherMetrics records per-brand query and aggregation metadata.
type FetcherMetrics struct {
	fetchDuration *prometheus.HistogramVec
	fetchFailures *prometheus.CounterVec
	aggDuration   *prometheus.HistogramVec
	cacheHits     *prometheus.CounterVec
}

// NewFetcherMetrics registers the fetcher metrics on the provided registerer.
func NewFetcherMetrics(reg prometheus.Registerer) *FetcherMetrics {
	if reg == nil {
		return &FetcherMetrics{}
	}
	fetchDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "fetch_duration_seconds",
		Help:    "Duration of per-brand metric fetches in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"query", "brand"})
	fetchFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "fetch_failures_total",
		Help: "Per-brand metric fetches that returned an error.",
	}, []string{"query", "brand"})
	aggDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "aggregation_duration_seconds",
		Help:    "Duration of cross-brand aggregations in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"kind"})
	cacheHits := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "fetch_cache_hits_total",
		Help: "Per-brand fetches served from the cache.",
	}, []string{"query", "brand"})
	reg.MustRegister(fetchDuration, fetchFailures, aggDuration, cacheHits)
	return &FetcherMetrics{
		fetchDuration: fetchDuration,
		fetchFailures: fetchFailures,
		aggDuration:   aggDuration,
		cacheHits:     cacheHits,
	}
}

// ObserveFetch records the duration of a single brand fetch.
func (f *FetcherMetrics) ObserveFetch(query, brand string, duration time.Duration) {
	if f == nil || f.fetchDuration == nil {
		return
	}
	f.fetchDuration.WithLabelValues(normalizeLabel(query), normalizeLabel(brand)).Observe(duration.Seconds())
}

// IncFetchFailure increments the failure counter for a brand fetch.
func (f *FetcherMetrics) IncFetchFailure(query, brand string) {
	if f == nil || f.fetchFailures == nil {
		return
	}
	f.fetchFailures.WithLabelValues(normalizeLabel(query), normalizeLabel(brand)).Inc()
}

// ObserveAggregation records the duration of a cross-brand aggregation.
func (f *FetcherMetrics) ObserveAggregation(kind string, duration time.Duration) {
	if f == nil || f.aggDuration == nil {
		return
	}
	f.aggDuration.WithLabelValues(normalizeLabel(kind)).Observe(duration.Seconds())
}

// IncCacheHit increments the cache-hit counter for a brand fetch.
func (f *FetcherMetrics) IncCacheHit(query, brand string) {
	if f == nil || f.cacheHits == nil {
		return
	}
	f.cacheHits.WithLabelValues(normalizeLabel(query), normalizeLabel(brand)).Inc()
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
