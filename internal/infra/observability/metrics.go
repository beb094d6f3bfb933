package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

// Metrics holds the Prometheus metrics for the console client.
type Metrics struct {
	// Registry is the Prometheus registry that owns these metrics.
	// Exposed so the local debug /metrics endpoint can serve it.
	Registry *prometheus.Registry

	requestDuration *prometheus.HistogramVec
	apiErrors       *prometheus.CounterVec
	storeActions    *prometheus.CounterVec
	cacheHits       *prometheus.CounterVec
	cacheMisses     *prometheus.CounterVec
	pollTicks       prometheus.Counter
}

// SyncStats is the cumulative client-side summary shown by the
// `ascend stats` command.
type SyncStats struct {
	APIErrors    float64
	StoreActions float64
	ActionErrors float64
	ErrorRate    float64
	CacheHitRate float64
	PollTicks    float64
}

// NewMetrics creates a dedicated Prometheus registry and registers all
// client metrics in it. Using a private registry avoids "duplicate
// collector" panics when NewMetrics is called more than once (e.g. in
// tests).
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ascend_request_duration_seconds",
				Help:    "Duration of API requests by operation.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		apiErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ascend_api_errors_total",
				Help: "Total failed API requests by operation and class.",
			},
			[]string{"operation", "class"},
		),
		storeActions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ascend_store_actions_total",
				Help: "Total store actions by store, action and outcome.",
			},
			[]string{"store", "action", "outcome"},
		),
		cacheHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ascend_cache_hits_total",
				Help: "Total cache hits.",
			},
			[]string{"cache"},
		),
		cacheMisses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ascend_cache_misses_total",
				Help: "Total cache misses.",
			},
			[]string{"cache"},
		),
		pollTicks: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "ascend_poll_ticks_total",
				Help: "Total automatic refresh ticks issued by the status watcher.",
			},
		),
	}
}

// RecordRequestDuration records the duration of an API operation.
func (m *Metrics) RecordRequestDuration(operation string, d time.Duration) {
	m.requestDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// IncrAPIError counts a failed API request. class is "network" for
// status-0 failures, "http" otherwise.
func (m *Metrics) IncrAPIError(operation, class string) {
	m.apiErrors.WithLabelValues(operation, class).Inc()
}

// IncrStoreAction counts a completed store action.
func (m *Metrics) IncrStoreAction(store, action, outcome string) {
	m.storeActions.WithLabelValues(store, action, outcome).Inc()
}

// IncrCacheHit increments the cache hit counter.
func (m *Metrics) IncrCacheHit(cache string) {
	m.cacheHits.WithLabelValues(cache).Inc()
}

// IncrCacheMiss increments the cache miss counter.
func (m *Metrics) IncrCacheMiss(cache string) {
	m.cacheMisses.WithLabelValues(cache).Inc()
}

// IncrPollTick counts one automatic refresh issued by the watcher.
func (m *Metrics) IncrPollTick() {
	m.pollTicks.Inc()
}

// Snapshot gathers the cumulative counter values for display.
func (m *Metrics) Snapshot() SyncStats {
	stats := SyncStats{
		PollTicks: counterValue(m.pollTicks),
	}

	families, err := m.Registry.Gather()
	if err != nil {
		return stats
	}

	var hits, misses float64
	for _, fam := range families {
		for _, metric := range fam.GetMetric() {
			v := metric.GetCounter().GetValue()
			switch fam.GetName() {
			case "ascend_api_errors_total":
				stats.APIErrors += v
			case "ascend_store_actions_total":
				stats.StoreActions += v
				for _, l := range metric.GetLabel() {
					if l.GetName() == "outcome" && l.GetValue() == "error" {
						stats.ActionErrors += v
					}
				}
			case "ascend_cache_hits_total":
				hits += v
			case "ascend_cache_misses_total":
				misses += v
			}
		}
	}

	if stats.StoreActions > 0 {
		stats.ErrorRate = stats.ActionErrors / stats.StoreActions
	}
	if hits+misses > 0 {
		stats.CacheHitRate = hits / (hits + misses)
	}
	return stats
}

// counterValue extracts the current value from a plain counter.
func counterValue(c prometheus.Counter) float64 {
	m := &dto.Metric{}
	if err := c.Write(m); err != nil {
		return 0
	}
	if m.Counter != nil && m.Counter.Value != nil {
		return *m.Counter.Value
	}
	return 0
}
