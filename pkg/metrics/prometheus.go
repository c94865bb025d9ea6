package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all prometheus metrics for the assistant pipeline.
type Metrics struct {
	RequestsTotal     *prometheus.CounterVec
	ProviderRequests  *prometheus.CounterVec
	ProviderFailures  *prometheus.CounterVec
	ProviderLatency   *prometheus.HistogramVec
	CacheHits         prometheus.Counter
	CacheMisses       prometheus.Counter
	RecordsEnhanced   prometheus.Counter
	RecordsPersisted  prometheus.Counter
	DuplicatesSkipped prometheus.Counter
}

// New registers and returns the metric set under the given namespace.
func New(namespace string) *Metrics {
	return &Metrics{
		RequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chat_requests_total",
			Help:      "Chat requests handled, labelled by resolved intent",
		}, []string{"intent"}),
		ProviderRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "provider_requests_total",
			Help:      "Outbound provider calls",
		}, []string{"provider"}),
		ProviderFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "provider_failures_total",
			Help:      "Failed provider calls, labelled by error kind",
		}, []string{"provider", "kind"}),
		ProviderLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "provider_latency_seconds",
			Help:      "Round-trip latency of provider calls",
			Buckets:   prometheus.DefBuckets,
		}, []string{"provider"}),
		CacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_hits_total",
			Help:      "Query fingerprint cache hits",
		}),
		CacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_misses_total",
			Help:      "Query fingerprint cache misses",
		}),
		RecordsEnhanced: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_enhanced_total",
			Help:      "Records with at least one AI-filled field",
		}),
		RecordsPersisted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_persisted_total",
			Help:      "Offers saved to the store",
		}),
		DuplicatesSkipped: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "duplicates_skipped_total",
			Help:      "Offers skipped because the id already existed",
		}),
	}
}
