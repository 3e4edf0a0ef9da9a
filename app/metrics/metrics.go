// Package metrics provides Prometheus metrics for the daily pick service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "dailypick"

var (
	// FetchTotal counts source fetches by outcome.
	FetchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetch_total",
			Help:      "Total number of source fetches",
		},
		[]string{"category", "status"},
	)

	// FetchDuration measures fetch, parse and normalize time per source.
	FetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fetch_duration_seconds",
			Help:      "Duration of source ingestion in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"category"},
	)

	// EntriesCollected observes entries kept per source after date filtering.
	EntriesCollected = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "entries_collected",
			Help:      "Distribution of entries kept per source",
			Buckets:   []float64{0, 1, 2, 5, 10, 20, 50},
		},
		[]string{"category"},
	)

	// SelectionsTotal counts selections by winning tier.
	SelectionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "selections_total",
			Help:      "Total number of selections by tier",
		},
		[]string{"tier"},
	)

	// CacheRequestsTotal counts cache lookups by result.
	CacheRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_requests_total",
			Help:      "Total number of result cache lookups",
		},
		[]string{"result"},
	)

	// TranslationsTotal counts translation attempts by outcome.
	TranslationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "translations_total",
			Help:      "Total number of translation attempts",
		},
		[]string{"status"},
	)
)

// RecordFetch records the ingestion of one source.
func RecordFetch(category, status string, entries int, duration float64) {
	FetchTotal.WithLabelValues(category, status).Inc()
	FetchDuration.WithLabelValues(category).Observe(duration)
	EntriesCollected.WithLabelValues(category).Observe(float64(entries))
}

// RecordSelection records the tier that produced a selection.
func RecordSelection(tier string) {
	SelectionsTotal.WithLabelValues(tier).Inc()
}

// RecordCacheHit records a result cache hit.
func RecordCacheHit() {
	CacheRequestsTotal.WithLabelValues("hit").Inc()
}

// RecordCacheMiss records a result cache miss.
func RecordCacheMiss() {
	CacheRequestsTotal.WithLabelValues("miss").Inc()
}

// RecordTranslation records a translation attempt.
func RecordTranslation(status string) {
	TranslationsTotal.WithLabelValues(status).Inc()
}
