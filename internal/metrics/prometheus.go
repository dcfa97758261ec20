// Package metrics provides Prometheus metrics for the conversation engine:
// message and intent counts, state transitions, extraction and recovery
// activity, external data fetches, and cache behavior.
package metrics

import (
	"database/sql"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "sofia"

// LatencyBuckets covers the range from sub-millisecond pattern matching to
// multi-second provider calls.
var LatencyBuckets = []float64{
	0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1,
	0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0,
}

var (
	// MessagesProcessed counts processed user messages by primary intent and
	// resulting state.
	MessagesProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_processed_total",
			Help:      "Total user messages processed, by primary intent and resulting state",
		},
		[]string{"intent", "state"},
	)

	// StateTransitions counts state machine transitions.
	StateTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "state_transitions_total",
			Help:      "Total conversation state transitions",
		},
		[]string{"from", "to"},
	)

	// ExtractionHits counts extracted entities by kind.
	ExtractionHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "extraction_hits_total",
			Help:      "Total extracted entities, by kind (destination, budget, dates, interest)",
		},
		[]string{"kind"},
	)

	// RecoveryDetections counts detected conversation issues and the chosen
	// strategy.
	RecoveryDetections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "recovery_detections_total",
			Help:      "Total detected conversation issues, by kind and selected strategy",
		},
		[]string{"kind", "strategy"},
	)

	// ActiveSessions tracks the live session count in the store.
	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_sessions",
			Help:      "Number of sessions currently held by the session store",
		},
	)

	// ProcessLatency tracks end-to-end ProcessMessage latency.
	ProcessLatency = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "process_latency_seconds",
			Help:      "ProcessMessage latency in seconds",
			Buckets:   LatencyBuckets,
		},
	)
)

var (
	// ProviderRequests counts external data provider calls by outcome.
	ProviderRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "provider_requests_total",
			Help:      "Total external data provider requests, by provider and status",
		},
		[]string{"provider", "status"},
	)

	// ProviderLatency tracks external data provider latency.
	ProviderLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "provider_latency_seconds",
			Help:      "External data provider request latency in seconds",
			Buckets:   LatencyBuckets,
		},
		[]string{"provider"},
	)

	// CacheHits counts augmentation cache hits by data class.
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_hits_total",
			Help:      "Total augmentation cache hits, by data class",
		},
		[]string{"class"},
	)

	// CacheMisses counts augmentation cache misses by data class.
	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_misses_total",
			Help:      "Total augmentation cache misses, by data class",
		},
		[]string{"class"},
	)

	// CacheStaleServes counts stale cache entries served after fetch
	// failures.
	CacheStaleServes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_stale_serves_total",
			Help:      "Total stale augmentation cache entries served as fetch fallback, by data class",
		},
		[]string{"class"},
	)

	// AuditPoolConnections tracks the recovery audit database pool.
	AuditPoolConnections = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "audit_pool_connections",
			Help:      "Recovery audit database connection pool, by state",
		},
		[]string{"state"},
	)
)

// RecordMessage records one processed message.
func RecordMessage(intent, state string, latency time.Duration) {
	MessagesProcessed.WithLabelValues(intent, state).Inc()
	ProcessLatency.Observe(latency.Seconds())
}

// RecordTransition records a state change. Self-transitions are counted too;
// they indicate the table kept the conversation in place.
func RecordTransition(from, to string) {
	StateTransitions.WithLabelValues(from, to).Inc()
}

// RecordExtraction records extracted entities of one kind.
func RecordExtraction(kind string, count int) {
	if count > 0 {
		ExtractionHits.WithLabelValues(kind).Add(float64(count))
	}
}

// RecordRecovery records a detected issue and the strategy chosen for it.
func RecordRecovery(kind, strategy string) {
	RecoveryDetections.WithLabelValues(kind, strategy).Inc()
}

// RecordProviderRequest records one provider call with its outcome
// ("ok", "degraded", "error", "throttled").
func RecordProviderRequest(provider, status string, latency time.Duration) {
	ProviderRequests.WithLabelValues(provider, status).Inc()
	ProviderLatency.WithLabelValues(provider).Observe(latency.Seconds())
}

// UpdateAuditPoolStats publishes the recovery audit pool's sql.DBStats.
func UpdateAuditPoolStats(stats sql.DBStats) {
	AuditPoolConnections.WithLabelValues("active").Set(float64(stats.InUse))
	AuditPoolConnections.WithLabelValues("idle").Set(float64(stats.Idle))
	AuditPoolConnections.WithLabelValues("max").Set(float64(stats.MaxOpenConnections))
}
