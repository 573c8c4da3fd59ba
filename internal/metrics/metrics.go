package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

var EventsSeen = promauto.NewCounter(prometheus.CounterOpts{
	Name: "avatarblocker_events_seen_total",
	Help: "Number of observation events received from all sources.",
})

var EventsSkipped = promauto.NewCounter(prometheus.CounterOpts{
	Name: "avatarblocker_events_skipped_total",
	Help: "Number of events discarded for missing identity or allowlisted account.",
})

var CacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "avatarblocker_cache_hits_total",
	Help: "Number of cache hits, by cache.",
}, []string{"cache"})

var CacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "avatarblocker_cache_misses_total",
	Help: "Number of cache misses, by cache.",
}, []string{"cache"})

var AvatarFetches = promauto.NewCounter(prometheus.CounterOpts{
	Name: "avatarblocker_avatar_fetches_total",
	Help: "Number of avatar download attempts.",
})

var RelationshipFetches = promauto.NewCounter(prometheus.CounterOpts{
	Name: "avatarblocker_relationship_fetches_total",
	Help: "Number of relationship lookups against the instance.",
})

var ClassifierCalls = promauto.NewCounter(prometheus.CounterOpts{
	Name: "avatarblocker_classifier_calls_total",
	Help: "Number of classifier invocations.",
})

var ClassifierFailures = promauto.NewCounter(prometheus.CounterOpts{
	Name: "avatarblocker_classifier_failures_total",
	Help: "Number of failed classifier invocations.",
})

var Actions = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "avatarblocker_actions_total",
	Help: "Number of policy decisions, by action.",
}, []string{"action"})

// ListenAndServe exposes /metrics on addr. Runs until the process exits.
func ListenAndServe(addr string, logger *zap.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	logger.Info("Serving metrics", zap.String("address", addr))
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Error("Metrics listener failed", zap.Error(err))
	}
}
