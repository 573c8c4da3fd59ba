package core

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/mikey/avatar-blocker/internal/cache"
	"github.com/mikey/avatar-blocker/internal/metrics"
)

// RelationshipResolver looks up mutual-relationship facts with a
// bounded-lifetime cache. Unlike the avatar fetcher it does NOT cache lookup
// failures: a stale unavailable avatar is cheap, a frozen unknown
// relationship risks wrongly blocking a followed account, so failures retry
// on the very next observation.
type RelationshipResolver struct {
	graph  SocialGraph
	cache  *cache.TTLStore[RelationshipFacts]
	flight singleflight.Group
	logger *zap.Logger
}

// NewRelationshipResolver creates a new relationship resolver
func NewRelationshipResolver(
	graph SocialGraph,
	store *cache.TTLStore[RelationshipFacts],
	logger *zap.Logger,
) *RelationshipResolver {
	return &RelationshipResolver{
		graph:  graph,
		cache:  store,
		logger: logger,
	}
}

// Resolve returns the relationship facts for an account, or the unknown zero
// value when the lookup fails or returns nothing. Concurrent misses for the
// same account coalesce into a single query.
func (r *RelationshipResolver) Resolve(ctx context.Context, id AccountID) RelationshipFacts {
	if facts, ok := r.cache.Get(string(id)); ok {
		metrics.CacheHits.WithLabelValues("relationship").Inc()
		return facts
	}
	metrics.CacheMisses.WithLabelValues("relationship").Inc()

	v, _, _ := r.flight.Do(string(id), func() (interface{}, error) {
		if facts, ok := r.cache.Get(string(id)); ok {
			return facts, nil
		}

		metrics.RelationshipFetches.Inc()
		records, err := r.graph.Relationships(ctx, id)
		if err != nil {
			r.logger.Error("Failed to fetch relationships",
				zap.String("account_id", string(id)),
				zap.Error(err))
			return RelationshipFacts{}, nil
		}
		if len(records) == 0 {
			r.logger.Warn("Relationship lookup returned no records",
				zap.String("account_id", string(id)))
			return RelationshipFacts{}, nil
		}

		// API variance can return several records; the first is authoritative.
		facts := records[0]
		facts.Known = true
		r.cache.Set(string(id), facts)
		return facts, nil
	})

	return v.(RelationshipFacts)
}
