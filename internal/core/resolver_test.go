package core

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/mikey/avatar-blocker/internal/cache"
)

func newTestResolver(t *testing.T, graph SocialGraph, ttl time.Duration) *RelationshipResolver {
	t.Helper()

	store := cache.NewTTLStore[RelationshipFacts](ttl, 64, 0, nil)
	t.Cleanup(store.Stop)

	return NewRelationshipResolver(graph, store, zap.NewNop())
}

func TestResolveCachesFacts(t *testing.T) {
	graph := &fakeGraph{records: []RelationshipFacts{{Following: true}}}
	r := newTestResolver(t, graph, time.Minute)

	ctx := context.Background()
	facts := r.Resolve(ctx, "42")
	assert.True(t, facts.Known)
	assert.True(t, facts.Following)

	r.Resolve(ctx, "42")
	assert.Equal(t, 1, graph.relCalls, "a cache hit must not query the instance")
}

func TestResolveFirstRecordIsAuthoritative(t *testing.T) {
	graph := &fakeGraph{records: []RelationshipFacts{
		{Following: true},
		{FollowedBy: true},
	}}
	r := newTestResolver(t, graph, time.Minute)

	facts := r.Resolve(context.Background(), "42")
	assert.True(t, facts.Following)
	assert.False(t, facts.FollowedBy)
}

func TestResolveFailureNotCached(t *testing.T) {
	graph := &fakeGraph{relErr: errBoom}
	r := newTestResolver(t, graph, time.Minute)

	ctx := context.Background()
	facts := r.Resolve(ctx, "42")
	assert.False(t, facts.Known)

	// A failure retries on the very next observation instead of freezing
	// "unknown" for the full TTL.
	graph.mu.Lock()
	graph.relErr = nil
	graph.records = []RelationshipFacts{{FollowedBy: true}}
	graph.mu.Unlock()

	facts = r.Resolve(ctx, "42")
	assert.True(t, facts.Known)
	assert.True(t, facts.FollowedBy)
	assert.Equal(t, 2, graph.relCalls)
}

func TestResolveEmptyResultIsUnknown(t *testing.T) {
	graph := &fakeGraph{}
	r := newTestResolver(t, graph, time.Minute)

	facts := r.Resolve(context.Background(), "42")
	assert.False(t, facts.Known)

	r.Resolve(context.Background(), "42")
	assert.Equal(t, 2, graph.relCalls, "an empty result is not cached")
}

func TestResolveExpiredEntryRequeries(t *testing.T) {
	graph := &fakeGraph{records: []RelationshipFacts{{Following: true}}}
	r := newTestResolver(t, graph, 20*time.Millisecond)

	ctx := context.Background()
	r.Resolve(ctx, "42")
	time.Sleep(40 * time.Millisecond)
	r.Resolve(ctx, "42")

	assert.Equal(t, 2, graph.relCalls, "an expired entry triggers exactly one fresh query")
}
