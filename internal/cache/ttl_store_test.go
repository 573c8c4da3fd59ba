package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestStore(t *testing.T, ttl time.Duration, capacity int) (*TTLStore[string], *time.Time) {
	t.Helper()

	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	s := NewTTLStore[string](ttl, capacity, 0, nil)
	s.now = func() time.Time { return now }
	t.Cleanup(s.Stop)

	return s, &now
}

func TestTTLStoreGetSet(t *testing.T) {
	s, _ := newTestStore(t, time.Minute, 8)

	_, ok := s.Get("a")
	assert.False(t, ok)

	s.Set("a", "one")
	v, ok := s.Get("a")
	assert.True(t, ok)
	assert.Equal(t, "one", v)
}

func TestTTLStoreExpiry(t *testing.T) {
	s, now := newTestStore(t, time.Minute, 8)

	s.Set("a", "one")

	*now = now.Add(59 * time.Second)
	_, ok := s.Get("a")
	assert.True(t, ok)

	*now = now.Add(2 * time.Second)
	_, ok = s.Get("a")
	assert.False(t, ok, "entry older than its TTL must read as a miss")
}

func TestTTLStoreCleanupRemovesExpired(t *testing.T) {
	s, now := newTestStore(t, time.Minute, 8)

	s.Set("a", "one")
	s.Set("b", "two")

	*now = now.Add(2 * time.Minute)
	s.Set("c", "three")

	s.Cleanup()
	assert.Equal(t, 1, s.Len())

	_, ok := s.Get("c")
	assert.True(t, ok)
}

func TestTTLStoreCapacityEvictsOldest(t *testing.T) {
	s, now := newTestStore(t, time.Hour, 2)

	s.Set("a", "one")
	*now = now.Add(time.Second)
	s.Set("b", "two")
	*now = now.Add(time.Second)
	s.Set("c", "three")

	assert.Equal(t, 2, s.Len())
	_, ok := s.Get("a")
	assert.False(t, ok, "the entry closest to expiry is evicted first")
	_, ok = s.Get("c")
	assert.True(t, ok)
}

func TestTTLStoreSetRefreshesExisting(t *testing.T) {
	s, now := newTestStore(t, time.Minute, 2)

	s.Set("a", "one")
	*now = now.Add(50 * time.Second)
	s.Set("a", "two")
	*now = now.Add(30 * time.Second)

	v, ok := s.Get("a")
	assert.True(t, ok)
	assert.Equal(t, "two", v)
}
