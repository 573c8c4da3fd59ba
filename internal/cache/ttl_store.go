package cache

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// TTLStore is an in-memory store whose entries expire a fixed duration after
// insertion. Expired entries are treated as absent on Get and swept by a
// background cleanup task. Lock scope is limited to map access; callers must
// not hold blocking operations inside Get/Set.
type TTLStore[V any] struct {
	mu       sync.RWMutex
	entries  map[string]entry[V]
	ttl      time.Duration
	capacity int
	now      func() time.Time
	logger   *zap.Logger
	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewTTLStore creates a TTL store. A cleanupFreq of zero disables the
// background sweep (expired entries still read as misses).
func NewTTLStore[V any](ttl time.Duration, capacity int, cleanupFreq time.Duration, logger *zap.Logger) *TTLStore[V] {
	s := &TTLStore[V]{
		entries:  make(map[string]entry[V]),
		ttl:      ttl,
		capacity: capacity,
		now:      time.Now,
		logger:   logger,
		stopCh:   make(chan struct{}),
	}

	if cleanupFreq > 0 {
		go s.startCleanupTask(cleanupFreq)
	}

	return s
}

// Get retrieves a non-expired entry
func (s *TTLStore[V]) Get(key string) (V, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[key]
	if !ok || s.now().After(e.expiresAt) {
		var zero V
		return zero, false
	}

	return e.value, true
}

// Set stores a value under the configured TTL, evicting the entry closest to
// expiry when the store is full
func (s *TTLStore[V]) Set(key string, value V) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entries[key]; !exists && s.capacity > 0 && len(s.entries) >= s.capacity {
		s.evictOldestLocked()
	}

	s.entries[key] = entry[V]{value: value, expiresAt: s.now().Add(s.ttl)}
}

// Delete removes an entry
func (s *TTLStore[V]) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, key)
}

// Len returns the number of entries, expired ones included
func (s *TTLStore[V]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.entries)
}

// Cleanup removes expired entries
func (s *TTLStore[V]) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	expiredCount := 0

	for key, e := range s.entries {
		if now.After(e.expiresAt) {
			delete(s.entries, key)
			expiredCount++
		}
	}

	if expiredCount > 0 && s.logger != nil {
		s.logger.Debug("Cleaned up expired cache entries", zap.Int("expired_count", expiredCount))
	}
}

func (s *TTLStore[V]) evictOldestLocked() {
	var oldestKey string
	var oldest time.Time

	for key, e := range s.entries {
		if oldestKey == "" || e.expiresAt.Before(oldest) {
			oldestKey = key
			oldest = e.expiresAt
		}
	}

	if oldestKey != "" {
		delete(s.entries, oldestKey)
	}
}

// startCleanupTask sweeps expired entries until Stop is called
func (s *TTLStore[V]) startCleanupTask(freq time.Duration) {
	ticker := time.NewTicker(freq)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.Cleanup()
		case <-s.stopCh:
			return
		}
	}
}

// Stop stops the background cleanup task
func (s *TTLStore[V]) Stop() {
	s.stopOnce.Do(func() { close(s.stopCh) })
}
