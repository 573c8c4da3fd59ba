package factory

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mikey/avatar-blocker/internal/cache"
	"github.com/mikey/avatar-blocker/internal/config"
	"github.com/mikey/avatar-blocker/internal/core"
)

// CacheFactory creates the pipeline's cache layers from configuration
type CacheFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewCacheFactory creates a new cache factory
func NewCacheFactory(cfg *config.Config, logger *zap.Logger) *CacheFactory {
	return &CacheFactory{
		cfg:    cfg,
		logger: logger,
	}
}

func (f *CacheFactory) cleanupFreq() (time.Duration, error) {
	freq, err := f.cfg.GetDuration("cache.cleanup_frequency")
	if err != nil {
		return 0, fmt.Errorf("invalid cache cleanup frequency: %w", err)
	}
	return freq, nil
}

// CreateAvatarStore creates the TTL store for downloaded avatars
func (f *CacheFactory) CreateAvatarStore() (*cache.TTLStore[*core.Avatar], error) {
	ttl, err := f.cfg.GetDuration("cache.image_ttl")
	if err != nil {
		return nil, fmt.Errorf("invalid image cache TTL: %w", err)
	}
	freq, err := f.cleanupFreq()
	if err != nil {
		return nil, err
	}
	return cache.NewTTLStore[*core.Avatar](ttl, f.cfg.GetInt("cache.image_capacity"), freq, f.logger), nil
}

// CreateRelationshipStore creates the TTL store for relationship facts
func (f *CacheFactory) CreateRelationshipStore() (*cache.TTLStore[core.RelationshipFacts], error) {
	ttl, err := f.cfg.GetDuration("cache.relationship_ttl")
	if err != nil {
		return nil, fmt.Errorf("invalid relationship cache TTL: %w", err)
	}
	freq, err := f.cleanupFreq()
	if err != nil {
		return nil, err
	}
	return cache.NewTTLStore[core.RelationshipFacts](ttl, f.cfg.GetInt("cache.relationship_capacity"), freq, f.logger), nil
}

// VerdictCapacity returns the size bound of the verdict LRU cache
func (f *CacheFactory) VerdictCapacity() int {
	return f.cfg.GetInt("cache.verdict_capacity")
}
