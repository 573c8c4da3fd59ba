package factory

import (
	"go.uber.org/zap"

	"github.com/mikey/avatar-blocker/internal/adapters/mastodonapi"
	"github.com/mikey/avatar-blocker/internal/config"
	"github.com/mikey/avatar-blocker/internal/core"
	"github.com/mikey/avatar-blocker/internal/utils"
)

// SourceFactory builds the set of event sources from configuration
type SourceFactory struct {
	cfg    *config.Config
	client *mastodonapi.Client
	logger *zap.Logger
}

// NewSourceFactory creates a new source factory
func NewSourceFactory(cfg *config.Config, client *mastodonapi.Client, logger *zap.Logger) *SourceFactory {
	return &SourceFactory{
		cfg:    cfg,
		client: client,
		logger: logger,
	}
}

// CreateSources returns every configured source: the user and public streams
// unless disabled, plus a live stream and a one-shot backfill per watched
// hashtag.
func (f *SourceFactory) CreateSources() []core.EventSource {
	streams := f.cfg.GetStreams()

	var sources []core.EventSource
	if !streams.DisableUser {
		sources = append(sources, mastodonapi.NewUserStreamSource(f.client, f.logger))
	}
	if !streams.DisablePublic {
		sources = append(sources, mastodonapi.NewPublicStreamSource(f.client, f.logger))
	}

	for _, tag := range streams.WatchHashtags {
		tag = utils.NormalizeHashtag(tag)
		if tag == "" {
			continue
		}
		sources = append(sources, mastodonapi.NewHashtagStreamSource(f.client, tag, f.logger))
		if streams.BackfillLimit > 0 {
			sources = append(sources, mastodonapi.NewBackfillSource(f.client, tag, streams.BackfillLimit, f.logger))
		}
	}

	return sources
}
