package core

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/mikey/avatar-blocker/internal/cache"
	"github.com/mikey/avatar-blocker/internal/metrics"
)

// placeholderSuffix is the well-known path of the platform's default avatar.
// Accounts carrying it are never downloaded.
const placeholderSuffix = "/missing.png"

// AvatarFetcher downloads, decodes and normalizes profile images, with a
// bounded-lifetime cache keyed by account ID. Failures and placeholder
// avatars cache the unavailable sentinel for the full TTL so an unreachable
// URL is not re-probed on every event.
type AvatarFetcher struct {
	httpClient *http.Client
	cache      *cache.TTLStore[*Avatar]
	flight     singleflight.Group
	userAgent  string
	logger     *zap.Logger
}

// NewAvatarFetcher creates a new avatar fetcher
func NewAvatarFetcher(
	httpClient *http.Client,
	store *cache.TTLStore[*Avatar],
	userAgent string,
	logger *zap.Logger,
) *AvatarFetcher {
	return &AvatarFetcher{
		httpClient: httpClient,
		cache:      store,
		userAgent:  userAgent,
		logger:     logger,
	}
}

// Fetch returns the normalized avatar for an account, or the unavailable
// sentinel. A cache hit performs no network access; concurrent misses for the
// same account coalesce into a single download.
func (f *AvatarFetcher) Fetch(ctx context.Context, id AccountID, avatarURL string) *Avatar {
	if avatar, ok := f.cache.Get(string(id)); ok {
		metrics.CacheHits.WithLabelValues("avatar").Inc()
		return avatar
	}
	metrics.CacheMisses.WithLabelValues("avatar").Inc()

	v, _, _ := f.flight.Do(string(id), func() (interface{}, error) {
		if avatar, ok := f.cache.Get(string(id)); ok {
			return avatar, nil
		}
		avatar := f.download(ctx, id, avatarURL)
		f.cache.Set(string(id), avatar)
		return avatar, nil
	})

	return v.(*Avatar)
}

func (f *AvatarFetcher) download(ctx context.Context, id AccountID, avatarURL string) *Avatar {
	if avatarURL == "" || strings.HasSuffix(avatarURL, placeholderSuffix) {
		f.logger.Debug("Account has placeholder avatar, skipping download",
			zap.String("account_id", string(id)))
		return UnavailableAvatar
	}

	metrics.AvatarFetches.Inc()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, avatarURL, nil)
	if err != nil {
		f.logger.Error("Failed to build avatar request",
			zap.String("account_id", string(id)),
			zap.String("url", avatarURL),
			zap.Error(err))
		return UnavailableAvatar
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		f.logger.Error("Failed to download avatar",
			zap.String("account_id", string(id)),
			zap.String("url", avatarURL),
			zap.Error(err))
		return UnavailableAvatar
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		f.logger.Error("Failed to download avatar",
			zap.String("account_id", string(id)),
			zap.String("url", avatarURL),
			zap.Int("status_code", resp.StatusCode))
		return UnavailableAvatar
	}

	avatar, err := NormalizeImage(resp.Body)
	if err != nil {
		f.logger.Error("Failed to decode avatar",
			zap.String("account_id", string(id)),
			zap.String("url", avatarURL),
			zap.Error(err))
		return UnavailableAvatar
	}

	return avatar
}
