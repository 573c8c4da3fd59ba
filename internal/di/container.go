package di

import (
	"time"

	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mikey/avatar-blocker/internal/adapters/mastodonapi"
	"github.com/mikey/avatar-blocker/internal/allowlist"
	"github.com/mikey/avatar-blocker/internal/cache"
	"github.com/mikey/avatar-blocker/internal/config"
	"github.com/mikey/avatar-blocker/internal/core"
	"github.com/mikey/avatar-blocker/internal/factory"
	"github.com/mikey/avatar-blocker/internal/logging"
	"github.com/mikey/avatar-blocker/internal/utils"
)

// avatarFetchTimeout bounds one avatar download end to end.
const avatarFetchTimeout = 10 * time.Second

// BuildContainer creates and configures a dependency injection container
func BuildContainer() (*dig.Container, error) {
	container := dig.New()

	// Register configuration
	if err := container.Provide(config.New); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(logging.InitLogger); err != nil {
		return nil, err
	}

	// Register factories
	if err := container.Provide(factory.NewClassifierFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewCacheFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewNotifierFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewJournalFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewSourceFactory); err != nil {
		return nil, err
	}

	// Register policy
	if err := container.Provide(func(cfg *config.Config) core.PolicyConfig {
		return core.PolicyConfig{
			BadLabels:        cfg.GetStringSlice("policy.bad_labels"),
			MinimumScore:     cfg.GetFloat64("policy.minimum_score"),
			IncludeFollowing: cfg.GetBool("policy.include_following"),
			ExcludeFollowers: cfg.GetBool("policy.exclude_followers"),
			AutoBlock:        cfg.GetBool("policy.auto_block"),
		}
	}); err != nil {
		return nil, err
	}

	// Register Mastodon client
	if err := container.Provide(func(cfg *config.Config, logger *zap.Logger) *mastodonapi.Client {
		mastodonCfg := cfg.GetMastodon()
		userAgent := mastodonCfg.UserAgent
		if userAgent == "" {
			userAgent = utils.DefaultUserAgent()
		}
		return mastodonapi.NewClient(mastodonCfg.Instance, mastodonCfg.AccessToken, userAgent, logger)
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(client *mastodonapi.Client) core.SocialGraph {
		return client
	}); err != nil {
		return nil, err
	}

	// Register classifier
	if err := container.Provide(func(f *factory.ClassifierFactory) (core.Classifier, error) {
		return f.CreateClassifier()
	}); err != nil {
		return nil, err
	}

	// Register cache stores
	if err := container.Provide(func(f *factory.CacheFactory) (*cache.TTLStore[*core.Avatar], error) {
		return f.CreateAvatarStore()
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(f *factory.CacheFactory) (*cache.TTLStore[core.RelationshipFacts], error) {
		return f.CreateRelationshipStore()
	}); err != nil {
		return nil, err
	}

	// Register pipeline components
	if err := container.Provide(func(
		cfg *config.Config,
		store *cache.TTLStore[*core.Avatar],
		logger *zap.Logger,
	) *core.AvatarFetcher {
		userAgent := cfg.GetMastodon().UserAgent
		if userAgent == "" {
			userAgent = utils.DefaultUserAgent()
		}
		return core.NewAvatarFetcher(
			utils.RobustHTTPClient(avatarFetchTimeout, logger),
			store,
			userAgent,
			logger,
		)
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(
		graph core.SocialGraph,
		store *cache.TTLStore[core.RelationshipFacts],
		logger *zap.Logger,
	) *core.RelationshipResolver {
		return core.NewRelationshipResolver(graph, store, logger)
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(
		classifier core.Classifier,
		fetcher *core.AvatarFetcher,
		cacheFactory *factory.CacheFactory,
		policy core.PolicyConfig,
		logger *zap.Logger,
	) (*core.ClassificationJudge, error) {
		return core.NewClassificationJudge(classifier, fetcher, cacheFactory.VerdictCapacity(), policy, logger)
	}); err != nil {
		return nil, err
	}

	// Register allowlist
	if err := container.Provide(func(cfg *config.Config, logger *zap.Logger) core.Allowlist {
		return allowlist.NewChecker(cfg.GetStringSlice("policy.allowed_accounts"), logger)
	}); err != nil {
		return nil, err
	}

	// Register notifier and journal
	if err := container.Provide(func(f *factory.NotifierFactory) (core.Notifier, error) {
		return f.CreateNotifier()
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(f *factory.JournalFactory) (core.Journal, error) {
		return f.CreateJournal()
	}); err != nil {
		return nil, err
	}

	// Register dispatcher
	if err := container.Provide(func(
		cfg *config.Config,
		judge *core.ClassificationJudge,
		resolver *core.RelationshipResolver,
		policy core.PolicyConfig,
		graph core.SocialGraph,
		notifier core.Notifier,
		journal core.Journal,
		allow core.Allowlist,
		logger *zap.Logger,
	) *core.Dispatcher {
		return core.NewDispatcher(
			judge,
			resolver,
			policy,
			graph,
			notifier,
			journal,
			allow,
			cfg.GetInt("dispatcher.queue_size"),
			cfg.GetInt("dispatcher.workers"),
			logger,
		)
	}); err != nil {
		return nil, err
	}

	return container, nil
}
