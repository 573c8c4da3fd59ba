package core

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/mikey/avatar-blocker/internal/metrics"
)

// ClassificationJudge turns an account's avatar into a verdict, with a
// size-bounded LRU cache: classification of a static image is deterministic,
// so a verdict stays valid until evicted by capacity pressure rather than by
// time.
type ClassificationJudge struct {
	classifier Classifier
	fetcher    *AvatarFetcher
	verdicts   *lru.Cache[AccountID, Verdict]
	flight     singleflight.Group
	badLabels  map[string]struct{}
	minScore   float64
	logger     *zap.Logger
}

// NewClassificationJudge creates a new classification judge
func NewClassificationJudge(
	classifier Classifier,
	fetcher *AvatarFetcher,
	verdictCapacity int,
	policy PolicyConfig,
	logger *zap.Logger,
) (*ClassificationJudge, error) {
	verdicts, err := lru.New[AccountID, Verdict](verdictCapacity)
	if err != nil {
		return nil, err
	}

	badLabels := make(map[string]struct{}, len(policy.BadLabels))
	for _, label := range policy.BadLabels {
		badLabels[label] = struct{}{}
	}

	return &ClassificationJudge{
		classifier: classifier,
		fetcher:    fetcher,
		verdicts:   verdicts,
		badLabels:  badLabels,
		minScore:   policy.MinimumScore,
		logger:     logger,
	}, nil
}

// Judge returns the verdict for an account's avatar. A cache hit refreshes
// LRU recency and invokes nothing; concurrent misses for the same account
// coalesce into a single fetch-and-classify.
func (j *ClassificationJudge) Judge(ctx context.Context, id AccountID, avatarURL string) Verdict {
	if verdict, ok := j.verdicts.Get(id); ok {
		metrics.CacheHits.WithLabelValues("verdict").Inc()
		return verdict
	}
	metrics.CacheMisses.WithLabelValues("verdict").Inc()

	v, _, _ := j.flight.Do(string(id), func() (interface{}, error) {
		if verdict, ok := j.verdicts.Get(id); ok {
			return verdict, nil
		}
		verdict := j.classify(ctx, id, avatarURL)
		j.verdicts.Add(id, verdict)
		return verdict, nil
	})

	return v.(Verdict)
}

func (j *ClassificationJudge) classify(ctx context.Context, id AccountID, avatarURL string) Verdict {
	avatar := j.fetcher.Fetch(ctx, id, avatarURL)
	if avatar.Unavailable {
		// No real avatar: the account cannot be judged bad on image grounds.
		return VerdictIndeterminate
	}

	metrics.ClassifierCalls.Inc()
	labels, err := j.classifier.Classify(ctx, avatar)
	if err != nil {
		// Fail open: an unreadable result must never escalate to a block.
		metrics.ClassifierFailures.Inc()
		j.logger.Error("Failed to classify avatar",
			zap.String("account_id", string(id)),
			zap.Error(err))
		return VerdictNotBad
	}

	j.logger.Debug("Classified avatar",
		zap.String("account_id", string(id)),
		zap.Int("labels", len(labels)))

	return EvaluateLabels(labels, j.badLabels, j.minScore)
}

// EvaluateLabels applies the label/threshold policy to classifier output.
// Malformed pairs and pairs below the minimum score are skipped; the first
// qualifying bad label wins.
func EvaluateLabels(labels []Label, badLabels map[string]struct{}, minScore float64) Verdict {
	for _, label := range labels {
		if label.Name == "" || label.Score == 0 {
			continue
		}
		if label.Score < minScore {
			continue
		}
		if _, bad := badLabels[label.Name]; bad {
			return VerdictBad
		}
	}
	return VerdictNotBad
}
