package core

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestJudge(t *testing.T, classifier Classifier, fetcher *AvatarFetcher, policy PolicyConfig) *ClassificationJudge {
	t.Helper()

	judge, err := NewClassificationJudge(classifier, fetcher, 64, policy, zap.NewNop())
	require.NoError(t, err)
	return judge
}

func TestJudgeCachesVerdict(t *testing.T) {
	srv, _ := avatarServer(t, 0)
	classifier := &fakeClassifier{labels: []Label{{Name: "weapon", Score: 0.9}}}
	judge := newTestJudge(t, classifier, newTestFetcher(t, time.Minute), PolicyConfig{
		BadLabels:    []string{"weapon"},
		MinimumScore: 0.75,
	})

	ctx := context.Background()
	url := srv.URL + "/a.png"
	assert.Equal(t, VerdictBad, judge.Judge(ctx, "42", url))
	assert.Equal(t, VerdictBad, judge.Judge(ctx, "42", url))
	assert.Equal(t, int64(1), classifier.calls.Load(), "a cached verdict must not re-classify")
}

func TestJudgeThreshold(t *testing.T) {
	srv, _ := avatarServer(t, 0)
	classifier := &fakeClassifier{labels: []Label{{Name: "weapon", Score: 0.9}}}

	judge := newTestJudge(t, classifier, newTestFetcher(t, time.Minute), PolicyConfig{
		BadLabels:    []string{"weapon"},
		MinimumScore: 0.95,
	})
	verdict := judge.Judge(context.Background(), "42", srv.URL+"/a.png")
	assert.Equal(t, VerdictNotBad, verdict, "a score under the threshold does not qualify")
}

func TestJudgeUnavailableAvatarIsIndeterminate(t *testing.T) {
	classifier := &fakeClassifier{labels: []Label{{Name: "weapon", Score: 0.9}}}
	judge := newTestJudge(t, classifier, newTestFetcher(t, time.Minute), PolicyConfig{
		BadLabels:    []string{"weapon"},
		MinimumScore: 0.75,
	})

	verdict := judge.Judge(context.Background(), "7", "https://example.org/avatars/original/missing.png")
	assert.Equal(t, VerdictIndeterminate, verdict)
	assert.Equal(t, int64(0), classifier.calls.Load(), "nothing to classify without an avatar")
}

func TestJudgeClassifierFailureFailsOpen(t *testing.T) {
	srv, _ := avatarServer(t, 0)
	classifier := &fakeClassifier{err: errBoom}
	judge := newTestJudge(t, classifier, newTestFetcher(t, time.Minute), PolicyConfig{
		BadLabels:    []string{"weapon"},
		MinimumScore: 0.75,
	})

	ctx := context.Background()
	verdict := judge.Judge(ctx, "42", srv.URL+"/a.png")
	assert.Equal(t, VerdictNotBad, verdict)

	// A failed classification must never escalate, even under auto-block
	action := Decide(verdict, RelationshipFacts{Known: true}, PolicyConfig{AutoBlock: true})
	assert.Equal(t, ActionNone, action)

	// The fail-open verdict is cached like any other
	judge.Judge(ctx, "42", srv.URL+"/a.png")
	assert.Equal(t, int64(1), classifier.calls.Load())
}

func TestJudgeConcurrentMissesCoalesce(t *testing.T) {
	srv, _ := avatarServer(t, 0)
	classifier := &fakeClassifier{
		labels: []Label{{Name: "weapon", Score: 0.9}},
		delay:  50 * time.Millisecond,
	}
	judge := newTestJudge(t, classifier, newTestFetcher(t, time.Minute), PolicyConfig{
		BadLabels:    []string{"weapon"},
		MinimumScore: 0.75,
	})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			judge.Judge(context.Background(), "42", srv.URL+"/a.png")
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1), classifier.calls.Load(), "concurrent misses for one account must share one classification")
}

func TestEvaluateLabels(t *testing.T) {
	badLabels := map[string]struct{}{"weapon": {}, "gore": {}}

	tests := []struct {
		name   string
		labels []Label
		want   Verdict
	}{
		{"no labels", nil, VerdictNotBad},
		{"bad label over threshold", []Label{{Name: "weapon", Score: 0.8}}, VerdictBad},
		{"bad label under threshold", []Label{{Name: "weapon", Score: 0.5}}, VerdictNotBad},
		{"benign label over threshold", []Label{{Name: "teapot", Score: 0.99}}, VerdictNotBad},
		{"malformed pairs are skipped", []Label{{Name: "", Score: 0.9}, {Name: "weapon", Score: 0}}, VerdictNotBad},
		{"first qualifying match wins", []Label{{Name: "teapot", Score: 0.9}, {Name: "gore", Score: 0.8}}, VerdictBad},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EvaluateLabels(tt.labels, badLabels, 0.75))
		})
	}
}
