package core

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/mikey/avatar-blocker/internal/cache"
)

// pngBytes encodes a small solid-color test image
func pngBytes(t *testing.T) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for x := 0; x < 8; x++ {
		for y := 0; y < 8; y++ {
			img.Set(x, y, color.RGBA{R: 200, G: 40, B: 40, A: 255})
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encoding test png: %v", err)
	}
	return buf.Bytes()
}

// avatarServer serves a valid PNG and counts requests
func avatarServer(t *testing.T, delay time.Duration) (*httptest.Server, *atomic.Int64) {
	t.Helper()

	var calls atomic.Int64
	data := pngBytes(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if delay > 0 {
			time.Sleep(delay)
		}
		w.Header().Set("Content-Type", "image/png")
		w.Write(data)
	}))
	t.Cleanup(srv.Close)

	return srv, &calls
}

// newTestFetcher builds a fetcher over a fresh TTL store
func newTestFetcher(t *testing.T, ttl time.Duration) *AvatarFetcher {
	t.Helper()

	store := cache.NewTTLStore[*Avatar](ttl, 64, 0, nil)
	t.Cleanup(store.Stop)

	return NewAvatarFetcher(&http.Client{Timeout: 5 * time.Second}, store, "test-agent", zap.NewNop())
}

// fakeClassifier returns canned labels and counts invocations
type fakeClassifier struct {
	labels []Label
	err    error
	delay  time.Duration
	calls  atomic.Int64
}

func (f *fakeClassifier) Classify(ctx context.Context, avatar *Avatar) ([]Label, error) {
	f.calls.Add(1)
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.labels, nil
}

// fakeGraph returns canned relationship records and counts calls
type fakeGraph struct {
	mu       sync.Mutex
	records  []RelationshipFacts
	relErr   error
	blockErr error

	relCalls   int
	blockCalls int
	blockedIDs []AccountID
}

func (g *fakeGraph) Relationships(ctx context.Context, id AccountID) ([]RelationshipFacts, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.relCalls++
	if g.relErr != nil {
		return nil, g.relErr
	}
	return g.records, nil
}

func (g *fakeGraph) Block(ctx context.Context, id AccountID) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.blockCalls++
	g.blockedIDs = append(g.blockedIDs, id)
	return g.blockErr
}

// fakeNotifier records the decisions it is handed
type fakeNotifier struct {
	mu        sync.Mutex
	decisions []Decision
}

func (n *fakeNotifier) Notify(ctx context.Context, decision Decision) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.decisions = append(n.decisions, decision)
	return nil
}

func (n *fakeNotifier) all() []Decision {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]Decision(nil), n.decisions...)
}

// chanSource emits a fixed set of snapshots then closes, like a backfill
type chanSource struct {
	name      string
	snapshots []AccountSnapshot
}

func (s *chanSource) Name() string { return s.name }

func (s *chanSource) Stream(ctx context.Context) (<-chan AccountSnapshot, error) {
	out := make(chan AccountSnapshot)
	go func() {
		defer close(out)
		for _, snapshot := range s.snapshots {
			select {
			case out <- snapshot:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

var errBoom = errors.New("boom")
