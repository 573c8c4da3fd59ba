package core

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchCachesSuccessfulDownload(t *testing.T) {
	srv, calls := avatarServer(t, 0)
	f := newTestFetcher(t, time.Minute)

	ctx := context.Background()
	first := f.Fetch(ctx, "42", srv.URL+"/avatars/42.png")
	require.False(t, first.Unavailable)
	require.NotEmpty(t, first.Bytes)

	second := f.Fetch(ctx, "42", srv.URL+"/avatars/42.png")
	assert.Same(t, first, second)
	assert.Equal(t, int64(1), calls.Load(), "a cache hit must not touch the network")
}

func TestFetchPlaceholderNeverDownloads(t *testing.T) {
	srv, calls := avatarServer(t, 0)
	f := newTestFetcher(t, time.Minute)

	avatar := f.Fetch(context.Background(), "7", srv.URL+"/avatars/original/missing.png")
	assert.True(t, avatar.Unavailable)
	assert.Equal(t, int64(0), calls.Load())

	// The sentinel is cached too, so the account is not re-probed
	avatar = f.Fetch(context.Background(), "7", srv.URL+"/avatars/original/missing.png")
	assert.True(t, avatar.Unavailable)
	assert.Equal(t, int64(0), calls.Load())
}

func TestFetchEmptyURLIsUnavailable(t *testing.T) {
	f := newTestFetcher(t, time.Minute)

	avatar := f.Fetch(context.Background(), "7", "")
	assert.True(t, avatar.Unavailable)
}

func TestFetchFailureCachedAsSentinel(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	f := newTestFetcher(t, time.Minute)

	avatar := f.Fetch(context.Background(), "9", srv.URL+"/a.png")
	assert.True(t, avatar.Unavailable)

	avatar = f.Fetch(context.Background(), "9", srv.URL+"/a.png")
	assert.True(t, avatar.Unavailable)
	assert.Equal(t, int64(1), calls.Load(), "a failed URL must not be hammered within the TTL")
}

func TestFetchDecodeFailureIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("this is not an image"))
	}))
	defer srv.Close()

	f := newTestFetcher(t, time.Minute)

	avatar := f.Fetch(context.Background(), "9", srv.URL+"/a.png")
	assert.True(t, avatar.Unavailable)
}

func TestFetchExpiredEntryRefetches(t *testing.T) {
	srv, calls := avatarServer(t, 0)
	f := newTestFetcher(t, 20*time.Millisecond)

	ctx := context.Background()
	f.Fetch(ctx, "42", srv.URL+"/a.png")
	time.Sleep(40 * time.Millisecond)
	f.Fetch(ctx, "42", srv.URL+"/a.png")

	assert.Equal(t, int64(2), calls.Load(), "an expired entry triggers exactly one fresh download")
}

func TestFetchConcurrentMissesCoalesce(t *testing.T) {
	srv, calls := avatarServer(t, 50*time.Millisecond)
	f := newTestFetcher(t, time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			f.Fetch(context.Background(), "42", srv.URL+"/a.png")
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1), calls.Load(), "concurrent misses for one account must share one download")
}

func TestFetchSetsUserAgent(t *testing.T) {
	var gotUA string
	data := pngBytes(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Write(data)
	}))
	defer srv.Close()

	f := newTestFetcher(t, time.Minute)
	f.Fetch(context.Background(), "42", srv.URL+"/a.png")

	assert.Equal(t, "test-agent", gotUA)
}
