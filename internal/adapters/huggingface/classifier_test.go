package huggingface

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mikey/avatar-blocker/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestClassifyParsesRankedLabels(t *testing.T) {
	var gotAuth, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"label": "tabby, tabby cat", "score": 0.9423},
			{"label": "tiger cat", "score": 0.0361},
			{"label": "Egyptian cat", "score": 0.0098}
		]`))
	}))
	defer srv.Close()

	c := NewClassifier(srv.Client(), srv.URL, "google/vit-base-patch16-224", "hf_token", "test-agent", zap.NewNop())

	labels, err := c.Classify(context.Background(), &core.Avatar{Bytes: []byte("png-bytes")})
	require.NoError(t, err)
	require.Len(t, labels, 3)
	assert.Equal(t, "tabby, tabby cat", labels[0].Name)
	assert.InDelta(t, 0.9423, labels[0].Score, 1e-9)
	assert.Equal(t, "Bearer hf_token", gotAuth)
	assert.Equal(t, "/models/google/vit-base-patch16-224", gotPath)
}

func TestClassifyModelLoadingError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"error": "Model google/vit-base-patch16-224 is currently loading", "estimated_time": 20.0}`))
	}))
	defer srv.Close()

	c := NewClassifier(srv.Client(), srv.URL, "google/vit-base-patch16-224", "", "", zap.NewNop())

	_, err := c.Classify(context.Background(), &core.Avatar{Bytes: []byte("png-bytes")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "currently loading")
}

func TestClassifyMalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"not": "a list"}`))
	}))
	defer srv.Close()

	c := NewClassifier(srv.Client(), srv.URL, "m", "", "", zap.NewNop())

	_, err := c.Classify(context.Background(), &core.Avatar{Bytes: []byte("png-bytes")})
	require.Error(t, err)
}
