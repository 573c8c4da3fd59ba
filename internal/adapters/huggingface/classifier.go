package huggingface

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/mikey/avatar-blocker/internal/core"
	"go.uber.org/zap"
)

// Classifier calls the HuggingFace Inference API image-classification task.
// The request body is the raw image; the response is a ranked list of
// {label, score} pairs.
type Classifier struct {
	httpClient *http.Client
	endpoint   string
	model      string
	apiKey     string
	userAgent  string
	logger     *zap.Logger
}

type classification struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

type apiError struct {
	Error string `json:"error"`
}

// NewClassifier creates a new HuggingFace classifier
func NewClassifier(
	httpClient *http.Client,
	endpoint string,
	model string,
	apiKey string,
	userAgent string,
	logger *zap.Logger,
) *Classifier {
	return &Classifier{
		httpClient: httpClient,
		endpoint:   strings.TrimSuffix(endpoint, "/"),
		model:      model,
		apiKey:     apiKey,
		userAgent:  userAgent,
		logger:     logger,
	}
}

// Classify sends the avatar to the inference endpoint and parses the ranked labels
func (c *Classifier) Classify(ctx context.Context, avatar *core.Avatar) ([]core.Label, error) {
	url := fmt.Sprintf("%s/models/%s", c.endpoint, c.model)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(avatar.Bytes))
	if err != nil {
		return nil, fmt.Errorf("failed to build inference request: %w", err)
	}
	req.Header.Set("Content-Type", "image/png")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call inference API: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read inference response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr apiError
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error != "" {
			return nil, fmt.Errorf("inference API error (http %d): %s", resp.StatusCode, apiErr.Error)
		}
		return nil, fmt.Errorf("inference API returned http %d", resp.StatusCode)
	}

	var results []classification
	if err := json.Unmarshal(body, &results); err != nil {
		return nil, fmt.Errorf("failed to parse inference response: %w", err)
	}

	labels := make([]core.Label, 0, len(results))
	for _, r := range results {
		labels = append(labels, core.Label{Name: r.Label, Score: r.Score})
	}

	c.logger.Debug("Classified image",
		zap.String("model", c.model),
		zap.Int("labels", len(labels)))

	return labels, nil
}
