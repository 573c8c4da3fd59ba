package gemini

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"github.com/mikey/avatar-blocker/internal/core"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// Classifier is an implementation of the Classifier interface using Google
// Gemini's multimodal models
type Classifier struct {
	client    *genai.Client
	model     *genai.GenerativeModel
	modelName string
	logger    *zap.Logger
	prompt    string
}

type labelEntry struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// NewClassifier creates a new Gemini classifier
func NewClassifier(
	apiKey string,
	modelName string,
	maxTokens int,
	logger *zap.Logger,
) (*Classifier, error) {
	client, err := genai.NewClient(context.Background(), option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.SetMaxOutputTokens(int32(maxTokens))
	model.SetTemperature(0)

	return &Classifier{
		client:    client,
		model:     model,
		modelName: modelName,
		logger:    logger,
		prompt: `You are an image moderation system. Classify the attached social-media profile picture.
Respond with a JSON array of objects, most confident first, each containing:
- label: string (a short category name describing the image content)
- score: number between 0 and 1 (your confidence in that label)

Respond only with the JSON array and nothing else.`,
	}, nil
}

// Close closes the Gemini client
func (c *Classifier) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// Classify sends the avatar to the model and parses the ranked labels
func (c *Classifier) Classify(ctx context.Context, avatar *core.Avatar) ([]core.Label, error) {
	resp, err := c.model.GenerateContent(ctx,
		genai.ImageData("png", avatar.Bytes),
		genai.Text(c.prompt),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to generate content with Gemini: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("empty response from Gemini")
	}

	responseText := fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0])

	labels, err := parseLabels(responseText)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("Classified image with Gemini",
		zap.String("model", c.modelName),
		zap.Int("labels", len(labels)))

	return labels, nil
}

// parseLabels decodes the model's JSON array, tolerating surrounding prose
func parseLabels(text string) ([]core.Label, error) {
	var entries []labelEntry
	if err := json.Unmarshal([]byte(text), &entries); err != nil {
		// Try to extract the array from the text response
		start, end := -1, -1
		for i := 0; i < len(text); i++ {
			if text[i] == '[' {
				start = i
				break
			}
		}
		for i := len(text) - 1; i >= 0; i-- {
			if text[i] == ']' {
				end = i + 1
				break
			}
		}
		if start < 0 || end <= start {
			return nil, fmt.Errorf("failed to parse classification response: %w", err)
		}
		if err := json.Unmarshal([]byte(text[start:end]), &entries); err != nil {
			return nil, fmt.Errorf("failed to parse classification response: %w", err)
		}
	}

	labels := make([]core.Label, 0, len(entries))
	for _, e := range entries {
		labels = append(labels, core.Label{Name: e.Label, Score: e.Score})
	}
	return labels, nil
}
