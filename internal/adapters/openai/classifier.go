package openai

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/mikey/avatar-blocker/internal/core"
	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// Classifier is an implementation of the Classifier interface using an OpenAI
// vision-capable chat model
type Classifier struct {
	client    *openai.Client
	modelName string
	maxTokens int
	logger    *zap.Logger
	prompt    string
}

type labelEntry struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// NewClassifier creates a new OpenAI classifier
func NewClassifier(
	apiKey string,
	modelName string,
	maxTokens int,
	logger *zap.Logger,
) *Classifier {
	client := openai.NewClient(apiKey)

	return &Classifier{
		client:    client,
		modelName: modelName,
		maxTokens: maxTokens,
		logger:    logger,
		prompt: `You are an image moderation system. Classify the attached social-media profile picture.
Respond with a JSON array of objects, most confident first, each containing:
- label: string (a short category name describing the image content)
- score: number between 0 and 1 (your confidence in that label)

Respond only with the JSON array and nothing else.`,
	}
}

// Classify sends the avatar to the vision model and parses the ranked labels
func (c *Classifier) Classify(ctx context.Context, avatar *core.Avatar) ([]core.Label, error) {
	imageURL := "data:image/png;base64," + base64.StdEncoding.EncodeToString(avatar.Bytes)

	req := openai.ChatCompletionRequest{
		Model:     c.modelName,
		MaxTokens: c.maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{
						Type: openai.ChatMessagePartTypeText,
						Text: c.prompt,
					},
					{
						Type: openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{
							URL:    imageURL,
							Detail: openai.ImageURLDetailLow,
						},
					},
				},
			},
		},
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("empty response from OpenAI")
	}

	labels, err := parseLabels(resp.Choices[0].Message.Content)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("Classified image with OpenAI",
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
