package bedrock

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/mikey/avatar-blocker/internal/core"
	"go.uber.org/zap"
)

// Classifier is an implementation of the Classifier interface using Anthropic
// Claude models on Amazon Bedrock (messages API with an image content block)
type Classifier struct {
	client    *bedrockruntime.Client
	modelID   string
	maxTokens int
	logger    *zap.Logger
	prompt    string
}

type labelEntry struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

type messagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

// NewClassifier creates a new Bedrock classifier
func NewClassifier(
	client *bedrockruntime.Client,
	modelID string,
	maxTokens int,
	logger *zap.Logger,
) *Classifier {
	return &Classifier{
		client:    client,
		modelID:   modelID,
		maxTokens: maxTokens,
		logger:    logger,
		prompt: `You are an image moderation system. Classify the attached social-media profile picture.
Respond with a JSON array of objects, most confident first, each containing:
- label: string (a short category name describing the image content)
- score: number between 0 and 1 (your confidence in that label)

Respond only with the JSON array and nothing else.`,
	}
}

// Classify sends the avatar to the model and parses the ranked labels
func (c *Classifier) Classify(ctx context.Context, avatar *core.Avatar) ([]core.Label, error) {
	payload, err := json.Marshal(map[string]interface{}{
		"anthropic_version": "bedrock-2023-05-31",
		"max_tokens":        c.maxTokens,
		"messages": []map[string]interface{}{
			{
				"role": "user",
				"content": []map[string]interface{}{
					{
						"type": "image",
						"source": map[string]interface{}{
							"type":       "base64",
							"media_type": "image/png",
							"data":       base64.StdEncoding.EncodeToString(avatar.Bytes),
						},
					},
					{
						"type": "text",
						"text": c.prompt,
					},
				},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request payload: %w", err)
	}

	resp, err := c.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     &c.modelID,
		Body:        payload,
		Accept:      aws.String("application/json"),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to invoke Bedrock model: %w", err)
	}

	var msgResp messagesResponse
	if err := json.Unmarshal(resp.Body, &msgResp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal Bedrock response: %w", err)
	}

	responseText := ""
	for _, block := range msgResp.Content {
		if block.Type == "text" {
			responseText = block.Text
			break
		}
	}
	if responseText == "" {
		return nil, fmt.Errorf("empty response from Bedrock model")
	}

	labels, err := parseLabels(responseText)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("Classified image with Bedrock",
		zap.String("model_id", c.modelID),
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
