package factory

import (
	"context"
	"fmt"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"go.uber.org/zap"

	"github.com/mikey/avatar-blocker/internal/adapters/bedrock"
	"github.com/mikey/avatar-blocker/internal/adapters/gemini"
	"github.com/mikey/avatar-blocker/internal/adapters/huggingface"
	"github.com/mikey/avatar-blocker/internal/adapters/openai"
	"github.com/mikey/avatar-blocker/internal/config"
	"github.com/mikey/avatar-blocker/internal/core"
	"github.com/mikey/avatar-blocker/internal/utils"
)

// ClassifierFactory creates image classifiers based on configuration
type ClassifierFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewClassifierFactory creates a new classifier factory
func NewClassifierFactory(cfg *config.Config, logger *zap.Logger) *ClassifierFactory {
	return &ClassifierFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateClassifier creates a classifier for the configured provider
func (f *ClassifierFactory) CreateClassifier() (core.Classifier, error) {
	provider := f.cfg.GetString("classifier.provider")

	switch provider {
	case "huggingface":
		hfCfg := f.cfg.GetHuggingFace()
		userAgent := f.cfg.GetString("mastodon.user_agent")
		if userAgent == "" {
			userAgent = utils.DefaultUserAgent()
		}
		return huggingface.NewClassifier(
			utils.RobustHTTPClient(60*time.Second, f.logger),
			hfCfg.Endpoint,
			hfCfg.Model,
			hfCfg.APIKey,
			userAgent,
			f.logger,
		), nil
	case "openai":
		openaiCfg := f.cfg.GetOpenAI()
		if openaiCfg.APIKey == "" {
			return nil, fmt.Errorf("openai API key is required")
		}
		return openai.NewClassifier(
			openaiCfg.APIKey,
			openaiCfg.ModelName,
			openaiCfg.MaxTokens,
			f.logger,
		), nil
	case "gemini":
		geminiCfg := f.cfg.GetGemini()
		if geminiCfg.APIKey == "" {
			return nil, fmt.Errorf("gemini API key is required")
		}
		return gemini.NewClassifier(
			geminiCfg.APIKey,
			geminiCfg.ModelName,
			geminiCfg.MaxTokens,
			f.logger,
		)
	case "bedrock":
		bedrockCfg := f.cfg.GetBedrock()
		awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
			awsconfig.WithRegion(bedrockCfg.Region),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
		}
		return bedrock.NewClassifier(
			bedrockruntime.NewFromConfig(awsCfg),
			bedrockCfg.ModelID,
			bedrockCfg.MaxTokens,
			f.logger,
		), nil
	default:
		return nil, fmt.Errorf("unsupported classifier provider: %s", provider)
	}
}
