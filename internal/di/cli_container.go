package di

import (
	"flag"
	"strings"

	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mikey/avatar-blocker/internal/config"
	"github.com/mikey/avatar-blocker/internal/core"
	"github.com/mikey/avatar-blocker/internal/factory"
	"github.com/mikey/avatar-blocker/internal/logging"
)

// CLIFlags contains all command line flags for the one-shot judge CLI
type CLIFlags struct {
	// Classifier flags
	Provider        string
	HFModel         string
	HFAPIKey        string
	HFEndpoint      string
	OpenAIAPIKey    string
	OpenAIModelName string
	GeminiAPIKey    string
	GeminiModelName string
	BedrockRegion   string
	BedrockModelID  string

	// Policy flags
	BadLabels    string
	MinimumScore float64

	// Input flags
	ImageFile  string
	AccountID  string
	AvatarURL  string
	Verbose    bool
	JSONLog    bool
	ConfigFile string
}

// ParseFlags parses command line flags and returns a CLIFlags struct
func ParseFlags() *CLIFlags {
	flags := &CLIFlags{}

	// Classifier flags
	flag.StringVar(&flags.Provider, "provider", "huggingface", "classifier provider (huggingface, openai, gemini, bedrock)")
	flag.StringVar(&flags.HFModel, "hf-model", "google/vit-base-patch16-224", "HuggingFace model for avatar classification")
	flag.StringVar(&flags.HFAPIKey, "hf-api-key", "", "HuggingFace API key")
	flag.StringVar(&flags.HFEndpoint, "hf-endpoint", "https://api-inference.huggingface.co", "HuggingFace Inference API endpoint")
	flag.StringVar(&flags.OpenAIAPIKey, "openai-api-key", "", "API key for OpenAI")
	flag.StringVar(&flags.OpenAIModelName, "openai-model", "gpt-4o", "OpenAI model name")
	flag.StringVar(&flags.GeminiAPIKey, "gemini-api-key", "", "API key for Google Gemini")
	flag.StringVar(&flags.GeminiModelName, "gemini-model", "gemini-1.5-flash", "Gemini model name")
	flag.StringVar(&flags.BedrockRegion, "bedrock-region", "us-east-1", "AWS region for Bedrock")
	flag.StringVar(&flags.BedrockModelID, "bedrock-model", "anthropic.claude-3-haiku-20240307-v1:0", "Bedrock model ID")

	// Policy flags
	flag.StringVar(&flags.BadLabels, "bad-labels", "bad", "labels considered bad, separated by a comma")
	flag.Float64Var(&flags.MinimumScore, "minimum-score", 0.75, "minimum score for a bad label to count")

	// Input flags
	flag.StringVar(&flags.ImageFile, "file", "", "local image file to judge")
	flag.StringVar(&flags.AccountID, "account-id", "", "account ID to judge (with -avatar-url)")
	flag.StringVar(&flags.AvatarURL, "avatar-url", "", "avatar URL to judge")
	flag.BoolVar(&flags.Verbose, "verbose", false, "enable verbose logging")
	flag.BoolVar(&flags.JSONLog, "json-log", false, "output logs in JSON format")
	flag.StringVar(&flags.ConfigFile, "config", "", "path to config file (overrides command line flags)")

	flag.Parse()
	return flags
}

// BuildCLIContainer creates a dependency injection container for the judge CLI
func BuildCLIContainer(flags *CLIFlags) (*dig.Container, error) {
	container := dig.New()

	// Register flags
	if err := container.Provide(func() *CLIFlags { return flags }); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(func(flags *CLIFlags) (*zap.Logger, error) {
		return logging.InitConsoleLogger(flags.Verbose, flags.JSONLog)
	}); err != nil {
		return nil, err
	}

	// Register configuration
	if err := container.Provide(func(flags *CLIFlags, logger *zap.Logger) (*config.Config, error) {
		if flags.ConfigFile != "" {
			cfg, err := config.New()
			if err != nil {
				return nil, err
			}
			logger.Info("Loaded configuration from file", zap.String("file", cfg.GetViper().ConfigFileUsed()))
			return cfg, nil
		}

		// Create config from command line flags
		return createConfigFromFlags(flags), nil
	}); err != nil {
		return nil, err
	}

	// Register classifier
	if err := container.Provide(factory.NewClassifierFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(func(f *factory.ClassifierFactory) (core.Classifier, error) {
		return f.CreateClassifier()
	}); err != nil {
		return nil, err
	}

	// Register policy
	if err := container.Provide(func(cfg *config.Config) core.PolicyConfig {
		return core.PolicyConfig{
			BadLabels:    cfg.GetStringSlice("policy.bad_labels"),
			MinimumScore: cfg.GetFloat64("policy.minimum_score"),
		}
	}); err != nil {
		return nil, err
	}

	return container, nil
}

// createConfigFromFlags creates a configuration from command line flags
func createConfigFromFlags(flags *CLIFlags) *config.Config {
	v := config.NewEmptyViper()

	v.Set("classifier.provider", flags.Provider)

	switch flags.Provider {
	case "huggingface":
		v.Set("huggingface.model", flags.HFModel)
		v.Set("huggingface.api_key", flags.HFAPIKey)
		v.Set("huggingface.endpoint", flags.HFEndpoint)
	case "openai":
		v.Set("openai.api_key", flags.OpenAIAPIKey)
		v.Set("openai.model_name", flags.OpenAIModelName)
	case "gemini":
		v.Set("gemini.api_key", flags.GeminiAPIKey)
		v.Set("gemini.model_name", flags.GeminiModelName)
	case "bedrock":
		v.Set("bedrock.region", flags.BedrockRegion)
		v.Set("bedrock.model_id", flags.BedrockModelID)
	}

	v.Set("policy.bad_labels", strings.Split(flags.BadLabels, ","))
	v.Set("policy.minimum_score", flags.MinimumScore)

	return config.NewFromViper(v)
}
