package config

// MastodonConfig represents the configuration for the Mastodon instance
type MastodonConfig struct {
	Instance    string
	AccessToken string
	UserAgent   string
}

// HuggingFaceConfig represents the configuration for the HuggingFace Inference API
type HuggingFaceConfig struct {
	Endpoint string
	Model    string
	APIKey   string
}

// OpenAIConfig represents the configuration for OpenAI vision classification
type OpenAIConfig struct {
	APIKey    string
	ModelName string
	MaxTokens int
}

// GeminiConfig represents the configuration for Google Gemini vision classification
type GeminiConfig struct {
	APIKey    string
	ModelName string
	MaxTokens int
}

// BedrockConfig represents the configuration for Amazon Bedrock vision classification
type BedrockConfig struct {
	Region    string
	ModelID   string
	MaxTokens int
}

// StreamConfig represents which event sources to open
type StreamConfig struct {
	WatchHashtags []string
	DisableUser   bool
	DisablePublic bool
	BackfillLimit int
}

// GetMastodon returns the Mastodon configuration
func (c *Config) GetMastodon() MastodonConfig {
	return MastodonConfig{
		Instance:    c.GetString("mastodon.instance"),
		AccessToken: c.GetString("mastodon.access_token"),
		UserAgent:   c.GetString("mastodon.user_agent"),
	}
}

// GetHuggingFace returns the HuggingFace configuration
func (c *Config) GetHuggingFace() HuggingFaceConfig {
	return HuggingFaceConfig{
		Endpoint: c.GetString("huggingface.endpoint"),
		Model:    c.GetString("huggingface.model"),
		APIKey:   c.GetString("huggingface.api_key"),
	}
}

// GetOpenAI returns the OpenAI configuration
func (c *Config) GetOpenAI() OpenAIConfig {
	return OpenAIConfig{
		APIKey:    c.GetString("openai.api_key"),
		ModelName: c.GetString("openai.model_name"),
		MaxTokens: c.GetInt("openai.max_tokens"),
	}
}

// GetGemini returns the Gemini configuration
func (c *Config) GetGemini() GeminiConfig {
	return GeminiConfig{
		APIKey:    c.GetString("gemini.api_key"),
		ModelName: c.GetString("gemini.model_name"),
		MaxTokens: c.GetInt("gemini.max_tokens"),
	}
}

// GetBedrock returns the Bedrock configuration
func (c *Config) GetBedrock() BedrockConfig {
	return BedrockConfig{
		Region:    c.GetString("bedrock.region"),
		ModelID:   c.GetString("bedrock.model_id"),
		MaxTokens: c.GetInt("bedrock.max_tokens"),
	}
}

// GetStreams returns the stream source configuration
func (c *Config) GetStreams() StreamConfig {
	return StreamConfig{
		WatchHashtags: c.GetStringSlice("streams.watch_hashtags"),
		DisableUser:   c.GetBool("streams.disable_user"),
		DisablePublic: c.GetBool("streams.disable_public"),
		BackfillLimit: c.GetInt("streams.backfill_limit"),
	}
}
