package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	v *viper.Viper
}

// New creates a new configuration instance
func New() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("/etc/avatar-blocker/")
	v.AddConfigPath("$HOME/.avatar-blocker")
	v.AddConfigPath("./configs")
	v.AddConfigPath(".")

	// Set defaults
	setDefaults(v)

	// Environment variables
	v.AutomaticEnv()
	v.SetEnvPrefix("AVATAR_BLOCKER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found, using defaults
	}

	return &Config{v: v}, nil
}

// NewFromViper creates a new configuration instance from an existing Viper instance
func NewFromViper(v *viper.Viper) *Config {
	return &Config{v: v}
}

// NewEmptyViper creates a new Viper instance with defaults
func NewEmptyViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	return v
}

// setDefaults sets the default configuration values
func setDefaults(v *viper.Viper) {
	// Mastodon defaults
	v.SetDefault("mastodon.instance", "mastodon.social")
	v.SetDefault("mastodon.access_token", "")
	v.SetDefault("mastodon.user_agent", "")

	// Classifier provider defaults
	v.SetDefault("classifier.provider", "huggingface")

	// HuggingFace defaults
	v.SetDefault("huggingface.endpoint", "https://api-inference.huggingface.co")
	v.SetDefault("huggingface.model", "google/vit-base-patch16-224")
	v.SetDefault("huggingface.api_key", "")

	// OpenAI defaults
	v.SetDefault("openai.api_key", "")
	v.SetDefault("openai.model_name", "gpt-4o")
	v.SetDefault("openai.max_tokens", 500)

	// Gemini defaults
	v.SetDefault("gemini.api_key", "")
	v.SetDefault("gemini.model_name", "gemini-1.5-flash")
	v.SetDefault("gemini.max_tokens", 500)

	// Bedrock defaults
	v.SetDefault("bedrock.region", "us-east-1")
	v.SetDefault("bedrock.model_id", "anthropic.claude-3-haiku-20240307-v1:0")
	v.SetDefault("bedrock.max_tokens", 500)

	// Policy defaults
	v.SetDefault("policy.bad_labels", []string{"bad"})
	v.SetDefault("policy.minimum_score", 0.75)
	v.SetDefault("policy.include_following", false)
	v.SetDefault("policy.exclude_followers", false)
	v.SetDefault("policy.auto_block", false)
	v.SetDefault("policy.allowed_accounts", []string{})

	// Cache defaults
	v.SetDefault("cache.image_ttl", "45m")
	v.SetDefault("cache.image_capacity", 1024)
	v.SetDefault("cache.relationship_ttl", "6h")
	v.SetDefault("cache.relationship_capacity", 1024)
	v.SetDefault("cache.verdict_capacity", 512)
	v.SetDefault("cache.cleanup_frequency", "5m")

	// Stream defaults
	v.SetDefault("streams.watch_hashtags", []string{})
	v.SetDefault("streams.disable_user", false)
	v.SetDefault("streams.disable_public", false)
	v.SetDefault("streams.backfill_limit", 40)

	// Dispatcher defaults
	v.SetDefault("dispatcher.queue_size", 256)
	v.SetDefault("dispatcher.workers", 4)

	// Notifier defaults
	v.SetDefault("notify.type", "log")
	v.SetDefault("notify.smtp.address", "")
	v.SetDefault("notify.smtp.from", "")
	v.SetDefault("notify.smtp.to", "")
	v.SetDefault("notify.smtp.username", "")
	v.SetDefault("notify.smtp.password", "")

	// Journal defaults
	v.SetDefault("journal.enabled", false)
	v.SetDefault("journal.sqlite_path", "/data/avatar_decisions.db")

	// Metrics defaults
	v.SetDefault("metrics.listen_address", "")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}

// GetString gets a string value from the configuration
func (c *Config) GetString(key string) string {
	return c.v.GetString(key)
}

// GetInt gets an integer value from the configuration
func (c *Config) GetInt(key string) int {
	return c.v.GetInt(key)
}

// GetFloat64 gets a float64 value from the configuration
func (c *Config) GetFloat64(key string) float64 {
	return c.v.GetFloat64(key)
}

// GetBool gets a boolean value from the configuration
func (c *Config) GetBool(key string) bool {
	return c.v.GetBool(key)
}

// GetStringSlice gets a string slice value from the configuration
func (c *Config) GetStringSlice(key string) []string {
	return c.v.GetStringSlice(key)
}

// GetDuration gets a duration value from the configuration
func (c *Config) GetDuration(key string) (time.Duration, error) {
	return time.ParseDuration(c.GetString(key))
}

// GetViper returns the underlying Viper instance
func (c *Config) GetViper() *viper.Viper {
	return c.v
}
