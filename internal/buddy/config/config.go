package config

import (
	"fmt"
	"time"

	"github.com/longkey1/mdbuddy/internal/buddy"
	"github.com/spf13/viper"
)

// Config holds the configuration for mdbuddy and its completion providers
type Config struct {
	Model            string   `toml:"model" mapstructure:"model"` // Format: "provider:model" (e.g., "openai:gpt-4.1")
	OpenAIBaseURL    string   `toml:"openai_base_url" mapstructure:"openai_base_url"`
	OpenAIToken      string   `toml:"openai_token" mapstructure:"openai_token"`
	GeminiBaseURL    string   `toml:"gemini_base_url" mapstructure:"gemini_base_url"`
	GeminiToken      string   `toml:"gemini_token" mapstructure:"gemini_token"`
	AnthropicBaseURL string   `toml:"anthropic_base_url" mapstructure:"anthropic_base_url"`
	AnthropicToken   string   `toml:"anthropic_token" mapstructure:"anthropic_token"`
	PromptDirs       []string `toml:"prompt_dirs" mapstructure:"prompt_dirs"`
	SystemPrompt     string   `toml:"system_prompt" mapstructure:"system_prompt"` // Prepended as the system turn (can be empty)
	Notation         string   `toml:"notation" mapstructure:"notation"`           // "fence" or "callout"
	MaxTokens        int      `toml:"max_tokens" mapstructure:"max_tokens"`
	Timeout          string   `toml:"timeout" mapstructure:"timeout"` // Go duration, e.g. "2m"
}

// GetModel returns the model string in "provider:model" format
func (c *Config) GetModel() string {
	return c.Model
}

// GetProvider extracts provider name from the model string
func (c *Config) GetProvider() (string, error) {
	provider, _, err := buddy.ParseModelString(c.Model)
	return provider, err
}

// GetModelName extracts model name from the model string
func (c *Config) GetModelName() (string, error) {
	_, model, err := buddy.ParseModelString(c.Model)
	return model, err
}

// GetMaxTokens returns the reply token limit, falling back to the default
func (c *Config) GetMaxTokens() int {
	if c.MaxTokens <= 0 {
		return DefaultMaxTokens
	}
	return c.MaxTokens
}

// GetTimeout returns the request timeout. An empty value means the default.
func (c *Config) GetTimeout() (time.Duration, error) {
	if c.Timeout == "" {
		return DefaultTimeout, nil
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout %q: %w", c.Timeout, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("timeout must be positive (got %s)", c.Timeout)
	}
	return d, nil
}

// GetNotation returns the document notation
func (c *Config) GetNotation() (buddy.Notation, error) {
	return buddy.ParseNotation(c.Notation)
}

const (
	DefaultMaxTokens = 8192
	DefaultTimeout   = 2 * time.Minute
)

// NewDefaultConfig returns a new Config with default values
func NewDefaultConfig(promptDir string) *Config {
	return &Config{
		Model:            "openai:gpt-4.1",
		OpenAIBaseURL:    "https://api.openai.com/v1",
		OpenAIToken:      "$OPENAI_API_KEY", // Default to env var
		GeminiBaseURL:    "https://generativelanguage.googleapis.com/v1beta",
		GeminiToken:      "$GEMINI_API_KEY",
		AnthropicBaseURL: "https://api.anthropic.com/v1",
		AnthropicToken:   "$ANTHROPIC_API_KEY",
		PromptDirs:       []string{promptDir},
		SystemPrompt:     "",
		Notation:         string(buddy.NotationFence),
		MaxTokens:        DefaultMaxTokens,
		Timeout:          DefaultTimeout.String(),
	}
}

// SetDefaults registers the default values with viper
func SetDefaults(v *viper.Viper, defaults *Config, promptDirs []string) {
	v.SetDefault("model", defaults.Model)
	v.SetDefault("openai_base_url", defaults.OpenAIBaseURL)
	v.SetDefault("openai_token", defaults.OpenAIToken)
	v.SetDefault("gemini_base_url", defaults.GeminiBaseURL)
	v.SetDefault("gemini_token", defaults.GeminiToken)
	v.SetDefault("anthropic_base_url", defaults.AnthropicBaseURL)
	v.SetDefault("anthropic_token", defaults.AnthropicToken)
	v.SetDefault("prompt_dirs", promptDirs)
	v.SetDefault("system_prompt", defaults.SystemPrompt)
	v.SetDefault("notation", defaults.Notation)
	v.SetDefault("max_tokens", defaults.MaxTokens)
	v.SetDefault("timeout", defaults.Timeout)
}

// LoadConfig loads configuration from the global viper instance
func LoadConfig() (*Config, error) {
	return LoadConfigFrom(viper.GetViper())
}

// LoadConfigFrom loads configuration from the given viper instance
func LoadConfigFrom(v *viper.Viper) (*Config, error) {
	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// Expand $VAR / ${VAR} references in credentials and endpoints
	for _, field := range []*string{
		&config.OpenAIBaseURL, &config.OpenAIToken,
		&config.GeminiBaseURL, &config.GeminiToken,
		&config.AnthropicBaseURL, &config.AnthropicToken,
	} {
		*field = expandEnvVar(*field)
	}

	if _, err := config.GetNotation(); err != nil {
		return nil, err
	}

	// Convert prompt directories to absolute paths
	for i, promptDir := range config.PromptDirs {
		absPath, err := ResolvePath(v, promptDir)
		if err != nil {
			return nil, fmt.Errorf("error resolving prompt directory path '%s': %w", promptDir, err)
		}
		config.PromptDirs[i] = absPath
	}

	return config, nil
}
