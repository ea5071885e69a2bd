package vlm

import (
	"fmt"
	"time"
)

// DefaultMaxTokens is the output cap sent when nothing else is configured.
const DefaultMaxTokens = 1000

// Config holds the settings of one provider adapter.
type Config struct {
	// APIKey is required; New fails without it.
	APIKey string `yaml:"api_key" mapstructure:"api_key"`
	// BaseURL overrides the dialect's public endpoint (proxies, tests).
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
	// Model overrides the dialect's default model.
	Model string `yaml:"model" mapstructure:"model"`
	// MaxTokens caps the response length.
	MaxTokens int `yaml:"max_tokens" mapstructure:"max_tokens"`
	// Temperature is only sent by dialects that support it.
	Temperature float64 `yaml:"temperature" mapstructure:"temperature"`
	// Timeout bounds a call. Zero means no client-side timeout.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// applyDefaults fills unset fields from the dialect.
func (c *Config) applyDefaults(d Dialect) {
	if c.BaseURL == "" {
		c.BaseURL = d.DefaultBaseURL()
	}
	if c.Model == "" {
		c.Model = d.DefaultModel()
	}
	if c.MaxTokens <= 0 {
		c.MaxTokens = DefaultMaxTokens
	}
}

// Validate checks value ranges. A missing key is reported by New, not here,
// so configs for unused providers may leave it empty.
func (c *Config) Validate() error {
	if c.MaxTokens < 0 {
		return fmt.Errorf("max_tokens must not be negative (got: %d)", c.MaxTokens)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative (got: %s)", c.Timeout)
	}
	return nil
}
