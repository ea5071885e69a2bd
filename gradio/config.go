package gradio

import (
	"fmt"
	"strings"
	"time"
)

// DefaultTimeout bounds non-streaming calls. Prediction streams are bounded
// by the caller's context only.
const DefaultTimeout = 60 * time.Second

// Config configures a Client.
type Config struct {
	// Space is a Hugging Face Space in "owner/name" form. Ignored when
	// BaseURL is set.
	Space string `yaml:"space" mapstructure:"space"`
	// BaseURL is the root URL of the Gradio app.
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
	// Token is sent as a bearer token when set. Normally bound from HF_TOKEN.
	Token string `yaml:"token" mapstructure:"token"`
	// Timeout bounds uploads and call submission.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// ApplyDefaults derives BaseURL from Space and sets the timeout.
func (c *Config) ApplyDefaults() {
	if c.BaseURL == "" && c.Space != "" {
		c.BaseURL = SpaceURL(c.Space)
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("gradio: base_url or space is required")
	}
	if c.Timeout < 0 {
		return fmt.Errorf("gradio: timeout must not be negative (got: %s)", c.Timeout)
	}
	return nil
}

// SpaceURL returns the direct URL of a Hugging Face Space, e.g.
// "wjbmattingly/caracal" becomes "https://wjbmattingly-caracal.hf.space".
func SpaceURL(space string) string {
	host := strings.ToLower(strings.Trim(space, "/"))
	host = strings.NewReplacer("/", "-", "_", "-", ".", "-").Replace(host)
	return "https://" + host + ".hf.space"
}
