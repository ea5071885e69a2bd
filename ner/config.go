package ner

import (
	"fmt"
	"strings"
	"time"

	"github.com/kbukum/vlmscribe/gradio"
)

// Defaults for the hosted NER space.
const (
	DefaultSpace  = "wjbmattingly/caracal"
	DefaultModel  = "Qwen/Qwen2.5-VL-7B-Instruct"
	DefaultLabels = "person, organization, location, date, event"
	DefaultAPI    = "/run_example"
)

// Config configures a Transcriber.
type Config struct {
	Space   string        `yaml:"space" mapstructure:"space"`
	BaseURL string        `yaml:"base_url" mapstructure:"base_url"`
	Token   string        `yaml:"token" mapstructure:"token"`
	Model   string        `yaml:"model" mapstructure:"model"`
	Labels  string        `yaml:"labels" mapstructure:"labels"`
	API     string        `yaml:"api" mapstructure:"api"`
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// ApplyDefaults sets unset fields.
func (c *Config) ApplyDefaults() {
	if c.Space == "" {
		c.Space = DefaultSpace
	}
	if c.Model == "" {
		c.Model = DefaultModel
	}
	if c.Labels == "" {
		c.Labels = DefaultLabels
	}
	if c.API == "" {
		c.API = DefaultAPI
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.Space == "" && c.BaseURL == "" {
		return fmt.Errorf("ner: space or base_url is required")
	}
	if !strings.HasPrefix(c.API, "/") {
		return fmt.Errorf("ner: api must start with '/' (got: %q)", c.API)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("ner: timeout must not be negative (got: %s)", c.Timeout)
	}
	return nil
}

// LabelList returns the configured labels as a slice.
func (c *Config) LabelList() []string {
	var out []string
	for _, l := range strings.Split(c.Labels, ",") {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}

func (c *Config) gradioConfig() gradio.Config {
	return gradio.Config{
		Space:   c.Space,
		BaseURL: c.BaseURL,
		Token:   c.Token,
		Timeout: c.Timeout,
	}
}
