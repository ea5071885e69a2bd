package main

import (
	"fmt"

	"github.com/kbukum/vlmscribe/config"
	"github.com/kbukum/vlmscribe/database"
	"github.com/kbukum/vlmscribe/history"
	"github.com/kbukum/vlmscribe/ner"
	"github.com/kbukum/vlmscribe/observability"
	"github.com/kbukum/vlmscribe/redis"
	"github.com/kbukum/vlmscribe/server"
	"github.com/kbukum/vlmscribe/storage"
	"github.com/kbukum/vlmscribe/transcription"
)

const serviceName = "vlmscribe"

// AppConfig is the configuration of the vlmscribe binary. Provider blocks
// (openai, google, anthropic) sit at the top level so that OPENAI_API_KEY
// binds to openai.api_key.
type AppConfig struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`
	transcription.Config `yaml:",inline" mapstructure:",squash"`

	Server        server.Config        `yaml:"server" mapstructure:"server"`
	History       history.Config       `yaml:"history" mapstructure:"history"`
	Storage       storage.Config       `yaml:"storage" mapstructure:"storage"`
	Images        storage.Config       `yaml:"images" mapstructure:"images"`
	Redis         redis.Config         `yaml:"redis" mapstructure:"redis"`
	Database      database.Config      `yaml:"database" mapstructure:"database"`
	HF            ner.Config           `yaml:"hf" mapstructure:"hf"`
	Observability observability.Config `yaml:"observability" mapstructure:"observability"`
}

// ApplyDefaults fills every section.
func (c *AppConfig) ApplyDefaults() {
	c.ServiceConfig.ApplyDefaults()
	c.Server.ApplyDefaults()
	c.History.ApplyDefaults()
	c.Storage.ApplyDefaults()
	c.Images.ApplyDefaults()
	c.HF.ApplyDefaults()
	c.Observability.ApplyDefaults()
	switch c.History.Backend {
	case history.BackendRedis:
		c.Redis.ApplyDefaults()
	case history.BackendSQL:
		c.Database.ApplyDefaults()
	}
}

type sectionCheck struct {
	name string
	fn   func() error
}

// Validate checks every section in use.
func (c *AppConfig) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	checks := []sectionCheck{
		{"providers", c.Config.Validate},
		{"server", c.Server.Validate},
		{"history", c.History.Validate},
		{"images", c.Images.Validate},
		{"hf", c.HF.Validate},
		{"observability", c.Observability.Validate},
	}
	switch c.History.Backend {
	case history.BackendStorage:
		checks = append(checks, sectionCheck{"storage", c.Storage.Validate})
	case history.BackendRedis:
		checks = append(checks, sectionCheck{"redis", c.Redis.Validate})
	case history.BackendSQL:
		checks = append(checks, sectionCheck{"database", c.Database.Validate})
	}
	for _, check := range checks {
		if err := check.fn(); err != nil {
			return fmt.Errorf("%s: %w", check.name, err)
		}
	}
	return nil
}

// loadConfig reads config.yml, .env and the environment. Explicit paths
// override the search locations.
func loadConfig(configFile, envFile string) (*AppConfig, error) {
	var opts []config.LoaderOption
	if configFile != "" {
		opts = append(opts, config.WithConfigFile(configFile))
	}
	if envFile != "" {
		opts = append(opts, config.WithEnvFile(envFile))
	}

	cfg := &AppConfig{}
	if err := config.LoadConfig(serviceName, cfg, opts...); err != nil {
		return nil, err
	}
	return cfg, nil
}
