package history

import "fmt"

// Supported backends.
const (
	BackendStorage = "storage"
	BackendRedis   = "redis"
	BackendSQL     = "sql"
)

// DefaultPrefix is the directory or key prefix records are written under.
const DefaultPrefix = "history"

// Config selects the history backend.
type Config struct {
	// Backend is one of "storage", "redis" or "sql".
	Backend string `yaml:"backend" mapstructure:"backend"`
	// Prefix is the storage directory or redis key prefix.
	Prefix string `yaml:"prefix" mapstructure:"prefix"`
}

// ApplyDefaults sets sensible defaults for zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.Backend == "" {
		c.Backend = BackendStorage
	}
	if c.Prefix == "" {
		c.Prefix = DefaultPrefix
	}
}

// Validate checks that the backend is known.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendStorage, BackendRedis, BackendSQL:
		return nil
	default:
		return fmt.Errorf("unsupported history backend %q", c.Backend)
	}
}
