package storage

import (
	"context"
	"fmt"

	"github.com/kbukum/vlmscribe/component"
	"github.com/kbukum/vlmscribe/logger"
	"github.com/kbukum/vlmscribe/provider"
)

// Component wraps a Storage for lifecycle management. Several components
// may exist side by side (history documents, uploaded images), so each
// carries its own name.
type Component struct {
	name    string
	cfg     Config
	log     *logger.Logger
	storage Storage
}

// compile-time assertions
var (
	_ component.Component   = (*Component)(nil)
	_ component.Describable = (*Component)(nil)
	_ provider.Provider     = (*Component)(nil)
)

// NewComponent creates a storage component named name.
func NewComponent(name string, cfg Config, log *logger.Logger) *Component {
	cfg.ApplyDefaults()
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	return &Component{name: name, cfg: cfg, log: log.WithComponent(name)}
}

// Storage returns the underlying Storage, or nil if not started.
func (c *Component) Storage() Storage { return c.storage }

// Name returns the component name.
func (c *Component) Name() string { return c.name }

// IsAvailable reports whether the backend has been initialized.
func (c *Component) IsAvailable(context.Context) bool { return c.storage != nil }

// Start initializes the storage backend.
func (c *Component) Start(ctx context.Context) error {
	s, err := New(ctx, c.cfg, c.log)
	if err != nil {
		return fmt.Errorf("%s start: %w", c.name, err)
	}
	c.storage = s
	return nil
}

// Stop releases the backend.
func (c *Component) Stop(context.Context) error {
	c.storage = nil
	return nil
}

// Health checks the backend with an Exists call.
func (c *Component) Health(ctx context.Context) component.Health {
	if c.storage == nil {
		return component.Health{Name: c.name, Status: component.StatusUnhealthy, Message: "storage not initialized"}
	}
	if _, err := c.storage.Exists(ctx, ".health"); err != nil {
		return component.Health{
			Name:    c.name,
			Status:  component.StatusUnhealthy,
			Message: fmt.Sprintf("health check failed: %v", err),
		}
	}
	return component.Health{Name: c.name, Status: component.StatusHealthy}
}

// Describe returns a startup summary line.
func (c *Component) Describe() component.Description {
	details := "provider=" + c.cfg.Provider
	switch c.cfg.Provider {
	case ProviderLocal:
		details += " path=" + c.cfg.BasePath
	case ProviderS3:
		details += " bucket=" + c.cfg.Bucket
		if c.cfg.Prefix != "" {
			details += " prefix=" + c.cfg.Prefix
		}
	}
	return component.Description{Name: c.name, Type: "storage", Details: details}
}
