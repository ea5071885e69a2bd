package testutil

import (
	"context"
	"fmt"
	"net/http/httptest"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/vlmscribe/component"
	"github.com/kbukum/vlmscribe/logger"
	"github.com/kbukum/vlmscribe/server"
	"github.com/kbukum/vlmscribe/testutil"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// RouteFunc registers routes on a fresh server.
type RouteFunc func(s *server.Server)

// Component is a test server component backed by httptest.Server. Routes
// are registered through the RouteFunc, which is replayed on Reset.
type Component struct {
	routes  RouteFunc
	srv     *server.Server
	ts      *httptest.Server
	log     *logger.Logger
	started bool
	mu      sync.RWMutex
}

var (
	_ component.Component    = (*Component)(nil)
	_ testutil.TestComponent = (*Component)(nil)
)

// NewComponent creates a test server whose routes are installed by routes.
func NewComponent(routes RouteFunc) *Component {
	return &Component{routes: routes, log: logger.Nop()}
}

func (c *Component) build() {
	cfg := server.Config{Host: "127.0.0.1"}
	cfg.ApplyDefaults()
	c.srv = server.New(cfg, c.log)
	c.srv.ApplyDefaults("vlmscribe-test", nil)
	if c.routes != nil {
		c.routes(c.srv)
	}
	c.ts = httptest.NewServer(c.srv.Handler())
}

// Server returns the underlying *server.Server.
func (c *Component) Server() *server.Server {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.srv
}

// BaseURL returns the test server's base URL, or "" if not started.
func (c *Component) BaseURL() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.ts == nil {
		return ""
	}
	return c.ts.URL
}

// Name returns the component name.
func (c *Component) Name() string { return "server-test" }

// Start builds the server and begins serving on a random port.
func (c *Component) Start(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.started {
		return fmt.Errorf("component already started")
	}
	c.build()
	c.started = true
	return nil
}

// Stop closes the test server.
func (c *Component) Stop(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.started {
		return nil
	}
	c.ts.Close()
	c.ts = nil
	c.started = false
	return nil
}

// Health reports whether the server is running.
func (c *Component) Health(_ context.Context) component.Health {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.started {
		return component.Health{Name: c.Name(), Status: component.StatusUnhealthy, Message: "not started"}
	}
	return component.Health{Name: c.Name(), Status: component.StatusHealthy}
}

// Reset recreates the server with a fresh engine, replaying the routes.
func (c *Component) Reset(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.started {
		return fmt.Errorf("component not started")
	}
	c.ts.Close()
	c.build()
	return nil
}

// Snapshot is a no-op: the server holds no state of its own.
func (c *Component) Snapshot(_ context.Context) (interface{}, error) {
	return nil, nil
}

// Restore is a no-op.
func (c *Component) Restore(_ context.Context, _ interface{}) error {
	return nil
}
