// Package testutil provides a miniredis-backed redis component for tests.
package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/alicebob/miniredis/v2"

	"github.com/kbukum/vlmscribe/component"
	"github.com/kbukum/vlmscribe/logger"
	"github.com/kbukum/vlmscribe/redis"
	"github.com/kbukum/vlmscribe/testutil"
)

// Component runs an in-process redis server and a client connected to it.
type Component struct {
	mini   *miniredis.Miniredis
	client *redis.Client
	mu     sync.Mutex
}

var (
	_ component.Component    = (*Component)(nil)
	_ testutil.TestComponent = (*Component)(nil)
)

// NewComponent creates an unstarted component.
func NewComponent() *Component { return &Component{} }

// Client returns the connected client, or nil before Start.
func (c *Component) Client() *redis.Client { return c.client }

// Server returns the miniredis instance for direct inspection.
func (c *Component) Server() *miniredis.Miniredis { return c.mini }

// Name returns the component name.
func (c *Component) Name() string { return "redis-test" }

// Start launches miniredis and connects a client.
func (c *Component) Start(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.mini != nil {
		return fmt.Errorf("component already started")
	}
	mini, err := miniredis.Run()
	if err != nil {
		return err
	}
	client, err := redis.New(redis.Config{Addr: mini.Addr()}, logger.Nop())
	if err != nil {
		mini.Close()
		return err
	}
	c.mini, c.client = mini, client
	return nil
}

// Stop closes the client and the server.
func (c *Component) Stop(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.mini == nil {
		return nil
	}
	err := c.client.Close()
	c.mini.Close()
	c.mini, c.client = nil, nil
	return err
}

// Health pings the server through the client.
func (c *Component) Health(ctx context.Context) component.Health {
	if c.client == nil {
		return component.Health{Name: c.Name(), Status: component.StatusUnhealthy, Message: "not started"}
	}
	if err := c.client.Ping(ctx); err != nil {
		return component.Health{Name: c.Name(), Status: component.StatusUnhealthy, Message: err.Error()}
	}
	return component.Health{Name: c.Name(), Status: component.StatusHealthy}
}

// Reset deletes every key.
func (c *Component) Reset(_ context.Context) error {
	if c.mini == nil {
		return fmt.Errorf("component not started")
	}
	c.mini.FlushAll()
	return nil
}

type snapshot struct {
	strings map[string]string
	zsets   map[string]map[string]float64
}

// Snapshot copies string and sorted-set keys, the types history uses.
func (c *Component) Snapshot(_ context.Context) (interface{}, error) {
	if c.mini == nil {
		return nil, fmt.Errorf("component not started")
	}
	snap := snapshot{strings: map[string]string{}, zsets: map[string]map[string]float64{}}
	for _, key := range c.mini.Keys() {
		switch c.mini.Type(key) {
		case "string":
			v, err := c.mini.Get(key)
			if err != nil {
				return nil, err
			}
			snap.strings[key] = v
		case "zset":
			members, err := c.mini.ZMembers(key)
			if err != nil {
				return nil, err
			}
			scores := make(map[string]float64, len(members))
			for _, m := range members {
				if scores[m], err = c.mini.ZScore(key, m); err != nil {
					return nil, err
				}
			}
			snap.zsets[key] = scores
		default:
			return nil, fmt.Errorf("snapshot: unsupported type %q for key %s", c.mini.Type(key), key)
		}
	}
	return snap, nil
}

// Restore replaces the data set with a snapshot.
func (c *Component) Restore(_ context.Context, s interface{}) error {
	snap, ok := s.(snapshot)
	if !ok {
		return fmt.Errorf("restore: unexpected snapshot type %T", s)
	}
	c.mini.FlushAll()
	for k, v := range snap.strings {
		if err := c.mini.Set(k, v); err != nil {
			return err
		}
	}
	for k, scores := range snap.zsets {
		for m, score := range scores {
			if _, err := c.mini.ZAdd(k, score, m); err != nil {
				return err
			}
		}
	}
	return nil
}
