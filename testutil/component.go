package testutil

import (
	"context"

	"github.com/kbukum/vlmscribe/component"
)

// TestComponent is a component.Component that tests can also reset between
// cases and snapshot/restore around a destructive step.
type TestComponent interface {
	component.Component

	// Reset restores the component to its initial, empty state.
	Reset(ctx context.Context) error

	// Snapshot captures the current state for a later Restore.
	Snapshot(ctx context.Context) (interface{}, error)

	// Restore returns the component to a state captured by Snapshot.
	Restore(ctx context.Context, snapshot interface{}) error
}
