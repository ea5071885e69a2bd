package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrNotFound is returned (wrapped) by Download when no object exists at
// the requested path.
var ErrNotFound = errors.New("storage: object not found")

// ErrExists is returned (wrapped) by Create when the path is already taken.
var ErrExists = errors.New("storage: object already exists")

// FileInfo contains metadata about a stored object.
type FileInfo struct {
	Path         string
	Size         int64
	LastModified time.Time
	ContentType  string
}

// Storage defines the interface for object storage operations. Paths are
// slash-separated and relative to the backend root.
type Storage interface {
	// Upload writes data from reader to the given path, replacing any
	// existing object.
	Upload(ctx context.Context, path string, reader io.Reader) error

	// Download returns a reader for the object at the given path.
	// The caller is responsible for closing the returned ReadCloser.
	Download(ctx context.Context, path string) (io.ReadCloser, error)

	// Delete removes the object at the given path.
	// Returns nil if the object does not exist.
	Delete(ctx context.Context, path string) error

	// Exists checks whether an object exists at the given path.
	Exists(ctx context.Context, path string) (bool, error)

	// URL returns a URL for accessing the object at the given path.
	URL(ctx context.Context, path string) (string, error)

	// List returns metadata for all objects whose path starts with prefix,
	// sorted by path.
	List(ctx context.Context, prefix string) ([]FileInfo, error)
}

// Creator is implemented by backends that can write an object only when its
// path is free, as one step that other processes sharing the backend observe.
type Creator interface {
	// Create writes data from reader to path, or fails with ErrExists.
	Create(ctx context.Context, path string, reader io.Reader) error
}

// IsExists reports whether err is, or wraps, ErrExists.
func IsExists(err error) bool {
	return errors.Is(err, ErrExists)
}

// IsNotFound reports whether err is, or wraps, ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
