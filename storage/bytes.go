package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
)

// ByteClient provides a []byte-oriented view of a Storage for callers that
// work with small in-memory documents such as history records.
type ByteClient interface {
	// Put stores data at path.
	Put(ctx context.Context, path string, data []byte) error
	// Create stores data at path unless it is taken, failing with ErrExists.
	// It is atomic only when the backend implements Creator.
	Create(ctx context.Context, path string, data []byte) error
	// Get reads the whole object at path.
	Get(ctx context.Context, path string) ([]byte, error)
	// Exists checks whether an object exists at path.
	Exists(ctx context.Context, path string) (bool, error)
	// List returns metadata for all objects whose path starts with prefix.
	List(ctx context.Context, prefix string) ([]FileInfo, error)
}

type byteAdapter struct {
	storage Storage
}

// NewByteClient wraps a streaming Storage with []byte convenience methods.
func NewByteClient(s Storage) ByteClient {
	return &byteAdapter{storage: s}
}

func (a *byteAdapter) Put(ctx context.Context, path string, data []byte) error {
	return a.storage.Upload(ctx, path, bytes.NewReader(data))
}

func (a *byteAdapter) Create(ctx context.Context, path string, data []byte) error {
	if c, ok := a.storage.(Creator); ok {
		return c.Create(ctx, path, bytes.NewReader(data))
	}
	taken, err := a.storage.Exists(ctx, path)
	if err != nil {
		return err
	}
	if taken {
		return fmt.Errorf("%w: %s", ErrExists, path)
	}
	return a.Put(ctx, path, data)
}

func (a *byteAdapter) Get(ctx context.Context, path string) ([]byte, error) {
	rc, err := a.storage.Download(ctx, path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

func (a *byteAdapter) Exists(ctx context.Context, path string) (bool, error) {
	return a.storage.Exists(ctx, path)
}

func (a *byteAdapter) List(ctx context.Context, prefix string) ([]FileInfo, error) {
	return a.storage.List(ctx, prefix)
}
