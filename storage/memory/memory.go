// Package memory implements storage.Storage with an in-process map.
package memory

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"path"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/kbukum/vlmscribe/logger"
	"github.com/kbukum/vlmscribe/storage"
)

func init() {
	storage.RegisterFactory(storage.ProviderMemory, func(context.Context, storage.Config, *logger.Logger) (storage.Storage, error) {
		return New(), nil
	})
}

type object struct {
	data    []byte
	modTime time.Time
}

// Storage keeps objects in memory. It is safe for concurrent use.
type Storage struct {
	mu      sync.RWMutex
	objects map[string]object
	now     func() time.Time
}

// compile-time checks
var (
	_ storage.Storage = (*Storage)(nil)
	_ storage.Creator = (*Storage)(nil)
)

// New returns an empty storage.
func New() *Storage {
	return &Storage{objects: make(map[string]object), now: time.Now}
}

func (s *Storage) Upload(_ context.Context, p string, reader io.Reader) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return fmt.Errorf("storage: read upload: %w", err)
	}
	s.mu.Lock()
	s.objects[p] = object{data: data, modTime: s.now()}
	s.mu.Unlock()
	return nil
}

// Create stores the object unless p is taken.
func (s *Storage) Create(_ context.Context, p string, reader io.Reader) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return fmt.Errorf("storage: read upload: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.objects[p]; ok {
		return fmt.Errorf("%w: %s", storage.ErrExists, p)
	}
	s.objects[p] = object{data: data, modTime: s.now()}
	return nil
}

func (s *Storage) Download(_ context.Context, p string) (io.ReadCloser, error) {
	s.mu.RLock()
	obj, ok := s.objects[p]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", storage.ErrNotFound, p)
	}
	return io.NopCloser(bytes.NewReader(obj.data)), nil
}

func (s *Storage) Delete(_ context.Context, p string) error {
	s.mu.Lock()
	delete(s.objects, p)
	s.mu.Unlock()
	return nil
}

func (s *Storage) Exists(_ context.Context, p string) (bool, error) {
	s.mu.RLock()
	_, ok := s.objects[p]
	s.mu.RUnlock()
	return ok, nil
}

func (s *Storage) URL(_ context.Context, p string) (string, error) {
	return "memory:///" + strings.TrimPrefix(p, "/"), nil
}

func (s *Storage) List(_ context.Context, prefix string) ([]storage.FileInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	files := []storage.FileInfo{}
	for p, obj := range s.objects {
		if !strings.HasPrefix(p, prefix) {
			continue
		}
		files = append(files, storage.FileInfo{
			Path:         p,
			Size:         int64(len(obj.data)),
			LastModified: obj.modTime,
			ContentType:  mime.TypeByExtension(path.Ext(p)),
		})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}
