package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// TypedStore keeps JSON documents under "<prefix>:<key>" and tracks their
// keys in the lexicographic index "<prefix>:index".
type TypedStore[C any] struct {
	client    *Client
	keyPrefix string
}

// NewTypedStore creates a TypedStore backed by client.
func NewTypedStore[C any](client *Client, keyPrefix string) *TypedStore[C] {
	return &TypedStore[C]{client: client, keyPrefix: keyPrefix}
}

func (s *TypedStore[C]) fullKey(key string) string {
	if s.keyPrefix == "" {
		return key
	}
	return s.keyPrefix + ":" + key
}

func (s *TypedStore[C]) indexKey() string {
	return s.fullKey("index")
}

// Load deserializes the document at key. Returns (nil, nil) if it does not exist.
func (s *TypedStore[C]) Load(ctx context.Context, key string) (*C, error) {
	raw, err := s.client.Get(ctx, s.fullKey(key))
	if err != nil {
		if IsNil(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("typed store load %q: %w", key, err)
	}

	var val C
	if err := json.Unmarshal([]byte(raw), &val); err != nil {
		return nil, fmt.Errorf("typed store unmarshal %q: %w", key, err)
	}
	return &val, nil
}

// Create stores val at key only if the key is free, and indexes it.
// It reports false without error when the key is already taken.
func (s *TypedStore[C]) Create(ctx context.Context, key string, val *C) (bool, error) {
	data, err := json.Marshal(val)
	if err != nil {
		return false, fmt.Errorf("typed store marshal %q: %w", key, err)
	}
	ok, err := s.client.SetNX(ctx, s.fullKey(key), string(data), 0)
	if err != nil {
		return false, fmt.Errorf("typed store create %q: %w", key, err)
	}
	if !ok {
		return false, nil
	}
	if err := s.client.IndexAdd(ctx, s.indexKey(), key); err != nil {
		_ = s.client.Del(ctx, s.fullKey(key))
		return false, fmt.Errorf("typed store index %q: %w", key, err)
	}
	return true, nil
}

// Keys returns every indexed key, greatest first.
func (s *TypedStore[C]) Keys(ctx context.Context) ([]string, error) {
	keys, err := s.client.IndexDescending(ctx, s.indexKey())
	if err != nil {
		return nil, fmt.Errorf("typed store keys: %w", err)
	}
	return keys, nil
}

// Delete removes the document and its index entry.
func (s *TypedStore[C]) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.fullKey(key)); err != nil {
		return fmt.Errorf("typed store delete %q: %w", key, err)
	}
	if err := s.client.IndexRemove(ctx, s.indexKey(), key); err != nil {
		return fmt.Errorf("typed store unindex %q: %w", key, err)
	}
	return nil
}

// IsDecodeError reports whether err came from a stored value that is not
// valid JSON for the document type.
func IsDecodeError(err error) bool {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	return errors.As(err, &syntaxErr) || errors.As(err, &typeErr)
}
