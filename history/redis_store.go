package history

import (
	"context"

	apperrors "github.com/kbukum/vlmscribe/errors"
	"github.com/kbukum/vlmscribe/logger"
	"github.com/kbukum/vlmscribe/redis"
	"github.com/kbukum/vlmscribe/validation"
)

// DefaultRedisPrefix namespaces history keys in redis.
const DefaultRedisPrefix = "vlmscribe:history"

// RedisStore keeps records as JSON strings with a sorted key index.
// Appends claim their key with SETNX, so concurrent writers never overwrite.
type RedisStore struct {
	docs *redis.TypedStore[Record]
	log  *logger.Logger
}

var _ Store = (*RedisStore)(nil)

// NewRedisStore creates a store under keyPrefix, or DefaultRedisPrefix when empty.
func NewRedisStore(client *redis.Client, keyPrefix string, log *logger.Logger) *RedisStore {
	if keyPrefix == "" {
		keyPrefix = DefaultRedisPrefix
	}
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	return &RedisStore{
		docs: redis.NewTypedStore[Record](client, keyPrefix),
		log:  log.WithComponent("history"),
	}
}

// Append claims the first free key for rec's timestamp.
func (s *RedisStore) Append(ctx context.Context, rec Record) (Record, error) {
	if err := checkAppend(rec); err != nil {
		return Record{}, err
	}
	for _, key := range candidates(rec.Timestamp) {
		stored := rec
		stored.Timestamp = key
		ok, err := s.docs.Create(ctx, key, &stored)
		if err != nil {
			return Record{}, apperrors.StorageError("history append", err)
		}
		if ok {
			return stored, nil
		}
	}
	return Record{}, exhausted(rec.Timestamp)
}

// List loads every indexed record. Entries that vanished or fail to decode
// are skipped.
func (s *RedisStore) List(ctx context.Context) ([]Record, error) {
	keys, err := s.docs.Keys(ctx)
	if err != nil {
		return nil, apperrors.StorageError("history list", err)
	}
	records := make([]Record, 0, len(keys))
	for _, key := range keys {
		rec, err := s.docs.Load(ctx, key)
		if err != nil {
			s.log.Warn("skipping malformed history entry", map[string]interface{}{"key": key, logger.FieldError: err.Error()})
			continue
		}
		if rec == nil {
			continue
		}
		if !validation.IsTimestamp(rec.Timestamp) {
			s.log.Warn("skipping malformed history entry", map[string]interface{}{"key": key, logger.FieldError: errNoTimestamp.Error()})
			continue
		}
		records = append(records, *rec)
	}
	sortNewestFirst(records)
	return records, nil
}

// Get loads the record for ts.
func (s *RedisStore) Get(ctx context.Context, ts string) (Record, error) {
	if !validation.IsTimestamp(ts) {
		return Record{}, EntryNotFound(ts)
	}
	rec, err := s.docs.Load(ctx, ts)
	if err != nil {
		if redis.IsDecodeError(err) {
			return Record{}, EntryNotFound(ts).WithCause(err)
		}
		return Record{}, apperrors.StorageError("history get", err)
	}
	if rec == nil {
		return Record{}, EntryNotFound(ts)
	}
	if !validation.IsTimestamp(rec.Timestamp) {
		return Record{}, EntryNotFound(ts).WithCause(errNoTimestamp)
	}
	return *rec, nil
}
