package document

import (
	"context"

	apperrors "github.com/kbukum/vlmscribe/errors"
	"github.com/kbukum/vlmscribe/logger"
	"github.com/kbukum/vlmscribe/redis"
)

// DefaultRedisPrefix namespaces document keys in redis.
const DefaultRedisPrefix = "vlmscribe:documents"

// RedisStore keeps documents as JSON strings indexed by ID.
type RedisStore struct {
	docs *redis.TypedStore[Document]
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
		docs: redis.NewTypedStore[Document](client, keyPrefix),
		log:  log.WithComponent("documents"),
	}
}

// Create claims doc.ID with SETNX.
func (s *RedisStore) Create(ctx context.Context, doc Document) error {
	if !validID(doc.ID) {
		return apperrors.InvalidInput("id", "must be a UUID")
	}
	ok, err := s.docs.Create(ctx, doc.ID, &doc)
	if err != nil {
		return apperrors.StorageError("document create", err)
	}
	if !ok {
		return apperrors.AlreadyExists("document")
	}
	return nil
}

// Get loads the document for id.
func (s *RedisStore) Get(ctx context.Context, id string) (Document, error) {
	if !validID(id) {
		return Document{}, NotFound(id)
	}
	doc, err := s.docs.Load(ctx, id)
	if err != nil {
		if redis.IsDecodeError(err) {
			return Document{}, NotFound(id).WithCause(err)
		}
		return Document{}, apperrors.StorageError("document get", err)
	}
	if doc == nil || !validID(doc.ID) {
		return Document{}, NotFound(id)
	}
	return *doc, nil
}

// List loads every indexed document, skipping malformed ones.
func (s *RedisStore) List(ctx context.Context) ([]Document, error) {
	keys, err := s.docs.Keys(ctx)
	if err != nil {
		return nil, apperrors.StorageError("document list", err)
	}
	docs := make([]Document, 0, len(keys))
	for _, key := range keys {
		doc, err := s.docs.Load(ctx, key)
		if err != nil {
			s.log.Warn("skipping malformed document", map[string]interface{}{"key": key, logger.FieldError: err.Error()})
			continue
		}
		if doc == nil || !validID(doc.ID) {
			continue
		}
		docs = append(docs, *doc)
	}
	sortNewestFirst(docs)
	return docs, nil
}
