package history

import (
	"context"
	"encoding/json"
	"path"
	"strings"
	"sync"

	apperrors "github.com/kbukum/vlmscribe/errors"
	"github.com/kbukum/vlmscribe/logger"
	"github.com/kbukum/vlmscribe/storage"
	"github.com/kbukum/vlmscribe/validation"
)

const documentExt = ".json"

// StorageStore keeps each record as "<prefix>/<timestamp>.json" in an
// object storage backend.
type StorageStore struct {
	files  storage.ByteClient
	prefix string
	log    *logger.Logger
	mu     sync.Mutex
}

var _ Store = (*StorageStore)(nil)

// NewStorageStore creates a store writing under prefix in s.
func NewStorageStore(s storage.Storage, prefix string, log *logger.Logger) *StorageStore {
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	return &StorageStore{
		files:  storage.NewByteClient(s),
		prefix: strings.Trim(prefix, "/"),
		log:    log.WithComponent("history"),
	}
}

func (s *StorageStore) documentPath(ts string) string {
	return path.Join(s.prefix, ts+documentExt)
}

// Append writes rec under the first free key for its timestamp. Backends
// implementing storage.Creator claim keys atomically, so writers in other
// processes are safe too; otherwise only appends through this store are
// serialised.
func (s *StorageStore) Append(ctx context.Context, rec Record) (Record, error) {
	if err := checkAppend(rec); err != nil {
		return Record{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, key := range candidates(rec.Timestamp) {
		stored := rec
		stored.Timestamp = key
		data, err := json.MarshalIndent(stored, "", "  ")
		if err != nil {
			return Record{}, apperrors.Internal(err)
		}
		err = s.files.Create(ctx, s.documentPath(key), data)
		if storage.IsExists(err) {
			continue
		}
		if err != nil {
			return Record{}, storage.Translate(err, "history append", "history entry", key)
		}
		if key != rec.Timestamp {
			s.log.Debug("timestamp collision resolved", map[string]interface{}{"timestamp": rec.Timestamp, "stored_as": key})
		}
		return stored, nil
	}
	return Record{}, exhausted(rec.Timestamp)
}

// List reads every document under the prefix. Documents that cannot be
// read or decoded are logged and skipped.
func (s *StorageStore) List(ctx context.Context) ([]Record, error) {
	listPrefix := ""
	if s.prefix != "" {
		listPrefix = s.prefix + "/"
	}
	infos, err := s.files.List(ctx, listPrefix)
	if err != nil {
		return nil, storage.Translate(err, "history list", "history", "")
	}

	records := make([]Record, 0, len(infos))
	for _, info := range infos {
		if !strings.HasSuffix(info.Path, documentExt) {
			continue
		}
		data, err := s.files.Get(ctx, info.Path)
		if err != nil {
			s.log.Warn("skipping unreadable history entry", map[string]interface{}{"path": info.Path, logger.FieldError: err.Error()})
			continue
		}
		rec, err := decodeRecord(data)
		if err != nil {
			s.log.Warn("skipping malformed history entry", map[string]interface{}{"path": info.Path, logger.FieldError: err.Error()})
			continue
		}
		records = append(records, rec)
	}
	sortNewestFirst(records)
	return records, nil
}

// Get loads the document for ts.
func (s *StorageStore) Get(ctx context.Context, ts string) (Record, error) {
	if !validation.IsTimestamp(ts) {
		return Record{}, EntryNotFound(ts)
	}
	data, err := s.files.Get(ctx, s.documentPath(ts))
	if err != nil {
		if storage.IsNotFound(err) {
			return Record{}, EntryNotFound(ts).WithCause(err)
		}
		return Record{}, storage.Translate(err, "history get", "history entry", ts)
	}
	rec, err := decodeRecord(data)
	if err != nil {
		return Record{}, EntryNotFound(ts).WithCause(err)
	}
	return rec, nil
}
