package document

import (
	"context"
	"encoding/json"
	"path"
	"strings"

	apperrors "github.com/kbukum/vlmscribe/errors"
	"github.com/kbukum/vlmscribe/logger"
	"github.com/kbukum/vlmscribe/storage"
)

const documentExt = ".json"

// StorageStore keeps each document as "<prefix>/<id>.json".
type StorageStore struct {
	files  storage.ByteClient
	prefix string
	log    *logger.Logger
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
		log:    log.WithComponent("documents"),
	}
}

func (s *StorageStore) documentPath(id string) string {
	return path.Join(s.prefix, id+documentExt)
}

// Create writes doc unless its ID is taken.
func (s *StorageStore) Create(ctx context.Context, doc Document) error {
	if !validID(doc.ID) {
		return apperrors.InvalidInput("id", "must be a UUID")
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return apperrors.Internal(err)
	}
	err = s.files.Create(ctx, s.documentPath(doc.ID), data)
	if storage.IsExists(err) {
		return apperrors.AlreadyExists("document").WithCause(err)
	}
	if err != nil {
		return storage.Translate(err, "document create", "document", doc.ID)
	}
	return nil
}

// Get loads the document for id.
func (s *StorageStore) Get(ctx context.Context, id string) (Document, error) {
	if !validID(id) {
		return Document{}, NotFound(id)
	}
	data, err := s.files.Get(ctx, s.documentPath(id))
	if err != nil {
		if storage.IsNotFound(err) {
			return Document{}, NotFound(id).WithCause(err)
		}
		return Document{}, storage.Translate(err, "document get", "document", id)
	}
	doc, err := decode(data)
	if err != nil {
		return Document{}, NotFound(id).WithCause(err)
	}
	return doc, nil
}

// List reads every document under the prefix, skipping unreadable ones.
func (s *StorageStore) List(ctx context.Context) ([]Document, error) {
	listPrefix := ""
	if s.prefix != "" {
		listPrefix = s.prefix + "/"
	}
	infos, err := s.files.List(ctx, listPrefix)
	if err != nil {
		return nil, storage.Translate(err, "document list", "documents", "")
	}

	docs := make([]Document, 0, len(infos))
	for _, info := range infos {
		if !strings.HasSuffix(info.Path, documentExt) {
			continue
		}
		data, err := s.files.Get(ctx, info.Path)
		if err == nil {
			var doc Document
			if doc, err = decode(data); err == nil {
				docs = append(docs, doc)
				continue
			}
		}
		s.log.Warn("skipping malformed document", map[string]interface{}{"path": info.Path, logger.FieldError: err.Error()})
	}
	sortNewestFirst(docs)
	return docs, nil
}

func decode(data []byte) (Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, err
	}
	if !validID(doc.ID) {
		return Document{}, errNoID
	}
	return doc, nil
}
