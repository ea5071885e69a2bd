package api

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"path"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/kbukum/vlmscribe/document"
	apperrors "github.com/kbukum/vlmscribe/errors"
	"github.com/kbukum/vlmscribe/history"
	"github.com/kbukum/vlmscribe/logger"
	"github.com/kbukum/vlmscribe/scribe"
	"github.com/kbukum/vlmscribe/server"
	"github.com/kbukum/vlmscribe/storage"
	"github.com/kbukum/vlmscribe/transcription"
	"github.com/kbukum/vlmscribe/util"
	"github.com/kbukum/vlmscribe/validation"
)

// UploadPrefix is the storage directory for uploaded images.
const UploadPrefix = "uploads"

const imageField = "image"

// Transcriber runs one transcription request.
type Transcriber interface {
	Transcribe(ctx context.Context, req scribe.Request) (history.Record, error)
}

// DocumentTranscriber runs one entity-tagged transcription and stores it
// as a document.
type DocumentTranscriber interface {
	Transcribe(ctx context.Context, req document.Request) (document.Document, error)
}

// Option configures a Handler.
type Option func(*Handler)

// WithUploads stores multipart uploads in s. Without it uploads are refused.
func WithUploads(s storage.Storage) Option {
	return func(h *Handler) { h.uploads = s }
}

// WithDocuments enables POST /api/ner and the /api/documents routes.
func WithDocuments(t DocumentTranscriber, store document.Store) Option {
	return func(h *Handler) {
		h.ner = t
		h.documents = store
	}
}

// WithConfigured reports which providers have credentials in /api/models.
func WithConfigured(configured map[transcription.ProviderKind]bool) Option {
	return func(h *Handler) { h.configured = configured }
}

// WithLogger sets the handler logger.
func WithLogger(log *logger.Logger) Option {
	return func(h *Handler) { h.log = log }
}

// Handler serves the API routes.
type Handler struct {
	scribe     Transcriber
	history    history.Store
	uploads    storage.Storage
	ner        DocumentTranscriber
	documents  document.Store
	configured map[transcription.ProviderKind]bool
	log        *logger.Logger
	newID      func() string
}

// NewHandler creates a Handler.
func NewHandler(svc Transcriber, store history.Store, opts ...Option) *Handler {
	h := &Handler{
		scribe:  svc,
		history: store,
		newID:   func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.log == nil {
		h.log = logger.GetGlobalLogger()
	}
	h.log = h.log.WithComponent("api")
	return h
}

// Register mounts the routes under /api.
func (h *Handler) Register(r gin.IRouter) {
	g := r.Group("/api")
	g.POST("/transcriptions", h.CreateTranscription)
	g.GET("/transcriptions", h.ListTranscriptions)
	g.GET("/transcriptions/:timestamp", h.GetTranscription)
	g.GET("/models", h.ListModels)
	if h.ner != nil && h.documents != nil {
		g.POST("/ner", h.CreateNER)
		g.GET("/documents", h.ListDocuments)
		g.GET("/documents/:id", h.GetDocument)
	}
}

// CreateTranscription transcribes an uploaded or referenced image and
// returns the stored record.
func (h *Handler) CreateTranscription(c *gin.Context) {
	var req scribe.Request
	if isMultipart(c) {
		imagePath, err := h.storeUpload(c)
		if err != nil {
			server.RespondWithError(c, err)
			return
		}
		req = scribe.Request{
			ImagePath: imagePath,
			Prompt:    c.PostForm("prompt"),
			Model:     c.PostForm("model"),
		}
	} else if err := c.ShouldBindJSON(&req); err != nil {
		server.RespondWithError(c, apperrors.Validation("invalid request body: "+err.Error()))
		return
	}

	if err := validation.Validate(req); err != nil {
		server.RespondWithError(c, err)
		return
	}

	rec, err := h.scribe.Transcribe(c.Request.Context(), req)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondCreated(c, newRecordView(rec))
}

// ListTranscriptions returns the history, newest first.
func (h *Handler) ListTranscriptions(c *gin.Context) {
	records, err := h.history.List(c.Request.Context())
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	views := make([]RecordView, 0, len(records))
	for _, rec := range records {
		views = append(views, newRecordView(rec))
	}
	server.RespondOKWithMeta(c, views, &server.Meta{Total: len(views)})
}

// GetTranscription returns one history entry.
func (h *Handler) GetTranscription(c *gin.Context) {
	rec, err := h.history.Get(c.Request.Context(), c.Param("timestamp"))
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondOK(c, newRecordView(rec))
}

// ListModels returns the supported models.
func (h *Handler) ListModels(c *gin.Context) {
	views := ModelViews(h.configured)
	server.RespondOKWithMeta(c, views, &server.Meta{Total: len(views)})
}

// CreateNER runs an entity-tagged transcription and returns the stored
// document with its annotations.
func (h *Handler) CreateNER(c *gin.Context) {
	var req document.Request
	if isMultipart(c) {
		imagePath, err := h.storeUpload(c)
		if err != nil {
			server.RespondWithError(c, err)
			return
		}
		req = document.Request{
			ImagePath: imagePath,
			Name:      c.PostForm("name"),
			Model:     c.PostForm("model"),
			Labels:    c.PostForm("labels"),
		}
	} else if err := c.ShouldBindJSON(&req); err != nil {
		server.RespondWithError(c, apperrors.Validation("invalid request body: "+err.Error()))
		return
	}
	if err := validation.Validate(req); err != nil {
		server.RespondWithError(c, err)
		return
	}

	doc, err := h.ner.Transcribe(c.Request.Context(), req)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondCreated(c, doc)
}

// ListDocuments returns the stored documents, newest first.
func (h *Handler) ListDocuments(c *gin.Context) {
	docs, err := h.documents.List(c.Request.Context())
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondOKWithMeta(c, docs, &server.Meta{Total: len(docs)})
}

// GetDocument returns one document with its annotations.
func (h *Handler) GetDocument(c *gin.Context) {
	doc, err := h.documents.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondOK(c, doc)
}

func isMultipart(c *gin.Context) bool {
	return c.ContentType() == "multipart/form-data"
}

// storeUpload saves the "image" form file and returns its storage path.
func (h *Handler) storeUpload(c *gin.Context) (string, error) {
	if h.uploads == nil {
		return "", apperrors.ServiceUnavailable("uploads")
	}
	fh, err := c.FormFile(imageField)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return "", apperrors.MissingField(imageField)
		}
		return "", apperrors.InvalidInput(imageField, err.Error())
	}
	if fh.Size == 0 {
		return "", apperrors.InvalidInput(imageField, "file is empty")
	}

	name := h.newID() + "-" + util.SanitizeFilename(fh.Filename, "image")
	key := path.Join(UploadPrefix, name)
	if err := upload(c.Request.Context(), h.uploads, key, fh); err != nil {
		return "", storage.Translate(err, "upload", "image", key)
	}

	h.log.Info("Image uploaded", map[string]interface{}{
		"path": key,
		"size": fh.Size,
	})
	return key, nil
}

func upload(ctx context.Context, s storage.Storage, key string, fh *multipart.FileHeader) error {
	f, err := fh.Open()
	if err != nil {
		return fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()
	return s.Upload(ctx, key, f)
}
