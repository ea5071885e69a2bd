package document

import (
	"context"
	"errors"
	"path"
	"strings"
	"time"

	"github.com/kbukum/vlmscribe/logger"
	"github.com/kbukum/vlmscribe/ner"
	"github.com/kbukum/vlmscribe/observability"
)

var errNoID = errors.New("document: stored value has no valid id")

// EntityTranscriber produces tagged transcripts.
type EntityTranscriber interface {
	Resolve(req ner.Request) ner.Request
	Transcribe(ctx context.Context, req ner.Request) []ner.Entity
}

// Request asks for one tagged transcription. Name defaults to the image
// file name; empty Model and Labels use the configured values.
type Request struct {
	ImagePath string `json:"image_path" validate:"required"`
	Name      string `json:"name"`
	Model     string `json:"model"`
	Labels    string `json:"labels"`
}

// Option configures a Service.
type Option func(*Service)

// WithClock replaces the wall clock used for CreatedAt.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithIDs replaces the ID generator.
func WithIDs(newID func() string) Option {
	return func(s *Service) { s.newID = newID }
}

// WithLogger sets the service logger.
func WithLogger(log *logger.Logger) Option {
	return func(s *Service) { s.log = log }
}

// Service transcribes images into stored documents.
type Service struct {
	ner   EntityTranscriber
	store Store
	now   func() time.Time
	newID func() string
	log   *logger.Logger
}

// NewService creates a Service.
func NewService(t EntityTranscriber, store Store, opts ...Option) *Service {
	s := &Service{ner: t, store: store, now: time.Now, newID: NewID}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logger.GetGlobalLogger()
	}
	s.log = s.log.WithComponent("documents")
	return s
}

// Transcribe tags the image, derives its annotations and stores the
// document. Transcription failures yield the placeholder transcript; the
// only error returned is a failure to store the document.
func (s *Service) Transcribe(ctx context.Context, req Request) (Document, error) {
	ctx, span := observability.StartSpan(ctx, "document.Transcribe")
	defer span.End()

	nreq := s.ner.Resolve(ner.Request{ImagePath: req.ImagePath, Model: req.Model, Labels: req.Labels})
	entities := s.ner.Transcribe(ctx, nreq)
	if entities == nil {
		entities = []ner.Entity{}
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = path.Base(req.ImagePath)
	}
	doc := Document{
		ID:          s.newID(),
		Name:        name,
		ImagePath:   req.ImagePath,
		Model:       nreq.Model,
		Labels:      nreq.Labels,
		Transcript:  entities,
		Annotations: Annotate(entities),
		CreatedAt:   s.now().UTC().Truncate(time.Millisecond),
	}
	if err := s.store.Create(ctx, doc); err != nil {
		observability.SetSpanError(ctx, err)
		s.log.Error("Failed to store document", map[string]interface{}{
			"id":              doc.ID,
			logger.FieldError: err.Error(),
		})
		return Document{}, err
	}

	s.log.Info("Document transcribed", map[string]interface{}{
		"id":              doc.ID,
		logger.FieldModel: doc.Model,
		"tokens":          len(doc.Transcript),
		"annotations":     len(doc.Annotations),
	})
	return doc, nil
}
