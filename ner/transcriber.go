package ner

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/kbukum/vlmscribe/gradio"
	"github.com/kbukum/vlmscribe/logger"
	"github.com/kbukum/vlmscribe/provider"
	"github.com/kbukum/vlmscribe/transcription"
)

// ProviderName is the name reported to provider middleware.
const ProviderName = "gradio-ner"

// compile-time assertion
var _ provider.RequestResponse[Request, []Entity] = (*Transcriber)(nil)

// Request is one entity-tagged transcription. Empty Model or Labels fall
// back to the configured values.
type Request struct {
	ImagePath string `json:"image_path"`
	Model     string `json:"model,omitempty"`
	// Labels is a comma-separated list, e.g. "person, location".
	Labels string `json:"labels,omitempty"`
}

// Transcriber sends images to the NER space.
type Transcriber struct {
	cfg    Config
	client *gradio.Client
	images transcription.ImageSource
	log    *logger.Logger
}

// Option configures a Transcriber.
type Option func(*Transcriber)

// WithImageSource sets where images are read from. Defaults to the local
// filesystem.
func WithImageSource(src transcription.ImageSource) Option {
	return func(t *Transcriber) {
		t.images = src
	}
}

// WithLogger sets the logger.
func WithLogger(log *logger.Logger) Option {
	return func(t *Transcriber) {
		t.log = log
	}
}

// NewTranscriber creates a transcriber. Without a token no client is built
// and every call returns MockEntities.
func NewTranscriber(cfg Config, opts ...Option) (*Transcriber, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	t := &Transcriber{cfg: cfg, images: transcription.FileSource{}, log: logger.GetGlobalLogger()}
	for _, opt := range opts {
		opt(t)
	}
	t.log = t.log.WithComponent("ner")

	if cfg.Token != "" {
		client, err := gradio.New(cfg.gradioConfig(), t.log)
		if err != nil {
			return nil, err
		}
		t.client = client
	}
	return t, nil
}

// Name returns the provider name.
func (t *Transcriber) Name() string { return ProviderName }

// IsAvailable reports whether a token is configured. It does not contact
// the space.
func (t *Transcriber) IsAvailable(context.Context) bool { return t.client != nil }

// Execute implements provider.RequestResponse. It never fails.
func (t *Transcriber) Execute(ctx context.Context, req Request) ([]Entity, error) {
	return t.Transcribe(ctx, req), nil
}

// Resolve fills the model and labels of req from the configuration where
// the request leaves them empty.
func (t *Transcriber) Resolve(req Request) Request {
	if strings.TrimSpace(req.Model) == "" {
		req.Model = t.cfg.Model
	}
	if strings.TrimSpace(req.Labels) == "" {
		req.Labels = t.cfg.Labels
	}
	return req
}

// Transcribe uploads the image and returns the tagged transcription. Without
// a token, and on any failure to read the image or reach the space, it
// returns MockEntities.
func (t *Transcriber) Transcribe(ctx context.Context, req Request) []Entity {
	if t.client == nil {
		t.log.Warn("No Hugging Face token configured, returning placeholder entities", map[string]interface{}{
			"image_path": req.ImagePath,
		})
		return MockEntities()
	}

	req = t.Resolve(req)
	start := time.Now()
	entities, err := t.predict(ctx, req)
	if err != nil {
		t.log.Warn("Entity transcription failed, returning placeholder entities", map[string]interface{}{
			"image_path":         req.ImagePath,
			logger.FieldModel:    req.Model,
			logger.FieldDuration: time.Since(start).Milliseconds(),
			logger.FieldError:    err.Error(),
		})
		return MockEntities()
	}

	t.log.Info("Image transcribed with entities", map[string]interface{}{
		logger.FieldModel:    req.Model,
		logger.FieldDuration: time.Since(start).Milliseconds(),
		"entities":           len(entities),
	})
	return entities
}

func (t *Transcriber) predict(ctx context.Context, req Request) ([]Entity, error) {
	img, err := t.images.Load(ctx, req.ImagePath)
	if err != nil {
		return nil, fmt.Errorf("ner: read image %s: %w", req.ImagePath, err)
	}
	ref, err := t.client.Upload(ctx, filepath.Base(req.ImagePath), img.Data)
	if err != nil {
		return nil, err
	}
	raw, err := t.client.Predict(ctx, t.cfg.API, ref, req.Model, true, req.Labels)
	if err != nil {
		return nil, err
	}
	return parseOutputs(raw)
}
