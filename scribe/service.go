// Package scribe runs one transcription request end to end: it selects the
// provider for the requested model, performs the attempt and records the
// outcome in the history store.
package scribe

import (
	"context"
	"fmt"
	"time"

	apperrors "github.com/kbukum/vlmscribe/errors"
	"github.com/kbukum/vlmscribe/history"
	"github.com/kbukum/vlmscribe/logger"
	"github.com/kbukum/vlmscribe/observability"
	"github.com/kbukum/vlmscribe/transcription"
)

// SimulatedNotice follows the error text when no provider could be built.
const SimulatedNotice = "Simulated transcription response: This is where the actual transcription would appear if API keys were configured."

// Selector builds a provider for a model identifier.
type Selector interface {
	Select(id string) (transcription.Provider, error)
}

// Request is one transcription request.
type Request struct {
	ImagePath string `json:"image_path" validate:"required"`
	Prompt    string `json:"prompt"`
	Model     string `json:"model" validate:"required"`
}

// Option configures a Service.
type Option func(*Service)

// WithClock replaces the wall clock used for record timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithLogger sets the service logger.
func WithLogger(log *logger.Logger) Option {
	return func(s *Service) { s.log = log }
}

// WithMetrics records one operation per request.
func WithMetrics(m *observability.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// Service orchestrates transcription requests.
type Service struct {
	selector Selector
	store    history.Store
	now      func() time.Time
	log      *logger.Logger
	metrics  *observability.Metrics
}

// NewService creates a Service.
func NewService(selector Selector, store history.Store, opts ...Option) *Service {
	s := &Service{selector: selector, store: store, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logger.GetGlobalLogger()
	}
	s.log = s.log.WithComponent("scribe")
	return s
}

// Transcribe performs one attempt and stores exactly one record for it.
// Selection and provider failures become the record's response text; the
// only error returned is a failure to persist the record.
func (s *Service) Transcribe(ctx context.Context, req Request) (history.Record, error) {
	ctx, span := observability.StartSpan(ctx, "scribe.Transcribe")
	defer span.End()
	start := time.Now()

	response, status := s.respond(ctx, req)

	rec, err := s.store.Append(ctx, history.Record{
		Timestamp: history.NewTimestamp(s.now()),
		ImagePath: req.ImagePath,
		Prompt:    req.Prompt,
		Model:     req.Model,
		Response:  response,
	})
	if err != nil {
		observability.SetSpanError(ctx, err)
		s.metrics.RecordError(ctx, "history_append", "scribe")
		s.log.Error("failed to save transcription", map[string]interface{}{
			logger.FieldModel: req.Model,
			logger.FieldError: err.Error(),
		})
		return history.Record{}, apperrors.Internal(fmt.Errorf("save transcription: %w", err))
	}

	s.metrics.RecordOperation(ctx, "scribe", "transcribe", status, time.Since(start))
	s.log.WithContext(ctx).Info("transcription recorded", map[string]interface{}{
		"timestamp":        rec.Timestamp,
		logger.FieldModel:  rec.Model,
		logger.FieldStatus: status,
	})
	return rec, nil
}

func (s *Service) respond(ctx context.Context, req Request) (string, string) {
	p, err := s.selector.Select(req.Model)
	if err != nil {
		s.log.Warn("provider unavailable, using simulated response", map[string]interface{}{
			logger.FieldModel: req.Model,
			logger.FieldError: err.Error(),
		})
		return Fallback(req.Model, err), "unavailable"
	}

	result := p.Transcribe(ctx, transcription.Request{ImagePath: req.ImagePath, Instruction: req.Prompt})
	if !result.OK() {
		s.log.Warn("transcription failed", map[string]interface{}{
			logger.FieldProvider: p.Name(),
			"kind":               string(result.Failure.Kind),
			logger.FieldError:    result.Failure.Err.Error(),
		})
		return result.Render(), "failed"
	}
	return result.Render(), "success"
}

// Fallback renders the response stored when no provider could be built
// for model.
func Fallback(model string, err error) string {
	return fmt.Sprintf("Error using %s: %s\n\n%s", transcription.DisplayName(model), apperrors.Describe(err), SimulatedNotice)
}
