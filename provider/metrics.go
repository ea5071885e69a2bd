package provider

import (
	"context"
	"strings"
	"time"

	apperrors "github.com/kbukum/vlmscribe/errors"
	"github.com/kbukum/vlmscribe/observability"
)

// WithMetrics counts calls and their latency per provider name. Failed calls
// also bump the error counter, typed by AppError code when the error carries one.
// A nil metrics value records nothing.
func WithMetrics[I, O any](metrics *observability.Metrics) Middleware[I, O] {
	return func(inner RequestResponse[I, O]) RequestResponse[I, O] {
		return &measured[I, O]{RequestResponse: inner, metrics: metrics}
	}
}

type measured[I, O any] struct {
	RequestResponse[I, O]
	metrics *observability.Metrics
}

func (m *measured[I, O]) Execute(ctx context.Context, input I) (O, error) {
	began := time.Now()
	out, err := m.RequestResponse.Execute(ctx, input)
	name := m.Name()
	if err == nil {
		m.metrics.RecordOperation(ctx, name, "execute", "ok", time.Since(began))
		return out, nil
	}
	m.metrics.RecordError(ctx, errorType(err), name)
	m.metrics.RecordOperation(ctx, name, "execute", "error", time.Since(began))
	return out, err
}

func errorType(err error) string {
	if appErr, ok := apperrors.AsAppError(err); ok {
		return strings.ToLower(string(appErr.Code))
	}
	return "execute"
}
