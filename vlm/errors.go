package vlm

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors.
var (
	ErrNoDialect     = errors.New("vlm: dialect is required")
	ErrMissingAPIKey = errors.New("vlm: API key is required")
	ErrResponseShape = errors.New("vlm: unexpected response shape")
	ErrEmptyRequest  = errors.New("vlm: request has no prompt and no image")
)

// MissingKeyError reports a provider constructed without credentials. It
// matches ErrMissingAPIKey with errors.Is.
type MissingKeyError struct {
	Provider string
}

func (e *MissingKeyError) Error() string {
	return e.Provider + " API key is required"
}

// Is makes errors.Is(err, ErrMissingAPIKey) true.
func (e *MissingKeyError) Is(target error) bool {
	return target == ErrMissingAPIKey
}

// APIError is a non-2xx answer from a provider.
type APIError struct {
	Provider   string
	StatusCode int
	// Message is the provider's own error text when the body carries one.
	Message string
	Err     error
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s API returned HTTP %d: %s", e.Provider, e.StatusCode, e.Message)
}

func (e *APIError) Unwrap() error { return e.Err }

// errorEnvelope matches the error body shared by the supported providers:
// {"error": {"message": "..."}}.
type errorEnvelope struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// errorMessage extracts a provider error message from body, falling back to
// a trimmed excerpt of the raw body.
func errorMessage(body []byte, fallback string) string {
	var env errorEnvelope
	if json.Unmarshal(body, &env) == nil && env.Error.Message != "" {
		return env.Error.Message
	}
	text := strings.TrimSpace(string(body))
	if text == "" {
		return fallback
	}
	const maxExcerpt = 200
	if len(text) > maxExcerpt {
		text = text[:maxExcerpt] + "..."
	}
	return text
}

// ShapeError wraps ErrResponseShape with the missing path.
func ShapeError(path string) error {
	return fmt.Errorf("%w: missing %s", ErrResponseShape, path)
}
