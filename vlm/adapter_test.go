package vlm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kbukum/vlmscribe/httpclient"
)

// --- mock dialect for testing ---

type mockDialect struct {
	buildErr error
}

func (d *mockDialect) Name() string           { return "mock" }
func (d *mockDialect) Label() string          { return "Mock" }
func (d *mockDialect) DefaultBaseURL() string { return "http://localhost:1" }
func (d *mockDialect) DefaultModel() string   { return "mock-vision" }
func (d *mockDialect) Path(model string) string {
	return "/models/" + model
}

func (d *mockDialect) Auth(apiKey string) *httpclient.AuthConfig {
	return httpclient.BearerAuth(apiKey)
}

func (d *mockDialect) Headers() map[string]string {
	return map[string]string{"X-Mock": "1"}
}

func (d *mockDialect) BuildRequest(req Request) (any, error) {
	if d.buildErr != nil {
		return nil, d.buildErr
	}
	images := make([]string, 0, len(req.Images))
	for _, img := range req.Images {
		images = append(images, img.DataURL())
	}
	return map[string]any{
		"prompt":     req.Prompt,
		"images":     images,
		"max_tokens": req.MaxTokens,
	}, nil
}

func (d *mockDialect) ParseResponse(body []byte) (Response, error) {
	var raw struct {
		Text *string `json:"text"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return Response{}, ShapeError("text")
	}
	if raw.Text == nil {
		return Response{}, ShapeError("text")
	}
	return Response{Text: *raw.Text}, nil
}

func newMockAdapter(t *testing.T, handler http.HandlerFunc) *Adapter {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	a, err := New(&mockDialect{}, Config{APIKey: "secret", BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	return a
}

var testImage = Image{MimeType: "image/png", Data: []byte("png-bytes")}

// --- tests ---

func TestNew_Validation(t *testing.T) {
	if _, err := New(nil, Config{APIKey: "k"}); !errors.Is(err, ErrNoDialect) {
		t.Errorf("nil dialect: got %v, want ErrNoDialect", err)
	}

	_, err := New(&mockDialect{}, Config{})
	if !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("missing key: got %v, want ErrMissingAPIKey", err)
	}
	if err.Error() != "Mock API key is required" {
		t.Errorf("message = %q", err.Error())
	}

	if _, err := New(&mockDialect{}, Config{APIKey: "k", Timeout: -1}); err == nil {
		t.Error("expected error for negative timeout")
	}
}

func TestNew_Defaults(t *testing.T) {
	a, err := New(&mockDialect{}, Config{APIKey: "k"})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if a.Name() != "mock" {
		t.Errorf("Name() = %q, want mock", a.Name())
	}
	if a.Model() != "mock-vision" {
		t.Errorf("Model() = %q, want mock-vision", a.Model())
	}
	if a.cfg.MaxTokens != DefaultMaxTokens {
		t.Errorf("MaxTokens = %d, want %d", a.cfg.MaxTokens, DefaultMaxTokens)
	}
	if a.cfg.BaseURL != "http://localhost:1" {
		t.Errorf("BaseURL = %q", a.cfg.BaseURL)
	}
	if !a.IsAvailable(context.Background()) {
		t.Error("IsAvailable() = false with a key set")
	}
}

func TestAdapter_Execute(t *testing.T) {
	a := newMockAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %q, want POST", r.Method)
		}
		if r.URL.Path != "/models/mock-vision" {
			t.Errorf("path = %q, want /models/mock-vision", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("Authorization = %q", got)
		}
		if got := r.Header.Get("X-Mock"); got != "1" {
			t.Errorf("X-Mock = %q", got)
		}
		body, _ := io.ReadAll(r.Body)
		var got map[string]any
		if err := json.Unmarshal(body, &got); err != nil {
			t.Errorf("request body is not JSON: %v", err)
			return
		}
		if got["max_tokens"] != float64(DefaultMaxTokens) {
			t.Errorf("max_tokens = %v", got["max_tokens"])
		}
		if !strings.Contains(string(body), "data:image/png;base64,") {
			t.Errorf("body lacks data URL: %s", body)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"text":"hello world"}`))
	})

	resp, err := a.Execute(context.Background(), Request{Prompt: "read", Images: []Image{testImage}})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if resp.Text != "hello world" {
		t.Errorf("Text = %q, want hello world", resp.Text)
	}
	if resp.Model != "mock-vision" {
		t.Errorf("Model = %q, want mock-vision", resp.Model)
	}
}

func TestAdapter_Execute_Failures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		check  func(t *testing.T, err error)
	}{
		{
			name:   "provider error message",
			status: http.StatusUnauthorized,
			body:   `{"error":{"message":"invalid x-api-key"}}`,
			check: func(t *testing.T, err error) {
				var apiErr *APIError
				if !errors.As(err, &apiErr) {
					t.Fatalf("want *APIError, got %T: %v", err, err)
				}
				if apiErr.StatusCode != http.StatusUnauthorized {
					t.Errorf("StatusCode = %d", apiErr.StatusCode)
				}
				if apiErr.Message != "invalid x-api-key" {
					t.Errorf("Message = %q", apiErr.Message)
				}
				if !httpclient.IsAuth(err) {
					t.Error("expected auth classification to survive wrapping")
				}
			},
		},
		{
			name:   "plain text error body",
			status: http.StatusBadGateway,
			body:   "upstream down",
			check: func(t *testing.T, err error) {
				var apiErr *APIError
				if !errors.As(err, &apiErr) {
					t.Fatalf("want *APIError, got %T: %v", err, err)
				}
				if apiErr.Message != "upstream down" {
					t.Errorf("Message = %q", apiErr.Message)
				}
			},
		},
		{
			name:   "missing text field",
			status: http.StatusOK,
			body:   `{"other":1}`,
			check: func(t *testing.T, err error) {
				if !errors.Is(err, ErrResponseShape) {
					t.Errorf("want ErrResponseShape, got %v", err)
				}
			},
		},
		{
			name:   "not json",
			status: http.StatusOK,
			body:   "<html>",
			check: func(t *testing.T, err error) {
				if !errors.Is(err, ErrResponseShape) {
					t.Errorf("want ErrResponseShape, got %v", err)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newMockAdapter(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})
			_, err := a.Execute(context.Background(), Request{Prompt: "p", Images: []Image{testImage}})
			if err == nil {
				t.Fatal("expected error")
			}
			tt.check(t, err)
		})
	}
}

func TestAdapter_Execute_SingleAttempt(t *testing.T) {
	calls := 0
	a := newMockAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	if _, err := a.Execute(context.Background(), Request{Prompt: "p"}); err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestAdapter_Execute_EmptyRequest(t *testing.T) {
	a := newMockAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("server should not be called")
	})
	if _, err := a.Execute(context.Background(), Request{}); !errors.Is(err, ErrEmptyRequest) {
		t.Errorf("got %v, want ErrEmptyRequest", err)
	}
}

func TestAdapter_Execute_BuildError(t *testing.T) {
	a, err := New(&mockDialect{buildErr: errors.New("boom")}, Config{APIKey: "k"})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if _, err := a.Execute(context.Background(), Request{Prompt: "p"}); err == nil || !strings.Contains(err.Error(), "boom") {
		t.Errorf("got %v, want build error", err)
	}
}

func TestAdapter_Execute_ConnectionError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	a, err := New(&mockDialect{}, Config{APIKey: "k", BaseURL: url})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	_, err = a.Execute(context.Background(), Request{Prompt: "p"})
	if !httpclient.IsConnection(err) {
		t.Errorf("want connection error, got %v", err)
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		t.Error("connection failure must not be reported as APIError")
	}
}

func TestImage_DataURL(t *testing.T) {
	img := Image{MimeType: "image/jpeg", Data: []byte{0xff, 0xd8}}
	if got := img.DataURL(); got != "data:image/jpeg;base64,/9g=" {
		t.Errorf("DataURL() = %q", got)
	}
}
