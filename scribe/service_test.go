package scribe

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	apperrors "github.com/kbukum/vlmscribe/errors"
	"github.com/kbukum/vlmscribe/history"
	"github.com/kbukum/vlmscribe/logger"
	"github.com/kbukum/vlmscribe/storage/memory"
	"github.com/kbukum/vlmscribe/transcription"
	"github.com/kbukum/vlmscribe/vlm"
)

var fixedNow = func() time.Time { return time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC) }

func writeImage(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "page.png")
	if err := os.WriteFile(path, []byte("\x89PNG\r\n\x1a\nimage"), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func newStore() *history.StorageStore {
	return history.NewStorageStore(memory.New(), "history", logger.Nop())
}

func openAIServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestTranscribe_Success(t *testing.T) {
	srv := openAIServer(t, http.StatusOK, `{"choices":[{"message":{"content":"HELLO WORLD"}}]}`)
	sel := transcription.NewSelector(transcription.Config{OpenAI: vlm.Config{APIKey: "k", BaseURL: srv.URL}})
	store := newStore()
	svc := NewService(sel, store, WithClock(fixedNow), WithLogger(logger.Nop()))

	path := writeImage(t)
	rec, err := svc.Transcribe(context.Background(), Request{ImagePath: path, Prompt: "", Model: "gpt-4-vision"})
	if err != nil {
		t.Fatalf("Transcribe() error: %v", err)
	}
	want := history.Record{Timestamp: "20240101120000", ImagePath: path, Model: "gpt-4-vision", Response: "HELLO WORLD"}
	if rec != want {
		t.Errorf("record = %+v, want %+v", rec, want)
	}
	stored, err := store.Get(context.Background(), "20240101120000")
	if err != nil || stored != want {
		t.Errorf("stored = %+v, %v", stored, err)
	}
}

func TestTranscribe_FallbackResponses(t *testing.T) {
	tests := []struct {
		name  string
		model string
		want  string
	}{
		{
			name:  "missing credential",
			model: "claude-3-vision",
			want:  "Error using Claude 3 Vision: Anthropic API key is required\n\n" + SimulatedNotice,
		},
		{
			name:  "unknown model",
			model: "llava",
			want:  "Error using Unknown Model: Unsupported model: llava\n\n" + SimulatedNotice,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newStore()
			svc := NewService(transcription.NewSelector(transcription.Config{}), store, WithClock(fixedNow), WithLogger(logger.Nop()))

			rec, err := svc.Transcribe(context.Background(), Request{ImagePath: "/x.png", Model: tt.model})
			if err != nil {
				t.Fatalf("Transcribe() error: %v", err)
			}
			if rec.Response != tt.want {
				t.Errorf("response = %q, want %q", rec.Response, tt.want)
			}
			if rec.Model != tt.model {
				t.Errorf("model = %q, want %q", rec.Model, tt.model)
			}
			list, _ := store.List(context.Background())
			if len(list) != 1 {
				t.Errorf("stored %d records, want 1", len(list))
			}
		})
	}
}

func TestTranscribe_ProviderFailure(t *testing.T) {
	srv := openAIServer(t, http.StatusUnauthorized, `{"error":{"message":"Incorrect API key provided"}}`)
	sel := transcription.NewSelector(transcription.Config{OpenAI: vlm.Config{APIKey: "bad", BaseURL: srv.URL}})
	svc := NewService(sel, newStore(), WithClock(fixedNow), WithLogger(logger.Nop()))

	rec, err := svc.Transcribe(context.Background(), Request{ImagePath: writeImage(t), Model: "gpt-4-vision"})
	if err != nil {
		t.Fatalf("Transcribe() error: %v", err)
	}
	if !strings.HasPrefix(rec.Response, "Error transcribing image: ") || !strings.Contains(rec.Response, "401") {
		t.Errorf("response = %q", rec.Response)
	}
}

func TestTranscribe_MissingImage(t *testing.T) {
	srv := openAIServer(t, http.StatusOK, `{"choices":[{"message":{"content":"unused"}}]}`)
	sel := transcription.NewSelector(transcription.Config{OpenAI: vlm.Config{APIKey: "k", BaseURL: srv.URL}})
	svc := NewService(sel, newStore(), WithClock(fixedNow), WithLogger(logger.Nop()))

	rec, err := svc.Transcribe(context.Background(), Request{ImagePath: filepath.Join(t.TempDir(), "nope.png"), Model: "gpt-4-vision"})
	if err != nil {
		t.Fatalf("Transcribe() error: %v", err)
	}
	if !strings.HasPrefix(rec.Response, "Error transcribing image: ") {
		t.Errorf("response = %q", rec.Response)
	}
}

func TestTranscribe_SameSecondRequestsKeepBoth(t *testing.T) {
	store := newStore()
	svc := NewService(transcription.NewSelector(transcription.Config{}), store, WithClock(fixedNow), WithLogger(logger.Nop()))
	ctx := context.Background()

	a, _ := svc.Transcribe(ctx, Request{ImagePath: "/a.png", Model: "gpt-4-vision"})
	b, _ := svc.Transcribe(ctx, Request{ImagePath: "/b.png", Model: "gpt-4-vision"})
	if a.Timestamp == b.Timestamp {
		t.Fatalf("both records stored as %s", a.Timestamp)
	}
	list, _ := store.List(ctx)
	if len(list) != 2 {
		t.Errorf("stored %d records, want 2", len(list))
	}
}

type failingStore struct{ history.Store }

func (failingStore) Append(context.Context, history.Record) (history.Record, error) {
	return history.Record{}, errors.New("disk full")
}

func TestTranscribe_PersistenceFailure(t *testing.T) {
	svc := NewService(transcription.NewSelector(transcription.Config{}), failingStore{}, WithLogger(logger.Nop()))

	_, err := svc.Transcribe(context.Background(), Request{ImagePath: "/x.png", Model: "gpt-4-vision"})
	ae, ok := apperrors.AsAppError(err)
	if !ok || ae.Code != apperrors.ErrCodeInternal {
		t.Fatalf("error = %v, want INTERNAL_ERROR", err)
	}
}
