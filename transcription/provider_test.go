package transcription

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	apperrors "github.com/kbukum/vlmscribe/errors"
	"github.com/kbukum/vlmscribe/httpclient"
	"github.com/kbukum/vlmscribe/provider"
	"github.com/kbukum/vlmscribe/storage/memory"
	"github.com/kbukum/vlmscribe/vlm"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n0000")

func writeImage(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "page.png")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func fakeClient(fn func(ctx context.Context, req vlm.Request) (vlm.Response, error)) provider.RequestResponse[vlm.Request, vlm.Response] {
	return provider.Func[vlm.Request, vlm.Response]{ProviderName: "fake", Fn: fn}
}

func TestBuildPrompt(t *testing.T) {
	tests := []struct {
		instruction string
		want        string
	}{
		{"", "Please transcribe all the text visible in this image."},
		{"   ", "Please transcribe all the text visible in this image."},
		{"Keep line breaks.", "Please transcribe all the text visible in this image. Keep line breaks."},
	}
	for _, tt := range tests {
		if got := BuildPrompt(tt.instruction); got != tt.want {
			t.Errorf("BuildPrompt(%q) = %q, want %q", tt.instruction, got, tt.want)
		}
	}
}

func TestVisionProvider_Transcribe(t *testing.T) {
	path := writeImage(t, pngHeader)

	var got vlm.Request
	p := NewVisionProvider(ModelClaude3Vision, fakeClient(func(_ context.Context, req vlm.Request) (vlm.Response, error) {
		got = req
		return vlm.Response{Text: "Dear Sir,"}, nil
	}), nil)

	res := p.Transcribe(context.Background(), Request{ImagePath: path, Instruction: "Keep spelling."})
	if !res.OK() {
		t.Fatalf("unexpected failure: %v", res.Failure)
	}
	if res.Render() != "Dear Sir," {
		t.Errorf("Render() = %q", res.Render())
	}
	if got.Prompt != BasePrompt+" Keep spelling." {
		t.Errorf("prompt = %q", got.Prompt)
	}
	if got.MaxTokens != 1000 {
		t.Errorf("max tokens = %d, want 1000", got.MaxTokens)
	}
	if len(got.Images) != 1 || got.Images[0].MimeType != "image/png" || !bytes.Equal(got.Images[0].Data, pngHeader) {
		t.Errorf("images = %+v", got.Images)
	}
}

func TestVisionProvider_Failures(t *testing.T) {
	path := writeImage(t, []byte("not really an image"))

	tests := []struct {
		name     string
		path     string
		err      error
		wantKind FailureKind
	}{
		{
			name:     "missing image",
			path:     filepath.Join(t.TempDir(), "nope.jpg"),
			wantKind: FailureImage,
		},
		{
			name:     "status",
			path:     path,
			err:      &vlm.APIError{Provider: "OpenAI", StatusCode: 401, Message: "bad key"},
			wantKind: FailureStatus,
		},
		{
			name:     "response shape",
			path:     path,
			err:      vlm.ShapeError("content[0].text"),
			wantKind: FailureResponse,
		},
		{
			name:     "transport",
			path:     path,
			err:      httpclient.NewConnectionError(errors.New("connection refused")),
			wantKind: FailureTransport,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			p := NewVisionProvider(ModelGPT4Vision, fakeClient(func(context.Context, vlm.Request) (vlm.Response, error) {
				calls++
				return vlm.Response{}, tt.err
			}), FileSource{})

			res := p.Transcribe(context.Background(), Request{ImagePath: tt.path})
			if res.OK() {
				t.Fatal("expected failure")
			}
			if res.Failure.Kind != tt.wantKind {
				t.Errorf("kind = %q, want %q", res.Failure.Kind, tt.wantKind)
			}
			if !strings.HasPrefix(res.Render(), "Error transcribing image: ") {
				t.Errorf("Render() = %q", res.Render())
			}
			if tt.wantKind == FailureImage && calls != 0 {
				t.Error("client called despite unreadable image")
			}
			if tt.wantKind != FailureImage && calls != 1 {
				t.Errorf("calls = %d, want 1", calls)
			}
		})
	}
}

func TestDetectMimeType(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want string
	}{
		{"png", pngHeader, "image/png"},
		{"jpeg", []byte{0xff, 0xd8, 0xff, 0xe0, 0, 0}, "image/jpeg"},
		{"gif", []byte("GIF89a......"), "image/gif"},
		{"text falls back", []byte("hello"), "image/jpeg"},
		{"empty falls back", nil, "image/jpeg"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectMimeType(tt.data); got != tt.want {
				t.Errorf("DetectMimeType() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStorageSource_Load(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	if err := store.Upload(ctx, "uploads/a.png", bytes.NewReader(pngHeader)); err != nil {
		t.Fatal(err)
	}

	src := StorageSource{Storage: store}
	img, err := src.Load(ctx, "uploads/a.png")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if img.MimeType != "image/png" || !bytes.Equal(img.Data, pngHeader) {
		t.Errorf("image = %+v", img)
	}

	if _, err := src.Load(ctx, "uploads/missing.png"); err == nil {
		t.Error("expected error for missing object")
	}
}

func TestSelector_Select(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"from claude"}]}`))
	}))
	defer srv.Close()

	var wrapped []string
	trace := func(inner provider.RequestResponse[vlm.Request, vlm.Response]) provider.RequestResponse[vlm.Request, vlm.Response] {
		wrapped = append(wrapped, inner.Name())
		return inner
	}

	sel := NewSelector(Config{
		Anthropic: vlm.Config{APIKey: "k", BaseURL: srv.URL},
	}, WithMiddleware(trace))

	p, err := sel.Select("claude-3-vision")
	if err != nil {
		t.Fatalf("Select() error: %v", err)
	}
	if p.Name() != "anthropic" {
		t.Errorf("Name() = %q", p.Name())
	}
	if len(wrapped) != 1 || wrapped[0] != "anthropic" {
		t.Errorf("middleware saw %v", wrapped)
	}

	res := p.Transcribe(context.Background(), Request{ImagePath: writeImage(t, pngHeader)})
	if res.Render() != "from claude" {
		t.Errorf("Render() = %q", res.Render())
	}
}

func TestSelector_ConfigurationErrors(t *testing.T) {
	sel := NewSelector(Config{})

	tests := []struct {
		id      string
		wantErr error
		wantMsg string
	}{
		{"llava-13b", ErrUnsupportedModel, "Unsupported model: llava-13b"},
		{"gpt-4-vision", ErrMissingCredential, "OpenAI API key is required"},
		{"gemini-pro-vision", ErrMissingCredential, "Google API key is required"},
		{"claude-3-vision", ErrMissingCredential, "Anthropic API key is required"},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			_, err := sel.Select(tt.id)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("got %v, want %v", err, tt.wantErr)
			}
			if !apperrors.IsConfiguration(err) {
				t.Error("expected a configuration error")
			}
			if got := apperrors.Describe(err); got != tt.wantMsg {
				t.Errorf("message = %q, want %q", got, tt.wantMsg)
			}
		})
	}
}

func TestSelector_GoogleTransportFailureHidesKey(t *testing.T) {
	closed := httptest.NewServer(http.NotFoundHandler())
	base := closed.URL
	closed.Close()

	sel := NewSelector(Config{Google: vlm.Config{APIKey: "SECRET-KEY-123", BaseURL: base}})
	p, err := sel.Select("gemini-pro-vision")
	if err != nil {
		t.Fatalf("Select() error: %v", err)
	}

	res := p.Transcribe(context.Background(), Request{ImagePath: writeImage(t, pngHeader)})
	if res.OK() || res.Failure.Kind != FailureTransport {
		t.Fatalf("result = %+v, want a transport failure", res)
	}
	if strings.Contains(res.Render(), "SECRET-KEY-123") {
		t.Errorf("Render() leaks the key: %q", res.Render())
	}
}

func TestVisionProvider_EmptyTextIsFailure(t *testing.T) {
	path := writeImage(t, pngHeader)
	for _, text := range []string{"", " \n\t"} {
		p := NewVisionProvider(ModelGPT4Vision, fakeClient(func(context.Context, vlm.Request) (vlm.Response, error) {
			return vlm.Response{Text: text}, nil
		}), nil)

		res := p.Transcribe(context.Background(), Request{ImagePath: path})
		if res.OK() || res.Failure.Kind != FailureResponse || !errors.Is(res.Failure, ErrNoText) {
			t.Fatalf("text %q: result = %+v, want a response failure", text, res)
		}
		if got := res.Render(); got != "Error transcribing image: provider returned no text" {
			t.Errorf("Render() = %q", got)
		}
	}
}
