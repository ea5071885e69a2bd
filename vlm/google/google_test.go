package google

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kbukum/vlmscribe/vlm"
)

func TestDialect_Execute(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1beta/models/gemini-pro-vision:generateContent" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("key"); got != "g-key" {
			t.Errorf("key = %q", got)
		}
		if got := r.Header.Get("Authorization"); got != "" {
			t.Errorf("unexpected Authorization header %q", got)
		}

		var body generateRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
			return
		}
		if body.GenerationConfig.Temperature != 0.1 {
			t.Errorf("temperature = %v", body.GenerationConfig.Temperature)
		}
		if body.GenerationConfig.MaxOutputTokens != 1000 {
			t.Errorf("maxOutputTokens = %d", body.GenerationConfig.MaxOutputTokens)
		}
		if len(body.Contents) != 1 || len(body.Contents[0].Parts) != 2 {
			t.Errorf("contents = %+v", body.Contents)
			return
		}
		parts := body.Contents[0].Parts
		if parts[0].Text != "read this" {
			t.Errorf("text = %q", parts[0].Text)
		}
		if parts[1].InlineData == nil || parts[1].InlineData.MimeType != "image/jpeg" || parts[1].InlineData.Data != "AQI=" {
			t.Errorf("inline_data = %+v", parts[1].InlineData)
		}

		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"Gemini says hi"}]}}]}`))
	}))
	defer srv.Close()

	a, err := New(vlm.Config{APIKey: "g-key", BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	resp, err := a.Execute(context.Background(), vlm.Request{
		Prompt: "read this",
		Images: []vlm.Image{{MimeType: "image/jpeg", Data: []byte{1, 2}}},
	})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if resp.Text != "Gemini says hi" {
		t.Errorf("Text = %q", resp.Text)
	}
	if resp.Model != "gemini-pro-vision" {
		t.Errorf("Model = %q", resp.Model)
	}
}

func TestDialect_Execute_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"code":400,"message":"API key not valid"}}`))
	}))
	defer srv.Close()

	a, err := New(vlm.Config{APIKey: "bad", BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	_, err = a.Execute(context.Background(), vlm.Request{Prompt: "p"})
	var apiErr *vlm.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("want *vlm.APIError, got %v", err)
	}
	if apiErr.Provider != "Google" || apiErr.Message != "API key not valid" {
		t.Errorf("APIError = %+v", apiErr)
	}
}

func TestDialect_ParseResponse(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    string
		wantErr bool
	}{
		{name: "text", body: `{"candidates":[{"content":{"parts":[{"text":"x"}]}}]}`, want: "x"},
		{name: "no candidates", body: `{"candidates":[]}`, wantErr: true},
		{name: "no parts", body: `{"candidates":[{"content":{"parts":[]}}]}`, wantErr: true},
		{name: "blocked", body: `{"promptFeedback":{"blockReason":"SAFETY"}}`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := Dialect{}.ParseResponse([]byte(tt.body))
			if tt.wantErr {
				if !errors.Is(err, vlm.ErrResponseShape) {
					t.Errorf("got %v, want ErrResponseShape", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if resp.Text != tt.want {
				t.Errorf("Text = %q, want %q", resp.Text, tt.want)
			}
		})
	}
}

func TestDialect_BuildRequest_Temperature(t *testing.T) {
	body, err := Dialect{}.BuildRequest(vlm.Request{Prompt: "p", Temperature: 0.7, MaxTokens: 10})
	if err != nil {
		t.Fatal(err)
	}
	req := body.(generateRequest)
	if req.GenerationConfig.Temperature != 0.7 {
		t.Errorf("temperature = %v, want 0.7", req.GenerationConfig.Temperature)
	}
}
