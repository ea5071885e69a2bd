package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kbukum/vlmscribe/bootstrap"
	"github.com/kbukum/vlmscribe/history"
	"github.com/kbukum/vlmscribe/logger"
	"github.com/kbukum/vlmscribe/scribe"
)

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

// clearKeys blanks provider credentials inherited from the environment.
func clearKeys(t *testing.T) {
	t.Helper()
	for _, k := range []string{"OPENAI_API_KEY", "GOOGLE_API_KEY", "ANTHROPIC_API_KEY", "HF_TOKEN"} {
		t.Setenv(k, "")
	}
}

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

// writeConfig writes a config keeping history under dir.
func writeConfig(t *testing.T, dir, extra string) string {
	t.Helper()
	body := `logging:
  level: error
storage:
  provider: local
  base_path: ` + filepath.Join(dir, "data") + `
images:
  provider: memory
` + extra
	return writeFile(t, dir, "config.yml", []byte(body))
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestLoadConfig_EnvBinding(t *testing.T) {
	clearKeys(t)
	dir := t.TempDir()
	cfgFile := writeConfig(t, dir, "history:\n  backend: sql\nopenai:\n  model: gpt-4o\n")
	envFile := writeFile(t, dir, ".env", []byte("HISTORY_PREFIX=letters\n"))
	t.Setenv("OPENAI_API_KEY", "sk-openai")
	t.Setenv("HF_TOKEN", "hf-token")
	t.Cleanup(func() { os.Unsetenv("HISTORY_PREFIX") })

	cfg, err := loadConfig(cfgFile, envFile)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.OpenAI.APIKey != "sk-openai" || cfg.OpenAI.Model != "gpt-4o" {
		t.Errorf("openai = %+v", cfg.OpenAI)
	}
	if cfg.HF.Token != "hf-token" {
		t.Errorf("hf.token = %q", cfg.HF.Token)
	}
	if cfg.History.Backend != history.BackendSQL || cfg.History.Prefix != "letters" {
		t.Errorf("history = %+v", cfg.History)
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if cfg.Database.DSN == "" {
		t.Error("database defaults not applied for the sql backend")
	}
	if cfg.Redis.Addr != "" {
		t.Errorf("redis defaults applied for the sql backend: %q", cfg.Redis.Addr)
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	if _, err := loadConfig(filepath.Join(t.TempDir(), "nope.yml"), ""); err == nil {
		t.Fatal("expected error for a missing config file")
	}
}

func TestAppConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *AppConfig)
		wantErr string
	}{
		{"defaults", func(c *AppConfig) {}, ""},
		{"history backend", func(c *AppConfig) { c.History.Backend = "ftp" }, "history:"},
		{"images provider", func(c *AppConfig) { c.Images.Provider = "tape" }, "images:"},
		{"provider block", func(c *AppConfig) { c.OpenAI.MaxTokens = -1 }, "providers:"},
		{"hf api", func(c *AppConfig) { c.HF.API = "run_example" }, "hf:"},
		{"logging", func(c *AppConfig) { c.Logging.Level = "loud" }, "logging"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &AppConfig{}
			cfg.ApplyDefaults()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("error = %v, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestRunTask_TranscribesThroughProvider(t *testing.T) {
	clearKeys(t)
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"choices":[{"message":{"content":"Dear Fanny"}}]}`)
	}))
	defer srv.Close()

	dir := t.TempDir()
	image := writeFile(t, dir, "letter.png", pngBytes)
	cfg := &AppConfig{}
	cfg.OpenAI.APIKey = "sk-test"
	cfg.OpenAI.BaseURL = srv.URL
	cfg.Storage.Provider = "local"
	cfg.Storage.BasePath = filepath.Join(dir, "data")
	cfg.Images.Provider = "memory"

	var rec history.Record
	err := runTaskWith(context.Background(), cfg, func(ctx context.Context, svc *services) error {
		var err error
		rec, err = svc.scribe.Transcribe(ctx, scribe.Request{ImagePath: image, Prompt: "Keep line breaks", Model: "gpt-4-vision"})
		return err
	}, bootstrap.WithQuiet(), bootstrap.WithLogger(logger.Nop()))
	if err != nil {
		t.Fatalf("runTask: %v", err)
	}
	if rec.Response != "Dear Fanny" {
		t.Errorf("response = %q", rec.Response)
	}
	if gotAuth != "Bearer sk-test" {
		t.Errorf("Authorization = %q", gotAuth)
	}

	matches, _ := filepath.Glob(filepath.Join(dir, "data", history.DefaultPrefix, "*.json"))
	if len(matches) != 1 {
		t.Fatalf("history documents = %v, want 1", matches)
	}
}

func TestRunTask_SQLHistory(t *testing.T) {
	clearKeys(t)
	dir := t.TempDir()
	cfg := &AppConfig{}
	cfg.History.Backend = history.BackendSQL
	cfg.Database.DSN = filepath.Join(dir, "history.db")
	cfg.Images.Provider = "memory"

	run := func(fn func(ctx context.Context, svc *services) error) {
		t.Helper()
		if err := runTaskWith(context.Background(), cfg, fn, bootstrap.WithQuiet(), bootstrap.WithLogger(logger.Nop())); err != nil {
			t.Fatalf("runTask: %v", err)
		}
	}

	run(func(ctx context.Context, svc *services) error {
		_, err := svc.scribe.Transcribe(ctx, scribe.Request{ImagePath: "missing.png", Model: "gemini-pro-vision"})
		return err
	})
	run(func(ctx context.Context, svc *services) error {
		records, err := svc.store.List(ctx)
		if err != nil {
			return err
		}
		if len(records) != 1 || records[0].Model != "gemini-pro-vision" {
			t.Errorf("records = %+v", records)
		}
		if !strings.HasPrefix(records[0].Response, "Error using Gemini Pro Vision: ") {
			t.Errorf("response = %q", records[0].Response)
		}
		return nil
	})
}

func TestCommands_TranscribeThenHistory(t *testing.T) {
	clearKeys(t)
	dir := t.TempDir()
	cfgFile := writeConfig(t, dir, "")
	image := writeFile(t, dir, "letter.png", pngBytes)

	out, err := execute(t, "transcribe", image, "--model", "claude-3-vision", "--config", cfgFile)
	if err != nil {
		t.Fatalf("transcribe: %v", err)
	}
	if !strings.HasPrefix(out, "Error using Claude 3 Vision: ") || !strings.Contains(out, scribe.SimulatedNotice) {
		t.Errorf("transcribe output = %q", out)
	}

	out, err = execute(t, "history", "list", "-o", "json", "--config", cfgFile)
	if err != nil {
		t.Fatalf("history list: %v", err)
	}
	var listed []recordOutput
	if err := json.Unmarshal([]byte(out), &listed); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if len(listed) != 1 {
		t.Fatalf("listed %d records, want 1", len(listed))
	}
	if listed[0].Model != "claude-3-vision" || listed[0].ImagePath != image {
		t.Errorf("record = %+v", listed[0])
	}

	out, err = execute(t, "history", "show", listed[0].Timestamp, "--config", cfgFile)
	if err != nil {
		t.Fatalf("history show: %v", err)
	}
	if !strings.Contains(out, "Model:  Claude 3 Vision") {
		t.Errorf("show output = %q", out)
	}

	if _, err := execute(t, "history", "show", "19990101000000", "--config", cfgFile); err == nil {
		t.Error("expected error for an unknown timestamp")
	}
}

func TestCommands_NERWithoutToken(t *testing.T) {
	clearKeys(t)
	dir := t.TempDir()
	cfgFile := writeConfig(t, dir, "")
	image := writeFile(t, dir, "letter.png", pngBytes)

	out, err := execute(t, "ner", image, "--name", "Letter", "--labels", "PER", "--config", cfgFile)
	if err != nil {
		t.Fatalf("ner: %v", err)
	}
	var doc struct {
		ID          string           `json:"id"`
		Name        string           `json:"name"`
		Labels      string           `json:"labels"`
		Transcript  []map[string]any `json:"transcript"`
		Annotations []map[string]any `json:"annotations"`
	}
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if doc.ID == "" || doc.Name != "Letter" || doc.Labels != "PER" {
		t.Errorf("doc = %+v", doc)
	}
	if len(doc.Transcript) != 1 || doc.Transcript[0]["token"] != "Error transcribing image" || doc.Transcript[0]["class_or_confidence"] != nil {
		t.Errorf("transcript = %v", doc.Transcript)
	}
	if doc.Annotations == nil || len(doc.Annotations) != 0 {
		t.Errorf("annotations = %v", doc.Annotations)
	}

	out, err = execute(t, "documents", "list", "--config", cfgFile)
	if err != nil {
		t.Fatalf("documents list: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 || !strings.HasPrefix(lines[0], "ID") || !strings.HasPrefix(lines[1], doc.ID) {
		t.Errorf("documents list = %q", out)
	}

	out, err = execute(t, "documents", "show", doc.ID, "--config", cfgFile)
	if err != nil {
		t.Fatalf("documents show: %v", err)
	}
	if !strings.Contains(out, `"name": "Letter"`) {
		t.Errorf("documents show = %q", out)
	}
	if _, err := execute(t, "documents", "show", "missing", "--config", cfgFile); err == nil {
		t.Error("expected error for unknown document")
	}
}

func TestCommands_Models(t *testing.T) {
	clearKeys(t)
	dir := t.TempDir()
	cfgFile := writeConfig(t, dir, "")
	t.Setenv("GOOGLE_API_KEY", "g-key")

	out, err := execute(t, "models", "--config", cfgFile)
	if err != nil {
		t.Fatalf("models: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 4 {
		t.Fatalf("lines = %q", lines)
	}
	if !strings.HasPrefix(lines[0], "MODEL") {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.Contains(lines[2], "gemini-pro-vision") || !strings.HasSuffix(lines[2], "configured") {
		t.Errorf("gemini row = %q", lines[2])
	}
	if !strings.HasSuffix(lines[1], "missing") {
		t.Errorf("openai row = %q", lines[1])
	}
}

func TestCommands_RejectsBadInput(t *testing.T) {
	clearKeys(t)
	cfgFile := writeConfig(t, t.TempDir(), "")
	tests := []struct {
		name string
		args []string
	}{
		{"transcribe without image", []string{"transcribe"}},
		{"transcribe bad format", []string{"transcribe", "a.png", "-o", "table"}},
		{"history bad format", []string{"history", "list", "-o", "csv"}},
		{"log level", []string{"models", "--log-level", "loud"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := execute(t, append(tt.args, "--config", cfgFile)...); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}
