package local

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kbukum/vlmscribe/storage"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	s, err := NewStorage(filepath.Join(t.TempDir(), "root"))
	if err != nil {
		t.Fatalf("NewStorage() error: %v", err)
	}
	return s
}

func TestStorage_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)

	if err := s.Upload(ctx, "history/20240101120000.json", strings.NewReader(`{"a":1}`)); err != nil {
		t.Fatalf("Upload() error: %v", err)
	}
	rc, err := s.Download(ctx, "history/20240101120000.json")
	if err != nil {
		t.Fatalf("Download() error: %v", err)
	}
	data, _ := io.ReadAll(rc)
	_ = rc.Close()
	if string(data) != `{"a":1}` {
		t.Errorf("data = %q", data)
	}

	ok, err := s.Exists(ctx, "history/20240101120000.json")
	if err != nil || !ok {
		t.Errorf("Exists() = %v, %v", ok, err)
	}

	if err := s.Upload(ctx, "history/20240101120000.json", strings.NewReader("new")); err != nil {
		t.Fatalf("overwrite error: %v", err)
	}
	rc, _ = s.Download(ctx, "history/20240101120000.json")
	data, _ = io.ReadAll(rc)
	_ = rc.Close()
	if string(data) != "new" {
		t.Errorf("after overwrite data = %q", data)
	}

	if err := s.Delete(ctx, "history/20240101120000.json"); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if err := s.Delete(ctx, "history/20240101120000.json"); err != nil {
		t.Errorf("second Delete() error: %v", err)
	}
	if ok, _ := s.Exists(ctx, "history/20240101120000.json"); ok {
		t.Error("file still exists after delete")
	}
}

func TestStorage_DownloadMissing(t *testing.T) {
	s := newTestStorage(t)
	_, err := s.Download(context.Background(), "nope.json")
	if !storage.IsNotFound(err) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestStorage_PathEscape(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	if err := s.Upload(ctx, "../outside.txt", strings.NewReader("x")); !errors.Is(err, ErrOutsideRoot) {
		t.Errorf("Upload: got %v, want ErrOutsideRoot", err)
	}
	if _, err := s.Download(ctx, "../../etc/passwd"); !errors.Is(err, ErrOutsideRoot) {
		t.Errorf("Download: got %v, want ErrOutsideRoot", err)
	}
	if _, err := os.Stat(filepath.Join(filepath.Dir(s.BasePath()), "outside.txt")); err == nil {
		t.Error("file written outside base directory")
	}
}

func TestStorage_List(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)
	for _, p := range []string{"history/b.json", "history/a.json", "uploads/x.png", "historyish.txt"} {
		if err := s.Upload(ctx, p, strings.NewReader("x")); err != nil {
			t.Fatal(err)
		}
	}

	files, err := s.List(ctx, "history/")
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(files) != 2 || files[0].Path != "history/a.json" || files[1].Path != "history/b.json" {
		t.Fatalf("files = %+v", files)
	}
	if files[0].ContentType != "application/json" {
		t.Errorf("content type = %q", files[0].ContentType)
	}

	all, _ := s.List(ctx, "")
	if len(all) != 4 {
		t.Errorf("List(\"\") returned %d files", len(all))
	}

	empty, err := s.List(ctx, "missing/")
	if err != nil || len(empty) != 0 {
		t.Errorf("List(missing) = %v, %v", empty, err)
	}
}

func TestFactoryRegistered(t *testing.T) {
	dir := t.TempDir()
	s, err := storage.New(context.Background(), storage.Config{Provider: storage.ProviderLocal, BasePath: dir}, nil)
	if err != nil {
		t.Fatalf("storage.New() error: %v", err)
	}
	if _, ok := s.(*Storage); !ok {
		t.Errorf("got %T, want *local.Storage", s)
	}
}

func TestStorage_CreateIsExclusive(t *testing.T) {
	ctx := context.Background()
	root := filepath.Join(t.TempDir(), "shared")
	first, err := NewStorage(root)
	if err != nil {
		t.Fatal(err)
	}
	second, err := NewStorage(root)
	if err != nil {
		t.Fatal(err)
	}

	if err := first.Create(ctx, "history/20240101120000.json", strings.NewReader("serve")); err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	err = second.Create(ctx, "history/20240101120000.json", strings.NewReader("cli"))
	if !storage.IsExists(err) {
		t.Fatalf("Create() on a taken path = %v, want ErrExists", err)
	}

	data, err := os.ReadFile(filepath.Join(root, "history", "20240101120000.json"))
	if err != nil || string(data) != "serve" {
		t.Errorf("file = %q, %v", data, err)
	}
	entries, _ := os.ReadDir(filepath.Join(root, "history"))
	if len(entries) != 1 {
		t.Errorf("directory holds %d entries, want only the record", len(entries))
	}
}
