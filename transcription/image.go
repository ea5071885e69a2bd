package transcription

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/kbukum/vlmscribe/storage"
	"github.com/kbukum/vlmscribe/vlm"
)

// FallbackMimeType is used when the content type cannot be detected as an image.
const FallbackMimeType = "image/jpeg"

// ImageSource loads image bytes for a reference.
type ImageSource interface {
	Load(ctx context.Context, ref string) (vlm.Image, error)
}

// FileSource reads images from the local filesystem.
type FileSource struct{}

// Load reads the file at path.
func (FileSource) Load(_ context.Context, path string) (vlm.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return vlm.Image{}, err
	}
	return newImage(data), nil
}

// StorageSource reads images from object storage, e.g. uploads kept in S3.
type StorageSource struct {
	Storage storage.Storage
}

// Load downloads the object at path.
func (s StorageSource) Load(ctx context.Context, path string) (vlm.Image, error) {
	rc, err := s.Storage.Download(ctx, path)
	if err != nil {
		return vlm.Image{}, err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return vlm.Image{}, fmt.Errorf("read %s: %w", path, err)
	}
	return newImage(data), nil
}

func newImage(data []byte) vlm.Image {
	return vlm.Image{MimeType: DetectMimeType(data), Data: data}
}

// DetectMimeType sniffs the image type of data, falling back to image/jpeg
// for anything that is not recognised as an image.
func DetectMimeType(data []byte) string {
	mime := http.DetectContentType(data)
	switch mime {
	case "image/jpeg", "image/png", "image/gif", "image/webp", "image/bmp":
		return mime
	default:
		return FallbackMimeType
	}
}

// compile-time assertions
var (
	_ ImageSource = FileSource{}
	_ ImageSource = StorageSource{}
)
