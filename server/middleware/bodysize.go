package middleware

import (
	"net/http"

	"github.com/kbukum/vlmscribe/util"
)

// fallbackUploadLimit applies when the configured size cannot be parsed.
const fallbackUploadLimit int64 = 20 << 20

// BodySizeLimit caps every request body at maxSize ("512KB", "20MB", ...).
// Multipart image uploads are the bodies that usually hit the cap; reads past
// it fail and the handler reports the upload as invalid.
func BodySizeLimit(maxSize string) Middleware {
	limit := util.ParseSize(maxSize, fallbackUploadLimit)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, limit)
			next.ServeHTTP(w, r)
		})
	}
}
