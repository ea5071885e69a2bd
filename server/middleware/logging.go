package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/kbukum/vlmscribe/logger"
)

var probePaths = map[string]bool{
	"/health":    true,
	"/liveness":  true,
	"/readiness": true,
	"/metrics":   true,
}

// RequestLogger returns middleware that logs every request with method,
// path, status code, response size and duration. Probe endpoints are skipped.
func RequestLogger(log *logger.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isProbe(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			rec := newRecorder(w)
			next.ServeHTTP(rec, r)

			fields := map[string]interface{}{
				"method":             r.Method,
				"path":               r.URL.Path,
				"bytes":              rec.bytes,
				logger.FieldStatus:   rec.status,
				logger.FieldDuration: time.Since(start).Milliseconds(),
			}
			if id := r.Header.Get(HeaderRequestID); id != "" {
				fields[logger.FieldRequestID] = id
			}
			logByStatus(log, fields, rec.status)
		})
	}
}

func isProbe(path string) bool {
	return probePaths[strings.TrimSuffix(path, "/")]
}

func logByStatus(log *logger.Logger, fields map[string]interface{}, status int) {
	switch {
	case status >= 500:
		log.Error("Request completed", fields)
	case status >= 400:
		log.Warn("Request completed", fields)
	default:
		log.Debug("Request completed", fields)
	}
}
