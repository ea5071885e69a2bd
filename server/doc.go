// Package server provides the vlmscribe HTTP server: Gin routes mounted on
// a root ServeMux, served over HTTP/1.1 and h2c.
//
// # Middleware
//
// Built-in middleware (server/middleware), applied around every handler:
//
//   - Recovery: panic recovery with structured logging
//   - RequestID: X-Request-Id generation and propagation into the log context
//   - CORS: cross-origin resource sharing
//   - BodySizeLimit: caps request bodies, including image uploads
//   - RateLimit: per-IP limit on the paid transcription endpoints
//   - RequestLogger: request logging with duration
//
// # Endpoints
//
// Built-in endpoints (server/endpoint): /health, /liveness, /readiness,
// /info, /version and /metrics.
package server
