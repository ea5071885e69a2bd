// Package errors defines the application error type shared by the transcription
// service, its history stores and the HTTP API. Every AppError carries a stable
// code, a client-safe message and the HTTP status the API layer should use.
package errors
