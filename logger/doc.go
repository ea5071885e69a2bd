// Package logger provides structured logging for vlmscribe on top of zerolog.
//
// Components obtain a tagged logger with WithComponent and log with optional
// field maps:
//
//	log := logger.WithComponent("history")
//	log.Warn("skipping unreadable record", logger.Fields("key", key))
package logger
