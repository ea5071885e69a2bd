package bootstrap

import (
	"io"
	"time"

	"github.com/kbukum/vlmscribe/logger"
)

// Option configures the App during creation.
// Options are non-generic so they can be used with any config type.
type Option func(*appOptions)

type appOptions struct {
	logger          *logger.Logger
	gracefulTimeout *time.Duration
	healthTimeout   *time.Duration
	summary         io.Writer
	quiet           bool
}

func resolveOptions(opts []Option) *appOptions {
	o := &appOptions{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithLogger sets a custom logger for the application.
// If not set, the logger is initialized from the config's Logging field.
func WithLogger(l *logger.Logger) Option {
	return func(o *appOptions) {
		o.logger = l
	}
}

// WithGracefulTimeout sets the maximum duration for graceful shutdown.
func WithGracefulTimeout(d time.Duration) Option {
	return func(o *appOptions) {
		o.gracefulTimeout = &d
	}
}

// WithHealthTimeout bounds each component health check of the ready check.
func WithHealthTimeout(d time.Duration) Option {
	return func(o *appOptions) {
		o.healthTimeout = &d
	}
}

// WithSummaryWriter sets where the startup summary is printed. Defaults to
// stderr.
func WithSummaryWriter(w io.Writer) Option {
	return func(o *appOptions) {
		o.summary = w
	}
}

// WithQuiet disables the startup summary. CLI commands use it so their
// output stays machine readable.
func WithQuiet() Option {
	return func(o *appOptions) {
		o.quiet = true
	}
}
