package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/kbukum/vlmscribe/bootstrap"
)

// runTask loads the configuration, starts the infrastructure without the
// startup summary and runs fn with the configured services. CLI commands
// resolve image paths on the local filesystem.
func runTask(cmd *cobra.Command, opts *rootOptions, fn func(ctx context.Context, svc *services) error) error {
	cfg, err := opts.load()
	if err != nil {
		return err
	}
	return runTaskWith(cmd.Context(), cfg, fn, bootstrap.WithQuiet())
}

func runTaskWith(ctx context.Context, cfg *AppConfig, fn func(ctx context.Context, svc *services) error, opts ...bootstrap.Option) error {
	if ctx == nil {
		ctx = context.Background()
	}
	app, svc, err := newApp(cfg, imagesFromFiles, opts...)
	if err != nil {
		return err
	}
	return app.RunTask(ctx, func(ctx context.Context) error {
		return fn(ctx, svc)
	})
}
