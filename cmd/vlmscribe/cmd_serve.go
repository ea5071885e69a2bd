package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/kbukum/vlmscribe/api"
	"github.com/kbukum/vlmscribe/bootstrap"
	"github.com/kbukum/vlmscribe/server"
)

func newServeCommand(opts *rootOptions) *cobra.Command {
	var port int
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the transcription HTTP API",
		Long: `Run the JSON API. Uploaded images are kept in the images storage and
transcribed from there; every attempt is stored in the history backend.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			if port > 0 {
				cfg.Server.Port = port
			}
			return runServe(cmd.Context(), cfg)
		},
	}
	cmd.Flags().IntVarP(&port, "port", "p", 0, "Listen port (overrides server.port)")
	return cmd
}

func runServe(ctx context.Context, cfg *AppConfig, opts ...bootstrap.Option) error {
	app, svc, err := newApp(cfg, imagesFromStorage, opts...)
	if err != nil {
		return err
	}

	srv := server.New(app.Cfg.Server, app.Logger)
	srv.ApplyDefaults(app.Name, app.Components.HealthAll)
	if err := app.RegisterComponent(server.NewComponent(srv)); err != nil {
		return err
	}

	app.OnConfigure(func(_ context.Context, a *bootstrap.App[*AppConfig]) error {
		handler := api.NewHandler(svc.scribe, svc.store,
			api.WithUploads(svc.images),
			api.WithDocuments(svc.tagger, svc.documents),
			api.WithConfigured(a.Cfg.Configured()),
			api.WithLogger(a.Logger),
		)
		handler.Register(srv.GinEngine())
		return nil
	})

	return app.Run(ctx)
}
