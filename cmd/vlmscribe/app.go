package main

import (
	"context"
	"fmt"

	"github.com/kbukum/vlmscribe/bootstrap"
	"github.com/kbukum/vlmscribe/database"
	"github.com/kbukum/vlmscribe/document"
	"github.com/kbukum/vlmscribe/history"
	"github.com/kbukum/vlmscribe/ner"
	"github.com/kbukum/vlmscribe/observability"
	"github.com/kbukum/vlmscribe/provider"
	"github.com/kbukum/vlmscribe/redis"
	"github.com/kbukum/vlmscribe/scribe"
	"github.com/kbukum/vlmscribe/storage"
	"github.com/kbukum/vlmscribe/transcription"
	"github.com/kbukum/vlmscribe/vlm"
	"github.com/kbukum/vlmscribe/version"
)

// imageMode selects where image paths are resolved.
type imageMode int

const (
	// imagesFromFiles resolves image paths on the local filesystem (CLI).
	imagesFromFiles imageMode = iota
	// imagesFromStorage resolves image paths in the images storage (API).
	imagesFromStorage
)

// services holds everything built once infrastructure has started.
type services struct {
	store     history.Store
	documents document.Store
	images    storage.Storage
	selector  *transcription.Selector
	scribe    *scribe.Service
	ner       *ner.Transcriber
	tagger    *document.Service
}

// openStores builds the history and document stores on a started backend.
type openStores func() (history.Store, document.Store, error)

// historyBackend registers the component backing the configured history
// backend. Documents share that backend. The returned constructor is
// called after start.
func historyBackend(app *bootstrap.App[*AppConfig]) (openStores, error) {
	cfg := app.Cfg
	switch cfg.History.Backend {
	case history.BackendRedis:
		comp := redis.NewComponent(cfg.Redis, app.Logger)
		if err := app.RegisterComponent(comp); err != nil {
			return nil, err
		}
		return func() (history.Store, document.Store, error) {
			return history.NewRedisStore(comp.Client(), redisPrefix(cfg.History.Prefix), app.Logger),
				document.NewRedisStore(comp.Client(), document.DefaultRedisPrefix, app.Logger), nil
		}, nil
	case history.BackendSQL:
		comp := database.NewComponent(cfg.Database, app.Logger)
		if err := app.RegisterComponent(comp); err != nil {
			return nil, err
		}
		return func() (history.Store, document.Store, error) {
			records, err := history.NewSQLStore(comp.DB())
			if err != nil {
				return nil, nil, err
			}
			docs, err := document.NewSQLStore(comp.DB())
			if err != nil {
				return nil, nil, err
			}
			return records, docs, nil
		}, nil
	default:
		comp := storage.NewComponent("history-storage", cfg.Storage, app.Logger)
		if err := app.RegisterComponent(comp); err != nil {
			return nil, err
		}
		return func() (history.Store, document.Store, error) {
			return history.NewStorageStore(comp.Storage(), cfg.History.Prefix, app.Logger),
				document.NewStorageStore(comp.Storage(), document.DefaultPrefix, app.Logger), nil
		}, nil
	}
}

// redisPrefix namespaces the configured history prefix for redis keys.
func redisPrefix(prefix string) string {
	if prefix == "" || prefix == history.DefaultPrefix {
		return history.DefaultRedisPrefix
	}
	return prefix
}

// newApp builds the application with its infrastructure components. The
// returned services are populated during the configure phase.
func newApp(cfg *AppConfig, mode imageMode, opts ...bootstrap.Option) (*bootstrap.App[*AppConfig], *services, error) {
	if cfg.Version == "" {
		cfg.Version = version.GetVersionInfo().Version
	}
	app, err := bootstrap.NewApp(cfg, opts...)
	if err != nil {
		return nil, nil, err
	}

	newStores, err := historyBackend(app)
	if err != nil {
		return nil, nil, err
	}
	images := storage.NewComponent("images", cfg.Images, app.Logger)
	if err := app.RegisterComponent(images); err != nil {
		return nil, nil, err
	}

	var metrics *observability.Metrics
	app.OnStart(func(ctx context.Context) error {
		shutdown, err := observability.Setup(ctx, cfg.Observability, observability.ServiceInfo{
			Name:        cfg.Name,
			Version:     cfg.Version,
			Environment: cfg.Environment,
		})
		if err != nil {
			return fmt.Errorf("observability: %w", err)
		}
		app.OnStop(shutdown)

		metrics, err = observability.NewMetrics(observability.Meter(serviceName))
		if err != nil {
			return fmt.Errorf("observability metrics: %w", err)
		}
		return nil
	})

	svc := &services{}
	app.OnConfigure(func(ctx context.Context, a *bootstrap.App[*AppConfig]) error {
		records, docs, err := newStores()
		if err != nil {
			return fmt.Errorf("stores: %w", err)
		}
		svc.store = records
		svc.documents = docs
		svc.images = images.Storage()

		var src transcription.ImageSource = transcription.FileSource{}
		if mode == imagesFromStorage {
			src = transcription.StorageSource{Storage: svc.images}
		}
		svc.selector = transcription.NewSelector(a.Cfg.Config,
			transcription.WithImageSource(src),
			transcription.WithMiddleware(
				provider.WithTracing[vlm.Request, vlm.Response]("vlm"),
				provider.WithMetrics[vlm.Request, vlm.Response](metrics),
				provider.WithLogging[vlm.Request, vlm.Response](a.Logger),
			),
		)
		svc.scribe = scribe.NewService(svc.selector, svc.store,
			scribe.WithLogger(a.Logger),
			scribe.WithMetrics(metrics),
		)

		svc.ner, err = ner.NewTranscriber(a.Cfg.HF,
			ner.WithImageSource(src),
			ner.WithLogger(a.Logger),
		)
		if err != nil {
			return fmt.Errorf("ner: %w", err)
		}
		svc.tagger = document.NewService(svc.ner, svc.documents, document.WithLogger(a.Logger))
		return nil
	})

	return app, svc, nil
}
