package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"sgas/internal/adapters/resources"
	"sgas/internal/blob"
	"sgas/internal/cleanup"
	"sgas/internal/core"
	"sgas/internal/platform/config"
	"sgas/internal/platform/httpserver"
	"sgas/internal/platform/logger"
	"sgas/internal/platform/metrics"
)

func newServeCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the REST API until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return codeError(2, "load config: %s", err)
			}
			level := cfg.Log.Level
			if opts.verbose {
				level = "debug"
			}
			log, err := logger.New(level, cfg.Log.Format)
			if err != nil {
				return codeError(2, "build logger: %s", err)
			}
			defer func() { _ = log.Sync() }()
			return serve(cmd.Context(), cfg, log)
		},
	}
}

// app holds the wired components of a running server.
type app struct {
	worker  *cleanup.Worker
	handler *resources.Handler
	closers []func() error
}

func (a *app) Close() error {
	var first error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// build wires storage, object storage, the cleanup worker and the HTTP
// handler from cfg. The caller must Close the result.
func build(ctx context.Context, cfg config.Config, log *zap.Logger) (*app, error) {
	a := &app{}
	m := metrics.New()

	store, err := core.OpenPersistentStore(ctx, cfg.Storage, core.NewDefaultRulesEngine())
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	a.closers = append(a.closers, store.Close)

	blobs, err := blob.Open(ctx, cfg.Blob)
	if err != nil {
		_ = a.Close()
		return nil, fmt.Errorf("open object storage: %w", err)
	}

	var queue cleanup.Queue = cleanup.NewMemoryQueue()
	if cfg.Cleanup.Queue == "redis" {
		rq, client, err := cleanup.OpenRedis(ctx, cfg.Cleanup.RedisURL, cfg.Cleanup.RedisKey)
		if err != nil {
			_ = a.Close()
			return nil, fmt.Errorf("open cleanup queue: %w", err)
		}
		queue = rq
		a.closers = append(a.closers, client.Close)
	}
	a.worker = cleanup.NewWorker(queue, blobs,
		cleanup.WithInterval(cfg.Cleanup.Interval),
		cleanup.WithMaxAttempts(cfg.Cleanup.MaxAttempts),
		cleanup.WithLogger(log.Named("cleanup")),
		cleanup.WithOutcomes(m.Cleanup),
	)

	svc := core.NewService(store, blobs,
		core.WithLogger(log.Named("core")),
		core.WithMetricsRecorder(m),
		core.WithTracer(core.NewOTelTracer(nil)),
		core.WithCleanupQueue(a.worker),
	)
	a.handler = resources.New(svc, blobs, log.Named("http"),
		resources.WithMetrics(m),
		resources.WithMaxUploadBytes(cfg.Server.MaxUploadBytes),
	)
	return a, nil
}

func serve(ctx context.Context, cfg config.Config, log *zap.Logger) error {
	a, err := build(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			log.Warn("close resources", zap.Error(err))
		}
	}()

	srv := httpserver.New(cfg.Server.Addr, a.handler.Routes())
	log.Info("serving",
		zap.String("addr", cfg.Server.Addr),
		zap.String("storage", string(cfg.Storage.Driver)),
		zap.String("blob", string(cfg.Blob.Driver)),
		zap.String("cleanup_queue", cfg.Cleanup.Queue),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return httpserver.Run(gctx, srv, cfg.Server.ShutdownTimeout) })
	g.Go(func() error { return a.worker.Run(gctx) })
	if err := g.Wait(); err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	log.Info("stopped")
	return nil
}
