package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/martpos/martpos/internal/app"
	"github.com/martpos/martpos/internal/docstore"
	jobmetrics "github.com/martpos/martpos/internal/jobs"
	"github.com/martpos/martpos/internal/platform/cache"
	"github.com/martpos/martpos/internal/platform/db"
	"github.com/martpos/martpos/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	docs, cleanup, err := openDocstore(ctx, cfg, logger)
	if err != nil {
		logger.Error("open docstore", slog.Any("error", err))
		os.Exit(1)
	}
	defer cleanup()

	rollup := jobs.NewSalesRollup(docs, logger, jobmetrics.NewMetrics(nil))

	rollupTask, err := jobs.NewSalesRollupTask(time.Time{})
	if err != nil {
		logger.Error("build rollup task", slog.Any("error", err))
		os.Exit(1)
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskSalesRollup, Handler: rollup.Handle},
		},
		Cron: []jobs.CronRegistration{
			{Spec: jobs.SalesRollupCron, Task: rollupTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}

func openDocstore(ctx context.Context, cfg *app.Config, logger *slog.Logger) (docstore.Store, func(), error) {
	switch cfg.DocstoreDriver {
	case app.DriverRedis:
		client, err := cache.New(ctx, cfg.RedisAddr)
		if err != nil {
			return nil, nil, err
		}
		return docstore.NewRedis(client, logger), func() {
			if err := client.Close(); err != nil {
				logger.Warn("redis close", slog.Any("error", err))
			}
		}, nil
	case app.DriverPostgres:
		pool, err := db.New(ctx, cfg.PGDSN)
		if err != nil {
			return nil, nil, err
		}
		pg := docstore.NewPostgres(pool, logger)
		if err := pg.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return pg, pool.Close, nil
	default:
		return docstore.NewMemory(), func() {}, nil
	}
}
