package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/martpos/martpos/internal/accounts"
	"github.com/martpos/martpos/internal/app"
	"github.com/martpos/martpos/internal/catalog"
	"github.com/martpos/martpos/internal/docstore"
	"github.com/martpos/martpos/internal/invoicing"
	"github.com/martpos/martpos/internal/ledger"
	"github.com/martpos/martpos/internal/notices"
	"github.com/martpos/martpos/internal/observability"
	"github.com/martpos/martpos/internal/platform/cache"
	"github.com/martpos/martpos/internal/platform/db"
	"github.com/martpos/martpos/internal/reconcile"
	"github.com/martpos/martpos/internal/settings"
	"github.com/martpos/martpos/internal/store"
	"github.com/martpos/martpos/internal/suppliers"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
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

	remote, cleanup, err := openDocstore(ctx, cfg, logger)
	if err != nil {
		logger.Error("open docstore", slog.Any("error", err))
		os.Exit(1)
	}
	defer cleanup()

	metrics := observability.NewMetrics()
	board := notices.NewBoard(notices.DefaultTTL)
	st := store.New()

	persister := reconcile.NewPersister(remote, board, logger, metrics)
	defer persister.Close()

	binder := reconcile.NewBinder(st, remote, persister, logger)
	teardown, err := binder.Start(ctx)
	if err != nil {
		logger.Error("start reconciliation", slog.Any("error", err))
		os.Exit(1)
	}
	defer teardown()

	catalogService := catalog.NewService(st, persister)
	suppliersService := suppliers.NewService(st, persister)
	invoicingService := invoicing.NewService(st, persister, catalogService)
	ledgerService := ledger.NewService(st, persister)
	accountsService := accounts.NewService(st, persister)
	settingsService := settings.NewService(st, persister)

	router := app.NewRouter(app.RouterParams{
		Logger:           logger,
		Config:           cfg,
		Notices:          board,
		CatalogHandler:   catalog.NewHandler(logger, catalogService),
		SuppliersHandler: suppliers.NewHandler(logger, suppliersService),
		InvoicingHandler: invoicing.NewHandler(logger, invoicingService),
		LedgerHandler:    ledger.NewHandler(logger, ledgerService),
		AccountsHandler:  accounts.NewHandler(logger, accountsService),
		SettingsHandler:  settings.NewHandler(logger, settingsService),
		Metrics:          metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", cfg.AppAddr))
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown", slog.Any("error", err))
		}
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server run", slog.Any("error", err))
			os.Exit(1)
		}
	}
}

// openDocstore builds the configured document backend. The cleanup
// function closes whatever resources the driver holds.
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
