package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/martpos/martpos/internal/accounts"
	"github.com/martpos/martpos/internal/catalog"
	"github.com/martpos/martpos/internal/invoicing"
	"github.com/martpos/martpos/internal/ledger"
	"github.com/martpos/martpos/internal/notices"
	"github.com/martpos/martpos/internal/observability"
	"github.com/martpos/martpos/internal/platform/httpx"
	"github.com/martpos/martpos/internal/settings"
	"github.com/martpos/martpos/internal/suppliers"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger           *slog.Logger
	Config           *Config
	Notices          *notices.Board
	CatalogHandler   *catalog.Handler
	SuppliersHandler *suppliers.Handler
	InvoicingHandler *invoicing.Handler
	LedgerHandler    *ledger.Handler
	AccountsHandler  *accounts.Handler
	SettingsHandler  *settings.Handler
	Metrics          *observability.Metrics
}

// NewRouter constructs the chi.Router with application defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	if params.Metrics != nil {
		r.Handle("/metrics", params.Metrics.Handler())
	}

	if params.Notices != nil {
		r.Get("/notices", func(w http.ResponseWriter, r *http.Request) {
			httpx.JSON(w, http.StatusOK, params.Notices.Active())
		})
	}

	r.Route("/auth", params.AccountsHandler.MountAuthRoutes)
	r.Route("/products", params.CatalogHandler.MountRoutes)
	r.Route("/companies", params.SuppliersHandler.MountRoutes)
	r.Route("/invoices", params.InvoicingHandler.MountRoutes)
	r.Route("/transactions", params.LedgerHandler.MountTransactionRoutes)
	r.Route("/analytics", params.LedgerHandler.MountAnalyticsRoutes)
	r.Route("/users", params.AccountsHandler.MountUserRoutes)
	r.Route("/settings", params.SettingsHandler.MountRoutes)

	return r
}
