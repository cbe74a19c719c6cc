// Package api wires the HTTP surface: routing, middleware, and handlers.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/ocpnav/cluster-navigator/internal/api/handler"
	"github.com/ocpnav/cluster-navigator/internal/api/middleware"
	"github.com/ocpnav/cluster-navigator/internal/config"
	"github.com/ocpnav/cluster-navigator/internal/dns"
	"github.com/ocpnav/cluster-navigator/internal/merger"
	"github.com/ocpnav/cluster-navigator/internal/stats"
	"github.com/ocpnav/cluster-navigator/internal/storage"
	"github.com/ocpnav/cluster-navigator/internal/vlan"
)

// NewRouter creates a new HTTP router with all routes configured.
func NewRouter(
	cfg *config.Config,
	store storage.Storage,
	orchestrator *vlan.Orchestrator,
	combiner *merger.Merger,
	resolver *dns.Resolver,
	statsService *stats.Service,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimw.Recoverer)
	r.Use(middleware.Logging(logger))

	// Health check (no auth required)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	admin := middleware.BasicAuth(cfg.Auth.AdminUsername, cfg.Auth.AdminPassword)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.ContentType)

		// Manual clusters
		clusterHandler := handler.NewClusterHandler(store, cfg.Cluster.Prefix, cfg.DNS.DefaultDomain)
		r.Get("/clusters", clusterHandler.List)
		r.Get("/clusters/{id}", clusterHandler.Get)
		r.With(admin).Post("/clusters", clusterHandler.Create)
		r.With(admin).Put("/clusters/{id}", clusterHandler.Update)
		r.With(admin).Delete("/clusters/{id}", clusterHandler.Delete)

		// Sites
		siteHandler := handler.NewSiteHandler(orchestrator, store)
		r.Get("/sites", siteHandler.List)

		// Combined view
		combinedHandler := handler.NewCombinedHandler(combiner)
		r.Get("/combined/sites", combinedHandler.Sites)

		// Sync control
		syncHandler := handler.NewSyncHandler(orchestrator)
		r.Get("/vlan-sync/status", syncHandler.Status)
		r.With(admin).Post("/vlan-sync/trigger", syncHandler.Trigger)

		// DNS resolver statistics
		dnsHandler := handler.NewDNSHandler(resolver)
		r.Get("/dns/stats", dnsHandler.Stats)
		r.With(admin).Post("/dns/stats/reset", dnsHandler.Reset)

		// Statistics
		statisticsHandler := handler.NewStatisticsHandler(statsService)
		r.Get("/statistics", statisticsHandler.Get)

		// CSV export
		exportHandler := handler.NewExportHandler(combiner)
		r.Get("/export/csv", exportHandler.CSV)
	})

	return r
}
