package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/ocpnav/cluster-navigator/internal/api"
	"github.com/ocpnav/cluster-navigator/internal/cache"
	"github.com/ocpnav/cluster-navigator/internal/config"
	"github.com/ocpnav/cluster-navigator/internal/dns"
	"github.com/ocpnav/cluster-navigator/internal/logging"
	"github.com/ocpnav/cluster-navigator/internal/merger"
	"github.com/ocpnav/cluster-navigator/internal/stats"
	"github.com/ocpnav/cluster-navigator/internal/storage"
	"github.com/ocpnav/cluster-navigator/internal/storage/memory"
	"github.com/ocpnav/cluster-navigator/internal/storage/sql"
	"github.com/ocpnav/cluster-navigator/internal/vlan"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Create data directory if needed (for SQLite)
	if cfg.Database.Driver == "sqlite3" {
		if dir := filepath.Dir(cfg.Database.DSN); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				logger.Fatal("failed to create data directory", zap.Error(err))
			}
		}
	}

	// Initialize the manual cluster store
	var store storage.Storage
	if cfg.UseMemoryStore() {
		logger.Info("using in-memory cluster store")
		store = memory.New()
	} else {
		sqlStore, err := sql.New(cfg.Database.Driver, cfg.Database.DSN)
		if err != nil {
			logger.Fatal("failed to initialize storage", zap.Error(err))
		}
		store = sqlStore
	}
	defer store.Close()

	// Sync engine wiring
	client := vlan.NewClient(cfg.VLAN.URL, cfg.VLAN.HTTPTimeout, cfg.VLAN.InsecureTLS, logger)
	transformer := vlan.NewTransformer(cfg.Cluster.Prefix, cfg.DNS.DefaultDomain, logger)
	cacheStore := cache.New(cfg.Cache.File, logger)
	resolver := dns.New(dns.Options{
		Server:         cfg.DNS.Server,
		Timeout:        cfg.DNS.Timeout,
		ResolutionPath: cfg.DNS.ResolutionPath,
		DefaultDomain:  cfg.DNS.DefaultDomain,
	}, logger)

	orchestrator := vlan.NewOrchestrator(
		client,
		transformer,
		cacheStore,
		resolver,
		cfg.VLAN.SyncInterval,
		cfg.VLAN.URL,
		logger,
	)

	combiner := merger.New(orchestrator, store, resolver, cfg.DNS.DefaultDomain, logger)
	statsService := stats.New(combiner)

	// Prime the cache once in the background, then start the periodic loop.
	go orchestrator.SyncData(context.Background())
	orchestrator.Start()

	// Create router
	router := api.NewRouter(cfg, store, orchestrator, combiner, resolver, statsService, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	logger.Info("starting cluster navigator", zap.String("addr", cfg.Server.Addr()))

	// Start server in goroutine
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	orchestrator.Stop()

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
}
