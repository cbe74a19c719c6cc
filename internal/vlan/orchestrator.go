package vlan

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ocpnav/cluster-navigator/internal/cache"
	"github.com/ocpnav/cluster-navigator/internal/dns"
	"github.com/ocpnav/cluster-navigator/internal/domain"
)

// resolveParallelism bounds concurrent DNS lookups during a sync cycle.
const resolveParallelism = 8

// Status describes the current state of the sync service.
type Status struct {
	ServiceRunning      bool       `json:"service_running"`
	SyncIntervalSeconds float64    `json:"sync_interval_seconds"`
	CacheExists         bool       `json:"cache_exists"`
	CacheAgeMinutes     *float64   `json:"cache_age_minutes"`
	LastUpdated         *time.Time `json:"last_updated"`
	VLANManagerURL      string     `json:"vlan_manager_url"`
}

// Orchestrator coordinates the VLAN Manager sync: fetch, transform, resolve,
// cache. It owns the periodic schedule and exposes on-demand sync.
type Orchestrator struct {
	source      SegmentSource
	transformer *Transformer
	cache       *cache.Store
	resolver    dns.AddressResolver
	interval    time.Duration
	sourceURL   string
	logger      *zap.Logger

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewOrchestrator creates an Orchestrator. sourceURL is reported in Status
// only.
func NewOrchestrator(
	source SegmentSource,
	transformer *Transformer,
	cacheStore *cache.Store,
	resolver dns.AddressResolver,
	interval time.Duration,
	sourceURL string,
	logger *zap.Logger,
) *Orchestrator {
	return &Orchestrator{
		source:      source,
		transformer: transformer,
		cache:       cacheStore,
		resolver:    resolver,
		interval:    interval,
		sourceURL:   sourceURL,
		logger:      logger,
	}
}

// Start begins the periodic sync loop. Calling Start on a running
// orchestrator is a no-op.
func (o *Orchestrator) Start() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.running {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	o.cancel = cancel
	o.done = make(chan struct{})
	o.running = true

	go o.loop(ctx, o.done)

	o.logger.Info("vlan sync service started",
		zap.Duration("interval", o.interval),
		zap.String("url", o.sourceURL))
}

// Stop prevents future cycles from starting. An in-flight cycle runs to
// completion; the tick boundary is the only cancellation point.
func (o *Orchestrator) Stop() {
	o.mu.Lock()
	if !o.running {
		o.mu.Unlock()
		return
	}
	o.running = false
	cancel := o.cancel
	done := o.done
	o.mu.Unlock()

	cancel()
	<-done
	o.logger.Info("vlan sync service stopped")
}

// Running reports whether the periodic loop is active.
func (o *Orchestrator) Running() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.running
}

func (o *Orchestrator) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(o.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// The cycle deliberately does not inherit the loop context:
			// stopping the service must not preempt a cycle mid-flight.
			o.runCycle()
		}
	}
}

// runCycle executes one sync cycle behind an exception boundary; a single
// bad cycle never stops the service.
func (o *Orchestrator) runCycle() {
	defer func() {
		if r := recover(); r != nil {
			o.logger.Error("sync cycle panicked", zap.Any("panic", r))
		}
	}()
	o.SyncData(context.Background())
}

// SyncData fetches segments and sites, transforms them into clusters,
// resolves LoadBalancer addresses, persists the dataset, and returns it.
// When the inventory yields no segments it falls back to the last cached
// dataset, and failing that returns an explicit empty dataset.
func (o *Orchestrator) SyncData(ctx context.Context) *domain.Dataset {
	o.logger.Info("starting vlan manager data sync")

	var (
		segments []domain.Segment
		sites    []string
		wg       sync.WaitGroup
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		segments = o.source.FetchAllocatedSegments(ctx)
	}()
	go func() {
		defer wg.Done()
		sites = o.source.FetchSites(ctx)
	}()
	wg.Wait()

	if len(segments) == 0 {
		o.logger.Warn("no segments fetched, attempting cache fallback")
		if cached, ok := o.cache.Load(); ok {
			o.logger.Info("using cached data")
			return cached
		}
		o.logger.Error("no cached data available")
		return domain.EmptyDataset()
	}

	clusters := o.transformer.Transform(segments)
	o.resolveAddresses(ctx, clusters)

	stats := CalculateStats(clusters, sites)
	data := &domain.Dataset{
		Clusters: clusters,
		Sites:    sites,
		Stats:    &stats,
	}

	if err := o.cache.Save(ctx, data); err != nil {
		// The fresh dataset is still returned; only durability suffered.
		o.logger.Error("failed to persist sync result", zap.Error(err))
	}

	o.logger.Info("sync complete",
		zap.Int("clusters", stats.TotalClusters),
		zap.Int("sites", stats.TotalSites),
		zap.Int("segments", stats.TotalSegments))

	return data
}

// resolveAddresses fills in LoadBalancer addresses for every cluster with
// bounded parallelism.
func (o *Orchestrator) resolveAddresses(ctx context.Context, clusters []domain.Cluster) {
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(resolveParallelism)
	for i := range clusters {
		cluster := &clusters[i]
		g.Go(func() error {
			cluster.LoadBalancerIPs = o.resolver.Resolve(cluster.ClusterName, cluster.DomainName)
			return nil
		})
	}
	_ = g.Wait()
}

// LoadFromCache returns the cached dataset, or an empty dataset when no
// cache is available.
func (o *Orchestrator) LoadFromCache() *domain.Dataset {
	if data, ok := o.cache.Load(); ok {
		return data
	}
	return domain.EmptyDataset()
}

// Status reports the sync service state for the status endpoint.
func (o *Orchestrator) Status() Status {
	status := Status{
		ServiceRunning:      o.Running(),
		SyncIntervalSeconds: o.interval.Seconds(),
		VLANManagerURL:      o.sourceURL,
	}

	if updated, ok := o.cache.LastUpdated(); ok {
		status.CacheExists = true
		age := time.Since(updated).Minutes()
		status.CacheAgeMinutes = &age
		status.LastUpdated = &updated
	}

	return status
}
