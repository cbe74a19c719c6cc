// Package merger combines the synced dataset with manually entered clusters
// into the unified site view. Synced entities always win on a composite-key
// collision; the colliding manual record is suppressed entirely, never
// merged field by field.
package merger

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ocpnav/cluster-navigator/internal/dns"
	"github.com/ocpnav/cluster-navigator/internal/domain"
	"github.com/ocpnav/cluster-navigator/internal/storage"
)

// resolveParallelism bounds concurrent DNS lookups on the read path.
const resolveParallelism = 8

// DatasetLoader provides the last synchronized dataset. An empty dataset is
// returned when no sync has ever succeeded.
type DatasetLoader interface {
	LoadFromCache() *domain.Dataset
}

// Merger builds the combined site view.
type Merger struct {
	loader        DatasetLoader
	store         storage.Storage
	resolver      dns.AddressResolver
	defaultDomain string
	logger        *zap.Logger
}

// New creates a Merger.
func New(loader DatasetLoader, store storage.Storage, resolver dns.AddressResolver, defaultDomain string, logger *zap.Logger) *Merger {
	return &Merger{
		loader:        loader,
		store:         store,
		resolver:      resolver,
		defaultDomain: defaultDomain,
		logger:        logger,
	}
}

// CombinedSites returns all sites with clusters from both the VLAN Manager
// sync and the manual store, grouped by site and sorted by site name.
// Addresses are resolved lazily here, on read, so a long-lived cache does
// not pin stale IPs.
func (m *Merger) CombinedSites(ctx context.Context) ([]domain.SiteView, error) {
	data := m.loader.LoadFromCache()

	manual, err := m.store.ListClusters(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing manual clusters: %w", err)
	}

	synced := m.processSynced(ctx, data.Clusters)

	syncedKeys := make(map[domain.ClusterKey]struct{}, len(data.Clusters))
	for i := range data.Clusters {
		syncedKeys[data.Clusters[i].Key()] = struct{}{}
	}

	manualOut := m.processManual(ctx, manual, syncedKeys)

	bySite := make(map[string][]domain.Cluster)
	for _, cluster := range synced {
		bySite[cluster.Site] = append(bySite[cluster.Site], cluster)
	}
	for _, cluster := range manualOut {
		bySite[cluster.Site] = append(bySite[cluster.Site], cluster)
	}

	views := make([]domain.SiteView, 0, len(bySite))
	for site, clusters := range bySite {
		views = append(views, domain.SiteView{
			Site:         site,
			ClusterCount: len(clusters),
			Clusters:     clusters,
		})
	}
	sort.Slice(views, func(i, j int) bool { return views[i].Site < views[j].Site })

	m.logger.Debug("combined view built",
		zap.Int("synced_clusters", len(synced)),
		zap.Int("manual_clusters", len(manualOut)),
		zap.Int("sites", len(views)))

	return views, nil
}

// processSynced prepares cached clusters for the combined view: provenance
// tag, synthetic ID, console URL, and freshly resolved addresses.
func (m *Merger) processSynced(ctx context.Context, clusters []domain.Cluster) []domain.Cluster {
	out := make([]domain.Cluster, len(clusters))
	now := time.Now().UTC()

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(resolveParallelism)
	for i := range clusters {
		i := i
		g.Go(func() error {
			cluster := clusters[i]
			if cluster.DomainName == "" {
				cluster.DomainName = m.defaultDomain
			}
			cluster.ID = fmt.Sprintf("vlan-%s@%s", cluster.ClusterName, cluster.Site)
			cluster.Source = domain.SourceVLANManager
			cluster.ConsoleURL = domain.ConsoleURL(cluster.ClusterName, cluster.DomainName)
			cluster.CreatedAt = now
			cluster.LoadBalancerIPs = m.resolver.Resolve(cluster.ClusterName, cluster.DomainName)
			out[i] = cluster
			return nil
		})
	}
	_ = g.Wait()

	return out
}

// processManual filters out manual clusters whose composite key collides
// with a synced cluster and resolves addresses for those that carry none.
func (m *Merger) processManual(ctx context.Context, clusters []*domain.Cluster, syncedKeys map[domain.ClusterKey]struct{}) []domain.Cluster {
	var keep []*domain.Cluster
	for _, cluster := range clusters {
		if _, collides := syncedKeys[cluster.Key()]; collides {
			m.logger.Debug("suppressing manual cluster shadowed by synced data",
				zap.String("cluster", cluster.Key().String()))
			continue
		}
		keep = append(keep, cluster)
	}

	out := make([]domain.Cluster, len(keep))

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(resolveParallelism)
	for i := range keep {
		i := i
		g.Go(func() error {
			cluster := *keep[i]
			if cluster.Source == "" {
				cluster.Source = domain.SourceManual
			}
			if len(cluster.LoadBalancerIPs) == 0 {
				cluster.LoadBalancerIPs = m.resolver.Resolve(cluster.ClusterName, cluster.DomainName)
			}
			out[i] = cluster
			return nil
		})
	}
	_ = g.Wait()

	return out
}
