package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/ocpnav/cluster-navigator/internal/domain"
)

// Store is an in-memory implementation of the storage interface, used for
// tests and ephemeral deployments.
type Store struct {
	mu       sync.RWMutex
	clusters map[string]*domain.Cluster // key: id
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{clusters: make(map[string]*domain.Cluster)}
}

func (s *Store) Close() error { return nil }

func (s *Store) CreateCluster(ctx context.Context, cluster *domain.Cluster) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.clusters[cluster.ID]; ok {
		return domain.ErrAlreadyExists
	}
	for _, existing := range s.clusters {
		if existing.ClusterName == cluster.ClusterName && existing.Site == cluster.Site {
			return domain.ErrAlreadyExists
		}
	}

	s.clusters[cluster.ID] = clone(cluster)
	return nil
}

func (s *Store) GetCluster(ctx context.Context, id string) (*domain.Cluster, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cluster, ok := s.clusters[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return clone(cluster), nil
}

func (s *Store) GetClusterByName(ctx context.Context, name, site string) (*domain.Cluster, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, cluster := range s.clusters {
		if cluster.ClusterName == name && cluster.Site == site {
			return clone(cluster), nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *Store) ListClusters(ctx context.Context) ([]*domain.Cluster, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	clusters := make([]*domain.Cluster, 0, len(s.clusters))
	for _, cluster := range s.clusters {
		clusters = append(clusters, clone(cluster))
	}
	sortClusters(clusters)
	return clusters, nil
}

func (s *Store) ListClustersBySite(ctx context.Context, site string) ([]*domain.Cluster, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var clusters []*domain.Cluster
	for _, cluster := range s.clusters {
		if cluster.Site == site {
			clusters = append(clusters, clone(cluster))
		}
	}
	sortClusters(clusters)
	return clusters, nil
}

func (s *Store) UpdateCluster(ctx context.Context, cluster *domain.Cluster) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.clusters[cluster.ID]; !ok {
		return domain.ErrNotFound
	}
	s.clusters[cluster.ID] = clone(cluster)
	return nil
}

func (s *Store) DeleteCluster(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.clusters[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.clusters, id)
	return nil
}

func (s *Store) ClusterExists(ctx context.Context, name, site string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, cluster := range s.clusters {
		if cluster.ClusterName == name && cluster.Site == site {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) ListSites(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{})
	var sites []string
	for _, cluster := range s.clusters {
		if _, ok := seen[cluster.Site]; !ok {
			seen[cluster.Site] = struct{}{}
			sites = append(sites, cluster.Site)
		}
	}
	sort.Strings(sites)
	return sites, nil
}

func sortClusters(clusters []*domain.Cluster) {
	sort.Slice(clusters, func(i, j int) bool {
		if clusters[i].Site != clusters[j].Site {
			return clusters[i].Site < clusters[j].Site
		}
		return clusters[i].ClusterName < clusters[j].ClusterName
	})
}

func clone(c *domain.Cluster) *domain.Cluster {
	out := *c
	out.Segments = append([]string(nil), c.Segments...)
	out.LoadBalancerIPs = append([]string(nil), c.LoadBalancerIPs...)
	out.Metadata.VLANIDs = append([]string(nil), c.Metadata.VLANIDs...)
	out.Metadata.EPGNames = append([]string(nil), c.Metadata.EPGNames...)
	out.Metadata.VRFs = append([]string(nil), c.Metadata.VRFs...)
	return &out
}
