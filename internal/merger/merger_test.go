package merger

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ocpnav/cluster-navigator/internal/domain"
	"github.com/ocpnav/cluster-navigator/internal/storage/memory"
)

type fakeLoader struct {
	data *domain.Dataset
}

func (f *fakeLoader) LoadFromCache() *domain.Dataset {
	if f.data == nil {
		return domain.EmptyDataset()
	}
	return f.data
}

type fakeResolver struct {
	mu    sync.Mutex
	addrs map[string][]string
	calls []string
}

func (f *fakeResolver) Resolve(clusterName, domainName string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, clusterName)
	return f.addrs[clusterName]
}

func syncedDataset() *domain.Dataset {
	return &domain.Dataset{
		Clusters: []domain.Cluster{
			{ClusterName: "ocp4-a", Site: "east", Segments: []string{"10.1.0.0/24"}, DomainName: "example.com"},
			{ClusterName: "ocp4-b", Site: "west", Segments: []string{"10.2.0.0/24"}},
		},
		Sites: []string{"east", "west"},
	}
}

func TestCombinedSitesGroupsAndSorts(t *testing.T) {
	store := memory.New()
	resolver := &fakeResolver{addrs: map[string][]string{"ocp4-a": {"192.0.2.10"}}}
	m := New(&fakeLoader{data: syncedDataset()}, store, resolver, "example.com", zap.NewNop())

	require.NoError(t, store.CreateCluster(context.Background(), &domain.Cluster{
		ID:          "m1",
		ClusterName: "ocp4-manual",
		Site:        "east",
		Segments:    []string{"10.9.0.0/24"},
		DomainName:  "example.com",
		Source:      domain.SourceManual,
		CreatedAt:   time.Now().UTC(),
	}))

	sites, err := m.CombinedSites(context.Background())
	require.NoError(t, err)
	require.Len(t, sites, 2)

	assert.Equal(t, "east", sites[0].Site)
	assert.Equal(t, 2, sites[0].ClusterCount)
	assert.Equal(t, "west", sites[1].Site)
	assert.Equal(t, 1, sites[1].ClusterCount)
}

func TestCombinedSitesSyncedDecoration(t *testing.T) {
	store := memory.New()
	resolver := &fakeResolver{addrs: map[string][]string{"ocp4-a": {"192.0.2.10"}}}
	m := New(&fakeLoader{data: syncedDataset()}, store, resolver, "example.com", zap.NewNop())

	sites, err := m.CombinedSites(context.Background())
	require.NoError(t, err)

	var found *domain.Cluster
	for i := range sites {
		for j := range sites[i].Clusters {
			if sites[i].Clusters[j].ClusterName == "ocp4-a" {
				found = &sites[i].Clusters[j]
			}
		}
	}
	require.NotNil(t, found)

	assert.Equal(t, domain.SourceVLANManager, found.Source)
	assert.Equal(t, "vlan-ocp4-a@east", found.ID)
	assert.Equal(t, "https://console-openshift-console.apps.ocp4-a.example.com", found.ConsoleURL)
	assert.Equal(t, []string{"192.0.2.10"}, found.LoadBalancerIPs)
	assert.False(t, found.CreatedAt.IsZero())
}

func TestCombinedSitesDefaultsDomain(t *testing.T) {
	store := memory.New()
	m := New(&fakeLoader{data: syncedDataset()}, store, &fakeResolver{}, "fallback.net", zap.NewNop())

	sites, err := m.CombinedSites(context.Background())
	require.NoError(t, err)

	for _, site := range sites {
		for _, cluster := range site.Clusters {
			if cluster.ClusterName == "ocp4-b" {
				assert.Equal(t, "fallback.net", cluster.DomainName)
			}
		}
	}
}

func TestCombinedSitesSuppressesCollidingManual(t *testing.T) {
	store := memory.New()
	m := New(&fakeLoader{data: syncedDataset()}, store, &fakeResolver{}, "example.com", zap.NewNop())

	// Same composite key as a synced cluster: suppressed entirely.
	require.NoError(t, store.CreateCluster(context.Background(), &domain.Cluster{
		ID:          "m1",
		ClusterName: "ocp4-a",
		Site:        "east",
		Segments:    []string{"10.9.0.0/24"},
	}))
	// Same name, different site: kept.
	require.NoError(t, store.CreateCluster(context.Background(), &domain.Cluster{
		ID:          "m2",
		ClusterName: "ocp4-a",
		Site:        "south",
		Segments:    []string{"10.10.0.0/24"},
	}))

	sites, err := m.CombinedSites(context.Background())
	require.NoError(t, err)

	var east, south []domain.Cluster
	for _, site := range sites {
		switch site.Site {
		case "east":
			east = site.Clusters
		case "south":
			south = site.Clusters
		}
	}

	require.Len(t, east, 1)
	assert.Equal(t, domain.SourceVLANManager, east[0].Source)
	assert.NotEqual(t, []string{"10.9.0.0/24"}, east[0].Segments)

	require.Len(t, south, 1)
	assert.Equal(t, domain.SourceManual, south[0].Source)
}

func TestCombinedSitesManualResolution(t *testing.T) {
	store := memory.New()
	resolver := &fakeResolver{addrs: map[string][]string{"ocp4-manual": {"192.0.2.20"}}}
	m := New(&fakeLoader{}, store, resolver, "example.com", zap.NewNop())

	require.NoError(t, store.CreateCluster(context.Background(), &domain.Cluster{
		ID:          "m1",
		ClusterName: "ocp4-manual",
		Site:        "east",
		Segments:    []string{"10.9.0.0/24"},
	}))
	// A manual cluster with stored addresses is not re-resolved.
	require.NoError(t, store.CreateCluster(context.Background(), &domain.Cluster{
		ID:              "m2",
		ClusterName:     "ocp4-pinned",
		Site:            "east",
		Segments:        []string{"10.10.0.0/24"},
		LoadBalancerIPs: []string{"198.51.100.5"},
	}))

	sites, err := m.CombinedSites(context.Background())
	require.NoError(t, err)
	require.Len(t, sites, 1)

	for _, cluster := range sites[0].Clusters {
		switch cluster.ClusterName {
		case "ocp4-manual":
			assert.Equal(t, []string{"192.0.2.20"}, cluster.LoadBalancerIPs)
		case "ocp4-pinned":
			assert.Equal(t, []string{"198.51.100.5"}, cluster.LoadBalancerIPs)
		}
	}
	assert.NotContains(t, resolver.calls, "ocp4-pinned")
}

func TestCombinedSitesEmpty(t *testing.T) {
	m := New(&fakeLoader{}, memory.New(), &fakeResolver{}, "example.com", zap.NewNop())

	sites, err := m.CombinedSites(context.Background())
	require.NoError(t, err)
	assert.Empty(t, sites)
}
