package sql

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ocpnav/cluster-navigator/internal/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := New("sqlite3", filepath.Join(t.TempDir(), "clusters.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleCluster(id, name, site string) *domain.Cluster {
	return &domain.Cluster{
		ID:          id,
		ClusterName: name,
		Site:        site,
		Segments:    []string{"10.1.0.0/24"},
		DomainName:  "example.com",
		ConsoleURL:  domain.ConsoleURL(name, "example.com"),
		CreatedAt:   time.Now().UTC().Truncate(time.Second),
	}
}

func TestCreateAndGetCluster(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	cluster := sampleCluster("c1", "ocp4-a", "east")
	cluster.LoadBalancerIPs = []string{"192.0.2.10", "192.0.2.11"}
	require.NoError(t, store.CreateCluster(ctx, cluster))

	got, err := store.GetCluster(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "ocp4-a", got.ClusterName)
	assert.Equal(t, []string{"10.1.0.0/24"}, got.Segments)
	assert.Equal(t, []string{"192.0.2.10", "192.0.2.11"}, got.LoadBalancerIPs)
	assert.Equal(t, domain.SourceManual, got.Source)

	_, err = store.GetCluster(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUniqueCompositeKey(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.CreateCluster(ctx, sampleCluster("c1", "ocp4-a", "east")))

	err := store.CreateCluster(ctx, sampleCluster("c2", "ocp4-a", "east"))
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)

	// Same name at a different site is a different cluster.
	assert.NoError(t, store.CreateCluster(ctx, sampleCluster("c3", "ocp4-a", "west")))
}

func TestGetClusterByName(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.CreateCluster(ctx, sampleCluster("c1", "ocp4-a", "east")))

	got, err := store.GetClusterByName(ctx, "ocp4-a", "east")
	require.NoError(t, err)
	assert.Equal(t, "c1", got.ID)

	_, err = store.GetClusterByName(ctx, "ocp4-a", "west")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListClustersOrdering(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.CreateCluster(ctx, sampleCluster("c1", "ocp4-b", "west")))
	require.NoError(t, store.CreateCluster(ctx, sampleCluster("c2", "ocp4-a", "west")))
	require.NoError(t, store.CreateCluster(ctx, sampleCluster("c3", "ocp4-z", "east")))

	clusters, err := store.ListClusters(ctx)
	require.NoError(t, err)
	require.Len(t, clusters, 3)
	assert.Equal(t, "c3", clusters[0].ID)
	assert.Equal(t, "c2", clusters[1].ID)
	assert.Equal(t, "c1", clusters[2].ID)

	bySite, err := store.ListClustersBySite(ctx, "west")
	require.NoError(t, err)
	require.Len(t, bySite, 2)
	assert.Equal(t, "ocp4-a", bySite[0].ClusterName)
}

func TestUpdateCluster(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	cluster := sampleCluster("c1", "ocp4-a", "east")
	require.NoError(t, store.CreateCluster(ctx, cluster))

	cluster.Segments = []string{"10.1.0.0/24", "10.2.0.0/24"}
	cluster.LoadBalancerIPs = []string{"192.0.2.10"}
	require.NoError(t, store.UpdateCluster(ctx, cluster))

	got, err := store.GetCluster(ctx, "c1")
	require.NoError(t, err)
	assert.Len(t, got.Segments, 2)
	assert.Equal(t, []string{"192.0.2.10"}, got.LoadBalancerIPs)

	err = store.UpdateCluster(ctx, sampleCluster("missing", "ocp4-x", "east"))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteCluster(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.CreateCluster(ctx, sampleCluster("c1", "ocp4-a", "east")))
	require.NoError(t, store.DeleteCluster(ctx, "c1"))

	_, err := store.GetCluster(ctx, "c1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = store.DeleteCluster(ctx, "c1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestClusterExists(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.CreateCluster(ctx, sampleCluster("c1", "ocp4-a", "east")))

	exists, err := store.ClusterExists(ctx, "ocp4-a", "east")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = store.ClusterExists(ctx, "ocp4-b", "east")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestListSites(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.CreateCluster(ctx, sampleCluster("c1", "ocp4-a", "west")))
	require.NoError(t, store.CreateCluster(ctx, sampleCluster("c2", "ocp4-b", "east")))
	require.NoError(t, store.CreateCluster(ctx, sampleCluster("c3", "ocp4-c", "east")))

	sites, err := store.ListSites(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"east", "west"}, sites)
}
