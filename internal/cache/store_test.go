package cache

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ocpnav/cluster-navigator/internal/domain"
)

func testDataset() *domain.Dataset {
	return &domain.Dataset{
		Clusters: []domain.Cluster{
			{ClusterName: "ocp4-a", Site: "east", Segments: []string{"10.1.0.0/24"}},
		},
		Sites: []string{"east"},
		Stats: &domain.SyncStats{TotalClusters: 1, TotalSites: 1, TotalSegments: 1},
	}
}

func TestSaveAndLoad(t *testing.T) {
	store := New(filepath.Join(t.TempDir(), "cache.json"), zap.NewNop())

	require.NoError(t, store.Save(context.Background(), testDataset()))

	loaded, ok := store.Load()
	require.True(t, ok)
	assert.Equal(t, testDataset(), loaded)
}

func TestLoadAbsentFile(t *testing.T) {
	store := New(filepath.Join(t.TempDir(), "cache.json"), zap.NewNop())

	_, ok := store.Load()
	assert.False(t, ok)

	_, ok = store.LastUpdated()
	assert.False(t, ok)
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	require.NoError(t, os.WriteFile(path, []byte("{truncated"), 0o644))

	store := New(path, zap.NewNop())
	_, ok := store.Load()
	assert.False(t, ok)
}

func TestSaveCreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "cache.json")
	store := New(path, zap.NewNop())

	require.NoError(t, store.Save(context.Background(), testDataset()))

	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestLastUpdatedAdvances(t *testing.T) {
	store := New(filepath.Join(t.TempDir(), "cache.json"), zap.NewNop())

	before := time.Now().UTC().Add(-time.Second)
	require.NoError(t, store.Save(context.Background(), testDataset()))

	updated, ok := store.LastUpdated()
	require.True(t, ok)
	assert.True(t, updated.After(before))
}

func TestSaveLeavesNoTempFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	store := New(path, zap.NewNop())

	require.NoError(t, store.Save(context.Background(), testDataset()))

	_, err := os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestConcurrentReadersAndWriter(t *testing.T) {
	store := New(filepath.Join(t.TempDir(), "cache.json"), zap.NewNop())
	require.NoError(t, store.Save(context.Background(), testDataset()))

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				// A reader must always observe a complete dataset.
				if data, ok := store.Load(); ok {
					assert.Len(t, data.Clusters, 1)
				}
			}
		}()
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		for j := 0; j < 10; j++ {
			assert.NoError(t, store.Save(context.Background(), testDataset()))
		}
	}()
	wg.Wait()
}
