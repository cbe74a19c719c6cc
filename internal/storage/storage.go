package storage

import (
	"context"

	"github.com/ocpnav/cluster-navigator/internal/domain"
)

// Storage defines the interface for the manual cluster store.
// Implementations must be safe for concurrent use.
type Storage interface {
	// Close closes the storage connection.
	Close() error

	CreateCluster(ctx context.Context, cluster *domain.Cluster) error
	GetCluster(ctx context.Context, id string) (*domain.Cluster, error)
	GetClusterByName(ctx context.Context, name, site string) (*domain.Cluster, error)
	ListClusters(ctx context.Context) ([]*domain.Cluster, error)
	ListClustersBySite(ctx context.Context, site string) ([]*domain.Cluster, error)
	UpdateCluster(ctx context.Context, cluster *domain.Cluster) error
	DeleteCluster(ctx context.Context, id string) error
	ClusterExists(ctx context.Context, name, site string) (bool, error)
	ListSites(ctx context.Context) ([]string, error)
}
