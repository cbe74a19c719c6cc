package vlan

import (
	"strings"

	"go.uber.org/zap"

	"github.com/ocpnav/cluster-navigator/internal/domain"
	"github.com/ocpnav/cluster-navigator/internal/validation"
)

// Transformer groups raw VLAN segments into cluster entities keyed by the
// composite (cluster name, site) identity.
type Transformer struct {
	prefix        string
	defaultDomain string
	logger        *zap.Logger
}

// NewTransformer creates a Transformer. Names lacking the prefix are
// silently dropped, not erred: one bad record must not block a sync.
func NewTransformer(prefix, defaultDomain string, logger *zap.Logger) *Transformer {
	return &Transformer{prefix: prefix, defaultDomain: defaultDomain, logger: logger}
}

// Transform folds segments into cluster entities. A segment missing its
// cluster name, site, or CIDR is skipped, as is any released segment. The
// comma-joined cluster-name field is split so a shared segment lands on
// every named cluster. Output preserves the insertion order of first-seen
// composite keys; callers must not assume sort order.
func (t *Transformer) Transform(segments []domain.Segment) []domain.Cluster {
	byKey := make(map[domain.ClusterKey]*domain.Cluster)
	var order []domain.ClusterKey

	for _, seg := range segments {
		if seg.ClusterName == "" || seg.Site == "" || seg.CIDR == "" {
			continue
		}
		if seg.Released {
			continue
		}

		for _, raw := range strings.Split(seg.ClusterName, ",") {
			name := validation.NormalizeClusterName(raw)
			if name == "" {
				continue
			}
			if !strings.HasPrefix(name, t.prefix) {
				t.logger.Debug("skipping cluster without required prefix",
					zap.String("cluster", name),
					zap.String("prefix", t.prefix))
				continue
			}

			key := domain.ClusterKey{Name: name, Site: seg.Site}
			cluster, ok := byKey[key]
			if !ok {
				cluster = &domain.Cluster{
					ClusterName: name,
					Site:        seg.Site,
					Segments:    []string{},
					DomainName:  t.defaultDomain,
					Source:      domain.SourceVLANManager,
					Metadata: domain.ClusterMetadata{
						VLANIDs:  []string{},
						EPGNames: []string{},
						VRFs:     []string{},
					},
				}
				byKey[key] = cluster
				order = append(order, key)
			}

			cluster.Segments = appendUnique(cluster.Segments, seg.CIDR)
			cluster.Metadata.VLANIDs = appendUnique(cluster.Metadata.VLANIDs, seg.VLANID)
			cluster.Metadata.EPGNames = appendUnique(cluster.Metadata.EPGNames, seg.EPGName)
			cluster.Metadata.VRFs = appendUnique(cluster.Metadata.VRFs, seg.VRF)
		}
	}

	clusters := make([]domain.Cluster, 0, len(order))
	for _, key := range order {
		clusters = append(clusters, *byKey[key])
	}
	return clusters
}

// CalculateStats computes the summary counts for one synchronized dataset.
func CalculateStats(clusters []domain.Cluster, sites []string) domain.SyncStats {
	total := 0
	for _, c := range clusters {
		total += len(c.Segments)
	}
	return domain.SyncStats{
		TotalClusters: len(clusters),
		TotalSites:    len(sites),
		TotalSegments: total,
	}
}

// appendUnique appends value to list when it is non-empty and not already
// present. Idempotent union, not a multiset.
func appendUnique(list []string, value string) []string {
	if value == "" {
		return list
	}
	for _, existing := range list {
		if existing == value {
			return list
		}
	}
	return append(list, value)
}
