// Package stats aggregates statistics over the combined cluster view.
package stats

import (
	"context"
	"math"

	"github.com/ocpnav/cluster-navigator/internal/domain"
	"github.com/ocpnav/cluster-navigator/internal/merger"
)

// Overview holds the top-level totals.
type Overview struct {
	TotalClusters             int     `json:"total_clusters"`
	TotalSites                int     `json:"total_sites"`
	TotalSegments             int     `json:"total_segments"`
	AverageSegmentsPerCluster float64 `json:"average_segments_per_cluster"`
}

// Statistics is the full statistics payload.
type Statistics struct {
	Overview                  Overview       `json:"overview"`
	ClustersPerSite           map[string]int `json:"clusters_per_site"`
	SegmentsPerSite           map[string]int `json:"segments_per_site"`
	DomainDistribution        map[string]int `json:"domain_distribution"`
	SourceDistribution        map[string]int `json:"source_distribution"`
	SegmentsCountDistribution map[int]int    `json:"segments_count_distribution"`
}

// Service computes statistics from the merged view.
type Service struct {
	merger *merger.Merger
}

// New creates a statistics Service.
func New(m *merger.Merger) *Service {
	return &Service{merger: m}
}

// Statistics builds the statistics payload over the current combined view.
func (s *Service) Statistics(ctx context.Context) (*Statistics, error) {
	sites, err := s.merger.CombinedSites(ctx)
	if err != nil {
		return nil, err
	}

	stats := &Statistics{
		ClustersPerSite:           make(map[string]int),
		SegmentsPerSite:           make(map[string]int),
		DomainDistribution:        make(map[string]int),
		SourceDistribution:        make(map[string]int),
		SegmentsCountDistribution: make(map[int]int),
	}

	totalClusters := 0
	totalSegments := 0

	for _, site := range sites {
		for _, cluster := range site.Clusters {
			totalClusters++
			segments := len(cluster.Segments)
			totalSegments += segments

			stats.ClustersPerSite[cluster.Site]++
			stats.SegmentsPerSite[cluster.Site] += segments
			stats.DomainDistribution[cluster.DomainName]++
			stats.SegmentsCountDistribution[segments]++

			source := cluster.Source
			if source == "" {
				source = domain.SourceManual
			}
			stats.SourceDistribution[source]++
		}
	}

	stats.Overview = Overview{
		TotalClusters: totalClusters,
		TotalSites:    len(sites),
		TotalSegments: totalSegments,
	}
	if totalClusters > 0 {
		average := float64(totalSegments) / float64(totalClusters)
		stats.Overview.AverageSegmentsPerCluster = math.Round(average*100) / 100
	}

	return stats, nil
}
