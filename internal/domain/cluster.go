package domain

import (
	"fmt"
	"time"
)

// Cluster sources.
const (
	SourceVLANManager = "vlan-manager"
	SourceManual      = "manual"
)

// Segment is a raw network segment record from the VLAN Manager inventory.
// A single segment may be shared by several clusters, in which case
// ClusterName holds a comma-joined list of names.
type Segment struct {
	CIDR        string `json:"segment"`
	Site        string `json:"site"`
	ClusterName string `json:"cluster_name"`
	Released    bool   `json:"released"`
	VLANID      string `json:"vlan_id,omitempty"`
	EPGName     string `json:"epg_name,omitempty"`
	VRF         string `json:"vrf,omitempty"`
}

// ClusterMetadata holds deduplicated metadata lists folded from the
// segments that make up a cluster.
type ClusterMetadata struct {
	VLANIDs  []string `json:"vlan_ids"`
	EPGNames []string `json:"epg_names"`
	VRFs     []string `json:"vrfs"`
}

// ClusterKey is the composite identity of a cluster. The same cluster name
// may legitimately exist at different sites, so name alone is never a key.
type ClusterKey struct {
	Name string
	Site string
}

func (k ClusterKey) String() string {
	return k.Name + "@" + k.Site
}

// Cluster is a cluster entity from either the VLAN Manager sync or the
// manual store.
type Cluster struct {
	ID              string          `json:"id,omitempty" db:"id"`
	ClusterName     string          `json:"clusterName" db:"cluster_name"`
	Site            string          `json:"site" db:"site"`
	Segments        []string        `json:"segments"`
	DomainName      string          `json:"domainName" db:"domain_name"`
	ConsoleURL      string          `json:"consoleUrl,omitempty" db:"console_url"`
	CreatedAt       time.Time       `json:"createdAt,omitzero" db:"created_at"`
	Source          string          `json:"source,omitempty"`
	LoadBalancerIPs []string        `json:"loadBalancerIP,omitempty"`
	Metadata        ClusterMetadata `json:"metadata"`
}

// Key returns the composite (name, site) identity of the cluster.
func (c *Cluster) Key() ClusterKey {
	return ClusterKey{Name: c.ClusterName, Site: c.Site}
}

// SyncStats are the summary counts computed for one synchronized dataset.
type SyncStats struct {
	TotalClusters int `json:"total_clusters"`
	TotalSites    int `json:"total_sites"`
	TotalSegments int `json:"total_segments"`
}

// Dataset is the materialized result of one sync cycle: the full list of
// synced clusters, the known site names, and summary counts. It is the only
// durable state the sync engine owns.
type Dataset struct {
	Clusters []Cluster  `json:"clusters"`
	Sites    []string   `json:"sites"`
	Stats    *SyncStats `json:"stats,omitempty"`
}

// EmptyDataset returns a dataset with empty (non-nil) collections, used when
// neither the external service nor the cache can provide data.
func EmptyDataset() *Dataset {
	return &Dataset{Clusters: []Cluster{}, Sites: []string{}}
}

// SiteView groups the clusters of one site in the combined view.
type SiteView struct {
	Site         string    `json:"site"`
	ClusterCount int       `json:"clusterCount"`
	Clusters     []Cluster `json:"clusters"`
}

// ConsoleURL builds the OpenShift console URL for a cluster.
func ConsoleURL(clusterName, domainName string) string {
	return fmt.Sprintf("https://console-openshift-console.apps.%s.%s", clusterName, domainName)
}

// CreateClusterRequest is the request body for creating a manual cluster.
type CreateClusterRequest struct {
	ClusterName string   `json:"clusterName"`
	Site        string   `json:"site"`
	Segments    []string `json:"segments"`
	DomainName  string   `json:"domainName,omitempty"`
}

// UpdateClusterRequest is the request body for updating a manual cluster.
type UpdateClusterRequest struct {
	Site       *string  `json:"site,omitempty"`
	Segments   []string `json:"segments,omitempty"`
	DomainName *string  `json:"domainName,omitempty"`
}

// SitesResponse is returned by the sites endpoint.
type SitesResponse struct {
	Sites []string `json:"sites"`
	Count int      `json:"count"`
}
