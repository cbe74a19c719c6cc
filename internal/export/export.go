// Package export flattens the combined cluster view into rows for
// spreadsheet-style export.
package export

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/ocpnav/cluster-navigator/internal/domain"
)

// Header is the export column order.
var Header = []string{
	"Cluster Name",
	"Site",
	"Domain",
	"Segments",
	"Segment Count",
	"LoadBalancer IP(s)",
	"LoadBalancer IP Count",
	"Console URL",
	"Source",
	"Created At",
	"ID",
}

// Rows flattens the site views into export rows, one per cluster.
func Rows(sites []domain.SiteView) [][]string {
	var rows [][]string
	for _, site := range sites {
		for _, cluster := range site.Clusters {
			createdAt := ""
			if !cluster.CreatedAt.IsZero() {
				createdAt = cluster.CreatedAt.UTC().Format(time.RFC3339)
			}

			source := cluster.Source
			if source == "" {
				source = domain.SourceManual
			}

			rows = append(rows, []string{
				cluster.ClusterName,
				cluster.Site,
				cluster.DomainName,
				strings.Join(cluster.Segments, ", "),
				strconv.Itoa(len(cluster.Segments)),
				strings.Join(cluster.LoadBalancerIPs, ", "),
				strconv.Itoa(len(cluster.LoadBalancerIPs)),
				cluster.ConsoleURL,
				source,
				createdAt,
				cluster.ID,
			})
		}
	}
	return rows
}

// WriteCSV streams the combined view as CSV with a header row.
func WriteCSV(w io.Writer, sites []domain.SiteView) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(Header); err != nil {
		return err
	}
	for _, row := range Rows(sites) {
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
