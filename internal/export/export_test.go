package export

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ocpnav/cluster-navigator/internal/domain"
)

func testSites() []domain.SiteView {
	created := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	return []domain.SiteView{
		{
			Site:         "east",
			ClusterCount: 1,
			Clusters: []domain.Cluster{
				{
					ID:              "c1",
					ClusterName:     "ocp4-a",
					Site:            "east",
					Segments:        []string{"10.1.0.0/24", "10.2.0.0/24"},
					DomainName:      "example.com",
					ConsoleURL:      "https://console-openshift-console.apps.ocp4-a.example.com",
					CreatedAt:       created,
					Source:          domain.SourceVLANManager,
					LoadBalancerIPs: []string{"192.0.2.10", "192.0.2.11"},
				},
			},
		},
		{
			Site:         "west",
			ClusterCount: 1,
			Clusters: []domain.Cluster{
				{
					ID:          "c2",
					ClusterName: "ocp4-b",
					Site:        "west",
					Segments:    []string{"10.3.0.0/24"},
					DomainName:  "example.com",
				},
			},
		},
	}
}

func TestRows(t *testing.T) {
	rows := Rows(testSites())
	require.Len(t, rows, 2)

	first := rows[0]
	assert.Equal(t, "ocp4-a", first[0])
	assert.Equal(t, "east", first[1])
	assert.Equal(t, "10.1.0.0/24, 10.2.0.0/24", first[3])
	assert.Equal(t, "2", first[4])
	assert.Equal(t, "192.0.2.10, 192.0.2.11", first[5])
	assert.Equal(t, "2", first[6])
	assert.Equal(t, domain.SourceVLANManager, first[8])
	assert.Equal(t, "2026-03-15T12:00:00Z", first[9])

	// Source defaults to manual, zero time stays empty.
	second := rows[1]
	assert.Equal(t, domain.SourceManual, second[8])
	assert.Equal(t, "", second[9])
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, testSites()))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, Header, records[0])
	assert.Equal(t, "ocp4-a", records[1][0])
	assert.Equal(t, "ocp4-b", records[2][0])
}

func TestWriteCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, Header, records[0])
}
