package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/ocpnav/cluster-navigator/internal/export"
	"github.com/ocpnav/cluster-navigator/internal/merger"
)

// ExportHandler handles the CSV export endpoint.
type ExportHandler struct {
	merger *merger.Merger
}

// NewExportHandler creates a new ExportHandler.
func NewExportHandler(m *merger.Merger) *ExportHandler {
	return &ExportHandler{merger: m}
}

// CSV streams the combined cluster view as a CSV attachment.
func (h *ExportHandler) CSV(w http.ResponseWriter, r *http.Request) {
	sites, err := h.merger.CombinedSites(r.Context())
	if err != nil {
		handleError(w, err)
		return
	}

	filename := fmt.Sprintf("clusters-%s.csv", time.Now().UTC().Format("2006-01-02"))
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if err := export.WriteCSV(w, sites); err != nil {
		// Headers are already out; nothing useful left to report.
		return
	}
}
