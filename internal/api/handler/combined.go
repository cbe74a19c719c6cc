package handler

import (
	"net/http"

	"github.com/ocpnav/cluster-navigator/internal/merger"
)

// CombinedHandler handles the combined site view endpoint.
type CombinedHandler struct {
	merger *merger.Merger
}

// NewCombinedHandler creates a new CombinedHandler.
func NewCombinedHandler(m *merger.Merger) *CombinedHandler {
	return &CombinedHandler{merger: m}
}

// Sites returns synced and manual clusters grouped by site.
func (h *CombinedHandler) Sites(w http.ResponseWriter, r *http.Request) {
	sites, err := h.merger.CombinedSites(r.Context())
	if err != nil {
		handleError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, sites)
}
