package handler

import (
	"net/http"
	"sort"

	"github.com/ocpnav/cluster-navigator/internal/domain"
	"github.com/ocpnav/cluster-navigator/internal/merger"
	"github.com/ocpnav/cluster-navigator/internal/storage"
)

// SiteHandler handles the site list endpoint.
type SiteHandler struct {
	loader merger.DatasetLoader
	store  storage.Storage
}

// NewSiteHandler creates a new SiteHandler.
func NewSiteHandler(loader merger.DatasetLoader, store storage.Storage) *SiteHandler {
	return &SiteHandler{loader: loader, store: store}
}

// List returns the union of synced and manual site names, sorted.
func (h *SiteHandler) List(w http.ResponseWriter, r *http.Request) {
	seen := make(map[string]struct{})

	for _, site := range h.loader.LoadFromCache().Sites {
		seen[site] = struct{}{}
	}

	manual, err := h.store.ListSites(r.Context())
	if err != nil {
		handleError(w, err)
		return
	}
	for _, site := range manual {
		seen[site] = struct{}{}
	}

	sites := make([]string, 0, len(seen))
	for site := range seen {
		sites = append(sites, site)
	}
	sort.Strings(sites)

	respondJSON(w, http.StatusOK, &domain.SitesResponse{
		Sites: sites,
		Count: len(sites),
	})
}
