package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ocpnav/cluster-navigator/internal/domain"
	"github.com/ocpnav/cluster-navigator/internal/storage"
	"github.com/ocpnav/cluster-navigator/internal/validation"
)

// ClusterHandler handles manual cluster endpoints.
type ClusterHandler struct {
	store         storage.Storage
	prefix        string
	defaultDomain string
}

// NewClusterHandler creates a new ClusterHandler.
func NewClusterHandler(store storage.Storage, prefix, defaultDomain string) *ClusterHandler {
	return &ClusterHandler{store: store, prefix: prefix, defaultDomain: defaultDomain}
}

// Create creates a new manual cluster.
func (h *ClusterHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateClusterRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	name, err := validation.ValidateClusterName(req.ClusterName, h.prefix)
	if err != nil {
		respondValidationError(w, "clusterName", req.ClusterName, err.Error())
		return
	}

	site := strings.TrimSpace(req.Site)
	if site == "" {
		respondError(w, http.StatusBadRequest, "site is required")
		return
	}

	if err := validation.ValidateSegments(req.Segments); err != nil {
		respondValidationError(w, "segments", strings.Join(req.Segments, ","), err.Error())
		return
	}

	exists, err := h.store.ClusterExists(r.Context(), name, site)
	if err != nil {
		handleError(w, err)
		return
	}
	if exists {
		respondError(w, http.StatusConflict, "cluster already exists at this site")
		return
	}

	domainName := req.DomainName
	if domainName == "" {
		domainName = h.defaultDomain
	}

	cluster := &domain.Cluster{
		ID:          generateID(),
		ClusterName: name,
		Site:        site,
		Segments:    req.Segments,
		DomainName:  domainName,
		ConsoleURL:  domain.ConsoleURL(name, domainName),
		CreatedAt:   time.Now().UTC(),
		Source:      domain.SourceManual,
	}

	if err := h.store.CreateCluster(r.Context(), cluster); err != nil {
		handleError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, cluster)
}

// List lists manual clusters, optionally filtered by site.
func (h *ClusterHandler) List(w http.ResponseWriter, r *http.Request) {
	var (
		clusters []*domain.Cluster
		err      error
	)

	if site := r.URL.Query().Get("site"); site != "" {
		clusters, err = h.store.ListClustersBySite(r.Context(), site)
	} else {
		clusters, err = h.store.ListClusters(r.Context())
	}
	if err != nil {
		handleError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, clusters)
}

// Get gets a manual cluster by ID.
func (h *ClusterHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		respondError(w, http.StatusBadRequest, "id is required")
		return
	}

	cluster, err := h.store.GetCluster(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, cluster)
}

// Update updates a manual cluster. The cluster name is immutable; site,
// segments, and domain may change.
func (h *ClusterHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		respondError(w, http.StatusBadRequest, "id is required")
		return
	}

	var req domain.UpdateClusterRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	cluster, err := h.store.GetCluster(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}

	if req.Site != nil {
		site := strings.TrimSpace(*req.Site)
		if site == "" {
			respondError(w, http.StatusBadRequest, "site cannot be empty")
			return
		}
		if site != cluster.Site {
			exists, err := h.store.ClusterExists(r.Context(), cluster.ClusterName, site)
			if err != nil {
				handleError(w, err)
				return
			}
			if exists {
				respondError(w, http.StatusConflict, "cluster already exists at this site")
				return
			}
			cluster.Site = site
		}
	}

	if req.Segments != nil {
		if err := validation.ValidateSegments(req.Segments); err != nil {
			respondValidationError(w, "segments", strings.Join(req.Segments, ","), err.Error())
			return
		}
		cluster.Segments = req.Segments
	}

	if req.DomainName != nil {
		domainName := *req.DomainName
		if domainName == "" {
			domainName = h.defaultDomain
		}
		cluster.DomainName = domainName
		cluster.ConsoleURL = domain.ConsoleURL(cluster.ClusterName, domainName)
	}

	if err := h.store.UpdateCluster(r.Context(), cluster); err != nil {
		handleError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, cluster)
}

// Delete deletes a manual cluster.
func (h *ClusterHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		respondError(w, http.StatusBadRequest, "id is required")
		return
	}

	if err := h.store.DeleteCluster(r.Context(), id); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
