package handler

import (
	"net/http"

	"github.com/ocpnav/cluster-navigator/internal/stats"
)

// StatisticsHandler handles the statistics endpoint.
type StatisticsHandler struct {
	service *stats.Service
}

// NewStatisticsHandler creates a new StatisticsHandler.
func NewStatisticsHandler(s *stats.Service) *StatisticsHandler {
	return &StatisticsHandler{service: s}
}

// Get returns statistics over the combined cluster view.
func (h *StatisticsHandler) Get(w http.ResponseWriter, r *http.Request) {
	statistics, err := h.service.Statistics(r.Context())
	if err != nil {
		handleError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, statistics)
}
