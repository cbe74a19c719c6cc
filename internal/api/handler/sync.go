package handler

import (
	"net/http"

	"github.com/ocpnav/cluster-navigator/internal/vlan"
)

// SyncHandler handles VLAN sync control endpoints.
type SyncHandler struct {
	orchestrator *vlan.Orchestrator
}

// NewSyncHandler creates a new SyncHandler.
func NewSyncHandler(o *vlan.Orchestrator) *SyncHandler {
	return &SyncHandler{orchestrator: o}
}

// Trigger runs a sync cycle on demand and returns its summary.
func (h *SyncHandler) Trigger(w http.ResponseWriter, r *http.Request) {
	data := h.orchestrator.SyncData(r.Context())

	respondJSON(w, http.StatusOK, map[string]any{
		"status": "completed",
		"stats":  data.Stats,
	})
}

// Status reports the sync service state.
func (h *SyncHandler) Status(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.orchestrator.Status())
}
