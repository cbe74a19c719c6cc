package handler

import (
	"net/http"

	"github.com/ocpnav/cluster-navigator/internal/dns"
)

// DNSHandler handles DNS resolver statistics endpoints.
type DNSHandler struct {
	resolver *dns.Resolver
}

// NewDNSHandler creates a new DNSHandler.
func NewDNSHandler(r *dns.Resolver) *DNSHandler {
	return &DNSHandler{resolver: r}
}

// Stats returns the resolver's advisory counters.
func (h *DNSHandler) Stats(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.resolver.Stats())
}

// Reset zeroes the resolver's counters.
func (h *DNSHandler) Reset(w http.ResponseWriter, r *http.Request) {
	h.resolver.ResetStats()
	respondJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}
