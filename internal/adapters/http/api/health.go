// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
)

// HealthHandler handles liveness and readiness probes.
type HealthHandler struct {
	deps  Dependencies
	ident Identity
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(deps Dependencies, ident Identity) *HealthHandler {
	return &HealthHandler{deps: deps, ident: ident}
}

type healthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Version string `json:"version,omitempty"`
}

type readyResponse struct {
	Status      string `json:"status"`
	Service     string `json:"service"`
	ModelLoaded bool   `json:"model_loaded"`
}

// HandleHealth handles GET /health requests (liveness probe). It returns
// 200 whenever the process is serving.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, healthResponse{
		Status:  "healthy",
		Service: h.ident.Service,
		Version: h.ident.Version,
	})
}

// HandleReady handles GET /ready requests (readiness probe). A missing
// model artifact does not fail readiness: the rule-based scorer serves
// traffic until a trained model ships.
func (h *HealthHandler) HandleReady(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	if !h.deps.Ready() {
		writeJSON(w, http.StatusServiceUnavailable, readyResponse{
			Status:  "unavailable",
			Service: h.ident.Service,
		})
		return
	}
	writeJSON(w, http.StatusOK, readyResponse{
		Status:      "ready",
		Service:     h.ident.Service,
		ModelLoaded: h.deps.ModelLoaded(),
	})
}
