// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
	"strings"
)

// RootHandler serves the service identity document at /.
type RootHandler struct {
	ident Identity
}

// NewRootHandler creates a new root handler.
func NewRootHandler(ident Identity) *RootHandler {
	return &RootHandler{ident: ident}
}

type rootResponse struct {
	Service string `json:"service"`
	Version string `json:"version"`
	Docs    string `json:"docs"`
	Health  string `json:"health"`
	Predict string `json:"predict"`
}

// HandleRoot handles GET / requests with static service identity and the
// paths a client needs to get started. Any other path under / is a 404.
func (h *RootHandler) HandleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" || r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	prefix := strings.TrimSuffix(h.ident.Prefix, "/")
	writeJSON(w, http.StatusOK, rootResponse{
		Service: h.ident.Service,
		Version: h.ident.Version,
		Docs:    "/api-docs",
		Health:  prefix + "/health",
		Predict: prefix + "/predict",
	})
}
