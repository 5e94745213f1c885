// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
)

// ResetDependencies defines the interface for the game reset.
type ResetDependencies interface {
	Reset(ctx context.Context)
}

// ResetHandler handles game resets.
type ResetHandler struct {
	deps ResetDependencies
}

// NewResetHandler creates a new reset handler.
func NewResetHandler(deps ResetDependencies) *ResetHandler {
	return &ResetHandler{deps: deps}
}

// HandlePostReset handles POST /reset requests.
func (h *ResetHandler) HandlePostReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	h.deps.Reset(r.Context())
	writeJSON(w, http.StatusOK, ackResponse{Status: "reset"})
}
