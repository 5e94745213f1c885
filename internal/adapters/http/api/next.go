// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"strconv"
)

// NextDependencies defines the interface for urgency queries.
type NextDependencies interface {
	PickNextPlayers(ctx context.Context, n int) []string
	PickNextPosition(ctx context.Context) (string, error)
}

// NextHandler handles "who goes on next" queries.
type NextHandler struct {
	deps     NextDependencies
	maxLimit int
}

// NewNextHandler creates a new next handler.
func NewNextHandler(deps NextDependencies, maxLimit int) *NextHandler {
	return &NextHandler{
		deps:     deps,
		maxLimit: maxLimit,
	}
}

// nextResponse is the wire shape for GET /next.
type nextResponse struct {
	Players  []string `json:"players"`
	Position string   `json:"position,omitempty"`
}

// HandleGetNext handles GET /next?n=K requests: the K most urgent bench
// players plus the position longest without rotation.
func (h *NextHandler) HandleGetNext(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_next"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	n, err := strconv.Atoi(r.URL.Query().Get("n"))
	if err != nil || n < 1 {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	if n > h.maxLimit {
		writeError(w, http.StatusBadRequest, "limit_exceeded", NewKind(op, ErrBadRequest))
		return
	}

	ctx := r.Context()
	resp := nextResponse{
		Players: h.deps.PickNextPlayers(ctx, n),
	}
	if position, err := h.deps.PickNextPosition(ctx); err == nil {
		resp.Position = position
	}
	writeJSON(w, http.StatusOK, resp)
}
