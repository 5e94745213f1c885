// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/okian/rondo/internal/domain/model"
)

// TickDependencies defines the interface for game-clock updates.
type TickDependencies interface {
	Enqueue(ctx context.Context, e model.MatchEvent) bool
}

// TickHandler handles game-clock updates.
type TickHandler struct {
	deps TickDependencies
}

// NewTickHandler creates a new tick handler.
func NewTickHandler(deps TickDependencies) *TickHandler {
	return &TickHandler{deps: deps}
}

// tickRequest mirrors the wire schema for POST /tick.
type tickRequest struct {
	AtSec int `json:"at_sec"`
}

// HandlePostTick handles POST /tick requests. Ticks are idempotent by nature
// (the clock never moves backwards), so no batch ID is required.
func (h *TickHandler) HandlePostTick(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_tick"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req tickRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if req.AtSec < 0 {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, errors.New("negative at_sec")))
		return
	}

	event := model.MatchEvent{
		Kind:  model.KindTick,
		AtSec: req.AtSec,
	}
	if ok := h.deps.Enqueue(r.Context(), event); !ok {
		writeError(w, http.StatusTooManyRequests, "backpressure", NewKind(op, ErrBackpressure))
		return
	}
	writeJSON(w, http.StatusAccepted, ackResponse{Status: "accepted", Duplicate: false})
}
