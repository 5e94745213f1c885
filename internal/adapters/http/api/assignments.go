// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/okian/rondo/internal/domain/model"
)

// AssignmentDependencies defines the interface for staged assignments.
type AssignmentDependencies interface {
	Enqueue(ctx context.Context, e model.MatchEvent) bool
}

// AssignmentHandler handles staged next-up assignments, the drag-and-drop
// flow before a substitution is executed.
type AssignmentHandler struct {
	deps AssignmentDependencies
}

// NewAssignmentHandler creates a new assignment handler.
func NewAssignmentHandler(deps AssignmentDependencies) *AssignmentHandler {
	return &AssignmentHandler{deps: deps}
}

// assignmentRequest mirrors the wire schema for POST /assignments.
type assignmentRequest struct {
	Player   string `json:"player"`
	Position string `json:"position"`
}

func (r assignmentRequest) validate() error {
	switch {
	case strings.TrimSpace(r.Player) == "":
		return errors.New("missing player")
	case strings.TrimSpace(r.Position) == "":
		return errors.New("missing position")
	}
	return nil
}

// HandlePostAssignment handles POST /assignments requests.
func (h *AssignmentHandler) HandlePostAssignment(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_assignment"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req assignmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	event := model.MatchEvent{
		Kind: model.KindAssignment,
		Assignment: &model.SubstitutionRequest{
			Player:   req.Player,
			Position: req.Position,
		},
	}
	if ok := h.deps.Enqueue(r.Context(), event); !ok {
		writeError(w, http.StatusTooManyRequests, "backpressure", NewKind(op, ErrBackpressure))
		return
	}
	writeJSON(w, http.StatusAccepted, ackResponse{Status: "accepted", Duplicate: false})
}
