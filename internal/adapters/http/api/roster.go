// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/okian/rondo/internal/domain/dedupe"
	"github.com/okian/rondo/internal/domain/model"
)

// RosterDependencies defines the interface for roster batch processing.
type RosterDependencies interface {
	dedupe.Deduper
	Enqueue(ctx context.Context, e model.MatchEvent) bool
}

// RosterHandler handles roster updates.
type RosterHandler struct {
	deps RosterDependencies
}

// NewRosterHandler creates a new roster handler.
func NewRosterHandler(deps RosterDependencies) *RosterHandler {
	return &RosterHandler{deps: deps}
}

// rosterRequest mirrors the wire schema for POST /roster.
type rosterRequest struct {
	BatchID     string   `json:"batch_id"`
	Available   []string `json:"available"`
	Unavailable []string `json:"unavailable,omitempty"`
}

func (r rosterRequest) validate() error {
	if strings.TrimSpace(r.BatchID) == "" {
		return errors.New("missing batch_id")
	}
	if len(r.Available) == 0 && len(r.Unavailable) == 0 {
		return errors.New("empty roster batch")
	}
	for _, name := range append(append([]string(nil), r.Available...), r.Unavailable...) {
		if strings.TrimSpace(name) == "" {
			return errors.New("blank player name")
		}
	}
	return nil
}

// HandlePostRoster handles POST /roster requests.
func (h *RosterHandler) HandlePostRoster(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_roster"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req rosterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	if h.deps.SeenAndRecord(r.Context(), req.BatchID) {
		writeJSON(w, http.StatusOK, ackResponse{Status: "duplicate", Duplicate: true})
		return
	}

	event := model.MatchEvent{
		EventID:     req.BatchID,
		Kind:        model.KindRoster,
		Available:   req.Available,
		Unavailable: req.Unavailable,
	}
	if ok := h.deps.Enqueue(r.Context(), event); !ok {
		h.deps.Unrecord(r.Context(), req.BatchID)
		writeError(w, http.StatusTooManyRequests, "backpressure", NewKind(op, ErrBackpressure))
		return
	}
	writeJSON(w, http.StatusAccepted, ackResponse{Status: "accepted", Duplicate: false})
}
