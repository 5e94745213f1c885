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

// SubstitutionDependencies defines the interface for substitution batches.
type SubstitutionDependencies interface {
	dedupe.Deduper
	Enqueue(ctx context.Context, e model.MatchEvent) bool
}

// SubstitutionHandler handles executed substitution batches.
type SubstitutionHandler struct {
	deps SubstitutionDependencies
}

// NewSubstitutionHandler creates a new substitution handler.
func NewSubstitutionHandler(deps SubstitutionDependencies) *SubstitutionHandler {
	return &SubstitutionHandler{deps: deps}
}

// substitutionEntry is one executed change inside a batch.
type substitutionEntry struct {
	Player   string `json:"player"`
	Position string `json:"position"`
	TimeSec  int    `json:"time_sec"`
}

// substitutionRequest mirrors the wire schema for POST /substitutions.
type substitutionRequest struct {
	BatchID       string              `json:"batch_id"`
	Substitutions []substitutionEntry `json:"substitutions"`
}

func (r substitutionRequest) validate() error {
	if strings.TrimSpace(r.BatchID) == "" {
		return errors.New("missing batch_id")
	}
	if len(r.Substitutions) == 0 {
		return errors.New("empty substitution batch")
	}
	for _, sub := range r.Substitutions {
		switch {
		case strings.TrimSpace(sub.Player) == "":
			return errors.New("missing player")
		case strings.TrimSpace(sub.Position) == "":
			return errors.New("missing position")
		case sub.TimeSec < 0:
			return errors.New("negative time_sec")
		}
	}
	return nil
}

// HandlePostSubstitutions handles POST /substitutions requests. The batch is
// acknowledged once enqueued; reconciliation against the plan happens in the
// match director.
func (h *SubstitutionHandler) HandlePostSubstitutions(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_substitutions"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req substitutionRequest
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

	subs := make([]model.SubstitutionRequest, len(req.Substitutions))
	for i, sub := range req.Substitutions {
		subs[i] = model.SubstitutionRequest{
			Player:   sub.Player,
			Position: sub.Position,
			TimeSec:  sub.TimeSec,
		}
	}
	event := model.MatchEvent{
		EventID:       req.BatchID,
		Kind:          model.KindSubstitution,
		Substitutions: subs,
	}
	if ok := h.deps.Enqueue(r.Context(), event); !ok {
		h.deps.Unrecord(r.Context(), req.BatchID)
		writeError(w, http.StatusTooManyRequests, "backpressure", NewKind(op, ErrBackpressure))
		return
	}
	writeJSON(w, http.StatusAccepted, ackResponse{Status: "accepted", Duplicate: false})
}
