// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/okian/rondo/internal/domain/ledger"
	"github.com/okian/rondo/internal/domain/model"
)

// FairnessDependencies defines the interface for fairness reads.
type FairnessDependencies interface {
	Fairness(ctx context.Context, player string) (model.FairnessSnapshot, error)
}

// FairnessHandler handles per-player fairness reads.
type FairnessHandler struct {
	deps FairnessDependencies
}

// NewFairnessHandler creates a new fairness handler.
func NewFairnessHandler(deps FairnessDependencies) *FairnessHandler {
	return &FairnessHandler{deps: deps}
}

// fairnessResponse is the wire shape for GET /fairness/{player}.
type fairnessResponse struct {
	Player        string  `json:"player"`
	PercentInGame float64 `json:"percent_in_game"`
	BenchSeconds  int     `json:"bench_seconds"`
}

// HandleGetFairness handles GET /fairness/{player} requests.
func (h *FairnessHandler) HandleGetFairness(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_fairness"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	player := strings.TrimPrefix(r.URL.Path, "/fairness/")
	if player == "" || strings.Contains(player, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}

	snap, err := h.deps.Fairness(r.Context(), player)
	if err != nil {
		if errors.Is(err, ledger.ErrUnknownPlayer) {
			writeError(w, http.StatusNotFound, "not_found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, fairnessResponse{
		Player:        player,
		PercentInGame: snap.PercentInGame,
		BenchSeconds:  snap.BenchSeconds,
	})
}
