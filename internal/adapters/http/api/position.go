// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/okian/rondo/internal/domain/ledger"
)

// PositionDependencies defines the interface for position reads.
type PositionDependencies interface {
	PlayerPosition(ctx context.Context, player string) (string, bool, error)
}

// PositionHandler handles per-player position reads.
type PositionHandler struct {
	deps PositionDependencies
}

// NewPositionHandler creates a new position handler.
func NewPositionHandler(deps PositionDependencies) *PositionHandler {
	return &PositionHandler{deps: deps}
}

// positionResponse is the wire shape for GET /position/{player}.
type positionResponse struct {
	Player   string `json:"player"`
	Position string `json:"position,omitempty"`
	OnField  bool   `json:"on_field"`
}

// HandleGetPosition handles GET /position/{player} requests.
func (h *PositionHandler) HandleGetPosition(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_position"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	player := strings.TrimPrefix(r.URL.Path, "/position/")
	if player == "" || strings.Contains(player, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}

	position, onField, err := h.deps.PlayerPosition(r.Context(), player)
	if err != nil {
		if errors.Is(err, ledger.ErrUnknownPlayer) {
			writeError(w, http.StatusNotFound, "not_found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, positionResponse{
		Player:   player,
		Position: position,
		OnField:  onField,
	})
}
