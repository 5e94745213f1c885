// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"github.com/okian/rondo/internal/domain/planner"
)

// PlanDependencies defines the interface for plan reads.
type PlanDependencies interface {
	Plan(ctx context.Context) []planner.AssignmentView
	Boundary(ctx context.Context) int
	Shortfall(ctx context.Context) *planner.ShortfallStatus
	ShiftSeconds(ctx context.Context) float64
	GameClock(ctx context.Context) int
}

// PlanHandler handles plan reads.
type PlanHandler struct {
	deps PlanDependencies
}

// NewPlanHandler creates a new plan handler.
func NewPlanHandler(deps PlanDependencies) *PlanHandler {
	return &PlanHandler{deps: deps}
}

// planResponse is the wire shape for GET /plan.
type planResponse struct {
	Assignments  []planner.AssignmentView `json:"assignments"`
	Boundary     int                      `json:"boundary"`
	Shortfall    *planner.ShortfallStatus `json:"shortfall,omitempty"`
	ShiftSec     float64                  `json:"shift_sec"`
	GameClockSec int                      `json:"game_clock_sec"`
}

// HandleGetPlan handles GET /plan requests.
func (h *PlanHandler) HandleGetPlan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	ctx := r.Context()
	writeJSON(w, http.StatusOK, planResponse{
		Assignments:  h.deps.Plan(ctx),
		Boundary:     h.deps.Boundary(ctx),
		Shortfall:    h.deps.Shortfall(ctx),
		ShiftSec:     h.deps.ShiftSeconds(ctx),
		GameClockSec: h.deps.GameClock(ctx),
	})
}
