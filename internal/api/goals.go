package api

import (
	"fmt"
	"net/http"

	"github.com/samber/lo"

	"github.com/mtlprog/sipplan/internal/domain"
	"github.com/mtlprog/sipplan/internal/goal"
)

// ListGoals handles GET /api/v1/goals. The optional status query selects active or
// achieved goals; active goals carry their current summary.
func (h *Handler) ListGoals(w http.ResponseWriter, r *http.Request) {
	status := domain.GoalStatus(r.URL.Query().Get("status"))
	if status != "" && status != domain.GoalStatusActive && status != domain.GoalStatusAchieved {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown status %q", status))
		return
	}

	goals, err := h.goals.List(r.Context(), status)
	if err != nil {
		writeServiceError(w, err, "failed to list goals")
		return
	}

	now := h.now()
	writeJSON(w, http.StatusOK, lo.Map(goals, func(g domain.FinancialGoal, _ int) goalResponse {
		if g.Status != domain.GoalStatusActive {
			return newGoalResponse(g)
		}
		summary, err := goal.Evaluate(g, now)
		if err != nil {
			return newGoalResponse(g)
		}
		return newReviewResponse(goal.Review{Goal: g, Summary: summary})
	}))
}

// CreateGoal handles POST /api/v1/goals.
func (h *Handler) CreateGoal(w http.ResponseWriter, r *http.Request) {
	var req goalRequest
	if !decodeBody(w, r, &req) {
		return
	}

	g, err := req.toGoal()
	if err != nil {
		writeServiceError(w, err, "failed to parse goal")
		return
	}

	created, err := h.goals.Create(r.Context(), g, h.now())
	if err != nil {
		writeServiceError(w, err, "failed to create goal")
		return
	}
	writeJSON(w, http.StatusCreated, newGoalResponse(created))
}

// GetGoal handles GET /api/v1/goals/{id}.
func (h *Handler) GetGoal(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	review, err := h.goals.Get(r.Context(), id, h.now())
	if err != nil {
		writeServiceError(w, err, "failed to get goal")
		return
	}
	writeJSON(w, http.StatusOK, newReviewResponse(review))
}

// AchieveGoal handles POST /api/v1/goals/{id}/achieve.
func (h *Handler) AchieveGoal(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	g, err := h.goals.Achieve(r.Context(), id, h.now())
	if err != nil {
		writeServiceError(w, err, "failed to achieve goal")
		return
	}
	writeJSON(w, http.StatusOK, newGoalResponse(g))
}
