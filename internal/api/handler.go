package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/mtlprog/sipplan/internal/domain"
	"github.com/mtlprog/sipplan/internal/goal"
	"github.com/mtlprog/sipplan/internal/plan"
	"github.com/mtlprog/sipplan/internal/portfolio"
)

const maxBodyBytes = 1 << 20

// Handler provides HTTP endpoints for projections, plans and goals.
type Handler struct {
	projector *portfolio.Service
	plans     *plan.Service
	goals     *goal.Service
	defaults  Defaults
	now       func() time.Time
}

// NewHandler creates a new API handler. plans and goals may be nil when no
// database is configured; their routes are then not registered.
func NewHandler(projector *portfolio.Service, plans *plan.Service, goals *goal.Service, defaults Defaults) *Handler {
	return &Handler{
		projector: projector,
		plans:     plans,
		goals:     goals,
		defaults:  defaults,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// ListCategories handles GET /api/v1/categories.
func (h *Handler) ListCategories(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, domain.CategoryRegistry)
}

// Project handles POST /api/v1/projections.
func (h *Handler) Project(w http.ResponseWriter, r *http.Request) {
	var req projectionRequest
	if !decodeBody(w, r, &req) {
		return
	}

	streams, policy, err := req.resolve(h.defaults)
	if err != nil {
		writeServiceError(w, err, "failed to resolve projection request")
		return
	}

	pf, err := h.projector.Project(streams, policy, req.HorizonYears)
	if err != nil {
		writeServiceError(w, err, "failed to project portfolio")
		return
	}
	writeJSON(w, http.StatusOK, newPortfolioResponse(pf, policy))
}

// EvaluateGoal handles POST /api/v1/goals/evaluate. The goal is evaluated as given,
// without the creation-time checks.
func (h *Handler) EvaluateGoal(w http.ResponseWriter, r *http.Request) {
	var req goalRequest
	if !decodeBody(w, r, &req) {
		return
	}

	g, err := req.toGoal()
	if err != nil {
		writeServiceError(w, err, "failed to parse goal")
		return
	}

	summary, err := goal.Evaluate(g, h.now())
	if err != nil {
		writeServiceError(w, err, "failed to evaluate goal")
		return
	}
	writeJSON(w, http.StatusOK, newReviewResponse(goal.Review{Goal: g, Summary: summary}))
}

// decodeBody reads a JSON request body into v and writes a 400 on failure.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return false
	}
	return true
}

// pathID parses the {id} path value and writes a 400 on failure.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}

// writeServiceError maps domain errors to status codes. Unexpected errors are
// logged with msg and hidden from the client.
func writeServiceError(w http.ResponseWriter, err error, msg string) {
	switch {
	case domain.IsValidation(err):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrGoalAchieved):
		writeError(w, http.StatusConflict, err.Error())
	default:
		slog.Error(msg, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		slog.Error("failed to marshal JSON response", "error", err)
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		slog.Warn("failed to write HTTP response body", "error", err)
		return
	}
	_, _ = w.Write([]byte("\n"))
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
