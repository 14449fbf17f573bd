package api

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/mtlprog/sipplan/internal/chart"
	"github.com/mtlprog/sipplan/internal/export"
	"github.com/mtlprog/sipplan/internal/plan"
)

// ListPlans handles GET /api/v1/plans.
func (h *Handler) ListPlans(w http.ResponseWriter, r *http.Request) {
	const maxLimit = 500
	limit := 50
	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 {
			limit = min(n, maxLimit)
		}
	}

	plans, err := h.plans.List(r.Context(), limit)
	if err != nil {
		writeServiceError(w, err, "failed to list plans")
		return
	}
	if plans == nil {
		plans = []plan.Plan{}
	}
	writeJSON(w, http.StatusOK, plans)
}

// CreatePlan handles POST /api/v1/plans.
func (h *Handler) CreatePlan(w http.ResponseWriter, r *http.Request) {
	var req planRequest
	if !decodeBody(w, r, &req) {
		return
	}

	streams, policy, err := req.resolve(h.defaults)
	if err != nil {
		writeServiceError(w, err, "failed to resolve plan request")
		return
	}

	created, err := h.plans.Create(r.Context(), plan.Plan{
		Name:         req.Name,
		Streams:      streams,
		Policy:       policy,
		HorizonYears: req.HorizonYears,
	})
	if err != nil {
		writeServiceError(w, err, "failed to create plan")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// GetPlan handles GET /api/v1/plans/{id}.
func (h *Handler) GetPlan(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	p, err := h.plans.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, "failed to get plan")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// DeletePlan handles DELETE /api/v1/plans/{id}.
func (h *Handler) DeletePlan(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.plans.Delete(r.Context(), id); err != nil {
		writeServiceError(w, err, "failed to delete plan")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) projectPlan(w http.ResponseWriter, r *http.Request) (plan.Projection, bool) {
	id, ok := pathID(w, r)
	if !ok {
		return plan.Projection{}, false
	}
	proj, err := h.plans.Project(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, "failed to project plan")
		return plan.Projection{}, false
	}
	return proj, true
}

// GetPlanProjection handles GET /api/v1/plans/{id}/projection.
func (h *Handler) GetPlanProjection(w http.ResponseWriter, r *http.Request) {
	proj, ok := h.projectPlan(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, planProjectionResponse{
		Plan:       proj.Plan,
		Projection: newPortfolioResponse(proj.Portfolio, proj.Plan.Policy),
	})
}

// GetPlanChart handles GET /api/v1/plans/{id}/chart.png.
func (h *Handler) GetPlanChart(w http.ResponseWriter, r *http.Request) {
	proj, ok := h.projectPlan(w, r)
	if !ok {
		return
	}
	png, err := chart.RenderGrowth(proj.Plan.Name, proj.Portfolio.Yearly)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-cache")
	if _, err := w.Write(png); err != nil {
		slog.Warn("failed to write chart", "error", err)
	}
}

// GetPlanWorkbook handles GET /api/v1/plans/{id}/export.xlsx.
func (h *Handler) GetPlanWorkbook(w http.ResponseWriter, r *http.Request) {
	proj, ok := h.projectPlan(w, r)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := export.WritePortfolioXLSX(&buf, proj.Portfolio); err != nil {
		writeServiceError(w, err, "failed to build workbook")
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="plan-%d.xlsx"`, proj.Plan.ID))
	if _, err := w.Write(buf.Bytes()); err != nil {
		slog.Warn("failed to write workbook", "error", err)
	}
}
