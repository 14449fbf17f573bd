package api

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"
)

// NewServer creates an HTTP server with all routes configured. Mutating plan and goal
// routes require the admin key when one is set.
func NewServer(port string, handler *Handler, adminAPIKey string) *http.Server {
	return &http.Server{
		Addr:         ":" + port,
		Handler:      NewMux(handler, adminAPIKey),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

// NewMux registers every route on a new ServeMux.
func NewMux(handler *Handler, adminAPIKey string) *http.ServeMux {
	protect := func(h http.HandlerFunc) http.Handler {
		if adminAPIKey == "" {
			return h
		}
		return requireAuth(adminAPIKey, h)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("GET /api/v1/categories", handler.ListCategories)
	mux.HandleFunc("POST /api/v1/projections", handler.Project)
	mux.HandleFunc("POST /api/v1/goals/evaluate", handler.EvaluateGoal)

	if handler.plans != nil {
		mux.HandleFunc("GET /api/v1/plans", handler.ListPlans)
		mux.Handle("POST /api/v1/plans", protect(handler.CreatePlan))
		mux.HandleFunc("GET /api/v1/plans/{id}", handler.GetPlan)
		mux.Handle("DELETE /api/v1/plans/{id}", protect(handler.DeletePlan))
		mux.HandleFunc("GET /api/v1/plans/{id}/projection", handler.GetPlanProjection)
		mux.HandleFunc("GET /api/v1/plans/{id}/chart.png", handler.GetPlanChart)
		mux.HandleFunc("GET /api/v1/plans/{id}/export.xlsx", handler.GetPlanWorkbook)
	}

	if handler.goals != nil {
		mux.HandleFunc("GET /api/v1/goals", handler.ListGoals)
		mux.Handle("POST /api/v1/goals", protect(handler.CreateGoal))
		mux.HandleFunc("GET /api/v1/goals/{id}", handler.GetGoal)
		mux.Handle("POST /api/v1/goals/{id}/achieve", protect(handler.AchieveGoal))
	}

	return mux
}

func requireAuth(apiKey string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		token := strings.TrimPrefix(auth, "Bearer ")
		if !strings.HasPrefix(auth, "Bearer ") || subtle.ConstantTimeCompare([]byte(token), []byte(apiKey)) != 1 {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}
