package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/mtlprog/sipplan/internal/export"
	"github.com/mtlprog/sipplan/internal/goal"
	"github.com/mtlprog/sipplan/internal/plan"
)

// GoalReviewer evaluates active goals.
type GoalReviewer interface {
	Review(ctx context.Context, now time.Time) ([]goal.Review, error)
}

// PlanProjector projects every stored plan.
type PlanProjector interface {
	ProjectAll(ctx context.Context) ([]plan.Projection, error)
}

// AfterReviewHook is called after each review run that produced a report.
type AfterReviewHook interface {
	Export(ctx context.Context, report export.Report) error
}

// ReviewWorker periodically reviews goals and plans.
type ReviewWorker struct {
	goals    GoalReviewer
	plans    PlanProjector
	interval time.Duration
	hook     AfterReviewHook // optional
	now      func() time.Time
}

// NewReviewWorker creates a new ReviewWorker with an optional post-review hook.
func NewReviewWorker(goals GoalReviewer, plans PlanProjector, interval time.Duration, hook AfterReviewHook) *ReviewWorker {
	return &ReviewWorker{
		goals:    goals,
		plans:    plans,
		interval: interval,
		hook:     hook,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// review runs one pass. A failing half is logged and the other half is still reported.
func (w *ReviewWorker) review(ctx context.Context) (export.Report, bool) {
	report := export.Report{GeneratedAt: w.now()}
	ok := false

	if reviews, err := w.goals.Review(ctx, report.GeneratedAt); err != nil {
		slog.Error("ReviewWorker: goal review failed", "error", err)
	} else {
		report.Goals = reviews
		ok = true
		offTrack := 0
		for _, r := range reviews {
			if !r.Summary.OnTrack {
				offTrack++
			}
		}
		slog.Info("ReviewWorker: goals reviewed", "active", len(reviews), "off_track", offTrack)
	}

	if projections, err := w.plans.ProjectAll(ctx); err != nil {
		slog.Error("ReviewWorker: plan projection failed", "error", err)
	} else {
		report.Plans = projections
		ok = true
		slog.Info("ReviewWorker: plans projected", "count", len(projections))
	}

	return report, ok
}

// runHook calls the post-review hook if one is configured.
func (w *ReviewWorker) runHook(ctx context.Context, report export.Report) {
	if w.hook == nil {
		return
	}
	if err := w.hook.Export(ctx, report); err != nil {
		slog.Error("ReviewWorker: export hook failed", "error", err)
	} else {
		slog.Info("ReviewWorker: export hook completed")
	}
}

func (w *ReviewWorker) runOnce(ctx context.Context) {
	if report, ok := w.review(ctx); ok {
		w.runHook(ctx, report)
	}
}

// Run starts the review worker loop. It blocks until the context is cancelled.
func (w *ReviewWorker) Run(ctx context.Context) {
	slog.Info("ReviewWorker: starting", "interval", w.interval)

	w.runOnce(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("ReviewWorker: shutting down")
			return
		case <-ticker.C:
			w.runOnce(ctx)
		}
	}
}
