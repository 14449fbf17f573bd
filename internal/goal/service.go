package goal

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mtlprog/sipplan/internal/domain"
)

// Review pairs a stored goal with its evaluation at review time.
type Review struct {
	Goal    domain.FinancialGoal `json:"goal"`
	Summary domain.GoalSummary   `json:"summary"`
}

// Service manages stored goals.
type Service struct {
	repo Repository
}

// NewService creates a new goal Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create validates a new goal at now and stores it as active.
func (s *Service) Create(ctx context.Context, g domain.FinancialGoal, now time.Time) (domain.FinancialGoal, error) {
	if err := g.Validate(now); err != nil {
		return domain.FinancialGoal{}, err
	}
	g.Status = domain.GoalStatusActive
	g.AchievedDate = nil

	created, err := s.repo.Create(ctx, g)
	if err != nil {
		return domain.FinancialGoal{}, err
	}
	slog.Info("goal created", "id", created.ID, "name", created.Name)
	return created, nil
}

// Get retrieves a goal together with its evaluation at now.
func (s *Service) Get(ctx context.Context, id int64, now time.Time) (Review, error) {
	g, err := s.repo.Get(ctx, id)
	if err != nil {
		return Review{}, err
	}
	summary, err := Evaluate(g, now)
	if err != nil {
		return Review{}, fmt.Errorf("evaluating goal %d: %w", id, err)
	}
	return Review{Goal: g, Summary: summary}, nil
}

// List retrieves goals with the given status, or all goals for an empty status.
func (s *Service) List(ctx context.Context, status domain.GoalStatus) ([]domain.FinancialGoal, error) {
	return s.repo.List(ctx, status)
}

// Achieve marks a goal achieved at now.
func (s *Service) Achieve(ctx context.Context, id int64, now time.Time) (domain.FinancialGoal, error) {
	g, err := s.repo.Get(ctx, id)
	if err != nil {
		return domain.FinancialGoal{}, err
	}
	if err := g.MarkAchieved(now); err != nil {
		return domain.FinancialGoal{}, fmt.Errorf("goal %d: %w", id, err)
	}
	if err := s.repo.Update(ctx, g); err != nil {
		return domain.FinancialGoal{}, err
	}
	slog.Info("goal achieved", "id", id)
	return g, nil
}

// Review evaluates every active goal at now. A goal that cannot be evaluated is
// logged and skipped so one bad row does not block the rest.
func (s *Service) Review(ctx context.Context, now time.Time) ([]Review, error) {
	goals, err := s.repo.List(ctx, domain.GoalStatusActive)
	if err != nil {
		return nil, fmt.Errorf("listing active goals: %w", err)
	}

	reviews := make([]Review, 0, len(goals))
	for _, g := range goals {
		summary, err := Evaluate(g, now)
		if err != nil {
			slog.Warn("skipping goal in review", "id", g.ID, "error", err)
			continue
		}
		reviews = append(reviews, Review{Goal: g, Summary: summary})
	}
	return reviews, nil
}
