package plan

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/mtlprog/sipplan/internal/domain"
)

// Projector aggregates contribution streams into a portfolio projection.
type Projector interface {
	Project(streams []domain.ContributionStream, policy domain.StepUpPolicy, horizonYears int) (domain.Portfolio, error)
}

// Limits bounds the size of a stored plan.
type Limits struct {
	MaxStreams      int
	MaxHorizonYears int
}

// Projection is a plan together with its projected portfolio.
type Projection struct {
	Plan      Plan             `json:"plan"`
	Portfolio domain.Portfolio `json:"portfolio"`
}

// Service manages stored plans.
type Service struct {
	repo      Repository
	projector Projector
	limits    Limits
	workers   int
}

// NewService creates a new plan Service. workers bounds ProjectAll concurrency.
func NewService(repo Repository, projector Projector, limits Limits, workers int) *Service {
	if workers <= 0 {
		workers = 1
	}
	return &Service{repo: repo, projector: projector, limits: limits, workers: workers}
}

// Validate checks a plan against the configured limits and the stream rules.
func (s *Service) Validate(p Plan) error {
	if p.Name == "" {
		return fmt.Errorf("%w: name is required", domain.ErrInvalidPlan)
	}
	if len(p.Streams) == 0 {
		return fmt.Errorf("%w: at least one stream is required", domain.ErrInvalidPlan)
	}
	if s.limits.MaxStreams > 0 && len(p.Streams) > s.limits.MaxStreams {
		return fmt.Errorf("%w: %d streams exceeds the limit of %d", domain.ErrInvalidPlan, len(p.Streams), s.limits.MaxStreams)
	}
	if p.HorizonYears < 1 || (s.limits.MaxHorizonYears > 0 && p.HorizonYears > s.limits.MaxHorizonYears) {
		return fmt.Errorf("%w: horizon of %d years is out of range", domain.ErrInvalidHorizon, p.HorizonYears)
	}
	if err := p.Policy.Validate(); err != nil {
		return fmt.Errorf("%w: step-up: %w", domain.ErrInvalidPlan, err)
	}
	for i, st := range p.Streams {
		if err := st.Validate(); err != nil {
			return fmt.Errorf("%w: stream %d (%s): %w", domain.ErrInvalidPlan, i, st.CategoryID, err)
		}
	}
	return nil
}

// Create validates and stores a plan.
func (s *Service) Create(ctx context.Context, p Plan) (Plan, error) {
	if err := s.Validate(p); err != nil {
		return Plan{}, err
	}
	created, err := s.repo.Create(ctx, p)
	if err != nil {
		return Plan{}, err
	}
	slog.Info("plan created", "id", created.ID, "name", created.Name, "streams", len(created.Streams))
	return created, nil
}

// Get retrieves a plan by id.
func (s *Service) Get(ctx context.Context, id int64) (Plan, error) {
	return s.repo.Get(ctx, id)
}

// List retrieves up to limit plans.
func (s *Service) List(ctx context.Context, limit int) ([]Plan, error) {
	return s.repo.List(ctx, limit)
}

// Delete removes a plan.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	slog.Info("plan deleted", "id", id)
	return nil
}

// Project loads a plan and projects it.
func (s *Service) Project(ctx context.Context, id int64) (Projection, error) {
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return Projection{}, err
	}
	return s.project(p)
}

func (s *Service) project(p Plan) (Projection, error) {
	pf, err := s.projector.Project(p.Streams, p.Policy, p.HorizonYears)
	if err != nil {
		return Projection{}, fmt.Errorf("projecting plan %d: %w", p.ID, err)
	}
	return Projection{Plan: p, Portfolio: pf}, nil
}

// ProjectAll projects every stored plan concurrently. Results keep the repository order.
func (s *Service) ProjectAll(ctx context.Context) ([]Projection, error) {
	plans, err := s.repo.List(ctx, 0)
	if err != nil {
		return nil, fmt.Errorf("listing plans: %w", err)
	}

	results := make([]Projection, len(plans))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, p := range plans {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			r, err := s.project(p)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
