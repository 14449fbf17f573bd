package plan

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/mtlprog/sipplan/internal/domain"
	"github.com/mtlprog/sipplan/internal/portfolio"
)

type mockRepo struct {
	plans     []Plan
	createErr error
	listErr   error
	deleted   []int64
}

func (m *mockRepo) Create(_ context.Context, p Plan) (Plan, error) {
	if m.createErr != nil {
		return Plan{}, m.createErr
	}
	p.ID = int64(len(m.plans) + 1)
	m.plans = append(m.plans, p)
	return p, nil
}

func (m *mockRepo) Get(_ context.Context, id int64) (Plan, error) {
	for _, p := range m.plans {
		if p.ID == id {
			return p, nil
		}
	}
	return Plan{}, domain.ErrNotFound
}

func (m *mockRepo) List(_ context.Context, limit int) ([]Plan, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	if limit > 0 && limit < len(m.plans) {
		return m.plans[:limit], nil
	}
	return m.plans, nil
}

func (m *mockRepo) Delete(_ context.Context, id int64) error {
	if _, err := m.Get(context.Background(), id); err != nil {
		return err
	}
	m.deleted = append(m.deleted, id)
	return nil
}

type countingProjector struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (c *countingProjector) Project(streams []domain.ContributionStream, policy domain.StepUpPolicy, years int) (domain.Portfolio, error) {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()
	if c.err != nil {
		return domain.Portfolio{}, c.err
	}
	return portfolio.Aggregate(streams, policy, years)
}

var limits = Limits{MaxStreams: 3, MaxHorizonYears: 40}

func validPlan() Plan {
	return Plan{
		Name: "Core",
		Streams: []domain.ContributionStream{
			{CategoryID: domain.CategoryLargeCap, MonthlyAmount: 3000, AnnualReturnRatePercent: 12},
		},
		Policy:       domain.StepUpPolicy{StepUpPercent: 10, Frequency: domain.FrequencyYearly},
		HorizonYears: 10,
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(p *Plan)
		wantErr error
	}{
		{"valid", func(p *Plan) {}, nil},
		{"missing name", func(p *Plan) { p.Name = "" }, domain.ErrInvalidPlan},
		{"no streams", func(p *Plan) { p.Streams = nil }, domain.ErrInvalidPlan},
		{"too many streams", func(p *Plan) {
			p.Streams = append(p.Streams, p.Streams[0], p.Streams[0], p.Streams[0])
		}, domain.ErrInvalidPlan},
		{"zero horizon", func(p *Plan) { p.HorizonYears = 0 }, domain.ErrInvalidHorizon},
		{"horizon over limit", func(p *Plan) { p.HorizonYears = 41 }, domain.ErrInvalidHorizon},
		{"bad frequency", func(p *Plan) { p.Policy.Frequency = "weekly" }, domain.ErrInvalidFrequency},
		{"negative amount", func(p *Plan) { p.Streams[0].MonthlyAmount = -5 }, domain.ErrNegativeContribution},
		{"degenerate rate", func(p *Plan) { p.Streams[0].AnnualReturnRatePercent = -1200 }, domain.ErrDegenerateRate},
	}

	svc := NewService(&mockRepo{}, &countingProjector{}, limits, 2)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validPlan()
			tt.mutate(&p)
			err := svc.Validate(p)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
			if !domain.IsValidation(err) {
				t.Errorf("err = %v should be a validation error", err)
			}
		})
	}
}

func TestCreate(t *testing.T) {
	repo := &mockRepo{}
	svc := NewService(repo, &countingProjector{}, limits, 2)

	created, err := svc.Create(context.Background(), validPlan())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.ID != 1 || len(repo.plans) != 1 {
		t.Errorf("created = %+v, stored %d", created, len(repo.plans))
	}

	if _, err := svc.Create(context.Background(), Plan{}); err == nil {
		t.Error("expected validation error")
	}
	if len(repo.plans) != 1 {
		t.Error("invalid plan should not be stored")
	}
}

func TestProject(t *testing.T) {
	repo := &mockRepo{}
	svc := NewService(repo, &countingProjector{}, limits, 2)
	p, _ := svc.Create(context.Background(), validPlan())

	got, err := svc.Project(context.Background(), p.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Portfolio.Total.FinalValue != 1012297.8792532523 {
		t.Errorf("FinalValue = %v, want 1012297.8792532523", got.Portfolio.Total.FinalValue)
	}
	if len(got.Portfolio.Yearly) != 10 {
		t.Errorf("yearly points = %d, want 10", len(got.Portfolio.Yearly))
	}

	if _, err := svc.Project(context.Background(), 42); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestProjectAllKeepsOrder(t *testing.T) {
	repo := &mockRepo{}
	proj := &countingProjector{}
	svc := NewService(repo, proj, Limits{}, 3)

	for i := 1; i <= 8; i++ {
		p := validPlan()
		p.HorizonYears = i
		if _, err := svc.Create(context.Background(), p); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	results, err := svc.ProjectAll(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 8 {
		t.Fatalf("results = %d, want 8", len(results))
	}
	for i, r := range results {
		if r.Plan.ID != int64(i+1) || len(r.Portfolio.Yearly) != i+1 {
			t.Errorf("result %d: plan %d with %d years", i, r.Plan.ID, len(r.Portfolio.Yearly))
		}
	}
	if proj.calls != 8 {
		t.Errorf("projector calls = %d, want 8", proj.calls)
	}
}

func TestProjectAllErrors(t *testing.T) {
	repo := &mockRepo{}
	svc := NewService(repo, &countingProjector{err: errors.New("boom")}, limits, 2)
	_, _ = svc.Create(context.Background(), validPlan())

	if _, err := svc.ProjectAll(context.Background()); err == nil {
		t.Error("expected projector error")
	}

	repo.listErr = errors.New("db down")
	if _, err := svc.ProjectAll(context.Background()); err == nil {
		t.Error("expected list error")
	}
}

func TestProjectAllEmpty(t *testing.T) {
	svc := NewService(&mockRepo{}, &countingProjector{}, limits, 0)
	results, err := svc.ProjectAll(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("results = %d, want 0", len(results))
	}
}

func TestDelete(t *testing.T) {
	repo := &mockRepo{}
	svc := NewService(repo, &countingProjector{}, limits, 1)
	p, _ := svc.Create(context.Background(), validPlan())

	if err := svc.Delete(context.Background(), p.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.Delete(context.Background(), 99); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}
