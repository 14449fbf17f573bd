package goal

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mtlprog/sipplan/internal/domain"
)

type mockRepo struct {
	goals     map[int64]domain.FinancialGoal
	nextID    int64
	createErr error
	listErr   error
	updateErr error
	listed    domain.GoalStatus
	updated   []domain.FinancialGoal
}

func newMockRepo(goals ...domain.FinancialGoal) *mockRepo {
	m := &mockRepo{goals: make(map[int64]domain.FinancialGoal), nextID: 1}
	for _, g := range goals {
		m.goals[g.ID] = g
		if g.ID >= m.nextID {
			m.nextID = g.ID + 1
		}
	}
	return m
}

func (m *mockRepo) Create(_ context.Context, g domain.FinancialGoal) (domain.FinancialGoal, error) {
	if m.createErr != nil {
		return domain.FinancialGoal{}, m.createErr
	}
	g.ID = m.nextID
	m.nextID++
	m.goals[g.ID] = g
	return g, nil
}

func (m *mockRepo) Get(_ context.Context, id int64) (domain.FinancialGoal, error) {
	g, ok := m.goals[id]
	if !ok {
		return domain.FinancialGoal{}, domain.ErrNotFound
	}
	return g, nil
}

func (m *mockRepo) List(_ context.Context, status domain.GoalStatus) ([]domain.FinancialGoal, error) {
	m.listed = status
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []domain.FinancialGoal
	for id := int64(1); id < m.nextID; id++ {
		g, ok := m.goals[id]
		if ok && (status == "" || g.Status == status) {
			out = append(out, g)
		}
	}
	return out, nil
}

func (m *mockRepo) Update(_ context.Context, g domain.FinancialGoal) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.goals[g.ID] = g
	m.updated = append(m.updated, g)
	return nil
}

func TestServiceCreate(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)

	g := testGoal()
	g.Status = domain.GoalStatusAchieved
	created, err := svc.Create(context.Background(), g, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.ID != 1 {
		t.Errorf("ID = %d, want 1", created.ID)
	}
	if created.Status != domain.GoalStatusActive {
		t.Errorf("Status = %q, want active", created.Status)
	}
}

func TestServiceCreateValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(g *domain.FinancialGoal)
	}{
		{"missing name", func(g *domain.FinancialGoal) { g.Name = "" }},
		{"zero target", func(g *domain.FinancialGoal) { g.TargetAmount = 0 }},
		{"current above target", func(g *domain.FinancialGoal) { g.CurrentAmount = 2e6 }},
		{"negative contribution", func(g *domain.FinancialGoal) { g.MonthlyContribution = -1 }},
		{"past date", func(g *domain.FinancialGoal) { g.TargetDate = now.AddDate(0, 0, -1) }},
		{"degenerate rate", func(g *domain.FinancialGoal) { g.ExpectedReturnsPercent = -1200 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newMockRepo()
			svc := NewService(repo)

			g := testGoal()
			tt.mutate(&g)
			_, err := svc.Create(context.Background(), g, now)
			if !errors.Is(err, domain.ErrInvalidGoal) {
				t.Fatalf("err = %v, want ErrInvalidGoal", err)
			}
			if len(repo.goals) != 0 {
				t.Error("invalid goal should not be stored")
			}
		})
	}
}

func TestServiceCreateRepoError(t *testing.T) {
	repo := newMockRepo()
	repo.createErr = errors.New("db down")
	svc := NewService(repo)

	if _, err := svc.Create(context.Background(), testGoal(), now); err == nil {
		t.Fatal("expected repo error")
	}
}

func TestServiceGet(t *testing.T) {
	g := testGoal()
	g.ID = 7
	svc := NewService(newMockRepo(g))

	r, err := svc.Get(context.Background(), 7, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Summary.RequiredMonthlySIP != 4304 {
		t.Errorf("RequiredMonthlySIP = %v, want 4304", r.Summary.RequiredMonthlySIP)
	}

	if _, err := svc.Get(context.Background(), 99, now); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestServiceAchieve(t *testing.T) {
	g := testGoal()
	g.ID = 3
	repo := newMockRepo(g)
	svc := NewService(repo)

	at := now.Add(48 * time.Hour)
	achieved, err := svc.Achieve(context.Background(), 3, at)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if achieved.Status != domain.GoalStatusAchieved {
		t.Errorf("Status = %q, want achieved", achieved.Status)
	}
	if achieved.AchievedDate == nil || !achieved.AchievedDate.Equal(at) {
		t.Errorf("AchievedDate = %v, want %v", achieved.AchievedDate, at)
	}
	if len(repo.updated) != 1 {
		t.Fatalf("updates = %d, want 1", len(repo.updated))
	}

	_, err = svc.Achieve(context.Background(), 3, at)
	if !errors.Is(err, domain.ErrGoalAchieved) {
		t.Errorf("second achieve err = %v, want ErrGoalAchieved", err)
	}
	if len(repo.updated) != 1 {
		t.Error("second achieve should not write")
	}
}

func TestServiceAchieveNotFound(t *testing.T) {
	svc := NewService(newMockRepo())
	if _, err := svc.Achieve(context.Background(), 1, now); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestServiceReview(t *testing.T) {
	active := testGoal()
	active.ID = 1

	broken := testGoal()
	broken.ID = 2
	broken.ExpectedReturnsPercent = -1200

	done := testGoal()
	done.ID = 3
	done.Status = domain.GoalStatusAchieved

	repo := newMockRepo(active, broken, done)
	svc := NewService(repo)

	reviews, err := svc.Review(context.Background(), now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.listed != domain.GoalStatusActive {
		t.Errorf("listed status = %q, want active", repo.listed)
	}
	if len(reviews) != 1 {
		t.Fatalf("reviews = %d, want 1", len(reviews))
	}
	if reviews[0].Goal.ID != 1 || reviews[0].Summary.MonthsRemaining != 120 {
		t.Errorf("review = %+v", reviews[0])
	}
}

func TestServiceReviewListError(t *testing.T) {
	repo := newMockRepo()
	repo.listErr = errors.New("db down")
	if _, err := NewService(repo).Review(context.Background(), now); err == nil {
		t.Fatal("expected error")
	}
}
