package domain

import (
	"fmt"
	"math"
	"time"
)

// GoalStatus is the lifecycle state of a financial goal.
type GoalStatus string

const (
	GoalStatusActive   GoalStatus = "active"
	GoalStatusAchieved GoalStatus = "achieved"
)

// FinancialGoal is a savings target with a deadline.
type FinancialGoal struct {
	ID                     int64      `json:"id"`
	Name                   string     `json:"name"`
	TargetAmount           float64    `json:"targetAmount"`
	CurrentAmount          float64    `json:"currentAmount"`
	TargetDate             time.Time  `json:"targetDate"`
	MonthlyContribution    float64    `json:"monthlyContribution"`
	ExpectedReturnsPercent float64    `json:"expectedReturnsPercent"`
	Status                 GoalStatus `json:"status"`
	AchievedDate           *time.Time `json:"achievedDate,omitempty"`
	CreatedAt              time.Time  `json:"createdAt"`
}

// Validate enforces the creation-time rules. The projection functions themselves
// tolerate goals that break them.
func (g FinancialGoal) Validate(now time.Time) error {
	if g.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidGoal)
	}
	fields := []struct {
		name  string
		value float64
	}{
		{"target amount", g.TargetAmount},
		{"current amount", g.CurrentAmount},
		{"monthly contribution", g.MonthlyContribution},
	}
	for _, f := range fields {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return fmt.Errorf("%w: %s must be finite", ErrInvalidGoal, f.name)
		}
	}
	if g.TargetAmount <= 0 {
		return fmt.Errorf("%w: target amount must be positive", ErrInvalidGoal)
	}
	if g.CurrentAmount < 0 || g.CurrentAmount > g.TargetAmount {
		return fmt.Errorf("%w: current amount must be between 0 and the target", ErrInvalidGoal)
	}
	if g.MonthlyContribution < 0 {
		return fmt.Errorf("%w: %w", ErrInvalidGoal, ErrNegativeContribution)
	}
	if !g.TargetDate.After(now) {
		return fmt.Errorf("%w: target date must be in the future", ErrInvalidGoal)
	}
	if _, err := MonthlyRate(g.ExpectedReturnsPercent); err != nil {
		return fmt.Errorf("%w: expected returns: %w", ErrInvalidGoal, err)
	}
	return nil
}

// MarkAchieved moves an active goal to achieved and records when.
func (g *FinancialGoal) MarkAchieved(at time.Time) error {
	if g.Status == GoalStatusAchieved {
		return ErrGoalAchieved
	}
	g.Status = GoalStatusAchieved
	g.AchievedDate = &at
	return nil
}

// GoalSummary holds the values derived from a goal at a point in time. They are never stored.
type GoalSummary struct {
	ProgressPercent      int     `json:"progressPercent"`
	RemainingAmount      float64 `json:"remainingAmount"`
	MonthsRemaining      int     `json:"monthsRemaining"`
	RequiredMonthlySIP   float64 `json:"requiredMonthlySIP"`
	ProjectedFinalAmount float64 `json:"projectedFinalAmount"`
	OnTrack              bool    `json:"onTrack"`
}
