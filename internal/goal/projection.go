// Package goal projects financial goals: how much must be saved monthly to reach a
// target, and where the current contribution will land.
package goal

import (
	"math"
	"time"

	"github.com/mtlprog/sipplan/internal/domain"
)

// projectionMonth is the simplified month length used for goal deadlines.
const projectionMonth = 30 * 24 * time.Hour

// MonthsRemaining counts 30-day periods from now until targetDate, rounded up and
// floored at zero. Calendar month boundaries are deliberately ignored.
func MonthsRemaining(targetDate, now time.Time) int {
	diff := targetDate.Sub(now)
	if diff <= 0 {
		return 0
	}
	return int(math.Ceil(float64(diff) / float64(projectionMonth)))
}

// RemainingAmount is the amount still missing, never negative.
func RemainingAmount(g domain.FinancialGoal) float64 {
	return math.Max(g.TargetAmount-g.CurrentAmount, 0)
}

// annuityDueFactor is the future value of paying 1 at the start of each of n periods.
// A zero rate degenerates to n.
func annuityDueFactor(rate float64, n int) float64 {
	if rate == 0 {
		return float64(n)
	}
	return ((math.Pow(1+rate, float64(n)) - 1) / rate) * (1 + rate)
}

// RequiredContribution solves the annuity-due equation for the monthly payment that
// closes the remaining gap by the target date. It does not credit growth on the
// amount already saved.
func RequiredContribution(g domain.FinancialGoal, now time.Time) (float64, error) {
	months := MonthsRemaining(g.TargetDate, now)
	if months == 0 {
		return 0, nil
	}
	rate, err := domain.MonthlyRate(g.ExpectedReturnsPercent)
	if err != nil {
		return 0, err
	}
	return RemainingAmount(g) / annuityDueFactor(rate, months), nil
}

// RequiredSIP is RequiredContribution rounded to a whole currency unit.
func RequiredSIP(g domain.FinancialGoal, now time.Time) (float64, error) {
	p, err := RequiredContribution(g, now)
	if err != nil {
		return 0, err
	}
	return domain.RoundCurrency(p), nil
}

// ProjectedAmount grows the saved amount and the goal's current monthly contribution
// until the target date using the closed-form formulas, rounded to a whole unit.
func ProjectedAmount(g domain.FinancialGoal, now time.Time) (float64, error) {
	rate, err := domain.MonthlyRate(g.ExpectedReturnsPercent)
	if err != nil {
		return 0, err
	}
	months := MonthsRemaining(g.TargetDate, now)

	fromCurrent := g.CurrentAmount * math.Pow(1+rate, float64(months))
	fromContributions := g.MonthlyContribution * annuityDueFactor(rate, months)
	return domain.RoundCurrency(fromCurrent + fromContributions), nil
}

// Progress is the saved share of the target as a whole percentage in [0, 100].
func Progress(g domain.FinancialGoal) int {
	if g.TargetAmount <= 0 {
		return 100
	}
	pct := domain.RoundCurrency(g.CurrentAmount / g.TargetAmount * 100)
	if math.IsNaN(pct) {
		return 0
	}
	return int(min(max(pct, 0), 100))
}

// Evaluate derives every computed field of a goal at now.
func Evaluate(g domain.FinancialGoal, now time.Time) (domain.GoalSummary, error) {
	required, err := RequiredSIP(g, now)
	if err != nil {
		return domain.GoalSummary{}, err
	}
	projected, err := ProjectedAmount(g, now)
	if err != nil {
		return domain.GoalSummary{}, err
	}
	return domain.GoalSummary{
		ProgressPercent:      Progress(g),
		RemainingAmount:      RemainingAmount(g),
		MonthsRemaining:      MonthsRemaining(g.TargetDate, now),
		RequiredMonthlySIP:   required,
		ProjectedFinalAmount: projected,
		OnTrack:              projected >= g.TargetAmount,
	}, nil
}
