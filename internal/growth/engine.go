// Package growth projects a monthly contribution stream with periodic step-ups.
package growth

import (
	"fmt"
	"math"

	"github.com/mtlprog/sipplan/internal/domain"
)

// ProjectStepUpSIP simulates horizonMonths of contributions month by month.
//
// Each month the contribution is added before that month's interest is applied, and the
// contribution is stepped up after every interval month except the last one. The
// arithmetic is kept in this exact order so results are reproducible bit for bit.
func ProjectStepUpSIP(stream domain.ContributionStream, policy domain.StepUpPolicy, horizonMonths int) (domain.ProjectionResult, error) {
	if horizonMonths < 0 {
		return domain.ProjectionResult{}, fmt.Errorf("%w: %d", domain.ErrInvalidHorizon, horizonMonths)
	}
	if err := stream.Validate(); err != nil {
		return domain.ProjectionResult{}, err
	}
	if err := policy.Validate(); err != nil {
		return domain.ProjectionResult{}, err
	}
	if stream.MonthlyAmount == 0 || horizonMonths == 0 {
		return domain.ProjectionResult{}, nil
	}

	monthlyRate, _ := domain.MonthlyRate(stream.AnnualReturnRatePercent)
	interval, _ := policy.Frequency.IntervalMonths()

	totalInvested := 0.0
	futureValue := 0.0
	contribution := stream.MonthlyAmount

	for month := 1; month <= horizonMonths; month++ {
		totalInvested += contribution
		futureValue = (futureValue + contribution) * (1 + monthlyRate)

		if month%interval == 0 && month < horizonMonths {
			contribution *= 1 + policy.StepUpPercent/100
		}
	}

	return domain.ProjectionResult{
		TotalInvested:            totalInvested,
		FinalValue:               futureValue,
		Gains:                    futureValue - totalInvested,
		FinalMonthlyContribution: contribution,
	}, nil
}

// FinalContribution returns the contribution in force during the last month of the
// horizon without simulating it: one step-up per completed interval, none at the end.
func FinalContribution(monthlyAmount float64, policy domain.StepUpPolicy, horizonMonths int) (float64, error) {
	if horizonMonths < 0 {
		return 0, fmt.Errorf("%w: %d", domain.ErrInvalidHorizon, horizonMonths)
	}
	interval, err := policy.Frequency.IntervalMonths()
	if err != nil {
		return 0, err
	}
	if horizonMonths == 0 || monthlyAmount == 0 {
		return 0, nil
	}
	steps := (horizonMonths+interval-1)/interval - 1
	return monthlyAmount * math.Pow(policy.Multiplier(), float64(steps)), nil
}
