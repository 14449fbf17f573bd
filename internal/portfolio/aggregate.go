// Package portfolio aggregates the projections of many contribution streams.
package portfolio

import (
	"fmt"

	"github.com/samber/lo"

	"github.com/mtlprog/sipplan/internal/domain"
	"github.com/mtlprog/sipplan/internal/growth"
)

type projectFunc func(domain.ContributionStream, domain.StepUpPolicy, int) (domain.ProjectionResult, error)

// Aggregate projects every stream over 1..horizonYears for the growth series, and over
// the full horizon for the per-category and grand totals.
func Aggregate(streams []domain.ContributionStream, policy domain.StepUpPolicy, horizonYears int) (domain.Portfolio, error) {
	return aggregate(growth.ProjectStepUpSIP, streams, policy, horizonYears)
}

// aggregate accumulates sequentially in stream order so that float sums are reproducible.
func aggregate(project projectFunc, streams []domain.ContributionStream, policy domain.StepUpPolicy, horizonYears int) (domain.Portfolio, error) {
	if horizonYears < 0 {
		return domain.Portfolio{}, fmt.Errorf("%w: %d years", domain.ErrInvalidHorizon, horizonYears)
	}
	if err := policy.Validate(); err != nil {
		return domain.Portfolio{}, err
	}

	yearly := make([]domain.YearPoint, horizonYears)
	for i := range yearly {
		yearly[i].Year = i + 1
	}

	byCategory := make(map[domain.CategoryID]domain.ProjectionResult)
	counts := make(map[domain.CategoryID]int)
	var order []domain.CategoryID

	for i, s := range streams {
		for year := 1; year <= horizonYears; year++ {
			r, err := project(s, policy, year*12)
			if err != nil {
				return domain.Portfolio{}, fmt.Errorf("stream %d (%s): %w", i, s.CategoryID, err)
			}
			yearly[year-1].Invested += r.TotalInvested
			yearly[year-1].Value += r.FinalValue
		}

		full, err := project(s, policy, horizonYears*12)
		if err != nil {
			return domain.Portfolio{}, fmt.Errorf("stream %d (%s): %w", i, s.CategoryID, err)
		}
		if _, seen := byCategory[s.CategoryID]; !seen {
			order = append(order, s.CategoryID)
		}
		byCategory[s.CategoryID] = byCategory[s.CategoryID].Plus(full)
		counts[s.CategoryID]++
	}

	for i := range yearly {
		yearly[i].Gains = yearly[i].Value - yearly[i].Invested
	}

	categories := lo.Map(order, func(id domain.CategoryID, _ int) domain.CategoryTotal {
		return domain.CategoryTotal{
			CategoryID:       id,
			DisplayName:      displayName(id),
			StreamCount:      counts[id],
			ProjectionResult: byCategory[id],
		}
	})

	total := lo.Reduce(categories, func(acc domain.ProjectionResult, c domain.CategoryTotal, _ int) domain.ProjectionResult {
		return acc.Plus(c.ProjectionResult)
	}, domain.ProjectionResult{})

	return domain.Portfolio{
		HorizonYears: horizonYears,
		Yearly:       yearly,
		ByCategory:   byCategory,
		Categories:   categories,
		Total:        total,
	}, nil
}

func displayName(id domain.CategoryID) string {
	if c, ok := domain.CategoryByID(id); ok {
		return c.DisplayName
	}
	return string(id)
}
