package domain

import (
	"fmt"
	"math"
	"strings"
)

// Frequency controls how often a step-up is applied to a contribution.
type Frequency string

const (
	FrequencyYearly     Frequency = "yearly"
	FrequencyHalfYearly Frequency = "half_yearly"
)

// IntervalMonths returns the number of months between step-ups.
func (f Frequency) IntervalMonths() (int, error) {
	switch f {
	case FrequencyYearly:
		return 12, nil
	case FrequencyHalfYearly:
		return 6, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidFrequency, string(f))
	}
}

// ParseFrequency accepts the canonical names plus the common spellings used by forms.
func ParseFrequency(s string) (Frequency, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yearly", "annual", "annually":
		return FrequencyYearly, nil
	case "half_yearly", "half-yearly", "halfyearly", "semiannual":
		return FrequencyHalfYearly, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidFrequency, s)
	}
}

// StepUpPolicy describes how the nominal contribution grows over time.
type StepUpPolicy struct {
	StepUpPercent float64   `json:"stepUpPercent"`
	Frequency     Frequency `json:"frequency"`
}

// Multiplier returns the factor applied to the contribution at each step-up.
func (p StepUpPolicy) Multiplier() float64 {
	return 1 + p.StepUpPercent/100
}

// Validate checks that the policy can be applied.
func (p StepUpPolicy) Validate() error {
	if math.IsNaN(p.StepUpPercent) || math.IsInf(p.StepUpPercent, 0) {
		return fmt.Errorf("step-up percent: %w", ErrNonFiniteRate)
	}
	if _, err := p.Frequency.IntervalMonths(); err != nil {
		return err
	}
	return nil
}

// ContributionStream is one recurring monthly investment.
type ContributionStream struct {
	CategoryID              CategoryID `json:"categoryId"`
	MonthlyAmount           float64    `json:"monthlyAmount"`
	AnnualReturnRatePercent float64    `json:"annualReturnRatePercent"`
}

// Validate checks the stream's amount and rate.
func (s ContributionStream) Validate() error {
	if math.IsNaN(s.MonthlyAmount) || math.IsInf(s.MonthlyAmount, 0) {
		return fmt.Errorf("monthly amount: %w", ErrNonFiniteRate)
	}
	if s.MonthlyAmount < 0 {
		return ErrNegativeContribution
	}
	_, err := MonthlyRate(s.AnnualReturnRatePercent)
	return err
}

// MonthlyRate converts an annual percentage to the simple monthly rate used by every
// projection: annual / 12 / 100.
func MonthlyRate(annualPercent float64) (float64, error) {
	if math.IsNaN(annualPercent) || math.IsInf(annualPercent, 0) {
		return 0, ErrNonFiniteRate
	}
	r := annualPercent / 12 / 100
	if r == -1 {
		return 0, ErrDegenerateRate
	}
	return r, nil
}
