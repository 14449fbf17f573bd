package api

import (
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/mtlprog/sipplan/internal/domain"
	"github.com/mtlprog/sipplan/internal/goal"
	"github.com/mtlprog/sipplan/internal/plan"
)

type streamRequest struct {
	Category                string   `json:"category"`
	MonthlyAmount           float64  `json:"monthlyAmount"`
	AnnualReturnRatePercent *float64 `json:"annualReturnRatePercent,omitempty"`
}

type stepUpRequest struct {
	Percent   *float64 `json:"percent,omitempty"`
	Frequency string   `json:"frequency,omitempty"`
}

type projectionRequest struct {
	Streams      []streamRequest `json:"streams"`
	StepUp       *stepUpRequest  `json:"stepUp,omitempty"`
	HorizonYears int             `json:"horizonYears"`
}

type planRequest struct {
	Name string `json:"name"`
	projectionRequest
}

type goalRequest struct {
	Name                   string  `json:"name"`
	TargetAmount           float64 `json:"targetAmount"`
	CurrentAmount          float64 `json:"currentAmount"`
	TargetDate             string  `json:"targetDate"`
	MonthlyContribution    float64 `json:"monthlyContribution"`
	ExpectedReturnsPercent float64 `json:"expectedReturnsPercent"`
}

// Defaults fills in request fields the caller left out.
type Defaults struct {
	StepUp          domain.StepUpPolicy
	MaxHorizonYears int
	MaxStreams      int
}

// resolveStreams maps request streams to domain streams. A missing return rate takes
// the category's default, which fails for categories outside the table.
func resolveStreams(reqs []streamRequest) ([]domain.ContributionStream, error) {
	streams := make([]domain.ContributionStream, 0, len(reqs))
	for i, sr := range reqs {
		id := domain.CategoryID(strings.TrimSpace(sr.Category))
		if id == "" {
			return nil, fmt.Errorf("stream %d: %w: category is required", i, domain.ErrUnknownCategory)
		}
		s := domain.ContributionStream{CategoryID: id, MonthlyAmount: sr.MonthlyAmount}
		if sr.AnnualReturnRatePercent != nil {
			s.AnnualReturnRatePercent = *sr.AnnualReturnRatePercent
		} else {
			rate, err := domain.DefaultReturn(id)
			if err != nil {
				return nil, fmt.Errorf("stream %d: %w", i, err)
			}
			s.AnnualReturnRatePercent = rate
		}
		streams = append(streams, s)
	}
	return streams, nil
}

func resolveStepUp(req *stepUpRequest, defaults domain.StepUpPolicy) (domain.StepUpPolicy, error) {
	policy := defaults
	if req == nil {
		return policy, nil
	}
	if req.Percent != nil {
		policy.StepUpPercent = *req.Percent
	}
	if req.Frequency != "" {
		f, err := domain.ParseFrequency(req.Frequency)
		if err != nil {
			return domain.StepUpPolicy{}, err
		}
		policy.Frequency = f
	}
	return policy, nil
}

// resolve validates request bounds and returns the engine inputs.
func (req projectionRequest) resolve(d Defaults) ([]domain.ContributionStream, domain.StepUpPolicy, error) {
	if d.MaxStreams > 0 && len(req.Streams) > d.MaxStreams {
		return nil, domain.StepUpPolicy{}, fmt.Errorf("%w: %d streams exceeds the limit of %d", domain.ErrInvalidPlan, len(req.Streams), d.MaxStreams)
	}
	if req.HorizonYears < 0 || (d.MaxHorizonYears > 0 && req.HorizonYears > d.MaxHorizonYears) {
		return nil, domain.StepUpPolicy{}, fmt.Errorf("%w: horizon of %d years is out of range", domain.ErrInvalidHorizon, req.HorizonYears)
	}
	streams, err := resolveStreams(req.Streams)
	if err != nil {
		return nil, domain.StepUpPolicy{}, err
	}
	policy, err := resolveStepUp(req.StepUp, d.StepUp)
	if err != nil {
		return nil, domain.StepUpPolicy{}, err
	}
	return streams, policy, nil
}

// parseDate accepts a calendar date or an RFC 3339 timestamp.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: target date %q must be YYYY-MM-DD", domain.ErrInvalidGoal, s)
	}
	return t, nil
}

func (req goalRequest) toGoal() (domain.FinancialGoal, error) {
	date, err := parseDate(req.TargetDate)
	if err != nil {
		return domain.FinancialGoal{}, err
	}
	return domain.FinancialGoal{
		Name:                   strings.TrimSpace(req.Name),
		TargetAmount:           req.TargetAmount,
		CurrentAmount:          req.CurrentAmount,
		TargetDate:             date,
		MonthlyContribution:    req.MonthlyContribution,
		ExpectedReturnsPercent: req.ExpectedReturnsPercent,
		Status:                 domain.GoalStatusActive,
	}, nil
}

type resultResponse struct {
	TotalInvested            decimal.Decimal `json:"totalInvested"`
	FinalValue               decimal.Decimal `json:"finalValue"`
	Gains                    decimal.Decimal `json:"gains"`
	FinalMonthlyContribution decimal.Decimal `json:"finalMonthlyContribution"`
}

type yearResponse struct {
	Year     int             `json:"year"`
	Invested decimal.Decimal `json:"invested"`
	Value    decimal.Decimal `json:"value"`
	Gains    decimal.Decimal `json:"gains"`
}

type categoryResponse struct {
	CategoryID  domain.CategoryID `json:"categoryId"`
	DisplayName string            `json:"displayName"`
	StreamCount int               `json:"streamCount"`
	resultResponse
}

type portfolioResponse struct {
	HorizonYears int                `json:"horizonYears"`
	StepUp       domain.StepUpPolicy `json:"stepUp"`
	Yearly       []yearResponse     `json:"yearly"`
	Categories   []categoryResponse `json:"categories"`
	Total        resultResponse     `json:"total"`
}

func newResultResponse(r domain.ProjectionResult) resultResponse {
	return resultResponse{
		TotalInvested:            domain.Money(r.TotalInvested),
		FinalValue:               domain.Money(r.FinalValue),
		Gains:                    domain.Money(r.Gains),
		FinalMonthlyContribution: domain.Money(r.FinalMonthlyContribution),
	}
}

func newPortfolioResponse(pf domain.Portfolio, policy domain.StepUpPolicy) portfolioResponse {
	return portfolioResponse{
		HorizonYears: pf.HorizonYears,
		StepUp:       policy,
		Yearly: lo.Map(pf.Yearly, func(p domain.YearPoint, _ int) yearResponse {
			return yearResponse{
				Year:     p.Year,
				Invested: domain.Money(p.Invested),
				Value:    domain.Money(p.Value),
				Gains:    domain.Money(p.Gains),
			}
		}),
		Categories: lo.Map(pf.Categories, func(c domain.CategoryTotal, _ int) categoryResponse {
			return categoryResponse{
				CategoryID:     c.CategoryID,
				DisplayName:    c.DisplayName,
				StreamCount:    c.StreamCount,
				resultResponse: newResultResponse(c.ProjectionResult),
			}
		}),
		Total: newResultResponse(pf.Total),
	}
}

type planProjectionResponse struct {
	Plan       plan.Plan         `json:"plan"`
	Projection portfolioResponse `json:"projection"`
}

type summaryResponse struct {
	ProgressPercent      int             `json:"progressPercent"`
	RemainingAmount      decimal.Decimal `json:"remainingAmount"`
	MonthsRemaining      int             `json:"monthsRemaining"`
	RequiredMonthlySIP   decimal.Decimal `json:"requiredMonthlySIP"`
	ProjectedFinalAmount decimal.Decimal `json:"projectedFinalAmount"`
	OnTrack              bool            `json:"onTrack"`
}

func newSummaryResponse(s domain.GoalSummary) summaryResponse {
	return summaryResponse{
		ProgressPercent:      s.ProgressPercent,
		RemainingAmount:      domain.Money(s.RemainingAmount),
		MonthsRemaining:      s.MonthsRemaining,
		RequiredMonthlySIP:   domain.Money(s.RequiredMonthlySIP),
		ProjectedFinalAmount: domain.Money(s.ProjectedFinalAmount),
		OnTrack:              s.OnTrack,
	}
}

type goalResponse struct {
	ID                     int64             `json:"id,omitempty"`
	Name                   string            `json:"name"`
	TargetAmount           decimal.Decimal   `json:"targetAmount"`
	CurrentAmount          decimal.Decimal   `json:"currentAmount"`
	TargetDate             string            `json:"targetDate"`
	MonthlyContribution    decimal.Decimal   `json:"monthlyContribution"`
	ExpectedReturnsPercent float64           `json:"expectedReturnsPercent"`
	Status                 domain.GoalStatus `json:"status"`
	AchievedDate           *time.Time        `json:"achievedDate,omitempty"`
	Summary                *summaryResponse  `json:"summary,omitempty"`
}

func newGoalResponse(g domain.FinancialGoal) goalResponse {
	return goalResponse{
		ID:                     g.ID,
		Name:                   g.Name,
		TargetAmount:           domain.Money(g.TargetAmount),
		CurrentAmount:          domain.Money(g.CurrentAmount),
		TargetDate:             g.TargetDate.UTC().Format(time.DateOnly),
		MonthlyContribution:    domain.Money(g.MonthlyContribution),
		ExpectedReturnsPercent: g.ExpectedReturnsPercent,
		Status:                 g.Status,
		AchievedDate:           g.AchievedDate,
	}
}

func newReviewResponse(r goal.Review) goalResponse {
	resp := newGoalResponse(r.Goal)
	s := newSummaryResponse(r.Summary)
	resp.Summary = &s
	return resp
}
