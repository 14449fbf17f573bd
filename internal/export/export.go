// Package export writes goal reviews and plan projections to spreadsheets.
package export

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/samber/lo"

	"github.com/mtlprog/sipplan/internal/domain"
	"github.com/mtlprog/sipplan/internal/goal"
	"github.com/mtlprog/sipplan/internal/plan"
)

// Report is the outcome of one review run.
type Report struct {
	GeneratedAt time.Time
	Goals       []goal.Review
	Plans       []plan.Projection
}

// Rows holds the sheet-ready rows of a report.
type Rows struct {
	GeneratedAt time.Time
	Goals       [][]any
	Plans       [][]any
}

// SheetWriter writes report rows to a spreadsheet destination.
type SheetWriter interface {
	Write(ctx context.Context, rows Rows) error
}

// Service builds rows from a report and delegates writing to a SheetWriter.
type Service struct {
	writer SheetWriter
}

// NewService creates a new export Service.
func NewService(writer SheetWriter) *Service {
	return &Service{writer: writer}
}

// Export writes the report. Implements worker.AfterReviewHook.
func (s *Service) Export(ctx context.Context, report Report) error {
	rows := BuildRows(report)
	if err := s.writer.Write(ctx, rows); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	slog.Info("export: report written", "goals", len(report.Goals), "plans", len(report.Plans))
	return nil
}

var goalHeader = []any{
	"ID", "Name", "Target Date", "Target", "Current", "Monthly", "Return %",
	"Progress %", "Remaining", "Months Left", "Required SIP", "Projected", "On Track",
}

var planHeader = []any{
	"Plan ID", "Plan", "Years", "Category", "Streams",
	"Invested", "Final Value", "Gains", "Monthly (End)",
}

// BuildRows renders a report as GOALS and PLANS rows, each with a header row.
// Plans contribute one row per category followed by a TOTAL row.
func BuildRows(report Report) Rows {
	goals := append([][]any{goalHeader}, lo.Map(report.Goals, func(r goal.Review, _ int) []any {
		return goalRow(r)
	})...)

	plans := [][]any{planHeader}
	for _, p := range report.Plans {
		plans = append(plans, planRows(p)...)
	}

	return Rows{GeneratedAt: report.GeneratedAt, Goals: goals, Plans: plans}
}

func goalRow(r goal.Review) []any {
	g, s := r.Goal, r.Summary
	onTrack := "NO"
	if s.OnTrack {
		onTrack = "YES"
	}
	return []any{
		g.ID, g.Name, g.TargetDate.UTC().Format("2006-01-02"),
		money(g.TargetAmount), money(g.CurrentAmount), money(g.MonthlyContribution),
		g.ExpectedReturnsPercent,
		s.ProgressPercent, money(s.RemainingAmount), s.MonthsRemaining,
		money(s.RequiredMonthlySIP), money(s.ProjectedFinalAmount), onTrack,
	}
}

func planRows(p plan.Projection) [][]any {
	rows := make([][]any, 0, len(p.Portfolio.Categories)+1)
	for _, c := range p.Portfolio.Categories {
		rows = append(rows, []any{
			p.Plan.ID, p.Plan.Name, p.Portfolio.HorizonYears, c.DisplayName, c.StreamCount,
			money(c.TotalInvested), money(c.FinalValue), money(c.Gains), money(c.FinalMonthlyContribution),
		})
	}
	t := p.Portfolio.Total
	streams := lo.SumBy(p.Portfolio.Categories, func(c domain.CategoryTotal) int { return c.StreamCount })
	rows = append(rows, []any{
		p.Plan.ID, p.Plan.Name, p.Portfolio.HorizonYears, "TOTAL", streams,
		money(t.TotalInvested), money(t.FinalValue), money(t.Gains), money(t.FinalMonthlyContribution),
	})
	return rows
}

// money rounds an engine value to cents for a spreadsheet cell.
func money(v float64) float64 {
	return domain.Money(v).InexactFloat64()
}
