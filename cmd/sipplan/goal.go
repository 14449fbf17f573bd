package main

import (
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/mtlprog/sipplan/internal/domain"
	"github.com/mtlprog/sipplan/internal/goal"
)

func goalCommand() *cli.Command {
	return &cli.Command{
		Name:  "goal",
		Usage: "evaluate a savings goal",
		Flags: []cli.Flag{
			&cli.Float64Flag{Name: "target", Usage: "target amount", Required: true},
			&cli.Float64Flag{Name: "current", Usage: "amount already saved"},
			&cli.TimestampFlag{Name: "date", Usage: "target date", Layout: time.DateOnly, Required: true},
			&cli.Float64Flag{Name: "contribution", Usage: "current monthly contribution"},
			&cli.Float64Flag{Name: "rate", Usage: "expected annual return percent", Value: 12},
		},
		Action: func(c *cli.Context) error {
			g := domain.FinancialGoal{
				Name:                   "cli",
				TargetAmount:           c.Float64("target"),
				CurrentAmount:          c.Float64("current"),
				TargetDate:             *c.Timestamp("date"),
				MonthlyContribution:    c.Float64("contribution"),
				ExpectedReturnsPercent: c.Float64("rate"),
				Status:                 domain.GoalStatusActive,
			}
			s, err := goal.Evaluate(g, time.Now().UTC())
			if err != nil {
				return err
			}

			w := c.App.Writer
			fmt.Fprintf(w, "Progress:          %d%%\n", s.ProgressPercent)
			fmt.Fprintf(w, "Remaining:         %s\n", domain.Money(s.RemainingAmount).StringFixed(2))
			fmt.Fprintf(w, "Months remaining:  %d\n", s.MonthsRemaining)
			fmt.Fprintf(w, "Required SIP:      %s\n", domain.Money(s.RequiredMonthlySIP).StringFixed(0))
			fmt.Fprintf(w, "Projected amount:  %s\n", domain.Money(s.ProjectedFinalAmount).StringFixed(0))
			fmt.Fprintf(w, "On track:          %t\n", s.OnTrack)
			return nil
		},
	}
}
