package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/urfave/cli/v2"

	"github.com/mtlprog/sipplan/internal/chart"
	"github.com/mtlprog/sipplan/internal/config"
	"github.com/mtlprog/sipplan/internal/domain"
	"github.com/mtlprog/sipplan/internal/export"
	"github.com/mtlprog/sipplan/internal/portfolio"
)

func projectionFlags(cfg config.Config) []cli.Flag {
	return []cli.Flag{
		&cli.StringSliceFlag{
			Name:     "stream",
			Aliases:  []string{"s"},
			Usage:    "contribution stream as category:amount[:annual rate %], repeatable",
			Required: true,
		},
		&cli.Float64Flag{
			Name:  "step-up",
			Usage: "step-up percent applied at each interval",
			Value: cfg.DefaultStepUp.StepUpPercent,
		},
		&cli.StringFlag{
			Name:  "frequency",
			Usage: "step-up frequency: yearly or half_yearly",
			Value: string(cfg.DefaultStepUp.Frequency),
		},
		&cli.IntFlag{
			Name:  "years",
			Usage: "projection horizon in years",
			Value: 10,
		},
	}
}

// projectionInputs parses the shared projection flags.
func projectionInputs(c *cli.Context, cfg config.Config) ([]domain.ContributionStream, domain.StepUpPolicy, int, error) {
	streams, err := parseStreams(c.StringSlice("stream"))
	if err != nil {
		return nil, domain.StepUpPolicy{}, 0, err
	}
	freq, err := domain.ParseFrequency(c.String("frequency"))
	if err != nil {
		return nil, domain.StepUpPolicy{}, 0, err
	}
	years := c.Int("years")
	if years > cfg.MaxHorizonYears {
		return nil, domain.StepUpPolicy{}, 0, fmt.Errorf("%w: %d years exceeds the limit of %d", domain.ErrInvalidHorizon, years, cfg.MaxHorizonYears)
	}
	return streams, domain.StepUpPolicy{StepUpPercent: c.Float64("step-up"), Frequency: freq}, years, nil
}

func projectCommand(cfg config.Config) *cli.Command {
	return &cli.Command{
		Name:      "project",
		Usage:     "project a set of step-up SIP streams",
		UsageText: "sipplan project -s large_cap:3000:12 -s debt:1000 --step-up 10 --years 15",
		Flags: append(projectionFlags(cfg), &cli.StringFlag{
			Name:  "xlsx",
			Usage: "also write the projection workbook to this path",
		}),
		Action: func(c *cli.Context) error {
			streams, policy, years, err := projectionInputs(c, cfg)
			if err != nil {
				return err
			}
			pf, err := portfolio.Aggregate(streams, policy, years)
			if err != nil {
				return err
			}
			if err := printPortfolio(c.App.Writer, pf); err != nil {
				return err
			}

			if path := c.String("xlsx"); path != "" {
				f, err := os.Create(path)
				if err != nil {
					return fmt.Errorf("creating %s: %w", path, err)
				}
				defer f.Close()
				if err := export.WritePortfolioXLSX(f, pf); err != nil {
					return err
				}
				slog.Info("workbook written", "path", path)
			}
			return nil
		},
	}
}

func chartCommand(cfg config.Config) *cli.Command {
	return &cli.Command{
		Name:  "chart",
		Usage: "render the yearly projection as a PNG line chart",
		Flags: append(projectionFlags(cfg),
			&cli.StringFlag{Name: "out", Usage: "output PNG path", Value: "growth.png"},
			&cli.StringFlag{Name: "title", Usage: "chart title"},
		),
		Action: func(c *cli.Context) error {
			streams, policy, years, err := projectionInputs(c, cfg)
			if err != nil {
				return err
			}
			pf, err := portfolio.Aggregate(streams, policy, years)
			if err != nil {
				return err
			}
			png, err := chart.RenderGrowth(c.String("title"), pf.Yearly)
			if err != nil {
				return err
			}
			out := c.String("out")
			if err := os.WriteFile(out, png, 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", out, err)
			}
			slog.Info("chart written", "path", out, "years", years)
			return nil
		},
	}
}

// parseStreams parses category:amount[:rate] values. Without a rate the category's
// default return is used.
func parseStreams(values []string) ([]domain.ContributionStream, error) {
	streams := make([]domain.ContributionStream, 0, len(values))
	for _, v := range values {
		parts := strings.Split(v, ":")
		if len(parts) < 2 || len(parts) > 3 {
			return nil, fmt.Errorf("stream %q: want category:amount[:rate]", v)
		}

		id := domain.CategoryID(strings.TrimSpace(parts[0]))
		amount, err := domain.ParseAmount(parts[1])
		if err != nil {
			return nil, fmt.Errorf("stream %q: %w", v, err)
		}

		var rate float64
		if len(parts) == 3 {
			if rate, err = domain.ParseAmount(parts[2]); err != nil {
				return nil, fmt.Errorf("stream %q: rate: %w", v, err)
			}
		} else if rate, err = domain.DefaultReturn(id); err != nil {
			return nil, fmt.Errorf("stream %q: %w", v, err)
		}

		streams = append(streams, domain.ContributionStream{
			CategoryID:              id,
			MonthlyAmount:           amount,
			AnnualReturnRatePercent: rate,
		})
	}
	return streams, nil
}

func printPortfolio(w io.Writer, pf domain.Portfolio) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)

	fmt.Fprintln(tw, "Year\tInvested\tValue\tGains\t")
	for _, p := range pf.Yearly {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t\n", p.Year,
			domain.Money(p.Invested).StringFixed(2), domain.Money(p.Value).StringFixed(2), domain.Money(p.Gains).StringFixed(2))
	}
	fmt.Fprintln(tw, "\t\t\t\t")

	fmt.Fprintln(tw, "Category\tStreams\tInvested\tFinal Value\tGains\tMonthly (End)\t")
	for _, c := range pf.Categories {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\t%s\t\n", c.DisplayName, c.StreamCount,
			domain.Money(c.TotalInvested).StringFixed(2), domain.Money(c.FinalValue).StringFixed(2),
			domain.Money(c.Gains).StringFixed(2), domain.Money(c.FinalMonthlyContribution).StringFixed(2))
	}
	t := pf.Total
	fmt.Fprintf(tw, "TOTAL\t\t%s\t%s\t%s\t%s\t\n",
		domain.Money(t.TotalInvested).StringFixed(2), domain.Money(t.FinalValue).StringFixed(2),
		domain.Money(t.Gains).StringFixed(2), domain.Money(t.FinalMonthlyContribution).StringFixed(2))

	return tw.Flush()
}
