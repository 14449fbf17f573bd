package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/mtlprog/sipplan/internal/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	slog.SetLogLoggerLevel(cfg.LogLevel)

	app := &cli.App{
		Name:                      "sipplan",
		Usage:                     "step-up SIP projections, saved plans and goal tracking",
		DisableSliceFlagSeparator: true,
		Commands: []*cli.Command{
			serveCommand(cfg),
			projectCommand(cfg),
			chartCommand(cfg),
			goalCommand(),
		},
	}

	if err := app.RunContext(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}
