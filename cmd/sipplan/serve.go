package main

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"log"
	"log/slog"
	"net/http"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/mtlprog/sipplan/internal/api"
	"github.com/mtlprog/sipplan/internal/config"
	"github.com/mtlprog/sipplan/internal/database"
	"github.com/mtlprog/sipplan/internal/export"
	"github.com/mtlprog/sipplan/internal/goal"
	"github.com/mtlprog/sipplan/internal/plan"
	"github.com/mtlprog/sipplan/internal/portfolio"
	"github.com/mtlprog/sipplan/internal/worker"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

func serveCommand(cfg config.Config) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "run the HTTP API and background review worker",
		Action: func(c *cli.Context) error {
			return serve(c.Context, cfg)
		},
	}
}

func serve(ctx context.Context, cfg config.Config) error {
	ctx, stop := context.WithCancel(ctx)
	defer stop()

	projector := portfolio.NewService(cfg.ProjectionCacheTTL)
	if cfg.ProjectionCacheTTL > 0 {
		go worker.NewCacheJanitor(projector, cfg.ProjectionCacheTTL).Run(ctx)
	}

	var (
		planSvc *plan.Service
		goalSvc *goal.Service
	)
	if cfg.DatabaseURL == "" {
		slog.Warn("DATABASE_URL not set, serving stateless projections only")
	} else {
		pool, err := database.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("connecting to database: %w", err)
		}
		defer pool.Close()

		migrationsSub, err := fs.Sub(migrationsFS, "migrations")
		if err != nil {
			return fmt.Errorf("creating migrations sub-fs: %w", err)
		}
		if err := database.RunMigrations(ctx, pool, migrationsSub); err != nil {
			return fmt.Errorf("running migrations: %w", err)
		}

		planSvc = plan.NewService(plan.NewPgRepository(pool), projector,
			plan.Limits{MaxStreams: cfg.MaxStreams, MaxHorizonYears: cfg.MaxHorizonYears},
			cfg.ProjectionWorkers)
		goalSvc = goal.NewService(goal.NewPgRepository(pool))

		var hook worker.AfterReviewHook
		if cfg.GoogleSheetsID != "" && cfg.GoogleCredentialsJSON != "" {
			writer, err := export.NewSheetsWriter(ctx, cfg.GoogleSheetsID, cfg.GoogleCredentialsJSON)
			if err != nil {
				return fmt.Errorf("creating sheets writer: %w", err)
			}
			hook = export.NewService(writer)
		} else {
			slog.Info("Google Sheets export disabled")
		}

		go worker.NewReviewWorker(goalSvc, planSvc, cfg.ReviewWorkerInterval, hook).Run(ctx)
	}

	if cfg.AdminAPIKey == "" {
		slog.Warn("ADMIN_API_KEY not set, plan and goal mutations are unprotected")
	}

	handler := api.NewHandler(projector, planSvc, goalSvc, api.Defaults{
		StepUp:          cfg.DefaultStepUp,
		MaxHorizonYears: cfg.MaxHorizonYears,
		MaxStreams:      cfg.MaxStreams,
	})
	srv := api.NewServer(cfg.HTTPPort, handler, cfg.AdminAPIKey)

	go func() {
		log.Printf("HTTP server listening on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("HTTP server error: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	log.Println("Shutdown complete")
	return nil
}
