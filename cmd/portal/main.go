package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Black-And-White-Club/fivem-portal/app"
	userdb "github.com/Black-And-White-Club/fivem-portal/app/modules/user/infrastructure/repositories"
	"github.com/Black-And-White-Club/fivem-portal/app/shared/observability"
	"github.com/Black-And-White-Club/fivem-portal/app/shared/observability/attr"
	"github.com/Black-And-White-Club/fivem-portal/config"
	"github.com/Black-And-White-Club/fivem-portal/db/bundb"
	"github.com/urfave/cli/v2"
)

func main() {
	cliApp := &cli.App{
		Name:  "portal",
		Usage: "FiveM community portal",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Value:   "config.yaml",
				Usage:   "path to the configuration file",
				EnvVars: []string{"PORTAL_CONFIG"},
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run the HTTP server, background jobs and Discord sync",
				Action: serve,
			},
			{
				Name:   "prune-sessions",
				Usage:  "delete expired and revoked sessions once and exit",
				Action: pruneSessions,
			},
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func serve(c *cli.Context) error {
	ctx, cancel := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	obs := observability.New(cfg.Observability)
	logger := obs.Logger
	logger.Info("Starting portal", attr.String("addr", cfg.HTTP.Addr))

	portal, err := app.NewApp(ctx, cfg, obs)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	runErr := portal.Run(ctx)
	if runErr != nil {
		logger.Error("Portal stopped with error", attr.Error(runErr))
	}

	logger.Info("Shutting down portal")
	portal.Close()
	logger.Info("Graceful shutdown complete")
	return runErr
}

func pruneSessions(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	logger := observability.New(cfg.Observability).Logger

	ctx, cancel := context.WithTimeout(c.Context, time.Minute)
	defer cancel()

	db, err := bundb.NewPostgres(ctx, cfg.Postgres)
	if err != nil {
		return err
	}
	defer db.Close()

	n, err := userdb.NewRepository(db).DeleteExpiredSessions(ctx, db, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to prune sessions: %w", err)
	}
	logger.Info("Pruned sessions", attr.Int64("deleted", n))
	return nil
}
