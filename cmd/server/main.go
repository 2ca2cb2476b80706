package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"hrportal/internal/app/server"
	"hrportal/internal/platform/config"
	"hrportal/internal/platform/db"
	"hrportal/internal/platform/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := &cli.Command{
		Name:  "hrportal",
		Usage: "HR portal API with KPI and appraisal record updates",
		Commands: []*cli.Command{
			serveCommand(),
			migrateCommand(),
			seedCommand(),
			maintenanceCommand(),
		},
		Action: func(ctx context.Context, _ *cli.Command) error {
			return serve(ctx)
		},
	}

	if err := root.Run(ctx, os.Args); err != nil {
		slog.Error("hrportal failed", "err", err)
		os.Exit(1)
	}
}

func loadConfig() (config.Config, error) {
	cfg := config.Load()
	logging.Setup(os.Stdout, cfg.LogLevel)
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the HTTP API",
		Action: func(ctx context.Context, _ *cli.Command) error {
			return serve(ctx)
		},
	}
}

func serve(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	app, err := server.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer app.Close()
	return app.Run(ctx)
}

func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Apply pending database migrations",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "status", Usage: "print the current schema version and exit"},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			pool, err := db.Connect(ctx, cfg)
			if err != nil {
				return err
			}
			defer pool.Close()

			if c.Bool("status") {
				version, err := db.MigrationStatus(ctx, pool)
				if err != nil {
					return err
				}
				fmt.Printf("schema version %d\n", version)
				return nil
			}
			if err := db.Migrate(ctx, pool); err != nil {
				return err
			}
			slog.Info("migrations applied")
			return nil
		},
	}
}

func seedCommand() *cli.Command {
	return &cli.Command{
		Name:  "seed",
		Usage: "Create the configured bootstrap accounts",
		Action: func(ctx context.Context, _ *cli.Command) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			pool, err := db.Connect(ctx, cfg)
			if err != nil {
				return err
			}
			defer pool.Close()
			return db.Seed(ctx, pool, cfg)
		},
	}
}

func maintenanceCommand() *cli.Command {
	return &cli.Command{
		Name:  "maintenance",
		Usage: "Run the cleanup jobs once",
		Action: func(ctx context.Context, _ *cli.Command) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			pool, err := db.Connect(ctx, cfg)
			if err != nil {
				return err
			}
			defer pool.Close()
			return server.NewJobs(pool, cfg).Sweep(ctx)
		},
	}
}
