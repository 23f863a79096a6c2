package main

import (
	"context"
	"fmt"
	"os"

	"github.com/taskflow/backend/internal/bootstrap"
	"github.com/taskflow/backend/internal/infrastructure/config"
	"github.com/taskflow/backend/internal/infrastructure/logger"
	"github.com/taskflow/backend/internal/infrastructure/persistence"
	"github.com/taskflow/backend/internal/interfaces/cli"
	"go.uber.org/zap"
)

func main() {
	root := cli.NewRootCommand(open)
	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// open connects to the configured database and builds the application services.
// Operator commands never send mail, so the mailer falls back to the log sender.
func open(_ context.Context) (cli.Services, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return cli.Services{}, nil, fmt.Errorf("load configuration: %w", err)
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: "console",
		Output: "stderr",
	})
	if err != nil {
		return cli.Services{}, nil, fmt.Errorf("initialize logger: %w", err)
	}

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel("warn"), cfg.Database.SlowThreshold)
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		return cli.Services{}, nil, fmt.Errorf("connect to database: %w", err)
	}
	if cfg.Database.Driver == "sqlite" {
		if err := db.AutoMigrate(); err != nil {
			_ = db.Close()
			return cli.Services{}, nil, fmt.Errorf("migrate sqlite schema: %w", err)
		}
	}

	services := bootstrap.NewServices(bootstrap.Deps{
		DB:     db.DB,
		Config: cfg,
		Logger: log,
	})

	cleanup := func() {
		if err := db.Close(); err != nil {
			log.Warn("Error closing database", zap.Error(err))
		}
		_ = logger.Sync(log)
	}
	return cli.Services{Users: services.Users, Invitations: services.Invitations}, cleanup, nil
}
