package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"

	_ "github.com/lib/pq"
	"github.com/taskflow/backend/internal/infrastructure/config"
	"github.com/taskflow/backend/internal/infrastructure/logger"
	"github.com/taskflow/backend/internal/infrastructure/migration"
	"github.com/taskflow/backend/migrations"
	"go.uber.org/zap"
)

const usage = `TaskFlow database migrations

Usage:
  migrate [flags] <command> [argument]

Commands:
  up                 Apply all pending migrations
  down               Roll back all migrations
  step <n>           Apply n migrations (negative rolls back)
  goto <version>     Migrate up or down to a specific version
  version            Show the current version and dirty flag
  force <version>    Set the version without running SQL (clears dirty)
  list               List embedded migrations (no database needed)
  drop               Drop every table (requires -confirm)

Flags:
  -log-level string  debug, info, warn or error (default info)
  -confirm           Allow destructive commands

The database is taken from TASKFLOW_DATABASE_URL or the TASKFLOW_DATABASE_HOST,
_PORT, _USER, _PASSWORD and _DBNAME variables (or config.toml).`

// command is one migrate subcommand; arg is the optional positional argument
type command struct {
	needsArg bool
	run      func(m *migration.Migrator, arg string, log *zap.Logger) error
}

var errNeedsConfirm = errors.New("refusing to drop without -confirm")

func commands(confirm bool) map[string]command {
	return map[string]command{
		"up":   {run: func(m *migration.Migrator, _ string, _ *zap.Logger) error { return m.Up() }},
		"down": {run: func(m *migration.Migrator, _ string, _ *zap.Logger) error { return m.Down() }},
		"step": {needsArg: true, run: func(m *migration.Migrator, arg string, _ *zap.Logger) error {
			n, err := strconv.Atoi(arg)
			if err != nil {
				return fmt.Errorf("invalid step count %q", arg)
			}
			return m.Steps(n)
		}},
		"goto": {needsArg: true, run: func(m *migration.Migrator, arg string, _ *zap.Logger) error {
			v, err := strconv.ParseUint(arg, 10, 32)
			if err != nil {
				return fmt.Errorf("invalid version %q", arg)
			}
			return m.Goto(uint(v))
		}},
		"force": {needsArg: true, run: func(m *migration.Migrator, arg string, _ *zap.Logger) error {
			v, err := strconv.Atoi(arg)
			if err != nil {
				return fmt.Errorf("invalid version %q", arg)
			}
			return m.Force(v)
		}},
		"drop": {run: func(m *migration.Migrator, _ string, _ *zap.Logger) error {
			if !confirm {
				return errNeedsConfirm
			}
			return m.Drop()
		}},
		"version": {run: func(m *migration.Migrator, _ string, log *zap.Logger) error {
			v, dirty, err := m.Version()
			if err != nil {
				return err
			}
			if v == 0 {
				log.Info("No migrations applied")
				return nil
			}
			log.Info("Current migration version", zap.Uint("version", v), zap.Bool("dirty", dirty))
			return nil
		}},
	}
}

func main() {
	logLevel := flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	confirm := flag.Bool("confirm", false, "Allow destructive commands such as drop")
	flag.Usage = func() { fmt.Fprintln(os.Stderr, usage) }
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(2)
	}
	name, arg := args[0], ""
	if len(args) > 1 {
		arg = args[1]
	}

	log, err := logger.New(&logger.Config{
		Level:      *logLevel,
		Format:     "console",
		Output:     "stdout",
		TimeFormat: "2006-01-02 15:04:05",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	if name == "list" {
		names, err := migration.List(migrations.FS)
		if err != nil {
			log.Fatal("Failed to list migrations", zap.Error(err))
		}
		for _, n := range names {
			fmt.Println("  -", n)
		}
		return
	}

	cmd, ok := commands(*confirm)[name]
	if !ok {
		log.Error("Unknown command", zap.String("command", name))
		flag.Usage()
		os.Exit(2)
	}
	if cmd.needsArg && arg == "" {
		log.Fatal("Missing argument", zap.String("command", name))
	}

	if err := withMigrator(log, func(m *migration.Migrator) error {
		return cmd.run(m, arg, log)
	}); err != nil {
		log.Fatal("Migration command failed", zap.String("command", name), zap.Error(err))
	}
}

// withMigrator opens the configured postgres database, runs fn and closes everything
func withMigrator(log *zap.Logger, fn func(*migration.Migrator) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	if cfg.Database.Driver != "postgres" {
		return fmt.Errorf("SQL migrations target postgres, got driver %q (sqlite uses database.auto_migrate)", cfg.Database.Driver)
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return fmt.Errorf("ping database: %w", err)
	}

	// The migrator owns db from here and closes it
	m, err := migration.New(db, migrations.FS, log)
	if err != nil {
		_ = db.Close()
		return fmt.Errorf("create migrator: %w", err)
	}
	defer func() {
		_ = m.Close()
	}()

	return fn(m)
}
