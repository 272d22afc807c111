// Command migrate applies the embedded PostgreSQL schema for the postgres
// record store.
package main

import (
	"embed"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/joho/godotenv"

	_ "github.com/golang-migrate/migrate/v4/database/postgres"

	"github.com/JaimeStill/gallery/internal/config"
	"github.com/JaimeStill/gallery/pkg/database"
)

//go:embed migrations/*.sql
var migrations embed.FS

type options struct {
	dsn     string
	up      bool
	down    bool
	steps   int
	version bool
	force   int
}

func main() {
	var opts options
	flag.StringVar(&opts.dsn, "dsn", "", "database URL (default: GALLERY_DATABASE_URL or GALLERY_DB_* settings)")
	flag.BoolVar(&opts.up, "up", false, "apply all pending migrations")
	flag.BoolVar(&opts.down, "down", false, "revert all migrations")
	flag.IntVar(&opts.steps, "steps", 0, "apply N migrations (negative reverts)")
	flag.BoolVar(&opts.version, "version", false, "print the current schema version")
	flag.IntVar(&opts.force, "force", -1, "mark the schema as version N without running migrations")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil)).With("command", "migrate")

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logger.Warn("failed to load .env file", "error", err)
	}

	if err := run(opts, flagSet("force"), logger); err != nil {
		logger.Error("migration failed", "error", err)
		os.Exit(1)
	}
}

func run(opts options, forceSet bool, logger *slog.Logger) error {
	dsn := opts.dsn
	if dsn == "" {
		var cfg database.Config
		if err := cfg.Finalize(config.DatabaseEnv); err != nil {
			return fmt.Errorf("database config: %w", err)
		}
		dsn = cfg.Dsn()
	}

	source, err := iofs.New(migrations, "migrations")
	if err != nil {
		return fmt.Errorf("migration source: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, dsn)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}
	defer m.Close()

	switch {
	case opts.version:
		v, dirty, err := m.Version()
		if errors.Is(err, migrate.ErrNilVersion) {
			logger.Info("no migrations applied")
			return nil
		}
		if err != nil {
			return fmt.Errorf("read version: %w", err)
		}
		logger.Info("schema version", "version", v, "dirty", dirty)
	case forceSet:
		if err := m.Force(opts.force); err != nil {
			return fmt.Errorf("force version %d: %w", opts.force, err)
		}
		logger.Info("schema version forced", "version", opts.force)
	case opts.up:
		return report(logger, "up", m.Up())
	case opts.down:
		return report(logger, "down", m.Down())
	case opts.steps != 0:
		return report(logger, fmt.Sprintf("steps %d", opts.steps), m.Steps(opts.steps))
	default:
		fmt.Fprintln(os.Stderr, "usage: migrate [-dsn URL] -up | -down | -steps N | -version | -force N")
		flag.PrintDefaults()
	}
	return nil
}

func report(logger *slog.Logger, op string, err error) error {
	if errors.Is(err, migrate.ErrNoChange) {
		logger.Info("schema already current", "op", op)
		return nil
	}
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	logger.Info("migrations applied", "op", op)
	return nil
}

func flagSet(name string) bool {
	set := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}
