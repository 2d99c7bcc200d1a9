package main

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/phrazzld/shopping-list-api/internal/config"
	"github.com/phrazzld/shopping-list-api/internal/platform/postgres"
)

// migrationCommands lists the goose commands accepted by -migrate.
var migrationCommands = []string{"up", "down", "status", "version", "redo", "reset"}

// handleMigrations runs a goose command against the configured database.
func handleMigrations(ctx context.Context, cfg *config.Config, command string, logger *slog.Logger) error {
	if !slices.Contains(migrationCommands, command) {
		return fmt.Errorf("unknown migration command %q, expected one of %v", command, migrationCommands)
	}
	if cfg.Database.Driver != "postgres" {
		return fmt.Errorf("migrations require the postgres driver, got %q", cfg.Database.Driver)
	}

	db, err := setupAppDatabase(ctx, cfg.Database, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("error closing database connection", slog.String("error", err.Error()))
		}
	}()

	logger.Info("running migrations", slog.String("command", command))
	return postgres.Migrate(ctx, db, command, logger)
}
