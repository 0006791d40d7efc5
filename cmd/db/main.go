package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"slices"

	"github.com/proofboard/proofboard/cmd/db/commands"
	"github.com/proofboard/proofboard/internal/database"
	"github.com/proofboard/proofboard/internal/database/migrations"
	"github.com/proofboard/proofboard/internal/setup/config"
	"github.com/proofboard/proofboard/internal/setup/telemetry"
	"github.com/uptrace/bun/migrate"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	// DBLogDir specifies where db tool log files are stored.
	DBLogDir = "logs/db_logs"
)

func main() {
	if err := run(); err != nil {
		log.Printf("Error: %v", err)
		os.Exit(1)
	}
}

func run() error {
	// Setup dependencies
	deps, err := setupDependencies()
	if err != nil {
		return fmt.Errorf("failed to setup dependencies: %w", err)
	}
	defer deps.DB.Close()

	app := &cli.Command{
		Name:  "db",
		Usage: "Database management tool",
		Commands: slices.Concat(
			commands.MigrationCommands(deps),
			commands.RegistryCommands(deps),
			commands.SubmissionCommands(deps),
		),
	}

	return app.Run(context.Background(), os.Args)
}

// setupDependencies initializes the loggers, database connection and migrator.
func setupDependencies() (*commands.CLIDependencies, error) {
	// Load full configuration
	cfg, _, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Session log files keep a record of administrative changes
	logManager := telemetry.NewManager(telemetry.ServiceDB, DBLogDir, &cfg.Common.Debug)

	fileLogger, dbLogger, err := logManager.GetLoggers()
	if err != nil {
		return nil, fmt.Errorf("failed to create loggers: %w", err)
	}

	console, err := zap.NewDevelopment()
	if err != nil {
		return nil, fmt.Errorf("failed to create console logger: %w", err)
	}

	logger := zap.New(zapcore.NewTee(fileLogger.Core(), console.Core()))

	// Connect to database
	db, err := database.NewConnection(context.Background(), &cfg.Common.PostgreSQL, dbLogger, false)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Create migrator using database connection and migrations
	migrator := migrate.NewMigrator(db.DB(), migrations.Migrations)

	return &commands.CLIDependencies{
		DB:       db,
		Migrator: migrator,
		Logger:   logger,
	}, nil
}
