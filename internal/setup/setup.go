package setup

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/proofboard/proofboard/internal/database"
	"github.com/proofboard/proofboard/internal/database/migrations"
	"github.com/proofboard/proofboard/internal/events"
	"github.com/proofboard/proofboard/internal/metrics"
	"github.com/proofboard/proofboard/internal/redis"
	"github.com/proofboard/proofboard/internal/setup/config"
	"github.com/proofboard/proofboard/internal/setup/telemetry"
	"github.com/uptrace/bun/migrate"
	"go.uber.org/zap"
)

// ErrMigrationsPending is returned when the operator declines to apply pending migrations.
var ErrMigrationsPending = errors.New("database migrations are pending")

// App bundles all core dependencies and services needed by the application.
// Each field represents a major subsystem that needs initialization and cleanup.
type App struct {
	Config       *config.Config       // Application configuration
	Logger       *zap.Logger          // Main application logger
	DBLogger     *zap.Logger          // Database-specific logger
	DB           database.Client      // Database connection pool
	RedisManager *redis.Manager       // Redis connection manager
	Bus          *events.Bus          // Submission lifecycle events
	Registry     *prometheus.Registry // Metrics registry served by the debug server
	Metrics      *metrics.Metrics     // Submission lifecycle collectors
	LogManager   *telemetry.Manager   // Log management system
	debugServer  *debugServer         // Debug HTTP server for metrics and pprof
}

// InitializeApp bootstraps all application dependencies in the correct order,
// ensuring each component has its required dependencies available.
func InitializeApp(ctx context.Context, serviceType telemetry.ServiceType, logDir string) (*App, error) {
	cfg, _, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}

	// Logging system is initialized next to capture setup issues
	logManager := telemetry.NewManager(serviceType, logDir, &cfg.Common.Debug)

	logger, dbLogger, err := logManager.GetLoggers()
	if err != nil {
		return nil, err
	}

	// Redis manager provides connection pools for various subsystems
	redisManager := redis.NewManager(&cfg.Common.Redis, logger)

	db, err := checkAndRunMigrations(ctx, &cfg.Common.PostgreSQL, dbLogger)
	if err != nil {
		redisManager.Close()
		return nil, err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	var debugSrv *debugServer

	if cfg.Common.Debug.EnableDebugServer {
		check := func(ctx context.Context) error {
			if err := db.DB().PingContext(ctx); err != nil {
				return fmt.Errorf("database: %w", err)
			}

			return redisManager.Ping(ctx)
		}

		srv, err := startDebugServer(cfg.Common.Debug.DebugPort, registry, check, logger)
		if err != nil {
			logger.Error("Failed to start debug server", zap.Error(err))
		} else {
			debugSrv = srv

			logger.Warn("Debug server enabled - this should not be used in production!")
		}
	}

	return &App{
		Config:       cfg,
		Logger:       logger,
		DBLogger:     dbLogger.Named("database"),
		DB:           db,
		RedisManager: redisManager,
		Bus:          events.NewBus(logger),
		Registry:     registry,
		Metrics:      metrics.New(registry),
		LogManager:   logManager,
		debugServer:  debugSrv,
	}, nil
}

// Cleanup ensures graceful shutdown of all components in reverse initialization order.
// Logs but does not fail on cleanup errors to ensure all components get cleanup attempts.
func (s *App) Cleanup(ctx context.Context) {
	if s.debugServer != nil {
		if err := s.debugServer.srv.Shutdown(ctx); err != nil {
			s.Logger.Error("Failed to shutdown debug server", zap.Error(err))
		}

		s.debugServer.listener.Close()
	}

	if err := s.Bus.Close(); err != nil {
		s.Logger.Error("Failed to close event bus", zap.Error(err))
	}

	// Sync buffered logs before shutdown
	if err := s.Logger.Sync(); err != nil {
		log.Printf("Failed to sync logger: %v", err)
	}

	if err := s.DBLogger.Sync(); err != nil {
		log.Printf("Failed to sync DB logger: %v", err)
	}

	if err := s.DB.Close(); err != nil {
		log.Printf("Failed to close database connection: %v", err)
	}

	// Close Redis connections last as other components might need it during cleanup
	s.RedisManager.Close()
}

// checkAndRunMigrations runs database migrations if needed.
func checkAndRunMigrations(ctx context.Context, cfg *config.PostgreSQL, dbLogger *zap.Logger) (database.Client, error) {
	tempDB, err := database.NewConnection(ctx, cfg, dbLogger, false)
	if err != nil {
		return nil, err
	}

	migrator := migrate.NewMigrator(tempDB.DB(), migrations.Migrations)

	ms, err := migrator.MigrationsWithStatus(ctx)
	if err != nil {
		tempDB.Close()
		return nil, fmt.Errorf("failed to check migration status: %w", err)
	}

	if len(ms.Unapplied()) == 0 {
		return tempDB, nil
	}

	log.Println("Database migrations are pending. Would you like to run them now? (y/N)")

	var response string

	_, _ = fmt.Scanln(&response)

	tempDB.Close()

	if response != "y" && response != "Y" {
		return nil, fmt.Errorf("%w: run the db tool or answer y", ErrMigrationsPending)
	}

	return database.NewConnection(ctx, cfg, dbLogger, true)
}
