package setup

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/socialfolio/folio/internal/database"
	"github.com/socialfolio/folio/internal/database/migrations"
	"github.com/socialfolio/folio/internal/database/service"
	"github.com/socialfolio/folio/internal/notify"
	"github.com/socialfolio/folio/internal/redis"
	"github.com/socialfolio/folio/internal/setup/config"
	"github.com/socialfolio/folio/internal/setup/telemetry"
	"github.com/uptrace/bun/migrate"
	"go.uber.org/zap"
)

// ErrPendingMigrations is returned when the server would start against an
// outdated schema.
var ErrPendingMigrations = errors.New("database migrations are pending, run `db migrate` first")

// App bundles all core dependencies and services needed by the application.
// Each field represents a major subsystem that needs initialization and cleanup.
type App struct {
	Config       *config.Config         // Application configuration
	Logger       *zap.Logger            // Main application logger
	DBLogger     *zap.Logger            // Database-specific logger
	DB           database.Client        // Database connection pool
	Services     *database.Service      // Contest and social services
	Dispatcher   *notify.Dispatcher     // Post-commit notification delivery
	Publisher    *notify.RedisPublisher // Redis notification publisher, nil when disabled
	RedisManager *redis.Manager         // Redis connection manager
	LogManager   *telemetry.Manager     // Log management system
}

// InitializeApp bootstraps all application dependencies in the correct order,
// ensuring each component has its required dependencies available.
func InitializeApp(ctx context.Context, serviceType telemetry.ServiceType, logDir string) (*App, error) {
	// Load app configuration
	cfg, _, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}

	// Logging system is initialized next to capture setup issues
	logManager := telemetry.NewManager(
		serviceType, logDir, &cfg.Common.Debug, &cfg.Common.Telemetry, config.RepositoryVersion,
	)
	logManager.Start()

	logger, dbLogger, err := logManager.GetLoggers()
	if err != nil {
		return nil, err
	}

	// Redis manager provides connection pools for notification delivery
	redisManager := redis.NewManager(&cfg.Common.Redis, logger)

	db, err := connectDatabase(ctx, serviceType, &cfg.Common.Database, dbLogger)
	if err != nil {
		redisManager.Close()
		return nil, err
	}

	// Notifications are always stored; Redis publishing is optional
	emitters := []notify.Emitter{notify.NewStoreEmitter(db.Model().Notification())}

	var publisher *notify.RedisPublisher
	if cfg.Common.Redis.Enabled {
		if err := redisManager.Ping(ctx, redis.NotificationDBIndex); err != nil {
			logger.Error("Redis is unreachable, notifications will only be stored", zap.Error(err))
		} else {
			client, err := redisManager.GetClient(redis.NotificationDBIndex)
			if err != nil {
				db.Close()
				redisManager.Close()
				return nil, err
			}

			publisher = notify.NewRedisPublisher(client, cfg.Common.Notify.ChannelPrefix, cfg.Common.Notify.InboxSize)
			emitters = append(emitters, publisher)
		}
	}

	dispatcher := notify.NewDispatcher(
		logger, time.Duration(cfg.Common.Notify.Timeout)*time.Millisecond, emitters...,
	)

	services := database.NewService(db.DB(), db.Model(), database.ServiceOptions{
		Notifier: dispatcher,
		Contest: service.ContestOptions{
			AllContestsLeaderboard: cfg.Common.Contest.LeaderboardScope == config.ScopeAll,
		},
	}, logger)

	logger.Info("Application initialized",
		zap.String("component", serviceType.String()),
		zap.Bool("redis", publisher != nil),
		zap.Bool("tracing", logManager.TracingEnabled()),
		zap.String("sessionDir", logManager.SessionDir()))

	// Bundle all initialized components
	return &App{
		Config:       cfg,
		Logger:       logger,
		DBLogger:     dbLogger.Named("database"),
		DB:           db,
		Services:     services,
		Dispatcher:   dispatcher,
		Publisher:    publisher,
		RedisManager: redisManager,
		LogManager:   logManager,
	}, nil
}

// Cleanup ensures graceful shutdown of all components in reverse initialization order.
// Logs but does not fail on cleanup errors to ensure all components get cleanup attempts.
func (s *App) Cleanup(ctx context.Context) {
	// Let in-flight notifications finish before their stores go away
	s.Dispatcher.Close()

	// Close database connections
	if err := s.DB.Close(); err != nil {
		log.Printf("Failed to close database connection: %v", err)
	}

	// Close Redis connections last as notifications might need it during cleanup
	s.RedisManager.Close()

	// Flush pending spans
	if err := s.LogManager.Stop(ctx); err != nil {
		log.Printf("Failed to flush telemetry: %v", err)
	}

	// Sync buffered logs before shutdown
	if err := s.Logger.Sync(); err != nil {
		log.Printf("Failed to sync logger: %v", err)
	}

	if err := s.DBLogger.Sync(); err != nil {
		log.Printf("Failed to sync DB logger: %v", err)
	}
}

// connectDatabase opens the store. The REST server refuses to start with
// pending migrations unless auto_migrate is set; the CLI manages migrations
// itself and skips the check.
func connectDatabase(
	ctx context.Context, serviceType telemetry.ServiceType, cfg *config.Database, dbLogger *zap.Logger,
) (database.Client, error) {
	if serviceType == telemetry.ServiceCLI || cfg.AutoMigrate {
		return database.NewConnection(ctx, cfg, dbLogger, cfg.AutoMigrate)
	}

	db, err := database.NewConnection(ctx, cfg, dbLogger, false)
	if err != nil {
		return nil, err
	}

	migrator := migrate.NewMigrator(db.DB(), migrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize migrations: %w", err)
	}

	ms, err := migrator.MigrationsWithStatus(ctx)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to check migration status: %w", err)
	}

	if unapplied := ms.Unapplied(); len(unapplied) > 0 {
		db.Close()
		return nil, fmt.Errorf("%w: %s", ErrPendingMigrations, unapplied.String())
	}

	return db, nil
}
