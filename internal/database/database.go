package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/bytedance/sonic"
	"github.com/socialfolio/folio/internal/database/dbretry"
	"github.com/socialfolio/folio/internal/database/migrations"
	"github.com/socialfolio/folio/internal/setup/config"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bunjson"
	"github.com/uptrace/bun/extra/bunotel"
	"github.com/uptrace/bun/migrate"
	"go.uber.org/zap"
	_ "modernc.org/sqlite" // registers the "sqlite" database/sql driver
)

var ErrUnknownDriver = errors.New("unknown database driver")

// sonicProvider is a JSON provider that uses Sonic for encoding and decoding.
type sonicProvider struct{}

func (sonicProvider) Marshal(v any) ([]byte, error) {
	return sonic.Marshal(v)
}

func (sonicProvider) Unmarshal(data []byte, v any) error {
	return sonic.Unmarshal(data, v)
}

func (sonicProvider) NewEncoder(w io.Writer) bunjson.Encoder {
	return sonic.ConfigDefault.NewEncoder(w)
}

func (sonicProvider) NewDecoder(r io.Reader) bunjson.Decoder {
	return sonic.ConfigDefault.NewDecoder(r)
}

// Client defines the methods that a database client must implement.
type Client interface {
	// Model returns the repository containing all model operations.
	Model() *Repository
	// Close gracefully shuts down the database connection.
	Close() error
	// DB returns the underlying bun.DB instance.
	DB() *bun.DB
}

// clientImpl represents the concrete implementation of the database client.
type clientImpl struct {
	db     *bun.DB
	logger *zap.Logger
	repo   *Repository
}

// NewConnection establishes a new database connection and returns a Client instance.
func NewConnection(
	ctx context.Context, cfg *config.Database, logger *zap.Logger, autoMigrate bool,
) (Client, error) {
	db, err := Open(cfg)
	if err != nil {
		return nil, err
	}

	if err := dbretry.NoResult(ctx, db.PingContext); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.AddQueryHook(NewHook(logger, cfg.LogQueries))
	db.AddQueryHook(bunotel.NewQueryHook(bunotel.WithDBName(cfg.DBName)))

	if autoMigrate {
		if err := Migrate(ctx, db, logger); err != nil {
			_ = db.Close()
			return nil, err
		}
	}

	client := &clientImpl{
		db:     db,
		logger: logger,
		repo:   NewRepository(db, logger),
	}

	logger.Info("Database connection established", zap.String("driver", cfg.Driver))

	return client, nil
}

// Open creates a bun.DB for the configured driver without touching the schema.
func Open(cfg *config.Database) (*bun.DB, error) {
	// Set Sonic as the JSON provider
	bunjson.SetProvider(sonicProvider{})

	switch cfg.Driver {
	case config.DriverPostgres, "":
		sqldb := sql.OpenDB(pgdriver.NewConnector(
			pgdriver.WithAddr(fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)),
			pgdriver.WithUser(cfg.User),
			pgdriver.WithPassword(cfg.Password),
			pgdriver.WithDatabase(cfg.DBName),
			pgdriver.WithInsecure(true),
			pgdriver.WithApplicationName("folio"),
		))

		sqldb.SetMaxOpenConns(cfg.MaxOpenConns)
		sqldb.SetMaxIdleConns(cfg.MaxIdleConns)
		sqldb.SetConnMaxLifetime(time.Duration(cfg.MaxLifetime) * time.Minute)
		sqldb.SetConnMaxIdleTime(time.Duration(cfg.MaxIdleTime) * time.Minute)

		return bun.NewDB(sqldb, pgdialect.New()), nil

	case config.DriverSQLite:
		sqldb, err := sql.Open("sqlite", cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite database: %w", err)
		}

		// SQLite serializes writers; a single connection avoids SQLITE_BUSY between them
		sqldb.SetMaxOpenConns(1)

		return bun.NewDB(sqldb, sqlitedialect.New()), nil

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownDriver, cfg.Driver)
	}
}

// Migrate applies every pending migration.
func Migrate(ctx context.Context, db *bun.DB, logger *zap.Logger) error {
	migrator := migrate.NewMigrator(db, migrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		return fmt.Errorf("failed to initialize migrations: %w", err)
	}

	group, err := migrator.Migrate(ctx)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if !group.IsZero() {
		logger.Info("Automatically ran migrations", zap.String("group", group.String()))
	}

	return nil
}

// Close gracefully shuts down the database connection.
func (c *clientImpl) Close() error {
	err := c.db.Close()
	if err != nil {
		c.logger.Error("Failed to close database connection", zap.Error(err))
		return err
	}

	c.logger.Info("Database connection closed")

	return nil
}

// Model returns the repository containing all model operations.
func (c *clientImpl) Model() *Repository {
	return c.repo
}

// DB returns the underlying bun.DB instance.
func (c *clientImpl) DB() *bun.DB {
	return c.db
}
