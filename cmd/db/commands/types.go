package commands

import (
	"errors"

	"github.com/socialfolio/folio/internal/database"
	"github.com/uptrace/bun/migrate"
	"go.uber.org/zap"
)

var (
	ErrNameRequired         = errors.New("NAME argument required")
	ErrIDRequired           = errors.New("ID argument required")
	ErrStatusRequired       = errors.New("STATUS argument required")
	ErrFileRequired         = errors.New("FILE argument required")
	ErrEmailRequired        = errors.New("EMAIL argument required")
	ErrInvalidMigrationName = errors.New("migration name must be snake case")
	ErrInvalidID            = errors.New("ID must be a positive integer")
	ErrInvalidTime          = errors.New("time must be RFC 3339, e.g. 2025-06-01T00:00:00Z")
)

// CLIDependencies holds the common dependencies needed by CLI commands.
type CLIDependencies struct {
	DB       database.Client
	Services *database.Service
	Migrator *migrate.Migrator
	Logger   *zap.Logger
}
