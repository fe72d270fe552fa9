package database

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/socialfolio/folio/internal/database/dbretry"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// slowQueryThreshold is the duration after which a query is logged as slow.
const slowQueryThreshold = 500 * time.Millisecond

// Hook implements bun.QueryHook interface for logging queries with zap.
type Hook struct {
	logger     *zap.Logger
	logQueries bool
}

// NewHook creates a new Hook with zap logger.
func NewHook(logger *zap.Logger, logQueries bool) *Hook {
	return &Hook{
		logger:     logger,
		logQueries: logQueries,
	}
}

// BeforeQuery implements bun.QueryHook.
func (h *Hook) BeforeQuery(ctx context.Context, _ *bun.QueryEvent) context.Context {
	return ctx
}

// AfterQuery logs failed and slow queries, and every query when enabled.
func (h *Hook) AfterQuery(_ context.Context, event *bun.QueryEvent) {
	duration := time.Since(event.StartTime)

	switch {
	case event.Err == nil:
		if duration > slowQueryThreshold {
			h.logger.Warn("Slow query",
				zap.String("query", event.Query),
				zap.Duration("duration", duration))
		} else if h.logQueries {
			h.logger.Debug("Query executed",
				zap.String("query", event.Query),
				zap.Duration("duration", duration))
		}
	case errors.Is(event.Err, sql.ErrNoRows), dbretry.IsUniqueViolation(event.Err):
		// Expected outcomes that the services translate into domain errors
		h.logger.Debug("Query rejected",
			zap.String("query", event.Query),
			zap.Duration("duration", duration),
			zap.Error(event.Err))
	default:
		h.logger.Error("Query failed",
			zap.String("query", event.Query),
			zap.Duration("duration", duration),
			zap.Error(event.Err))
	}
}
