package models

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/socialfolio/folio/internal/database/types"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// ContestModel handles database operations for voting contests.
type ContestModel struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewContest creates a new contest model.
func NewContest(db *bun.DB, logger *zap.Logger) *ContestModel {
	return &ContestModel{
		db:     db,
		logger: logger.Named("db_contest"),
	}
}

// GetByID retrieves a contest by ID.
func (r *ContestModel) GetByID(ctx context.Context, db bun.IDB, contestID int64) (*types.Contest, error) {
	var contest types.Contest
	err := db.NewSelect().
		Model(&contest).
		Where("id = ?", contestID).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, types.ErrContestNotFound
		}
		return nil, fmt.Errorf("failed to get contest: %w", err)
	}

	return &contest, nil
}

// ListActive retrieves every contest flagged active, ordered by ID.
// Window checks happen in the caller against a single clock reading.
func (r *ContestModel) ListActive(ctx context.Context, db bun.IDB) ([]*types.Contest, error) {
	var contests []*types.Contest
	err := db.NewSelect().
		Model(&contests).
		Where("is_active = ?", true).
		Order("id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list active contests: %w", err)
	}

	return contests, nil
}

// Create inserts a new contest.
func (r *ContestModel) Create(ctx context.Context, db bun.IDB, contest *types.Contest) error {
	_, err := db.NewInsert().
		Model(contest).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create contest: %w", err)
	}

	return nil
}

// Update overwrites the editable fields of a contest.
func (r *ContestModel) Update(ctx context.Context, db bun.IDB, contest *types.Contest) error {
	result, err := db.NewUpdate().
		Model(contest).
		Column("title", "description", "start_time", "end_time", "is_active").
		WherePK().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update contest: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return types.ErrContestNotFound
	}

	return nil
}
