package models

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/socialfolio/folio/internal/database/dbretry"
	"github.com/socialfolio/folio/internal/database/types"
	"github.com/socialfolio/folio/internal/database/types/enum"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// ApplicationModel handles database operations for contest applications.
type ApplicationModel struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewApplication creates a new application model.
func NewApplication(db *bun.DB, logger *zap.Logger) *ApplicationModel {
	return &ApplicationModel{
		db:     db,
		logger: logger.Named("db_application"),
	}
}

// GetByID retrieves an application by ID.
func (r *ApplicationModel) GetByID(ctx context.Context, db bun.IDB, applicationID int64) (*types.Application, error) {
	var app types.Application
	err := db.NewSelect().
		Model(&app).
		Where("id = ?", applicationID).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, types.ErrApplicationNotFound
		}
		return nil, fmt.Errorf("failed to get application: %w", err)
	}

	return &app, nil
}

// Exists checks whether the user already applied to the contest.
func (r *ApplicationModel) Exists(ctx context.Context, db bun.IDB, userID, contestID int64) (bool, error) {
	exists, err := db.NewSelect().
		Model((*types.Application)(nil)).
		Where("user_id = ?", userID).
		Where("contest_id = ?", contestID).
		Exists(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to check application: %w", err)
	}

	return exists, nil
}

// Create inserts a new application. A concurrent duplicate is rejected by the
// (user_id, contest_id) constraint and reported as ErrDuplicateApplication.
func (r *ApplicationModel) Create(ctx context.Context, db bun.IDB, app *types.Application) error {
	_, err := db.NewInsert().
		Model(app).
		Exec(ctx)
	if err != nil {
		if dbretry.IsUniqueViolation(err) {
			return types.ErrDuplicateApplication
		}
		return fmt.Errorf("failed to create application: %w", err)
	}

	return nil
}

// ListByContestAndStatus retrieves a contest's applications with the given status, oldest first.
func (r *ApplicationModel) ListByContestAndStatus(
	ctx context.Context, contestID int64, status enum.ApplicationStatus,
) ([]*types.Application, error) {
	var apps []*types.Application
	err := r.db.NewSelect().
		Model(&apps).
		Where("contest_id = ?", contestID).
		Where("status = ?", status).
		Order("applied_at ASC", "id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	return apps, nil
}

// CountByContestAndStatus counts a contest's applications with the given status.
func (r *ApplicationModel) CountByContestAndStatus(
	ctx context.Context, contestID int64, status enum.ApplicationStatus,
) (int, error) {
	count, err := r.db.NewSelect().
		Model((*types.Application)(nil)).
		Where("contest_id = ?", contestID).
		Where("status = ?", status).
		Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count applications: %w", err)
	}
	return count, nil
}

// ListEntries retrieves applications joined with their owners. When contestID
// is nil every application of every contest is returned.
func (r *ApplicationModel) ListEntries(ctx context.Context, contestID *int64) ([]*types.ApplicationEntry, error) {
	var entries []*types.ApplicationEntry
	q := r.db.NewSelect().
		TableExpr("voting_applications AS va").
		ColumnExpr("va.id, va.user_id, va.contest_id, va.status, va.image_url").
		ColumnExpr("u.username, u.profile_pic_url").
		Join("LEFT JOIN users AS u ON u.id = va.user_id").
		Order("va.id ASC")
	if contestID != nil {
		q = q.Where("va.contest_id = ?", *contestID)
	}

	if err := q.Scan(ctx, &entries); err != nil {
		return nil, fmt.Errorf("failed to list application entries: %w", err)
	}
	return entries, nil
}

// UpdateStatus sets the review status of an application.
func (r *ApplicationModel) UpdateStatus(
	ctx context.Context, db bun.IDB, applicationID int64, status enum.ApplicationStatus,
) error {
	result, err := db.NewUpdate().
		Model((*types.Application)(nil)).
		Set("status = ?", status).
		Where("id = ?", applicationID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update application status: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return types.ErrApplicationNotFound
	}

	return nil
}
