package models

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/socialfolio/folio/internal/database/dbretry"
	"github.com/socialfolio/folio/internal/database/types"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// UserModel handles the identity records mirrored from the profile service.
type UserModel struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewUser creates a new user model.
func NewUser(db *bun.DB, logger *zap.Logger) *UserModel {
	return &UserModel{
		db:     db,
		logger: logger.Named("db_user"),
	}
}

// GetByID retrieves a user by ID using the given connection or transaction.
func (r *UserModel) GetByID(ctx context.Context, db bun.IDB, userID int64) (*types.User, error) {
	var user types.User
	err := db.NewSelect().
		Model(&user).
		Where("id = ?", userID).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, types.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

// GetByEmail retrieves a user by email, ignoring case.
func (r *UserModel) GetByEmail(ctx context.Context, email string) (*types.User, error) {
	var user types.User
	err := r.db.NewSelect().
		Model(&user).
		Where("lower(email) = lower(?)", email).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, types.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return &user, nil
}

// CountExisting returns how many of the given user IDs exist.
func (r *UserModel) CountExisting(ctx context.Context, db bun.IDB, userIDs ...int64) (int, error) {
	if len(userIDs) == 0 {
		return 0, nil
	}

	count, err := db.NewSelect().
		Model((*types.User)(nil)).
		Where("id IN (?)", bun.In(userIDs)).
		Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}

	return count, nil
}

// Create inserts a user. Used when mirroring identities from the profile service.
func (r *UserModel) Create(ctx context.Context, user *types.User) error {
	_, err := r.db.NewInsert().
		Model(user).
		Exec(ctx)
	if err != nil {
		if dbretry.IsUniqueViolation(err) {
			return types.ErrDuplicateUser
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}
