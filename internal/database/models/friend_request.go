package models

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/socialfolio/folio/internal/database/migrations"
	"github.com/socialfolio/folio/internal/database/types"
	"github.com/socialfolio/folio/internal/database/types/enum"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// FriendRequestModel handles database operations for friend requests and the
// follow graph derived from accepted requests.
type FriendRequestModel struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewFriendRequest creates a new friend request model.
func NewFriendRequest(db *bun.DB, logger *zap.Logger) *FriendRequestModel {
	return &FriendRequestModel{
		db:     db,
		logger: logger.Named("db_friend_request"),
	}
}

// GetLive retrieves the PENDING or ACCEPTED request from one user to another.
func (r *FriendRequestModel) GetLive(ctx context.Context, db bun.IDB, fromID, toID int64) (*types.FriendRequest, error) {
	var req types.FriendRequest
	err := db.NewSelect().
		Model(&req).
		Where("from_user_id = ?", fromID).
		Where("to_user_id = ?", toID).
		Where("status IN (?)", bun.In([]enum.FriendRequestStatus{
			enum.FriendRequestStatusPending,
			enum.FriendRequestStatusAccepted,
		})).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, types.ErrRequestNotFound
		}
		return nil, fmt.Errorf("failed to get friend request: %w", err)
	}

	return &req, nil
}

// CreateIfAbsent inserts req unless a live row for the pair already exists.
// Returns whether a row was inserted. The statement does not fail on the
// partial unique index, so the surrounding transaction stays usable.
func (r *FriendRequestModel) CreateIfAbsent(ctx context.Context, db bun.IDB, req *types.FriendRequest) (bool, error) {
	result, err := db.NewInsert().
		Model(req).
		On(fmt.Sprintf("CONFLICT (from_user_id, to_user_id) WHERE %s DO NOTHING", migrations.LivePairPredicate)).
		Returning("NULL").
		Exec(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to create friend request: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get affected rows: %w", err)
	}

	return affected > 0, nil
}

// CreateAcceptedIfAbsent inserts an ACCEPTED row unless a live row for the
// pair already exists. Returns whether a row was inserted.
func (r *FriendRequestModel) CreateAcceptedIfAbsent(
	ctx context.Context, db bun.IDB, fromID, toID int64, now time.Time,
) (bool, error) {
	return r.CreateIfAbsent(ctx, db, &types.FriendRequest{
		FromUserID: fromID,
		ToUserID:   toID,
		Status:     enum.FriendRequestStatusAccepted,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
}

// Transition moves the pair's request from one status to another. Returns false
// when no row was in the expected status.
func (r *FriendRequestModel) Transition(
	ctx context.Context, db bun.IDB, fromID, toID int64,
	from, to enum.FriendRequestStatus, now time.Time,
) (bool, error) {
	result, err := db.NewUpdate().
		Model((*types.FriendRequest)(nil)).
		Set("status = ?", to).
		Set("updated_at = ?", now).
		Where("from_user_id = ?", fromID).
		Where("to_user_id = ?", toID).
		Where("status = ?", from).
		Exec(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to update friend request: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get affected rows: %w", err)
	}

	return affected > 0, nil
}

// Delete removes the pair's request in the given status. Returns false when
// no such row existed.
func (r *FriendRequestModel) Delete(
	ctx context.Context, db bun.IDB, fromID, toID int64, status enum.FriendRequestStatus,
) (bool, error) {
	result, err := db.NewDelete().
		Model((*types.FriendRequest)(nil)).
		Where("from_user_id = ?", fromID).
		Where("to_user_id = ?", toID).
		Where("status = ?", status).
		Exec(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to delete friend request: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get affected rows: %w", err)
	}

	return affected > 0, nil
}

// GetFollowers retrieves the users with an accepted request to userID, ordered by ID.
func (r *FriendRequestModel) GetFollowers(ctx context.Context, userID int64) ([]types.UserSummary, error) {
	return r.listEdges(ctx, "fr.from_user_id", "fr.to_user_id", userID)
}

// GetFollowing retrieves the users userID has an accepted request to, ordered by ID.
func (r *FriendRequestModel) GetFollowing(ctx context.Context, userID int64) ([]types.UserSummary, error) {
	return r.listEdges(ctx, "fr.to_user_id", "fr.from_user_id", userID)
}

func (r *FriendRequestModel) listEdges(
	ctx context.Context, joinColumn, filterColumn string, userID int64,
) ([]types.UserSummary, error) {
	users := make([]types.UserSummary, 0)
	err := r.db.NewSelect().
		TableExpr("friend_requests AS fr").
		ColumnExpr("u.id, u.username, u.profile_pic_url").
		Join("JOIN users AS u ON u.id = "+joinColumn).
		Where(filterColumn+" = ?", userID).
		Where("fr.status = ?", enum.FriendRequestStatusAccepted).
		Order("u.id ASC").
		Scan(ctx, &users)
	if err != nil {
		return nil, fmt.Errorf("failed to list follow edges: %w", err)
	}
	return users, nil
}

// GetMostFollowed ranks users by accepted incoming requests, ties broken by ascending ID.
func (r *FriendRequestModel) GetMostFollowed(ctx context.Context, limit int) ([]types.FollowedUser, error) {
	users := make([]types.FollowedUser, 0, limit)
	err := r.db.NewSelect().
		TableExpr("users AS u").
		ColumnExpr("u.id AS user_id, u.username").
		ColumnExpr("COUNT(fr.id) AS follower_count").
		Join("LEFT JOIN friend_requests AS fr ON fr.to_user_id = u.id AND fr.status = ?",
			enum.FriendRequestStatusAccepted).
		Group("u.id", "u.username").
		Order("follower_count DESC", "u.id ASC").
		Limit(limit).
		Scan(ctx, &users)
	if err != nil {
		return nil, fmt.Errorf("failed to get most followed users: %w", err)
	}
	return users, nil
}

// pendingRow is the flat shape of an incoming request joined with its sender.
type pendingRow struct {
	ID            int64     `bun:"id"`
	CreatedAt     time.Time `bun:"created_at"`
	FromID        int64     `bun:"from_id"`
	Username      string    `bun:"username"`
	ProfilePicURL string    `bun:"profile_pic_url"`
}

// GetPendingIncoming retrieves the requests awaiting userID's answer, newest first.
func (r *FriendRequestModel) GetPendingIncoming(ctx context.Context, userID int64) ([]types.FriendRequestView, error) {
	var rows []pendingRow
	err := r.db.NewSelect().
		TableExpr("friend_requests AS fr").
		ColumnExpr("fr.id, fr.created_at").
		ColumnExpr("u.id AS from_id, u.username, u.profile_pic_url").
		Join("JOIN users AS u ON u.id = fr.from_user_id").
		Where("fr.to_user_id = ?", userID).
		Where("fr.status = ?", enum.FriendRequestStatusPending).
		Order("fr.created_at DESC", "fr.id DESC").
		Scan(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("failed to get pending requests: %w", err)
	}

	views := make([]types.FriendRequestView, 0, len(rows))
	for _, row := range rows {
		views = append(views, types.FriendRequestView{
			ID: row.ID,
			From: types.UserSummary{
				ID:            row.FromID,
				Username:      row.Username,
				ProfilePicURL: row.ProfilePicURL,
			},
			CreatedAt: row.CreatedAt,
		})
	}
	return views, nil
}
