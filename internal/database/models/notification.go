package models

import (
	"context"
	"fmt"

	"github.com/socialfolio/folio/internal/database/types"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// NotificationModel handles database operations for user notifications.
type NotificationModel struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewNotification creates a new notification model.
func NewNotification(db *bun.DB, logger *zap.Logger) *NotificationModel {
	return &NotificationModel{
		db:     db,
		logger: logger.Named("db_notification"),
	}
}

// Create stores a notification.
func (r *NotificationModel) Create(ctx context.Context, notification *types.Notification) error {
	_, err := r.db.NewInsert().
		Model(notification).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	return nil
}

// GetByUser retrieves a user's notifications, newest first.
func (r *NotificationModel) GetByUser(ctx context.Context, userID int64, limit int) ([]*types.Notification, error) {
	notifications := make([]*types.Notification, 0)
	err := r.db.NewSelect().
		Model(&notifications).
		Where("user_id = ?", userID).
		Order("created_at DESC", "id DESC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get notifications: %w", err)
	}
	return notifications, nil
}

// MarkRead marks one of the user's notifications as read.
// Returns ErrNotificationNotFound when the user has no such notification.
func (r *NotificationModel) MarkRead(ctx context.Context, userID, notificationID int64) error {
	result, err := r.db.NewUpdate().
		Model((*types.Notification)(nil)).
		Set("is_read = ?", true).
		Where("id = ?", notificationID).
		Where("user_id = ?", userID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return types.ErrNotificationNotFound
	}

	return nil
}
