package database

import (
	"github.com/socialfolio/folio/internal/database/models"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// Repository provides access to all database models.
type Repository struct {
	user          *models.UserModel
	contest       *models.ContestModel
	application   *models.ApplicationModel
	vote          *models.VoteModel
	friendRequest *models.FriendRequestModel
	notification  *models.NotificationModel
}

// NewRepository creates a new repository instance with all models.
func NewRepository(db *bun.DB, logger *zap.Logger) *Repository {
	return &Repository{
		user:          models.NewUser(db, logger),
		contest:       models.NewContest(db, logger),
		application:   models.NewApplication(db, logger),
		vote:          models.NewVote(db, logger),
		friendRequest: models.NewFriendRequest(db, logger),
		notification:  models.NewNotification(db, logger),
	}
}

// User returns the user model repository.
func (r *Repository) User() *models.UserModel {
	return r.user
}

// Contest returns the contest model repository.
func (r *Repository) Contest() *models.ContestModel {
	return r.contest
}

// Application returns the application model repository.
func (r *Repository) Application() *models.ApplicationModel {
	return r.application
}

// Vote returns the vote model repository.
func (r *Repository) Vote() *models.VoteModel {
	return r.vote
}

// FriendRequest returns the friend request model repository.
func (r *Repository) FriendRequest() *models.FriendRequestModel {
	return r.friendRequest
}

// Notification returns the notification model repository.
func (r *Repository) Notification() *models.NotificationModel {
	return r.notification
}
