package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/socialfolio/folio/internal/clock"
	"github.com/socialfolio/folio/internal/database/models"
	"github.com/socialfolio/folio/internal/database/types"
	"github.com/socialfolio/folio/internal/database/types/enum"
	"github.com/socialfolio/folio/internal/notify"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// SocialService handles the friend request state machine and the follow graph
// derived from accepted requests.
type SocialService struct {
	db            *bun.DB
	users         *models.UserModel
	requests      *models.FriendRequestModel
	notifications *models.NotificationModel
	notifier      Notifier
	clock         clock.Clock
	logger        *zap.Logger
}

// NewSocial creates a new social service.
func NewSocial(
	db *bun.DB,
	users *models.UserModel,
	requests *models.FriendRequestModel,
	notifications *models.NotificationModel,
	notifier Notifier,
	clk clock.Clock,
	logger *zap.Logger,
) *SocialService {
	return &SocialService{
		db:            db,
		users:         users,
		requests:      requests,
		notifications: notifications,
		notifier:      notifier,
		clock:         clk,
		logger:        logger.Named("social_service"),
	}
}

// SendRequest creates a pending friend request from one user to another and
// notifies the receiver.
func (s *SocialService) SendRequest(ctx context.Context, fromID, toID int64) (*types.FriendRequest, error) {
	if fromID == toID {
		return nil, types.ErrSelfRequest
	}

	now := s.clock.Now()

	var (
		req    *types.FriendRequest
		sender *types.User
	)
	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		var err error
		if sender, err = s.users.GetByID(ctx, tx, fromID); err != nil {
			return err
		}
		if _, err = s.users.GetByID(ctx, tx, toID); err != nil {
			return err
		}

		inserted, err := s.requests.CreateIfAbsent(ctx, tx, &types.FriendRequest{
			FromUserID: fromID,
			ToUserID:   toID,
			Status:     enum.FriendRequestStatusPending,
			CreatedAt:  now,
			UpdatedAt:  now,
		})
		if err != nil {
			return err
		}

		// The live row is read after the insert so the error reflects the row
		// that actually blocked it, including one committed concurrently.
		live, err := s.requests.GetLive(ctx, tx, fromID, toID)
		switch {
		case err != nil && !errors.Is(err, types.ErrRequestNotFound):
			return err
		case inserted && err == nil:
			req = live
			return nil
		case err == nil && live.Status == enum.FriendRequestStatusAccepted:
			return types.ErrAlreadyFollowing
		default:
			return types.ErrRequestAlreadySent
		}
	})
	if err != nil {
		return nil, fmt.Errorf("failed to send friend request: %w", err)
	}

	s.notifier.Dispatch(ctx, notify.FriendRequest(sender, toID, now))

	s.logger.Debug("Friend request sent",
		zap.Int64("fromUserID", fromID),
		zap.Int64("toUserID", toID))

	return req, nil
}

// AcceptRequest accepts the pending request from fromID to toID. The acceptor
// is always the receiver, toID.
func (s *SocialService) AcceptRequest(ctx context.Context, fromID, toID int64) error {
	return s.answer(ctx, fromID, toID, enum.FriendRequestStatusAccepted)
}

// DeclineRequest declines the pending request from fromID to toID. The
// declined row is kept as history.
func (s *SocialService) DeclineRequest(ctx context.Context, fromID, toID int64) error {
	return s.answer(ctx, fromID, toID, enum.FriendRequestStatusDeclined)
}

func (s *SocialService) answer(ctx context.Context, fromID, toID int64, status enum.FriendRequestStatus) error {
	now := s.clock.Now()

	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		ok, err := s.requests.Transition(ctx, tx, fromID, toID,
			enum.FriendRequestStatusPending, status, now)
		if err != nil {
			return err
		}
		if !ok {
			return types.ErrRequestNotFound
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to answer friend request: %w", err)
	}

	s.logger.Debug("Friend request answered",
		zap.Int64("fromUserID", fromID),
		zap.Int64("toUserID", toID),
		zap.String("status", status.String()))

	return nil
}

// CancelRequest withdraws the sender's pending request.
func (s *SocialService) CancelRequest(ctx context.Context, fromID, toID int64) error {
	err := s.remove(ctx, fromID, toID, enum.FriendRequestStatusPending, types.ErrRequestNotFound)
	if err != nil {
		return fmt.Errorf("failed to cancel friend request: %w", err)
	}
	return nil
}

// Unfollow removes the follow edge from followerID to followedID.
func (s *SocialService) Unfollow(ctx context.Context, followerID, followedID int64) error {
	err := s.remove(ctx, followerID, followedID, enum.FriendRequestStatusAccepted, types.ErrNotFollowing)
	if err != nil {
		return fmt.Errorf("failed to unfollow: %w", err)
	}
	return nil
}

// RemoveFollower removes the follow edge from followerID to userID.
func (s *SocialService) RemoveFollower(ctx context.Context, userID, followerID int64) error {
	err := s.remove(ctx, followerID, userID, enum.FriendRequestStatusAccepted, types.ErrNotFollower)
	if err != nil {
		return fmt.Errorf("failed to remove follower: %w", err)
	}
	return nil
}

func (s *SocialService) remove(
	ctx context.Context, fromID, toID int64, status enum.FriendRequestStatus, missing error,
) error {
	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		ok, err := s.requests.Delete(ctx, tx, fromID, toID, status)
		if err != nil {
			return err
		}
		if !ok {
			return missing
		}
		return nil
	})
}

// DirectFollow makes followerID follow followedID. A pending request in that
// direction is accepted, otherwise an accepted row is created. Following an
// already followed user does nothing. The followed user is notified only when
// a new edge appeared.
func (s *SocialService) DirectFollow(ctx context.Context, followerID, followedID int64) error {
	if followerID == followedID {
		return types.ErrSelfFollow
	}

	now := s.clock.Now()

	var (
		follower *types.User
		created  bool
	)
	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		var err error
		if follower, err = s.users.GetByID(ctx, tx, followerID); err != nil {
			return err
		}
		if _, err = s.users.GetByID(ctx, tx, followedID); err != nil {
			return err
		}

		created, err = s.follow(ctx, tx, followerID, followedID, now)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to follow: %w", err)
	}

	if created {
		s.notifier.Dispatch(ctx, notify.Follow(follower, followedID, now))
		s.logger.Debug("Follow edge created",
			zap.Int64("followerID", followerID),
			zap.Int64("followedID", followedID))
	}

	return nil
}

// follow establishes the edge inside tx and reports whether it is new.
func (s *SocialService) follow(ctx context.Context, tx bun.IDB, followerID, followedID int64, now time.Time) (bool, error) {
	accepted, err := s.requests.Transition(ctx, tx, followerID, followedID,
		enum.FriendRequestStatusPending, enum.FriendRequestStatusAccepted, now)
	if err != nil || accepted {
		return accepted, err
	}

	inserted, err := s.requests.CreateAcceptedIfAbsent(ctx, tx, followerID, followedID, now)
	if err != nil || inserted {
		return inserted, err
	}

	// A live row appeared concurrently. It is either already accepted, which
	// leaves nothing to do, or a pending request that can still be accepted.
	return s.requests.Transition(ctx, tx, followerID, followedID,
		enum.FriendRequestStatusPending, enum.FriendRequestStatusAccepted, now)
}

// Followers lists the users following userID, ordered by user ID.
func (s *SocialService) Followers(ctx context.Context, userID int64) ([]types.UserSummary, error) {
	if _, err := s.users.GetByID(ctx, s.db, userID); err != nil {
		return nil, fmt.Errorf("failed to get followers: %w", err)
	}
	return s.requests.GetFollowers(ctx, userID)
}

// Following lists the users userID follows, ordered by user ID.
func (s *SocialService) Following(ctx context.Context, userID int64) ([]types.UserSummary, error) {
	if _, err := s.users.GetByID(ctx, s.db, userID); err != nil {
		return nil, fmt.Errorf("failed to get following: %w", err)
	}
	return s.requests.GetFollowing(ctx, userID)
}

// MostFollowed ranks users by follower count, ties broken by ascending user ID.
func (s *SocialService) MostFollowed(ctx context.Context, n int) ([]types.FollowedUser, error) {
	if n <= 0 {
		return nil, types.ErrInvalidLimit
	}
	return s.requests.GetMostFollowed(ctx, n)
}

// PendingRequests lists the requests waiting for userID's answer.
func (s *SocialService) PendingRequests(ctx context.Context, userID int64) ([]types.FriendRequestView, error) {
	return s.requests.GetPendingIncoming(ctx, userID)
}

// ListNotifications returns the user's notifications, newest first.
func (s *SocialService) ListNotifications(ctx context.Context, userID int64, limit int) ([]*types.Notification, error) {
	if limit <= 0 {
		return nil, types.ErrInvalidLimit
	}
	return s.notifications.GetByUser(ctx, userID, limit)
}

// MarkNotificationRead marks one of the user's notifications as read.
func (s *SocialService) MarkNotificationRead(ctx context.Context, userID, notificationID int64) error {
	return s.notifications.MarkRead(ctx, userID, notificationID)
}

// ImportLegacyFollows converts follow edges from the retired direct-follow
// table into accepted friend requests. Existing edges are left untouched and
// pending requests in the same direction are accepted, so running the import
// twice changes nothing. No notifications are sent.
func (s *SocialService) ImportLegacyFollows(ctx context.Context, edges []types.FollowEdge) (*types.ImportResult, error) {
	now := s.clock.Now()
	result := &types.ImportResult{}

	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		for _, edge := range edges {
			if edge.FollowerID == edge.FollowedID {
				result.Skipped++
				continue
			}

			count, err := s.users.CountExisting(ctx, tx, edge.FollowerID, edge.FollowedID)
			if err != nil {
				return err
			}
			if count != 2 {
				s.logger.Warn("Skipping legacy follow with unknown user",
					zap.Int64("followerID", edge.FollowerID),
					zap.Int64("followedID", edge.FollowedID))
				result.Skipped++
				continue
			}

			accepted, err := s.requests.Transition(ctx, tx, edge.FollowerID, edge.FollowedID,
				enum.FriendRequestStatusPending, enum.FriendRequestStatusAccepted, now)
			if err != nil {
				return err
			}
			if accepted {
				result.Accepted++
				continue
			}

			inserted, err := s.requests.CreateAcceptedIfAbsent(ctx, tx, edge.FollowerID, edge.FollowedID, now)
			if err != nil {
				return err
			}
			if inserted {
				result.Created++
			} else {
				result.Skipped++
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to import legacy follows: %w", err)
	}

	s.logger.Info("Imported legacy follows",
		zap.Int("created", result.Created),
		zap.Int("accepted", result.Accepted),
		zap.Int("skipped", result.Skipped))

	return result, nil
}
