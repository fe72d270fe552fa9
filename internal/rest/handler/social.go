package handler

import (
	"context"
	"net/http"

	"github.com/socialfolio/folio/internal/database/service"
	"github.com/socialfolio/folio/internal/rest/convert"
	"github.com/socialfolio/folio/internal/rest/respond"
	"github.com/uptrace/bunrouter"
	"go.uber.org/zap"
)

// SocialHandler handles friend request and follow graph endpoints. The
// target user is always the :id path parameter.
type SocialHandler struct {
	social       *service.SocialService
	defaultLimit int
	maxLimit     int
	logger       *zap.Logger
}

// NewSocialHandler creates a new social handler.
func NewSocialHandler(social *service.SocialService, defaultLimit, maxLimit int, logger *zap.Logger) *SocialHandler {
	return &SocialHandler{
		social:       social,
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
		logger:       logger.Named("social_handler"),
	}
}

// pair returns the caller and the target user of a request.
func pair(req bunrouter.Request) (int64, int64, error) {
	me, err := callerID(req.Context())
	if err != nil {
		return 0, 0, err
	}
	other, err := pathID(req, "id")
	if err != nil {
		return 0, 0, err
	}
	return me, other, nil
}

// edgeAction adapts a caller/target operation with no response body.
func (h *SocialHandler) edgeAction(
	action func(ctx context.Context, me, other int64) error,
) bunrouter.HandlerFunc {
	return func(w http.ResponseWriter, req bunrouter.Request) error {
		me, other, err := pair(req)
		if err != nil {
			return respond.Error(w, h.logger, err)
		}

		if err := action(req.Context(), me, other); err != nil {
			return respond.Error(w, h.logger, err)
		}

		w.WriteHeader(http.StatusNoContent)
		return nil
	}
}

// SendRequest sends a friend request from the caller to the target.
func (h *SocialHandler) SendRequest(w http.ResponseWriter, req bunrouter.Request) error {
	me, other, err := pair(req)
	if err != nil {
		return respond.Error(w, h.logger, err)
	}

	fr, err := h.social.SendRequest(req.Context(), me, other)
	if err != nil {
		return respond.Error(w, h.logger, err)
	}

	return respond.JSON(w, http.StatusCreated, convert.FriendRequest(fr))
}

// CancelRequest withdraws the caller's pending request to the target.
func (h *SocialHandler) CancelRequest(w http.ResponseWriter, req bunrouter.Request) error {
	return h.edgeAction(h.social.CancelRequest)(w, req)
}

// AcceptRequest accepts the target's pending request to the caller.
func (h *SocialHandler) AcceptRequest(w http.ResponseWriter, req bunrouter.Request) error {
	return h.edgeAction(func(ctx context.Context, me, other int64) error {
		return h.social.AcceptRequest(ctx, other, me)
	})(w, req)
}

// DeclineRequest declines the target's pending request to the caller.
func (h *SocialHandler) DeclineRequest(w http.ResponseWriter, req bunrouter.Request) error {
	return h.edgeAction(func(ctx context.Context, me, other int64) error {
		return h.social.DeclineRequest(ctx, other, me)
	})(w, req)
}

// Follow makes the caller follow the target directly.
func (h *SocialHandler) Follow(w http.ResponseWriter, req bunrouter.Request) error {
	return h.edgeAction(h.social.DirectFollow)(w, req)
}

// Unfollow removes the caller's follow edge to the target.
func (h *SocialHandler) Unfollow(w http.ResponseWriter, req bunrouter.Request) error {
	return h.edgeAction(h.social.Unfollow)(w, req)
}

// RemoveFollower removes the target from the caller's followers.
func (h *SocialHandler) RemoveFollower(w http.ResponseWriter, req bunrouter.Request) error {
	return h.edgeAction(h.social.RemoveFollower)(w, req)
}

// Followers lists the users following the target.
func (h *SocialHandler) Followers(w http.ResponseWriter, req bunrouter.Request) error {
	userID, err := pathID(req, "id")
	if err != nil {
		return respond.Error(w, h.logger, err)
	}

	users, err := h.social.Followers(req.Context(), userID)
	if err != nil {
		return respond.Error(w, h.logger, err)
	}

	return bunrouter.JSON(w, convert.UserSummaries(users))
}

// Following lists the users the target follows.
func (h *SocialHandler) Following(w http.ResponseWriter, req bunrouter.Request) error {
	userID, err := pathID(req, "id")
	if err != nil {
		return respond.Error(w, h.logger, err)
	}

	users, err := h.social.Following(req.Context(), userID)
	if err != nil {
		return respond.Error(w, h.logger, err)
	}

	return bunrouter.JSON(w, convert.UserSummaries(users))
}

// MostFollowed ranks users by follower count.
func (h *SocialHandler) MostFollowed(w http.ResponseWriter, req bunrouter.Request) error {
	n, err := queryLimit(req, "n", h.defaultLimit, h.maxLimit)
	if err != nil {
		return respond.Error(w, h.logger, err)
	}

	users, err := h.social.MostFollowed(req.Context(), n)
	if err != nil {
		return respond.Error(w, h.logger, err)
	}

	return bunrouter.JSON(w, convert.FollowedUsers(users))
}

// PendingRequests lists the requests awaiting the caller's answer.
func (h *SocialHandler) PendingRequests(w http.ResponseWriter, req bunrouter.Request) error {
	me, err := callerID(req.Context())
	if err != nil {
		return respond.Error(w, h.logger, err)
	}

	views, err := h.social.PendingRequests(req.Context(), me)
	if err != nil {
		return respond.Error(w, h.logger, err)
	}

	return bunrouter.JSON(w, convert.IncomingRequests(views))
}
