package convert

import (
	"github.com/socialfolio/folio/internal/database/types"
	restTypes "github.com/socialfolio/folio/internal/rest/types"
)

// UserSummary converts a user summary.
func UserSummary(u types.UserSummary) restTypes.UserSummary {
	return restTypes.UserSummary{
		ID:            u.ID,
		Username:      u.Username,
		ProfilePicURL: u.ProfilePicURL,
	}
}

// UserSummaries converts a list of user summaries, never returning nil.
func UserSummaries(users []types.UserSummary) []restTypes.UserSummary {
	result := make([]restTypes.UserSummary, 0, len(users))
	for _, u := range users {
		result = append(result, UserSummary(u))
	}
	return result
}

// FriendRequest converts a friend request.
func FriendRequest(req *types.FriendRequest) restTypes.FriendRequest {
	return restTypes.FriendRequest{
		ID:         req.ID,
		FromUserID: req.FromUserID,
		ToUserID:   req.ToUserID,
		Status:     req.Status.String(),
		CreatedAt:  req.CreatedAt,
	}
}

// IncomingRequests converts pending requests awaiting an answer.
func IncomingRequests(views []types.FriendRequestView) []restTypes.IncomingRequest {
	result := make([]restTypes.IncomingRequest, 0, len(views))
	for _, v := range views {
		result = append(result, restTypes.IncomingRequest{
			ID:        v.ID,
			From:      UserSummary(v.From),
			CreatedAt: v.CreatedAt,
		})
	}
	return result
}

// FollowedUsers converts the most-followed ranking.
func FollowedUsers(users []types.FollowedUser) []restTypes.FollowedUser {
	result := make([]restTypes.FollowedUser, 0, len(users))
	for _, u := range users {
		result = append(result, restTypes.FollowedUser{
			UserID:        u.UserID,
			Username:      u.Username,
			FollowerCount: u.FollowerCount,
		})
	}
	return result
}

// Notifications converts a list of notifications, never returning nil.
func Notifications(notifications []*types.Notification) []restTypes.Notification {
	result := make([]restTypes.Notification, 0, len(notifications))
	for _, n := range notifications {
		result = append(result, restTypes.Notification{
			ID:        n.ID,
			ActorID:   n.ActorID,
			Kind:      n.Kind.String(),
			Message:   n.Message,
			Read:      n.IsRead,
			CreatedAt: n.CreatedAt,
		})
	}
	return result
}
