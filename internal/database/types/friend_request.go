package types

import (
	"time"

	"github.com/socialfolio/folio/internal/database/types/enum"
	"github.com/uptrace/bun"
)

// FriendRequest is a directed follow request. An ACCEPTED row is a follow edge
// from FromUserID to ToUserID; at most one PENDING or ACCEPTED row exists per pair.
type FriendRequest struct {
	bun.BaseModel `bun:"table:friend_requests,alias:fr"`

	ID         int64                    `bun:",pk,autoincrement" json:"id"`
	FromUserID int64                    `bun:",notnull"          json:"fromUserId"`
	ToUserID   int64                    `bun:",notnull"          json:"toUserId"`
	Status     enum.FriendRequestStatus `bun:",notnull"          json:"status"`
	CreatedAt  time.Time                `bun:",notnull"          json:"createdAt"`
	UpdatedAt  time.Time                `bun:",notnull"          json:"updatedAt"`
}

// FollowEdge is a directed follow relationship used by the legacy import.
type FollowEdge struct {
	FollowerID int64
	FollowedID int64
}

// FollowedUser is one entry of the most-followed ranking.
type FollowedUser struct {
	UserID        int64  `bun:"user_id"        json:"userId"`
	Username      string `bun:"username"       json:"username"`
	FollowerCount int    `bun:"follower_count" json:"followerCount"`
}

// ImportResult reports what a legacy follow import did.
type ImportResult struct {
	Created  int `json:"created"`
	Accepted int `json:"accepted"`
	Skipped  int `json:"skipped"`
}

// FriendRequestView is an incoming friend request with the sender's profile.
type FriendRequestView struct {
	ID        int64       `json:"id"`
	From      UserSummary `json:"from"`
	CreatedAt time.Time   `json:"createdAt"`
}
