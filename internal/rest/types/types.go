package types

import "time"

// ErrorResponse is the body of every failed request. Error is the generic
// status text and Message the specific reason.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// UserSummary is the public part of a user's profile.
type UserSummary struct {
	ID            int64  `json:"id"`
	Username      string `json:"username"`
	ProfilePicURL string `json:"profilePicUrl,omitempty"`
}

// ApplyRequest is the body of a contest application.
type ApplyRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	ImageURL string `json:"imageUrl" validate:"required,max=2048"`
}

// Application represents a contest application.
type Application struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	ContestID int64     `json:"contestId"`
	Status    string    `json:"status"`
	ImageURL  string    `json:"imageUrl"`
	AppliedAt time.Time `json:"appliedAt"`
}

// VoteRequest is the body of a vote.
type VoteRequest struct {
	ApplicationID int64 `json:"applicationId" validate:"required,gt=0"`
}

// Vote represents a recorded vote.
type Vote struct {
	ID            int64     `json:"id"`
	ApplicationID int64     `json:"applicationId"`
	VotedAt       time.Time `json:"votedAt"`
}

// VoteCountResponse is the number of votes of one application.
type VoteCountResponse struct {
	ApplicationID int64 `json:"applicationId"`
	Votes         int   `json:"votes"`
}

// Contestant is one leaderboard entry.
type Contestant struct {
	Rank          int         `json:"rank"`
	ApplicationID int64       `json:"applicationId"`
	User          UserSummary `json:"user"`
	ImageURL      string      `json:"imageUrl"`
	Status        string      `json:"status"`
	Votes         int         `json:"votes"`
}

// LeaderboardResponse is the response of the top contestants endpoint.
type LeaderboardResponse struct {
	Contestants []Contestant `json:"contestants"`
	ContestEnd  *time.Time   `json:"contestEnd,omitempty"`
}

// ContestStatusResponse summarizes the active contest.
type ContestStatusResponse struct {
	Active            bool       `json:"active"`
	ContestID         int64      `json:"contestId,omitempty"`
	Title             string     `json:"title,omitempty"`
	StartTime         *time.Time `json:"startTime,omitempty"`
	EndTime           *time.Time `json:"endTime,omitempty"`
	Open              bool       `json:"open"`
	TotalApplications int        `json:"totalApplications"`
}

// ContestRequest is the body used to create or update a contest.
type ContestRequest struct {
	Title       string    `json:"title"       validate:"required,max=200"`
	Description string    `json:"description" validate:"max=2000"`
	StartTime   time.Time `json:"startTime"   validate:"required"`
	EndTime     time.Time `json:"endTime"     validate:"required,gtfield=StartTime"`
	IsActive    bool      `json:"isActive"`
}

// Contest represents a voting contest.
type Contest struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	StartTime   time.Time `json:"startTime"`
	EndTime     time.Time `json:"endTime"`
	IsActive    bool      `json:"isActive"`
}

// ApplicationStatusRequest is the body of an application review decision.
type ApplicationStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=PENDING APPROVED REJECTED"`
}

// FriendRequest represents a friend request.
type FriendRequest struct {
	ID         int64     `json:"id"`
	FromUserID int64     `json:"fromUserId"`
	ToUserID   int64     `json:"toUserId"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"createdAt"`
}

// IncomingRequest is a pending request awaiting the caller's answer.
type IncomingRequest struct {
	ID        int64       `json:"id"`
	From      UserSummary `json:"from"`
	CreatedAt time.Time   `json:"createdAt"`
}

// FollowedUser is one entry of the most-followed ranking.
type FollowedUser struct {
	UserID        int64  `json:"userId"`
	Username      string `json:"username"`
	FollowerCount int    `json:"followerCount"`
}

// Notification represents a user notification.
type Notification struct {
	ID        int64     `json:"id"`
	ActorID   int64     `json:"actorId"`
	Kind      string    `json:"kind"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
}
