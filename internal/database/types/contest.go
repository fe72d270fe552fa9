package types

import (
	"time"

	"github.com/socialfolio/folio/internal/database/types/enum"
	"github.com/uptrace/bun"
)

// Contest is a voting contest with a half-open window [StartTime, EndTime).
type Contest struct {
	bun.BaseModel `bun:"table:voting_contests,alias:vc"`

	ID          int64     `bun:",pk,autoincrement" json:"id"`
	Title       string    `bun:",notnull"          json:"title"`
	Description string    `bun:",nullzero"         json:"description,omitempty"`
	StartTime   time.Time `bun:",notnull"          json:"startTime"`
	EndTime     time.Time `bun:",notnull"          json:"endTime"`
	IsActive    bool      `bun:",notnull"          json:"isActive"`
}

// ContestUpdate carries the admin-editable fields of a contest.
type ContestUpdate struct {
	Title       string
	Description string
	StartTime   time.Time
	EndTime     time.Time
	IsActive    bool
}

// Application is a user's entry into a contest.
// The vote count is never stored here; it is derived from the vote ledger.
type Application struct {
	bun.BaseModel `bun:"table:voting_applications,alias:va"`

	ID        int64                  `bun:",pk,autoincrement"               json:"id"`
	UserID    int64                  `bun:",notnull,unique:user_contest"    json:"userId"`
	ContestID int64                  `bun:",notnull,unique:user_contest"    json:"contestId"`
	Status    enum.ApplicationStatus `bun:",notnull"                        json:"status"`
	ImageURL  string                 `bun:",notnull"                        json:"imageUrl"`
	AppliedAt time.Time              `bun:",notnull"                        json:"appliedAt"`
}

// Vote is one entry in the append-only vote ledger.
type Vote struct {
	bun.BaseModel `bun:"table:votes,alias:v"`

	ID            int64     `bun:",pk,autoincrement"                json:"id"`
	VoterID       int64     `bun:",notnull,unique:voter_application" json:"voterId"`
	ApplicationID int64     `bun:",notnull,unique:voter_application" json:"applicationId"`
	VotedAt       time.Time `bun:",notnull"                         json:"votedAt"`
}

// VoteCount is the derived number of votes for one application.
type VoteCount struct {
	ApplicationID int64 `bun:"application_id" json:"applicationId"`
	Votes         int   `bun:"votes"          json:"votes"`
}

// ApplicationEntry is an application joined with its owner's public profile.
type ApplicationEntry struct {
	ID            int64                  `bun:"id"`
	UserID        int64                  `bun:"user_id"`
	ContestID     int64                  `bun:"contest_id"`
	Status        enum.ApplicationStatus `bun:"status"`
	ImageURL      string                 `bun:"image_url"`
	Username      string                 `bun:"username"`
	ProfilePicURL string                 `bun:"profile_pic_url"`
}

// Contestant is one ranked leaderboard entry.
type Contestant struct {
	Rank          int                    `json:"rank"`
	ApplicationID int64                  `json:"applicationId"`
	User          UserSummary            `json:"user"`
	ImageURL      string                 `json:"imageUrl"`
	Status        enum.ApplicationStatus `json:"status"`
	Votes         int                    `json:"votes"`
}

// Leaderboard is the ranked result of a top-N query.
type Leaderboard struct {
	Contestants []Contestant `json:"contestants"`
	ContestEnd  *time.Time   `json:"contestEnd,omitempty"`
}

// ContestStatus summarizes the active contest.
type ContestStatus struct {
	Active            bool       `json:"active"`
	ContestID         int64      `json:"contestId,omitempty"`
	Title             string     `json:"title,omitempty"`
	StartTime         *time.Time `json:"startTime,omitempty"`
	EndTime           *time.Time `json:"endTime,omitempty"`
	Open              bool       `json:"open"`
	TotalApplications int        `json:"totalApplications"`
}
