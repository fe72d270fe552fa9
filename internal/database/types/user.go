package types

import "github.com/uptrace/bun"

// User is the identity record owned by the profile service. The core only reads it.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID            int64  `bun:",pk,autoincrement"  json:"id"`
	Email         string `bun:",notnull,unique"    json:"email"`
	Username      string `bun:",notnull,unique"    json:"username"`
	ProfilePicURL string `bun:",nullzero"          json:"profilePicUrl,omitempty"`
}

// UserSummary is the public projection of a user in follow listings.
type UserSummary struct {
	ID            int64  `bun:"id"              json:"id"`
	Username      string `bun:"username"        json:"username"`
	ProfilePicURL string `bun:"profile_pic_url" json:"profilePicUrl,omitempty"`
}

// Summary returns the public projection of the user.
func (u *User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Username: u.Username, ProfilePicURL: u.ProfilePicURL}
}
