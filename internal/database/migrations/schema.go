package migrations

import (
	"context"
	"fmt"

	"github.com/socialfolio/folio/internal/database/types"
	"github.com/uptrace/bun"
)

// LivePairIndex is the partial unique index that allows at most one PENDING
// or ACCEPTED friend request per ordered pair.
const LivePairIndex = "friend_requests_live_pair_idx"

// LivePairPredicate is the predicate of LivePairIndex.
const LivePairPredicate = "status IN ('PENDING', 'ACCEPTED')"

type table struct {
	model       any
	foreignKeys []string
}

var tables = []table{
	{model: (*types.User)(nil)},
	{model: (*types.Contest)(nil)},
	{
		model: (*types.Application)(nil),
		foreignKeys: []string{
			`("user_id") REFERENCES "users" ("id") ON DELETE CASCADE`,
			`("contest_id") REFERENCES "voting_contests" ("id") ON DELETE CASCADE`,
		},
	},
	{
		model: (*types.Vote)(nil),
		foreignKeys: []string{
			`("voter_id") REFERENCES "users" ("id") ON DELETE CASCADE`,
			`("application_id") REFERENCES "voting_applications" ("id") ON DELETE CASCADE`,
		},
	},
	{
		model: (*types.FriendRequest)(nil),
		foreignKeys: []string{
			`("from_user_id") REFERENCES "users" ("id") ON DELETE CASCADE`,
			`("to_user_id") REFERENCES "users" ("id") ON DELETE CASCADE`,
		},
	},
	{
		model: (*types.Notification)(nil),
		foreignKeys: []string{
			`("user_id") REFERENCES "users" ("id") ON DELETE CASCADE`,
		},
	},
}

type index struct {
	model   any
	name    string
	columns []string
	unique  bool
	where   string
}

var indexes = []index{
	{model: (*types.Application)(nil), name: "voting_applications_contest_status_idx", columns: []string{"contest_id", "status"}},
	{model: (*types.Vote)(nil), name: "votes_application_idx", columns: []string{"application_id"}},
	{model: (*types.Contest)(nil), name: "voting_contests_active_idx", columns: []string{"is_active", "start_time"}},
	{
		model:   (*types.FriendRequest)(nil),
		name:    LivePairIndex,
		columns: []string{"from_user_id", "to_user_id"},
		unique:  true,
		where:   LivePairPredicate,
	},
	{model: (*types.FriendRequest)(nil), name: "friend_requests_to_status_idx", columns: []string{"to_user_id", "status"}},
	{model: (*types.FriendRequest)(nil), name: "friend_requests_from_status_idx", columns: []string{"from_user_id", "status"}},
	{model: (*types.Notification)(nil), name: "notifications_user_created_idx", columns: []string{"user_id", "created_at"}},
}

// CreateSchema creates every table and index used by the service.
// It works against both the PostgreSQL and SQLite dialects.
func CreateSchema(ctx context.Context, db bun.IDB) error {
	for _, t := range tables {
		q := db.NewCreateTable().Model(t.model).IfNotExists()
		for _, fk := range t.foreignKeys {
			q = q.ForeignKey(fk)
		}

		if _, err := q.Exec(ctx); err != nil {
			return fmt.Errorf("failed to create table %T: %w", t.model, err)
		}
	}

	for _, idx := range indexes {
		q := db.NewCreateIndex().
			Model(idx.model).
			Index(idx.name).
			Column(idx.columns...).
			IfNotExists()
		if idx.unique {
			q = q.Unique()
		}
		if idx.where != "" {
			q = q.Where(idx.where)
		}

		if _, err := q.Exec(ctx); err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}
	}

	return nil
}

// DropSchema drops every table in reverse dependency order.
func DropSchema(ctx context.Context, db bun.IDB) error {
	for i := len(tables) - 1; i >= 0; i-- {
		_, err := db.NewDropTable().
			Model(tables[i].model).
			IfExists().
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to drop table %T: %w", tables[i].model, err)
		}
	}

	return nil
}
