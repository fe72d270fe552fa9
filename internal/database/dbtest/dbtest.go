// Package dbtest provides an in-memory database with the full schema for tests.
package dbtest

import (
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/socialfolio/folio/internal/database/migrations"
	"github.com/socialfolio/folio/internal/database/types"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	_ "modernc.org/sqlite" // registers the "sqlite" database/sql driver
)

// New opens a private in-memory SQLite database with the schema applied.
// The database is closed when the test finishes.
func New(t *testing.T) *bun.DB {
	t.Helper()

	dsn := fmt.Sprintf(
		"file:%s?mode=memory&cache=shared&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)",
		uuid.NewString(),
	)

	sqldb, err := sql.Open("sqlite", dsn)
	require.NoError(t, err)

	// Concurrent callers queue for the single connection like writers do on SQLite
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, migrations.CreateSchema(t.Context(), db))

	return db
}

// CreateUser inserts a user with a username and email derived from name.
func CreateUser(t *testing.T, db *bun.DB, name string) *types.User {
	t.Helper()

	user := &types.User{
		Email:    name + "@example.com",
		Username: name,
	}
	_, err := db.NewInsert().Model(user).Exec(t.Context())
	require.NoError(t, err)

	return user
}

// CreateContest inserts a contest with the given window.
func CreateContest(t *testing.T, db *bun.DB, start, end time.Time, active bool) *types.Contest {
	t.Helper()

	contest := &types.Contest{
		Title:     "Contest " + start.Format(time.DateOnly),
		StartTime: start.UTC(),
		EndTime:   end.UTC(),
		IsActive:  active,
	}
	_, err := db.NewInsert().Model(contest).Exec(t.Context())
	require.NoError(t, err)

	return contest
}
