package models_test

import (
	"testing"
	"time"

	"github.com/socialfolio/folio/internal/database/dbtest"
	"github.com/socialfolio/folio/internal/database/models"
	"github.com/socialfolio/folio/internal/database/types"
	"github.com/socialfolio/folio/internal/database/types/enum"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

var windowStart = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

func newApplication(userID, contestID int64) *types.Application {
	return &types.Application{
		UserID:    userID,
		ContestID: contestID,
		Status:    enum.ApplicationStatusPending,
		ImageURL:  "https://img.example.com/entry.png",
		AppliedAt: windowStart.Add(time.Hour),
	}
}

func TestApplicationCreateRejectsSecondEntry(t *testing.T) {
	t.Parallel()

	db := dbtest.New(t)
	apps := models.NewApplication(db, zaptest.NewLogger(t))

	alice := dbtest.CreateUser(t, db, "alice")
	first := dbtest.CreateContest(t, db, windowStart, windowStart.Add(7*24*time.Hour), true)
	second := dbtest.CreateContest(t, db, windowStart.Add(30*24*time.Hour), windowStart.Add(37*24*time.Hour), false)

	require.NoError(t, apps.Create(t.Context(), db, newApplication(alice.ID, first.ID)))

	// Written without the existence check, so only the storage constraint can object.
	err := apps.Create(t.Context(), db, newApplication(alice.ID, first.ID))
	require.ErrorIs(t, err, types.ErrDuplicateApplication)
	assert.Equal(t, types.KindConflict, types.KindOf(err))

	// The constraint is per contest.
	require.NoError(t, apps.Create(t.Context(), db, newApplication(alice.ID, second.ID)))

	count, err := apps.CountByContestAndStatus(t.Context(), first.ID, enum.ApplicationStatusPending)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestVoteCreateRejectsSecondVote(t *testing.T) {
	t.Parallel()

	db := dbtest.New(t)
	logger := zaptest.NewLogger(t)
	apps := models.NewApplication(db, logger)
	votes := models.NewVote(db, logger)

	alice := dbtest.CreateUser(t, db, "alice")
	bob := dbtest.CreateUser(t, db, "bob")
	carol := dbtest.CreateUser(t, db, "carol")
	contest := dbtest.CreateContest(t, db, windowStart, windowStart.Add(7*24*time.Hour), true)

	aliceApp := newApplication(alice.ID, contest.ID)
	require.NoError(t, apps.Create(t.Context(), db, aliceApp))
	carolApp := newApplication(carol.ID, contest.ID)
	require.NoError(t, apps.Create(t.Context(), db, carolApp))

	vote := func(voterID, applicationID int64) error {
		return votes.Create(t.Context(), db, &types.Vote{
			VoterID:       voterID,
			ApplicationID: applicationID,
			VotedAt:       windowStart.Add(2 * time.Hour),
		})
	}

	require.NoError(t, vote(bob.ID, aliceApp.ID))

	err := vote(bob.ID, aliceApp.ID)
	require.ErrorIs(t, err, types.ErrDuplicateVote)
	assert.Equal(t, types.KindConflict, types.KindOf(err))

	// Other pairs are unaffected.
	require.NoError(t, vote(bob.ID, carolApp.ID))
	require.NoError(t, vote(carol.ID, aliceApp.ID))

	count, err := votes.CountFor(t.Context(), aliceApp.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	counts, err := votes.CountByContest(t.Context(), &contest.ID)
	require.NoError(t, err)
	assert.Equal(t, map[int64]int{aliceApp.ID: 2, carolApp.ID: 1}, counts)
}
