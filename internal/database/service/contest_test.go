package service_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/socialfolio/folio/internal/database/dbtest"
	"github.com/socialfolio/folio/internal/database/service"
	"github.com/socialfolio/folio/internal/database/types"
	"github.com/socialfolio/folio/internal/database/types/enum"
	"github.com/sourcegraph/conc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const week = 7 * 24 * time.Hour

func TestApply(t *testing.T) {
	t.Parallel()
	f := setup(t, service.ContestOptions{})

	c := dbtest.CreateContest(t, f.db, start.Add(-time.Hour), start.Add(week), true)
	user := dbtest.CreateUser(t, f.db, "alice")

	app, err := f.contest.Apply(t.Context(), user.ID, " ALICE@example.com ", "images/alice.png")
	require.NoError(t, err)

	assert.NotZero(t, app.ID)
	assert.Equal(t, c.ID, app.ContestID)
	assert.Equal(t, enum.ApplicationStatusPending, app.Status)
	assert.True(t, start.Equal(app.AppliedAt))

	pending, err := f.contest.ListPendingApplications(t.Context())
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, app.ID, pending[0].ID)
}

func TestApplyErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		contest  func(t *testing.T, f *fixture)
		email    string
		image    string
		userID   func(user *types.User) int64
		wantErr  error
		wantKind types.Kind
	}{
		{
			name:     "missing email",
			email:    "",
			image:    "img.png",
			wantErr:  types.ErrMissingEmail,
			wantKind: types.KindInvalidArgument,
		},
		{
			name:     "missing image",
			email:    "bob@example.com",
			image:    "  ",
			wantErr:  types.ErrMissingImage,
			wantKind: types.KindInvalidArgument,
		},
		{
			name:     "unknown user",
			email:    "bob@example.com",
			image:    "img.png",
			userID:   func(*types.User) int64 { return 9999 },
			wantErr:  types.ErrUserNotFound,
			wantKind: types.KindNotFound,
		},
		{
			name:     "email mismatch",
			email:    "someone@example.com",
			image:    "img.png",
			wantErr:  types.ErrEmailMismatch,
			wantKind: types.KindInvalidArgument,
		},
		{
			name:     "no active contest",
			contest:  func(*testing.T, *fixture) {},
			email:    "bob@example.com",
			image:    "img.png",
			wantErr:  types.ErrNoActiveContest,
			wantKind: types.KindNotFound,
		},
		{
			name: "contest not started",
			contest: func(t *testing.T, f *fixture) {
				dbtest.CreateContest(t, f.db, start.Add(time.Hour), start.Add(week), true)
			},
			email:    "bob@example.com",
			image:    "img.png",
			wantErr:  types.ErrContestNotOpen,
			wantKind: types.KindInvalidState,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := setup(t, service.ContestOptions{})

			if tt.contest != nil {
				tt.contest(t, f)
			} else {
				dbtest.CreateContest(t, f.db, start.Add(-time.Hour), start.Add(week), true)
			}

			user := dbtest.CreateUser(t, f.db, "bob")
			userID := user.ID
			if tt.userID != nil {
				userID = tt.userID(user)
			}

			_, err := f.contest.Apply(t.Context(), userID, tt.email, tt.image)
			require.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, tt.wantKind, types.KindOf(err))
		})
	}
}

func TestApplyTwiceConflicts(t *testing.T) {
	t.Parallel()
	f := setup(t, service.ContestOptions{})

	dbtest.CreateContest(t, f.db, start.Add(-time.Hour), start.Add(week), true)
	user := dbtest.CreateUser(t, f.db, "carol")

	_, err := f.contest.Apply(t.Context(), user.ID, "carol@example.com", "first.png")
	require.NoError(t, err)

	_, err = f.contest.Apply(t.Context(), user.ID, "carol@example.com", "second.png")
	require.ErrorIs(t, err, types.ErrDuplicateApplication)
	assert.Equal(t, types.KindConflict, types.KindOf(err))
}

// newContestant creates an open contest and an application owned by a new user.
func newContestant(t *testing.T, f *fixture, name string) *types.Application {
	t.Helper()

	active, err := f.contest.GetActiveContest(t.Context())
	if err != nil {
		dbtest.CreateContest(t, f.db, start.Add(-time.Hour), start.Add(week), true)
	} else {
		require.NotNil(t, active)
	}

	owner := dbtest.CreateUser(t, f.db, name)
	app, err := f.contest.Apply(t.Context(), owner.ID, owner.Email, name+".png")
	require.NoError(t, err)

	return app
}

func TestCastVote(t *testing.T) {
	t.Parallel()
	f := setup(t, service.ContestOptions{})

	app := newContestant(t, f, "owner")
	voter := dbtest.CreateUser(t, f.db, "voter")

	vote, err := f.contest.CastVote(t.Context(), voter.ID, app.ID)
	require.NoError(t, err)
	assert.Equal(t, voter.ID, vote.VoterID)
	assert.True(t, start.Equal(vote.VotedAt))

	count, err := f.contest.CountFor(t.Context(), app.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	_, err = f.contest.CastVote(t.Context(), voter.ID, app.ID)
	require.ErrorIs(t, err, types.ErrDuplicateVote)
	assert.Equal(t, types.KindConflict, types.KindOf(err))
}

func TestCastVoteErrors(t *testing.T) {
	t.Parallel()
	f := setup(t, service.ContestOptions{})

	app := newContestant(t, f, "owner")
	voter := dbtest.CreateUser(t, f.db, "voter")

	_, err := f.contest.CastVote(t.Context(), 9999, app.ID)
	require.ErrorIs(t, err, types.ErrUserNotFound)

	_, err = f.contest.CastVote(t.Context(), voter.ID, 9999)
	require.ErrorIs(t, err, types.ErrApplicationNotFound)

	_, err = f.contest.CastVote(t.Context(), app.UserID, app.ID)
	require.ErrorIs(t, err, types.ErrSelfVote)
	assert.Equal(t, types.KindInvalidArgument, types.KindOf(err))

	count, err := f.contest.CountFor(t.Context(), app.ID)
	require.NoError(t, err)
	assert.Zero(t, count)

	_, err = f.contest.CountFor(t.Context(), 9999)
	require.ErrorIs(t, err, types.ErrApplicationNotFound)
}

func TestCastVoteWindowIsHalfOpen(t *testing.T) {
	t.Parallel()

	end := start.Add(week)
	tests := []struct {
		name    string
		now     time.Time
		wantErr error
	}{
		{"one second before end", end.Add(-time.Second), nil},
		{"exactly at end", end, types.ErrContestNotOpen},
		{"one hour after end", end.Add(time.Hour), types.ErrContestNotOpen},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := setup(t, service.ContestOptions{})

			app := newContestant(t, f, "owner")
			voter := dbtest.CreateUser(t, f.db, "voter")

			f.clock.Set(tt.now)
			_, err := f.contest.CastVote(t.Context(), voter.ID, app.ID)
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, types.KindInvalidState, types.KindOf(err))
		})
	}
}

func TestClosedContestCheckedBeforeSelfVote(t *testing.T) {
	t.Parallel()
	f := setup(t, service.ContestOptions{})

	app := newContestant(t, f, "owner")
	f.clock.Advance(2 * week)

	_, err := f.contest.CastVote(t.Context(), app.UserID, app.ID)
	require.ErrorIs(t, err, types.ErrContestNotOpen)
}

func TestConcurrentDuplicateVotes(t *testing.T) {
	t.Parallel()
	f := setup(t, service.ContestOptions{})

	app := newContestant(t, f, "owner")
	voter := dbtest.CreateUser(t, f.db, "voter")

	const attempts = 20
	var (
		wg         conc.WaitGroup
		successes  atomic.Int32
		duplicates atomic.Int32
		others     atomic.Int32
	)

	for range attempts {
		wg.Go(func() {
			_, err := f.contest.CastVote(context.Background(), voter.ID, app.ID)
			switch {
			case err == nil:
				successes.Add(1)
			case types.KindOf(err) == types.KindConflict:
				duplicates.Add(1)
			default:
				others.Add(1)
			}
		})
	}
	wg.Wait()

	assert.Equal(t, int32(1), successes.Load())
	assert.Equal(t, int32(attempts-1), duplicates.Load())
	assert.Zero(t, others.Load())

	count, err := f.contest.CountFor(t.Context(), app.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestCountForMatchesDistinctVoters(t *testing.T) {
	t.Parallel()
	f := setup(t, service.ContestOptions{})

	app := newContestant(t, f, "owner")

	var wg conc.WaitGroup
	for _, name := range []string{"v1", "v2", "v3", "v4", "v5"} {
		voter := dbtest.CreateUser(t, f.db, name)
		wg.Go(func() {
			_, err := f.contest.CastVote(context.Background(), voter.ID, app.ID)
			assert.NoError(t, err)
		})
	}
	wg.Wait()

	count, err := f.contest.CountFor(t.Context(), app.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, count)
}

// seedVotes appends n votes for an application from freshly created voters.
func seedVotes(t *testing.T, f *fixture, app *types.Application, prefix string, n int) {
	t.Helper()

	for i := range n {
		voter := dbtest.CreateUser(t, f.db, prefix+string(rune('a'+i)))
		_, err := f.db.NewInsert().Model(&types.Vote{
			VoterID:       voter.ID,
			ApplicationID: app.ID,
			VotedAt:       start,
		}).Exec(t.Context())
		require.NoError(t, err)
	}
}

func TestTopContestantsTieBreak(t *testing.T) {
	t.Parallel()
	f := setup(t, service.ContestOptions{})

	first := newContestant(t, f, "first")
	second := newContestant(t, f, "second")
	third := newContestant(t, f, "third")

	seedVotes(t, f, third, "x", 2)
	seedVotes(t, f, second, "y", 5)
	seedVotes(t, f, first, "z", 5)

	board, err := f.contest.TopContestants(t.Context(), 3)
	require.NoError(t, err)
	require.Len(t, board.Contestants, 3)

	assert.Equal(t, first.ID, board.Contestants[0].ApplicationID)
	assert.Equal(t, second.ID, board.Contestants[1].ApplicationID)
	assert.Equal(t, third.ID, board.Contestants[2].ApplicationID)
	assert.Equal(t, 5, board.Contestants[0].Votes)
	assert.Equal(t, 2, board.Contestants[2].Votes)
	assert.Equal(t, "first", board.Contestants[0].User.Username)
	require.NotNil(t, board.ContestEnd)
	assert.True(t, start.Add(week).Equal(*board.ContestEnd))

	again, err := f.contest.TopContestants(t.Context(), 3)
	require.NoError(t, err)
	assert.Equal(t, board.Contestants, again.Contestants)

	_, err = f.contest.TopContestants(t.Context(), 0)
	require.ErrorIs(t, err, types.ErrInvalidLimit)
}

func TestTopContestantsScope(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		all  bool
	}{
		{"active contest only", false},
		{"all contests", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := setup(t, service.ContestOptions{AllContestsLeaderboard: tt.all})

			// A finished contest whose application collected many votes.
			old := dbtest.CreateContest(t, f.db, start.Add(-4*week), start.Add(-3*week), false)
			veteran := dbtest.CreateUser(t, f.db, "veteran")
			oldApp := &types.Application{
				UserID:    veteran.ID,
				ContestID: old.ID,
				Status:    enum.ApplicationStatusApproved,
				ImageURL:  "old.png",
				AppliedAt: start.Add(-4 * week),
			}
			_, err := f.db.NewInsert().Model(oldApp).Exec(t.Context())
			require.NoError(t, err)
			seedVotes(t, f, oldApp, "o", 4)

			current := newContestant(t, f, "current")
			seedVotes(t, f, current, "c", 1)

			board, err := f.contest.TopContestants(t.Context(), 10)
			require.NoError(t, err)

			if tt.all {
				require.Len(t, board.Contestants, 2)
				assert.Equal(t, oldApp.ID, board.Contestants[0].ApplicationID)
			} else {
				require.Len(t, board.Contestants, 1)
				assert.Equal(t, current.ID, board.Contestants[0].ApplicationID)
			}
		})
	}
}

func TestTopContestantsWithoutContest(t *testing.T) {
	t.Parallel()
	f := setup(t, service.ContestOptions{})

	board, err := f.contest.TopContestants(t.Context(), 3)
	require.NoError(t, err)
	assert.Empty(t, board.Contestants)
	assert.Nil(t, board.ContestEnd)
}

func TestContestStatus(t *testing.T) {
	t.Parallel()
	f := setup(t, service.ContestOptions{})

	_, err := f.contest.ContestStatus(t.Context())
	require.ErrorIs(t, err, types.ErrNoActiveContest)

	approved := newContestant(t, f, "approved")
	newContestant(t, f, "pending")
	require.NoError(t, f.contest.SetApplicationStatus(t.Context(), approved.ID, enum.ApplicationStatusApproved))

	status, err := f.contest.ContestStatus(t.Context())
	require.NoError(t, err)
	assert.True(t, status.Active)
	assert.True(t, status.Open)
	assert.Equal(t, 1, status.TotalApplications)

	f.clock.Advance(2 * week)
	status, err = f.contest.ContestStatus(t.Context())
	require.NoError(t, err)
	assert.False(t, status.Open)
}

func TestContestAdministration(t *testing.T) {
	t.Parallel()
	f := setup(t, service.ContestOptions{})
	ctx := t.Context()

	_, err := f.contest.CreateContest(ctx, &types.ContestUpdate{
		Title: "Spring", StartTime: start, EndTime: start,
	})
	require.ErrorIs(t, err, types.ErrInvalidWindow)

	_, err = f.contest.CreateContest(ctx, &types.ContestUpdate{
		Title: " ", StartTime: start, EndTime: start.Add(week),
	})
	require.ErrorIs(t, err, types.ErrInvalidContestName)

	c, err := f.contest.CreateContest(ctx, &types.ContestUpdate{
		Title: "Spring", StartTime: start.Add(-time.Hour), EndTime: start.Add(week), IsActive: true,
	})
	require.NoError(t, err)

	active, err := f.contest.GetActiveContest(ctx)
	require.NoError(t, err)
	assert.Equal(t, c.ID, active.ID)

	_, err = f.contest.UpdateContest(ctx, 9999, &types.ContestUpdate{
		Title: "Missing", StartTime: start, EndTime: start.Add(week),
	})
	require.ErrorIs(t, err, types.ErrContestNotFound)

	_, err = f.contest.UpdateContest(ctx, c.ID, &types.ContestUpdate{
		Title: "Spring (closed)", StartTime: start.Add(-time.Hour), EndTime: start.Add(week),
	})
	require.NoError(t, err)

	_, err = f.contest.GetActiveContest(ctx)
	require.ErrorIs(t, err, types.ErrNoActiveContest)
}

func TestSetApplicationStatus(t *testing.T) {
	t.Parallel()
	f := setup(t, service.ContestOptions{})

	app := newContestant(t, f, "owner")

	require.ErrorIs(t,
		f.contest.SetApplicationStatus(t.Context(), app.ID, enum.ApplicationStatus("WINNER")),
		types.ErrInvalidStatus)
	require.ErrorIs(t,
		f.contest.SetApplicationStatus(t.Context(), 9999, enum.ApplicationStatusRejected),
		types.ErrApplicationNotFound)

	require.NoError(t, f.contest.SetApplicationStatus(t.Context(), app.ID, enum.ApplicationStatusApproved))

	approved, err := f.contest.ListApprovedApplications(t.Context())
	require.NoError(t, err)
	require.Len(t, approved, 1)
	assert.Equal(t, app.ID, approved[0].ID)

	pending, err := f.contest.ListApplications(t.Context(), app.ContestID, enum.ApplicationStatusPending)
	require.NoError(t, err)
	assert.Empty(t, pending)
}
