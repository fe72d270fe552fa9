package contest_test

import (
	"testing"
	"time"

	"github.com/socialfolio/folio/internal/contest"
	"github.com/socialfolio/folio/internal/database/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

var base = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func newContest(id int64, start, end time.Time, active bool) *types.Contest {
	return &types.Contest{ID: id, Title: "contest", StartTime: start, EndTime: end, IsActive: active}
}

func TestIsOpenHalfOpenWindow(t *testing.T) {
	t.Parallel()

	end := base.Add(24 * time.Hour)
	c := newContest(1, base, end, true)

	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"one second before end", end.Add(-time.Second), true},
		{"exactly at end", end, false},
		{"one hour after end", end.Add(time.Hour), false},
		{"exactly at start", base, true},
		{"before start", base.Add(-time.Nanosecond), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, contest.IsOpen(c, tt.now))
		})
	}

	assert.False(t, contest.IsOpen(newContest(2, base, end, false), base.Add(time.Hour)))
	assert.False(t, contest.IsOpen(nil, base))
}

func TestResolveActive(t *testing.T) {
	t.Parallel()

	day := 24 * time.Hour
	now := base.Add(2 * day)

	tests := []struct {
		name     string
		contests []*types.Contest
		wantID   int64
		degraded bool
	}{
		{
			name:     "single in window",
			contests: []*types.Contest{newContest(1, base, base.Add(5*day), true)},
			wantID:   1,
		},
		{
			name: "latest start wins",
			contests: []*types.Contest{
				newContest(1, base, base.Add(5*day), true),
				newContest(2, base.Add(day), base.Add(5*day), true),
			},
			wantID: 2,
		},
		{
			name: "equal start goes to lowest id",
			contests: []*types.Contest{
				newContest(7, base.Add(day), base.Add(5*day), true),
				newContest(3, base.Add(day), base.Add(4*day), true),
			},
			wantID: 3,
		},
		{
			name: "inactive contests ignored",
			contests: []*types.Contest{
				newContest(1, base.Add(day), base.Add(5*day), false),
				newContest(2, base, base.Add(5*day), true),
			},
			wantID: 2,
		},
		{
			name: "fallback to lowest active id",
			contests: []*types.Contest{
				newContest(9, base.Add(10*day), base.Add(20*day), true),
				newContest(4, base.Add(-10*day), base.Add(-5*day), true),
			},
			wantID:   4,
			degraded: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			core, logs := observer.New(zap.WarnLevel)
			m := contest.NewWindowManager(zap.New(core))

			got := m.ResolveActive(tt.contests, now)
			require.NotNil(t, got)
			assert.Equal(t, tt.wantID, got.ID)

			if tt.degraded {
				assert.Equal(t, 1, logs.FilterMessageSnippet("degraded").Len())
			} else {
				assert.Equal(t, 0, logs.Len())
			}
		})
	}
}

func TestResolveActiveNone(t *testing.T) {
	t.Parallel()

	m := contest.NewWindowManager(zap.NewNop())
	assert.Nil(t, m.ResolveActive(nil, base))
	assert.Nil(t, m.ResolveActive([]*types.Contest{newContest(1, base, base.Add(time.Hour), false)}, base))
}
