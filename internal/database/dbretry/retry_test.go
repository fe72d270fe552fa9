package dbretry

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/socialfolio/folio/internal/database/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	initialInterval = time.Millisecond
	maxInterval = 5 * time.Millisecond
}

func TestOperationRetriesTransientErrors(t *testing.T) {
	t.Parallel()

	attempts := 0
	got, err := Operation(t.Context(), func(context.Context) (int, error) {
		attempts++
		if attempts < 3 {
			return 0, errors.New("read tcp: connection reset by peer")
		}
		return 42, nil
	})

	require.NoError(t, err)
	assert.Equal(t, 42, got)
	assert.Equal(t, 3, attempts)
}

func TestOperationStopsOnPermanentErrors(t *testing.T) {
	t.Parallel()

	attempts := 0
	_, err := Operation(t.Context(), func(context.Context) (int, error) {
		attempts++
		return 0, fmt.Errorf("failed to get user: %w", types.ErrUserNotFound)
	})

	require.Error(t, err)
	assert.Equal(t, 1, attempts)
	assert.ErrorIs(t, err, types.ErrUserNotFound)
}

func TestOperationGivesUp(t *testing.T) {
	t.Parallel()

	attempts := 0
	err := NoResult(t.Context(), func(context.Context) error {
		attempts++
		return errors.New("dial tcp: connection refused")
	})

	require.Error(t, err)
	assert.Equal(t, int(maxRetries)+1, attempts)
	assert.Contains(t, err.Error(), "after retries")
}

func TestIsRetryableError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"reset", errors.New("connection reset by peer"), true},
		{"timeout", errors.New("i/o timeout"), true},
		{"deadline", context.DeadlineExceeded, false},
		{"domain", types.ErrDuplicateVote, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, IsRetryableError(tt.err))
		})
	}
}

func TestIsUniqueViolationFallback(t *testing.T) {
	t.Parallel()

	assert.True(t, IsUniqueViolation(errors.New("UNIQUE constraint failed: votes.voter_id, votes.application_id")))
	assert.False(t, IsUniqueViolation(errors.New("no such table: votes")))
	assert.False(t, IsUniqueViolation(nil))
}
