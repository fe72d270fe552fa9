package models_test

import (
	"testing"

	"github.com/socialfolio/folio/internal/database/dbtest"
	"github.com/socialfolio/folio/internal/database/models"
	"github.com/socialfolio/folio/internal/database/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestUserModel(t *testing.T) {
	t.Parallel()

	db := dbtest.New(t)
	users := models.NewUser(db, zaptest.NewLogger(t))

	alice := &types.User{Email: "Alice@Example.com", Username: "alice"}
	require.NoError(t, users.Create(t.Context(), alice))
	require.NotZero(t, alice.ID)

	t.Run("lookup by email ignores case", func(t *testing.T) {
		t.Parallel()

		got, err := users.GetByEmail(t.Context(), "alice@example.com")
		require.NoError(t, err)
		assert.Equal(t, alice.ID, got.ID)
	})

	t.Run("unknown email", func(t *testing.T) {
		t.Parallel()

		_, err := users.GetByEmail(t.Context(), "nobody@example.com")
		require.ErrorIs(t, err, types.ErrUserNotFound)
	})

	t.Run("lookup by id", func(t *testing.T) {
		t.Parallel()

		got, err := users.GetByID(t.Context(), db, alice.ID)
		require.NoError(t, err)
		assert.Equal(t, "alice", got.Username)

		_, err = users.GetByID(t.Context(), db, alice.ID+100)
		require.ErrorIs(t, err, types.ErrUserNotFound)
	})

	t.Run("count existing", func(t *testing.T) {
		t.Parallel()

		count, err := users.CountExisting(t.Context(), db, alice.ID, alice.ID+100)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})
}

func TestUserModelDuplicate(t *testing.T) {
	t.Parallel()

	db := dbtest.New(t)
	users := models.NewUser(db, zaptest.NewLogger(t))

	require.NoError(t, users.Create(t.Context(), &types.User{Email: "bob@example.com", Username: "bob"}))

	err := users.Create(t.Context(), &types.User{Email: "bob@example.com", Username: "bobby"})
	require.ErrorIs(t, err, types.ErrDuplicateUser)
	assert.Equal(t, types.KindConflict, types.KindOf(err))
}
