package notify_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/socialfolio/folio/internal/database/models"
	"github.com/socialfolio/folio/internal/database/dbtest"
	"github.com/socialfolio/folio/internal/database/types"
	"github.com/socialfolio/folio/internal/database/types/enum"
	"github.com/socialfolio/folio/internal/notify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

type recordingEmitter struct {
	mu   sync.Mutex
	got  []*types.Notification
	err  error
	wait time.Duration
}

func (e *recordingEmitter) Emit(ctx context.Context, n *types.Notification) error {
	if e.wait > 0 {
		select {
		case <-time.After(e.wait):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.got = append(e.got, n)
	return e.err
}

func (e *recordingEmitter) received() []*types.Notification {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]*types.Notification(nil), e.got...)
}

var (
	alice = &types.User{ID: 1, Username: "alice"}
	now   = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
)

func TestDispatcherDeliversToEveryEmitter(t *testing.T) {
	t.Parallel()

	first := &recordingEmitter{}
	second := &recordingEmitter{}
	d := notify.NewDispatcher(zaptest.NewLogger(t), time.Second, first, second)

	d.Dispatch(t.Context(), notify.FriendRequest(alice, 2, now))
	d.Close()

	for _, e := range []*recordingEmitter{first, second} {
		got := e.received()
		require.Len(t, got, 1)
		assert.Equal(t, int64(2), got[0].UserID)
		assert.Equal(t, enum.NotificationKindFriendRequest, got[0].Kind)
		assert.Equal(t, "alice sent you a friend request", got[0].Message)
	}
}

func TestDispatcherSurvivesCallerCancellation(t *testing.T) {
	t.Parallel()

	emitter := &recordingEmitter{wait: 20 * time.Millisecond}
	d := notify.NewDispatcher(zaptest.NewLogger(t), time.Second, emitter)

	ctx, cancel := context.WithCancel(t.Context())
	d.Dispatch(ctx, notify.Follow(alice, 3, now))
	cancel()
	d.Close()

	require.Len(t, emitter.received(), 1)
}

func TestDispatcherSwallowsEmitterErrors(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.WarnLevel)
	failing := &recordingEmitter{err: errors.New("redis down")}
	d := notify.NewDispatcher(zap.New(core), time.Second, failing)

	d.Dispatch(t.Context(), notify.Follow(alice, 3, now))
	d.Close()

	assert.Equal(t, 1, logs.FilterMessage("Failed to deliver notification").Len())
}

func TestDispatcherDropsAfterClose(t *testing.T) {
	t.Parallel()

	emitter := &recordingEmitter{}
	d := notify.NewDispatcher(zaptest.NewLogger(t), time.Second, emitter)
	d.Close()

	d.Dispatch(t.Context(), notify.Follow(alice, 3, now))
	assert.Empty(t, emitter.received())
}

func TestStoreEmitter(t *testing.T) {
	t.Parallel()

	db := dbtest.New(t)
	sender := dbtest.CreateUser(t, db, "sender")
	receiver := dbtest.CreateUser(t, db, "receiver")

	model := models.NewNotification(db, zaptest.NewLogger(t))
	emitter := notify.NewStoreEmitter(model)

	require.NoError(t, emitter.Emit(t.Context(), notify.FriendRequest(sender, receiver.ID, now)))
	require.NoError(t, emitter.Emit(t.Context(), notify.Follow(sender, receiver.ID, now.Add(time.Minute))))

	got, err := model.GetByUser(t.Context(), receiver.ID, 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, enum.NotificationKindFollow, got[0].Kind)
	assert.Equal(t, enum.NotificationKindFriendRequest, got[1].Kind)
	assert.False(t, got[0].IsRead)

	require.NoError(t, model.MarkRead(t.Context(), receiver.ID, got[0].ID))
	require.ErrorIs(t, model.MarkRead(t.Context(), sender.ID, got[1].ID), types.ErrNotificationNotFound)
}
