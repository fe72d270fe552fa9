// Package notify delivers best-effort user notifications once the state change
// behind them has committed. Delivery failures are logged and never reach the
// caller.
package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/socialfolio/folio/internal/database/types"
	"github.com/socialfolio/folio/internal/database/types/enum"
	"github.com/sourcegraph/conc"
	"go.uber.org/zap"
)

// Emitter delivers a notification to one destination.
type Emitter interface {
	Emit(ctx context.Context, n *types.Notification) error
}

// Dispatcher fans notifications out to its emitters in the background.
type Dispatcher struct {
	emitters []Emitter
	timeout  time.Duration
	logger   *zap.Logger

	wg     conc.WaitGroup
	mu     sync.RWMutex
	closed bool
}

// NewDispatcher creates a dispatcher delivering to every given emitter.
func NewDispatcher(logger *zap.Logger, timeout time.Duration, emitters ...Emitter) *Dispatcher {
	return &Dispatcher{
		emitters: emitters,
		timeout:  timeout,
		logger:   logger.Named("notify"),
	}
}

// Dispatch delivers n to every emitter without blocking the caller. The
// delivery outlives ctx's cancellation but is bounded by the dispatcher timeout.
func (d *Dispatcher) Dispatch(ctx context.Context, n *types.Notification) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.logger.Warn("Dropping notification after shutdown",
			zap.Int64("userID", n.UserID),
			zap.String("kind", n.Kind.String()))
		return
	}

	detached := context.WithoutCancel(ctx)
	for _, emitter := range d.emitters {
		d.wg.Go(func() {
			ctx, cancel := context.WithTimeout(detached, d.timeout)
			defer cancel()

			if err := emitter.Emit(ctx, n); err != nil {
				d.logger.Warn("Failed to deliver notification",
					zap.Int64("userID", n.UserID),
					zap.String("kind", n.Kind.String()),
					zap.String("emitter", fmt.Sprintf("%T", emitter)),
					zap.Error(err))
			}
		})
	}
}

// Close stops accepting notifications and waits for pending deliveries.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()

	if r := d.wg.WaitAndRecover(); r != nil {
		d.logger.Error("Notification delivery panicked", zap.Any("panic", r.Value))
	}
}

// FriendRequest builds the notification sent to the receiver of a friend request.
func FriendRequest(sender *types.User, receiverID int64, now time.Time) *types.Notification {
	return &types.Notification{
		UserID:    receiverID,
		ActorID:   sender.ID,
		Kind:      enum.NotificationKindFriendRequest,
		Message:   sender.Username + " sent you a friend request",
		CreatedAt: now,
	}
}

// Follow builds the notification sent to a user who gained a follower.
func Follow(follower *types.User, followedID int64, now time.Time) *types.Notification {
	return &types.Notification{
		UserID:    followedID,
		ActorID:   follower.ID,
		Kind:      enum.NotificationKindFollow,
		Message:   follower.Username + " started following you",
		CreatedAt: now,
	}
}
