// Package service implements the contest and social graph operations on top
// of the database models. Every state-changing operation runs in a single
// transaction and reads the clock once.
package service

import (
	"context"

	"github.com/socialfolio/folio/internal/database/types"
)

// Notifier delivers notifications after the operation that caused them has committed.
type Notifier interface {
	Dispatch(ctx context.Context, n *types.Notification)
}

// NopNotifier discards every notification.
type NopNotifier struct{}

// Dispatch implements Notifier.
func (NopNotifier) Dispatch(context.Context, *types.Notification) {}
