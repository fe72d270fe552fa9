package notify

import (
	"context"
	"fmt"
	"strconv"

	"github.com/bytedance/sonic"
	"github.com/redis/rueidis"
	"github.com/socialfolio/folio/internal/database/types"
)

// RedisPublisher publishes notifications on a per-user channel and keeps a
// bounded inbox list per user for clients that were offline.
type RedisPublisher struct {
	client    rueidis.Client
	prefix    string
	inboxSize int64
}

// NewRedisPublisher creates a publisher using keys under prefix.
func NewRedisPublisher(client rueidis.Client, prefix string, inboxSize int) *RedisPublisher {
	return &RedisPublisher{
		client:    client,
		prefix:    prefix,
		inboxSize: int64(inboxSize),
	}
}

// ChannelKey returns the pub/sub channel for a user.
func (p *RedisPublisher) ChannelKey(userID int64) string {
	return p.prefix + ":channel:" + strconv.FormatInt(userID, 10)
}

// InboxKey returns the inbox list key for a user.
func (p *RedisPublisher) InboxKey(userID int64) string {
	return p.prefix + ":inbox:" + strconv.FormatInt(userID, 10)
}

// Emit pushes the notification to the user's inbox and publishes it.
func (p *RedisPublisher) Emit(ctx context.Context, n *types.Notification) error {
	payload, err := sonic.MarshalString(n)
	if err != nil {
		return fmt.Errorf("failed to encode notification: %w", err)
	}

	inbox := p.InboxKey(n.UserID)
	cmds := rueidis.Commands{
		p.client.B().Lpush().Key(inbox).Element(payload).Build(),
		p.client.B().Ltrim().Key(inbox).Start(0).Stop(p.inboxSize - 1).Build(),
		p.client.B().Publish().Channel(p.ChannelKey(n.UserID)).Message(payload).Build(),
	}

	for _, resp := range p.client.DoMulti(ctx, cmds...) {
		if err := resp.Error(); err != nil {
			return fmt.Errorf("failed to publish notification: %w", err)
		}
	}

	return nil
}

// Inbox returns up to limit of the user's most recent notifications from Redis.
func (p *RedisPublisher) Inbox(ctx context.Context, userID int64, limit int) ([]*types.Notification, error) {
	raw, err := p.client.Do(ctx, p.client.B().Lrange().
		Key(p.InboxKey(userID)).
		Start(0).
		Stop(int64(limit)-1).
		Build()).AsStrSlice()
	if err != nil {
		return nil, fmt.Errorf("failed to read inbox: %w", err)
	}

	notifications := make([]*types.Notification, 0, len(raw))
	for _, item := range raw {
		var n types.Notification
		if err := sonic.UnmarshalString(item, &n); err != nil {
			return nil, fmt.Errorf("failed to decode notification: %w", err)
		}
		notifications = append(notifications, &n)
	}

	return notifications, nil
}
