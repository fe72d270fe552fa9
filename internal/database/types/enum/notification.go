package enum

// NotificationKind represents the type of a user notification.
type NotificationKind string

const (
	NotificationKindFriendRequest NotificationKind = "FRIEND_REQUEST"
	NotificationKindFollow        NotificationKind = "FOLLOW"
)

// String returns the kind as stored.
func (k NotificationKind) String() string {
	return string(k)
}
