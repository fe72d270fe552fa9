package enum

// FriendRequestStatus represents the state of a friend request.
// Only ACCEPTED rows count as follow edges.
type FriendRequestStatus string

const (
	FriendRequestStatusPending  FriendRequestStatus = "PENDING"
	FriendRequestStatusAccepted FriendRequestStatus = "ACCEPTED"
	FriendRequestStatusDeclined FriendRequestStatus = "DECLINED"
)

// Live reports whether a row in this status occupies the pair slot.
func (s FriendRequestStatus) Live() bool {
	return s == FriendRequestStatusPending || s == FriendRequestStatusAccepted
}

// String returns the status as stored.
func (s FriendRequestStatus) String() string {
	return string(s)
}
