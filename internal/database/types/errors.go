package types

import "errors"

// Kind classifies a domain error so transports can map it to a response.
type Kind string

const (
	KindNotFound        Kind = "not_found"
	KindConflict        Kind = "conflict"
	KindInvalidState    Kind = "invalid_state"
	KindInvalidArgument Kind = "invalid_argument"
	KindUnauthenticated Kind = "unauthenticated"
	KindUnauthorized    Kind = "unauthorized"
	KindInternal        Kind = "internal"
)

// Error is a domain error carrying its kind and a human readable reason.
type Error struct {
	Kind    Kind
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// NewError creates a typed domain error.
func NewError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

var (
	ErrUserNotFound         = NewError(KindNotFound, "user not found")
	ErrContestNotFound      = NewError(KindNotFound, "contest not found")
	ErrNoActiveContest      = NewError(KindNotFound, "no active contest")
	ErrApplicationNotFound  = NewError(KindNotFound, "application not found")
	ErrRequestNotFound      = NewError(KindNotFound, "friend request not found")
	ErrNotificationNotFound = NewError(KindNotFound, "notification not found")

	ErrDuplicateApplication = NewError(KindConflict, "user has already applied to this contest")
	ErrDuplicateVote        = NewError(KindConflict, "user has already voted for this application")
	ErrRequestAlreadySent   = NewError(KindConflict, "friend request already sent")
	ErrAlreadyFollowing     = NewError(KindConflict, "already following this user")
	ErrDuplicateUser        = NewError(KindConflict, "email or username already taken")

	ErrContestNotOpen = NewError(KindInvalidState, "contest is not open")
	ErrNotFollowing   = NewError(KindInvalidState, "not following this user")
	ErrNotFollower    = NewError(KindInvalidState, "user is not a follower")

	ErrSelfVote           = NewError(KindInvalidArgument, "cannot vote for your own application")
	ErrSelfRequest        = NewError(KindInvalidArgument, "cannot send a friend request to yourself")
	ErrSelfFollow         = NewError(KindInvalidArgument, "cannot follow yourself")
	ErrEmailMismatch      = NewError(KindInvalidArgument, "email does not match the user")
	ErrMissingEmail       = NewError(KindInvalidArgument, "email is required")
	ErrMissingImage       = NewError(KindInvalidArgument, "image is required")
	ErrInvalidStatus      = NewError(KindInvalidArgument, "invalid application status")
	ErrInvalidContestName = NewError(KindInvalidArgument, "contest title is required")
	ErrInvalidWindow      = NewError(KindInvalidArgument, "contest start must be before its end")
	ErrInvalidLimit       = NewError(KindInvalidArgument, "limit must be positive")

	ErrUnauthenticated = NewError(KindUnauthenticated, "authentication required")
	ErrUnauthorized    = NewError(KindUnauthorized, "not allowed")
)

// KindOf returns the kind of the first typed error in err's chain.
// Untyped errors are internal.
func KindOf(err error) Kind {
	var typed *Error
	if errors.As(err, &typed) {
		return typed.Kind
	}
	return KindInternal
}

// MessageOf returns the reason of the first typed error in err's chain.
func MessageOf(err error) string {
	var typed *Error
	if errors.As(err, &typed) {
		return typed.Message
	}
	return "internal error"
}
