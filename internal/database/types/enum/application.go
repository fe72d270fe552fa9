package enum

// ApplicationStatus represents the review state of a voting application.
type ApplicationStatus string

const (
	ApplicationStatusPending  ApplicationStatus = "PENDING"
	ApplicationStatusApproved ApplicationStatus = "APPROVED"
	ApplicationStatusRejected ApplicationStatus = "REJECTED"
)

// Valid reports whether the status is one of the known values.
func (s ApplicationStatus) Valid() bool {
	switch s {
	case ApplicationStatusPending, ApplicationStatusApproved, ApplicationStatusRejected:
		return true
	default:
		return false
	}
}

// String returns the status as stored.
func (s ApplicationStatus) String() string {
	return string(s)
}
