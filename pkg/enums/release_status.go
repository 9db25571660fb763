package enums

import "fmt"

// ReleaseStatus tracks a music submission through the review-to-live workflow.
type ReleaseStatus string

const (
	ReleaseStatusPendingReview     ReleaseStatus = "pending_review"
	ReleaseStatusApproved          ReleaseStatus = "approved"
	ReleaseStatusRejected          ReleaseStatus = "rejected"
	ReleaseStatusLive              ReleaseStatus = "live"
	ReleaseStatusTakedownRequested ReleaseStatus = "takedown_requested"
	ReleaseStatusTakedownCompleted ReleaseStatus = "takedown_completed"
)

var validReleaseStatuses = []ReleaseStatus{
	ReleaseStatusPendingReview,
	ReleaseStatusApproved,
	ReleaseStatusRejected,
	ReleaseStatusLive,
	ReleaseStatusTakedownRequested,
	ReleaseStatusTakedownCompleted,
}

// releaseTransitions is the authoritative forward-only transition table.
// Rejected and takedown_completed are terminal.
var releaseTransitions = map[ReleaseStatus][]ReleaseStatus{
	ReleaseStatusPendingReview:     {ReleaseStatusApproved, ReleaseStatusRejected},
	ReleaseStatusApproved:          {ReleaseStatusLive},
	ReleaseStatusLive:              {ReleaseStatusTakedownRequested},
	ReleaseStatusTakedownRequested: {ReleaseStatusTakedownCompleted},
}

// String implements fmt.Stringer.
func (s ReleaseStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known ReleaseStatus.
func (s ReleaseStatus) IsValid() bool {
	for _, candidate := range validReleaseStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// CanTransitionTo reports whether the workflow permits moving to next.
func (s ReleaseStatus) CanTransitionTo(next ReleaseStatus) bool {
	for _, candidate := range releaseTransitions[s] {
		if candidate == next {
			return true
		}
	}
	return false
}

// ParseReleaseStatus converts raw input into a ReleaseStatus.
func ParseReleaseStatus(value string) (ReleaseStatus, error) {
	for _, candidate := range validReleaseStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid release status %q", value)
}
