package domain

import "fmt"

// Status is the pipeline stage of a job application.
type Status string

const (
	StatusApplied    Status = "Applied"
	StatusScreening  Status = "Screening"
	StatusInterview  Status = "Interview"
	StatusOffer      Status = "Offer"
	StatusRejected   Status = "Rejected"
	StatusAccepted   Status = "Accepted"
	StatusWithdrawn  Status = "Withdrawn"
	StatusNoResponse Status = "No Response"
)

// Statuses lists every status in pipeline order.
var Statuses = []Status{
	StatusApplied,
	StatusScreening,
	StatusInterview,
	StatusOffer,
	StatusRejected,
	StatusAccepted,
	StatusWithdrawn,
	StatusNoResponse,
}

// Valid reports whether s belongs to the fixed enumeration.
func (s Status) Valid() bool {
	for _, known := range Statuses {
		if s == known {
			return true
		}
	}
	return false
}

// Archived reports whether applications in this status are hidden from the
// default (active) view.
func (s Status) Archived() bool {
	switch s {
	case StatusRejected, StatusWithdrawn, StatusNoResponse:
		return true
	default:
		return false
	}
}

// ParseStatus converts s to a Status, rejecting anything outside the enumeration.
func ParseStatus(s string) (Status, error) {
	status := Status(s)
	if !status.Valid() {
		return "", fmt.Errorf("unknown status %q", s)
	}
	return status, nil
}
