package domain

import "strings"

type ApplicationStatus string

const (
	StatusInterested         ApplicationStatus = "Interested"
	StatusApplied            ApplicationStatus = "Applied"
	StatusPhoneScreen        ApplicationStatus = "Phone Screen"
	StatusInterviewScheduled ApplicationStatus = "Interview Scheduled"
	StatusInterviewed        ApplicationStatus = "Interviewed"
	StatusOfferReceived      ApplicationStatus = "Offer Received"
	StatusAccepted           ApplicationStatus = "Accepted"
	StatusRejected           ApplicationStatus = "Rejected"
	StatusWithdrawn          ApplicationStatus = "Withdrawn"
)

// AllStatuses lists the closed status set in lifecycle order.
var AllStatuses = []ApplicationStatus{
	StatusInterested,
	StatusApplied,
	StatusPhoneScreen,
	StatusInterviewScheduled,
	StatusInterviewed,
	StatusOfferReceived,
	StatusAccepted,
	StatusRejected,
	StatusWithdrawn,
}

// ParseStatus matches s against the closed status set, ignoring case,
// surrounding space, underscores and hyphens ("offer_received" works).
func ParseStatus(s string) (ApplicationStatus, bool) {
	norm := normalizeStatusText(s)
	for _, st := range AllStatuses {
		if normalizeStatusText(string(st)) == norm {
			return st, true
		}
	}
	return "", false
}

func normalizeStatusText(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer("_", " ", "-", " ").Replace(s)
	return strings.Join(strings.Fields(s), " ")
}

// IsApplied reports whether the record represents a submitted application.
// Interested is a saved lead, not an application.
func (s ApplicationStatus) IsApplied() bool {
	return s != StatusInterested
}

type StatusSet map[ApplicationStatus]struct{}

func NewStatusSet(statuses ...ApplicationStatus) StatusSet {
	set := make(StatusSet, len(statuses))
	for _, st := range statuses {
		set[st] = struct{}{}
	}
	return set
}

func (s StatusSet) Has(status ApplicationStatus) bool {
	_, ok := s[status]
	return ok
}

// The three category sets are evaluated independently: Accepted is both
// successful and interviewing because each set measures a funnel stage.
var (
	SuccessfulStatuses = NewStatusSet(StatusOfferReceived, StatusAccepted)

	InterviewingStatuses = NewStatusSet(
		StatusPhoneScreen,
		StatusInterviewScheduled,
		StatusInterviewed,
		StatusOfferReceived,
		StatusAccepted,
	)

	RejectedStatuses = NewStatusSet(StatusRejected)
)
