package models

import "time"

// ApplicationStatus is the review status of an application
type ApplicationStatus string

const (
	ApplicationSubmitted   ApplicationStatus = "SUBMITTED"
	ApplicationUnderReview ApplicationStatus = "UNDER_REVIEW"
	ApplicationAccepted    ApplicationStatus = "ACCEPTED"
	ApplicationRejected    ApplicationStatus = "REJECTED"
	ApplicationWithdrawn   ApplicationStatus = "WITHDRAWN"
)

// Valid reports whether s is a known status. Transitions between statuses are not constrained.
func (s ApplicationStatus) Valid() bool {
	switch s {
	case ApplicationSubmitted, ApplicationUnderReview, ApplicationAccepted, ApplicationRejected, ApplicationWithdrawn:
		return true
	}
	return false
}

// Application links an applicant to an open role. One per (applicant, role) pair.
type Application struct {
	ID          int64             `json:"id" db:"id"`
	ApplicantID int64             `json:"applicantId" db:"applicant_id"`
	OpenRoleID  int64             `json:"openRoleId" db:"open_role_id"`
	Status      ApplicationStatus `json:"status" db:"status"`
	Answers     map[string]string `json:"answers" db:"answers"`
	CreatedAt   time.Time         `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time         `json:"updatedAt" db:"updated_at"`
}
