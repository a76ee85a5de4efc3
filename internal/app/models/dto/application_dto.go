package dto

import (
	"time"

	"github.com/yigit/clubrecruit/internal/app/models"
)

// SubmitApplicationRequest carries answers keyed by question text
type SubmitApplicationRequest struct {
	Answers map[string]string `json:"answers"`
}

// UpdateApplicationStatusRequest sets the review status of an application
type UpdateApplicationStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=SUBMITTED UNDER_REVIEW ACCEPTED REJECTED WITHDRAWN"`
}

// ApplicationResponse is an application as seen by its applicant or the club leaders
type ApplicationResponse struct {
	ID          int64             `json:"id"`
	ApplicantID int64             `json:"applicantId"`
	OpenRoleID  int64             `json:"openRoleId"`
	Status      string            `json:"status"`
	Answers     map[string]string `json:"answers"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

// NewApplicationResponse renders an application
func NewApplicationResponse(a *models.Application) ApplicationResponse {
	answers := a.Answers
	if answers == nil {
		answers = map[string]string{}
	}
	return ApplicationResponse{
		ID:          a.ID,
		ApplicantID: a.ApplicantID,
		OpenRoleID:  a.OpenRoleID,
		Status:      string(a.Status),
		Answers:     answers,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}
