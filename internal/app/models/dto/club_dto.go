package dto

import (
	"time"

	"github.com/yigit/clubrecruit/internal/app/models"
)

// CreateClubRequest is the payload for creating a club
type CreateClubRequest struct {
	Name            string  `json:"name" binding:"required,max=120"`
	Description     string  `json:"description" binding:"max=2000"`
	Position        string  `json:"position" binding:"required,max=80"`
	Bio             *string `json:"bio" binding:"omitempty,max=1000"`
	ProfilePhotoURL *string `json:"profilePhotoUrl" binding:"omitempty,url"`
}

// JoinRequest is the payload for requesting to join a club as an exec
type JoinRequest struct {
	Position        string  `json:"position" binding:"required,max=80"`
	Bio             *string `json:"bio" binding:"omitempty,max=1000"`
	ProfilePhotoURL *string `json:"profilePhotoUrl" binding:"omitempty,url"`
}

// ClubResponse is the public view of a club
type ClubResponse struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	SuperadminID int64     `json:"superadminId"`
	ExecCount    int       `json:"execCount"`
	CreatedAt    time.Time `json:"createdAt"`
}

// ClubListResponse is a page of clubs
type ClubListResponse struct {
	Clubs          []ClubResponse `json:"clubs"`
	PaginationInfo PaginationInfo `json:"paginationInfo"`
}

// ExecResponse is a club leader or a pending request as shown to members
type ExecResponse struct {
	UserID          int64   `json:"userId"`
	Name            string  `json:"name"`
	Position        *string `json:"position,omitempty"`
	Bio             *string `json:"bio,omitempty"`
	ProfilePhotoURL *string `json:"profilePhotoUrl,omitempty"`
	Superadmin      bool    `json:"superadmin"`
}

// CreateOpenRoleRequest is the payload for opening a recruiting role
type CreateOpenRoleRequest struct {
	Title       string    `json:"title" binding:"required,max=120"`
	Description string    `json:"description" binding:"max=4000"`
	Deadline    time.Time `json:"deadline" binding:"required"`
	Questions   []string  `json:"questions" binding:"omitempty,dive,required,max=500"`
}

// OpenRoleResponse is an open role as listed to students
type OpenRoleResponse struct {
	ID          int64     `json:"id"`
	ClubID      int64     `json:"clubId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Deadline    time.Time `json:"deadline"`
	Questions   []string  `json:"questions"`
	Closed      bool      `json:"closed"`
	CreatedAt   time.Time `json:"createdAt"`
}

// NewClubResponse renders a club
func NewClubResponse(c *models.Club) ClubResponse {
	return ClubResponse{
		ID:           c.ID,
		Name:         c.Name,
		Description:  c.Description,
		SuperadminID: c.SuperadminID(),
		ExecCount:    len(c.Execs),
		CreatedAt:    c.CreatedAt,
	}
}

// NewExecResponse renders a member of club
func NewExecResponse(u *models.User, club *models.Club) ExecResponse {
	return ExecResponse{
		UserID:          u.ID,
		Name:            u.FullName(),
		Position:        u.ExecPosition,
		Bio:             u.Bio,
		ProfilePhotoURL: u.ProfilePhotoURL,
		Superadmin:      club.IsSuperadmin(u.ID),
	}
}

// NewOpenRoleResponse renders an open role, computing Closed at now
func NewOpenRoleResponse(r *models.OpenRole, now time.Time) OpenRoleResponse {
	questions := r.Questions
	if questions == nil {
		questions = []string{}
	}
	return OpenRoleResponse{
		ID:          r.ID,
		ClubID:      r.ClubID,
		Title:       r.Title,
		Description: r.Description,
		Deadline:    r.Deadline,
		Questions:   questions,
		Closed:      r.Closed(now),
		CreatedAt:   r.CreatedAt,
	}
}
