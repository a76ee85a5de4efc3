package dto

import (
	"time"

	"github.com/yigit/clubrecruit/internal/app/models"
)

// CreateCommentRequest is the payload for posting a comment
type CreateCommentRequest struct {
	Body     string `json:"body" binding:"required"`
	ParentID *int64 `json:"parentId" binding:"omitempty,min=1"`
	Stars    *int   `json:"stars"`
}

// EditCommentRequest updates body and/or stars independently.
// A nil field is left unchanged; ClearStars removes an existing rating and excludes Stars.
type EditCommentRequest struct {
	Body       *string `json:"body"`
	Stars      *int    `json:"stars"`
	ClearStars bool    `json:"clearStars"`
}

// LockThreadRequest sets the locked flag of a thread
type LockThreadRequest struct {
	Locked *bool `json:"locked" binding:"required"`
}

// ThreadResponse is a comment thread header
type ThreadResponse struct {
	ID            int64     `json:"id"`
	Type          string    `json:"type"`
	ClubID        int64     `json:"clubId"`
	ApplicationID *int64    `json:"applicationId,omitempty"`
	Title         string    `json:"title"`
	Visibility    string    `json:"visibility"`
	Locked        bool      `json:"locked"`
	CommentCount  int64     `json:"commentCount"`
	CreatedBy     int64     `json:"createdBy"`
	CreatedAt     time.Time `json:"createdAt"`
}

// NewThreadResponse renders a thread
func NewThreadResponse(t *models.CommentThread) ThreadResponse {
	return ThreadResponse{
		ID:            t.ID,
		Type:          string(t.Type),
		ClubID:        t.ClubID,
		ApplicationID: t.ApplicationID,
		Title:         t.Title,
		Visibility:    string(t.Visibility),
		Locked:        t.Locked,
		CommentCount:  t.CommentCount,
		CreatedBy:     t.CreatedBy,
		CreatedAt:     t.CreatedAt,
	}
}

// AuthorResponse is the display identity of a comment author
type AuthorResponse struct {
	ID              int64    `json:"id"`
	Name            string   `json:"name"`
	ProfilePhotoURL *string  `json:"profilePhotoUrl,omitempty"`
	Roles           []string `json:"roles"`
}

// CommentResponse is a comment as rendered to clients. Author is nil for deleted comments.
type CommentResponse struct {
	ID        int64           `json:"id"`
	ThreadID  int64           `json:"threadId"`
	ParentID  *int64          `json:"parentId,omitempty"`
	Body      string          `json:"body"`
	Stars     *int            `json:"stars,omitempty"`
	Deleted   bool            `json:"deleted"`
	Author    *AuthorResponse `json:"author"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// NewCommentResponse renders a comment with its resolved author
func NewCommentResponse(c *models.Comment, author *models.User) CommentResponse {
	resp := CommentResponse{
		ID:        c.ID,
		ThreadID:  c.ThreadID,
		ParentID:  c.ParentID,
		Body:      c.Body,
		Stars:     c.Stars,
		Deleted:   c.Deleted,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
	if c.Deleted || author == nil {
		return resp
	}
	roles := make([]string, 0, len(author.Roles))
	for _, r := range author.Roles {
		roles = append(roles, string(r))
	}
	resp.Author = &AuthorResponse{
		ID:              author.ID,
		Name:            author.FullName(),
		ProfilePhotoURL: author.ProfilePhotoURL,
		Roles:           roles,
	}
	return resp
}
