package models

import "time"

// ThreadType distinguishes club forums from application reviews
type ThreadType string

const (
	ThreadTypeForum  ThreadType = "FORUM"
	ThreadTypeReview ThreadType = "REVIEW"
)

// Visibility is the access tier of a thread
type Visibility string

const (
	VisibilityPublic         Visibility = "PUBLIC"
	VisibilityClubApplicants Visibility = "CLUB_APPLICANTS"
	VisibilityClubLeaders    Visibility = "CLUB_LEADERS"
)

// Star rating bounds for review comments
const (
	MinStars = 1
	MaxStars = 5
)

// DeletedCommentBody replaces the body of a soft-deleted comment
const DeletedCommentBody = "[deleted]"

// CommentThread is a discussion attached to a club (FORUM) or an application (REVIEW).
// ClubID is the owning club for both kinds.
type CommentThread struct {
	ID            int64      `json:"id" db:"id"`
	Type          ThreadType `json:"type" db:"type"`
	ClubID        int64      `json:"clubId" db:"club_id"`
	ApplicationID *int64     `json:"applicationId,omitempty" db:"application_id"`
	Title         string     `json:"title" db:"title"`
	Visibility    Visibility `json:"visibility" db:"visibility"`
	Locked        bool       `json:"locked" db:"locked"`
	CommentCount  int64      `json:"commentCount" db:"comment_count"`
	CreatedBy     int64      `json:"createdBy" db:"created_by"`
	CreatedAt     time.Time  `json:"createdAt" db:"created_at"`
}

// Comment is a single post in a thread. ParentID nil means top-level.
type Comment struct {
	ID        int64     `json:"id" db:"id"`
	ThreadID  int64     `json:"threadId" db:"thread_id"`
	ParentID  *int64    `json:"parentId,omitempty" db:"parent_id"`
	AuthorID  int64     `json:"authorId" db:"author_id"`
	Body      string    `json:"body" db:"body"`
	Stars     *int      `json:"stars,omitempty" db:"stars"`
	Deleted   bool      `json:"deleted" db:"deleted"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// IsTopLevel reports whether the comment has no parent
func (c *Comment) IsTopLevel() bool {
	return c.ParentID == nil
}

// Tombstone marks the comment deleted and clears its content. AuthorID is kept.
func (c *Comment) Tombstone() {
	c.Deleted = true
	c.Body = DeletedCommentBody
	c.Stars = nil
}
