package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/yigit/clubrecruit/internal/app/models"
	"github.com/yigit/clubrecruit/internal/pkg/apperrors"
)

// ThreadRepository is the in-memory comment_threads table
type ThreadRepository struct {
	s *Store
}

func (r *ThreadRepository) GetOrCreate(ctx context.Context, thread *models.CommentThread) (*models.CommentThread, bool, error) {
	defer r.s.lock(ctx)()

	if thread.Type == models.ThreadTypeReview && thread.ApplicationID == nil {
		return nil, false, apperrors.NewValidationError("review thread requires an application")
	}
	if thread.Type != models.ThreadTypeForum && thread.Type != models.ThreadTypeReview {
		return nil, false, apperrors.NewValidationError(fmt.Sprintf("unknown thread type %q", thread.Type))
	}

	for _, t := range r.s.data.threads {
		if sameOwner(t, thread) {
			return cloneThread(t), false, nil
		}
	}

	created := cloneThread(thread)
	created.ID = r.s.nextID()
	created.CommentCount = 0
	created.CreatedAt = r.s.now()
	r.s.data.threads[created.ID] = created
	return cloneThread(created), true, nil
}

func sameOwner(a, b *models.CommentThread) bool {
	if a.Type != b.Type {
		return false
	}
	if a.Type == models.ThreadTypeForum {
		return a.ClubID == b.ClubID
	}
	return a.ApplicationID != nil && b.ApplicationID != nil && *a.ApplicationID == *b.ApplicationID
}

func (r *ThreadRepository) GetByID(ctx context.Context, id int64) (*models.CommentThread, error) {
	defer r.s.lock(ctx)()

	t, ok := r.s.data.threads[id]
	if !ok {
		return nil, apperrors.ErrThreadNotFound
	}
	return cloneThread(t), nil
}

func (r *ThreadRepository) SetLocked(ctx context.Context, id int64, locked bool) (*models.CommentThread, error) {
	defer r.s.lock(ctx)()

	t, ok := r.s.data.threads[id]
	if !ok {
		return nil, apperrors.ErrThreadNotFound
	}
	t.Locked = locked
	return cloneThread(t), nil
}

func (r *ThreadRepository) IncrementCommentCount(ctx context.Context, id int64) error {
	defer r.s.lock(ctx)()

	t, ok := r.s.data.threads[id]
	if !ok {
		return apperrors.ErrThreadNotFound
	}
	t.CommentCount++
	return nil
}

// CommentRepository is the in-memory comments table
type CommentRepository struct {
	s *Store
}

func (r *CommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	defer r.s.lock(ctx)()

	if _, ok := r.s.data.threads[comment.ThreadID]; !ok {
		return apperrors.ErrThreadNotFound
	}
	now := r.s.now()
	comment.ID = r.s.nextID()
	comment.Deleted = false
	comment.CreatedAt = now
	comment.UpdatedAt = now
	r.s.data.comments[comment.ID] = cloneComment(comment)
	return nil
}

func (r *CommentRepository) GetByID(ctx context.Context, id int64) (*models.Comment, error) {
	defer r.s.lock(ctx)()

	c, ok := r.s.data.comments[id]
	if !ok {
		return nil, apperrors.ErrCommentNotFound
	}
	return cloneComment(c), nil
}

func (r *CommentRepository) ListByThread(ctx context.Context, threadID int64) ([]*models.Comment, error) {
	defer r.s.lock(ctx)()

	out := []*models.Comment{}
	for _, c := range r.s.data.comments {
		if c.ThreadID == threadID {
			out = append(out, cloneComment(c))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *CommentRepository) UpdateContent(ctx context.Context, id int64, body string, stars *int) (*models.Comment, error) {
	defer r.s.lock(ctx)()

	c, ok := r.s.data.comments[id]
	if !ok {
		return nil, apperrors.ErrCommentNotFound
	}
	if c.Deleted {
		return nil, apperrors.ErrCommentDeleted
	}
	c.Body = body
	c.Stars = clonePtr(stars)
	c.UpdatedAt = r.s.now()
	return cloneComment(c), nil
}

func (r *CommentRepository) SoftDelete(ctx context.Context, id int64) (*models.Comment, error) {
	defer r.s.lock(ctx)()

	c, ok := r.s.data.comments[id]
	if !ok {
		return nil, apperrors.ErrCommentNotFound
	}
	if !c.Deleted {
		c.Tombstone()
		c.UpdatedAt = r.s.now()
	}
	return cloneComment(c), nil
}
