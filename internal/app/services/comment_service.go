package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/clubrecruit/internal/app/auth"
	"github.com/yigit/clubrecruit/internal/app/models"
	"github.com/yigit/clubrecruit/internal/app/models/dto"
	"github.com/yigit/clubrecruit/internal/app/repositories"
	"github.com/yigit/clubrecruit/internal/pkg/apperrors"
	"github.com/yigit/clubrecruit/internal/pkg/metrics"
)

// CommentService defines comment operations inside a thread
type CommentService interface {
	ListComments(ctx context.Context, userID, threadID int64) ([]dto.CommentResponse, error)
	CreateComment(ctx context.Context, userID, threadID int64, req *dto.CreateCommentRequest) (*dto.CommentResponse, error)
	EditComment(ctx context.Context, userID, commentID int64, req *dto.EditCommentRequest) (*dto.CommentResponse, error)
	DeleteComment(ctx context.Context, userID, commentID int64) (*dto.CommentResponse, error)
}

// commentServiceImpl implements CommentService
type commentServiceImpl struct {
	tx           repositories.Transactor
	userRepo     repositories.UserRepository
	clubRepo     repositories.ClubRepository
	threadRepo   repositories.ThreadRepository
	commentRepo  repositories.CommentRepository
	authzService *auth.AuthorizationService
	metrics      *metrics.Metrics
	logger       zerolog.Logger
}

// NewCommentService creates a new CommentService
func NewCommentService(
	repos *repositories.Repositories,
	authzService *auth.AuthorizationService,
	m *metrics.Metrics,
	logger zerolog.Logger,
) CommentService {
	return &commentServiceImpl{
		tx:           repos.Transactor,
		userRepo:     repos.Users,
		clubRepo:     repos.Clubs,
		threadRepo:   repos.Threads,
		commentRepo:  repos.Comments,
		authzService: authzService,
		metrics:      m,
		logger:       logger,
	}
}

// validateStars enforces that ratings exist only on top-level review comments and lie in [1,5]
func validateStars(thread *models.CommentThread, parentID *int64, stars *int) error {
	if stars == nil {
		return nil
	}
	if thread.Type != models.ThreadTypeReview {
		return apperrors.NewValidationError("star ratings are only allowed on review threads")
	}
	if parentID != nil {
		return apperrors.NewValidationError("star ratings are only allowed on top-level comments")
	}
	if *stars < models.MinStars || *stars > models.MaxStars {
		return apperrors.NewValidationError(fmt.Sprintf("stars must be between %d and %d", models.MinStars, models.MaxStars))
	}
	return nil
}

func normalizeBody(body string) (string, error) {
	trimmed := strings.TrimSpace(body)
	if trimmed == "" {
		return "", apperrors.NewValidationError("comment body cannot be empty")
	}
	return trimmed, nil
}

// ListComments returns every comment of the thread oldest first, tombstones included
func (s *commentServiceImpl) ListComments(ctx context.Context, userID, threadID int64) ([]dto.CommentResponse, error) {
	s.logger.Debug().Int64("userID", userID).Int64("threadID", threadID).Msg("Listing comments")

	thread, err := s.threadRepo.GetByID(ctx, threadID)
	if err != nil {
		return nil, wrapRepoError(s.logger, err, "failed to get thread")
	}
	if err := s.authzService.ValidateThreadAccess(ctx, userID, thread); err != nil {
		return nil, wrapRepoError(s.logger, err, "failed to check thread access")
	}

	comments, err := s.commentRepo.ListByThread(ctx, threadID)
	if err != nil {
		return nil, wrapRepoError(s.logger, err, "failed to list comments")
	}

	authorIDs := make([]int64, 0, len(comments))
	seen := make(map[int64]struct{}, len(comments))
	for _, c := range comments {
		if c.Deleted {
			continue
		}
		if _, ok := seen[c.AuthorID]; !ok {
			seen[c.AuthorID] = struct{}{}
			authorIDs = append(authorIDs, c.AuthorID)
		}
	}
	authors, err := s.userRepo.GetByIDs(ctx, authorIDs)
	if err != nil {
		return nil, wrapRepoError(s.logger, err, "failed to load comment authors")
	}

	out := make([]dto.CommentResponse, 0, len(comments))
	for _, c := range comments {
		out = append(out, dto.NewCommentResponse(c, authors[c.AuthorID]))
	}
	return out, nil
}

// CreateComment posts a comment in a thread the caller can access
func (s *commentServiceImpl) CreateComment(ctx context.Context, userID, threadID int64, req *dto.CreateCommentRequest) (*dto.CommentResponse, error) {
	s.logger.Debug().Int64("userID", userID).Int64("threadID", threadID).Msg("Creating comment")

	thread, err := s.threadRepo.GetByID(ctx, threadID)
	if err != nil {
		return nil, wrapRepoError(s.logger, err, "failed to get thread")
	}
	if err := s.authzService.ValidateThreadAccess(ctx, userID, thread); err != nil {
		return nil, wrapRepoError(s.logger, err, "failed to check thread access")
	}
	if thread.Locked {
		return nil, apperrors.Wrap(apperrors.ErrThreadLocked, "thread is locked")
	}

	body, err := normalizeBody(req.Body)
	if err != nil {
		return nil, err
	}
	if req.ParentID != nil {
		parent, err := s.commentRepo.GetByID(ctx, *req.ParentID)
		if err != nil {
			if apperrors.Is(err, apperrors.ErrCommentNotFound) {
				return nil, apperrors.NewValidationError("parent comment does not exist")
			}
			return nil, wrapRepoError(s.logger, err, "failed to get parent comment")
		}
		if parent.ThreadID != thread.ID {
			return nil, apperrors.NewValidationError("parent comment belongs to a different thread")
		}
	}
	if err := validateStars(thread, req.ParentID, req.Stars); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		ThreadID: thread.ID,
		ParentID: req.ParentID,
		AuthorID: userID,
		Body:     body,
		Stars:    req.Stars,
	}
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.commentRepo.Create(ctx, comment); err != nil {
			return err
		}
		return s.threadRepo.IncrementCommentCount(ctx, thread.ID)
	})
	if err != nil {
		return nil, wrapRepoError(s.logger, err, "failed to create comment")
	}

	s.metrics.CommentsCreated.WithLabelValues(string(thread.Type)).Inc()

	author, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, wrapRepoError(s.logger, err, "failed to load comment author")
	}
	resp := dto.NewCommentResponse(comment, author)
	return &resp, nil
}

// EditComment updates body and/or stars of the caller's own comment. Lock state does not apply.
func (s *commentServiceImpl) EditComment(ctx context.Context, userID, commentID int64, req *dto.EditCommentRequest) (*dto.CommentResponse, error) {
	s.logger.Debug().Int64("userID", userID).Int64("commentID", commentID).Msg("Editing comment")

	if req.Body == nil && req.Stars == nil && !req.ClearStars {
		return nil, apperrors.NewValidationError("nothing to update")
	}
	if req.ClearStars && req.Stars != nil {
		return nil, apperrors.NewValidationError("stars and clearStars cannot be combined")
	}

	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return nil, wrapRepoError(s.logger, err, "failed to get comment")
	}
	if comment.AuthorID != userID {
		return nil, apperrors.NewForbiddenError("only the author can edit this comment")
	}
	if comment.Deleted {
		return nil, apperrors.Wrap(apperrors.ErrCommentDeleted, "deleted comments cannot be edited")
	}

	thread, err := s.threadRepo.GetByID(ctx, comment.ThreadID)
	if err != nil {
		return nil, wrapRepoError(s.logger, err, "failed to get thread")
	}
	if err := s.authzService.ValidateThreadAccess(ctx, userID, thread); err != nil {
		return nil, wrapRepoError(s.logger, err, "failed to check thread access")
	}

	body := comment.Body
	if req.Body != nil {
		if body, err = normalizeBody(*req.Body); err != nil {
			return nil, err
		}
	}
	stars := comment.Stars
	switch {
	case req.ClearStars:
		stars = nil
	case req.Stars != nil:
		if err := validateStars(thread, comment.ParentID, req.Stars); err != nil {
			return nil, err
		}
		stars = req.Stars
	}

	updated, err := s.commentRepo.UpdateContent(ctx, commentID, body, stars)
	if err != nil {
		return nil, wrapRepoError(s.logger, err, "failed to update comment")
	}

	s.metrics.CommentsEdited.Inc()

	author, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, wrapRepoError(s.logger, err, "failed to load comment author")
	}
	resp := dto.NewCommentResponse(updated, author)
	return &resp, nil
}

// DeleteComment tombstones a comment. Review comments can only be deleted by their author;
// forum comments also by any leader of the club. Deleting twice returns the same tombstone.
func (s *commentServiceImpl) DeleteComment(ctx context.Context, userID, commentID int64) (*dto.CommentResponse, error) {
	s.logger.Debug().Int64("userID", userID).Int64("commentID", commentID).Msg("Deleting comment")

	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return nil, wrapRepoError(s.logger, err, "failed to get comment")
	}
	thread, err := s.threadRepo.GetByID(ctx, comment.ThreadID)
	if err != nil {
		return nil, wrapRepoError(s.logger, err, "failed to get thread")
	}

	deletedBy, err := s.deletePermission(ctx, userID, comment, thread)
	if err != nil {
		return nil, err
	}

	if comment.Deleted {
		resp := dto.NewCommentResponse(comment, nil)
		return &resp, nil
	}

	deleted, err := s.commentRepo.SoftDelete(ctx, commentID)
	if err != nil {
		return nil, wrapRepoError(s.logger, err, "failed to delete comment")
	}

	s.metrics.CommentsDeleted.WithLabelValues(deletedBy).Inc()
	s.logger.Info().Int64("commentID", commentID).Int64("userID", userID).Str("by", deletedBy).Msg("Comment deleted")

	resp := dto.NewCommentResponse(deleted, nil)
	return &resp, nil
}

// deletePermission reports who is deleting ("author" or "leader") or a Forbidden error
func (s *commentServiceImpl) deletePermission(ctx context.Context, userID int64, comment *models.Comment, thread *models.CommentThread) (string, error) {
	if comment.AuthorID == userID {
		return "author", nil
	}

	switch thread.Type {
	case models.ThreadTypeReview:
		return "", apperrors.NewForbiddenError("only the author can delete a review comment")
	case models.ThreadTypeForum:
		club, err := s.clubRepo.GetByID(ctx, thread.ClubID)
		if err != nil {
			return "", wrapRepoError(s.logger, err, "failed to get club")
		}
		if auth.IsClubLeader(userID, club) {
			return "leader", nil
		}
	}
	return "", apperrors.NewForbiddenError("you cannot delete this comment")
}
