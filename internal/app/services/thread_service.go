package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/yigit/clubrecruit/internal/app/auth"
	"github.com/yigit/clubrecruit/internal/app/models"
	"github.com/yigit/clubrecruit/internal/app/models/dto"
	"github.com/yigit/clubrecruit/internal/app/repositories"
	"github.com/yigit/clubrecruit/internal/pkg/apperrors"
	"github.com/yigit/clubrecruit/internal/pkg/metrics"
)

// ThreadService resolves the lazily created forum and review threads
type ThreadService interface {
	GetOrCreateForumThread(ctx context.Context, userID, clubID int64) (*dto.ThreadResponse, error)
	GetOrCreateReviewThread(ctx context.Context, userID, applicationID int64) (*dto.ThreadResponse, error)
	GetThread(ctx context.Context, userID, threadID int64) (*dto.ThreadResponse, error)
	SetThreadLocked(ctx context.Context, userID, threadID int64, locked bool) (*dto.ThreadResponse, error)
}

// threadServiceImpl implements ThreadService
type threadServiceImpl struct {
	clubRepo        repositories.ClubRepository
	openRoleRepo    repositories.OpenRoleRepository
	applicationRepo repositories.ApplicationRepository
	threadRepo      repositories.ThreadRepository
	authzService    *auth.AuthorizationService
	metrics         *metrics.Metrics
	logger          zerolog.Logger
}

// NewThreadService creates a new ThreadService
func NewThreadService(
	repos *repositories.Repositories,
	authzService *auth.AuthorizationService,
	m *metrics.Metrics,
	logger zerolog.Logger,
) ThreadService {
	return &threadServiceImpl{
		clubRepo:        repos.Clubs,
		openRoleRepo:    repos.OpenRoles,
		applicationRepo: repos.Applications,
		threadRepo:      repos.Threads,
		authzService:    authzService,
		metrics:         m,
		logger:          logger,
	}
}

// ForumThreadTitle is the title given to a club's forum thread
func ForumThreadTitle(clubName string) string {
	return clubName + " Forum"
}

// GetOrCreateForumThread returns the club forum, creating it on first access. Membership is
// checked before the thread is looked up so outsiders cannot learn whether it exists.
func (s *threadServiceImpl) GetOrCreateForumThread(ctx context.Context, userID, clubID int64) (*dto.ThreadResponse, error) {
	s.logger.Debug().Int64("userID", userID).Int64("clubID", clubID).Msg("Getting forum thread")

	club, err := s.clubRepo.GetByID(ctx, clubID)
	if err != nil {
		return nil, wrapRepoError(s.logger, err, "failed to get club")
	}

	allowed, err := s.authzService.IsLeaderOrApplicant(ctx, userID, club)
	if err != nil {
		return nil, wrapRepoError(s.logger, err, "failed to check club membership")
	}
	if !allowed {
		return nil, apperrors.NewForbiddenError("only club leaders and applicants can access the forum")
	}

	thread, created, err := s.threadRepo.GetOrCreate(ctx, &models.CommentThread{
		Type:       models.ThreadTypeForum,
		ClubID:     club.ID,
		Title:      ForumThreadTitle(club.Name),
		Visibility: models.VisibilityClubApplicants,
		Locked:     false,
		CreatedBy:  userID,
	})
	if err != nil {
		return nil, wrapRepoError(s.logger, err, "failed to get or create forum thread")
	}
	if created {
		s.metrics.ThreadsCreated.WithLabelValues(string(models.ThreadTypeForum)).Inc()
		s.logger.Info().Int64("threadID", thread.ID).Int64("clubID", clubID).Msg("Forum thread created")
	}

	resp := dto.NewThreadResponse(thread)
	return &resp, nil
}

// GetOrCreateReviewThread returns the review thread of an application, creating it on
// first access. Only leaders of the club owning the application's role may call it.
func (s *threadServiceImpl) GetOrCreateReviewThread(ctx context.Context, userID, applicationID int64) (*dto.ThreadResponse, error) {
	s.logger.Debug().Int64("userID", userID).Int64("applicationID", applicationID).Msg("Getting review thread")

	app, err := s.applicationRepo.GetByID(ctx, applicationID)
	if err != nil {
		return nil, wrapRepoError(s.logger, err, "failed to get application")
	}
	role, err := s.openRoleRepo.GetByID(ctx, app.OpenRoleID)
	if err != nil {
		return nil, wrapRepoError(s.logger, err, "failed to get open role")
	}
	club, err := s.clubRepo.GetByID(ctx, role.ClubID)
	if err != nil {
		return nil, wrapRepoError(s.logger, err, "failed to get club")
	}
	if err := auth.ValidateClubLeader(userID, club); err != nil {
		return nil, err
	}

	appID := app.ID
	thread, created, err := s.threadRepo.GetOrCreate(ctx, &models.CommentThread{
		Type:          models.ThreadTypeReview,
		ClubID:        club.ID,
		ApplicationID: &appID,
		Title:         fmt.Sprintf("%s Application Review", role.Title),
		Visibility:    models.VisibilityClubLeaders,
		Locked:        false,
		CreatedBy:     userID,
	})
	if err != nil {
		return nil, wrapRepoError(s.logger, err, "failed to get or create review thread")
	}
	if created {
		s.metrics.ThreadsCreated.WithLabelValues(string(models.ThreadTypeReview)).Inc()
		s.logger.Info().Int64("threadID", thread.ID).Int64("applicationID", applicationID).Msg("Review thread created")
	}

	resp := dto.NewThreadResponse(thread)
	return &resp, nil
}

// GetThread returns a thread the caller can access
func (s *threadServiceImpl) GetThread(ctx context.Context, userID, threadID int64) (*dto.ThreadResponse, error) {
	thread, err := s.threadRepo.GetByID(ctx, threadID)
	if err != nil {
		return nil, wrapRepoError(s.logger, err, "failed to get thread")
	}
	if err := s.authzService.ValidateThreadAccess(ctx, userID, thread); err != nil {
		return nil, wrapRepoError(s.logger, err, "failed to check thread access")
	}

	resp := dto.NewThreadResponse(thread)
	return &resp, nil
}

// SetThreadLocked locks or unlocks a thread. Leaders of the thread's club only.
func (s *threadServiceImpl) SetThreadLocked(ctx context.Context, userID, threadID int64, locked bool) (*dto.ThreadResponse, error) {
	s.logger.Debug().Int64("userID", userID).Int64("threadID", threadID).Bool("locked", locked).Msg("Setting thread lock")

	thread, err := s.threadRepo.GetByID(ctx, threadID)
	if err != nil {
		return nil, wrapRepoError(s.logger, err, "failed to get thread")
	}
	club, err := s.clubRepo.GetByID(ctx, thread.ClubID)
	if err != nil {
		return nil, wrapRepoError(s.logger, err, "failed to get club")
	}
	if err := auth.ValidateClubLeader(userID, club); err != nil {
		return nil, err
	}

	updated, err := s.threadRepo.SetLocked(ctx, threadID, locked)
	if err != nil {
		return nil, wrapRepoError(s.logger, err, "failed to update thread lock")
	}

	resp := dto.NewThreadResponse(updated)
	return &resp, nil
}

