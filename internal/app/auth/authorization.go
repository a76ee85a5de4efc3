package auth

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/yigit/clubrecruit/internal/app/models"
	"github.com/yigit/clubrecruit/internal/app/repositories"
	"github.com/yigit/clubrecruit/internal/pkg/apperrors"
	"github.com/yigit/clubrecruit/internal/pkg/metrics"
)

// AuthorizationService answers leader/applicant questions and gates thread access.
// Nothing is cached: every call reads current membership.
type AuthorizationService struct {
	clubRepo        repositories.ClubRepository
	openRoleRepo    repositories.OpenRoleRepository
	applicationRepo repositories.ApplicationRepository
	metrics         *metrics.Metrics
	logger          zerolog.Logger
}

// NewAuthorizationService creates a new AuthorizationService
func NewAuthorizationService(
	clubRepo repositories.ClubRepository,
	openRoleRepo repositories.OpenRoleRepository,
	applicationRepo repositories.ApplicationRepository,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *AuthorizationService {
	return &AuthorizationService{
		clubRepo:        clubRepo,
		openRoleRepo:    openRoleRepo,
		applicationRepo: applicationRepo,
		metrics:         m,
		logger:          logger,
	}
}

// IsClubLeader reports whether userID is in club.execs or club.admins
func IsClubLeader(userID int64, club *models.Club) bool {
	if club == nil || userID == 0 {
		return false
	}
	return club.IsExec(userID) || club.IsAdmin(userID)
}

// IsClubLeader loads the club and reports whether userID leads it
func (s *AuthorizationService) IsClubLeader(ctx context.Context, userID, clubID int64) (bool, error) {
	club, err := s.clubRepo.GetByID(ctx, clubID)
	if err != nil {
		return false, err
	}
	return IsClubLeader(userID, club), nil
}

// IsClubApplicant reports whether userID applied to any open role of clubID.
// A club without open roles has no applicants and costs no application lookup.
func (s *AuthorizationService) IsClubApplicant(ctx context.Context, userID, clubID int64) (bool, error) {
	roleIDs, err := s.openRoleRepo.ListIDsByClub(ctx, clubID)
	if err != nil {
		s.logger.Error().Err(err).Int64("clubID", clubID).Msg("Error listing open roles in IsClubApplicant")
		return false, fmt.Errorf("failed to list open roles: %w", err)
	}
	if len(roleIDs) == 0 {
		return false, nil
	}

	exists, err := s.applicationRepo.ExistsForApplicantInRoles(ctx, userID, roleIDs)
	if err != nil {
		s.logger.Error().Err(err).Int64("userID", userID).Int64("clubID", clubID).Msg("Error checking applications in IsClubApplicant")
		return false, fmt.Errorf("failed to check applications: %w", err)
	}
	return exists, nil
}

// IsLeaderOrApplicant reports whether userID may see applicant-tier content of club
func (s *AuthorizationService) IsLeaderOrApplicant(ctx context.Context, userID int64, club *models.Club) (bool, error) {
	if IsClubLeader(userID, club) {
		return true, nil
	}
	return s.IsClubApplicant(ctx, userID, club.ID)
}

// CanAccessThread evaluates the thread's visibility tier for userID. Unknown tiers deny.
func (s *AuthorizationService) CanAccessThread(ctx context.Context, userID int64, thread *models.CommentThread) (bool, error) {
	switch thread.Visibility {
	case models.VisibilityPublic:
		return true, nil
	case models.VisibilityClubLeaders:
		return s.IsClubLeader(ctx, userID, thread.ClubID)
	case models.VisibilityClubApplicants:
		club, err := s.clubRepo.GetByID(ctx, thread.ClubID)
		if err != nil {
			return false, err
		}
		return s.IsLeaderOrApplicant(ctx, userID, club)
	default:
		s.logger.Warn().Str("visibility", string(thread.Visibility)).Int64("threadID", thread.ID).Msg("Unknown thread visibility, denying access")
		return false, nil
	}
}

// ValidateThreadAccess returns a Forbidden error when CanAccessThread denies
func (s *AuthorizationService) ValidateThreadAccess(ctx context.Context, userID int64, thread *models.CommentThread) error {
	allowed, err := s.CanAccessThread(ctx, userID, thread)
	if err != nil {
		return err
	}
	if !allowed {
		s.metrics.AccessDenied.WithLabelValues(string(thread.Visibility)).Inc()
		s.logger.Debug().Int64("userID", userID).Int64("threadID", thread.ID).Msg("Thread access denied")
		return apperrors.NewForbiddenError("you do not have access to this thread")
	}
	return nil
}

// ValidateClubLeader returns a Forbidden error unless userID leads club
func ValidateClubLeader(userID int64, club *models.Club) error {
	if !IsClubLeader(userID, club) {
		return apperrors.NewForbiddenError("only club leaders can perform this action")
	}
	return nil
}

// ValidateSuperadmin returns a Forbidden error unless userID owns club
func ValidateSuperadmin(userID int64, club *models.Club) error {
	if !club.IsSuperadmin(userID) {
		return apperrors.NewForbiddenError("only the club superadmin can perform this action")
	}
	return nil
}
