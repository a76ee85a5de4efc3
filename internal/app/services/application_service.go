package services

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/clubrecruit/internal/app/auth"
	"github.com/yigit/clubrecruit/internal/app/models"
	"github.com/yigit/clubrecruit/internal/app/models/dto"
	"github.com/yigit/clubrecruit/internal/app/repositories"
	"github.com/yigit/clubrecruit/internal/pkg/apperrors"
	"github.com/yigit/clubrecruit/internal/pkg/metrics"
)

// ApplicationService defines open role and application operations
type ApplicationService interface {
	CreateOpenRole(ctx context.Context, userID, clubID int64, req *dto.CreateOpenRoleRequest) (*dto.OpenRoleResponse, error)
	ListOpenRoles(ctx context.Context, clubID int64) ([]dto.OpenRoleResponse, error)
	SubmitApplication(ctx context.Context, userID, roleID int64, req *dto.SubmitApplicationRequest) (*dto.ApplicationResponse, error)
	UpdateApplicationStatus(ctx context.Context, userID, applicationID int64, status models.ApplicationStatus) (*dto.ApplicationResponse, error)
	ListApplicationsForRole(ctx context.Context, userID, roleID int64) ([]dto.ApplicationResponse, error)
	ListMyApplications(ctx context.Context, userID int64) ([]dto.ApplicationResponse, error)
	GetApplication(ctx context.Context, userID, applicationID int64) (*dto.ApplicationResponse, error)
}

// applicationServiceImpl implements ApplicationService
type applicationServiceImpl struct {
	clubRepo        repositories.ClubRepository
	openRoleRepo    repositories.OpenRoleRepository
	applicationRepo repositories.ApplicationRepository
	metrics         *metrics.Metrics
	logger          zerolog.Logger
	now             func() time.Time
}

// NewApplicationService creates a new ApplicationService
func NewApplicationService(repos *repositories.Repositories, m *metrics.Metrics, logger zerolog.Logger) ApplicationService {
	return &applicationServiceImpl{
		clubRepo:        repos.Clubs,
		openRoleRepo:    repos.OpenRoles,
		applicationRepo: repos.Applications,
		metrics:         m,
		logger:          logger,
		now:             time.Now,
	}
}

// CreateOpenRole opens a recruiting role. Club leaders only.
func (s *applicationServiceImpl) CreateOpenRole(ctx context.Context, userID, clubID int64, req *dto.CreateOpenRoleRequest) (*dto.OpenRoleResponse, error) {
	s.logger.Debug().Int64("userID", userID).Int64("clubID", clubID).Str("title", req.Title).Msg("Creating open role")

	club, err := s.clubRepo.GetByID(ctx, clubID)
	if err != nil {
		return nil, wrapRepoError(s.logger, err, "failed to get club")
	}
	if err := auth.ValidateClubLeader(userID, club); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, apperrors.NewValidationError("title cannot be empty")
	}
	if req.Deadline.IsZero() {
		return nil, apperrors.NewValidationError("deadline is required")
	}

	questions := make([]string, 0, len(req.Questions))
	for _, q := range req.Questions {
		if q = strings.TrimSpace(q); q != "" {
			questions = append(questions, q)
		}
	}

	role := &models.OpenRole{
		ClubID:      clubID,
		Title:       title,
		Description: strings.TrimSpace(req.Description),
		Deadline:    req.Deadline,
		Questions:   questions,
	}
	if err := s.openRoleRepo.Create(ctx, role); err != nil {
		return nil, wrapRepoError(s.logger, err, "failed to create open role")
	}

	resp := dto.NewOpenRoleResponse(role, s.now())
	return &resp, nil
}

// ListOpenRoles lists a club's open roles by deadline
func (s *applicationServiceImpl) ListOpenRoles(ctx context.Context, clubID int64) ([]dto.OpenRoleResponse, error) {
	if _, err := s.clubRepo.GetByID(ctx, clubID); err != nil {
		return nil, wrapRepoError(s.logger, err, "failed to get club")
	}

	roles, err := s.openRoleRepo.ListByClub(ctx, clubID)
	if err != nil {
		return nil, wrapRepoError(s.logger, err, "failed to list open roles")
	}

	now := s.now()
	out := make([]dto.OpenRoleResponse, 0, len(roles))
	for _, r := range roles {
		out = append(out, dto.NewOpenRoleResponse(r, now))
	}
	return out, nil
}

// SubmitApplication applies userID to an open role. A second submission for the same role
// fails with a conflict.
func (s *applicationServiceImpl) SubmitApplication(ctx context.Context, userID, roleID int64, req *dto.SubmitApplicationRequest) (*dto.ApplicationResponse, error) {
	s.logger.Debug().Int64("userID", userID).Int64("roleID", roleID).Msg("Submitting application")

	role, err := s.openRoleRepo.GetByID(ctx, roleID)
	if err != nil {
		return nil, wrapRepoError(s.logger, err, "failed to get open role")
	}
	if role.Closed(s.now()) {
		return nil, apperrors.NewValidationError("the application deadline for this role has passed")
	}

	answers := make(map[string]string, len(req.Answers))
	for q, a := range req.Answers {
		answers[q] = a
	}

	app := &models.Application{
		ApplicantID: userID,
		OpenRoleID:  roleID,
		Status:      models.ApplicationSubmitted,
		Answers:     answers,
	}
	if err := s.applicationRepo.Create(ctx, app); err != nil {
		if apperrors.Is(err, apperrors.ErrDuplicateApplication) {
			return nil, apperrors.Wrap(apperrors.ErrDuplicateApplication, "you have already applied to this role")
		}
		return nil, wrapRepoError(s.logger, err, "failed to submit application")
	}

	s.metrics.ApplicationsSubmitted.Inc()
	s.logger.Info().Int64("applicationID", app.ID).Int64("userID", userID).Int64("roleID", roleID).Msg("Application submitted")

	resp := dto.NewApplicationResponse(app)
	return &resp, nil
}

// UpdateApplicationStatus overwrites the status. Any status may replace any other. Club leaders
// may set every status; the applicant may only withdraw.
func (s *applicationServiceImpl) UpdateApplicationStatus(ctx context.Context, userID, applicationID int64, status models.ApplicationStatus) (*dto.ApplicationResponse, error) {
	s.logger.Debug().Int64("userID", userID).Int64("applicationID", applicationID).Str("status", string(status)).Msg("Updating application status")

	if !status.Valid() {
		return nil, apperrors.NewValidationError("unknown application status")
	}

	app, club, err := s.loadApplication(ctx, applicationID)
	if err != nil {
		return nil, err
	}

	leader := auth.IsClubLeader(userID, club)
	withdrawing := app.ApplicantID == userID && status == models.ApplicationWithdrawn
	if !leader && !withdrawing {
		return nil, apperrors.NewForbiddenError("only club leaders can change this application's status")
	}

	updated, err := s.applicationRepo.UpdateStatus(ctx, applicationID, status)
	if err != nil {
		return nil, wrapRepoError(s.logger, err, "failed to update application status")
	}

	s.metrics.ApplicationStatus.WithLabelValues(string(status)).Inc()

	resp := dto.NewApplicationResponse(updated)
	return &resp, nil
}

// ListApplicationsForRole lists the applications to a role. Club leaders only.
func (s *applicationServiceImpl) ListApplicationsForRole(ctx context.Context, userID, roleID int64) ([]dto.ApplicationResponse, error) {
	role, err := s.openRoleRepo.GetByID(ctx, roleID)
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

	apps, err := s.applicationRepo.ListByRole(ctx, roleID)
	if err != nil {
		return nil, wrapRepoError(s.logger, err, "failed to list applications")
	}
	return toApplicationResponses(apps), nil
}

// ListMyApplications lists the caller's own applications
func (s *applicationServiceImpl) ListMyApplications(ctx context.Context, userID int64) ([]dto.ApplicationResponse, error) {
	apps, err := s.applicationRepo.ListByApplicant(ctx, userID)
	if err != nil {
		return nil, wrapRepoError(s.logger, err, "failed to list applications")
	}
	return toApplicationResponses(apps), nil
}

// GetApplication returns an application to its applicant or to a leader of the owning club
func (s *applicationServiceImpl) GetApplication(ctx context.Context, userID, applicationID int64) (*dto.ApplicationResponse, error) {
	app, club, err := s.loadApplication(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if app.ApplicantID != userID && !auth.IsClubLeader(userID, club) {
		return nil, apperrors.NewForbiddenError("you cannot view this application")
	}

	resp := dto.NewApplicationResponse(app)
	return &resp, nil
}

// loadApplication fetches an application together with the club owning its role
func (s *applicationServiceImpl) loadApplication(ctx context.Context, applicationID int64) (*models.Application, *models.Club, error) {
	app, err := s.applicationRepo.GetByID(ctx, applicationID)
	if err != nil {
		return nil, nil, wrapRepoError(s.logger, err, "failed to get application")
	}
	role, err := s.openRoleRepo.GetByID(ctx, app.OpenRoleID)
	if err != nil {
		return nil, nil, wrapRepoError(s.logger, err, "failed to get open role")
	}
	club, err := s.clubRepo.GetByID(ctx, role.ClubID)
	if err != nil {
		return nil, nil, wrapRepoError(s.logger, err, "failed to get club")
	}
	return app, club, nil
}

func toApplicationResponses(apps []*models.Application) []dto.ApplicationResponse {
	out := make([]dto.ApplicationResponse, 0, len(apps))
	for _, a := range apps {
		out = append(out, dto.NewApplicationResponse(a))
	}
	return out
}
