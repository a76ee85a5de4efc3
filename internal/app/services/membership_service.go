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
	"github.com/yigit/clubrecruit/internal/pkg/helpers"
	"github.com/yigit/clubrecruit/internal/pkg/metrics"
)

// MembershipService defines club creation and the exec join workflow
type MembershipService interface {
	CreateClub(ctx context.Context, userID int64, req *dto.CreateClubRequest) (*dto.ClubResponse, error)
	GetClub(ctx context.Context, clubID int64) (*dto.ClubResponse, error)
	ListClubs(ctx context.Context, page, pageSize int) (*dto.ClubListResponse, error)
	RequestJoin(ctx context.Context, userID, clubID int64, req *dto.JoinRequest) error
	ApproveJoinRequest(ctx context.Context, superadminID, clubID, targetUserID int64) error
	RejectJoinRequest(ctx context.Context, superadminID, clubID, targetUserID int64) error
	ListPendingJoinRequests(ctx context.Context, superadminID, clubID int64) ([]dto.ExecResponse, error)
	ListExecs(ctx context.Context, clubID int64) ([]dto.ExecResponse, error)
}

// membershipServiceImpl implements MembershipService
type membershipServiceImpl struct {
	tx       repositories.Transactor
	userRepo repositories.UserRepository
	clubRepo repositories.ClubRepository
	metrics  *metrics.Metrics
	logger   zerolog.Logger
}

// NewMembershipService creates a new MembershipService
func NewMembershipService(repos *repositories.Repositories, m *metrics.Metrics, logger zerolog.Logger) MembershipService {
	return &membershipServiceImpl{
		tx:       repos.Transactor,
		userRepo: repos.Users,
		clubRepo: repos.Clubs,
		metrics:  m,
		logger:   logger,
	}
}

// CreateClub creates a club owned by userID. The club row, the creator's club profile and
// the CLUB_LEADER grant commit together or not at all.
func (s *membershipServiceImpl) CreateClub(ctx context.Context, userID int64, req *dto.CreateClubRequest) (*dto.ClubResponse, error) {
	s.logger.Debug().Int64("userID", userID).Str("name", req.Name).Msg("Creating club")

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperrors.NewValidationError("club name cannot be empty")
	}
	position := strings.TrimSpace(req.Position)
	if position == "" {
		return nil, apperrors.NewValidationError("position cannot be empty")
	}

	var club *models.Club
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		user, err := s.userRepo.GetByID(ctx, userID)
		if err != nil {
			return err
		}
		if user.AdminClubID != nil {
			return apperrors.Wrap(apperrors.ErrMembershipExists, "you already have a pending or active club membership")
		}

		club = &models.Club{
			Name:        name,
			Description: strings.TrimSpace(req.Description),
			Admins:      []int64{userID},
			Execs:       []int64{userID},
		}
		if err := s.clubRepo.Create(ctx, club); err != nil {
			return err
		}

		profile := models.ClubProfile{
			ClubID:          club.ID,
			Position:        position,
			Bio:             req.Bio,
			ProfilePhotoURL: req.ProfilePhotoURL,
		}
		if err := s.userRepo.SetClubProfileIfUnset(ctx, userID, profile); err != nil {
			return err
		}
		return s.userRepo.GrantRole(ctx, userID, models.RoleClubLeader)
	})
	if err != nil {
		if apperrors.KindOf(err) == apperrors.KindInternal {
			s.logger.Error().Err(err).Int64("userID", userID).Msg("Failed to create club")
			return nil, fmt.Errorf("failed to create club: %w", err)
		}
		return nil, err
	}

	s.metrics.ClubsCreated.Inc()
	s.logger.Info().Int64("clubID", club.ID).Int64("userID", userID).Msg("Club created")

	resp := dto.NewClubResponse(club)
	return &resp, nil
}

// GetClub retrieves a club by ID
func (s *membershipServiceImpl) GetClub(ctx context.Context, clubID int64) (*dto.ClubResponse, error) {
	club, err := s.clubRepo.GetByID(ctx, clubID)
	if err != nil {
		return nil, wrapRepoError(s.logger, err, "failed to get club")
	}
	resp := dto.NewClubResponse(club)
	return &resp, nil
}

// ListClubs returns a page of clubs
func (s *membershipServiceImpl) ListClubs(ctx context.Context, page, pageSize int) (*dto.ClubListResponse, error) {
	s.logger.Debug().Int("page", page).Int("pageSize", pageSize).Msg("Listing clubs")

	offset, limit := helpers.CalculateOffsetLimit(page, pageSize)
	clubs, total, err := s.clubRepo.List(ctx, offset, limit)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to list clubs")
		return nil, fmt.Errorf("failed to list clubs: %w", err)
	}

	items := make([]dto.ClubResponse, 0, len(clubs))
	for _, c := range clubs {
		items = append(items, dto.NewClubResponse(c))
	}
	return &dto.ClubListResponse{
		Clubs:          items,
		PaginationInfo: helpers.NewPaginationInfo(total, page, limit),
	}, nil
}

// RequestJoin moves userID from NONE to PENDING for clubID
func (s *membershipServiceImpl) RequestJoin(ctx context.Context, userID, clubID int64, req *dto.JoinRequest) error {
	s.logger.Debug().Int64("userID", userID).Int64("clubID", clubID).Msg("Requesting to join club")

	position := strings.TrimSpace(req.Position)
	if position == "" {
		return apperrors.NewValidationError("position cannot be empty")
	}

	club, err := s.clubRepo.GetByID(ctx, clubID)
	if err != nil {
		return wrapRepoError(s.logger, err, "failed to get club")
	}
	if club.IsExec(userID) {
		return apperrors.Wrap(apperrors.ErrAlreadyExec, "you are already an exec of this club")
	}

	err = s.userRepo.SetClubProfileIfUnset(ctx, userID, models.ClubProfile{
		ClubID:          clubID,
		Position:        position,
		Bio:             req.Bio,
		ProfilePhotoURL: req.ProfilePhotoURL,
	})
	if err != nil {
		return wrapRepoError(s.logger, err, "failed to record join request")
	}

	s.metrics.MembershipTransitions.WithLabelValues("request").Inc()
	return nil
}

// ApproveJoinRequest moves targetUserID from PENDING to APPROVED. Superadmin only.
func (s *membershipServiceImpl) ApproveJoinRequest(ctx context.Context, superadminID, clubID, targetUserID int64) error {
	s.logger.Debug().Int64("superadminID", superadminID).Int64("clubID", clubID).Int64("targetUserID", targetUserID).Msg("Approving join request")

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		club, err := s.clubRepo.GetByID(ctx, clubID)
		if err != nil {
			return err
		}
		if err := auth.ValidateSuperadmin(superadminID, club); err != nil {
			return err
		}

		target, err := s.userRepo.GetByID(ctx, targetUserID)
		if err != nil {
			return err
		}
		if club.IsExec(targetUserID) {
			return apperrors.Wrap(apperrors.ErrAlreadyExec, "user is already an exec of this club")
		}
		if !models.IsPendingMember(target, club) {
			return apperrors.ErrNoPendingRequest
		}

		if err := s.clubRepo.AddExec(ctx, clubID, targetUserID); err != nil {
			return err
		}
		return s.userRepo.GrantRole(ctx, targetUserID, models.RoleClubLeader)
	})
	if err != nil {
		return wrapRepoError(s.logger, err, "failed to approve join request")
	}

	s.metrics.MembershipTransitions.WithLabelValues("approve").Inc()
	s.logger.Info().Int64("clubID", clubID).Int64("userID", targetUserID).Msg("Join request approved")
	return nil
}

// RejectJoinRequest moves targetUserID from PENDING back to NONE. Superadmin only.
func (s *membershipServiceImpl) RejectJoinRequest(ctx context.Context, superadminID, clubID, targetUserID int64) error {
	s.logger.Debug().Int64("superadminID", superadminID).Int64("clubID", clubID).Int64("targetUserID", targetUserID).Msg("Rejecting join request")

	club, err := s.clubRepo.GetByID(ctx, clubID)
	if err != nil {
		return wrapRepoError(s.logger, err, "failed to get club")
	}
	if err := auth.ValidateSuperadmin(superadminID, club); err != nil {
		return err
	}

	if err := s.userRepo.ClearPendingClubProfile(ctx, targetUserID, clubID); err != nil {
		return wrapRepoError(s.logger, err, "failed to reject join request")
	}

	s.metrics.MembershipTransitions.WithLabelValues("reject").Inc()
	return nil
}

// ListPendingJoinRequests lists users pending for clubID. Superadmin only.
func (s *membershipServiceImpl) ListPendingJoinRequests(ctx context.Context, superadminID, clubID int64) ([]dto.ExecResponse, error) {
	club, err := s.clubRepo.GetByID(ctx, clubID)
	if err != nil {
		return nil, wrapRepoError(s.logger, err, "failed to get club")
	}
	if err := auth.ValidateSuperadmin(superadminID, club); err != nil {
		return nil, err
	}

	users, err := s.userRepo.ListByAdminClub(ctx, clubID)
	if err != nil {
		return nil, wrapRepoError(s.logger, err, "failed to list join requests")
	}

	pending := make([]dto.ExecResponse, 0, len(users))
	for _, u := range users {
		if models.IsPendingMember(u, club) {
			pending = append(pending, dto.NewExecResponse(u, club))
		}
	}
	return pending, nil
}

// ListExecs lists the approved execs of clubID, superadmin first
func (s *membershipServiceImpl) ListExecs(ctx context.Context, clubID int64) ([]dto.ExecResponse, error) {
	club, err := s.clubRepo.GetByID(ctx, clubID)
	if err != nil {
		return nil, wrapRepoError(s.logger, err, "failed to get club")
	}

	users, err := s.userRepo.GetByIDs(ctx, club.Execs)
	if err != nil {
		return nil, wrapRepoError(s.logger, err, "failed to load execs")
	}

	execs := make([]dto.ExecResponse, 0, len(club.Execs))
	if owner, ok := users[club.SuperadminID()]; ok {
		execs = append(execs, dto.NewExecResponse(owner, club))
	}
	for _, id := range club.Execs {
		if id == club.SuperadminID() {
			continue
		}
		if u, ok := users[id]; ok {
			execs = append(execs, dto.NewExecResponse(u, club))
		}
	}
	return execs, nil
}

