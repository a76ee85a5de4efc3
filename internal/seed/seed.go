// Package seed creates demo data for local development.
package seed

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/clubrecruit/internal/app/models/dto"
	"github.com/yigit/clubrecruit/internal/app/services"
	"github.com/yigit/clubrecruit/internal/pkg/apperrors"
)

// Demo account and club names
const (
	DemoLeaderEmail = "leader@clubrecruit.app"
	DemoClubName    = "Robotics Club"
)

// Services are the entry points the seeder goes through
type Services struct {
	Auth        *services.AuthService
	Membership  services.MembershipService
	Application services.ApplicationService
}

// CreateDemoData registers a demo leader, creates a club for them and opens one role.
// Every step is skipped when its data already exists.
func CreateDemoData(ctx context.Context, svc Services, password string, now time.Time, lgr zerolog.Logger) error {
	lgr.Info().Msg("Checking/Creating demo data...")

	leaderID, err := ensureUser(ctx, svc.Auth, password)
	if err != nil {
		lgr.Error().Err(err).Msg("Error creating demo leader")
		return err
	}

	club, err := svc.Membership.CreateClub(ctx, leaderID, &dto.CreateClubRequest{
		Name:        DemoClubName,
		Description: "Builds robots for the national league",
		Position:    "President",
	})
	switch {
	case errors.Is(err, apperrors.ErrMembershipExists), errors.Is(err, apperrors.ErrClubNameTaken):
		lgr.Info().Msg("Demo club already exists, skipping creation")
		return nil
	case err != nil:
		lgr.Error().Err(err).Msg("Error creating demo club")
		return err
	}
	lgr.Info().Int64("clubID", club.ID).Msg("Demo club created")

	var finalErr error
	_, err = svc.Application.CreateOpenRole(ctx, leaderID, club.ID, &dto.CreateOpenRoleRequest{
		Title:       "Software Lead",
		Description: "Owns the robot control stack",
		Deadline:    now.AddDate(0, 1, 0),
		Questions:   []string{"Why do you want to join?", "Which languages do you know?"},
	})
	if err != nil {
		lgr.Error().Err(err).Msg("Error creating demo open role")
		finalErr = errors.Join(finalErr, err)
	}

	lgr.Info().Msg("Demo data check/creation finished.")
	return finalErr
}

func ensureUser(ctx context.Context, auth *services.AuthService, password string) (int64, error) {
	resp, err := auth.Register(ctx, &dto.RegisterRequest{
		Email:     DemoLeaderEmail,
		Password:  password,
		FirstName: "Demo",
		LastName:  "Leader",
	})
	if err == nil {
		return resp.User.ID, nil
	}
	if !errors.Is(err, apperrors.ErrEmailAlreadyExists) {
		return 0, err
	}

	resp, err = auth.Login(ctx, &dto.LoginRequest{Email: DemoLeaderEmail, Password: password})
	if err != nil {
		return 0, err
	}
	return resp.User.ID, nil
}
