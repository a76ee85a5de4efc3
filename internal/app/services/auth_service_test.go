package services

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/clubrecruit/internal/app/models/dto"
	"github.com/yigit/clubrecruit/internal/app/repositories/memory"
	"github.com/yigit/clubrecruit/internal/pkg/apperrors"
	"github.com/yigit/clubrecruit/internal/pkg/auth"
)

func newAuthService(t *testing.T) (*AuthService, *auth.JWTService) {
	t.Helper()
	auth.BcryptCost = 4
	repos := memory.NewRepositories(memory.NewStore())
	jwtService := auth.NewJWTService(auth.JWTConfig{
		SecretKey:      "test-secret",
		AccessTokenExp: time.Hour,
		TokenIssuer:    "clubrecruit.test",
	})
	return NewAuthService(repos.Users, jwtService, zerolog.Nop()), jwtService
}

func TestRegisterAndLogin(t *testing.T) {
	svc, jwtService := newAuthService(t)
	ctx := context.Background()

	registered, err := svc.Register(ctx, &dto.RegisterRequest{
		Email: "Sam@Example.com", Password: "secret123", FirstName: "Sam", LastName: "Student",
	})
	require.NoError(t, err)
	assert.Equal(t, "sam@example.com", registered.User.Email)
	assert.Equal(t, []string{"STUDENT"}, registered.User.Roles)
	assert.Equal(t, "Bearer", registered.Token.TokenType)
	assert.Equal(t, int64(3600), registered.Token.ExpiresIn)

	claims, err := jwtService.ValidateToken(registered.Token.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, claims.UserID)

	loggedIn, err := svc.Login(ctx, &dto.LoginRequest{Email: "sam@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, loggedIn.User.ID)

	profile, err := svc.GetProfile(ctx, registered.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "Sam", profile.FirstName)
}

func TestRegister_Rejections(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, &dto.RegisterRequest{Email: "a@example.com", Password: "short1", FirstName: "A", LastName: "B"})
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
	_, err = svc.Register(ctx, &dto.RegisterRequest{Email: "a@example.com", Password: "onlyletters", FirstName: "A", LastName: "B"})
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))

	_, err = svc.Register(ctx, &dto.RegisterRequest{Email: "a@example.com", Password: "secret123", FirstName: "A", LastName: "B"})
	require.NoError(t, err)
	_, err = svc.Register(ctx, &dto.RegisterRequest{Email: "A@example.com", Password: "secret123", FirstName: "A", LastName: "B"})
	assert.ErrorIs(t, err, apperrors.ErrEmailAlreadyExists)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()
	_, err := svc.Register(ctx, &dto.RegisterRequest{Email: "a@example.com", Password: "secret123", FirstName: "A", LastName: "B"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, &dto.LoginRequest{Email: "a@example.com", Password: "wrong1234"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	_, err = svc.Login(ctx, &dto.LoginRequest{Email: "nobody@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}
