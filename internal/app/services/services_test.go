package services

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/yigit/clubrecruit/internal/app/auth"
	"github.com/yigit/clubrecruit/internal/app/models"
	"github.com/yigit/clubrecruit/internal/app/models/dto"
	"github.com/yigit/clubrecruit/internal/app/repositories"
	"github.com/yigit/clubrecruit/internal/app/repositories/memory"
	"github.com/yigit/clubrecruit/internal/pkg/metrics"
)

// testEnv wires every service to one in-memory store
type testEnv struct {
	ctx          context.Context
	store        *memory.Store
	repos        *repositories.Repositories
	metrics      *metrics.Metrics
	authz        *auth.AuthorizationService
	membership   MembershipService
	applications ApplicationService
	threads      ThreadService
	comments     CommentService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := memory.NewStore()
	return newTestEnvWithRepos(t, store, memory.NewRepositories(store))
}

func newTestEnvWithRepos(t *testing.T, store *memory.Store, repos *repositories.Repositories) *testEnv {
	t.Helper()
	m := metrics.NewNop()
	log := zerolog.Nop()
	authz := auth.NewAuthorizationService(repos.Clubs, repos.OpenRoles, repos.Applications, m, log)
	return &testEnv{
		ctx:          context.Background(),
		store:        store,
		repos:        repos,
		metrics:      m,
		authz:        authz,
		membership:   NewMembershipService(repos, m, log),
		applications: NewApplicationService(repos, m, log),
		threads:      NewThreadService(repos, authz, m, log),
		comments:     NewCommentService(repos, authz, m, log),
	}
}

func (e *testEnv) user(t *testing.T, first string) *models.User {
	t.Helper()
	u := &models.User{
		Email:     first + "@example.com",
		FirstName: first,
		LastName:  "Tester",
		Roles:     []models.Role{models.RoleStudent},
	}
	require.NoError(t, e.repos.Users.Create(e.ctx, u))
	return u
}

func (e *testEnv) reload(t *testing.T, userID int64) *models.User {
	t.Helper()
	u, err := e.repos.Users.GetByID(e.ctx, userID)
	require.NoError(t, err)
	return u
}

func (e *testEnv) club(t *testing.T, owner *models.User, name string) *dto.ClubResponse {
	t.Helper()
	club, err := e.membership.CreateClub(e.ctx, owner.ID, &dto.CreateClubRequest{Name: name, Position: "President"})
	require.NoError(t, err)
	return club
}

// exec adds an approved exec to the club through the join workflow
func (e *testEnv) exec(t *testing.T, club *dto.ClubResponse, first string) *models.User {
	t.Helper()
	u := e.user(t, first)
	require.NoError(t, e.membership.RequestJoin(e.ctx, u.ID, club.ID, &dto.JoinRequest{Position: "Member"}))
	require.NoError(t, e.membership.ApproveJoinRequest(e.ctx, club.SuperadminID, club.ID, u.ID))
	return u
}

func (e *testEnv) openRole(t *testing.T, club *dto.ClubResponse, title string) *dto.OpenRoleResponse {
	t.Helper()
	role, err := e.applications.CreateOpenRole(e.ctx, club.SuperadminID, club.ID, &dto.CreateOpenRoleRequest{
		Title:    title,
		Deadline: time.Now().Add(7 * 24 * time.Hour),
	})
	require.NoError(t, err)
	return role
}

func (e *testEnv) apply(t *testing.T, userID, roleID int64) *dto.ApplicationResponse {
	t.Helper()
	app, err := e.applications.SubmitApplication(e.ctx, userID, roleID, &dto.SubmitApplicationRequest{
		Answers: map[string]string{"Why?": "Because"},
	})
	require.NoError(t, err)
	return app
}

func intPtr(v int) *int       { return &v }
func int64Ptr(v int64) *int64 { return &v }
func strPtr(v string) *string { return &v }
