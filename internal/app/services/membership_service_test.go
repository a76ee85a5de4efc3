package services

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/clubrecruit/internal/app/models"
	"github.com/yigit/clubrecruit/internal/app/models/dto"
	"github.com/yigit/clubrecruit/internal/app/repositories"
	"github.com/yigit/clubrecruit/internal/app/repositories/memory"
	"github.com/yigit/clubrecruit/internal/pkg/apperrors"
)

// failingGrantUsers breaks the second half of club creation
type failingGrantUsers struct {
	repositories.UserRepository
}

func (failingGrantUsers) GrantRole(context.Context, int64, models.Role) error {
	return errors.New("connection reset")
}

func TestCreateClub_CreatorBecomesSuperadmin(t *testing.T) {
	env := newTestEnv(t)
	a := env.user(t, "alice")

	club, err := env.membership.CreateClub(env.ctx, a.ID, &dto.CreateClubRequest{
		Name:     "  Robotics ",
		Position: "President",
		Bio:      strPtr("Builds robots"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Robotics", club.Name)
	assert.Equal(t, a.ID, club.SuperadminID)
	assert.Equal(t, 1, club.ExecCount)

	stored, err := env.repos.Clubs.GetByID(env.ctx, club.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{a.ID}, stored.Admins)
	assert.Equal(t, []int64{a.ID}, stored.Execs)

	a = env.reload(t, a.ID)
	require.NotNil(t, a.AdminClubID)
	assert.Equal(t, club.ID, *a.AdminClubID)
	assert.Equal(t, "President", *a.ExecPosition)
	assert.True(t, a.HasRole(models.RoleClubLeader))
	assert.Equal(t, models.MembershipApproved, models.MembershipStateOf(a, stored))
	assert.Equal(t, 1.0, testutil.ToFloat64(env.metrics.ClubsCreated))
}

func TestCreateClub_RollsBackWhenSecondHalfFails(t *testing.T) {
	store := memory.NewStore()
	repos := memory.NewRepositories(store)
	repos.Users = failingGrantUsers{UserRepository: repos.Users}
	env := newTestEnvWithRepos(t, store, repos)
	a := env.user(t, "alice")

	_, err := env.membership.CreateClub(env.ctx, a.ID, &dto.CreateClubRequest{Name: "Robotics", Position: "President"})
	require.Error(t, err)
	assert.Equal(t, apperrors.KindInternal, apperrors.KindOf(err))

	clubs, total, err := env.repos.Clubs.List(env.ctx, 0, 10)
	require.NoError(t, err)
	assert.Empty(t, clubs)
	assert.Zero(t, total)
	assert.Nil(t, env.reload(t, a.ID).AdminClubID)
}

func TestCreateClub_Conflicts(t *testing.T) {
	env := newTestEnv(t)
	a := env.user(t, "alice")
	b := env.user(t, "bob")
	env.club(t, a, "Robotics")

	_, err := env.membership.CreateClub(env.ctx, b.ID, &dto.CreateClubRequest{Name: "Robotics", Position: "President"})
	assert.ErrorIs(t, err, apperrors.ErrClubNameTaken)

	_, err = env.membership.CreateClub(env.ctx, a.ID, &dto.CreateClubRequest{Name: "Chess", Position: "President"})
	assert.ErrorIs(t, err, apperrors.ErrMembershipExists)

	_, err = env.membership.CreateClub(env.ctx, b.ID, &dto.CreateClubRequest{Name: "  ", Position: "President"})
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
}

func TestJoinWorkflow_RoboticsScenario(t *testing.T) {
	env := newTestEnv(t)
	a := env.user(t, "alice")
	b := env.user(t, "bob")
	club := env.club(t, a, "Robotics")

	require.NoError(t, env.membership.RequestJoin(env.ctx, b.ID, club.ID, &dto.JoinRequest{
		Position: "Mechanical Lead",
		Bio:      strPtr("CAD nerd"),
	}))

	stored, err := env.repos.Clubs.GetByID(env.ctx, club.ID)
	require.NoError(t, err)
	b = env.reload(t, b.ID)
	assert.Equal(t, club.ID, *b.AdminClubID)
	assert.NotContains(t, stored.Execs, b.ID)
	assert.Equal(t, models.MembershipPending, models.MembershipStateOf(b, stored))

	pending, err := env.membership.ListPendingJoinRequests(env.ctx, a.ID, club.ID)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, b.ID, pending[0].UserID)

	require.NoError(t, env.membership.ApproveJoinRequest(env.ctx, a.ID, club.ID, b.ID))

	stored, err = env.repos.Clubs.GetByID(env.ctx, club.ID)
	require.NoError(t, err)
	b = env.reload(t, b.ID)
	assert.Contains(t, stored.Execs, b.ID)
	assert.Equal(t, a.ID, stored.Admins[0])
	assert.Equal(t, []models.Role{models.RoleStudent, models.RoleClubLeader}, b.Roles)
	assert.Equal(t, models.MembershipApproved, models.MembershipStateOf(b, stored))

	execs, err := env.membership.ListExecs(env.ctx, club.ID)
	require.NoError(t, err)
	require.Len(t, execs, 2)
	assert.True(t, execs[0].Superadmin)
	assert.Equal(t, b.ID, execs[1].UserID)

	forum, err := env.threads.GetOrCreateForumThread(env.ctx, b.ID, club.ID)
	require.NoError(t, err)
	assert.Equal(t, "Robotics Forum", forum.Title)
	assert.Equal(t, string(models.VisibilityClubApplicants), forum.Visibility)
	assert.Equal(t, b.ID, forum.CreatedBy)
}

func TestRequestJoin_Rejections(t *testing.T) {
	env := newTestEnv(t)
	a := env.user(t, "alice")
	c := env.user(t, "carol")
	robotics := env.club(t, a, "Robotics")
	chess := env.club(t, c, "Chess")
	b := env.user(t, "bob")

	err := env.membership.RequestJoin(env.ctx, a.ID, robotics.ID, &dto.JoinRequest{Position: "X"})
	assert.ErrorIs(t, err, apperrors.ErrAlreadyExec)

	require.NoError(t, env.membership.RequestJoin(env.ctx, b.ID, robotics.ID, &dto.JoinRequest{Position: "X"}))
	err = env.membership.RequestJoin(env.ctx, b.ID, chess.ID, &dto.JoinRequest{Position: "X"})
	assert.ErrorIs(t, err, apperrors.ErrMembershipExists)
	assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))

	err = env.membership.RequestJoin(env.ctx, b.ID, 999, &dto.JoinRequest{Position: "X"})
	assert.ErrorIs(t, err, apperrors.ErrClubNotFound)

	err = env.membership.RequestJoin(env.ctx, b.ID, robotics.ID, &dto.JoinRequest{Position: " "})
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
}

func TestApproveAndReject_SuperadminOnly(t *testing.T) {
	env := newTestEnv(t)
	a := env.user(t, "alice")
	club := env.club(t, a, "Robotics")
	exec := env.exec(t, club, "erin")
	b := env.user(t, "bob")
	require.NoError(t, env.membership.RequestJoin(env.ctx, b.ID, club.ID, &dto.JoinRequest{Position: "X"}))

	err := env.membership.ApproveJoinRequest(env.ctx, exec.ID, club.ID, b.ID)
	assert.Equal(t, apperrors.KindForbidden, apperrors.KindOf(err))
	err = env.membership.RejectJoinRequest(env.ctx, exec.ID, club.ID, b.ID)
	assert.Equal(t, apperrors.KindForbidden, apperrors.KindOf(err))
	_, err = env.membership.ListPendingJoinRequests(env.ctx, exec.ID, club.ID)
	assert.Equal(t, apperrors.KindForbidden, apperrors.KindOf(err))

	err = env.membership.ApproveJoinRequest(env.ctx, a.ID, club.ID, exec.ID)
	assert.ErrorIs(t, err, apperrors.ErrAlreadyExec)

	require.NoError(t, env.membership.RejectJoinRequest(env.ctx, a.ID, club.ID, b.ID))
	b = env.reload(t, b.ID)
	assert.Nil(t, b.AdminClubID)
	assert.Nil(t, b.ExecPosition)
	assert.Nil(t, b.Bio)
	assert.Nil(t, b.ProfilePhotoURL)

	err = env.membership.RejectJoinRequest(env.ctx, a.ID, club.ID, b.ID)
	assert.ErrorIs(t, err, apperrors.ErrNoPendingRequest)
	err = env.membership.ApproveJoinRequest(env.ctx, a.ID, club.ID, b.ID)
	assert.ErrorIs(t, err, apperrors.ErrNoPendingRequest)

	// Rejected users may ask again
	require.NoError(t, env.membership.RequestJoin(env.ctx, b.ID, club.ID, &dto.JoinRequest{Position: "Y"}))
}

func TestListClubs_Paginates(t *testing.T) {
	env := newTestEnv(t)
	for _, name := range []string{"A", "B", "C"} {
		env.club(t, env.user(t, "owner"+name), name)
	}

	page, err := env.membership.ListClubs(env.ctx, 2, 2)
	require.NoError(t, err)
	require.Len(t, page.Clubs, 1)
	assert.Equal(t, "C", page.Clubs[0].Name)
	assert.Equal(t, int64(3), page.PaginationInfo.TotalItems)
	assert.Equal(t, 2, page.PaginationInfo.TotalPages)
}
