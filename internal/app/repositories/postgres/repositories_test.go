package postgres

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/clubrecruit/internal/app/models"
	"github.com/yigit/clubrecruit/internal/app/repositories"
	"github.com/yigit/clubrecruit/internal/pkg/apperrors"
)

func seedUser(ctx context.Context, t *testing.T, repos *repositories.Repositories, email string) *models.User {
	t.Helper()
	u := &models.User{Email: email, Password: "x", FirstName: "Test", LastName: "User", Roles: []models.Role{models.RoleStudent}}
	require.NoError(t, repos.Users.Create(ctx, u))
	return u
}

func seedClub(ctx context.Context, t *testing.T, repos *repositories.Repositories, name string, owner *models.User) *models.Club {
	t.Helper()
	club := &models.Club{Name: name, Admins: []int64{owner.ID}, Execs: []int64{owner.ID}}
	require.NoError(t, repos.Clubs.Create(ctx, club))
	return club
}

func seedApplication(ctx context.Context, t *testing.T, repos *repositories.Repositories, club *models.Club, applicant *models.User) *models.Application {
	t.Helper()
	role := &models.OpenRole{ClubID: club.ID, Title: "Treasurer", Deadline: time.Now().Add(time.Hour)}
	require.NoError(t, repos.OpenRoles.Create(ctx, role))
	app := &models.Application{ApplicantID: applicant.ID, OpenRoleID: role.ID, Status: models.ApplicationSubmitted}
	require.NoError(t, repos.Applications.Create(ctx, app))
	return app
}

func membershipState(ctx context.Context, t *testing.T, repos *repositories.Repositories, userID, clubID int64) models.MembershipState {
	t.Helper()
	user, err := repos.Users.GetByID(ctx, userID)
	require.NoError(t, err)
	club, err := repos.Clubs.GetByID(ctx, clubID)
	require.NoError(t, err)
	return models.MembershipStateOf(user, club)
}

func TestMembershipTransitions(t *testing.T) {
	repos, _ := newTestRepos(t)
	ctx := context.Background()

	owner := seedUser(ctx, t, repos, "owner@example.com")
	club := seedClub(ctx, t, repos, "Robotics", owner)
	alice := seedUser(ctx, t, repos, "alice@example.com")
	bob := seedUser(ctx, t, repos, "bob@example.com")

	assert.Equal(t, models.MembershipNone, membershipState(ctx, t, repos, alice.ID, club.ID))

	// NONE -> PENDING, only once
	profile := models.ClubProfile{ClubID: club.ID, Position: "Treasurer"}
	require.NoError(t, repos.Users.SetClubProfileIfUnset(ctx, alice.ID, profile))
	assert.Equal(t, models.MembershipPending, membershipState(ctx, t, repos, alice.ID, club.ID))
	assert.ErrorIs(t, repos.Users.SetClubProfileIfUnset(ctx, alice.ID, profile), apperrors.ErrMembershipExists)
	assert.ErrorIs(t, repos.Users.SetClubProfileIfUnset(ctx, 999, profile), apperrors.ErrUserNotFound)

	// PENDING -> APPROVED
	require.NoError(t, repos.Clubs.AddExec(ctx, club.ID, alice.ID))
	require.NoError(t, repos.Users.GrantRole(ctx, alice.ID, models.RoleClubLeader))
	assert.Equal(t, models.MembershipApproved, membershipState(ctx, t, repos, alice.ID, club.ID))

	assert.ErrorIs(t, repos.Clubs.AddExec(ctx, club.ID, alice.ID), apperrors.ErrAlreadyExec)
	assert.ErrorIs(t, repos.Clubs.AddExec(ctx, 999, alice.ID), apperrors.ErrClubNotFound)
	require.NoError(t, repos.Users.GrantRole(ctx, alice.ID, models.RoleClubLeader))
	approved, err := repos.Users.GetByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, []models.Role{models.RoleStudent, models.RoleClubLeader}, approved.Roles)

	reloaded, err := repos.Clubs.GetByID(ctx, club.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{owner.ID, alice.ID}, reloaded.Execs)
	assert.Equal(t, []int64{owner.ID}, reloaded.Admins)

	// An approved exec is no longer pending
	assert.ErrorIs(t, repos.Users.ClearPendingClubProfile(ctx, alice.ID, club.ID), apperrors.ErrNoPendingRequest)

	// PENDING -> NONE
	require.NoError(t, repos.Users.SetClubProfileIfUnset(ctx, bob.ID, models.ClubProfile{ClubID: club.ID, Position: "Secretary"}))
	require.NoError(t, repos.Users.ClearPendingClubProfile(ctx, bob.ID, club.ID))
	assert.Equal(t, models.MembershipNone, membershipState(ctx, t, repos, bob.ID, club.ID))
	rejected, err := repos.Users.GetByID(ctx, bob.ID)
	require.NoError(t, err)
	assert.Nil(t, rejected.AdminClubID)
	assert.Nil(t, rejected.ExecPosition)

	assert.ErrorIs(t, repos.Users.ClearPendingClubProfile(ctx, bob.ID, club.ID), apperrors.ErrNoPendingRequest)
	assert.ErrorIs(t, repos.Users.ClearPendingClubProfile(ctx, 999, club.ID), apperrors.ErrUserNotFound)

	pending, err := repos.Users.ListByAdminClub(ctx, club.ID)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, alice.ID, pending[0].ID)
}

func TestUniqueConstraintsMapToDomainErrors(t *testing.T) {
	repos, _ := newTestRepos(t)
	ctx := context.Background()

	owner := seedUser(ctx, t, repos, "owner@example.com")
	dup := &models.User{Email: "owner@example.com", Password: "x", FirstName: "Other", LastName: "User"}
	assert.ErrorIs(t, repos.Users.Create(ctx, dup), apperrors.ErrEmailAlreadyExists)

	seedClub(ctx, t, repos, "Chess", owner)
	err := repos.Clubs.Create(ctx, &models.Club{Name: "Chess", Admins: []int64{owner.ID}, Execs: []int64{owner.ID}})
	assert.ErrorIs(t, err, apperrors.ErrClubNameTaken)
}

func TestApplicationCreate_Duplicate(t *testing.T) {
	repos, _ := newTestRepos(t)
	ctx := context.Background()

	owner := seedUser(ctx, t, repos, "owner@example.com")
	club := seedClub(ctx, t, repos, "Robotics", owner)
	applicant := seedUser(ctx, t, repos, "app@example.com")
	app := seedApplication(ctx, t, repos, club, applicant)
	assert.Equal(t, map[string]string{}, app.Answers)

	err := repos.Applications.Create(ctx, &models.Application{
		ApplicantID: applicant.ID, OpenRoleID: app.OpenRoleID, Status: models.ApplicationSubmitted,
	})
	require.ErrorIs(t, err, apperrors.ErrDuplicateApplication)
	assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))

	roleIDs, err := repos.OpenRoles.ListIDsByClub(ctx, club.ID)
	require.NoError(t, err)
	exists, err := repos.Applications.ExistsForApplicantInRoles(ctx, applicant.ID, roleIDs)
	require.NoError(t, err)
	assert.True(t, exists)
	exists, err = repos.Applications.ExistsForApplicantInRoles(ctx, owner.ID, roleIDs)
	require.NoError(t, err)
	assert.False(t, exists)

	updated, err := repos.Applications.UpdateStatus(ctx, app.ID, models.ApplicationUnderReview)
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationUnderReview, updated.Status)
}

func TestThreadGetOrCreate_ConcurrentCallersConverge(t *testing.T) {
	repos, _ := newTestRepos(t)
	ctx := context.Background()

	owner := seedUser(ctx, t, repos, "owner@example.com")
	club := seedClub(ctx, t, repos, "Robotics", owner)
	applicant := seedUser(ctx, t, repos, "app@example.com")
	app := seedApplication(ctx, t, repos, club, applicant)

	tests := []struct {
		name   string
		thread func() *models.CommentThread
	}{
		{
			name: "forum",
			thread: func() *models.CommentThread {
				return &models.CommentThread{
					Type: models.ThreadTypeForum, ClubID: club.ID, Title: "Robotics forum",
					Visibility: models.VisibilityClubApplicants, CreatedBy: owner.ID,
				}
			},
		},
		{
			name: "review",
			thread: func() *models.CommentThread {
				appID := app.ID
				return &models.CommentThread{
					Type: models.ThreadTypeReview, ClubID: club.ID, ApplicationID: &appID, Title: "Review",
					Visibility: models.VisibilityClubLeaders, CreatedBy: owner.ID,
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			const workers = 8
			type result struct {
				thread  *models.CommentThread
				created bool
				err     error
			}
			results := make(chan result, workers)
			var wg sync.WaitGroup
			for i := 0; i < workers; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					th, created, err := repos.Threads.GetOrCreate(ctx, tt.thread())
					results <- result{th, created, err}
				}()
			}
			wg.Wait()
			close(results)

			var createdCount int
			ids := map[int64]struct{}{}
			for r := range results {
				require.NoError(t, r.err)
				if r.created {
					createdCount++
				}
				ids[r.thread.ID] = struct{}{}
			}
			assert.Equal(t, 1, createdCount)
			assert.Len(t, ids, 1)

			again, created, err := repos.Threads.GetOrCreate(ctx, tt.thread())
			require.NoError(t, err)
			assert.False(t, created)
			_, ok := ids[again.ID]
			assert.True(t, ok)
		})
	}
}

func TestThreadLockAndCount(t *testing.T) {
	repos, _ := newTestRepos(t)
	ctx := context.Background()

	owner := seedUser(ctx, t, repos, "owner@example.com")
	club := seedClub(ctx, t, repos, "Robotics", owner)
	forum, _, err := repos.Threads.GetOrCreate(ctx, &models.CommentThread{
		Type: models.ThreadTypeForum, ClubID: club.ID, Title: "Forum",
		Visibility: models.VisibilityClubApplicants, CreatedBy: owner.ID,
	})
	require.NoError(t, err)

	locked, err := repos.Threads.SetLocked(ctx, forum.ID, true)
	require.NoError(t, err)
	assert.True(t, locked.Locked)

	require.NoError(t, repos.Threads.IncrementCommentCount(ctx, forum.ID))
	reloaded, err := repos.Threads.GetByID(ctx, forum.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), reloaded.CommentCount)

	_, err = repos.Threads.SetLocked(ctx, 999, true)
	assert.ErrorIs(t, err, apperrors.ErrThreadNotFound)
	assert.ErrorIs(t, repos.Threads.IncrementCommentCount(ctx, 999), apperrors.ErrThreadNotFound)
}

func TestCommentSoftDelete_Idempotent(t *testing.T) {
	repos, _ := newTestRepos(t)
	ctx := context.Background()

	owner := seedUser(ctx, t, repos, "owner@example.com")
	club := seedClub(ctx, t, repos, "Robotics", owner)
	applicant := seedUser(ctx, t, repos, "app@example.com")
	app := seedApplication(ctx, t, repos, club, applicant)
	review, _, err := repos.Threads.GetOrCreate(ctx, &models.CommentThread{
		Type: models.ThreadTypeReview, ClubID: club.ID, ApplicationID: &app.ID, Title: "Review",
		Visibility: models.VisibilityClubLeaders, CreatedBy: owner.ID,
	})
	require.NoError(t, err)

	stars := 4
	comment := &models.Comment{ThreadID: review.ID, AuthorID: owner.ID, Body: "Strong", Stars: &stars}
	require.NoError(t, repos.Comments.Create(ctx, comment))
	reply := &models.Comment{ThreadID: review.ID, AuthorID: owner.ID, ParentID: &comment.ID, Body: "Agreed"}
	require.NoError(t, repos.Comments.Create(ctx, reply))

	cleared, err := repos.Comments.UpdateContent(ctx, comment.ID, "Strong hire", nil)
	require.NoError(t, err)
	assert.Equal(t, "Strong hire", cleared.Body)
	assert.Nil(t, cleared.Stars)

	first, err := repos.Comments.SoftDelete(ctx, comment.ID)
	require.NoError(t, err)
	assert.True(t, first.Deleted)
	assert.Equal(t, models.DeletedCommentBody, first.Body)
	assert.Nil(t, first.Stars)

	second, err := repos.Comments.SoftDelete(ctx, comment.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.Body, second.Body)
	assert.True(t, second.Deleted)
	assert.True(t, first.UpdatedAt.Equal(second.UpdatedAt))

	_, err = repos.Comments.UpdateContent(ctx, comment.ID, "undo", nil)
	assert.ErrorIs(t, err, apperrors.ErrCommentDeleted)
	_, err = repos.Comments.SoftDelete(ctx, 999)
	assert.ErrorIs(t, err, apperrors.ErrCommentNotFound)

	// Tombstones stay in the listing so replies keep their parent
	listed, err := repos.Comments.ListByThread(ctx, review.ID)
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, comment.ID, listed[0].ID)
	assert.True(t, listed[0].Deleted)
	assert.Equal(t, reply.ID, listed[1].ID)
}

func TestWithinTx_RollsBack(t *testing.T) {
	repos, database := newTestRepos(t)
	ctx := context.Background()

	boom := errors.New("boom")
	err := database.WithinTx(ctx, func(ctx context.Context) error {
		u := seedUser(ctx, t, repos, "tx@example.com")
		seedClub(ctx, t, repos, fmt.Sprintf("Club %d", u.ID), u)
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, err = repos.Users.GetByEmail(ctx, "tx@example.com")
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
	clubs, total, err := repos.Clubs.List(ctx, 0, 10)
	require.NoError(t, err)
	assert.Empty(t, clubs)
	assert.Zero(t, total)
}
