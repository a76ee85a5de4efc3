package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func int64p(v int64) *int64 { return &v }

func TestMembershipStateOf(t *testing.T) {
	club := &Club{ID: 7, Admins: []int64{1}, Execs: []int64{1, 2}}

	tests := []struct {
		name string
		user *User
		want MembershipState
	}{
		{"no admin club", &User{ID: 3}, MembershipNone},
		{"pending", &User{ID: 3, AdminClubID: int64p(7)}, MembershipPending},
		{"approved", &User{ID: 2, AdminClubID: int64p(7)}, MembershipApproved},
		{"other club", &User{ID: 3, AdminClubID: int64p(8)}, MembershipNone},
		{"exec without profile is still approved", &User{ID: 2}, MembershipApproved},
		{"nil user", nil, MembershipNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MembershipStateOf(tt.user, club))
		})
	}
}

func TestClubRoles(t *testing.T) {
	club := &Club{Admins: []int64{4, 5}, Execs: []int64{4, 6}}

	assert.Equal(t, int64(4), club.SuperadminID())
	assert.True(t, club.IsSuperadmin(4))
	assert.False(t, club.IsSuperadmin(5))
	assert.True(t, club.IsAdmin(5))
	assert.True(t, club.IsExec(6))
	assert.False(t, club.IsExec(5))

	empty := &Club{}
	assert.Zero(t, empty.SuperadminID())
	assert.False(t, empty.IsSuperadmin(0))
}

func TestUserProfileAndRoles(t *testing.T) {
	u := &User{FirstName: "Ada", LastName: "Lovelace", Roles: []Role{RoleStudent}}

	assert.False(t, u.GrantRole(RoleStudent))
	assert.True(t, u.GrantRole(RoleClubLeader))
	assert.Equal(t, []Role{RoleStudent, RoleClubLeader}, u.Roles)
	assert.Equal(t, "Ada Lovelace", u.FullName())

	bio := "hi"
	u.SetClubProfile(ClubProfile{ClubID: 9, Position: "Treasurer", Bio: &bio})
	assert.Equal(t, int64(9), *u.AdminClubID)
	assert.Equal(t, "Treasurer", *u.ExecPosition)

	u.ClearClubProfile()
	assert.Nil(t, u.AdminClubID)
	assert.Nil(t, u.ExecPosition)
	assert.Nil(t, u.Bio)
}

func TestCommentTombstone(t *testing.T) {
	stars := 4
	c := &Comment{AuthorID: 3, Body: "great", Stars: &stars}
	c.Tombstone()

	assert.True(t, c.Deleted)
	assert.Equal(t, DeletedCommentBody, c.Body)
	assert.Nil(t, c.Stars)
	assert.Equal(t, int64(3), c.AuthorID)
}

func TestOpenRoleClosed(t *testing.T) {
	deadline := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	r := &OpenRole{Deadline: deadline}

	assert.False(t, r.Closed(deadline))
	assert.False(t, r.Closed(deadline.Add(-time.Minute)))
	assert.True(t, r.Closed(deadline.Add(time.Second)))
}

func TestEnumsValid(t *testing.T) {
	assert.True(t, RoleClubLeader.Valid())
	assert.False(t, Role("GUEST").Valid())
	assert.True(t, ApplicationWithdrawn.Valid())
	assert.False(t, ApplicationStatus("PENDING").Valid())
}
