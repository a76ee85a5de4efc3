package models

import (
	"strings"
	"time"
)

// User defines the user model based on the 'users' table
type User struct {
	ID        int64     `json:"id" db:"id"`
	Email     string    `json:"email" db:"email"`
	Password  string    `json:"-" db:"password"`
	FirstName string    `json:"firstName" db:"first_name"`
	LastName  string    `json:"lastName" db:"last_name"`
	Roles     []Role    `json:"roles" db:"roles"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`

	// Club profile. Only meaningful while AdminClubID is set.
	AdminClubID     *int64  `json:"adminClubId,omitempty" db:"admin_club_id"`
	ExecPosition    *string `json:"execPosition,omitempty" db:"exec_position"`
	Bio             *string `json:"bio,omitempty" db:"bio"`
	ProfilePhotoURL *string `json:"profilePhotoUrl,omitempty" db:"profile_photo_url"`
}

// ClubProfile is the exec-facing profile attached to a club membership
type ClubProfile struct {
	ClubID          int64
	Position        string
	Bio             *string
	ProfilePhotoURL *string
}

// HasRole reports whether the user holds role
func (u *User) HasRole(role Role) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// GrantRole adds role if not already present and reports whether it changed anything
func (u *User) GrantRole(role Role) bool {
	if u.HasRole(role) {
		return false
	}
	u.Roles = append(u.Roles, role)
	return true
}

// FullName joins first and last name
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// SetClubProfile attaches the user to a club with the given profile
func (u *User) SetClubProfile(p ClubProfile) {
	clubID := p.ClubID
	position := p.Position
	u.AdminClubID = &clubID
	u.ExecPosition = &position
	u.Bio = p.Bio
	u.ProfilePhotoURL = p.ProfilePhotoURL
}

// ClearClubProfile detaches the user from any club
func (u *User) ClearClubProfile() {
	u.AdminClubID = nil
	u.ExecPosition = nil
	u.Bio = nil
	u.ProfilePhotoURL = nil
}
