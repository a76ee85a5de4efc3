package models

import "time"

// Club represents a student club. Admins[0] is the superadmin and never changes.
type Club struct {
	ID          int64     `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	Admins      []int64   `json:"admins" db:"admins"`
	Execs       []int64   `json:"execs" db:"execs"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

// SuperadminID returns the club owner, or 0 for a malformed club
func (c *Club) SuperadminID() int64 {
	if len(c.Admins) == 0 {
		return 0
	}
	return c.Admins[0]
}

// IsSuperadmin reports whether userID owns the club
func (c *Club) IsSuperadmin(userID int64) bool {
	return userID != 0 && c.SuperadminID() == userID
}

// IsExec reports whether userID is an approved exec
func (c *Club) IsExec(userID int64) bool {
	return containsID(c.Execs, userID)
}

// IsAdmin reports whether userID is listed in admins
func (c *Club) IsAdmin(userID int64) bool {
	return containsID(c.Admins, userID)
}

// MembershipState is the derived state of a (user, club) pair
type MembershipState string

const (
	MembershipNone     MembershipState = "NONE"
	MembershipPending  MembershipState = "PENDING"
	MembershipApproved MembershipState = "APPROVED"
)

// MembershipStateOf derives the membership state from user.AdminClubID and club.Execs.
// Nothing else is authoritative.
func MembershipStateOf(user *User, club *Club) MembershipState {
	if user == nil || club == nil {
		return MembershipNone
	}
	if club.IsExec(user.ID) {
		return MembershipApproved
	}
	if IsPendingMember(user, club) {
		return MembershipPending
	}
	return MembershipNone
}

// IsPendingMember reports user.adminClub == club.id and user not in club.execs
func IsPendingMember(user *User, club *Club) bool {
	return user.AdminClubID != nil && *user.AdminClubID == club.ID && !club.IsExec(user.ID)
}

func containsID(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
