package models

// Role is a tagged capability held by a user
type Role string

const (
	RoleStudent    Role = "STUDENT"
	RoleAdmin      Role = "ADMIN"
	RoleClubLeader Role = "CLUB_LEADER"
)

// Valid reports whether r is one of the known roles
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleAdmin, RoleClubLeader:
		return true
	}
	return false
}
