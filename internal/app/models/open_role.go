package models

import "time"

// OpenRole is a position a club is recruiting for
type OpenRole struct {
	ID          int64     `json:"id" db:"id"`
	ClubID      int64     `json:"clubId" db:"club_id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	Deadline    time.Time `json:"deadline" db:"deadline"`
	Questions   []string  `json:"questions" db:"questions"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}

// Closed reports whether the deadline has passed at now
func (r *OpenRole) Closed(now time.Time) bool {
	return now.After(r.Deadline)
}
