package model

import "time"

// Role classifies the user casting a vote. Admin and journalist votes
// carry double weight in the community score.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleJournalist Role = "journalist"
	RoleUser       Role = "user"
)

// Weight returns the vote weight for the role.
func (r Role) Weight() int {
	switch r {
	case RoleAdmin, RoleJournalist:
		return 2
	default:
		return 1
	}
}

// Vote is one user's signal on one event. There is at most one vote per
// (event, user) pair; a new vote from the same user replaces the
// previous value, and a zero value removes it.
type Vote struct {
	EventID   string    `json:"event_id"`
	UserID    string    `json:"user_id"`
	Value     int       `json:"value"` // -1, 0, +1
	Role      Role      `json:"role"`
	UpdatedAt time.Time `json:"updated_at"`
}
