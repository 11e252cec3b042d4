package model

import "time"

// Role is the coarse authorization level of a user.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleUser
}

// User is the identity consumed by the access gate. CanCreateEvents is
// granted by an admin and is independent of the role; admins always have it.
type User struct {
	ID                int        `json:"id" db:"id"`
	Nickname          string     `json:"nickname" db:"nickname"`
	Email             string     `json:"email" db:"email"`
	Role              Role       `json:"role" db:"role"`
	CanCreateEvents   bool       `json:"can_create_events" db:"can_create_events"`
	EmailVerified     bool       `json:"email_verified" db:"email_verified"`
	NicknameChangedAt *time.Time `json:"nickname_changed_at,omitempty" db:"nickname_changed_at"`
	CreatedAt         time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at" db:"updated_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// MayCreateEvents is the capability check for event creation.
func (u *User) MayCreateEvents() bool {
	return u.IsAdmin() || u.CanCreateEvents
}
