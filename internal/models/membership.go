package models

import (
	"time"

	"github.com/google/uuid"
)

// Society roles, ordered by rank.
const (
	RoleOwner    = "OWNER"
	RoleAdmin    = "ADMIN"
	RoleStaff    = "STAFF"
	RoleReadOnly = "READ_ONLY"
)

var roleRank = map[string]int{
	RoleOwner:    4,
	RoleAdmin:    3,
	RoleStaff:    2,
	RoleReadOnly: 1,
}

// RoleRank returns the numeric rank of a role, 0 for unknown roles.
func RoleRank(role string) int {
	return roleRank[role]
}

// HasRole reports whether an actual role satisfies a minimum required role.
func HasRole(actual, minimum string) bool {
	return roleRank[actual] >= roleRank[minimum]
}

// ValidRole reports whether role is one of the known society roles.
func ValidRole(role string) bool {
	_, ok := roleRank[role]
	return ok
}

// SocietyMember binds a User to a Society with a role. One row per
// (user, society) pair; assigning a role again replaces the existing one.
type SocietyMember struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	SocietyID uuid.UUID `json:"society_id" db:"society_id"`
	Role      string    `json:"role" db:"role"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`

	User *User `json:"user,omitempty" db:"-"`
}
