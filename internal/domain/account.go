package domain

import "time"

// Role is the access tier of an account.
type Role string

const (
	RoleCitizen Role = "citizen"
	RoleAdmin   Role = "admin"
)

// Valid reports whether the role is one of the known tiers.
func (r Role) Valid() bool {
	switch r {
	case RoleCitizen, RoleAdmin:
		return true
	}
	return false
}

// Account is the domain model for registered callers.
type Account struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	Phone        *string
	Address      *string
	CreatedAt    time.Time
}
