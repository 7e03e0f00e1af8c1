package domain

import "time"

// RefreshHistoryLimit bounds the refresh tokens retained per identity.
const RefreshHistoryLimit = 10

type Identity struct {
	ID           string
	Email        string // lowercased, unique
	Name         string
	PasswordHash string  // argon2 encoded
	RoleID       *string // nil when the identity has no role
	Type         string
	Suspended    bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasRole reports whether a role is assigned.
func (i Identity) HasRole() bool { return i.RoleID != nil && *i.RoleID != "" }
