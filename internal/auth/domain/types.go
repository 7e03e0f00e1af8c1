package domain

import "slices"

// UserTypes is the configured identity type enumeration.
type UserTypes struct {
	All      []string
	Elevated string // bypasses every permission check
	Default  string // assigned at signup when none is given
	Staff    string // must carry a role at creation
}

// Valid reports whether t is one of the configured types.
func (u UserTypes) Valid(t string) bool {
	return slices.Contains(u.All, t)
}

func (u UserTypes) IsElevated(t string) bool {
	return u.Elevated != "" && t == u.Elevated
}
