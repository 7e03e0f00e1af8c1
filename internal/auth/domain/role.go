package domain

import "time"

type Role struct {
	ID          string
	Name        string
	Permissions []Permission // expanded from role_permissions
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// PermissionNames returns the names of the role's permissions.
func (r Role) PermissionNames() []string {
	out := make([]string, 0, len(r.Permissions))
	for _, p := range r.Permissions {
		out = append(out, p.Name)
	}
	return out
}
