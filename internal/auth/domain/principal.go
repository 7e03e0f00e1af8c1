package domain

// Principal is an authenticated caller with its role and permission names
// resolved once per request.
type Principal struct {
	Identity    Identity
	Role        *Role // nil when the identity has no role or it no longer exists
	Permissions map[string]struct{}
}

// NewPrincipal builds the permission-name set from role.
func NewPrincipal(identity Identity, role *Role) *Principal {
	p := &Principal{
		Identity:    identity,
		Role:        role,
		Permissions: make(map[string]struct{}),
	}
	if role != nil {
		for _, perm := range role.Permissions {
			p.Permissions[perm.Name] = struct{}{}
		}
	}
	return p
}

// Has reports whether name is in the principal's permission set.
func (p *Principal) Has(name string) bool {
	_, ok := p.Permissions[name]
	return ok
}
