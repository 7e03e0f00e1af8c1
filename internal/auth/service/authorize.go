package service

import (
	"github.com/aussiebroadwan/gatekeeper/internal/auth/domain"
	"github.com/aussiebroadwan/gatekeeper/pkg/authsdk"
)

// Authorize decides whether p may perform an operation guarded by the
// required permission. It does no I/O; the principal's permissions were
// expanded during authentication.
//
// The cases are checked in order:
//  1. the elevated identity type is always admitted
//  2. an identity without a role is denied
//  3. otherwise the permission name must be in the role's set
func Authorize(p *domain.Principal, elevatedType, required string) error {
	switch {
	case p == nil:
		return authsdk.ErrUnauthenticated
	case elevatedType != "" && p.Identity.Type == elevatedType:
		return nil
	case p.Role == nil:
		return authsdk.ErrForbidden
	case p.Has(required):
		return nil
	default:
		return authsdk.ErrForbidden
	}
}
