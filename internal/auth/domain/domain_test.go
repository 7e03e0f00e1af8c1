package domain_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/gatekeeper/internal/auth/domain"
)

func TestNewPrincipal(t *testing.T) {
	role := &domain.Role{ID: "r1", Permissions: []domain.Permission{{Name: "role_view"}, {Name: "role_edit"}}}

	p := domain.NewPrincipal(domain.Identity{ID: "u1"}, role)
	require.True(t, p.Has("role_view"))
	require.True(t, p.Has("role_edit"))
	require.False(t, p.Has("role_delete"))
	require.ElementsMatch(t, []string{"role_view", "role_edit"}, role.PermissionNames())

	none := domain.NewPrincipal(domain.Identity{ID: "u2"}, nil)
	require.NotNil(t, none.Permissions)
	require.False(t, none.Has("role_view"))
}

func TestStripBearer(t *testing.T) {
	tests := map[string]string{
		"Bearer abc":   "abc",
		"abc":          "abc",
		" Bearer abc ": "abc",
		"Bearer ":      "",
	}
	for in, want := range tests {
		require.Equal(t, want, domain.StripBearer(in), in)
	}
	require.Equal(t, "Bearer abc", domain.StoredRefreshToken("abc"))
}

func TestUserTypes(t *testing.T) {
	ut := domain.UserTypes{
		All:      []string{"BUSINESS-OWNER", "CUSTOMER", "EMPLOYEE"},
		Elevated: "BUSINESS-OWNER",
		Default:  "CUSTOMER",
		Staff:    "EMPLOYEE",
	}
	require.True(t, ut.Valid("CUSTOMER"))
	require.False(t, ut.Valid("ADMIN"))
	require.True(t, ut.IsElevated("BUSINESS-OWNER"))
	require.False(t, ut.IsElevated("EMPLOYEE"))
	require.False(t, domain.UserTypes{}.IsElevated(""))
}
