package service

import (
	"context"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/gatekeeper/internal/auth/domain"
	"github.com/aussiebroadwan/gatekeeper/internal/auth/store"
	"github.com/aussiebroadwan/gatekeeper/internal/auth/store/drivers/sqlite"
	"github.com/aussiebroadwan/gatekeeper/pkg/cryptox"
	"github.com/aussiebroadwan/gatekeeper/pkg/idx"
	"github.com/aussiebroadwan/gatekeeper/pkg/jwtx"
)

const (
	testIssuer   = "gatekeeper-test"
	testPassword = "12345678"
)

var testTypes = domain.UserTypes{
	All:      []string{"BUSINESS-OWNER", "CUSTOMER", "EMPLOYEE"},
	Elevated: "BUSINESS-OWNER",
	Default:  "CUSTOMER",
	Staff:    "EMPLOYEE",
}

func TestMain(m *testing.M) {
	cryptox.SetPepper("test-pepper")
	os.Exit(m.Run())
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	s, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.ApplyMigrations())
	return s
}

func newHS256(t *testing.T, secret string) *jwtx.HS256 {
	t.Helper()
	h, err := jwtx.NewHS256([]byte(secret), testIssuer, 0)
	require.NoError(t, err)
	return h
}

func newTokenService(t *testing.T, s store.Store) *TokenService {
	t.Helper()
	return &TokenService{
		Store:      s,
		Access:     newHS256(t, "access-secret-access-secret-0123456789"),
		Refresh:    newHS256(t, "refresh-secret-refresh-secret-0123456789"),
		AccessTTL:  15 * time.Minute,
		RefreshTTL: 7 * 24 * time.Hour,
	}
}

// seedIdentity stores an identity with testPassword.
func seedIdentity(t *testing.T, s store.Store, email, identityType string, roleID *string) domain.Identity {
	t.Helper()
	hash, err := cryptox.HashPassword(testPassword)
	require.NoError(t, err)

	i := domain.Identity{
		ID:           idx.New().String(),
		Email:        email,
		PasswordHash: hash,
		RoleID:       roleID,
		Type:         identityType,
	}
	require.NoError(t, s.Identities().CreateIdentity(context.Background(), i))
	return i
}

// seedRole stores a role holding the named permissions.
func seedRole(t *testing.T, s store.Store, name string, permissions ...string) domain.Role {
	t.Helper()
	ctx := context.Background()

	role := domain.Role{ID: idx.New().String(), Name: name}
	for _, n := range permissions {
		p, err := s.Permissions().GetPermissionByName(ctx, n)
		require.NoError(t, err)
		role.Permissions = append(role.Permissions, p)
	}
	require.NoError(t, s.Roles().CreateRole(ctx, role))

	got, err := s.Roles().GetRoleByID(ctx, role.ID)
	require.NoError(t, err)
	return got
}
