package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/gatekeeper/pkg/authsdk"
)

func newAuthService(t *testing.T) *AuthService {
	t.Helper()
	s := newTestStore(t)
	return &AuthService{Store: s, Tokens: newTokenService(t, s), Types: testTypes}
}

func TestSignup(t *testing.T) {
	ctx := context.Background()
	svc := newAuthService(t)

	t.Run("creates identity with tokens", func(t *testing.T) {
		identity, pair, err := svc.Signup(ctx, SignupInput{Email: " A@B.com ", Password: testPassword})
		require.NoError(t, err)
		require.Equal(t, "a@b.com", identity.Email)
		require.Equal(t, "CUSTOMER", identity.Type)
		require.NotEmpty(t, pair.AccessToken)
		require.NotEmpty(t, pair.RefreshToken)
		require.NotEqual(t, testPassword, identity.PasswordHash)
	})

	t.Run("duplicate email", func(t *testing.T) {
		_, _, err := svc.Signup(ctx, SignupInput{Email: "a@b.com", Password: testPassword})
		require.ErrorIs(t, err, authsdk.ErrInvalidRequest)
		require.Contains(t, err.Error(), "Email already exists")
	})

	role := seedRole(t, svc.Store, "Cashier", "order_view")

	tests := []struct {
		name string
		in   SignupInput
		want *authsdk.APIError
	}{
		{"bad email", SignupInput{Email: "nope", Password: testPassword}, authsdk.ErrValidation},
		{"short password", SignupInput{Email: "c@d.com", Password: "1234567"}, authsdk.ErrValidation},
		{"unknown type", SignupInput{Email: "c@d.com", Password: testPassword, Type: "ADMIN"}, authsdk.ErrValidation},
		{"elevated type", SignupInput{Email: "c@d.com", Password: testPassword, Type: "BUSINESS-OWNER"}, authsdk.ErrValidation},
		{"staff without role", SignupInput{Email: "c@d.com", Password: testPassword, Type: "EMPLOYEE"}, authsdk.ErrInvalidRequest},
		{"staff with unknown role", SignupInput{
			Email: "c@d.com", Password: testPassword, Type: "EMPLOYEE", RoleID: ptr("missing"),
		}, authsdk.ErrNotFound},
		{"customer with unknown role", SignupInput{
			Email: "c@d.com", Password: testPassword, RoleID: ptr("missing"),
		}, authsdk.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := svc.Signup(ctx, tt.in)
			require.ErrorIs(t, err, tt.want)

			_, err = svc.Store.Identities().GetIdentityByEmail(ctx, "c@d.com")
			require.Error(t, err, "nothing may be persisted")
		})
	}

	t.Run("staff with role", func(t *testing.T) {
		identity, _, err := svc.Signup(ctx, SignupInput{
			Email: "staff@b.com", Password: testPassword, Type: "EMPLOYEE", RoleID: &role.ID,
		})
		require.NoError(t, err)
		require.Equal(t, &role.ID, identity.RoleID)
	})

	t.Run("customer with role", func(t *testing.T) {
		identity, _, err := svc.Signup(ctx, SignupInput{
			Email: "customer@b.com", Password: testPassword, RoleID: &role.ID,
		})
		require.NoError(t, err)
		require.Equal(t, "CUSTOMER", identity.Type)
		require.Equal(t, &role.ID, identity.RoleID)
	})
}

func TestSignin(t *testing.T) {
	ctx := context.Background()
	svc := newAuthService(t)
	alice := seedIdentity(t, svc.Store, "alice@example.com", "CUSTOMER", nil)

	t.Run("success", func(t *testing.T) {
		identity, pair, err := svc.Signin(ctx, "ALICE@example.com", testPassword)
		require.NoError(t, err)
		require.Equal(t, alice.ID, identity.ID)
		require.NotEmpty(t, pair.RefreshToken)
	})

	t.Run("bad credentials look alike", func(t *testing.T) {
		_, _, err := svc.Signin(ctx, "alice@example.com", "wrong-password")
		require.ErrorIs(t, err, authsdk.ErrInvalidRequest)
		require.Contains(t, err.Error(), "Invalid email or password")

		_, _, err = svc.Signin(ctx, "nobody@example.com", testPassword)
		require.ErrorIs(t, err, authsdk.ErrInvalidRequest)
		require.Contains(t, err.Error(), "Invalid email or password")
	})

	t.Run("missing fields", func(t *testing.T) {
		_, _, err := svc.Signin(ctx, "", "")
		require.ErrorIs(t, err, authsdk.ErrInvalidRequest)
	})

	t.Run("suspended never reaches issuance", func(t *testing.T) {
		bob := seedIdentity(t, svc.Store, "bob@example.com", "CUSTOMER", nil)
		require.NoError(t, svc.Store.Identities().UpdateSuspended(ctx, bob.ID, true))

		_, pair, err := svc.Signin(ctx, "bob@example.com", testPassword)
		require.ErrorIs(t, err, authsdk.ErrAccountSuspended)
		require.Equal(t, "account_suspended: account suspended", err.Error())
		require.Nil(t, pair)

		history, err := svc.Store.Identities().ListRefreshTokens(ctx, bob.ID)
		require.NoError(t, err)
		require.Empty(t, history)
	})
}

func TestRefresh(t *testing.T) {
	ctx := context.Background()
	svc := newAuthService(t)
	seedIdentity(t, svc.Store, "alice@example.com", "CUSTOMER", nil)

	_, pair, err := svc.Signin(ctx, "alice@example.com", testPassword)
	require.NoError(t, err)

	identity, next, err := svc.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	require.Equal(t, "alice@example.com", identity.Email)
	require.NotEqual(t, pair.AccessToken, next.AccessToken)
}

func ptr[T any](v T) *T { return &v }
