package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/gatekeeper/internal/auth/domain"
	"github.com/aussiebroadwan/gatekeeper/pkg/authsdk"
)

func TestIssue(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	tokens := newTokenService(t, s)
	roleID := "role-1"
	alice := seedIdentity(t, s, "alice@example.com", "EMPLOYEE", &roleID)

	pair, err := tokens.Issue(ctx, alice)
	require.NoError(t, err)
	require.Equal(t, 15*time.Minute, pair.ExpiresIn)

	t.Run("access claims", func(t *testing.T) {
		claims, err := tokens.VerifyAccess(pair.AccessToken)
		require.NoError(t, err)
		require.Equal(t, alice.ID, claims.Subject)
		require.Equal(t, alice.Email, claims.Email)
		require.Equal(t, &roleID, claims.Role)
		require.Equal(t, "EMPLOYEE", claims.Type)
		require.Equal(t, testIssuer, claims.Issuer)
	})

	t.Run("history stores the bearer form", func(t *testing.T) {
		history, err := s.Identities().ListRefreshTokens(ctx, alice.ID)
		require.NoError(t, err)
		require.Equal(t, []string{"Bearer " + pair.RefreshToken}, history)
	})

	t.Run("refresh token is not an access token", func(t *testing.T) {
		_, err := tokens.VerifyAccess(pair.RefreshToken)
		require.ErrorIs(t, err, authsdk.ErrInvalidToken)
	})

	t.Run("vanished identity is a server error", func(t *testing.T) {
		ghost := domain.Identity{ID: "ghost", Email: "ghost@example.com", Type: "CUSTOMER"}
		_, err := tokens.Issue(ctx, ghost)
		require.ErrorIs(t, err, authsdk.ErrServerError)
	})
}

func TestHistoryNeverExceedsLimit(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	tokens := newTokenService(t, s)
	alice := seedIdentity(t, s, "alice@example.com", "CUSTOMER", nil)

	first, err := tokens.Issue(ctx, alice)
	require.NoError(t, err)

	for range domain.RefreshHistoryLimit {
		_, err := tokens.Issue(ctx, alice)
		require.NoError(t, err)

		history, err := s.Identities().ListRefreshTokens(ctx, alice.ID)
		require.NoError(t, err)
		require.LessOrEqual(t, len(history), domain.RefreshHistoryLimit)
	}

	history, err := s.Identities().ListRefreshTokens(ctx, alice.ID)
	require.NoError(t, err)
	require.NotContains(t, history, "Bearer "+first.RefreshToken)

	// Still correctly signed and unexpired, but evicted.
	_, _, err = tokens.Rotate(ctx, first.RefreshToken)
	require.ErrorIs(t, err, authsdk.ErrInvalidToken)
	require.Contains(t, err.Error(), "not recognised")
}

func TestVerifyAccess(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	tokens := newTokenService(t, s)
	alice := seedIdentity(t, s, "alice@example.com", "CUSTOMER", nil)

	pair, err := tokens.Issue(ctx, alice)
	require.NoError(t, err)

	expired := newTokenService(t, s)
	expired.Now = func() time.Time { return time.Now().Add(-time.Hour) }
	old, err := expired.Issue(ctx, alice)
	require.NoError(t, err)

	other := newTokenService(t, s)
	other.Access = newHS256(t, "a-completely-different-access-secret!!")
	foreign, err := other.Issue(ctx, alice)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
		want  error
	}{
		{"flipped signature", flipSignatureChar(pair.AccessToken), authsdk.ErrInvalidToken},
		{"expired", old.AccessToken, authsdk.ErrTokenExpired},
		{"other secret", foreign.AccessToken, authsdk.ErrInvalidToken},
		{"garbage", "not.a.jwt", authsdk.ErrInvalidToken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tokens.VerifyAccess(tt.token)
			require.ErrorIs(t, err, tt.want)

			var apiErr *authsdk.APIError
			require.ErrorAs(t, err, &apiErr)
			require.Equal(t, 401, apiErr.StatusCode)
		})
	}
}

// flipSignatureChar changes a character well inside the signature; the
// final base64 character carries padding bits a decoder may ignore.
func flipSignatureChar(tok string) string {
	i := len(tok) - 5
	repl := "A"
	if tok[i] == 'A' {
		repl = "B"
	}
	return tok[:i] + repl + tok[i+1:]
}

func TestRotate(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	tokens := newTokenService(t, s)
	alice := seedIdentity(t, s, "alice@example.com", "CUSTOMER", nil)

	pair, err := tokens.Issue(ctx, alice)
	require.NoError(t, err)

	t.Run("accepts optional bearer prefix", func(t *testing.T) {
		next, identity, err := tokens.Rotate(ctx, "Bearer "+pair.RefreshToken)
		require.NoError(t, err)
		require.Equal(t, alice.ID, identity.ID)
		require.NotEqual(t, pair.RefreshToken, next.RefreshToken)
	})

	t.Run("used token stays valid until evicted", func(t *testing.T) {
		_, _, err := tokens.Rotate(ctx, pair.RefreshToken)
		require.NoError(t, err)

		history, err := s.Identities().ListRefreshTokens(ctx, alice.ID)
		require.NoError(t, err)
		require.Contains(t, history, "Bearer "+pair.RefreshToken)
	})

	t.Run("access token is not a refresh token", func(t *testing.T) {
		_, _, err := tokens.Rotate(ctx, pair.AccessToken)
		require.ErrorIs(t, err, authsdk.ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		past := newTokenService(t, s)
		past.Now = func() time.Time { return time.Now().Add(-8 * 24 * time.Hour) }
		old, err := past.Issue(ctx, alice)
		require.NoError(t, err)

		_, _, err = tokens.Rotate(ctx, old.RefreshToken)
		require.ErrorIs(t, err, authsdk.ErrTokenExpired)
	})

	t.Run("empty", func(t *testing.T) {
		_, _, err := tokens.Rotate(ctx, "  ")
		require.ErrorIs(t, err, authsdk.ErrInvalidRequest)
	})

	t.Run("suspended", func(t *testing.T) {
		bob := seedIdentity(t, s, "bob@example.com", "CUSTOMER", nil)
		bobPair, err := tokens.Issue(ctx, bob)
		require.NoError(t, err)
		require.NoError(t, s.Identities().UpdateSuspended(ctx, bob.ID, true))

		_, _, err = tokens.Rotate(ctx, bobPair.RefreshToken)
		require.ErrorIs(t, err, authsdk.ErrAccountSuspended)
	})
}

func TestSameSecondIssuancesDiffer(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	tokens := newTokenService(t, s)
	fixed := time.Now()
	tokens.Now = func() time.Time { return fixed }
	alice := seedIdentity(t, s, "alice@example.com", "CUSTOMER", nil)

	a, err := tokens.Issue(ctx, alice)
	require.NoError(t, err)
	b, err := tokens.Issue(ctx, alice)
	require.NoError(t, err)
	require.NotEqual(t, a.RefreshToken, b.RefreshToken)
	require.False(t, strings.EqualFold(a.AccessToken, b.AccessToken))
}
