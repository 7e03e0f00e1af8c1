package service

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/gatekeeper/internal/auth/domain"
	"github.com/aussiebroadwan/gatekeeper/internal/auth/store/drivers/sqlite"
)

func newFileStore(t *testing.T) *sqlite.Store {
	t.Helper()
	s, err := sqlite.NewStore("file:" + filepath.Join(t.TempDir(), "auth.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.ApplyMigrations())
	return s
}

func TestConcurrentWritesOnFileStore(t *testing.T) {
	ctx := context.Background()
	s := newFileStore(t)
	tokens := newTokenService(t, s)
	svc := &AuthService{Store: s, Tokens: tokens, Types: testTypes}

	t.Run("signups with distinct emails", func(t *testing.T) {
		const n = 10
		var wg sync.WaitGroup
		for i := range n {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, _, err := svc.Signup(ctx, SignupInput{
					Email:    fmt.Sprintf("user%d@example.com", i),
					Password: testPassword,
				})
				assert.NoError(t, err)
			}()
		}
		wg.Wait()

		for i := range n {
			_, err := s.Identities().GetIdentityByEmail(ctx, fmt.Sprintf("user%d@example.com", i))
			require.NoError(t, err)
		}
	})

	t.Run("issuances for one identity", func(t *testing.T) {
		alice := seedIdentity(t, s, "alice@example.com", "CUSTOMER", nil)

		var wg sync.WaitGroup
		for range 20 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := tokens.Issue(ctx, alice)
				assert.NoError(t, err)
			}()
		}
		wg.Wait()

		history, err := s.Identities().ListRefreshTokens(ctx, alice.ID)
		require.NoError(t, err)
		require.Len(t, history, domain.RefreshHistoryLimit)
	})

	t.Run("signups mixed with issuances", func(t *testing.T) {
		bob := seedIdentity(t, s, "bob@example.com", "CUSTOMER", nil)

		var wg sync.WaitGroup
		for i := range 10 {
			wg.Add(2)
			go func() {
				defer wg.Done()
				_, _, err := svc.Signup(ctx, SignupInput{
					Email:    fmt.Sprintf("mixed%d@example.com", i),
					Password: testPassword,
				})
				assert.NoError(t, err)
			}()
			go func() {
				defer wg.Done()
				_, err := tokens.Issue(ctx, bob)
				assert.NoError(t, err)
			}()
		}
		wg.Wait()
	})
}
