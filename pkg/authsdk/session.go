package authsdk

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// refreshSkew refreshes access tokens slightly before they expire.
const refreshSkew = 30 * time.Second

// Session holds a token pair and refreshes the access token transparently.
// It is safe for concurrent use.
type Session struct {
	client *SDKClient

	mu           sync.RWMutex
	user         UserInfo
	accessToken  string
	refreshToken string
	expiresAt    time.Time
}

func newSession(client *SDKClient, out *AuthResponse) *Session {
	s := &Session{client: client}
	s.apply(out)
	return s
}

// apply stores a fresh pair. The caller holds mu or owns s exclusively.
func (s *Session) apply(out *AuthResponse) {
	s.user = out.User
	s.accessToken = out.AccessToken
	s.refreshToken = out.RefreshToken
	s.expiresAt = time.Now().Add(time.Duration(out.ExpiresIn)*time.Second - refreshSkew)
}

func (s *Session) getValidToken(ctx context.Context) (string, error) {
	s.mu.RLock()
	if time.Now().Before(s.expiresAt) {
		token := s.accessToken
		s.mu.RUnlock()
		return token, nil
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	// Another goroutine may have refreshed while we waited.
	if time.Now().Before(s.expiresAt) {
		return s.accessToken, nil
	}
	if s.refreshToken == "" {
		return "", errors.New("access token expired and no refresh token available")
	}

	out, err := s.client.Refresh(ctx, s.refreshToken)
	if err != nil {
		return "", fmt.Errorf("failed to refresh token: %w", err)
	}
	s.apply(out)
	return s.accessToken, nil
}

// Refresh forces a token rotation regardless of expiry.
func (s *Session) Refresh(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	out, err := s.client.Refresh(ctx, s.refreshToken)
	if err != nil {
		return err
	}
	s.apply(out)
	return nil
}

// User returns the identity the session was last issued for.
func (s *Session) User() UserInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// AccessToken returns the current access token without checking expiry.
func (s *Session) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken
}

// RefreshToken returns the current refresh token.
func (s *Session) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refreshToken
}
