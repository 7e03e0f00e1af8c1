package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/gatekeeper/internal/auth/domain"
	"github.com/aussiebroadwan/gatekeeper/internal/auth/store"
	"github.com/aussiebroadwan/gatekeeper/pkg/authsdk"
	"github.com/aussiebroadwan/gatekeeper/pkg/jwtx"
	"github.com/aussiebroadwan/gatekeeper/pkg/slogx"
)

// TokenService issues, verifies and rotates access/refresh token pairs.
// Access and refresh tokens are signed with different secrets, and every
// issued refresh token is recorded in the identity's bounded history.
type TokenService struct {
	Store      store.Store
	Access     *jwtx.HS256
	Refresh    *jwtx.HS256
	AccessTTL  time.Duration
	RefreshTTL time.Duration

	// Now defaults to time.Now.
	Now func() time.Time
}

func (s *TokenService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Issue signs a new pair for identity and appends the refresh token to its
// history.
func (s *TokenService) Issue(ctx context.Context, identity domain.Identity) (*domain.TokenPair, error) {
	return s.issueWith(ctx, s.Store.Identities(), identity)
}

// issueWith lets callers already inside a transaction append through it.
func (s *TokenService) issueWith(
	ctx context.Context,
	identities store.Identities,
	identity domain.Identity,
) (*domain.TokenPair, error) {
	now := s.now()
	l := slogx.FromContext(ctx)

	access, err := s.Access.Sign(jwtx.NewAccessClaims(
		identity.ID,
		identity.Email,
		identity.RoleID,
		identity.Type,
		s.Access.Issuer(),
		s.AccessTTL,
		now,
	))
	if err != nil {
		return nil, err
	}

	refresh, err := s.Refresh.Sign(jwtx.NewRefreshClaims(identity.ID, s.Refresh.Issuer(), s.RefreshTTL, now))
	if err != nil {
		return nil, err
	}

	err = identities.AppendRefreshToken(ctx, identity.ID, domain.StoredRefreshToken(refresh), now.Add(s.RefreshTTL))
	if errors.Is(err, store.ErrNotFound) {
		// The identity vanished between load and append.
		l.Error("refresh token append found no identity", slog.String("identity_id", identity.ID))
		return nil, authsdk.ServerError("failed to record refresh token")
	}
	if err != nil {
		return nil, err
	}

	return &domain.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    s.AccessTTL,
	}, nil
}

// VerifyAccess checks an access token's signature, issuer and expiry.
func (s *TokenService) VerifyAccess(token string) (*jwtx.AccessClaims, error) {
	var claims jwtx.AccessClaims
	if err := s.Access.Verify(token, &claims); err != nil {
		return nil, tokenError(err, "access")
	}
	if claims.Subject == "" {
		return nil, authsdk.ErrInvalidToken
	}
	return &claims, nil
}

// Rotate exchanges a refresh token for a new pair. The presented token must
// still be in the identity's history; it is not removed, so it stays usable
// until newer issuances push it out.
func (s *TokenService) Rotate(ctx context.Context, presented string) (*domain.TokenPair, domain.Identity, error) {
	l := slogx.FromContext(ctx)

	token := domain.StripBearer(presented)
	if token == "" {
		return nil, domain.Identity{}, authsdk.BadRequest("refresh token is required")
	}

	var claims jwtx.RefreshClaims
	if err := s.Refresh.Verify(token, &claims); err != nil {
		l.Info("refresh token rejected", slogx.Err(err))
		return nil, domain.Identity{}, tokenError(err, "refresh")
	}

	identity, err := s.Store.Identities().GetIdentityByID(ctx, claims.Subject)
	if errors.Is(err, store.ErrNotFound) {
		return nil, domain.Identity{}, authsdk.Unauthorized("identity not found")
	}
	if err != nil {
		return nil, domain.Identity{}, err
	}

	known, err := s.Store.Identities().HasRefreshToken(ctx, identity.ID, domain.StoredRefreshToken(token))
	if err != nil {
		return nil, domain.Identity{}, err
	}
	if !known {
		l.Info("refresh token not in history", slog.String("identity_id", identity.ID))
		return nil, domain.Identity{}, authsdk.Unauthorized("refresh token not recognised")
	}

	if identity.Suspended {
		return nil, domain.Identity{}, authsdk.ErrAccountSuspended
	}

	pair, err := s.Issue(ctx, identity)
	if err != nil {
		return nil, domain.Identity{}, err
	}
	return pair, identity, nil
}

func tokenError(err error, kind string) *authsdk.APIError {
	if errors.Is(err, jwtx.ErrExpired) {
		return authsdk.ErrTokenExpired.WithMessage(kind + " token expired")
	}
	return authsdk.ErrInvalidToken.WithMessage("invalid " + kind + " token")
}
