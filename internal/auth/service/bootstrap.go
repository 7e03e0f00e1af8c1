package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"log/slog"
	"strings"

	"github.com/aussiebroadwan/gatekeeper/internal/auth/domain"
	"github.com/aussiebroadwan/gatekeeper/internal/auth/store"
	"github.com/aussiebroadwan/gatekeeper/pkg/authsdk"
	"github.com/aussiebroadwan/gatekeeper/pkg/cryptox"
	"github.com/aussiebroadwan/gatekeeper/pkg/idx"
	"github.com/aussiebroadwan/gatekeeper/pkg/slogx"
)

var (
	ErrBootstrapDisabled     = authsdk.NotFound("bootstrap is disabled")
	ErrBootstrapUnauthorized = authsdk.Unauthorized("invalid bootstrap token")
	ErrBootstrapAlready      = authsdk.Unauthorized("system already bootstrapped")
)

// BootstrapService creates the first elevated identity on an empty system.
// It is enabled by configuring a token.
type BootstrapService struct {
	Store  store.Store
	Tokens *TokenService
	Types  domain.UserTypes
	Token  string
}

func (s *BootstrapService) Enabled() bool { return s.Token != "" }

// IsBootstrapped reports whether any identity exists.
func (s *BootstrapService) IsBootstrapped(ctx context.Context) (bool, error) {
	empty, err := s.Store.Identities().IsEmpty(ctx)
	if err != nil {
		return false, err
	}
	return !empty, nil
}

// Bootstrap creates the elevated identity and signs it in.
func (s *BootstrapService) Bootstrap(
	ctx context.Context,
	token string,
	data domain.BootstrapData,
) (domain.Identity, *domain.TokenPair, error) {
	l := slogx.FromContext(ctx)

	// 1. Disabled unless a token is configured
	if !s.Enabled() {
		return domain.Identity{}, nil, ErrBootstrapDisabled
	}

	// 2. Validate the provided token
	if subtle.ConstantTimeCompare([]byte(token), []byte(s.Token)) != 1 {
		l.Warn("unauthorized bootstrap attempt")
		return domain.Identity{}, nil, ErrBootstrapUnauthorized
	}

	// 3. Hash password
	hash, err := cryptox.HashPassword(data.Password)
	if err != nil {
		return domain.Identity{}, nil, err
	}

	identity := domain.Identity{
		ID:           idx.New().String(),
		Email:        authsdk.NormalizeEmail(data.Email),
		Name:         strings.TrimSpace(data.Name),
		PasswordHash: hash,
		Type:         s.Types.Elevated,
	}

	// 4. Create the identity only if none exist, and issue its tokens
	var pair *domain.TokenPair
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		empty, err := tx.Identities().IsEmpty(ctx)
		if err != nil {
			return err
		}
		if !empty {
			return ErrBootstrapAlready
		}

		if err := tx.Identities().CreateIdentity(ctx, identity); err != nil {
			return err
		}
		pair, err = s.Tokens.issueWith(ctx, tx.Identities(), identity)
		return err
	})
	if err != nil {
		if errors.Is(err, ErrBootstrapAlready) {
			l.Warn("attempted bootstrap on already-bootstrapped system")
		}
		return domain.Identity{}, nil, err
	}

	l.Info("successfully bootstrapped system",
		slog.String("identity_id", identity.ID),
		slog.String("type", identity.Type),
	)
	return identity, pair, nil
}
