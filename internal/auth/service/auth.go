package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/aussiebroadwan/gatekeeper/internal/auth/domain"
	"github.com/aussiebroadwan/gatekeeper/internal/auth/obs"
	"github.com/aussiebroadwan/gatekeeper/internal/auth/store"
	"github.com/aussiebroadwan/gatekeeper/pkg/authsdk"
	"github.com/aussiebroadwan/gatekeeper/pkg/cryptox"
	"github.com/aussiebroadwan/gatekeeper/pkg/idx"
	"github.com/aussiebroadwan/gatekeeper/pkg/slogx"
)

// Messages that clients match on.
const (
	msgEmailExists        = "Email already exists"
	msgInvalidCredentials = "Invalid email or password"
)

// SignupInput is a signup request after decoding.
type SignupInput struct {
	Email    string
	Password string
	Name     string
	RoleID   *string
	Type     string
}

// AuthService handles password signup and signin.
type AuthService struct {
	Store   store.Store
	Tokens  *TokenService
	Types   domain.UserTypes
	Metrics *obs.Metrics
}

// Signup creates an identity and issues its first token pair.
//
// Returns:
//   - a validation error (400) for a bad email, short password or unknown type
//   - 400 "Email already exists" for a taken email
//   - 400 when the staff type is missing a role
//   - 404 when a supplied role does not exist, whatever the type
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (domain.Identity, *domain.TokenPair, error) {
	l := slogx.FromContext(ctx)

	in.Email = authsdk.NormalizeEmail(in.Email)
	in.Name = strings.TrimSpace(in.Name)
	if in.Type == "" {
		in.Type = s.Types.Default
	}

	if details := s.validateSignup(in); details != nil {
		return domain.Identity{}, nil, authsdk.ValidationFailed(details)
	}

	if in.RoleID != nil && *in.RoleID == "" {
		in.RoleID = nil
	}
	if in.Type == s.Types.Staff && in.RoleID == nil {
		return domain.Identity{}, nil, authsdk.BadRequest("Role is required for " + in.Type + " accounts")
	}

	hash, err := cryptox.HashPassword(in.Password)
	if err != nil {
		return domain.Identity{}, nil, err
	}

	identity := domain.Identity{
		ID:           idx.New().String(),
		Email:        in.Email,
		Name:         in.Name,
		PasswordHash: hash,
		RoleID:       in.RoleID,
		Type:         in.Type,
	}

	var pair *domain.TokenPair
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if _, err := tx.Identities().GetIdentityByEmail(ctx, identity.Email); err == nil {
			return authsdk.BadRequest(msgEmailExists)
		} else if !errors.Is(err, store.ErrNotFound) {
			return err
		}

		if identity.RoleID != nil {
			_, err := tx.Roles().GetRoleByID(ctx, *identity.RoleID)
			if errors.Is(err, store.ErrNotFound) {
				return authsdk.NotFound("Role not found")
			}
			if err != nil {
				return err
			}
		}

		if err := tx.Identities().CreateIdentity(ctx, identity); err != nil {
			if errors.Is(err, store.ErrAlreadyExists) {
				return authsdk.BadRequest(msgEmailExists)
			}
			return err
		}

		pair, err = s.Tokens.issueWith(ctx, tx.Identities(), identity)
		return err
	})
	if err != nil {
		return domain.Identity{}, nil, err
	}

	s.Metrics.TokensIssued("signup")
	l.Info("identity signed up",
		slog.String("identity_id", identity.ID),
		slog.String("type", identity.Type),
	)
	return identity, pair, nil
}

func (s *AuthService) validateSignup(in SignupInput) map[string]string {
	errs := make(map[string]string)

	switch {
	case in.Email == "":
		errs["email"] = "required"
	case !authsdk.ValidEmail(in.Email):
		errs["email"] = "must be a valid email address"
	}

	switch {
	case in.Password == "":
		errs["password"] = "required"
	case len(in.Password) < authsdk.MinPasswordLength:
		errs["password"] = "must be at least 8 characters"
	}

	if len(in.Name) > 64 {
		errs["name"] = "too long (max 64)"
	}

	switch {
	case !s.Types.Valid(in.Type):
		errs["type"] = "must be one of " + strings.Join(s.Types.All, ", ")
	case s.Types.IsElevated(in.Type):
		errs["type"] = "cannot sign up as " + in.Type
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// Signin checks credentials and issues a token pair. The password is checked
// before suspension, so a suspended account is only revealed to a caller who
// knows its password.
func (s *AuthService) Signin(ctx context.Context, email, password string) (domain.Identity, *domain.TokenPair, error) {
	l := slogx.FromContext(ctx)

	email = authsdk.NormalizeEmail(email)
	switch {
	case email == "" || password == "":
		return domain.Identity{}, nil, authsdk.BadRequest("Email and password are required")
	case !authsdk.ValidEmail(email):
		return domain.Identity{}, nil, authsdk.ValidationFailed(map[string]string{
			"email": "must be a valid email address",
		})
	}

	identity, err := s.Store.Identities().GetIdentityByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Identity{}, nil, authsdk.BadRequest(msgInvalidCredentials)
	}
	if err != nil {
		return domain.Identity{}, nil, err
	}

	if err := cryptox.VerifyPassword(password, identity.PasswordHash); err != nil {
		l.Info("signin password mismatch", slog.String("identity_id", identity.ID))
		return domain.Identity{}, nil, authsdk.BadRequest(msgInvalidCredentials)
	}

	if identity.Suspended {
		l.Info("signin refused for suspended identity", slog.String("identity_id", identity.ID))
		return domain.Identity{}, nil, authsdk.ErrAccountSuspended
	}

	pair, err := s.Tokens.Issue(ctx, identity)
	if err != nil {
		return domain.Identity{}, nil, err
	}
	s.Metrics.TokensIssued("signin")
	return identity, pair, nil
}

// Refresh rotates a refresh token and counts the issuance.
func (s *AuthService) Refresh(ctx context.Context, presented string) (domain.Identity, *domain.TokenPair, error) {
	pair, identity, err := s.Tokens.Rotate(ctx, presented)
	if err != nil {
		return domain.Identity{}, nil, err
	}
	s.Metrics.TokensIssued("refresh")
	return identity, pair, nil
}
