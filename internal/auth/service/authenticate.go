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
	"github.com/aussiebroadwan/gatekeeper/pkg/slogx"
)

// Authenticator turns an Authorization header into a Principal. Each stage
// short-circuits; nothing is admitted partially.
type Authenticator struct {
	Store   store.Store
	Tokens  *TokenService
	Metrics *obs.Metrics
}

// Authenticate runs the pipeline: extract the bearer token, verify it, load
// the identity with its role expanded, refuse suspended identities, and
// build the principal. Every failure is a 401.
func (a *Authenticator) Authenticate(ctx context.Context, header string) (*domain.Principal, error) {
	l := slogx.FromContext(ctx)

	token, ok := bearerToken(header)
	if !ok {
		a.Metrics.AuthnFailed(obs.StageExtract)
		return nil, authsdk.ErrUnauthenticated
	}

	claims, err := a.Tokens.VerifyAccess(token)
	if err != nil {
		a.Metrics.AuthnFailed(obs.StageVerify)
		return nil, err
	}

	identity, role, err := a.load(ctx, claims.Subject)
	if err != nil {
		a.Metrics.AuthnFailed(obs.StageLoad)
		return nil, err
	}

	if identity.Suspended {
		a.Metrics.AuthnFailed(obs.StageSuspended)
		l.Info("suspended identity presented a valid token", slog.String("identity_id", identity.ID))
		return nil, authsdk.ErrAccountSuspended
	}

	return domain.NewPrincipal(identity, role), nil
}

// load resolves the identity and its role once per request. A role id that
// no longer resolves is treated as no role.
func (a *Authenticator) load(ctx context.Context, id string) (domain.Identity, *domain.Role, error) {
	identity, err := a.Store.Identities().GetIdentityByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Identity{}, nil, authsdk.Unauthorized("identity not found")
	}
	if err != nil {
		return domain.Identity{}, nil, err
	}

	if !identity.HasRole() {
		return identity, nil, nil
	}

	role, err := a.Store.Roles().GetRoleByID(ctx, *identity.RoleID)
	switch {
	case errors.Is(err, store.ErrNotFound):
		slogx.FromContext(ctx).Warn("identity references a missing role",
			slog.String("identity_id", identity.ID),
			slog.String("role_id", *identity.RoleID),
		)
		return identity, nil, nil
	case err != nil:
		return domain.Identity{}, nil, err
	}
	return identity, &role, nil
}

// bearerToken extracts the credentials of a "Bearer" Authorization header.
// The scheme is matched case-insensitively.
func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
