package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/aussiebroadwan/gatekeeper/internal/auth/domain"
	"github.com/aussiebroadwan/gatekeeper/internal/auth/store"
	"github.com/aussiebroadwan/gatekeeper/pkg/authsdk"
	"github.com/aussiebroadwan/gatekeeper/pkg/slogx"
)

type UserService struct {
	Store store.Store
}

// GetByID fetches an identity by id.
func (s *UserService) GetByID(ctx context.Context, id string) (domain.Identity, error) {
	identity, err := s.Store.Identities().GetIdentityByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Identity{}, authsdk.NotFound("User not found")
	}
	return identity, err
}

// UpdateName changes the caller's display name.
func (s *UserService) UpdateName(ctx context.Context, id, name string) (domain.Identity, error) {
	name = strings.TrimSpace(name)
	switch {
	case name == "":
		return domain.Identity{}, authsdk.ValidationFailed(map[string]string{"name": "required"})
	case len(name) > 64:
		return domain.Identity{}, authsdk.ValidationFailed(map[string]string{"name": "too long (max 64)"})
	}

	if err := s.Store.Identities().UpdateName(ctx, id, name); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Identity{}, authsdk.NotFound("User not found")
		}
		return domain.Identity{}, err
	}
	return s.GetByID(ctx, id)
}

// SetRole assigns roleID to the identity, or clears its role when roleID is
// nil or empty.
func (s *UserService) SetRole(ctx context.Context, userID string, roleID *string) (domain.Identity, error) {
	if strings.TrimSpace(userID) == "" {
		return domain.Identity{}, authsdk.ValidationFailed(map[string]string{"user_id": "required"})
	}
	if roleID != nil && *roleID == "" {
		roleID = nil
	}

	if _, err := s.GetByID(ctx, userID); err != nil {
		return domain.Identity{}, err
	}
	if roleID != nil {
		if _, err := s.Store.Roles().GetRoleByID(ctx, *roleID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return domain.Identity{}, authsdk.NotFound("Role not found")
			}
			return domain.Identity{}, err
		}
	}

	if err := s.Store.Identities().UpdateRole(ctx, userID, roleID); err != nil {
		return domain.Identity{}, err
	}

	slogx.FromContext(ctx).Info("role assignment changed",
		slog.String("identity_id", userID),
		slog.Any("role_id", roleID),
	)
	return s.GetByID(ctx, userID)
}

// SetSuspended toggles suspension. Callers cannot suspend themselves.
func (s *UserService) SetSuspended(ctx context.Context, actorID, userID string, suspended bool) (domain.Identity, error) {
	if suspended && actorID == userID {
		return domain.Identity{}, authsdk.BadRequest("You cannot suspend your own account")
	}

	if err := s.Store.Identities().UpdateSuspended(ctx, userID, suspended); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Identity{}, authsdk.NotFound("User not found")
		}
		return domain.Identity{}, err
	}

	slogx.FromContext(ctx).Info("suspension changed",
		slog.String("identity_id", userID),
		slog.Bool("suspended", suspended),
	)
	return s.GetByID(ctx, userID)
}
