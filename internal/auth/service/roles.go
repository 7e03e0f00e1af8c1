package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aussiebroadwan/gatekeeper/internal/auth/domain"
	"github.com/aussiebroadwan/gatekeeper/internal/auth/store"
	"github.com/aussiebroadwan/gatekeeper/pkg/authsdk"
	"github.com/aussiebroadwan/gatekeeper/pkg/idx"
	"github.com/aussiebroadwan/gatekeeper/pkg/slogx"
)

const maxRoleNameLength = 64

type RolesService struct {
	Store       store.Store
	Permissions *PermissionCache
}

// List returns every role with its permissions, ordered by name.
func (s *RolesService) List(ctx context.Context) ([]domain.Role, error) {
	return s.Store.Roles().ListRoles(ctx)
}

// Get fetches a role by id.
func (s *RolesService) Get(ctx context.Context, id string) (domain.Role, error) {
	role, err := s.Store.Roles().GetRoleByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Role{}, authsdk.NotFound("Role not found")
	}
	return role, err
}

// Create validates the name and permission names, resolving the names to
// ids through the cache, before anything is written.
func (s *RolesService) Create(ctx context.Context, name string, permissions []string) (domain.Role, error) {
	name = strings.TrimSpace(name)
	if details := validateRole(name, permissions, true); details != nil {
		return domain.Role{}, authsdk.ValidationFailed(details)
	}

	ids, err := s.resolve(ctx, permissions)
	if err != nil {
		return domain.Role{}, err
	}

	role := domain.Role{ID: idx.New().String(), Name: name}
	for _, id := range ids {
		role.Permissions = append(role.Permissions, domain.Permission{ID: id})
	}

	if err := s.Store.Roles().CreateRole(ctx, role); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.Role{}, authsdk.Conflict("Role name already exists")
		}
		return domain.Role{}, err
	}

	slogx.FromContext(ctx).Info("role created",
		slog.String("role_id", role.ID),
		slog.String("name", name),
		slog.Int("permissions", len(ids)),
	)
	return s.Get(ctx, role.ID)
}

// Update renames the role and, when permissions is non-nil, replaces its
// permission set. A supplied set must not be empty.
func (s *RolesService) Update(ctx context.Context, id, name string, permissions []string) (domain.Role, error) {
	name = strings.TrimSpace(name)
	if details := validateRole(name, permissions, permissions != nil); details != nil {
		return domain.Role{}, authsdk.ValidationFailed(details)
	}

	if _, err := s.Get(ctx, id); err != nil {
		return domain.Role{}, err
	}

	var ids []string
	if permissions != nil {
		var err error
		if ids, err = s.resolve(ctx, permissions); err != nil {
			return domain.Role{}, err
		}
	}

	err := s.Store.Roles().UpdateRole(ctx, id, name, ids)
	switch {
	case errors.Is(err, store.ErrAlreadyExists):
		return domain.Role{}, authsdk.Conflict("Role name already exists")
	case errors.Is(err, store.ErrNotFound):
		return domain.Role{}, authsdk.NotFound("Role not found")
	case err != nil:
		return domain.Role{}, err
	}
	return s.Get(ctx, id)
}

// Delete removes a role no identity references. The check and the delete
// share one transaction.
func (s *RolesService) Delete(ctx context.Context, id string) error {
	return s.Store.WithTx(ctx, func(tx store.Tx) error {
		if _, err := tx.Roles().GetRoleByID(ctx, id); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return authsdk.NotFound("Role not found")
			}
			return err
		}

		n, err := tx.Identities().CountByRole(ctx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return authsdk.BadRequest(assignedRoleMessage(n))
		}

		return tx.Roles().DeleteRole(ctx, id)
	})
}

func assignedRoleMessage(n int64) string {
	noun := "users"
	if n == 1 {
		noun = "user"
	}
	return fmt.Sprintf("Cannot delete role: It is currently assigned to %d %s.", n, noun)
}

// resolve maps names to ids, rejecting names outside the catalog.
func (s *RolesService) resolve(ctx context.Context, names []string) ([]string, error) {
	ids, unknown, err := s.Permissions.Resolve(ctx, names)
	if err != nil {
		return nil, err
	}
	if len(unknown) > 0 {
		return nil, authsdk.ValidationFailed(map[string]string{
			"permissions": "unknown permissions: " + strings.Join(unknown, ", "),
		})
	}
	return ids, nil
}

func validateRole(name string, permissions []string, checkPermissions bool) map[string]string {
	errs := make(map[string]string)

	switch {
	case name == "":
		errs["name"] = "required"
	case len(name) > maxRoleNameLength:
		errs["name"] = "too long (max 64)"
	}

	if checkPermissions && len(permissions) == 0 {
		errs["permissions"] = "at least one permission is required"
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}
