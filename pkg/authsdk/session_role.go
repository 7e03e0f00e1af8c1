package authsdk

import (
	"context"
	"net/http"
	"net/url"
)

// ListRoles requires role_view.
func (s *Session) ListRoles(ctx context.Context) (*ListRolesResponse, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodGet, "/v1/roles", nil)
	if err != nil {
		return nil, err
	}

	var out ListRolesResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetRole requires role_view.
func (s *Session) GetRole(ctx context.Context, id string) (*RoleInfo, error) {
	return s.roleCall(ctx, http.MethodGet, id, nil, http.StatusOK)
}

// CreateRole requires role_create.
func (s *Session) CreateRole(ctx context.Context, req CreateRoleRequest) (*RoleInfo, error) {
	return s.roleCall(ctx, http.MethodPost, "", req, http.StatusCreated)
}

// UpdateRole requires role_edit.
func (s *Session) UpdateRole(ctx context.Context, id string, req UpdateRoleRequest) (*RoleInfo, error) {
	return s.roleCall(ctx, http.MethodPut, id, req, http.StatusOK)
}

// DeleteRole requires role_delete. Roles still assigned to identities
// cannot be deleted.
func (s *Session) DeleteRole(ctx context.Context, id string) error {
	resp, err := s.doAuthRequest(ctx, http.MethodDelete, "/v1/roles/"+url.PathEscape(id), nil)
	if err != nil {
		return err
	}
	return checkStatusNoContent(resp)
}

func (s *Session) roleCall(ctx context.Context, method, id string, payload any, want int) (*RoleInfo, error) {
	path := "/v1/roles"
	if id != "" {
		path += "/" + url.PathEscape(id)
	}

	resp, err := s.doAuthRequest(ctx, method, path, payload)
	if err != nil {
		return nil, err
	}

	var out RoleInfo
	if err := decodeJSON(resp, &out, want); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListPermissions requires role_view. It is served from the permission cache.
func (s *Session) ListPermissions(ctx context.Context) (*ListPermissionsResponse, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodGet, "/v1/permissions", nil)
	if err != nil {
		return nil, err
	}

	var out ListPermissionsResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// ClearPermissionCache requires role_manage.
func (s *Session) ClearPermissionCache(ctx context.Context) (*PermissionCacheStats, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodPost, "/v1/permissions/cache/clear", nil)
	if err != nil {
		return nil, err
	}

	var out PermissionCacheStats
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}
