package authsdk

import (
	"context"
	"net/http"
	"net/url"
)

// Me returns the authenticated caller with role and permissions expanded.
func (s *Session) Me(ctx context.Context) (*MeResponse, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodGet, "/v1/users/me", nil)
	if err != nil {
		return nil, err
	}

	var out MeResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateMe changes the caller's display name.
func (s *Session) UpdateMe(ctx context.Context, req UpdateMeRequest) (*UserInfo, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodPut, "/v1/users/me", req)
	if err != nil {
		return nil, err
	}

	var out UserInfo
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// SetUserRole assigns or clears another identity's role.
// Requires: role_edit
func (s *Session) SetUserRole(ctx context.Context, req SetRoleRequest) (*UserInfo, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodPut, "/v1/users/set-new-role", req)
	if err != nil {
		return nil, err
	}

	var out UserInfo
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// SetSuspended suspends or reinstates an identity.
// Requires: user_edit
func (s *Session) SetSuspended(ctx context.Context, userID string, suspended bool) (*UserInfo, error) {
	path := "/v1/users/" + url.PathEscape(userID) + "/suspension"
	resp, err := s.doAuthRequest(ctx, http.MethodPut, path, SuspensionRequest{Suspended: suspended})
	if err != nil {
		return nil, err
	}

	var out UserInfo
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateSettings applies a partial settings update.
// Requires: company_setting_edit
func (s *Session) UpdateSettings(ctx context.Context, req UpdateSettingsRequest) (*SettingsResponse, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodPut, "/v1/settings", req)
	if err != nil {
		return nil, err
	}

	var out SettingsResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}
