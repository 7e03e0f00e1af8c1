package http

import (
	"time"

	"github.com/aussiebroadwan/gatekeeper/internal/auth/domain"
	"github.com/aussiebroadwan/gatekeeper/pkg/authsdk"
)

const tokenTypeBearer = "Bearer"

func toUserInfo(i domain.Identity) authsdk.UserInfo {
	var role *string
	if i.HasRole() {
		id := *i.RoleID
		role = &id
	}
	return authsdk.UserInfo{
		ID:        i.ID,
		Email:     i.Email,
		Name:      i.Name,
		Role:      role,
		Type:      i.Type,
		Suspended: i.Suspended,
	}
}

func toAuthResponse(i domain.Identity, pair *domain.TokenPair) authsdk.AuthResponse {
	return authsdk.AuthResponse{
		User:         toUserInfo(i),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    tokenTypeBearer,
		ExpiresIn:    int(pair.ExpiresIn / time.Second),
	}
}

func toPermissionInfo(p domain.Permission) authsdk.PermissionInfo {
	return authsdk.PermissionInfo{
		ID:     p.ID,
		Name:   p.Name,
		Label:  p.Label,
		Module: p.Module,
	}
}

func toPermissionInfos(perms []domain.Permission) []authsdk.PermissionInfo {
	out := make([]authsdk.PermissionInfo, 0, len(perms))
	for _, p := range perms {
		out = append(out, toPermissionInfo(p))
	}
	return out
}

func toRoleInfo(r domain.Role) authsdk.RoleInfo {
	return authsdk.RoleInfo{
		ID:          r.ID,
		Name:        r.Name,
		Permissions: toPermissionInfos(r.Permissions),
		CreatedAt:   r.CreatedAt,
	}
}

func toSettingsResponse(s domain.Settings) authsdk.SettingsResponse {
	return authsdk.SettingsResponse{
		SiteName:     s.SiteName,
		PrimaryColor: s.PrimaryColor,
		UpdatedAt:    s.UpdatedAt,
	}
}
