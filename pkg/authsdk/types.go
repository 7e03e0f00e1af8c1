package authsdk

import "time"

// ============================================================================
// Errors
// ============================================================================

// ErrorResponse is the wire shape of every error body.
type ErrorResponse struct {
	Error            string            `json:"error"`
	ErrorDescription string            `json:"error_description"`
	Details          map[string]string `json:"details,omitempty"`
}

// ============================================================================
// Authentication
// ============================================================================

// SignupRequest creates an identity. Type defaults to the service's default
// user type; the staff type must name a Role.
type SignupRequest struct {
	Email    string  `json:"email"`
	Password string  `json:"password"`
	Name     string  `json:"name,omitempty"`
	Role     *string `json:"role,omitempty"`
	Type     string  `json:"type,omitempty"`
}

type SigninRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RefreshRequest accepts the refresh token with or without a "Bearer " prefix.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// UserInfo is the outward view of an identity. The password hash and
// refresh-token history are never exposed.
type UserInfo struct {
	ID        string  `json:"id"`
	Email     string  `json:"email"`
	Name      string  `json:"name,omitempty"`
	Role      *string `json:"role"`
	Type      string  `json:"type"`
	Suspended bool    `json:"suspended"`
}

// AuthResponse is returned by signup, signin, refresh and bootstrap.
type AuthResponse struct {
	User         UserInfo `json:"user"`
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token"`
	TokenType    string   `json:"token_type"`
	ExpiresIn    int      `json:"expires_in"`
}

// ============================================================================
// Users
// ============================================================================

// MeResponse is the authenticated caller with role and permissions expanded.
type MeResponse struct {
	UserInfo

	RoleName    string   `json:"role_name,omitempty"`
	Permissions []string `json:"permissions"`
}

type UpdateMeRequest struct {
	Name string `json:"name"`
}

// SetRoleRequest assigns RoleID to UserID; a nil RoleID clears the role.
type SetRoleRequest struct {
	UserID string  `json:"user_id"`
	RoleID *string `json:"role_id"`
}

type SuspensionRequest struct {
	Suspended bool `json:"suspended"`
}

// ============================================================================
// Roles & Permissions
// ============================================================================

type PermissionInfo struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Label  string `json:"label"`
	Module string `json:"module"`
}

type ListPermissionsResponse struct {
	Count       int              `json:"count"`
	Permissions []PermissionInfo `json:"permissions"`
}

// PermissionCacheStats describes the process-wide permission cache.
type PermissionCacheStats struct {
	Loaded      bool      `json:"loaded"`
	Size        int       `json:"size"`
	RefreshedAt time.Time `json:"refreshed_at"`
}

type RoleInfo struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Permissions []PermissionInfo `json:"permissions"`
	CreatedAt   time.Time        `json:"created_at"`
}

type ListRolesResponse struct {
	Count int        `json:"count"`
	Roles []RoleInfo `json:"roles"`
}

// CreateRoleRequest names the role's permissions by permission name.
type CreateRoleRequest struct {
	Name        string   `json:"name"`
	Permissions []string `json:"permissions"`
}

// UpdateRoleRequest renames a role. A null Permissions keeps the current
// set; a list replaces it and must not be empty.
type UpdateRoleRequest struct {
	Name        string   `json:"name"`
	Permissions []string `json:"permissions"`
}

// ============================================================================
// Settings
// ============================================================================

type SettingsResponse struct {
	SiteName     string    `json:"site_name"`
	PrimaryColor string    `json:"primary_color"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// UpdateSettingsRequest is a partial update; nil fields are left unchanged.
type UpdateSettingsRequest struct {
	SiteName     *string `json:"site_name,omitempty"`
	PrimaryColor *string `json:"primary_color,omitempty"`
}

// ============================================================================
// Bootstrap
// ============================================================================

// BootstrapRequest creates the first elevated identity.
type BootstrapRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// ============================================================================
// Health
// ============================================================================

// HealthResponse is returned by /livez and /readyz.
type HealthResponse struct {
	Status  string            `json:"status"`
	Uptime  string            `json:"uptime,omitempty"`
	Version string            `json:"version,omitempty"`
	Checks  map[string]string `json:"checks,omitempty"`
}
