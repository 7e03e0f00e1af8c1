package http

import (
	"net/http"
	"strings"

	"github.com/aussiebroadwan/gatekeeper/internal/auth/service"
	"github.com/aussiebroadwan/gatekeeper/pkg/authsdk"
	"github.com/aussiebroadwan/gatekeeper/pkg/httpx"
)

type UsersHandler struct {
	UserService *service.UserService
}

// HandleMe returns the caller as loaded by the authentication pipeline.
// GET /v1/users/me
func (h *UsersHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	p := PrincipalFromContext(r.Context())
	if p == nil {
		writeError(w, r, authsdk.ErrUnauthenticated)
		return
	}

	resp := authsdk.MeResponse{
		UserInfo:    toUserInfo(p.Identity),
		Permissions: []string{},
	}
	if p.Role != nil {
		resp.RoleName = p.Role.Name
		resp.Permissions = p.Role.PermissionNames()
	}

	httpx.WriteJSON(w, http.StatusOK, resp)
}

// HandleUpdateMe changes the caller's display name.
// PUT /v1/users/me
func (h *UsersHandler) HandleUpdateMe(w http.ResponseWriter, r *http.Request) {
	p := PrincipalFromContext(r.Context())
	if p == nil {
		writeError(w, r, authsdk.ErrUnauthenticated)
		return
	}

	var req authsdk.UpdateMeRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	identity, err := h.UserService.UpdateName(r.Context(), p.Identity.ID, req.Name)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toUserInfo(identity))
}

// HandleSetRole assigns or clears another identity's role.
// PUT /v1/users/set-new-role
func (h *UsersHandler) HandleSetRole(w http.ResponseWriter, r *http.Request) {
	var req authsdk.SetRoleRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if strings.TrimSpace(req.UserID) == "" {
		writeError(w, r, authsdk.ValidationFailed(map[string]string{"user_id": "required"}))
		return
	}

	identity, err := h.UserService.SetRole(r.Context(), strings.TrimSpace(req.UserID), req.RoleID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toUserInfo(identity))
}

// HandleSuspension suspends or reinstates the identity named in the path.
// PUT /v1/users/{id}/suspension
func (h *UsersHandler) HandleSuspension(w http.ResponseWriter, r *http.Request) {
	p := PrincipalFromContext(r.Context())
	if p == nil {
		writeError(w, r, authsdk.ErrUnauthenticated)
		return
	}

	var req authsdk.SuspensionRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	identity, err := h.UserService.SetSuspended(r.Context(), p.Identity.ID, r.PathValue("id"), req.Suspended)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toUserInfo(identity))
}
