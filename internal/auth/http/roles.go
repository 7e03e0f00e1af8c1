package http

import (
	"net/http"

	"github.com/aussiebroadwan/gatekeeper/internal/auth/service"
	"github.com/aussiebroadwan/gatekeeper/pkg/authsdk"
	"github.com/aussiebroadwan/gatekeeper/pkg/httpx"
)

type RolesHandler struct {
	RolesService *service.RolesService
}

// GET /v1/roles
func (h *RolesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	roles, err := h.RolesService.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := authsdk.ListRolesResponse{
		Count: len(roles),
		Roles: make([]authsdk.RoleInfo, 0, len(roles)),
	}
	for _, role := range roles {
		resp.Roles = append(resp.Roles, toRoleInfo(role))
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

// GET /v1/roles/{id}
func (h *RolesHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	role, err := h.RolesService.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toRoleInfo(role))
}

// POST /v1/roles
func (h *RolesHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req authsdk.CreateRoleRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	role, err := h.RolesService.Create(r.Context(), req.Name, req.Permissions)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toRoleInfo(role))
}

// PUT /v1/roles/{id}
func (h *RolesHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req authsdk.UpdateRoleRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	role, err := h.RolesService.Update(r.Context(), r.PathValue("id"), req.Name, req.Permissions)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toRoleInfo(role))
}

// HandleDelete refuses while any identity still holds the role.
// DELETE /v1/roles/{id}
func (h *RolesHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.RolesService.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
