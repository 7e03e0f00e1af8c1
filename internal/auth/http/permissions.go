package http

import (
	"net/http"

	"github.com/aussiebroadwan/gatekeeper/internal/auth/service"
	"github.com/aussiebroadwan/gatekeeper/pkg/authsdk"
	"github.com/aussiebroadwan/gatekeeper/pkg/httpx"
)

type PermissionsHandler struct {
	Cache *service.PermissionCache
}

// HandleList serves the catalog from the permission cache.
// GET /v1/permissions
func (h *PermissionsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	perms, err := h.Cache.GetAllPermissions(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, authsdk.ListPermissionsResponse{
		Count:       len(perms),
		Permissions: toPermissionInfos(perms),
	})
}

// HandleClear drops the cache; the next read reloads it.
// POST /v1/permissions/cache/clear
func (h *PermissionsHandler) HandleClear(w http.ResponseWriter, r *http.Request) {
	h.Cache.Clear()

	stats := h.Cache.Stats()
	httpx.WriteJSON(w, http.StatusOK, authsdk.PermissionCacheStats{
		Loaded:      stats.Loaded,
		Size:        stats.Size,
		RefreshedAt: stats.RefreshedAt,
	})
}
