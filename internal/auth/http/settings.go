package http

import (
	"net/http"

	"github.com/aussiebroadwan/gatekeeper/internal/auth/service"
	"github.com/aussiebroadwan/gatekeeper/pkg/authsdk"
	"github.com/aussiebroadwan/gatekeeper/pkg/httpx"
)

type SettingsHandler struct {
	SettingsService *service.SettingsService
}

// GET /v1/settings
func (h *SettingsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	s, err := h.SettingsService.Get(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toSettingsResponse(s))
}

// HandleUpdate applies a partial update to the singleton settings row.
// PUT /v1/settings
func (h *SettingsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req authsdk.UpdateSettingsRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if errs := req.Validate(); errs != nil {
		writeError(w, r, authsdk.ValidationFailed(errs))
		return
	}

	s, err := h.SettingsService.Update(r.Context(), req.SiteName, req.PrimaryColor)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toSettingsResponse(s))
}
