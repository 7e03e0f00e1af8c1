package http

import (
	"net/http"
	"strings"

	"github.com/aussiebroadwan/gatekeeper/internal/auth/domain"
	"github.com/aussiebroadwan/gatekeeper/internal/auth/service"
	"github.com/aussiebroadwan/gatekeeper/pkg/authsdk"
	"github.com/aussiebroadwan/gatekeeper/pkg/httpx"
	"github.com/aussiebroadwan/gatekeeper/pkg/slogx"
)

// BootstrapTokenHeader carries the one-time bootstrap secret.
const BootstrapTokenHeader = "X-Bootstrap-Token"

type BootstrapHandler struct {
	BootstrapService *service.BootstrapService
}

// ServeHTTP creates the first elevated identity and signs it in. The route
// is a 404 unless a bootstrap token is configured, and refuses once any
// identity exists.
// POST /v1/bootstrap
func (h *BootstrapHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	l := slogx.FromContext(r.Context())

	// 1. Check if enabled
	if !h.BootstrapService.Enabled() {
		writeError(w, r, service.ErrBootstrapDisabled)
		return
	}

	// 2. Require bootstrap token header
	token := r.Header.Get(BootstrapTokenHeader)
	if token == "" {
		writeError(w, r, authsdk.Unauthorized("Bootstrap token is required in "+BootstrapTokenHeader+" header"))
		return
	}

	// 3. Parse request body and validate
	var req authsdk.BootstrapRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if errs := req.Validate(); errs != nil {
		writeError(w, r, authsdk.ValidationFailed(errs))
		return
	}

	// 4. Perform bootstrap
	identity, pair, err := h.BootstrapService.Bootstrap(r.Context(), token, domain.BootstrapData{
		Email:    authsdk.NormalizeEmail(req.Email),
		Password: req.Password,
		Name:     strings.TrimSpace(req.Name),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	l.Info("system bootstrapped", "identity_id", identity.ID)

	// 5. Respond with the elevated identity's tokens
	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusCreated, toAuthResponse(identity, pair))
}
