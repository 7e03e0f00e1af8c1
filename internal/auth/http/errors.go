package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/gatekeeper/pkg/authsdk"
	"github.com/aussiebroadwan/gatekeeper/pkg/httpx"
	"github.com/aussiebroadwan/gatekeeper/pkg/slogx"
)

// writeError renders err as the JSON error envelope. Anything that is not an
// *authsdk.APIError is logged and hidden behind a generic 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	l := slogx.FromContext(r.Context())

	var apiErr *authsdk.APIError
	if errors.As(err, &apiErr) {
		if apiErr.StatusCode >= http.StatusInternalServerError {
			l.Error("request failed", slogx.Err(err))
		}
		apiErr.WriteError(w)
		return
	}

	l.Error("unhandled error", slogx.Err(err))
	authsdk.ErrServerError.WriteError(w)
}

// decodeBody reads a JSON request body into dst, mapping decode failures to
// a 400.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	if err := httpx.DecodeJSON(w, r, dst); err != nil {
		if errors.Is(err, httpx.ErrEmptyBody) {
			return authsdk.BadRequest("Request body is required")
		}
		return authsdk.BadRequest("Request body must be valid JSON")
	}
	return nil
}
