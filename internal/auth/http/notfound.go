package http

import (
	"net/http"

	"github.com/aussiebroadwan/gatekeeper/pkg/authsdk"
)

// NotFoundHandler answers every unmatched route with the JSON envelope.
func NotFoundHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authsdk.ErrRouteNotFound.WriteError(w)
	})
}
