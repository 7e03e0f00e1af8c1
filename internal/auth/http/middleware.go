package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/aussiebroadwan/gatekeeper/internal/auth/domain"
	"github.com/aussiebroadwan/gatekeeper/internal/auth/obs"
	"github.com/aussiebroadwan/gatekeeper/internal/auth/service"
	"github.com/aussiebroadwan/gatekeeper/pkg/httpx"
	"github.com/aussiebroadwan/gatekeeper/pkg/slogx"
)

type principalKey struct{}

func withPrincipal(ctx context.Context, p *domain.Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFromContext returns the principal set by Authenticate, or nil.
func PrincipalFromContext(ctx context.Context) *domain.Principal {
	p, _ := ctx.Value(principalKey{}).(*domain.Principal)
	return p
}

// Authenticate resolves the Authorization header into a principal for the
// rest of the chain. Failures end the request with 401.
func Authenticate(a *service.Authenticator) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, err := a.Authenticate(r.Context(), r.Header.Get("Authorization"))
			if err != nil {
				writeError(w, r, err)
				return
			}

			ctx := withPrincipal(r.Context(), p)
			ctx = httpx.WithUserID(ctx, p.Identity.ID)
			ctx = slogx.With(ctx, slog.String("identity_id", p.Identity.ID))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequirePermission admits principals holding permission, or of the
// elevated type. It must run after Authenticate.
func RequirePermission(permission, elevatedType string, m *obs.Metrics) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := service.Authorize(PrincipalFromContext(r.Context()), elevatedType, permission); err != nil {
				m.AuthzDenied(permission)
				slogx.FromContext(r.Context()).Info("permission denied", slog.String("permission", permission))
				writeError(w, r, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
