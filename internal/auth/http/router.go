package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/gatekeeper/internal/auth/obs"
	"github.com/aussiebroadwan/gatekeeper/internal/auth/service"
	"github.com/aussiebroadwan/gatekeeper/internal/auth/store"
	"github.com/aussiebroadwan/gatekeeper/pkg/httpx"
	"github.com/aussiebroadwan/gatekeeper/pkg/slogx"

	"github.com/go-chi/cors"
)

// Permission names guarding routes. They must exist in the seeded catalog;
// startup checks them against it.
const (
	PermUserEdit           = "user_edit"
	PermRoleManage         = "role_manage"
	PermRoleView           = "role_view"
	PermRoleCreate         = "role_create"
	PermRoleEdit           = "role_edit"
	PermRoleDelete         = "role_delete"
	PermCompanySettingEdit = "company_setting_edit"
)

// GuardPermissions lists every permission a route requires.
var GuardPermissions = []string{
	PermUserEdit,
	PermRoleManage,
	PermRoleView,
	PermRoleCreate,
	PermRoleEdit,
	PermRoleDelete,
	PermCompanySettingEdit,
}

// LimiterFactory returns the limiter backing one named rate limit.
type LimiterFactory func(name string, cfg httpx.RateLimitConfig) httpx.Limiter

// MemoryLimiters keeps every rate limit in process memory.
func MemoryLimiters(_ string, cfg httpx.RateLimitConfig) httpx.Limiter {
	return httpx.NewMemoryLimiter(cfg)
}

// ReadinessCheck reports an unready dependency with an error.
type ReadinessCheck func(ctx context.Context) error

// RouterConfig holds what the router needs besides the services.
type RouterConfig struct {
	Version      string
	ElevatedType string
	Store        store.Store
	Logger       *slog.Logger
	Metrics      *obs.Metrics

	// Limiters defaults to MemoryLimiters.
	Limiters LimiterFactory

	// Checks are extra readiness checks by name, e.g. "redis".
	Checks map[string]ReadinessCheck

	// AllowedOrigins may call the API from a browser. Empty allows any.
	AllowedOrigins []string
}

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux     *http.ServeMux
	handler http.Handler

	buildVersion string
	elevatedType string
	startTime    time.Time
	logger       *slog.Logger
	metrics      *obs.Metrics
	limiters     LimiterFactory
	checks       map[string]ReadinessCheck
	cors         cors.Options

	store            store.Store
	Authenticator    *service.Authenticator
	AuthService      *service.AuthService
	UserService      *service.UserService
	RolesService     *service.RolesService
	SettingsService  *service.SettingsService
	BootstrapService *service.BootstrapService
	Permissions      *service.PermissionCache
}

func NewRouter(cfg RouterConfig) *Router {
	if cfg.Limiters == nil {
		cfg.Limiters = MemoryLimiters
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Router{
		Mux:          http.NewServeMux(),
		buildVersion: cfg.Version,
		elevatedType: cfg.ElevatedType,
		startTime:    time.Now(),
		logger:       cfg.Logger,
		metrics:      cfg.Metrics,
		limiters:     cfg.Limiters,
		checks:       cfg.Checks,
		cors:         corsOptions(cfg.AllowedOrigins),
		store:        cfg.Store,
	}
}

// ApplyRoutes registers every route and builds the global middleware chain.
// Services must be set before it is called.
func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerUsers()
	r.registerRoles()
	r.registerPermissions()
	r.registerSettings()
	r.registerBootstrap()
	r.registerSystem()

	r.Mux.Handle("/", NotFoundHandler())

	// Preflights are answered before rate limiting. Instrument sits
	// innermost so it sees the pattern the mux matched.
	r.handler = httpx.Chain(r.Mux,
		slogx.HTTPMiddleware(r.logger),
		cors.Handler(r.cors),
		r.limit("global", httpx.GlobalLimit, httpx.IPKeyExtractor),
		r.metrics.Instrument,
	)
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.handler.ServeHTTP(w, req)
}

// corsOptions applies to every route. No cookies are involved, tokens travel
// in headers, so credentials stay disallowed and "*" is safe to serve.
func corsOptions(origins []string) cors.Options {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{
			http.MethodGet, http.MethodHead, http.MethodPost,
			http.MethodPut, http.MethodPatch, http.MethodDelete,
		},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", BootstrapTokenHeader},
		ExposedHeaders: []string{"Retry-After", "X-RateLimit-Limit", "X-RateLimit-Window"},
		MaxAge:         300,
	}
}

// limit builds a rate limit middleware over a limiter from the factory.
func (r *Router) limit(name string, cfg httpx.RateLimitConfig, keyOf httpx.KeyExtractor) httpx.Middleware {
	return httpx.RateLimit(r.limiters(name, cfg), cfg, keyOf, httpx.OnReject(func(*http.Request) {
		r.metrics.RateLimited(name)
	}))
}

// secured authenticates, rate limits by identity and, when permission is
// set, requires it.
func (r *Router) secured(name string, h http.Handler, cfg httpx.RateLimitConfig, permission string) http.Handler {
	mws := []httpx.Middleware{
		Authenticate(r.Authenticator),
		r.limit(name, cfg, httpx.ByUserOrIP),
	}
	if permission != "" {
		mws = append(mws, RequirePermission(permission, r.elevatedType, r.metrics))
	}
	return httpx.Chain(h, mws...)
}

func (r *Router) registerAuth() {
	h := &AuthHandler{AuthService: r.AuthService}

	// Credential endpoints - strict rate limit by IP
	r.Mux.Handle("POST /v1/auth/signup",
		httpx.Chain(http.HandlerFunc(h.HandleSignup), r.limit("signup", httpx.StrictLimit, httpx.IPKeyExtractor)))
	r.Mux.Handle("POST /v1/auth/signin",
		httpx.Chain(http.HandlerFunc(h.HandleSignin), r.limit("signin", httpx.StrictLimit, httpx.IPKeyExtractor)))
	r.Mux.Handle("POST /v1/auth/refresh-token",
		httpx.Chain(http.HandlerFunc(h.HandleRefresh), r.limit("refresh", httpx.StrictLimit, httpx.IPKeyExtractor)))
}

func (r *Router) registerUsers() {
	h := &UsersHandler{UserService: r.UserService}

	r.Mux.Handle("GET /v1/users/me",
		r.secured("users_me", http.HandlerFunc(h.HandleMe), httpx.LenientLimit, ""))
	r.Mux.Handle("PUT /v1/users/me",
		r.secured("users_me_update", http.HandlerFunc(h.HandleUpdateMe), httpx.ModerateLimit, ""))
	r.Mux.Handle("PUT /v1/users/set-new-role",
		r.secured("users_set_role", http.HandlerFunc(h.HandleSetRole), httpx.ModerateLimit, PermRoleEdit))
	r.Mux.Handle("PUT /v1/users/{id}/suspension",
		r.secured("users_suspension", http.HandlerFunc(h.HandleSuspension), httpx.ModerateLimit, PermUserEdit))
}

func (r *Router) registerRoles() {
	h := &RolesHandler{RolesService: r.RolesService}

	r.Mux.Handle("GET /v1/roles",
		r.secured("roles_list", http.HandlerFunc(h.HandleList), httpx.LenientLimit, PermRoleView))
	r.Mux.Handle("POST /v1/roles",
		r.secured("roles_create", http.HandlerFunc(h.HandleCreate), httpx.ModerateLimit, PermRoleCreate))
	r.Mux.Handle("GET /v1/roles/{id}",
		r.secured("roles_get", http.HandlerFunc(h.HandleGet), httpx.LenientLimit, PermRoleView))
	r.Mux.Handle("PUT /v1/roles/{id}",
		r.secured("roles_update", http.HandlerFunc(h.HandleUpdate), httpx.ModerateLimit, PermRoleEdit))
	r.Mux.Handle("DELETE /v1/roles/{id}",
		r.secured("roles_delete", http.HandlerFunc(h.HandleDelete), httpx.ModerateLimit, PermRoleDelete))
}

func (r *Router) registerPermissions() {
	h := &PermissionsHandler{Cache: r.Permissions}

	r.Mux.Handle("GET /v1/permissions",
		r.secured("permissions_list", http.HandlerFunc(h.HandleList), httpx.LenientLimit, PermRoleView))
	r.Mux.Handle("POST /v1/permissions/cache/clear",
		r.secured("permissions_clear", http.HandlerFunc(h.HandleClear), httpx.ModerateLimit, PermRoleManage))
}

func (r *Router) registerSettings() {
	h := &SettingsHandler{SettingsService: r.SettingsService}

	// Public read, e.g. for a storefront theme
	r.Mux.Handle("GET /v1/settings",
		httpx.Chain(http.HandlerFunc(h.HandleGet), r.limit("settings", httpx.PublicLimit, httpx.IPKeyExtractor)))
	r.Mux.Handle("PUT /v1/settings",
		r.secured("settings_update", http.HandlerFunc(h.HandleUpdate), httpx.ModerateLimit, PermCompanySettingEdit))
}

func (r *Router) registerBootstrap() {
	// POST /bootstrap - very strict rate limit by IP (one-time setup endpoint)
	h := &BootstrapHandler{BootstrapService: r.BootstrapService}
	r.Mux.Handle("POST /v1/bootstrap",
		httpx.Chain(h, r.limit("bootstrap", httpx.StrictLimit, httpx.IPKeyExtractor)))
}

func (r *Router) registerSystem() {
	// Health check endpoints - lenient rate limits (monitoring systems may poll frequently)
	checks := map[string]ReadinessCheck{
		"database": r.store.Ping,
		"permissions": func(ctx context.Context) error {
			_, err := r.Permissions.GetAllPermissions(ctx)
			return err
		},
	}
	for name, check := range r.checks {
		checks[name] = check
	}

	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			r.limit("livez", httpx.LenientLimit, httpx.IPKeyExtractor)))
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, checks),
			r.limit("readyz", httpx.LenientLimit, httpx.IPKeyExtractor)))
	r.Mux.Handle("GET /metrics",
		httpx.Chain(r.metrics.Handler(),
			r.limit("metrics", httpx.LenientLimit, httpx.IPKeyExtractor)))
}
