package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/aussiebroadwan/gatekeeper/internal/auth/domain"
	httpapi "github.com/aussiebroadwan/gatekeeper/internal/auth/http"
	"github.com/aussiebroadwan/gatekeeper/internal/auth/obs"
	"github.com/aussiebroadwan/gatekeeper/internal/auth/service"
	"github.com/aussiebroadwan/gatekeeper/internal/auth/store"
	"github.com/aussiebroadwan/gatekeeper/internal/auth/store/drivers/sqlite"
	"github.com/aussiebroadwan/gatekeeper/pkg/cryptox"
	"github.com/aussiebroadwan/gatekeeper/pkg/httpx"
	"github.com/aussiebroadwan/gatekeeper/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// Application encapsulates the auth service application with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db      store.Store
	redis   *redis.Client // nil unless REDIS_URL is set
	keys    *TokenKeys
	types   domain.UserTypes
	metrics *obs.Metrics

	// Services
	tokenService        *service.TokenService
	authenticator       *service.Authenticator
	authService         *service.AuthService
	userService         *service.UserService
	rolesService        *service.RolesService
	settingsService     *service.SettingsService
	bootstrapService    *service.BootstrapService
	permissionCache     *service.PermissionCache
	housekeepingService *service.HousekeepingService

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "gatekeeper",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	types, err := UserTypes(cfg)
	if err != nil {
		return nil, fmt.Errorf("invalid user types: %w", err)
	}
	app.types = types

	if err := cryptox.LoadPepper(cfg.PepperFile); err != nil {
		return nil, fmt.Errorf("failed to load pepper: %w", err)
	}

	keys, err := InitTokenKeys(cfg, app.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token keys: %w", err)
	}
	app.keys = keys

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	if err := app.initRedis(); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	app.initMetrics()
	app.initServices()

	if err := app.checkGuardPermissions(context.Background()); err != nil {
		app.close()
		return nil, err
	}

	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	// Start housekeeping service
	app.housekeepingService.Start()

	app.logger.Info("gatekeeper starting", "port", app.cfg.Port, "version", BuildVersion)

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a shutdown signal or server error
	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		// Perform graceful shutdown
		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down gatekeeper...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	// Shutdown the HTTP server
	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", slogx.Err(err))
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", slogx.Err(err))
		}
	}

	// Stop the housekeeping service
	app.housekeepingService.Stop()

	if err := app.close(); err != nil {
		return err
	}

	app.logger.Info("gatekeeper stopped")
	return nil
}

// close releases the database and Redis connections.
func (app *Application) close() error {
	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.logger.Error("error closing redis", slogx.Err(err))
		}
	}
	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", slogx.Err(err))
		return err
	}
	return nil
}

// initDatabase initializes the database and applies migrations
func (app *Application) initDatabase() error {
	db, err := sqlite.NewStore("file:" + app.cfg.DatabaseFile)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

// initRedis connects to Redis when configured. Rate limits stay in process
// memory otherwise.
func (app *Application) initRedis() error {
	if app.cfg.RedisURL == "" {
		app.logger.Info("REDIS_URL not set, rate limits are per process")
		return nil
	}

	opts, err := redis.ParseURL(app.cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return fmt.Errorf("failed to connect to redis: %w", err)
	}

	app.redis = client
	app.logger.Info("redis connected, rate limits are shared", slog.String("addr", opts.Addr))
	return nil
}

func (app *Application) initMetrics() {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	app.metrics = obs.NewMetrics(registry)
}

// initServices initializes all business logic services
func (app *Application) initServices() {
	app.tokenService = &service.TokenService{
		Store:      app.db,
		Access:     app.keys.Access,
		Refresh:    app.keys.Refresh,
		AccessTTL:  app.cfg.AccessTokenTTL,
		RefreshTTL: app.cfg.RefreshTokenTTL,
	}

	app.permissionCache = service.NewPermissionCache(
		app.db.Permissions(),
		app.cfg.PermissionCacheWindow,
		app.logger,
		service.WithCacheMetrics(app.metrics),
	)

	app.authenticator = &service.Authenticator{
		Store:   app.db,
		Tokens:  app.tokenService,
		Metrics: app.metrics,
	}
	app.authService = &service.AuthService{
		Store:   app.db,
		Tokens:  app.tokenService,
		Types:   app.types,
		Metrics: app.metrics,
	}
	app.userService = &service.UserService{Store: app.db}
	app.rolesService = &service.RolesService{Store: app.db, Permissions: app.permissionCache}
	app.settingsService = &service.SettingsService{Store: app.db}
	app.bootstrapService = &service.BootstrapService{
		Store:  app.db,
		Tokens: app.tokenService,
		Types:  app.types,
		Token:  app.cfg.BootstrapToken,
	}

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.logger,
		app.cfg.HousekeepingInterval,
	)
}

// checkGuardPermissions refuses to start when a route guards on a
// permission the catalog does not contain, since no role could ever
// satisfy it. It also warms the permission cache.
func (app *Application) checkGuardPermissions(ctx context.Context) error {
	_, unknown, err := app.permissionCache.Resolve(ctx, httpapi.GuardPermissions)
	if err != nil {
		return fmt.Errorf("failed to load permission catalog: %w", err)
	}
	if len(unknown) > 0 {
		return fmt.Errorf("route guards reference unknown permissions: %s", strings.Join(unknown, ", "))
	}
	return nil
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	cfg := httpapi.RouterConfig{
		Version:      BuildVersion,
		ElevatedType: app.types.Elevated,
		Store:        app.db,
		Logger:       app.logger,
		Metrics:      app.metrics,

		AllowedOrigins: app.cfg.CORSAllowedOrigins,
	}
	if app.redis != nil {
		cfg.Limiters = RedisLimiters(app.redis)
		cfg.Checks = map[string]httpapi.ReadinessCheck{
			"redis": func(ctx context.Context) error { return app.redis.Ping(ctx).Err() },
		}
	}

	router := httpapi.NewRouter(cfg)

	// Wire services to router
	router.Authenticator = app.authenticator
	router.AuthService = app.authService
	router.UserService = app.userService
	router.RolesService = app.rolesService
	router.SettingsService = app.settingsService
	router.BootstrapService = app.bootstrapService
	router.Permissions = app.permissionCache
	router.ApplyRoutes()

	app.router = router

	// Initialize HTTP server
	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}

// RedisLimiters shares every named rate limit through client.
func RedisLimiters(client redis.Cmdable) httpapi.LimiterFactory {
	return func(name string, cfg httpx.RateLimitConfig) httpx.Limiter {
		return httpx.NewRedisLimiter(client, name, cfg)
	}
}
