package app

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Issuer         string // Optional: issuer claim for tokens (default: gatekeeper)
	BootstrapToken string // Optional: token required to perform bootstrap

	AccessTokenSecret  string        // Optional: HS256 secret for access tokens (default: generated per process)
	RefreshTokenSecret string        // Optional: HS256 secret for refresh tokens (default: generated per process)
	AccessTokenTTL     time.Duration // Access token lifetime (default: 15m)
	RefreshTokenTTL    time.Duration // Refresh token lifetime (default: 7 days)

	UserTypes       []string // Allowed identity types, elevated first (default: BUSINESS-OWNER,CUSTOMER,EMPLOYEE)
	DefaultUserType string   // Type given at signup when none is requested (default: CUSTOMER)
	StaffUserType   string   // Type that must carry a role (default: EMPLOYEE)

	PermissionCacheWindow time.Duration // Permission cache staleness bound (default: 5m)
	RedisURL              string        // Optional: shares rate limits through Redis when set
	CORSAllowedOrigins    []string      // Origins allowed cross-origin access (default: *)

	DatabaseFile         string        // Optional: path to SQLite database file (default: ./auth.db)
	PepperFile           string        // Optional: path to file containing pepper for password hashing (default: ./pepper)
	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Housekeeping interval (default: 1h)
}

func LoadConfig() Config {
	return Config{
		Issuer:         getEnvOrDefault("AUTH_ISSUER", "gatekeeper"),
		BootstrapToken: os.Getenv("BOOTSTRAP_TOKEN"), // Optional: if set, required to perform bootstrap

		AccessTokenSecret:  os.Getenv("ACCESS_TOKEN_SECRET"),
		RefreshTokenSecret: os.Getenv("REFRESH_TOKEN_SECRET"),
		AccessTokenTTL:     getEnvDurationOrDefault("ACCESS_TOKEN_EXPIRY", 15*time.Minute),
		RefreshTokenTTL:    getEnvDurationOrDefault("REFRESH_TOKEN_EXPIRY", 7*24*time.Hour),

		UserTypes:       getEnvListOrDefault("USER_TYPES", []string{"BUSINESS-OWNER", "CUSTOMER", "EMPLOYEE"}),
		DefaultUserType: getEnvOrDefault("DEFAULT_USER_TYPE", "CUSTOMER"),
		StaffUserType:   getEnvOrDefault("STAFF_USER_TYPE", "EMPLOYEE"),

		PermissionCacheWindow: getEnvDurationOrDefault("PERMISSION_CACHE_WINDOW", 5*time.Minute),
		RedisURL:              os.Getenv("REDIS_URL"),
		CORSAllowedOrigins:    getEnvListOrDefault("CORS_ALLOWED_ORIGINS", []string{"*"}),

		DatabaseFile:         getEnvOrDefault("AUTH_DATABASE_FILE", "auth.db"),
		PepperFile:           getEnvOrDefault("AUTH_PEPPER_FILE", "pepper"),
		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Try parsing as integer minutes (for backwards compatibility)
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}

// getEnvListOrDefault splits a comma separated value, dropping blanks.
func getEnvListOrDefault(key string, defaultValue []string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
