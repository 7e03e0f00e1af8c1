package httpx

import (
	"context"
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/aussiebroadwan/gatekeeper/pkg/slogx"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/time/rate"
)

// RateLimitConfig defines the rate limiting parameters.
type RateLimitConfig struct {
	// RequestsPerWindow is the number of requests allowed in the time window.
	RequestsPerWindow int
	// Window is the time window for rate limiting.
	Window time.Duration
	// Burst allows for temporary bursts above the steady rate. Only the
	// in-memory limiter uses it.
	Burst int
}

// Rate limit profiles. Each can be overridden with
// RATELIMIT_{NAME}_REQUESTS, RATELIMIT_{NAME}_WINDOW_SEC and RATELIMIT_{NAME}_BURST.
var (
	// StrictLimit guards credential endpoints (signin, signup, bootstrap).
	StrictLimit = RateLimitConfig{RequestsPerWindow: 5, Window: time.Minute, Burst: 5}

	// ModerateLimit guards authenticated writes.
	ModerateLimit = RateLimitConfig{RequestsPerWindow: 20, Window: time.Minute, Burst: 20}

	// LenientLimit guards authenticated reads and token refresh.
	LenientLimit = RateLimitConfig{RequestsPerWindow: 100, Window: time.Minute, Burst: 100}

	// PublicLimit guards unauthenticated reads such as settings and probes.
	PublicLimit = RateLimitConfig{RequestsPerWindow: 1000, Window: time.Minute, Burst: 1000}

	// GlobalLimit applies to every request, keyed by client IP.
	GlobalLimit = RateLimitConfig{RequestsPerWindow: 300, Window: 5 * time.Minute, Burst: 300}
)

func init() {
	StrictLimit = ParseRateLimitFromEnv("STRICT", StrictLimit)
	ModerateLimit = ParseRateLimitFromEnv("MODERATE", ModerateLimit)
	LenientLimit = ParseRateLimitFromEnv("LENIENT", LenientLimit)
	PublicLimit = ParseRateLimitFromEnv("PUBLIC", PublicLimit)
	GlobalLimit = ParseRateLimitFromEnv("GLOBAL", GlobalLimit)
}

// ParseRateLimitFromEnv overlays RATELIMIT_{prefix}_* variables on def.
// Missing, malformed and non-positive values leave the default in place.
func ParseRateLimitFromEnv(prefix string, def RateLimitConfig) RateLimitConfig {
	cfg := def
	if n, ok := positiveEnv("RATELIMIT_" + prefix + "_REQUESTS"); ok {
		cfg.RequestsPerWindow = n
	}
	if n, ok := positiveEnv("RATELIMIT_" + prefix + "_WINDOW_SEC"); ok {
		cfg.Window = time.Duration(n) * time.Second
	}
	if n, ok := positiveEnv("RATELIMIT_" + prefix + "_BURST"); ok {
		cfg.Burst = n
	}
	return cfg
}

func positiveEnv(key string) (int, bool) {
	v := os.Getenv(key)
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// KeyExtractor returns the bucket a request counts against. An empty key
// exempts the request.
type KeyExtractor func(*http.Request) string

// IPKeyExtractor uses the first X-Forwarded-For hop, then X-Real-IP, then
// the connection's remote address.
func IPKeyExtractor(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		return xri
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// UserIDKeyExtractor keys on the authenticated identity, if any.
func UserIDKeyExtractor(r *http.Request) string {
	id, _ := UserIDFromContext(r.Context())
	return id
}

// CompositeKeyExtractor joins the non-empty results of extractors with sep.
func CompositeKeyExtractor(sep string, extractors ...KeyExtractor) KeyExtractor {
	return func(r *http.Request) string {
		parts := make([]string, 0, len(extractors))
		for _, ex := range extractors {
			if k := ex(r); k != "" {
				parts = append(parts, k)
			}
		}
		return strings.Join(parts, sep)
	}
}

// Limiter decides whether the request identified by key may proceed. When it
// may not, the returned duration is a hint for Retry-After.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, time.Duration)
}

// maxTrackedKeys bounds the in-memory limiter's footprint.
const maxTrackedKeys = 10_000

// MemoryLimiter is a per-process token bucket limiter. Idle buckets expire
// from an LRU so ephemeral keys do not accumulate.
type MemoryLimiter struct {
	mu      sync.Mutex
	buckets *expirable.LRU[string, *rate.Limiter]
	limit   rate.Limit
	burst   int
}

var _ Limiter = (*MemoryLimiter)(nil)

func NewMemoryLimiter(cfg RateLimitConfig) *MemoryLimiter {
	// A bucket idle for a full window (plus slack) has refilled, so dropping
	// it changes nothing.
	ttl := 2 * cfg.Window
	if ttl < time.Minute {
		ttl = time.Minute
	}
	return &MemoryLimiter{
		buckets: expirable.NewLRU[string, *rate.Limiter](maxTrackedKeys, nil, ttl),
		limit:   rate.Limit(float64(cfg.RequestsPerWindow) / cfg.Window.Seconds()),
		burst:   cfg.Burst,
	}
}

func (m *MemoryLimiter) Allow(_ context.Context, key string) (bool, time.Duration) {
	m.mu.Lock()
	lim, ok := m.buckets.Get(key)
	if !ok {
		lim = rate.NewLimiter(m.limit, m.burst)
	}
	// Re-adding refreshes the entry's expiry.
	m.buckets.Add(key, lim)
	m.mu.Unlock()

	if lim.Allow() {
		return true, 0
	}

	res := lim.Reserve()
	delay := res.Delay()
	res.Cancel()
	return false, delay
}

// Len reports how many keys are currently tracked.
func (m *MemoryLimiter) Len() int { return m.buckets.Len() }

// RateLimitOption customises RateLimit.
type RateLimitOption func(*rateLimitOptions)

type rateLimitOptions struct {
	onReject func(*http.Request)
}

// OnReject registers a callback invoked for every rejected request.
func OnReject(fn func(*http.Request)) RateLimitOption {
	return func(o *rateLimitOptions) { o.onReject = fn }
}

// RateLimit rejects requests that l refuses with 429 and a JSON error body.
func RateLimit(l Limiter, cfg RateLimitConfig, keyOf KeyExtractor, opts ...RateLimitOption) Middleware {
	var o rateLimitOptions
	for _, opt := range opts {
		opt(&o)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			key := keyOf(r)
			if key == "" {
				slogx.FromContext(ctx).Warn("rate limit: unable to extract key, allowing request")
				next.ServeHTTP(w, r)
				return
			}

			ok, wait := l.Allow(ctx, key)
			if ok {
				next.ServeHTTP(w, r)
				return
			}

			retryAfter := max(int(wait.Round(time.Second).Seconds()), 1)
			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(cfg.RequestsPerWindow))
			w.Header().Set("X-RateLimit-Window", cfg.Window.String())

			slogx.FromContext(ctx).Warn("rate limit exceeded",
				"key", key,
				"endpoint", r.URL.Path,
				"retry_after", retryAfter,
			)
			if o.onReject != nil {
				o.onReject(r)
			}

			WriteJSON(w, http.StatusTooManyRequests, map[string]string{
				"error":             "rate_limit_exceeded",
				"error_description": "Too many requests. Please try again later.",
			})
		})
	}
}

// RateLimitMiddleware is RateLimit backed by a fresh MemoryLimiter.
func RateLimitMiddleware(cfg RateLimitConfig, keyOf KeyExtractor, opts ...RateLimitOption) Middleware {
	return RateLimit(NewMemoryLimiter(cfg), cfg, keyOf, opts...)
}

// RateLimitByIP limits by client IP with an in-memory limiter.
func RateLimitByIP(cfg RateLimitConfig) Middleware {
	return RateLimitMiddleware(cfg, IPKeyExtractor)
}

// ByUserOrIP keys on the authenticated identity, combined with the IP.
var ByUserOrIP = CompositeKeyExtractor(":", UserIDKeyExtractor, IPKeyExtractor)

// RateLimitByUser limits by authenticated identity, falling back to IP.
func RateLimitByUser(cfg RateLimitConfig) Middleware {
	return RateLimitMiddleware(cfg, ByUserOrIP)
}
