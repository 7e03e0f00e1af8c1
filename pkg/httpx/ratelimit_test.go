package httpx_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/gatekeeper/pkg/httpx"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func requestFrom(addr string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = addr
	return req
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestIPKeyExtractor(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		want    string
	}{
		{"remote addr", nil, "192.168.1.1"},
		{"forwarded for wins", map[string]string{
			"X-Forwarded-For": "203.0.113.1, 192.168.1.1",
			"X-Real-IP":       "203.0.113.9",
		}, "203.0.113.1"},
		{"real ip", map[string]string{"X-Real-IP": "203.0.113.2"}, "203.0.113.2"},
		{"blank forwarded for", map[string]string{"X-Forwarded-For": " ,10.0.0.1"}, "192.168.1.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := requestFrom("192.168.1.1:12345")
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			require.Equal(t, tt.want, httpx.IPKeyExtractor(req))
		})
	}
}

func TestCompositeKeyExtractor(t *testing.T) {
	t.Run("joins identity and ip", func(t *testing.T) {
		req := requestFrom("192.168.1.1:12345")
		req = req.WithContext(httpx.WithUserID(req.Context(), "user-1"))
		require.Equal(t, "user-1:192.168.1.1", httpx.ByUserOrIP(req))
	})

	t.Run("skips empty parts", func(t *testing.T) {
		require.Equal(t, "192.168.1.1", httpx.ByUserOrIP(requestFrom("192.168.1.1:12345")))
	})
}

func TestMemoryLimiter(t *testing.T) {
	ctx := context.Background()

	t.Run("blocks over burst and hints a wait", func(t *testing.T) {
		l := httpx.NewMemoryLimiter(httpx.RateLimitConfig{RequestsPerWindow: 3, Window: time.Minute, Burst: 3})
		for i := range 3 {
			ok, _ := l.Allow(ctx, "k")
			require.True(t, ok, "request %d", i+1)
		}
		ok, wait := l.Allow(ctx, "k")
		require.False(t, ok)
		require.Positive(t, wait)
	})

	t.Run("keys are independent", func(t *testing.T) {
		l := httpx.NewMemoryLimiter(httpx.RateLimitConfig{RequestsPerWindow: 1, Window: time.Minute, Burst: 1})
		ok, _ := l.Allow(ctx, "a")
		require.True(t, ok)
		ok, _ = l.Allow(ctx, "a")
		require.False(t, ok)
		ok, _ = l.Allow(ctx, "b")
		require.True(t, ok)
		require.Equal(t, 2, l.Len())
	})
}

func TestRateLimitMiddleware(t *testing.T) {
	t.Run("rejects with headers and json body", func(t *testing.T) {
		cfg := httpx.RateLimitConfig{RequestsPerWindow: 1, Window: time.Minute, Burst: 1}
		rejected := 0
		h := httpx.RateLimitMiddleware(cfg, httpx.IPKeyExtractor, httpx.OnReject(func(*http.Request) {
			rejected++
		}))(okHandler)

		require.Equal(t, http.StatusOK, serve(h, requestFrom("192.168.1.1:1")).Code)

		rec := serve(h, requestFrom("192.168.1.1:2"))
		require.Equal(t, http.StatusTooManyRequests, rec.Code)
		require.NotEmpty(t, rec.Header().Get("Retry-After"))
		require.Equal(t, "1", rec.Header().Get("X-RateLimit-Limit"))
		require.Equal(t, "1m0s", rec.Header().Get("X-RateLimit-Window"))
		require.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
		require.JSONEq(t,
			`{"error":"rate_limit_exceeded","error_description":"Too many requests. Please try again later."}`,
			rec.Body.String())
		require.Equal(t, 1, rejected)

		// A different client still gets through.
		require.Equal(t, http.StatusOK, serve(h, requestFrom("192.168.1.2:1")).Code)
	})

	t.Run("empty key is exempt", func(t *testing.T) {
		cfg := httpx.RateLimitConfig{RequestsPerWindow: 1, Window: time.Minute, Burst: 1}
		h := httpx.RateLimitMiddleware(cfg, func(*http.Request) string { return "" })(okHandler)
		for range 3 {
			require.Equal(t, http.StatusOK, serve(h, requestFrom("192.168.1.1:1")).Code)
		}
	})

	t.Run("by user separates identities behind one ip", func(t *testing.T) {
		h := httpx.RateLimitByUser(httpx.RateLimitConfig{RequestsPerWindow: 1, Window: time.Minute, Burst: 1})(okHandler)
		as := func(id string) *http.Request {
			req := requestFrom("10.0.0.1:1")
			return req.WithContext(httpx.WithUserID(req.Context(), id))
		}
		require.Equal(t, http.StatusOK, serve(h, as("alice")).Code)
		require.Equal(t, http.StatusTooManyRequests, serve(h, as("alice")).Code)
		require.Equal(t, http.StatusOK, serve(h, as("bob")).Code)
	})
}

func TestRateLimitProfiles(t *testing.T) {
	profiles := map[string]httpx.RateLimitConfig{
		"strict":   httpx.StrictLimit,
		"moderate": httpx.ModerateLimit,
		"lenient":  httpx.LenientLimit,
		"public":   httpx.PublicLimit,
		"global":   httpx.GlobalLimit,
	}
	for name, cfg := range profiles {
		t.Run(name, func(t *testing.T) {
			require.Positive(t, cfg.RequestsPerWindow)
			require.Positive(t, cfg.Window)
			require.Positive(t, cfg.Burst)
		})
	}
}

func TestParseRateLimitFromEnv(t *testing.T) {
	def := httpx.RateLimitConfig{RequestsPerWindow: 10, Window: time.Minute, Burst: 10}

	tests := []struct {
		name string
		env  map[string]string
		want httpx.RateLimitConfig
	}{
		{"defaults", nil, def},
		{"requests", map[string]string{"RATELIMIT_TEST_REQUESTS": "50"},
			httpx.RateLimitConfig{RequestsPerWindow: 50, Window: time.Minute, Burst: 10}},
		{"window", map[string]string{"RATELIMIT_TEST_WINDOW_SEC": "30"},
			httpx.RateLimitConfig{RequestsPerWindow: 10, Window: 30 * time.Second, Burst: 10}},
		{"all", map[string]string{
			"RATELIMIT_TEST_REQUESTS":   "100",
			"RATELIMIT_TEST_WINDOW_SEC": "120",
			"RATELIMIT_TEST_BURST":      "25",
		}, httpx.RateLimitConfig{RequestsPerWindow: 100, Window: 2 * time.Minute, Burst: 25}},
		{"invalid ignored", map[string]string{
			"RATELIMIT_TEST_REQUESTS":   "lots",
			"RATELIMIT_TEST_WINDOW_SEC": "-5",
			"RATELIMIT_TEST_BURST":      "0",
		}, def},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			require.Equal(t, tt.want, httpx.ParseRateLimitFromEnv("TEST", def))
		})
	}
}

func BenchmarkRateLimitManyIPs(b *testing.B) {
	cfg := httpx.RateLimitConfig{RequestsPerWindow: 1_000_000, Window: time.Minute, Burst: 1000}
	h := httpx.RateLimitByIP(cfg)(okHandler)

	for i := 0; b.Loop(); i++ {
		serve(h, requestFrom(fmt.Sprintf("192.168.%d.%d:12345", i%255, (i/255)%255)))
	}
}
