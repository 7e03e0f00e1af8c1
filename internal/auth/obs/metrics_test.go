package obs

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	require.NotPanics(t, func() {
		m.AuthnFailed(StageVerify)
		m.AuthzDenied("role_view")
		m.TokensIssued("signin")
		m.CacheRefreshed(nil)
		m.RateLimited("global")
	})

	h := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusTeapot) })
	rec := httptest.NewRecorder()
	m.Instrument(h).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusTeapot, rec.Code)
}

func TestCounters(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.AuthnFailed(StageVerify)
	m.AuthnFailed(StageVerify)
	m.AuthnFailed(StageSuspended)
	m.CacheRefreshed(errors.New("db down"))
	m.TokensIssued("refresh")

	require.InDelta(t, 2, testutil.ToFloat64(m.authnFailures.WithLabelValues(StageVerify)), 0)
	require.InDelta(t, 1, testutil.ToFloat64(m.authnFailures.WithLabelValues(StageSuspended)), 0)
	require.InDelta(t, 1, testutil.ToFloat64(m.cacheRefreshes.WithLabelValues("error")), 0)
	require.InDelta(t, 1, testutil.ToFloat64(m.tokensIssued.WithLabelValues("refresh")), 0)
}

func TestInstrumentUsesRoutePattern(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/roles/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	h := m.Instrument(mux)

	for _, id := range []string{"a", "b", "c"} {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/v1/roles/"+id, nil))
	}
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nope", nil))

	require.InDelta(t, 3,
		testutil.ToFloat64(m.httpRequestsTotal.WithLabelValues(http.MethodGet, "GET /v1/roles/{id}", "404")), 0)
	require.InDelta(t, 1,
		testutil.ToFloat64(m.httpRequestsTotal.WithLabelValues(http.MethodGet, "unmatched", "404")), 0)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, strings.Contains(rec.Body.String(), "gatekeeper_http_requests_total"))
}
