package apiclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jrsteele09/sop-console/credentials"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestMetrics_NilIsSafe(t *testing.T) {
	var m *Metrics
	m.request(http.MethodGet, "ok")
	m.refresh(TriggerProactive, true)
	m.logout(CauseIdle)
}

func TestMetrics_CountsOutcomes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/ok":
			w.WriteHeader(http.StatusOK)
		case "/api/forbidden":
			w.WriteHeader(http.StatusForbidden)
		default:
			w.WriteHeader(http.StatusTeapot)
		}
	}))
	defer srv.Close()

	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)
	store := credentials.NewMemoryStore()
	require.NoError(t, store.Write(context.Background(), credentials.Session{AccessToken: "opaque", RefreshToken: "R1"}))
	client := New(DefaultConfig(srv.URL), store, WithMetrics(metrics))

	// An opaque token always looks stale; the refresh endpoint answers 418.
	_, err := client.Do(context.Background(), &Request{Method: http.MethodGet, Path: "/api/ok"})
	require.NoError(t, err)

	require.Equal(t, 1.0, testutil.ToFloat64(metrics.refreshes.WithLabelValues(TriggerProactive, "failure")))
	require.Equal(t, 1.0, testutil.ToFloat64(metrics.logouts.WithLabelValues(string(CauseRefreshFailed))))
	require.Equal(t, 1.0, testutil.ToFloat64(metrics.requests.WithLabelValues(http.MethodGet, "ok")))

	_, err = client.Do(context.Background(), &Request{Method: http.MethodGet, Path: "/api/forbidden"})
	require.ErrorIs(t, err, ErrLoggedOut)

	count, err := testutil.GatherAndCount(reg, "console_backend_requests_total", "console_token_refresh_total", "console_logouts_total")
	require.NoError(t, err)
	require.Equal(t, 3, count)
}
