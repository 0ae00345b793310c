package observability

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Registered(t *testing.T) {
	m := NewMetrics()
	m.ObserveRequest("GET", "/books", 200, 10*time.Millisecond)
	m.SyncFailed("books", "add")
	m.AuthFailed("missing_token")

	families, err := m.Registry().Gather()
	require.NoError(t, err)

	registered := make(map[string]bool)
	for _, family := range families {
		registered[family.GetName()] = true
	}

	for _, name := range []string{
		"bookkeeper_http_requests_total",
		"bookkeeper_http_request_duration_seconds",
		"bookkeeper_backref_sync_failures_total",
		"bookkeeper_auth_failures_total",
		"go_goroutines",
	} {
		assert.True(t, registered[name], "metric %q should be registered", name)
	}
}

func TestMetrics_Counters(t *testing.T) {
	m := NewMetrics()

	m.ObserveRequest("POST", "/books", 201, time.Millisecond)
	m.ObserveRequest("POST", "/books", 201, time.Millisecond)
	m.SyncFailed("profile_books", "remove")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requestsTotal.WithLabelValues("POST", "/books", "201")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.syncFailures.WithLabelValues("profile_books", "remove")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.syncFailures.WithLabelValues("books", "add")))
}

func TestMetrics_Handler(t *testing.T) {
	m := NewMetrics()
	m.AuthFailed("expired")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), `bookkeeper_auth_failures_total{reason="expired"} 1`))
}
