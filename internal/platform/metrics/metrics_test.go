package metrics

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveCountsOutcomes(t *testing.T) {
	m := New()
	m.Observe(context.Background(), "create_department", true, 3*time.Millisecond)
	m.Observe(context.Background(), "create_department", false, time.Millisecond)
	m.Observe(context.Background(), "create_department", false, time.Millisecond)
	m.Observe(context.Background(), "", true, time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Operations.WithLabelValues("create_department", "success")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Operations.WithLabelValues("create_department", "error")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.OperationDuration))
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.Observe(context.Background(), "get_department", true, time.Millisecond)
	m.ObserveRequest(http.MethodGet, "/api/departments", http.StatusOK, time.Millisecond)
}

func TestHandlerExposesRegistry(t *testing.T) {
	m := New()
	m.ObserveRequest(http.MethodGet, "/api/departments", http.StatusOK, 10*time.Millisecond)
	m.Cleanup.WithLabelValues("deleted").Inc()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `sgas_http_request_duration_seconds_count{method="GET",route="/api/departments",status="200"} 1`)
	assert.Contains(t, string(body), `sgas_cleanup_jobs_total{outcome="deleted"} 1`)
	assert.Contains(t, string(body), "go_goroutines")
}
