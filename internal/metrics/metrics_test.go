package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMiddlewareCountsByRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := New()

	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/api/articles/:slug", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/metrics", gin.WrapH(m.Handler()))

	for _, slug := range []string{"a", "b"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/articles/"+slug, nil))
	}

	got := testutil.ToFloat64(m.httpRequests.WithLabelValues(http.MethodGet, "/api/articles/:slug", "200"))
	if got != 2 {
		t.Fatalf("expected 2 requests for the route template, got %v", got)
	}

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if !strings.Contains(rr.Body.String(), "conduit_http_requests_total") {
		t.Fatalf("expected exposition to include request counter")
	}
}

func TestRecordFailureAndHash(t *testing.T) {
	m := New()
	m.RecordFailure("article.create", "storage_error")
	m.ObserveHash("verify", 20*time.Millisecond)

	if got := testutil.ToFloat64(m.failures.WithLabelValues("article.create", "storage_error")); got != 1 {
		t.Fatalf("expected one failure, got %v", got)
	}
	if got := testutil.CollectAndCount(m.hashDurations); got != 1 {
		t.Fatalf("expected one hash series, got %d", got)
	}

	var nilMetrics *Metrics
	nilMetrics.RecordFailure("x", "y")
	nilMetrics.ObserveHash("hash", time.Millisecond)
}
