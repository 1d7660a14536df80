package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_ObserveBackendCall(t *testing.T) {
	r := NewRegistry()

	r.ObserveBackendCall("products", http.MethodGet, OutcomeSuccess, 20*time.Millisecond)
	r.ObserveBackendCall("products", http.MethodGet, OutcomeSuccess, 30*time.Millisecond)
	r.ObserveBackendCall("robots", http.MethodDelete, OutcomeHTTPError, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.backendRequests.WithLabelValues("products", "GET", OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.backendRequests.WithLabelValues("robots", "DELETE", OutcomeHTTPError)))
	assert.Equal(t, 2, testutil.CollectAndCount(r.backendDuration))
}

func TestRegistry_SessionsAndAlerts(t *testing.T) {
	r := NewRegistry()

	r.SetActiveSessions(3)
	r.AlertRaised("shelves")
	r.AlertRaised("shelves")

	assert.Equal(t, 3.0, testutil.ToFloat64(r.activeSessions))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.alertsRaised.WithLabelValues("shelves")))
}

func TestRegistry_GinMiddlewareAndHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := NewRegistry()

	router := gin.New()
	router.Use(r.GinMiddleware())
	router.GET("/products/:id/edit", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/metrics", gin.WrapH(r.Handler()))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/products/abc/edit", nil))
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, 1.0, testutil.ToFloat64(r.pageRequests.WithLabelValues("/products/:id/edit", "GET", "200")))

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)

	body, err := io.ReadAll(w.Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), "console_http_requests_total"))
	assert.True(t, strings.Contains(string(body), "go_goroutines"))
}
