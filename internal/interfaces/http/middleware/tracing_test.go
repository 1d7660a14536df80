package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/erp/console/internal/application/console"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// setupTestTracer sets up a test tracer provider and returns the span recorder.
func setupTestTracer(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()

	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	t.Cleanup(func() {
		_ = tp.Shutdown(t.Context())
		otel.SetTracerProvider(prev)
	})

	return sr
}

func attrValue(attrs []attribute.KeyValue, key string) (string, bool) {
	for _, kv := range attrs {
		if string(kv.Key) == key {
			return kv.Value.Emit(), true
		}
	}
	return "", false
}

func TestTracing_Disabled(t *testing.T) {
	sr := setupTestTracer(t)

	router := gin.New()
	router.Use(Tracing(TracingConfig{Enabled: false}))
	router.GET("/test", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, sr.Ended())
}

func TestTracing_SessionAttributes(t *testing.T) {
	sr := setupTestTracer(t)
	sessions := console.NewSessions(console.SessionsConfig{
		IdleTTL:  time.Hour,
		NewShell: func() *console.Shell { return console.NewShell(nil) },
	})
	t.Cleanup(sessions.Close)

	router := gin.New()
	router.Use(
		RequestID(),
		Tracing(TracingConfig{Enabled: true, ServiceName: "test-console"}),
		SpanErrorMarker(),
		Session(sessions, SessionConfig{CookieName: testCookie}),
		SpanAttributes(),
	)
	router.GET("/robots", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	router.POST("/robots/form", func(c *gin.Context) {
		c.Status(http.StatusUnprocessableEntity)
	})
	router.GET("/boom", func(c *gin.Context) {
		c.Status(http.StatusBadGateway)
	})

	req := httptest.NewRequest(http.MethodGet, "/robots", nil)
	req.Header.Set(RequestIDHeader, "req-1")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	spans := sr.Ended()
	require.Len(t, spans, 1)
	attrs := spans[0].Attributes()

	id, ok := attrValue(attrs, "request_id")
	assert.True(t, ok)
	assert.Equal(t, "req-1", id)

	sid, ok := attrValue(attrs, "session_id")
	assert.True(t, ok)
	assert.Equal(t, sessionCookie(t, w).Value, sid)
	assert.Equal(t, codes.Unset, spans[0].Status().Code)

	t.Run("validation failures are not span errors", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/robots/form", nil))
		spans := sr.Ended()
		assert.NotEqual(t, codes.Error, spans[len(spans)-1].Status().Code)
	})

	t.Run("server errors are span errors", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
		spans := sr.Ended()
		assert.Equal(t, codes.Error, spans[len(spans)-1].Status().Code)
	})
}
