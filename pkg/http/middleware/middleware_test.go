package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"AstroCore/pkg/kafka"
	applogger "AstroCore/pkg/logger"
)

func serve(e *echo.Echo, method, target string, hdr map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

type countingAllower struct{ left int }

func (a *countingAllower) Allow(string) bool {
	if a.left <= 0 {
		return false
	}
	a.left--
	return true
}

func TestRateLimit(t *testing.T) {
	e := echo.New()
	e.Use(RateLimit(&countingAllower{left: 1}, "/healthz"))
	e.GET("/api/x", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/healthz", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	assert.Equal(t, http.StatusOK, serve(e, http.MethodGet, "/api/x", nil).Code)
	rec := serve(e, http.MethodGet, "/api/x", nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))
	assert.Equal(t, http.StatusOK, serve(e, http.MethodGet, "/healthz", nil).Code)
}

func TestRequestIDPropagatesToContext(t *testing.T) {
	e := echo.New()
	e.Use(RequestID())
	var seen string
	e.GET("/", func(c echo.Context) error {
		seen = kafka.TraceIDFrom(c.Request().Context())
		return c.NoContent(http.StatusOK)
	})

	rec := serve(e, http.MethodGet, "/", map[string]string{echo.HeaderXRequestID: "abc"})
	assert.Equal(t, "abc", rec.Header().Get(echo.HeaderXRequestID))
	assert.Equal(t, "abc", seen)

	rec = serve(e, http.MethodGet, "/", nil)
	assert.Len(t, rec.Header().Get(echo.HeaderXRequestID), 36)
	assert.Equal(t, rec.Header().Get(echo.HeaderXRequestID), seen)
}

func TestMetricsUseRouteTemplate(t *testing.T) {
	reg := prometheus.NewRegistry()
	e := echo.New()
	e.Use(Metrics(reg))
	e.GET("/api/bodies/:id", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	serve(e, http.MethodGet, "/api/bodies/sun", nil)
	serve(e, http.MethodGet, "/api/bodies/moon", nil)
	serve(e, http.MethodGet, "/nope", nil)

	m := newHTTPMetricsForTest(t, reg)
	assert.Equal(t, 2.0, testutil.ToFloat64(m.WithLabelValues("/api/bodies/:id", "GET", "200")))
}

// newHTTPMetricsForTest fetches the registered request counter back from reg.
func newHTTPMetricsForTest(t *testing.T, reg *prometheus.Registry) *prometheus.CounterVec {
	t.Helper()
	cv := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "astro_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"route", "method", "status"})
	err := reg.Register(cv)
	var are prometheus.AlreadyRegisteredError
	require.ErrorAs(t, err, &are)
	return are.ExistingCollector.(*prometheus.CounterVec)
}

func TestRecoverWritesServerError(t *testing.T) {
	var buf bytes.Buffer
	e := echo.New()
	e.Use(RequestLogging(applogger.NewWriter(&buf), 0))
	e.Use(Recover(applogger.NewWriter(&buf)))
	e.GET("/boom", func(echo.Context) error { panic("boom") })

	rec := serve(e, http.MethodGet, "/boom", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, buf.String(), "panic in handler")
	assert.Contains(t, buf.String(), "http request failed")
}

func TestCORSPreflight(t *testing.T) {
	e := echo.New()
	e.Use(CORS(CORSConfig{
		AllowOrigins: []string{"https://app.example"},
		AllowMethods: []string{http.MethodGet},
		MaxAge:       600,
	}))
	e.GET("/api/x", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	rec := serve(e, http.MethodOptions, "/api/x", map[string]string{echo.HeaderOrigin: "https://app.example"})
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://app.example", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
	assert.Equal(t, "GET", rec.Header().Get(echo.HeaderAccessControlAllowMethods))
	assert.Equal(t, "600", rec.Header().Get(echo.HeaderAccessControlMaxAge))

	rec = serve(e, http.MethodGet, "/api/x", map[string]string{echo.HeaderOrigin: "https://evil.example"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
}
