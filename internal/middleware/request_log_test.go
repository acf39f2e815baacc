package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"stockledger/internal/metrics"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestRequestLog_RecordsStatusAndRoute(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	m := metrics.New("test")

	e := echo.New()
	e.Use(RequestLog(zap.New(core), m))
	e.GET("/items/:id", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"id": c.Param("id")})
	})
	e.GET("/boom", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "down")
	})

	for _, p := range []string{"/items/1", "/items/2", "/boom"} {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, p, nil))
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/items/:id", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/boom", "503")))

	assert.Equal(t, 3, logs.FilterMessage("request").Len())
	errLogs := logs.FilterField(zap.Int("status", http.StatusServiceUnavailable)).All()
	if assert.Len(t, errLogs, 1) {
		assert.Equal(t, zap.ErrorLevel, errLogs[0].Level)
		assert.Equal(t, "/boom", errLogs[0].ContextMap()["path"])
	}
}

func TestRequestLog_NilMetrics(t *testing.T) {
	e := echo.New()
	e.Use(RequestLog(zap.NewNop(), nil))
	e.GET("/ok", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) })

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ok", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
