package http

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pageRequest struct {
	Limit int    `json:"limit" default:"50" validate:"gte=1,lte=1000"`
	Name  string `json:"name" validate:"required"`
}

func TestValidateRequestAppliesDefaults(t *testing.T) {
	req := pageRequest{Name: "x"}
	assert.Nil(t, ValidateRequest(context.Background(), &req))
	assert.Equal(t, 50, req.Limit)

	req = pageRequest{Limit: 5000}
	errs, ok := ValidateRequest(context.Background(), &req).([]ValidationError)
	require.True(t, ok)
	codes := map[string]string{}
	for _, e := range errs {
		codes[e.Field] = e.Code
	}
	assert.Equal(t, "ERR_LTE", codes["limit"])
	assert.Equal(t, "ERR_REQUIRED", codes["name"])
}

func TestValidateRequestRejectsNonFinite(t *testing.T) {
	req := struct {
		A float64 `json:"a" validate:"finite"`
	}{A: math.Inf(-1)}
	errs, ok := ValidateRequest(context.Background(), &req).([]ValidationError)
	require.True(t, ok)
	require.Len(t, errs, 1)
	assert.Equal(t, "ERR_FINITE", errs[0].Code)
	assert.Equal(t, "a", errs[0].Field)
}

func TestReadAndValidateRequestBindsBody(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"moon","limit":3}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	c := e.NewContext(req, httptest.NewRecorder())

	var body pageRequest
	assert.Nil(t, ReadAndValidateRequest(c, &body))
	assert.Equal(t, pageRequest{Limit: 3, Name: "moon"}, body)
}

func TestRequestErrorsFromQueryBinder(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/?orb=wide", nil), httptest.NewRecorder())

	var orb float64
	err := echo.QueryParamsBinder(c).Float64("orb", &orb).BindError()
	require.Error(t, err)
	errs := RequestErrors(err)
	require.Len(t, errs, 1)
	assert.Equal(t, "ERR_BIND", errs[0].Code)
	assert.Equal(t, "orb", errs[0].Field)
}

func TestAppErrorResponseUsesStatus(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	require.NoError(t, AppErrorResponse(c, UnprocessableError("ERR_OUT_OF_RANGE", "date outside range")))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var body struct {
		Status int        `json:"status"`
		Data   []AppError `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, http.StatusUnprocessableEntity, body.Status)
	require.Len(t, body.Data, 1)
	assert.Equal(t, "ERR_OUT_OF_RANGE", body.Data[0].Code)

	rec = httptest.NewRecorder()
	c = e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	c.Response().Header().Set(echo.HeaderXRequestID, "req-1")
	require.NoError(t, SuccessResponse(c, "ok"))
	var ok Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ok))
	assert.Equal(t, "req-1", ok.RequestID)
	assert.Equal(t, "OK", ok.Message)

	rec = httptest.NewRecorder()
	c = e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	require.NoError(t, AppErrorResponse(c, errors.New("plain")))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestParseTimeParam(t *testing.T) {
	def := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	got, err := ParseTimeParam("date", "2024-03-20T14:00:00+02:00", def)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC), got)

	got, err = ParseTimeParam("date", "", def)
	require.NoError(t, err)
	assert.Equal(t, def, got)

	_, err = ParseTimeParam("from", "yesterday", def)
	var appErr *AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusBadRequest, appErr.Status)
	assert.Equal(t, "from", appErr.Field)
}

func TestServerServesMetricsAndHealthWithoutLimit(t *testing.T) {
	s := NewServer(nil, nil, WithRateLimit(denyAll{}))
	s.Echo().GET("/healthz", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	s.Echo().GET("/api/x", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	rec := httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/x", nil))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))
	assert.Equal(t, "0.0.0.0:8080", s.Addr())
}

type denyAll struct{}

func (denyAll) Allow(string) bool { return false }
