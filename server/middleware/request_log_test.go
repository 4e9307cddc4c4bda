package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "github.com/hrygo/traveltime/server/internal/errors"
	"github.com/hrygo/traveltime/server/internal/observability"
)

type observedRequest struct {
	path string
	code int
}

type fakeObserver struct {
	requests   []observedRequest
	suspicious int
}

func (f *fakeObserver) ObserveRequest(path string, code int, _ time.Duration) {
	f.requests = append(f.requests, observedRequest{path: path, code: code})
}

func (f *fakeObserver) IncSuspicious() {
	f.suspicious++
}

func TestIsSuspiciousPath(t *testing.T) {
	assert.True(t, IsSuspiciousPath("/login.action"))
	assert.True(t, IsSuspiciousPath("/struts/index"))
	assert.True(t, IsSuspiciousPath("/JMX-CONSOLE/"))
	assert.False(t, IsSuspiciousPath("/api/v1/travel/evaluate"))
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	observer := &fakeObserver{}

	e := echo.New()
	e.Use(RequestLogger(logger, observer))
	e.GET("/api/v1/travel/resolve", func(c echo.Context) error {
		reqCtx, ok := observability.FromContext(c.Request().Context())
		require.True(t, ok)
		assert.Equal(t, observability.MaskValue("Home"), reqCtx.OriginHash)
		return c.String(http.StatusOK, "ok")
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/travel/resolve?origin=Home&destination=Office", nil)
	req.Header.Set(echo.HeaderXRequestID, "fixed-id")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "fixed-id", rec.Header().Get(echo.HeaderXRequestID))
	require.Len(t, observer.requests, 1)
	assert.Equal(t, observedRequest{path: "/api/v1/travel/resolve", code: 200}, observer.requests[0])

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "fixed-id", entry[observability.LogFieldRequestID])
	assert.Equal(t, observability.MaskValue("Office"), entry[observability.LogFieldDestination])
	assert.NotContains(t, buf.String(), "Office")
}

func TestRequestLogger_RecordsErrorStatus(t *testing.T) {
	observer := &fakeObserver{}
	e := echo.New()
	e.Use(RequestLogger(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)), observer))
	e.GET("/fail", func(echo.Context) error {
		return echo.NewHTTPError(http.StatusBadRequest, "bad")
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/fail", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.Len(t, observer.requests, 1)
	assert.Equal(t, http.StatusBadRequest, observer.requests[0].code)
}

func TestRequestLogger_CountsSuspicious(t *testing.T) {
	observer := &fakeObserver{}
	e := echo.New()
	e.Use(RequestLogger(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)), observer))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/login.action", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, 1, observer.suspicious)
	require.Len(t, observer.requests, 1)
}

func TestRequestLogger_LogsErrorCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode any
	}{
		{"coded error", apierrors.InvalidArgument("text is required"), "INVALID_ARGUMENT"},
		{"echo error", echo.NewHTTPError(http.StatusBadRequest, "bad"), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			e := echo.New()
			e.Use(RequestLogger(slog.New(slog.NewJSONHandler(&buf, nil)), nil))
			e.GET("/fail", func(echo.Context) error { return tt.err })

			e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/fail", nil))

			var entry map[string]any
			require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
			assert.Equal(t, tt.wantCode, entry[observability.LogFieldErrorCode])
		})
	}
}
