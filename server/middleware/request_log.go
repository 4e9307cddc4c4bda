package middleware

import (
	"log/slog"
	"regexp"
	"time"

	"github.com/labstack/echo/v4"

	apierrors "github.com/hrygo/traveltime/server/internal/errors"
	"github.com/hrygo/traveltime/server/internal/observability"
)

// suspiciousPathPattern matches paths commonly requested by vulnerability scanners.
var suspiciousPathPattern = regexp.MustCompile(`(?i)(\.do$|\.action$|struts|jbossmq|web-console|invoker|jmx-console)`)

// unmatchedRoute labels requests that hit no registered route.
const unmatchedRoute = "unmatched"

// RequestObserver receives one call per finished request.
type RequestObserver interface {
	ObserveRequest(path string, code int, duration time.Duration)
	IncSuspicious()
}

// IsSuspiciousPath reports whether path looks like a vulnerability scan.
func IsSuspiciousPath(path string) bool {
	return suspiciousPathPattern.MatchString(path)
}

// RequestLogger attaches an observability.RequestContext to every request and
// logs it on completion with origin and destination masked.
// Handler errors are rendered here so the logged status is the final one.
func RequestLogger(logger *slog.Logger, observer RequestObserver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			reqCtx := observability.NewRequestContextWithID(logger, req.Header.Get(echo.HeaderXRequestID), req.URL.Path)
			reqCtx.SetLocations(c.QueryParam("origin"), c.QueryParam("destination"))
			c.SetRequest(req.WithContext(observability.WithRequestContext(req.Context(), reqCtx)))
			c.Response().Header().Set(echo.HeaderXRequestID, reqCtx.RequestID)

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			status := c.Response().Status
			suspicious := IsSuspiciousPath(req.URL.Path)
			route := c.Path()
			if route == "" {
				route = unmatchedRoute
			}

			if observer != nil {
				observer.ObserveRequest(route, status, reqCtx.Duration())
				if suspicious {
					observer.IncSuspicious()
				}
			}

			attrs := []slog.Attr{
				slog.String("method", req.Method),
				slog.Int(observability.LogFieldStatus, status),
				slog.Int64(observability.LogFieldDuration, reqCtx.DurationMs()),
				slog.String("ip", c.RealIP()),
				slog.String("user_agent", req.UserAgent()),
				slog.Bool("suspicious", suspicious),
			}
			if code := apierrors.GetCodeFromError(err, ""); code != "" {
				attrs = append(attrs, slog.String(observability.LogFieldErrorCode, string(code)))
			}
			reqCtx.Info("request", attrs...)
			return nil
		}
	}
}
