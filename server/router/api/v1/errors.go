package v1

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/hrygo/traveltime/plugin/routing"
	apierrors "github.com/hrygo/traveltime/server/internal/errors"
)

// rateLimitRetryAfter is the Retry-After hint sent with 429 responses.
const rateLimitRetryAfter = 60

// ErrorResponse is the JSON body of every failed request.
type ErrorResponse struct {
	Code    apierrors.ErrorCode `json:"code"`
	Error   string              `json:"error"`
	Context map[string]any      `json:"context,omitempty"`
}

// HTTPErrorHandler renders coded errors and echo errors as ErrorResponse.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status, body := errorResponse(err)
	if status >= http.StatusInternalServerError {
		attrs := []any{
			slog.String("path", c.Path()),
			slog.String("code", string(body.Code)),
			slog.String("error", err.Error()),
		}
		if len(body.Context) > 0 {
			attrs = append(attrs, slog.Any("context", body.Context))
		}
		slog.Error("request failed", attrs...)
	}
	if apierrors.IsCode(err, apierrors.ErrCodeRateLimitExceeded) {
		c.Response().Header().Set(echo.HeaderRetryAfter, strconv.Itoa(rateLimitRetryAfter))
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(status)
	} else {
		err = c.JSON(status, body)
	}
	if err != nil {
		slog.Error("failed to write error response", slog.String("error", err.Error()))
	}
}

func errorResponse(err error) (int, ErrorResponse) {
	var apiErr *apierrors.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code.HTTPStatus(), ErrorResponse{Code: apiErr.Code, Error: apiErr.Message, Context: apiErr.Context}
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Code, ErrorResponse{Code: codeForStatus(httpErr.Code), Error: fmt.Sprint(httpErr.Message)}
	}

	return http.StatusInternalServerError, ErrorResponse{Code: apierrors.ErrCodeInternal, Error: "internal server error"}
}

func codeForStatus(status int) apierrors.ErrorCode {
	switch {
	case status == http.StatusTooManyRequests:
		return apierrors.ErrCodeRateLimitExceeded
	case status >= 400 && status < 500:
		return apierrors.ErrCodeInvalidArgument
	default:
		return apierrors.ErrCodeInternal
	}
}

// serviceError maps a travel service failure to a coded error.
func serviceError(err error, msg string) *apierrors.APIError {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return apierrors.DeadlineExceeded(err)
	case errors.Is(err, context.Canceled):
		return apierrors.ContextCanceled(err)
	case errors.Is(err, routing.ErrMissingEndpoint):
		return apierrors.InvalidArgument(routing.ErrMissingEndpoint.Error())
	case errors.Is(err, routing.ErrProvider):
		return apierrors.UpstreamUnavailable("routing provider failed", err)
	default:
		return apierrors.Internal(msg, err)
	}
}
