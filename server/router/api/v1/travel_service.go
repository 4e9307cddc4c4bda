package v1

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/hrygo/traveltime/plugin/routing"
	"github.com/hrygo/traveltime/plugin/travel/apptime"
	"github.com/hrygo/traveltime/plugin/travel/destination"
	"github.com/hrygo/traveltime/plugin/travel/intent"
	"github.com/hrygo/traveltime/plugin/travel/query"
	apierrors "github.com/hrygo/traveltime/server/internal/errors"
	"github.com/hrygo/traveltime/server/internal/observability"
)

// ResolveResponse is the body of GET /api/v1/travel/resolve.
type ResolveResponse struct {
	Text     string `json:"text"`
	Found    bool   `json:"found"`
	ApptTime string `json:"apptTime,omitempty"`
}

// SanitizeResponse is the body of GET /api/v1/travel/sanitize.
type SanitizeResponse struct {
	Destination string `json:"destination"`
	Sanitized   string `json:"sanitized"`
	Resolved    bool   `json:"resolved"`
}

// IntentResponse is the body of GET /api/v1/travel/intent.
type IntentResponse struct {
	intent.Result
	ApptTimePresent bool     `json:"apptTimePresent"`
	ApptTime        string   `json:"apptTime,omitempty"`
	ApptTimeSource  string   `json:"apptTimeSource,omitempty"`
	Restaurants     []string `json:"restaurants,omitempty"`
	Warnings        []string `json:"warnings"`
}

// MatrixResponse is the body of GET /api/v1/travel/matrix.
type MatrixResponse struct {
	Status string `json:"status"`
	routing.Estimate
}

// Evaluate runs the full pipeline over deep-link parameters.
// GET /api/v1/travel/evaluate
func (s *APIV1Service) Evaluate(c echo.Context) error {
	q := query.Parse(c.QueryParams())
	if q.Origin == "" && q.Destination == "" {
		return apierrors.InvalidArgument("origin or destination is required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), s.Profile.RequestTimeout)
	defer cancel()

	result, err := s.TravelService.Evaluate(ctx, q, s.now())
	if err != nil {
		return serviceError(err, "evaluation failed")
	}

	if reqCtx, ok := observability.FromContext(c.Request().Context()); ok {
		reqCtx.Debug("travel evaluated",
			observability.IntentAttr(result.Intent.Intent),
		)
	}
	return c.JSON(http.StatusOK, result)
}

// Resolve resolves a free-text appointment phrase.
// GET /api/v1/travel/resolve?text=
func (s *APIV1Service) Resolve(c echo.Context) error {
	text := strings.TrimSpace(c.QueryParam("text"))
	if text == "" {
		return apierrors.InvalidArgument("text is required")
	}

	resp := ResolveResponse{Text: text}
	if t, ok := s.TravelService.Resolve(c.Request().Context(), text, s.now()); ok {
		resp.Found = true
		resp.ApptTime = apptime.FormatISO(t)
	}
	return c.JSON(http.StatusOK, resp)
}

// Sanitize extracts the routable address from a destination.
// The destination counts as resolved when apptTime is given or a time is found in it.
// GET /api/v1/travel/sanitize?destination=&apptTime=
func (s *APIV1Service) Sanitize(c echo.Context) error {
	dest := strings.TrimSpace(c.QueryParam("destination"))
	if dest == "" {
		return apierrors.InvalidArgument("destination is required")
	}

	resolved := strings.TrimSpace(c.QueryParam("apptTime")) != ""
	if !resolved {
		_, resolved = s.TravelService.Resolve(c.Request().Context(), dest, s.now())
	}

	return c.JSON(http.StatusOK, SanitizeResponse{
		Destination: dest,
		Sanitized:   destination.Sanitize(dest, resolved),
		Resolved:    resolved,
	})
}

// Intent classifies a travel query without estimating or planning.
// GET /api/v1/travel/intent?origin=&destination=&intent=&cuisine=&apptTime=
func (s *APIV1Service) Intent(c echo.Context) error {
	q := query.Parse(c.QueryParams())
	if q.Origin == "" && q.Destination == "" {
		return apierrors.InvalidArgument("origin or destination is required")
	}

	cls, err := s.TravelService.Classify(c.Request().Context(), q, s.now())
	if err != nil {
		return serviceError(err, "classification failed")
	}

	return c.JSON(http.StatusOK, IntentResponse{
		Result:          cls.Intent,
		ApptTimePresent: cls.ApptTimeISO != "",
		ApptTime:        cls.ApptTimeISO,
		ApptTimeSource:  cls.ApptTimeSource,
		Restaurants:     cls.Restaurants,
		Warnings:        append(append([]string{}, q.Warnings...), cls.Warnings...),
	})
}

// Matrix looks up a single origin/destination travel estimate.
// Provider failures are answered with 502.
// GET /api/v1/travel/matrix?origin=&destination=&mode=&lang=
func (s *APIV1Service) Matrix(c echo.Context) error {
	q := query.Parse(c.QueryParams())
	if !q.HasRoute() {
		return apierrors.InvalidArgument(routing.ErrMissingEndpoint.Error())
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), s.Profile.RequestTimeout)
	defer cancel()

	est, err := s.TravelService.Estimate(ctx, routing.Request{
		Origin:      q.Origin,
		Destination: q.Destination,
		Mode:        q.Mode,
		Language:    q.Language,
	})
	if err != nil {
		apiErr := serviceError(err, "estimate failed")
		if apierrors.IsCode(apiErr, apierrors.ErrCodeUpstreamUnavailable) {
			apiErr.WithContext("mode", q.Mode)
		}
		return apiErr
	}
	return c.JSON(http.StatusOK, MatrixResponse{Status: "OK", Estimate: est})
}

// Plan computes a departure plan from an ISO-8601 appointment time.
// GET /api/v1/travel/plan?apptTime=&durationSec=&bufferMin=
func (s *APIV1Service) Plan(c echo.Context) error {
	duration, err := intParam(c, "durationSec", 0)
	if err != nil {
		return err
	}
	buffer, err := intParam(c, "bufferMin", query.DefaultBufferMinutes)
	if err != nil {
		return err
	}

	plan := s.TravelService.Plan(c.QueryParam("apptTime"), duration, query.ClampBuffer(buffer), s.now())
	if !plan.Valid {
		return apierrors.InvalidArgument(string(plan.Error))
	}
	return c.JSON(http.StatusOK, plan)
}

// intParam reads an optional integer query parameter.
func intParam(c echo.Context, name string, fallback int) (int, error) {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apierrors.InvalidArgument(name + " must be an integer").WithContext("value", raw)
	}
	return n, nil
}
