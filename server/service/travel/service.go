// Package travel composes the travel pipeline: appointment time resolution,
// destination cleanup, intent classification, travel estimation and departure planning.
package travel

import (
	"context"
	"log/slog"
	"time"

	"github.com/pkg/errors"

	"github.com/hrygo/traveltime/plugin/routing"
	"github.com/hrygo/traveltime/plugin/travel/apptime"
	"github.com/hrygo/traveltime/plugin/travel/departure"
	"github.com/hrygo/traveltime/plugin/travel/destination"
	"github.com/hrygo/traveltime/plugin/travel/intent"
	"github.com/hrygo/traveltime/plugin/travel/query"
	"github.com/hrygo/traveltime/plugin/travel/restaurants"
)

// Where an appointment time came from.
const (
	SourceExplicit    = "explicit"
	SourceDestination = "destination"
	SourceOrigin      = "origin"
)

// Estimate outcomes reported to the Recorder.
const (
	EstimateOK      = "ok"
	EstimateCached  = "cached"
	EstimateMock    = "mock"
	EstimateError   = "error"
	EstimateSkipped = "skipped"
)

// Warnings added by the pipeline on top of query warnings.
const (
	WarnInvalidApptTime = "Invalid apptTime ignored"
	WarnAppointmentOnly = "Origin or destination missing. Showing appointment plan only."
)

// Recorder receives pipeline outcomes. Implementations must be safe for concurrent use.
type Recorder interface {
	ObserveIntent(i intent.Intent)
	ObserveEstimate(result string)
	ObservePlan(p departure.Plan)
}

type noopRecorder struct{}

func (noopRecorder) ObserveIntent(intent.Intent) {}
func (noopRecorder) ObserveEstimate(string) {}
func (noopRecorder) ObservePlan(departure.Plan) {}

// Result is the outcome of one pipeline evaluation.
type Result struct {
	Query query.Query `json:"query"`
	// ApptTime is zero when no appointment time was resolved.
	ApptTime       time.Time         `json:"-"`
	ApptTimeISO    string            `json:"apptTime,omitempty"`
	ApptTimeSource string            `json:"apptTimeSource,omitempty"`
	Destination    string            `json:"destination"`
	Intent         intent.Result     `json:"intent"`
	Estimate       *routing.Estimate `json:"estimate,omitempty"`
	EstimateError  string            `json:"estimateError,omitempty"`
	Plan           *departure.Plan   `json:"plan,omitempty"`
	Restaurants    []string          `json:"restaurants,omitempty"`
	Warnings       []string          `json:"warnings"`
}

// Service runs the travel pipeline.
type Service struct {
	resolver  apptime.TimeResolver
	estimator routing.Estimator
	recorder  Recorder
	now       func() time.Time
}

// NewService creates a pipeline over the given resolver and estimator.
// A nil estimator disables travel estimation.
func NewService(resolver apptime.TimeResolver, estimator routing.Estimator) *Service {
	return &Service{
		resolver:  resolver,
		estimator: estimator,
		recorder:  noopRecorder{},
		now:       time.Now,
	}
}

// WithRecorder sets the outcome recorder.
func (s *Service) WithRecorder(r Recorder) *Service {
	if r == nil {
		r = noopRecorder{}
	}
	s.recorder = r
	return s
}

// WithClock sets the clock used when Evaluate is called with a zero now.
func (s *Service) WithClock(now func() time.Time) *Service {
	if now != nil {
		s.now = now
	}
	return s
}

// Evaluate runs the whole pipeline for q. A zero now means the service clock.
// Estimation failures are reported on the result, not returned.
func (s *Service) Evaluate(ctx context.Context, q query.Query, now time.Time) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if now.IsZero() {
		now = s.now()
	}

	res := &Result{
		Query:    q,
		Warnings: append([]string{}, q.Warnings...),
	}

	// Steps 1-3: appointment time, destination cleanup, intent
	cls := s.classify(ctx, q, now)
	res.ApptTime, res.ApptTimeISO, res.ApptTimeSource = cls.ApptTime, cls.ApptTimeISO, cls.ApptTimeSource
	res.Destination = cls.Destination
	res.Intent = cls.Intent
	res.Warnings = append(res.Warnings, cls.Warnings...)
	found := !res.ApptTime.IsZero()
	s.recorder.ObserveIntent(res.Intent.Intent)

	// Step 4: travel estimate
	durationSeconds := 0
	if q.Origin != "" && res.Destination != "" && s.estimator != nil {
		est, err := s.estimator.Estimate(ctx, routing.Request{
			Origin:      q.Origin,
			Destination: res.Destination,
			Mode:        q.Mode,
			Language:    q.Language,
		})
		if err != nil {
			slog.Warn("travel estimate failed",
				slog.String("mode", q.Mode),
				slog.String("error", err.Error()),
			)
			res.EstimateError = err.Error()
			s.recorder.ObserveEstimate(EstimateError)
		} else {
			res.Estimate = &est
			durationSeconds = est.EffectiveSeconds()
			s.recorder.ObserveEstimate(estimateOutcome(est))
		}
	} else {
		s.recorder.ObserveEstimate(EstimateSkipped)
	}

	// Step 5: departure plan
	if res.Intent.IsAppointment() {
		var plan departure.Plan
		switch {
		case found:
			plan = departure.ComputeAt(res.ApptTime, durationSeconds, q.BufferMinutes, now)
		case cls.explicitInvalid:
			plan = departure.Plan{Error: departure.ErrInvalidTime}
		default:
			plan = departure.Plan{Error: departure.ErrMissingTime}
		}
		res.Plan = &plan
		s.recorder.ObservePlan(plan)
	}

	// Step 6: food suggestions
	if res.Intent.IsNearbyFood() {
		res.Restaurants = restaurants.Suggest(res.Intent.Cuisine)
	}

	return res, nil
}

// Classification is the time resolution, destination cleanup and intent of a query,
// without travel estimation or planning.
type Classification struct {
	// ApptTime is zero when no appointment time was resolved.
	ApptTime       time.Time     `json:"-"`
	ApptTimeISO    string        `json:"apptTime,omitempty"`
	ApptTimeSource string        `json:"apptTimeSource,omitempty"`
	Destination    string        `json:"destination"`
	Intent         intent.Result `json:"intent"`
	Restaurants    []string      `json:"restaurants,omitempty"`
	// Warnings holds pipeline warnings only; query warnings stay on the Query.
	Warnings []string `json:"warnings"`

	explicitInvalid bool
}

// Classify resolves the appointment time and intent of q the same way Evaluate does.
func (s *Service) Classify(ctx context.Context, q query.Query, now time.Time) (*Classification, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if now.IsZero() {
		now = s.now()
	}
	cls := s.classify(ctx, q, now)
	s.recorder.ObserveIntent(cls.Intent.Intent)
	if cls.Intent.IsNearbyFood() {
		cls.Restaurants = restaurants.Suggest(cls.Intent.Cuisine)
	}
	return cls, nil
}

// classify picks the appointment time from the explicit value, then the
// destination, then the origin, and classifies the raw query text.
func (s *Service) classify(ctx context.Context, q query.Query, now time.Time) *Classification {
	cls := &Classification{Warnings: []string{}}

	if q.ApptTime != "" {
		if t, ok := s.resolver.Normalize(ctx, q.ApptTime, now); ok {
			cls.ApptTime, cls.ApptTimeSource = t, SourceExplicit
		} else {
			cls.explicitInvalid = true
			cls.Warnings = append(cls.Warnings, WarnInvalidApptTime)
		}
	}
	if cls.ApptTime.IsZero() && q.Destination != "" {
		if t, ok := s.resolver.Resolve(ctx, q.Destination, now); ok {
			cls.ApptTime, cls.ApptTimeSource = t, SourceDestination
		}
	}
	if cls.ApptTime.IsZero() && q.Origin != "" {
		if t, ok := s.resolver.Resolve(ctx, q.Origin, now); ok {
			cls.ApptTime, cls.ApptTimeSource = t, SourceOrigin
		}
	}
	found := !cls.ApptTime.IsZero()
	if found {
		cls.ApptTimeISO = apptime.FormatISO(cls.ApptTime)
	}

	cls.Destination = destination.Sanitize(q.Destination, found)

	cls.Intent = intent.Classify(intent.Input{
		Origin:          q.Origin,
		Destination:     q.Destination,
		ExplicitIntent:  q.Intent,
		ExplicitCuisine: q.Cuisine,
		ApptTimePresent: found,
	})
	// Appointment-only mode.
	if found && !q.HasRoute() {
		cls.Intent = intent.Result{Intent: intent.AppointmentLeaveTime}
		cls.Warnings = append(cls.Warnings, WarnAppointmentOnly)
	}
	return cls
}

// Estimate runs only the routing step. Unlike Evaluate, failures are returned.
func (s *Service) Estimate(ctx context.Context, req routing.Request) (routing.Estimate, error) {
	if s.estimator == nil {
		return routing.Estimate{}, errors.Wrap(routing.ErrProvider, "no routing provider configured")
	}
	est, err := s.estimator.Estimate(ctx, req)
	if err != nil {
		s.recorder.ObserveEstimate(EstimateError)
		return routing.Estimate{}, err
	}
	s.recorder.ObserveEstimate(estimateOutcome(est))
	return est, nil
}

// Resolve runs only the appointment time resolver.
func (s *Service) Resolve(ctx context.Context, text string, now time.Time) (time.Time, bool) {
	if now.IsZero() {
		now = s.now()
	}
	return s.resolver.Resolve(ctx, text, now)
}

// Normalize resolves an ISO-8601 timestamp or a free-text phrase.
func (s *Service) Normalize(ctx context.Context, input string, now time.Time) (time.Time, bool) {
	if now.IsZero() {
		now = s.now()
	}
	return s.resolver.Normalize(ctx, input, now)
}

// Plan runs only the departure planner over an ISO-8601 appointment time.
func (s *Service) Plan(apptTime string, durationSeconds, bufferMinutes int, now time.Time) departure.Plan {
	if now.IsZero() {
		now = s.now()
	}
	plan := departure.Compute(apptTime, durationSeconds, bufferMinutes, now)
	s.recorder.ObservePlan(plan)
	return plan
}

func estimateOutcome(est routing.Estimate) string {
	switch {
	case est.Cached:
		return EstimateCached
	case est.Mock:
		return EstimateMock
	default:
		return EstimateOK
	}
}
